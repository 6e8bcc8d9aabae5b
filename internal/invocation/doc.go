// Package invocation maps a download request onto the yt-dlp configuration
// and the ffmpeg flag vector yt-dlp hands to its post-processor.
//
// Build is a pure table lookup keyed by the effective quality level and the
// presence of a clip window. It performs no I/O, so the same Invocation drives
// a real run, a dry run, and the tier listing.
package invocation
