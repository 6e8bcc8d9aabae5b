// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// Key types:
//   - Result: parsed ffprobe output containing streams and format metadata
//   - Summary: the one-line report printed after a download finishes
//
// Inspect executes ffprobe and returns the parsed Result. Summarize reduces a
// Result to the fields a user checks after a transcode: resolution, codecs,
// pixel format, duration and size.
package ffprobe
