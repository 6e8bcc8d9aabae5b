// Package preflight provides readiness checks for the filesystem paths and
// external tools a download depends on.
//
// These checks run in two contexts:
//   - The download command calls RunAll before starting yt-dlp. If a required
//     check fails, the run stops before any network traffic.
//   - The CLI "vidgrab doctor" command renders every result as a status line.
//
// The encoder check asks ffmpeg itself, so a build without NVENC support is
// caught before a long download finishes and fails in post-processing.
package preflight
