// Package main hosts the vidgrab CLI entrypoint and command graph.
//
// The Cobra-based command tree gathers a download request from flags and
// terminal prompts, assembles the yt-dlp invocation with its ffmpeg transcode
// arguments, and runs it after making sure the toolchain is installed. It
// also exposes the quality tier table, toolchain diagnostics, and
// configuration scaffolding.
//
// Keep this package lean: request validation, argument assembly, and tool
// execution live in the internal packages. Commands here only collect input
// and render results.
package main
