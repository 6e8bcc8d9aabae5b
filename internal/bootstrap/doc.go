// Package bootstrap installs the yt-dlp and ffmpeg toolchain into the tools
// directory.
//
// Ensure prepends the tools directory to the process PATH, checks which tools
// are missing, asks the caller before installing each one, and holds a file
// lock on the tools directory while installing so concurrent runs never write
// the same binary. yt-dlp comes from go-ytdlp's installer. ffmpeg and ffprobe
// come from the configured archive (BtbN builds by default) or, on platforms
// without one, from go-ytdlp's ffmpeg installer.
//
// Nothing outside the tools directory is modified: no elevation, no shell
// profile or registry edits.
package bootstrap
