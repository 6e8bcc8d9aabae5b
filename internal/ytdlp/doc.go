// Package ytdlp executes an assembled invocation through the go-ytdlp command
// builder.
//
// The Runner maps each Invocation field onto a builder flag, relays progress
// updates to the logger (sampled) and to a terminal progress bar, and finds
// the file yt-dlp produced once the post-processor finishes. Runs are never
// retried: a failing exit status is returned with the tail of yt-dlp's stderr.
package ytdlp
