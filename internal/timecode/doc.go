// Package timecode parses the clip window a user asks to keep.
//
// Timecodes are written as hh:mm:ss, mm:ss, or ss. ParseTime zero-pads each
// segment to two digits without carrying overflow, so "61" stays "61" and the
// downstream tool interprets it as 61 seconds. ParseRange splits a
// "start-end" pair and rejects windows whose end does not come after the start.
package timecode
