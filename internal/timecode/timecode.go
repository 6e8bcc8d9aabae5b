package timecode

import (
	"fmt"
	"strconv"
	"strings"
)

const maxSegments = 3

// FormatError reports a timecode that is not one to three numeric segments.
type FormatError struct {
	Input  string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid timecode %q: %s", e.Input, e.Reason)
}

// RangeError reports a window whose end is not after its start.
type RangeError struct {
	Start string
	End   string
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("invalid time range %s-%s: end must come after start", e.Start, e.End)
}

// Window is a canonical clip window.
type Window struct {
	Start string
	End   string
}

// String renders the window in the "start-end" form ParseRange accepts.
func (w Window) String() string {
	return w.Start + "-" + w.End
}

// ParseTime canonicalizes a single timecode: every segment is rendered as a
// decimal number of at least two digits. Segments are not carried, so "61"
// stays "61".
func ParseTime(s string) (string, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return "", &FormatError{Input: s, Reason: "empty"}
	}
	parts := strings.Split(trimmed, ":")
	if len(parts) > maxSegments {
		return "", &FormatError{Input: s, Reason: fmt.Sprintf("%d segments, expected 1 to %d", len(parts), maxSegments)}
	}
	for i, part := range parts {
		if !isDigits(part) {
			return "", &FormatError{Input: s, Reason: fmt.Sprintf("segment %q is not numeric", part)}
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return "", &FormatError{Input: s, Reason: err.Error()}
		}
		parts[i] = fmt.Sprintf("%02d", n)
	}
	return strings.Join(parts, ":"), nil
}

// ParseRange parses "start-end" into a Window. A leading "*", as in yt-dlp
// section strings, is ignored.
func ParseRange(s string) (Window, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(s), "*")
	startRaw, endRaw, ok := strings.Cut(trimmed, "-")
	if !ok || strings.Contains(endRaw, "-") {
		return Window{}, &FormatError{Input: s, Reason: "expected start-end"}
	}
	start, err := ParseTime(startRaw)
	if err != nil {
		return Window{}, err
	}
	end, err := ParseTime(endRaw)
	if err != nil {
		return Window{}, err
	}
	startSec, err := Seconds(start)
	if err != nil {
		return Window{}, err
	}
	endSec, err := Seconds(end)
	if err != nil {
		return Window{}, err
	}
	if endSec <= startSec {
		return Window{}, &RangeError{Start: start, End: end}
	}
	return Window{Start: start, End: end}, nil
}

// Seconds returns the total number of seconds a timecode denotes. Overflowing
// segments are counted as written.
func Seconds(code string) (int, error) {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return 0, &FormatError{Input: code, Reason: "empty"}
	}
	parts := strings.Split(trimmed, ":")
	if len(parts) > maxSegments {
		return 0, &FormatError{Input: code, Reason: fmt.Sprintf("%d segments, expected 1 to %d", len(parts), maxSegments)}
	}
	total := 0
	for _, part := range parts {
		if !isDigits(part) {
			return 0, &FormatError{Input: code, Reason: fmt.Sprintf("segment %q is not numeric", part)}
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return 0, &FormatError{Input: code, Reason: err.Error()}
		}
		total = total*60 + n
	}
	return total, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
