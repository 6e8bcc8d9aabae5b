// Package request defines the per-run download request and its validation.
package request

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"vidgrab/internal/quality"
	"vidgrab/internal/timecode"
)

// ValidationError reports which field of a request was rejected.
type ValidationError struct {
	Field  string
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Field, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// DownloadRequest describes a single download, built from flags and prompts.
type DownloadRequest struct {
	URL         string
	Destination string
	// Window is nil when the whole video is kept.
	Window    *timecode.Window
	Thumbnail bool
	Level     quality.Level
	Mode      quality.PerformanceMode
}

// Validate checks the request before any tool runs.
func (r DownloadRequest) Validate() error {
	if err := validateURL(r.URL); err != nil {
		return err
	}
	if err := validateDestination(r.Destination); err != nil {
		return err
	}
	if r.Window != nil {
		if err := validateWindow(*r.Window); err != nil {
			return &ValidationError{Field: "range", Reason: "invalid time window", Err: err}
		}
	}
	if _, err := r.EffectiveLevel(); err != nil {
		return &ValidationError{Field: "quality", Reason: "invalid selection", Err: err}
	}
	return nil
}

// EffectiveLevel folds the performance mode into the selected level.
func (r DownloadRequest) EffectiveLevel() (quality.Level, error) {
	level := r.Level
	if level == "" {
		level = quality.Native
	}
	return quality.Resolve(level, r.Mode)
}

func validateURL(raw string) error {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return &ValidationError{Field: "url", Reason: "required"}
	}
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return &ValidationError{Field: "url", Reason: "unparseable", Err: err}
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return &ValidationError{Field: "url", Reason: "must be an http or https URL"}
	}
	if parsed.Host == "" {
		return &ValidationError{Field: "url", Reason: "missing host"}
	}
	return nil
}

func validateDestination(dir string) error {
	if strings.TrimSpace(dir) == "" {
		return &ValidationError{Field: "destination", Reason: "required"}
	}
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &ValidationError{Field: "destination", Reason: fmt.Sprintf("%s does not exist", dir), Err: err}
		}
		return &ValidationError{Field: "destination", Reason: "stat failed", Err: err}
	}
	if !info.IsDir() {
		return &ValidationError{Field: "destination", Reason: fmt.Sprintf("%s is not a directory", dir)}
	}
	return nil
}

func validateWindow(w timecode.Window) error {
	start, err := timecode.Seconds(w.Start)
	if err != nil {
		return err
	}
	end, err := timecode.Seconds(w.End)
	if err != nil {
		return err
	}
	if end <= start {
		return &timecode.RangeError{Start: w.Start, End: w.End}
	}
	return nil
}
