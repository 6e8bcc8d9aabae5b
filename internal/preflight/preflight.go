package preflight

import (
	"context"
	"strings"

	"vidgrab/internal/config"
	"vidgrab/internal/deps"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name     string `json:"name"`
	Passed   bool   `json:"passed"`
	Optional bool   `json:"optional,omitempty"`
	Detail   string `json:"detail"`
}

// RunAll executes every preflight check for a download into dest. An empty
// dest skips the destination check.
func RunAll(ctx context.Context, cfg *config.Config, dest string) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	if strings.TrimSpace(dest) != "" {
		results = append(results, CheckDirectoryAccess("Destination", dest))
	}

	statuses := CheckSystemDeps(cfg)
	ffmpegReady := false
	for _, status := range statuses {
		results = append(results, fromStatus(status))
		if status.Name == "FFmpeg" && status.Available {
			ffmpegReady = true
		}
	}

	if ffmpegReady {
		results = append(results, CheckEncoder(ctx, cfg.FFmpegBinary(), cfg.Encoding.VideoCodec))
	} else {
		results = append(results, Result{
			Name:   "Encoder " + cfg.Encoding.VideoCodec,
			Detail: "skipped (ffmpeg unavailable)",
		})
	}

	return results
}

// Failed returns the required checks that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, result := range results {
		if !result.Passed && !result.Optional {
			failed = append(failed, result)
		}
	}
	return failed
}

func fromStatus(status deps.Status) Result {
	result := Result{Name: status.Name, Passed: status.Available, Optional: status.Optional}
	if status.Available {
		result.Detail = status.Command
	} else {
		result.Detail = status.Detail
	}
	return result
}
