package ytdlp

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// mtimeSlack absorbs coarse filesystem timestamps.
const mtimeSlack = 2 * time.Second

// ErrOutputNotFound is returned when no file matching the container appeared.
var ErrOutputNotFound = errors.New("downloaded file not found")

// LocateOutput returns the newest file in dir with the container extension
// modified at or after since. Partial downloads (.part, .ytdl) never match.
func LocateOutput(dir, container string, since time.Time) (string, error) {
	ext := "." + strings.TrimPrefix(strings.ToLower(strings.TrimSpace(container)), ".")
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("scan destination: %w", err)
	}

	threshold := since.Add(-mtimeSlack)
	var (
		best     string
		bestTime time.Time
	)
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		if !strings.EqualFold(filepath.Ext(entry.Name()), ext) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		mod := info.ModTime()
		if mod.Before(threshold) {
			continue
		}
		if best == "" || mod.After(bestTime) {
			best = filepath.Join(dir, entry.Name())
			bestTime = mod
		}
	}
	if best == "" {
		return "", fmt.Errorf("%w: no new %s file in %s", ErrOutputNotFound, ext, dir)
	}
	return best, nil
}
