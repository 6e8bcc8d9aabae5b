package deps

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// PrependPath puts dir at the front of the process PATH so child processes
// resolve bootstrapped tools first. It is a no-op when dir is already first.
func PrependPath(dir string) error {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil
	}
	current := os.Getenv("PATH")
	entries := filepath.SplitList(current)
	if len(entries) > 0 && samePath(entries[0], dir) {
		return nil
	}
	kept := make([]string, 0, len(entries)+1)
	kept = append(kept, dir)
	for _, entry := range entries {
		if entry == "" || samePath(entry, dir) {
			continue
		}
		kept = append(kept, entry)
	}
	return os.Setenv("PATH", strings.Join(kept, string(os.PathListSeparator)))
}

// InstalledIn reports whether an executable named name exists in dir.
func InstalledIn(dir, name string) bool {
	if strings.TrimSpace(dir) == "" {
		return false
	}
	info, err := os.Stat(filepath.Join(dir, name))
	if err != nil {
		return false
	}
	return isExecutable(info)
}

func samePath(a, b string) bool {
	a, b = filepath.Clean(a), filepath.Clean(b)
	if runtime.GOOS == "windows" {
		return strings.EqualFold(a, b)
	}
	return a == b
}

func isExecutable(info os.FileInfo) bool {
	if info == nil {
		return false
	}
	if info.IsDir() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode().Perm()&0o111 != 0
}
