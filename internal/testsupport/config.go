// Package testsupport builds throwaway configs and stub executables for tests.
package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"vidgrab/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// The download directory is created; the tools and log directories are not.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DownloadDir = filepath.Join(base, "downloads")
	cfgVal.Paths.ToolsDir = filepath.Join(base, "tools")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Bootstrap.FFmpegURL = ""
	if err := os.MkdirAll(cfgVal.Paths.DownloadDir, 0o755); err != nil {
		t.Fatalf("mkdir download dir: %v", err)
	}

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithFFmpegURL sets the archive the bootstrapper downloads ffmpeg from.
func WithFFmpegURL(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Bootstrap.FFmpegURL = url
	}
}

// WithStubbedBinaries writes stub executables for the provided names and
// prepends them to PATH. If names is empty, yt-dlp, ffmpeg and ffprobe are
// stubbed.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		if len(names) == 0 {
			names = []string{"yt-dlp", "ffmpeg", "ffprobe"}
		}
		for _, name := range names {
			b.writeStub(name, "exit 0\n")
		}
	}
}

// WithStubScript writes a stub executable whose body is the given shell
// script and prepends its directory to PATH.
func WithStubScript(name, body string) ConfigOption {
	return func(b *configBuilder) {
		b.writeStub(name, body)
	}
}

// WithIsolatedPath replaces PATH with the stub directory alone, hiding any
// real tools installed on the host. Stubs must stick to shell builtins.
func WithIsolatedPath() ConfigOption {
	return func(b *configBuilder) {
		if err := os.MkdirAll(b.binDir(), 0o755); err != nil {
			b.t.Fatalf("mkdir bin dir: %v", err)
		}
		b.t.Setenv("PATH", b.binDir())
	}
}

func (b *configBuilder) binDir() string {
	return filepath.Join(b.baseDir, "bin")
}

func (b *configBuilder) writeStub(name, body string) {
	binDir := b.binDir()
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		b.t.Fatalf("mkdir bin dir: %v", err)
	}
	target := filepath.Join(binDir, name)
	if err := os.WriteFile(target, []byte("#!/bin/sh\n"+body), 0o755); err != nil {
		b.t.Fatalf("write stub %s: %v", name, err)
	}

	oldPath := os.Getenv("PATH")
	if err := os.Setenv("PATH", binDir+string(os.PathListSeparator)+oldPath); err != nil {
		b.t.Fatalf("set PATH: %v", err)
	}
	b.t.Cleanup(func() {
		_ = os.Setenv("PATH", oldPath)
	})
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DownloadDir)
}

// BinDir returns the directory stub executables are written to.
func BinDir(cfg *config.Config) string {
	return filepath.Join(BaseDir(cfg), "bin")
}
