package preflight_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"vidgrab/internal/preflight"
	"vidgrab/internal/testsupport"
)

const encodersOutput = `printf '%s\n' \
  'Encoders:' \
  ' V..... = Video' \
  ' ------' \
  ' V....D libx264              libx264 H.264 / AVC / MPEG-4 AVC' \
  ' V....D hevc_nvenc           NVIDIA NVENC hevc encoder (codec hevc)' \
  ' A....D flac                 FLAC (Free Lossless Audio Codec)'
`

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := preflight.CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := preflight.CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if !strings.Contains(result.Detail, "does not exist") {
		t.Fatalf("unexpected detail %q", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := preflight.CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckEncoder(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubScript("ffmpeg", encodersOutput))
	ffmpeg := filepath.Join(testsupport.BinDir(cfg), "ffmpeg")

	result := preflight.CheckEncoder(context.Background(), ffmpeg, "hevc_nvenc")
	if !result.Passed {
		t.Fatalf("expected hevc_nvenc to be found, got %q", result.Detail)
	}

	result = preflight.CheckEncoder(context.Background(), ffmpeg, "av1_nvenc")
	if result.Passed {
		t.Fatal("expected av1_nvenc to be missing")
	}
	if !strings.Contains(result.Detail, "does not include av1_nvenc") {
		t.Fatalf("unexpected detail %q", result.Detail)
	}

	// A codec name appearing only in a description column must not match.
	result = preflight.CheckEncoder(context.Background(), ffmpeg, "hevc")
	if result.Passed {
		t.Fatal("description text should not count as an encoder")
	}
}

func TestCheckEncoderFailingBinary(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubScript("ffmpeg", "exit 3\n"))
	result := preflight.CheckEncoder(context.Background(), filepath.Join(testsupport.BinDir(cfg), "ffmpeg"), "hevc_nvenc")
	if result.Passed {
		t.Fatal("expected failure when ffmpeg exits non-zero")
	}
}

func TestRunAllReady(t *testing.T) {
	cfg := testsupport.NewConfig(t,
		testsupport.WithStubbedBinaries("yt-dlp", "ffprobe"),
		testsupport.WithStubScript("ffmpeg", encodersOutput),
		testsupport.WithIsolatedPath(),
	)

	results := preflight.RunAll(context.Background(), cfg, cfg.Paths.DownloadDir)
	if len(results) != 5 {
		t.Fatalf("expected 5 results, got %d: %+v", len(results), results)
	}
	if failed := preflight.Failed(results); len(failed) != 0 {
		t.Fatalf("unexpected failures: %+v", failed)
	}
}

func TestRunAllMissingTools(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries("yt-dlp"), testsupport.WithIsolatedPath())

	results := preflight.RunAll(context.Background(), cfg, filepath.Join(t.TempDir(), "missing"))
	failed := preflight.Failed(results)
	names := make([]string, 0, len(failed))
	for _, r := range failed {
		names = append(names, r.Name)
	}
	joined := strings.Join(names, ",")
	for _, want := range []string{"Destination", "FFmpeg", "Encoder hevc_nvenc"} {
		if !strings.Contains(joined, want) {
			t.Fatalf("expected %s to fail, failed set: %s", want, joined)
		}
	}
	if strings.Contains(joined, "FFprobe") {
		t.Fatalf("optional ffprobe should not be reported as failed: %s", joined)
	}
}
