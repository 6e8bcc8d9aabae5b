package bootstrap

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/gofrs/flock"

	"vidgrab/internal/logging"
	"vidgrab/internal/testsupport"
)

func ffmpegZip(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range []string{
		"ffmpeg-master-latest/bin/ffmpeg",
		"ffmpeg-master-latest/bin/ffprobe",
		"ffmpeg-master-latest/doc/README.txt",
	} {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte("#!/bin/sh\nexit 0\n")); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func fakeYtDlpSource(t *testing.T) func(context.Context) (string, error) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "yt-dlp-cached")
	if err := os.WriteFile(path, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	return func(context.Context) (string, error) { return path, nil }
}

func TestEnsureNothingMissing(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries(), testsupport.WithIsolatedPath())

	called := false
	report, err := New(cfg, logging.NewNop()).Ensure(context.Background(), func(string) (bool, error) {
		called = true
		return true, nil
	})
	if err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	if called {
		t.Fatal("confirm should not be asked when nothing is missing")
	}
	if len(report.Present) != 3 || len(report.Installed) != 0 {
		t.Fatalf("unexpected report %+v", report)
	}
	if got := filepath.SplitList(os.Getenv("PATH"))[0]; got != cfg.Paths.ToolsDir {
		t.Fatalf("tools dir not first on PATH: %s", got)
	}
}

func TestEnsureInstallsFromArchive(t *testing.T) {
	archive := ffmpegZip(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ffmpeg.zip" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(archive)
	}))
	defer srv.Close()

	cfg := testsupport.NewConfig(t, testsupport.WithFFmpegURL(srv.URL+"/ffmpeg.zip"), testsupport.WithIsolatedPath())

	var asked []string
	installer := New(cfg, logging.NewNop(), WithYtDlpSource(fakeYtDlpSource(t)), WithHTTPClient(srv.Client()))
	report, err := installer.Ensure(context.Background(), func(tool string) (bool, error) {
		asked = append(asked, tool)
		return true, nil
	})
	if err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	if !slices.Equal(asked, []string{ToolYtDlp, ToolFFmpeg}) {
		t.Fatalf("unexpected confirmations %v", asked)
	}
	if !slices.Equal(report.Installed, []string{ToolYtDlp, ToolFFmpeg}) {
		t.Fatalf("unexpected installed list %v", report.Installed)
	}
	for _, name := range []string{"yt-dlp", "ffmpeg", "ffprobe"} {
		info, err := os.Stat(filepath.Join(cfg.Paths.ToolsDir, name))
		if err != nil {
			t.Fatalf("%s not installed: %v", name, err)
		}
		if info.Mode().Perm()&0o111 == 0 {
			t.Fatalf("%s is not executable", name)
		}
	}
	entries, err := os.ReadDir(cfg.Paths.ToolsDir)
	if err != nil {
		t.Fatal(err)
	}
	for _, entry := range entries {
		switch entry.Name() {
		case "yt-dlp", "ffmpeg", "ffprobe", lockFileName:
		default:
			t.Fatalf("leftover file in tools dir: %s", entry.Name())
		}
	}
}

func TestEnsureDeclined(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries("ffmpeg", "ffprobe"), testsupport.WithIsolatedPath())
	installer := New(cfg, logging.NewNop(), WithYtDlpSource(fakeYtDlpSource(t)))

	_, err := installer.Ensure(context.Background(), func(string) (bool, error) { return false, nil })
	if !errors.Is(err, ErrDeclined) {
		t.Fatalf("expected ErrDeclined, got %v", err)
	}
	if _, statErr := os.Stat(filepath.Join(cfg.Paths.ToolsDir, "yt-dlp")); !os.IsNotExist(statErr) {
		t.Fatal("declined tool should not be installed")
	}
}

func TestEnsureLocked(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithIsolatedPath())
	if err := os.MkdirAll(cfg.Paths.ToolsDir, 0o755); err != nil {
		t.Fatal(err)
	}
	held := flock.New(filepath.Join(cfg.Paths.ToolsDir, lockFileName))
	ok, err := held.TryLock()
	if err != nil || !ok {
		t.Fatalf("pre-lock: %v %v", ok, err)
	}
	defer held.Unlock()

	_, err = New(cfg, logging.NewNop(), WithYtDlpSource(fakeYtDlpSource(t))).Ensure(context.Background(), AlwaysConfirm)
	if !errors.Is(err, ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}
}

func TestDownloadRejectsHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	cfg := testsupport.NewConfig(t, testsupport.WithFFmpegURL(srv.URL+"/ffmpeg.tar.xz"))
	if err := os.MkdirAll(cfg.Paths.ToolsDir, 0o755); err != nil {
		t.Fatal(err)
	}
	installer := New(cfg, logging.NewNop(), WithHTTPClient(srv.Client()))
	if err := installer.installFromArchive(context.Background(), cfg.Bootstrap.FFmpegURL); err == nil {
		t.Fatal("expected error for 404")
	}
}

func TestArchiveKind(t *testing.T) {
	tests := map[string]string{
		"https://example.com/a/ffmpeg.zip":          ".zip",
		"https://example.com/ffmpeg-linux64.tar.xz": ".tar.xz",
		"https://example.com/FFMPEG.ZIP?x=1":        ".zip",
	}
	for in, want := range tests {
		got, err := archiveKind(in)
		if err != nil || got != want {
			t.Fatalf("archiveKind(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := archiveKind("https://example.com/ffmpeg.7z"); err == nil {
		t.Fatal("expected error for .7z")
	}
}
