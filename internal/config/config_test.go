package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"vidgrab/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("XDG_DATA_HOME", "")
	t.Chdir(tempHome)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	if want := filepath.Join(tempHome, "Videos"); cfg.Paths.DownloadDir != want {
		t.Fatalf("unexpected download dir: got %q want %q", cfg.Paths.DownloadDir, want)
	}
	if want := filepath.Join(tempHome, ".local", "share", "vidgrab", "bin"); cfg.Paths.ToolsDir != want {
		t.Fatalf("unexpected tools dir: got %q want %q", cfg.Paths.ToolsDir, want)
	}
	if cfg.Download.Container != "mp4" {
		t.Fatalf("expected mp4 container, got %q", cfg.Download.Container)
	}
	if !cfg.Download.RestrictFilenames {
		t.Fatal("expected restricted filenames by default")
	}
	if cfg.Download.Format != "bestvideo+bestaudio/best" {
		t.Fatalf("unexpected format selector: %q", cfg.Download.Format)
	}
	if cfg.Encoding.VideoCodec != "hevc_nvenc" {
		t.Fatalf("unexpected video codec: %q", cfg.Encoding.VideoCodec)
	}
	if cfg.Encoding.SharpenFilter == "" {
		t.Fatal("expected sharpen filter default")
	}
	if cfg.Bootstrap.AutoInstall {
		t.Fatal("expected auto install disabled by default")
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.ToolsDir, cfg.Paths.LogDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
	if _, err := os.Stat(cfg.Paths.DownloadDir); !os.IsNotExist(err) {
		t.Fatalf("download dir must not be created implicitly, stat err=%v", err)
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "vidgrab.toml")

	type payload struct {
		Paths struct {
			DownloadDir string `toml:"download_dir"`
			ToolsDir    string `toml:"tools_dir"`
		} `toml:"paths"`
		Download struct {
			Container string `toml:"container"`
			Thumbnail bool   `toml:"thumbnail"`
		} `toml:"download"`
		Encoding struct {
			VideoCodec string `toml:"video_codec"`
		} `toml:"encoding"`
		Logging struct {
			Format string `toml:"format"`
			Level  string `toml:"level"`
		} `toml:"logging"`
	}
	custom := payload{}
	custom.Paths.DownloadDir = filepath.Join(tempDir, "videos")
	custom.Paths.ToolsDir = filepath.Join(tempDir, "tools")
	custom.Download.Container = " MKV "
	custom.Download.Thumbnail = true
	custom.Encoding.VideoCodec = "hevc_qsv"
	custom.Logging.Format = "JSON"
	custom.Logging.Level = "DEBUG"

	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to exist")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: %q", resolved)
	}
	if cfg.Paths.DownloadDir != custom.Paths.DownloadDir {
		t.Fatalf("unexpected download dir: %q", cfg.Paths.DownloadDir)
	}
	if cfg.Download.Container != "mkv" {
		t.Fatalf("expected container normalized to mkv, got %q", cfg.Download.Container)
	}
	if !cfg.Download.Thumbnail {
		t.Fatal("expected thumbnail enabled")
	}
	if cfg.Encoding.VideoCodec != "hevc_qsv" {
		t.Fatalf("unexpected codec: %q", cfg.Encoding.VideoCodec)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("unexpected logging config: %+v", cfg.Logging)
	}
	if cfg.Download.Postprocessor != config.Default().Download.Postprocessor {
		t.Fatalf("expected default postprocessor, got %q", cfg.Download.Postprocessor)
	}
}

func TestLoadEnvOverridesDownloadDir(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("VIDGRAB_DOWNLOAD_DIR", "~/clips")
	t.Setenv("VIDGRAB_TOOLS_DIR", filepath.Join(tempHome, "bin"))

	cfg, _, _, err := config.Load(filepath.Join(tempHome, "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if want := filepath.Join(tempHome, "clips"); cfg.Paths.DownloadDir != want {
		t.Fatalf("download dir = %q, want %q", cfg.Paths.DownloadDir, want)
	}
	if want := filepath.Join(tempHome, "bin"); cfg.Paths.ToolsDir != want {
		t.Fatalf("tools dir = %q, want %q", cfg.Paths.ToolsDir, want)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := []struct {
		name    string
		body    string
		wantErr string
	}{
		{name: "container", body: "[download]\ncontainer = \"avi\"\n", wantErr: "download.container"},
		{name: "default quality", body: "[download]\ndefault_quality = \"ultra\"\n", wantErr: "download.default_quality"},
		{name: "postprocessor", body: "[download]\npostprocessor = \"Merger:ffmpeg\"\n", wantErr: "download.postprocessor"},
		{name: "ffmpeg url scheme", body: "[bootstrap]\nffmpeg_url = \"ftp://example.com/ffmpeg.zip\"\n", wantErr: "bootstrap.ffmpeg_url"},
		{name: "ffmpeg url archive", body: "[bootstrap]\nffmpeg_url = \"https://example.com/ffmpeg.7z\"\n", wantErr: "bootstrap.ffmpeg_url"},
		{name: "log level", body: "[logging]\nlevel = \"verbose\"\n", wantErr: "logging.level"},
		{name: "unknown key", body: "[download]\nquality = \"best\"\n", wantErr: "parse config"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("HOME", t.TempDir())
			path := filepath.Join(t.TempDir(), "vidgrab.toml")
			if err := os.WriteFile(path, []byte(tc.body), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			_, _, _, err := config.Load(path)
			if err == nil {
				t.Fatalf("expected error containing %q", tc.wantErr)
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("error %q does not mention %q", err, tc.wantErr)
			}
		})
	}
}

func TestSampleConfigLoads(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("sample config failed to load: %v", err)
	}
	if !exists {
		t.Fatal("expected sample config to exist")
	}
	if cfg.Download.DefaultQuality != "native" {
		t.Fatalf("unexpected default quality: %q", cfg.Download.DefaultQuality)
	}
}

func TestDefaultFFmpegURL(t *testing.T) {
	if url := config.DefaultFFmpegURL("linux", "amd64"); !strings.HasSuffix(url, "linux64-gpl.tar.xz") {
		t.Fatalf("unexpected linux url: %q", url)
	}
	if url := config.DefaultFFmpegURL("windows", "amd64"); !strings.HasSuffix(url, "win64-gpl.zip") {
		t.Fatalf("unexpected windows url: %q", url)
	}
	if url := config.DefaultFFmpegURL("darwin", "arm64"); url != "" {
		t.Fatalf("expected no prebuilt archive for darwin, got %q", url)
	}
}
