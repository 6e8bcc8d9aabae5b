package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	goytdlp "github.com/lrstanley/go-ytdlp"

	"vidgrab/internal/config"
	"vidgrab/internal/deps"
	"vidgrab/internal/fileutil"
	"vidgrab/internal/logging"
)

const lockFileName = ".install.lock"

// Tool names accepted by ConfirmFunc.
const (
	ToolYtDlp  = "yt-dlp"
	ToolFFmpeg = "ffmpeg"
)

// ErrDeclined is returned when the user refuses to install a required tool.
var ErrDeclined = errors.New("installation declined")

// ErrLocked is returned when another process holds the install lock.
var ErrLocked = errors.New("another vidgrab setup is already running")

// ConfirmFunc asks whether a missing tool may be installed.
type ConfirmFunc func(tool string) (bool, error)

// AlwaysConfirm approves every install.
func AlwaysConfirm(string) (bool, error) { return true, nil }

// Report summarizes what Ensure found and did.
type Report struct {
	ToolsDir  string   `json:"tools_dir"`
	Present   []string `json:"present"`
	Installed []string `json:"installed"`
}

// sourceFunc fetches a tool and returns the path of the fetched executable.
// The file at that path is copied, never moved, into the tools directory.
type sourceFunc func(ctx context.Context) (string, error)

// Installer ensures the toolchain is present.
type Installer struct {
	cfg         *config.Config
	logger      *slog.Logger
	client      *http.Client
	progressOut io.Writer
	ytdlpSource sourceFunc
	ffmpegFetch func(ctx context.Context) (ffmpegPath, ffprobePath string, err error)
}

// Option customizes an Installer.
type Option func(*Installer)

// WithHTTPClient overrides the client used for archive downloads.
func WithHTTPClient(client *http.Client) Option {
	return func(i *Installer) {
		if client != nil {
			i.client = client
		}
	}
}

// WithProgress renders download progress bars to w.
func WithProgress(w io.Writer) Option {
	return func(i *Installer) {
		i.progressOut = w
	}
}

// WithYtDlpSource replaces the go-ytdlp installer.
func WithYtDlpSource(fn func(ctx context.Context) (string, error)) Option {
	return func(i *Installer) {
		if fn != nil {
			i.ytdlpSource = fn
		}
	}
}

// New constructs an Installer for cfg.
func New(cfg *config.Config, logger *slog.Logger, opts ...Option) *Installer {
	i := &Installer{
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "bootstrap"),
		client: &http.Client{Timeout: 10 * time.Minute},
	}
	i.ytdlpSource = installYtDlpWithLibrary
	i.ffmpegFetch = i.fetchFFmpeg
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Ensure makes yt-dlp, ffmpeg and ffprobe resolvable from PATH, installing
// missing tools into the tools directory after confirm approves them.
func (i *Installer) Ensure(ctx context.Context, confirm ConfirmFunc) (Report, error) {
	if i.cfg == nil {
		return Report{}, errors.New("bootstrap: nil config")
	}
	if confirm == nil {
		confirm = AlwaysConfirm
	}
	toolsDir := i.cfg.Paths.ToolsDir
	report := Report{ToolsDir: toolsDir}

	if err := os.MkdirAll(toolsDir, 0o755); err != nil {
		return report, fmt.Errorf("create tools directory: %w", err)
	}
	if err := deps.PrependPath(toolsDir); err != nil {
		return report, fmt.Errorf("update PATH: %w", err)
	}

	needYtDlp, needFFmpeg := i.missing(&report)
	if !needYtDlp && !needFFmpeg {
		return report, nil
	}

	lock := flock.New(filepath.Join(toolsDir, lockFileName))
	ok, err := lock.TryLock()
	if err != nil {
		return report, fmt.Errorf("acquire install lock: %w", err)
	}
	if !ok {
		return report, ErrLocked
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			i.logger.Warn("failed to release install lock", logging.Error(err))
		}
	}()

	if needYtDlp {
		if err := i.installTool(ctx, confirm, ToolYtDlp, i.installYtDlp); err != nil {
			return report, err
		}
		report.Installed = append(report.Installed, ToolYtDlp)
	}
	if needFFmpeg {
		if err := i.installTool(ctx, confirm, ToolFFmpeg, i.installFFmpeg); err != nil {
			return report, err
		}
		report.Installed = append(report.Installed, ToolFFmpeg)
	}

	if missing := deps.Missing(deps.CheckBinaries(deps.Toolchain(i.cfg))); len(missing) > 0 {
		return report, fmt.Errorf("%s still not reachable after install; check permissions on %s", missing[0].Name, toolsDir)
	}
	return report, nil
}

func (i *Installer) missing(report *Report) (needYtDlp, needFFmpeg bool) {
	for _, status := range deps.CheckBinaries(deps.Toolchain(i.cfg)) {
		if status.Available {
			report.Present = append(report.Present, status.Name)
			continue
		}
		switch status.Name {
		case "yt-dlp":
			needYtDlp = true
		case "FFmpeg", "FFprobe":
			// One archive provides both.
			needFFmpeg = true
		}
	}
	return needYtDlp, needFFmpeg
}

func (i *Installer) installTool(ctx context.Context, confirm ConfirmFunc, tool string, install func(context.Context) error) error {
	approved, err := confirm(tool)
	if err != nil {
		return fmt.Errorf("confirm %s install: %w", tool, err)
	}
	if !approved {
		return fmt.Errorf("%s: %w", tool, ErrDeclined)
	}
	i.logger.Info("installing tool", logging.String("tool", tool), logging.String("tools_dir", i.cfg.Paths.ToolsDir))
	started := time.Now()
	if err := install(ctx); err != nil {
		return fmt.Errorf("install %s: %w", tool, err)
	}
	i.logger.Info("tool installed", logging.String("tool", tool), logging.Duration("elapsed", time.Since(started).Round(time.Millisecond)))
	return nil
}

func (i *Installer) installYtDlp(ctx context.Context) error {
	src, err := i.ytdlpSource(ctx)
	if err != nil {
		return err
	}
	return placeCopy(src, filepath.Join(i.cfg.Paths.ToolsDir, i.cfg.YtDlpBinary()))
}

func (i *Installer) installFFmpeg(ctx context.Context) error {
	ffmpegPath, ffprobePath, err := i.ffmpegFetch(ctx)
	if err != nil {
		return err
	}
	if ffmpegPath != "" {
		if err := placeCopy(ffmpegPath, filepath.Join(i.cfg.Paths.ToolsDir, i.cfg.FFmpegBinary())); err != nil {
			return err
		}
	}
	if ffprobePath != "" {
		if err := placeCopy(ffprobePath, filepath.Join(i.cfg.Paths.ToolsDir, i.cfg.FFprobeBinary())); err != nil {
			return err
		}
	}
	return nil
}

// fetchFFmpeg installs from the configured archive into the tools directory,
// or falls back to go-ytdlp's ffmpeg builds when no archive is configured.
func (i *Installer) fetchFFmpeg(ctx context.Context) (string, string, error) {
	archiveURL := strings.TrimSpace(i.cfg.Bootstrap.FFmpegURL)
	if archiveURL == "" {
		return installFFmpegWithLibrary(ctx)
	}
	if err := i.installFromArchive(ctx, archiveURL); err != nil {
		return "", "", err
	}
	return "", "", nil
}

func installYtDlpWithLibrary(ctx context.Context) (string, error) {
	resolved, err := goytdlp.Install(ctx, nil)
	if err != nil {
		return "", err
	}
	return resolved.Executable, nil
}

func installFFmpegWithLibrary(ctx context.Context) (string, string, error) {
	ffmpeg, err := goytdlp.InstallFFmpeg(ctx, nil)
	if err != nil {
		return "", "", err
	}
	ffprobe, err := goytdlp.InstallFFprobe(ctx, nil)
	if err != nil {
		return "", "", err
	}
	return ffmpeg.Executable, ffprobe.Executable, nil
}

// placeCopy copies src next to dst and renames it into place so a running
// process never sees a half-written binary.
func placeCopy(src, dst string) error {
	if samePath(src, dst) {
		return nil
	}
	tmp := dst + ".tmp"
	if err := fileutil.CopyFileVerified(src, tmp); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("copy %s: %w", filepath.Base(src), err)
	}
	return fileutil.MoveFile(tmp, dst, 0o755)
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}
