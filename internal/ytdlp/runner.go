package ytdlp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	goytdlp "github.com/lrstanley/go-ytdlp"
	"github.com/schollz/progressbar/v3"

	"vidgrab/internal/invocation"
	"vidgrab/internal/logging"
)

const (
	progressInterval = 250 * time.Millisecond
	// finalPathTemplate prints the final file path, including when the file
	// was already downloaded. --print implies --quiet, so --progress is set too.
	finalPathTemplate = "after_move:filepath"
	stderrTailLines   = 8
)

// Result describes a finished download.
type Result struct {
	OutputPath string        `json:"output_path"`
	Title      string        `json:"title,omitempty"`
	Elapsed    time.Duration `json:"elapsed"`
}

// Runner executes invocations.
type Runner struct {
	executable string
	logger     *slog.Logger
	barOut     io.Writer
	sampler    *logging.ProgressSampler
	now        func() time.Time
}

// Option customizes a Runner.
type Option func(*Runner)

// WithProgressBar renders a progress bar to w. Callers pass a terminal writer
// only; bars written to pipes are noise.
func WithProgressBar(w io.Writer) Option {
	return func(r *Runner) {
		r.barOut = w
	}
}

// NewRunner constructs a Runner. An empty executable lets go-ytdlp resolve
// yt-dlp from PATH.
func NewRunner(executable string, logger *slog.Logger, opts ...Option) *Runner {
	r := &Runner{
		executable: strings.TrimSpace(executable),
		logger:     logging.NewComponentLogger(logger, "ytdlp"),
		sampler:    logging.NewProgressSampler(10),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Command maps an invocation onto the go-ytdlp builder. The URL is passed to
// Run separately.
func (r *Runner) Command(inv invocation.Invocation) *goytdlp.Command {
	cmd := goytdlp.New().
		NoPlaylist().
		Output(inv.OutputTemplate).
		Print(finalPathTemplate).
		Progress().
		PostProcessorArgs(inv.PostprocessorArgs())
	if r.executable != "" {
		cmd.SetExecutable(r.executable)
	}
	if inv.Format != "" {
		cmd.Format(inv.Format)
	}
	if inv.Container != "" {
		cmd.MergeOutputFormat(inv.Container)
	}
	if inv.RestrictFilenames {
		cmd.RestrictFilenames()
	}
	if inv.Thumbnail {
		cmd.WriteThumbnail()
	}
	return cmd
}

// Run downloads and transcodes inv.URL, returning the produced file.
func (r *Runner) Run(ctx context.Context, inv invocation.Invocation) (Result, error) {
	if strings.TrimSpace(inv.URL) == "" {
		return Result{}, errors.New("run yt-dlp: empty url")
	}

	started := r.now()
	cmd := r.Command(inv)
	tracker := newProgressTracker(r.logger, r.sampler, r.barOut)
	cmd.ProgressFunc(progressInterval, tracker.update)

	r.logger.Info("download started",
		logging.String("url", inv.URL),
		logging.String("level", inv.Level.String()),
		logging.String("postprocessor_args", inv.PostprocessorArgs()),
	)
	r.logger.Debug("yt-dlp arguments", logging.Any("args", inv.DownloadArgs()))

	res, err := cmd.Run(ctx, inv.URL)
	tracker.finish()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Result{}, ctxErr
		}
		return Result{}, fmt.Errorf("run yt-dlp: %w%s", err, stderrTail(res))
	}

	output := printedPath(res)
	if output == "" {
		r.logger.Debug("yt-dlp printed no output path, scanning destination", logging.String("dir", inv.Destination))
		output, err = LocateOutput(inv.Destination, inv.Container, started)
		if err != nil {
			return Result{}, err
		}
	}

	result := Result{
		OutputPath: output,
		Title:      tracker.title(),
		Elapsed:    r.now().Sub(started).Round(time.Second),
	}
	r.logger.Info("download finished",
		logging.String("output", result.OutputPath),
		logging.Duration("elapsed", result.Elapsed),
	)
	return result, nil
}

// printedPath returns the last stdout line that names an existing file.
func printedPath(res *goytdlp.Result) string {
	if res == nil {
		return ""
	}
	lines := strings.Split(res.Stdout, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		candidate := strings.TrimSpace(lines[i])
		if candidate == "" {
			continue
		}
		if info, err := os.Stat(candidate); err == nil && info.Mode().IsRegular() {
			return candidate
		}
	}
	return ""
}

func stderrTail(res *goytdlp.Result) string {
	if res == nil {
		return ""
	}
	lines := strings.Split(strings.TrimSpace(res.Stderr), "\n")
	if len(lines) == 1 && lines[0] == "" {
		return ""
	}
	if len(lines) > stderrTailLines {
		lines = lines[len(lines)-stderrTailLines:]
	}
	return "\n" + strings.Join(lines, "\n")
}

// progressTracker fans progress updates out to the logger and an optional bar.
type progressTracker struct {
	mu       sync.Mutex
	logger   *slog.Logger
	sampler  *logging.ProgressSampler
	barOut   io.Writer
	bar      *progressbar.ProgressBar
	filename string
	name     string
}

func newProgressTracker(logger *slog.Logger, sampler *logging.ProgressSampler, barOut io.Writer) *progressTracker {
	return &progressTracker{logger: logger, sampler: sampler, barOut: barOut}
}

func (p *progressTracker) update(update goytdlp.ProgressUpdate) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.name == "" && update.Info != nil && update.Info.Title != nil {
		p.name = *update.Info.Title
	}

	percent := -1.0
	if update.TotalBytes > 0 {
		percent = float64(update.DownloadedBytes) / float64(update.TotalBytes) * 100
	}
	phase := string(update.Status)
	if p.sampler.ShouldLog(percent, phase+":"+update.Filename) {
		attrs := []logging.Attr{
			logging.String("phase", phase),
			logging.String("file", update.Filename),
		}
		if percent >= 0 {
			attrs = append(attrs, logging.Int("percent", int(percent)))
		}
		if eta := update.ETA(); eta > 0 {
			attrs = append(attrs, logging.Duration("eta", eta.Round(time.Second)))
		}
		p.logger.Info("download progress", logging.Args(attrs...)...)
	}

	if p.barOut == nil || update.TotalBytes <= 0 {
		return
	}
	if p.bar == nil || update.Filename != p.filename {
		p.closeBar()
		p.filename = update.Filename
		p.bar = progressbar.NewOptions64(int64(update.TotalBytes),
			progressbar.OptionSetWriter(p.barOut),
			progressbar.OptionSetDescription(barLabel(p.name, update.Filename)),
			progressbar.OptionShowBytes(true),
			progressbar.OptionSetWidth(30),
			progressbar.OptionThrottle(100*time.Millisecond),
			progressbar.OptionClearOnFinish(),
		)
	}
	_ = p.bar.Set64(int64(update.DownloadedBytes))
}

func (p *progressTracker) finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closeBar()
}

func (p *progressTracker) closeBar() {
	if p.bar != nil {
		_ = p.bar.Finish()
		p.bar = nil
	}
}

func (p *progressTracker) title() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.name
}

func barLabel(title, filename string) string {
	label := title
	if label == "" {
		label = filename
	}
	if len(label) > 40 {
		label = label[:37] + "..."
	}
	return label
}
