package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"

	"vidgrab/internal/bootstrap"
	"vidgrab/internal/config"
	"vidgrab/internal/invocation"
	"vidgrab/internal/logging"
	"vidgrab/internal/media/ffprobe"
	"vidgrab/internal/preflight"
	"vidgrab/internal/prompt"
	"vidgrab/internal/quality"
	"vidgrab/internal/request"
	"vidgrab/internal/timecode"
	"vidgrab/internal/ytdlp"
)

type downloadFlags struct {
	dest           string
	rangeSpec      string
	qualitySel     string
	thumbnail      bool
	lowPerformance bool
	yes            bool
	dryRun         bool
	noPrompt       bool
	interactive    bool
	jsonOut        bool
}

func newDownloadFlags() *downloadFlags {
	return &downloadFlags{}
}

// forcedWarnings is shown before a forced rescale is confirmed.
var forcedWarnings = map[quality.Level]string{
	quality.Best:   "Forcing 8K may cause visual issues, high file sizes and an extremely long wait time.",
	quality.Good:   "Forcing 4K may cause visual issues, big file sizes and a long wait time.",
	quality.Medium: "Forcing 2K may cause visual issues and a longer than usual wait time.",
}

func newDownloadCommand(ctx *commandContext) *cobra.Command {
	flags := newDownloadFlags()

	cmd := &cobra.Command{
		Use:   "download [URL]",
		Short: "Download a video and transcode it",
		Long: `Download a video with yt-dlp and re-encode it with ffmpeg.

Values missing from flags are prompted for when stdin is a terminal.
Pass --no-prompt to fail instead.`,
		Example: `  vidgrab download https://www.youtube.com/watch?v=dQw4w9WgXcQ -d ~/Videos -r 6:01-6:50
  vidgrab download URL --quality 4k --yes
  vidgrab download URL --low-performance --dry-run`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var url string
			if len(args) == 1 {
				url = args[0]
			}
			return runDownload(cmd, ctx, flags, url)
		},
	}

	cmd.Flags().StringVarP(&flags.dest, "dest", "d", "", "Destination folder (defaults to paths.download_dir)")
	cmd.Flags().StringVarP(&flags.rangeSpec, "range", "r", "", "Keep only this time range, e.g. 6:01-6:50")
	cmd.Flags().BoolVar(&flags.thumbnail, "thumbnail", false, "Also save the video thumbnail")
	cmd.Flags().StringVarP(&flags.qualitySel, "quality", "q", "", "Quality tier: "+strings.Join(quality.Names(), ", ")+" (or 8k, 4k, 2k)")
	cmd.Flags().BoolVar(&flags.lowPerformance, "low-performance", false, "Use the lighter encoder settings for slow machines")
	cmd.Flags().BoolVarP(&flags.yes, "yes", "y", false, "Skip confirmations and install missing tools without asking")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "Print the yt-dlp command instead of running it")
	cmd.Flags().BoolVar(&flags.noPrompt, "no-prompt", false, "Never prompt; missing values are an error")
	cmd.Flags().BoolVar(&flags.interactive, "interactive", false, "Prompt even when stdin is not a terminal")
	cmd.Flags().BoolVar(&flags.jsonOut, "json", false, "Output as JSON")
	return cmd
}

func runDownload(cmd *cobra.Command, ctx *commandContext, flags *downloadFlags, url string) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := ctx.runLogger()
	if err != nil {
		return err
	}

	ask := shouldPrompt(cmd.InOrStdin(), flags)
	p := prompt.New(cmd.InOrStdin(), cmd.ErrOrStderr())

	req, err := collectRequest(cmd, cfg, flags, url, p, ask)
	if err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return err
	}
	inv, err := invocation.Build(req, invocation.OptionsFromConfig(cfg))
	if err != nil {
		return err
	}

	if flags.dryRun {
		return printDryRun(cmd, cfg, inv, flags.jsonOut)
	}

	if err := ensureToolchain(cmd, cfg, logger, p, ask, flags.yes || cfg.Bootstrap.AutoInstall); err != nil {
		return err
	}

	results := preflight.RunAll(cmd.Context(), cfg, inv.Destination)
	if failed := preflight.Failed(results); len(failed) > 0 {
		stderr := cmd.ErrOrStderr()
		for _, line := range preflightLines(results, shouldColorize(stderr)) {
			fmt.Fprintln(stderr, line)
		}
		return fmt.Errorf("preflight failed: %s", failedNames(failed))
	}

	executable, err := exec.LookPath(cfg.YtDlpBinary())
	if err != nil {
		return fmt.Errorf("locate yt-dlp: %w", err)
	}
	var runnerOpts []ytdlp.Option
	if stderr := cmd.ErrOrStderr(); attachedToTerminal(stderr) {
		runnerOpts = append(runnerOpts, ytdlp.WithProgressBar(stderr))
	}
	result, err := ytdlp.NewRunner(executable, logger, runnerOpts...).Run(cmd.Context(), inv)
	if err != nil {
		return err
	}

	summary, probed := probeOutput(cmd, cfg, logger, result.OutputPath)
	if flags.jsonOut {
		payload := struct {
			ytdlp.Result
			Summary *ffprobe.Summary `json:"summary,omitempty"`
		}{Result: result}
		if probed {
			payload.Summary = &summary
		}
		return writeJSON(cmd, payload)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Saved %s (%s)\n", result.OutputPath, result.Elapsed)
	if probed {
		fmt.Fprintln(out, summary.String())
	}
	return nil
}

func shouldPrompt(in io.Reader, flags *downloadFlags) bool {
	if flags.noPrompt {
		return false
	}
	if flags.interactive {
		return true
	}
	file, ok := in.(*os.File)
	return ok && prompt.IsTerminal(file)
}

// collectRequest fills the request from flags, falling back to prompts when
// ask is set and to config defaults otherwise.
func collectRequest(cmd *cobra.Command, cfg *config.Config, flags *downloadFlags, url string, p *prompt.Prompter, ask bool) (request.DownloadRequest, error) {
	changed := cmd.Flags().Changed
	var req request.DownloadRequest

	url = strings.TrimSpace(url)
	switch {
	case url != "":
	case ask:
		answer, err := p.Required("Video URL")
		if err != nil {
			return req, fmt.Errorf("read url: %w", err)
		}
		url = answer
	default:
		return req, errors.New("a video URL is required; pass it as an argument or run interactively")
	}
	req.URL = url

	dest := strings.TrimSpace(flags.dest)
	if dest == "" {
		dest = cfg.Paths.DownloadDir
		if ask {
			answer, err := p.Ask("Destination folder", dest)
			if err != nil {
				return req, fmt.Errorf("read destination: %w", err)
			}
			dest = answer
		}
	}
	expanded, err := config.ExpandPath(dest)
	if err != nil {
		return req, fmt.Errorf("resolve destination: %w", err)
	}
	req.Destination = expanded

	switch {
	case strings.TrimSpace(flags.rangeSpec) != "":
		window, err := timecode.ParseRange(flags.rangeSpec)
		if err != nil {
			return req, err
		}
		req.Window = &window
	case ask:
		window, err := prompt.Validated(p, "Time range to keep (e.g. 6:01-6:50, blank for the whole video)", "", parseOptionalRange)
		if err != nil {
			return req, fmt.Errorf("read time range: %w", err)
		}
		req.Window = window
	}

	req.Thumbnail = cfg.Download.Thumbnail
	switch {
	case changed("thumbnail"):
		req.Thumbnail = flags.thumbnail
	case ask:
		answer, err := p.Confirm("Download the thumbnail?", req.Thumbnail)
		if err != nil {
			return req, fmt.Errorf("read thumbnail answer: %w", err)
		}
		req.Thumbnail = answer
	}

	req.Mode = quality.ModeNormal
	switch {
	case changed("low-performance"):
		if flags.lowPerformance {
			req.Mode = quality.ModeLow
		}
	case ask:
		mode, err := prompt.Validated(p, "Low performance mode? Recommended for weak computers (y/n)", "n", quality.ParseMode)
		if err != nil {
			return req, fmt.Errorf("read performance mode: %w", err)
		}
		req.Mode = mode
	}

	level, err := selectLevel(cfg, flags, req.Mode, p, ask, changed("quality"))
	if err != nil {
		return req, err
	}
	req.Level = level
	return req, nil
}

// selectLevel picks the quality level. An explicit --quality always wins; in
// low mode the configured default is ignored so it cannot conflict.
func selectLevel(cfg *config.Config, flags *downloadFlags, mode quality.PerformanceMode, p *prompt.Prompter, ask, explicit bool) (quality.Level, error) {
	var level quality.Level
	switch {
	case explicit:
		parsed, err := quality.Parse(flags.qualitySel)
		if err != nil {
			return "", err
		}
		level = parsed
	case mode == quality.ModeLow:
		return quality.Native, nil
	case ask:
		label := "Force a resolution? (8k/4k/2k, blank keeps the original)"
		def := cfg.Download.DefaultQuality
		if def == string(quality.Native) {
			def = ""
		}
		parsed, err := prompt.Validated(p, label, def, quality.Parse)
		if err != nil {
			return "", fmt.Errorf("read quality: %w", err)
		}
		level = parsed
	default:
		parsed, err := quality.Parse(cfg.Download.DefaultQuality)
		if err != nil {
			return "", err
		}
		level = parsed
	}

	if !level.Forced() || !ask || flags.yes {
		return level, nil
	}
	if warning, ok := forcedWarnings[level]; ok {
		p.Say(warning)
	}
	confirmed, err := p.Confirm(fmt.Sprintf("Force %s resolution?", level.Title()), false)
	if err != nil {
		return "", fmt.Errorf("read confirmation: %w", err)
	}
	if !confirmed {
		return quality.Native, nil
	}
	return level, nil
}

func parseOptionalRange(answer string) (*timecode.Window, error) {
	if strings.TrimSpace(answer) == "" {
		return nil, nil
	}
	window, err := timecode.ParseRange(answer)
	if err != nil {
		return nil, err
	}
	return &window, nil
}

func ensureToolchain(cmd *cobra.Command, cfg *config.Config, logger *slog.Logger, p *prompt.Prompter, ask, approved bool) error {
	var opts []bootstrap.Option
	if stderr := cmd.ErrOrStderr(); attachedToTerminal(stderr) {
		opts = append(opts, bootstrap.WithProgress(stderr))
	}
	confirm := bootstrap.AlwaysConfirm
	if !approved {
		confirm = func(tool string) (bool, error) {
			if !ask {
				return false, nil
			}
			return p.Confirm(fmt.Sprintf("%s is not installed. Download it into %s?", tool, cfg.Paths.ToolsDir), true)
		}
	}

	report, err := bootstrap.New(cfg, logger, opts...).Ensure(cmd.Context(), confirm)
	if err != nil {
		if errors.Is(err, bootstrap.ErrDeclined) {
			return fmt.Errorf("%w; run `vidgrab setup` or pass --yes to install it", err)
		}
		return err
	}
	for _, tool := range report.Installed {
		fmt.Fprintf(cmd.ErrOrStderr(), "Installed %s into %s\n", tool, report.ToolsDir)
	}
	return nil
}

func probeOutput(cmd *cobra.Command, cfg *config.Config, logger *slog.Logger, path string) (ffprobe.Summary, bool) {
	probe, err := ffprobe.Inspect(cmd.Context(), cfg.FFprobeBinary(), path)
	if err != nil {
		logging.WarnWithContext(logger, "output inspection failed", "ffprobe_failed",
			logging.String("path", path),
			logging.Error(err),
		)
		return ffprobe.Summary{}, false
	}
	return ffprobe.Summarize(path, probe), true
}

type dryRunOutput struct {
	URL               string   `json:"url"`
	Destination       string   `json:"destination"`
	Level             string   `json:"level"`
	Window            string   `json:"window,omitempty"`
	Thumbnail         bool     `json:"thumbnail"`
	Args              []string `json:"args"`
	TranscodeArgs     []string `json:"transcode_args"`
	PostprocessorArgs string   `json:"postprocessor_args"`
	Command           string   `json:"command"`
}

func printDryRun(cmd *cobra.Command, cfg *config.Config, inv invocation.Invocation, asJSON bool) error {
	commandLine := inv.CommandLine(cfg.YtDlpBinary())
	if asJSON {
		payload := dryRunOutput{
			URL:               inv.URL,
			Destination:       inv.Destination,
			Level:             inv.Level.String(),
			Thumbnail:         inv.Thumbnail,
			Args:              inv.DownloadArgs(),
			TranscodeArgs:     inv.TranscodeArgs,
			PostprocessorArgs: inv.PostprocessorArgs(),
			Command:           commandLine,
		}
		if inv.Window != nil {
			payload.Window = inv.Window.String()
		}
		return writeJSON(cmd, payload)
	}
	fmt.Fprintln(cmd.OutOrStdout(), commandLine)
	return nil
}

func failedNames(results []preflight.Result) string {
	names := make([]string, 0, len(results))
	for _, result := range results {
		names = append(names, result.Name)
	}
	return strings.Join(names, ", ")
}
