package invocation

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"vidgrab/internal/config"
	"vidgrab/internal/quality"
	"vidgrab/internal/request"
	"vidgrab/internal/timecode"
)

// OutputName is the yt-dlp filename template appended to the destination.
const OutputName = "%(title)s.%(ext)s"

// Options carries the config values that shape every invocation.
type Options struct {
	Container         string
	Format            string
	RestrictFilenames bool
	VideoCodec        string
	SharpenFilter     string
	Postprocessor     string
}

// OptionsFromConfig extracts invocation options from loaded configuration.
func OptionsFromConfig(cfg *config.Config) Options {
	if cfg == nil {
		def := config.Default()
		cfg = &def
	}
	return Options{
		Container:         cfg.Download.Container,
		Format:            cfg.Download.Format,
		RestrictFilenames: cfg.Download.RestrictFilenames,
		VideoCodec:        cfg.Encoding.VideoCodec,
		SharpenFilter:     cfg.Encoding.SharpenFilter,
		Postprocessor:     cfg.Download.Postprocessor,
	}
}

// Invocation is the fully assembled yt-dlp call.
type Invocation struct {
	URL               string
	Destination       string
	OutputTemplate    string
	Format            string
	Container         string
	Thumbnail         bool
	RestrictFilenames bool
	Level             quality.Level
	Window            *timecode.Window
	Postprocessor     string
	TranscodeArgs     []string
}

// Build assembles the invocation for a request. The request is expected to
// have passed Validate; Build only fails on an unresolvable quality selection.
func Build(req request.DownloadRequest, opts Options) (Invocation, error) {
	level, err := req.EffectiveLevel()
	if err != nil {
		return Invocation{}, fmt.Errorf("resolve quality: %w", err)
	}
	profile, err := quality.Lookup(level)
	if err != nil {
		return Invocation{}, fmt.Errorf("lookup profile: %w", err)
	}

	var window *timecode.Window
	if req.Window != nil {
		w := *req.Window
		window = &w
	}

	return Invocation{
		URL:               strings.TrimSpace(req.URL),
		Destination:       req.Destination,
		OutputTemplate:    filepath.Join(req.Destination, OutputName),
		Format:            opts.Format,
		Container:         opts.Container,
		Thumbnail:         req.Thumbnail,
		RestrictFilenames: opts.RestrictFilenames,
		Level:             level,
		Window:            window,
		Postprocessor:     opts.Postprocessor,
		TranscodeArgs:     TranscodeArgs(profile, window, opts.VideoCodec, opts.SharpenFilter),
	}, nil
}

// TranscodeArgs renders the ffmpeg flag vector for a profile. A window
// prefixes the vector with -ss/-to.
func TranscodeArgs(profile quality.Profile, window *timecode.Window, codec, sharpen string) []string {
	args := make([]string, 0, 24)
	if window != nil {
		args = append(args, "-ss", window.Start, "-to", window.End)
	}
	args = append(args,
		"-c:v", codec,
		"-preset", profile.Preset,
		"-cq", strconv.Itoa(profile.CQ),
	)
	if profile.PixelFormat != "" {
		args = append(args, "-pix_fmt", profile.PixelFormat)
	}
	args = append(args, "-c:a", profile.AudioCodec)
	if profile.VideoProfile != "" {
		args = append(args, "-profile:v", profile.VideoProfile)
	}
	args = append(args, profile.Extras...)
	if filter := profile.Filter(sharpen); filter != "" {
		args = append(args, "-vf", filter)
	}
	return args
}

// PostprocessorArgs returns the NAME:ARGS value for --postprocessor-args.
func (inv Invocation) PostprocessorArgs() string {
	return inv.Postprocessor + ":" + shellJoin(inv.TranscodeArgs)
}

// DownloadArgs renders the yt-dlp command line, excluding the executable.
func (inv Invocation) DownloadArgs() []string {
	args := []string{"--no-playlist"}
	if inv.Format != "" {
		args = append(args, "--format", inv.Format)
	}
	if inv.Container != "" {
		args = append(args, "--merge-output-format", inv.Container)
	}
	args = append(args, "--output", inv.OutputTemplate)
	if inv.RestrictFilenames {
		args = append(args, "--restrict-filenames")
	}
	if inv.Thumbnail {
		args = append(args, "--write-thumbnail")
	}
	args = append(args, "--postprocessor-args", inv.PostprocessorArgs(), inv.URL)
	return args
}

// CommandLine renders the invocation as a single copy-pasteable line.
func (inv Invocation) CommandLine(executable string) string {
	return shellJoin(append([]string{executable}, inv.DownloadArgs()...))
}

// yt-dlp splits post-processor args with shlex, so values are quoted the
// same way a POSIX shell would read them.
func shellJoin(args []string) string {
	quoted := make([]string, 0, len(args))
	for _, arg := range args {
		quoted = append(quoted, shellQuote(arg))
	}
	return strings.Join(quoted, " ")
}

func shellQuote(s string) string {
	if s == "" {
		return "''"
	}
	if strings.IndexFunc(s, needsQuoting) < 0 {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'"'"'`) + "'"
}

func needsQuoting(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return false
	}
	return !strings.ContainsRune("-_.,:=/+%@", r)
}
