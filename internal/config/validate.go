package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"vidgrab/internal/quality"
)

var supportedContainers = map[string]struct{}{
	"mp4": {},
	"mkv": {},
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateDownload(); err != nil {
		return err
	}
	if err := c.validateBootstrap(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.ToolsDir) == "" {
		return errors.New("paths.tools_dir must be set")
	}
	return nil
}

func (c *Config) validateDownload() error {
	if _, ok := supportedContainers[c.Download.Container]; !ok {
		return fmt.Errorf("download.container must be mp4 or mkv, got %q", c.Download.Container)
	}
	if _, err := quality.Parse(c.Download.DefaultQuality); err != nil {
		return fmt.Errorf("download.default_quality: %w", err)
	}
	if strings.ContainsAny(c.Download.Postprocessor, ": ") {
		return fmt.Errorf("download.postprocessor must be a yt-dlp NAME key without ':' or spaces, got %q", c.Download.Postprocessor)
	}
	return nil
}

func (c *Config) validateBootstrap() error {
	if c.Bootstrap.FFmpegURL == "" {
		return nil
	}
	parsed, err := url.Parse(c.Bootstrap.FFmpegURL)
	if err != nil {
		return fmt.Errorf("bootstrap.ffmpeg_url: %w", err)
	}
	if parsed.Scheme != "https" && parsed.Scheme != "http" {
		return fmt.Errorf("bootstrap.ffmpeg_url must be an http(s) URL, got %q", c.Bootstrap.FFmpegURL)
	}
	lower := strings.ToLower(parsed.Path)
	if !strings.HasSuffix(lower, ".zip") && !strings.HasSuffix(lower, ".tar.xz") {
		return errors.New("bootstrap.ffmpeg_url must point at a .zip or .tar.xz archive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error; got %q", c.Logging.Level)
	}
}
