package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeDownload()
	c.normalizeEncoding()
	c.normalizeBootstrap()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	if value, ok := os.LookupEnv("VIDGRAB_DOWNLOAD_DIR"); ok && strings.TrimSpace(value) != "" {
		c.Paths.DownloadDir = strings.TrimSpace(value)
	}
	if value, ok := os.LookupEnv("VIDGRAB_TOOLS_DIR"); ok && strings.TrimSpace(value) != "" {
		c.Paths.ToolsDir = strings.TrimSpace(value)
	}
	if strings.TrimSpace(c.Paths.ToolsDir) == "" {
		c.Paths.ToolsDir = defaultToolsDir()
	}

	var err error
	if c.Paths.DownloadDir, err = expandPath(strings.TrimSpace(c.Paths.DownloadDir)); err != nil {
		return fmt.Errorf("paths.download_dir: %w", err)
	}
	if c.Paths.ToolsDir, err = expandPath(strings.TrimSpace(c.Paths.ToolsDir)); err != nil {
		return fmt.Errorf("paths.tools_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeDownload() {
	c.Download.Container = strings.ToLower(strings.TrimSpace(c.Download.Container))
	if c.Download.Container == "" {
		c.Download.Container = defaultContainer
	}
	c.Download.Format = strings.TrimSpace(c.Download.Format)
	if c.Download.Format == "" {
		c.Download.Format = defaultFormat
	}
	c.Download.DefaultQuality = strings.ToLower(strings.TrimSpace(c.Download.DefaultQuality))
	if c.Download.DefaultQuality == "" {
		c.Download.DefaultQuality = defaultQuality
	}
	c.Download.Postprocessor = strings.TrimSpace(c.Download.Postprocessor)
	if c.Download.Postprocessor == "" {
		c.Download.Postprocessor = defaultPostprocessor
	}
}

func (c *Config) normalizeEncoding() {
	c.Encoding.VideoCodec = strings.TrimSpace(c.Encoding.VideoCodec)
	if c.Encoding.VideoCodec == "" {
		c.Encoding.VideoCodec = defaultVideoCodec
	}
	// An empty sharpen filter is a valid choice and disables sharpening.
	c.Encoding.SharpenFilter = strings.TrimSpace(c.Encoding.SharpenFilter)
}

func (c *Config) normalizeBootstrap() {
	c.Bootstrap.FFmpegURL = strings.TrimSpace(c.Bootstrap.FFmpegURL)
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
