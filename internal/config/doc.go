// Package config loads, normalizes, and validates vidgrab configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// VIDGRAB_DOWNLOAD_DIR. The Config type centralizes every knob the CLI needs:
// where videos land, where the bootstrapped toolchain lives, how yt-dlp is
// asked to name and merge files, and which encoder the quality tiers target.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical container names, and clear validation errors.
package config
