// Package config provides XDG path helpers.
package config

import (
	"os"
	"path/filepath"
)

const appName = "engagecharts"

// DefaultDataPath is the dataset read when no source is configured.
const DefaultDataPath = "socialMedia.csv"

// DefaultOutDir is where charts are written when no directory is configured.
const DefaultOutDir = "."

// XDGConfigHome returns the XDG config home or a default fallback.
func XDGConfigHome() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".config")
}

// DefaultConfigPath returns the default TOML config path.
func DefaultConfigPath() string {
	return filepath.Join(XDGConfigHome(), appName, "config.toml")
}

// DefaultEnvPath returns the .env file consulted before reading the
// environment. It lives next to the config file.
func DefaultEnvPath() string {
	return filepath.Join(XDGConfigHome(), appName, ".env")
}
