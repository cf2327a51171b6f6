// Package config provides XDG path helpers.
package config

import (
	"os"
	"path/filepath"
)

const appName = "gradeplan"

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

// XDGDataHome returns the XDG data home or a default fallback.
func XDGDataHome() string {
	if v := os.Getenv("XDG_DATA_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".local", "share")
}

// DefaultStorePath returns the default database path for a backend.
func DefaultStorePath(backend string) string {
	name := appName + ".db"
	if backend == "bolt" {
		name = appName + ".bolt"
	}
	return filepath.Join(XDGDataHome(), appName, name)
}

// DefaultLogPath returns the log file used while a TUI owns the terminal.
func DefaultLogPath() string {
	return filepath.Join(XDGDataHome(), appName, appName+".log")
}

// DefaultConfigPath returns the default TOML config path.
func DefaultConfigPath() string {
	return filepath.Join(XDGConfigHome(), appName, "config.toml")
}

// DefaultEnvPath returns the optional dotenv file path.
func DefaultEnvPath() string {
	return filepath.Join(XDGConfigHome(), appName, appName+".env")
}
