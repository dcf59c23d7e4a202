// Package platform resolves the per-user directories mn stores its data in.
package platform

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// ResolveModelDir returns the directory whisper models are stored in,
// honoring an explicit override.
func ResolveModelDir(override string) (string, error) {
	if override != "" {
		return filepath.Clean(override), nil
	}

	dataDir, err := resolveDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, "models"), nil
}

// ResolveRecordingDir returns the directory recordings land in by default.
func ResolveRecordingDir() (string, error) {
	dataDir, err := resolveDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, "recordings"), nil
}

// ConfigSearchPaths returns the config file locations in precedence order:
// project-local first, then the user-level config.
func ConfigSearchPaths() ([]string, error) {
	paths := []string{"mn.toml"}

	configDir, err := resolveConfigDir()
	if err != nil {
		return nil, err
	}
	return append(paths, filepath.Join(configDir, "mn.toml")), nil
}

func resolveDataDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve user home: %w", err)
	}
	return dataDirFor(runtime.GOOS, homeDir, os.Getenv("XDG_DATA_HOME"))
}

func resolveConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve user home: %w", err)
	}
	return configDirFor(runtime.GOOS, homeDir, os.Getenv("XDG_CONFIG_HOME"))
}

func dataDirFor(goos, homeDir, xdgDataHome string) (string, error) {
	if homeDir == "" {
		return "", errors.New("home directory is empty")
	}

	switch goos {
	case "linux":
		if xdgDataHome != "" {
			return filepath.Join(xdgDataHome, "mn"), nil
		}
		return filepath.Join(homeDir, ".local", "share", "mn"), nil
	case "darwin":
		return filepath.Join(homeDir, "Library", "Application Support", "mn"), nil
	default:
		return "", fmt.Errorf("unsupported OS: %s", goos)
	}
}

func configDirFor(goos, homeDir, xdgConfigHome string) (string, error) {
	if homeDir == "" {
		return "", errors.New("home directory is empty")
	}

	if xdgConfigHome != "" {
		return xdgConfigHome, nil
	}

	switch goos {
	case "darwin":
		return filepath.Join(homeDir, "Library", "Application Support"), nil
	default:
		return filepath.Join(homeDir, ".config"), nil
	}
}
