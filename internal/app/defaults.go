package app

import (
	"fmt"
	"os"
	"path/filepath"
)

// GetDefaults returns application default paths, checking environment variables first.
// Environment variables:
//   - TUBETRACKER_CONFIG_PATH: config file location (default: ~/.config/tubetracker.toml)
//   - TUBETRACKER_HOME: base directory for tubetracker data (default: ~/.local/share/tubetracker)
func GetDefaults() (map[string]string, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return nil, err
	}

	baseDir, err := getBaseDir()
	if err != nil {
		return nil, err
	}

	return map[string]string{
		"config_path": configPath,
		"base_dir":    baseDir,
		"log_dir":     filepath.Join(baseDir, "log"),
		"env_file":    ".env",
	}, nil
}

// getConfigPath returns the config file path, checking TUBETRACKER_CONFIG_PATH env var first,
// then falling back to the default ~/.config/tubetracker.toml.
func getConfigPath() (string, error) {
	if path := os.Getenv("TUBETRACKER_CONFIG_PATH"); path != "" {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "tubetracker.toml"), nil
}

// getBaseDir returns the base directory for tubetracker data, checking TUBETRACKER_HOME env var first,
// then falling back to the XDG default ~/.local/share/tubetracker.
func getBaseDir() (string, error) {
	if path := os.Getenv("TUBETRACKER_HOME"); path != "" {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(homeDir, ".local", "share", "tubetracker"), nil
}
