package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// ConfigDir returns the mcpreflect configuration directory.
// Respects MCPREFLECT_CONFIG_DIR override.
func ConfigDir() (string, error) {
	if dir := os.Getenv("MCPREFLECT_CONFIG_DIR"); dir != "" {
		return dir, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("config dir: %w", err)
	}
	return filepath.Join(base, "mcpreflect"), nil
}

// LogDir returns the directory for mcpreflect log files.
func LogDir() (string, error) {
	if runtime.GOOS == "darwin" && os.Getenv("MCPREFLECT_CONFIG_DIR") == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("log dir: %w", err)
		}
		return filepath.Join(home, "Library", "Logs", "mcpreflect"), nil
	}
	cfgDir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfgDir, "logs"), nil
}

// ConfigFilePath returns the path to config.json.
func ConfigFilePath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// LogFilePath returns the path of the server log file.
func LogFilePath() (string, error) {
	dir, err := LogDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "server.log"), nil
}
