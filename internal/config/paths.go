package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mrz1836/relock/internal/constants"
	"github.com/mrz1836/relock/internal/errors"
)

// GlobalConfigDir returns the path to the global relock directory.
// This is typically ~/.relock on Unix systems.
//
// Returns an error if the home directory cannot be determined.
func GlobalConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to get home directory")
	}
	return filepath.Join(home, constants.RelockHome), nil
}

// GlobalConfigPath returns the full path to the global configuration file.
// This is typically ~/.relock/config.yaml on Unix systems.
func GlobalConfigPath() (string, error) {
	dir, err := GlobalConfigDir()
	if err != nil {
		return "", fmt.Errorf("get global config path: %w", err)
	}
	return filepath.Join(dir, constants.GlobalConfigName), nil
}

// ProjectConfigPath returns the relative path to the project configuration file.
// This is always .relock/config.yaml relative to the project root.
func ProjectConfigPath() string {
	return filepath.Join(constants.ProjectConfigDir, constants.ProjectConfigName)
}

// LockDir returns the directory holding lock files: cfg.Dir when set,
// otherwise ~/.relock/locks.
func (cfg *LockConfig) LockDir() (string, error) {
	if cfg.Dir != "" {
		return cfg.Dir, nil
	}
	dir, err := GlobalConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, constants.LocksDir), nil
}
