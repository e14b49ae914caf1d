package paths

import (
	"fmt"
	"os"
	"path/filepath"
)

// ProjectConfigName is the per-directory config file name.
const ProjectConfigName = "todoapp.toml"

// HomeDir returns the current user's home directory.
func HomeDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return home, nil
}

// DefaultConfigDir returns the default todoapp config directory.
func DefaultConfigDir() (string, error) {
	home, err := HomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(home, ".config", "todoapp"), nil
}

// GlobalConfigPath returns the path of the user-wide config file.
func GlobalConfigPath() (string, error) {
	dir, err := DefaultConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ProjectConfigPath returns the config file path for a project directory.
func ProjectConfigPath(dir string) string {
	return filepath.Join(dir, ProjectConfigName)
}
