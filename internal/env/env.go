package env

import (
	"os"
	"path/filepath"
)

// Name is the package name used for directories and configuration keys.
const Name = "build-mad-pascal"

// ConfigDir returns the per-user directory holding the configuration file.
func ConfigDir() (string, error) {
	userConfigDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(userConfigDir, Name), nil
}

// ConfigFile returns the default configuration file path.
func ConfigFile() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// EditorHome returns the editor's home directory: $ATOM_HOME if set,
// ~/.atom otherwise.
func EditorHome() (string, error) {
	if home := os.Getenv("ATOM_HOME"); home != "" {
		return home, nil
	}
	userHome, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(userHome, ".atom"), nil
}

// PackagesDir returns the directory editor packages are installed into.
func PackagesDir() (string, error) {
	home, err := EditorHome()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "packages"), nil
}
