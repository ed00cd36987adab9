package env

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfigFile(t *testing.T) {
	file, err := ConfigFile()
	if err != nil {
		t.Fatalf("ConfigFile() returned error: %v", err)
	}

	userConfigDir, err := os.UserConfigDir()
	if err != nil {
		t.Fatalf("os.UserConfigDir() returned error: %v", err)
	}
	want := filepath.Join(userConfigDir, Name, "config.yaml")
	if file != want {
		t.Errorf("ConfigFile() = %q, want %q", file, want)
	}
}

func TestPackagesDirWithAtomHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("ATOM_HOME", home)

	dir, err := PackagesDir()
	if err != nil {
		t.Fatalf("PackagesDir() returned error: %v", err)
	}
	if want := filepath.Join(home, "packages"); dir != want {
		t.Errorf("PackagesDir() = %q, want %q", dir, want)
	}
}

func TestEditorHomeDefault(t *testing.T) {
	t.Setenv("ATOM_HOME", "")

	home, err := EditorHome()
	if err != nil {
		t.Fatalf("EditorHome() returned error: %v", err)
	}
	if filepath.Base(home) != ".atom" {
		t.Errorf("EditorHome() = %q, want a .atom directory", home)
	}
}
