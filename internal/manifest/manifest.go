package manifest

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"golang.org/x/mod/semver"
)

//go:embed package.json
var packageJSON []byte

// Manifest is the subset of an editor package's package.json we care about.
type Manifest struct {
	Name        string   `json:"name"`
	Version     string   `json:"version"`
	Description string   `json:"description,omitempty"`
	PackageDeps []string `json:"package-deps,omitempty"`
}

// Parse reads a manifest from data, or from file when data is nil.
func Parse(file string, data []byte) (*Manifest, error) {
	var reader io.Reader

	if data != nil {
		reader = bytes.NewBuffer(data)
	} else {
		f, err := os.Open(file)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		reader = f
	}

	var m Manifest

	if err := json.NewDecoder(reader).Decode(&m); err != nil {
		return nil, err
	}
	if err := m.validate(); err != nil {
		return nil, err
	}

	return &m, nil
}

func (m *Manifest) validate() error {
	if m.Name == "" {
		return fmt.Errorf("manifest: missing name")
	}
	if m.Version != "" && !semver.IsValid("v"+m.Version) {
		return fmt.Errorf("manifest: invalid version %q", m.Version)
	}
	return nil
}

// Default returns the manifest of this package.
func Default() *Manifest {
	m, err := Parse("", packageJSON)
	if err != nil {
		panic("manifest: embedded package.json: " + err.Error())
	}
	return m
}
