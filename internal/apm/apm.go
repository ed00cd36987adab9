package apm

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	exec "golang.org/x/sys/execabs"

	"github.com/goplus/build-mad-pascal/internal/deps"
	"github.com/goplus/build-mad-pascal/internal/manifest"
)

// Manager implements deps.PackageManager on top of the apm command line tool.
type Manager struct {
	apm         string
	packagesDir string
	log         *zap.Logger
}

var _ deps.PackageManager = (*Manager)(nil)

// Option configures Manager.
type Option func(*Manager)

// WithApmPath sets a custom apm executable path.
func WithApmPath(path string) Option {
	return func(m *Manager) {
		m.apm = path
	}
}

// WithPackagesDir sets the directory installed packages live in.
func WithPackagesDir(dir string) Option {
	return func(m *Manager) {
		m.packagesDir = dir
	}
}

// WithLogger sets the logger.
func WithLogger(log *zap.Logger) Option {
	return func(m *Manager) {
		m.log = log
	}
}

// New creates a Manager.
func New(opts ...Option) *Manager {
	m := &Manager{apm: "apm", log: zap.NewNop()}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// InstallDependencies installs every package-dep of the named package that is
// not present in the packages directory.
func (m *Manager) InstallDependencies(ctx context.Context, name string) error {
	man, err := m.manifest(name)
	if err != nil {
		return err
	}
	var missing []string
	for _, dep := range man.PackageDeps {
		if !m.installed(dep) {
			missing = append(missing, dep)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	m.log.Info("installing packages", zap.Strings("packages", missing))
	args := append([]string{"install"}, missing...)
	if _, err := m.output(ctx, args...); err != nil {
		return fmt.Errorf("apm install: %w", err)
	}
	return nil
}

// manifest reads the installed package.json of name, falling back to the
// embedded manifest for this package.
func (m *Manager) manifest(name string) (*manifest.Manifest, error) {
	if m.packagesDir != "" {
		man, err := manifest.Parse(filepath.Join(m.packagesDir, name, "package.json"), nil)
		if err == nil {
			return man, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}
	if def := manifest.Default(); def.Name == name {
		return def, nil
	}
	return nil, fmt.Errorf("package %s not found", name)
}

func (m *Manager) installed(name string) bool {
	if m.packagesDir == "" {
		return false
	}
	fi, err := os.Stat(filepath.Join(m.packagesDir, name))
	return err == nil && fi.IsDir()
}

// IsPackageDisabled asks apm for the packages the editor has disabled. A
// failing apm reports every package as enabled.
func (m *Manager) IsPackageDisabled(ctx context.Context, name string) bool {
	out, err := m.output(ctx, "list", "--bare", "--disabled")
	if err != nil {
		m.log.Warn("list disabled packages", zap.String("package", name), zap.Error(err))
		return false
	}
	for _, line := range strings.Split(out, "\n") {
		pkg, _, _ := strings.Cut(strings.TrimSpace(line), "@")
		if pkg == name {
			return true
		}
	}
	return false
}

// EnablePackage enables name in the editor with apm enable.
func (m *Manager) EnablePackage(ctx context.Context, name string) error {
	if _, err := m.output(ctx, "enable", name); err != nil {
		return fmt.Errorf("apm enable: %w", err)
	}
	m.log.Debug("enabled package", zap.String("package", name))
	return nil
}

func (m *Manager) output(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, m.apm, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return "", fmt.Errorf("%s", msg)
		}
		return "", err
	}
	return stdout.String(), nil
}
