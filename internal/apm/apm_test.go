package apm

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeApm writes a shell script that appends its arguments to a log file and
// answers "list" with the given disabled packages, one name@version per line.
func fakeApm(t *testing.T, exitCode int, disabled ...string) (path, log string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake apm is a shell script")
	}
	dir := t.TempDir()
	log = filepath.Join(dir, "calls.log")
	path = filepath.Join(dir, "apm")
	script := "#!/bin/sh\necho \"$@\" >> " + log + "\n"
	if exitCode != 0 {
		script += "echo 'apm failed' >&2\nexit " + strconv.Itoa(exitCode) + "\n"
	}
	script += "if [ \"$1\" = list ]; then\n"
	for _, name := range disabled {
		script += "  echo " + name + "@1.0.0\n"
	}
	script += "  :\nfi\n"
	require.NoError(t, os.WriteFile(path, []byte(script), 0755))
	return path, log
}

func readCalls(t *testing.T, log string) []string {
	t.Helper()
	data, err := os.ReadFile(log)
	require.NoError(t, err)
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}

func writePackage(t *testing.T, packagesDir, name, manifest string) {
	t.Helper()
	dir := filepath.Join(packagesDir, name)
	require.NoError(t, os.MkdirAll(dir, 0755))
	if manifest != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "package.json"), []byte(manifest), 0644))
	}
}

func TestInstallDependencies(t *testing.T) {
	apmPath, log := fakeApm(t, 0)
	packagesDir := t.TempDir()
	writePackage(t, packagesDir, "my-builder", `{"name": "my-builder", "package-deps": ["build", "busy-signal"]}`)
	writePackage(t, packagesDir, "busy-signal", "")

	m := New(WithApmPath(apmPath), WithPackagesDir(packagesDir))
	require.NoError(t, m.InstallDependencies(context.Background(), "my-builder"))

	assert.Equal(t, []string{"install build"}, readCalls(t, log))
}

func TestInstallDependenciesNothingMissing(t *testing.T) {
	apmPath, log := fakeApm(t, 0)
	packagesDir := t.TempDir()
	writePackage(t, packagesDir, "build", "")

	// build-mad-pascal is not installed, so the embedded manifest is used
	m := New(WithApmPath(apmPath), WithPackagesDir(packagesDir))
	require.NoError(t, m.InstallDependencies(context.Background(), "build-mad-pascal"))

	_, err := os.Stat(log)
	assert.True(t, os.IsNotExist(err), "apm must not run")
}

func TestInstallDependenciesFailure(t *testing.T) {
	apmPath, _ := fakeApm(t, 1)
	m := New(WithApmPath(apmPath), WithPackagesDir(t.TempDir()))

	err := m.InstallDependencies(context.Background(), "build-mad-pascal")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "apm failed")
}

func TestInstallDependenciesUnknownPackage(t *testing.T) {
	m := New(WithPackagesDir(t.TempDir()))
	assert.Error(t, m.InstallDependencies(context.Background(), "unknown"))
}

func TestIsPackageDisabled(t *testing.T) {
	apmPath, log := fakeApm(t, 0, "build", "linter-eslint")
	m := New(WithApmPath(apmPath))
	ctx := context.Background()

	assert.True(t, m.IsPackageDisabled(ctx, "build"))
	assert.True(t, m.IsPackageDisabled(ctx, "linter-eslint"))
	assert.False(t, m.IsPackageDisabled(ctx, "linter"), "names match exactly")
	assert.False(t, m.IsPackageDisabled(ctx, "busy-signal"))
	assert.Equal(t, "list --bare --disabled", readCalls(t, log)[0])
}

func TestIsPackageDisabledFailure(t *testing.T) {
	apmPath, _ := fakeApm(t, 1, "build")
	m := New(WithApmPath(apmPath))
	assert.False(t, m.IsPackageDisabled(context.Background(), "build"))
}

func TestEnablePackage(t *testing.T) {
	apmPath, log := fakeApm(t, 0)
	m := New(WithApmPath(apmPath))

	require.NoError(t, m.EnablePackage(context.Background(), "build"))
	assert.Equal(t, []string{"enable build"}, readCalls(t, log))
}

func TestEnablePackageFailure(t *testing.T) {
	apmPath, _ := fakeApm(t, 1)
	m := New(WithApmPath(apmPath))

	err := m.EnablePackage(context.Background(), "build")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "apm failed")
}
