package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestOpenFileMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	f, err := OpenFile(path, nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{}, f.Snapshot())

	f.Set("build-mad-pascal.alwaysEligible", true)
	require.NoError(t, f.Save())

	f2, err := OpenFile(path, nil)
	require.NoError(t, err)
	v, ok := f2.Get("build-mad-pascal.alwaysEligible")
	require.True(t, ok)
	assert.Equal(t, true, v)
}

func TestOpenFileInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("a: [unclosed"), 0644))
	_, err := OpenFile(path, nil)
	assert.Error(t, err)
}

func TestFileStoreWatch(t *testing.T) {
	defer goleak.VerifyNone(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("build-mad-pascal:\n  MadPascalPath: /old/\n"), 0644))

	f, err := OpenFile(path, nil)
	require.NoError(t, err)
	changed := make(chan any, 4)
	defer f.Observe("build-mad-pascal.MadPascalPath", func(v any) { changed <- v })()

	require.NoError(t, f.Watch())
	require.NoError(t, f.Watch(), "second Watch is a no-op")
	require.NoError(t, os.WriteFile(path, []byte("build-mad-pascal:\n  MadPascalPath: /new/\n"), 0644))

	timeout := time.After(5 * time.Second)
	for done := false; !done; {
		select {
		case v := <-changed:
			done = v == "/new/"
		case <-timeout:
			t.Fatal("no change notification")
		}
	}
	require.NoError(t, f.Close())
	require.NoError(t, f.Close())
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("BMP_TEST_PATH=/from/dotenv/\n"), 0644))
	t.Cleanup(func() { os.Unsetenv("BMP_TEST_PATH") })

	require.NoError(t, LoadDotEnv(filepath.Join(dir, "missing.env"), envFile))
	assert.Equal(t, "/from/dotenv/", os.Getenv("BMP_TEST_PATH"))

	s := NewMemStore(nil)
	ApplyEnv(s, map[string]string{
		"BMP_TEST_PATH":  "ns.path",
		"BMP_TEST_UNSET": "ns.other",
	})
	v, ok := s.Get("ns.path")
	require.True(t, ok)
	assert.Equal(t, "/from/dotenv/", v)
	_, ok = s.Get("ns.other")
	assert.False(t, ok)
}
