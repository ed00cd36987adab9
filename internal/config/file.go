package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// watchDebounce coalesces the bursts of events a single save produces.
const watchDebounce = 100 * time.Millisecond

// FileStore is a MemStore backed by a YAML file.
type FileStore struct {
	*MemStore
	path string
	log  *zap.Logger

	mu      sync.Mutex
	watcher *fsnotify.Watcher
	done    chan struct{}
	wg      sync.WaitGroup
}

// OpenFile loads the YAML configuration at path. A missing file yields an
// empty store; it is created on the first Save.
func OpenFile(path string, log *zap.Logger) (*FileStore, error) {
	if log == nil {
		log = zap.NewNop()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve config path: %w", err)
	}
	tree, err := readTree(abs)
	if err != nil {
		return nil, err
	}
	return &FileStore{
		MemStore: NewMemStore(tree),
		path:     abs,
		log:      log,
	}, nil
}

// Path returns the absolute path of the backing file.
func (f *FileStore) Path() string {
	return f.path
}

// Reload rereads the file and notifies observers of changed keys.
func (f *FileStore) Reload() error {
	tree, err := readTree(f.path)
	if err != nil {
		return err
	}
	f.Replace(tree)
	return nil
}

// Save writes the tree, without overrides, back to the file.
func (f *FileStore) Save() error {
	data, err := yaml.Marshal(f.Snapshot())
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0755); err != nil {
		return err
	}
	if err := os.WriteFile(f.path, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Watch reloads the file whenever it changes on disk until Close is called.
// The directory is watched rather than the file so that editors replacing the
// file by rename are picked up.
func (f *FileStore) Watch() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.watcher != nil {
		return nil
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create file watcher: %w", err)
	}
	dir := filepath.Dir(f.path)
	if err := w.Add(dir); err != nil {
		w.Close()
		return fmt.Errorf("watch config directory %s: %w", dir, err)
	}
	f.watcher = w
	f.done = make(chan struct{})
	f.wg.Add(1)
	go f.watchLoop(w, f.done)
	f.log.Debug("watching configuration", zap.String("path", f.path))
	return nil
}

func (f *FileStore) watchLoop(w *fsnotify.Watcher, done chan struct{}) {
	defer f.wg.Done()
	name := filepath.Base(f.path)
	timer := time.NewTimer(watchDebounce)
	timer.Stop()
	defer timer.Stop()
	for {
		select {
		case <-done:
			return
		case event, ok := <-w.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				timer.Reset(watchDebounce)
			}
		case <-timer.C:
			if err := f.Reload(); err != nil {
				f.log.Warn("reload configuration", zap.String("path", f.path), zap.Error(err))
			}
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			f.log.Error("configuration watcher", zap.Error(err))
		}
	}
}

// Close stops watching. It is safe to call on a store that never watched.
func (f *FileStore) Close() error {
	f.mu.Lock()
	w := f.watcher
	f.watcher = nil
	if w != nil {
		close(f.done)
	}
	f.mu.Unlock()
	if w == nil {
		return nil
	}
	err := w.Close()
	f.wg.Wait()
	return err
}

func readTree(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]any{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	tree := map[string]any{}
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return tree, nil
}
