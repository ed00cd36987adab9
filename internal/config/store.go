package config

import (
	"reflect"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Store is the host configuration store, addressed by dotted keys such as
// "build-mad-pascal.MadPascalPath".
type Store interface {
	// Get returns the value stored under key.
	Get(key string) (any, bool)

	// Observe calls fn with the new value whenever the value of key changes.
	// The returned function removes the observer.
	Observe(key string, fn func(value any)) (unsubscribe func())
}

// Settable is a Store that can be written to.
type Settable interface {
	Store
	Set(key string, value any)
}

type observer struct {
	id uuid.UUID
	fn func(any)
}

// MemStore is an in-memory Store. Values are kept in a tree of nested maps;
// overrides, typically from the environment, take precedence over the tree
// and are never persisted.
type MemStore struct {
	mu        sync.Mutex
	tree      map[string]any
	overrides map[string]any
	observers map[string][]observer
}

var _ Settable = (*MemStore)(nil)

// NewMemStore returns a store holding a copy of tree. A nil tree yields an
// empty store.
func NewMemStore(tree map[string]any) *MemStore {
	return &MemStore{
		tree:      copyTree(tree),
		overrides: map[string]any{},
		observers: map[string][]observer{},
	}
}

func (s *MemStore) Get(key string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.get(key)
}

func (s *MemStore) get(key string) (any, bool) {
	if v, ok := s.overrides[key]; ok {
		return v, true
	}
	return lookup(s.tree, key)
}

func (s *MemStore) Observe(key string, fn func(value any)) func() {
	id := uuid.New()
	s.mu.Lock()
	s.observers[key] = append(s.observers[key], observer{id: id, fn: fn})
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		obs := s.observers[key]
		for i, o := range obs {
			if o.id == id {
				s.observers[key] = append(obs[:i:i], obs[i+1:]...)
				break
			}
		}
		if len(s.observers[key]) == 0 {
			delete(s.observers, key)
		}
	}
}

// Set stores value under key, creating intermediate maps as needed.
func (s *MemStore) Set(key string, value any) {
	s.update(func() { assign(s.tree, key, value) })
}

// Override sets a value that shadows the tree for key.
func (s *MemStore) Override(key string, value any) {
	s.update(func() { s.overrides[key] = value })
}

// Replace swaps the whole tree for a copy of tree, notifying observers of
// every key whose effective value changed.
func (s *MemStore) Replace(tree map[string]any) {
	tree = copyTree(tree)
	s.update(func() { s.tree = tree })
}

// Snapshot returns a deep copy of the tree, without overrides.
func (s *MemStore) Snapshot() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyTree(s.tree)
}

func (s *MemStore) update(apply func()) {
	s.mu.Lock()
	before := make(map[string]any, len(s.observers))
	for key := range s.observers {
		before[key], _ = s.get(key)
	}
	apply()
	type call struct {
		fn func(any)
		v  any
	}
	var calls []call
	for key, obs := range s.observers {
		v, _ := s.get(key)
		if reflect.DeepEqual(before[key], v) {
			continue
		}
		for _, o := range obs {
			calls = append(calls, call{fn: o.fn, v: v})
		}
	}
	s.mu.Unlock()

	for _, c := range calls {
		c.fn(c.v)
	}
}

func lookup(tree map[string]any, key string) (any, bool) {
	var cur any = tree
	for _, part := range strings.Split(key, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		if cur, ok = m[part]; !ok {
			return nil, false
		}
	}
	return cur, true
}

func assign(tree map[string]any, key string, value any) {
	parts := strings.Split(key, ".")
	m := tree
	for _, part := range parts[:len(parts)-1] {
		next, ok := m[part].(map[string]any)
		if !ok {
			next = map[string]any{}
			m[part] = next
		}
		m = next
	}
	m[parts[len(parts)-1]] = value
}

func copyTree(tree map[string]any) map[string]any {
	out := make(map[string]any, len(tree))
	for k, v := range tree {
		switch v := v.(type) {
		case map[string]any:
			out[k] = copyTree(v)
		case []any:
			out[k] = append([]any(nil), v...)
		default:
			out[k] = v
		}
	}
	return out
}
