// Package theme holds the dark/light preference shared by every page.
package theme

import (
	"fmt"
	"sync"
)

// StorageKey is the single persisted key for the preference.
const StorageKey = "theme"

// Preference is the persisted value.
type Preference string

const (
	Dark  Preference = "dark"
	Light Preference = "light"
)

// Store is durable key/value storage for the preference.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string) error
}

// State is the theme flag. It is read once from the store on Load and written
// back on every toggle.
type State struct {
	mu    sync.RWMutex
	dark  bool
	store Store
}

// Load reads the stored preference. Without a stored value the system
// preference decides.
func Load(store Store, prefersDark bool) *State {
	if store == nil {
		store = NewMemoryStore()
	}
	stored, ok := store.Get(StorageKey)
	return &State{
		dark:  Preference(stored) == Dark || (!ok && prefersDark),
		store: store,
	}
}

func (s *State) IsDark() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dark
}

func (s *State) Preference() Preference {
	if s.IsDark() {
		return Dark
	}
	return Light
}

// Toggle flips the flag and persists the new value. On a store failure the
// flag keeps its previous value.
func (s *State) Toggle() (Preference, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := Dark
	if s.dark {
		next = Light
	}
	if err := s.store.Set(StorageKey, string(next)); err != nil {
		return s.prefLocked(), fmt.Errorf("failed to persist theme: %w", err)
	}
	s.dark = next == Dark
	return next, nil
}

func (s *State) prefLocked() Preference {
	if s.dark {
		return Dark
	}
	return Light
}

// MemoryStore keeps values in process memory.
type MemoryStore struct {
	mu     sync.Mutex
	values map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (m *MemoryStore) Get(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok
}

func (m *MemoryStore) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}
