package theme

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		stored      string
		prefersDark bool
		want        bool
	}{
		{"nothing stored, light system", "", false, false},
		{"nothing stored, dark system", "", true, true},
		{"stored dark wins", "dark", false, true},
		{"stored light wins", "light", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewMemoryStore()
			if tt.stored != "" {
				require.NoError(t, store.Set(StorageKey, tt.stored))
			}
			assert.Equal(t, tt.want, Load(store, tt.prefersDark).IsDark())
		})
	}
}

func TestToggleRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Set(StorageKey, "light"))
	s := Load(store, false)

	pref, err := s.Toggle()
	require.NoError(t, err)
	assert.Equal(t, Dark, pref)
	stored, _ := store.Get(StorageKey)
	assert.Equal(t, "dark", stored)

	pref, err = s.Toggle()
	require.NoError(t, err)
	assert.Equal(t, Light, pref)
	assert.False(t, s.IsDark())
	stored, _ = store.Get(StorageKey)
	assert.Equal(t, "light", stored)
}

type failingStore struct{}

func (failingStore) Get(string) (string, bool) { return "", false }
func (failingStore) Set(string, string) error { return errors.New("quota exceeded") }

func TestToggleStoreFailure(t *testing.T) {
	s := Load(failingStore{}, false)

	pref, err := s.Toggle()
	require.Error(t, err)
	assert.Equal(t, Light, pref)
	assert.False(t, s.IsDark())
}
