package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockSection is a test implementation of the Section interface
type mockSection struct {
	id      string
	applied map[string]any
}

func (s *mockSection) ID() string          { return s.id }
func (s *mockSection) Title() string       { return "Mock" }
func (s *mockSection) Description() string { return "Mock section" }
func (s *mockSection) Data() map[string]any {
	return map[string]any{"key": "value"}
}
func (s *mockSection) SetData(data map[string]any) error {
	s.applied = data
	return nil
}
func (s *mockSection) Validate() error { return nil }
func (s *mockSection) Reset()          {}

// mockStore is an in-memory Store for manager tests
type mockStore struct {
	sections map[string]map[string]any
	saved    bool
}

func newMockStore() *mockStore {
	return &mockStore{sections: make(map[string]map[string]any)}
}

func (s *mockStore) Load() error { return nil }
func (s *mockStore) Save() error {
	s.saved = true
	return nil
}
func (s *mockStore) GetSection(id string) (map[string]any, error) {
	if data, ok := s.sections[id]; ok {
		return data, nil
	}
	return make(map[string]any), nil
}
func (s *mockStore) SetSection(id string, data map[string]any) error {
	s.sections[id] = data
	return nil
}

func TestManager_RegisterSection(t *testing.T) {
	t.Run("registers a section", func(t *testing.T) {
		manager := NewManager(newMockStore())
		require.NoError(t, manager.RegisterSection(&mockSection{id: "mock"}))

		section, ok := manager.GetSection("mock")
		require.True(t, ok)
		assert.Equal(t, "mock", section.ID())
	})

	t.Run("rejects duplicate IDs", func(t *testing.T) {
		manager := NewManager(newMockStore())
		require.NoError(t, manager.RegisterSection(&mockSection{id: "dup"}))
		assert.Error(t, manager.RegisterSection(&mockSection{id: "dup"}))
	})
}

func TestManager_LoadAll(t *testing.T) {
	store := newMockStore()
	store.sections["mock"] = map[string]any{"stored": true}

	manager := NewManager(store)
	section := &mockSection{id: "mock"}
	require.NoError(t, manager.RegisterSection(section))

	require.NoError(t, manager.LoadAll())
	assert.Equal(t, map[string]any{"stored": true}, section.applied)
}

func TestManager_SaveAll(t *testing.T) {
	store := newMockStore()
	manager := NewManager(store)
	require.NoError(t, manager.RegisterSection(&mockSection{id: "mock"}))

	require.NoError(t, manager.SaveAll())
	assert.True(t, store.saved)
	assert.Equal(t, map[string]any{"key": "value"}, store.sections["mock"])
}
