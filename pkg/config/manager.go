package config

import (
	"fmt"
	"sync"
)

// Section is one logical group of settings. Sections own their typed fields
// and translate to/from the untyped map the Store persists.
type Section interface {
	// ID returns the stable section identifier used as the storage key
	ID() string

	// Title returns a human-readable section title
	Title() string

	// Description returns a human-readable section description
	Description() string

	// Data returns the current configuration data
	Data() map[string]any

	// SetData updates the configuration from the provided data
	SetData(data map[string]any) error

	// Validate validates the current configuration
	Validate() error

	// Reset resets the section to default configuration
	Reset()
}

// Manager coordinates registered sections with a backing store.
type Manager struct {
	store    Store
	sections map[string]Section
	mu       sync.RWMutex
}

// NewManager creates a manager over the given store.
func NewManager(store Store) *Manager {
	return &Manager{
		store:    store,
		sections: make(map[string]Section),
	}
}

// RegisterSection registers a section. Registering the same ID twice is an
// error.
func (m *Manager) RegisterSection(section Section) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := section.ID()
	if _, exists := m.sections[id]; exists {
		return fmt.Errorf("section %q is already registered", id)
	}
	m.sections[id] = section
	return nil
}

// GetSection returns a registered section by ID.
func (m *Manager) GetSection(id string) (Section, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	section, ok := m.sections[id]
	return section, ok
}

// LoadAll hydrates every registered section from the store and validates it.
func (m *Manager) LoadAll() error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for id, section := range m.sections {
		data, err := m.store.GetSection(id)
		if err != nil {
			return fmt.Errorf("failed to load section %q: %w", id, err)
		}
		if err := section.SetData(data); err != nil {
			return fmt.Errorf("failed to apply section %q: %w", id, err)
		}
		if err := section.Validate(); err != nil {
			return fmt.Errorf("invalid configuration in section %q: %w", id, err)
		}
	}
	return nil
}

// SaveAll persists every registered section through the store.
func (m *Manager) SaveAll() error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for id, section := range m.sections {
		if err := m.store.SetSection(id, section.Data()); err != nil {
			return fmt.Errorf("failed to stage section %q: %w", id, err)
		}
	}
	return m.store.Save()
}
