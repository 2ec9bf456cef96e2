package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// Store provides persistence for configuration data.
type Store interface {
	// Load loads the configuration from disk
	Load() error

	// Save saves the configuration to disk
	Save() error

	// GetSection retrieves configuration data for a specific section
	GetSection(sectionID string) (map[string]any, error)

	// SetSection stores configuration data for a specific section
	SetSection(sectionID string, data map[string]any) error
}

// FileStore implements Store using a yaml file.
type FileStore struct {
	path string
	data map[string]map[string]any
	mu   sync.RWMutex
}

// NewFileStore creates a new file-based configuration store.
// If path is empty, defaults to ~/.loom/config.yaml
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		path = filepath.Join(homeDir, ".loom", "config.yaml")
	}

	store := &FileStore{
		path: path,
		data: make(map[string]map[string]any),
	}

	// A missing file is fine; it is created on first Save.
	if err := store.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
	}

	return store, nil
}

// Load loads the configuration from disk.
func (s *FileStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.data = make(map[string]map[string]any)
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}

	data := make(map[string]map[string]any)
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	s.data = data
	return nil
}

// Save saves the configuration to disk, creating parent directories as
// needed.
func (s *FileStore) Save() error {
	s.mu.RLock()
	raw, err := yaml.Marshal(s.data)
	s.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	if err := os.WriteFile(s.path, raw, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// GetSection retrieves configuration data for a specific section. A section
// that has never been saved returns an empty map.
func (s *FileStore) GetSection(sectionID string) (map[string]any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	section, ok := s.data[sectionID]
	if !ok {
		return make(map[string]any), nil
	}

	out := make(map[string]any, len(section))
	for k, v := range section {
		out[k] = v
	}
	return out, nil
}

// SetSection stores configuration data for a specific section.
func (s *FileStore) SetSection(sectionID string, data map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	section := make(map[string]any, len(data))
	for k, v := range data {
		section[k] = v
	}
	s.data[sectionID] = section
	return nil
}
