// Package config provides file-backed configuration for the Loom client,
// organized as typed sections registered with a manager over a yaml store.
package config

import (
	"sync"
)

var (
	// globalManager is the singleton configuration manager instance
	globalManager *Manager
	globalMu      sync.Mutex
)

// Initialize creates and initializes the global configuration manager.
// This should be called once at application startup.
func Initialize(configPath string) error {
	globalMu.Lock()
	defer globalMu.Unlock()

	store, err := NewFileStore(configPath)
	if err != nil {
		return err
	}

	manager := NewManager(store)

	if err := manager.RegisterSection(NewHostSection()); err != nil {
		return err
	}
	if err := manager.RegisterSection(NewGridSection()); err != nil {
		return err
	}

	if err := manager.LoadAll(); err != nil {
		return err
	}

	globalManager = manager
	return nil
}

// Global returns the global configuration manager.
// Panics if Initialize has not been called.
func Global() *Manager {
	globalMu.Lock()
	defer globalMu.Unlock()

	if globalManager == nil {
		panic("config not initialized: call config.Initialize first")
	}
	return globalManager
}

// IsInitialized returns true if the global configuration has been initialized.
func IsInitialized() bool {
	globalMu.Lock()
	defer globalMu.Unlock()
	return globalManager != nil
}

// GetHost returns the host section from global config, or nil if the config
// is not initialized.
func GetHost() *HostSection {
	if !IsInitialized() {
		return nil
	}
	section, ok := Global().GetSection(SectionIDHost)
	if !ok {
		return nil
	}
	host, _ := section.(*HostSection)
	return host
}

// GetGrid returns the grid section from global config, or nil if the config
// is not initialized.
func GetGrid() *GridSection {
	if !IsInitialized() {
		return nil
	}
	section, ok := Global().GetSection(SectionIDGrid)
	if !ok {
		return nil
	}
	grid, _ := section.(*GridSection)
	return grid
}
