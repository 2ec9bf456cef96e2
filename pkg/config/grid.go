package config

import (
	"fmt"
	"sync"
)

const (
	// SectionIDGrid is the identifier for the data-grid section
	SectionIDGrid = "grid"
)

// GridSection holds settings for the editable data grid.
type GridSection struct {
	// MaxAddedRows caps how many rows a user can append to an editable
	// grid. 0 means unlimited.
	MaxAddedRows int

	// CopyWithHeaders includes column titles in clipboard copy-out.
	CopyWithHeaders bool

	mu sync.RWMutex
}

// NewGridSection creates a grid section with default settings.
func NewGridSection() *GridSection {
	return &GridSection{}
}

// ID returns the section identifier.
func (s *GridSection) ID() string {
	return SectionIDGrid
}

// Title returns the section title.
func (s *GridSection) Title() string {
	return "Data Grid Settings"
}

// Description returns the section description.
func (s *GridSection) Description() string {
	return "Configure editable data-grid behavior: appended-row limit and clipboard copy-out headers."
}

// Data returns the current configuration data.
func (s *GridSection) Data() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return map[string]any{
		"max_added_rows":    s.MaxAddedRows,
		"copy_with_headers": s.CopyWithHeaders,
	}
}

// SetData updates the configuration from the provided data.
func (s *GridSection) SetData(data map[string]any) error {
	if data == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if v, ok := data["max_added_rows"]; ok {
		switch n := v.(type) {
		case int:
			s.MaxAddedRows = n
		case float64:
			s.MaxAddedRows = int(n)
		default:
			return fmt.Errorf("invalid type for 'max_added_rows': expected int, got %T", v)
		}
	}

	if v, ok := data["copy_with_headers"]; ok {
		b, ok := v.(bool)
		if !ok {
			return fmt.Errorf("invalid type for 'copy_with_headers': expected bool, got %T", v)
		}
		s.CopyWithHeaders = b
	}

	return nil
}

// GetMaxAddedRows returns the configured appended-row cap.
func (s *GridSection) GetMaxAddedRows() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.MaxAddedRows
}

// GetCopyWithHeaders reports whether copy-out includes column titles.
func (s *GridSection) GetCopyWithHeaders() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.CopyWithHeaders
}

// Validate validates the current configuration.
func (s *GridSection) Validate() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.MaxAddedRows < 0 {
		return fmt.Errorf("max_added_rows must be >= 0, got %d", s.MaxAddedRows)
	}
	return nil
}

// Reset resets the section to default configuration.
func (s *GridSection) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.MaxAddedRows = 0
	s.CopyWithHeaders = false
}
