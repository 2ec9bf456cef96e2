package config

import (
	"fmt"
	"sync"
)

const (
	// SectionIDHost is the identifier for the host-communication section
	SectionIDHost = "host"
)

// HostSection holds settings for communication with the embedding host.
type HostSection struct {
	// TokenWaitTimeoutSeconds bounds how long the client waits for the host
	// to deliver an auth token. 0 waits indefinitely, matching the historic
	// behavior of browser deployments.
	TokenWaitTimeoutSeconds int

	// ExtraAllowedOrigins are origin patterns trusted in addition to the
	// backend-supplied manifest. Patterns may contain glob wildcards,
	// e.g. "https://*.example.com".
	ExtraAllowedOrigins []string

	mu sync.RWMutex
}

// NewHostSection creates a host section with default settings.
func NewHostSection() *HostSection {
	return &HostSection{}
}

// ID returns the section identifier.
func (s *HostSection) ID() string {
	return SectionIDHost
}

// Title returns the section title.
func (s *HostSection) Title() string {
	return "Host Communication Settings"
}

// Description returns the section description.
func (s *HostSection) Description() string {
	return "Configure how the client talks to its embedding host page: auth-token wait timeout and extra trusted origin patterns."
}

// Data returns the current configuration data.
func (s *HostSection) Data() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	origins := make([]string, len(s.ExtraAllowedOrigins))
	copy(origins, s.ExtraAllowedOrigins)
	return map[string]any{
		"token_wait_timeout_seconds": s.TokenWaitTimeoutSeconds,
		"extra_allowed_origins":      origins,
	}
}

// SetData updates the configuration from the provided data.
func (s *HostSection) SetData(data map[string]any) error {
	if data == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if v, ok := data["token_wait_timeout_seconds"]; ok {
		switch n := v.(type) {
		case int:
			s.TokenWaitTimeoutSeconds = n
		case float64:
			s.TokenWaitTimeoutSeconds = int(n)
		default:
			return fmt.Errorf("invalid type for 'token_wait_timeout_seconds': expected int, got %T", v)
		}
	}

	if v, ok := data["extra_allowed_origins"]; ok {
		list, ok := v.([]any)
		if !ok {
			if typed, isTyped := v.([]string); isTyped {
				s.ExtraAllowedOrigins = append([]string(nil), typed...)
				return nil
			}
			return fmt.Errorf("invalid type for 'extra_allowed_origins': expected list, got %T", v)
		}
		origins := make([]string, 0, len(list))
		for _, item := range list {
			str, ok := item.(string)
			if !ok {
				return fmt.Errorf("invalid origin entry: expected string, got %T", item)
			}
			origins = append(origins, str)
		}
		s.ExtraAllowedOrigins = origins
	}

	return nil
}

// GetTokenWaitTimeoutSeconds returns the configured auth-token wait timeout.
func (s *HostSection) GetTokenWaitTimeoutSeconds() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.TokenWaitTimeoutSeconds
}

// GetExtraAllowedOrigins returns a copy of the extra trusted origin patterns.
func (s *HostSection) GetExtraAllowedOrigins() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.ExtraAllowedOrigins...)
}

// Validate validates the current configuration.
func (s *HostSection) Validate() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.TokenWaitTimeoutSeconds < 0 {
		return fmt.Errorf("token_wait_timeout_seconds must be >= 0, got %d", s.TokenWaitTimeoutSeconds)
	}
	return nil
}

// Reset resets the section to default configuration.
func (s *HostSection) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.TokenWaitTimeoutSeconds = 0
	s.ExtraAllowedOrigins = nil
}
