package hostcomm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/gobwas/glob"
)

// OriginsManifest is the backend's answer to "who may embed this app".
type OriginsManifest struct {
	AllowedOrigins       []string `json:"allowedOrigins"`
	UseExternalAuthToken bool     `json:"useExternalAuthToken"`
}

// FetchOriginsManifest retrieves the allow-listed-origins manifest from the
// backend HTTP endpoint.
func FetchOriginsManifest(ctx context.Context, client *http.Client, url string) (OriginsManifest, error) {
	var manifest OriginsManifest

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return manifest, fmt.Errorf("failed to build manifest request: %w", err)
	}

	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return manifest, fmt.Errorf("failed to fetch origins manifest: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return manifest, fmt.Errorf("origins manifest request returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return manifest, fmt.Errorf("failed to read origins manifest: %w", err)
	}
	if err := json.Unmarshal(body, &manifest); err != nil {
		return manifest, fmt.Errorf("failed to parse origins manifest: %w", err)
	}
	return manifest, nil
}

// originMatcher holds the compiled allow-list. Patterns may contain glob
// wildcards ("https://*.example.com"); each is compiled once at arming time
// and a pattern that fails to compile is skipped rather than widening or
// narrowing the list for the others.
type originMatcher struct {
	patterns []string
	globs    []glob.Glob
}

func newOriginMatcher(patterns []string) (*originMatcher, []string) {
	m := &originMatcher{}
	var rejected []string
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern)
		if err != nil {
			rejected = append(rejected, pattern)
			continue
		}
		m.patterns = append(m.patterns, pattern)
		m.globs = append(m.globs, g)
	}
	return m, rejected
}

// matches reports whether the given message origin is allow-listed.
func (m *originMatcher) matches(origin string) bool {
	for _, g := range m.globs {
		if g.Match(origin) {
			return true
		}
	}
	return false
}
