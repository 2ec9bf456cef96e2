package hostcomm

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchOriginsManifest(t *testing.T) {
	t.Run("parses a valid manifest", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"allowedOrigins":["https://a.test","https://*.b.test"],"useExternalAuthToken":true}`))
		}))
		defer server.Close()

		manifest, err := FetchOriginsManifest(context.Background(), server.Client(), server.URL)
		require.NoError(t, err)
		assert.Equal(t, []string{"https://a.test", "https://*.b.test"}, manifest.AllowedOrigins)
		assert.True(t, manifest.UseExternalAuthToken)
	})

	t.Run("non-200 status is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		_, err := FetchOriginsManifest(context.Background(), server.Client(), server.URL)
		assert.Error(t, err)
	})

	t.Run("malformed body is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("<html>not json</html>"))
		}))
		defer server.Close()

		_, err := FetchOriginsManifest(context.Background(), server.Client(), server.URL)
		assert.Error(t, err)
	})
}
