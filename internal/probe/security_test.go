package probe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_TLS(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	client := NewClient(testConfig(srv.URL))
	client.http = srv.Client()

	payload, err := client.TLS(PathREST)(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, payload.(map[string]any)["tls_version"])
}

func TestClient_TLSRejectsPlainHTTP(t *testing.T) {
	srv := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	_, err := NewClient(testConfig(srv.URL)).TLS(PathREST)(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected https")
}

func TestClient_Headers(t *testing.T) {
	var hardened atomic.Bool
	hardened.Store(true)
	srv := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		if hardened.Load() {
			w.Header().Set("Strict-Transport-Security", "max-age=63072000")
			w.Header().Set("X-Frame-Options", "DENY")
		}
		w.WriteHeader(http.StatusOK)
	})
	client := NewClient(testConfig(srv.URL))

	payload, err := client.Headers(PathREST)(context.Background())
	require.NoError(t, err)
	assert.Len(t, payload.(map[string]any)["headers"], 3)

	hardened.Store(false)
	_, err = client.Headers(PathREST)(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Strict-Transport-Security, X-Frame-Options")
}
