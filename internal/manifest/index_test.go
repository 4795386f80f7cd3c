package manifest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPIndex_Versions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/fastapi/json", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"releases": {"0.109.0": [], "0.110.0": [{"filename": "fastapi-0.110.0.tar.gz"}]}}`))
	}))
	defer srv.Close()

	ix := NewHTTPIndex(srv.URL, srv.Client())
	versions, err := ix.Versions(context.Background(), "fastapi")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"0.109.0", "0.110.0"}, versions)
}

func TestHTTPIndex_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	ix := NewHTTPIndex(srv.URL, srv.Client())
	_, err := ix.Versions(context.Background(), "no-such-package")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestHTTPIndex_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	ix := NewHTTPIndex(srv.URL, srv.Client())
	_, err := ix.Versions(context.Background(), "fastapi")
	assert.Error(t, err)
}

func TestHTTPIndex_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // shut down before the request

	ix := NewHTTPIndex(srv.URL, nil)
	_, err := ix.Versions(context.Background(), "fastapi")
	assert.Error(t, err)
}
