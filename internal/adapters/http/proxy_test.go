package http

import (
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pharoslabs/pharos/internal/core/domain"
)

func TestProxy_RoutesSubdomainToRunningContainer(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("hello from app"))
	}))
	defer backend.Close()

	host, portStr, err := net.SplitHostPort(backend.Listener.Addr().String())
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	c := &fakeContainers{list: []domain.Container{
		{ID: "abc123", Name: "myapp", Phase: domain.PhaseRunning, IPAddress: host},
	}}
	app := NewServer(&fakeBuilder{}, c, port, noopLogger())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Host = "myapp.localhost"
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "hello from app", string(body))
}

func TestProxy_UnknownSubdomainIs404(t *testing.T) {
	c := &fakeContainers{}
	app := NewServer(&fakeBuilder{}, c, 8000, noopLogger())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Host = "ghost.localhost"
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestProxy_SkipsNonRunningContainers(t *testing.T) {
	c := &fakeContainers{list: []domain.Container{
		{ID: "abc123", Name: "myapp", Phase: domain.PhaseTerminated, IPAddress: "127.0.0.1"},
	}}
	app := NewServer(&fakeBuilder{}, c, 8000, noopLogger())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Host = "myapp.localhost"
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestProxy_HostWithoutSubdomainFallsThrough(t *testing.T) {
	app := NewServer(&fakeBuilder{}, &fakeContainers{}, 8000, noopLogger())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Host = "pharos"
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
