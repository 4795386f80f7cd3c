package docker

import (
	"errors"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pharoslabs/pharos/internal/core/domain"
)

func TestPortOpen(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	assert.True(t, portOpen(ln.Addr().String()))

	ln.Close()
	assert.False(t, portOpen(ln.Addr().String()))
}

func TestClassifyStartError_PortConflict(t *testing.T) {
	err := classifyStartError(errors.New("Error response from daemon: driver failed programming external connectivity: Bind for 0.0.0.0:8000 failed: port is already allocated"))
	assert.ErrorIs(t, err, domain.ErrPortTaken)
}

func TestClassifyStartError_AddressInUse(t *testing.T) {
	err := classifyStartError(errors.New("listen tcp 0.0.0.0:8000: bind: address already in use"))
	assert.ErrorIs(t, err, domain.ErrPortTaken)
}

func TestClassifyStartError_Other(t *testing.T) {
	orig := errors.New("No such image: pharos-app:latest")
	err := classifyStartError(orig)
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrPortTaken)
	assert.ErrorIs(t, err, orig)
}

func TestClassifyStartError_Nil(t *testing.T) {
	assert.NoError(t, classifyStartError(nil))
}
