package docker

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/pharoslabs/pharos/internal/core/domain"
)

// portOpen reports whether a TCP connection to addr currently succeeds.
// One attempt, short deadline; the caller owns the retry cadence.
func portOpen(addr string) bool {
	conn, err := net.DialTimeout("tcp", addr, 500*time.Millisecond)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

// classifyStartError maps a daemon start failure onto the bootstrap error
// taxonomy. A host port conflict is the one start failure with its own
// category; everything else passes through wrapped.
func classifyStartError(err error) error {
	if err == nil {
		return nil
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "port is already allocated") || strings.Contains(msg, "address already in use") {
		return fmt.Errorf("%w: %v", domain.ErrPortTaken, err)
	}
	var addrErr *net.AddrError
	if errors.As(err, &addrErr) {
		return fmt.Errorf("%w: %v", domain.ErrPortTaken, err)
	}
	return fmt.Errorf("failed to start container: %w", err)
}
