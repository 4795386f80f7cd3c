package domain

import "errors"

// Bootstrap failures are all fatal at the layer they occur: no retry, no
// fallback, no partial artifact. Wrap these with fmt.Errorf("...: %w", ...)
// so callers can classify with errors.Is.
var (
	// ErrUnresolvable: the dependency manifest cannot be satisfied, or the
	// package index is unreachable. Fatal at build time; no image is produced.
	ErrUnresolvable = errors.New("dependency resolution failed")

	// ErrEntryPoint: the application object at the fixed module path does not
	// exist or raised during initialization. The process exits non-zero and
	// the container is considered crashed.
	ErrEntryPoint = errors.New("entry point failed to load")

	// ErrPortTaken: the fixed application port is already bound on the host.
	// No fallback port is attempted.
	ErrPortTaken = errors.New("application port already in use")
)
