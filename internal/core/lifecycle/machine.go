// Package lifecycle enforces the bootstrap phase sequence of a launched
// container: Built -> Starting -> Bound -> Running -> Terminated.
//
// The build and run halves of the system are deliberately independent; this
// machine only models the run half. Any phase may fall to Terminated, but a
// skipped phase (e.g. Starting straight to Running) is illegal, and
// Terminated is absorbing.
package lifecycle

import (
	"fmt"
	"sync"

	"github.com/pharoslabs/pharos/internal/core/domain"
)

var transitions = map[domain.Phase][]domain.Phase{
	domain.PhaseBuilt:      {domain.PhaseStarting, domain.PhaseTerminated},
	domain.PhaseStarting:   {domain.PhaseBound, domain.PhaseTerminated},
	domain.PhaseBound:      {domain.PhaseRunning, domain.PhaseTerminated},
	domain.PhaseRunning:    {domain.PhaseTerminated},
	domain.PhaseTerminated: {},
}

// Machine tracks the phase of one container. Safe for concurrent use.
type Machine struct {
	mu    sync.Mutex
	phase domain.Phase
}

// New returns a machine in the Built phase (image exists, process not started).
func New() *Machine {
	return &Machine{phase: domain.PhaseBuilt}
}

// Phase returns the current phase.
func (m *Machine) Phase() domain.Phase {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.phase
}

// To advances the machine to next, or returns an error if the transition is
// not in the lifecycle table. The phase is unchanged on error.
func (m *Machine) To(next domain.Phase) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, allowed := range transitions[m.phase] {
		if next == allowed {
			m.phase = next
			return nil
		}
	}
	return fmt.Errorf("illegal phase transition %s -> %s", m.phase, next)
}

// Terminate forces the machine into the Terminated phase from any state.
// Terminating an already terminated machine is a no-op.
func (m *Machine) Terminate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.phase = domain.PhaseTerminated
}
