package docker

import (
	"strings"
	"sync"

	"github.com/pharoslabs/pharos/internal/core/domain"
	"github.com/pharoslabs/pharos/internal/core/lifecycle"
)

// machineSet tracks the lifecycle machine of every container this adapter
// launched, keyed by full daemon ID. Entries are dropped once the container
// is terminated; stopped containers report their phase from daemon state, so
// the set only ever holds live launches.
type machineSet struct {
	mu   sync.Mutex
	byID map[string]*lifecycle.Machine
}

func newMachineSet() *machineSet {
	return &machineSet{byID: make(map[string]*lifecycle.Machine)}
}

func (s *machineSet) track(id string, m *lifecycle.Machine) {
	s.mu.Lock()
	s.byID[id] = m
	s.mu.Unlock()
}

// finish terminates and drops the machine for id. Clients may pass the short
// ID; keys are full daemon IDs, so matching is by prefix.
func (s *machineSet) finish(id string) {
	s.mu.Lock()
	for full, m := range s.byID {
		if strings.HasPrefix(full, id) {
			m.Terminate()
			delete(s.byID, full)
		}
	}
	s.mu.Unlock()
}

// phaseOf reports the tracked phase for containers launched by this adapter.
// Untracked containers (never launched here, or already finished) are mapped
// from the daemon state.
func (s *machineSet) phaseOf(id, state string) domain.Phase {
	s.mu.Lock()
	m, ok := s.byID[id]
	s.mu.Unlock()
	if ok {
		return m.Phase()
	}
	switch state {
	case "running":
		return domain.PhaseRunning
	case "exited", "dead":
		return domain.PhaseTerminated
	default:
		return domain.PhaseBuilt
	}
}

func (s *machineSet) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byID)
}
