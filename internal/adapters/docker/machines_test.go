package docker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pharoslabs/pharos/internal/core/domain"
	"github.com/pharoslabs/pharos/internal/core/lifecycle"
)

const fullID = "4f1c2a9be8d7b1a6c3e5f2d4a8b9c0d1e2f3a4b5c6d7e8f9a0b1c2d3e4f5a6b7"

func TestMachineSet_TracksLaunchedPhase(t *testing.T) {
	s := newMachineSet()
	m := lifecycle.New()
	s.track(fullID, m)

	require.NoError(t, m.To(domain.PhaseStarting))
	assert.Equal(t, domain.PhaseStarting, s.phaseOf(fullID, ""))
}

func TestMachineSet_FinishDropsEntry(t *testing.T) {
	s := newMachineSet()
	m := lifecycle.New()
	s.track(fullID, m)
	require.Equal(t, 1, s.len())

	s.finish(fullID)

	assert.Equal(t, domain.PhaseTerminated, m.Phase())
	assert.Equal(t, 0, s.len(), "a finished launch must not stay tracked")
}

func TestMachineSet_FinishMatchesShortID(t *testing.T) {
	s := newMachineSet()
	m := lifecycle.New()
	s.track(fullID, m)

	s.finish(fullID[:12])

	assert.Equal(t, domain.PhaseTerminated, m.Phase())
	assert.Equal(t, 0, s.len())
}

func TestMachineSet_RepeatedLaunchesDoNotAccumulate(t *testing.T) {
	s := newMachineSet()
	for i := 0; i < 100; i++ {
		id := fullID[:32] + string(rune('a'+i%26)) + fullID[33:]
		s.track(id, lifecycle.New())
		s.finish(id)
	}
	assert.Equal(t, 0, s.len())
}

func TestMachineSet_UntrackedMapsDaemonState(t *testing.T) {
	s := newMachineSet()

	assert.Equal(t, domain.PhaseRunning, s.phaseOf("other", "running"))
	assert.Equal(t, domain.PhaseTerminated, s.phaseOf("other", "exited"))
	assert.Equal(t, domain.PhaseTerminated, s.phaseOf("other", "dead"))
	assert.Equal(t, domain.PhaseBuilt, s.phaseOf("other", "created"))
}
