package domain

// Phase is the bootstrap lifecycle of a launched container. The sequence is
// strictly Built -> Starting -> Bound -> Running -> Terminated; a failure
// before Bound is terminal, there is no retry or rebind.
type Phase string

const (
	PhaseBuilt      Phase = "built"
	PhaseStarting   Phase = "starting"
	PhaseBound      Phase = "bound"
	PhaseRunning    Phase = "running"
	PhaseTerminated Phase = "terminated"
)

func (p Phase) String() string { return string(p) }

// Terminal reports whether the phase can never change again.
func (p Phase) Terminal() bool { return p == PhaseTerminated }
