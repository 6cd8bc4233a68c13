package states

import "fmt"

// MatchPhase represents the current phase of an arena match
type MatchPhase int

const (
	// PhaseStarting - Map generation, root placement
	PhaseStarting MatchPhase = iota

	// PhaseRunning - Turns are being played
	PhaseRunning

	// PhaseEnded - Winner determined
	PhaseEnded

	// PhaseError - A player could not be driven any further
	PhaseError
)

// String returns the string representation of a MatchPhase
func (p MatchPhase) String() string {
	switch p {
	case PhaseStarting:
		return "Starting"
	case PhaseRunning:
		return "Running"
	case PhaseEnded:
		return "Ended"
	case PhaseError:
		return "Error"
	default:
		return fmt.Sprintf("Unknown(%d)", p)
	}
}

// IsTerminal returns true if the phase represents a terminal state
func (p MatchPhase) IsTerminal() bool {
	return p == PhaseEnded || p == PhaseError
}

// CanReceiveActions returns true if the match can process player actions in this phase
func (p MatchPhase) CanReceiveActions() bool {
	return p == PhaseRunning
}

// AllowedTransitions returns the valid phases this phase can transition to
func (p MatchPhase) AllowedTransitions() []MatchPhase {
	switch p {
	case PhaseStarting:
		return []MatchPhase{PhaseRunning, PhaseError}
	case PhaseRunning:
		return []MatchPhase{PhaseEnded, PhaseError}
	default:
		return []MatchPhase{}
	}
}

// CanTransitionTo checks if a transition from this phase to the target phase is allowed
func (p MatchPhase) CanTransitionTo(target MatchPhase) bool {
	for _, phase := range p.AllowedTransitions() {
		if phase == target {
			return true
		}
	}
	return false
}
