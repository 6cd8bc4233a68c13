package states

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/maximepeter/utg-2024/internal/game/events"
)

// Transition represents a phase change in the history
type Transition struct {
	From      MatchPhase
	To        MatchPhase
	Timestamp time.Time
	Reason    string
}

// StateMachine tracks the phase of one match
type StateMachine struct {
	mu           sync.RWMutex
	matchID      string
	currentPhase MatchPhase
	history      []Transition
	logger       zerolog.Logger
	publisher    events.Publisher
}

// NewStateMachine creates a machine in PhaseStarting. publisher may be nil.
func NewStateMachine(matchID string, logger zerolog.Logger, publisher events.Publisher) *StateMachine {
	return &StateMachine{
		matchID:      matchID,
		currentPhase: PhaseStarting,
		history:      make([]Transition, 0, 4),
		logger:       logger.With().Str("component", "StateMachine").Logger(),
		publisher:    publisher,
	}
}

// CurrentPhase returns the current match phase
func (sm *StateMachine) CurrentPhase() MatchPhase {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	return sm.currentPhase
}

// TransitionTo attempts to transition to the specified phase
func (sm *StateMachine) TransitionTo(targetPhase MatchPhase, reason string) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.currentPhase.CanTransitionTo(targetPhase) {
		return fmt.Errorf("invalid transition from %s to %s", sm.currentPhase, targetPhase)
	}

	previousPhase := sm.currentPhase
	sm.history = append(sm.history, Transition{
		From:      previousPhase,
		To:        targetPhase,
		Timestamp: time.Now(),
		Reason:    reason,
	})
	sm.currentPhase = targetPhase

	if sm.publisher != nil {
		sm.publisher.Publish(events.NewPhaseChangedEvent(
			sm.matchID,
			previousPhase.String(),
			targetPhase.String(),
			reason,
		))
	}

	sm.logger.Info().
		Str("from_phase", previousPhase.String()).
		Str("to_phase", targetPhase.String()).
		Str("reason", reason).
		Msg("State transition completed")

	return nil
}

// GetHistory returns a copy of the transition history
func (sm *StateMachine) GetHistory() []Transition {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	history := make([]Transition, len(sm.history))
	copy(history, sm.history)
	return history
}

// CanTransitionTo checks if a transition to the target phase is allowed
func (sm *StateMachine) CanTransitionTo(targetPhase MatchPhase) bool {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	return sm.currentPhase.CanTransitionTo(targetPhase)
}
