package events

import (
	"time"

	"github.com/maximepeter/utg-2024/internal/game/core"
)

// Event type constants
const (
	TypeMatchStarted  = "match.started"
	TypeMatchEnded    = "match.ended"
	TypeTurnStarted   = "turn.started"
	TypeTurnEnded     = "turn.ended"
	TypeActionChosen  = "action.chosen"
	TypeStageAdvanced = "stage.advanced"
	TypeFallbackUsed  = "policy.fallback"
	TypeInputFlagged  = "input.flagged"
	TypePhaseChanged  = "match.phase"
)

// MatchStartedEvent is published once the grid dimensions are known
type MatchStartedEvent struct {
	BaseEvent
	Width  int
	Height int
	Policy string
}

func NewMatchStartedEvent(matchID string, width, height int, policy string) *MatchStartedEvent {
	return &MatchStartedEvent{
		BaseEvent: newBase(TypeMatchStarted, matchID),
		Width:     width,
		Height:    height,
		Policy:    policy,
	}
}

// MatchEndedEvent is published when the input stream closes or the arena stops
type MatchEndedEvent struct {
	BaseEvent
	Turns    int
	Duration time.Duration
	Reason   string
}

func NewMatchEndedEvent(matchID string, turns int, duration time.Duration, reason string) *MatchEndedEvent {
	return &MatchEndedEvent{
		BaseEvent: newBase(TypeMatchEnded, matchID),
		Turns:     turns,
		Duration:  duration,
		Reason:    reason,
	}
}

// TurnStartedEvent is published after a snapshot has been parsed
type TurnStartedEvent struct {
	BaseEvent
	Turn            int
	RequiredActions int
	Stock           core.Stock
	MyOrgans        int
	OppOrgans       int
}

func NewTurnStartedEvent(matchID string, turn, required int, stock core.Stock, mine, theirs int) *TurnStartedEvent {
	return &TurnStartedEvent{
		BaseEvent:       newBase(TypeTurnStarted, matchID),
		Turn:            turn,
		RequiredActions: required,
		Stock:           stock,
		MyOrgans:        mine,
		OppOrgans:       theirs,
	}
}

// TurnEndedEvent is published once every action of the turn is written
type TurnEndedEvent struct {
	BaseEvent
	Turn      int
	Actions   int
	Searches  int
	Processed time.Duration
}

func NewTurnEndedEvent(matchID string, turn, actions, searches int, processed time.Duration) *TurnEndedEvent {
	return &TurnEndedEvent{
		BaseEvent: newBase(TypeTurnEnded, matchID),
		Turn:      turn,
		Actions:   actions,
		Searches:  searches,
		Processed: processed,
	}
}

// ActionChosenEvent describes the action picked for one slot
type ActionChosenEvent struct {
	BaseEvent
	Turn   int
	Slot   int
	Action core.Action
	Reason string
	Cost   int
}

func NewActionChosenEvent(matchID string, turn, slot int, action core.Action, reason string, cost int) *ActionChosenEvent {
	return &ActionChosenEvent{
		BaseEvent: newBase(TypeActionChosen, matchID),
		Turn:      turn,
		Slot:      slot,
		Action:    action,
		Reason:    reason,
		Cost:      cost,
	}
}

// StageAdvancedEvent is published when the scripted plan moves to its next protein
type StageAdvancedEvent struct {
	BaseEvent
	Turn int
	From int
	To   int
}

func NewStageAdvancedEvent(matchID string, turn, from, to int) *StageAdvancedEvent {
	return &StageAdvancedEvent{
		BaseEvent: newBase(TypeStageAdvanced, matchID),
		Turn:      turn,
		From:      from,
		To:        to,
	}
}

// FallbackUsedEvent is published when a slot falls back to expansion or WAIT
type FallbackUsedEvent struct {
	BaseEvent
	Turn   int
	Slot   int
	Reason string
}

func NewFallbackUsedEvent(matchID string, turn, slot int, reason string) *FallbackUsedEvent {
	return &FallbackUsedEvent{
		BaseEvent: newBase(TypeFallbackUsed, matchID),
		Turn:      turn,
		Slot:      slot,
		Reason:    reason,
	}
}

// InputFlaggedEvent is published for snapshot lines that were skipped
type InputFlaggedEvent struct {
	BaseEvent
	Line  string
	Cause string
}

func NewInputFlaggedEvent(matchID, line, cause string) *InputFlaggedEvent {
	return &InputFlaggedEvent{
		BaseEvent: newBase(TypeInputFlagged, matchID),
		Line:      line,
		Cause:     cause,
	}
}

// PhaseChangedEvent is published by the arena when a match changes phase
type PhaseChangedEvent struct {
	BaseEvent
	From   string
	To     string
	Reason string
}

func NewPhaseChangedEvent(matchID, from, to, reason string) *PhaseChangedEvent {
	return &PhaseChangedEvent{
		BaseEvent: newBase(TypePhaseChanged, matchID),
		From:      from,
		To:        to,
		Reason:    reason,
	}
}
