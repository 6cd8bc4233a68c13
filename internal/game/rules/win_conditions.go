package rules

import (
	"github.com/rs/zerolog"

	"github.com/maximepeter/utg-2024/internal/game/core"
)

const (
	ReasonTurnLimit  = "turn limit"
	ReasonEliminated = "player eliminated"
	ReasonStalemate  = "no player can act"
)

// WinConditionChecker handles game over detection and winner determination
type WinConditionChecker struct {
	logger   zerolog.Logger
	maxTurns int
}

// NewWinConditionChecker creates a new win condition checker
func NewWinConditionChecker(logger zerolog.Logger, maxTurns int) *WinConditionChecker {
	return &WinConditionChecker{
		logger:   logger.With().Str("component", "WinConditionChecker").Logger(),
		maxTurns: maxTurns,
	}
}

// CheckGameOver reports whether the match is over after turn, the winner
// (OwnerNone for a draw or a running match) and why it ended.
func (wc *WinConditionChecker) CheckGameOver(turn int, players []Player) (bool, core.Owner, string) {
	wc.logger.Debug().Int("turn", turn).Msg("Checking game over conditions")

	alive, acting := 0, 0
	for _, p := range players {
		if p.OrganCount() > 0 {
			alive++
		}
		if p.CanAct() {
			acting++
		}
	}

	var reason string
	switch {
	case alive < len(players):
		reason = ReasonEliminated
	case turn >= wc.maxTurns:
		reason = ReasonTurnLimit
	case acting == 0:
		reason = ReasonStalemate
	default:
		return false, core.OwnerNone, ""
	}

	winner := Leader(players)
	if winner == core.OwnerNone {
		wc.logger.Info().Str("reason", reason).Msg("No winner found (draw)")
	} else {
		wc.logger.Info().Str("reason", reason).Int("winner", int(winner)).Msg("Winner determined")
	}
	return true, winner, reason
}

// Leader returns the player with the most organs, OwnerNone on a tie
func Leader(players []Player) core.Owner {
	best, leader, tied := -1, core.OwnerNone, false
	for _, p := range players {
		switch n := p.OrganCount(); {
		case n > best:
			best, leader, tied = n, p.GetID(), false
		case n == best:
			tied = true
		}
	}
	if tied {
		return core.OwnerNone
	}
	return leader
}

// Player interface to avoid circular imports
type Player interface {
	GetID() core.Owner
	OrganCount() int
	CanAct() bool
}
