package game

import (
	"github.com/maximepeter/utg-2024/internal/game/core"
	"github.com/maximepeter/utg-2024/internal/game/rules"
)

// This file contains the per-player statistics the win conditions read.

// playerStats is recomputed after every turn
type playerStats struct {
	id     core.Owner
	organs int
	canAct bool
}

func (p *playerStats) GetID() core.Owner { return p.id }
func (p *playerStats) OrganCount() int   { return p.organs }
func (p *playerStats) CanAct() bool      { return p.canAct }

// updatePlayerStats recalculates organ counts and whether each player can still grow
func (e *Engine) updatePlayerStats() {
	for _, p := range Players {
		organs := e.OrgansOf(p)
		s := e.stats[p]
		s.organs = len(organs)
		s.canAct = e.legalMoves.CanAct(e.grid, organs, e.stocks[p], e.costs)
	}

	e.logger.Debug().
		Int("self_organs", e.stats[core.OwnerSelf].organs).
		Int("opponent_organs", e.stats[core.OwnerOpponent].organs).
		Bool("self_can_act", e.stats[core.OwnerSelf].canAct).
		Bool("opponent_can_act", e.stats[core.OwnerOpponent].canAct).
		Msg("Player stats updated")
}

// players exposes the stats to the rules package
func (e *Engine) players() []rules.Player {
	out := make([]rules.Player, 0, len(Players))
	for _, p := range Players {
		out = append(out, e.stats[p])
	}
	return out
}
