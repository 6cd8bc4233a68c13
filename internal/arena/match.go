// Package arena plays local matches between two policies on the game Engine.
package arena

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"github.com/maximepeter/utg-2024/internal/config"
	"github.com/maximepeter/utg-2024/internal/game"
	"github.com/maximepeter/utg-2024/internal/game/core"
	"github.com/maximepeter/utg-2024/internal/game/events"
	"github.com/maximepeter/utg-2024/internal/policy"
)

// GameConfig translates the arena and bot sections of cfg into engine settings
func GameConfig(cfg *config.Config, logger zerolog.Logger, bus events.Bus) game.GameConfig {
	return game.GameConfig{
		Width:        cfg.Arena.Width,
		Height:       cfg.Arena.Height,
		MaxTurns:     cfg.Arena.MaxTurns,
		WallRatio:    cfg.Arena.WallRatio,
		ProteinRatio: cfg.Arena.ProteinRatio,
		StartStock:   cfg.Arena.Stock(),
		Costs:        cfg.Bot.GrowthCosts(),
		Weights:      cfg.Grid.CoreWeights(),
		Rng:          rand.New(rand.NewSource(cfg.Arena.Seed)),
		Logger:       logger,
		EventBus:     bus,
	}
}

// Match drives one engine with a policy per side
type Match struct {
	engine   *game.Engine
	policies map[core.Owner]policy.Policy
	states   map[core.Owner]policy.State
	logger   zerolog.Logger
}

// NewMatch pairs self and opponent policies with engine
func NewMatch(engine *game.Engine, self, opponent policy.Policy, logger zerolog.Logger) *Match {
	return &Match{
		engine: engine,
		policies: map[core.Owner]policy.Policy{
			core.OwnerSelf:     self,
			core.OwnerOpponent: opponent,
		},
		states: map[core.Owner]policy.State{},
		logger: logger.With().Str("component", "arena").Str("game_id", engine.GameID()).Logger(),
	}
}

// Run plays turns until the engine reports the match over
func (m *Match) Run(ctx context.Context) (game.Result, error) {
	start := time.Now()
	for !m.engine.IsGameOver() {
		actions := make(map[core.Owner][]core.Action, len(game.Players))
		for _, side := range game.Players {
			ws := m.engine.View(side)
			acts, next := m.policies[side].Decide(ws, m.states[side])
			m.states[side] = next
			actions[side] = acts
		}

		if err := m.engine.Step(ctx, actions); err != nil {
			return m.engine.Result(), fmt.Errorf("arena turn %d: %w", m.engine.Turn()+1, err)
		}
		m.logger.Debug().
			Int("turn", m.engine.Turn()).
			Str("self_stock", m.engine.Stock(core.OwnerSelf).String()).
			Str("opponent_stock", m.engine.Stock(core.OwnerOpponent).String()).
			Msg("Turn played")
	}

	r := m.engine.Result()
	m.logger.Info().
		Int("turns", r.Turns).
		Str("winner", SideName(r.Winner)).
		Str("reason", r.Reason).
		Dur("duration", time.Since(start)).
		Msg("Match finished")
	return r, nil
}

// SideName names a player in reports
func SideName(o core.Owner) string {
	switch o {
	case core.OwnerSelf:
		return "self"
	case core.OwnerOpponent:
		return "opponent"
	}
	return "draw"
}
