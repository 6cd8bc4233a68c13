package game

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/maximepeter/utg-2024/internal/game/core"
	"github.com/maximepeter/utg-2024/internal/game/events"
	"github.com/maximepeter/utg-2024/internal/game/processor"
	"github.com/maximepeter/utg-2024/internal/game/rules"
	"github.com/maximepeter/utg-2024/internal/game/states"
)

// Engine referees a local match between two policies. It owns the full
// board and hands each side a WorldState seen from its own perspective.
type Engine struct {
	grid    *core.Grid
	organs  map[int]core.Organ
	nextID  int
	stocks  map[core.Owner]core.Stock
	stats   map[core.Owner]*playerStats
	turn    int
	costs   core.GrowthCosts
	weights core.Weights

	gameOver bool
	winner   core.Owner
	reason   string
	started  time.Time

	logger            zerolog.Logger
	gameID            string
	eventBus          events.Bus
	stateMachine      *states.StateMachine
	actionProcessor   *processor.ActionProcessor
	winCondition      *rules.WinConditionChecker
	legalMoves        *rules.LegalMoveCalculator
	productionManager *ProductionManager
	turnProcessor     *TurnProcessor
}

// Result summarises a finished (or running) match
type Result struct {
	GameID string
	Turns  int
	Winner core.Owner
	Reason string
	Organs map[core.Owner]int
	Stocks map[core.Owner]core.Stock
}

// NewEngine creates an engine, generating a map unless cfg.Entities is set
func NewEngine(ctx context.Context, cfg GameConfig) (*Engine, error) {
	return NewEngineInitializer(cfg).Initialize(ctx)
}

// Step applies one turn of commands. actions is keyed by player; missing
// players wait. Invalid commands are dropped and logged, never fatal.
func (e *Engine) Step(ctx context.Context, actions map[core.Owner][]core.Action) error {
	return e.turnProcessor.ProcessTurn(ctx, actions)
}

// Organ looks up a live organ by id
func (e *Engine) Organ(id int) (core.Organ, bool) {
	o, ok := e.organs[id]
	return o, ok
}

// OrgansOf returns a player's organs ordered by id
func (e *Engine) OrgansOf(owner core.Owner) []core.Organ {
	var out []core.Organ
	for _, o := range e.organs {
		if o.Owner == owner {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// RequiredActions is the number of commands owner must send: one per organism
func (e *Engine) RequiredActions(owner core.Owner) int {
	roots := make(map[int]bool)
	for _, o := range e.organs {
		if o.Owner == owner {
			roots[o.RootID] = true
		}
	}
	return len(roots)
}

// View builds the snapshot owner would read from the referee. Ownership is
// flipped for the opponent so every view calls its reader OwnerSelf.
func (e *Engine) View(owner core.Owner) *WorldState {
	ws := NewWorldState(e.grid.W, e.grid.H, e.weights)
	ws.Turn = e.turn

	for idx := 0; idx < e.grid.Len(); idx++ {
		c := e.grid.At(idx)
		switch c.Kind {
		case core.CellWall:
			_ = ws.Apply(core.WallEntity(c.Pos))
		case core.CellProtein:
			_ = ws.Apply(core.ProteinEntity(c.Pos, c.Protein))
		}
	}
	for _, side := range Players {
		for _, o := range e.OrgansOf(side) {
			if owner == core.OwnerOpponent {
				o.Owner = o.Owner.Opponent()
			}
			_ = ws.Apply(core.OrganEntity(o))
		}
	}

	ws.MyStock = e.stocks[owner]
	ws.OppStock = e.stocks[owner.Opponent()]
	ws.RequiredActions = e.RequiredActions(owner)
	return ws
}

// Turn returns the number of turns played
func (e *Engine) Turn() int { return e.turn }

// Stock returns a player's proteins
func (e *Engine) Stock(owner core.Owner) core.Stock { return e.stocks[owner] }

// GameID returns the match id
func (e *Engine) GameID() string { return e.gameID }

// IsGameOver reports whether the match has ended
func (e *Engine) IsGameOver() bool { return e.gameOver }

// CurrentPhase returns the match phase
func (e *Engine) CurrentPhase() states.MatchPhase { return e.stateMachine.CurrentPhase() }

// Render draws the board from our side
func (e *Engine) Render() string { return e.View(core.OwnerSelf).Render() }

// Result returns the current standings
func (e *Engine) Result() Result {
	r := Result{
		GameID: e.gameID,
		Turns:  e.turn,
		Winner: e.winner,
		Reason: e.reason,
		Organs: make(map[core.Owner]int, len(Players)),
		Stocks: make(map[core.Owner]core.Stock, len(Players)),
	}
	for _, p := range Players {
		r.Organs[p] = e.stats[p].organs
		r.Stocks[p] = e.stocks[p]
	}
	return r
}

// place puts a new organ on the board and returns it
func (e *Engine) place(g processor.Grow) core.Organ {
	o := core.Organ{
		ID:       e.nextID,
		Owner:    g.Owner,
		ParentID: g.Parent.ID,
		RootID:   g.Parent.RootID,
		Pos:      g.Cell,
		Type:     g.Action.Organ,
		Dir:      g.Action.Dir,
	}
	e.nextID++

	if c, _ := e.grid.Get(g.Cell); c.HasProtein() {
		e.stocks[g.Owner] = e.stocks[g.Owner].Add(c.Protein, AbsorbYield)
	}
	e.organs[o.ID] = o
	e.grid.Set(o.Pos, e.grid.OrganCell(o))
	return o
}

// checkGameOver ends the match when a win condition holds
func (e *Engine) checkGameOver(logger zerolog.Logger) {
	over, winner, reason := e.winCondition.CheckGameOver(e.turn, e.players())
	if !over {
		return
	}

	e.gameOver = true
	e.winner = winner
	e.reason = reason
	if err := e.stateMachine.TransitionTo(states.PhaseEnded, reason); err != nil {
		logger.Error().Err(err).Msg("Failed to transition to Ended state")
	}
	e.eventBus.Publish(events.NewMatchEndedEvent(e.gameID, e.turn, time.Since(e.started), reason))

	logger.Info().
		Int("winner", int(winner)).
		Str("reason", reason).
		Int("turn", e.turn).
		Msg("Game over")
}

// LastOutcome returns how the commands of the latest turn were resolved
func (e *Engine) LastOutcome() processor.Outcome { return e.turnProcessor.LastOutcome() }
