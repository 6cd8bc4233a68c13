package game

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/maximepeter/utg-2024/internal/game/core"
	"github.com/maximepeter/utg-2024/internal/game/events"
	"github.com/maximepeter/utg-2024/internal/game/processor"
)

// TurnProcessor handles the orchestration of a single turn
type TurnProcessor struct {
	engine *Engine
	logger zerolog.Logger

	last processor.Outcome
}

// NewTurnProcessor creates a new turn processor
func NewTurnProcessor(engine *Engine) *TurnProcessor {
	return &TurnProcessor{
		engine: engine,
		logger: engine.logger,
	}
}

// ProcessTurn executes a complete game turn: grow resolution, harvester
// income, then the win condition check
func (tp *TurnProcessor) ProcessTurn(ctx context.Context, actions map[core.Owner][]core.Action) error {
	if err := tp.checkContext(ctx, "before starting"); err != nil {
		return err
	}
	if err := tp.validateGameState(); err != nil {
		return err
	}

	e := tp.engine
	e.turn++
	turnLogger := tp.logger.With().Int("turn", e.turn).Logger()
	turnLogger.Debug().Msg("Starting game step")
	turnStartTime := time.Now()

	if err := tp.processActionsPhase(ctx, actions, turnLogger); err != nil {
		return err
	}

	if err := tp.checkContext(ctx, "before production"); err != nil {
		return fmt.Errorf("turn %d production phase: %w", e.turn, err)
	}
	e.productionManager.ProcessTurnProduction(e, e.turn)

	e.updatePlayerStats()
	e.checkGameOver(turnLogger)

	e.eventBus.Publish(events.NewTurnEndedEvent(e.gameID, e.turn, len(tp.last.Grows), 0, time.Since(turnStartTime)))
	turnLogger.Debug().Msg("Game step finished")
	return nil
}

// LastOutcome returns how the commands of the latest turn were resolved
func (tp *TurnProcessor) LastOutcome() processor.Outcome { return tp.last }

// checkContext checks if the context is cancelled
func (tp *TurnProcessor) checkContext(ctx context.Context, phase string) error {
	select {
	case <-ctx.Done():
		tp.logger.Warn().
			Err(ctx.Err()).
			Int("turn", tp.engine.turn).
			Str("phase", phase).
			Msg("Game step cancelled or timed out")
		return ctx.Err()
	default:
		return nil
	}
}

// validateGameState ensures the game can receive actions
func (tp *TurnProcessor) validateGameState() error {
	if tp.engine.gameOver {
		tp.logger.Warn().
			Int("turn", tp.engine.turn).
			Msg("Attempted to step game that is already over")
		return fmt.Errorf("turn %d step: %w", tp.engine.turn, core.ErrGameOver)
	}

	currentPhase := tp.engine.stateMachine.CurrentPhase()
	if !currentPhase.CanReceiveActions() {
		tp.logger.Warn().
			Str("current_phase", currentPhase.String()).
			Int("turn", tp.engine.turn).
			Msg("Attempted to step game in phase that cannot receive actions")
		return fmt.Errorf("game is in %s phase and cannot receive actions", currentPhase)
	}
	return nil
}

// processActionsPhase resolves the commands and applies the accepted grows
func (tp *TurnProcessor) processActionsPhase(ctx context.Context, actions map[core.Owner][]core.Action, turnLogger zerolog.Logger) error {
	e := tp.engine
	out, err := e.actionProcessor.ProcessActions(ctx, e.grid, e, e.stocks, actions)
	if err != nil {
		return fmt.Errorf("turn %d action processing: %w", e.turn, err)
	}
	tp.last = out

	for _, r := range out.Rejected {
		turnLogger.Warn().Err(r.Err).Int("player", int(r.Owner)).Msg("Command rejected")
	}
	for owner, s := range out.Stocks {
		e.stocks[owner] = s
	}
	for _, g := range out.Grows {
		o := e.place(g)
		turnLogger.Debug().
			Int("player", int(o.Owner)).
			Int("organ_id", o.ID).
			Str("type", o.Type.String()).
			Str("pos", o.Pos.String()).
			Msg("Organ grown")
	}
	for _, c := range out.Collisions {
		e.grid.Set(c, e.grid.WallCell(c))
		turnLogger.Info().Str("pos", c.String()).Msg("Both players grew onto the same cell; it becomes a wall")
	}
	return nil
}
