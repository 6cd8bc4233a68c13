package game

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/maximepeter/utg-2024/internal/game/core"
	"github.com/maximepeter/utg-2024/internal/game/events"
	"github.com/maximepeter/utg-2024/internal/game/mapgen"
	"github.com/maximepeter/utg-2024/internal/game/processor"
	"github.com/maximepeter/utg-2024/internal/game/rules"
	"github.com/maximepeter/utg-2024/internal/game/states"
)

// GameConfig holds everything needed to start an arena match
type GameConfig struct {
	Width        int
	Height       int
	MaxTurns     int
	WallRatio    float64
	ProteinRatio float64
	StartStock   core.Stock
	Costs        core.GrowthCosts
	Weights      core.Weights
	Rng          *rand.Rand
	Logger       zerolog.Logger
	GameID       string
	EventBus     events.Bus

	// Entities fixes the layout and skips map generation
	Entities []core.Entity
}

// EngineInitializer handles the initialization of a game engine
type EngineInitializer struct {
	config GameConfig
	logger zerolog.Logger
}

// NewEngineInitializer creates a new engine initializer
func NewEngineInitializer(cfg GameConfig) *EngineInitializer {
	logger := cfg.Logger.With().Str("component", "GameEngine").Logger()
	return &EngineInitializer{
		config: cfg,
		logger: logger,
	}
}

// Initialize creates and initializes a new game engine
func (ei *EngineInitializer) Initialize(ctx context.Context) (*Engine, error) {
	select {
	case <-ctx.Done():
		ei.logger.Error().Err(ctx.Err()).Msg("Engine creation cancelled or timed out during initial phase")
		return nil, ctx.Err()
	default:
	}

	if err := ei.setupDefaults(); err != nil {
		return nil, err
	}

	entities := ei.config.Entities
	if entities == nil {
		entities = ei.generateMap()
	}

	engine := ei.createEngine()
	if err := ei.placeEntities(engine, entities); err != nil {
		_ = engine.stateMachine.TransitionTo(states.PhaseError, err.Error())
		return nil, fmt.Errorf("map setup failed: %w", err)
	}

	engine.updatePlayerStats()
	engine.started = time.Now()
	if err := engine.stateMachine.TransitionTo(states.PhaseRunning, "Game setup complete"); err != nil {
		ei.logger.Error().Err(err).Msg("Failed to transition to Running state")
		return nil, err
	}
	engine.eventBus.Publish(events.NewMatchStartedEvent(engine.gameID, ei.config.Width, ei.config.Height, "arena"))
	engine.checkGameOver(ei.logger.With().Str("phase", "init").Logger())

	ei.logger.Info().
		Str("game_id", engine.gameID).
		Int("width", ei.config.Width).
		Int("height", ei.config.Height).
		Int("max_turns", ei.config.MaxTurns).
		Msg("Engine created successfully")

	return engine, nil
}

// setupDefaults fills in missing configuration
func (ei *EngineInitializer) setupDefaults() error {
	if ei.config.Width < 1 || ei.config.Height < 1 {
		return fmt.Errorf("invalid board size %dx%d: %w", ei.config.Width, ei.config.Height, core.ErrInvalidCoordinates)
	}
	if ei.config.Rng == nil {
		ei.logger.Debug().Msg("No RNG provided, creating new seeded RNG")
		ei.config.Rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if ei.config.GameID == "" {
		ei.config.GameID = uuid.NewString()
	}
	if ei.config.Costs == nil {
		ei.config.Costs = core.DefaultGrowthCosts()
	}
	if ei.config.Weights == (core.Weights{}) {
		ei.config.Weights = core.DefaultWeights()
	}
	if ei.config.MaxTurns <= 0 {
		ei.config.MaxTurns = 100
	}
	if ei.config.EventBus == nil {
		ei.config.EventBus = events.NewEventBus()
	}
	return nil
}

// generateMap generates the game map
func (ei *EngineInitializer) generateMap() []core.Entity {
	mapCfg := mapgen.DefaultMapConfig(ei.config.Width, ei.config.Height)
	mapCfg.WallRatio = ei.config.WallRatio
	mapCfg.ProteinRatio = ei.config.ProteinRatio
	return mapgen.NewGenerator(mapCfg, ei.config.Rng).GenerateMap().Entities
}

// createEngine creates the engine with all its components
func (ei *EngineInitializer) createEngine() *Engine {
	engine := &Engine{
		grid:            core.NewGrid(ei.config.Width, ei.config.Height, ei.config.Weights),
		organs:          make(map[int]core.Organ),
		nextID:          1,
		stocks:          make(map[core.Owner]core.Stock, len(Players)),
		stats:           make(map[core.Owner]*playerStats, len(Players)),
		costs:           ei.config.Costs,
		weights:         ei.config.Weights,
		winner:          core.OwnerNone,
		logger:          ei.logger,
		gameID:          ei.config.GameID,
		eventBus:        ei.config.EventBus,
		stateMachine:    states.NewStateMachine(ei.config.GameID, ei.logger, ei.config.EventBus),
		actionProcessor: processor.NewActionProcessor(ei.logger, ei.config.Costs),
		winCondition:    rules.NewWinConditionChecker(ei.logger, ei.config.MaxTurns),
		legalMoves:      rules.NewLegalMoveCalculator(),
	}
	for _, p := range Players {
		engine.stocks[p] = ei.config.StartStock
		engine.stats[p] = &playerStats{id: p}
	}

	engine.productionManager = NewProductionManager(ei.logger)
	engine.turnProcessor = NewTurnProcessor(engine)
	return engine
}

// placeEntities copies the layout onto the engine's board
func (ei *EngineInitializer) placeEntities(engine *Engine, entities []core.Entity) error {
	for _, ent := range entities {
		if !engine.grid.InBounds(ent.Pos) {
			return fmt.Errorf("entity at %s: %w", ent.Pos, core.ErrInvalidCoordinates)
		}
		switch ent.Kind {
		case core.EntityWall:
			engine.grid.Set(ent.Pos, engine.grid.WallCell(ent.Pos))
		case core.EntityProtein:
			engine.grid.Set(ent.Pos, engine.grid.ProteinCell(ent.Pos, ent.Protein))
		case core.EntityOrgan:
			o := ent.Organ
			o.Pos = ent.Pos
			if o.Owner != core.OwnerSelf && o.Owner != core.OwnerOpponent {
				return fmt.Errorf("organ %d: %w", o.ID, core.ErrUnknownOwner)
			}
			engine.organs[o.ID] = o
			engine.grid.Set(o.Pos, engine.grid.OrganCell(o))
			if o.ID >= engine.nextID {
				engine.nextID = o.ID + 1
			}
		default:
			return fmt.Errorf("entity kind %d: %w", ent.Kind, core.ErrUnknownEntityType)
		}
	}
	return nil
}
