package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/maximepeter/utg-2024/internal/config"
	"github.com/maximepeter/utg-2024/internal/game"
	"github.com/maximepeter/utg-2024/internal/game/core"
	"github.com/maximepeter/utg-2024/internal/game/events"
	"github.com/maximepeter/utg-2024/internal/policy"
	"github.com/maximepeter/utg-2024/internal/protocol"
)

// Bot plays one match over the referee protocol
type Bot struct {
	matchID string
	kind    string
	logger  zerolog.Logger
	bus     events.Bus
	weights core.Weights

	policy  policy.Policy
	state   policy.State
	reloads chan *config.Config
}

func newBot(matchID, kind string, cfg *config.Config, logger zerolog.Logger, bus events.Bus) (*Bot, error) {
	b := &Bot{
		matchID: matchID,
		kind:    kind,
		logger:  logger.With().Str("component", "bot").Logger(),
		bus:     bus,
		reloads: make(chan *config.Config, 1),
	}
	if err := b.apply(cfg); err != nil {
		return nil, err
	}
	return b, nil
}

// PolicyName returns the name of the active policy
func (b *Bot) PolicyName() string { return b.policy.Name() }

// Reload queues cfg for the next turn. Only the latest pending config is kept.
// Safe to call from the config watcher goroutine.
func (b *Bot) Reload(cfg *config.Config) {
	for {
		select {
		case b.reloads <- cfg:
			return
		default:
		}
		select {
		case <-b.reloads:
		default:
		}
	}
}

func (b *Bot) apply(cfg *config.Config) error {
	opts, err := policy.OptionsFromConfig(cfg.Bot)
	if err != nil {
		return fmt.Errorf("policy options: %w", err)
	}
	opts.Logger = b.logger
	opts.Publisher = b.bus
	opts.MatchID = b.matchID

	p, err := policy.New(b.kind, opts)
	if err != nil {
		return err
	}
	b.policy = p
	b.weights = cfg.Grid.CoreWeights()
	return nil
}

// drainReloads applies a pending config change, keeping the stage progress
func (b *Bot) drainReloads() {
	select {
	case cfg := <-b.reloads:
		if err := b.apply(cfg); err != nil {
			b.logger.Warn().Err(err).Msg("Keeping previous policy")
			return
		}
		b.logger.Info().Str("policy", b.policy.Name()).Msg("Policy reloaded")
	default:
	}
}

// Run reads snapshots from in and answers on out until in is exhausted
func (b *Bot) Run(in io.Reader, out io.Writer) error {
	reader := protocol.NewReader(in, b.logger)
	reader.OnFlagged(func(line string, cause error) {
		b.bus.Publish(events.NewInputFlaggedEvent(b.matchID, line, cause.Error()))
	})
	writer := protocol.NewWriter(out)

	width, height, err := reader.ReadDimensions()
	if err != nil {
		return fmt.Errorf("reading dimensions: %w", err)
	}
	b.bus.Publish(events.NewMatchStartedEvent(b.matchID, width, height, b.policy.Name()))

	start := time.Now()
	ws := game.NewWorldState(width, height, b.weights)
	for {
		err := reader.ReadTurn(ws)
		if errors.Is(err, io.EOF) {
			b.bus.Publish(events.NewMatchEndedEvent(b.matchID, ws.Turn, time.Since(start), "input closed"))
			b.logger.Info().Int("turns", ws.Turn).Msg("Referee closed the input")
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading turn %d: %w", ws.Turn+1, err)
		}

		b.drainReloads()
		turnStart := time.Now()
		b.bus.Publish(events.NewTurnStartedEvent(b.matchID, ws.Turn, ws.RequiredActions, ws.MyStock, len(ws.MyOrgans), len(ws.OppOrgans)))

		actions, next := b.policy.Decide(ws, b.state)
		b.state = next
		if err := writer.WriteActions(actions); err != nil {
			return fmt.Errorf("writing turn %d: %w", ws.Turn, err)
		}

		b.bus.Publish(events.NewTurnEndedEvent(b.matchID, ws.Turn, len(actions), b.policy.Searches(), time.Since(turnStart)))
	}
}
