package main

import (
	"context"
	"flag"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/maximepeter/utg-2024/internal/arena"
	"github.com/maximepeter/utg-2024/internal/config"
	"github.com/maximepeter/utg-2024/internal/game"
	"github.com/maximepeter/utg-2024/internal/game/core"
	"github.com/maximepeter/utg-2024/internal/game/events"
	"github.com/maximepeter/utg-2024/internal/game/events/subscribers"
	"github.com/maximepeter/utg-2024/internal/policy"
)

func main() {
	// Command line flags
	configPath := flag.String("config", "", "Path to config file")
	env := flag.String("env", "", "Environment overlay, loads config.<env>.yaml (empty for none)")
	self := flag.String("self", "", "Policy for our side (empty to use config default)")
	opponent := flag.String("opponent", policy.KindScripted, "Policy for the opponent")
	seed := flag.Int64("seed", -1, "Map seed (-1 to use config default)")
	maxTurns := flag.Int("max-turns", -1, "Turn limit (-1 to use config default)")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error) (empty to use config default)")
	out := flag.String("out", "", "Write the YAML report to this file (empty for stdout)")
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize config")
	}
	if *env != "" {
		if err := config.LoadEnvironmentConfig(*env); err != nil {
			log.Fatal().Err(err).Str("env", *env).Msg("Failed to load environment config")
		}
	}

	cfg := *config.Get()
	if *self == "" {
		*self = cfg.Bot.Policy
	}
	if *seed != -1 {
		cfg.Arena.Seed = *seed
	}
	if *maxTurns != -1 {
		cfg.Arena.MaxTurns = *maxTurns
	}
	if *logLevel == "" {
		*logLevel = cfg.Logging.Level
	}
	setupLogging(*logLevel, cfg.Logging.Format)

	opts, err := policy.OptionsFromConfig(cfg.Bot)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid bot configuration")
	}
	opts.Logger = log.Logger

	bus := events.NewEventBus()
	if cfg.Logging.Events {
		sub := subscribers.NewLoggerSubscriber("arena_events", log.Logger, zerolog.DebugLevel)
		sub.SetDevMode(cfg.Logging.Format != "json")
		bus.Subscribe(sub)
	}
	opts.Publisher = bus

	selfPolicy, err := policy.New(*self, opts)
	if err != nil {
		log.Fatal().Err(err).Str("policy", *self).Msg("Failed to create policy")
	}
	oppPolicy, err := policy.New(*opponent, opts)
	if err != nil {
		log.Fatal().Err(err).Str("policy", *opponent).Msg("Failed to create policy")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	engine, err := game.NewEngine(ctx, arena.GameConfig(&cfg, log.Logger, bus))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create engine")
	}

	log.Info().
		Str("game_id", engine.GameID()).
		Int64("seed", cfg.Arena.Seed).
		Str("self", selfPolicy.Name()).
		Str("opponent", oppPolicy.Name()).
		Msg("Starting arena match")
	log.Debug().Msg("Initial board\n" + engine.Render())

	result, runErr := arena.NewMatch(engine, selfPolicy, oppPolicy, log.Logger).Run(ctx)
	if runErr != nil {
		log.Error().Err(runErr).Msg("Match aborted")
	}

	report := arena.NewReport(result, cfg.Arena.Seed, map[core.Owner]string{
		core.OwnerSelf:     selfPolicy.Name(),
		core.OwnerOpponent: oppPolicy.Name(),
	})
	if err := writeReport(report, *out); err != nil {
		log.Fatal().Err(err).Msg("Failed to write report")
	}
	if runErr != nil {
		os.Exit(1)
	}
}

func writeReport(r arena.Report, path string) error {
	var w io.Writer = os.Stdout
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	return r.WriteYAML(w)
}

func setupLogging(level, format string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	if format == "json" {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
		return
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	})
}
