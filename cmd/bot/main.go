package main

import (
	"flag"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/maximepeter/utg-2024/internal/config"
	"github.com/maximepeter/utg-2024/internal/game/events"
	"github.com/maximepeter/utg-2024/internal/game/events/subscribers"
)

func main() {
	// Command line flags
	configPath := flag.String("config", "", "Path to config file")
	env := flag.String("env", "", "Environment overlay, loads config.<env>.yaml (empty for none)")
	policyName := flag.String("policy", "", "Decision policy: threshold or scripted (empty to use config default)")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error) (empty to use config default)")
	watch := flag.Bool("watch", false, "Reload the config file when it changes")
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize config")
	}
	if *env != "" {
		if err := config.LoadEnvironmentConfig(*env); err != nil {
			log.Fatal().Err(err).Str("env", *env).Msg("Failed to load environment config")
		}
	}

	cfg := config.Get()
	if *policyName == "" {
		*policyName = cfg.Bot.Policy
	}
	if *logLevel == "" {
		*logLevel = cfg.Logging.Level
	}
	setupLogging(*logLevel, cfg.Logging.Format)

	matchID := uuid.NewString()
	logger := log.With().Str("match_id", matchID).Logger()

	bus := events.NewEventBus()
	if cfg.Logging.Events {
		sub := subscribers.NewLoggerSubscriber("bot_events", logger, zerolog.DebugLevel)
		sub.SetDevMode(cfg.Logging.Format != "json")
		bus.Subscribe(sub)
	}

	b, err := newBot(matchID, *policyName, cfg, logger, bus)
	if err != nil {
		logger.Fatal().Err(err).Str("policy", *policyName).Msg("Failed to create policy")
	}

	if *watch {
		config.WatchConfig(logger, b.Reload)
		logger.Info().Str("file", config.ConfigFilePath()).Msg("Watching config for changes")
	}

	logger.Info().Str("policy", b.PolicyName()).Msg("Bot ready")
	if err := b.Run(os.Stdin, os.Stdout); err != nil {
		logger.Fatal().Err(err).Msg("Bot stopped")
	}
}

// setupLogging writes to stderr; stdout carries the referee protocol
func setupLogging(level, format string) {
	var logLevel zerolog.Level
	switch level {
	case "debug":
		logLevel = zerolog.DebugLevel
	case "info":
		logLevel = zerolog.InfoLevel
	case "warn":
		logLevel = zerolog.WarnLevel
	case "error":
		logLevel = zerolog.ErrorLevel
	default:
		logLevel = zerolog.InfoLevel
	}

	zerolog.SetGlobalLevel(logLevel)

	if format == "json" {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		})
	}
}
