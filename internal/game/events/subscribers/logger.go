package subscribers

import (
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/maximepeter/utg-2024/internal/game/events"
	"github.com/maximepeter/utg-2024/internal/protocol"
)

// LoggerSubscriber logs events to structured logs
type LoggerSubscriber struct {
	id              string
	logger          zerolog.Logger
	logLevel        zerolog.Level
	eventTypeFilter map[string]bool // nil logs everything
	devMode         bool
}

// NewLoggerSubscriber creates a new logger subscriber
func NewLoggerSubscriber(id string, logger zerolog.Logger, logLevel zerolog.Level) *LoggerSubscriber {
	return &LoggerSubscriber{
		id:       id,
		logger:   logger.With().Str("subscriber", "event_logger").Logger(),
		logLevel: logLevel,
	}
}

// ID returns the subscriber's unique identifier
func (ls *LoggerSubscriber) ID() string {
	return ls.id
}

// SetEventFilter sets which event types to log (nil means log all)
func (ls *LoggerSubscriber) SetEventFilter(eventTypes []string) {
	if len(eventTypes) == 0 {
		ls.eventTypeFilter = nil
		return
	}

	ls.eventTypeFilter = make(map[string]bool, len(eventTypes))
	for _, eventType := range eventTypes {
		ls.eventTypeFilter[eventType] = true
	}
}

// SetDevMode adds the full JSON payload of every event to its log line
func (ls *LoggerSubscriber) SetDevMode(enabled bool) {
	ls.devMode = enabled
}

// InterestedIn returns true if the subscriber wants to receive this event type
func (ls *LoggerSubscriber) InterestedIn(eventType string) bool {
	if ls.eventTypeFilter == nil {
		return true
	}
	return ls.eventTypeFilter[eventType]
}

// HandleEvent processes an event by logging it
func (ls *LoggerSubscriber) HandleEvent(event events.Event) {
	logEvent := ls.logger.WithLevel(ls.level(event)).
		Str("event_type", event.Type()).
		Str("match_id", event.MatchID()).
		Time("timestamp", event.Timestamp())

	switch e := event.(type) {
	case *events.MatchStartedEvent:
		logEvent.
			Int("width", e.Width).
			Int("height", e.Height).
			Str("policy", e.Policy)

	case *events.MatchEndedEvent:
		logEvent.
			Int("turns", e.Turns).
			Dur("duration", e.Duration).
			Str("reason", e.Reason)

	case *events.TurnStartedEvent:
		logEvent.
			Int("turn", e.Turn).
			Int("required_actions", e.RequiredActions).
			Str("stock", e.Stock.String()).
			Int("my_organs", e.MyOrgans).
			Int("opp_organs", e.OppOrgans)

	case *events.TurnEndedEvent:
		logEvent.
			Int("turn", e.Turn).
			Int("actions_count", e.Actions).
			Int("searches", e.Searches).
			Dur("process_time", e.Processed)

	case *events.ActionChosenEvent:
		logEvent.
			Int("turn", e.Turn).
			Int("slot", e.Slot).
			Str("action", protocol.FormatAction(e.Action)).
			Str("reason", e.Reason).
			Int("cost", e.Cost)

	case *events.StageAdvancedEvent:
		logEvent.
			Int("turn", e.Turn).
			Int("from", e.From).
			Int("to", e.To)

	case *events.FallbackUsedEvent:
		logEvent.
			Int("turn", e.Turn).
			Int("slot", e.Slot).
			Str("reason", e.Reason)

	case *events.InputFlaggedEvent:
		logEvent.
			Str("line", e.Line).
			Str("cause", e.Cause)

	case *events.PhaseChangedEvent:
		logEvent.
			Str("from", e.From).
			Str("to", e.To).
			Str("reason", e.Reason)
	}

	if ls.devMode {
		if jsonData, err := json.Marshal(event); err == nil {
			logEvent.RawJSON("event_data", jsonData)
		}
	}

	logEvent.Msg("Bot event")
}

// level raises flagged input to Warn regardless of the configured level
func (ls *LoggerSubscriber) level(event events.Event) zerolog.Level {
	if event.Type() == events.TypeInputFlagged && ls.logLevel < zerolog.WarnLevel {
		return zerolog.WarnLevel
	}
	return ls.logLevel
}
