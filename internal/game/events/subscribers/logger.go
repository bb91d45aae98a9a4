package subscribers

import (
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/SnakeReinforcementLearning/internal/game/events"
)

// LoggerSubscriber logs events to structured logs
type LoggerSubscriber struct {
	id              string
	logger          zerolog.Logger
	logLevel        zerolog.Level
	eventTypeFilter map[string]bool // If non-nil, only log these event types
	devMode         bool            // If true, log full event details
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

	ls.eventTypeFilter = make(map[string]bool)
	for _, eventType := range eventTypes {
		ls.eventTypeFilter[eventType] = true
	}
}

// SetDevMode enables or disables development mode logging
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
	logEvent := ls.logger.WithLevel(ls.logLevel).
		Str("event_type", event.Type()).
		Str("session_id", event.SessionID()).
		Time("timestamp", event.Timestamp())

	switch e := event.(type) {
	case *events.EpisodeStartedEvent:
		logEvent.
			Int("episode", e.Episode).
			Str("head", e.Head.String()).
			Str("food", e.Food.String())

	case *events.EpisodeEndedEvent:
		logEvent.
			Int("episode", e.Episode).
			Int("score", e.Score).
			Int("length", e.Length).
			Int("ticks", e.Ticks).
			Bool("won", e.Won).
			Float64("epsilon", e.Epsilon).
			Dur("duration", e.Duration)

	case *events.FoodEatenEvent:
		logEvent.
			Int("episode", e.Episode).
			Int("tick", e.Tick).
			Str("position", e.Position.String()).
			Int("score", e.Score).
			Int("length", e.Length)

	case *events.TickCompletedEvent:
		logEvent.
			Int("tick", e.Tick).
			Str("action", e.Action.String()).
			Float64("reward", e.Reward).
			Float64("epsilon", e.Epsilon).
			Bool("terminal", e.Terminal)

	case *events.OverrideAppliedEvent:
		logEvent.
			Int("tick", e.Tick).
			Str("requested", e.Requested.String()).
			Str("applied", e.Applied.String())
	}

	if ls.devMode {
		if jsonData, err := json.Marshal(event); err == nil {
			logEvent.RawJSON("event_data", jsonData)
		}
	}

	logEvent.Msg("Session event")
}
