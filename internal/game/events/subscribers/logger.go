package subscribers

import (
	"encoding/json"

	"github.com/mitchelldurbincs/TerritorialConquest/internal/game/events"
	"github.com/rs/zerolog"
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
	eventLogger := ls.logger.With().
		Str("event_type", event.Type()).
		Str("game_id", event.GameID()).
		Time("timestamp", event.Timestamp()).
		Logger()

	logEvent := eventLogger.WithLevel(ls.logLevel)
	if logEvent == nil {
		return
	}

	switch e := event.(type) {
	case *events.SimulationStartedEvent:
		logEvent.
			Int("num_players", e.NumPlayers).
			Int("map_width", e.MapWidth).
			Int("map_height", e.MapHeight).
			Int64("seed", e.Seed)

	case *events.SimulationEndedEvent:
		logEvent.
			Int("winner", e.Winner).
			Int("final_tick", e.FinalTick).
			Dur("duration", e.Duration)

	case *events.TickStartedEvent:
		logEvent.Int("tick", e.Tick)

	case *events.TickEndedEvent:
		logEvent.
			Int("tick", e.Tick).
			Int("actions_count", e.ActionsCount).
			Dur("process_time", e.ProcessedTime)

	case *events.ActionProcessedEvent:
		logEvent.
			Int("player_id", e.PlayerID).
			Str("action_type", e.ActionType)

	case *events.ActionRejectedEvent:
		logEvent.
			Int("player_id", e.PlayerID).
			Str("action_type", e.ActionType).
			Str("reason", e.Reason)

	case *events.TilesConqueredEvent:
		logEvent.
			Str("kind", e.Kind).
			Int("attacker_id", e.Attacker).
			Int("defender_id", e.Defender).
			Int("tiles", e.Tiles)

	case *events.AttackStartedEvent:
		logEvent.
			Int("attacker_id", e.Attacker).
			Int("target_id", e.Target).
			Float64("troops", e.Troops)

	case *events.AttackOpposedEvent:
		logEvent.
			Int("winner_id", e.Winner).
			Int("loser_id", e.Loser).
			Float64("remaining", e.Remaining)

	case *events.AttackEndedEvent:
		logEvent.
			Int("attacker_id", e.Attacker).
			Int("target_id", e.Target).
			Int("conquered", e.Conquered).
			Float64("refund", e.Refund)

	case *events.BoatLaunchedEvent:
		logEvent.
			Int("player_id", e.PlayerID).
			Int("boat_id", e.BoatID).
			Int("target_tile", e.Target).
			Float64("troops", e.Troops).
			Int("path_length", e.PathLength)

	case *events.BoatArrivedEvent:
		logEvent.
			Int("player_id", e.PlayerID).
			Int("boat_id", e.BoatID).
			Int("target_tile", e.Target).
			Float64("troops", e.Troops).
			Bool("landed", e.Landed)

	case *events.PlayerSpawnedEvent:
		logEvent.
			Int("player_id", e.PlayerID).
			Int("tile", e.Tile).
			Int("tiles", e.Tiles)

	case *events.PlayerEliminatedEvent:
		logEvent.
			Int("player_id", e.PlayerID).
			Int("final_rank", e.Rank)

	case *events.IncomeAppliedEvent:
		logEvent.
			Float64("total", e.Total).
			Int("players", e.Players)

	case *events.StateTransitionEvent:
		logEvent.
			Str("from", e.FromPhase).
			Str("to", e.ToPhase).
			Str("reason", e.Reason)
	}

	if ls.devMode {
		if jsonData, err := json.Marshal(event); err == nil {
			logEvent.RawJSON("event_data", jsonData)
		}
	}

	logEvent.Msg("Simulation event")
}
