package events

import (
	"time"
)

// Event type constants
const (
	TypeSimulationStarted = "simulation.started"
	TypeSimulationEnded   = "simulation.ended"
	TypeTickStarted       = "tick.started"
	TypeTickEnded         = "tick.ended"
	TypeActionProcessed   = "action.processed"
	TypeActionRejected    = "action.rejected"
	TypeTilesConquered    = "tiles.conquered"
	TypeAttackStarted     = "attack.started"
	TypeAttackOpposed     = "attack.opposed"
	TypeAttackEnded       = "attack.ended"
	TypeBoatLaunched      = "boat.launched"
	TypeBoatArrived       = "boat.arrived"
	TypePlayerSpawned     = "player.spawned"
	TypePlayerEliminated  = "player.eliminated"
	TypeIncomeApplied     = "income.applied"
	TypeStateTransition   = "state.transition"
)

// SimulationStartedEvent is published once the map and players exist
type SimulationStartedEvent struct {
	BaseEvent
	NumPlayers int
	MapWidth   int
	MapHeight  int
	Seed       int64
}

func NewSimulationStartedEvent(gameID string, numPlayers, width, height int, seed int64) *SimulationStartedEvent {
	return &SimulationStartedEvent{
		BaseEvent:  newBase(TypeSimulationStarted, gameID),
		NumPlayers: numPlayers,
		MapWidth:   width,
		MapHeight:  height,
		Seed:       seed,
	}
}

// SimulationEndedEvent is published when one player (or nobody) is left
type SimulationEndedEvent struct {
	BaseEvent
	Winner    int
	FinalTick int
	Duration  time.Duration
}

func NewSimulationEndedEvent(gameID string, winner, finalTick int, duration time.Duration) *SimulationEndedEvent {
	return &SimulationEndedEvent{
		BaseEvent: newBase(TypeSimulationEnded, gameID),
		Winner:    winner,
		FinalTick: finalTick,
		Duration:  duration,
	}
}

// TickStartedEvent is published at the beginning of each tick
type TickStartedEvent struct {
	BaseEvent
	Metadata EventMetadata
	Tick     int
}

func NewTickStartedEvent(gameID string, tick int) *TickStartedEvent {
	return &TickStartedEvent{
		BaseEvent: newBase(TypeTickStarted, gameID),
		Metadata:  EventMetadata{Tick: tick},
		Tick:      tick,
	}
}

// TickEndedEvent is published after every system has advanced
type TickEndedEvent struct {
	BaseEvent
	Metadata      EventMetadata
	Tick          int
	ActionsCount  int
	ProcessedTime time.Duration
}

func NewTickEndedEvent(gameID string, tick, actionsCount int, processedTime time.Duration) *TickEndedEvent {
	return &TickEndedEvent{
		BaseEvent:     newBase(TypeTickEnded, gameID),
		Metadata:      EventMetadata{Tick: tick},
		Tick:          tick,
		ActionsCount:  actionsCount,
		ProcessedTime: processedTime,
	}
}

// ActionProcessedEvent reports an accepted action
type ActionProcessedEvent struct {
	BaseEvent
	Metadata   EventMetadata
	PlayerID   int
	ActionType string
}

func NewActionProcessedEvent(gameID string, playerID int, actionType string, tick int) *ActionProcessedEvent {
	return &ActionProcessedEvent{
		BaseEvent:  newBase(TypeActionProcessed, gameID),
		Metadata:   EventMetadata{PlayerID: playerID, Tick: tick},
		PlayerID:   playerID,
		ActionType: actionType,
	}
}

// ActionRejectedEvent reports an action dropped during validation
type ActionRejectedEvent struct {
	BaseEvent
	Metadata   EventMetadata
	PlayerID   int
	ActionType string
	Reason     string
}

func NewActionRejectedEvent(gameID string, playerID int, actionType, reason string, tick int) *ActionRejectedEvent {
	return &ActionRejectedEvent{
		BaseEvent:  newBase(TypeActionRejected, gameID),
		Metadata:   EventMetadata{PlayerID: playerID, Tick: tick},
		PlayerID:   playerID,
		ActionType: actionType,
		Reason:     reason,
	}
}

// TilesConqueredEvent summarises one applied transaction
type TilesConqueredEvent struct {
	BaseEvent
	Kind     string
	Attacker int
	Defender int
	Tiles    int
}

func NewTilesConqueredEvent(gameID, kind string, attacker, defender, tiles int) *TilesConqueredEvent {
	return &TilesConqueredEvent{
		BaseEvent: newBase(TypeTilesConquered, gameID),
		Kind:      kind,
		Attacker:  attacker,
		Defender:  defender,
		Tiles:     tiles,
	}
}

// AttackStartedEvent is published when a new executor is created
type AttackStartedEvent struct {
	BaseEvent
	Attacker int
	Target   int
	Troops   float64
}

func NewAttackStartedEvent(gameID string, attacker, target int, troops float64) *AttackStartedEvent {
	return &AttackStartedEvent{
		BaseEvent: newBase(TypeAttackStarted, gameID),
		Attacker:  attacker,
		Target:    target,
		Troops:    troops,
	}
}

// AttackOpposedEvent is published when two opposite attacks cancel out
type AttackOpposedEvent struct {
	BaseEvent
	Winner    int
	Loser     int
	Remaining float64
}

func NewAttackOpposedEvent(gameID string, winner, loser int, remaining float64) *AttackOpposedEvent {
	return &AttackOpposedEvent{
		BaseEvent: newBase(TypeAttackOpposed, gameID),
		Winner:    winner,
		Loser:     loser,
		Remaining: remaining,
	}
}

// AttackEndedEvent is published when an executor terminates
type AttackEndedEvent struct {
	BaseEvent
	Attacker  int
	Target    int
	Conquered int
	Refund    float64
}

func NewAttackEndedEvent(gameID string, attacker, target, conquered int, refund float64) *AttackEndedEvent {
	return &AttackEndedEvent{
		BaseEvent: newBase(TypeAttackEnded, gameID),
		Attacker:  attacker,
		Target:    target,
		Conquered: conquered,
		Refund:    refund,
	}
}

// BoatLaunchedEvent is published when a boat leaves the shore
type BoatLaunchedEvent struct {
	BaseEvent
	PlayerID   int
	BoatID     int
	Target     int
	Troops     float64
	PathLength int
}

func NewBoatLaunchedEvent(gameID string, playerID, boatID, target int, troops float64, pathLength int) *BoatLaunchedEvent {
	return &BoatLaunchedEvent{
		BaseEvent:  newBase(TypeBoatLaunched, gameID),
		PlayerID:   playerID,
		BoatID:     boatID,
		Target:     target,
		Troops:     troops,
		PathLength: pathLength,
	}
}

// BoatArrivedEvent is published when a boat reaches its target
type BoatArrivedEvent struct {
	BaseEvent
	PlayerID int
	BoatID   int
	Target   int
	Troops   float64
	Landed   bool
}

func NewBoatArrivedEvent(gameID string, playerID, boatID, target int, troops float64, landed bool) *BoatArrivedEvent {
	return &BoatArrivedEvent{
		BaseEvent: newBase(TypeBoatArrived, gameID),
		PlayerID:  playerID,
		BoatID:    boatID,
		Target:    target,
		Troops:    troops,
		Landed:    landed,
	}
}

// PlayerSpawnedEvent is published when a player places (or moves) their spawn
type PlayerSpawnedEvent struct {
	BaseEvent
	PlayerID int
	Tile     int
	Tiles    int
}

func NewPlayerSpawnedEvent(gameID string, playerID, tile, tiles int) *PlayerSpawnedEvent {
	return &PlayerSpawnedEvent{
		BaseEvent: newBase(TypePlayerSpawned, gameID),
		PlayerID:  playerID,
		Tile:      tile,
		Tiles:     tiles,
	}
}

// PlayerEliminatedEvent is published when a player loses their last tile
type PlayerEliminatedEvent struct {
	BaseEvent
	Metadata EventMetadata
	PlayerID int
	Rank     int
}

func NewPlayerEliminatedEvent(gameID string, playerID, rank, tick int) *PlayerEliminatedEvent {
	return &PlayerEliminatedEvent{
		BaseEvent: newBase(TypePlayerEliminated, gameID),
		Metadata:  EventMetadata{PlayerID: playerID, Tick: tick},
		PlayerID:  playerID,
		Rank:      rank,
	}
}

// IncomeAppliedEvent is published after troop income is granted
type IncomeAppliedEvent struct {
	BaseEvent
	Metadata EventMetadata
	Total    float64
	Players  int
}

func NewIncomeAppliedEvent(gameID string, total float64, players, tick int) *IncomeAppliedEvent {
	return &IncomeAppliedEvent{
		BaseEvent: newBase(TypeIncomeApplied, gameID),
		Metadata:  EventMetadata{Tick: tick},
		Total:     total,
		Players:   players,
	}
}

// StateTransitionEvent is published when the simulation changes phase
type StateTransitionEvent struct {
	BaseEvent
	FromPhase string
	ToPhase   string
	Reason    string
}

func NewStateTransitionEvent(gameID, fromPhase, toPhase, reason string) *StateTransitionEvent {
	return &StateTransitionEvent{
		BaseEvent: newBase(TypeStateTransition, gameID),
		FromPhase: fromPhase,
		ToPhase:   toPhase,
		Reason:    reason,
	}
}
