package states

import (
	"time"

	"github.com/rs/zerolog"
)

// GameContext is the mutable simulation summary the phase hooks read and
// update. The engine owns it and keeps Tick and SpawnedCount current.
type GameContext struct {
	GameID      string
	Logger      zerolog.Logger
	PlayerCount int
	SpawnTicks  int

	// SpawnedCount is the number of players that picked a starting tile
	SpawnedCount int
	Tick         int

	// RunningSince is the tick PhaseRunning was entered on, StartTime the
	// matching wall clock time
	RunningSince int
	StartTime    time.Time

	// Winner is the winning player, -1 while unknown or on a draw
	Winner int
	// Error is the failure behind PhaseError
	Error error
}

func NewGameContext(gameID string, playerCount, spawnTicks int, logger zerolog.Logger) *GameContext {
	return &GameContext{
		GameID:      gameID,
		PlayerCount: playerCount,
		SpawnTicks:  spawnTicks,
		Logger:      logger.With().Str("game_id", gameID).Logger(),
		Winner:      -1,
	}
}

// Elapsed returns the wall time since the running phase began
func (gc *GameContext) Elapsed() time.Duration {
	if gc.StartTime.IsZero() {
		return 0
	}
	return time.Since(gc.StartTime)
}

// RunningTicks returns how many ticks have passed in the running phase
func (gc *GameContext) RunningTicks() int {
	if gc.StartTime.IsZero() {
		return 0
	}
	return gc.Tick - gc.RunningSince
}
