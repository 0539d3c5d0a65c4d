package rules

import (
	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/TerritorialConquest/internal/game/core"
)

// WinConditionChecker handles game over detection and winner determination
type WinConditionChecker struct {
	logger          zerolog.Logger
	mode            GameMode
	originalPlayers int
}

// NewWinConditionChecker creates a new win condition checker
func NewWinConditionChecker(logger zerolog.Logger, mode GameMode, originalPlayers int) *WinConditionChecker {
	return &WinConditionChecker{
		logger:          logger.With().Str("component", "WinConditionChecker").Logger(),
		mode:            mode,
		originalPlayers: originalPlayers,
	}
}

// CheckGameOver reports whether at most one side is left.
// The winner is the largest alive player of that side, or -1 on a draw.
func (wc *WinConditionChecker) CheckGameOver(players []*core.Player) (bool, int) {
	sides := make(map[int]bool)
	var alive []*core.Player
	for _, p := range players {
		if p.IsAlive() {
			alive = append(alive, p)
			sides[wc.mode.Side(p)] = true
		}
	}

	// a single-player simulation only ends when that player dies
	var gameOver bool
	if wc.originalPlayers > 1 {
		gameOver = len(sides) <= 1
	} else {
		gameOver = len(alive) == 0
	}
	if !gameOver {
		return false, -1
	}

	winner := -1
	best := -1
	for _, p := range alive {
		if p.TerritorySize() > best {
			best = p.TerritorySize()
			winner = int(p.ID)
		}
	}
	if winner >= 0 {
		wc.logger.Info().Int("winner_player_id", winner).Str("mode", wc.mode.Name()).Msg("Winner determined")
	} else {
		wc.logger.Info().Msg("No winner found (all players eliminated)")
	}
	return true, winner
}
