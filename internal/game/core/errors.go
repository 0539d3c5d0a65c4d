package core

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidTile        = errors.New("invalid tile")
	ErrInvalidPlayer      = errors.New("invalid player ID")
	ErrPlayerDead         = errors.New("player is eliminated")
	ErrInvalidTarget      = errors.New("invalid attack target")
	ErrCannotAttack       = errors.New("attack not permitted by game mode")
	ErrNotAdjacentToWater = errors.New("tile is not adjacent to water")
	ErrNoPath             = errors.New("no naval path")
	ErrTooManyBoats       = errors.New("too many boats in flight")
	ErrNoTroops           = errors.New("no troops to send")
	ErrTileTaken          = errors.New("tile is not unclaimed land")
	ErrWrongPhase         = errors.New("action not allowed in current phase")
	ErrGameOver           = errors.New("game is over")
	ErrTickOutOfOrder     = errors.New("tick received out of order")
)

// WrapActionError adds the acting player and action details to err
func WrapActionError(action Action, err error) error {
	if err == nil {
		return nil
	}
	switch a := action.(type) {
	case *AttackAction:
		return fmt.Errorf("player %d: attack %s with %.0f troops: %w", a.PlayerID, a.Target, a.Troops, err)
	case *BoatAction:
		return fmt.Errorf("player %d: boat to tile %d with %.0f troops: %w", a.PlayerID, a.Target, a.Troops, err)
	case *SpawnAction:
		return fmt.Errorf("player %d: spawn at tile %d: %w", a.PlayerID, a.Tile, err)
	default:
		return fmt.Errorf("player action: %w", err)
	}
}

// WrapTickError adds the tick number and pipeline phase to err
func WrapTickError(tick int, phase string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("tick %d [%s]: %w", tick, phase, err)
}

// WrapPlayerError adds player context to err
func WrapPlayerError(playerID Owner, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("player %d %s: %w", playerID, operation, err)
}
