package core

import "fmt"

// ActionType represents the type of action
type ActionType int

const (
	ActionSpawn ActionType = iota
	ActionAttack
	ActionBoat
)

func (t ActionType) String() string {
	switch t {
	case ActionSpawn:
		return "spawn"
	case ActionAttack:
		return "attack"
	case ActionBoat:
		return "boat"
	default:
		return fmt.Sprintf("action(%d)", int(t))
	}
}

// Action represents a player command issued for a tick.
// Validate only checks structure; phase and game-mode rules live in the engine.
type Action interface {
	GetPlayerID() Owner
	GetType() ActionType
	Validate(w *World) error
}

// SpawnAction places a player's starting territory around Tile
type SpawnAction struct {
	PlayerID Owner
	Tile     TileIndex
}

func (a *SpawnAction) GetPlayerID() Owner  { return a.PlayerID }
func (a *SpawnAction) GetType() ActionType { return ActionSpawn }

func (a *SpawnAction) Validate(w *World) error {
	if err := validateActor(w, a.PlayerID); err != nil {
		return err
	}
	if !w.Terrain.ValidTile(a.Tile) {
		return ErrInvalidTile
	}
	if w.Grid.Owner(a.Tile) != OwnerUnclaimed {
		return ErrTileTaken
	}
	return nil
}

// AttackAction sends Troops against Target, which is a player id or OwnerUnclaimed
type AttackAction struct {
	PlayerID Owner
	Target   Owner
	Troops   float64
}

func (a *AttackAction) GetPlayerID() Owner  { return a.PlayerID }
func (a *AttackAction) GetType() ActionType { return ActionAttack }

func (a *AttackAction) Validate(w *World) error {
	if err := validateActor(w, a.PlayerID); err != nil {
		return err
	}
	if a.Target == a.PlayerID || a.Target == OwnerWater {
		return ErrInvalidTarget
	}
	if a.Target != OwnerUnclaimed {
		target := w.Players.Get(a.Target)
		if target == nil {
			return ErrInvalidTarget
		}
		if !target.IsAlive() {
			return ErrPlayerDead
		}
	}
	if a.Troops <= 0 {
		return ErrNoTroops
	}
	return nil
}

// BoatAction ships Troops across water to land on Target
type BoatAction struct {
	PlayerID Owner
	Target   TileIndex
	Troops   float64
}

func (a *BoatAction) GetPlayerID() Owner  { return a.PlayerID }
func (a *BoatAction) GetType() ActionType { return ActionBoat }

func (a *BoatAction) Validate(w *World) error {
	if err := validateActor(w, a.PlayerID); err != nil {
		return err
	}
	if !w.Terrain.ValidTile(a.Target) || w.Terrain.IsWater(a.Target) {
		return ErrInvalidTile
	}
	if w.Grid.Owner(a.Target) == a.PlayerID {
		return ErrInvalidTarget
	}
	if !w.Terrain.IsShore(a.Target) {
		return ErrNotAdjacentToWater
	}
	if a.Troops <= 0 {
		return ErrNoTroops
	}
	return nil
}

func validateActor(w *World, id Owner) error {
	p := w.Players.Get(id)
	if p == nil {
		return ErrInvalidPlayer
	}
	if !p.IsAlive() {
		return ErrPlayerDead
	}
	return nil
}

// GetActionType returns a printable name for an action
func GetActionType(action Action) string {
	if action == nil {
		return "nil"
	}
	return action.GetType().String()
}
