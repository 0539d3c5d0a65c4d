package game

import (
	"github.com/mitchelldurbincs/TerritorialConquest/internal/common"
	"github.com/mitchelldurbincs/TerritorialConquest/internal/game/core"
	"github.com/mitchelldurbincs/TerritorialConquest/internal/game/events"
)

// HandleSpawn claims the unclaimed land around the chosen tile. A player
// spawning again during the phase first gives back its previous spawn.
func (e *Engine) HandleSpawn(a *core.SpawnAction) error {
	if !e.Phase().CanSpawn() {
		return core.ErrWrongPhase
	}
	p := e.world.Player(a.PlayerID)
	e.clearSpawn(a.PlayerID)

	tiles := e.spawnArea(a.Tile)
	txn := core.NewTransaction(core.KindSpawn, a.PlayerID, core.OwnerUnclaimed)
	for _, t := range tiles {
		txn.AddTile(e.world.Grid, t)
	}
	txn.Apply(e.world)
	e.spawns[a.PlayerID] = tiles

	if !p.IsSpawned() {
		p.MarkSpawned()
		e.stateMachine.Context().SpawnedCount++
	}
	p.SetTroops(e.config.Economy.StartingTroops)

	e.eventBus.Publish(events.NewPlayerSpawnedEvent(e.gameID, int(a.PlayerID), int(a.Tile), len(tiles)))
	e.logger.Debug().
		Int("tick", e.tick).
		Uint16("player_id", uint16(a.PlayerID)).
		Int("tile", int(a.Tile)).
		Int("tiles", len(tiles)).
		Msg("Player spawned")
	return nil
}

// spawnArea lists unclaimed land within the spawn radius, row by row
func (e *Engine) spawnArea(center core.TileIndex) []core.TileIndex {
	terrain := e.world.Terrain
	r := e.config.Spawn.Radius
	cx, cy := terrain.XY(center)
	var tiles []core.TileIndex
	for y := cy - r; y <= cy+r; y++ {
		for x := cx - r; x <= cx+r; x++ {
			if !terrain.InBounds(x, y) || common.ManhattanDistance(x, y, cx, cy) > r {
				continue
			}
			idx := terrain.Idx(x, y)
			if e.world.Grid.Owner(idx) == core.OwnerUnclaimed {
				tiles = append(tiles, idx)
			}
		}
	}
	return tiles
}

func (e *Engine) clearSpawn(player core.Owner) {
	previous, ok := e.spawns[player]
	if !ok {
		return
	}
	delete(e.spawns, player)
	txn := core.NewTransaction(core.KindClearing, core.OwnerUnclaimed, player)
	for _, t := range previous {
		if e.world.Grid.IsOwner(t, player) {
			txn.AddTile(e.world.Grid, t)
		}
	}
	txn.Apply(e.world)
}

// HandleAttack detaches troops from the player and hands them to the scheduler
func (e *Engine) HandleAttack(a *core.AttackAction) error {
	if !e.Phase().CanAttack() {
		return core.ErrWrongPhase
	}
	p := e.world.Player(a.PlayerID)
	if a.Target != core.OwnerUnclaimed && !e.mode.CanAttack(p, e.world.Player(a.Target)) {
		return core.ErrCannotAttack
	}
	troops := p.RemoveTroops(a.Troops)
	if troops <= 0 {
		return core.ErrNoTroops
	}
	e.scheduler.Attack(a.PlayerID, a.Target, troops, nil)
	return nil
}

// HandleBoat launches a boat; the boat manager takes the troops only when a
// route exists
func (e *Engine) HandleBoat(a *core.BoatAction) error {
	if !e.Phase().CanAttack() {
		return core.ErrWrongPhase
	}
	p := e.world.Player(a.PlayerID)
	if target := e.world.Player(e.world.Grid.Owner(a.Target)); target != nil && !e.mode.CanAttack(p, target) {
		return core.ErrCannotAttack
	}
	_, err := e.boats.Launch(a.PlayerID, a.Target, a.Troops)
	return err
}
