package game

import (
	"math/rand"

	"github.com/mitchelldurbincs/TerritorialConquest/internal/game/core"
	"github.com/mitchelldurbincs/TerritorialConquest/internal/game/states"
)

// GenerateRandomActions creates a set of random actions for all living players.
// This is a helper function intended for demos, testing, or simple baseline agents.
// It only reads the engine, so the same rng seed yields the same actions.
func GenerateRandomActions(e *Engine, rng *rand.Rand) []core.Action {
	var actions []core.Action
	w := e.World()

	for _, p := range w.Players.All() {
		if !p.IsAlive() {
			continue
		}
		switch e.Phase() {
		case states.PhaseSpawning:
			if p.IsSpawned() {
				continue
			}
			if tile, ok := randomFreeLand(w, rng); ok {
				actions = append(actions, &core.SpawnAction{PlayerID: p.ID, Tile: tile})
			}
		case states.PhaseRunning:
			if rng.Float32() > 0.3 || p.Troops() < 1 {
				continue
			}
			if a := randomRunningAction(e, p, rng); a != nil {
				actions = append(actions, a)
			}
		}
	}
	return actions
}

func randomFreeLand(w *core.World, rng *rand.Rand) (core.TileIndex, bool) {
	for attempt := 0; attempt < 64; attempt++ {
		idx := core.TileIndex(rng.Intn(w.Terrain.Size()))
		if w.Grid.Owner(idx) == core.OwnerUnclaimed {
			return idx, true
		}
	}
	return core.NoTile, false
}

func randomRunningAction(e *Engine, p *core.Player, rng *rand.Rand) core.Action {
	w := e.World()
	troops := p.Troops() * (0.2 + rng.Float64()*0.3)

	if rng.Float32() < 0.1 && e.Shores().HasShore(p.ID) {
		for attempt := 0; attempt < 16; attempt++ {
			idx := core.TileIndex(rng.Intn(w.Terrain.Size()))
			if w.Terrain.IsShore(idx) && !w.Grid.IsOwner(idx, p.ID) {
				return &core.BoatAction{PlayerID: p.ID, Target: idx, Troops: troops}
			}
		}
	}

	targets := neighbourOwners(w, p)
	if len(targets) == 0 {
		return nil
	}
	target := targets[rng.Intn(len(targets))]
	if target != core.OwnerUnclaimed && !e.Mode().CanAttack(p, w.Player(target)) {
		return nil
	}
	e.logger.Trace().
		Uint16("player_id", uint16(p.ID)).
		Str("target", target.String()).
		Float64("troops", troops).
		Msg("Generated random action")
	return &core.AttackAction{PlayerID: p.ID, Target: target, Troops: troops}
}

// neighbourOwners lists the land owners bordering p in first-seen order
func neighbourOwners(w *core.World, p *core.Player) []core.Owner {
	var out []core.Owner
	seen := make(map[core.Owner]bool)
	var buf [4]core.TileIndex
	for _, t := range p.Border().Items() {
		for _, n := range w.Terrain.Neighbors(t, buf[:0]) {
			o := w.Grid.Owner(n)
			if o == p.ID || o == core.OwnerWater || seen[o] {
				continue
			}
			seen[o] = true
			out = append(out, o)
		}
	}
	return out
}
