package testutil

import (
	"github.com/mitchelldurbincs/TerritorialConquest/internal/game/core"
)

// ParseTerrain builds a terrain from rows where '.' is water and any other
// character is land
func ParseTerrain(rows ...string) *core.Terrain {
	t := core.NewTerrain(len(rows[0]), len(rows))
	for y, row := range rows {
		for x, ch := range row {
			if ch == '.' {
				t.SetWater(t.Idx(x, y), true)
			}
		}
	}
	return t
}

// WaterTerrain creates a map made only of water
func WaterTerrain(w, h int) *core.Terrain {
	t := core.NewTerrain(w, h)
	for i := 0; i < t.Size(); i++ {
		t.SetWater(core.TileIndex(i), true)
	}
	return t
}

// ChannelTerrain is a 12x4 map: land rows on top and bottom, a two-tile
// wide channel in between
func ChannelTerrain() *core.Terrain {
	return ParseTerrain(
		"############",
		"............",
		"............",
		"############",
	)
}

// Claim moves tiles from defender to attacker in one applied transaction
func Claim(w *core.World, kind core.TransactionKind, attacker, defender core.Owner, tiles ...core.TileIndex) {
	txn := core.NewTransaction(kind, attacker, defender)
	for _, t := range tiles {
		txn.AddTile(w.Grid, t)
	}
	txn.Apply(w)
}

// Spawn gives unclaimed tiles to player
func Spawn(w *core.World, player core.Owner, tiles ...core.TileIndex) {
	Claim(w, core.KindSpawn, player, core.OwnerUnclaimed, tiles...)
}
