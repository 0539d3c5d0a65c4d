package core

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func claim(w *World, kind TransactionKind, attacker, defender Owner, tiles ...TileIndex) *BorderDelta {
	var captured BorderDelta
	rec := &recordingHook{onTxn: func(_ *Transaction, d *BorderDelta) { captured = *d }}
	w.AddHook(rec)
	defer func() { w.hooks = w.hooks[:len(w.hooks)-1] }()

	txn := NewTransaction(kind, attacker, defender)
	for _, t := range tiles {
		txn.AddTile(w.Grid, t)
	}
	txn.Apply(w)
	return &captured
}

type recordingHook struct {
	onTxn func(*Transaction, *BorderDelta)
}

func (h *recordingHook) OnTransaction(txn *Transaction, d *BorderDelta) { h.onTxn(txn, d) }

func TestBorderTracker_InteriorTile(t *testing.T) {
	w := NewWorld(NewTerrain(3, 3), 2)
	all := []TileIndex{0, 1, 2, 3, 4, 5, 6, 7, 8}
	claim(w, KindSpawn, 0, OwnerUnclaimed, all...)

	p0 := w.Player(0)
	assert.Equal(t, 9, p0.TerritorySize())
	assert.Equal(t, 8, p0.BorderSize(), "every tile but the center touches the edge")
	assert.False(t, p0.IsBorder(4))
	assert.Equal(t, 4, w.Borders.Grade(4))
	require.NoError(t, w.Borders.Verify())
}

func TestBorderTracker_AttackExposesDefender(t *testing.T) {
	w := NewWorld(NewTerrain(3, 3), 2)
	claim(w, KindSpawn, 0, OwnerUnclaimed, 0, 1, 2, 3, 4, 5, 6, 7, 8)

	// player 1 takes the top edge: center tile becomes a border tile of player 0
	claim(w, KindSpawn, 1, OwnerUnclaimed) // empty spawn is a no-op
	delta := claim(w, KindPlayerAttack, 1, 0, 0, 1, 2)

	assert.ElementsMatch(t, []TileIndex{0, 1, 2}, delta.Territory)
	assert.ElementsMatch(t, []TileIndex{0, 1, 2}, delta.AttackerBorder)
	assert.Equal(t, []TileIndex{4}, delta.DefenderBorder)
	assert.True(t, w.Player(0).IsBorder(4))
	assert.Equal(t, 6, w.Player(0).TerritorySize())
	assert.Equal(t, 3, w.Player(1).TerritorySize())
	require.NoError(t, w.Borders.Verify())
}

func TestBorderTracker_AttackerTileBecomesInterior(t *testing.T) {
	w := NewWorld(NewTerrain(5, 5), 2)
	// player 0 owns a plus shape around the center, center unclaimed
	claim(w, KindSpawn, 0, OwnerUnclaimed, 7, 11, 13, 17)
	assert.Equal(t, 4, w.Player(0).BorderSize())

	delta := claim(w, KindUnclaimedAttack, 0, OwnerUnclaimed, 12)
	assert.Empty(t, delta.AttackerBorder, "all four neighbors are owned, so the center is interior")
	assert.False(t, w.Player(0).IsBorder(12))
	assert.Equal(t, 4, w.Borders.Grade(12))
	assert.Equal(t, 4, w.Player(0).BorderSize())
	require.NoError(t, w.Borders.Verify())
}

func TestBorderTracker_ClearingReleasesTiles(t *testing.T) {
	w := NewWorld(NewTerrain(3, 3), 1)
	claim(w, KindSpawn, 0, OwnerUnclaimed, 0, 1, 2, 3, 4, 5, 6, 7, 8)
	claim(w, KindClearing, OwnerUnclaimed, 0, 0, 1, 2)

	p := w.Player(0)
	assert.Equal(t, 6, p.TerritorySize())
	assert.True(t, p.IsBorder(4))
	assert.False(t, p.IsBorder(0))
	require.NoError(t, w.Borders.Verify())
}

func TestBorderTracker_EmptyBatch(t *testing.T) {
	w := NewWorld(NewTerrain(2, 2), 1)
	delta := w.Borders.TransitionTiles(nil, 0, OwnerUnclaimed)
	assert.Empty(t, delta.Territory)
	require.NoError(t, w.Borders.Verify())
}

// Random conquests and clearings on a map with water must keep grades and
// border sets in agreement after every transaction.
func TestBorderTracker_RandomizedConsistency(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	terrain := NewTerrain(12, 10)
	for i := 0; i < terrain.Size(); i++ {
		if rng.Intn(6) == 0 {
			terrain.SetWater(TileIndex(i), true)
		}
	}
	w := NewWorld(terrain, 3)

	for step := 0; step < 300; step++ {
		attacker := Owner(rng.Intn(4))
		if attacker == 3 {
			attacker = OwnerUnclaimed
		}
		defender := Owner(rng.Intn(4))
		if defender == 3 {
			defender = OwnerUnclaimed
		}
		if attacker == defender {
			continue
		}

		kind := KindPlayerAttack
		switch {
		case attacker == OwnerUnclaimed:
			kind = KindClearing
		case defender == OwnerUnclaimed:
			kind = KindUnclaimedAttack
		}

		txn := NewTransaction(kind, attacker, defender)
		for i := 0; i < 8; i++ {
			tile := TileIndex(rng.Intn(terrain.Size()))
			if w.Grid.Owner(tile) == defender {
				txn.AddTile(w.Grid, tile)
			}
		}
		txn.Apply(w)
		require.NoError(t, w.Borders.Verify(), "step %d", step)
	}

	total := 0
	for _, p := range w.Players.All() {
		total += p.TerritorySize()
	}
	owned := 0
	for i := 0; i < terrain.Size(); i++ {
		if w.Grid.HasOwner(TileIndex(i)) {
			owned++
		}
	}
	assert.Equal(t, owned, total)
}
