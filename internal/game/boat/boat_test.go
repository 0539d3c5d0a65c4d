package boat

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mitchelldurbincs/TerritorialConquest/internal/game/core"
	"github.com/mitchelldurbincs/TerritorialConquest/internal/testutil"
)

func boatOn(terrain *core.Terrain, coords ...core.Coordinate) *Boat {
	path := make([]core.TileIndex, len(coords))
	for i, c := range coords {
		path[i] = c.ToIndex(terrain.W)
	}
	return newBoat(0, 0, core.NoTile, 10, [][]core.TileIndex{path}, terrain)
}

func TestBoat_SpeedFactor(t *testing.T) {
	terrain := testutil.WaterTerrain(5, 5)
	params := DefaultParams()

	straight := boatOn(terrain, core.NewCoordinate(0, 0), core.NewCoordinate(1, 0), core.NewCoordinate(2, 0), core.NewCoordinate(3, 0))
	assert.Equal(t, 1.0, straight.speedFactor(params))

	right := boatOn(terrain, core.NewCoordinate(0, 0), core.NewCoordinate(1, 0), core.NewCoordinate(1, 1))
	assert.InDelta(t, 1/1.5, right.speedFactor(params), 1e-9)

	uturn := boatOn(terrain, core.NewCoordinate(0, 0), core.NewCoordinate(1, 0), core.NewCoordinate(0, 0))
	assert.InDelta(t, 0.5, uturn.speedFactor(params), 1e-9)

	params.MinSpeedFactor = 0.8
	assert.Equal(t, 0.8, uturn.speedFactor(params))
}

func TestBoat_LaterTurnsAreDiscounted(t *testing.T) {
	terrain := testutil.WaterTerrain(6, 6)
	params := DefaultParams()

	near := boatOn(terrain, core.NewCoordinate(0, 0), core.NewCoordinate(1, 0), core.NewCoordinate(1, 1), core.NewCoordinate(1, 2))
	far := boatOn(terrain, core.NewCoordinate(0, 0), core.NewCoordinate(1, 0), core.NewCoordinate(2, 0), core.NewCoordinate(2, 1))
	assert.Less(t, near.speedFactor(params), far.speedFactor(params))
	assert.InDelta(t, 1/1.25, far.speedFactor(params), 1e-9)
}

func TestBoat_AdvanceDiagonal(t *testing.T) {
	terrain := testutil.WaterTerrain(5, 5)
	params := DefaultParams()
	b := boatOn(terrain, core.NewCoordinate(0, 0), core.NewCoordinate(1, 1), core.NewCoordinate(2, 2))

	assert.False(t, b.advance(params))
	assert.Equal(t, 2, b.Remaining())
	assert.Equal(t, terrain.Idx(0, 0), b.Position(), "a diagonal step is longer than one tick of travel")

	assert.False(t, b.advance(params))
	assert.Equal(t, terrain.Idx(1, 1), b.Position())
	assert.True(t, b.advance(params))
	assert.True(t, b.Arrived())
	assert.Equal(t, 3, b.Ticks())
}
