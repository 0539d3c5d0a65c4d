package navigation

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/TerritorialConquest/internal/game/core"
	"github.com/mitchelldurbincs/TerritorialConquest/internal/testutil"
)

func testParams(size int) Params {
	p := DefaultParams()
	p.AreaSize = size
	return p
}

func edgeBetween(g *Graph, a, b core.TileIndex) (Edge, bool) {
	na, ok := g.NodeAt(a)
	if !ok {
		return Edge{}, false
	}
	nb, ok := g.NodeAt(b)
	if !ok {
		return Edge{}, false
	}
	for _, e := range g.Node(na).Edges {
		if e.To == nb {
			return e, true
		}
	}
	return Edge{}, false
}

func TestBuildGraph_OpenCellsShareOneArea(t *testing.T) {
	terrain := testutil.WaterTerrain(10, 10)
	g := BuildGraph(terrain, testParams(5), zerolog.Nop())

	require.Equal(t, 1, g.AreaCount())
	assert.True(t, g.IsOpenArea(0))
	for i := 0; i < terrain.Size(); i++ {
		assert.Equal(t, int32(0), g.AreaOf(core.TileIndex(i)))
	}
}

func TestBuildGraph_SplitCellGetsDistinctAreas(t *testing.T) {
	terrain := testutil.ParseTerrain(
		"..#..",
		"..#..",
		"..#..",
	)
	g := BuildGraph(terrain, testParams(5), zerolog.Nop())

	require.Equal(t, 2, g.AreaCount())
	left, right := g.AreaOf(terrain.Idx(0, 0)), g.AreaOf(terrain.Idx(4, 2))
	assert.NotEqual(t, left, right)
	assert.Equal(t, left, g.AreaOf(terrain.Idx(1, 2)))
	assert.Equal(t, NoArea, g.AreaOf(terrain.Idx(2, 1)))
	assert.False(t, g.IsOpenArea(left))
}

func TestBuildGraph_ShortEntranceGetsMidpoint(t *testing.T) {
	terrain := testutil.WaterTerrain(10, 5)
	g := BuildGraph(terrain, testParams(5), zerolog.Nop())

	require.Equal(t, 2, g.NodeCount())
	e, ok := edgeBetween(g, terrain.Idx(4, 2), terrain.Idx(5, 2))
	require.True(t, ok)
	assert.Equal(t, 1.0, e.Cost)
	assert.Equal(t, []core.TileIndex{terrain.Idx(4, 2), terrain.Idx(5, 2)}, e.Path)
}

func TestBuildGraph_LongEntranceGetsBothEnds(t *testing.T) {
	terrain := testutil.WaterTerrain(10, 5)
	p := testParams(5)
	p.MinEntranceLength = 3
	g := BuildGraph(terrain, p, zerolog.Nop())

	require.Equal(t, 4, g.NodeCount())
	_, ok := edgeBetween(g, terrain.Idx(4, 0), terrain.Idx(5, 0))
	assert.True(t, ok)
	_, ok = edgeBetween(g, terrain.Idx(4, 4), terrain.Idx(5, 4))
	assert.True(t, ok)

	// open cell: straight line between the two nodes of the left cell
	e, ok := edgeBetween(g, terrain.Idx(4, 0), terrain.Idx(4, 4))
	require.True(t, ok)
	assert.Equal(t, 4.0, e.Cost)
	assert.Len(t, e.Path, 5)

	back, ok := edgeBetween(g, terrain.Idx(4, 4), terrain.Idx(4, 0))
	require.True(t, ok)
	assert.Equal(t, reversed(e.Path), back.Path)
	e.Path[0] = core.NoTile
	assert.NotEqual(t, core.NoTile, back.Path[len(back.Path)-1], "reverse edge must own its path")
}

func TestBuildGraph_EntranceSplitByLand(t *testing.T) {
	terrain := testutil.ParseTerrain(
		"..........",
		"..........",
		"....##....",
		"..........",
		"..........",
	)
	g := BuildGraph(terrain, testParams(5), zerolog.Nop())

	// runs 0-1 and 3-4 are short: one midpoint each
	_, ok := edgeBetween(g, terrain.Idx(4, 0), terrain.Idx(5, 0))
	assert.True(t, ok)
	_, ok = edgeBetween(g, terrain.Idx(4, 3), terrain.Idx(5, 3))
	assert.True(t, ok)
	assert.Equal(t, 4, g.NodeCount())
}

func TestBuildGraph_CornerDiagonals(t *testing.T) {
	terrain := testutil.WaterTerrain(10, 10)
	g := BuildGraph(terrain, testParams(5), zerolog.Nop())

	e, ok := edgeBetween(g, terrain.Idx(4, 4), terrain.Idx(5, 5))
	require.True(t, ok)
	assert.Equal(t, 1.5, e.Cost)
	_, ok = edgeBetween(g, terrain.Idx(5, 4), terrain.Idx(4, 5))
	assert.True(t, ok)
}

func TestBuildGraph_NoCornerWhenBlocked(t *testing.T) {
	terrain := testutil.WaterTerrain(10, 10)
	terrain.SetWater(terrain.Idx(5, 4), false)
	g := BuildGraph(terrain, testParams(5), zerolog.Nop())

	_, ok := edgeBetween(g, terrain.Idx(4, 4), terrain.Idx(5, 5))
	assert.False(t, ok)
}

func TestBuildGraph_IntraCellFloodFillAvoidsLand(t *testing.T) {
	terrain := testutil.ParseTerrain(
		"..........",
		".###......",
		".###......",
		".###......",
		"..........",
	)
	p := testParams(5)
	p.MinEntranceLength = 3
	g := BuildGraph(terrain, p, zerolog.Nop())

	e, ok := edgeBetween(g, terrain.Idx(4, 0), terrain.Idx(4, 4))
	require.True(t, ok)
	assert.Equal(t, 4.0, e.Cost, "column 4 is open water")
	for _, tile := range e.Path {
		assert.True(t, terrain.IsWater(tile))
	}
}

func TestBuildGraph_Panics(t *testing.T) {
	assert.Panics(t, func() { BuildGraph(testutil.WaterTerrain(4, 4), testParams(1), zerolog.Nop()) })
}
