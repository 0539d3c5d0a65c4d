package core

import "github.com/mitchelldurbincs/TerritorialConquest/internal/common"

// Terrain holds the static per-tile properties of a loaded map.
// It never changes after the game starts.
type Terrain struct {
	W, H          int
	water         []bool
	expansionTime []uint8
	expansionCost []uint8
}

// Default land properties for tiles that were never configured
const (
	DefaultExpansionTime uint8 = 10
	DefaultExpansionCost uint8 = 50
)

// NewTerrain creates an all-land terrain with default expansion properties
func NewTerrain(w, h int) *Terrain {
	if w <= 0 || h <= 0 {
		panic("core: terrain dimensions must be positive")
	}
	t := &Terrain{
		W:             w,
		H:             h,
		water:         make([]bool, w*h),
		expansionTime: make([]uint8, w*h),
		expansionCost: make([]uint8, w*h),
	}
	for i := range t.expansionTime {
		t.expansionTime[i] = DefaultExpansionTime
		t.expansionCost[i] = DefaultExpansionCost
	}
	return t
}

func (t *Terrain) Idx(x, y int) TileIndex      { return TileIndex(y*t.W + x) }
func (t *Terrain) XY(idx TileIndex) (int, int) { return int(idx) % t.W, int(idx) / t.W }
func (t *Terrain) Size() int                   { return t.W * t.H }

// Coord returns the coordinate of a tile index
func (t *Terrain) Coord(idx TileIndex) Coordinate {
	return FromIndex(idx, t.W)
}

// InBounds checks if coordinates are within map boundaries
func (t *Terrain) InBounds(x, y int) bool {
	return common.IsValidCoordinate(x, y, t.W, t.H)
}

// ValidTile checks if a tile index addresses a cell of this map
func (t *Terrain) ValidTile(idx TileIndex) bool {
	return idx >= 0 && int(idx) < len(t.water)
}

func (t *Terrain) IsWater(idx TileIndex) bool        { return t.water[idx] }
func (t *Terrain) ExpansionTime(idx TileIndex) uint8 { return t.expansionTime[idx] }
func (t *Terrain) ExpansionCost(idx TileIndex) uint8 { return t.expansionCost[idx] }

// SetWater marks a tile as water or land. Only valid before the grid is built.
func (t *Terrain) SetWater(idx TileIndex, water bool) {
	t.water[idx] = water
}

// SetExpansion sets how long and how expensive a land tile is to conquer
func (t *Terrain) SetExpansion(idx TileIndex, time, cost uint8) {
	t.expansionTime[idx] = time
	t.expansionCost[idx] = cost
}

// OnEdge reports whether the tile touches the map boundary
func (t *Terrain) OnEdge(idx TileIndex) bool {
	x, y := t.XY(idx)
	return x == 0 || y == 0 || x == t.W-1 || y == t.H-1
}

// Neighbors appends the in-bounds orthogonal neighbors of idx to out and returns it.
// Pass a stack buffer (buf[:0]) to avoid allocating on hot paths.
func (t *Terrain) Neighbors(idx TileIndex, out []TileIndex) []TileIndex {
	x, y := t.XY(idx)
	if y > 0 {
		out = append(out, idx-TileIndex(t.W))
	}
	if x < t.W-1 {
		out = append(out, idx+1)
	}
	if y < t.H-1 {
		out = append(out, idx+TileIndex(t.W))
	}
	if x > 0 {
		out = append(out, idx-1)
	}
	return out
}

// IsShore reports whether a land tile touches water orthogonally
func (t *Terrain) IsShore(idx TileIndex) bool {
	if t.water[idx] {
		return false
	}
	var buf [4]TileIndex
	for _, n := range t.Neighbors(idx, buf[:0]) {
		if t.water[n] {
			return true
		}
	}
	return false
}

// WaterCount returns the number of water tiles on the map
func (t *Terrain) WaterCount() int {
	n := 0
	for _, w := range t.water {
		if w {
			n++
		}
	}
	return n
}
