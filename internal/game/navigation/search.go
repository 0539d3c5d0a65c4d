package navigation

import (
	"math"

	"github.com/mitchelldurbincs/TerritorialConquest/internal/game/core"
)

// localSearch is an 8-directional Dijkstra/A* over the water tiles accepted
// by inside. A diagonal step is only allowed when both orthogonal tiles it
// passes are water.
type localSearch struct {
	terrain *core.Terrain
	diag    float64
	inside  func(core.TileIndex) bool
	// heuristic turns the search into A*; nil runs plain Dijkstra
	heuristic func(core.TileIndex) float64
	// limit caps expanded tiles; zero means unbounded
	limit int

	dist     map[core.TileIndex]float64
	parent   map[core.TileIndex]core.TileIndex
	expanded int
	exceeded bool
}

func newLocalSearch(terrain *core.Terrain, diag float64, inside func(core.TileIndex) bool) *localSearch {
	return &localSearch{terrain: terrain, diag: diag, inside: inside}
}

// step returns the tile reached from t in direction d and its cost
func step(terrain *core.Terrain, diag float64, t core.TileIndex, d core.Direction) (core.TileIndex, float64, bool) {
	x, y := terrain.XY(t)
	v := core.DirectionVectors[d]
	nx, ny := x+v.X, y+v.Y
	if !terrain.InBounds(nx, ny) {
		return core.NoTile, 0, false
	}
	n := terrain.Idx(nx, ny)
	if !terrain.IsWater(n) {
		return core.NoTile, 0, false
	}
	if !d.IsDiagonal() {
		return n, 1, true
	}
	if !terrain.IsWater(terrain.Idx(nx, y)) || !terrain.IsWater(terrain.Idx(x, ny)) {
		return core.NoTile, 0, false
	}
	return n, diag, true
}

// run searches from every source until goal accepts a popped tile. With a
// goal that never matches it floods the whole region and returns false.
func (s *localSearch) run(sources []core.TileIndex, goal func(core.TileIndex) bool) (core.TileIndex, bool) {
	s.dist = make(map[core.TileIndex]float64)
	s.parent = make(map[core.TileIndex]core.TileIndex)
	s.expanded = 0
	s.exceeded = false

	pq := &priorityQueue{}
	for _, src := range sources {
		if !s.inside(src) {
			continue
		}
		if _, seen := s.dist[src]; seen {
			continue
		}
		s.dist[src] = 0
		s.parent[src] = core.NoTile
		pq.push(int(src), 0, s.h(src))
	}

	closed := make(map[core.TileIndex]bool)
	for pq.Len() > 0 {
		item := pq.pop()
		t := core.TileIndex(item.id)
		if closed[t] || item.cost > s.dist[t] {
			continue
		}
		closed[t] = true
		if goal != nil && goal(t) {
			return t, true
		}
		s.expanded++
		if s.limit > 0 && s.expanded > s.limit {
			s.exceeded = true
			return core.NoTile, false
		}
		for d := core.Direction(0); d < core.NumDirections; d++ {
			n, c, ok := step(s.terrain, s.diag, t, d)
			if !ok || closed[n] || !s.inside(n) {
				continue
			}
			nd := item.cost + c
			if old, seen := s.dist[n]; seen && old <= nd {
				continue
			}
			s.dist[n] = nd
			s.parent[n] = t
			pq.push(int(n), nd, nd+s.h(n))
		}
	}
	return core.NoTile, false
}

func (s *localSearch) h(t core.TileIndex) float64 {
	if s.heuristic == nil {
		return 0
	}
	return s.heuristic(t)
}

// pathTo rebuilds the source→t path of the last run
func (s *localSearch) pathTo(t core.TileIndex) []core.TileIndex {
	if _, ok := s.parent[t]; !ok {
		return nil
	}
	var rev []core.TileIndex
	for cur := t; cur != core.NoTile; cur = s.parent[cur] {
		rev = append(rev, cur)
	}
	path := make([]core.TileIndex, len(rev))
	for i, tile := range rev {
		path[len(rev)-1-i] = tile
	}
	return path
}

// distanceTo returns the cost of the last run to t
func (s *localSearch) distanceTo(t core.TileIndex) (float64, bool) {
	d, ok := s.dist[t]
	return d, ok
}

// octile is the obstacle-free 8-directional distance between two tiles
func octile(terrain *core.Terrain, a, b core.TileIndex, diag float64) float64 {
	ax, ay := terrain.XY(a)
	bx, by := terrain.XY(b)
	dx := math.Abs(float64(ax - bx))
	dy := math.Abs(float64(ay - by))
	lo, hi := math.Min(dx, dy), math.Max(dx, dy)
	return hi - lo + lo*diag
}

func reversed(path []core.TileIndex) []core.TileIndex {
	out := make([]core.TileIndex, len(path))
	for i, t := range path {
		out[len(path)-1-i] = t
	}
	return out
}
