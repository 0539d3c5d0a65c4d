package navigation

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/TerritorialConquest/internal/game/core"
)

// NodeID is a handle into Graph's node arena
type NodeID int32

// NoNode marks the absence of a node
const NoNode NodeID = -1

// NoArea is the area id of land tiles
const NoArea int32 = -1

// Edge connects two nodes. Path runs from the owning node's tile to the
// target node's tile, both included, and is never mutated after the build.
type Edge struct {
	To   NodeID
	Cost float64
	Path []core.TileIndex
	// Reverse is the index of the opposite edge in the target node's Edges
	Reverse int
}

// Node is a water tile on an area boundary crossing
type Node struct {
	ID    NodeID
	Tile  core.TileIndex
	Area  int32
	Cell  int
	Edges []Edge
}

// Graph is the static hierarchical water graph of one map. The grid is cut
// into AreaSize cells; nodes sit on the water entrances between cells and
// carry precomputed paths to every node they can reach inside their cell.
type Graph struct {
	terrain *core.Terrain
	params  Params

	cellsX, cellsY int
	cellHasLand    []bool

	areaIndex []int32
	areaOpen  []bool
	areaNodes [][]NodeID

	nodes     []Node
	nodeAt    map[core.TileIndex]NodeID
	cellNodes [][]NodeID
}

// BuildGraph precomputes the area graph for terrain. It depends only on the
// water layout, never on ownership, and is immutable afterwards.
func BuildGraph(terrain *core.Terrain, params Params, logger zerolog.Logger) *Graph {
	if params.AreaSize < 2 {
		panic("navigation: area size must be at least 2")
	}
	start := time.Now()
	g := &Graph{
		terrain: terrain,
		params:  params,
		cellsX:  (terrain.W + params.AreaSize - 1) / params.AreaSize,
		cellsY:  (terrain.H + params.AreaSize - 1) / params.AreaSize,
		nodeAt:  make(map[core.TileIndex]NodeID),
	}
	g.cellNodes = make([][]NodeID, g.cellsX*g.cellsY)

	g.scanCells()
	g.labelAreas()
	g.buildEntrances()
	g.buildCorners()
	g.buildIntraCellEdges()

	logger.Info().
		Int("cells", g.cellsX*g.cellsY).
		Int("areas", len(g.areaOpen)).
		Int("nodes", len(g.nodes)).
		Dur("elapsed", time.Since(start)).
		Msg("Area graph built")
	return g
}

func (g *Graph) cellBounds(c int) (x0, y0, x1, y1 int) {
	s := g.params.AreaSize
	cx, cy := c%g.cellsX, c/g.cellsX
	x0, y0 = cx*s, cy*s
	x1, y1 = min(x0+s, g.terrain.W), min(y0+s, g.terrain.H)
	return
}

// CellOf returns the grid cell containing tile
func (g *Graph) CellOf(t core.TileIndex) int {
	x, y := g.terrain.XY(t)
	return (y/g.params.AreaSize)*g.cellsX + x/g.params.AreaSize
}

func (g *Graph) scanCells() {
	g.cellHasLand = make([]bool, g.cellsX*g.cellsY)
	for c := range g.cellHasLand {
		x0, y0, x1, y1 := g.cellBounds(c)
	scan:
		for y := y0; y < y1; y++ {
			for x := x0; x < x1; x++ {
				if !g.terrain.IsWater(g.terrain.Idx(x, y)) {
					g.cellHasLand[c] = true
					break scan
				}
			}
		}
	}
}

func findRoot(parent []int, i int) int {
	for parent[i] != i {
		parent[i] = parent[parent[i]]
		i = parent[i]
	}
	return i
}

// labelAreas assigns canonical area ids. Every water component of a cell
// containing land gets its own id; land-free cells that touch share one.
func (g *Graph) labelAreas() {
	n := len(g.cellHasLand)
	parent := make([]int, n)
	for i := range parent {
		parent[i] = i
	}
	for c := 0; c < n; c++ {
		if g.cellHasLand[c] {
			continue
		}
		cx, cy := c%g.cellsX, c/g.cellsX
		if cx+1 < g.cellsX && !g.cellHasLand[c+1] {
			parent[findRoot(parent, c+1)] = findRoot(parent, c)
		}
		if cy+1 < g.cellsY && !g.cellHasLand[c+g.cellsX] {
			parent[findRoot(parent, c+g.cellsX)] = findRoot(parent, c)
		}
	}

	g.areaIndex = make([]int32, g.terrain.Size())
	for i := range g.areaIndex {
		g.areaIndex[i] = NoArea
	}
	openID := make(map[int]int32)
	var buf [4]core.TileIndex
	for c := 0; c < n; c++ {
		x0, y0, x1, y1 := g.cellBounds(c)
		if !g.cellHasLand[c] {
			root := findRoot(parent, c)
			id, ok := openID[root]
			if !ok {
				id = g.newArea(true)
				openID[root] = id
			}
			for y := y0; y < y1; y++ {
				for x := x0; x < x1; x++ {
					g.areaIndex[g.terrain.Idx(x, y)] = id
				}
			}
			continue
		}
		for y := y0; y < y1; y++ {
			for x := x0; x < x1; x++ {
				seed := g.terrain.Idx(x, y)
				if !g.terrain.IsWater(seed) || g.areaIndex[seed] != NoArea {
					continue
				}
				id := g.newArea(false)
				g.areaIndex[seed] = id
				stack := []core.TileIndex{seed}
				for len(stack) > 0 {
					t := stack[len(stack)-1]
					stack = stack[:len(stack)-1]
					for _, nb := range g.terrain.Neighbors(t, buf[:0]) {
						if g.areaIndex[nb] != NoArea || !g.terrain.IsWater(nb) || g.CellOf(nb) != c {
							continue
						}
						g.areaIndex[nb] = id
						stack = append(stack, nb)
					}
				}
			}
		}
	}
}

func (g *Graph) newArea(open bool) int32 {
	g.areaOpen = append(g.areaOpen, open)
	g.areaNodes = append(g.areaNodes, nil)
	return int32(len(g.areaOpen) - 1)
}

func (g *Graph) nodeFor(t core.TileIndex) NodeID {
	if id, ok := g.nodeAt[t]; ok {
		return id
	}
	id := NodeID(len(g.nodes))
	area := g.areaIndex[t]
	cell := g.CellOf(t)
	g.nodes = append(g.nodes, Node{ID: id, Tile: t, Area: area, Cell: cell})
	g.nodeAt[t] = id
	g.areaNodes[area] = append(g.areaNodes[area], id)
	g.cellNodes[cell] = append(g.cellNodes[cell], id)
	return id
}

// connect adds a pair of edges; path runs from a's tile to b's tile
func (g *Graph) connect(a, b NodeID, cost float64, path []core.TileIndex) {
	if a == b {
		return
	}
	for _, e := range g.nodes[a].Edges {
		if e.To == b {
			return
		}
	}
	ia, ib := len(g.nodes[a].Edges), len(g.nodes[b].Edges)
	g.nodes[a].Edges = append(g.nodes[a].Edges, Edge{To: b, Cost: cost, Path: path, Reverse: ib})
	g.nodes[b].Edges = append(g.nodes[b].Edges, Edge{To: a, Cost: cost, Path: reversed(path), Reverse: ia})
}

// buildEntrances scans every shared cell edge for runs of water on both
// sides. Long runs get a crossing at each end, short ones at the middle.
func (g *Graph) buildEntrances() {
	s := g.params.AreaSize
	t := g.terrain
	for cy := 0; cy < g.cellsY; cy++ {
		for cx := 0; cx < g.cellsX; cx++ {
			if x := (cx+1)*s - 1; cx+1 < g.cellsX {
				y0, y1 := cy*s, min((cy+1)*s, t.H)
				g.scanEdge(y0, y1, func(i int) (core.TileIndex, core.TileIndex) {
					return t.Idx(x, i), t.Idx(x+1, i)
				})
			}
			if y := (cy+1)*s - 1; cy+1 < g.cellsY {
				x0, x1 := cx*s, min((cx+1)*s, t.W)
				g.scanEdge(x0, x1, func(i int) (core.TileIndex, core.TileIndex) {
					return t.Idx(i, y), t.Idx(i, y+1)
				})
			}
		}
	}
}

func (g *Graph) scanEdge(from, to int, pair func(int) (core.TileIndex, core.TileIndex)) {
	open := func(i int) bool {
		a, b := pair(i)
		return g.terrain.IsWater(a) && g.terrain.IsWater(b)
	}
	cross := func(i int) {
		a, b := pair(i)
		g.connect(g.nodeFor(a), g.nodeFor(b), 1, []core.TileIndex{a, b})
	}
	for i := from; i < to; {
		if !open(i) {
			i++
			continue
		}
		j := i
		for j+1 < to && open(j+1) {
			j++
		}
		if j-i+1 >= g.params.MinEntranceLength {
			cross(i)
			cross(j)
		} else {
			cross((i + j) / 2)
		}
		i = j + 1
	}
}

// buildCorners links diagonally adjacent cells through corners whose four
// surrounding tiles are all water
func (g *Graph) buildCorners() {
	s := g.params.AreaSize
	t := g.terrain
	for cy := 1; cy < g.cellsY; cy++ {
		for cx := 1; cx < g.cellsX; cx++ {
			x, y := cx*s, cy*s
			nw, ne := t.Idx(x-1, y-1), t.Idx(x, y-1)
			sw, se := t.Idx(x-1, y), t.Idx(x, y)
			if !t.IsWater(nw) || !t.IsWater(ne) || !t.IsWater(sw) || !t.IsWater(se) {
				continue
			}
			d := g.params.DiagonalCost
			g.connect(g.nodeFor(nw), g.nodeFor(se), d, []core.TileIndex{nw, se})
			g.connect(g.nodeFor(ne), g.nodeFor(sw), d, []core.TileIndex{ne, sw})
		}
	}
}

// buildIntraCellEdges connects the nodes sharing a cell and an area. Cells
// with land run a flood fill per node; open cells use straight lines.
func (g *Graph) buildIntraCellEdges() {
	for c, ids := range g.cellNodes {
		if len(ids) < 2 {
			continue
		}
		if !g.cellHasLand[c] {
			for i, a := range ids {
				for _, b := range ids[i+1:] {
					ta, tb := g.nodes[a].Tile, g.nodes[b].Tile
					g.connect(a, b, octile(g.terrain, ta, tb, g.params.DiagonalCost), g.line(ta, tb))
				}
			}
			continue
		}
		for i, a := range ids {
			area := g.nodes[a].Area
			cell := c
			search := newLocalSearch(g.terrain, g.params.DiagonalCost, func(t core.TileIndex) bool {
				return g.areaIndex[t] == area && g.CellOf(t) == cell
			})
			search.run([]core.TileIndex{g.nodes[a].Tile}, nil)
			for _, b := range ids[i+1:] {
				if g.nodes[b].Area != area {
					continue
				}
				if d, ok := search.distanceTo(g.nodes[b].Tile); ok {
					g.connect(a, b, d, search.pathTo(g.nodes[b].Tile))
				}
			}
		}
	}
}

// line walks from a to b in a Bresenham line with 8-directional steps.
// Only used inside land-free cells.
func (g *Graph) line(a, b core.TileIndex) []core.TileIndex {
	x0, y0 := g.terrain.XY(a)
	x1, y1 := g.terrain.XY(b)
	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := sign(x1-x0), sign(y1-y0)
	e := dx + dy
	path := []core.TileIndex{a}
	for x0 != x1 || y0 != y1 {
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
		path = append(path, g.terrain.Idx(x0, y0))
	}
	return path
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

func (g *Graph) Terrain() *core.Terrain { return g.terrain }
func (g *Graph) Params() Params         { return g.params }
func (g *Graph) NodeCount() int         { return len(g.nodes) }
func (g *Graph) Node(id NodeID) *Node   { return &g.nodes[id] }
func (g *Graph) AreaCount() int         { return len(g.areaOpen) }

// AreaOf returns the canonical area id of a water tile, NoArea for land
func (g *Graph) AreaOf(t core.TileIndex) int32 { return g.areaIndex[t] }

// AreaNodes returns the nodes of a canonical area
func (g *Graph) AreaNodes(area int32) []NodeID { return g.areaNodes[area] }

// IsOpenArea reports whether an area is made of land-free cells
func (g *Graph) IsOpenArea(area int32) bool { return g.areaOpen[area] }

// NodeAt returns the node on tile t, if any
func (g *Graph) NodeAt(t core.TileIndex) (NodeID, bool) {
	id, ok := g.nodeAt[t]
	return id, ok
}
