package navigation

import (
	"math"
	"sort"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/TerritorialConquest/internal/game/core"
)

// Pathfinder computes boat routes over a Graph
type Pathfinder struct {
	graph   *Graph
	terrain *core.Terrain
	logger  zerolog.Logger
}

func NewPathfinder(graph *Graph, logger zerolog.Logger) *Pathfinder {
	return &Pathfinder{
		graph:   graph,
		terrain: graph.terrain,
		logger:  logger.With().Str("component", "pathfinder").Logger(),
	}
}

func (pf *Pathfinder) Graph() *Graph { return pf.graph }

// WaterAround returns the water tiles a boat can use to leave or reach t:
// t itself when it is water, otherwise its orthogonal water neighbours
func (pf *Pathfinder) WaterAround(t core.TileIndex) []core.TileIndex {
	if pf.terrain.IsWater(t) {
		return []core.TileIndex{t}
	}
	var buf [4]core.TileIndex
	var out []core.TileIndex
	for _, n := range pf.terrain.Neighbors(t, buf[:0]) {
		if pf.terrain.IsWater(n) {
			out = append(out, n)
		}
	}
	return out
}

// CalculateBoatWaypoints returns the water route from start to end as an
// ordered list of tile sequences, consecutive sequences sharing their joint
// tile. The first tile touches start and the last touches end. A nil result
// means no route exists.
func (pf *Pathfinder) CalculateBoatWaypoints(start, end core.TileIndex) [][]core.TileIndex {
	if !pf.terrain.ValidTile(start) || !pf.terrain.ValidTile(end) {
		return nil
	}
	startWater := pf.WaterAround(start)
	endWater := pf.WaterAround(end)
	if len(startWater) == 0 || len(endWater) == 0 {
		return nil
	}

	path, ok, exceeded := pf.localRoute(startWater, endWater, true)
	if ok {
		return [][]core.TileIndex{path}
	}
	if route := pf.graphRoute(startWater, endWater); route != nil || !exceeded {
		return route
	}
	// an open area without nodes on its rim has no graph route
	if path, ok, _ = pf.localRoute(startWater, endWater, false); ok {
		return [][]core.TileIndex{path}
	}
	return nil
}

// localRoute runs A* inside the shared canonical area, if any. Only searches
// through open areas are budgeted; closed areas never leave their cell.
func (pf *Pathfinder) localRoute(startWater, endWater []core.TileIndex, bounded bool) (path []core.TileIndex, ok, exceeded bool) {
	g := pf.graph
	for _, area := range sharedAreas(g, startWater, endWater) {
		var sources, targets []core.TileIndex
		for _, t := range startWater {
			if g.areaIndex[t] == area {
				sources = append(sources, t)
			}
		}
		goal := make(map[core.TileIndex]bool)
		for _, t := range endWater {
			if g.areaIndex[t] == area {
				targets = append(targets, t)
				goal[t] = true
			}
		}

		search := newLocalSearch(pf.terrain, g.params.DiagonalCost, func(t core.TileIndex) bool {
			return g.areaIndex[t] == area
		})
		if bounded && g.areaOpen[area] {
			search.limit = g.params.localLimit()
		}
		search.heuristic = func(t core.TileIndex) float64 {
			best := math.Inf(1)
			for _, target := range targets {
				best = math.Min(best, octile(pf.terrain, t, target, g.params.DiagonalCost))
			}
			return best
		}
		if found, ok := search.run(sources, func(t core.TileIndex) bool { return goal[t] }); ok {
			return search.pathTo(found), true, false
		}
		if search.exceeded {
			exceeded = true
			pf.logger.Debug().Int32("area", area).Msg("Local search budget exceeded, using area graph")
		}
	}
	return nil, false, exceeded
}

func sharedAreas(g *Graph, a, b []core.TileIndex) []int32 {
	in := make(map[int32]bool)
	for _, t := range a {
		in[g.areaIndex[t]] = true
	}
	var shared []int32
	seen := make(map[int32]bool)
	for _, t := range b {
		area := g.areaIndex[t]
		if in[area] && !seen[area] {
			seen[area] = true
			shared = append(shared, area)
		}
	}
	return shared
}

// portal is a node reachable from a set of water tiles inside one cell
type portal struct {
	node NodeID
	cost float64
	// path runs from the water tile to the node tile
	path []core.TileIndex
}

// portals floods each (cell, area) group of water tiles and returns every
// node of that group with its cheapest local path
func (pf *Pathfinder) portals(water []core.TileIndex) map[NodeID]portal {
	g := pf.graph
	type key struct {
		cell int
		area int32
	}
	groups := make(map[key][]core.TileIndex)
	var order []key
	for _, t := range water {
		k := key{g.CellOf(t), g.areaIndex[t]}
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], t)
	}

	out := make(map[NodeID]portal)
	for _, k := range order {
		k := k
		search := newLocalSearch(pf.terrain, g.params.DiagonalCost, func(t core.TileIndex) bool {
			return g.areaIndex[t] == k.area && g.CellOf(t) == k.cell
		})
		search.run(groups[k], nil)
		for _, id := range g.cellNodes[k.cell] {
			n := &g.nodes[id]
			if n.Area != k.area {
				continue
			}
			d, ok := search.distanceTo(n.Tile)
			if !ok {
				continue
			}
			if old, seen := out[id]; seen && old.cost <= d {
				continue
			}
			out[id] = portal{node: id, cost: d, path: search.pathTo(n.Tile)}
		}
	}
	return out
}

func sortedNodes(m map[NodeID]portal) []NodeID {
	ids := make([]NodeID, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// graphRoute searches the node graph backwards from the end portals until
// the cheapest start portal is settled
func (pf *Pathfinder) graphRoute(startWater, endWater []core.TileIndex) [][]core.TileIndex {
	g := pf.graph
	ends := pf.portals(endWater)
	starts := pf.portals(startWater)
	if len(ends) == 0 || len(starts) == 0 {
		return nil
	}

	n := len(g.nodes)
	dist := make([]float64, n)
	next := make([]NodeID, n)
	nextEdge := make([]int, n)
	for i := range dist {
		dist[i] = math.Inf(1)
		next[i] = NoNode
	}

	pq := &priorityQueue{}
	for _, id := range sortedNodes(ends) {
		dist[id] = ends[id].cost
		pq.push(int(id), dist[id], dist[id])
	}

	best := math.Inf(1)
	bestNode := NoNode
	for pq.Len() > 0 {
		item := pq.pop()
		u := NodeID(item.id)
		if item.cost > dist[u] {
			continue
		}
		if item.cost >= best {
			break
		}
		if p, ok := starts[u]; ok {
			if total := item.cost + p.cost; total < best {
				best = total
				bestNode = u
			}
		}
		for _, e := range g.nodes[u].Edges {
			nd := item.cost + e.Cost
			if nd < dist[e.To] {
				dist[e.To] = nd
				next[e.To] = u
				nextEdge[e.To] = e.Reverse
				pq.push(int(e.To), nd, nd)
			}
		}
	}
	if bestNode == NoNode {
		return nil
	}

	segments := [][]core.TileIndex{starts[bestNode].path}
	cur := bestNode
	for next[cur] != NoNode {
		segments = append(segments, g.nodes[cur].Edges[nextEdge[cur]].Path)
		cur = next[cur]
	}
	segments = append(segments, reversed(ends[cur].path))
	return segments
}

// Flatten joins waypoint sequences into one tile path, dropping the
// duplicated joint tiles
func Flatten(segments [][]core.TileIndex) []core.TileIndex {
	var out []core.TileIndex
	for _, seg := range segments {
		for _, t := range seg {
			if len(out) > 0 && out[len(out)-1] == t {
				continue
			}
			out = append(out, t)
		}
	}
	return out
}
