package navigation

import (
	"math"

	"github.com/mitchelldurbincs/TerritorialConquest/internal/game/core"
)

// ShoreIndex maps each player's coastal border tiles to the canonical areas
// of the water they touch. Entries are rebuilt lazily after any transaction
// involving the player.
type ShoreIndex struct {
	graph *Graph
	world *core.World
	cache map[core.Owner]map[int32][]core.TileIndex
}

// NewShoreIndex creates the index and registers it as a transaction hook on w
func NewShoreIndex(graph *Graph, w *core.World) *ShoreIndex {
	si := &ShoreIndex{
		graph: graph,
		world: w,
		cache: make(map[core.Owner]map[int32][]core.TileIndex),
	}
	w.AddHook(si)
	return si
}

// OnTransaction implements core.TransactionHook
func (si *ShoreIndex) OnTransaction(txn *core.Transaction, _ *core.BorderDelta) {
	delete(si.cache, txn.Attacker())
	delete(si.cache, txn.Defender())
}

// Shores returns player's shore tiles grouped by water area. The returned
// map must not be modified.
func (si *ShoreIndex) Shores(player core.Owner) map[int32][]core.TileIndex {
	if m, ok := si.cache[player]; ok {
		return m
	}
	m := make(map[int32][]core.TileIndex)
	p := si.world.Player(player)
	if p == nil {
		return m
	}
	terrain := si.graph.terrain
	var buf [4]core.TileIndex
	for _, t := range p.Border().Items() {
		for _, n := range terrain.Neighbors(t, buf[:0]) {
			if !terrain.IsWater(n) {
				continue
			}
			area := si.graph.areaIndex[n]
			list := m[area]
			if len(list) > 0 && list[len(list)-1] == t {
				continue
			}
			m[area] = append(list, t)
		}
	}
	si.cache[player] = m
	return m
}

// HasShore reports whether player owns any coastal tile
func (si *ShoreIndex) HasShore(player core.Owner) bool {
	return len(si.Shores(player)) > 0
}

// nearestShore returns the tile of list closest to from, lowest index on ties
func nearestShore(terrain *core.Terrain, diag float64, list []core.TileIndex, from core.TileIndex) (core.TileIndex, float64) {
	best, bestD := core.NoTile, math.Inf(1)
	for _, t := range list {
		d := octile(terrain, from, t, diag)
		if d < bestD || (d == bestD && t < best) {
			best, bestD = t, d
		}
	}
	return best, bestD
}

// FindStartingPoint picks the player's shore tile a boat heading for target
// should leave from: the nearest one sharing water with the target, else
// the one first reached through the area graph. Returns core.NoTile when
// the player cannot reach target by sea.
func (pf *Pathfinder) FindStartingPoint(index *ShoreIndex, player core.Owner, target core.TileIndex) core.TileIndex {
	if !pf.terrain.ValidTile(target) {
		return core.NoTile
	}
	shores := index.Shores(player)
	if len(shores) == 0 {
		return core.NoTile
	}
	endWater := pf.WaterAround(target)
	g := pf.graph
	diag := g.params.DiagonalCost

	best, bestD := core.NoTile, math.Inf(1)
	for _, ew := range endWater {
		t, d := nearestShore(pf.terrain, diag, shores[g.areaIndex[ew]], ew)
		if t != core.NoTile && (d < bestD || (d == bestD && t < best)) {
			best, bestD = t, d
		}
	}
	if best != core.NoTile {
		return best
	}

	seeds := pf.portals(endWater)
	if len(seeds) == 0 {
		return core.NoTile
	}
	dist := make([]float64, len(g.nodes))
	for i := range dist {
		dist[i] = math.Inf(1)
	}
	pq := &priorityQueue{}
	for _, id := range sortedNodes(seeds) {
		dist[id] = seeds[id].cost
		pq.push(int(id), dist[id], dist[id])
	}
	for pq.Len() > 0 {
		item := pq.pop()
		u := NodeID(item.id)
		if item.cost > dist[u] {
			continue
		}
		node := &g.nodes[u]
		if list := shores[node.Area]; len(list) > 0 {
			t, _ := nearestShore(pf.terrain, diag, list, node.Tile)
			return t
		}
		for _, e := range node.Edges {
			if nd := item.cost + e.Cost; nd < dist[e.To] {
				dist[e.To] = nd
				pq.push(int(e.To), nd, nd)
			}
		}
	}
	return core.NoTile
}
