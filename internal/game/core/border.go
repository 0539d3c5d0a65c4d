package core

import "fmt"

// fullGrade is the number of same-owner neighbors of a fully interior tile
const fullGrade = 4

// BorderDelta lists the effects of one TransitionTiles call, for renderers
// and for re-indexing attacks
type BorderDelta struct {
	// Territory holds every tile that changed hands
	Territory []TileIndex
	// AttackerBorder holds the changed tiles that are border tiles of the new owner
	AttackerBorder []TileIndex
	// AttackerInterior holds tiles of the new owner that stopped being border tiles
	AttackerInterior []TileIndex
	// DefenderBorder holds tiles of the previous owner that became border tiles
	DefenderBorder []TileIndex
}

// BorderTracker maintains each player's border set incrementally.
// A tile is a border tile iff its grade (count of same-owner neighbors) is
// below four; map edge tiles can never reach four.
type BorderTracker struct {
	terrain *Terrain
	grid    *Grid
	players *Players
	grade   []uint8

	// batch membership without clearing: stamp[t] == gen
	stamp []uint32
	gen   uint32
}

func NewBorderTracker(grid *Grid, players *Players) *BorderTracker {
	n := grid.terrain.Size()
	return &BorderTracker{
		terrain: grid.terrain,
		grid:    grid,
		players: players,
		grade:   make([]uint8, n),
		stamp:   make([]uint32, n),
	}
}

// Grade returns the number of same-owner orthogonal neighbors of an owned tile
func (bt *BorderTracker) Grade(t TileIndex) int { return int(bt.grade[t]) }

// IsBorder reports whether an owned tile touches foreign territory or the map edge
func (bt *BorderTracker) IsBorder(t TileIndex) bool {
	return bt.grid.HasOwner(t) && bt.grade[t] < fullGrade
}

func (bt *BorderTracker) nextGen() uint32 {
	bt.gen++
	if bt.gen == 0 {
		clear(bt.stamp)
		bt.gen = 1
	}
	return bt.gen
}

// TransitionTiles updates grades and border sets after every tile in tiles
// moved from defender to attacker. The grid must already hold the new owner.
// Runs in O(len(tiles)).
func (bt *BorderTracker) TransitionTiles(tiles []TileIndex, attacker, defender Owner) BorderDelta {
	delta := BorderDelta{Territory: tiles}
	if len(tiles) == 0 {
		return delta
	}

	att := bt.players.Get(attacker)
	def := bt.players.Get(defender)

	gen := bt.nextGen()
	for _, t := range tiles {
		bt.stamp[t] = gen
	}

	var buf [4]TileIndex
	for _, t := range tiles {
		for _, n := range bt.terrain.Neighbors(t, buf[:0]) {
			if bt.stamp[n] == gen {
				continue
			}
			owner := bt.grid.owners[n]
			switch {
			case def != nil && owner == defender:
				bt.grade[n]--
				if bt.grade[n] == fullGrade-1 {
					def.addBorder(n)
					delta.DefenderBorder = append(delta.DefenderBorder, n)
				}
			case att != nil && owner == attacker:
				bt.grade[n]++
				if bt.grade[n] == fullGrade {
					att.removeBorder(n)
					delta.AttackerInterior = append(delta.AttackerInterior, n)
				}
			}
		}
	}

	for _, t := range tiles {
		if def != nil {
			def.removeBorder(t)
		}
		if att == nil {
			bt.grade[t] = 0
			continue
		}
		g := uint8(0)
		for _, n := range bt.terrain.Neighbors(t, buf[:0]) {
			if bt.grid.owners[n] == attacker {
				g++
			}
		}
		bt.grade[t] = g
		if g < fullGrade {
			att.addBorder(t)
			delta.AttackerBorder = append(delta.AttackerBorder, t)
		} else {
			att.removeBorder(t)
		}
	}
	return delta
}

// Verify recomputes every grade from scratch and checks it against the
// incremental state. O(map size); for tests and debug builds.
func (bt *BorderTracker) Verify() error {
	var buf [4]TileIndex
	for i := range bt.grade {
		t := TileIndex(i)
		owner := bt.grid.owners[t]
		if !owner.IsPlayer() {
			for _, p := range bt.players.All() {
				if p.border.Has(t) {
					return fmt.Errorf("tile %d owned by %s is in border set of %s", t, owner, p.ID)
				}
			}
			continue
		}
		g := uint8(0)
		for _, n := range bt.terrain.Neighbors(t, buf[:0]) {
			if bt.grid.owners[n] == owner {
				g++
			}
		}
		if g != bt.grade[t] {
			return fmt.Errorf("tile %d grade %d, expected %d", t, bt.grade[t], g)
		}
		p := bt.players.Get(owner)
		if p == nil {
			return fmt.Errorf("tile %d owned by unknown %s", t, owner)
		}
		if (g < fullGrade) != p.border.Has(t) {
			return fmt.Errorf("tile %d grade %d but border membership %v", t, g, p.border.Has(t))
		}
	}
	for _, p := range bt.players.All() {
		for _, t := range p.border.Items() {
			if bt.grid.owners[t] != p.ID {
				return fmt.Errorf("border tile %d of %s is owned by %s", t, p.ID, bt.grid.owners[t])
			}
		}
	}
	return nil
}
