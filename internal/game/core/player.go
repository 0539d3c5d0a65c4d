package core

import "fmt"

// BorderBox is the bounding box of a player's border tiles
type BorderBox struct {
	MinX, MinY, MaxX, MaxY int
	Empty                  bool
}

func emptyBox() BorderBox { return BorderBox{Empty: true} }

func (b *BorderBox) extend(c Coordinate) {
	if b.Empty {
		*b = BorderBox{MinX: c.X, MinY: c.Y, MaxX: c.X, MaxY: c.Y}
		return
	}
	b.MinX = min(b.MinX, c.X)
	b.MinY = min(b.MinY, c.Y)
	b.MaxX = max(b.MaxX, c.X)
	b.MaxY = max(b.MaxY, c.Y)
}

// OnEdge reports whether c lies on the box outline
func (b BorderBox) OnEdge(c Coordinate) bool {
	if b.Empty {
		return false
	}
	return c.X == b.MinX || c.X == b.MaxX || c.Y == b.MinY || c.Y == b.MaxY
}

// Center returns the middle of the box, used for label placement
func (b BorderBox) Center() Coordinate {
	return Coordinate{X: (b.MinX + b.MaxX) / 2, Y: (b.MinY + b.MaxY) / 2}
}

// Player is the mutable per-player aggregate the simulation reads and writes
type Player struct {
	ID    Owner
	Name  string
	Human bool
	Team  int

	troops     float64
	territory  int
	spawned    bool
	eliminated bool

	border   *TileSet
	box      BorderBox
	boxDirty bool
	width    int
}

func newPlayer(id Owner, width int) *Player {
	return &Player{
		ID:     id,
		Name:   fmt.Sprintf("Player %d", id),
		border: NewTileSet(),
		box:    emptyBox(),
		width:  width,
	}
}

func (p *Player) Troops() float64           { return p.troops }
func (p *Player) TerritorySize() int        { return p.territory }
func (p *Player) IsSpawned() bool           { return p.spawned }
func (p *Player) IsAlive() bool             { return !p.eliminated }
func (p *Player) BorderSize() int           { return p.border.Len() }
func (p *Player) Border() *TileSet          { return p.border }
func (p *Player) MarkSpawned()              { p.spawned = true }
func (p *Player) IsBorder(t TileIndex) bool { return p.border.Has(t) }

// BorderTiles returns a snapshot of the player's border tiles
func (p *Player) BorderTiles() []TileIndex { return p.border.Snapshot() }

// AddTroops increases the troop count; negative amounts are a programming error
func (p *Player) AddTroops(n float64) {
	if n < 0 {
		panic(fmt.Sprintf("core: AddTroops(%v) for %s", n, p.ID))
	}
	p.troops += n
}

// RemoveTroops takes up to n troops and returns the amount actually removed
func (p *Player) RemoveTroops(n float64) float64 {
	if n <= 0 {
		return 0
	}
	if n > p.troops {
		n = p.troops
	}
	p.troops -= n
	return n
}

// SetTroops overwrites the troop count
func (p *Player) SetTroops(n float64) {
	if n < 0 {
		panic(fmt.Sprintf("core: SetTroops(%v) for %s", n, p.ID))
	}
	p.troops = n
}

// Eliminate marks the player dead and drops its troops
func (p *Player) Eliminate() {
	p.eliminated = true
	p.troops = 0
}

// BorderBox returns the bounding box of the border tiles, recomputing it if a
// tile on its outline was removed since the last call
func (p *Player) BorderBox() BorderBox {
	if p.boxDirty {
		p.box = emptyBox()
		for _, t := range p.border.Items() {
			p.box.extend(FromIndex(t, p.width))
		}
		p.boxDirty = false
	}
	return p.box
}

func (p *Player) addBorder(t TileIndex) bool {
	if !p.border.Add(t) {
		return false
	}
	if !p.boxDirty {
		p.box.extend(FromIndex(t, p.width))
	}
	return true
}

func (p *Player) removeBorder(t TileIndex) bool {
	if !p.border.Remove(t) {
		return false
	}
	if !p.boxDirty && p.box.OnEdge(FromIndex(t, p.width)) {
		p.boxDirty = true
	}
	return true
}

// Players is the player registry
type Players struct {
	list []*Player
}

// NewPlayers creates n players with ids 0..n-1 on a map of the given width
func NewPlayers(n, width int) *Players {
	if n < 0 || n > MaxPlayers {
		panic(fmt.Sprintf("core: player count %d out of range", n))
	}
	ps := &Players{list: make([]*Player, n)}
	for i := range ps.list {
		ps.list[i] = newPlayer(Owner(i), width)
	}
	return ps
}

// Get returns the player for an owner value, or nil for sentinels and unknown ids
func (ps *Players) Get(id Owner) *Player {
	if !id.IsPlayer() || int(id) >= len(ps.list) {
		return nil
	}
	return ps.list[id]
}

func (ps *Players) Len() int { return len(ps.list) }

// All returns the players in id order
func (ps *Players) All() []*Player { return ps.list }

// AliveCount returns the number of players not eliminated
func (ps *Players) AliveCount() int {
	n := 0
	for _, p := range ps.list {
		if p.IsAlive() {
			n++
		}
	}
	return n
}
