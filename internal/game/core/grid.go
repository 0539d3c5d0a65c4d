package core

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Owner is the value stored per tile in the ownership grid.
// Values below OwnerUnclaimed are player ids.
type Owner uint16

// The two largest representable owner values are reserved
const (
	OwnerWater     Owner = math.MaxUint16
	OwnerUnclaimed Owner = math.MaxUint16 - 1

	// MaxPlayers is the number of distinct player ids the grid can hold
	MaxPlayers = int(OwnerUnclaimed)
)

// IsPlayer reports whether the owner value is a real player id
func (o Owner) IsPlayer() bool { return o < OwnerUnclaimed }

func (o Owner) String() string {
	switch o {
	case OwnerWater:
		return "water"
	case OwnerUnclaimed:
		return "unclaimed"
	default:
		return fmt.Sprintf("player%d", uint16(o))
	}
}

// Grid is the single source of truth for tile ownership
type Grid struct {
	terrain *Terrain
	owners  []Owner
}

// NewGrid creates an ownership grid where land is unclaimed and water is water
func NewGrid(terrain *Terrain) *Grid {
	g := &Grid{
		terrain: terrain,
		owners:  make([]Owner, terrain.Size()),
	}
	for i := range g.owners {
		if terrain.IsWater(TileIndex(i)) {
			g.owners[i] = OwnerWater
		} else {
			g.owners[i] = OwnerUnclaimed
		}
	}
	return g
}

func (g *Grid) Owner(idx TileIndex) Owner           { return g.owners[idx] }
func (g *Grid) IsOwner(idx TileIndex, o Owner) bool { return g.owners[idx] == o }
func (g *Grid) HasOwner(idx TileIndex) bool         { return g.owners[idx].IsPlayer() }
func (g *Grid) IsWater(idx TileIndex) bool          { return g.owners[idx] == OwnerWater }
func (g *Grid) Terrain() *Terrain                   { return g.terrain }

// Conquer hands a tile to newOwner and records the change in txn.
// Callers guarantee the owner value is legal; water never changes hands.
func (g *Grid) Conquer(idx TileIndex, newOwner Owner, txn *Transaction) {
	prev := g.owners[idx]
	if prev == OwnerWater || newOwner == OwnerWater {
		panic(fmt.Sprintf("core: conquer of tile %d involves water (prev=%s new=%s)", idx, prev, newOwner))
	}
	txn.record(idx, prev, newOwner)
	g.owners[idx] = newOwner
}

// Clear resets an owned tile to unclaimed. Unowned tiles are left untouched.
func (g *Grid) Clear(idx TileIndex, txn *Transaction) {
	if !g.owners[idx].IsPlayer() {
		return
	}
	txn.record(idx, g.owners[idx], OwnerUnclaimed)
	g.owners[idx] = OwnerUnclaimed
}

// BordersOwner reports whether any orthogonal neighbor of idx belongs to o
func (g *Grid) BordersOwner(idx TileIndex, o Owner) bool {
	var buf [4]TileIndex
	for _, n := range g.terrain.Neighbors(idx, buf[:0]) {
		if g.owners[n] == o {
			return true
		}
	}
	return false
}

// Encode serializes the owner table as little-endian uint16 per tile.
// This is the wire representation shared with the map and network layers.
func (g *Grid) Encode() []byte {
	out := make([]byte, 2*len(g.owners))
	for i, o := range g.owners {
		binary.LittleEndian.PutUint16(out[2*i:], uint16(o))
	}
	return out
}

// DecodeOwners parses an encoded owner table
func DecodeOwners(data []byte) ([]Owner, error) {
	if len(data)%2 != 0 {
		return nil, fmt.Errorf("owner table has odd length %d", len(data))
	}
	owners := make([]Owner, len(data)/2)
	for i := range owners {
		owners[i] = Owner(binary.LittleEndian.Uint16(data[2*i:]))
	}
	return owners, nil
}
