package core

import (
	"fmt"

	"github.com/mitchelldurbincs/TerritorialConquest/internal/common"
)

// TileIndex identifies a tile on the grid as x + y*width
type TileIndex int

// NoTile marks an absent tile reference
const NoTile TileIndex = -1

// Coordinate represents a position on the grid
type Coordinate struct {
	X, Y int
}

// NewCoordinate is shorthand for Coordinate{X: x, Y: y}
func NewCoordinate(x, y int) Coordinate { return Coordinate{X: x, Y: y} }

// FromIndex is the inverse of ToIndex for a grid of the given width
func FromIndex(idx TileIndex, width int) Coordinate {
	return Coordinate{X: int(idx) % width, Y: int(idx) / width}
}

func (c Coordinate) ToIndex(width int) TileIndex {
	return TileIndex(c.Y*width + c.X)
}

// DistanceTo is the Manhattan distance, used for spawn spacing
func (c Coordinate) DistanceTo(other Coordinate) int {
	return common.ManhattanDistance(c.X, c.Y, other.X, other.Y)
}

// IsAdjacentTo reports a shared edge
func (c Coordinate) IsAdjacentTo(other Coordinate) bool {
	return c.DistanceTo(other) == 1
}

// IsAdjacent8To also accepts a shared corner
func (c Coordinate) IsAdjacent8To(other Coordinate) bool {
	return c != other && common.Abs(c.X-other.X) <= 1 && common.Abs(c.Y-other.Y) <= 1
}

func (c Coordinate) Add(other Coordinate) Coordinate {
	return Coordinate{X: c.X + other.X, Y: c.Y + other.Y}
}

func (c Coordinate) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Direction represents one of the eight compass directions
type Direction int

const (
	North Direction = iota
	East
	South
	West
	NorthEast
	SouthEast
	SouthWest
	NorthWest

	NumDirections = 8
)

// DirectionVectors provides coordinate offsets for each direction.
// The first four entries are the orthogonal directions.
var DirectionVectors = [8]Coordinate{
	North:     {X: 0, Y: -1},
	East:      {X: 1, Y: 0},
	South:     {X: 0, Y: 1},
	West:      {X: -1, Y: 0},
	NorthEast: {X: 1, Y: -1},
	SouthEast: {X: 1, Y: 1},
	SouthWest: {X: -1, Y: 1},
	NorthWest: {X: -1, Y: -1},
}

// IsDiagonal reports whether the direction moves on both axes
func (d Direction) IsDiagonal() bool {
	return d >= NorthEast
}

// Move returns a new coordinate moved one step in the given direction
func (c Coordinate) Move(direction Direction) Coordinate {
	if direction < North || direction > NorthWest {
		return c
	}
	return c.Add(DirectionVectors[direction])
}
