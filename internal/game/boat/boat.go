package boat

import (
	"math"

	"github.com/mitchelldurbincs/TerritorialConquest/internal/game/core"
	"github.com/mitchelldurbincs/TerritorialConquest/internal/game/navigation"
)

// Params tunes boat movement
type Params struct {
	// Speed is the distance covered per tick on a straight course
	Speed float64
	// MinSpeedFactor bounds how much upcoming turns may slow a boat
	MinSpeedFactor float64
	// LookAhead is the number of upcoming steps whose turns are considered
	LookAhead int
	// TurnDiscount weights each further turn by this factor
	TurnDiscount float64
	// MaxBoatsPerPlayer caps concurrent boats; zero means unlimited
	MaxBoatsPerPlayer int
	// DiagonalLength is the distance of one diagonal step
	DiagonalLength float64
}

func DefaultParams() Params {
	return Params{
		Speed:             1,
		MinSpeedFactor:    0.35,
		LookAhead:         4,
		TurnDiscount:      0.5,
		MaxBoatsPerPlayer: 3,
		DiagonalLength:    math.Sqrt2,
	}
}

// Boat carries troops along a water route toward a landing tile
type Boat struct {
	ID     int
	Owner  core.Owner
	Target core.TileIndex
	Troops float64

	waypoints [][]core.TileIndex
	path      []core.TileIndex
	terrain   *core.Terrain

	pos      int
	progress float64
	ticks    int
}

func newBoat(id int, owner core.Owner, target core.TileIndex, troops float64, waypoints [][]core.TileIndex, terrain *core.Terrain) *Boat {
	return &Boat{
		ID:        id,
		Owner:     owner,
		Target:    target,
		Troops:    troops,
		waypoints: waypoints,
		path:      navigation.Flatten(waypoints),
		terrain:   terrain,
	}
}

// Position returns the water tile the boat is on
func (b *Boat) Position() core.TileIndex { return b.path[b.pos] }

// Waypoints returns the route as computed by the pathfinder
func (b *Boat) Waypoints() [][]core.TileIndex { return b.waypoints }

// Path returns the flattened route
func (b *Boat) Path() []core.TileIndex { return b.path }

// Remaining returns the number of steps left
func (b *Boat) Remaining() int { return len(b.path) - 1 - b.pos }

// Arrived reports whether the boat reached the last water tile
func (b *Boat) Arrived() bool { return b.pos == len(b.path)-1 }

func (b *Boat) Ticks() int { return b.ticks }

func (b *Boat) stepLength(i int, params Params) float64 {
	a, c := b.terrain.Coord(b.path[i]), b.terrain.Coord(b.path[i+1])
	if a.X != c.X && a.Y != c.Y {
		return params.DiagonalLength
	}
	return 1
}

func (b *Boat) heading(i int) float64 {
	a, c := b.terrain.Coord(b.path[i]), b.terrain.Coord(b.path[i+1])
	return math.Atan2(float64(c.Y-a.Y), float64(c.X-a.X))
}

// speedFactor slows the boat ahead of sharp turns. Each turn within the
// look-ahead contributes its angle (as a fraction of a half turn), nearer
// turns weighing more.
func (b *Boat) speedFactor(params Params) float64 {
	last := len(b.path) - 2
	if b.pos >= last {
		return 1
	}
	penalty := 0.0
	weight := 1.0
	prev := b.heading(b.pos)
	for i := b.pos + 1; i <= last && i <= b.pos+params.LookAhead; i++ {
		h := b.heading(i)
		turn := math.Abs(math.Remainder(h-prev, 2*math.Pi)) / math.Pi
		penalty += weight * turn
		weight *= params.TurnDiscount
		prev = h
	}
	return math.Max(params.MinSpeedFactor, 1/(1+penalty))
}

// advance moves the boat along its path and reports arrival
func (b *Boat) advance(params Params) bool {
	b.ticks++
	if b.Arrived() {
		return true
	}
	b.progress += params.Speed * b.speedFactor(params)
	for !b.Arrived() {
		l := b.stepLength(b.pos, params)
		if b.progress < l {
			break
		}
		b.progress -= l
		b.pos++
	}
	return b.Arrived()
}
