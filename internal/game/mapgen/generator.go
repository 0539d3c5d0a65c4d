package mapgen

import (
	"errors"
	"math/rand"

	"github.com/ojrac/opensimplex-go"

	"github.com/mitchelldurbincs/TerritorialConquest/internal/game/core"
)

// ErrNoLand is returned when a map has no room for another spawn
var ErrNoLand = errors.New("mapgen: no free land tile")

// Band describes the land properties used above an elevation threshold
type Band struct {
	Name          string
	MinElevation  float64
	ExpansionTime uint8
	ExpansionCost uint8
}

// MapConfig holds configuration for map generation
type MapConfig struct {
	Width       int
	Height      int
	PlayerCount int
	// WaterLevel is the normalized elevation below which a tile is water
	WaterLevel  float64
	Octaves     int
	Frequency   float64
	Persistence float64
	// Bands must be sorted by MinElevation; the last matching band wins
	Bands           []Band
	MinSpawnSpacing int
}

// DefaultBands are plains, hills and mountains
func DefaultBands() []Band {
	return []Band{
		{Name: "plains", MinElevation: 0, ExpansionTime: core.DefaultExpansionTime, ExpansionCost: core.DefaultExpansionCost},
		{Name: "hills", MinElevation: 0.62, ExpansionTime: 25, ExpansionCost: 80},
		{Name: "mountains", MinElevation: 0.75, ExpansionTime: 50, ExpansionCost: 120},
	}
}

// DefaultMapConfig returns a sensible default configuration
func DefaultMapConfig(w, h, players int) MapConfig {
	return MapConfig{
		Width:           w,
		Height:          h,
		PlayerCount:     players,
		WaterLevel:      0.42,
		Octaves:         4,
		Frequency:       0.06,
		Persistence:     0.5,
		Bands:           DefaultBands(),
		MinSpawnSpacing: max(3, min(w, h)/4),
	}
}

// Generator handles map generation with deterministic RNG
type Generator struct {
	config MapConfig
	rng    *rand.Rand
}

// NewGenerator creates a new map generator
func NewGenerator(config MapConfig, rng *rand.Rand) *Generator {
	return &Generator{
		config: config,
		rng:    rng,
	}
}

// GenerateTerrain builds a terrain from octave noise. The noise seed is
// drawn from the generator's RNG so the same seed yields the same map.
func (g *Generator) GenerateTerrain() *core.Terrain {
	t := core.NewTerrain(g.config.Width, g.config.Height)
	noise := opensimplex.NewNormalized(g.rng.Int63())

	for y := 0; y < t.H; y++ {
		for x := 0; x < t.W; x++ {
			idx := t.Idx(x, y)
			elev := octaveNoise(noise, float64(x), float64(y), g.config.Octaves, g.config.Frequency, g.config.Persistence)
			if elev < g.config.WaterLevel {
				t.SetWater(idx, true)
				continue
			}
			if b, ok := g.bandFor(elev); ok {
				t.SetExpansion(idx, b.ExpansionTime, b.ExpansionCost)
			}
		}
	}
	return t
}

func (g *Generator) bandFor(elev float64) (Band, bool) {
	var found Band
	ok := false
	for _, b := range g.config.Bands {
		if elev >= b.MinElevation {
			found, ok = b, true
		}
	}
	return found, ok
}

// octaveNoise generates fractal noise by layering multiple frequencies
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0

	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}
	if maxVal == 0 {
		return 0
	}
	return total / maxVal
}

// SpawnPoints picks one land tile per player, keeping MinSpawnSpacing
// (Manhattan) between them when the map allows it
func (g *Generator) SpawnPoints(t *core.Terrain) ([]core.TileIndex, error) {
	points := make([]core.TileIndex, 0, g.config.PlayerCount)
	for pid := 0; pid < g.config.PlayerCount; pid++ {
		idx, err := g.findSpawnLocation(t, points)
		if err != nil {
			return points, err
		}
		points = append(points, idx)
	}
	return points, nil
}

func (g *Generator) findSpawnLocation(t *core.Terrain, existing []core.TileIndex) (core.TileIndex, error) {
	taken := func(idx core.TileIndex) bool {
		for _, other := range existing {
			if other == idx {
				return true
			}
		}
		return false
	}

	maxAttempts := t.Size()
	for attempts := 0; attempts < maxAttempts; attempts++ {
		idx := t.Idx(g.rng.Intn(t.W), g.rng.Intn(t.H))
		if t.IsWater(idx) || taken(idx) {
			continue
		}

		valid := true
		c := t.Coord(idx)
		for _, other := range existing {
			if c.DistanceTo(t.Coord(other)) < g.config.MinSpawnSpacing {
				valid = false
				break
			}
		}
		if valid {
			return idx, nil
		}
	}

	// Fallback: first free land tile
	for i := 0; i < t.Size(); i++ {
		idx := core.TileIndex(i)
		if !t.IsWater(idx) && !taken(idx) {
			return idx, nil
		}
	}
	return core.NoTile, ErrNoLand
}
