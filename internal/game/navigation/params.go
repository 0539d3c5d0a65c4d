package navigation

// Params configures the area graph and the local searches
type Params struct {
	// AreaSize is the side length of one grid cell of the area graph
	AreaSize int
	// MinEntranceLength is the shortest entrance that gets a node pair at both ends
	MinEntranceLength int
	// DiagonalCost is the cost of one diagonal step; orthogonal steps cost 1
	DiagonalCost float64
	// LocalSearchLimit caps the tiles a search through open water may expand
	// before falling back to the area graph. Zero means four cells worth of
	// tiles; anything else must cover at least one cell.
	LocalSearchLimit int
}

func DefaultParams() Params {
	return Params{
		AreaSize:          50,
		MinEntranceLength: 6,
		DiagonalCost:      1.5,
	}
}

func (p Params) localLimit() int {
	if p.LocalSearchLimit > 0 {
		return p.LocalSearchLimit
	}
	return 4 * p.AreaSize * p.AreaSize
}
