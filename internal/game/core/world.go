package core

// World owns the mutable territorial state of one simulation: terrain,
// ownership grid, border tracker and player registry. Every operation takes
// it explicitly so independent simulations never share state.
type World struct {
	Terrain *Terrain
	Grid    *Grid
	Borders *BorderTracker
	Players *Players

	hooks     []TransactionHook
	observers []DefendantObserver
}

// NewWorld builds a world with numPlayers players and no owned land
func NewWorld(terrain *Terrain, numPlayers int) *World {
	grid := NewGrid(terrain)
	players := NewPlayers(numPlayers, terrain.W)
	return &World{
		Terrain: terrain,
		Grid:    grid,
		Borders: NewBorderTracker(grid, players),
		Players: players,
	}
}

// AddHook registers a transaction hook; hooks run in registration order
func (w *World) AddHook(h TransactionHook) {
	w.hooks = append(w.hooks, h)
}

// AddDefendantObserver registers a label/name-position observer
func (w *World) AddDefendantObserver(o DefendantObserver) {
	w.observers = append(w.observers, o)
}

// Player is shorthand for w.Players.Get
func (w *World) Player(id Owner) *Player { return w.Players.Get(id) }
