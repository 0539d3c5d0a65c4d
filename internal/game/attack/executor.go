package attack

import (
	"github.com/mitchelldurbincs/TerritorialConquest/internal/game/core"
)

// Executor drives one ongoing land attack from an attacker into a target,
// which is either another player or unclaimed land. Tiles are conquered in
// the order their jittered delays expire.
type Executor struct {
	id       int
	attacker core.Owner
	target   core.Owner
	troops   float64

	world  *core.World
	params Params
	rng    core.Random
	queue  *CalendarQueue

	speed     float64
	conquered int
	done      bool
}

func newExecutor(id int, w *core.World, params Params, rng core.Random, attacker, target core.Owner, troops float64) *Executor {
	e := &Executor{
		id:       id,
		attacker: attacker,
		target:   target,
		troops:   troops,
		world:    w,
		params:   params,
		rng:      rng,
		queue:    NewCalendarQueue(params.RingSize()),
	}
	e.speed = e.speedFactor()
	return e
}

func (e *Executor) ID() int                 { return e.id }
func (e *Executor) Attacker() core.Owner    { return e.attacker }
func (e *Executor) Target() core.Owner      { return e.target }
func (e *Executor) Troops() float64         { return e.troops }
func (e *Executor) Scheduled() int          { return e.queue.Len() }
func (e *Executor) Conquered() int          { return e.conquered }
func (e *Executor) Done() bool              { return e.done }
func (e *Executor) Queue() *CalendarQueue   { return e.queue }
func (e *Executor) IsUnclaimedAttack() bool { return e.target == core.OwnerUnclaimed }

// Seed schedules the target tiles around each source tile. A nil slice
// means the attacker's whole border.
func (e *Executor) Seed(sources []core.TileIndex) {
	if sources == nil {
		if p := e.world.Player(e.attacker); p != nil {
			sources = p.BorderTiles()
		}
	}
	for _, t := range sources {
		e.handlePlayerTileAdd(t)
	}
}

func (e *Executor) addTroops(n float64) { e.troops += n }

// handlePlayerTileAdd schedules every target-owned neighbour of a tile the
// attacker just gained
func (e *Executor) handlePlayerTileAdd(tile core.TileIndex) {
	var buf [4]core.TileIndex
	for _, n := range e.world.Terrain.Neighbors(tile, buf[:0]) {
		if e.world.Grid.Owner(n) == e.target {
			e.schedule(n)
		}
	}
}

// handleTargetTileAdd schedules a tile the target just gained if it touches the attacker
func (e *Executor) handleTargetTileAdd(tile core.TileIndex) {
	g := e.world.Grid
	if g.Owner(tile) == e.target && g.BordersOwner(tile, e.attacker) {
		e.schedule(tile)
	}
}

func (e *Executor) schedule(tile core.TileIndex) {
	jitter := e.params.JitterBase + e.rng.Float64()*e.params.JitterRange
	delay := float64(e.world.Terrain.ExpansionTime(tile)) * jitter * e.speed
	e.queue.Insert(tile, delay)
}

func (e *Executor) speedFactor() float64 {
	if e.IsUnclaimedAttack() {
		return 1
	}
	var aSize, tSize int
	var aTroops, tTroops float64
	if a := e.world.Player(e.attacker); a != nil {
		aSize, aTroops = a.TerritorySize(), a.Troops()
	}
	if t := e.world.Player(e.target); t != nil {
		tSize, tTroops = t.TerritorySize(), t.Troops()
	}
	return e.params.SpeedFactor(aSize, aTroops, tSize, tTroops)
}

func (e *Executor) attackCost() float64 {
	t := e.world.Player(e.target)
	if t == nil {
		return 0
	}
	return e.params.AttackCost(t.Troops(), t.TerritorySize())
}

// Tick conquers the tiles whose delay expired this slot and reports whether
// the executor is finished. Stale entries (tile changed hands or lost
// contact) are dropped. The attack stalls when the next tile costs more
// than the remaining troops.
func (e *Executor) Tick() bool {
	if e.done {
		return true
	}
	w := e.world
	attackCost := e.attackCost()
	defenseCost := e.params.DefenseCost(attackCost)
	e.speed = e.speedFactor()

	kind := core.KindPlayerAttack
	if e.IsUnclaimedAttack() {
		kind = core.KindUnclaimedAttack
	}
	txn := core.NewTransaction(kind, e.attacker, e.target)

	captured := 0
	stalled := false
	for e.troops >= attackCost {
		tile, ok := e.queue.Peek()
		if !ok {
			break
		}
		if w.Grid.Owner(tile) != e.target || !w.Grid.BordersOwner(tile, e.attacker) {
			e.queue.Pop()
			continue
		}
		cost := attackCost + float64(w.Terrain.ExpansionCost(tile))/e.params.ExpansionCostDivisor
		if e.troops < cost {
			stalled = true
			break
		}
		e.queue.Pop()
		txn.AddTile(w.Grid, tile)
		e.troops -= cost
		captured++
	}

	// tiles scheduled while the transaction applies land in later slots
	e.queue.Advance()
	txn.Apply(w)

	if captured > 0 {
		if t := w.Player(e.target); t != nil {
			t.RemoveTroops(float64(captured) * defenseCost)
		}
	}
	e.conquered += captured

	if e.queue.Len() == 0 || e.troops < attackCost || stalled {
		e.done = true
	}
	return e.done
}
