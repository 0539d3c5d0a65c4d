package attack

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mitchelldurbincs/TerritorialConquest/internal/game/core"
	"github.com/mitchelldurbincs/TerritorialConquest/internal/game/events"
)

type pairKey struct {
	attacker core.Owner
	target   core.Owner
}

// Scheduler owns every active land attack. At most one executor exists per
// (attacker, target) pair; opposite attacks between two players cancel out
// before either executor runs. Executors tick in creation order.
type Scheduler struct {
	world     *core.World
	params    Params
	rng       core.Random
	gameID    string
	publisher events.Publisher
	logger    zerolog.Logger

	executors  []*Executor
	pairs      map[pairKey]*Executor
	byAttacker map[core.Owner][]*Executor
	byTarget   map[core.Owner][]*Executor
	nextID     int
}

// NewScheduler creates a scheduler and registers it as a transaction hook on w
func NewScheduler(w *core.World, params Params, rng core.Random, gameID string, publisher events.Publisher) *Scheduler {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	s := &Scheduler{
		world:      w,
		params:     params,
		rng:        rng,
		gameID:     gameID,
		publisher:  publisher,
		logger:     log.With().Str("component", "attack_scheduler").Str("game_id", gameID).Logger(),
		pairs:      make(map[pairKey]*Executor),
		byAttacker: make(map[core.Owner][]*Executor),
		byTarget:   make(map[core.Owner][]*Executor),
	}
	w.AddHook(s)
	return s
}

// AttackPlayer starts or reinforces an attack of attacker on target with
// troops already taken from the attacker. sources restricts where the attack
// starts (a boat landing tile); nil means the attacker's whole border.
// Returns the executor that now carries the troops, or nil when an opposite
// attack absorbed them.
func (s *Scheduler) AttackPlayer(attacker, target core.Owner, troops float64, sources []core.TileIndex) *Executor {
	if !attacker.IsPlayer() || !target.IsPlayer() {
		panic("attack: AttackPlayer needs two players")
	}
	if e := s.pairs[pairKey{attacker, target}]; e != nil {
		e.addTroops(troops)
		e.Seed(sources)
		s.logger.Debug().
			Uint16("attacker", uint16(attacker)).
			Uint16("target", uint16(target)).
			Float64("troops", e.troops).
			Msg("Reinforced attack")
		return e
	}

	if opp := s.pairs[pairKey{target, attacker}]; opp != nil {
		if opp.troops > troops {
			opp.troops -= troops
			s.publisher.Publish(events.NewAttackOpposedEvent(s.gameID, int(target), int(attacker), opp.troops))
			return nil
		}
		troops -= opp.troops
		opp.troops = 0
		s.remove(opp)
		s.publisher.Publish(events.NewAttackOpposedEvent(s.gameID, int(attacker), int(target), troops))
		if troops <= 0 {
			return nil
		}
	}
	return s.start(attacker, target, troops, sources)
}

// AttackUnclaimed starts or reinforces the attacker's expansion into unclaimed land
func (s *Scheduler) AttackUnclaimed(attacker core.Owner, troops float64, sources []core.TileIndex) *Executor {
	if !attacker.IsPlayer() {
		panic("attack: AttackUnclaimed needs a player")
	}
	if e := s.pairs[pairKey{attacker, core.OwnerUnclaimed}]; e != nil {
		e.addTroops(troops)
		e.Seed(sources)
		return e
	}
	return s.start(attacker, core.OwnerUnclaimed, troops, sources)
}

// Attack dispatches to AttackPlayer or AttackUnclaimed depending on target
func (s *Scheduler) Attack(attacker, target core.Owner, troops float64, sources []core.TileIndex) *Executor {
	if target == core.OwnerUnclaimed {
		return s.AttackUnclaimed(attacker, troops, sources)
	}
	return s.AttackPlayer(attacker, target, troops, sources)
}

func (s *Scheduler) start(attacker, target core.Owner, troops float64, sources []core.TileIndex) *Executor {
	e := newExecutor(s.nextID, s.world, s.params, s.rng, attacker, target, troops)
	s.nextID++
	s.executors = append(s.executors, e)
	s.pairs[pairKey{attacker, target}] = e
	s.byAttacker[attacker] = append(s.byAttacker[attacker], e)
	s.byTarget[target] = append(s.byTarget[target], e)
	e.Seed(sources)

	s.publisher.Publish(events.NewAttackStartedEvent(s.gameID, int(attacker), int(target), troops))
	s.logger.Debug().
		Int("executor", e.id).
		Uint16("attacker", uint16(attacker)).
		Str("target", target.String()).
		Float64("troops", troops).
		Int("scheduled", e.Scheduled()).
		Msg("Attack started")
	return e
}

func removeExecutor(list []*Executor, e *Executor) []*Executor {
	for i, x := range list {
		if x == e {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}

func (s *Scheduler) remove(e *Executor) {
	e.done = true
	delete(s.pairs, pairKey{e.attacker, e.target})
	s.executors = removeExecutor(s.executors, e)
	s.byAttacker[e.attacker] = removeExecutor(s.byAttacker[e.attacker], e)
	s.byTarget[e.target] = removeExecutor(s.byTarget[e.target], e)
}

// finish removes a terminated executor and refunds its troops to a living attacker
func (s *Scheduler) finish(e *Executor) {
	s.remove(e)
	refund := 0.0
	if p := s.world.Player(e.attacker); p != nil && p.IsAlive() && e.troops > 0 {
		refund = e.troops
		p.AddTroops(refund)
	}
	e.troops = 0
	s.publisher.Publish(events.NewAttackEndedEvent(s.gameID, int(e.attacker), int(e.target), e.conquered, refund))
}

// HandleTerritoryAdd lets every executor involving player react to the tile
// player just gained
func (s *Scheduler) HandleTerritoryAdd(tile core.TileIndex, player core.Owner) {
	for _, e := range s.byAttacker[player] {
		e.handlePlayerTileAdd(tile)
	}
	for _, e := range s.byTarget[player] {
		e.handleTargetTileAdd(tile)
	}
}

// OnTransaction implements core.TransactionHook
func (s *Scheduler) OnTransaction(txn *core.Transaction, delta *core.BorderDelta) {
	if txn.Attacker() == core.OwnerUnclaimed {
		for _, t := range delta.Territory {
			s.HandleTerritoryAdd(t, core.OwnerUnclaimed)
		}
		return
	}
	for _, t := range delta.AttackerBorder {
		s.HandleTerritoryAdd(t, txn.Attacker())
	}
}

// Tick advances every executor once and removes the finished ones
func (s *Scheduler) Tick() {
	if len(s.executors) == 0 {
		return
	}
	active := append([]*Executor(nil), s.executors...)
	for _, e := range active {
		if e.done {
			continue
		}
		if e.Tick() {
			s.finish(e)
		}
	}
}

// CancelPlayer drops every attack launched by player without refund
func (s *Scheduler) CancelPlayer(player core.Owner) {
	for _, e := range append([]*Executor(nil), s.byAttacker[player]...) {
		s.remove(e)
		e.troops = 0
	}
}

// Get returns the executor for the pair, if any
func (s *Scheduler) Get(attacker, target core.Owner) *Executor {
	return s.pairs[pairKey{attacker, target}]
}

// Executors returns the active executors in creation order
func (s *Scheduler) Executors() []*Executor { return s.executors }

// Len returns the number of active executors
func (s *Scheduler) Len() int { return len(s.executors) }

// TroopsInFlight sums the troops carried by attacker's executors
func (s *Scheduler) TroopsInFlight(attacker core.Owner) float64 {
	total := 0.0
	for _, e := range s.byAttacker[attacker] {
		total += e.troops
	}
	return total
}
