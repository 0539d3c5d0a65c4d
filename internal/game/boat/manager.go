package boat

import (
	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/TerritorialConquest/internal/game/attack"
	"github.com/mitchelldurbincs/TerritorialConquest/internal/game/core"
	"github.com/mitchelldurbincs/TerritorialConquest/internal/game/events"
	"github.com/mitchelldurbincs/TerritorialConquest/internal/game/navigation"
)

// AttackPolicy decides whether a landing on another player's tile is legal
type AttackPolicy interface {
	CanAttack(attacker, target *core.Player) bool
}

// Manager launches boats, moves them every tick and resolves their landings
// through the attack scheduler
type Manager struct {
	world      *core.World
	scheduler  *attack.Scheduler
	pathfinder *navigation.Pathfinder
	shores     *navigation.ShoreIndex
	policy     AttackPolicy
	params     Params
	attack     attack.Params

	gameID    string
	publisher events.Publisher
	logger    zerolog.Logger

	boats  []*Boat
	nextID int
}

// Deps bundles the collaborators of a Manager
type Deps struct {
	World      *core.World
	Scheduler  *attack.Scheduler
	Pathfinder *navigation.Pathfinder
	Shores     *navigation.ShoreIndex
	Policy     AttackPolicy
	Attack     attack.Params
	GameID     string
	Publisher  events.Publisher
	Logger     zerolog.Logger
}

func NewManager(deps Deps, params Params) *Manager {
	publisher := deps.Publisher
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Manager{
		world:      deps.World,
		scheduler:  deps.Scheduler,
		pathfinder: deps.Pathfinder,
		shores:     deps.Shores,
		policy:     deps.Policy,
		params:     params,
		attack:     deps.Attack,
		gameID:     deps.GameID,
		publisher:  publisher,
		logger:     deps.Logger.With().Str("component", "boat_manager").Logger(),
	}
}

// Launch sends troops from the owner's nearest usable shore toward target.
// Troops are taken from the owner only when a boat is actually created.
func (m *Manager) Launch(owner core.Owner, target core.TileIndex, troops float64) (*Boat, error) {
	p := m.world.Player(owner)
	if p == nil {
		return nil, core.ErrInvalidPlayer
	}
	if !p.IsAlive() {
		return nil, core.ErrPlayerDead
	}
	if !m.world.Terrain.ValidTile(target) || m.world.Terrain.IsWater(target) {
		return nil, core.ErrInvalidTile
	}
	if m.world.Grid.IsOwner(target, owner) {
		return nil, core.ErrInvalidTarget
	}
	if m.params.MaxBoatsPerPlayer > 0 && m.CountOf(owner) >= m.params.MaxBoatsPerPlayer {
		return nil, core.ErrTooManyBoats
	}
	troops = min(troops, p.Troops())
	if troops <= 0 {
		return nil, core.ErrNoTroops
	}

	start := m.pathfinder.FindStartingPoint(m.shores, owner, target)
	if start == core.NoTile {
		return nil, core.ErrNoPath
	}
	waypoints := m.pathfinder.CalculateBoatWaypoints(start, target)
	if waypoints == nil {
		return nil, core.ErrNoPath
	}

	p.RemoveTroops(troops)
	b := newBoat(m.nextID, owner, target, troops, waypoints, m.world.Terrain)
	m.nextID++
	m.boats = append(m.boats, b)

	m.publisher.Publish(events.NewBoatLaunchedEvent(m.gameID, int(owner), b.ID, int(target), troops, len(b.path)))
	m.logger.Debug().
		Int("boat", b.ID).
		Uint16("owner", uint16(owner)).
		Int("from", int(start)).
		Int("target", int(target)).
		Float64("troops", troops).
		Int("steps", len(b.path)-1).
		Msg("Boat launched")
	return b, nil
}

// Tick moves every boat once and lands the ones that arrived, in launch order
func (m *Manager) Tick() {
	if len(m.boats) == 0 {
		return
	}
	kept := m.boats[:0]
	for _, b := range m.boats {
		if b.advance(m.params) {
			m.land(b)
			continue
		}
		kept = append(kept, b)
	}
	clear(m.boats[len(kept):])
	m.boats = kept
}

func (m *Manager) refund(b *Boat) {
	if p := m.world.Player(b.Owner); p != nil && p.IsAlive() {
		p.AddTroops(b.Troops)
	}
}

// land resolves an arrival: the landing tile is conquered with the payload
// and the rest of the troops start (or join) an attack seeded from it
func (m *Manager) land(b *Boat) {
	landed := m.tryLand(b)
	m.publisher.Publish(events.NewBoatArrivedEvent(m.gameID, int(b.Owner), b.ID, int(b.Target), b.Troops, landed))
	m.logger.Debug().
		Int("boat", b.ID).
		Uint16("owner", uint16(b.Owner)).
		Int("target", int(b.Target)).
		Bool("landed", landed).
		Int("ticks", b.ticks).
		Msg("Boat arrived")
}

func (m *Manager) tryLand(b *Boat) bool {
	w := m.world
	owner := w.Player(b.Owner)
	if owner == nil || !owner.IsAlive() {
		return false
	}
	targetOwner := w.Grid.Owner(b.Target)
	if targetOwner == b.Owner {
		m.refund(b)
		return false
	}

	kind := core.KindUnclaimedAttack
	attackCost := 0.0
	defender := w.Player(targetOwner)
	if defender != nil {
		if m.policy != nil && !m.policy.CanAttack(owner, defender) {
			m.refund(b)
			return false
		}
		kind = core.KindPlayerAttack
		attackCost = m.attack.AttackCost(defender.Troops(), defender.TerritorySize())
	}
	cost := attackCost + float64(w.Terrain.ExpansionCost(b.Target))/m.attack.ExpansionCostDivisor
	if b.Troops < cost {
		m.refund(b)
		return false
	}

	txn := core.NewTransaction(kind, b.Owner, targetOwner)
	txn.AddTile(w.Grid, b.Target)
	txn.Apply(w)
	if defender != nil {
		defender.RemoveTroops(m.attack.DefenseCost(attackCost))
	}

	rest := b.Troops - cost
	if rest > 0 {
		m.scheduler.Attack(b.Owner, targetOwner, rest, []core.TileIndex{b.Target})
	}
	return true
}

// Boats returns the boats at sea in launch order
func (m *Manager) Boats() []*Boat { return m.boats }

// Len returns the number of boats at sea
func (m *Manager) Len() int { return len(m.boats) }

// CountOf returns the number of boats owner has at sea
func (m *Manager) CountOf(owner core.Owner) int {
	n := 0
	for _, b := range m.boats {
		if b.Owner == owner {
			n++
		}
	}
	return n
}

// TroopsAtSea sums the payload of owner's boats
func (m *Manager) TroopsAtSea(owner core.Owner) float64 {
	total := 0.0
	for _, b := range m.boats {
		if b.Owner == owner {
			total += b.Troops
		}
	}
	return total
}
