package core

import "fmt"

// TransactionKind tags what a transaction represents and selects its apply behavior
type TransactionKind int

const (
	// KindSpawn claims unclaimed land for a player
	KindSpawn TransactionKind = iota
	// KindPlayerAttack moves tiles from one player to another
	KindPlayerAttack
	// KindUnclaimedAttack moves unclaimed land to a player
	KindUnclaimedAttack
	// KindClearing returns a player's tiles to unclaimed
	KindClearing
)

func (k TransactionKind) String() string {
	switch k {
	case KindSpawn:
		return "spawn"
	case KindPlayerAttack:
		return "player_attack"
	case KindUnclaimedAttack:
		return "unclaimed_attack"
	case KindClearing:
		return "clearing"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// TransactionHook receives the outcome of every applied transaction, in
// registration order. Renderers, the attack scheduler and the shore index
// plug in here.
type TransactionHook interface {
	OnTransaction(txn *Transaction, delta *BorderDelta)
}

// DefendantObserver is notified when a player attack changed the defendant's
// border outline enough to move its label
type DefendantObserver interface {
	OnDefendantChanged(p *Player, box BorderBox)
}

// Transaction batches the tile changes of one logical operation and applies
// their border and hook side effects together
type Transaction struct {
	kind     TransactionKind
	attacker Owner
	defender Owner
	tiles    []TileIndex
	applied  bool
}

// NewTransaction creates a transaction. attacker is the new owner of every
// tile, defender the previous one; at least one must be a player.
func NewTransaction(kind TransactionKind, attacker, defender Owner) *Transaction {
	if !attacker.IsPlayer() && !defender.IsPlayer() {
		panic(fmt.Sprintf("core: %s transaction without attacker or defendant", kind))
	}
	if attacker == defender {
		panic(fmt.Sprintf("core: %s transaction with attacker == defendant (%s)", kind, attacker))
	}
	switch kind {
	case KindPlayerAttack:
		if !attacker.IsPlayer() || !defender.IsPlayer() {
			panic("core: player attack needs two players")
		}
	case KindSpawn, KindUnclaimedAttack:
		if defender != OwnerUnclaimed {
			panic(fmt.Sprintf("core: %s transaction must take unclaimed land", kind))
		}
	case KindClearing:
		if attacker != OwnerUnclaimed {
			panic("core: clearing transaction must release tiles to unclaimed")
		}
	}
	return &Transaction{kind: kind, attacker: attacker, defender: defender}
}

func (t *Transaction) Kind() TransactionKind { return t.kind }
func (t *Transaction) Attacker() Owner       { return t.attacker }
func (t *Transaction) Defender() Owner       { return t.defender }
func (t *Transaction) Tiles() []TileIndex    { return t.tiles }
func (t *Transaction) Len() int              { return len(t.tiles) }

func (t *Transaction) record(idx TileIndex, prev, next Owner) {
	if t.applied {
		panic("core: tile recorded on an applied transaction")
	}
	if prev != t.defender || next != t.attacker {
		panic(fmt.Sprintf("core: tile %d moves %s->%s inside a %s->%s transaction", idx, prev, next, t.defender, t.attacker))
	}
	t.tiles = append(t.tiles, idx)
}

// AddTile conquers idx for the transaction's attacker through the grid
func (t *Transaction) AddTile(g *Grid, idx TileIndex) {
	if t.attacker == OwnerUnclaimed {
		g.Clear(idx, t)
		return
	}
	g.Conquer(idx, t.attacker, t)
}

// Apply runs the border transition and the registered hooks, then cleans up.
// An empty transaction does nothing.
func (t *Transaction) Apply(w *World) {
	if t.applied {
		panic("core: transaction applied twice")
	}
	t.applied = true
	if len(t.tiles) == 0 {
		return
	}

	delta := w.Borders.TransitionTiles(t.tiles, t.attacker, t.defender)

	n := len(t.tiles)
	if att := w.Players.Get(t.attacker); att != nil {
		att.territory += n
	}
	def := w.Players.Get(t.defender)
	if def != nil {
		def.territory -= n
	}

	if t.kind == KindPlayerAttack && def.boxDirty {
		before := def.box
		after := def.BorderBox()
		if before != after {
			for _, o := range w.observers {
				o.OnDefendantChanged(def, after)
			}
		}
	}

	for _, h := range w.hooks {
		h.OnTransaction(t, &delta)
	}
	t.Cleanup()
}

// Cleanup releases the tile buffer
func (t *Transaction) Cleanup() {
	t.tiles = nil
}
