package game

import (
	"context"
	"math/rand"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/TerritorialConquest/internal/game/attack"
	"github.com/mitchelldurbincs/TerritorialConquest/internal/game/boat"
	"github.com/mitchelldurbincs/TerritorialConquest/internal/game/core"
	"github.com/mitchelldurbincs/TerritorialConquest/internal/game/events"
	"github.com/mitchelldurbincs/TerritorialConquest/internal/game/navigation"
	"github.com/mitchelldurbincs/TerritorialConquest/internal/game/processor"
	"github.com/mitchelldurbincs/TerritorialConquest/internal/game/rules"
	"github.com/mitchelldurbincs/TerritorialConquest/internal/game/states"
)

// Engine owns one simulation: the world, its subsystems and the tick
// counter. It is not safe for concurrent use; callers serialize Step.
type Engine struct {
	world  *core.World
	rng    *rand.Rand
	config GameConfig
	gameID string
	mode   rules.GameMode

	graph      *navigation.Graph
	pathfinder *navigation.Pathfinder
	shores     *navigation.ShoreIndex
	scheduler  *attack.Scheduler
	boats      *boat.Manager

	actionProcessor *processor.ActionProcessor
	incomeManager   *IncomeManager
	tickProcessor   *TickProcessor
	winCondition    *rules.WinConditionChecker
	stateMachine    *states.StateMachine
	eventBus        *events.EventBus
	logger          zerolog.Logger

	tick     int
	gameOver bool
	winner   int

	// spawns remembers the tiles each player claimed in the spawn phase
	spawns map[core.Owner][]core.TileIndex
	// labels holds the last label position of every attacked player
	labels     map[core.Owner]core.Coordinate
	eliminated []core.Owner
}

// Step processes actions and advances the simulation by one tick
func (e *Engine) Step(ctx context.Context, actions []core.Action) error {
	return e.tickProcessor.ProcessTick(ctx, actions)
}

// Public accessors
func (e *Engine) World() *core.World                 { return e.world }
func (e *Engine) Tick() int                          { return e.tick }
func (e *Engine) GameID() string                     { return e.gameID }
func (e *Engine) Seed() int64                        { return e.config.Seed }
func (e *Engine) Config() GameConfig                 { return e.config }
func (e *Engine) Phase() states.GamePhase            { return e.stateMachine.CurrentPhase() }
func (e *Engine) IsGameOver() bool                   { return e.gameOver }
func (e *Engine) EventBus() *events.EventBus         { return e.eventBus }
func (e *Engine) Scheduler() *attack.Scheduler       { return e.scheduler }
func (e *Engine) Boats() *boat.Manager               { return e.boats }
func (e *Engine) Pathfinder() *navigation.Pathfinder { return e.pathfinder }
func (e *Engine) Shores() *navigation.ShoreIndex     { return e.shores }
func (e *Engine) Mode() rules.GameMode               { return e.mode }

// GetWinner returns the winning player ID, or -1 while running or on a draw
func (e *Engine) GetWinner() int {
	if !e.gameOver {
		return -1
	}
	return e.winner
}

// Snapshot returns the encoded ownership grid
func (e *Engine) Snapshot() []byte { return e.world.Grid.Encode() }

// Eliminated returns players in elimination order
func (e *Engine) Eliminated() []core.Owner { return e.eliminated }

// Label returns the last known label position of a player that was attacked
func (e *Engine) Label(p core.Owner) (core.Coordinate, bool) {
	c, ok := e.labels[p]
	return c, ok
}

// OnDefendantChanged implements core.DefendantObserver
func (e *Engine) OnDefendantChanged(p *core.Player, box core.BorderBox) {
	if box.Empty {
		delete(e.labels, p.ID)
		return
	}
	e.labels[p.ID] = box.Center()
}

// conquestReporter publishes a tiles.conquered event for every transaction
type conquestReporter struct {
	engine *Engine
}

func (r *conquestReporter) OnTransaction(txn *core.Transaction, _ *core.BorderDelta) {
	e := r.engine
	e.eventBus.Publish(events.NewTilesConqueredEvent(e.gameID, txn.Kind().String(), int(txn.Attacker()), int(txn.Defender()), txn.Len()))
	if e.logger.GetLevel() <= zerolog.TraceLevel {
		e.logger.Trace().
			Int("tick", e.tick).
			Str("kind", txn.Kind().String()).
			Str("attacker", txn.Attacker().String()).
			Str("defender", txn.Defender().String()).
			Int("tiles", txn.Len()).
			Msg("Tiles changed hands")
	}
}
