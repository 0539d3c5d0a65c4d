package game

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/TerritorialConquest/internal/game/core"
	"github.com/mitchelldurbincs/TerritorialConquest/internal/game/events"
	"github.com/mitchelldurbincs/TerritorialConquest/internal/game/states"
)

// TickProcessor handles the orchestration of a single tick: actions, attack
// executors, boats, income, then eliminations and phase changes
type TickProcessor struct {
	engine *Engine
	logger zerolog.Logger
}

// NewTickProcessor creates a new tick processor
func NewTickProcessor(engine *Engine) *TickProcessor {
	return &TickProcessor{
		engine: engine,
		logger: engine.logger,
	}
}

// ProcessTick executes a complete simulation tick
func (tp *TickProcessor) ProcessTick(ctx context.Context, actions []core.Action) error {
	e := tp.engine
	if err := tp.checkContext(ctx, "before starting"); err != nil {
		return err
	}
	if err := tp.validateGameState(); err != nil {
		return err
	}

	e.tick++
	e.stateMachine.Context().Tick = e.tick
	tickLogger := tp.logger.With().Int("tick", e.tick).Logger()
	tickLogger.Debug().Str("phase", e.Phase().String()).Msg("Starting tick")

	start := time.Now()
	e.eventBus.Publish(events.NewTickStartedEvent(e.gameID, e.tick))

	if _, err := e.actionProcessor.ProcessActions(ctx, e.world, e.tick, actions, e); err != nil {
		return core.WrapTickError(e.tick, "actions", err)
	}

	if err := tp.checkContext(ctx, "before attacks"); err != nil {
		return core.WrapTickError(e.tick, "attacks", err)
	}
	e.scheduler.Tick()

	if err := tp.checkContext(ctx, "before boats"); err != nil {
		return core.WrapTickError(e.tick, "boats", err)
	}
	e.boats.Tick()

	if e.Phase() == states.PhaseRunning {
		e.incomeManager.ApplyIncome(e.world, e.tick)
	}

	if err := tp.processEndOfTick(tickLogger); err != nil {
		return core.WrapTickError(e.tick, "end of tick", err)
	}

	e.eventBus.Publish(events.NewTickEndedEvent(e.gameID, e.tick, len(actions), time.Since(start)))
	tickLogger.Debug().
		Int("executors", e.scheduler.Len()).
		Int("boats", e.boats.Len()).
		Msg("Tick finished")
	return nil
}

// checkContext checks if the context is cancelled
func (tp *TickProcessor) checkContext(ctx context.Context, phase string) error {
	select {
	case <-ctx.Done():
		tp.logger.Warn().
			Err(ctx.Err()).
			Int("tick", tp.engine.tick).
			Str("phase", phase).
			Msg("Tick cancelled or timed out")
		return ctx.Err()
	default:
		return nil
	}
}

// validateGameState ensures the simulation can still advance
func (tp *TickProcessor) validateGameState() error {
	e := tp.engine
	if e.gameOver || e.Phase().IsTerminal() {
		tp.logger.Warn().
			Int("tick", e.tick).
			Str("phase", e.Phase().String()).
			Msg("Attempted to step a finished simulation")
		return core.WrapTickError(e.tick, "step", core.ErrGameOver)
	}
	return nil
}

// processEndOfTick handles eliminations, the end of the spawn phase and
// the win check
func (tp *TickProcessor) processEndOfTick(tickLogger zerolog.Logger) error {
	e := tp.engine
	switch e.Phase() {
	case states.PhaseSpawning:
		if e.tick < e.config.Spawn.Ticks {
			return nil
		}
		return tp.finishSpawnPhase(tickLogger)
	case states.PhaseRunning:
		e.updateEliminations()
		return tp.checkGameOver(tickLogger)
	}
	return nil
}

// finishSpawnPhase drops players that never spawned and starts the game
func (tp *TickProcessor) finishSpawnPhase(tickLogger zerolog.Logger) error {
	e := tp.engine
	for _, p := range e.world.Players.All() {
		if p.IsAlive() && !p.IsSpawned() {
			e.eliminate(p, "did not spawn")
		}
	}
	if e.stateMachine.Context().SpawnedCount == 0 {
		tickLogger.Warn().Msg("Nobody spawned, ending simulation")
		return tp.endGame(-1, "no player spawned")
	}
	if err := e.stateMachine.TransitionTo(states.PhaseRunning, "spawn phase over"); err != nil {
		return err
	}
	return tp.checkGameOver(tickLogger)
}

// checkGameOver ends the simulation once at most one side is left
func (tp *TickProcessor) checkGameOver(tickLogger zerolog.Logger) error {
	e := tp.engine
	over, winner := e.winCondition.CheckGameOver(e.world.Players.All())
	if !over {
		return nil
	}
	tickLogger.Info().Int("winner", winner).Msg("Game over")
	return tp.endGame(winner, "last side standing")
}

func (tp *TickProcessor) endGame(winner int, reason string) error {
	e := tp.engine
	ctx := e.stateMachine.Context()
	ctx.Winner = winner
	elapsed := ctx.Elapsed()
	if err := e.stateMachine.TransitionTo(states.PhaseEnded, reason); err != nil {
		return err
	}
	e.gameOver = true
	e.winner = winner
	e.eventBus.Publish(events.NewSimulationEndedEvent(e.gameID, winner, e.tick, elapsed))
	return nil
}
