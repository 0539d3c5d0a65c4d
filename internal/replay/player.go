package replay

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/TerritorialConquest/internal/game"
	"github.com/mitchelldurbincs/TerritorialConquest/internal/game/core"
)

// ErrSnapshotMismatch is returned when a replayed grid differs from the recorded one
var ErrSnapshotMismatch = errors.New("replay: snapshot mismatch")

// Result summarises a verification run
type Result struct {
	Ticks            int
	Actions          int
	SnapshotsChecked int
}

// Player replays recorded sessions
type Player struct {
	store  *Store
	logger zerolog.Logger
}

// NewPlayer creates a Player reading from store
func NewPlayer(store *Store, logger zerolog.Logger) *Player {
	return &Player{store: store, logger: logger.With().Str("component", "ReplayPlayer").Logger()}
}

// Verify rebuilds the session's engine from its seed, feeds the recorded
// actions and compares every stored snapshot byte for byte
func (p *Player) Verify(ctx context.Context, sessionID string) (Result, error) {
	session, err := p.store.GetSession(ctx, sessionID)
	if err != nil {
		return Result{}, err
	}
	cfg, err := session.GameConfig()
	if err != nil {
		return Result{}, err
	}
	ticks, err := p.store.LoadActions(ctx, sessionID)
	if err != nil {
		return Result{}, err
	}
	snapshots, err := p.store.LoadSnapshots(ctx, sessionID)
	if err != nil {
		return Result{}, err
	}

	finalTick := session.FinalTick
	if n := len(snapshots); n > 0 && snapshots[n-1].Tick > finalTick {
		finalTick = snapshots[n-1].Tick
	}
	result, err := Replay(ctx, cfg, ticks, snapshots, finalTick, p.logger)
	if err != nil {
		p.logger.Warn().Err(err).Str("session", sessionID).Int("tick", result.Ticks).Msg("Replay verification failed")
		return result, err
	}
	p.logger.Info().
		Str("session", sessionID).
		Int("ticks", result.Ticks).
		Int("snapshots", result.SnapshotsChecked).
		Msg("Replay verified")
	return result, nil
}

// Replay runs a fresh engine over ticks up to finalTick. Ticks must be
// strictly increasing; a tick at or below the engine's current tick aborts
// with core.ErrTickOutOfOrder. Ticks without recorded actions step empty.
func Replay(ctx context.Context, cfg game.GameConfig, ticks []TickActions, snapshots []Snapshot, finalTick int, logger zerolog.Logger) (Result, error) {
	cfg.Logger = logger
	cfg.EventBus = nil
	engine, err := game.NewEngine(ctx, cfg)
	if err != nil {
		return Result{}, fmt.Errorf("rebuild engine: %w", err)
	}

	var result Result
	next := 0
	nextSnapshot := 0
	step := func(actions []core.Action) error {
		if err := engine.Step(ctx, actions); err != nil {
			return err
		}
		result.Ticks = engine.Tick()
		result.Actions += len(actions)
		for nextSnapshot < len(snapshots) && snapshots[nextSnapshot].Tick <= engine.Tick() {
			snap := snapshots[nextSnapshot]
			nextSnapshot++
			if snap.Tick != engine.Tick() {
				continue
			}
			if !bytes.Equal(snap.Owners, engine.Snapshot()) {
				return core.WrapTickError(snap.Tick, "verify", ErrSnapshotMismatch)
			}
			result.SnapshotsChecked++
		}
		return nil
	}

	for engine.Tick() < finalTick || next < len(ticks) {
		want := engine.Tick() + 1
		var actions []core.Action
		if next < len(ticks) {
			batch := ticks[next]
			if batch.Tick < want {
				return result, core.WrapTickError(batch.Tick, "replay", core.ErrTickOutOfOrder)
			}
			if batch.Tick == want {
				actions = batch.Actions
				next++
			}
		}
		if err := step(actions); err != nil {
			return result, err
		}
	}
	return result, nil
}
