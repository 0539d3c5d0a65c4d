package replay

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/TerritorialConquest/internal/game"
	"github.com/mitchelldurbincs/TerritorialConquest/internal/game/core"
)

// DefaultSnapshotInterval is the tick spacing between stored snapshots
const DefaultSnapshotInterval = 10

// Recorder steps an engine and writes every tick's actions and periodic
// ownership snapshots to a Store
type Recorder struct {
	store    *Store
	engine   *game.Engine
	session  Session
	interval int
	logger   zerolog.Logger
}

// NewRecorder opens a session for engine. An interval below one means
// DefaultSnapshotInterval.
func NewRecorder(ctx context.Context, store *Store, engine *game.Engine, interval int, logger zerolog.Logger) (*Recorder, error) {
	if interval < 1 {
		interval = DefaultSnapshotInterval
	}
	session, err := store.CreateSession(ctx, engine.Config())
	if err != nil {
		return nil, err
	}
	return &Recorder{
		store:    store,
		engine:   engine,
		session:  session,
		interval: interval,
		logger:   logger.With().Str("component", "Recorder").Str("session", session.ID).Logger(),
	}, nil
}

// Session returns the session being written
func (r *Recorder) Session() Session { return r.session }

// Step advances the engine one tick and records it. Actions are stored even
// when some of them get rejected so the replay sees the same input.
func (r *Recorder) Step(ctx context.Context, actions []core.Action) error {
	if err := r.engine.Step(ctx, actions); err != nil {
		return err
	}
	tick := r.engine.Tick()
	if err := r.store.SaveActions(ctx, r.session.ID, tick, actions); err != nil {
		return fmt.Errorf("record tick %d: %w", tick, err)
	}
	if tick%r.interval == 0 || r.engine.IsGameOver() {
		if err := r.store.SaveSnapshot(ctx, r.session.ID, tick, r.engine.Snapshot()); err != nil {
			return fmt.Errorf("record tick %d: %w", tick, err)
		}
	}
	r.logger.Trace().Int("tick", tick).Int("actions", len(actions)).Msg("Tick recorded")
	return nil
}

// Close stores the final tick and a closing snapshot
func (r *Recorder) Close(ctx context.Context) error {
	tick := r.engine.Tick()
	if err := r.store.SaveSnapshot(ctx, r.session.ID, tick, r.engine.Snapshot()); err != nil {
		return err
	}
	if err := r.store.SetFinalTick(ctx, r.session.ID, tick); err != nil {
		return err
	}
	r.logger.Info().Int("final_tick", tick).Msg("Recording closed")
	return nil
}
