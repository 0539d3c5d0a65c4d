package states

import (
	"errors"
	"fmt"
	"time"
)

// State is one phase of the simulation with its lifecycle hooks
type State interface {
	Phase() GamePhase
	// Enter runs after the machine switched to the phase; an error rolls the
	// switch back
	Enter(ctx *GameContext) error
	// Exit runs before leaving the phase; errors are logged only
	Exit(ctx *GameContext) error
	// Validate decides whether the phase may be entered
	Validate(ctx *GameContext) error
}

// ErrTerminalPhase is returned when leaving Ended or Error
var ErrTerminalPhase = errors.New("terminal phase cannot be left")

// hookState implements State from optional hook functions
type hookState struct {
	phase    GamePhase
	enter    func(*GameContext) error
	exit     func(*GameContext) error
	validate func(*GameContext) error
}

func (s *hookState) Phase() GamePhase { return s.phase }

func (s *hookState) Enter(ctx *GameContext) error { return call(s.enter, ctx) }

func (s *hookState) Exit(ctx *GameContext) error { return call(s.exit, ctx) }

func (s *hookState) Validate(ctx *GameContext) error { return call(s.validate, ctx) }

func call(hook func(*GameContext) error, ctx *GameContext) error {
	if hook == nil {
		return nil
	}
	return hook(ctx)
}

func terminal(*GameContext) error { return ErrTerminalPhase }

// DefaultStates returns the built-in hooks of every phase
func DefaultStates() []State {
	return []State{
		&hookState{phase: PhaseInitializing},
		&hookState{
			phase: PhaseSpawning,
			validate: func(ctx *GameContext) error {
				if ctx.PlayerCount < 1 {
					return fmt.Errorf("player count must be at least 1, got %d", ctx.PlayerCount)
				}
				if ctx.SpawnTicks < 0 {
					return fmt.Errorf("spawn ticks must not be negative, got %d", ctx.SpawnTicks)
				}
				return nil
			},
			enter: func(ctx *GameContext) error {
				ctx.Logger.Info().
					Int("players", ctx.PlayerCount).
					Int("spawn_ticks", ctx.SpawnTicks).
					Msg("Spawn phase started")
				return nil
			},
		},
		&hookState{
			phase: PhaseRunning,
			validate: func(ctx *GameContext) error {
				if ctx.SpawnedCount < 1 {
					return errors.New("no player spawned")
				}
				return nil
			},
			enter: func(ctx *GameContext) error {
				ctx.RunningSince = ctx.Tick
				ctx.StartTime = time.Now()
				ctx.Logger.Info().
					Int("tick", ctx.Tick).
					Int("spawned", ctx.SpawnedCount).
					Msg("Simulation running")
				return nil
			},
		},
		&hookState{
			phase: PhaseEnded,
			enter: func(ctx *GameContext) error {
				ctx.Logger.Info().
					Int("winner", ctx.Winner).
					Int("tick", ctx.Tick).
					Int("running_ticks", ctx.RunningTicks()).
					Msg("Simulation ended")
				return nil
			},
			exit: terminal,
		},
		&hookState{
			phase: PhaseError,
			validate: func(ctx *GameContext) error {
				if ctx.Error == nil {
					return errors.New("error phase requires an error in context")
				}
				return nil
			},
			enter: func(ctx *GameContext) error {
				ctx.Logger.Error().Err(ctx.Error).Int("tick", ctx.Tick).Msg("Simulation failed")
				return nil
			},
			exit: terminal,
		},
	}
}
