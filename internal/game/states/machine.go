package states

import (
	"fmt"

	"github.com/mitchelldurbincs/TerritorialConquest/internal/game/events"
)

const defaultHistorySize = 16

// Transition is one recorded phase change
type Transition struct {
	From   GamePhase
	To     GamePhase
	Tick   int
	Reason string
}

// StateMachine drives the phase of one simulation. It is owned by a single
// engine and, like the engine, is not safe for concurrent use.
type StateMachine struct {
	phase       GamePhase
	states      map[GamePhase]State
	ctx         *GameContext
	history     []Transition
	historySize int
	publisher   events.Publisher
}

// NewStateMachine creates a machine in PhaseInitializing with the default
// phase hooks
func NewStateMachine(ctx *GameContext, publisher events.Publisher) *StateMachine {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	sm := &StateMachine{
		phase:       PhaseInitializing,
		states:      make(map[GamePhase]State),
		ctx:         ctx,
		historySize: defaultHistorySize,
		publisher:   publisher,
	}
	for _, s := range DefaultStates() {
		sm.RegisterState(s)
	}
	return sm
}

// RegisterState replaces the hooks of state.Phase()
func (sm *StateMachine) RegisterState(state State) { sm.states[state.Phase()] = state }

func (sm *StateMachine) CurrentPhase() GamePhase { return sm.phase }

func (sm *StateMachine) Context() *GameContext { return sm.ctx }

func (sm *StateMachine) CanTransitionTo(target GamePhase) bool {
	return sm.phase.CanTransitionTo(target)
}

// TransitionTo moves to target if the transition table allows it and the
// target's Validate hook accepts the context
func (sm *StateMachine) TransitionTo(target GamePhase, reason string) error {
	from := sm.phase
	if !from.CanTransitionTo(target) {
		return fmt.Errorf("invalid transition from %s to %s", from, target)
	}
	next, ok := sm.states[target]
	if !ok {
		return fmt.Errorf("no state registered for phase %s", target)
	}
	if err := next.Validate(sm.ctx); err != nil {
		return fmt.Errorf("cannot enter %s: %w", target, err)
	}

	if cur, ok := sm.states[from]; ok {
		if err := cur.Exit(sm.ctx); err != nil {
			sm.ctx.Logger.Error().
				Err(err).
				Str("from_phase", from.String()).
				Str("to_phase", target.String()).
				Msg("Error exiting phase")
		}
	}

	sm.phase = target
	if err := next.Enter(sm.ctx); err != nil {
		sm.phase = from
		return fmt.Errorf("failed to enter %s: %w", target, err)
	}
	sm.record(Transition{From: from, To: target, Tick: sm.ctx.Tick, Reason: reason})

	sm.publisher.Publish(events.NewStateTransitionEvent(sm.ctx.GameID, from.String(), target.String(), reason))
	sm.ctx.Logger.Debug().
		Str("from_phase", from.String()).
		Str("to_phase", target.String()).
		Str("reason", reason).
		Int("tick", sm.ctx.Tick).
		Msg("Phase transition")
	return nil
}

// Fail records err and moves to PhaseError
func (sm *StateMachine) Fail(err error) error {
	sm.ctx.Error = err
	return sm.TransitionTo(PhaseError, err.Error())
}

// History returns the most recent transitions, oldest first
func (sm *StateMachine) History() []Transition {
	return append([]Transition(nil), sm.history...)
}

func (sm *StateMachine) record(t Transition) {
	sm.history = append(sm.history, t)
	if over := len(sm.history) - sm.historySize; over > 0 {
		sm.history = append(sm.history[:0], sm.history[over:]...)
	}
}
