package states

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/TerritorialConquest/internal/game/events"
	"github.com/mitchelldurbincs/TerritorialConquest/internal/testutil"
)

var allPhases = []GamePhase{PhaseInitializing, PhaseSpawning, PhaseRunning, PhaseEnded, PhaseError}

func TestGamePhase_Names(t *testing.T) {
	for _, p := range allPhases {
		assert.Equal(t, p, ParsePhase(p.String()))
	}
	assert.Equal(t, "Running", PhaseRunning.String())
	assert.Equal(t, "Unknown(999)", GamePhase(999).String())
	assert.Equal(t, "Unknown(-1)", GamePhase(-1).String())
	assert.Equal(t, PhaseInitializing, ParsePhase("bogus"))
}

func TestGamePhase_Properties(t *testing.T) {
	assert.True(t, PhaseEnded.IsTerminal())
	assert.True(t, PhaseError.IsTerminal())
	assert.False(t, PhaseSpawning.IsTerminal())
	assert.False(t, PhaseRunning.IsTerminal())

	assert.True(t, PhaseSpawning.CanSpawn())
	assert.False(t, PhaseRunning.CanSpawn())

	assert.True(t, PhaseRunning.CanAttack())
	assert.False(t, PhaseSpawning.CanAttack())
	assert.False(t, PhaseEnded.CanAttack())
}

func TestGamePhase_Transitions(t *testing.T) {
	tests := []struct {
		from    GamePhase
		allowed []GamePhase
	}{
		{PhaseInitializing, []GamePhase{PhaseSpawning, PhaseError}},
		{PhaseSpawning, []GamePhase{PhaseRunning, PhaseEnded, PhaseError}},
		{PhaseRunning, []GamePhase{PhaseEnded, PhaseError}},
		{PhaseEnded, []GamePhase{}},
		{PhaseError, []GamePhase{}},
	}

	for _, tt := range tests {
		t.Run(tt.from.String(), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.AllowedTransitions())
			for _, target := range allPhases {
				assert.Equal(t, contains(tt.allowed, target), tt.from.CanTransitionTo(target), target.String())
			}
		})
	}

	// callers get a copy
	got := PhaseSpawning.AllowedTransitions()
	got[0] = PhaseError
	assert.Equal(t, PhaseRunning, PhaseSpawning.AllowedTransitions()[0])
}

func contains(list []GamePhase, p GamePhase) bool {
	for _, x := range list {
		if x == p {
			return true
		}
	}
	return false
}

func newMachine() (*StateMachine, *GameContext, *[]*events.StateTransitionEvent) {
	ctx := NewGameContext("test-game", 2, 5, testutil.NopLogger())
	bus := events.NewEventBus()
	var seen []*events.StateTransitionEvent
	bus.SubscribeFunc(events.TypeStateTransition, func(e events.Event) {
		seen = append(seen, e.(*events.StateTransitionEvent))
	})
	return NewStateMachine(ctx, bus), ctx, &seen
}

func TestStateMachine_Lifecycle(t *testing.T) {
	sm, ctx, seen := newMachine()
	assert.Equal(t, PhaseInitializing, sm.CurrentPhase())
	assert.Same(t, ctx, sm.Context())

	require.NoError(t, sm.TransitionTo(PhaseSpawning, "world ready"))
	assert.Equal(t, PhaseSpawning, sm.CurrentPhase())

	ctx.Tick = 5
	err := sm.TransitionTo(PhaseRunning, "spawn phase over")
	require.Error(t, err, "running needs a spawned player")
	assert.Contains(t, err.Error(), "no player spawned")
	assert.Equal(t, PhaseSpawning, sm.CurrentPhase())

	ctx.SpawnedCount = 2
	require.NoError(t, sm.TransitionTo(PhaseRunning, "spawn phase over"))
	assert.Equal(t, 5, ctx.RunningSince)
	assert.False(t, ctx.StartTime.IsZero())

	ctx.Tick = 42
	assert.Equal(t, 37, ctx.RunningTicks())
	ctx.Winner = 1
	require.NoError(t, sm.TransitionTo(PhaseEnded, "player 1 won"))
	assert.Equal(t, PhaseEnded, sm.CurrentPhase())

	history := sm.History()
	require.Len(t, history, 3)
	assert.Equal(t, Transition{From: PhaseInitializing, To: PhaseSpawning, Tick: 0, Reason: "world ready"}, history[0])
	assert.Equal(t, Transition{From: PhaseRunning, To: PhaseEnded, Tick: 42, Reason: "player 1 won"}, history[2])

	require.Len(t, *seen, 3)
	assert.Equal(t, "Spawning", (*seen)[1].FromPhase)
	assert.Equal(t, "Running", (*seen)[1].ToPhase)
	assert.Equal(t, "test-game", (*seen)[1].GameID())
}

func TestStateMachine_InvalidTransitions(t *testing.T) {
	sm, _, seen := newMachine()

	err := sm.TransitionTo(PhaseRunning, "skip spawning")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid transition")
	assert.Equal(t, PhaseInitializing, sm.CurrentPhase())
	assert.False(t, sm.CanTransitionTo(PhaseEnded))
	assert.True(t, sm.CanTransitionTo(PhaseSpawning))
	assert.Empty(t, *seen)
	assert.Empty(t, sm.History())
}

func TestStateMachine_TerminalPhases(t *testing.T) {
	sm, _, _ := newMachine()
	require.NoError(t, sm.TransitionTo(PhaseSpawning, ""))
	require.NoError(t, sm.TransitionTo(PhaseEnded, "everyone left"))
	for _, p := range allPhases {
		assert.Error(t, sm.TransitionTo(p, "again"))
	}
	assert.Equal(t, PhaseEnded, sm.CurrentPhase())
}

func TestStateMachine_Fail(t *testing.T) {
	sm, ctx, _ := newMachine()
	boom := errors.New("boom")
	require.NoError(t, sm.Fail(boom))
	assert.Equal(t, PhaseError, sm.CurrentPhase())
	assert.Equal(t, boom, ctx.Error)
	assert.Equal(t, "boom", sm.History()[0].Reason)
}

type failingEnter struct{ State }

func (failingEnter) Enter(*GameContext) error { return errors.New("no") }

func TestStateMachine_EnterFailureRollsBack(t *testing.T) {
	sm, _, seen := newMachine()
	sm.RegisterState(failingEnter{State: DefaultStates()[PhaseSpawning]})

	err := sm.TransitionTo(PhaseSpawning, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to enter Spawning")
	assert.Equal(t, PhaseInitializing, sm.CurrentPhase())
	assert.Empty(t, sm.History())
	assert.Empty(t, *seen)
}

func TestStateMachine_HistoryIsBounded(t *testing.T) {
	sm, ctx, _ := newMachine()
	sm.historySize = 2
	require.NoError(t, sm.TransitionTo(PhaseSpawning, "a"))
	ctx.SpawnedCount = 1
	require.NoError(t, sm.TransitionTo(PhaseRunning, "b"))
	require.NoError(t, sm.TransitionTo(PhaseEnded, "c"))

	history := sm.History()
	require.Len(t, history, 2)
	assert.Equal(t, "b", history[0].Reason)
	assert.Equal(t, "c", history[1].Reason)
}
