package processor

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/TerritorialConquest/internal/game/core"
	"github.com/mitchelldurbincs/TerritorialConquest/internal/game/events"
	"github.com/mitchelldurbincs/TerritorialConquest/internal/testutil"
)

type recordingHandler struct {
	calls []string
	fail  error
}

func (h *recordingHandler) HandleSpawn(a *core.SpawnAction) error {
	h.calls = append(h.calls, "spawn:"+a.PlayerID.String())
	return h.fail
}

func (h *recordingHandler) HandleAttack(a *core.AttackAction) error {
	h.calls = append(h.calls, "attack:"+a.PlayerID.String())
	return h.fail
}

func (h *recordingHandler) HandleBoat(a *core.BoatAction) error {
	h.calls = append(h.calls, "boat:"+a.PlayerID.String())
	return h.fail
}

func newWorld() *core.World {
	return core.NewWorld(testutil.ParseTerrain("#####", "#####"), 3)
}

func TestSortActions_StableByPlayer(t *testing.T) {
	a := &core.AttackAction{PlayerID: 2, Target: core.OwnerUnclaimed, Troops: 1}
	b := &core.SpawnAction{PlayerID: 0, Tile: 1}
	c := &core.AttackAction{PlayerID: 2, Target: 0, Troops: 5}
	d := &core.BoatAction{PlayerID: 1, Target: 3, Troops: 1}
	in := []core.Action{a, b, nil, c, d}

	sorted := SortActions(in)
	assert.Equal(t, []core.Action{b, d, a, c}, sorted)
	assert.Equal(t, a, in[0], "input must not be reordered")
}

func TestProcessActions_DispatchesInOrder(t *testing.T) {
	w := newWorld()
	bus := events.NewEventBus()
	var processed int
	bus.SubscribeFunc(events.TypeActionProcessed, func(events.Event) { processed++ })

	ap := NewActionProcessor(testutil.NopLogger(), bus, "g")
	h := &recordingHandler{}
	result, err := ap.ProcessActions(context.Background(), w, 1, []core.Action{
		&core.AttackAction{PlayerID: 1, Target: core.OwnerUnclaimed, Troops: 3},
		&core.SpawnAction{PlayerID: 0, Tile: 2},
	}, h)

	require.NoError(t, err)
	assert.Equal(t, []string{"spawn:player0", "attack:player1"}, h.calls)
	assert.Equal(t, 2, result.Processed)
	assert.Empty(t, result.Rejected)
	assert.Equal(t, 2, processed)
}

func TestProcessActions_RejectsAndContinues(t *testing.T) {
	w := newWorld()
	w.Player(2).Eliminate()
	bus := events.NewEventBus()
	var reasons []string
	bus.SubscribeFunc(events.TypeActionRejected, func(e events.Event) {
		reasons = append(reasons, e.(*events.ActionRejectedEvent).Reason)
	})

	ap := NewActionProcessor(testutil.NopLogger(), bus, "g")
	h := &recordingHandler{}
	result, err := ap.ProcessActions(context.Background(), w, 4, []core.Action{
		&core.AttackAction{PlayerID: 0, Target: 0, Troops: 3},
		&core.AttackAction{PlayerID: 2, Target: core.OwnerUnclaimed, Troops: 3},
		&core.SpawnAction{PlayerID: 7, Tile: 0},
		&core.SpawnAction{PlayerID: 1, Tile: 99},
		&core.AttackAction{PlayerID: 1, Target: core.OwnerUnclaimed, Troops: 3},
	}, h)

	require.NoError(t, err)
	assert.Equal(t, []string{"attack:player1"}, h.calls)
	assert.Equal(t, 1, result.Processed)
	require.Len(t, result.Rejected, 4)
	assert.ErrorIs(t, result.Rejected[0], core.ErrInvalidTarget)
	assert.ErrorIs(t, result.Rejected[1], core.ErrInvalidTile)
	assert.ErrorIs(t, result.Rejected[2], core.ErrPlayerDead)
	assert.ErrorIs(t, result.Rejected[3], core.ErrInvalidPlayer)
	assert.Len(t, reasons, 4)
}

func TestProcessActions_HandlerError(t *testing.T) {
	ap := NewActionProcessor(testutil.NopLogger(), nil, "g")
	boom := errors.New("boom")
	result, err := ap.ProcessActions(context.Background(), newWorld(), 1, []core.Action{
		&core.SpawnAction{PlayerID: 0, Tile: 0},
	}, &recordingHandler{fail: boom})

	require.NoError(t, err)
	assert.Equal(t, 0, result.Processed)
	require.Len(t, result.Rejected, 1)
	assert.ErrorIs(t, result.Rejected[0], boom)
}

func TestProcessActions_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	h := &recordingHandler{}
	_, err := NewActionProcessor(testutil.NopLogger(), nil, "g").ProcessActions(ctx, newWorld(), 1, []core.Action{
		&core.SpawnAction{PlayerID: 0, Tile: 0},
	}, h)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, h.calls)
}
