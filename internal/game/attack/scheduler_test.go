package attack

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/TerritorialConquest/internal/game/core"
	"github.com/mitchelldurbincs/TerritorialConquest/internal/game/events"
	"github.com/mitchelldurbincs/TerritorialConquest/internal/testutil"
)

func newTestScheduler(w *core.World, seed int64) (*Scheduler, *events.EventBus) {
	bus := events.NewEventBus()
	return NewScheduler(w, DefaultParams(), testutil.NewTestRNG(seed), "test", bus), bus
}

func runUntilIdle(t *testing.T, s *Scheduler) int {
	t.Helper()
	for i := 0; i < 20000; i++ {
		if s.Len() == 0 {
			return i
		}
		s.Tick()
	}
	require.FailNow(t, "scheduler never went idle")
	return 0
}

func TestScheduler_OppositionStrongerCounter(t *testing.T) {
	w := core.NewWorld(core.NewTerrain(2, 1), 2)
	testutil.Claim(w, core.KindSpawn, 0, core.OwnerUnclaimed, 0)
	testutil.Claim(w, core.KindSpawn, 1, core.OwnerUnclaimed, 1)
	s, bus := newTestScheduler(w, 1)

	var opposed []*events.AttackOpposedEvent
	bus.SubscribeFunc(events.TypeAttackOpposed, func(e events.Event) {
		opposed = append(opposed, e.(*events.AttackOpposedEvent))
	})

	require.NotNil(t, s.AttackPlayer(0, 1, 10, nil))
	e := s.AttackPlayer(1, 0, 15, nil)

	require.NotNil(t, e)
	assert.Nil(t, s.Get(0, 1))
	assert.Same(t, e, s.Get(1, 0))
	assert.Equal(t, 5.0, e.Troops())
	assert.Equal(t, 1, s.Len())
	require.Len(t, opposed, 1)
	assert.Equal(t, 1, opposed[0].Winner)
	assert.Equal(t, 5.0, opposed[0].Remaining)
}

func TestScheduler_OppositionWeakerCounter(t *testing.T) {
	w := core.NewWorld(core.NewTerrain(2, 1), 2)
	testutil.Claim(w, core.KindSpawn, 0, core.OwnerUnclaimed, 0)
	testutil.Claim(w, core.KindSpawn, 1, core.OwnerUnclaimed, 1)
	s, _ := newTestScheduler(w, 1)

	s.AttackPlayer(0, 1, 50, nil)
	assert.Nil(t, s.AttackPlayer(1, 0, 30, nil))

	require.NotNil(t, s.Get(0, 1))
	assert.Equal(t, 20.0, s.Get(0, 1).Troops())
	assert.Nil(t, s.Get(1, 0))
	assert.Equal(t, 1, s.Len())
}

func TestScheduler_OppositionTieCancelsBoth(t *testing.T) {
	w := core.NewWorld(core.NewTerrain(2, 1), 2)
	testutil.Claim(w, core.KindSpawn, 0, core.OwnerUnclaimed, 0)
	testutil.Claim(w, core.KindSpawn, 1, core.OwnerUnclaimed, 1)
	s, _ := newTestScheduler(w, 1)

	s.AttackPlayer(0, 1, 25, nil)
	assert.Nil(t, s.AttackPlayer(1, 0, 25, nil))
	assert.Equal(t, 0, s.Len())
}

func TestScheduler_ReinforceSamePair(t *testing.T) {
	w := core.NewWorld(core.NewTerrain(3, 3), 1)
	testutil.Claim(w, core.KindSpawn, 0, core.OwnerUnclaimed, 4)
	s, _ := newTestScheduler(w, 1)

	e1 := s.AttackUnclaimed(0, 10, nil)
	e2 := s.AttackUnclaimed(0, 15, nil)
	assert.Same(t, e1, e2)
	assert.Equal(t, 25.0, e1.Troops())
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, 25.0, s.TroopsInFlight(0))
}

func TestScheduler_EmptyBorderRefunds(t *testing.T) {
	w := core.NewWorld(core.NewTerrain(4, 4), 2)
	testutil.Spawn(w, 1, 0)
	s, bus := newTestScheduler(w, 1)
	p := w.Player(0)

	var ended []*events.AttackEndedEvent
	bus.SubscribeFunc(events.TypeAttackEnded, func(e events.Event) {
		ended = append(ended, e.(*events.AttackEndedEvent))
	})

	e := s.AttackUnclaimed(0, 100, nil)
	assert.Equal(t, 0, e.Scheduled(), "player 1's land gives player 0 no source tile")
	s.Tick()

	assert.Equal(t, 0, s.Len())
	assert.Equal(t, 100.0, p.Troops())
	assert.Equal(t, 0, p.TerritorySize())
	assert.Equal(t, 1, w.Player(1).TerritorySize())
	assert.Equal(t, core.Owner(1), w.Grid.Owner(0))
	for i := 1; i < w.Terrain.Size(); i++ {
		assert.Equal(t, core.OwnerUnclaimed, w.Grid.Owner(core.TileIndex(i)))
	}
	require.Len(t, ended, 1)
	assert.Equal(t, 100.0, ended[0].Refund)
	assert.Equal(t, 0, ended[0].Conquered)
}

func TestScheduler_UnclaimedExpansionConservesTroops(t *testing.T) {
	w := core.NewWorld(core.NewTerrain(3, 3), 1)
	testutil.Claim(w, core.KindSpawn, 0, core.OwnerUnclaimed, 4)
	s, _ := newTestScheduler(w, 7)
	p := w.Player(0)

	e := s.AttackUnclaimed(0, 100, nil)
	assert.Equal(t, 4, e.Scheduled())

	runUntilIdle(t, s)

	assert.Equal(t, 9, p.TerritorySize())
	// every tile costs expansion cost / 50 = 1 troop
	assert.Equal(t, 92.0, p.Troops())
	assert.Equal(t, 8, e.Conquered())
	require.NoError(t, w.Borders.Verify())
}

func TestScheduler_PlayerAttackCosts(t *testing.T) {
	w := core.NewWorld(core.NewTerrain(3, 1), 2)
	testutil.Claim(w, core.KindSpawn, 0, core.OwnerUnclaimed, 0)
	testutil.Claim(w, core.KindSpawn, 1, core.OwnerUnclaimed, 1, 2)
	defender := w.Player(1)
	defender.SetTroops(10)
	s, _ := newTestScheduler(w, 3)

	s.AttackPlayer(0, 1, 100, nil)
	runUntilIdle(t, s)

	// tile 1: cost 10+1, defender loses 7; tile 2: cost 6+1, defender clamps to 0
	assert.Equal(t, 82.0, w.Player(0).Troops())
	assert.Equal(t, 3, w.Player(0).TerritorySize())
	assert.Equal(t, 0, defender.TerritorySize())
	assert.Equal(t, 0.0, defender.Troops())
	require.NoError(t, w.Borders.Verify())
}

func TestScheduler_StallsWhenTileUnaffordable(t *testing.T) {
	w := core.NewWorld(core.NewTerrain(2, 1), 1)
	testutil.Claim(w, core.KindSpawn, 0, core.OwnerUnclaimed, 0)
	s, _ := newTestScheduler(w, 1)

	s.AttackUnclaimed(0, 0.5, nil)
	runUntilIdle(t, s)

	assert.Equal(t, core.OwnerUnclaimed, w.Grid.Owner(1))
	assert.Equal(t, 0.5, w.Player(0).Troops())
}

func TestScheduler_ExplicitSources(t *testing.T) {
	w := core.NewWorld(core.NewTerrain(5, 1), 1)
	testutil.Claim(w, core.KindSpawn, 0, core.OwnerUnclaimed, 0, 4)
	s, _ := newTestScheduler(w, 1)

	e := s.AttackUnclaimed(0, 10, []core.TileIndex{4})
	assert.Equal(t, 1, e.Scheduled())

	e = s.AttackUnclaimed(0, 10, []core.TileIndex{})
	assert.Equal(t, 1, e.Scheduled())
}

func TestScheduler_TargetGainIsScheduled(t *testing.T) {
	w := core.NewWorld(core.NewTerrain(3, 1), 2)
	testutil.Claim(w, core.KindSpawn, 1, core.OwnerUnclaimed, 2)
	s, _ := newTestScheduler(w, 1)

	e := s.AttackPlayer(1, 0, 50, nil)
	require.NotNil(t, e)
	assert.Equal(t, 0, e.Scheduled())

	testutil.Claim(w, core.KindSpawn, 0, core.OwnerUnclaimed, 1)
	assert.Equal(t, 1, e.Scheduled())
}

func TestScheduler_ClearedTilesFeedUnclaimedAttack(t *testing.T) {
	w := core.NewWorld(core.NewTerrain(3, 1), 2)
	testutil.Claim(w, core.KindSpawn, 0, core.OwnerUnclaimed, 0)
	testutil.Claim(w, core.KindSpawn, 1, core.OwnerUnclaimed, 1)
	s, _ := newTestScheduler(w, 1)

	e := s.AttackUnclaimed(0, 20, nil)
	assert.Equal(t, 0, e.Scheduled())

	testutil.Claim(w, core.KindClearing, core.OwnerUnclaimed, 1, 1)
	assert.Equal(t, 1, e.Scheduled())
}

func TestScheduler_CancelPlayerDropsWithoutRefund(t *testing.T) {
	w := core.NewWorld(core.NewTerrain(3, 3), 1)
	testutil.Claim(w, core.KindSpawn, 0, core.OwnerUnclaimed, 4)
	s, _ := newTestScheduler(w, 1)

	s.AttackUnclaimed(0, 40, nil)
	s.CancelPlayer(0)

	assert.Equal(t, 0, s.Len())
	assert.Equal(t, 0.0, w.Player(0).Troops())
	assert.Equal(t, 0.0, s.TroopsInFlight(0))
}

func TestScheduler_Deterministic(t *testing.T) {
	run := func() []byte {
		w := core.NewWorld(core.NewTerrain(12, 10), 2)
		testutil.Claim(w, core.KindSpawn, 0, core.OwnerUnclaimed, 0)
		testutil.Claim(w, core.KindSpawn, 1, core.OwnerUnclaimed, 119)
		s, _ := newTestScheduler(w, 99)
		s.AttackUnclaimed(0, 60, nil)
		s.AttackUnclaimed(1, 60, nil)
		for i := 0; i < 400; i++ {
			s.Tick()
		}
		require.NoError(t, w.Borders.Verify())
		return w.Grid.Encode()
	}
	assert.Equal(t, run(), run())
}

func TestScheduler_PanicsOnNonPlayers(t *testing.T) {
	w := core.NewWorld(core.NewTerrain(2, 1), 1)
	s, _ := newTestScheduler(w, 1)
	assert.Panics(t, func() { s.AttackPlayer(0, core.OwnerUnclaimed, 1, nil) })
	assert.Panics(t, func() { s.AttackUnclaimed(core.OwnerWater, 1, nil) })
}
