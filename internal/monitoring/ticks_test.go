package monitoring

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/TerritorialConquest/internal/game/events"
)

func TestTickMonitor_Metrics(t *testing.T) {
	tm := NewTickMonitor(0, time.Minute, zerolog.Nop())
	tm.Record("a", 1, 2*time.Millisecond)
	tm.Record("a", 2, 6*time.Millisecond)
	tm.Record("b", 1, 4*time.Millisecond)

	m := tm.GetMetrics()
	assert.Equal(t, 3, m.Ticks)
	assert.Equal(t, 4*time.Millisecond, m.Last)
	assert.Equal(t, 6*time.Millisecond, m.Peak)
	assert.Equal(t, 4*time.Millisecond, m.Average)
	assert.Equal(t, 0, m.OverBudget, "a zero budget never alerts")
	assert.Equal(t, map[string]int{"a": 2, "b": 1}, m.GameTicks)

	tm.Forget("a")
	assert.Equal(t, map[string]int{"b": 1}, tm.GetMetrics().GameTicks)
}

func TestTickMonitor_AlertCooldown(t *testing.T) {
	var buf bytes.Buffer
	tm := NewTickMonitor(10*time.Millisecond, time.Minute, zerolog.New(&buf))
	clock := time.Unix(1000, 0)
	tm.now = func() time.Time { return clock }

	tm.Record("g", 1, 20*time.Millisecond)
	tm.Record("g", 2, 30*time.Millisecond)
	clock = clock.Add(2 * time.Minute)
	tm.Record("g", 3, 5*time.Millisecond)
	tm.Record("g", 4, 15*time.Millisecond)

	assert.Equal(t, 3, tm.GetMetrics().OverBudget)
	assert.Equal(t, 2, strings.Count(buf.String(), "Tick exceeded its time budget"))
}

func TestTickMonitor_Subscriber(t *testing.T) {
	bus := events.NewEventBus()
	tm := NewTickMonitor(time.Hour, time.Minute, zerolog.Nop())
	bus.Subscribe(tm)

	bus.Publish(events.NewTickStartedEvent("g", 1))
	bus.Publish(events.NewTickEndedEvent("g", 1, 3, 7*time.Millisecond))

	m := tm.GetMetrics()
	require.Equal(t, 1, m.Ticks)
	assert.Equal(t, 7*time.Millisecond, m.Last)
	assert.Equal(t, 1, m.GameTicks["g"])
}

func TestTickMonitor_StartStop(t *testing.T) {
	tm := NewTickMonitor(time.Second, time.Minute, zerolog.Nop())
	tm.Start()
	tm.Stop()
	tm.Stop()
}
