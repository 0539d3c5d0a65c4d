package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder is a Subscriber that keeps what it received
type recorder struct {
	id       string
	types    map[string]bool
	received []Event
	panics   bool
	onEvent  func()
}

func (r *recorder) ID() string { return r.id }

func (r *recorder) HandleEvent(e Event) {
	if r.panics {
		panic("boom")
	}
	r.received = append(r.received, e)
	if r.onEvent != nil {
		r.onEvent()
	}
}

func (r *recorder) InterestedIn(eventType string) bool {
	return r.types == nil || r.types[eventType]
}

func TestEventBus_SubscribeFunc(t *testing.T) {
	bus := NewEventBus()

	var got Event
	bus.SubscribeFunc(TypeSimulationStarted, func(e Event) { got = e })
	bus.Publish(NewTickStartedEvent("test-sim", 1))
	assert.Nil(t, got)

	bus.Publish(NewSimulationStartedEvent("test-sim", 4, 20, 20, 7))
	require.NotNil(t, got)
	assert.Equal(t, TypeSimulationStarted, got.Type())
	assert.Equal(t, "test-sim", got.GameID())
	assert.False(t, got.Timestamp().IsZero())
}

func TestEventBus_RegistrationOrder(t *testing.T) {
	bus := NewEventBus()

	var calls []string
	id1 := bus.SubscribeFunc(TypeTickStarted, func(Event) { calls = append(calls, "fn1") })
	bus.Subscribe(&recorder{id: "sub", onEvent: func() { calls = append(calls, "sub") }})
	id2 := bus.SubscribeFunc(TypeTickStarted, func(Event) { calls = append(calls, "fn2") })

	bus.Publish(NewTickStartedEvent("test-sim", 1))

	assert.Equal(t, []string{"fn1", "sub", "fn2"}, calls)
	assert.NotEqual(t, id1, id2)
	assert.Equal(t, 3, bus.HandlerCount(TypeTickStarted))
	assert.Equal(t, 1, bus.HandlerCount(TypeTickEnded))

	bus.Unsubscribe(id1)
	calls = nil
	bus.Publish(NewTickStartedEvent("test-sim", 2))
	assert.Equal(t, []string{"sub", "fn2"}, calls)
}

func TestEventBus_Subscriber(t *testing.T) {
	bus := NewEventBus()
	sub := &recorder{
		id:    "test-subscriber",
		types: map[string]bool{TypeSimulationStarted: true, TypeSimulationEnded: true},
	}
	bus.Subscribe(sub)

	bus.Publish(NewSimulationStartedEvent("test-sim", 2, 10, 10, 1))
	bus.Publish(NewTickStartedEvent("test-sim", 1))
	bus.Publish(NewSimulationEndedEvent("test-sim", 0, 100, time.Minute))

	require.Len(t, sub.received, 2)
	assert.Equal(t, TypeSimulationStarted, sub.received[0].Type())
	assert.Equal(t, TypeSimulationEnded, sub.received[1].Type())

	bus.Unsubscribe(sub.ID())
	bus.Publish(NewSimulationStartedEvent("test-sim", 2, 10, 10, 1))
	assert.Len(t, sub.received, 2)
	assert.Equal(t, 0, bus.Len())
}

func TestEventBus_PanickingSubscriber(t *testing.T) {
	bus := NewEventBus()
	good := &recorder{id: "good"}
	bus.Subscribe(&recorder{id: "bad", panics: true})
	bus.Subscribe(good)

	assert.NotPanics(t, func() {
		bus.Publish(NewAttackStartedEvent("test-sim", 0, 1, 50))
	})
	assert.Len(t, good.received, 1)
}

func TestEventBus_ResubscribeReplacesInPlace(t *testing.T) {
	bus := NewEventBus()
	var calls []string
	bus.Subscribe(&recorder{id: "dup", onEvent: func() { calls = append(calls, "old") }})
	bus.SubscribeFunc(TypeTickEnded, func(Event) { calls = append(calls, "fn") })
	bus.Subscribe(&recorder{id: "dup", onEvent: func() { calls = append(calls, "new") }})

	bus.Publish(NewTickEndedEvent("x", 1, 0, 0))
	assert.Equal(t, []string{"new", "fn"}, calls)
	assert.Equal(t, 2, bus.Len())
}

func TestEventBus_SubscribeDuringPublish(t *testing.T) {
	bus := NewEventBus()
	late := &recorder{id: "late"}
	bus.SubscribeFunc(TypeTickStarted, func(Event) { bus.Subscribe(late) })

	bus.Publish(NewTickStartedEvent("x", 1))
	assert.Empty(t, late.received)

	bus.Publish(NewTickStartedEvent("x", 2))
	assert.Len(t, late.received, 1)
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = NopPublisher{}
	assert.NotPanics(t, func() { p.Publish(NewTickEndedEvent("x", 1, 0, 0)) })
}
