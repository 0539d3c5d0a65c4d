package events

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// funcSubscriber adapts an EventHandler bound to one event type
type funcSubscriber struct {
	id        string
	eventType string
	handler   EventHandler
}

func (f *funcSubscriber) ID() string                 { return f.id }
func (f *funcSubscriber) HandleEvent(e Event)        { f.handler(e) }
func (f *funcSubscriber) InterestedIn(t string) bool { return t == f.eventType }

// EventBus delivers events synchronously, in registration order, to
// subscribers and function handlers alike. Handlers may subscribe or
// unsubscribe while an event is being delivered; the change applies from
// the next Publish.
type EventBus struct {
	mu     sync.RWMutex
	subs   []Subscriber
	nextFn int
	logger zerolog.Logger
}

func NewEventBus() *EventBus {
	return &EventBus{logger: log.With().Str("component", "event_bus").Logger()}
}

// Subscribe adds a subscriber, replacing any subscriber with the same ID
// in place
func (eb *EventBus) Subscribe(s Subscriber) {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	for i, existing := range eb.subs {
		if existing.ID() == s.ID() {
			subs := append([]Subscriber(nil), eb.subs...)
			subs[i] = s
			eb.subs = subs
			return
		}
	}
	eb.subs = append(eb.subs, s)
	eb.logger.Debug().Str("subscriber_id", s.ID()).Msg("Subscriber added to event bus")
}

// SubscribeFunc registers handler for one event type and returns an ID
// usable with Unsubscribe
func (eb *EventBus) SubscribeFunc(eventType string, handler EventHandler) string {
	eb.mu.Lock()
	eb.nextFn++
	id := fmt.Sprintf("%s#%d", eventType, eb.nextFn)
	eb.mu.Unlock()

	eb.Subscribe(&funcSubscriber{id: id, eventType: eventType, handler: handler})
	return id
}

// Unsubscribe removes a subscriber or function handler by ID
func (eb *EventBus) Unsubscribe(id string) {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	for i, s := range eb.subs {
		if s.ID() == id {
			eb.subs = append(eb.subs[:i:i], eb.subs[i+1:]...)
			eb.logger.Debug().Str("subscriber_id", id).Msg("Subscriber removed from event bus")
			return
		}
	}
}

// Publish delivers event to every interested subscriber. A panicking
// subscriber is logged and skipped.
func (eb *EventBus) Publish(event Event) {
	eb.mu.RLock()
	subs := eb.subs
	eb.mu.RUnlock()

	eventType := event.Type()
	for _, s := range subs {
		if s.InterestedIn(eventType) {
			eb.deliver(s, event)
		}
	}
}

func (eb *EventBus) deliver(s Subscriber, event Event) {
	defer func() {
		if r := recover(); r != nil {
			eb.logger.Error().
				Str("subscriber_id", s.ID()).
				Str("event_type", event.Type()).
				Str("game_id", event.GameID()).
				Interface("panic", r).
				Msg("Subscriber panicked while handling event")
		}
	}()
	s.HandleEvent(event)
}

// Len returns the number of registered subscribers and handlers
func (eb *EventBus) Len() int {
	eb.mu.RLock()
	defer eb.mu.RUnlock()
	return len(eb.subs)
}

// HandlerCount returns how many registrations want eventType
func (eb *EventBus) HandlerCount(eventType string) int {
	eb.mu.RLock()
	defer eb.mu.RUnlock()
	n := 0
	for _, s := range eb.subs {
		if s.InterestedIn(eventType) {
			n++
		}
	}
	return n
}
