package events

import "time"

// Event is anything published on the bus
type Event interface {
	// Type is one of the Type* constants
	Type() string
	Timestamp() time.Time
	// GameID is the simulation the event belongs to
	GameID() string
}

// BaseEvent carries the fields shared by every event. Concrete events embed
// it.
type BaseEvent struct {
	EventType string    `json:"type"`
	Time      time.Time `json:"timestamp"`
	Game      string    `json:"game_id"`
}

func (e BaseEvent) Type() string         { return e.EventType }
func (e BaseEvent) Timestamp() time.Time { return e.Time }
func (e BaseEvent) GameID() string       { return e.Game }

func newBase(eventType, gameID string) BaseEvent {
	return BaseEvent{EventType: eventType, Time: time.Now(), Game: gameID}
}

// EventMetadata is the player and tick an event refers to, where it has them
type EventMetadata struct {
	PlayerID int `json:"player_id,omitempty"`
	Tick     int `json:"tick,omitempty"`
}

// EventHandler handles a single event type registered with SubscribeFunc
type EventHandler func(Event)

// Subscriber receives every event it declares interest in
type Subscriber interface {
	ID() string
	HandleEvent(Event)
	InterestedIn(eventType string) bool
}

// Publisher is what the simulation components publish through
type Publisher interface {
	Publish(Event)
}

// NopPublisher drops every event
type NopPublisher struct{}

func (NopPublisher) Publish(Event) {}
