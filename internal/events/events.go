// Package events carries rule-engine events to whoever is listening.
package events

import (
	"sync"
	"time"
)

// EventType represents the type of game event.
type EventType int

const (
	// EventMoved is emitted when a bee completes a step.
	EventMoved EventType = iota
	// EventNectarPicked is emitted when a bee lifts a token off the board.
	EventNectarPicked
	// EventNectarScored is emitted when nectar reaches a home cell.
	EventNectarScored
	// EventCaptureStarted is emitted when a move hits a loaded enemy bee.
	EventCaptureStarted
	// EventCaptured is emitted when a capture resolves.
	EventCaptured
	// EventChainStarted is emitted when a chain pass is armed.
	EventChainStarted
	// EventNectarPassed is emitted when a chain pass lands.
	EventNectarPassed
	// EventBoosted is emitted when a token is burned for moves.
	EventBoosted
	// EventWeather is emitted after every weather roll.
	EventWeather
	// EventTurnEnded is emitted when play passes to the next player.
	EventTurnEnded
	// EventGameOver is emitted once, when a player reaches the win score.
	EventGameOver
)

// String returns a human-readable representation of the event type.
func (t EventType) String() string {
	switch t {
	case EventMoved:
		return "moved"
	case EventNectarPicked:
		return "nectar_picked"
	case EventNectarScored:
		return "nectar_scored"
	case EventCaptureStarted:
		return "capture_started"
	case EventCaptured:
		return "captured"
	case EventChainStarted:
		return "chain_started"
	case EventNectarPassed:
		return "nectar_passed"
	case EventBoosted:
		return "boosted"
	case EventWeather:
		return "weather"
	case EventTurnEnded:
		return "turn_ended"
	case EventGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// MarshalText lets events travel as their string name in JSON.
func (t EventType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// Event represents a game event.
type Event struct {
	Type      EventType      `json:"type"`
	Player    int            `json:"player"`
	Bee       int            `json:"bee"`
	Round     int            `json:"round"`
	Timestamp time.Time      `json:"timestamp"`
	Data      map[string]any `json:"data,omitempty"`
}

// Bus manages event subscriptions and delivery.
type Bus interface {
	// Subscribe registers a handler under a subscriber id.
	Subscribe(id string, handler func(Event))

	// Unsubscribe removes the handler for an id.
	Unsubscribe(id string)

	// Publish sends an event to every subscribed handler.
	Publish(event Event)
}

// SimpleBus is an in-memory bus. Handlers run synchronously on the
// publishing goroutine, in no particular order, so they observe events in
// the order the engine produced them.
type SimpleBus struct {
	mu       sync.RWMutex
	handlers map[string]func(Event)
}

// NewSimpleBus creates an empty bus.
func NewSimpleBus() *SimpleBus {
	return &SimpleBus{handlers: make(map[string]func(Event))}
}

// Subscribe registers a handler under id, replacing any previous one.
func (bus *SimpleBus) Subscribe(id string, handler func(Event)) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.handlers[id] = handler
}

// Unsubscribe removes the handler for id.
func (bus *SimpleBus) Unsubscribe(id string) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	delete(bus.handlers, id)
}

// Publish delivers event to every handler.
func (bus *SimpleBus) Publish(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	bus.mu.RLock()
	handlers := make([]func(Event), 0, len(bus.handlers))
	for _, h := range bus.handlers {
		handlers = append(handlers, h)
	}
	bus.mu.RUnlock()

	for _, h := range handlers {
		h(event)
	}
}

// NullBus is a bus that does nothing (for tests or when events are not needed).
type NullBus struct{}

// Subscribe does nothing.
func (NullBus) Subscribe(id string, handler func(Event)) {}

// Unsubscribe does nothing.
func (NullBus) Unsubscribe(id string) {}

// Publish does nothing.
func (NullBus) Publish(event Event) {}

// Recorder is a handler that keeps every event it sees.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// Handle appends e.
func (r *Recorder) Handle(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

// Events returns a copy of what has been recorded.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Types returns the recorded event types in order.
func (r *Recorder) Types() []EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]EventType, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type
	}
	return out
}
