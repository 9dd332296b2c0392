// Package events distributes deck-session domain events to observers.
package events

import (
	"context"
	"log"
	"sync"
)

// Event represents a domain event that can be dispatched to observers.
type Event struct {
	// Type is the event type (e.g., "deck:updated", "session:started").
	Type string

	// SessionID is the deck session the event belongs to. Empty for global events.
	SessionID string

	// Data is the typed payload, one of the message structs in this package.
	Data any

	// Context provides execution context for the event.
	Context context.Context
}

// Observer defines the interface for objects that want to be notified of events.
type Observer interface {
	// OnEvent is called when an event is dispatched.
	OnEvent(event Event) error

	// GetName returns a human-readable name for this observer.
	GetName() string

	// ShouldHandle returns true if this observer should handle the given event type.
	ShouldHandle(eventType string) bool
}

// EventDispatcher implements the Observer pattern for event distribution.
// Thread-safe for concurrent use.
type EventDispatcher struct {
	observers []Observer
	mu        sync.RWMutex
}

// NewEventDispatcher creates a new EventDispatcher.
func NewEventDispatcher() *EventDispatcher {
	return &EventDispatcher{
		observers: make([]Observer, 0),
	}
}

// Register adds an observer to the dispatcher.
func (d *EventDispatcher) Register(observer Observer) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.observers = append(d.observers, observer)
	log.Printf("[EventDispatcher] Registered observer: %s", observer.GetName())
}

// Unregister removes an observer from the dispatcher.
func (d *EventDispatcher) Unregister(observer Observer) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for i, obs := range d.observers {
		if obs == observer {
			d.observers[i] = d.observers[len(d.observers)-1]
			d.observers = d.observers[:len(d.observers)-1]
			log.Printf("[EventDispatcher] Unregistered observer: %s", observer.GetName())
			return
		}
	}
}

func (d *EventDispatcher) snapshot() []Observer {
	d.mu.RLock()
	defer d.mu.RUnlock()
	observers := make([]Observer, len(d.observers))
	copy(observers, d.observers)
	return observers
}

// Dispatch sends an event to all registered observers in registration order.
// Observer errors are logged and do not stop delivery to the rest.
func (d *EventDispatcher) Dispatch(event Event) {
	for _, observer := range d.snapshot() {
		if !observer.ShouldHandle(event.Type) {
			continue
		}

		if err := observer.OnEvent(event); err != nil {
			log.Printf("[EventDispatcher] Observer %s failed to handle event %s: %v",
				observer.GetName(), event.Type, err)
		}
	}
}

// DispatchAsync sends an event to all observers, each in its own goroutine.
func (d *EventDispatcher) DispatchAsync(event Event) {
	for _, observer := range d.snapshot() {
		if !observer.ShouldHandle(event.Type) {
			continue
		}

		go func(obs Observer) {
			if err := obs.OnEvent(event); err != nil {
				log.Printf("[EventDispatcher] Observer %s failed to handle event %s: %v",
					obs.GetName(), event.Type, err)
			}
		}(observer)
	}
}

// ObserverCount returns the number of registered observers.
func (d *EventDispatcher) ObserverCount() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.observers)
}

// Clear removes all registered observers.
func (d *EventDispatcher) Clear() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.observers = make([]Observer, 0)
	log.Printf("[EventDispatcher] Cleared all observers")
}

// NewTypedEvent creates an Event for sessionID carrying data.
func NewTypedEvent[T any](ctx context.Context, eventType, sessionID string, data T) Event {
	return Event{
		Type:      eventType,
		SessionID: sessionID,
		Data:      data,
		Context:   ctx,
	}
}

// GetTypedData extracts typed data from an Event.
// Returns the zero value and false if the data is not of the expected type.
func GetTypedData[T any](event Event) (T, bool) {
	typed, ok := event.Data.(T)
	return typed, ok
}
