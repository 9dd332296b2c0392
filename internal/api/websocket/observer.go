package websocket

import (
	"log"

	"github.com/ramonehamilton/chaos-zero-companion/internal/events"
)

// WebSocketObserver forwards domain events to WebSocket clients.
type WebSocketObserver struct {
	name string
	hub  *Hub
}

// NewWebSocketObserver creates a new observer that forwards events to WebSocket clients.
func NewWebSocketObserver(hub *Hub) *WebSocketObserver {
	return &WebSocketObserver{
		name: "WebSocketObserver",
		hub:  hub,
	}
}

// OnEvent forwards the event to the clients subscribed to its session.
func (o *WebSocketObserver) OnEvent(event events.Event) error {
	if o.hub == nil {
		log.Printf("[%s] Cannot emit event %s: hub is nil", o.name, event.Type)
		return nil
	}

	o.hub.BroadcastEvent(event)
	return nil
}

// GetName returns the observer's name.
func (o *WebSocketObserver) GetName() string {
	return o.name
}

// ShouldHandle returns true for all events.
func (o *WebSocketObserver) ShouldHandle(eventType string) bool {
	return true
}

var _ events.Observer = (*WebSocketObserver)(nil)
