package events

import "github.com/ramonehamilton/chaos-zero-companion/internal/deck"

// Event types.
const (
	TypeDeckUpdated    = "deck:updated"
	TypeDeckCleared    = "deck:cleared"
	TypeSessionStarted = "session:started"
	TypeSessionEnded   = "session:ended"
)

// DeckUpdatedEvent is the payload for deck:updated events.
// Sent after every successful deck mutation. Seq starts at 1 and grows by one
// per mutation of the session.
type DeckUpdatedEvent struct {
	Seq     uint64          `json:"seq"`
	Action  deck.ActionKind `json:"action"`
	CardID  int64           `json:"cardId,omitempty"`
	Tier    int             `json:"tier,omitempty"`
	Summary deck.Summary    `json:"summary"`
}

// DeckClearedEvent is the payload for deck:cleared events.
type DeckClearedEvent struct {
	Seq     uint64       `json:"seq"`
	Summary deck.Summary `json:"summary"`
}

// SessionStartedEvent is the payload for session:started events.
type SessionStartedEvent struct {
	CharacterID    int64 `json:"characterId"`
	Tier           int   `json:"tier"`
	AvailableCards int   `json:"availableCards"`
}

// SessionEndedEvent is the payload for session:ended events.
type SessionEndedEvent struct {
	Reason string `json:"reason"` // "ended" or "expired"
}

// Message is the envelope pushed to live-update clients.
type Message struct {
	Type      string `json:"type"`
	SessionID string `json:"sessionId,omitempty"`
	Data      any    `json:"data,omitempty"`
}

// ToMessage converts an event into its wire envelope.
func ToMessage(event Event) Message {
	return Message{
		Type:      event.Type,
		SessionID: event.SessionID,
		Data:      event.Data,
	}
}
