// Package session owns the live deck-building sessions. Each session pairs a
// deck.State with the card pool of the character it was started for.
package session

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ramonehamilton/chaos-zero-companion/internal/catalog"
	"github.com/ramonehamilton/chaos-zero-companion/internal/deck"
	"github.com/ramonehamilton/chaos-zero-companion/internal/events"
)

// Catalog supplies characters and their card pools. *catalog.Service satisfies it.
type Catalog interface {
	GetCharacter(ctx context.Context, id int64) (catalog.Character, error)
	AvailableCards(ctx context.Context, characterID int64) ([]deck.Card, error)
}

// Publisher receives session events. *events.EventDispatcher satisfies it.
type Publisher interface {
	Dispatch(event events.Event)
}

// Config holds the settings shared by every session.
type Config struct {
	Rules       deck.Rules
	DefaultTier int
	IdleTTL     time.Duration // 0 disables expiry
}

// Session is one character's deck-building session.
type Session struct {
	ID         string
	Character  catalog.Character
	StartedAt  time.Time
	LastActive time.Time

	state     *deck.State
	available []deck.Card
	cards     map[int64]deck.Card

	// seq counts successful mutations. publishMu keeps deck events for
	// this session in seq order without holding the manager lock.
	seq       uint64
	publishMu sync.Mutex
}

// Snapshot is a read-only copy of a session.
type Snapshot struct {
	ID             string            `json:"id"`
	Character      catalog.Character `json:"character"`
	StartedAt      time.Time         `json:"startedAt"`
	LastActive     time.Time         `json:"lastActive"`
	AvailableCards int               `json:"availableCards"`
	Seq            uint64            `json:"seq"`
	Entries        []deck.Entry      `json:"entries"`
	Summary        deck.Summary      `json:"summary"`
}

// Manager tracks live sessions. All methods are safe for concurrent use;
// a single mutex serialises access to every deck state.
type Manager struct {
	catalog Catalog
	events  Publisher
	config  Config
	now     func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewManager creates a session manager. pub may be nil.
func NewManager(cat Catalog, pub Publisher, config Config) *Manager {
	return &Manager{
		catalog:  cat,
		events:   pub,
		config:   config,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

// Start opens a session for characterID with an empty deck at the default
// tier and the character's available cards.
func (m *Manager) Start(ctx context.Context, characterID int64) (Snapshot, error) {
	character, err := m.catalog.GetCharacter(ctx, characterID)
	if err != nil {
		return Snapshot{}, err
	}

	available, err := m.catalog.AvailableCards(ctx, characterID)
	if err != nil {
		return Snapshot{}, fmt.Errorf("load available cards: %w", err)
	}

	state := deck.NewState(m.config.Rules)
	if m.config.DefaultTier != 0 && m.config.DefaultTier != state.Metadata().TierLevel {
		if err := state.SetTier(m.config.DefaultTier); err != nil {
			return Snapshot{}, fmt.Errorf("default tier: %w", err)
		}
	}

	now := m.now()
	s := &Session{
		ID:         uuid.NewString(),
		Character:  character,
		StartedAt:  now,
		LastActive: now,
		state:      state,
		available:  available,
		cards:      make(map[int64]deck.Card, len(available)),
	}
	for _, c := range available {
		s.cards[c.ID] = c
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	snap := s.snapshot()
	m.mu.Unlock()

	log.Printf("Started deck session %s for character %s (%d cards available)", s.ID, character.Name, len(available))
	m.publish(ctx, events.TypeSessionStarted, s.ID, events.SessionStartedEvent{
		CharacterID:    characterID,
		Tier:           snap.Summary.TierLevel,
		AvailableCards: len(available),
	})
	return snap, nil
}

// mutate runs fn against the session's state under the lock and publishes a
// deck:updated event on success. Events of one session are dispatched in the
// order their mutations were applied.
func (m *Manager) mutate(ctx context.Context, sessionID string, fn func(s *Session) (events.DeckUpdatedEvent, error)) (deck.Summary, error) {
	m.mu.Lock()
	s, err := m.lookup(sessionID)
	if err != nil {
		m.mu.Unlock()
		return deck.Summary{}, err
	}

	update, err := fn(s)
	if err != nil {
		m.mu.Unlock()
		return deck.Summary{}, err
	}
	s.LastActive = m.now()
	s.seq++
	update.Seq = s.seq
	update.Summary = s.state.Summary()
	s.publishMu.Lock()
	m.mu.Unlock()
	defer s.publishMu.Unlock()

	m.publish(ctx, events.TypeDeckUpdated, sessionID, update)
	if update.Action == deck.ActionClear {
		m.publish(ctx, events.TypeDeckCleared, sessionID, events.DeckClearedEvent{Seq: update.Seq, Summary: update.Summary})
	}
	return update.Summary, nil
}

// AddCard adds one copy of cardID from the session's card pool.
func (m *Manager) AddCard(ctx context.Context, sessionID string, cardID int64) (deck.Summary, error) {
	return m.mutate(ctx, sessionID, func(s *Session) (events.DeckUpdatedEvent, error) {
		card, ok := s.cards[cardID]
		if !ok {
			return events.DeckUpdatedEvent{}, fmt.Errorf("%w: card %d", ErrCardUnavailable, cardID)
		}
		entry := s.state.AddCard(card)
		log.Printf("Added card %s to deck session %s (quantity %d)", card.Name, sessionID, entry.Quantity)
		return events.DeckUpdatedEvent{Action: deck.ActionAdd, CardID: cardID}, nil
	})
}

// RemoveCard takes one copy of cardID out of the deck.
func (m *Manager) RemoveCard(ctx context.Context, sessionID string, cardID int64) (deck.Summary, error) {
	return m.mutate(ctx, sessionID, func(s *Session) (events.DeckUpdatedEvent, error) {
		if err := s.state.RemoveCard(cardID); err != nil {
			return events.DeckUpdatedEvent{}, err
		}
		log.Printf("Removed card %d from deck session %s", cardID, sessionID)
		return events.DeckUpdatedEvent{Action: deck.ActionRemove, CardID: cardID}, nil
	})
}

// ClearDeck empties the deck. Economy counters and tier are kept.
func (m *Manager) ClearDeck(ctx context.Context, sessionID string) (deck.Summary, error) {
	return m.mutate(ctx, sessionID, func(s *Session) (events.DeckUpdatedEvent, error) {
		s.state.Clear()
		log.Printf("Cleared deck session %s", sessionID)
		return events.DeckUpdatedEvent{Action: deck.ActionClear}, nil
	})
}

// SetTier changes the deck's tier.
func (m *Manager) SetTier(ctx context.Context, sessionID string, tier int) (deck.Summary, error) {
	return m.mutate(ctx, sessionID, func(s *Session) (events.DeckUpdatedEvent, error) {
		if err := s.state.SetTier(tier); err != nil {
			return events.DeckUpdatedEvent{}, err
		}
		log.Printf("Set tier %d on deck session %s", tier, sessionID)
		return events.DeckUpdatedEvent{Action: deck.ActionSetTier, Tier: tier}, nil
	})
}

// RecordRemoval spends a removal token on cardID from the session's card pool.
func (m *Manager) RecordRemoval(ctx context.Context, sessionID string, cardID int64) (deck.Summary, error) {
	return m.mutate(ctx, sessionID, func(s *Session) (events.DeckUpdatedEvent, error) {
		card, ok := s.cards[cardID]
		if !ok {
			return events.DeckUpdatedEvent{}, fmt.Errorf("%w: card %d", ErrCardUnavailable, cardID)
		}
		s.state.RecordRemoval(card)
		log.Printf("Recorded removal of card %s in deck session %s", card.Name, sessionID)
		return events.DeckUpdatedEvent{Action: deck.ActionRecordRemoval, CardID: cardID}, nil
	})
}

// Get returns a snapshot of the session.
func (m *Manager) Get(sessionID string) (Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, err := m.lookup(sessionID)
	if err != nil {
		return Snapshot{}, err
	}
	return s.snapshot(), nil
}

// Summary returns the current deck summary.
func (m *Manager) Summary(sessionID string) (deck.Summary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, err := m.lookup(sessionID)
	if err != nil {
		return deck.Summary{}, err
	}
	return s.state.Summary(), nil
}

// Entries returns the deck entries in the order they were first added.
func (m *Manager) Entries(sessionID string) ([]deck.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, err := m.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	return s.state.Entries(), nil
}

// History returns the session's mutation history, oldest first.
func (m *Manager) History(sessionID string) ([]deck.Action, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, err := m.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	return s.state.History(), nil
}

// AvailableCards returns the session's card pool.
func (m *Manager) AvailableCards(sessionID string) ([]deck.Card, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, err := m.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	out := make([]deck.Card, len(s.available))
	copy(out, s.available)
	return out, nil
}

// End discards the session and its deck.
func (m *Manager) End(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	if _, err := m.lookup(sessionID); err != nil {
		m.mu.Unlock()
		return err
	}
	delete(m.sessions, sessionID)
	m.mu.Unlock()

	log.Printf("Ended deck session %s", sessionID)
	m.publish(ctx, events.TypeSessionEnded, sessionID, events.SessionEndedEvent{Reason: "ended"})
	return nil
}

// Sweep ends sessions idle for longer than the configured TTL as of now and
// returns how many were removed.
func (m *Manager) Sweep(now time.Time) int {
	if m.config.IdleTTL <= 0 {
		return 0
	}

	m.mu.Lock()
	var expired []string
	for id, s := range m.sessions {
		if now.Sub(s.LastActive) > m.config.IdleTTL {
			expired = append(expired, id)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, id := range expired {
		log.Printf("Expired idle deck session %s", id)
		m.publish(context.Background(), events.TypeSessionEnded, id, events.SessionEndedEvent{Reason: "expired"})
	}
	return len(expired)
}

// RunSweeper calls Sweep every interval until ctx is cancelled.
func (m *Manager) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case t := <-ticker.C:
			if n := m.Sweep(t); n > 0 {
				log.Printf("Swept %d idle deck sessions", n)
			}
		}
	}
}

// Rules returns the cost table sessions are priced with.
func (m *Manager) Rules() deck.Rules {
	return m.config.Rules
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func (m *Manager) lookup(sessionID string) (*Session, error) {
	s, ok := m.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	return s, nil
}

func (m *Manager) publish(ctx context.Context, eventType, sessionID string, data any) {
	if m.events == nil {
		return
	}
	m.events.Dispatch(events.NewTypedEvent(ctx, eventType, sessionID, data))
}

func (s *Session) snapshot() Snapshot {
	entries := s.state.Entries()
	if entries == nil {
		entries = []deck.Entry{}
	}
	return Snapshot{
		ID:             s.ID,
		Character:      s.Character,
		StartedAt:      s.StartedAt,
		LastActive:     s.LastActive,
		AvailableCards: len(s.available),
		Seq:            s.seq,
		Entries:        entries,
		Summary:        s.state.Summary(),
	}
}
