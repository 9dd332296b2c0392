package deck

import (
	"fmt"
	"slices"
)

// Entry is the deck's bookkeeping record for one distinct card.
type Entry struct {
	Card           Card `json:"card"`
	Quantity       int  `json:"quantity"`
	DuplicateCount int  `json:"duplicateCount"`
}

// Metadata holds the deck-wide economy counters and the selected tier.
// Counters record spent events, not current composition, so they only grow.
type Metadata struct {
	RemoveCount                 int `json:"removeCount"`
	DuplicateCount              int `json:"duplicateCount"`
	StartCardRemoveCount        int `json:"startCardRemoveCount"`
	DivineGlimmerDuplicateCount int `json:"divineGlimmerDuplicateCount"`
	TierLevel                   int `json:"tierLevel"`
}

// State is the mutable deck aggregate for one session. Derived totals are
// never stored; Summary recomputes them from entries and metadata.
type State struct {
	rules   Rules
	entries []Entry
	index   map[int64]int
	meta    Metadata
	history []Action
}

// NewState returns an empty deck at the lowest tier.
func NewState(rules Rules) *State {
	return &State{
		rules: rules,
		index: make(map[int64]int),
		meta:  Metadata{TierLevel: rules.MinTier},
	}
}

// Rules returns the cost table the state was created with.
func (s *State) Rules() Rules {
	return s.rules
}

// AddCard adds one copy of card. The first copy creates the entry; every
// later copy is a duplication and advances the duplication economy.
func (s *State) AddCard(card Card) Entry {
	i, ok := s.index[card.ID]
	if !ok {
		s.entries = append(s.entries, Entry{Card: card, Quantity: 1})
		i = len(s.entries) - 1
		s.index[card.ID] = i
	} else {
		e := &s.entries[i]
		e.Quantity++
		e.DuplicateCount++
		s.meta.DuplicateCount++
		if e.Card.IsDivineGlimmer() {
			s.meta.DivineGlimmerDuplicateCount++
		}
	}

	s.record(Action{Kind: ActionAdd, CardID: card.ID, Card: &card})
	return s.entries[i]
}

// RemoveCard takes one copy of cardID out of the deck, deleting the entry at
// quantity 1. Economy counters are untouched; see RecordRemoval.
func (s *State) RemoveCard(cardID int64) error {
	i, ok := s.index[cardID]
	if !ok {
		return fmt.Errorf("%w: card %d", ErrEntryNotFound, cardID)
	}

	if s.entries[i].Quantity > 1 {
		s.entries[i].Quantity--
	} else {
		s.entries = slices.Delete(s.entries, i, i+1)
		s.reindex()
	}

	s.record(Action{Kind: ActionRemove, CardID: cardID})
	return nil
}

// Clear empties the deck. Economy counters and tier survive.
func (s *State) Clear() {
	s.entries = nil
	clear(s.index)
	s.record(Action{Kind: ActionClear})
}

// SetTier changes the tier, rejecting values outside the rules' range.
func (s *State) SetTier(tier int) error {
	meta, err := s.rules.SetTier(s.meta, tier)
	if err != nil {
		return err
	}
	s.meta = meta
	s.record(Action{Kind: ActionSetTier, Tier: tier})
	return nil
}

// RecordRemoval spends one removal token on card. It advances the removal
// economy (and the start-card surcharge for START cards) without changing
// deck composition; the card does not need to be in the deck.
func (s *State) RecordRemoval(card Card) {
	s.meta.RemoveCount++
	if card.IsStartCard() {
		s.meta.StartCardRemoveCount++
	}
	s.record(Action{Kind: ActionRecordRemoval, CardID: card.ID, Card: &card})
}

// Entries returns a copy of the entries in the order they were first added.
func (s *State) Entries() []Entry {
	return slices.Clone(s.entries)
}

// Entry looks up the entry for cardID.
func (s *State) Entry(cardID int64) (Entry, bool) {
	i, ok := s.index[cardID]
	if !ok {
		return Entry{}, false
	}
	return s.entries[i], true
}

// Metadata returns the economy counters and tier.
func (s *State) Metadata() Metadata {
	return s.meta
}

// History returns a copy of every successful mutation, oldest first.
func (s *State) History() []Action {
	return cloneActions(s.history)
}

// Clone returns an independent copy of s.
func (s *State) Clone() *State {
	c := &State{
		rules:   s.rules,
		entries: slices.Clone(s.entries),
		index:   make(map[int64]int, len(s.index)),
		meta:    s.meta,
		history: cloneActions(s.history),
	}
	c.rules.EscalationSteps = slices.Clone(s.rules.EscalationSteps)
	for id, i := range s.index {
		c.index[id] = i
	}
	return c
}

func (s *State) reindex() {
	clear(s.index)
	for i, e := range s.entries {
		s.index[e.Card.ID] = i
	}
}

func (s *State) record(a Action) {
	s.history = append(s.history, a)
}

func cloneActions(actions []Action) []Action {
	if actions == nil {
		return nil
	}
	out := make([]Action, len(actions))
	for i, a := range actions {
		if a.Card != nil {
			c := a.Card.clone()
			a.Card = &c
		}
		out[i] = a
	}
	return out
}
