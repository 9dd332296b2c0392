package deck

import "fmt"

// ActionKind names a deck mutation.
type ActionKind string

const (
	ActionAdd           ActionKind = "add"
	ActionRemove        ActionKind = "remove"
	ActionClear         ActionKind = "clear"
	ActionSetTier       ActionKind = "set_tier"
	ActionRecordRemoval ActionKind = "record_removal"
)

// Action is one entry of a deck's mutation history. Card is set for add and
// record_removal, Tier for set_tier.
type Action struct {
	Kind   ActionKind `json:"kind"`
	CardID int64      `json:"cardId,omitempty"`
	Card   *Card      `json:"card,omitempty"`
	Tier   int        `json:"tier,omitempty"`
}

// Replay rebuilds a state by applying actions to a fresh deck. It stops at
// the first action that fails and reports its position.
func Replay(rules Rules, actions []Action) (*State, error) {
	s := NewState(rules)
	for i, a := range actions {
		if err := s.Apply(a); err != nil {
			return nil, fmt.Errorf("replay action %d (%s): %w", i, a.Kind, err)
		}
	}
	return s, nil
}

// Apply performs a single action. A failed action leaves s unchanged.
func (s *State) Apply(a Action) error {
	switch a.Kind {
	case ActionAdd:
		if a.Card == nil {
			return fmt.Errorf("add action for card %d has no card", a.CardID)
		}
		s.AddCard(*a.Card)
	case ActionRemove:
		return s.RemoveCard(a.CardID)
	case ActionClear:
		s.Clear()
	case ActionSetTier:
		return s.SetTier(a.Tier)
	case ActionRecordRemoval:
		if a.Card == nil {
			return fmt.Errorf("record_removal action for card %d has no card", a.CardID)
		}
		s.RecordRemoval(*a.Card)
	default:
		return fmt.Errorf("unknown action kind %q", a.Kind)
	}
	return nil
}
