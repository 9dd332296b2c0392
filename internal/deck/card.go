// Package deck implements the deck cost-accounting engine: per-card PT values,
// escalating duplication and removal costs, tier budgets and category roll-ups.
//
// Everything in this package is deterministic and free of I/O. A State is owned
// by exactly one deck-building session and must not be shared between goroutines
// without external synchronization.
package deck

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Category is the card's budget category.
type Category string

const (
	CategoryNeutral   Category = "NEUTRAL"
	CategoryMonster   Category = "MONSTER"
	CategoryForbidden Category = "FORBIDDEN"
)

// ParseCategory normalizes a raw category string. An empty value is NEUTRAL.
// Unrecognized values are upper-cased and kept so callers can still group by them.
func ParseCategory(s string) Category {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return CategoryNeutral
	}
	return Category(s)
}

// Known reports whether c is one of the categories the cost table understands.
// The zero value counts as known (it means NEUTRAL).
func (c Category) Known() bool {
	switch c {
	case "", CategoryNeutral, CategoryMonster, CategoryForbidden:
		return true
	}
	return false
}

// OrDefault returns NEUTRAL for the zero value.
func (c Category) OrDefault() Category {
	if c == "" {
		return CategoryNeutral
	}
	return c
}

// Modifier is a bit-set of card traits. Each bit contributes its own PT delta.
type Modifier uint8

const (
	ModGlimmer Modifier = 1 << iota
	ModDivineGlimmer
	ModStartCard
	ModBasic
)

var modifierNames = []struct {
	flag Modifier
	name string
}{
	{ModGlimmer, "GLIMMER"},
	{ModDivineGlimmer, "DIVINE_GLIMMER"},
	{ModStartCard, "START_CARD"},
	{ModBasic, "BASIC"},
}

// Has reports whether every bit in flag is set.
func (m Modifier) Has(flag Modifier) bool {
	return m&flag == flag
}

// With returns m with flag set.
func (m Modifier) With(flag Modifier) Modifier {
	return m | flag
}

// Names returns the set modifiers in declaration order.
func (m Modifier) Names() []string {
	names := make([]string, 0, len(modifierNames))
	for _, mn := range modifierNames {
		if m.Has(mn.flag) {
			names = append(names, mn.name)
		}
	}
	return names
}

func (m Modifier) String() string {
	if m == 0 {
		return "NONE"
	}
	return strings.Join(m.Names(), "|")
}

// ParseModifier converts a modifier name (case-insensitive) to its flag.
func ParseModifier(name string) (Modifier, error) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	for _, mn := range modifierNames {
		if mn.name == upper {
			return mn.flag, nil
		}
	}
	return 0, fmt.Errorf("unknown card modifier %q", name)
}

// MarshalJSON encodes the set as a list of names.
func (m Modifier) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.Names())
}

// UnmarshalJSON decodes a list of modifier names.
func (m *Modifier) UnmarshalJSON(data []byte) error {
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return fmt.Errorf("modifiers must be a list of names: %w", err)
	}
	var out Modifier
	for _, name := range names {
		flag, err := ParseModifier(name)
		if err != nil {
			return err
		}
		out = out.With(flag)
	}
	*m = out
	return nil
}

// Card is an immutable catalog record as seen by the engine.
// Rarity, CardType and Cost are descriptive and never enter PT math.
type Card struct {
	ID          int64    `json:"id"`
	CharacterID *int64   `json:"characterId,omitempty"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Category    Category `json:"category"`
	Modifiers   Modifier `json:"modifiers"`
	Rarity      string   `json:"rarity,omitempty"`
	CardType    string   `json:"cardType,omitempty"`
	Cost        int      `json:"cost"`
	ImageURL    string   `json:"imageUrl,omitempty"`

	// PTValue is the catalog's flat PT, used only when the category cannot be priced.
	PTValue *int `json:"ptValue,omitempty"`

	// CachedPT, when set, overrides every other PT source.
	CachedPT *int `json:"cachedPt,omitempty"`
}

func (c Card) clone() Card {
	if c.CharacterID != nil {
		id := *c.CharacterID
		c.CharacterID = &id
	}
	if c.PTValue != nil {
		v := *c.PTValue
		c.PTValue = &v
	}
	if c.CachedPT != nil {
		v := *c.CachedPT
		c.CachedPT = &v
	}
	return c
}

// IsGlimmer reports the GLIMMER modifier.
func (c Card) IsGlimmer() bool { return c.Modifiers.Has(ModGlimmer) }

// IsDivineGlimmer reports the DIVINE_GLIMMER modifier.
func (c Card) IsDivineGlimmer() bool { return c.Modifiers.Has(ModDivineGlimmer) }

// IsStartCard reports the START_CARD modifier.
func (c Card) IsStartCard() bool { return c.Modifiers.Has(ModStartCard) }

// IsBasic reports the BASIC modifier.
func (c Card) IsBasic() bool { return c.Modifiers.Has(ModBasic) }
