package catalog

import (
	"strings"

	"github.com/ramonehamilton/chaos-zero-companion/internal/deck"
)

// Search filters cards whose name contains term, ignoring case.
// A blank term returns cards unchanged.
func Search(cards []deck.Card, term string) []deck.Card {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return cards
	}

	out := make([]deck.Card, 0, len(cards))
	for _, c := range cards {
		if strings.Contains(strings.ToLower(c.Name), term) {
			out = append(out, c)
		}
	}
	return out
}
