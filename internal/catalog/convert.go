package catalog

import (
	"github.com/ramonehamilton/chaos-zero-companion/internal/deck"
	"github.com/ramonehamilton/chaos-zero-companion/internal/storage/models"
)

// ToCard converts a stored row into the engine's card. The stored boolean
// flags collapse into the modifier bit-set; an empty category is NEUTRAL.
func ToCard(row *models.Card) deck.Card {
	var mods deck.Modifier
	if row.IsGlimmer {
		mods = mods.With(deck.ModGlimmer)
	}
	if row.IsDivineGlimmer {
		mods = mods.With(deck.ModDivineGlimmer)
	}
	if row.IsStartCard {
		mods = mods.With(deck.ModStartCard)
	}
	if row.IsBasicCard {
		mods = mods.With(deck.ModBasic)
	}

	card := deck.Card{
		ID:          row.ID,
		Name:        row.Name,
		Description: row.Description,
		Category:    deck.ParseCategory(row.Category),
		Modifiers:   mods,
		Rarity:      row.Rarity,
		CardType:    row.CardType,
		Cost:        row.Cost,
		ImageURL:    row.ImageURL,
	}
	if row.CharacterID != nil {
		id := *row.CharacterID
		card.CharacterID = &id
	}
	if row.PTValue != nil {
		pt := *row.PTValue
		card.PTValue = &pt
	}
	return card
}

// ToCards converts a slice of rows, preserving order.
func ToCards(rows []*models.Card) []deck.Card {
	cards := make([]deck.Card, 0, len(rows))
	for _, row := range rows {
		cards = append(cards, ToCard(row))
	}
	return cards
}
