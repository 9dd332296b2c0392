// Package models defines the catalog rows stored in SQLite.
package models

import "time"

// Character is a playable character that owns a set of cards.
type Character struct {
	ID          int64
	Name        string
	Description string
	ImageURL    string
	CreatedAt   time.Time
}

// Card is a single catalog card row.
// Neutral cards have no CharacterID and IsNeutral set.
type Card struct {
	ID              int64
	CharacterID     *int64 // Nullable
	Name            string
	Description     string
	Cost            int
	CardType        string // "ATTACK", "SKILL", ...
	Rarity          string // "COMMON", "RARE", ...
	Category        string // "", "NEUTRAL", "MONSTER", "FORBIDDEN"
	IsGlimmer       bool
	IsDivineGlimmer bool
	IsStartCard     bool
	IsBasicCard     bool
	IsNeutral       bool
	PTValue         *int // Nullable flat PT fallback
	ImageURL        string
	CreatedAt       time.Time
}
