package catalog

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/ramonehamilton/chaos-zero-companion/internal/deck"
	"github.com/ramonehamilton/chaos-zero-companion/internal/storage/models"
)

// Defaults applied to seed cards that leave the descriptive fields blank.
const (
	defaultCardType = "ATTACK"
	defaultRarity   = "COMMON"
)

// Seed is the content of a catalog seed file.
type Seed struct {
	Characters []SeedCharacter `toml:"characters"`
	Cards      []SeedCard      `toml:"cards"`
}

// SeedCharacter is one [[characters]] table.
type SeedCharacter struct {
	ID          int64  `toml:"id"`
	Name        string `toml:"name"`
	Description string `toml:"description"`
	ImageURL    string `toml:"image_url"`
}

// SeedCard is one [[cards]] table. Cards without character_id are neutral.
type SeedCard struct {
	ID          int64    `toml:"id"`
	CharacterID int64    `toml:"character_id"`
	Name        string   `toml:"name"`
	Description string   `toml:"description"`
	Cost        int      `toml:"cost"`
	CardType    string   `toml:"card_type"`
	Rarity      string   `toml:"rarity"`
	Category    string   `toml:"category"`
	Modifiers   []string `toml:"modifiers"` // GLIMMER, DIVINE_GLIMMER, START_CARD, BASIC
	PTValue     *int     `toml:"pt_value"`
	ImageURL    string   `toml:"image_url"`
}

// LoadSeedFile reads and validates a TOML seed file.
func LoadSeedFile(path string) (*Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return ParseSeed(data)
}

// ParseSeed decodes and validates seed content.
func ParseSeed(data []byte) (*Seed, error) {
	var seed Seed
	if err := toml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	if err := seed.Validate(); err != nil {
		return nil, err
	}
	return &seed, nil
}

// Validate checks IDs, names and modifier names. Character references are
// left to the database foreign key so a seed may extend existing characters.
func (s *Seed) Validate() error {
	characters := make(map[int64]bool, len(s.Characters))
	for i, c := range s.Characters {
		if c.ID <= 0 {
			return fmt.Errorf("characters[%d]: id must be positive", i)
		}
		if c.Name == "" {
			return fmt.Errorf("characters[%d]: name is required", i)
		}
		if characters[c.ID] {
			return fmt.Errorf("characters[%d]: duplicate id %d", i, c.ID)
		}
		characters[c.ID] = true
	}

	cards := make(map[int64]bool, len(s.Cards))
	for i, c := range s.Cards {
		if c.ID <= 0 {
			return fmt.Errorf("cards[%d]: id must be positive", i)
		}
		if c.Name == "" {
			return fmt.Errorf("cards[%d]: name is required", i)
		}
		if cards[c.ID] {
			return fmt.Errorf("cards[%d]: duplicate id %d", i, c.ID)
		}
		cards[c.ID] = true

		if c.CharacterID < 0 {
			return fmt.Errorf("cards[%d]: character_id cannot be negative", i)
		}
		if _, err := c.modifiers(); err != nil {
			return fmt.Errorf("cards[%d]: %w", i, err)
		}
	}
	return nil
}

func (c SeedCard) modifiers() (deck.Modifier, error) {
	var mods deck.Modifier
	for _, name := range c.Modifiers {
		flag, err := deck.ParseModifier(name)
		if err != nil {
			return 0, err
		}
		mods = mods.With(flag)
	}
	return mods, nil
}

func (c SeedCard) row() *models.Card {
	mods, _ := c.modifiers()

	in := CardInput{
		Name:        c.Name,
		Description: c.Description,
		Cost:        c.Cost,
		CardType:    c.CardType,
		Rarity:      c.Rarity,
		Category:    c.Category,
		Modifiers:   mods,
		PTValue:     c.PTValue,
		ImageURL:    c.ImageURL,
	}
	if c.CharacterID != 0 {
		id := c.CharacterID
		in.CharacterID = &id
	}
	return in.row(c.ID)
}

// Import validates seed and upserts its characters and cards in one transaction.
func (s *Service) Import(ctx context.Context, seed *Seed) error {
	if err := seed.Validate(); err != nil {
		return err
	}

	characters := make([]*models.Character, 0, len(seed.Characters))
	for _, c := range seed.Characters {
		characters = append(characters, &models.Character{
			ID:          c.ID,
			Name:        c.Name,
			Description: c.Description,
			ImageURL:    c.ImageURL,
		})
	}

	cards := make([]*models.Card, 0, len(seed.Cards))
	for _, c := range seed.Cards {
		cards = append(cards, c.row())
	}

	if err := s.store.ImportCatalog(ctx, characters, cards); err != nil {
		return fmt.Errorf("import catalog: %w", err)
	}

	log.Printf("Imported %d characters and %d cards into catalog", len(characters), len(cards))
	return nil
}
