package catalog

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/ramonehamilton/chaos-zero-companion/internal/deck"
	"github.com/ramonehamilton/chaos-zero-companion/internal/storage/models"
)

// ErrInvalidInput is returned when a catalog write carries unusable fields.
var ErrInvalidInput = errors.New("invalid catalog input")

// CharacterInput is the writable part of a character.
type CharacterInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
}

// Validate trims the name and requires it.
func (in *CharacterInput) Validate() error {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	return nil
}

func (in CharacterInput) row(id int64) *models.Character {
	return &models.Character{
		ID:          id,
		Name:        in.Name,
		Description: in.Description,
		ImageURL:    in.ImageURL,
	}
}

// CardInput is the writable part of a card. A nil CharacterID makes the card
// neutral. Blank CardType and Rarity default to ATTACK and COMMON.
type CardInput struct {
	CharacterID *int64        `json:"characterId"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Cost        int           `json:"cost"`
	CardType    string        `json:"cardType"`
	Rarity      string        `json:"rarity"`
	Category    string        `json:"category"`
	Modifiers   deck.Modifier `json:"modifiers"`
	PTValue     *int          `json:"ptValue"`
	ImageURL    string        `json:"imageUrl"`
}

// Validate trims the name and rejects negative or missing values.
func (in *CardInput) Validate() error {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if in.CharacterID != nil && *in.CharacterID <= 0 {
		return fmt.Errorf("%w: characterId must be positive", ErrInvalidInput)
	}
	if in.Cost < 0 {
		return fmt.Errorf("%w: cost cannot be negative", ErrInvalidInput)
	}
	if in.PTValue != nil && *in.PTValue < 0 {
		return fmt.Errorf("%w: ptValue cannot be negative", ErrInvalidInput)
	}
	return nil
}

func (in CardInput) row(id int64) *models.Card {
	row := &models.Card{
		ID:              id,
		Name:            in.Name,
		Description:     in.Description,
		Cost:            in.Cost,
		CardType:        strings.ToUpper(strings.TrimSpace(in.CardType)),
		Rarity:          strings.ToUpper(strings.TrimSpace(in.Rarity)),
		Category:        strings.ToUpper(strings.TrimSpace(in.Category)),
		IsGlimmer:       in.Modifiers.Has(deck.ModGlimmer),
		IsDivineGlimmer: in.Modifiers.Has(deck.ModDivineGlimmer),
		IsStartCard:     in.Modifiers.Has(deck.ModStartCard),
		IsBasicCard:     in.Modifiers.Has(deck.ModBasic),
		IsNeutral:       in.CharacterID == nil,
		PTValue:         in.PTValue,
		ImageURL:        in.ImageURL,
	}
	if in.CharacterID != nil {
		id := *in.CharacterID
		row.CharacterID = &id
	}
	if row.CardType == "" {
		row.CardType = defaultCardType
	}
	if row.Rarity == "" {
		row.Rarity = defaultRarity
	}
	if row.IsNeutral && row.Category == "" {
		row.Category = string(deck.CategoryNeutral)
	}
	return row
}

// CreateCharacter adds a character with a generated ID.
func (s *Service) CreateCharacter(ctx context.Context, in CharacterInput) (Character, error) {
	if err := in.Validate(); err != nil {
		return Character{}, err
	}

	row := in.row(0)
	if err := s.store.CreateCharacter(ctx, row); err != nil {
		return Character{}, fmt.Errorf("create character: %w", err)
	}

	log.Printf("Created character %d (%s)", row.ID, row.Name)
	return toCharacter(row), nil
}

// UpdateCharacter replaces the character's fields or returns ErrCharacterNotFound.
func (s *Service) UpdateCharacter(ctx context.Context, id int64, in CharacterInput) (Character, error) {
	if err := in.Validate(); err != nil {
		return Character{}, err
	}

	row := in.row(id)
	found, err := s.store.UpdateCharacter(ctx, row)
	if err != nil {
		return Character{}, fmt.Errorf("update character %d: %w", id, err)
	}
	if !found {
		return Character{}, fmt.Errorf("%w: %d", ErrCharacterNotFound, id)
	}

	log.Printf("Updated character %d (%s)", id, row.Name)
	return toCharacter(row), nil
}

// DeleteCharacter removes the character and its cards or returns ErrCharacterNotFound.
func (s *Service) DeleteCharacter(ctx context.Context, id int64) error {
	removed, err := s.store.DeleteCharacter(ctx, id)
	if err != nil {
		return fmt.Errorf("delete character %d: %w", id, err)
	}
	if !removed {
		return fmt.Errorf("%w: %d", ErrCharacterNotFound, id)
	}

	log.Printf("Deleted character %d", id)
	return nil
}

// CreateCard adds a card with a generated ID. The owning character, if any,
// must exist.
func (s *Service) CreateCard(ctx context.Context, in CardInput) (deck.Card, error) {
	if err := s.checkCardInput(ctx, &in); err != nil {
		return deck.Card{}, err
	}

	row := in.row(0)
	if err := s.store.CreateCard(ctx, row); err != nil {
		return deck.Card{}, fmt.Errorf("create card: %w", err)
	}

	log.Printf("Created card %d (%s)", row.ID, row.Name)
	return ToCard(row), nil
}

// UpdateCard replaces the card's fields or returns ErrCardNotFound.
func (s *Service) UpdateCard(ctx context.Context, id int64, in CardInput) (deck.Card, error) {
	if err := s.checkCardInput(ctx, &in); err != nil {
		return deck.Card{}, err
	}

	row := in.row(id)
	found, err := s.store.UpdateCard(ctx, row)
	if err != nil {
		return deck.Card{}, fmt.Errorf("update card %d: %w", id, err)
	}
	if !found {
		return deck.Card{}, fmt.Errorf("%w: %d", ErrCardNotFound, id)
	}

	log.Printf("Updated card %d (%s)", id, row.Name)
	return ToCard(row), nil
}

// DeleteCard removes the card or returns ErrCardNotFound.
func (s *Service) DeleteCard(ctx context.Context, id int64) error {
	removed, err := s.store.DeleteCard(ctx, id)
	if err != nil {
		return fmt.Errorf("delete card %d: %w", id, err)
	}
	if !removed {
		return fmt.Errorf("%w: %d", ErrCardNotFound, id)
	}

	log.Printf("Deleted card %d", id)
	return nil
}

func (s *Service) checkCardInput(ctx context.Context, in *CardInput) error {
	if err := in.Validate(); err != nil {
		return err
	}
	if in.CharacterID != nil {
		if _, err := s.GetCharacter(ctx, *in.CharacterID); err != nil {
			return err
		}
	}
	return nil
}
