// Package catalog is the card catalog. It turns stored rows into engine cards,
// assembles the card pool a character may build from, and validates catalog
// edits before they reach storage.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/ramonehamilton/chaos-zero-companion/internal/deck"
	"github.com/ramonehamilton/chaos-zero-companion/internal/storage/models"
)

var (
	// ErrCharacterNotFound is returned when a character ID has no catalog row.
	ErrCharacterNotFound = errors.New("character not found")

	// ErrCardNotFound is returned when a card ID has no catalog row.
	ErrCardNotFound = errors.New("card not found")
)

// Store is the persistence behind the catalog. *storage.Service satisfies it.
// Update and delete methods report false when the row does not exist.
type Store interface {
	ListCharacters(ctx context.Context) ([]*models.Character, error)
	GetCharacter(ctx context.Context, id int64) (*models.Character, error)
	ListCards(ctx context.Context) ([]*models.Card, error)
	GetCard(ctx context.Context, id int64) (*models.Card, error)
	GetCardsByCharacter(ctx context.Context, characterID int64) ([]*models.Card, error)
	GetNeutralCards(ctx context.Context) ([]*models.Card, error)
	ImportCatalog(ctx context.Context, characters []*models.Character, cards []*models.Card) error

	CreateCharacter(ctx context.Context, character *models.Character) error
	UpdateCharacter(ctx context.Context, character *models.Character) (bool, error)
	DeleteCharacter(ctx context.Context, id int64) (bool, error)
	CreateCard(ctx context.Context, card *models.Card) error
	UpdateCard(ctx context.Context, card *models.Card) (bool, error)
	DeleteCard(ctx context.Context, id int64) (bool, error)
}

// Character is a playable character as exposed to clients.
type Character struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
}

// Service provides catalog lookups.
type Service struct {
	store Store
}

// NewService creates a catalog service over store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// ListCharacters returns every character.
func (s *Service) ListCharacters(ctx context.Context) ([]Character, error) {
	rows, err := s.store.ListCharacters(ctx)
	if err != nil {
		return nil, fmt.Errorf("list characters: %w", err)
	}

	characters := make([]Character, 0, len(rows))
	for _, row := range rows {
		characters = append(characters, toCharacter(row))
	}
	return characters, nil
}

// GetCharacter returns the character with id or ErrCharacterNotFound.
func (s *Service) GetCharacter(ctx context.Context, id int64) (Character, error) {
	row, err := s.store.GetCharacter(ctx, id)
	if err != nil {
		return Character{}, fmt.Errorf("get character %d: %w", id, err)
	}
	if row == nil {
		return Character{}, fmt.Errorf("%w: %d", ErrCharacterNotFound, id)
	}
	return toCharacter(row), nil
}

// ListCards returns every card in the catalog.
func (s *Service) ListCards(ctx context.Context) ([]deck.Card, error) {
	rows, err := s.store.ListCards(ctx)
	if err != nil {
		return nil, fmt.Errorf("list cards: %w", err)
	}
	return ToCards(rows), nil
}

// GetCard returns the card with id or ErrCardNotFound.
func (s *Service) GetCard(ctx context.Context, id int64) (deck.Card, error) {
	row, err := s.store.GetCard(ctx, id)
	if err != nil {
		return deck.Card{}, fmt.Errorf("get card %d: %w", id, err)
	}
	if row == nil {
		return deck.Card{}, fmt.Errorf("%w: %d", ErrCardNotFound, id)
	}
	return ToCard(row), nil
}

// CharacterCards returns the cards owned by a character.
func (s *Service) CharacterCards(ctx context.Context, characterID int64) ([]deck.Card, error) {
	rows, err := s.store.GetCardsByCharacter(ctx, characterID)
	if err != nil {
		return nil, fmt.Errorf("get cards for character %d: %w", characterID, err)
	}
	return ToCards(rows), nil
}

// NeutralCards returns the cards every character may take.
func (s *Service) NeutralCards(ctx context.Context) ([]deck.Card, error) {
	rows, err := s.store.GetNeutralCards(ctx)
	if err != nil {
		return nil, fmt.Errorf("get neutral cards: %w", err)
	}
	return ToCards(rows), nil
}

// AvailableCards returns the character's own cards followed by every neutral
// card, fetched concurrently and deduplicated by ID. The character must exist.
func (s *Service) AvailableCards(ctx context.Context, characterID int64) ([]deck.Card, error) {
	if _, err := s.GetCharacter(ctx, characterID); err != nil {
		return nil, err
	}

	var owned, neutral []deck.Card
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		owned, err = s.CharacterCards(gctx, characterID)
		return err
	})
	g.Go(func() error {
		var err error
		neutral, err = s.NeutralCards(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	seen := make(map[int64]struct{}, len(owned)+len(neutral))
	cards := make([]deck.Card, 0, len(owned)+len(neutral))
	for _, list := range [][]deck.Card{owned, neutral} {
		for _, c := range list {
			if _, dup := seen[c.ID]; dup {
				continue
			}
			seen[c.ID] = struct{}{}
			cards = append(cards, c)
		}
	}
	return cards, nil
}

func toCharacter(row *models.Character) Character {
	return Character{
		ID:          row.ID,
		Name:        row.Name,
		Description: row.Description,
		ImageURL:    row.ImageURL,
	}
}
