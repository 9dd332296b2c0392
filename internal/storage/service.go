package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ramonehamilton/chaos-zero-companion/internal/storage/models"
	"github.com/ramonehamilton/chaos-zero-companion/internal/storage/repository"
)

// Service provides high-level access to the card catalog.
type Service struct {
	db         *DB
	characters repository.CharacterRepository
	cards      repository.CardRepository
}

// NewService creates a new storage service.
func NewService(db *DB) *Service {
	return &Service{
		db:         db,
		characters: repository.NewCharacterRepository(db.Conn()),
		cards:      repository.NewCardRepository(db.Conn()),
	}
}

// ListCharacters returns every character.
func (s *Service) ListCharacters(ctx context.Context) ([]*models.Character, error) {
	return s.characters.List(ctx)
}

// GetCharacter returns a character by ID, or nil if it does not exist.
func (s *Service) GetCharacter(ctx context.Context, id int64) (*models.Character, error) {
	return s.characters.GetByID(ctx, id)
}

// ListCards returns every catalog card.
func (s *Service) ListCards(ctx context.Context) ([]*models.Card, error) {
	return s.cards.List(ctx)
}

// GetCard returns a card by ID, or nil if it does not exist.
func (s *Service) GetCard(ctx context.Context, id int64) (*models.Card, error) {
	return s.cards.GetByID(ctx, id)
}

// GetCardsByCharacter returns the cards owned by a character.
func (s *Service) GetCardsByCharacter(ctx context.Context, characterID int64) ([]*models.Card, error) {
	return s.cards.GetByCharacter(ctx, characterID)
}

// GetNeutralCards returns the cards any character may take.
func (s *Service) GetNeutralCards(ctx context.Context) ([]*models.Card, error) {
	return s.cards.GetNeutral(ctx)
}

// ImportCatalog upserts characters and cards in a single transaction.
// Characters are written first so card foreign keys resolve.
func (s *Service) ImportCatalog(ctx context.Context, characters []*models.Character, cards []*models.Card) error {
	return RetryOnBusy(ctx, func() error {
		return s.db.WithTransaction(ctx, func(tx *sql.Tx) error {
			charRepo := repository.NewCharacterRepository(tx)
			cardRepo := repository.NewCardRepository(tx)

			for _, c := range characters {
				if err := charRepo.Upsert(ctx, c); err != nil {
					return fmt.Errorf("import character: %w", err)
				}
			}
			for _, c := range cards {
				if err := cardRepo.Upsert(ctx, c); err != nil {
					return fmt.Errorf("import card: %w", err)
				}
			}
			return nil
		})
	})
}

// CreateCharacter inserts a character and sets its generated ID.
func (s *Service) CreateCharacter(ctx context.Context, character *models.Character) error {
	return RetryOnBusy(ctx, func() error {
		return s.characters.Create(ctx, character)
	})
}

// UpdateCharacter replaces an existing character's fields. It reports false
// when no character has that ID.
func (s *Service) UpdateCharacter(ctx context.Context, character *models.Character) (bool, error) {
	var found bool
	err := RetryOnBusy(ctx, func() error {
		return s.db.WithTransaction(ctx, func(tx *sql.Tx) error {
			repo := repository.NewCharacterRepository(tx)
			existing, err := repo.GetByID(ctx, character.ID)
			if err != nil {
				return err
			}
			if found = existing != nil; !found {
				return nil
			}
			return repo.Upsert(ctx, character)
		})
	})
	return found, err
}

// DeleteCharacter removes a character and every card it owns.
func (s *Service) DeleteCharacter(ctx context.Context, id int64) (bool, error) {
	var removed bool
	err := RetryOnBusy(ctx, func() error {
		var err error
		removed, err = s.characters.Delete(ctx, id)
		return err
	})
	return removed, err
}

// CreateCard inserts a card and sets its generated ID.
func (s *Service) CreateCard(ctx context.Context, card *models.Card) error {
	return RetryOnBusy(ctx, func() error {
		return s.cards.Create(ctx, card)
	})
}

// UpdateCard replaces an existing card's fields. It reports false when no
// card has that ID.
func (s *Service) UpdateCard(ctx context.Context, card *models.Card) (bool, error) {
	var found bool
	err := RetryOnBusy(ctx, func() error {
		return s.db.WithTransaction(ctx, func(tx *sql.Tx) error {
			repo := repository.NewCardRepository(tx)
			existing, err := repo.GetByID(ctx, card.ID)
			if err != nil {
				return err
			}
			if found = existing != nil; !found {
				return nil
			}
			return repo.Upsert(ctx, card)
		})
	})
	return found, err
}

// DeleteCard removes a card.
func (s *Service) DeleteCard(ctx context.Context, id int64) (bool, error) {
	var removed bool
	err := RetryOnBusy(ctx, func() error {
		var err error
		removed, err = s.cards.Delete(ctx, id)
		return err
	})
	return removed, err
}
