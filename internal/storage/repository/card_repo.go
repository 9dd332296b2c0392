package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ramonehamilton/chaos-zero-companion/internal/storage/models"
)

// CardRepository handles database operations for catalog cards.
type CardRepository interface {
	// List retrieves every card ordered by ID.
	List(ctx context.Context) ([]*models.Card, error)

	// GetByID retrieves a card by ID. Returns nil if not found.
	GetByID(ctx context.Context, id int64) (*models.Card, error)

	// GetByCharacter retrieves the cards owned by a character.
	GetByCharacter(ctx context.Context, characterID int64) ([]*models.Card, error)

	// GetNeutral retrieves the cards flagged as neutral.
	GetNeutral(ctx context.Context) ([]*models.Card, error)

	// Upsert inserts a card or updates the existing row with the same ID.
	Upsert(ctx context.Context, card *models.Card) error

	// Create inserts a new card and sets its generated ID.
	Create(ctx context.Context, card *models.Card) error

	// Delete removes a card. Reports whether a row was removed.
	Delete(ctx context.Context, id int64) (bool, error)
}

type cardRepository struct {
	db DBTX
}

// NewCardRepository creates a new card repository.
func NewCardRepository(db DBTX) CardRepository {
	return &cardRepository{db: db}
}

const cardColumns = `
	id, character_id, name, description, cost, card_type, rarity, category,
	is_glimmer, is_divine_glimmer, is_start_card, is_basic_card, is_neutral,
	pt_value, image_url, created_at`

func scanCard(row scanner) (*models.Card, error) {
	c := &models.Card{}
	var characterID sql.NullInt64
	var ptValue sql.NullInt64

	err := row.Scan(
		&c.ID,
		&characterID,
		&c.Name,
		&c.Description,
		&c.Cost,
		&c.CardType,
		&c.Rarity,
		&c.Category,
		&c.IsGlimmer,
		&c.IsDivineGlimmer,
		&c.IsStartCard,
		&c.IsBasicCard,
		&c.IsNeutral,
		&ptValue,
		&c.ImageURL,
		&c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if characterID.Valid {
		id := characterID.Int64
		c.CharacterID = &id
	}
	if ptValue.Valid {
		pt := int(ptValue.Int64)
		c.PTValue = &pt
	}

	return c, nil
}

func (r *cardRepository) query(ctx context.Context, op, where string, args ...any) ([]*models.Card, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+cardColumns+` FROM cards `+where+` ORDER BY id`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to %s: %w", op, err)
	}
	defer rows.Close()

	var cards []*models.Card
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan card: %w", err)
		}
		cards = append(cards, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cards: %w", err)
	}

	return cards, nil
}

// List retrieves every card ordered by ID.
func (r *cardRepository) List(ctx context.Context) ([]*models.Card, error) {
	return r.query(ctx, "list cards", "")
}

// GetByID retrieves a card by ID.
func (r *cardRepository) GetByID(ctx context.Context, id int64) (*models.Card, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+cardColumns+` FROM cards WHERE id = ?`, id)

	c, err := scanCard(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get card by id: %w", err)
	}
	return c, nil
}

// GetByCharacter retrieves the cards owned by a character.
func (r *cardRepository) GetByCharacter(ctx context.Context, characterID int64) ([]*models.Card, error) {
	return r.query(ctx, "get cards by character", "WHERE character_id = ?", characterID)
}

// GetNeutral retrieves the cards flagged as neutral.
func (r *cardRepository) GetNeutral(ctx context.Context) ([]*models.Card, error) {
	return r.query(ctx, "get neutral cards", "WHERE is_neutral = 1")
}

// Upsert inserts a card or updates the existing row with the same ID.
func (r *cardRepository) Upsert(ctx context.Context, card *models.Card) error {
	query := `
		INSERT INTO cards (
			id, character_id, name, description, cost, card_type, rarity, category,
			is_glimmer, is_divine_glimmer, is_start_card, is_basic_card, is_neutral,
			pt_value, image_url
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			character_id = excluded.character_id,
			name = excluded.name,
			description = excluded.description,
			cost = excluded.cost,
			card_type = excluded.card_type,
			rarity = excluded.rarity,
			category = excluded.category,
			is_glimmer = excluded.is_glimmer,
			is_divine_glimmer = excluded.is_divine_glimmer,
			is_start_card = excluded.is_start_card,
			is_basic_card = excluded.is_basic_card,
			is_neutral = excluded.is_neutral,
			pt_value = excluded.pt_value,
			image_url = excluded.image_url
	`

	args := append([]any{card.ID}, cardValues(card)...)
	_, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to upsert card %d: %w", card.ID, err)
	}

	return nil
}

// Create inserts a new card and sets its generated ID.
func (r *cardRepository) Create(ctx context.Context, card *models.Card) error {
	query := `
		INSERT INTO cards (
			character_id, name, description, cost, card_type, rarity, category,
			is_glimmer, is_divine_glimmer, is_start_card, is_basic_card, is_neutral,
			pt_value, image_url
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query, cardValues(card)...)
	if err != nil {
		return fmt.Errorf("failed to create card: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get card id: %w", err)
	}
	card.ID = id

	return nil
}

// Delete removes a card by ID.
func (r *cardRepository) Delete(ctx context.Context, id int64) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM cards WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete card %d: %w", id, err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to delete card %d: %w", id, err)
	}
	return n > 0, nil
}

// cardValues returns every column after id, in table order.
func cardValues(card *models.Card) []any {
	var characterID sql.NullInt64
	if card.CharacterID != nil {
		characterID = sql.NullInt64{Int64: *card.CharacterID, Valid: true}
	}
	var ptValue sql.NullInt64
	if card.PTValue != nil {
		ptValue = sql.NullInt64{Int64: int64(*card.PTValue), Valid: true}
	}

	return []any{
		characterID,
		card.Name,
		card.Description,
		card.Cost,
		card.CardType,
		card.Rarity,
		card.Category,
		card.IsGlimmer,
		card.IsDivineGlimmer,
		card.IsStartCard,
		card.IsBasicCard,
		card.IsNeutral,
		ptValue,
		card.ImageURL,
	}
}
