package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ramonehamilton/chaos-zero-companion/internal/storage/models"
)

// CharacterRepository handles database operations for characters.
type CharacterRepository interface {
	// List retrieves all characters ordered by ID.
	List(ctx context.Context) ([]*models.Character, error)

	// GetByID retrieves a character by ID. Returns nil if not found.
	GetByID(ctx context.Context, id int64) (*models.Character, error)

	// Upsert inserts a character or replaces the existing row with the same ID.
	Upsert(ctx context.Context, character *models.Character) error

	// Create inserts a new character and sets its generated ID.
	Create(ctx context.Context, character *models.Character) error

	// Delete removes a character and, through the foreign key, its cards.
	// Reports whether a row was removed.
	Delete(ctx context.Context, id int64) (bool, error)
}

type characterRepository struct {
	db DBTX
}

// NewCharacterRepository creates a new character repository.
func NewCharacterRepository(db DBTX) CharacterRepository {
	return &characterRepository{db: db}
}

const characterColumns = `id, name, description, image_url, created_at`

func scanCharacter(row scanner) (*models.Character, error) {
	c := &models.Character{}
	if err := row.Scan(&c.ID, &c.Name, &c.Description, &c.ImageURL, &c.CreatedAt); err != nil {
		return nil, err
	}
	return c, nil
}

// List retrieves all characters ordered by ID.
func (r *characterRepository) List(ctx context.Context) ([]*models.Character, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+characterColumns+` FROM characters ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list characters: %w", err)
	}
	defer rows.Close()

	var characters []*models.Character
	for rows.Next() {
		c, err := scanCharacter(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan character: %w", err)
		}
		characters = append(characters, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating characters: %w", err)
	}

	return characters, nil
}

// GetByID retrieves a character by ID.
func (r *characterRepository) GetByID(ctx context.Context, id int64) (*models.Character, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+characterColumns+` FROM characters WHERE id = ?`, id)

	c, err := scanCharacter(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get character by id: %w", err)
	}
	return c, nil
}

// Upsert inserts a character or updates the existing row with the same ID.
func (r *characterRepository) Upsert(ctx context.Context, character *models.Character) error {
	query := `
		INSERT INTO characters (id, name, description, image_url)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			image_url = excluded.image_url
	`

	_, err := r.db.ExecContext(ctx, query,
		character.ID,
		character.Name,
		character.Description,
		character.ImageURL,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert character %d: %w", character.ID, err)
	}

	return nil
}

// Create inserts a new character and sets its generated ID.
func (r *characterRepository) Create(ctx context.Context, character *models.Character) error {
	query := `
		INSERT INTO characters (name, description, image_url)
		VALUES (?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		character.Name,
		character.Description,
		character.ImageURL,
	)
	if err != nil {
		return fmt.Errorf("failed to create character: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get character id: %w", err)
	}
	character.ID = id

	return nil
}

// Delete removes a character by ID.
func (r *characterRepository) Delete(ctx context.Context, id int64) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM characters WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete character %d: %w", id, err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to delete character %d: %w", id, err)
	}
	return n > 0, nil
}
