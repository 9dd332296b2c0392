package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramonehamilton/chaos-zero-companion/internal/storage/models"
)

func TestCharacterRepository_UpsertAndGet(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewCharacterRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, &models.Character{ID: 1, Name: "Renoa", Description: "Gunslinger"}))

	got, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Renoa", got.Name)
	assert.Equal(t, "Gunslinger", got.Description)
	assert.False(t, got.CreatedAt.IsZero())

	// Upsert replaces the mutable columns.
	require.NoError(t, repo.Upsert(ctx, &models.Character{ID: 1, Name: "Renoa II"}))
	got, err = repo.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Renoa II", got.Name)
	assert.Empty(t, got.Description)
}

func TestCharacterRepository_GetByID_NotFound(t *testing.T) {
	repo := NewCharacterRepository(setupCatalogTestDB(t))

	got, err := repo.GetByID(context.Background(), 42)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCharacterRepository_List(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewCharacterRepository(db)
	ctx := context.Background()

	for _, c := range []*models.Character{{ID: 3, Name: "Magna"}, {ID: 1, Name: "Renoa"}, {ID: 2, Name: "Mei"}} {
		require.NoError(t, repo.Upsert(ctx, c))
	}

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []int64{1, 2, 3}, []int64{list[0].ID, list[1].ID, list[2].ID})
}

func TestCharacterRepository_Create(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewCharacterRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, &models.Character{ID: 7, Name: "Renoa"}))

	c := &models.Character{Name: "Selena", ImageURL: "/images/selena.png"}
	require.NoError(t, repo.Create(ctx, c))
	assert.Equal(t, int64(8), c.ID, "new ids follow the highest existing id")

	got, err := repo.GetByID(ctx, c.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Selena", got.Name)
	assert.Equal(t, "/images/selena.png", got.ImageURL)
}

func TestCharacterRepository_DeleteCascadesToCards(t *testing.T) {
	db := setupCatalogTestDB(t)
	_, err := db.Exec(`PRAGMA foreign_keys = ON`)
	require.NoError(t, err)

	characters := NewCharacterRepository(db)
	cards := NewCardRepository(db)
	ctx := context.Background()

	require.NoError(t, characters.Upsert(ctx, &models.Character{ID: 1, Name: "Renoa"}))
	require.NoError(t, characters.Upsert(ctx, &models.Character{ID: 2, Name: "Selena"}))
	seedCards(t, cards)

	removed, err := characters.Delete(ctx, 1)
	require.NoError(t, err)
	assert.True(t, removed)

	got, err := characters.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, got)

	owned, err := cards.GetByCharacter(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, owned)

	all, err := cards.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	removed, err = characters.Delete(ctx, 1)
	require.NoError(t, err)
	assert.False(t, removed)
}
