package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramonehamilton/chaos-zero-companion/internal/storage/models"
)

func seedCards(t *testing.T, repo CardRepository) {
	t.Helper()
	ctx := context.Background()

	cards := []*models.Card{
		{ID: 10, CharacterID: int64Ptr(1), Name: "Quick Draw", CardType: "ATTACK", Rarity: "COMMON", IsStartCard: true, IsBasicCard: true},
		{ID: 11, CharacterID: int64Ptr(1), Name: "Bullet Rain", CardType: "ATTACK", Rarity: "RARE", IsGlimmer: true},
		{ID: 20, CharacterID: int64Ptr(2), Name: "Frost Wall", CardType: "SKILL", Rarity: "COMMON"},
		{ID: 30, Name: "Bandage", CardType: "SKILL", Rarity: "COMMON", IsNeutral: true},
		{ID: 31, Name: "Abyssal Maw", CardType: "ATTACK", Rarity: "LEGENDARY", Category: "MONSTER", IsDivineGlimmer: true, PTValue: intPtr(55)},
	}
	for _, c := range cards {
		require.NoError(t, repo.Upsert(ctx, c))
	}
}

func TestCardRepository_GetByID(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewCardRepository(db)
	seedCards(t, repo)

	tests := []struct {
		name string
		id   int64
		want func(t *testing.T, c *models.Card)
	}{
		{
			name: "character card with flags",
			id:   10,
			want: func(t *testing.T, c *models.Card) {
				require.NotNil(t, c.CharacterID)
				assert.Equal(t, int64(1), *c.CharacterID)
				assert.True(t, c.IsStartCard)
				assert.True(t, c.IsBasicCard)
				assert.False(t, c.IsNeutral)
				assert.Nil(t, c.PTValue)
			},
		},
		{
			name: "neutral card with pt value",
			id:   31,
			want: func(t *testing.T, c *models.Card) {
				assert.Nil(t, c.CharacterID)
				assert.Equal(t, "MONSTER", c.Category)
				assert.True(t, c.IsDivineGlimmer)
				require.NotNil(t, c.PTValue)
				assert.Equal(t, 55, *c.PTValue)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.GetByID(context.Background(), tt.id)
			require.NoError(t, err)
			require.NotNil(t, got)
			tt.want(t, got)
		})
	}
}

func TestCardRepository_GetByID_NotFound(t *testing.T) {
	repo := NewCardRepository(setupCatalogTestDB(t))

	got, err := repo.GetByID(context.Background(), 999)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCardRepository_Queries(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewCardRepository(db)
	seedCards(t, repo)
	ctx := context.Background()

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 5)

	byChar, err := repo.GetByCharacter(ctx, 1)
	require.NoError(t, err)
	require.Len(t, byChar, 2)
	assert.Equal(t, "Quick Draw", byChar[0].Name)
	assert.Equal(t, "Bullet Rain", byChar[1].Name)

	neutral, err := repo.GetNeutral(ctx)
	require.NoError(t, err)
	require.Len(t, neutral, 1)
	assert.Equal(t, int64(30), neutral[0].ID)

	none, err := repo.GetByCharacter(ctx, 77)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestCardRepository_UpsertUpdates(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewCardRepository(db)
	seedCards(t, repo)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, &models.Card{ID: 31, Name: "Abyssal Maw", CardType: "ATTACK", Rarity: "LEGENDARY", Category: "MONSTER"}))

	got, err := repo.GetByID(ctx, 31)
	require.NoError(t, err)
	assert.False(t, got.IsDivineGlimmer)
	assert.Nil(t, got.PTValue, "pt_value cleared on update")
}

func TestCardRepository_Create(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewCardRepository(db)
	ctx := context.Background()
	seedCards(t, repo)

	card := &models.Card{
		CharacterID: int64Ptr(2),
		Name:        "Ice Lance",
		Cost:        1,
		CardType:    "ATTACK",
		Rarity:      "RARE",
		Category:    "FORBIDDEN",
		IsGlimmer:   true,
		PTValue:     intPtr(15),
	}
	require.NoError(t, repo.Create(ctx, card))
	assert.Equal(t, int64(32), card.ID)

	got, err := repo.GetByID(ctx, card.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Ice Lance", got.Name)
	assert.Equal(t, int64(2), *got.CharacterID)
	assert.Equal(t, "FORBIDDEN", got.Category)
	assert.True(t, got.IsGlimmer)
	require.NotNil(t, got.PTValue)
	assert.Equal(t, 15, *got.PTValue)
}

func TestCardRepository_Delete(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewCardRepository(db)
	ctx := context.Background()
	seedCards(t, repo)

	removed, err := repo.Delete(ctx, 30)
	require.NoError(t, err)
	assert.True(t, removed)

	got, err := repo.GetByID(ctx, 30)
	require.NoError(t, err)
	assert.Nil(t, got)

	neutral, err := repo.GetNeutral(ctx)
	require.NoError(t, err)
	assert.Empty(t, neutral)

	removed, err = repo.Delete(ctx, 30)
	require.NoError(t, err)
	assert.False(t, removed)
}
