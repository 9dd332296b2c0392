package deck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummary_EmptyDeck(t *testing.T) {
	sum := NewState(DefaultRules()).Summary()

	assert.Equal(t, 0, sum.TotalCards)
	assert.Equal(t, 0, sum.TotalPT)
	assert.Equal(t, 30, sum.TierCeiling)
	assert.False(t, sum.OverBudget)
	assert.Equal(t, 30, sum.MarginRemaining)
	assert.NotNil(t, sum.CategoryStats)
	assert.Empty(t, sum.CategoryStats)
}

func TestSummary_Idempotent(t *testing.T) {
	s := NewState(DefaultRules())
	s.AddCard(neutralCard)
	s.AddCard(divineCard)
	s.AddCard(divineCard)
	s.RecordRemoval(starterCard)

	first := s.Summary()
	second := s.Summary()
	assert.Equal(t, first, second)
	assert.Len(t, s.History(), 4, "Summary must not record anything")
}

func TestSummary_NeutralDuplicateGoesOverBudget(t *testing.T) {
	s := NewState(DefaultRules())

	s.AddCard(neutralCard)
	sum := s.Summary()
	assert.Equal(t, 20, sum.TotalPT)
	assert.False(t, sum.OverBudget)
	assert.Equal(t, 10, sum.MarginRemaining)
	assert.Equal(t, 0, sum.OverBudgetBy)

	s.AddCard(neutralCard)
	e, _ := s.Entry(neutralCard.ID)
	assert.Equal(t, 2, e.Quantity)
	assert.Equal(t, 1, s.Metadata().DuplicateCount)

	sum = s.Summary()
	assert.Equal(t, 40, sum.AcquisitionPT)
	assert.Equal(t, 0, sum.DuplicationPT)
	assert.Equal(t, 40, sum.TotalPT)
	assert.True(t, sum.OverBudget)
	assert.Equal(t, 10, sum.OverBudgetBy)
	assert.Equal(t, 0, sum.MarginRemaining)
}

func TestSummary_DivineMonsterAtTierNine(t *testing.T) {
	s := NewState(DefaultRules())
	require.NoError(t, s.SetTier(9))
	s.AddCard(divineCard)

	sum := s.Summary()
	assert.Equal(t, 100, sum.TotalPT)
	assert.Equal(t, 110, sum.TierCeiling)
	assert.False(t, sum.OverBudget)
	assert.Equal(t, 10, sum.MarginRemaining)
}

func TestSummary_FourDistinctDuplications(t *testing.T) {
	s := NewState(DefaultRules())
	for id := int64(10); id < 14; id++ {
		c := Card{ID: id, Category: CategoryNeutral}
		s.AddCard(c)
		s.AddCard(c)
	}

	assert.Equal(t, 4, s.Metadata().DuplicateCount)
	sum := s.Summary()
	assert.Equal(t, 90, sum.DuplicationPT)
	assert.Equal(t, 160, sum.AcquisitionPT)
	assert.Equal(t, 250, sum.TotalPT)
}

func TestSummary_ExactlyOnCeiling(t *testing.T) {
	s := NewState(DefaultRules())
	require.NoError(t, s.SetTier(6)) // ceiling 80
	s.AddCard(monsterCard)

	sum := s.Summary()
	assert.False(t, sum.OverBudget)
	assert.Equal(t, 0, sum.OverBudgetBy)
	assert.Equal(t, 0, sum.MarginRemaining)
}

func TestSummary_CategoryStats(t *testing.T) {
	s := NewState(DefaultRules())
	s.AddCard(neutralCard)
	s.AddCard(neutralCard)
	s.AddCard(Card{ID: 20}) // no category counts as NEUTRAL
	s.AddCard(monsterCard)
	s.AddCard(divineCard)
	s.AddCard(Card{ID: 21, Category: CategoryForbidden, Modifiers: ModGlimmer})

	want := map[Category]CategoryStat{
		CategoryNeutral:   {Count: 3, PT: 60},
		CategoryMonster:   {Count: 2, PT: 180},
		CategoryForbidden: {Count: 1, PT: 30},
	}
	assert.Equal(t, want, s.Summary().CategoryStats)
	assert.Equal(t, 6, s.Summary().TotalCards)
}

func TestSummary_CustomRules(t *testing.T) {
	r := DefaultRules()
	r.MonsterPT = 100
	r.CeilingBase = 0
	r.CeilingPerTier = 50

	s := NewState(r)
	require.NoError(t, s.SetTier(2))
	s.AddCard(monsterCard)

	sum := s.Summary()
	assert.Equal(t, 100, sum.TotalPT)
	assert.Equal(t, 100, sum.TierCeiling)
}
