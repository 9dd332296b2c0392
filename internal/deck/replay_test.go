package deck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplay_RebuildsState(t *testing.T) {
	s := NewState(DefaultRules())
	require.NoError(t, s.SetTier(7))
	s.AddCard(neutralCard)
	s.AddCard(divineCard)
	s.AddCard(divineCard)
	s.RecordRemoval(starterCard)
	require.NoError(t, s.RemoveCard(neutralCard.ID))
	s.AddCard(monsterCard)
	s.Clear()
	s.AddCard(monsterCard)
	s.AddCard(monsterCard)

	got, err := Replay(s.Rules(), s.History())
	require.NoError(t, err)

	assert.Equal(t, s.Entries(), got.Entries())
	assert.Equal(t, s.Metadata(), got.Metadata())
	assert.Equal(t, s.Summary(), got.Summary())
	assert.Equal(t, s.History(), got.History())
}

func TestReplay_StopsAtFailingAction(t *testing.T) {
	actions := []Action{
		{Kind: ActionAdd, CardID: 1, Card: &neutralCard},
		{Kind: ActionRemove, CardID: 1},
		{Kind: ActionRemove, CardID: 1},
	}

	_, err := Replay(DefaultRules(), actions)
	assert.ErrorIs(t, err, ErrEntryNotFound)
	assert.Contains(t, err.Error(), "replay action 2")
}

func TestState_Apply_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		action Action
	}{
		{"add without card", Action{Kind: ActionAdd, CardID: 5}},
		{"record removal without card", Action{Kind: ActionRecordRemoval, CardID: 5}},
		{"bad tier", Action{Kind: ActionSetTier, Tier: 40}},
		{"unknown kind", Action{Kind: "shuffle"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewState(DefaultRules())
			assert.Error(t, s.Apply(tt.action))
			assert.Empty(t, s.History())
			assert.Equal(t, Metadata{TierLevel: 1}, s.Metadata())
		})
	}
}
