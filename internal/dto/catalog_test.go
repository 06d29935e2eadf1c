package dto

import (
	"testing"
	"time"

	"github.com/aretw0/workshop/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExercise_ToDomain_Shorthand(t *testing.T) {
	ex := Exercise{
		ID:    "bins",
		Title: "Bins",
		Kind:  "categories",
		Zones: []Zone{{ID: "phrase", Label: "Phrase"}, {ID: "clause", Label: "Clause"}},
		Items: []Item{
			{ID: "a", Text: "in the park", Target: "phrase"},
			{ID: "b", Text: "she runs", Target: "clause"},
		},
	}

	got, err := ex.ToDomain()
	require.NoError(t, err)
	require.Len(t, got.Problems, 1)
	assert.Equal(t, "main", got.Problems[0].ID)
	assert.Len(t, got.Problems[0].Zones, 2)
	assert.Equal(t, domain.CategoryRules(), got.Rules)
}

func TestExercise_ToDomain_Overrides(t *testing.T) {
	delay := 250
	shuffle := false
	ex := Exercise{
		ID:    "match",
		Kind:  "matching",
		Rules: &Rules{RevertDelayMS: &delay, Shuffle: &shuffle},
		Zones: []Zone{{ID: "d1"}},
		Items: []Item{{ID: "c1", Target: "d1"}},
	}

	got, err := ex.ToDomain()
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, got.Rules.RevertDelay)
	assert.False(t, got.Rules.Shuffle)
	assert.Equal(t, domain.LayoutSingleSlot, got.Rules.Layout)
}

func TestExercise_ToDomain_Errors(t *testing.T) {
	_, err := Exercise{ID: "x", Kind: "puzzle"}.ToDomain()
	assert.ErrorIs(t, err, domain.ErrInvalidCatalog)

	_, err = Exercise{ID: "x", Kind: "construction", Problems: []Problem{{ID: "p", Items: []Item{{ID: "t"}}}}}.ToDomain()
	assert.ErrorIs(t, err, domain.ErrInvalidCatalog, "construction problems need an order")
}
