package domain_test

import (
	"testing"

	"github.com/aretw0/workshop/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func binsExercise() domain.Exercise {
	return domain.Exercise{
		ID:    "bins",
		Rules: domain.CategoryRules(),
		Problems: []domain.Problem{{
			ID:    "p1",
			Zones: []domain.Zone{{ID: "phrase"}, {ID: "clause"}},
			Items: []domain.Item{
				{ID: "a", Target: "phrase"},
				{ID: "b", Target: "clause"},
			},
		}},
	}
}

func TestRules_Presets(t *testing.T) {
	for name, rules := range map[string]domain.Rules{
		"matching":     domain.MatchingRules(),
		"category":     domain.CategoryRules(),
		"connector":    domain.ConnectorRules(),
		"construction": domain.ConstructionRules(),
	} {
		assert.NoError(t, rules.Validate(), name)
	}
}

func TestRules_Validate(t *testing.T) {
	r := domain.CategoryRules()
	r.RevertDelay = 0
	assert.Error(t, r.Validate(), "per-drop needs a delay")

	r = domain.CategoryRules()
	r.Answer = domain.AnswerSet
	assert.Error(t, r.Validate(), "set answers need a single slot")

	r = domain.ConstructionRules()
	r.Verification = domain.VerifyPerDrop
	assert.Error(t, r.Validate())

	r = domain.MatchingRules()
	r.Layout = "grid"
	assert.Error(t, r.Validate())
}

func TestExercise_Validate(t *testing.T) {
	assert.NoError(t, binsExercise().Validate())

	t.Run("unknown target", func(t *testing.T) {
		ex := binsExercise()
		ex.Problems[0].Items[0].Target = "nowhere"
		assert.ErrorIs(t, ex.Validate(), domain.ErrInvalidCatalog)
	})

	t.Run("duplicate item", func(t *testing.T) {
		ex := binsExercise()
		ex.Problems[0].Items[1].ID = "a"
		assert.ErrorIs(t, ex.Validate(), domain.ErrInvalidCatalog)
	})

	t.Run("reserved zone id", func(t *testing.T) {
		ex := binsExercise()
		ex.Problems[0].Zones[0].ID = domain.SequenceZone
		assert.ErrorIs(t, ex.Validate(), domain.ErrInvalidCatalog)
	})

	t.Run("no problems", func(t *testing.T) {
		ex := binsExercise()
		ex.Problems = nil
		assert.ErrorIs(t, ex.Validate(), domain.ErrInvalidCatalog)
	})

	t.Run("connector accepted set", func(t *testing.T) {
		ex := domain.Exercise{
			ID:    "gap",
			Rules: domain.ConnectorRules(),
			Problems: []domain.Problem{{
				ID:       "p1",
				Zones:    []domain.Zone{{ID: "gap"}},
				Items:    []domain.Item{{ID: "and"}, {ID: "but"}},
				Accepted: []domain.ItemID{"and"},
			}},
		}
		assert.NoError(t, ex.Validate())

		ex.Problems[0].Accepted = []domain.ItemID{"so"}
		assert.ErrorIs(t, ex.Validate(), domain.ErrInvalidCatalog)
	})

	t.Run("ordered answer", func(t *testing.T) {
		ex := domain.Exercise{
			ID:    "build",
			Rules: domain.ConstructionRules(),
			Problems: []domain.Problem{{
				ID:    "p1",
				Items: []domain.Item{{ID: "t1"}, {ID: "t2"}},
				Order: []domain.ItemID{"t1", "t2"},
			}},
		}
		assert.NoError(t, ex.Validate())

		ex.Problems[0].Order = []domain.ItemID{"t1", "t1"}
		assert.ErrorIs(t, ex.Validate(), domain.ErrInvalidCatalog)
	})
}

func TestProgress(t *testing.T) {
	assert.Equal(t, 0.0, domain.NewProgress(0, 0).Fraction)
	assert.Equal(t, 0.5, domain.NewProgress(3, 6).Fraction)
}
