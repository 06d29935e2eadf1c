package loam

import (
	"testing"

	"github.com/aretw0/workshop/internal/testutils"
	"github.com/aretw0/workshop/pkg/domain"
	"github.com/aretw0/workshop/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const binsDoc = `---
title: Phrase or Clause
kind: categories
order: 1
zones:
  - id: phrase
    label: Phrase
  - id: clause
    label: Clause
items:
  - id: p1
    text: in the morning
    target: phrase
  - id: p2
    text: the students study
    target: clause
---
Sort each group of words into the right bin.
`

const connectorDoc = `{
  "id": "gaps.json",
  "title": "Connection",
  "kind": "connector",
  "order": 2,
  "problems": [{
    "id": "c1",
    "context": ["It rained", "we stayed in"],
    "zones": [{"id": "gap", "label": "?"}],
    "items": [{"id": "so", "text": "so"}, {"id": "but", "text": "but"}],
    "accepted": ["so"],
    "explanation": "A result follows."
  }]
}`

func TestLoader_Contract(t *testing.T) {
	loader := New(testutils.SetupCatalogRepo(t, map[string]string{
		"bins.md":   binsDoc,
		"gaps.json": connectorDoc,
	}))
	ports.RunCatalogLoaderContract(t, loader, []string{"bins", "gaps"})
}

func TestLoader_BodyBecomesDescription(t *testing.T) {
	loader := New(testutils.SetupCatalogRepo(t, map[string]string{
		"bins.md":    binsDoc,
		"phrases.md": "---\ntitle: Phrases\ndescription: From the frontmatter.\n" + binsDoc[len("---\ntitle: Phrase or Clause\n"):],
	}))
	ex, err := loader.GetExercise(t.Context(), "bins")
	require.NoError(t, err)
	assert.Equal(t, "Sort each group of words into the right bin.", ex.Description)
	assert.Equal(t, domain.LayoutMultiSlot, ex.Rules.Layout)
	assert.Equal(t, "main", ex.Problems[0].ID)

	ex, err = loader.GetExercise(t.Context(), "phrases")
	require.NoError(t, err)
	assert.Equal(t, "From the frontmatter.", ex.Description, "an explicit description wins over the body")
}

func TestLoader_DetectsCollisions(t *testing.T) {
	loader := New(testutils.SetupCatalogRepo(t, map[string]string{
		"gaps.json": connectorDoc,
		"gaps.md":   binsDoc,
	}))
	_, err := loader.ListExercises(t.Context())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidCatalog)
	assert.Contains(t, err.Error(), "collision detected")
}

func TestLoader_InvalidExercise(t *testing.T) {
	loader := New(testutils.SetupCatalogRepo(t, map[string]string{"broken.md": "---\nkind: puzzle\n---\n"}))
	_, err := loader.ListExercises(t.Context())
	assert.ErrorIs(t, err, domain.ErrInvalidCatalog)
}
