package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/workshop/pkg/adapters/file"
	"github.com/aretw0/workshop/pkg/domain"
	"github.com/aretw0/workshop/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const catalogYAML = `
exercises:
  - id: bins
    title: Phrase or Clause
    kind: categories
    order: 1
    zones:
      - {id: phrase, label: Phrase}
      - {id: clause, label: Clause}
    items:
      - {id: p1, text: in the morning, target: phrase}
      - {id: p2, text: the students study, target: clause}
  - id: match
    title: Foundations
    kind: matching
    order: 2
    rules: {shuffle: false}
    zones:
      - {id: d1, label: A group of words with a subject and a verb}
    items:
      - {id: c1, text: Clause, target: d1}
`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestDecodeCatalog_YAMLAndJSON(t *testing.T) {
	exercises, err := file.DecodeCatalog([]byte(catalogYAML), ".yaml")
	require.NoError(t, err)
	require.Len(t, exercises, 2)
	assert.Equal(t, domain.LayoutMultiSlot, exercises[0].Rules.Layout)
	assert.False(t, exercises[1].Rules.Shuffle)

	js := `{"exercises":[{"id":"j","kind":"connector","problems":[{"id":"p","zones":[{"id":"gap","label":"?"}],"items":[{"id":"a","text":"so"}],"accepted":["a"]}]}]}`
	exercises, err = file.DecodeCatalog([]byte(js), ".JSON")
	require.NoError(t, err)
	assert.Equal(t, domain.AnswerSet, exercises[0].Rules.Answer)
}

func TestDecodeCatalog_Strict(t *testing.T) {
	_, err := file.DecodeCatalog([]byte("exercises:\n  - id: x\n    kind: matching\n    bogus: 1\n"), ".yml")
	assert.ErrorIs(t, err, domain.ErrInvalidCatalog)

	_, err = file.DecodeCatalog([]byte(`{"exercises": [], "extra": true}`), ".json")
	assert.ErrorIs(t, err, domain.ErrInvalidCatalog)
}

func TestFileCatalog_Contract(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	writeFile(t, path, catalogYAML)

	catalog, err := file.NewCatalog(path)
	require.NoError(t, err)
	ports.RunCatalogLoaderContract(t, catalog, []string{"bins", "match"})
}

func TestFileCatalog_MissingFile(t *testing.T) {
	_, err := file.NewCatalog(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, domain.ErrInvalidCatalog)
}

func TestFileCatalog_WatchReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	writeFile(t, path, catalogYAML)

	catalog, err := file.NewCatalog(path, file.WithDebounce(10*time.Millisecond))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events, err := catalog.Watch(ctx)
	require.NoError(t, err)

	updated := catalogYAML + `
  - id: late
    title: Added Later
    kind: categories
    order: 3
    zones: [{id: z, label: Z}]
    items: [{id: i, text: I, target: z}]
`
	writeFile(t, path, updated)

	select {
	case got := <-events:
		assert.Equal(t, catalog.Path(), got)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload")
	}

	ids, err := catalog.ListExercises(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"bins", "match", "late"}, ids)

	// A broken edit keeps the last good content.
	writeFile(t, path, "exercises: [")
	time.Sleep(100 * time.Millisecond)
	ids, err = catalog.ListExercises(ctx)
	require.NoError(t, err)
	assert.Len(t, ids, 3)

	cancel()
	for range events {
	}
}
