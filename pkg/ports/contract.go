package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/workshop/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunSnapshotStoreContract runs a suite of tests to verify that a SnapshotStore implementation
// adheres to the defined interface contract.
func RunSnapshotStoreContract(t *testing.T, store SnapshotStore) {
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")

	newSnapshot := func() domain.Snapshot {
		return domain.Snapshot{
			ExerciseID:   "foundations",
			Title:        "Foundations",
			Layout:       domain.LayoutSingleSlot,
			ProblemID:    "main",
			ProblemCount: 1,
			Bank:         []domain.Item{{ID: "c2", Text: "Phrase"}},
			Zones: []domain.ZoneView{{
				Zone: domain.Zone{ID: "d1", Label: "A group of words"},
				Placements: []domain.Placement{{
					ID:      1,
					Item:    domain.Item{ID: "c1", Text: "Clause", Target: "d1"},
					Zone:    "d1",
					Outcome: domain.OutcomeCorrect,
				}},
			}},
			Progress:    domain.NewProgress(1, 2),
			Explanation: &domain.Explanation{Text: "A clause has a subject and a verb.", Correct: true},
			Version:     3,
		}
	}

	t.Run("Save and Load", func(t *testing.T) {
		snap := newSnapshot()

		err := store.Save(ctx, sessionID, snap)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, snap, loaded)
	})

	t.Run("Save overwrites", func(t *testing.T) {
		snap := newSnapshot()
		snap.Version = 4
		snap.Explanation = nil
		require.NoError(t, store.Save(ctx, sessionID, snap))

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, uint64(4), loaded.Version)
		assert.Nil(t, loaded.Explanation)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSnapshotNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, sessionID, newSnapshot())
		require.NoError(t, err)

		err = store.Delete(ctx, sessionID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSnapshotNotFound, "Load after Delete should return ErrSnapshotNotFound")

		assert.NoError(t, store.Delete(ctx, sessionID), "Delete of a missing session is not an error")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		require.NoError(t, store.Save(ctx, id1, newSnapshot()))
		require.NoError(t, store.Save(ctx, id2, newSnapshot()))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
	})
}

// RunCatalogLoaderContract verifies that a CatalogLoader lists exactly the expected IDs in
// navigation order and serves each of them as a valid exercise.
func RunCatalogLoaderContract(t *testing.T, loader CatalogLoader, wantIDs []string) {
	ctx := context.Background()

	t.Run("ListExercises", func(t *testing.T) {
		ids, err := loader.ListExercises(ctx)
		require.NoError(t, err)
		assert.Equal(t, wantIDs, ids)
	})

	t.Run("GetExercise", func(t *testing.T) {
		for _, id := range wantIDs {
			ex, err := loader.GetExercise(ctx, id)
			require.NoError(t, err, "GetExercise(%s)", id)
			assert.Equal(t, id, ex.ID)
			assert.NoError(t, ex.Validate())
		}
	})

	t.Run("GetExercise Non-Existent", func(t *testing.T) {
		_, err := loader.GetExercise(ctx, "non-existent-exercise")
		assert.ErrorIs(t, err, domain.ErrExerciseNotFound)
	})
}
