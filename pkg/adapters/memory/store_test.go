package memory_test

import (
	"context"
	"testing"

	"github.com/aretw0/workshop/pkg/adapters/memory"
	"github.com/aretw0/workshop/pkg/domain"
	"github.com/aretw0/workshop/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Contract(t *testing.T) {
	store := memory.NewStore()
	ports.RunSnapshotStoreContract(t, store)
}

func TestMemoryStore_Isolation(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	snap := domain.Snapshot{ExerciseID: "x", Bank: []domain.Item{{ID: "a"}}}
	require.NoError(t, store.Save(ctx, "s", snap))
	snap.Bank[0].ID = "mutated"

	loaded, err := store.Load(ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, domain.ItemID("a"), loaded.Bank[0].ID)

	loaded.Bank[0].ID = "again"
	reloaded, _ := store.Load(ctx, "s")
	assert.Equal(t, domain.ItemID("a"), reloaded.Bank[0].ID)
}
