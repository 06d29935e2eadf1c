package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/loam"
	"github.com/aretw0/workshop/internal/dto"
	"github.com/stretchr/testify/require"
)

// SetupCatalogRepo initializes a Loam repository in a temp dir and writes the given
// catalog documents (file name to content) into it. It returns the typed repository
// the loam catalog loader reads.
func SetupCatalogRepo(t *testing.T, docs map[string]string, opts ...loam.Option) *loam.TypedRepository[dto.Exercise] {
	t.Helper()

	dir, err := filepath.Abs(t.TempDir())
	require.NoError(t, err)

	repo, err := loam.Init(dir, opts...)
	require.NoError(t, err, "failed to init loam catalog repo")

	for name, content := range docs {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644), "failed to seed %s", name)
	}
	return loam.NewTypedRepository[dto.Exercise](repo)
}
