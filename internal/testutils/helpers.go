package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/loam"
	"github.com/aretw0/loam/pkg/core"
	"github.com/stretchr/testify/require"
)

// WriteDocs writes node documents under dir, creating subdirectories for
// ids such as "guides/setup.md".
func WriteDocs(t *testing.T, dir string, docs map[string]string) {
	t.Helper()
	for name, content := range docs {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}

// NodeRepo initializes an unversioned Loam repository in a temporary
// directory and fills it with docs. It returns the absolute repository path.
func NodeRepo(t *testing.T, docs map[string]string) (string, core.Repository) {
	t.Helper()
	dir, err := filepath.Abs(t.TempDir())
	require.NoError(t, err)

	repo, err := loam.Init(dir, loam.WithVersioning(false))
	require.NoError(t, err, "failed to init loam repo")
	WriteDocs(t, dir, docs)
	return dir, repo
}
