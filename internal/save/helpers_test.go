package save

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/udisondev/islandcraft/internal/config"
	"github.com/udisondev/islandcraft/internal/content"
	"github.com/udisondev/islandcraft/internal/model"
	"github.com/udisondev/islandcraft/internal/world"
)

func newManager(t *testing.T) *world.Manager {
	t.Helper()
	catalog, err := content.Default()
	require.NoError(t, err)

	cfg := config.DefaultWorld()
	cfg.Size = 3
	cfg.HeightMapResolution = 9
	return world.NewManager(cfg, model.NewFactory(catalog))
}

// currentNodesDir returns the node directory of the newest generation on disk.
func currentNodesDir(t *testing.T, store *FileStore) string {
	t.Helper()
	gens, err := store.generations()
	require.NoError(t, err)
	require.NotEmpty(t, gens)
	return store.genDir(gens[len(gens)-1])
}
