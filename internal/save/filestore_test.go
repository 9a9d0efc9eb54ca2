package save

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/islandcraft/internal/crypto"
	"github.com/udisondev/islandcraft/internal/gameid"
	"github.com/udisondev/islandcraft/internal/model"
	"github.com/udisondev/islandcraft/internal/world"
)

func sampleSnapshot() world.Snapshot {
	return world.Snapshot{
		Nodes: map[model.NodeIndex][]model.PropRecord{
			{X: 0, Y: 0}: {
				{ID: gameid.PropBorder, Position: mgl32.Vec3{10, 0, 10}, Scale: mgl32.Vec3{1, 1, 1}},
				{ID: gameid.TreeOak, Position: mgl32.Vec3{20.5, 1.25, -3}, Rotation: mgl32.Vec3{0, 33.3, 0}, Scale: mgl32.Vec3{1.1, 1.1, 1.1}},
			},
			{X: 2, Y: 1}: {
				{ID: gameid.StumpPine, Position: mgl32.Vec3{512, 0, 256}, Scale: mgl32.Vec3{1, 1, 1}},
			},
		},
		Triggers: []model.TriggerRecord{
			{ID: gameid.TriggerCutscene, Position: mgl32.Vec3{1, 2, 3}, Scale: mgl32.Vec3{4, 4, 4}, HasTriggered: true},
		},
		LogicProps: []model.LogicPropRecord{
			{ID: gameid.LogicDam, Position: mgl32.Vec3{40, 0, 40}, Scale: mgl32.Vec3{1, 1, 1}, Enabled: true},
		},
		WaterVolumes: []model.WaterVolumeRecord{
			{Position: mgl32.Vec3{0, -1, 0}, Size: mgl32.Vec3{100, 10, 100}, WaveHeight: 0.3, WaveSpeed: 1.5, Clarity: 0.7},
		},
		ParticleEmitters: []model.ParticleEmitterRecord{
			{Effect: "smoke", Position: mgl32.Vec3{5, 0, 5}, Rate: 12, Lifetime: 2.5, Spread: 0.4, Enabled: true},
		},
		UsefulLocations: []model.UsefulLocationRecord{
			{Name: "beach", Kind: model.LocationSpawn, Position: mgl32.Vec3{1, 0, 1}, Facing: 90},
		},
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewFileStore(filepath.Join(t.TempDir(), "save"))
	snap := sampleSnapshot()

	require.NoError(t, store.Save(ctx, snap))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, snap, got)

	nodes := currentNodesDir(t, store)
	assert.FileExists(t, filepath.Join(store.Dir(), "world.yaml.sum"))
	assert.FileExists(t, filepath.Join(nodes, "2_1.yaml"))
	assert.FileExists(t, filepath.Join(nodes, "2_1.yaml.sum"))
}

func TestFileStoreLoadEmpty(t *testing.T) {
	store := NewFileStore(t.TempDir())
	_, err := store.Load(context.Background())
	assert.ErrorIs(t, err, world.ErrNoSnapshot)
}

func TestFileStoreDetectsTampering(t *testing.T) {
	ctx := context.Background()
	store := NewFileStore(t.TempDir())
	require.NoError(t, store.Save(ctx, sampleSnapshot()))

	path := filepath.Join(currentNodesDir(t, store), NodeFileName(model.NodeIndex{X: 0, Y: 0}))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, append(data, []byte("# edited\n")...), 0o644))

	_, err = store.Load(ctx)
	assert.ErrorIs(t, err, crypto.ErrChecksumMismatch)
}

func TestFileStoreMissingChecksum(t *testing.T) {
	ctx := context.Background()
	store := NewFileStore(t.TempDir())
	require.NoError(t, store.Save(ctx, sampleSnapshot()))
	require.NoError(t, os.Remove(filepath.Join(store.Dir(), "world.yaml.sum")))

	_, err := store.Load(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.NotErrorIs(t, err, world.ErrNoSnapshot)
}

func TestFileStoreDamagedSaveIsNotFresh(t *testing.T) {
	tests := []struct {
		name   string
		damage func(t *testing.T, store *FileStore)
	}{
		{"node checksum removed", func(t *testing.T, store *FileStore) {
			require.NoError(t, os.Remove(filepath.Join(currentNodesDir(t, store), "2_1.yaml.sum")))
		}},
		{"generation dir removed", func(t *testing.T, store *FileStore) {
			require.NoError(t, os.RemoveAll(currentNodesDir(t, store)))
		}},
		{"world file unreadable", func(t *testing.T, store *FileStore) {
			path := filepath.Join(store.Dir(), "world.yaml")
			require.NoError(t, os.Remove(path))
			require.NoError(t, os.Mkdir(path, 0o755))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store := NewFileStore(t.TempDir())
			require.NoError(t, store.Save(ctx, sampleSnapshot()))
			tt.damage(t, store)

			_, err := store.Load(ctx)
			require.Error(t, err)
			assert.NotErrorIs(t, err, world.ErrNoSnapshot)
		})
	}
}

func TestFileStoreInterruptedSaveKeepsPrevious(t *testing.T) {
	ctx := context.Background()
	store := NewFileStore(t.TempDir())

	first := sampleSnapshot()
	require.NoError(t, store.Save(ctx, first))

	// A later save wrote one node of the next generation, then stopped
	// before replacing world.yaml.
	next := store.genDir(2)
	require.NoError(t, os.MkdirAll(next, 0o755))
	require.NoError(t, writeFile(filepath.Join(next, NodeFileName(model.NodeIndex{X: 0, Y: 0})), nodeFile{
		Props: []model.PropRecord{{ID: gameid.RockSmall, Scale: mgl32.Vec3{1, 1, 1}}},
	}))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, got)

	second := sampleSnapshot()
	delete(second.Nodes, model.NodeIndex{X: 2, Y: 1})
	require.NoError(t, store.Save(ctx, second))

	gens, err := store.generations()
	require.NoError(t, err)
	assert.Equal(t, []uint64{3}, gens)

	got, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, second, got)
}

func TestFileStoreSaveRemovesEmptiedNodes(t *testing.T) {
	ctx := context.Background()
	store := NewFileStore(t.TempDir())

	snap := sampleSnapshot()
	require.NoError(t, store.Save(ctx, snap))

	delete(snap.Nodes, model.NodeIndex{X: 2, Y: 1})
	require.NoError(t, store.Save(ctx, snap))

	nodes := currentNodesDir(t, store)
	assert.NoFileExists(t, filepath.Join(nodes, "2_1.yaml"))
	assert.NoFileExists(t, filepath.Join(nodes, "2_1.yaml.sum"))
	assert.NoDirExists(t, store.genDir(1))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, snap, got)
}

func TestFileStoreRejectsMisnamedNode(t *testing.T) {
	ctx := context.Background()
	store := NewFileStore(t.TempDir())
	require.NoError(t, store.Save(ctx, sampleSnapshot()))

	nodes := currentNodesDir(t, store)
	require.NoError(t, os.Rename(filepath.Join(nodes, "2_1.yaml"), filepath.Join(nodes, "3_1.yaml")))
	require.NoError(t, os.Rename(filepath.Join(nodes, "2_1.yaml.sum"), filepath.Join(nodes, "3_1.yaml.sum")))

	_, err := store.Load(ctx)
	assert.Error(t, err)
}

func TestFileStoreFeedsManager(t *testing.T) {
	ctx := context.Background()
	store := NewFileStore(t.TempDir())
	require.NoError(t, store.Save(ctx, sampleSnapshot()))

	snap, err := store.Load(ctx)
	require.NoError(t, err)

	m := newManager(t)
	require.NoError(t, m.Initialize(world.GeneratedSurfaces(m.Config()), snap))
	assert.Equal(t, 1, m.StumpCount())
	assert.Equal(t, snap, m.Snapshot())
}
