package world

import (
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/islandcraft/internal/config"
	"github.com/udisondev/islandcraft/internal/content"
	"github.com/udisondev/islandcraft/internal/game/terrain"
	"github.com/udisondev/islandcraft/internal/geom"
	"github.com/udisondev/islandcraft/internal/model"
)

const testStride = 256

func testConfig(size int) config.World {
	cfg := config.DefaultWorld()
	cfg.Size = size
	cfg.NodeStride = testStride
	cfg.HeightMapResolution = 5
	cfg.StumpRegrowTime = 180 * time.Second
	return cfg
}

func testFactory(t testing.TB) *model.Factory {
	t.Helper()
	catalog, err := content.Default()
	require.NoError(t, err)
	return model.NewFactory(catalog)
}

// flatSurfaces returns flat terrain at height h for every node.
func flatSurfaces(size int, h float32) map[model.NodeIndex]terrain.Surface {
	out := make(map[model.NodeIndex]terrain.Surface, size*size)
	for x := range size {
		for y := range size {
			out[model.NodeIndex{X: x, Y: y}] = terrain.NewFlat(5, testStride, h)
		}
	}
	return out
}

func newTestManager(t testing.TB, size int, snap Snapshot) *Manager {
	t.Helper()
	m := NewManager(testConfig(size), testFactory(t))
	require.NoError(t, m.Initialize(flatSurfaces(size, 0), snap))
	return m
}

// unitMesh returns a 1×1×1 box centred on pos.
func unitMesh(pos mgl32.Vec3) *model.Mesh {
	local := geom.NewOBB(mgl32.Vec3{-0.5, -0.5, -0.5}, mgl32.Vec3{0.5, 0.5, 0.5})
	return model.NewMesh("probe", local, geom.NewTransform(pos))
}

func unitScale() mgl32.Vec3 { return mgl32.Vec3{1, 1, 1} }

func propAt(id int32, pos mgl32.Vec3) model.PropRecord {
	return model.PropRecord{ID: id, Position: pos, Scale: unitScale()}
}

// worldPos converts a node-local position into world coordinates.
func worldPos(idx model.NodeIndex, local mgl32.Vec3) mgl32.Vec3 {
	return NodeOrigin(idx, testStride).Add(local)
}
