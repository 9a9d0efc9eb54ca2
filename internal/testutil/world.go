// Package testutil holds fixtures shared by tests of packages that drive a
// world.Manager.
package testutil

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/udisondev/islandcraft/internal/config"
	"github.com/udisondev/islandcraft/internal/content"
	"github.com/udisondev/islandcraft/internal/game/terrain"
	"github.com/udisondev/islandcraft/internal/geom"
	"github.com/udisondev/islandcraft/internal/model"
	"github.com/udisondev/islandcraft/internal/world"
)

// Stride is the node edge length of test worlds.
const Stride = 256

// WorldConfig returns settings for a size x size test world.
func WorldConfig(size int) config.World {
	cfg := config.DefaultWorld()
	cfg.Size = size
	cfg.NodeStride = Stride
	cfg.HeightMapResolution = 5
	return cfg
}

// Factory returns a prop factory over the built-in content catalog.
func Factory(tb testing.TB) *model.Factory {
	tb.Helper()
	catalog, err := content.Default()
	if err != nil {
		tb.Fatalf("loading content catalog: %v", err)
	}
	return model.NewFactory(catalog)
}

// FlatSurfaces returns flat terrain at height h for a size x size grid.
func FlatSurfaces(size int, h float32) map[model.NodeIndex]terrain.Surface {
	out := make(map[model.NodeIndex]terrain.Surface, size*size)
	for x := range size {
		for y := range size {
			out[model.NodeIndex{X: x, Y: y}] = terrain.NewFlat(5, Stride, h)
		}
	}
	return out
}

// NewWorld returns a manager over flat terrain at height 0, loaded with snap.
func NewWorld(tb testing.TB, size int, snap world.Snapshot) *world.Manager {
	tb.Helper()
	return NewWorldWithSurfaces(tb, WorldConfig(size), FlatSurfaces(size, 0), snap)
}

// NewWorldWithSurfaces returns a manager over the given terrain.
func NewWorldWithSurfaces(tb testing.TB, cfg config.World, surfaces map[model.NodeIndex]terrain.Surface, snap world.Snapshot) *world.Manager {
	tb.Helper()
	m := world.NewManager(cfg, Factory(tb))
	if err := m.Initialize(surfaces, snap); err != nil {
		tb.Fatalf("initializing world: %v", err)
	}
	return m
}

// Prop returns a unit-scale record of prop id at pos.
func Prop(id int32, pos mgl32.Vec3) model.PropRecord {
	return model.PropRecord{ID: id, Position: pos, Scale: mgl32.Vec3{1, 1, 1}}
}

// PlayerMesh returns the player bounding mesh standing at pos.
func PlayerMesh(tb testing.TB, pos mgl32.Vec3) *model.Mesh {
	tb.Helper()
	m, err := Factory(tb).Mesh("player", geom.NewTransform(pos))
	if err != nil {
		tb.Fatalf("creating player mesh: %v", err)
	}
	return m
}
