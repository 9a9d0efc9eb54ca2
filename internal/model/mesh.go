package model

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/udisondev/islandcraft/internal/geom"
)

// Mesh is a placed model: its local extents, its transform and the world
// bounding box derived from both.
//
// Every setter bumps the mesh generation. The world box is recomputed only by
// UpdateBoundingBox, and only when the generation moved since the last call.
type Mesh struct {
	name        string
	local       geom.OBB
	transform   geom.Transform
	boundsScale mgl32.Vec3

	generation uint64
	boxGen     uint64
	box        geom.OBB
}

// NewMesh creates a mesh of the named model. The box is dirty until the first
// UpdateBoundingBox call.
func NewMesh(name string, local geom.OBB, t geom.Transform) *Mesh {
	return &Mesh{
		name:        name,
		local:       geom.NewOBB(local.Min, local.Max),
		transform:   t,
		boundsScale: mgl32.Vec3{1, 1, 1},
		generation:  1,
	}
}

// Name returns the model name.
func (m *Mesh) Name() string { return m.name }

// Transform returns the current transform.
func (m *Mesh) Transform() geom.Transform { return m.transform }

// Position returns the world position.
func (m *Mesh) Position() mgl32.Vec3 { return m.transform.Position }

// LocalBounds returns the untransformed extents.
func (m *Mesh) LocalBounds() geom.OBB { return m.local }

// Generation returns the change counter of the transform.
func (m *Mesh) Generation() uint64 { return m.generation }

// Dirty reports whether the cached world box is stale.
func (m *Mesh) Dirty() bool { return m.boxGen != m.generation }

// SetPosition moves the mesh.
func (m *Mesh) SetPosition(p mgl32.Vec3) {
	m.transform.Position = p
	m.generation++
}

// SetRotation sets the Euler rotation in degrees.
func (m *Mesh) SetRotation(r mgl32.Vec3) {
	m.transform.Rotation = r
	m.generation++
}

// SetScale sets the scale.
func (m *Mesh) SetScale(s mgl32.Vec3) {
	m.transform.Scale = s
	m.generation++
}

// SetTransform replaces position, rotation and scale at once.
func (m *Mesh) SetTransform(t geom.Transform) {
	m.transform = t
	m.generation++
}

// SetBoundsScale sets a per-axis factor applied to the scale when the bounding
// box is computed, but not when the mesh is drawn.
func (m *Mesh) SetBoundsScale(f mgl32.Vec3) {
	m.boundsScale = f
	m.generation++
}

// BoundsScale returns the bounding-box-only scale factor.
func (m *Mesh) BoundsScale() mgl32.Vec3 { return m.boundsScale }

// UpdateBoundingBox recomputes the world box if the transform changed and
// returns it.
func (m *Mesh) UpdateBoundingBox() geom.OBB {
	if m.Dirty() {
		box := m.local
		box.ApplyWorld(m.transform.ScaledBy(m.boundsScale).Matrix())
		m.box = box
		m.boxGen = m.generation
	}
	return m.box
}
