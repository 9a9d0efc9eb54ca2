// Package movement moves a bounding mesh through the world one tick at a
// time, keeping it on the terrain and out of props.
package movement

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/udisondev/islandcraft/internal/model"
)

// World is the part of world.Manager the mover queries.
type World interface {
	GetTerrainHeightAndNode(pos mgl32.Vec3) (model.NodeIndex, float32)
	TestBoundaryCollision(idx model.NodeIndex, mesh *model.Mesh) bool
	TestPropCollisions(idx model.NodeIndex, mesh *model.Mesh) (bool, *model.Prop)
	TestTriggerCollisions(mesh *model.Mesh) bool
}

// Result describes what one Step did.
type Result struct {
	Position  mgl32.Vec3
	Node      model.NodeIndex
	Grounded  bool        // Y was clamped to the terrain
	Blocked   bool        // the horizontal move was reverted
	BlockedBy *model.Prop // nil when a border blocked the move
	Triggered bool
}

// Mover owns the position of one mesh.
type Mover struct {
	world World
	mesh  *model.Mesh
	node  model.NodeIndex
}

// NewMover places mesh on the terrain under its current position.
func NewMover(w World, mesh *model.Mesh) *Mover {
	m := &Mover{world: w, mesh: mesh}

	pos := mesh.Position()
	idx, h := w.GetTerrainHeightAndNode(pos)
	m.node = idx
	if idx != model.NoNode && pos.Y() < h {
		pos[1] = h
		mesh.SetPosition(pos)
	}
	return m
}

// Mesh returns the moved mesh.
func (m *Mover) Mesh() *model.Mesh { return m.mesh }

// Node returns the node the mesh was last seen in. NoNode when it started
// off the map and never entered it.
func (m *Mover) Node() model.NodeIndex { return m.node }

// Position returns the current mesh position.
func (m *Mover) Position() mgl32.Vec3 { return m.mesh.Position() }

// Step moves the mesh by delta. Order per tick:
//  1. remember the current position
//  2. apply delta
//  3. query the terrain; Y is clamped to the ground, off the map Y is kept
//  4. a border of the current node reverts X and Z
//  5. a prop in the node or its ring reverts X and Z
//  6. triggers touched at the final position fire
func (m *Mover) Step(delta mgl32.Vec3) Result {
	prev := m.mesh.Position()
	next := prev.Add(delta)

	res := Result{}

	idx, h := m.world.GetTerrainHeightAndNode(next)
	if idx != model.NoNode && next.Y() <= h {
		next[1] = h
		res.Grounded = true
	}
	m.mesh.SetPosition(next)

	// Off the map the last known node still fences the mesh in
	query := idx
	if query == model.NoNode {
		query = m.node
	}

	if m.world.TestBoundaryCollision(query, m.mesh) {
		res.Blocked = true
	} else if hit, p := m.world.TestPropCollisions(query, m.mesh); hit {
		res.Blocked = true
		res.BlockedBy = p
	}

	if res.Blocked {
		next[0], next[2] = prev.X(), prev.Z()
		idx, h = m.world.GetTerrainHeightAndNode(next)
		if idx != model.NoNode && next.Y() <= h {
			next[1] = h
		}
		m.mesh.SetPosition(next)
	}

	if idx != model.NoNode {
		m.node = idx
	}

	res.Triggered = m.world.TestTriggerCollisions(m.mesh)
	res.Position = m.mesh.Position()
	res.Node = m.node
	return res
}
