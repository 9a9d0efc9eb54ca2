package world

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/udisondev/islandcraft/internal/geom"
	"github.com/udisondev/islandcraft/internal/model"
)

// Collision queries test a static box against the moving one:
// static.IntersectsOBB(moving). The test is not symmetric, so the order is
// fixed everywhere.

func (m *Manager) withinCollisionDistance(a, b mgl32.Vec3) bool {
	d := a.Sub(b)
	return d.Dot(d) <= m.cfg.CollisionDistance*m.cfg.CollisionDistance
}

// TestPropCollisions tests mesh against the props of idx and its ring.
// The first hit in node-then-list order is returned.
func (m *Manager) TestPropCollisions(idx model.NodeIndex, mesh *model.Mesh) (bool, *model.Prop) {
	n := m.Node(idx)
	if n == nil {
		return false, nil
	}

	if hit, p := m.testNodeProps(n, mesh, anyProp); hit {
		return true, p
	}
	for _, ni := range n.SurroundingNodes() {
		if hit, p := m.testNodeProps(m.Node(ni), mesh, anyProp); hit {
			return true, p
		}
	}
	return false, nil
}

// TestPropCollisionsInNode is TestPropCollisions limited to idx itself.
func (m *Manager) TestPropCollisionsInNode(idx model.NodeIndex, mesh *model.Mesh) (bool, *model.Prop) {
	n := m.Node(idx)
	if n == nil {
		return false, nil
	}
	return m.testNodeProps(n, mesh, anyProp)
}

// TestBoundaryCollision tests mesh against the border props of idx.
// Only idx itself is scanned: borders fence the tile they stand in.
func (m *Manager) TestBoundaryCollision(idx model.NodeIndex, mesh *model.Mesh) bool {
	n := m.Node(idx)
	if n == nil {
		return false
	}
	hit, _ := m.testNodeProps(n, mesh, borderOnly)
	return hit
}

// TestTriggerCollisions tests mesh against the global trigger list and
// executes the first trigger it touches.
func (m *Manager) TestTriggerCollisions(mesh *model.Mesh) bool {
	moving := mesh.UpdateBoundingBox()
	pos := mesh.Position()

	for _, t := range m.triggers {
		if !m.withinCollisionDistance(t.Position(), pos) {
			continue
		}
		box := t.Mesh().UpdateBoundingBox()
		if box.IntersectsOBB(moving) {
			t.Execute()
			return true
		}
	}
	return false
}

func anyProp(*model.Prop) bool { return true }

func borderOnly(p *model.Prop) bool { return p.Kind() == model.KindBorder }

func (m *Manager) testNodeProps(n *Node, mesh *model.Mesh, filter func(*model.Prop) bool) (bool, *model.Prop) {
	if n == nil {
		return false, nil
	}

	moving := mesh.UpdateBoundingBox()
	pos := mesh.Position()

	var hit *model.Prop
	n.ForEachProp(func(p *model.Prop) bool {
		if !filter(p) || !p.Collidable() {
			return true
		}
		if !m.withinCollisionDistance(p.Position(), pos) {
			return true
		}
		box := p.UpdateBoundingBox()
		if box.IntersectsOBB(moving) {
			hit = p
			return false
		}
		return true
	})

	return hit != nil, hit
}

// PickProp returns the prop whose bounding box the ray enters first, within
// reach. Only the node under the ray origin and its ring are searched.
// Borders are pickable in debug mode only.
func (m *Manager) PickProp(ray geom.Ray, reach float32) (*model.Prop, float32, bool) {
	idx, _ := m.GetTerrainHeightAndNode(ray.Origin)
	n := m.Node(idx)
	if n == nil {
		return nil, geom.NoHit, false
	}

	var (
		best  *model.Prop
		bestT = reach
	)
	pick := func(node *Node) {
		node.ForEachProp(func(p *model.Prop) bool {
			if !p.Collidable() || !p.Visible(m.cfg.DebugDraw) {
				return true
			}
			box := p.UpdateBoundingBox()
			hit, tNear, _ := box.IntersectsRay(ray)
			if !hit {
				return true
			}
			// Origin inside the box
			if tNear < 0 {
				tNear = 0
			}
			if tNear > bestT || (best != nil && tNear == bestT) {
				return true
			}
			best, bestT = p, tNear
			return true
		})
	}

	pick(n)
	for _, ni := range n.SurroundingNodes() {
		pick(m.Node(ni))
	}

	if best == nil {
		return nil, geom.NoHit, false
	}
	return best, bestT, true
}
