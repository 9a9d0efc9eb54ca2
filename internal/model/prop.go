// Package model defines the entities placed in the world: props and their
// bounding meshes, triggers, water volumes, particle emitters and useful
// locations, plus the records they are persisted as.
package model

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/udisondev/islandcraft/internal/gameid"
	"github.com/udisondev/islandcraft/internal/geom"
)

// Kind is the variant tag of a Prop.
type Kind uint8

const (
	KindBorder Kind = iota + 1
	KindTree
	KindStump
	KindRock
	KindLogic
	KindBuildable
)

var kindNames = [...]string{
	KindBorder:    "border",
	KindTree:      "tree",
	KindStump:     "stump",
	KindRock:      "rock",
	KindLogic:     "logic",
	KindBuildable: "buildable",
}

// String returns the lower-case kind name.
func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "unknown"
}

// KindOf classifies a prop ID. ok is false for IDs outside every prop range.
func KindOf(id int32) (Kind, bool) {
	switch {
	case gameid.IsBorder(id):
		return KindBorder, true
	case gameid.IsTree(id):
		return KindTree, true
	case gameid.IsStump(id):
		return KindStump, true
	case gameid.IsRock(id):
		return KindRock, true
	case gameid.IsLogicProp(id):
		return KindLogic, true
	case gameid.IsBuildable(id):
		return KindBuildable, true
	default:
		return 0, false
	}
}

// BuildGridSize is the edge length of one construction grid cell.
const BuildGridSize float32 = 4

// GridPoint is a cell of the construction grid.
type GridPoint struct {
	X, Y, Z int32
}

// GridPointAt returns the construction cell containing p.
func GridPointAt(p mgl32.Vec3) GridPoint {
	cell := func(v float32) int32 {
		return int32(math.Floor(float64(v / BuildGridSize)))
	}
	return GridPoint{X: cell(p.X()), Y: cell(p.Y()), Z: cell(p.Z())}
}

// LogicState is the payload of a logic prop.
type LogicState struct {
	Enabled bool
}

// BuildState is the payload of a buildable object.
type BuildState struct {
	GridOrigin GridPoint
}

// Prop is one placed world entity. The kind is fixed by the ID at
// construction; the payload matching the kind is non-nil.
type Prop struct {
	id        int32
	kind      Kind
	transform geom.Transform
	meshes    []*Mesh // meshes[0] is the bounding model
	location  WorldLocation

	logic *LogicState
	build *BuildState
}

// ID returns the classification ID (immutable after construction).
func (p *Prop) ID() int32 { return p.id }

// Kind returns the variant tag.
func (p *Prop) Kind() Kind { return p.kind }

// Transform returns the prop transform.
func (p *Prop) Transform() geom.Transform { return p.transform }

// Position returns the world position.
func (p *Prop) Position() mgl32.Vec3 { return p.transform.Position }

// Rotation returns the Euler rotation in degrees.
func (p *Prop) Rotation() mgl32.Vec3 { return p.transform.Rotation }

// Scale returns the scale.
func (p *Prop) Scale() mgl32.Vec3 { return p.transform.Scale }

// Meshes returns every visual sub-mesh, bounding model first.
func (p *Prop) Meshes() []*Mesh { return p.meshes }

// BoundingModel returns the mesh used for collision and picking.
func (p *Prop) BoundingModel() *Mesh { return p.meshes[0] }

// Location returns the slot this prop occupies.
func (p *Prop) Location() WorldLocation { return p.location }

// SetLocation records the slot this prop occupies. Only the owning node
// calls it.
func (p *Prop) SetLocation(loc WorldLocation) { p.location = loc }

// SetPosition moves the prop and every sub-mesh.
func (p *Prop) SetPosition(pos mgl32.Vec3) {
	p.transform.Position = pos
	for _, m := range p.meshes {
		m.SetPosition(pos)
	}
	if p.build != nil {
		p.build.GridOrigin = GridPointAt(pos)
	}
}

// SetRotation rotates the prop and every sub-mesh.
func (p *Prop) SetRotation(rot mgl32.Vec3) {
	p.transform.Rotation = rot
	for _, m := range p.meshes {
		m.SetRotation(rot)
	}
}

// SetScale scales the prop and every sub-mesh.
func (p *Prop) SetScale(scale mgl32.Vec3) {
	p.transform.Scale = scale
	for _, m := range p.meshes {
		m.SetScale(scale)
	}
}

// UpdateBoundingBox refreshes the bounding model if needed and returns it.
func (p *Prop) UpdateBoundingBox() geom.OBB {
	return p.BoundingModel().UpdateBoundingBox()
}

// Logic returns the logic payload, nil unless Kind is KindLogic.
func (p *Prop) Logic() *LogicState { return p.logic }

// Build returns the buildable payload, nil unless Kind is KindBuildable.
func (p *Prop) Build() *BuildState { return p.build }

// Enabled reports whether the prop takes part in the world. Only logic props
// can be disabled.
func (p *Prop) Enabled() bool {
	return p.logic == nil || p.logic.Enabled
}

// Collidable reports whether collision queries consider this prop.
func (p *Prop) Collidable() bool {
	return p.Enabled()
}

// Visible reports whether the prop is drawn. Borders show only in debug mode.
func (p *Prop) Visible(debug bool) bool {
	if p.kind == KindBorder {
		return debug
	}
	return p.Enabled()
}

// Record returns the persisted form of the prop.
func (p *Prop) Record() PropRecord {
	return PropRecord{
		ID:       p.id,
		Position: p.transform.Position,
		Rotation: p.transform.Rotation,
		Scale:    p.transform.Scale,
	}
}

// LogicRecord returns the persisted form of a logic prop.
func (p *Prop) LogicRecord() LogicPropRecord {
	return LogicPropRecord{
		ID:       p.id,
		Position: p.transform.Position,
		Rotation: p.transform.Rotation,
		Scale:    p.transform.Scale,
		Enabled:  p.Enabled(),
	}
}
