package world

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/udisondev/islandcraft/internal/config"
	"github.com/udisondev/islandcraft/internal/game/terrain"
	"github.com/udisondev/islandcraft/internal/model"
)

// ErrStaleLocation is returned when a WorldLocation no longer names the
// prop it was issued for.
var ErrStaleLocation = errors.New("stale world location")

// StumpRegistrar receives every stump a node loads.
type StumpRegistrar interface {
	RegisterStump(loc model.WorldLocation)
}

type propSlot struct {
	prop *model.Prop
	gen  uint32
}

// Node is one square tile of the world: a terrain surface centred on origin
// and the props standing on it. Props are kept in slots; a slot is only ever
// overwritten, never removed, so list indices stay stable for the session.
type Node struct {
	id      int32
	index   model.NodeIndex
	origin  mgl32.Vec3
	surface terrain.Surface

	slots   []propSlot
	nextGen uint32

	surrounding []model.NodeIndex // cached 3×3 ring, excluding self
}

// NewNode creates an empty node.
func NewNode(id int32, index model.NodeIndex, origin mgl32.Vec3, surface terrain.Surface) *Node {
	return &Node{
		id:      id,
		index:   index,
		origin:  origin,
		surface: surface,
	}
}

// ID returns the node id (x*size + y).
func (n *Node) ID() int32 { return n.id }

// Index returns the grid index.
func (n *Node) Index() model.NodeIndex { return n.index }

// Origin returns the world position of the node centre.
func (n *Node) Origin() mgl32.Vec3 { return n.origin }

// Surface returns the terrain surface.
func (n *Node) Surface() terrain.Surface { return n.surface }

// SurroundingNodes returns the cached neighbour ring.
func (n *Node) SurroundingNodes() []model.NodeIndex { return n.surrounding }

func (n *Node) setSurroundingNodes(ring []model.NodeIndex) { n.surrounding = ring }

// Len returns the number of slots.
func (n *Node) Len() int { return len(n.slots) }

// ToLocal converts a world position into node-local coordinates.
func (n *Node) ToLocal(world mgl32.Vec3) mgl32.Vec3 {
	return world.Sub(n.origin)
}

// Contains reports whether the terrain of this node covers world.
func (n *Node) Contains(world mgl32.Vec3) bool {
	return n.surface.IsPositionWithinBounds(n.ToLocal(world))
}

// TerrainHeight returns the world-space terrain height under world.
// The caller must check Contains first.
func (n *Node) TerrainHeight(world mgl32.Vec3) float32 {
	return n.surface.SampleHeight(n.ToLocal(world)) + n.origin.Y()
}

func (n *Node) newGen() uint32 {
	n.nextGen++
	return n.nextGen
}

// LoadPropList replaces the prop list with props built from records, in
// order. Stumps are handed to reg once the whole list is in place.
func (n *Node) LoadPropList(records []model.PropRecord, factory *model.Factory, reg StumpRegistrar) error {
	slots := make([]propSlot, 0, len(records))

	for i, rec := range records {
		p, err := factory.Construct(rec)
		if err != nil {
			return fmt.Errorf("loading prop %d of node %s: %w", i, n.index, err)
		}

		gen := n.newGen()
		p.SetLocation(model.WorldLocation{Node: n.index, Index: i, Gen: gen})
		p.UpdateBoundingBox()
		slots = append(slots, propSlot{prop: p, gen: gen})
	}

	n.slots = slots

	if reg != nil {
		for _, s := range n.slots {
			if s.prop.Kind() == model.KindStump {
				reg.RegisterStump(s.prop.Location())
			}
		}
	}

	slog.Debug("node props loaded", "node", n.index, "props", len(n.slots))
	return nil
}

// SavePropList returns the records of the node props in list order.
// Logic props are left out; they are saved with the world globals.
func (n *Node) SavePropList() []model.PropRecord {
	out := make([]model.PropRecord, 0, len(n.slots))
	for _, s := range n.slots {
		if s.prop.Kind() == model.KindLogic {
			continue
		}
		out = append(out, s.prop.Record())
	}
	return out
}

// ReceiveNewProp appends p and returns the handle of its slot.
func (n *Node) ReceiveNewProp(p *model.Prop) model.WorldLocation {
	gen := n.newGen()
	loc := model.WorldLocation{Node: n.index, Index: len(n.slots), Gen: gen}

	p.SetLocation(loc)
	p.UpdateBoundingBox()
	n.slots = append(n.slots, propSlot{prop: p, gen: gen})

	return loc
}

// Prop resolves loc. ok is false when loc points elsewhere, past the end of
// the list, or at a slot that was overwritten since loc was issued.
func (n *Node) Prop(loc model.WorldLocation) (*model.Prop, bool) {
	if loc.Node != n.index || loc.Index < 0 || loc.Index >= len(n.slots) {
		return nil, false
	}
	s := n.slots[loc.Index]
	if s.gen != loc.Gen {
		return nil, false
	}
	return s.prop, true
}

// PropAt returns the prop in slot i, or nil when i is out of range.
func (n *Node) PropAt(i int) *model.Prop {
	if i < 0 || i >= len(n.slots) {
		return nil
	}
	return n.slots[i].prop
}

// Replace overwrites the slot loc names with p and returns the new handle.
// Handles to the old occupant go stale.
func (n *Node) Replace(loc model.WorldLocation, p *model.Prop) (model.WorldLocation, error) {
	if _, ok := n.Prop(loc); !ok {
		return model.WorldLocation{}, fmt.Errorf("replacing %s: %w", loc, ErrStaleLocation)
	}

	gen := n.newGen()
	next := model.WorldLocation{Node: n.index, Index: loc.Index, Gen: gen}

	p.SetLocation(next)
	p.UpdateBoundingBox()
	n.slots[loc.Index] = propSlot{prop: p, gen: gen}

	return next, nil
}

// ForEachProp calls fn for every prop in list order until fn returns false.
func (n *Node) ForEachProp(fn func(*model.Prop) bool) {
	for _, s := range n.slots {
		if !fn(s.prop) {
			return
		}
	}
}

// Props returns a copy of the prop list.
func (n *Node) Props() []*model.Prop {
	out := make([]*model.Prop, len(n.slots))
	for i, s := range n.slots {
		out[i] = s.prop
	}
	return out
}

// VisibleProps lists the props to draw for a camera at camera.
// With CullDistance mode, props farther than cullDistance are skipped.
func (n *Node) VisibleProps(camera mgl32.Vec3, cullMode string, cullDistance float32, debug bool) []*model.Prop {
	out := make([]*model.Prop, 0, len(n.slots))
	maxSq := cullDistance * cullDistance

	for _, s := range n.slots {
		p := s.prop
		if !p.Visible(debug) {
			continue
		}
		if cullMode == config.CullDistance {
			d := p.Position().Sub(camera)
			if d.Dot(d) > maxSq {
				continue
			}
		}
		out = append(out, p)
	}

	return out
}

// BuildableAt reports whether a buildable already occupies grid cell origin.
func (n *Node) BuildableAt(origin model.GridPoint) bool {
	for _, s := range n.slots {
		if b := s.prop.Build(); b != nil && b.GridOrigin == origin {
			return true
		}
	}
	return false
}

func (n *Node) clear() {
	n.slots = nil
}
