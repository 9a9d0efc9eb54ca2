package model

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/udisondev/islandcraft/internal/content"
	"github.com/udisondev/islandcraft/internal/gameid"
	"github.com/udisondev/islandcraft/internal/geom"
)

// ErrUnknownPropID is returned when an ID falls outside every prop range or
// has no model assigned.
var ErrUnknownPropID = errors.New("unknown prop id")

// TreeBoundsShrink scales a tree's bounding box on X and Z. The canopy model
// is far wider than the trunk the player should bump into.
var TreeBoundsShrink = mgl32.Vec3{0.25, 1, 0.25}

// treeSpecies names the model pair of each tree: <species>_top and <species>_trunk.
var treeSpecies = map[int32]string{
	gameid.TreeOak:    "oak",
	gameid.TreePine:   "pine",
	gameid.TreeBirch:  "birch",
	gameid.TreeWillow: "willow",
	gameid.TreePalm:   "palm",
}

var rockModels = map[int32]string{
	gameid.RockSmall: "rock_small",
	gameid.RockLarge: "rock_large",
	gameid.RockCliff: "rock_cliff",
}

var logicModels = map[int32]string{
	gameid.LogicBoat:    "boat",
	gameid.LogicDam:     "dam",
	gameid.LogicHouse:   "house",
	gameid.LogicDock:    "dock",
	gameid.LogicFence:   "fence",
	gameid.LogicCabbage: "cabbage",
}

var buildModels = map[int32]string{
	gameid.BuildFoundation: "build_foundation",
	gameid.BuildWall:       "build_wall",
	gameid.BuildRoof:       "build_roof",
	gameid.BuildStairs:     "build_stairs",
	gameid.BuildDoor:       "build_door",
}

const (
	borderModel  = "border"
	stumpModel   = "stump"
	triggerModel = "trigger_volume"
)

// Factory builds props from records, looking model extents up in a catalog.
type Factory struct {
	catalog *content.Catalog
}

// NewFactory creates a factory over catalog.
func NewFactory(catalog *content.Catalog) *Factory {
	return &Factory{catalog: catalog}
}

// Mesh creates a mesh of the named model.
func (f *Factory) Mesh(name string, t geom.Transform) (*Mesh, error) {
	bounds, err := f.catalog.Bounds(name)
	if err != nil {
		return nil, err
	}
	return NewMesh(name, bounds, t), nil
}

// Construct builds the prop a record describes. Logic props come out enabled.
func (f *Factory) Construct(rec PropRecord) (*Prop, error) {
	kind, ok := KindOf(rec.ID)
	if !ok {
		return nil, fmt.Errorf("construct prop %d: %w", rec.ID, ErrUnknownPropID)
	}

	names, err := meshNames(kind, rec.ID)
	if err != nil {
		return nil, err
	}

	t := rec.Transform()
	p := &Prop{id: rec.ID, kind: kind, transform: t}
	for _, name := range names {
		m, err := f.Mesh(name, t)
		if err != nil {
			return nil, fmt.Errorf("construct prop %d: %w", rec.ID, err)
		}
		p.meshes = append(p.meshes, m)
	}

	switch kind {
	case KindTree:
		p.BoundingModel().SetBoundsScale(TreeBoundsShrink)
	case KindLogic:
		p.logic = &LogicState{Enabled: true}
	case KindBuildable:
		p.build = &BuildState{GridOrigin: GridPointAt(t.Position)}
	}

	return p, nil
}

// ConstructLogic builds a logic prop with its saved enabled flag.
func (f *Factory) ConstructLogic(rec LogicPropRecord) (*Prop, error) {
	if !gameid.IsLogicProp(rec.ID) {
		return nil, fmt.Errorf("construct logic prop %d: %w", rec.ID, ErrUnknownPropID)
	}
	p, err := f.Construct(rec.PropRecord())
	if err != nil {
		return nil, err
	}
	p.logic.Enabled = rec.Enabled
	return p, nil
}

// ConstructTrigger builds a trigger volume. The trigger model is a unit cube,
// so the record scale is the volume size.
func (f *Factory) ConstructTrigger(rec TriggerRecord) (*Trigger, error) {
	if !gameid.IsTrigger(rec.ID) {
		return nil, fmt.Errorf("construct trigger %d: %w", rec.ID, ErrUnknownPropID)
	}
	m, err := f.Mesh(triggerModel, recordTransform(rec.Position, rec.Rotation, rec.Scale))
	if err != nil {
		return nil, fmt.Errorf("construct trigger %d: %w", rec.ID, err)
	}
	return NewTrigger(rec.ID, m, rec.Repeatable, rec.HasTriggered), nil
}

// meshNames returns the models of a prop, bounding model first.
func meshNames(kind Kind, id int32) ([]string, error) {
	lookup := func(table map[int32]string) ([]string, error) {
		name, ok := table[id]
		if !ok {
			return nil, fmt.Errorf("no model for prop %d: %w", id, ErrUnknownPropID)
		}
		return []string{name}, nil
	}

	switch kind {
	case KindBorder:
		return []string{borderModel}, nil
	case KindTree:
		species, ok := treeSpecies[id]
		if !ok {
			return nil, fmt.Errorf("no model for tree %d: %w", id, ErrUnknownPropID)
		}
		return []string{species + "_top", species + "_trunk"}, nil
	case KindStump:
		return []string{stumpModel}, nil
	case KindRock:
		return lookup(rockModels)
	case KindLogic:
		return lookup(logicModels)
	case KindBuildable:
		return lookup(buildModels)
	default:
		return nil, fmt.Errorf("no model for prop %d: %w", id, ErrUnknownPropID)
	}
}
