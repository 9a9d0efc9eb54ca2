package model

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/udisondev/islandcraft/internal/geom"
)

// PropRecord is the persisted form of a node prop. Its position in the
// node's list is the slot index.
type PropRecord struct {
	ID       int32      `yaml:"id"`
	Position mgl32.Vec3 `yaml:"position,flow"`
	Rotation mgl32.Vec3 `yaml:"rotation,flow"`
	Scale    mgl32.Vec3 `yaml:"scale,flow"`
}

// Transform returns the record's transform. A zero scale reads as unit scale.
func (r PropRecord) Transform() geom.Transform {
	return recordTransform(r.Position, r.Rotation, r.Scale)
}

// TriggerRecord is the persisted form of a trigger.
type TriggerRecord struct {
	ID           int32      `yaml:"id"`
	Position     mgl32.Vec3 `yaml:"position,flow"`
	Rotation     mgl32.Vec3 `yaml:"rotation,flow"`
	Scale        mgl32.Vec3 `yaml:"scale,flow"`
	Repeatable   bool       `yaml:"repeatable"`
	HasTriggered bool       `yaml:"has_triggered"`
}

// LogicPropRecord is the persisted form of a logic prop.
type LogicPropRecord struct {
	ID       int32      `yaml:"id"`
	Position mgl32.Vec3 `yaml:"position,flow"`
	Rotation mgl32.Vec3 `yaml:"rotation,flow"`
	Scale    mgl32.Vec3 `yaml:"scale,flow"`
	Enabled  bool       `yaml:"enabled"`
}

// PropRecord drops the enabled flag.
func (r LogicPropRecord) PropRecord() PropRecord {
	return PropRecord{ID: r.ID, Position: r.Position, Rotation: r.Rotation, Scale: r.Scale}
}

// WaterVolumeRecord is the persisted form of a water volume.
type WaterVolumeRecord struct {
	Position   mgl32.Vec3 `yaml:"position,flow"`
	Size       mgl32.Vec3 `yaml:"size,flow"`
	WaveHeight float32    `yaml:"wave_height"`
	WaveSpeed  float32    `yaml:"wave_speed"`
	Clarity    float32    `yaml:"clarity"`
}

// ParticleEmitterRecord is the persisted form of a particle emitter.
type ParticleEmitterRecord struct {
	Effect   string     `yaml:"effect"`
	Position mgl32.Vec3 `yaml:"position,flow"`
	Rate     float32    `yaml:"rate"`     // particles per second
	Lifetime float32    `yaml:"lifetime"` // seconds
	Spread   float32    `yaml:"spread"`
	Enabled  bool       `yaml:"enabled"`
}

// UsefulLocationRecord is the persisted form of a useful location.
type UsefulLocationRecord struct {
	Name     string     `yaml:"name"`
	Kind     string     `yaml:"kind"`
	Position mgl32.Vec3 `yaml:"position,flow"`
	Facing   float32    `yaml:"facing"` // degrees about Y
}

func recordTransform(pos, rot, scale mgl32.Vec3) geom.Transform {
	if scale == (mgl32.Vec3{}) {
		scale = mgl32.Vec3{1, 1, 1}
	}
	return geom.Transform{Position: pos, Rotation: rot, Scale: scale}
}
