package model

import (
	"github.com/go-gl/mathgl/mgl32"
)

// TriggerFunc runs when a trigger fires.
type TriggerFunc func(t *Trigger)

// Trigger is a volume that fires a callback when something moves into it.
// It fires once unless it is repeatable.
type Trigger struct {
	id           int32
	mesh         *Mesh
	repeatable   bool
	hasTriggered bool
	handler      TriggerFunc
}

// NewTrigger creates a trigger around mesh.
func NewTrigger(id int32, mesh *Mesh, repeatable, hasTriggered bool) *Trigger {
	return &Trigger{
		id:           id,
		mesh:         mesh,
		repeatable:   repeatable,
		hasTriggered: hasTriggered,
	}
}

// ID returns the trigger ID.
func (t *Trigger) ID() int32 { return t.id }

// Mesh returns the trigger volume.
func (t *Trigger) Mesh() *Mesh { return t.mesh }

// Position returns the world position of the volume.
func (t *Trigger) Position() mgl32.Vec3 { return t.mesh.Position() }

// Repeatable reports whether the trigger can fire more than once.
func (t *Trigger) Repeatable() bool { return t.repeatable }

// HasTriggered reports whether the trigger fired at least once.
func (t *Trigger) HasTriggered() bool { return t.hasTriggered }

// SetHandler sets the callback run on Execute.
func (t *Trigger) SetHandler(fn TriggerFunc) { t.handler = fn }

// Reset re-arms a one-shot trigger.
func (t *Trigger) Reset() { t.hasTriggered = false }

// Execute fires the trigger if it is armed and reports whether it fired.
func (t *Trigger) Execute() bool {
	if t.hasTriggered && !t.repeatable {
		return false
	}
	t.hasTriggered = true
	if t.handler != nil {
		t.handler(t)
	}
	return true
}

// Record returns the persisted form of the trigger.
func (t *Trigger) Record() TriggerRecord {
	tr := t.mesh.Transform()
	return TriggerRecord{
		ID:           t.id,
		Position:     tr.Position,
		Rotation:     tr.Rotation,
		Scale:        tr.Scale,
		Repeatable:   t.repeatable,
		HasTriggered: t.hasTriggered,
	}
}
