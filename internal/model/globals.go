package model

import "github.com/go-gl/mathgl/mgl32"

// WaterVolume is an axis-aligned body of water. Position is the centre of
// the surface; Size is width, depth and height below the surface.
type WaterVolume struct {
	WaterVolumeRecord
}

// NewWaterVolume creates a water volume from its record.
func NewWaterVolume(rec WaterVolumeRecord) *WaterVolume {
	return &WaterVolume{WaterVolumeRecord: rec}
}

// SurfaceHeight returns the height of the water surface.
func (w *WaterVolume) SurfaceHeight() float32 {
	return w.Position.Y()
}

// Contains reports whether p lies in the volume.
func (w *WaterVolume) Contains(p mgl32.Vec3) bool {
	halfX := w.Size.X() / 2
	halfZ := w.Size.Z() / 2
	return p.X() >= w.Position.X()-halfX && p.X() <= w.Position.X()+halfX &&
		p.Z() >= w.Position.Z()-halfZ && p.Z() <= w.Position.Z()+halfZ &&
		p.Y() <= w.Position.Y() && p.Y() >= w.Position.Y()-w.Size.Y()
}

// Record returns the persisted form.
func (w *WaterVolume) Record() WaterVolumeRecord { return w.WaterVolumeRecord }

// ParticleEmitter is a placed particle source. The renderer owns the
// particles; the world only keeps the settings.
type ParticleEmitter struct {
	ParticleEmitterRecord
}

// NewParticleEmitter creates an emitter from its record.
func NewParticleEmitter(rec ParticleEmitterRecord) *ParticleEmitter {
	return &ParticleEmitter{ParticleEmitterRecord: rec}
}

// Record returns the persisted form.
func (e *ParticleEmitter) Record() ParticleEmitterRecord { return e.ParticleEmitterRecord }

// Useful location kinds.
const (
	LocationSpawn    = "spawn"
	LocationCampfire = "campfire"
	LocationDock     = "dock"
	LocationShelter  = "shelter"
	LocationLookout  = "lookout"
)

// UsefulLocation is a named point gameplay code can look up: spawn points,
// campfires, docking spots.
type UsefulLocation struct {
	UsefulLocationRecord
}

// NewUsefulLocation creates a useful location from its record.
func NewUsefulLocation(rec UsefulLocationRecord) *UsefulLocation {
	return &UsefulLocation{UsefulLocationRecord: rec}
}

// Record returns the persisted form.
func (u *UsefulLocation) Record() UsefulLocationRecord { return u.UsefulLocationRecord }
