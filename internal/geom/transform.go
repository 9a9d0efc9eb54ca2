// Package geom holds the bounding-volume maths shared by the world, the
// movement code and the level tools: transforms, rays and oriented boxes.
package geom

import "github.com/go-gl/mathgl/mgl32"

// Transform is a position, an Euler rotation in degrees and a scale.
// Rotation is applied X, then Y, then Z.
type Transform struct {
	Position mgl32.Vec3
	Rotation mgl32.Vec3
	Scale    mgl32.Vec3
}

// NewTransform returns a transform at position with unit scale and no rotation.
func NewTransform(position mgl32.Vec3) Transform {
	return Transform{Position: position, Scale: mgl32.Vec3{1, 1, 1}}
}

// Matrix returns the world matrix T * Rz * Ry * Rx * S.
func (t Transform) Matrix() mgl32.Mat4 {
	rot := mgl32.HomogRotate3DZ(mgl32.DegToRad(t.Rotation.Z())).
		Mul4(mgl32.HomogRotate3DY(mgl32.DegToRad(t.Rotation.Y()))).
		Mul4(mgl32.HomogRotate3DX(mgl32.DegToRad(t.Rotation.X())))

	return mgl32.Translate3D(t.Position.X(), t.Position.Y(), t.Position.Z()).
		Mul4(rot).
		Mul4(mgl32.Scale3D(t.Scale.X(), t.Scale.Y(), t.Scale.Z()))
}

// ScaledBy returns a copy with the scale multiplied per axis by f.
func (t Transform) ScaledBy(f mgl32.Vec3) Transform {
	t.Scale = mgl32.Vec3{t.Scale.X() * f.X(), t.Scale.Y() * f.Y(), t.Scale.Z() * f.Z()}
	return t
}

// transformPoint applies an affine matrix to a point (w = 1).
func transformPoint(m mgl32.Mat4, p mgl32.Vec3) mgl32.Vec3 {
	return m.Mul4x1(p.Vec4(1)).Vec3()
}

// transformDirection applies an affine matrix to a direction (w = 0).
func transformDirection(m mgl32.Mat4, d mgl32.Vec3) mgl32.Vec3 {
	return m.Mul4x1(d.Vec4(0)).Vec3()
}
