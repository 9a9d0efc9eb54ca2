package geom

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unitBox() OBB {
	return NewOBB(mgl32.Vec3{-0.5, -0.5, -0.5}, mgl32.Vec3{0.5, 0.5, 0.5})
}

func TestNewOBBNormalizesExtents(t *testing.T) {
	b := NewOBB(mgl32.Vec3{1, -1, 3}, mgl32.Vec3{-1, 1, 2})
	assert.Equal(t, mgl32.Vec3{-1, -1, 2}, b.Min)
	assert.Equal(t, mgl32.Vec3{1, 1, 3}, b.Max)
	assert.Equal(t, mgl32.Ident4(), b.World(), "unassigned world is identity")
}

func TestFromPoints(t *testing.T) {
	b := FromPoints([]mgl32.Vec3{{1, 2, 3}, {-1, 5, 0}, {0, -2, 1}})
	assert.Equal(t, mgl32.Vec3{-1, -2, 0}, b.Min)
	assert.Equal(t, mgl32.Vec3{1, 5, 3}, b.Max)

	empty := FromPoints(nil)
	assert.Equal(t, mgl32.Vec3{}, empty.Min)
	assert.Equal(t, mgl32.Vec3{}, empty.Max)
}

func TestIntersectsRayThroughCentre(t *testing.T) {
	tests := []struct {
		name      string
		origin    mgl32.Vec3
		direction mgl32.Vec3
	}{
		{"from -X", mgl32.Vec3{-5, 0, 0}, mgl32.Vec3{1, 0, 0}},
		{"from +X", mgl32.Vec3{5, 0, 0}, mgl32.Vec3{-1, 0, 0}},
		{"from -Y", mgl32.Vec3{0, -5, 0}, mgl32.Vec3{0, 1, 0}},
		{"from +Y", mgl32.Vec3{0, 5, 0}, mgl32.Vec3{0, -1, 0}},
		{"from -Z", mgl32.Vec3{0, 0, -5}, mgl32.Vec3{0, 0, 1}},
		{"from +Z", mgl32.Vec3{0, 0, 5}, mgl32.Vec3{0, 0, -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit, tNear, tFar := unitBox().IntersectsRay(NewRay(tt.origin, tt.direction))
			require.True(t, hit)
			assert.Greater(t, tNear, float32(0))
			assert.Greater(t, tFar, float32(0))
			assert.Less(t, tNear, tFar)
			assert.InDelta(t, 4.5, tNear, 1e-5)
			assert.InDelta(t, 5.5, tFar, 1e-5)
		})
	}
}

func TestIntersectsRayMiss(t *testing.T) {
	b := unitBox()

	hit, tNear, tFar := b.IntersectsRay(NewRay(mgl32.Vec3{-5, 2, 0}, mgl32.Vec3{1, 0, 0}))
	assert.False(t, hit, "parallel ray outside the slab")
	assert.Equal(t, NoHit, tNear)
	assert.Equal(t, NoHit, tFar)

	hit, _, _ = b.IntersectsRay(NewRay(mgl32.Vec3{5, 0, 0}, mgl32.Vec3{1, 0, 0}))
	assert.False(t, hit, "box behind the ray origin")

	hit, _, _ = b.IntersectsRay(NewRay(mgl32.Vec3{-5, -5, 0}, mgl32.Vec3{1, 3, 0}))
	assert.False(t, hit, "near distance exceeds far distance")
}

func TestIntersectsRayFromInside(t *testing.T) {
	hit, tNear, tFar := unitBox().IntersectsRay(NewRay(mgl32.Vec3{}, mgl32.Vec3{0, 0, 1}))
	require.True(t, hit)
	assert.Less(t, tNear, float32(0))
	assert.InDelta(t, 0.5, tFar, 1e-5)
}

func TestIntersectsRayTransformed(t *testing.T) {
	b := unitBox()
	tr := Transform{
		Position: mgl32.Vec3{10, 0, 0},
		Rotation: mgl32.Vec3{0, 45, 0},
		Scale:    mgl32.Vec3{2, 2, 2},
	}
	b.ApplyWorld(tr.Matrix())

	hit, tNear, _ := b.IntersectsRay(NewRay(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 0, 0}))
	require.True(t, hit)
	// Scaled to 2x2 and turned 45 degrees: the near corner sits sqrt(2) from the centre.
	assert.InDelta(t, 10-1.41421, tNear, 1e-3)

	hit, _, _ = b.IntersectsRay(NewRay(mgl32.Vec3{0, 3, 0}, mgl32.Vec3{1, 0, 0}))
	assert.False(t, hit)
}

func TestSingularWorldNeverHits(t *testing.T) {
	b := unitBox()
	b.ApplyWorld(Transform{Scale: mgl32.Vec3{0, 1, 1}}.Matrix())

	hit, _, _ := b.IntersectsRay(NewRay(mgl32.Vec3{-5, 0, 0}, mgl32.Vec3{1, 0, 0}))
	assert.False(t, hit)
	assert.False(t, b.IntersectsOBB(unitBox()))
	assert.False(t, unitBox().IntersectsOBB(b))
}

func TestIntersectsOBB(t *testing.T) {
	place := func(pos mgl32.Vec3) OBB {
		b := unitBox()
		b.ApplyWorld(NewTransform(pos).Matrix())
		return b
	}

	t.Run("overlapping", func(t *testing.T) {
		a, b := place(mgl32.Vec3{}), place(mgl32.Vec3{0.75, 0, 0})
		assert.True(t, a.IntersectsOBB(b))
		assert.True(t, b.IntersectsOBB(a))
	})

	t.Run("separated on one axis", func(t *testing.T) {
		for _, offset := range []mgl32.Vec3{{1.5, 0, 0}, {0, 1.5, 0}, {0, 0, -1.5}} {
			a, b := place(mgl32.Vec3{}), place(offset)
			assert.False(t, a.IntersectsOBB(b), "offset %v", offset)
			assert.False(t, b.IntersectsOBB(a), "offset %v", offset)
		}
	})

	t.Run("touching faces count as overlap", func(t *testing.T) {
		a, b := place(mgl32.Vec3{}), place(mgl32.Vec3{1, 0, 0})
		assert.True(t, a.IntersectsOBB(b))
	})
}

func TestIntersectsOBBIsAsymmetric(t *testing.T) {
	rotated := unitBox()
	rotated.ApplyWorld(Transform{Rotation: mgl32.Vec3{0, 45, 0}, Scale: mgl32.Vec3{1, 1, 1}}.Matrix())

	small := NewOBB(mgl32.Vec3{-0.1, -0.1, -0.1}, mgl32.Vec3{0.1, 0.1, 0.1})
	small.ApplyWorld(NewTransform(mgl32.Vec3{0.6, 0, 0.6}).Matrix())

	assert.False(t, rotated.IntersectsOBB(small))
	assert.True(t, small.IntersectsOBB(rotated), "corner extents of the rotated box reach the small one")
}

func TestCornersAndCentre(t *testing.T) {
	b := NewOBB(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{2, 4, 6})
	b.ApplyWorld(NewTransform(mgl32.Vec3{10, 0, 0}).Matrix())

	assert.Equal(t, mgl32.Vec3{11, 2, 3}, b.Center())

	lo, hi := b.WorldAABB()
	assert.Equal(t, mgl32.Vec3{10, 0, 0}, lo)
	assert.Equal(t, mgl32.Vec3{12, 4, 6}, hi)
}

func TestTransformMatrixOrder(t *testing.T) {
	tr := Transform{
		Position: mgl32.Vec3{1, 2, 3},
		Rotation: mgl32.Vec3{0, 90, 0},
		Scale:    mgl32.Vec3{2, 1, 1},
	}
	// Scale first (x -> 2), then rotate +90 about Y (x -> -z), then translate.
	got := transformPoint(tr.Matrix(), mgl32.Vec3{1, 0, 0})
	assert.InDelta(t, 1, got.X(), 1e-5)
	assert.InDelta(t, 2, got.Y(), 1e-5)
	assert.InDelta(t, 1, got.Z(), 1e-5)
}
