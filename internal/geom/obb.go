package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// parallelEpsilon is the direction component below which a ray is treated
// as parallel to a slab.
const parallelEpsilon = 1e-6

// NoHit is the distance reported by IntersectsRay on a miss.
const NoHit float32 = -1

// OBB is an axis-aligned box in local space (Min, Max) placed in the world
// by a transform. A box that never had ApplyWorld called sits at identity.
type OBB struct {
	Min mgl32.Vec3
	Max mgl32.Vec3

	world    mgl32.Mat4
	inverse  mgl32.Mat4
	assigned bool
	singular bool
}

// NewOBB creates a box from local extents. Components are swapped where
// min > max so that Min <= Max holds on every axis.
func NewOBB(min, max mgl32.Vec3) OBB {
	for i := range 3 {
		if min[i] > max[i] {
			min[i], max[i] = max[i], min[i]
		}
	}
	return OBB{Min: min, Max: max}
}

// FromPoints builds the local box enclosing a vertex cloud.
// An empty cloud gives a degenerate box at the origin.
func FromPoints(points []mgl32.Vec3) OBB {
	if len(points) == 0 {
		return NewOBB(mgl32.Vec3{}, mgl32.Vec3{})
	}
	lo, hi := points[0], points[0]
	for _, p := range points[1:] {
		for i := range 3 {
			lo[i] = min(lo[i], p[i])
			hi[i] = max(hi[i], p[i])
		}
	}
	return NewOBB(lo, hi)
}

// ApplyWorld sets the local-to-world matrix. A singular matrix (zero scale on
// some axis) makes every intersection test against this box miss.
func (b *OBB) ApplyWorld(m mgl32.Mat4) {
	b.world = m
	b.assigned = true
	b.singular = m.Det() == 0
	if b.singular {
		b.inverse = mgl32.Mat4{}
		return
	}
	b.inverse = m.Inv()
}

// World returns the local-to-world matrix.
func (b OBB) World() mgl32.Mat4 {
	if !b.assigned {
		return mgl32.Ident4()
	}
	return b.world
}

func (b OBB) worldInverse() mgl32.Mat4 {
	if !b.assigned {
		return mgl32.Ident4()
	}
	return b.inverse
}

// Corners returns the eight corners in world space.
func (b OBB) Corners() [8]mgl32.Vec3 {
	w := b.World()
	var out [8]mgl32.Vec3
	for i := range 8 {
		c := b.Min
		if i&1 != 0 {
			c[0] = b.Max[0]
		}
		if i&2 != 0 {
			c[1] = b.Max[1]
		}
		if i&4 != 0 {
			c[2] = b.Max[2]
		}
		out[i] = transformPoint(w, c)
	}
	return out
}

// Center returns the box centre in world space.
func (b OBB) Center() mgl32.Vec3 {
	return transformPoint(b.World(), b.Min.Add(b.Max).Mul(0.5))
}

// WorldAABB returns the axis-aligned extents of the world-space corners.
func (b OBB) WorldAABB() (lo, hi mgl32.Vec3) {
	corners := b.Corners()
	return extents(corners[:])
}

// IntersectsRay runs a slab test in the box's local space. The returned
// distances use the ray's own parameterisation. On a miss it returns
// (false, NoHit, NoHit). A ray starting inside the box hits with tNear < 0.
func (b OBB) IntersectsRay(r Ray) (bool, float32, float32) {
	if b.singular {
		return false, NoHit, NoHit
	}

	inv := b.worldInverse()
	origin := transformPoint(inv, r.Origin)
	dir := transformDirection(inv, r.Direction)

	tNear := float32(math.Inf(-1))
	tFar := float32(math.Inf(1))

	for i := range 3 {
		if float32(math.Abs(float64(dir[i]))) < parallelEpsilon {
			if origin[i] < b.Min[i] || origin[i] > b.Max[i] {
				return false, NoHit, NoHit
			}
			continue
		}

		t1 := (b.Min[i] - origin[i]) / dir[i]
		t2 := (b.Max[i] - origin[i]) / dir[i]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tNear = max(tNear, t1)
		tFar = min(tFar, t2)

		if tNear > tFar {
			return false, NoHit, NoHit
		}
	}

	if tFar < 0 {
		return false, NoHit, NoHit
	}
	return true, tNear, tFar
}

// IntersectsOBB carries other's world corners into this box's local space and
// tests their bounding extents against Min/Max.
//
// This is not a separating-axis test and it is not symmetric:
// a.IntersectsOBB(b) may differ from b.IntersectsOBB(a). Collision code always
// calls it as static.IntersectsOBB(moving).
func (b OBB) IntersectsOBB(other OBB) bool {
	if b.singular || other.singular {
		return false
	}

	inv := b.worldInverse()
	corners := other.Corners()
	for i := range corners {
		corners[i] = transformPoint(inv, corners[i])
	}
	lo, hi := extents(corners[:])

	for i := range 3 {
		if hi[i] < b.Min[i] || lo[i] > b.Max[i] {
			return false
		}
	}
	return true
}

func extents(points []mgl32.Vec3) (lo, hi mgl32.Vec3) {
	lo, hi = points[0], points[0]
	for _, p := range points[1:] {
		for i := range 3 {
			lo[i] = min(lo[i], p[i])
			hi[i] = max(hi[i], p[i])
		}
	}
	return lo, hi
}
