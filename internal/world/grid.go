package world

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/udisondev/islandcraft/internal/model"
)

// NodeOrigin returns the world position of the centre of node idx.
// Node (x, y) is centred on (x*stride, 0, y*stride).
func NodeOrigin(idx model.NodeIndex, stride float32) mgl32.Vec3 {
	return mgl32.Vec3{float32(idx.X) * stride, 0, float32(idx.Y) * stride}
}

// IsValidNodeIndex checks if idx is inside a size x size grid.
func IsValidNodeIndex(idx model.NodeIndex, size int) bool {
	return idx.X >= 0 && idx.X < size && idx.Y >= 0 && idx.Y < size
}

// SurroundingNodes returns the 3x3 window around idx without idx itself,
// dropping out-of-grid cells. Order is dx-major, then dy, from -1 to +1.
// A centre outside the grid, NoNode included, has no ring.
func SurroundingNodes(idx model.NodeIndex, size int) []model.NodeIndex {
	if !IsValidNodeIndex(idx, size) {
		return nil
	}
	out := make([]model.NodeIndex, 0, 8)

	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			if dx == 0 && dy == 0 {
				continue
			}
			n := model.NodeIndex{X: idx.X + dx, Y: idx.Y + dy}
			if IsValidNodeIndex(n, size) {
				out = append(out, n)
			}
		}
	}

	return out
}

// NodeIndexAt returns the grid cell under pos on an unbounded grid with the
// given stride. The result may lie outside the world.
func NodeIndexAt(pos mgl32.Vec3, stride float32) model.NodeIndex {
	half := stride / 2
	return model.NodeIndex{
		X: int(math.Floor(float64((pos.X() + half) / stride))),
		Y: int(math.Floor(float64((pos.Z() + half) / stride))),
	}
}
