// Package terrain provides the height-map surfaces world nodes stand on.
package terrain

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Surface is a terrain tile in node-local coordinates.
type Surface interface {
	// IsPositionWithinBounds reports whether the local point lies over the tile.
	IsPositionWithinBounds(local mgl32.Vec3) bool
	// SampleHeight returns the terrain height under the local point.
	SampleHeight(local mgl32.Vec3) float32
}

// HeightMap is a square grid of height samples centred on the node origin.
// It covers [-C, C) on X and Z, with C = stride/2, so neighbouring tiles
// partition the plane without overlap.
type HeightMap struct {
	resolution int     // samples per side
	stride     float32 // tile edge length in world units
	heights    []float32
}

// NewHeightMap wraps a resolution x resolution sample grid, row-major with Z
// as the row (heights[z*resolution+x]).
func NewHeightMap(resolution int, stride float32, heights []float32) (*HeightMap, error) {
	if resolution < 2 {
		return nil, fmt.Errorf("height map resolution %d: need at least 2 samples per side", resolution)
	}
	if stride <= 0 {
		return nil, fmt.Errorf("height map stride %v: must be positive", stride)
	}
	if len(heights) != resolution*resolution {
		return nil, fmt.Errorf("height map: got %d samples, want %d", len(heights), resolution*resolution)
	}
	return &HeightMap{resolution: resolution, stride: stride, heights: heights}, nil
}

// NewFlat returns a height map at constant height.
func NewFlat(resolution int, stride, height float32) *HeightMap {
	heights := make([]float32, resolution*resolution)
	for i := range heights {
		heights[i] = height
	}
	return &HeightMap{resolution: resolution, stride: stride, heights: heights}
}

// Resolution returns samples per side.
func (h *HeightMap) Resolution() int { return h.resolution }

// Stride returns the tile edge length.
func (h *HeightMap) Stride() float32 { return h.stride }

// HalfExtent returns C, the distance from the origin to a tile edge.
func (h *HeightMap) HalfExtent() float32 { return h.stride / 2 }

// IsPositionWithinBounds reports whether local lies in [-C, C) on X and Z.
func (h *HeightMap) IsPositionWithinBounds(local mgl32.Vec3) bool {
	c := h.HalfExtent()
	return local.X() >= -c && local.X() < c && local.Z() >= -c && local.Z() < c
}

// SampleHeight bilinearly interpolates the four samples around local.
// Points outside the tile are clamped to its edge.
func (h *HeightMap) SampleHeight(local mgl32.Vec3) float32 {
	cell := h.stride / float32(h.resolution-1)
	c := h.HalfExtent()

	gx := clamp((local.X()+c)/cell, 0, float32(h.resolution-1))
	gz := clamp((local.Z()+c)/cell, 0, float32(h.resolution-1))

	x0 := int(math.Floor(float64(gx)))
	z0 := int(math.Floor(float64(gz)))
	x1 := min(x0+1, h.resolution-1)
	z1 := min(z0+1, h.resolution-1)

	sx := gx - float32(x0)
	sz := gz - float32(z0)

	h00 := h.at(x0, z0)
	h10 := h.at(x1, z0)
	h01 := h.at(x0, z1)
	h11 := h.at(x1, z1)

	return lerp(lerp(h00, h10, sx), lerp(h01, h11, sx), sz)
}

// Sample returns the raw sample at grid point (x, z).
func (h *HeightMap) Sample(x, z int) float32 {
	return h.at(x, z)
}

func (h *HeightMap) at(x, z int) float32 {
	return h.heights[z*h.resolution+x]
}

// MarshalBinary encodes the samples as little-endian float32, the .hmap
// file layout.
func (h *HeightMap) MarshalBinary() ([]byte, error) {
	out := make([]byte, 4*len(h.heights))
	for i, v := range h.heights {
		binary.LittleEndian.PutUint32(out[4*i:], math.Float32bits(v))
	}
	return out, nil
}

// ParseHeightMap decodes a .hmap payload: resolution² little-endian float32.
func ParseHeightMap(data []byte, resolution int, stride float32) (*HeightMap, error) {
	want := 4 * resolution * resolution
	if len(data) != want {
		return nil, fmt.Errorf("parse height map: got %d bytes, want %d", len(data), want)
	}
	heights := make([]float32, resolution*resolution)
	for i := range heights {
		heights[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[4*i:]))
	}
	return NewHeightMap(resolution, stride, heights)
}

func lerp(a, b, t float32) float32 {
	return a + t*(b-a)
}

func clamp(v, lo, hi float32) float32 {
	return max(lo, min(v, hi))
}
