package terrain

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeightMapBoundsAreHalfOpen(t *testing.T) {
	hm := NewFlat(5, 100, 0)

	tests := []struct {
		name string
		p    mgl32.Vec3
		want bool
	}{
		{"origin", mgl32.Vec3{0, 0, 0}, true},
		{"min corner", mgl32.Vec3{-50, 0, -50}, true},
		{"max X edge excluded", mgl32.Vec3{50, 0, 0}, false},
		{"max Z edge excluded", mgl32.Vec3{0, 0, 50}, false},
		{"just inside max", mgl32.Vec3{49.99, 0, 49.99}, true},
		{"beyond min", mgl32.Vec3{-51, 0, 0}, false},
		{"height is ignored", mgl32.Vec3{0, 1000, 0}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, hm.IsPositionWithinBounds(tt.p))
		})
	}
}

func TestSampleHeightBilinear(t *testing.T) {
	// 2x2 samples over a 10-unit tile: corners at -5 and +5.
	hm, err := NewHeightMap(2, 10, []float32{
		0, 10, // z = -5
		20, 30, // z = +5
	})
	require.NoError(t, err)

	assert.InDelta(t, 0, hm.SampleHeight(mgl32.Vec3{-5, 0, -5}), 1e-5)
	assert.InDelta(t, 10, hm.SampleHeight(mgl32.Vec3{5, 0, -5}), 1e-5)
	assert.InDelta(t, 30, hm.SampleHeight(mgl32.Vec3{5, 0, 5}), 1e-5)
	assert.InDelta(t, 15, hm.SampleHeight(mgl32.Vec3{0, 0, 0}), 1e-5)
	assert.InDelta(t, 5, hm.SampleHeight(mgl32.Vec3{0, 0, -5}), 1e-5)

	// Outside the tile clamps to the edge.
	assert.InDelta(t, 30, hm.SampleHeight(mgl32.Vec3{50, 0, 50}), 1e-5)
}

func TestNewHeightMapValidation(t *testing.T) {
	_, err := NewHeightMap(1, 10, []float32{0})
	assert.Error(t, err)
	_, err = NewHeightMap(2, 0, make([]float32, 4))
	assert.Error(t, err)
	_, err = NewHeightMap(2, 10, make([]float32, 3))
	assert.Error(t, err)
}

func TestBinaryRoundTrip(t *testing.T) {
	hm := NewGenerated(9, 64, 0, 0, 12, 7)
	data, err := hm.MarshalBinary()
	require.NoError(t, err)

	back, err := ParseHeightMap(data, 9, 64)
	require.NoError(t, err)
	for z := range 9 {
		for x := range 9 {
			assert.Equal(t, hm.Sample(x, z), back.Sample(x, z))
		}
	}

	_, err = ParseHeightMap(data[:10], 9, 64)
	assert.Error(t, err)
}

func TestGeneratedTilesShareEdges(t *testing.T) {
	const stride = 64
	left := NewGenerated(9, stride, 0, 0, 20, 3)
	right := NewGenerated(9, stride, stride, 0, 20, 3)

	// Last column of the left tile is the first column of the right one.
	for z := range 9 {
		assert.InDelta(t, left.Sample(8, z), right.Sample(0, z), 1e-4, "row %d", z)
	}

	for z := range 9 {
		for x := range 9 {
			h := left.Sample(x, z)
			assert.LessOrEqual(t, h, float32(20))
			assert.GreaterOrEqual(t, h, float32(-20))
		}
	}
}
