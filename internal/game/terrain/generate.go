package terrain

import "math"

// valueNoise returns a repeatable pseudo-random value in [0, 1) for a lattice point.
func valueNoise(x, z float64, seed int64) float64 {
	h := x*12.9898 + z*78.233 + float64(seed)*37.719
	s := math.Sin(h) * 43758.5453
	return s - math.Floor(s)
}

func smoothstep(t float64) float64 {
	return t * t * (3 - 2*t)
}

// smoothNoise interpolates lattice noise with a smoothstep fade.
func smoothNoise(x, z float64, seed int64) float64 {
	x0, z0 := math.Floor(x), math.Floor(z)
	sx, sz := smoothstep(x-x0), smoothstep(z-z0)

	n00 := valueNoise(x0, z0, seed)
	n10 := valueNoise(x0+1, z0, seed)
	n01 := valueNoise(x0, z0+1, seed)
	n11 := valueNoise(x0+1, z0+1, seed)

	nx0 := n00 + sx*(n10-n00)
	nx1 := n01 + sx*(n11-n01)
	return nx0 + sz*(nx1-nx0)
}

// NewGenerated builds rolling terrain for the tile whose origin sits at
// (originX, originZ) in world space. Sampling by world coordinate keeps
// shared edges continuous between neighbouring tiles.
func NewGenerated(resolution int, stride float32, originX, originZ float32, amplitude float32, seed int64) *HeightMap {
	octaves := []struct{ freq, amp float64 }{
		{1.0 / 256, 0.5},
		{1.0 / 128, 0.25},
		{1.0 / 64, 0.125},
		{1.0 / 32, 0.0625},
	}

	cell := float64(stride) / float64(resolution-1)
	half := float64(stride) / 2
	heights := make([]float32, resolution*resolution)

	for z := range resolution {
		for x := range resolution {
			wx := float64(originX) - half + float64(x)*cell
			wz := float64(originZ) - half + float64(z)*cell

			n := 0.0
			for _, o := range octaves {
				n += smoothNoise(wx*o.freq, wz*o.freq, seed) * o.amp
			}
			// Octave weights sum to 0.9375; recentre around zero.
			heights[z*resolution+x] = float32((n/0.9375 - 0.5) * 2 * float64(amplitude))
		}
	}

	return &HeightMap{resolution: resolution, stride: stride, heights: heights}
}
