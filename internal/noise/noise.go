// Package noise provides deterministic coherent-noise channels used to
// perturb terrain elevation and vertex color.
//
// The two channels sample independent Perlin generators so that color
// variation is decorrelated from height variation at the same coordinate.
package noise

import (
	"math"

	perlin "github.com/aquilax/go-perlin"
)

// MinFrequency is the frequency below which noise is disabled.
const MinFrequency = 1e-5

const (
	alpha  = 2.
	beta   = 2.
	octave = 3

	elevationSeed = 0x5eed_e1e7
	colorSeed     = 0x5eed_c010
)

// Generators are built once and only read afterwards, so the channels are
// safe for concurrent use.
var (
	elevationGen = perlin.NewPerlin(alpha, beta, octave, elevationSeed)
	colorGen     = perlin.NewPerlin(alpha, beta, octave, colorSeed)
)

// Elevation returns the height perturbation at (x, y, z) in [-1, 1].
func Elevation(x, y, z, frequency float64) float64 {
	return sample3D(elevationGen, x, y, z, frequency)
}

// Color returns the color-variation sample at (x, y, z) in [-1, 1].
func Color(x, y, z, frequency float64) float64 {
	return sample3D(colorGen, x, y, z, frequency)
}

// Perlin2D returns a planar sample of the elevation channel in [-1, 1].
func Perlin2D(x, y, frequency float64) float64 {
	if frequency < MinFrequency {
		return 0
	}
	return clamp(elevationGen.Noise2D(x*frequency, y*frequency))
}

// ColorTime maps a color sample to a gradient time in [0, 1].
func ColorTime(x, y, z, frequency float64) float64 {
	return (Color(x, y, z, frequency) + 1) / 2
}

func sample3D(gen *perlin.Perlin, x, y, z, frequency float64) float64 {
	if frequency < MinFrequency {
		return 0
	}
	return clamp(gen.Noise3D(x*frequency, y*frequency, z*frequency))
}

func clamp(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(-1, math.Min(1, v))
}
