package walk

import (
	"fmt"
	"math/rand"

	"github.com/san-kum/mcwalk/internal/geom"
)

const DefaultMaxSampleTries = 1000

// Sampler draws initial particle positions. Draws may land outside the
// domain; SampleInside handles rejection.
type Sampler interface {
	Sample(rng *rand.Rand) geom.Vec
}

// PointSource starts every particle at the same position, the discrete
// analogue of a delta initial condition.
type PointSource struct {
	At geom.Vec
}

func (s PointSource) Sample(*rand.Rand) geom.Vec { return s.At }

// UniformBox draws uniformly from an axis-aligned rectangle.
type UniformBox struct {
	Min, Max geom.Vec
}

func (s UniformBox) Sample(rng *rand.Rand) geom.Vec {
	return geom.Vec{
		X: s.Min.X + rng.Float64()*(s.Max.X-s.Min.X),
		Y: s.Min.Y + rng.Float64()*(s.Max.Y-s.Min.Y),
	}
}

// GaussianSource draws from an isotropic Gaussian around a center point.
type GaussianSource struct {
	Center geom.Vec
	Sigma  float64
}

func (s GaussianSource) Sample(rng *rand.Rand) geom.Vec {
	return geom.Vec{
		X: s.Center.X + s.Sigma*rng.NormFloat64(),
		Y: s.Center.Y + s.Sigma*rng.NormFloat64(),
	}
}

// SampleInside rejection-samples until the draw lands in the domain. A
// persistently failing sampler signals a misconfigured initial
// distribution and is reported as ErrSamplerRejection.
func SampleInside(rng *rand.Rand, s Sampler, d *geom.Domain, maxTries int) (geom.Vec, error) {
	if maxTries <= 0 {
		maxTries = DefaultMaxSampleTries
	}
	for i := 0; i < maxTries; i++ {
		p := s.Sample(rng)
		if d.Contains(p) {
			return p, nil
		}
	}
	return geom.Vec{}, fmt.Errorf("%w: %d draws all outside the domain", ErrSamplerRejection, maxTries)
}
