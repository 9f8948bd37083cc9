package walk

import (
	"math"
	"math/rand"

	"github.com/san-kum/mcwalk/internal/geom"
)

// backoff keeps a just-reflected particle strictly off the wall so the
// next intersection query does not re-detect the same crossing.
const backoff = 1e-10

const (
	DefaultMaxReflections = 16
	DefaultMaxRetries     = 3
)

// Stepper advances a particle by one time increment: a deterministic
// drift displacement plus a Gaussian diffusive one, with wall crossings
// resolved by repeated specular reflection of the remaining displacement.
type Stepper struct {
	Domain *geom.Domain
	Field  Field

	// MaxReflections bounds the reflection loop within one step.
	// MaxRetries bounds how often a failed step is redrawn before the
	// particle is marked failed. Both policies are deterministic for a
	// fixed random stream.
	MaxReflections int
	MaxRetries     int
}

func NewStepper(d *geom.Domain, f Field) *Stepper {
	return &Stepper{
		Domain:         d,
		Field:          f,
		MaxReflections: DefaultMaxReflections,
		MaxRetries:     DefaultMaxRetries,
	}
}

// Step advances p by dt, drawing randomness from rng. On reflection
// budget exhaustion the whole step is retried with a fresh draw; once
// retries run out the particle is marked failed and an error describing
// the final attempt is returned.
func (s *Stepper) Step(rng *rand.Rand, p *Particle, dt float64) error {
	var lastErr error
	for attempt := 0; attempt <= s.MaxRetries; attempt++ {
		pos, reflections, err := s.tryStep(rng, p.Pos, dt)
		if err == nil {
			p.Pos = pos
			p.Time += dt
			p.Steps++
			p.Reflections += reflections
			return nil
		}
		lastErr = err
	}

	p.Failed = true
	return &StepError{
		Step:    p.Steps,
		Time:    p.Time,
		Pos:     [2]float64{p.Pos.X, p.Pos.Y},
		Wrapped: lastErr,
	}
}

// tryStep proposes one displacement and resolves boundary crossings.
// Total path length is conserved across reflections: the distance walked
// to each hit point plus the reflected remainder equals the original
// proposed displacement length.
func (s *Stepper) tryStep(rng *rand.Rand, start geom.Vec, dt float64) (geom.Vec, int, error) {
	mu := s.Field.Drift(start)
	d := s.Field.Diffusion(start)
	if !validCoeffs(mu, d) {
		return geom.Vec{}, 0, ErrFieldInvalid
	}

	// Euler-Maruyama increment: mean mu*dt, per-axis stddev sqrt(2*D*dt).
	sigma := math.Sqrt(2 * d * dt)
	rem := mu.Scale(dt).Add(geom.Vec{
		X: sigma * rng.NormFloat64(),
		Y: sigma * rng.NormFloat64(),
	})

	cur := start
	for bounce := 0; bounce <= s.MaxReflections; bounce++ {
		next := cur.Add(rem)
		hit, crossed := s.Domain.Intersect(cur, next)
		if !crossed {
			return next, bounce, nil
		}

		travelled := hit.Point.Sub(cur)
		remaining := geom.Dist(next, hit.Point)

		// Land at the hit point pulled back a sliver along the incoming
		// direction, then send the unspent length back off the wall.
		cur = hit.Point.Sub(travelled.Scale(backoff))

		reflected := hit.Wall.Reflect(rem)
		norm := reflected.Norm()
		if norm == 0 {
			return cur, bounce + 1, nil
		}
		rem = reflected.Scale(remaining / norm)
	}

	return geom.Vec{}, s.MaxReflections, ErrReflectionBudget
}
