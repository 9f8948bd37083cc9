package walk

import (
	"math"

	"github.com/san-kum/mcwalk/internal/geom"
	"github.com/san-kum/mcwalk/internal/mapping"
)

// Field supplies the SDE coefficients at a position: the deterministic
// drift velocity and the scalar diffusion coefficient. Implementations
// must be pure and stateless; they are queried once per step per particle.
type Field interface {
	Drift(p geom.Vec) geom.Vec
	Diffusion(p geom.Vec) float64
}

// ConstantField has uniform drift and diffusion everywhere.
type ConstantField struct {
	Mu geom.Vec
	D  float64
}

func (f ConstantField) Drift(geom.Vec) geom.Vec  { return f.Mu }
func (f ConstantField) Diffusion(geom.Vec) float64 { return f.D }

// MappedField presents a physical-space field in mapped coordinates.
// Drift transforms through the map's Jacobian; the isotropic diffusion
// amplitude scales with the local magnification squared.
type MappedField struct {
	Base Field
	Map  mapping.Map
}

func (f MappedField) Drift(q geom.Vec) geom.Vec {
	p := f.Map.Inverse(q)
	return f.Map.TransformDrift(p, f.Base.Drift(p))
}

func (f MappedField) Diffusion(q geom.Vec) float64 {
	p := f.Map.Inverse(q)
	s := f.Map.Scale(p)
	return f.Base.Diffusion(p) * s * s
}

// Particle is the mutable state of one walker. It is owned exclusively by
// the driver running it; nothing here is safe for concurrent use.
type Particle struct {
	Pos    geom.Vec
	Time   float64
	Weight float64
	Failed bool

	Steps       int
	Reflections int

	// Occupancy accumulates time spent per spatial bin, indexed by the
	// driver's grid. Nil when binning is disabled.
	Occupancy []float64
}

func validCoeffs(mu geom.Vec, d float64) bool {
	return mu.IsValid() && !math.IsNaN(d) && !math.IsInf(d, 0) && d >= 0
}
