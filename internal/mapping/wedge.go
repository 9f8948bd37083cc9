package mapping

import (
	"fmt"
	"math"

	"github.com/san-kum/mcwalk/internal/geom"
)

// Wedge is the conformal power map w = z^(pi/angle) collapsing the wedge
// 0 <= arg(z) <= angle onto the upper half-plane. Forward and inverse are
// exact inverses by construction (the inverse is the power map with the
// reciprocal exponent).
type Wedge struct {
	angle float64
	alpha float64 // pi / angle
}

func NewWedge(angle float64) (*Wedge, error) {
	if angle <= 0 || angle >= math.Pi {
		return nil, fmt.Errorf("mapping: wedge angle %g out of range (0, pi)", angle)
	}
	return &Wedge{angle: angle, alpha: math.Pi / angle}, nil
}

func (w *Wedge) Angle() float64 { return w.angle }

func (w *Wedge) Forward(p geom.Vec) geom.Vec {
	return pow(p, w.alpha)
}

func (w *Wedge) Inverse(q geom.Vec) geom.Vec {
	return pow(q, 1/w.alpha)
}

// TransformDrift applies the Jacobian of Forward at p. For a conformal
// map the Jacobian is complex multiplication by f'(z) = alpha*z^(alpha-1).
func (w *Wedge) TransformDrift(p, mu geom.Vec) geom.Vec {
	d := w.deriv(p)
	return geom.Vec{
		X: d.X*mu.X - d.Y*mu.Y,
		Y: d.X*mu.Y + d.Y*mu.X,
	}
}

// Scale is |f'(z)|, the isotropic local magnification of the map.
func (w *Wedge) Scale(p geom.Vec) float64 {
	return w.deriv(p).Norm()
}

func (w *Wedge) deriv(p geom.Vec) geom.Vec {
	return pow(p, w.alpha-1).Scale(w.alpha)
}

// pow raises a point to a real power in polar form, treating it as a
// complex number.
func pow(p geom.Vec, a float64) geom.Vec {
	r := p.Norm()
	if r == 0 {
		return geom.Vec{}
	}
	phi := math.Atan2(p.Y, p.X)
	ra := math.Pow(r, a)
	return geom.Vec{X: ra * math.Cos(a*phi), Y: ra * math.Sin(a*phi)}
}
