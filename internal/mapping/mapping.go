// Package mapping provides bijective coordinate transforms that trade a
// complicated physical domain for a simpler mapped one. A particle walk
// simulated in mapped space is pulled back to physical space by the
// statistics layer through Inverse, so forward and inverse must agree to
// tight tolerance before any particle work starts.
package mapping

import (
	"errors"
	"fmt"

	"github.com/san-kum/mcwalk/internal/geom"
)

// ErrInversion indicates forward/inverse composition drifted beyond
// tolerance. Fatal: statistics reported through a broken inverse would be
// silently wrong.
var ErrInversion = errors.New("mapping: forward/inverse round trip exceeds tolerance")

// Map is a bijection between physical and mapped coordinates. The drift
// vector of the underlying SDE transforms through the Jacobian of Forward;
// Scale is the local linear magnification used to transform the isotropic
// diffusion amplitude.
type Map interface {
	Forward(p geom.Vec) geom.Vec
	Inverse(q geom.Vec) geom.Vec
	TransformDrift(p, mu geom.Vec) geom.Vec
	Scale(p geom.Vec) float64
}

// Identity is the no-op map used when simulation runs directly in
// physical coordinates.
type Identity struct{}

func (Identity) Forward(p geom.Vec) geom.Vec            { return p }
func (Identity) Inverse(q geom.Vec) geom.Vec            { return q }
func (Identity) TransformDrift(_, mu geom.Vec) geom.Vec { return mu }
func (Identity) Scale(geom.Vec) float64                 { return 1 }

// RoundTrip verifies inverse(forward(p)) == p for each point, within tol.
func RoundTrip(m Map, pts []geom.Vec, tol float64) error {
	for _, p := range pts {
		back := m.Inverse(m.Forward(p))
		if d := geom.Dist(p, back); d > tol {
			return fmt.Errorf("%w: point (%g, %g) returned %.3e away", ErrInversion, p.X, p.Y, d)
		}
	}
	return nil
}
