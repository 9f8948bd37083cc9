package geom

import "math"

// Hit describes the first wall crossed by a directed move.
type Hit struct {
	Wall  Wall
	Point Vec
	T     float64 // parametric position along the move, in [0, 1]
}

const parallelTol = 1e-14

// Intersect finds the nearest wall crossed by the straight move p0->p1.
// Walls are scanned in boundary order and a strictly smaller t is required
// to displace the current best, so a move through a shared vertex of two
// walls always resolves to the lower wall index. A crossing at t = 0 only
// counts when the move starts on the wall and heads outward, so a particle
// sitting exactly on the boundary cannot slip through it. Returns false
// when the move stays inside the domain.
func (d *Domain) Intersect(p0, p1 Vec) (Hit, bool) {
	move := p1.Sub(p0)
	var best Hit
	found := false

	for _, w := range d.Walls {
		wallDir := w.P2.Sub(w.P1)
		denom := move.Cross(wallDir)
		if math.Abs(denom) < parallelTol {
			continue
		}

		r := w.P1.Sub(p0)
		t := r.Cross(wallDir) / denom
		if t < 0 || t > 1 {
			continue
		}
		if t == 0 && (math.Abs(w.Side(p0)) > sideTol || w.Side(p1) <= sideTol) {
			continue
		}
		if !w.Infinite {
			u := r.Cross(move) / denom
			if u < 0 || u > 1 {
				continue
			}
		}

		if !found || t < best.T {
			best = Hit{Wall: w, Point: p0.Add(move.Scale(t)), T: t}
			found = true
		}
	}

	return best, found
}
