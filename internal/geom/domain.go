package geom

import (
	"errors"
	"fmt"
	"math"
)

// Domain construction errors. All are fatal: a malformed boundary would
// silently bias every statistic downstream.
var (
	ErrTooFewVertices   = errors.New("geom: polygon needs at least 3 vertices")
	ErrZeroLengthWall   = errors.New("geom: zero-length wall")
	ErrSelfIntersecting = errors.New("geom: boundary is self-intersecting")
	ErrNoWalls          = errors.New("geom: domain has no walls")
)

const sideTol = 1e-12

// Wall is an oriented boundary element. The domain interior lies to the
// left of the direction P1->P2; the outward unit normal points right.
// Infinite walls extend without bound in both directions along the P1->P2
// line, which lets a half-plane act as a degenerate one-wall polygon.
type Wall struct {
	ID       int
	P1, P2   Vec
	Infinite bool

	dir    Vec // unit direction P1->P2
	normal Vec // outward unit normal
}

// Normal returns the outward unit normal.
func (w Wall) Normal() Vec { return w.normal }

// Reflect mirrors a displacement about the wall: d' = d - 2(d.n)n.
// The reflected vector has the same length as the input.
func (w Wall) Reflect(d Vec) Vec {
	return d.Sub(w.normal.Scale(2 * d.Dot(w.normal)))
}

// Side returns the signed distance from p to the wall line, positive on
// the outside.
func (w Wall) Side(p Vec) float64 {
	return p.Sub(w.P1).Dot(w.normal)
}

func newWall(id int, p1, p2 Vec, infinite bool) (Wall, error) {
	d := p2.Sub(p1)
	length := d.Norm()
	if length == 0 {
		return Wall{}, fmt.Errorf("%w: wall %d at (%g, %g)", ErrZeroLengthWall, id, p1.X, p1.Y)
	}
	u := d.Scale(1 / length)
	return Wall{
		ID:       id,
		P1:       p1,
		P2:       p2,
		Infinite: infinite,
		dir:      u,
		normal:   Vec{u.Y, -u.X},
	}, nil
}

// Domain is an ordered set of walls tracing the boundary with the
// interior consistently on the left. Closed domains are polygons tested
// by ray casting; open domains (half-plane, quarter-plane) are the
// intersection of the half-planes their walls define.
type Domain struct {
	Walls  []Wall
	Closed bool
}

// NewPolygon builds a closed domain from an ordered vertex list.
// Clockwise input is reversed so the interior is always on the left.
func NewPolygon(verts []Vec) (*Domain, error) {
	if len(verts) < 3 {
		return nil, ErrTooFewVertices
	}

	// Signed area: positive means counter-clockwise.
	area := 0.0
	for i := range verts {
		j := (i + 1) % len(verts)
		area += verts[i].Cross(verts[j])
	}
	if area < 0 {
		rev := make([]Vec, len(verts))
		for i, v := range verts {
			rev[len(verts)-1-i] = v
		}
		verts = rev
	}

	walls := make([]Wall, 0, len(verts))
	for i := range verts {
		w, err := newWall(i, verts[i], verts[(i+1)%len(verts)], false)
		if err != nil {
			return nil, err
		}
		walls = append(walls, w)
	}

	if err := checkSimple(walls); err != nil {
		return nil, err
	}

	return &Domain{Walls: walls, Closed: true}, nil
}

// NewHalfPlane is the domain y >= 0: one infinite wall along the x-axis.
func NewHalfPlane() *Domain {
	w, _ := newWall(0, Vec{0, 0}, Vec{1, 0}, true)
	return &Domain{Walls: []Wall{w}}
}

// NewQuarterPlane is the first quadrant x >= 0, y >= 0.
func NewQuarterPlane() *Domain {
	wx, _ := newWall(0, Vec{0, 0}, Vec{1, 0}, true)
	wy, _ := newWall(1, Vec{0, 0}, Vec{0, -1}, true)
	return &Domain{Walls: []Wall{wx, wy}}
}

// NewWedge is the infinite wedge 0 <= atan2(y, x) <= angle. The opening
// angle must stay below pi so the wedge is an intersection of half-planes.
func NewWedge(angle float64) (*Domain, error) {
	if angle <= 0 || angle >= math.Pi {
		return nil, fmt.Errorf("geom: wedge angle %g out of range (0, pi)", angle)
	}
	lower, _ := newWall(0, Vec{0, 0}, Vec{1, 0}, true)
	upper, _ := newWall(1, Vec{0, 0}, Vec{-math.Cos(angle), -math.Sin(angle)}, true)
	return &Domain{Walls: []Wall{lower, upper}}, nil
}

// checkSimple rejects boundaries where non-adjacent walls cross.
func checkSimple(walls []Wall) error {
	n := len(walls)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if j == i+1 || (i == 0 && j == n-1) {
				continue
			}
			if segmentsCross(walls[i], walls[j]) {
				return fmt.Errorf("%w: walls %d and %d", ErrSelfIntersecting, i, j)
			}
		}
	}
	return nil
}

func segmentsCross(a, b Wall) bool {
	d1 := a.P2.Sub(a.P1)
	d2 := b.P2.Sub(b.P1)
	denom := d1.Cross(d2)
	if math.Abs(denom) < sideTol {
		return false
	}
	r := b.P1.Sub(a.P1)
	t := r.Cross(d2) / denom
	u := r.Cross(d1) / denom
	return t > sideTol && t < 1-sideTol && u > sideTol && u < 1-sideTol
}

// Contains reports whether p lies in the domain interior (boundary points
// within tolerance count as inside).
func (d *Domain) Contains(p Vec) bool {
	if !d.Closed {
		for _, w := range d.Walls {
			if w.Side(p) > sideTol {
				return false
			}
		}
		return true
	}

	// Ray cast towards +x, counting edge crossings.
	inside := false
	for _, w := range d.Walls {
		if math.Abs(w.Side(p)) <= sideTol && onSegment(w, p) {
			return true
		}
		p1, p2 := w.P1, w.P2
		if (p1.Y > p.Y) != (p2.Y > p.Y) {
			xCross := p1.X + (p.Y-p1.Y)/(p2.Y-p1.Y)*(p2.X-p1.X)
			if xCross > p.X {
				inside = !inside
			}
		}
	}
	return inside
}

func onSegment(w Wall, p Vec) bool {
	if w.Infinite {
		return true
	}
	t := p.Sub(w.P1).Dot(w.dir)
	return t >= -sideTol && t <= Dist(w.P1, w.P2)+sideTol
}
