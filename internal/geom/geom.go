package geom

import "math"

// Vec is a 2D point or displacement in Cartesian coordinates.
type Vec struct {
	X float64
	Y float64
}

func V(x, y float64) Vec { return Vec{X: x, Y: y} }

func (v Vec) Add(w Vec) Vec       { return Vec{v.X + w.X, v.Y + w.Y} }
func (v Vec) Sub(w Vec) Vec       { return Vec{v.X - w.X, v.Y - w.Y} }
func (v Vec) Scale(s float64) Vec { return Vec{v.X * s, v.Y * s} }

func (v Vec) Dot(w Vec) float64   { return v.X*w.X + v.Y*w.Y }
func (v Vec) Cross(w Vec) float64 { return v.X*w.Y - v.Y*w.X }

func (v Vec) Norm() float64 { return math.Hypot(v.X, v.Y) }

func (v Vec) IsValid() bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) &&
		!math.IsNaN(v.Y) && !math.IsInf(v.Y, 0)
}

func Dist(p, q Vec) float64 { return p.Sub(q).Norm() }
