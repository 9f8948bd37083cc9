package stats

import (
	"errors"
	"fmt"

	"github.com/san-kum/mcwalk/internal/geom"
)

var ErrBadGrid = errors.New("stats: invalid grid")

// Grid is a rectangular binning of the plane used to accumulate particle
// occupancy. Points outside the bounds fall into no bin and are dropped.
type Grid struct {
	Min, Max geom.Vec
	Nx, Ny   int
}

func NewGrid(min, max geom.Vec, nx, ny int) (*Grid, error) {
	if nx < 1 || ny < 1 {
		return nil, fmt.Errorf("%w: %dx%d bins", ErrBadGrid, nx, ny)
	}
	if max.X <= min.X || max.Y <= min.Y {
		return nil, fmt.Errorf("%w: empty bounds", ErrBadGrid)
	}
	return &Grid{Min: min, Max: max, Nx: nx, Ny: ny}, nil
}

func (g *Grid) NumBins() int { return g.Nx * g.Ny }

func (g *Grid) BinArea() float64 {
	return (g.Max.X - g.Min.X) * (g.Max.Y - g.Min.Y) / float64(g.NumBins())
}

// Index maps a point to its flat bin index, row-major from the lower-left.
func (g *Grid) Index(p geom.Vec) (int, bool) {
	if p.X < g.Min.X || p.X >= g.Max.X || p.Y < g.Min.Y || p.Y >= g.Max.Y {
		return 0, false
	}
	ix := int(float64(g.Nx) * (p.X - g.Min.X) / (g.Max.X - g.Min.X))
	iy := int(float64(g.Ny) * (p.Y - g.Min.Y) / (g.Max.Y - g.Min.Y))
	if ix >= g.Nx {
		ix = g.Nx - 1
	}
	if iy >= g.Ny {
		iy = g.Ny - 1
	}
	return iy*g.Nx + ix, true
}

// Center returns the midpoint of bin i.
func (g *Grid) Center(i int) geom.Vec {
	ix := i % g.Nx
	iy := i / g.Nx
	dx := (g.Max.X - g.Min.X) / float64(g.Nx)
	dy := (g.Max.Y - g.Min.Y) / float64(g.Ny)
	return geom.Vec{
		X: g.Min.X + (float64(ix)+0.5)*dx,
		Y: g.Min.Y + (float64(iy)+0.5)*dy,
	}
}
