package geom

import (
	"errors"
	"math"
	"testing"
)

func lshape(t *testing.T) *Domain {
	t.Helper()
	d, err := NewPolygon([]Vec{
		{0, 0}, {2, 0}, {2, 1}, {1, 1}, {1, 2}, {0, 2},
	})
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func TestNewPolygonValidation(t *testing.T) {
	tests := []struct {
		name  string
		verts []Vec
		want  error
	}{
		{"too few", []Vec{{0, 0}, {1, 0}}, ErrTooFewVertices},
		{"repeated vertex", []Vec{{0, 0}, {0, 0}, {1, 1}}, ErrZeroLengthWall},
		{"bowtie", []Vec{{0, 0}, {1, 1}, {1, 0}, {0, 1}}, ErrSelfIntersecting},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPolygon(tt.verts)
			if !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestContainsSquare(t *testing.T) {
	square, err := NewPolygon([]Vec{{0, 0}, {1, 0}, {1, 1}, {0, 1}})
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		p    Vec
		want bool
	}{
		{Vec{0.5, 0.5}, true},
		{Vec{0.99, 0.01}, true},
		{Vec{1.5, 0.5}, false},
		{Vec{0.5, -0.1}, false},
		{Vec{-0.1, 0.5}, false},
	}
	for _, tt := range tests {
		if got := square.Contains(tt.p); got != tt.want {
			t.Errorf("Contains(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestContainsLShape(t *testing.T) {
	d := lshape(t)

	if !d.Contains(Vec{0.5, 0.5}) {
		t.Error("lower-left block should be inside")
	}
	if !d.Contains(Vec{1.5, 0.5}) {
		t.Error("lower-right block should be inside")
	}
	if !d.Contains(Vec{0.5, 1.5}) {
		t.Error("upper-left block should be inside")
	}
	if d.Contains(Vec{1.5, 1.5}) {
		t.Error("notch should be outside")
	}
}

func TestContainsHalfPlane(t *testing.T) {
	hp := NewHalfPlane()
	if !hp.Contains(Vec{123.0, 0.5}) {
		t.Error("point above axis should be inside")
	}
	if hp.Contains(Vec{-7.0, -0.001}) {
		t.Error("point below axis should be outside")
	}
}

func TestContainsQuarterPlane(t *testing.T) {
	qp := NewQuarterPlane()
	if !qp.Contains(Vec{1, 1}) {
		t.Error("first quadrant point should be inside")
	}
	if qp.Contains(Vec{-1, 1}) || qp.Contains(Vec{1, -1}) {
		t.Error("other quadrants should be outside")
	}
}

func TestContainsWedge(t *testing.T) {
	wd, err := NewWedge(math.Pi / 3)
	if err != nil {
		t.Fatal(err)
	}
	if !wd.Contains(Vec{math.Cos(math.Pi / 6), math.Sin(math.Pi / 6)}) {
		t.Error("bisector point should be inside")
	}
	if wd.Contains(Vec{0, 1}) {
		t.Error("point past the upper edge should be outside")
	}
	if wd.Contains(Vec{1, -0.1}) {
		t.Error("point below the lower edge should be outside")
	}
}

func TestIntersectNearestWall(t *testing.T) {
	square, err := NewPolygon([]Vec{{0, 0}, {1, 0}, {1, 1}, {0, 1}})
	if err != nil {
		t.Fatal(err)
	}

	// Move crossing the bottom wall first, even though extended it would
	// also leave through the right wall.
	hit, ok := square.Intersect(Vec{0.5, 0.5}, Vec{1.5, -1.5})
	if !ok {
		t.Fatal("expected a crossing")
	}
	if hit.Wall.ID != 0 {
		t.Errorf("expected bottom wall 0, got wall %d", hit.Wall.ID)
	}
	if math.Abs(hit.Point.Y) > 1e-12 {
		t.Errorf("crossing point should be on y=0, got %v", hit.Point)
	}
	if math.Abs(hit.Point.X-0.75) > 1e-12 {
		t.Errorf("crossing x should be 0.75, got %g", hit.Point.X)
	}
}

func TestIntersectNone(t *testing.T) {
	square, _ := NewPolygon([]Vec{{0, 0}, {1, 0}, {1, 1}, {0, 1}})
	if _, ok := square.Intersect(Vec{0.2, 0.2}, Vec{0.8, 0.8}); ok {
		t.Error("interior move should not cross any wall")
	}
}

func TestIntersectVertexTieBreak(t *testing.T) {
	square, _ := NewPolygon([]Vec{{0, 0}, {1, 0}, {1, 1}, {0, 1}})

	// Aim exactly at the corner shared by walls 0 and 1. Both report the
	// same t; the lower index must win for reproducibility.
	hit, ok := square.Intersect(Vec{0.5, 0.5}, Vec{1.5, -0.5})
	if !ok {
		t.Fatal("expected a crossing at the corner")
	}
	if hit.Wall.ID != 0 {
		t.Errorf("tie should break to wall 0, got wall %d", hit.Wall.ID)
	}
	if Dist(hit.Point, Vec{1, 0}) > 1e-12 {
		t.Errorf("crossing should be the corner, got %v", hit.Point)
	}
}

func TestIntersectFromBoundary(t *testing.T) {
	hp := NewHalfPlane()

	// Starting exactly on the wall, an outward move is a crossing at t=0.
	hit, ok := hp.Intersect(Vec{0.5, 0}, Vec{0.5, -1})
	if !ok {
		t.Fatal("outward move from the wall must register a crossing")
	}
	if hit.T != 0 {
		t.Errorf("crossing parameter should be 0, got %g", hit.T)
	}
	if Dist(hit.Point, Vec{0.5, 0}) > 1e-12 {
		t.Errorf("crossing should be the start point, got %v", hit.Point)
	}

	// An inward move from the same point stays inside.
	if _, ok := hp.Intersect(Vec{0.5, 0}, Vec{0.5, 1}); ok {
		t.Error("inward move from the wall should not cross it")
	}
}

func TestIntersectHalfPlane(t *testing.T) {
	hp := NewHalfPlane()

	hit, ok := hp.Intersect(Vec{3, 1}, Vec{3, -1})
	if !ok {
		t.Fatal("downward move must cross the axis")
	}
	if math.Abs(hit.Point.X-3) > 1e-12 || math.Abs(hit.Point.Y) > 1e-12 {
		t.Errorf("crossing should be (3, 0), got %v", hit.Point)
	}
	if math.Abs(hit.T-0.5) > 1e-12 {
		t.Errorf("crossing parameter should be 0.5, got %g", hit.T)
	}
}
