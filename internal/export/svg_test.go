package export

import (
	"strings"
	"testing"

	"github.com/san-kum/mcwalk/internal/geom"
	"github.com/san-kum/mcwalk/internal/stats"
)

func TestDensityToSVG(t *testing.T) {
	grid, err := stats.NewGrid(geom.V(0, 0), geom.V(1, 1), 2, 2)
	if err != nil {
		t.Fatal(err)
	}
	r := &stats.Result{
		Grid:    grid,
		Density: []float64{0, 0.5, 0, 1.0},
	}

	svg := DensityToSVG(r, 10)

	if !strings.HasPrefix(svg, `<?xml version="1.0"`) {
		t.Error("missing xml header")
	}
	if !strings.Contains(svg, "<svg") || !strings.Contains(svg, "</svg>") {
		t.Error("malformed svg envelope")
	}
	// Peak bin renders at full intensity, the half bin at half.
	if !strings.Contains(svg, `fill="#00ff00"`) {
		t.Error("expected full-intensity bin")
	}
	if !strings.Contains(svg, `fill="#007f00"`) {
		t.Error("expected half-intensity bin")
	}
	// Two empty bins draw nothing.
	if got := strings.Count(svg, "<rect"); got != 3 {
		t.Errorf("expected background + 2 bins, got %d rects", got)
	}
}

func TestDensityToSVGEmpty(t *testing.T) {
	grid, err := stats.NewGrid(geom.V(0, 0), geom.V(1, 1), 2, 2)
	if err != nil {
		t.Fatal(err)
	}
	r := &stats.Result{Grid: grid, Density: []float64{0, 0, 0, 0}}

	svg := DensityToSVG(r, 10)
	if got := strings.Count(svg, "<rect"); got != 1 {
		t.Errorf("expected only background rect, got %d", got)
	}
}
