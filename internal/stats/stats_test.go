package stats

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/san-kum/mcwalk/internal/geom"
	"github.com/san-kum/mcwalk/internal/walk"
)

func testGrid(t *testing.T) *Grid {
	t.Helper()
	g, err := NewGrid(geom.V(0, 0), geom.V(1, 1), 4, 4)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestNewGridValidation(t *testing.T) {
	if _, err := NewGrid(geom.V(0, 0), geom.V(1, 1), 0, 4); err == nil {
		t.Error("zero bins should be rejected")
	}
	if _, err := NewGrid(geom.V(1, 0), geom.V(0, 1), 4, 4); err == nil {
		t.Error("inverted bounds should be rejected")
	}
}

func TestGridIndexRoundTrip(t *testing.T) {
	g := testGrid(t)

	for i := 0; i < g.NumBins(); i++ {
		c := g.Center(i)
		j, ok := g.Index(c)
		if !ok {
			t.Fatalf("center of bin %d reported out of bounds", i)
		}
		if j != i {
			t.Errorf("center of bin %d indexed to %d", i, j)
		}
	}

	if _, ok := g.Index(geom.V(1.5, 0.5)); ok {
		t.Error("out-of-bounds point should not index")
	}
}

func TestReduceNormalizesDensity(t *testing.T) {
	g := testGrid(t)

	p := &walk.Particle{Occupancy: make([]float64, g.NumBins()), Time: 1, Steps: 10}
	p.Occupancy[0] = 3
	p.Occupancy[5] = 1

	r := Reduce(g, []*walk.Particle{p}, time.Second)

	integral := 0.0
	for _, d := range r.Density {
		integral += d * g.BinArea()
	}
	if math.Abs(integral-1) > 1e-12 {
		t.Errorf("density should integrate to 1, got %g", integral)
	}
	if r.Density[0] != 3*r.Density[5] {
		t.Error("density should preserve occupancy ratios")
	}
}

func TestReduceOrderInvariant(t *testing.T) {
	g := testGrid(t)
	rng := rand.New(rand.NewSource(11))

	particles := make([]*walk.Particle, 50)
	for i := range particles {
		p := &walk.Particle{Occupancy: make([]float64, g.NumBins()), Time: 1, Steps: 100}
		for j := range p.Occupancy {
			p.Occupancy[j] = rng.Float64()
		}
		if i%7 == 0 {
			p.Failed = true
		}
		particles[i] = p
	}

	a := Reduce(g, particles, 0)

	shuffled := make([]*walk.Particle, len(particles))
	copy(shuffled, particles)
	rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
	b := Reduce(g, shuffled, 0)

	for i := range a.Density {
		if math.Abs(a.Density[i]-b.Density[i]) > 1e-12 {
			t.Fatalf("bin %d differs after shuffle: %g vs %g", i, a.Density[i], b.Density[i])
		}
	}
	if a.Failed != b.Failed || a.TotalSteps != b.TotalSteps {
		t.Error("diagnostics should be order-invariant")
	}
}

func TestReduceCountsFailures(t *testing.T) {
	g := testGrid(t)
	particles := []*walk.Particle{
		{Occupancy: make([]float64, g.NumBins())},
		{Occupancy: make([]float64, g.NumBins()), Failed: true},
		{Occupancy: make([]float64, g.NumBins()), Failed: true},
	}
	r := Reduce(g, particles, 0)
	if r.Failed != 2 {
		t.Errorf("expected 2 failures, got %d", r.Failed)
	}
	if math.Abs(r.FailureRate()-2.0/3.0) > 1e-12 {
		t.Errorf("failure rate = %g, want 2/3", r.FailureRate())
	}
}

func TestCompareExactMatch(t *testing.T) {
	g := testGrid(t)

	// A result whose density equals the uniform reference exactly.
	p := &walk.Particle{Occupancy: make([]float64, g.NumBins()), Time: 1}
	for i := range p.Occupancy {
		p.Occupancy[i] = 1
	}
	r := Reduce(g, []*walk.Particle{p}, 0)

	cmp := Compare(r, Uniform(1.0))
	if cmp.L2 > 1e-12 || cmp.RMSE > 1e-12 || cmp.MaxAbs > 1e-12 {
		t.Errorf("exact match should have zero error: %+v", cmp)
	}
}

func TestCompareConstantReference(t *testing.T) {
	g := testGrid(t)

	// Non-uniform density against the constant uniform reference: the
	// correlation is undefined and must come back as 0, never NaN.
	p := &walk.Particle{Occupancy: make([]float64, g.NumBins()), Time: 1}
	for i := range p.Occupancy {
		p.Occupancy[i] = float64(i + 1)
	}
	r := Reduce(g, []*walk.Particle{p}, 0)

	cmp := Compare(r, Uniform(1.0))
	if math.IsNaN(cmp.Correlation) {
		t.Fatal("correlation must not be NaN for a constant reference")
	}
	if cmp.Correlation != 0 {
		t.Errorf("correlation should be 0 for a constant reference, got %g", cmp.Correlation)
	}
	if math.IsNaN(cmp.L2) || math.IsNaN(cmp.RMSE) {
		t.Error("error norms must stay finite")
	}
}

func TestHeatKernelNormalization(t *testing.T) {
	ref := HeatKernel(0, 0, 1.0, 0.1)

	// Numerically integrate over a generous box.
	sum := 0.0
	n := 200
	lo, hi := -3.0, 3.0
	h := (hi - lo) / float64(n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			x := lo + (float64(i)+0.5)*h
			y := lo + (float64(j)+0.5)*h
			sum += ref(x, y) * h * h
		}
	}
	if math.Abs(sum-1) > 1e-3 {
		t.Errorf("heat kernel should integrate to 1, got %g", sum)
	}
}

func TestHalfPlaneKernelReflectsMass(t *testing.T) {
	ref := HalfPlaneHeatKernel(0, 0.5, 1.0, 0.05)

	if ref(0, -0.1) != 0 {
		t.Error("no mass below the wall")
	}

	// Mass on y >= 0 should be (close to) the full unit mass.
	sum := 0.0
	n := 300
	h := 6.0 / float64(n)
	for i := 0; i < n; i++ {
		for j := 0; j < n/2; j++ {
			x := -3.0 + (float64(i)+0.5)*h
			y := (float64(j) + 0.5) * h
			sum += ref(x, y) * h * h
		}
	}
	if math.Abs(sum-1) > 1e-2 {
		t.Errorf("half-plane kernel mass = %g, want 1", sum)
	}
}
