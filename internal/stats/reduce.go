package stats

import (
	"time"

	"github.com/san-kum/mcwalk/internal/walk"
)

// Result is the immutable aggregate of a completed run: the estimated
// field per bin plus the diagnostics needed to judge its statistical
// validity. Built once by Reduce, never mutated afterwards.
type Result struct {
	Grid *Grid

	// Occupancy is the summed residence time per bin; Density is
	// occupancy normalized to integrate to one over the grid.
	Occupancy []float64
	Density   []float64

	Particles   int
	Failed      int
	TotalSteps  int
	Reflections int
	SimTime     float64
	Elapsed     time.Duration
}

// FailureRate is the fraction of particles excluded from statistics. A
// high rate signals mismatched geometry or timestep, not bad luck.
func (r *Result) FailureRate() float64 {
	if r.Particles == 0 {
		return 0
	}
	return float64(r.Failed) / float64(r.Particles)
}

// Reduce folds completed particles into a Result. The fold is a plain
// per-bin sum, so the outcome does not depend on particle order and
// parallel drivers produce identical results for identical draws. Failed
// particles contribute to diagnostics only, never to the density.
func Reduce(g *Grid, particles []*walk.Particle, elapsed time.Duration) *Result {
	r := &Result{
		Grid:      g,
		Occupancy: make([]float64, g.NumBins()),
		Density:   make([]float64, g.NumBins()),
		Particles: len(particles),
		Elapsed:   elapsed,
	}

	total := 0.0
	for _, p := range particles {
		r.TotalSteps += p.Steps
		r.Reflections += p.Reflections
		if p.Failed {
			r.Failed++
			continue
		}
		if p.Time > r.SimTime {
			r.SimTime = p.Time
		}
		for i, v := range p.Occupancy {
			r.Occupancy[i] += v
			total += v
		}
	}

	if total > 0 {
		norm := 1 / (total * g.BinArea())
		for i, v := range r.Occupancy {
			r.Density[i] = v * norm
		}
	}

	return r
}
