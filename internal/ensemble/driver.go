package ensemble

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/san-kum/mcwalk/internal/geom"
	"github.com/san-kum/mcwalk/internal/mapping"
	"github.com/san-kum/mcwalk/internal/stats"
	"github.com/san-kum/mcwalk/internal/walk"
)

// Config holds the run parameters the driver needs. Zero values for the
// bounds fall back to the stepper and sampler defaults.
type Config struct {
	Particles int
	Dt        float64
	Horizon   float64
	Seed      int64
	Workers   int

	MaxReflections int
	MaxRetries     int
	MaxSampleTries int
}

func (c Config) validate() error {
	if c.Particles <= 0 {
		return fmt.Errorf("ensemble: particles must be positive, got %d", c.Particles)
	}
	if c.Dt <= 0 {
		return fmt.Errorf("ensemble: dt must be positive, got %g", c.Dt)
	}
	if c.Horizon <= 0 {
		return fmt.Errorf("ensemble: horizon must be positive, got %g", c.Horizon)
	}
	return nil
}

// Driver owns the particle ensemble. Each particle is independent: it
// gets its own RNG seeded from the global seed plus its index, so the
// result is identical whether particles run sequentially or across any
// number of workers.
type Driver struct {
	physical *geom.Domain // where initial samples and statistics live
	sim      *geom.Domain // where the walk actually runs
	field    walk.Field
	sampler  walk.Sampler
	grid     *stats.Grid
	coord    mapping.Map
}

func New(dom *geom.Domain, field walk.Field, sampler walk.Sampler, grid *stats.Grid) *Driver {
	return &Driver{
		physical: dom,
		sim:      dom,
		field:    field,
		sampler:  sampler,
		grid:     grid,
		coord:    mapping.Identity{},
	}
}

// WithMapping switches the walk into mapped coordinates: simDomain is the
// image of the physical domain under m (for a wedge map, the half-plane),
// the field is wrapped so drift and diffusion transform through the map,
// and occupancy is deposited at inverse-mapped physical positions.
func (d *Driver) WithMapping(m mapping.Map, simDomain *geom.Domain) *Driver {
	d.coord = m
	d.sim = simDomain
	d.field = walk.MappedField{Base: d.field, Map: m}
	return d
}

// Run simulates the full ensemble and reduces it to a Result. Stepper
// failures are per-particle: the particle is excluded and counted, the
// run continues. Sampler exhaustion is fatal, since it means the initial
// condition and the domain disagree.
func (d *Driver) Run(ctx context.Context, cfg Config) (*stats.Result, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	particles := make([]*walk.Particle, cfg.Particles)
	errs := make([]error, cfg.Particles)

	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > cfg.Particles {
		workers = cfg.Particles
	}

	var wg sync.WaitGroup
	chunk := (cfg.Particles + workers - 1) / workers
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := lo + chunk
		if hi > cfg.Particles {
			hi = cfg.Particles
		}
		if lo >= hi {
			continue
		}

		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			for i := lo; i < hi; i++ {
				if ctx.Err() != nil {
					errs[i] = ctx.Err()
					continue
				}
				particles[i], errs[i] = d.runParticle(cfg, i)
			}
		}(lo, hi)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil && !errors.Is(err, walk.ErrReflectionBudget) {
			return nil, err
		}
		if particles[i] == nil {
			particles[i] = &walk.Particle{Failed: true}
		}
	}

	return stats.Reduce(d.grid, particles, time.Since(start)), nil
}

// runParticle simulates one full particle lifetime. Only sampler and
// context errors propagate; a stepping failure leaves the particle marked
// failed for the reducer to count.
func (d *Driver) runParticle(cfg Config, idx int) (*walk.Particle, error) {
	rng := rand.New(rand.NewSource(cfg.Seed + int64(idx)))

	x0, err := walk.SampleInside(rng, d.sampler, d.physical, cfg.MaxSampleTries)
	if err != nil {
		return nil, err
	}

	p := &walk.Particle{
		Pos:       d.coord.Forward(x0),
		Weight:    1,
		Occupancy: make([]float64, d.grid.NumBins()),
	}

	stepper := walk.NewStepper(d.sim, d.field)
	if cfg.MaxReflections > 0 {
		stepper.MaxReflections = cfg.MaxReflections
	}
	if cfg.MaxRetries > 0 {
		stepper.MaxRetries = cfg.MaxRetries
	}

	for p.Time < cfg.Horizon {
		if err := stepper.Step(rng, p, cfg.Dt); err != nil {
			return p, err
		}
		if bin, ok := d.grid.Index(d.coord.Inverse(p.Pos)); ok {
			p.Occupancy[bin] += cfg.Dt * p.Weight
		}
	}

	return p, nil
}
