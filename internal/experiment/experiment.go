package experiment

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/mcwalk/internal/config"
	"github.com/san-kum/mcwalk/internal/ensemble"
	"github.com/san-kum/mcwalk/internal/geom"
	"github.com/san-kum/mcwalk/internal/mapping"
	"github.com/san-kum/mcwalk/internal/stats"
	"github.com/san-kum/mcwalk/internal/walk"
)

// mappingCheckTol bounds acceptable forward/inverse drift; anything worse
// would corrupt the physical-space statistics.
const mappingCheckTol = 1e-8

// Experiment assembles a full run from configuration: domain, field,
// sampler, optional coordinate map and the occupancy grid. All fatal
// validation (geometry, mapping round trip) happens in Setup, before any
// particle work.
type Experiment struct {
	cfg    *config.Config
	driver *ensemble.Driver
}

func New(cfg *config.Config) *Experiment {
	return &Experiment{cfg: cfg}
}

func (e *Experiment) Setup(registry *Registry) error {
	dom, err := registry.GetDomain(e.cfg)
	if err != nil {
		return err
	}

	sampler, err := registry.GetSampler(e.cfg)
	if err != nil {
		return err
	}

	grid, err := stats.NewGrid(
		geom.V(e.cfg.Grid.MinX, e.cfg.Grid.MinY),
		geom.V(e.cfg.Grid.MaxX, e.cfg.Grid.MaxY),
		e.cfg.Grid.Nx, e.cfg.Grid.Ny,
	)
	if err != nil {
		return err
	}

	field := walk.ConstantField{
		Mu: geom.V(e.cfg.DriftX, e.cfg.DriftY),
		D:  e.cfg.Diffusion,
	}

	e.driver = ensemble.New(dom, field, sampler, grid)

	coord, simDom, err := registry.GetMapping(e.cfg)
	if err != nil {
		return err
	}
	if coord != nil {
		if err := checkMapping(coord, dom); err != nil {
			return err
		}
		e.driver.WithMapping(coord, simDom)
	}

	return nil
}

func (e *Experiment) Run(ctx context.Context) (*stats.Result, error) {
	if e.driver == nil {
		return nil, fmt.Errorf("experiment not setup")
	}

	return e.driver.Run(ctx, ensemble.Config{
		Particles:      e.cfg.Particles,
		Dt:             e.cfg.Dt,
		Horizon:        e.cfg.Horizon,
		Seed:           e.cfg.Seed,
		Workers:        e.cfg.Workers,
		MaxReflections: e.cfg.MaxReflections,
		MaxRetries:     e.cfg.MaxRetries,
		MaxSampleTries: e.cfg.MaxSampleTries,
	})
}

// checkMapping probes the round trip on a fan of interior points before
// committing to mapped-space simulation.
func checkMapping(m mapping.Map, dom *geom.Domain) error {
	pts := make([]geom.Vec, 0, 64)
	for _, r := range []float64{0.05, 0.3, 1, 3} {
		for k := 0; k < 16; k++ {
			phi := 2 * math.Pi * float64(k) / 16
			p := geom.V(r*math.Cos(phi), r*math.Sin(phi))
			if dom.Contains(p) {
				pts = append(pts, p)
			}
		}
	}
	return mapping.RoundTrip(m, pts, mappingCheckTol)
}
