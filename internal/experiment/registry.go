package experiment

import (
	"fmt"

	"github.com/san-kum/mcwalk/internal/config"
	"github.com/san-kum/mcwalk/internal/geom"
	"github.com/san-kum/mcwalk/internal/mapping"
	"github.com/san-kum/mcwalk/internal/walk"
)

// Registry resolves configuration names into concrete domains, samplers
// and coordinate maps.
type Registry struct {
	domains map[string]func(cfg *config.Config) (*geom.Domain, error)
}

func NewRegistry() *Registry {
	r := &Registry{
		domains: make(map[string]func(*config.Config) (*geom.Domain, error)),
	}

	r.domains["square"] = func(*config.Config) (*geom.Domain, error) {
		return geom.NewPolygon([]geom.Vec{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}})
	}
	r.domains["halfplane"] = func(*config.Config) (*geom.Domain, error) {
		return geom.NewHalfPlane(), nil
	}
	r.domains["quarterplane"] = func(*config.Config) (*geom.Domain, error) {
		return geom.NewQuarterPlane(), nil
	}
	r.domains["lshape"] = func(*config.Config) (*geom.Domain, error) {
		return geom.NewPolygon([]geom.Vec{
			{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 2}, {X: 0, Y: 2},
		})
	}
	r.domains["wedge"] = func(cfg *config.Config) (*geom.Domain, error) {
		return geom.NewWedge(cfg.WedgeAngle)
	}

	return r
}

func (r *Registry) GetDomain(cfg *config.Config) (*geom.Domain, error) {
	fn, ok := r.domains[cfg.Domain]
	if !ok {
		return nil, fmt.Errorf("unknown domain: %s", cfg.Domain)
	}
	return fn(cfg)
}

func (r *Registry) ListDomains() []string {
	names := make([]string, 0, len(r.domains))
	for name := range r.domains {
		names = append(names, name)
	}
	return names
}

func (r *Registry) GetSampler(cfg *config.Config) (walk.Sampler, error) {
	src := cfg.Source
	switch src.Kind {
	case "point":
		return walk.PointSource{At: geom.V(src.X, src.Y)}, nil
	case "uniform":
		return walk.UniformBox{Min: geom.V(src.MinX, src.MinY), Max: geom.V(src.MaxX, src.MaxY)}, nil
	case "gaussian":
		return walk.GaussianSource{Center: geom.V(src.X, src.Y), Sigma: src.Sigma}, nil
	default:
		return nil, fmt.Errorf("unknown source kind: %s", src.Kind)
	}
}

// GetMapping returns the configured coordinate map and the mapped-space
// domain the walk runs in, or nil for identity.
func (r *Registry) GetMapping(cfg *config.Config) (mapping.Map, *geom.Domain, error) {
	switch cfg.Mapping {
	case "", "none":
		return nil, nil, nil
	case "wedge":
		m, err := mapping.NewWedge(cfg.WedgeAngle)
		if err != nil {
			return nil, nil, err
		}
		return m, geom.NewHalfPlane(), nil
	default:
		return nil, nil, fmt.Errorf("unknown mapping: %s", cfg.Mapping)
	}
}
