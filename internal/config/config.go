package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultParticles = 10000
	DefaultDt        = 1e-4
	DefaultHorizon   = 1.0
	DefaultDiffusion = 1.0
	DefaultBins      = 100
	DefaultSeed      = 52
)

type Config struct {
	Domain     string  `yaml:"domain"`  // square, halfplane, quarterplane, lshape, wedge
	Mapping    string  `yaml:"mapping"` // none, wedge
	WedgeAngle float64 `yaml:"wedge_angle"`

	Particles int     `yaml:"particles"`
	Dt        float64 `yaml:"dt"`
	Horizon   float64 `yaml:"horizon"`
	Seed      int64   `yaml:"seed"`
	Workers   int     `yaml:"workers"`

	DriftX    float64 `yaml:"drift_x"`
	DriftY    float64 `yaml:"drift_y"`
	Diffusion float64 `yaml:"diffusion"`

	Source SourceConfig `yaml:"source"`
	Grid   GridConfig   `yaml:"grid"`

	MaxReflections int `yaml:"max_reflections"`
	MaxRetries     int `yaml:"max_retries"`
	MaxSampleTries int `yaml:"max_sample_tries"`
}

// SourceConfig selects the initial-condition sampler.
type SourceConfig struct {
	Kind  string  `yaml:"kind"` // point, uniform, gaussian
	X     float64 `yaml:"x"`
	Y     float64 `yaml:"y"`
	MinX  float64 `yaml:"min_x"`
	MinY  float64 `yaml:"min_y"`
	MaxX  float64 `yaml:"max_x"`
	MaxY  float64 `yaml:"max_y"`
	Sigma float64 `yaml:"sigma"`
}

// GridConfig bounds the occupancy histogram.
type GridConfig struct {
	MinX float64 `yaml:"min_x"`
	MinY float64 `yaml:"min_y"`
	MaxX float64 `yaml:"max_x"`
	MaxY float64 `yaml:"max_y"`
	Nx   int     `yaml:"nx"`
	Ny   int     `yaml:"ny"`
}

func DefaultConfig() *Config {
	return &Config{
		Domain:    "square",
		Mapping:   "none",
		Particles: DefaultParticles,
		Dt:        DefaultDt,
		Horizon:   DefaultHorizon,
		Seed:      DefaultSeed,
		Diffusion: DefaultDiffusion,
		Source: SourceConfig{
			Kind: "uniform",
			MinX: 0, MinY: 0, MaxX: 1, MaxY: 1,
		},
		Grid: GridConfig{
			MinX: 0, MinY: 0, MaxX: 1, MaxY: 1,
			Nx: DefaultBins, Ny: DefaultBins,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
