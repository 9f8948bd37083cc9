package config

var Presets = map[string]*Config{
	"square-uniform": {
		Domain: "square", Mapping: "none",
		Particles: 20000, Dt: 1e-4, Horizon: 2.0, Seed: DefaultSeed, Diffusion: 1.0,
		Source: SourceConfig{Kind: "uniform", MinX: 0, MinY: 0, MaxX: 1, MaxY: 1},
		Grid:   GridConfig{MinX: 0, MinY: 0, MaxX: 1, MaxY: 1, Nx: 50, Ny: 50},
	},
	"square-source": {
		Domain: "square", Mapping: "none",
		Particles: 50000, Dt: 1e-4, Horizon: 0.02, Seed: DefaultSeed, Diffusion: 1.0,
		Source: SourceConfig{Kind: "point", X: 0.5, Y: 0.5},
		Grid:   GridConfig{MinX: 0, MinY: 0, MaxX: 1, MaxY: 1, Nx: 50, Ny: 50},
	},
	"halfplane-source": {
		Domain: "halfplane", Mapping: "none",
		Particles: 50000, Dt: 1e-4, Horizon: 0.05, Seed: DefaultSeed, Diffusion: 1.0,
		Source: SourceConfig{Kind: "point", X: 0, Y: 0.5},
		Grid:   GridConfig{MinX: -2, MinY: 0, MaxX: 2, MaxY: 2, Nx: 80, Ny: 40},
	},
	"halfplane-drift": {
		Domain: "halfplane", Mapping: "none",
		Particles: 20000, Dt: 1e-4, Horizon: 0.5, Seed: DefaultSeed,
		DriftX: 1.0, DriftY: -0.5, Diffusion: 0.2,
		Source: SourceConfig{Kind: "gaussian", X: 0, Y: 1, Sigma: 0.1},
		Grid:   GridConfig{MinX: -1, MinY: 0, MaxX: 3, MaxY: 2, Nx: 80, Ny: 40},
	},
	"lshape": {
		Domain: "lshape", Mapping: "none",
		Particles: 20000, Dt: 1e-4, Horizon: 2.0, Seed: DefaultSeed, Diffusion: 1.0,
		Source: SourceConfig{Kind: "point", X: 0.5, Y: 0.5},
		Grid:   GridConfig{MinX: 0, MinY: 0, MaxX: 2, MaxY: 2, Nx: 40, Ny: 40},
	},
	"wedge-mapped": {
		Domain: "wedge", Mapping: "wedge", WedgeAngle: 1.0471975511965976, // pi/3
		Particles: 20000, Dt: 1e-5, Horizon: 0.02, Seed: DefaultSeed, Diffusion: 1.0,
		Source: SourceConfig{Kind: "point", X: 0.8, Y: 0.4},
		Grid:   GridConfig{MinX: 0, MinY: 0, MaxX: 2, MaxY: 2, Nx: 40, Ny: 40},
	},
}

func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}
