package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/mcwalk/internal/stats"
)

type ExportData struct {
	Preset      string    `json:"preset"`
	Domain      string    `json:"domain"`
	Seed        int64     `json:"seed"`
	Dt          float64   `json:"dt"`
	Horizon     float64   `json:"horizon"`
	Particles   int       `json:"particles"`
	Failed      int       `json:"failed"`
	FailureRate float64   `json:"failure_rate"`
	TotalSteps  int       `json:"total_steps"`
	Reflections int       `json:"reflections"`
	SimTime     float64   `json:"sim_time"`
	GridNx      int       `json:"grid_nx"`
	GridNy      int       `json:"grid_ny"`
	GridMin     []float64 `json:"grid_min"`
	GridMax     []float64 `json:"grid_max"`
	Occupancy   []float64 `json:"occupancy"`
	Density     []float64 `json:"density"`
}

func exportData(preset, domain string, dt, horizon float64, seed int64, result *stats.Result) ExportData {
	g := result.Grid
	return ExportData{
		Preset:      preset,
		Domain:      domain,
		Seed:        seed,
		Dt:          dt,
		Horizon:     horizon,
		Particles:   result.Particles,
		Failed:      result.Failed,
		FailureRate: result.FailureRate(),
		TotalSteps:  result.TotalSteps,
		Reflections: result.Reflections,
		SimTime:     result.SimTime,
		GridNx:      g.Nx,
		GridNy:      g.Ny,
		GridMin:     []float64{g.Min.X, g.Min.Y},
		GridMax:     []float64{g.Max.X, g.Max.Y},
		Occupancy:   result.Occupancy,
		Density:     result.Density,
	}
}

func writeExport(w io.Writer, data ExportData) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func ExportJSON(path, preset, domain string, dt, horizon float64, seed int64, result *stats.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return writeExport(file, exportData(preset, domain, dt, horizon, seed, result))
}

func ExportJSONStdout(preset, domain string, dt, horizon float64, seed int64, result *stats.Result) error {
	return writeExport(os.Stdout, exportData(preset, domain, dt, horizon, seed, result))
}
