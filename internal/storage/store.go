package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/san-kum/mcwalk/internal/geom"
	"github.com/san-kum/mcwalk/internal/stats"
)

// Store persists completed runs under a base directory, one subdirectory
// per run holding metadata.json and density.csv.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID          string    `json:"id"`
	Preset      string    `json:"preset"`
	Domain      string    `json:"domain"`
	Timestamp   time.Time `json:"timestamp"`
	Seed        int64     `json:"seed"`
	Dt          float64   `json:"dt"`
	Horizon     float64   `json:"horizon"`
	Particles   int       `json:"particles"`
	Failed      int       `json:"failed"`
	TotalSteps  int       `json:"total_steps"`
	Reflections int       `json:"reflections"`
	SimTime     float64   `json:"sim_time"`
	ElapsedSec  float64   `json:"elapsed_sec"`

	GridNx  int        `json:"grid_nx"`
	GridNy  int        `json:"grid_ny"`
	GridMin [2]float64 `json:"grid_min"`
	GridMax [2]float64 `json:"grid_max"`
}

// BinRecord is one grid cell of the estimated density, written as a CSV
// row with the bin center so the file plots without the grid geometry.
type BinRecord struct {
	Bin       int     `csv:"bin"`
	X         float64 `csv:"x"`
	Y         float64 `csv:"y"`
	Occupancy float64 `csv:"occupancy"`
	Density   float64 `csv:"density"`
}

func (s *Store) Save(preset, domain string, dt, horizon float64, seed int64, result *stats.Result) (string, error) {
	// Nanosecond timestamps keep back-to-back runs of the same domain
	// from colliding on one run directory.
	runID := fmt.Sprintf("%s_%d", domain, time.Now().UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:          runID,
		Preset:      preset,
		Domain:      domain,
		Timestamp:   time.Now(),
		Seed:        seed,
		Dt:          dt,
		Horizon:     horizon,
		Particles:   result.Particles,
		Failed:      result.Failed,
		TotalSteps:  result.TotalSteps,
		Reflections: result.Reflections,
		SimTime:     result.SimTime,
		ElapsedSec:  result.Elapsed.Seconds(),
		GridNx:      result.Grid.Nx,
		GridNy:      result.Grid.Ny,
		GridMin:     [2]float64{result.Grid.Min.X, result.Grid.Min.Y},
		GridMax:     [2]float64{result.Grid.Max.X, result.Grid.Max.Y},
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	records := make([]*BinRecord, len(result.Density))
	for i := range result.Density {
		c := result.Grid.Center(i)
		records[i] = &BinRecord{
			Bin:       i,
			X:         c.X,
			Y:         c.Y,
			Occupancy: result.Occupancy[i],
			Density:   result.Density[i],
		}
	}

	csvFile, err := os.Create(filepath.Join(runDir, "density.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := gocsv.MarshalFile(&records, csvFile); err != nil {
		return "", err
	}

	return runID, nil
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name(), "metadata.json"))
		if err != nil {
			continue
		}

		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}

		runs = append(runs, meta)
	}

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// Reconstruct rebuilds a Result from stored metadata and bin records, so
// exports and plots work on past runs without rerunning them.
func Reconstruct(meta *RunMetadata, records []*BinRecord) (*stats.Result, error) {
	grid, err := stats.NewGrid(
		geom.V(meta.GridMin[0], meta.GridMin[1]),
		geom.V(meta.GridMax[0], meta.GridMax[1]),
		meta.GridNx, meta.GridNy,
	)
	if err != nil {
		return nil, err
	}

	r := &stats.Result{
		Grid:        grid,
		Occupancy:   make([]float64, grid.NumBins()),
		Density:     make([]float64, grid.NumBins()),
		Particles:   meta.Particles,
		Failed:      meta.Failed,
		TotalSteps:  meta.TotalSteps,
		Reflections: meta.Reflections,
		SimTime:     meta.SimTime,
		Elapsed:     time.Duration(meta.ElapsedSec * float64(time.Second)),
	}
	for _, rec := range records {
		if rec.Bin < 0 || rec.Bin >= grid.NumBins() {
			return nil, fmt.Errorf("bin %d outside %dx%d grid", rec.Bin, grid.Nx, grid.Ny)
		}
		r.Occupancy[rec.Bin] = rec.Occupancy
		r.Density[rec.Bin] = rec.Density
	}

	return r, nil
}

func (s *Store) LoadDensity(runID string) ([]*BinRecord, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "density.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	records := []*BinRecord{}
	if err := gocsv.UnmarshalFile(file, &records); err != nil {
		return nil, err
	}

	return records, nil
}
