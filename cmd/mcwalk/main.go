package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gocarina/gocsv"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/mcwalk/internal/config"
	"github.com/san-kum/mcwalk/internal/experiment"
	"github.com/san-kum/mcwalk/internal/export"
	"github.com/san-kum/mcwalk/internal/geom"
	"github.com/san-kum/mcwalk/internal/optim"
	"github.com/san-kum/mcwalk/internal/stats"
	"github.com/san-kum/mcwalk/internal/storage"
	"github.com/san-kum/mcwalk/internal/viz"
	"github.com/san-kum/mcwalk/internal/walk"
)

var (
	dataDir    string
	configFile string
	preset     string

	domainName string
	mappingStr string
	wedgeAngle float64
	particles  int
	dt         float64
	horizon    float64
	seed       int64
	workers    int
	driftX     float64
	driftY     float64
	diffusion  float64
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "mcwalk",
		Short: "monte carlo particle lab for advection-diffusion problems",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".mcwalk", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run an ensemble and store the result",
		RunE:  runEnsemble,
	}
	addRunFlags(runCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot marginal densities of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export density bins to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id] [path]",
		Short: "render the density heatmap to SVG",
		Args:  cobra.ExactArgs(2),
		RunE:  exportSVG,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export the full run to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListPresets() {
				fmt.Println(name)
			}
			return nil
		},
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark ensemble throughput across timesteps",
		RunE:  benchEnsemble,
	}
	addRunFlags(benchCmd)

	compareCmd := &cobra.Command{
		Use:   "compare",
		Short: "run and compare against the analytic solution",
		RunE:  compareReference,
	}
	addRunFlags(compareCmd)

	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "grid-search dt and particle count against the analytic solution",
		RunE:  tuneParameters,
	}
	addRunFlags(tuneCmd)

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "watch walkers diffuse in the terminal",
		RunE:  runLive,
	}
	addRunFlags(liveCmd)

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, exportCmd, exportCSVCmd, exportSVGCmd, exportJSONCmd, presetsCmd, benchCmd, compareCmd, tuneCmd, liveCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().StringVar(&domainName, "domain", "square", "domain: square, halfplane, quarterplane, lshape, wedge")
	cmd.Flags().StringVar(&mappingStr, "mapping", "none", "coordinate mapping: none, wedge")
	cmd.Flags().Float64Var(&wedgeAngle, "wedge-angle", 1.0471975511965976, "wedge opening angle (radians)")
	cmd.Flags().IntVar(&particles, "particles", config.DefaultParticles, "ensemble size")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().Float64Var(&horizon, "time", config.DefaultHorizon, "simulated time horizon")
	cmd.Flags().Int64Var(&seed, "seed", config.DefaultSeed, "random seed")
	cmd.Flags().IntVar(&workers, "workers", 0, "worker goroutines (0 = sequential)")
	cmd.Flags().Float64Var(&driftX, "drift-x", 0, "drift velocity x")
	cmd.Flags().Float64Var(&driftY, "drift-y", 0, "drift velocity y")
	cmd.Flags().Float64Var(&diffusion, "diffusion", config.DefaultDiffusion, "diffusion coefficient")
}

// buildConfig layers preset, config file and CLI flags; a flag the user
// actually set wins over everything.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cp := *p
		cfg = &cp
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("domain") {
		cfg.Domain = domainName
	}
	if cmd.Flags().Changed("mapping") {
		cfg.Mapping = mappingStr
	}
	if cmd.Flags().Changed("wedge-angle") {
		cfg.WedgeAngle = wedgeAngle
	}
	if cmd.Flags().Changed("particles") {
		cfg.Particles = particles
	}
	if cmd.Flags().Changed("dt") {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("time") {
		cfg.Horizon = horizon
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = seed
	}
	if cmd.Flags().Changed("workers") {
		cfg.Workers = workers
	}
	if cmd.Flags().Changed("drift-x") {
		cfg.DriftX = driftX
	}
	if cmd.Flags().Changed("drift-y") {
		cfg.DriftY = driftY
	}
	if cmd.Flags().Changed("diffusion") {
		cfg.Diffusion = diffusion
	}

	return cfg, nil
}

func runConfigured(cfg *config.Config) (*stats.Result, error) {
	exp := experiment.New(cfg)
	if err := exp.Setup(experiment.NewRegistry()); err != nil {
		return nil, err
	}
	return exp.Run(context.Background())
}

func runEnsemble(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	fmt.Printf("running %d walkers on %s...\n", cfg.Particles, cfg.Domain)

	result, err := runConfigured(cfg)
	if err != nil {
		return err
	}

	runID, err := st.Save(preset, cfg.Domain, cfg.Dt, cfg.Horizon, cfg.Seed, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", result.Elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.TotalSteps)
	fmt.Printf("reflections: %d\n", result.Reflections)
	fmt.Printf("failed: %d/%d (%.2f%%)\n", result.Failed, result.Particles, 100*result.FailureRate())

	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := storage.New(dataDir).List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDOMAIN\tTIME\tHORIZON\tDT\tPARTICLES\tFAILED")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.3fs\t%.2e\t%d\t%d\n",
			run.ID,
			run.Domain,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Horizon,
			run.Dt,
			run.Particles,
			run.Failed,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	records, err := st.LoadDensity(args[0])
	if err != nil {
		return err
	}

	result, err := storage.Reconstruct(meta, records)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("domain: %s\n", meta.Domain)
	fmt.Printf("bins: %dx%d\n\n", meta.GridNx, meta.GridNy)

	xMarginal := make([]float64, meta.GridNx)
	yMarginal := make([]float64, meta.GridNy)
	for i, v := range result.Density {
		xMarginal[i%meta.GridNx] += v
		yMarginal[i/meta.GridNx] += v
	}

	fmt.Println(asciigraph.Plot(xMarginal,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("density, x marginal"),
	))
	fmt.Println()
	fmt.Println(asciigraph.Plot(yMarginal,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("density, y marginal"),
	))

	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	meta, err := storage.New(dataDir).Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	records, err := storage.New(dataDir).LoadDensity(args[0])
	if err != nil {
		return err
	}
	return gocsv.Marshal(&records, os.Stdout)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	records, err := st.LoadDensity(args[0])
	if err != nil {
		return err
	}

	result, err := storage.Reconstruct(meta, records)
	if err != nil {
		return err
	}

	return storage.ExportJSONStdout(meta.Preset, meta.Domain, meta.Dt, meta.Horizon, meta.Seed, result)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	records, err := st.LoadDensity(args[0])
	if err != nil {
		return err
	}

	result, err := storage.Reconstruct(meta, records)
	if err != nil {
		return err
	}

	if err := export.SaveDensitySVG(args[1], result, 8); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", args[1])
	return nil
}

func benchEnsemble(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	dts := []float64{1e-3, 1e-4, 1e-5}
	counts := []int{1000, 5000, 20000}

	fmt.Printf("benchmarking %s\n\n", cfg.Domain)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PARTICLES\tDT\tSTEPS\tTIME\tSTEPS/SEC")

	for _, n := range counts {
		for _, step := range dts {
			c := *cfg
			c.Particles = n
			c.Dt = step

			result, err := runConfigured(&c)
			if err != nil {
				return err
			}

			stepsPerSec := float64(result.TotalSteps) / result.Elapsed.Seconds()
			fmt.Fprintf(w, "%d\t%.0e\t%d\t%v\t%.0f\n",
				n, step, result.TotalSteps, result.Elapsed.Round(time.Millisecond), stepsPerSec)
		}
	}

	return w.Flush()
}

// referenceFor picks the analytic solution matching a configuration, when
// one exists.
func referenceFor(cfg *config.Config) (stats.Reference, error) {
	if cfg.DriftX != 0 || cfg.DriftY != 0 {
		return nil, fmt.Errorf("no analytic reference with drift")
	}

	switch {
	case cfg.Domain == "square" && cfg.Source.Kind == "uniform":
		return stats.Uniform(1.0), nil
	case cfg.Domain == "halfplane" && cfg.Source.Kind == "point":
		return stats.HalfPlaneHeatKernel(cfg.Source.X, cfg.Source.Y, cfg.Diffusion, cfg.Horizon), nil
	default:
		return nil, fmt.Errorf("no analytic reference for domain %s with %s source", cfg.Domain, cfg.Source.Kind)
	}
}

func compareReference(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	ref, err := referenceFor(cfg)
	if err != nil {
		return err
	}

	result, err := runConfigured(cfg)
	if err != nil {
		return err
	}

	c := stats.Compare(result, ref)

	fmt.Printf("compared %d walkers against analytic solution\n\n", result.Particles)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "l2 error\t%.6f\n", c.L2)
	fmt.Fprintf(w, "rmse\t%.6f\n", c.RMSE)
	fmt.Fprintf(w, "max abs\t%.6f\n", c.MaxAbs)
	fmt.Fprintf(w, "correlation\t%.6f\n", c.Correlation)
	return w.Flush()
}

func tuneParameters(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	ref, err := referenceFor(cfg)
	if err != nil {
		return err
	}

	gs := optim.NewGridSearch(
		[]string{"dt", "particles"},
		[][]float64{{1e-3, 1e-4, 1e-5}, {2000, 10000, 50000}},
	)

	fmt.Println("searching dt x particles grid...")

	best, val, err := gs.Search(context.Background(),
		func(_ context.Context, params map[string]float64) (*stats.Result, error) {
			c := *cfg
			c.Dt = params["dt"]
			c.Particles = int(params["particles"])
			return runConfigured(&c)
		},
		func(r *stats.Result) float64 {
			return stats.Compare(r, ref).RMSE
		},
	)
	if err != nil {
		return err
	}
	if best == nil {
		return fmt.Errorf("no parameter combination completed")
	}

	fmt.Printf("best rmse: %.6f\n", val)
	fmt.Printf("dt: %.0e\n", best["dt"])
	fmt.Printf("particles: %d\n", int(best["particles"]))
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	registry := experiment.NewRegistry()
	dom, err := registry.GetDomain(cfg)
	if err != nil {
		return err
	}
	sampler, err := registry.GetSampler(cfg)
	if err != nil {
		return err
	}

	field := walk.ConstantField{
		Mu: geom.V(cfg.DriftX, cfg.DriftY),
		D:  cfg.Diffusion,
	}

	m, err := viz.NewModel(cfg.Domain, dom, field, sampler,
		geom.V(cfg.Grid.MinX, cfg.Grid.MinY),
		geom.V(cfg.Grid.MaxX, cfg.Grid.MaxY),
		cfg.Dt, cfg.Seed)
	if err != nil {
		return err
	}

	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
