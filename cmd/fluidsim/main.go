package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/sgshea/fluidsim/internal/config"
	"github.com/sgshea/fluidsim/internal/export"
	"github.com/sgshea/fluidsim/internal/fluid"
	"github.com/sgshea/fluidsim/internal/optim"
	"github.com/sgshea/fluidsim/internal/metrics"
	"github.com/sgshea/fluidsim/internal/sim"
	"github.com/sgshea/fluidsim/internal/storage"
	"github.com/sgshea/fluidsim/internal/viz"
)

var (
	dataDir    string
	configFile string
	dt         float64
	duration   float64
	gridW      int
	gridH      int
	// sweep parameters
	viscosities string
	// stability threshold for the run report
	speedLimit float64
	// svg export
	svgOut   string
	svgScale float64
	// tune search
	tuneMetric string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "fluidsim",
		Short: "interactive 2d fluid simulation lab",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLive(cmd, []string{"paint"})
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".fluidsim", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [preset]",
		Short: "run a headless simulation and record metrics",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().Float64Var(&dt, "dt", 0, "timestep override")
	runCmd.Flags().Float64Var(&duration, "time", 0, "duration override")
	runCmd.Flags().IntVar(&gridW, "width", 0, "grid width override")
	runCmd.Flags().IntVar(&gridH, "height", 0, "grid height override")
	runCmd.Flags().Float64Var(&speedLimit, "speed-limit", 50, "stability speed threshold")

	liveCmd := &cobra.Command{
		Use:   "live [preset]",
		Short: "run with interactive terminal visualization",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	liveCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	liveCmd.Flags().Float64Var(&dt, "dt", 0, "timestep override")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list recorded runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot metric history of a recorded run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available scene presets",
		RunE:  listPresets,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [preset]",
		Short: "run the same scene across several viscosities",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSweep,
	}
	sweepCmd.Flags().StringVar(&viscosities, "viscosities", "0,0.0001,0.001,0.01", "comma-separated viscosity values")
	sweepCmd.Flags().Float64Var(&dt, "dt", 0, "timestep override")
	sweepCmd.Flags().Float64Var(&duration, "time", 0, "duration override")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark solver throughput across grid sizes",
		RunE:  benchSolver,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export the dye snapshot of a run as svg",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVar(&svgOut, "out", "", "output file (default <run_id>.svg)")
	exportSVGCmd.Flags().Float64Var(&svgScale, "scale", 4, "pixels per cell")

	tuneCmd := &cobra.Command{
		Use:   "tune [preset]",
		Short: "grid-search viscosity and confinement for a scene",
		Args:  cobra.MaximumNArgs(1),
		RunE:  tuneScene,
	}
	tuneCmd.Flags().StringVar(&tuneMetric, "metric", "divergence_max", "metric to minimize")
	tuneCmd.Flags().Float64Var(&dt, "dt", 0, "timestep override")
	tuneCmd.Flags().Float64Var(&duration, "time", 0, "duration override")

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, plotCmd, exportCmd, presetsCmd, sweepCmd, benchCmd, exportSVGCmd, tuneCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig resolves preset name and config file into a final Config.
// CLI flag overrides win over both.
func loadConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if len(args) > 0 {
		p, err := config.Preset(args[0])
		if err != nil {
			return nil, err
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("dt") {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("time") {
		cfg.Duration = duration
	}
	if cmd.Flags().Changed("width") {
		cfg.Width = gridW
	}
	if cmd.Flags().Changed("height") {
		cfg.Height = gridH
	}
	return cfg, nil
}

// sceneSource returns the background impulse source matching a scene.
func sceneSource(cfg *config.Config) sim.ImpulseSource {
	switch cfg.Scene {
	case "windtunnel":
		return &sim.Inflow{
			X:        2,
			Y0:       2,
			Y1:       float64(cfg.Height - 3),
			Velocity: 2.0,
			Dye:      0,
			Radius:   0,
		}
	case "tank":
		return sim.NoImpulses{}
	default:
		return &sim.Stir{
			CX:       float64(cfg.Width) / 2,
			CY:       float64(cfg.Height) / 2,
			Orbit:    float64(cfg.Height) / 4,
			Radius:   float64(cfg.Height) / 12,
			Strength: 1.5,
			Dye:      0.05,
			Period:   6,
		}
	}
}

func defaultMetrics(limit float64) []sim.Metric {
	return []sim.Metric{
		metrics.NewKineticEnergy(),
		metrics.NewDyeMass(),
		metrics.NewDivergenceMax(),
		metrics.NewStability(limit),
	}
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	s, err := cfg.NewSim()
	if err != nil {
		return err
	}

	runner := sim.NewRunner(s, sceneSource(cfg))
	for _, m := range defaultMetrics(speedLimit) {
		runner.AddMetric(m)
	}

	fmt.Printf("running %s scene on %dx%d grid...\n", cfg.Scene, cfg.Width, cfg.Height)
	start := time.Now()

	result, err := runner.Run(context.Background(), sim.Config{Dt: cfg.Dt, Duration: cfg.Duration})
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	runID, err := st.Save(cfg.Scene, cfg.Width, cfg.Height, cfg.Dt, cfg.Duration, cfg.Boundary, result, s.Dye())
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v (%d ticks)\n", elapsed, result.TicksTaken)
	fmt.Printf("run id: %s\n", runID)
	fmt.Println("\nmetrics:")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, m := range defaultMetrics(speedLimit) {
		name := m.Name()
		if val, ok := result.Metrics[name]; ok {
			fmt.Fprintf(w, "  %s\t%.6f\n", name, val)
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if energy := result.History["kinetic_energy"]; len(energy) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(energy,
			asciigraph.Height(8),
			asciigraph.Width(70),
			asciigraph.Caption("kinetic energy"),
		))
	}
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	s, err := cfg.NewSim()
	if err != nil {
		return err
	}

	var source sim.ImpulseSource
	if cfg.Scene == "windtunnel" {
		source = sceneSource(cfg)
	}

	model := viz.NewModel(s, source, cfg.Scene, cfg.Dt)
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENE\tTIME\tGRID\tDURATION\tDT\tBOUNDARY")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%dx%d\t%.2fs\t%.4fs\t%s\n",
			run.ID,
			run.Scene,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Width, run.Height,
			run.Duration,
			run.Dt,
			run.Boundary,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	history, times, err := st.LoadHistory(runID)
	if err != nil {
		return err
	}
	if len(times) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scene: %s (%dx%d)\n", meta.Scene, meta.Width, meta.Height)
	fmt.Printf("samples: %d\n\n", len(times))

	names := make([]string, 0, len(history))
	for name := range history {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		graph := asciigraph.Plot(history[name],
			asciigraph.Height(8),
			asciigraph.Width(70),
			asciigraph.Caption(name),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tGRID\tSCENE\tBOUNDARY\tGRAVITY")
	for _, name := range config.PresetNames() {
		p := config.Presets[name]
		fmt.Fprintf(w, "%s\t%dx%d\t%s\t%s\t%.2f\n",
			name, p.Width, p.Height, p.Scene, p.Boundary, p.Gravity)
	}
	return w.Flush()
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	base, err := cfg.Solver()
	if err != nil {
		return err
	}

	var variants []sim.Variant
	for _, tok := range strings.Split(viscosities, ",") {
		tok = strings.TrimSpace(tok)
		visc, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return fmt.Errorf("bad viscosity %q: %w", tok, err)
		}
		vc := base
		vc.Viscosity = visc
		variants = append(variants, sim.Variant{
			Name:   fmt.Sprintf("visc=%g", visc),
			Width:  cfg.Width,
			Height: cfg.Height,
			Config: vc,
		})
	}

	scene := cfg
	ens := sim.NewEnsemble(variants,
		func() sim.ImpulseSource { return sceneSource(scene) },
		func() []sim.Metric { return defaultMetrics(speedLimit) },
	)

	fmt.Printf("sweeping %d variants of %s...\n", len(variants), cfg.Scene)
	results, err := ens.Run(context.Background(), sim.Config{Dt: cfg.Dt, Duration: cfg.Duration})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "VARIANT\tENERGY\tDYE DRIFT\tMAX DIV\tSTABLE")
	for _, v := range variants {
		res := results[v.Name]
		fmt.Fprintf(w, "%s\t%.6f\t%.6f\t%.2e\t%.0f%%\n",
			v.Name,
			res.Metrics["kinetic_energy"],
			res.Metrics["dye_mass_drift"],
			res.Metrics["divergence_max"],
			res.Metrics["stability"]*100,
		)
	}
	return w.Flush()
}

func exportSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	data, width, height, err := st.LoadDye(runID)
	if err != nil {
		return err
	}

	out := svgOut
	if out == "" {
		out = runID + ".svg"
	}
	if err := export.WriteDyeSVG(out, data, width, height, svgScale); err != nil {
		return err
	}
	fmt.Printf("wrote %s (%dx%d cells)\n", out, width, height)
	return nil
}

func tuneScene(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	base, err := cfg.Solver()
	if err != nil {
		return err
	}

	gs := optim.NewGridSearch([]optim.Param{
		{Name: "viscosity", Values: []float64{0, 0.0001, 0.001, 0.01}},
		{Name: "confinement", Values: []float64{0, 1, 2, 4}},
	})

	eval := func(ctx context.Context, params map[string]float64) (map[string]float64, error) {
		vc := base
		vc.Viscosity = params["viscosity"]
		vc.Confinement = params["confinement"]

		s, err := fluid.New(cfg.Width, cfg.Height, vc)
		if err != nil {
			return nil, err
		}
		config.ApplyScene(s, cfg.Scene)

		runner := sim.NewRunner(s, sceneSource(cfg))
		for _, m := range defaultMetrics(speedLimit) {
			runner.AddMetric(m)
		}
		result, err := runner.Run(ctx, sim.Config{Dt: cfg.Dt, Duration: cfg.Duration})
		if err != nil {
			return nil, err
		}
		return result.Metrics, nil
	}

	fmt.Printf("searching %d combinations on %s...\n", gs.Combinations(), cfg.Scene)
	start := time.Now()
	bestParams, best, err := gs.Search(context.Background(), eval, tuneMetric)
	if err != nil {
		return err
	}

	fmt.Printf("done in %v\n", time.Since(start).Round(time.Millisecond))
	fmt.Printf("best %s: %.6e\n", tuneMetric, best)
	for name, val := range bestParams {
		fmt.Printf("  %s: %g\n", name, val)
	}
	return nil
}

func benchSolver(cmd *cobra.Command, args []string) error {
	sizes := []int{64, 128, 256}
	const ticks = 120

	fmt.Println("benchmarking solver throughput")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "GRID\tTICKS\tTIME\tTICKS/SEC")

	for _, size := range sizes {
		s, err := fluid.New(size, size, fluid.DefaultConfig())
		if err != nil {
			return err
		}
		imp := []fluid.Impulse{{
			X: float64(size) / 2, Y: float64(size) / 2,
			DU: 1, DV: 0.5, Dye: 1, Radius: float64(size) / 8,
		}}

		start := time.Now()
		for i := 0; i < ticks; i++ {
			if err := s.Tick(1.0/60.0, imp); err != nil {
				return err
			}
		}
		elapsed := time.Since(start)

		fmt.Fprintf(w, "%dx%d\t%d\t%v\t%.0f\n",
			size, size, ticks, elapsed.Round(time.Millisecond),
			float64(ticks)/elapsed.Seconds())
	}
	return w.Flush()
}
