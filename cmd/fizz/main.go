package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/fizz/internal/analysis"
	"github.com/san-kum/fizz/internal/automation"
	"github.com/san-kum/fizz/internal/base"
	"github.com/san-kum/fizz/internal/config"
	"github.com/san-kum/fizz/internal/export"
	"github.com/san-kum/fizz/internal/field"
	"github.com/san-kum/fizz/internal/logging"
	"github.com/san-kum/fizz/internal/metrics"
	"github.com/san-kum/fizz/internal/newton"
	"github.com/san-kum/fizz/internal/optim"
	"github.com/san-kum/fizz/internal/sim"
	"github.com/san-kum/fizz/internal/sph"
	"github.com/san-kum/fizz/internal/storage"
	"github.com/san-kum/fizz/internal/viz"
)

var (
	dataDir  string
	logLevel string
	logger   *log.Logger

	configFile  string
	preset      string
	steps       int
	sampleEvery int
	workers     int
	seed        int64
	ensemble    int
	validate    bool
	compress    bool

	column    string
	svgOut    string
	xColumn   string
	yColumn   string
	sweepArg  string
	sweepFrom float64
	sweepTo   float64
	sweepN    int

	searchParams []string
	mcParams     []string
	perturb      float64
	trials       int
	speedLimit   float64

	snapshotOut string
	snapWidth   int
	gridLines   bool
	withField   bool
	braille     bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "fizz",
		Short: "sph fluid simulation lab",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			l, err := logging.New(os.Stderr, logLevel)
			if err != nil {
				return err
			}
			logger = l
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLive(cmd, nil)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".fizz", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", logging.DefaultLevel, "log level (debug, info, warn, error)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a simulation and store the result",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addScenarioFlags(runCmd)
	runCmd.Flags().IntVar(&ensemble, "ensemble", 0, "run n members with consecutive seeds instead of one stored run")
	runCmd.Flags().BoolVar(&validate, "validate", true, "stop at the first non-finite particle")
	runCmd.Flags().BoolVar(&compress, "compress", false, "store the particle snapshot zstd-compressed")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run diagnostics",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&column, "column", "", "diagnostics column (default: all)")
	plotCmd.Flags().StringVar(&svgOut, "svg", "", "also write the column against time as svg")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis and portraits of run diagnostics",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringVar(&column, "column", "kinetic_energy", "column for the power spectrum")
	analyzeCmd.Flags().StringVar(&xColumn, "x", "mean_density", "portrait x column")
	analyzeCmd.Flags().StringVar(&yColumn, "y", "kinetic_energy", "portrait y column")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "rerun a scenario over a range of one parameter",
		Args:  cobra.NoArgs,
		RunE:  sweepParam,
	}
	addScenarioFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepArg, "param", "k", "parameter to sweep")
	sweepCmd.Flags().Float64Var(&sweepFrom, "from", 1, "first value")
	sweepCmd.Flags().Float64Var(&sweepTo, "to", 8, "last value")
	sweepCmd.Flags().IntVar(&sweepN, "n", 5, "number of values")
	sweepCmd.Flags().StringVar(&column, "column", "max_speed", "diagnostics column to report")

	searchCmd := &cobra.Command{
		Use:   "search",
		Short: "grid search parameters for the smallest final diagnostic",
		Args:  cobra.NoArgs,
		RunE:  runSearch,
	}
	addScenarioFlags(searchCmd)
	searchCmd.Flags().StringArrayVar(&searchParams, "param", nil, "name=v1,v2,... (repeatable)")
	searchCmd.Flags().StringVar(&column, "column", "max_speed", "diagnostics column to minimise")

	scriptCmd := &cobra.Command{
		Use:   "script [file]",
		Short: "run and store every step of a yaml script",
		Args:  cobra.ExactArgs(1),
		RunE:  runScript,
	}

	stabilityCmd := &cobra.Command{
		Use:   "stability",
		Short: "monte carlo stability of randomly perturbed parameters",
		Args:  cobra.NoArgs,
		RunE:  runStability,
	}
	addScenarioFlags(stabilityCmd)
	stabilityCmd.Flags().StringSliceVar(&mcParams, "params", []string{"k", "mu", "delta_time"}, "parameters to perturb")
	stabilityCmd.Flags().Float64Var(&perturb, "perturb", 0.2, "relative perturbation")
	stabilityCmd.Flags().IntVar(&trials, "trials", 10, "number of trials")
	stabilityCmd.Flags().Float64Var(&speedLimit, "speed-limit", 0, "max final speed of a stable trial (0: finite only)")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run diagnostics to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	snapshotCmd := &cobra.Command{
		Use:   "snapshot [run_id]",
		Short: "render the final particle state as svg",
		Args:  cobra.ExactArgs(1),
		RunE:  snapshotRun,
	}
	snapshotCmd.Flags().StringVarP(&snapshotOut, "out", "o", "", "output file (default stdout)")
	snapshotCmd.Flags().IntVar(&snapWidth, "width", 600, "image width in pixels")
	snapshotCmd.Flags().BoolVar(&gridLines, "grid", true, "draw grid lines")
	snapshotCmd.Flags().BoolVar(&withField, "field", false, "draw the sampled face velocity field")
	snapshotCmd.Flags().BoolVar(&braille, "braille", false, "render through the terminal canvas instead")

	gridCmd := &cobra.Command{
		Use:   "grid [run_id]",
		Short: "describe the neighbor grid of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  describeGrid,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [kind]",
		Short: "list available presets",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	liveCmd := &cobra.Command{
		Use:   "live [kind/preset]",
		Short: "run a simulation in the terminal viewer",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	liveCmd.Flags().IntVar(&workers, "workers", 0, "worker goroutines per stage")

	newtonCmd := &cobra.Command{
		Use:   "newton-demo",
		Short: "solve a small nonlinear system with newton's method",
		Args:  cobra.NoArgs,
		RunE:  newtonDemo,
	}

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, analyzeCmd, sweepCmd, searchCmd, scriptCmd, stabilityCmd, exportJSONCmd, exportCSVCmd,
		snapshotCmd, gridCmd, presetsCmd, liveCmd, newtonCmd)

	if err := rootCmd.Execute(); err != nil {
		if logger == nil {
			logger = log.New(os.Stderr)
		}
		logger.Error(err)
		os.Exit(1)
	}
}

func addScenarioFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml or ini)")
	cmd.Flags().StringVar(&preset, "preset", "", "preset as kind/name")
	cmd.Flags().IntVar(&steps, "steps", 0, "number of steps (default from config)")
	cmd.Flags().IntVar(&sampleEvery, "sample-every", 0, "diagnostics interval in steps")
	cmd.Flags().IntVar(&workers, "workers", 0, "worker goroutines per stage")
	cmd.Flags().Int64Var(&seed, "seed", 0, "scenario jitter seed")
}

// loadConfig resolves the run configuration: the default, then a preset,
// then a config file, then any flags that were set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		p, err := lookupPreset(preset)
		if err != nil {
			return nil, err
		}
		cfg = p
	}
	if configFile != "" {
		c, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = c
	}

	flags := cmd.Flags()
	if flags.Changed("steps") {
		cfg.Steps = steps
	}
	if flags.Changed("sample-every") {
		cfg.SampleEvery = sampleEvery
	}
	if flags.Changed("workers") {
		cfg.Params.Workers = workers
	}
	if flags.Changed("seed") {
		cfg.Scenario.Seed = seed
	}
	return cfg, nil
}

func lookupPreset(name string) (*config.Config, error) {
	kind, p, ok := strings.Cut(name, "/")
	if !ok {
		return nil, fmt.Errorf("preset must be kind/name, got %q", name)
	}
	cfg := config.GetPreset(kind, p)
	if cfg == nil {
		return nil, fmt.Errorf("unknown preset: %s (available: %v)", name, config.ListPresets(kind))
	}
	return cfg, nil
}

// signalContext is cancelled on interrupt so long runs stop between steps.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if ensemble > 0 {
		return runEnsemble(cfg)
	}

	st := storage.New(dataDir)
	st.Compress = compress
	if err := st.Init(); err != nil {
		return err
	}

	s, err := cfg.NewSimulation(sph.WithLogger(logger))
	if err != nil {
		return err
	}

	runner := sim.New(logger)
	for _, m := range metrics.Standard() {
		runner.AddMetric(m)
	}

	ctx, cancel := signalContext()
	defer cancel()

	logger.Info("running", "name", cfg.Name, "particles", s.Particles.Len(), "steps", cfg.Steps, "grid", s.Grid().Cells)
	start := time.Now()
	result, err := runner.Run(ctx, s, sim.Config{Steps: cfg.Steps, SampleEvery: cfg.SampleEvery, ValidateState: validate})
	if err != nil && result == nil {
		return err
	}
	if err != nil {
		logger.Warn("run interrupted, saving partial result", "err", err)
	}
	for _, e := range result.Errors {
		logger.Warn("run stopped early", "err", e)
	}
	elapsed := time.Since(start)

	runID, err := st.Save(cfg, s, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	fmt.Println("\nmetrics:")
	for _, m := range metrics.Standard() {
		fmt.Printf("  %s: %.6g\n", m.Name(), result.Metrics[m.Name()])
	}
	return nil
}

func runEnsemble(cfg *config.Config) error {
	build := func(seed int64) (*sph.Simulation, error) {
		c := *cfg
		c.Scenario.Seed = seed
		if c.Scenario.Jitter == 0 {
			c.Scenario.Jitter = 0.1
		}
		return c.NewSimulation()
	}

	ctx, cancel := signalContext()
	defer cancel()

	start := time.Now()
	results, err := sim.NewEnsemble(build, ensemble, cfg.Scenario.Seed).Run(ctx, sim.Config{
		Steps: cfg.Steps, SampleEvery: cfg.SampleEvery, ValidateState: validate,
	})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEED\tSTEPS\tKINETIC\tMEAN RHO\tMAX SPEED")
	energy := make([]float64, len(results))
	for i, r := range results {
		final := r.Final()
		energy[i] = final.KineticEnergy
		fmt.Fprintf(w, "%d\t%d\t%.4g\t%.4g\t%.4g\n", cfg.Scenario.Seed+int64(i), r.StepsTaken,
			final.KineticEnergy, final.MeanDensity, final.MaxSpeed)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	mean, std := stat.MeanStdDev(energy, nil)
	fmt.Printf("\nfinal kinetic energy: %.4g ± %.4g over %d members (%v)\n", mean, std, len(results), time.Since(start))
	return nil
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
	fmt.Fprintln(w, "ID\tNAME\tTIME\tDIM\tSTEPS\tSIM TIME\tDT\tH")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d/%d\t%.3fs\t%.4g\t%.4g\n",
			run.ID,
			run.Name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Dim,
			run.StepsTaken, run.Steps,
			run.SimTime,
			run.Params.DeltaTime,
			run.Params.H,
		)
	}
	return w.Flush()
}

func loadRows(runID string) (*storage.RunMetadata, []metrics.Row, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	rows, err := st.LoadDiagnostics(runID)
	if err != nil {
		return nil, nil, err
	}
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("no data to plot")
	}
	return meta, rows, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, rows, err := loadRows(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("samples: %d\n\n", len(rows))

	columns := metrics.Columns[2:]
	if column != "" {
		columns = []string{column}
	}
	for _, name := range columns {
		data, ok := metrics.Column(rows, name)
		if !ok {
			return fmt.Errorf("unknown column %q (available: %v)", name, metrics.Columns)
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(strings.ReplaceAll(name, "_", " ")),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	if svgOut != "" {
		name := column
		if name == "" {
			name = "kinetic_energy"
		}
		times, _ := metrics.Column(rows, "time")
		data, ok := metrics.Column(rows, name)
		if !ok {
			return fmt.Errorf("unknown column %q", name)
		}
		if err := os.WriteFile(svgOut, []byte(export.SeriesToSVG(times, data, 800, 300, "#2a7ab0")), 0644); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", svgOut)
	}
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, rows, err := loadRows(args[0])
	if err != nil {
		return err
	}
	data, ok := metrics.Column(rows, column)
	if !ok {
		return fmt.Errorf("unknown column %q (available: %v)", column, metrics.Columns)
	}

	fmt.Printf("frequency analysis: %s\n", meta.ID)
	fmt.Printf("column: %s\n\n", column)

	ps := analysis.PowerSpectrum(data)
	if len(ps) > 1 {
		graph := asciigraph.Plot(ps[1:],
			asciigraph.Height(15),
			asciigraph.Width(80),
			asciigraph.Caption("power spectrum ("+column+")"),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	// rows are sampled every SampleEvery steps
	dt := meta.Params.DeltaTime * float64(max(1, meta.SampleEvery))
	freq := analysis.DominantFrequency(data, dt)
	fmt.Printf("dominant frequency: %.3f hz\n", freq)
	if freq > 0 {
		fmt.Printf("period: %.3f s\n", 1.0/freq)
	}

	xs, okX := metrics.Column(rows, xColumn)
	ys, okY := metrics.Column(rows, yColumn)
	if okX && okY {
		fmt.Printf("\n%s vs %s\n", yColumn, xColumn)
		fmt.Println(analysis.NewPortrait(xColumn, xs, yColumn, ys).ASCII(60, 20))
	}
	return nil
}

func sweepParam(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	points, err := analysis.Sweep(ctx, cfg, sweepArg, sweepFrom, sweepTo, sweepN, column)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\n", strings.ToUpper(sweepArg), strings.ToUpper(column))
	values := make([]float64, len(points))
	for i, p := range points {
		values[i] = p.Value
		fmt.Fprintf(w, "%.4g\t%.6g\n", p.Param, p.Value)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if len(values) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(values, asciigraph.Height(8), asciigraph.Caption(column+" vs "+sweepArg)))
	}
	return nil
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if len(searchParams) == 0 {
		return fmt.Errorf("at least one --param name=v1,v2 is required")
	}

	names := make([]string, 0, len(searchParams))
	ranges := make([][]float64, 0, len(searchParams))
	for _, arg := range searchParams {
		name, list, ok := strings.Cut(arg, "=")
		if !ok {
			return fmt.Errorf("bad --param %q, want name=v1,v2", arg)
		}
		var values []float64
		for _, f := range strings.Split(list, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
			if err != nil {
				return fmt.Errorf("bad value in --param %q: %w", arg, err)
			}
			values = append(values, v)
		}
		names = append(names, name)
		ranges = append(ranges, values)
	}

	g, err := optim.NewGridSearch(names, ranges, logger)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	best, value, tried, err := g.Search(ctx, cfg, column)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\n", strings.ToUpper(strings.Join(names, "\t")), strings.ToUpper(column))
	for _, t := range tried {
		vals := make([]string, len(names))
		for i, n := range names {
			vals[i] = strconv.FormatFloat(t.Params[n], 'g', 4, 64)
		}
		result := fmt.Sprintf("%.6g", t.Value)
		if t.Err != nil {
			result = "failed: " + t.Err.Error()
		}
		fmt.Fprintf(w, "%s\t%s\n", strings.Join(vals, "\t"), result)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\nbest: %v (%s = %.6g)\n", best, column, value)
	return nil
}

func runScript(cmd *cobra.Command, args []string) error {
	script, err := automation.LoadScript(args[0])
	if err != nil {
		return err
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	results, err := automation.RunScript(ctx, script, st, logger)
	for _, r := range results {
		fmt.Printf("%s\t%s\tkinetic energy %.4g\n", r.Name, r.RunID, r.Final.KineticEnergy)
	}
	return err
}

func runStability(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	results, err := automation.RunMonteCarlo(ctx, &automation.MonteCarloConfig{
		Base:         cfg,
		Params:       mcParams,
		Perturbation: perturb,
		NumTrials:    trials,
		Seed:         seed,
		SpeedLimit:   speedLimit,
	})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TRIAL\tSTABLE\tMAX SPEED\tPARAMS")
	for _, r := range results {
		fmt.Fprintf(w, "%d\t%v\t%.4g\t%v\n", r.TrialID, r.Stable, r.Final.MaxSpeed, r.Params)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	stable, unstable := automation.MonteCarloStats(results)
	fmt.Printf("\nstable: %d, unstable: %d\n", stable, unstable)
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, rows, err := loadRows(args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSON(os.Stdout, meta, rows)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	_, rows, err := loadRows(args[0])
	if err != nil {
		return err
	}
	return storage.ExportCSV(os.Stdout, rows)
}

func snapshotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	parts, err := st.LoadParticles(args[0])
	if err != nil {
		return err
	}
	grid, err := st.LoadGrid(args[0])
	if err != nil {
		return err
	}

	var svg string
	if braille {
		canvas := viz.NewCanvas(max(1, snapWidth/8), max(1, snapWidth/16))
		sw, sh := canvas.SubSize()
		cam := viz.NewCamera(grid.Domain, sw, sh)
		for _, x := range parts.Position {
			canvas.Set(cam.WorldToScreen(x))
		}
		if snapshotOut == "" {
			fmt.Print(canvas.String())
			return nil
		}
		svg = export.CanvasToSVG(canvas, 4)
		return writeSnapshot(svg, parts.Len())
	}

	opts := export.SnapshotOptions{Width: snapWidth, GridLines: gridLines}
	if withField {
		sampler, err := field.NewSampler(grid, meta.Params.H)
		if err != nil {
			return err
		}
		sampler.Sample(parts)
		opts.Velocity = &sampler.Velocity
		if div, err := field.Divergence(sampler.Velocity, grid); err == nil {
			logger.Info("sampled velocity field", "max_divergence", field.MaxAbs(div))
		}
	}

	svg = export.SnapshotSVG(grid, parts, opts)
	if snapshotOut == "" {
		_, err := fmt.Print(svg)
		return err
	}
	return writeSnapshot(svg, parts.Len())
}

func writeSnapshot(svg string, particles int) error {
	if err := os.WriteFile(snapshotOut, []byte(svg), 0644); err != nil {
		return err
	}
	logger.Info("wrote snapshot", "path", snapshotOut, "particles", particles)
	return nil
}

func describeGrid(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	grid, err := st.LoadGrid(args[0])
	if err != nil {
		return err
	}
	parts, err := st.LoadParticles(args[0])
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(grid)
	if err != nil {
		return err
	}
	fmt.Print(string(data))

	occupancy, err := base.Zeros[int](base.NewRange(base.IVec{}, grid.Cells))
	if err != nil {
		return err
	}
	for _, x := range parts.Position {
		idx := grid.CellIndex(x)
		if v, ok := occupancy.Get(idx); ok {
			occupancy.Set(idx, v+1)
		}
	}
	var used, most int
	occupancy.Apply(func(n *int) {
		if *n > 0 {
			used++
		}
		most = max(most, *n)
	})

	faces := 0
	for range grid.Faces().All() {
		faces++
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "dx\t%v\n", grid.Dx)
	fmt.Fprintf(w, "cells\t%d\n", occupancy.Len())
	fmt.Fprintf(w, "faces\t%d\n", faces)
	fmt.Fprintf(w, "occupied cells\t%d\n", used)
	fmt.Fprintf(w, "most particles in a cell\t%d\n", most)
	return w.Flush()
}

func listPresets(cmd *cobra.Command, args []string) error {
	kinds := config.Kinds()
	if len(args) > 0 {
		kinds = args
	}
	for _, kind := range kinds {
		presets := config.ListPresets(kind)
		if len(presets) == 0 {
			fmt.Printf("no presets for kind: %s\n", kind)
			continue
		}
		fmt.Printf("presets for %s:\n", kind)
		for _, p := range presets {
			fmt.Printf("  %s/%s\n", kind, p)
		}
	}
	return nil
}

// runLive opens the viewer. Logging stays off while the alternate screen
// is up.
func runLive(cmd *cobra.Command, args []string) error {
	var m tea.Model
	if len(args) == 0 {
		m = viz.NewMenu()
	} else {
		cfg, err := lookupPreset(args[0])
		if err != nil {
			return err
		}
		if workers > 0 {
			cfg.Params.Workers = workers
		}
		s, err := cfg.NewSimulation()
		if err != nil {
			return err
		}
		m = viz.NewModel(s, args[0])
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func newtonDemo(cmd *cobra.Command, args []string) error {
	f := func(v *mat.VecDense) *mat.VecDense {
		x, y, z := v.AtVec(0), v.AtVec(1), v.AtVec(2)
		return mat.NewVecDense(3, []float64{
			2*x*x + y*y - z - 12,
			y*y + z - 10,
			x*x - 2*z*z + 3*y*y - 5,
		})
	}
	jac := func(v *mat.VecDense) *mat.Dense {
		x, y, z := v.AtVec(0), v.AtVec(1), v.AtVec(2)
		return mat.NewDense(3, 3, []float64{
			4 * x, 2 * y, -1,
			0, 2 * y, 1,
			2 * x, 6 * y, -4 * z,
		})
	}

	fmt.Println("2x² + y² - z = 12")
	fmt.Println("y² + z = 10")
	fmt.Println("x² - 2z² + 3y² = 5")
	fmt.Println()

	x, err := newton.Method(f, jac, mat.NewVecDense(3, []float64{1, 1, 1}))
	if err != nil {
		return err
	}
	r := f(x)

	out := struct {
		Solution []float64 `json:"solution"`
		Residual float64   `json:"residual"`
	}{x.RawVector().Data, mat.Norm(r, 2)}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
