package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/san-kum/particlelife/internal/config"
	"github.com/san-kum/particlelife/internal/logging"
)

var (
	dataDir    string
	configFile string
	preset     string
	logLevel   string

	count            int
	dt               float64
	frictionHalfLife float64
	rMax             float64
	colors           int
	forceFactor      float64
	beta             float64
	workers          int
	seed             uint64
	ticks            int
	layout           string

	seeds   int
	theme   string
	outFile string
	svgSize int
	follow  bool

	metric     string
	plotMetric string
	sepTicks   int
	bestOf     string
	maximize   bool
	benchTick  int
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "particlelife",
		Short:        "particle life simulator",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".particlelife", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a simulation and record its metrics",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addSimFlags(runCmd)
	runCmd.Flags().IntVar(&seeds, "seeds", 1, "number of consecutive seeds to run as an ensemble")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run simulation with live visualization",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addSimFlags(liveCmd)
	liveCmd.Flags().StringVar(&theme, "theme", "neon", "color theme")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot recorded metric series",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&plotMetric, "metric", "", "plot only this metric")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "replay a run and export its final particles as csv",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "replay a run and export metadata, series and final particles as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "replay a run and render its final particles as svg",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	for _, c := range []*cobra.Command{exportCSVCmd, exportJSONCmd, exportSVGCmd} {
		c.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")
	}
	exportSVGCmd.Flags().IntVar(&svgSize, "size", 800, "image size in pixels")
	exportSVGCmd.Flags().StringVar(&theme, "theme", "neon", "color theme")
	exportSVGCmd.Flags().BoolVar(&follow, "follow", false, "fit the view to the population instead of the unit square")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "spectrum and settling analysis of a recorded metric",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringVar(&metric, "metric", "kinetic_energy", "metric to analyze")
	analyzeCmd.Flags().IntVar(&sepTicks, "separation", 0, "also estimate the separation exponent over this many ticks")

	presetsCmd := &cobra.Command{
		Use:   "presets [name]",
		Short: "list presets or print one as yaml",
		Args:  cobra.MaximumNArgs(1),
		RunE:  showPresets,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [file]",
		Short: "run a parameter sweep described in yaml",
		Args:  cobra.ExactArgs(1),
		RunE:  runSweep,
	}
	sweepCmd.Flags().StringVar(&bestOf, "best", "", "report the point optimizing this metric")
	sweepCmd.Flags().BoolVar(&maximize, "max", false, "maximize instead of minimize --best")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a scripted sequence of simulations",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "measure ticks per second across population sizes and worker counts",
		Args:  cobra.NoArgs,
		RunE:  benchmark,
	}
	benchCmd.Flags().IntVar(&benchTick, "ticks", 50, "ticks per measurement")

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, plotCmd, exportCSVCmd, exportJSONCmd, exportSVGCmd,
		analyzeCmd, presetsCmd, sweepCmd, scenarioCmd, benchCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addSimFlags(cmd *cobra.Command) {
	d := config.DefaultConfig()
	f := cmd.Flags()
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.StringVar(&preset, "preset", "", "use preset configuration")
	f.IntVarP(&count, "count", "n", d.Count, "number of particles")
	f.Float64Var(&dt, "dt", d.Dt, "timestep")
	f.Float64Var(&frictionHalfLife, "friction-half-life", d.FrictionHalfLife, "time for speed to halve under drag")
	f.Float64Var(&rMax, "r-max", d.RMax, "interaction radius")
	f.IntVarP(&colors, "colors", "m", d.M, "number of color classes")
	f.Float64Var(&forceFactor, "force-factor", d.ForceFactor, "force scale")
	f.Float64Var(&beta, "beta", d.Beta, "near-field repulsion boundary")
	f.IntVar(&workers, "workers", d.Workers, "goroutines for force accumulation")
	f.Uint64Var(&seed, "seed", d.Seed, "random seed")
	f.IntVar(&ticks, "ticks", d.Ticks, "ticks to run")
	f.StringVar(&layout, "layout", d.Layout, "initial layout: uniform or noise")
}

// resolveConfig layers defaults, preset, config file and explicitly set
// flags, in that order.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		if cfg = config.GetPreset(preset); cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("count") {
		cfg.Count = count
	}
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("friction-half-life") {
		cfg.FrictionHalfLife = frictionHalfLife
	}
	if flags.Changed("r-max") {
		cfg.RMax = rMax
	}
	if flags.Changed("colors") {
		cfg.M = colors
	}
	if flags.Changed("force-factor") {
		cfg.ForceFactor = forceFactor
	}
	if flags.Changed("beta") {
		cfg.Beta = beta
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("ticks") {
		cfg.Ticks = ticks
	}
	if flags.Changed("layout") {
		cfg.Layout = layout
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	return cfg, cfg.Validate()
}

func newLogger(level string) logging.Logger {
	if logLevel != "" {
		level = logLevel
	}
	if level == "" {
		level = "info"
	}
	return logging.New(level, os.Stderr)
}
