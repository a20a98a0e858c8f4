package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"sort"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/particlelife/internal/analysis"
	"github.com/san-kum/particlelife/internal/automation"
	"github.com/san-kum/particlelife/internal/config"
	"github.com/san-kum/particlelife/internal/life"
	"github.com/san-kum/particlelife/internal/metrics"
	"github.com/san-kum/particlelife/internal/sim"
	"github.com/san-kum/particlelife/internal/storage"
	"github.com/san-kum/particlelife/internal/viz"
)

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	logger := newLogger(cfg.LogLevel)

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	name := preset
	if name == "" {
		name = "run"
	}

	if seeds > 1 {
		return runEnsemble(ctx, cfg, st, name)
	}

	s, err := cfg.NewSimulation()
	if err != nil {
		return err
	}
	runner := sim.New(s, sim.WithLogger(logger))
	for _, m := range metrics.Default() {
		runner.AddMetric(m)
	}

	fmt.Printf("running %d particles, %d colors for %d ticks (seed %d)...\n", cfg.Count, cfg.M, cfg.Ticks, cfg.Seed)
	result, runErr := runner.Run(ctx, cfg.Ticks)
	if result == nil {
		return runErr
	}

	runID, err := st.Save(storage.NewMetadata(name, cfg, s.Rules().Rows()), result)
	if err != nil {
		return err
	}

	fmt.Printf("completed %d ticks in %v (%.0f ticks/s)\n", result.Ticks, result.Elapsed.Round(time.Millisecond), result.TicksPerSecond())
	fmt.Printf("run id: %s\n", runID)
	printMetrics(result.Metrics)

	return runErr
}

func runEnsemble(ctx context.Context, cfg *config.Config, st *storage.Store, name string) error {
	build := func(seed uint64) (*life.Simulation, error) {
		c := cfg.Clone()
		c.Seed = seed
		return c.NewSimulation()
	}
	seedList := sim.SeedRange(cfg.Seed, seeds)

	fmt.Printf("running ensemble of %d seeds from %d...\n", seeds, cfg.Seed)
	results, err := sim.NewEnsemble(build, seedList).
		WithMetrics(metrics.Default).
		WithLogger(newLogger(cfg.LogLevel)).
		Run(ctx, cfg.Ticks)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEED\tRUN\tKINETIC\tSPREAD\tSTABILITY")
	for i, result := range results {
		c := cfg.Clone()
		c.Seed = seedList[i]
		s, err := c.NewSimulation()
		if err != nil {
			return err
		}
		runID, err := st.Save(storage.NewMetadata(name, c, s.Rules().Rows()), result)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%d\t%s\t%.4g\t%.4g\t%.2f\n", c.Seed, runID,
			result.Metrics["kinetic_energy"], result.Metrics["spread"], result.Metrics["stability"])
	}
	return w.Flush()
}

func printMetrics(m map[string]float64) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println("\nmetrics:")
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, m[name])
	}
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	m, err := viz.NewModel(cfg, theme)
	if err != nil {
		return err
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
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
	fmt.Fprintln(w, "ID\tTIME\tPARTICLES\tCOLORS\tTICKS\tSEED\tKINETIC")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%d\t%.4g\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Count,
			run.M,
			run.Ticks,
			run.Seed,
			run.Metrics["kinetic_energy"],
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

	times, series, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}
	if len(times) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("samples: %d\n\n", len(times))

	names := make([]string, 0, len(series))
	for name := range series {
		if plotMetric == "" || name == plotMetric {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return fmt.Errorf("metric %q not recorded", plotMetric)
	}
	sort.Strings(names)

	for _, name := range names {
		graph := asciigraph.Plot(series[name],
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("%s vs tick", name)),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

// replay rebuilds a recorded run from its metadata and advances it to the
// recorded tick count.
func replay(runID string) (*storage.RunMetadata, *life.Simulation, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}

	s, err := meta.Config().NewSimulation()
	if err != nil {
		return nil, nil, err
	}
	for i := 0; i < meta.Ticks; i++ {
		s.Step()
	}
	return meta, s, nil
}

func output() (io.Writer, func() error, error) {
	if outFile == "" || outFile == "-" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(outFile)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	_, s, err := replay(args[0])
	if err != nil {
		return err
	}

	w, closeFn, err := output()
	if err != nil {
		return err
	}
	if err := storage.ExportSnapshotCSV(w, s.Snapshot()); err != nil {
		closeFn()
		return err
	}
	return closeFn()
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, s, err := replay(args[0])
	if err != nil {
		return err
	}
	times, series, err := storage.New(dataDir).LoadSeries(args[0])
	if err != nil {
		return err
	}

	w, closeFn, err := output()
	if err != nil {
		return err
	}
	if err := storage.ExportJSON(w, *meta, times, series, s.Snapshot()); err != nil {
		closeFn()
		return err
	}
	return closeFn()
}

func exportSVG(cmd *cobra.Command, args []string) error {
	meta, s, err := replay(args[0])
	if err != nil {
		return err
	}

	snap := s.Snapshot()
	view := viz.UnitViewport()
	if follow {
		view = viz.FitViewport(snap, 0.05)
	}

	w, closeFn, err := output()
	if err != nil {
		return err
	}
	if _, err := io.WriteString(w, viz.SnapshotToSVG(snap, meta.M, viz.GetTheme(theme), view, svgSize)); err != nil {
		closeFn()
		return err
	}
	return closeFn()
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	_, series, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}
	data, ok := series[metric]
	if !ok || len(data) < 2 {
		return fmt.Errorf("not enough %s samples in %s", metric, runID)
	}

	fmt.Printf("analysis: %s\n", meta.ID)
	fmt.Printf("metric: %s\n\n", metric)

	sum := analysis.Summarize(data)
	fmt.Printf("mean %.6g  std %.6g  min %.6g  max %.6g  final %.6g\n", sum.Mean, sum.Std, sum.Min, sum.Max, sum.Final)
	fmt.Printf("settles (5%%) at tick %d of %d\n\n", analysis.SettleTick(data, 0.05)+1, len(data))

	ps := analysis.PowerSpectrum(data)
	plotData := ps[:min(max(len(ps)/4, 2), len(ps))]
	graph := asciigraph.Plot(plotData,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("power spectrum (%s)", metric)),
	)
	fmt.Println(graph)
	fmt.Println()

	bin := analysis.DominantBin(ps)
	if bin > 0 {
		fmt.Printf("dominant bin: %d\n", bin)
		fmt.Printf("period: %.4f time units\n", analysis.BinPeriod(bin, len(data), meta.Dt))
	} else {
		fmt.Println("no periodic component")
	}

	if sepTicks > 0 {
		_, s, err := replay(runID)
		if err != nil {
			return err
		}
		lambda, err := analysis.SeparationExponent(s, sepTicks, 1e-6)
		if err != nil {
			return err
		}
		fmt.Printf("separation exponent over %d ticks: %.4f\n", sepTicks, lambda)
	}

	return nil
}

func showPresets(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		cfg := config.GetPreset(args[0])
		if cfg == nil {
			return fmt.Errorf("unknown preset: %s (available: %v)", args[0], config.ListPresets())
		}
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(data)
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tPARTICLES\tCOLORS\tR_MAX\tLAYOUT\tRULES")
	for _, name := range config.ListPresets() {
		cfg := config.Presets[name]
		rules := "random"
		if cfg.Rules != nil {
			rules = "fixed"
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%.3f\t%s\t%s\n", name, cfg.Count, cfg.M, cfg.RMax, cfg.Layout, rules)
	}
	return w.Flush()
}

func runSweep(cmd *cobra.Command, args []string) error {
	sweep, err := automation.LoadSweep(args[0])
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, err := automation.RunSweep(ctx, sweep, newLogger("info"))
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "POINT\tKINETIC\tSPREAD\tSPEED\tSTABILITY\tDIVERGED")
	for _, r := range results {
		fmt.Fprintf(w, "%v\t%.4g\t%.4g\t%.4g\t%.2f\t%d\n", r.Params,
			r.Metrics["kinetic_energy"], r.Metrics["spread"], r.Metrics["mean_speed"], r.Metrics["stability"], r.Diverged)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if bestOf != "" {
		best, ok := automation.Best(results, bestOf, maximize)
		if !ok {
			return fmt.Errorf("no point recorded %s", bestOf)
		}
		fmt.Printf("\nbest %s: %v (%.6g)\n", bestOf, best.Params, best.Metrics[bestOf])
	}
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("scenario: %s\n", scenario.Name)
	results, err := automation.RunScenario(ctx, scenario, st, newLogger("info"))
	for i, r := range results {
		fmt.Printf("step %d: %d ticks, kinetic %.4g, spread %.4g\n", i+1, r.Ticks, r.Metrics["kinetic_energy"], r.Metrics["spread"])
	}
	return err
}

func benchmark(cmd *cobra.Command, args []string) error {
	counts := []int{250, 500, 1000, 2000}
	workerCounts := []int{1, runtime.NumCPU()}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PARTICLES\tWORKERS\tTICKS\tELAPSED\tTICKS/S")

	for _, n := range counts {
		for _, k := range workerCounts {
			cfg := config.DefaultConfig()
			cfg.Count = n
			cfg.Workers = k

			s, err := cfg.NewSimulation()
			if err != nil {
				return err
			}
			result, err := sim.New(s, sim.WithValidation(false)).Run(context.Background(), benchTick)
			if err != nil {
				return err
			}

			fmt.Fprintf(w, "%d\t%d\t%d\t%v\t%.1f\n",
				n, k, result.Ticks, result.Elapsed.Round(time.Millisecond), result.TicksPerSecond())
		}
	}

	return w.Flush()
}
