package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/san-kum/bhsim/internal/analysis"
	"github.com/san-kum/bhsim/internal/config"
	"github.com/san-kum/bhsim/internal/dynamo"
	"github.com/san-kum/bhsim/internal/experiment"
	"github.com/san-kum/bhsim/internal/export"
	"github.com/san-kum/bhsim/internal/metrics"
	"github.com/san-kum/bhsim/internal/quadtree"
	"github.com/san-kum/bhsim/internal/sim"
	"github.com/san-kum/bhsim/internal/storage"
	"github.com/san-kum/bhsim/internal/viz"
)

// resolveConfig layers defaults, preset, config file and changed flags,
// in that order.
func resolveConfig(flags *pflag.FlagSet) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if flags.Changed("generator") {
		cfg.Generator = generator
	}
	if flags.Changed("particles") {
		cfg.Particles = particles
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("steps") {
		cfg.Steps = steps
	}
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("g") {
		cfg.G = gravity
	}
	if flags.Changed("theta") {
		cfg.Theta = theta
	}
	if flags.Changed("damping") {
		cfg.Damping = damping
	}
	if flags.Changed("width") {
		cfg.Bounds.W = width
	}
	if flags.Changed("height") {
		cfg.Bounds.H = height
	}
	if flags.Changed("max-depth") {
		cfg.MaxDepth = maxDepth
	}
	if flags.Changed("closed-boundary") {
		cfg.ClosedBoundary = closedBoundary
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("trace") {
		cfg.Trace = trace
	}
	if flags.Changed("no-validate") {
		cfg.ValidateState = !noValidate
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// progress prints a bar on one line as steps complete.
type progress struct {
	total int
	last  int
}

func (p *progress) OnStep(f *dynamo.Frame) {
	pct := f.Step * 100 / p.total
	if pct == p.last {
		return
	}
	p.last = pct
	fmt.Printf("\r  %s %3d%%", viz.ProgressBar(float64(f.Step)/float64(p.total), 30), pct)
	if f.Step == p.total {
		fmt.Println()
	}
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd.Flags())
	if err != nil {
		return err
	}

	registry := experiment.NewRegistry()
	exp := experiment.New(cfg)
	if err := exp.Setup(registry, registry.DefaultMetrics(cfg.Params())); err != nil {
		return err
	}

	s := exp.GetSimulator()
	rec := storage.NewRecorder(cfg.Params(), sampleEvery)
	s.AddObserver(rec)

	if watch {
		printer := viz.NewPrinter(os.Stdout, cfg.Generator, cfg.Bounds, watchRate)
		printer.Start()
		defer printer.Stop()
		s.AddObserver(printer)
	} else {
		s.AddObserver(&progress{total: cfg.Steps, last: -1})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("running %s: %d particles, %d steps, theta %.2f\n", cfg.Generator, cfg.Particles, cfg.Steps, cfg.Theta)
	start := time.Now()

	result, runErr := exp.Run(ctx)
	if result == nil {
		return runErr
	}
	elapsed := time.Since(start)

	fmt.Printf("\ncompleted %d steps in %v (%.1f steps/s)\n", result.Steps, elapsed.Round(time.Millisecond), float64(result.Steps)/elapsed.Seconds())
	printMetrics(result.Metrics)

	if !noSave {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		meta := storage.RunMetadata{
			Generator:  cfg.Generator,
			Integrator: experiment.DefaultIntegrator,
			Particles:  cfg.Particles,
			Seed:       cfg.Seed,
			Steps:      result.Steps,
			Dt:         cfg.Dt,
			G:          cfg.G,
			Theta:      cfg.Theta,
			Damping:    cfg.Damping,
			Bounds:     cfg.Bounds,
			Metrics:    result.Metrics,
		}
		runID, err := st.Save(meta, rec.Series())
		if err != nil {
			return fmt.Errorf("failed to save run: %w", err)
		}
		fmt.Printf("run id: %s\n", runID)
	}

	if runErr != nil {
		return fmt.Errorf("run stopped at step %d: %w", result.Steps, runErr)
	}
	return nil
}

func printMetrics(m map[string]float64) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println("\nmetrics:")
	for _, name := range names {
		fmt.Printf("  %-16s %.6g\n", name, m[name])
	}
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd.Flags())
	if err != nil {
		return err
	}

	registry := experiment.NewRegistry()
	factory := func() (*sim.Simulator, error) {
		exp := experiment.New(cfg)
		if err := exp.Setup(registry, nil); err != nil {
			return nil, err
		}
		return exp.GetSimulator(), nil
	}

	m, err := viz.NewModel(factory, viz.Options{
		Name:         cfg.Generator,
		Theme:        themeName,
		StepsPerTick: stepsPerTick,
		SpeedScale:   speedScale,
		FrameRate:    frameRate,
	})
	if err != nil {
		return err
	}
	return viz.Run(m)
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
	fmt.Fprintln(w, "ID\tGENERATOR\tTIME\tPARTICLES\tSTEPS\tDT\tTHETA")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%g\t%.2f\n",
			run.ID,
			run.Generator,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Particles,
			run.Steps,
			run.Dt,
			run.Theta,
		)
	}

	return w.Flush()
}

func loadSeries(runID string) (*storage.RunMetadata, []storage.Sample, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	series, err := st.LoadSeries(runID)
	if err != nil {
		return nil, nil, err
	}
	if len(series) == 0 {
		return nil, nil, fmt.Errorf("run %s has no diagnostics", runID)
	}
	return meta, series, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, series, err := loadSeries(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("generator: %s, %d particles\n", meta.Generator, meta.Particles)
	fmt.Printf("samples: %d\n\n", len(series))

	columns := []string{"kinetic", "potential", "total", "visits", "dropped"}
	if plotColumn != "" {
		columns = []string{plotColumn}
	}

	for _, name := range columns {
		data, ok := storage.Column(series, name)
		if !ok {
			return fmt.Errorf("unknown column: %s", name)
		}
		if plotColumn == "" && flat(data) {
			continue
		}

		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(name+" vs step"),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func flat(data []float64) bool {
	for _, v := range data {
		if v != data[0] {
			return false
		}
	}
	return true
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, series, err := loadSeries(args[0])
	if err != nil {
		return err
	}
	if len(series) < 4 {
		return fmt.Errorf("need at least 4 samples, have %d", len(series))
	}

	data, ok := storage.Column(series, analyzeColumn)
	if !ok {
		return fmt.Errorf("unknown column: %s", analyzeColumn)
	}
	sampleDt := series[1].Time - series[0].Time

	fmt.Printf("frequency analysis: %s\n", meta.ID)
	fmt.Printf("column: %s, sample interval %g\n\n", analyzeColumn, sampleDt)

	_, power := analysis.PowerSpectrum(data, sampleDt)
	plotData := power[1:]
	if len(plotData) > 160 {
		plotData = plotData[:len(plotData)/4]
	}

	graph := asciigraph.Plot(plotData,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("power spectrum (%s)", analyzeColumn)),
	)
	fmt.Println(graph)
	fmt.Println()

	freq := analysis.DominantFrequency(data, sampleDt)
	fmt.Printf("dominant frequency: %.4g\n", freq)
	if freq > 0 {
		fmt.Printf("period: %.4g (%.0f steps)\n", 1.0/freq, 1.0/freq/meta.Dt)
	}

	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	out := os.Stdout
	if outFile != "" {
		f, err := os.Create(outFile)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	return storage.New(dataDir).ExportJSON(out, args[0])
}

// initialParticles generates the configured starting particles without
// running anything.
func initialParticles(cfg *config.Config) ([]dynamo.Particle, error) {
	exp := experiment.New(cfg)
	if err := exp.Setup(experiment.NewRegistry(), nil); err != nil {
		return nil, err
	}
	return exp.Initial(), nil
}

func verifyForces(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd.Flags())
	if err != nil {
		return err
	}

	ps, err := initialParticles(cfg)
	if err != nil {
		return err
	}

	points, err := analysis.ThetaSweep(ps, quadtree.OptionsFrom(cfg.Params()), cfg.Bounds, thetas, sample)
	if err != nil {
		return err
	}

	fmt.Printf("accuracy vs direct summation: %s, %d particles, %d sampled\n\n", cfg.Generator, len(ps), min(sample, len(ps)))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "THETA\tVISITS/PARTICLE\tCOST\tMEAN ERR\tMAX ERR")
	for _, p := range points {
		cost := p.MeanVisits / float64(max(1, len(ps)-1))
		fmt.Fprintf(w, "%.2f\t%.1f\t%.3f\t%.2e\t%.2e\n", p.Theta, p.MeanVisits, cost, p.MeanError, p.MaxError)
	}
	return w.Flush()
}

func radialProfile(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd.Flags())
	if err != nil {
		return err
	}

	registry := experiment.NewRegistry()
	exp := experiment.New(cfg)
	if err := exp.Setup(registry, nil); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	result, err := exp.Run(ctx)
	if err != nil {
		return err
	}

	center := cfg.Bounds.Center()
	if root := exp.GetSimulator().Tree().Root(); root != nil && root.Mass > 0 {
		center = root.COM
	}
	rmax := math.Min(cfg.Bounds.W, cfg.Bounds.H) / 2
	profile := analysis.RadialProfile(result.Final, center, bins, rmax)

	fmt.Printf("radial profile after %d steps around (%.1f, %.1f)\n\n", result.Steps, center[0], center[1])
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "R\tCOUNT\tMASS\tV_T")
	rs := make([]float64, 0, len(profile))
	vs := make([]float64, 0, len(profile))
	for _, b := range profile {
		fmt.Fprintf(w, "%.1f\t%d\t%.3g\t%.4g\n", b.R, b.Count, b.Mass, b.Vt)
		if b.Count > 0 {
			rs = append(rs, b.R)
			vs = append(vs, b.Vt)
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Println("\nrotation curve (v_t vs r):")
	fmt.Print(analysis.ScatterToASCII(rs, vs, 60, 15))
	return nil
}

func benchTree(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd.Flags())
	if err != nil {
		return err
	}

	const benchSteps = 3
	counts := []int{cfg.Particles / 10, cfg.Particles / 2, cfg.Particles}
	benchThetas := []float64{0.3, 0.6, 1.0}

	fmt.Printf("benchmarking %s, %d workers\n\n", cfg.Generator, cfg.Workers)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PARTICLES\tTHETA\tNODES\tDEPTH\tVISITS/P\tTIME/STEP\tSTEPS/SEC")

	for _, n := range counts {
		if n < 2 {
			continue
		}
		for _, th := range benchThetas {
			run := *cfg
			run.Particles = n
			run.Theta = th
			run.Steps = benchSteps

			exp := experiment.New(&run)
			visits := metrics.NewNodeVisits()
			if err := exp.Setup(experiment.NewRegistry(), []dynamo.Metric{visits}); err != nil {
				return err
			}

			start := time.Now()
			result, err := exp.Run(context.Background())
			if err != nil {
				return err
			}
			perStep := time.Since(start) / time.Duration(result.Steps)

			stats := exp.GetSimulator().Tree().Stats()
			fmt.Fprintf(w, "%d\t%.1f\t%d\t%d\t%.1f\t%v\t%.1f\n",
				n, th, stats.Nodes, stats.Depth, visits.Value(), perStep.Round(time.Microsecond), 1/perStep.Seconds())
		}
	}

	return w.Flush()
}

// lastFrame keeps the most recent frame.
type lastFrame struct {
	frame *dynamo.Frame
}

func (l *lastFrame) OnStep(f *dynamo.Frame) { l.frame = f }

func snapshotFrame(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd.Flags())
	if err != nil {
		return err
	}

	exp := experiment.New(cfg)
	if err := exp.Setup(experiment.NewRegistry(), nil); err != nil {
		return err
	}
	s := exp.GetSimulator()
	if cfg.Trace < 0 {
		s.SetTrace(0)
	}
	last := &lastFrame{}
	s.AddObserver(last)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if _, err := exp.Run(ctx); err != nil && last.frame == nil {
		return err
	}

	f, err := os.Create(svgFile)
	if err != nil {
		return err
	}
	defer f.Close()

	opts := export.DefaultSVGOptions()
	opts.Theme = viz.GetTheme(svgTheme)
	opts.Scale = svgScale
	if err := export.WriteFrame(f, last.frame, cfg.Bounds, opts); err != nil {
		return err
	}

	fmt.Printf("wrote %s (step %d, %d traced nodes)\n", svgFile, last.frame.Step, len(last.frame.Trace))
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tGENERATOR\tPARTICLES\tSTEPS\tDT\tG\tTHETA")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%g\t%g\t%.2f\n", name, p.Generator, p.Particles, p.Steps, p.Dt, p.G, p.Theta)
	}
	return w.Flush()
}
