package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/san-kum/bhsim/internal/config"
	"github.com/san-kum/bhsim/internal/experiment"
)

var (
	dataDir string
	// Simulation config
	configFile     string
	preset         string
	generator      string
	particles      int
	seed           int64
	steps          int
	dt             float64
	gravity        float64
	theta          float64
	damping        float64
	width          float64
	height         float64
	maxDepth       int
	closedBoundary bool
	workers        int
	trace          int
	noValidate     bool
	// Run output
	sampleEvery int
	watch       bool
	watchRate   int
	noSave      bool
	// Live view
	frameRate    int
	stepsPerTick int
	speedScale   float64
	themeName    string
	// Analysis
	plotColumn    string
	analyzeColumn string
	sample        int
	thetas        []float64
	bins          int
	outFile       string
	// Snapshot
	svgFile  string
	svgScale float64
	svgTheme string
)

// main registers commands and flags and executes the root command.
// It exits the process with status 1 if command execution returns an error.
func main() {
	rootCmd := &cobra.Command{
		Use:   "bhsim",
		Short: "barnes-hut gravity lab",
		Long: "bhsim simulates many-body gravity in 2D with a Barnes-Hut quadtree,\n" +
			"records run diagnostics and shows the tree traversal live in the terminal.",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".bhsim", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a headless simulation and save its diagnostics",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addConfigFlags(runCmd)
	runCmd.Flags().IntVar(&sampleEvery, "every", 10, "record diagnostics every n steps")
	runCmd.Flags().BoolVar(&watch, "watch", false, "redraw particles in the terminal while running")
	runCmd.Flags().IntVar(&watchRate, "fps", 10, "redraw rate for --watch")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not write the run to the data directory")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run simulation with live visualization",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addConfigFlags(liveCmd)
	liveCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate")
	liveCmd.Flags().IntVar(&stepsPerTick, "steps-per-frame", 1, "simulation steps per frame")
	liveCmd.Flags().Float64Var(&speedScale, "speed-scale", 50000, "speed drawn in the brightest color")
	liveCmd.Flags().StringVar(&themeName, "theme", "classic", "color theme")

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
	plotCmd.Flags().StringVar(&plotColumn, "column", "", "plot a single column (time, kinetic, potential, total, px, py, visits, nodes, depth, dropped)")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis of a diagnostics column",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringVar(&analyzeColumn, "column", "kinetic", "diagnostics column")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata and diagnostics as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	verifyCmd := &cobra.Command{
		Use:   "verify",
		Short: "compare tree forces with direct summation over a theta sweep",
		Args:  cobra.NoArgs,
		RunE:  verifyForces,
	}
	addConfigFlags(verifyCmd)
	verifyCmd.Flags().IntVar(&sample, "sample", 500, "particles compared against direct summation")
	verifyCmd.Flags().Float64SliceVar(&thetas, "thetas", []float64{0, 0.25, 0.5, 0.75, 1, 1.5, 2}, "opening thresholds")

	profileCmd := &cobra.Command{
		Use:   "profile",
		Short: "run a simulation and print its radial mass and rotation profile",
		Args:  cobra.NoArgs,
		RunE:  radialProfile,
	}
	addConfigFlags(profileCmd)
	profileCmd.Flags().IntVar(&bins, "bins", 20, "radial bins")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "time tree build and force evaluation",
		Args:  cobra.NoArgs,
		RunE:  benchTree,
	}
	addConfigFlags(benchCmd)

	snapshotCmd := &cobra.Command{
		Use:   "snapshot",
		Short: "run a simulation and write the last frame as svg",
		Args:  cobra.NoArgs,
		RunE:  snapshotFrame,
	}
	addConfigFlags(snapshotCmd)
	snapshotCmd.Flags().StringVarP(&svgFile, "out", "o", "frame.svg", "output file")
	snapshotCmd.Flags().Float64Var(&svgScale, "scale", 1, "svg pixels per world unit")
	snapshotCmd.Flags().StringVar(&svgTheme, "theme", "classic", "color theme")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	generatorsCmd := &cobra.Command{
		Use:   "generators",
		Short: "list initial condition generators",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range experiment.NewRegistry().ListGenerators() {
				fmt.Printf("  %s\n", name)
			}
		},
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "manage config files",
	}
	configInitCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write a config file with default values",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.DefaultConfig()
			if preset != "" {
				if cfg = config.GetPreset(preset); cfg == nil {
					return fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
				}
			}
			if err := config.Save(args[0], cfg); err != nil {
				return fmt.Errorf("failed to write config: %w", err)
			}
			fmt.Printf("wrote %s\n", args[0])
			return nil
		},
	}
	configInitCmd.Flags().StringVar(&preset, "preset", "", "start from a preset")
	configCmd.AddCommand(configInitCmd)

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, plotCmd, analyzeCmd, exportCmd, verifyCmd, profileCmd, benchCmd, snapshotCmd, presetsCmd, generatorsCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// addConfigFlags registers every simulation setting on cmd. Only flags the
// user sets override the preset and config file.
func addConfigFlags(cmd *cobra.Command) {
	def := config.DefaultConfig()
	f := cmd.Flags()
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.StringVar(&preset, "preset", "", "use preset configuration")
	f.StringVar(&generator, "generator", def.Generator, "initial condition generator")
	f.IntVarP(&particles, "particles", "n", def.Particles, "number of particles")
	f.Int64Var(&seed, "seed", def.Seed, "random seed")
	f.IntVar(&steps, "steps", def.Steps, "number of steps")
	f.Float64Var(&dt, "dt", def.Dt, "timestep")
	f.Float64Var(&gravity, "g", def.G, "gravitational constant")
	f.Float64Var(&theta, "theta", def.Theta, "opening threshold (0 = exact)")
	f.Float64Var(&damping, "damping", def.Damping, "softening added to squared distance")
	f.Float64Var(&width, "width", def.Bounds.W, "world width")
	f.Float64Var(&height, "height", def.Bounds.H, "world height")
	f.IntVar(&maxDepth, "max-depth", def.MaxDepth, "tree depth limit")
	f.BoolVar(&closedBoundary, "closed-boundary", def.ClosedBoundary, "keep particles on the world's right and bottom edges")
	f.IntVar(&workers, "workers", def.Workers, "force evaluation goroutines")
	f.IntVar(&trace, "trace", def.Trace, "particle whose traversal is traced (-1 = none)")
	f.BoolVar(&noValidate, "no-validate", !def.ValidateState, "skip NaN/Inf checks after each step")
}
