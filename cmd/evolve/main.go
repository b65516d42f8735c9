// Package main provides the bitevolve CLI for evolving binary genomes
// against a preset objective.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/signalnine/bitevolve/evolution"
	"github.com/signalnine/bitevolve/genome"
	"github.com/signalnine/bitevolve/problem"
	"github.com/signalnine/bitevolve/report"
	"github.com/signalnine/bitevolve/snapshot"
)

// Version information (set by build flags)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

const (
	snapshotFile   = "snapshots.fb"
	historyPlot    = "fitness.png"
	populationPlot = "population.png"
)

// options holds everything the command needs after flags and the optional
// config file have been merged.
type options struct {
	ConfigPath       string                    `toml:"-"`
	Problem          string                    `toml:"problem"`
	Generations      int                       `toml:"generations"`
	OutputDir        string                    `toml:"output_dir"`
	SnapshotInterval int                       `toml:"snapshot_interval"`
	Verbose          bool                      `toml:"verbose"`
	ShowVersion      bool                      `toml:"-"`
	Evolution        evolution.EvolutionConfig `toml:"evolution"`
}

func defaultOptions() *options {
	return &options{
		Problem:          "onemax",
		Generations:      100,
		SnapshotInterval: 10,
		Evolution:        *evolution.DefaultConfig(),
	}
}

// parseFlags builds options from defaults, then the config file named by
// -config, then any flags given explicitly on the command line.
func parseFlags(args []string, stderr io.Writer) (*options, error) {
	opts := defaultOptions()
	flagOpts := defaultOptions()
	selection := flagOpts.Evolution.Selection.String()
	crossover := flagOpts.Evolution.Crossover.String()

	fs := flag.NewFlagSet("bitevolve", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&flagOpts.ConfigPath, "config", "", "TOML config file (flags override its values)")
	fs.StringVar(&flagOpts.Problem, "problem", flagOpts.Problem, fmt.Sprintf("Objective preset %v; also picks the preset's crossover unless -crossover or the config sets one", problem.Names()))
	fs.IntVar(&flagOpts.Generations, "generations", flagOpts.Generations, "Number of generations to evolve")
	fs.IntVar(&flagOpts.Evolution.PopulationSize, "population-size", flagOpts.Evolution.PopulationSize, "Population size")
	fs.IntVar(&flagOpts.Evolution.GenomeLength, "genome-length", flagOpts.Evolution.GenomeLength, "Bits per genome")
	fs.Float64Var(&flagOpts.Evolution.MutationProbability, "mutation", flagOpts.Evolution.MutationProbability, "Probability that an offspring pair is mutated")
	fs.Float64Var(&flagOpts.Evolution.CrossoverProbability, "crossover-rate", flagOpts.Evolution.CrossoverProbability, "Probability that a parent pair is recombined")
	fs.IntVar(&flagOpts.Evolution.EliteCount, "elites", flagOpts.Evolution.EliteCount, "Genomes copied unchanged into each generation")
	fs.StringVar(&selection, "selection", selection, "Selection policy (roulette, ranking, tournament)")
	fs.StringVar(&crossover, "crossover", crossover, "Crossover policy (single-point, two-point, uniform; default: the problem's recommendation)")
	fs.Int64Var(&flagOpts.Evolution.RandomSeed, "seed", 0, "Random seed (0 = use current time)")
	fs.StringVar(&flagOpts.OutputDir, "output-dir", "", "Output directory for results (default: output/evolution-TIMESTAMP)")
	fs.IntVar(&flagOpts.SnapshotInterval, "snapshot-interval", flagOpts.SnapshotInterval, "Record a snapshot every N generations (0 = final only)")
	fs.BoolVar(&flagOpts.Verbose, "verbose", false, "Enable verbose output")
	fs.BoolVar(&flagOpts.ShowVersion, "version", false, "Show version information")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	crossoverSet := false
	if flagOpts.ConfigPath != "" {
		md, err := toml.DecodeFile(flagOpts.ConfigPath, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to load config %s: %w", flagOpts.ConfigPath, err)
		}
		opts.ConfigPath = flagOpts.ConfigPath
		crossoverSet = md.IsDefined("evolution", "crossover")
	}

	var err error
	fs.Visit(func(f *flag.Flag) {
		if err != nil {
			return
		}
		switch f.Name {
		case "problem":
			opts.Problem = flagOpts.Problem
		case "generations":
			opts.Generations = flagOpts.Generations
		case "population-size":
			opts.Evolution.PopulationSize = flagOpts.Evolution.PopulationSize
		case "genome-length":
			opts.Evolution.GenomeLength = flagOpts.Evolution.GenomeLength
		case "mutation":
			opts.Evolution.MutationProbability = flagOpts.Evolution.MutationProbability
		case "crossover-rate":
			opts.Evolution.CrossoverProbability = flagOpts.Evolution.CrossoverProbability
		case "elites":
			opts.Evolution.EliteCount = flagOpts.Evolution.EliteCount
		case "selection":
			opts.Evolution.Selection, err = evolution.ParseSelectionPolicy(selection)
		case "crossover":
			opts.Evolution.Crossover, err = genome.ParseCrossoverPolicy(crossover)
			crossoverSet = true
		case "seed":
			opts.Evolution.RandomSeed = flagOpts.Evolution.RandomSeed
		case "output-dir":
			opts.OutputDir = flagOpts.OutputDir
		case "snapshot-interval":
			opts.SnapshotInterval = flagOpts.SnapshotInterval
		case "verbose":
			opts.Verbose = flagOpts.Verbose
		case "version":
			opts.ShowVersion = flagOpts.ShowVersion
		}
	})
	if err != nil {
		return nil, err
	}
	if !crossoverSet {
		opts.Evolution.Crossover = problem.RecommendedCrossover(opts.Problem)
	}
	if opts.Generations < 0 {
		return nil, fmt.Errorf("generations must be non-negative, got %d", opts.Generations)
	}
	return opts, nil
}

func main() {
	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	if opts.ShowVersion {
		fmt.Printf("bitevolve %s (built %s)\n", Version, BuildTime)
		os.Exit(0)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = run(ctx, opts, os.Stdout, os.Stderr)
	switch {
	case errors.Is(err, context.Canceled):
		os.Exit(130)
	case err != nil:
		fmt.Fprintf(os.Stderr, "\nError: %v\n", err)
		os.Exit(1)
	}
}

// run evolves a population and writes snapshots, plots and a summary. If
// ctx is cancelled mid-run the partial results are still written and the
// returned error wraps context.Canceled.
func run(ctx context.Context, opts *options, stdout, stderr io.Writer) error {
	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	objective, err := problem.Lookup(opts.Problem)
	if err != nil {
		return err
	}

	if opts.OutputDir == "" {
		timestamp := time.Now().Format("20060102-150405")
		opts.OutputDir = filepath.Join("output", fmt.Sprintf("evolution-%s", timestamp))
	}
	if opts.Evolution.RandomSeed == 0 {
		opts.Evolution.RandomSeed = time.Now().UnixNano()
	}

	engine, err := evolution.NewEvolutionEngine(&opts.Evolution, objective, evolution.WithLogger(logger))
	if err != nil {
		return err
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	snapPath := filepath.Join(opts.OutputDir, snapshotFile)
	snapFile, err := os.Create(snapPath)
	if err != nil {
		return fmt.Errorf("failed to create snapshot file: %w", err)
	}
	defer snapFile.Close()
	recorder := snapshot.NewRecorder(engine, snapFile, opts.SnapshotInterval)

	printBanner(stdout, opts, objective)

	startTime := time.Now()
	if err := recorder.Record(engine.Generation()); err != nil {
		logger.Warn("snapshot failed", "generation", engine.Generation(), "err", err)
	}
	engine.OnGenerationComplete = func(stats evolution.GenerationStats) {
		progress := float64(stats.Generation) / float64(opts.Generations) * 100
		fmt.Fprintf(stdout, "\rGen %3d/%d | Best: %.4f | Mean: %.4f | Div: %.4f | %s (%.0f%%)",
			stats.Generation, opts.Generations,
			stats.BestFitness, stats.MeanFitness, stats.Diversity,
			report.FormatDuration(time.Since(startTime)), progress)

		if err := recorder.Record(stats.Generation); err != nil {
			logger.Warn("snapshot failed", "generation", stats.Generation, "err", err)
		}
	}

	fmt.Fprintln(stdout, "Starting evolution...")
	fmt.Fprintln(stdout)
	runErr := engine.Run(ctx, opts.Generations, opts.Verbose)
	if errors.Is(runErr, context.Canceled) {
		fmt.Fprintf(stdout, "\n\nInterrupted at generation %d, writing partial results...\n", engine.Generation())
	} else if runErr != nil {
		return fmt.Errorf("evolution failed: %w", runErr)
	}
	totalTime := time.Since(startTime)

	if err := recorder.RecordFinal(); err != nil {
		logger.Warn("final snapshot failed", "err", err)
	}
	logger.Debug("snapshots written", "path", snapPath, "frames", recorder.Frames)

	title := fmt.Sprintf("%s (%s selection, %s crossover)", objective, opts.Evolution.Selection, opts.Evolution.Crossover)
	if err := report.PlotHistory(engine.GetStats(), title, filepath.Join(opts.OutputDir, historyPlot)); err != nil {
		logger.Warn("history plot failed", "err", err)
	}
	popTitle := fmt.Sprintf("%s, generation %d", objective, engine.Generation())
	if err := report.PlotPopulation(engine.Population(), objective, popTitle, filepath.Join(opts.OutputDir, populationPlot)); err != nil {
		logger.Warn("population plot failed", "err", err)
	}

	if err := report.Summary(stdout, engine, totalTime, opts.OutputDir); err != nil {
		return err
	}
	return runErr
}

func printBanner(w io.Writer, opts *options, objective genome.Problem) {
	c := opts.Evolution
	fmt.Fprintln(w)
	fmt.Fprintln(w, "╔════════════════════════════════════════════════════════════╗")
	fmt.Fprintln(w, "║              BitEvolve Genetic Algorithm (Go)              ║")
	fmt.Fprintln(w, "╚════════════════════════════════════════════════════════════╝")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Configuration:\n")
	fmt.Fprintf(w, "  Problem:        %s\n", objective)
	fmt.Fprintf(w, "  Population:     %d\n", c.PopulationSize)
	fmt.Fprintf(w, "  Genome Length:  %d\n", c.GenomeLength)
	fmt.Fprintf(w, "  Generations:    %d\n", opts.Generations)
	fmt.Fprintf(w, "  Selection:      %s\n", c.Selection)
	fmt.Fprintf(w, "  Crossover:      %s (p=%.2f)\n", c.Crossover, c.CrossoverProbability)
	fmt.Fprintf(w, "  Mutation:       p=%.2f\n", c.MutationProbability)
	fmt.Fprintf(w, "  Elites:         %d\n", c.EliteCount)
	fmt.Fprintf(w, "  Seed:           %d\n", c.RandomSeed)
	fmt.Fprintf(w, "  Output:         %s\n", opts.OutputDir)
	if opts.SnapshotInterval > 0 {
		fmt.Fprintf(w, "  Snapshots:      every %d generations\n", opts.SnapshotInterval)
	}
	fmt.Fprintln(w)
}
