// Package evolution runs a generational genetic algorithm over binary genomes.
package evolution

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/signalnine/bitevolve/genome"
)

// EvolutionEngine owns a population and advances it one generation at a time.
// It is not safe for concurrent use; callers must serialize Advance and Run.
type EvolutionEngine struct {
	config       EvolutionConfig
	population   *Population
	statsHistory []GenerationStats
	bestEver     *genome.Genome
	factory      *genome.Factory
	rng          *rand.Rand
	logger       *slog.Logger
	runID        uuid.UUID

	// Called after every committed generation with that generation's stats.
	OnGenerationComplete func(stats GenerationStats)
}

type engineOptions struct {
	logger  *slog.Logger
	rng     *rand.Rand
	initial [][]uint8
}

// Option customises NewEvolutionEngine.
type Option func(*engineOptions)

// WithLogger sets the logger used for progress and diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(o *engineOptions) { o.logger = logger }
}

// WithRand replaces the seeded random source built from RandomSeed.
func WithRand(rng *rand.Rand) Option {
	return func(o *engineOptions) { o.rng = rng }
}

// WithInitialBits seeds the first genomes of the initial population. Vectors
// of the wrong shape are replaced by random genomes with a warning; any
// remaining slots are filled randomly.
func WithInitialBits(bits ...[]uint8) Option {
	return func(o *engineOptions) { o.initial = append(o.initial, bits...) }
}

// NewEvolutionEngine validates config, builds a random initial population for
// problem and records its statistics as generation 0.
func NewEvolutionEngine(config *EvolutionConfig, problem genome.Problem, opts ...Option) (*EvolutionEngine, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	o := engineOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.rng == nil {
		seed := config.RandomSeed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		o.rng = rand.New(rand.NewSource(seed))
	}
	if len(o.initial) > config.PopulationSize {
		return nil, fmt.Errorf("%w: %d initial genomes for population of %d",
			ErrInvalidConfig, len(o.initial), config.PopulationSize)
	}

	factory, err := genome.NewFactory(config.GenomeLength, config.Crossover, problem, o.rng)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	factory.Logger = o.logger

	e := &EvolutionEngine{
		config:  *config,
		factory: factory,
		rng:     o.rng,
		logger:  o.logger,
		runID:   uuid.New(),
	}
	e.initializePopulation(o.initial)
	return e, nil
}

func (e *EvolutionEngine) initializePopulation(initial [][]uint8) {
	genomes := make([]*genome.Genome, 0, e.config.PopulationSize)
	for _, bits := range initial {
		genomes = append(genomes, e.factory.New(bits))
	}
	for len(genomes) < e.config.PopulationSize {
		genomes = append(genomes, e.factory.Random())
	}

	e.population = NewPopulation(genomes, 0)
	e.record()

	e.logger.Debug("population initialized",
		"run_id", e.runID,
		"size", len(genomes),
		"seeded", len(initial),
		"genome_length", e.config.GenomeLength)
}

// CreateOffspring builds the next generation from the current one without
// committing it: elites first, then selected pairs that are recombined and
// mutated with the configured probabilities. Every genome in the result is a
// fresh copy, so mutating it never touches the current population.
func (e *EvolutionEngine) CreateOffspring() ([]*genome.Genome, error) {
	size := e.config.PopulationSize
	offspring := make([]*genome.Genome, 0, size+1)

	// 1. Elitism
	for _, g := range SelectElite(e.population, e.config.EliteCount) {
		offspring = append(offspring, g.Clone())
	}

	// 2. Reproduction, two at a time
	for len(offspring) < size {
		parent1, parent2, err := SelectParents(e.population, e.config.Selection, e.rng)
		if err != nil {
			return nil, err
		}

		var child1, child2 *genome.Genome
		if e.rng.Float64() < e.config.CrossoverProbability {
			child1, child2, err = parent1.Crossover(parent2, e.rng)
			if err != nil {
				return nil, err
			}
		} else {
			child1, child2 = parent1.Clone(), parent2.Clone()
		}

		if e.rng.Float64() < e.config.MutationProbability {
			child1.Mutate()
			child2.Mutate()
		}

		offspring = append(offspring, child1, child2)
	}

	// 3. Trim the overshoot from adding pairs
	return offspring[:size], nil
}

// Advance replaces the population with the next generation and increments
// the generation counter. On error the engine state is unchanged.
func (e *EvolutionEngine) Advance() error {
	offspring, err := e.CreateOffspring()
	if err != nil {
		return err
	}

	e.population = NewPopulation(offspring, e.population.Generation+1)
	stats := e.record()

	if e.OnGenerationComplete != nil {
		e.OnGenerationComplete(stats)
	}
	return nil
}

// Run advances the given number of generations. With verbose set, the
// generation counter and best genome are logged before each step. A
// cancelled ctx stops the run between generations.
func (e *EvolutionEngine) Run(ctx context.Context, generations int, verbose bool) error {
	for i := 0; i < generations; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		if verbose {
			best := e.Best()
			e.logger.Info("generation",
				"generation", e.Generation(),
				"best_phenotype", best.Phenotype(),
				"best_fitness", best.Fitness(),
				"best", best.String())
		}

		if err := e.Advance(); err != nil {
			return fmt.Errorf("generation %d: %w", e.Generation(), err)
		}
	}
	return nil
}

func (e *EvolutionEngine) record() GenerationStats {
	stats := Summarize(e.runID, e.population)
	e.statsHistory = append(e.statsHistory, stats)

	if best := e.population.GetBest(); best != nil {
		if e.bestEver == nil || best.Fitness() > e.bestEver.Fitness() {
			e.bestEver = best.Clone()
			e.logger.Debug("new best fitness",
				"generation", stats.Generation,
				"fitness", stats.BestFitness)
		}
	}
	return stats
}

// Best returns the fittest genome of the current population.
func (e *EvolutionEngine) Best() *genome.Genome {
	return e.population.GetBest()
}

// BestEver returns a copy of the fittest genome seen in any generation.
func (e *EvolutionEngine) BestEver() *genome.Genome {
	if e.bestEver == nil {
		return nil
	}
	return e.bestEver.Clone()
}

// Population returns copies of the current genomes, in population order.
func (e *EvolutionEngine) Population() []*genome.Genome {
	out := make([]*genome.Genome, len(e.population.Genomes))
	for i, g := range e.population.Genomes {
		out[i] = g.Clone()
	}
	return out
}

// Generation returns the number of completed generations.
func (e *EvolutionEngine) Generation() int {
	return e.population.Generation
}

// RunID identifies this engine in stats and snapshots.
func (e *EvolutionEngine) RunID() uuid.UUID {
	return e.runID
}

// Config returns a copy of the engine configuration.
func (e *EvolutionEngine) Config() EvolutionConfig {
	return e.config
}

// GetStats returns the stats history, one entry per generation starting at 0.
func (e *EvolutionEngine) GetStats() []GenerationStats {
	return slices.Clone(e.statsHistory)
}

// GetBestGenomes returns copies of the top n genomes with distinct bit patterns.
func (e *EvolutionEngine) GetBestGenomes(n int) []*genome.Genome {
	if n <= 0 {
		return nil
	}
	seen := make(map[string]bool)
	unique := make([]*genome.Genome, 0, n)

	for _, idx := range e.population.SortedIndices(true) {
		if len(unique) >= n {
			break
		}
		g := e.population.Genomes[idx]
		key := string(g.Bits())
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, g.Clone())
	}
	return unique
}
