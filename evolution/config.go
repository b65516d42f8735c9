package evolution

import (
	"errors"
	"fmt"
	"math"

	"github.com/signalnine/bitevolve/genome"
)

// ErrInvalidConfig is returned by EvolutionConfig.Validate.
var ErrInvalidConfig = errors.New("evolution: invalid config")

// EvolutionConfig holds configuration for an evolutionary run. It is copied
// into the engine at construction and never changes afterwards.
type EvolutionConfig struct {
	PopulationSize       int                    `toml:"population_size"`       // Number of genomes per generation
	GenomeLength         int                    `toml:"genome_length"`         // Bits per genome
	MutationProbability  float64                `toml:"mutation_probability"`  // Chance a child pair is bit-flipped
	CrossoverProbability float64                `toml:"crossover_probability"` // Chance a parent pair is recombined
	EliteCount           int                    `toml:"elite_count"`           // Genomes carried over unchanged
	Selection            SelectionPolicy        `toml:"selection"`             // roulette, ranking, tournament
	Crossover            genome.CrossoverPolicy `toml:"crossover"`             // single-point, two-point, uniform
	RandomSeed           int64                  `toml:"seed"`                  // Random seed (0 = use time)
}

// DefaultConfig returns a default evolution configuration.
func DefaultConfig() *EvolutionConfig {
	return &EvolutionConfig{
		PopulationSize:       100,
		GenomeLength:         20,
		MutationProbability:  0.1,
		CrossoverProbability: 0.01,
		EliteCount:           5,
		Selection:            Roulette,
		Crossover:            genome.SinglePoint,
		RandomSeed:           0,
	}
}

// Validate checks every parameter, including that both policies are known,
// so that a bad configuration fails before the first generation runs.
func (c *EvolutionConfig) Validate() error {
	if c.PopulationSize <= 0 {
		return fmt.Errorf("%w: population_size must be positive, got %d", ErrInvalidConfig, c.PopulationSize)
	}
	if c.GenomeLength <= 0 {
		return fmt.Errorf("%w: genome_length must be positive, got %d", ErrInvalidConfig, c.GenomeLength)
	}
	if !isProbability(c.MutationProbability) {
		return fmt.Errorf("%w: mutation_probability must be in [0,1], got %v", ErrInvalidConfig, c.MutationProbability)
	}
	if !isProbability(c.CrossoverProbability) {
		return fmt.Errorf("%w: crossover_probability must be in [0,1], got %v", ErrInvalidConfig, c.CrossoverProbability)
	}
	if c.EliteCount < 0 || c.EliteCount > c.PopulationSize {
		return fmt.Errorf("%w: elite_count must be in [0,%d], got %d", ErrInvalidConfig, c.PopulationSize, c.EliteCount)
	}
	if !c.Selection.Valid() {
		return fmt.Errorf("%w: %w: %v", ErrInvalidConfig, ErrUnsupportedSelection, c.Selection)
	}
	if !c.Crossover.Valid() {
		return fmt.Errorf("%w: %w: %v", ErrInvalidConfig, genome.ErrUnsupportedCrossover, c.Crossover)
	}
	return nil
}

func isProbability(p float64) bool {
	return !math.IsNaN(p) && p >= 0 && p <= 1
}
