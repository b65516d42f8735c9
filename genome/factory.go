package genome

import (
	"fmt"
	"log/slog"
	"math/rand"
)

// Factory builds genomes of one shape: a fixed length, crossover policy and
// problem. All randomness comes from Rng.
type Factory struct {
	Length    int
	Crossover CrossoverPolicy
	Problem   Problem
	Rng       *rand.Rand
	Logger    *slog.Logger
}

// NewFactory validates the genome shape and returns a factory using rng.
func NewFactory(length int, crossover CrossoverPolicy, problem Problem, rng *rand.Rand) (*Factory, error) {
	if length <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLength, length)
	}
	if !crossover.Valid() {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedCrossover, crossover)
	}
	if problem == nil {
		return nil, ErrNilProblem
	}
	if rng == nil {
		return nil, fmt.Errorf("genome: nil random source")
	}
	return &Factory{
		Length:    length,
		Crossover: crossover,
		Problem:   problem,
		Rng:       rng,
		Logger:    slog.Default(),
	}, nil
}

// Random returns a genome whose bits are independently 0 or 1 with probability 0.5.
func (f *Factory) Random() *Genome {
	return newGenome(randomBits(f.Length, f.Rng), f.Crossover, f.Problem)
}

// New returns a genome holding a copy of initial. A nil, wrongly sized or
// non-binary initial vector is replaced by random bits and a warning is
// logged; use Strict to get an error instead.
func (f *Factory) New(initial []uint8) *Genome {
	if initial == nil {
		return f.Random()
	}
	if err := f.check(initial); err != nil {
		f.logger().Warn("substituting random genome for malformed initial bits",
			"length", f.Length,
			"got_length", len(initial),
			"reason", err.Error())
		return f.Random()
	}
	return f.copyOf(initial)
}

// Strict is like New but rejects malformed input with ErrInvalidLength or ErrInvalidBit.
func (f *Factory) Strict(initial []uint8) (*Genome, error) {
	if err := f.check(initial); err != nil {
		return nil, err
	}
	return f.copyOf(initial), nil
}

func (f *Factory) check(initial []uint8) error {
	if len(initial) != f.Length {
		return fmt.Errorf("%w: want %d bits, got %d", ErrInvalidLength, f.Length, len(initial))
	}
	if i := firstNonBinary(initial); i >= 0 {
		return fmt.Errorf("%w: got %d at %d", ErrInvalidBit, initial[i], i)
	}
	return nil
}

func (f *Factory) copyOf(initial []uint8) *Genome {
	bits := make([]uint8, len(initial))
	copy(bits, initial)
	return newGenome(bits, f.Crossover, f.Problem)
}

func (f *Factory) logger() *slog.Logger {
	if f.Logger == nil {
		return slog.Default()
	}
	return f.Logger
}

func randomBits(n int, rng *rand.Rand) []uint8 {
	bits := make([]uint8, n)
	for i := range bits {
		bits[i] = uint8(rng.Intn(2))
	}
	return bits
}
