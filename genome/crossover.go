package genome

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
)

// ErrUnsupportedCrossover is returned for a crossover policy outside the known set.
var ErrUnsupportedCrossover = errors.New("genome: unsupported crossover policy")

// CrossoverPolicy selects how two parent bit vectors are recombined.
type CrossoverPolicy int

const (
	// SinglePoint swaps everything after one random cut.
	SinglePoint CrossoverPolicy = iota + 1
	// TwoPoint swaps the segment between two random cuts.
	TwoPoint
	// Uniform swaps each position independently with probability 0.5.
	Uniform
)

var crossoverNames = map[CrossoverPolicy]string{
	SinglePoint: "single-point",
	TwoPoint:    "two-point",
	Uniform:     "uniform",
}

// crossoverFunc recombines a and b in place. Both slices have the same length.
type crossoverFunc func(a, b []uint8, rng *rand.Rand)

var crossovers = map[CrossoverPolicy]crossoverFunc{
	SinglePoint: singlePoint,
	TwoPoint:    twoPoint,
	Uniform:     uniform,
}

// Valid reports whether p is a known policy.
func (p CrossoverPolicy) Valid() bool {
	_, ok := crossovers[p]
	return ok
}

func (p CrossoverPolicy) String() string {
	if name, ok := crossoverNames[p]; ok {
		return name
	}
	return fmt.Sprintf("CrossoverPolicy(%d)", int(p))
}

// MarshalText implements encoding.TextMarshaler.
func (p CrossoverPolicy) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedCrossover, int(p))
	}
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *CrossoverPolicy) UnmarshalText(text []byte) error {
	parsed, err := ParseCrossoverPolicy(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// ParseCrossoverPolicy accepts "single-point", "two-point" or "uniform"
// (case-insensitive, underscores allowed).
func ParseCrossoverPolicy(s string) (CrossoverPolicy, error) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-")
	for p, name := range crossoverNames {
		if name == key {
			return p, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedCrossover, s)
}

// Crossover returns two new genomes built from deep copies of g and other,
// recombined with g's policy. The parents are not modified.
func (g *Genome) Crossover(other *Genome, rng *rand.Rand) (*Genome, *Genome, error) {
	if len(g.bits) != len(other.bits) {
		return nil, nil, fmt.Errorf("%w: %d vs %d", ErrLengthMismatch, len(g.bits), len(other.bits))
	}
	fn, ok := crossovers[g.crossover]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %v", ErrUnsupportedCrossover, g.crossover)
	}
	childA, childB := g.Clone(), other.Clone()
	fn(childA.bits, childB.bits, rng)
	return childA, childB, nil
}

// SinglePointAt keeps a[:cut] and b[:cut] and swaps the tails, so that
// a becomes a[:cut]+b[cut:] and b becomes b[:cut]+a[cut:].
func SinglePointAt(a, b []uint8, cut int) {
	swapRange(a, b, cut, len(a))
}

// TwoPointAt swaps the segment [lo, hi) between a and b.
func TwoPointAt(a, b []uint8, lo, hi int) {
	swapRange(a, b, lo, hi)
}

func singlePoint(a, b []uint8, rng *rand.Rand) {
	SinglePointAt(a, b, rng.Intn(len(a)+1))
}

func twoPoint(a, b []uint8, rng *rand.Rand) {
	n := len(a)
	if n < 2 {
		return
	}
	// Two distinct cuts from [0, n), sorted.
	lo := rng.Intn(n)
	hi := rng.Intn(n - 1)
	if hi >= lo {
		hi++
	}
	if lo > hi {
		lo, hi = hi, lo
	}
	TwoPointAt(a, b, lo, hi)
}

func uniform(a, b []uint8, rng *rand.Rand) {
	for i := range a {
		if rng.Float64() < 0.5 {
			a[i], b[i] = b[i], a[i]
		}
	}
}

func swapRange(a, b []uint8, lo, hi int) {
	for i := lo; i < hi; i++ {
		a[i], b[i] = b[i], a[i]
	}
}
