// Package genome provides fixed-length binary genomes with pluggable
// decode and fitness behaviour.
package genome

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidBit is returned when a value other than 0 or 1 is written into a genome.
	ErrInvalidBit = errors.New("genome: bit value must be 0 or 1")
	// ErrIndexOutOfRange is returned for reads and writes outside [0, Len()).
	ErrIndexOutOfRange = errors.New("genome: index out of range")
	// ErrRangeLength is returned when a range write would change the genome length.
	ErrRangeLength = errors.New("genome: range write does not fit")
	// ErrLengthMismatch is returned when two genomes of different length are recombined.
	ErrLengthMismatch = errors.New("genome: length mismatch")
	// ErrInvalidLength is returned for non-positive lengths or wrongly sized initial bits.
	ErrInvalidLength = errors.New("genome: invalid length")
	// ErrNilProblem is returned when no Problem is supplied.
	ErrNilProblem = errors.New("genome: nil problem")
)

// Problem maps a bit vector to a phenotype and a phenotype to a fitness score.
// Both methods must be pure; higher fitness is better.
type Problem interface {
	Decode(bits []uint8) float64
	Fitness(phenotype float64) float64
}

// Genome is a fixed-length vector of 0/1 values bound to a Problem and a
// crossover policy. Phenotype and fitness are never cached, so any write to
// the bits is reflected immediately.
type Genome struct {
	bits      []uint8
	crossover CrossoverPolicy
	problem   Problem
}

func newGenome(bits []uint8, crossover CrossoverPolicy, problem Problem) *Genome {
	return &Genome{bits: bits, crossover: crossover, problem: problem}
}

// Len returns the number of bits.
func (g *Genome) Len() int {
	return len(g.bits)
}

// CrossoverPolicy returns the policy fixed at construction.
func (g *Genome) CrossoverPolicy() CrossoverPolicy {
	return g.crossover
}

// Problem returns the decode/fitness implementation of the genome.
func (g *Genome) Problem() Problem {
	return g.problem
}

// Bits returns a copy of the bit vector.
func (g *Genome) Bits() []uint8 {
	out := make([]uint8, len(g.bits))
	copy(out, g.bits)
	return out
}

// Phenotype decodes the bit vector.
func (g *Genome) Phenotype() float64 {
	return g.problem.Decode(g.bits)
}

// Fitness scores the decoded phenotype.
func (g *Genome) Fitness() float64 {
	return g.problem.Fitness(g.problem.Decode(g.bits))
}

// Bit returns the value at position i.
func (g *Genome) Bit(i int) (uint8, error) {
	if i < 0 || i >= len(g.bits) {
		return 0, fmt.Errorf("%w: %d (length %d)", ErrIndexOutOfRange, i, len(g.bits))
	}
	return g.bits[i], nil
}

// SetBit writes v at position i.
func (g *Genome) SetBit(i int, v uint8) error {
	if i < 0 || i >= len(g.bits) {
		return fmt.Errorf("%w: %d (length %d)", ErrIndexOutOfRange, i, len(g.bits))
	}
	if v > 1 {
		return fmt.Errorf("%w: got %d at %d", ErrInvalidBit, v, i)
	}
	g.bits[i] = v
	return nil
}

// Range returns a copy of bits[lo:hi].
func (g *Genome) Range(lo, hi int) ([]uint8, error) {
	if lo < 0 || hi > len(g.bits) || lo > hi {
		return nil, fmt.Errorf("%w: [%d:%d] (length %d)", ErrIndexOutOfRange, lo, hi, len(g.bits))
	}
	out := make([]uint8, hi-lo)
	copy(out, g.bits[lo:hi])
	return out, nil
}

// SetRange overwrites bits starting at lo with vals. The write is all or
// nothing: if any value is not binary the genome is left untouched.
func (g *Genome) SetRange(lo int, vals []uint8) error {
	if lo < 0 || lo > len(g.bits) {
		return fmt.Errorf("%w: %d (length %d)", ErrIndexOutOfRange, lo, len(g.bits))
	}
	if lo+len(vals) > len(g.bits) {
		return fmt.Errorf("%w: %d values at %d (length %d)", ErrRangeLength, len(vals), lo, len(g.bits))
	}
	if i := firstNonBinary(vals); i >= 0 {
		return fmt.Errorf("%w: got %d at %d", ErrInvalidBit, vals[i], lo+i)
	}
	copy(g.bits[lo:], vals)
	return nil
}

// Mutate flips every bit in place.
func (g *Genome) Mutate() {
	for i, b := range g.bits {
		g.bits[i] = b ^ 1
	}
}

// Clone returns an independent deep copy.
func (g *Genome) Clone() *Genome {
	return newGenome(g.Bits(), g.crossover, g.problem)
}

// HammingDistance counts positions where g and other differ.
func (g *Genome) HammingDistance(other *Genome) (int, error) {
	if len(g.bits) != len(other.bits) {
		return 0, fmt.Errorf("%w: %d vs %d", ErrLengthMismatch, len(g.bits), len(other.bits))
	}
	d := 0
	for i := range g.bits {
		if g.bits[i] != other.bits[i] {
			d++
		}
	}
	return d, nil
}

// Compare orders genomes by fitness: -1 if a < b, +1 if a > b, 0 when equal.
// Genomes with equal fitness compare equal even if their bits differ.
func Compare(a, b *Genome) int {
	fa, fb := a.Fitness(), b.Fitness()
	switch {
	case fa < fb:
		return -1
	case fa > fb:
		return 1
	}
	return 0
}

// Less reports whether g is strictly less fit than other.
func (g *Genome) Less(other *Genome) bool { return Compare(g, other) < 0 }

// Greater reports whether g is strictly fitter than other.
func (g *Genome) Greater(other *Genome) bool { return Compare(g, other) > 0 }

// Equal reports whether g and other have the same fitness.
func (g *Genome) Equal(other *Genome) bool { return Compare(g, other) == 0 }

func (g *Genome) String() string {
	var sb strings.Builder
	sb.Grow(len(g.bits) + 48)
	for _, b := range g.bits {
		sb.WriteByte('0' + b)
	}
	fmt.Fprintf(&sb, " phenotype=%.6f fitness=%.6f", g.Phenotype(), g.Fitness())
	return sb.String()
}

// firstNonBinary returns the index of the first value that is not 0 or 1, or -1.
func firstNonBinary(vals []uint8) int {
	for i, v := range vals {
		if v > 1 {
			return i
		}
	}
	return -1
}
