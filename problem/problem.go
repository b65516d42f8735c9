// Package problem provides ready-made decode and fitness presets for binary
// genomes: the OneMax, linear and quadratic objectives.
package problem

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/signalnine/bitevolve/genome"
)

// ErrUnknownProblem is returned by Lookup for names with no preset.
var ErrUnknownProblem = errors.New("problem: unknown problem")

// Func adapts a plain scoring function of the phenotype into a genome.Problem
// that decodes with genome.BinaryFraction.
type Func struct {
	Name  string
	Score func(x float64) float64
}

// Decode returns the binary fraction of bits.
func (f Func) Decode(bits []uint8) float64 {
	return genome.BinaryFraction(bits)
}

// Fitness applies Score to the phenotype.
func (f Func) Fitness(phenotype float64) float64 {
	return f.Score(phenotype)
}

func (f Func) String() string {
	return f.Name
}

// OneMax rewards the decoded value directly, so all ones is optimal.
type OneMax struct{}

func (OneMax) Decode(bits []uint8) float64 { return genome.BinaryFraction(bits) }

func (OneMax) Fitness(phenotype float64) float64 { return phenotype }

func (OneMax) String() string { return "onemax" }

// Linear scores a*x + b. The "linear" preset is -3x + 7, which is best at
// phenotype 0.
type Linear struct {
	Slope     float64
	Intercept float64
}

func (Linear) Decode(bits []uint8) float64 { return genome.BinaryFraction(bits) }

func (l Linear) Fitness(phenotype float64) float64 {
	return l.Slope*phenotype + l.Intercept
}

func (l Linear) String() string {
	return fmt.Sprintf("linear(%g*x%+g)", l.Slope, l.Intercept)
}

// Quadratic scores x squared.
type Quadratic struct{}

func (Quadratic) Decode(bits []uint8) float64 { return genome.BinaryFraction(bits) }

func (Quadratic) Fitness(phenotype float64) float64 { return phenotype * phenotype }

func (Quadratic) String() string { return "quadratic" }

// Presets maps preset names to problems.
var Presets = map[string]genome.Problem{
	"onemax":    OneMax{},
	"linear":    Linear{Slope: -3, Intercept: 7},
	"quadratic": Quadratic{},
}

// recommendedCrossover lists presets whose demo run uses a policy other
// than single-point.
var recommendedCrossover = map[string]genome.CrossoverPolicy{
	"quadratic": genome.Uniform,
}

// RecommendedCrossover returns the crossover policy a preset is usually run
// with, genome.SinglePoint unless the preset names another.
func RecommendedCrossover(name string) genome.CrossoverPolicy {
	if p, ok := recommendedCrossover[strings.ToLower(strings.TrimSpace(name))]; ok {
		return p
	}
	return genome.SinglePoint
}

// Lookup returns the preset registered under name (case-insensitive).
func Lookup(name string) (genome.Problem, error) {
	p, ok := Presets[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w: %q (known: %s)", ErrUnknownProblem, name, strings.Join(Names(), ", "))
	}
	return p, nil
}

// Names returns the preset names in sorted order.
func Names() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
