package evolution

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"strings"

	"github.com/signalnine/bitevolve/genome"
)

// ErrUnsupportedSelection is returned for a selection policy outside the known set.
var ErrUnsupportedSelection = errors.New("evolution: unsupported selection policy")

// SelectionPolicy chooses how parent pairs are drawn from a population.
type SelectionPolicy int

const (
	// Roulette draws proportionally to min-max normalised fitness.
	Roulette SelectionPolicy = iota + 1
	// Ranking draws proportionally to normalised fitness rank.
	Ranking
	// Tournament returns the two best of a random half-size sample.
	Tournament
)

var selectionNames = map[SelectionPolicy]string{
	Roulette:   "roulette",
	Ranking:    "ranking",
	Tournament: "tournament",
}

// selectFunc returns the indices of two parents. The population is non-empty.
type selectFunc func(pop *Population, rng *rand.Rand) (int, int)

var selectors = map[SelectionPolicy]selectFunc{
	Roulette:   rouletteSelection,
	Ranking:    rankingSelection,
	Tournament: tournamentSelection,
}

// Valid reports whether p is a known policy.
func (p SelectionPolicy) Valid() bool {
	_, ok := selectors[p]
	return ok
}

func (p SelectionPolicy) String() string {
	if name, ok := selectionNames[p]; ok {
		return name
	}
	return fmt.Sprintf("SelectionPolicy(%d)", int(p))
}

// MarshalText implements encoding.TextMarshaler.
func (p SelectionPolicy) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedSelection, int(p))
	}
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *SelectionPolicy) UnmarshalText(text []byte) error {
	parsed, err := ParseSelectionPolicy(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// ParseSelectionPolicy accepts "roulette", "ranking" or "tournament" (case-insensitive).
func ParseSelectionPolicy(s string) (SelectionPolicy, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for p, name := range selectionNames {
		if name == key {
			return p, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedSelection, s)
}

// SelectParents draws two parents, with replacement, according to policy.
// The same genome may be returned twice.
func SelectParents(pop *Population, policy SelectionPolicy, rng *rand.Rand) (*genome.Genome, *genome.Genome, error) {
	fn, ok := selectors[policy]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %v", ErrUnsupportedSelection, policy)
	}
	if pop == nil || len(pop.Genomes) == 0 {
		return nil, nil, fmt.Errorf("evolution: select from empty population")
	}
	i, j := fn(pop, rng)
	return pop.Genomes[i], pop.Genomes[j], nil
}

// SelectElite returns the top n genomes by fitness, best first.
func SelectElite(pop *Population, n int) []*genome.Genome {
	if pop == nil || len(pop.Genomes) == 0 || n < 1 {
		return nil
	}
	if n > len(pop.Genomes) {
		n = len(pop.Genomes)
	}

	sorted := pop.SortedIndices(true)
	elite := make([]*genome.Genome, n)
	for i := 0; i < n; i++ {
		elite[i] = pop.Genomes[sorted[i]]
	}
	return elite
}

func rouletteSelection(pop *Population, rng *rand.Rand) (int, int) {
	minFit, maxFit := pop.Fitness[0], pop.Fitness[0]
	for _, f := range pop.Fitness[1:] {
		if f < minFit {
			minFit = f
		}
		if f > maxFit {
			maxFit = f
		}
	}

	// Flat landscape: every weight would be 0/0.
	if maxFit == minFit {
		n := len(pop.Genomes)
		return rng.Intn(n), rng.Intn(n)
	}

	weights := make([]float64, len(pop.Fitness))
	for i, f := range pop.Fitness {
		weights[i] = (f - minFit) / (maxFit - minFit)
	}
	w := newWheel(weights)
	return w.spin(rng), w.spin(rng)
}

func rankingSelection(pop *Population, rng *rand.Rand) (int, int) {
	n := len(pop.Genomes)
	if n == 1 {
		return 0, 0
	}

	// Ascending order: rank r (1-based) gets weight (r-1)/(n-1), so the
	// least fit genome is never drawn.
	sorted := pop.SortedIndices(false)
	weights := make([]float64, n)
	for pos := range sorted {
		weights[pos] = float64(pos) / float64(n-1)
	}
	w := newWheel(weights)
	return sorted[w.spin(rng)], sorted[w.spin(rng)]
}

func tournamentSelection(pop *Population, rng *rand.Rand) (int, int) {
	n := len(pop.Genomes)
	k := n / 2
	if k < 1 {
		k = 1
	}

	participants := make([]int, k)
	for i := range participants {
		participants[i] = rng.Intn(n)
	}
	sort.SliceStable(participants, func(a, b int) bool {
		return pop.Fitness[participants[a]] > pop.Fitness[participants[b]]
	})

	if k == 1 {
		return participants[0], participants[0]
	}
	return participants[0], participants[1]
}

// wheel is a cumulative weight table for drawing indices with probability
// proportional to their weight.
type wheel struct {
	cumulative []float64
}

func newWheel(weights []float64) wheel {
	cumulative := make([]float64, len(weights))
	var total float64
	for i, w := range weights {
		total += w
		cumulative[i] = total
	}
	return wheel{cumulative: cumulative}
}

func (w wheel) spin(rng *rand.Rand) int {
	total := w.cumulative[len(w.cumulative)-1]
	if total <= 0 {
		return rng.Intn(len(w.cumulative))
	}
	// First index whose cumulative weight exceeds the spin; zero-weight
	// entries share a cumulative value with their predecessor and are skipped.
	spin := rng.Float64() * total
	i := sort.Search(len(w.cumulative), func(i int) bool {
		return w.cumulative[i] > spin
	})
	if i == len(w.cumulative) {
		i = len(w.cumulative) - 1
	}
	return i
}
