package evolution

import (
	"sort"

	"github.com/signalnine/bitevolve/genome"
)

// Population is a generation of genomes together with a fitness snapshot
// taken when the population was formed. Fitness is a pure function of the
// bits, so the snapshot stays valid as long as no genome is written to.
type Population struct {
	Genomes    []*genome.Genome
	Fitness    []float64
	Generation int
}

// NewPopulation evaluates every genome once and returns the population.
func NewPopulation(genomes []*genome.Genome, generation int) *Population {
	fitness := make([]float64, len(genomes))
	for i, g := range genomes {
		fitness[i] = g.Fitness()
	}
	return &Population{
		Genomes:    genomes,
		Fitness:    fitness,
		Generation: generation,
	}
}

// Size returns the number of genomes in the population.
func (p *Population) Size() int {
	return len(p.Genomes)
}

// BestIndex returns the index of the fittest genome, the first one on ties.
func (p *Population) BestIndex() int {
	if len(p.Genomes) == 0 {
		return -1
	}
	best := 0
	for i, f := range p.Fitness[1:] {
		if f > p.Fitness[best] {
			best = i + 1
		}
	}
	return best
}

// GetBest returns the genome with the highest fitness.
func (p *Population) GetBest() *genome.Genome {
	i := p.BestIndex()
	if i < 0 {
		return nil
	}
	return p.Genomes[i]
}

// SortedIndices returns genome indices ordered by fitness. Equal fitness
// keeps population order.
func (p *Population) SortedIndices(descending bool) []int {
	idx := make([]int, len(p.Genomes))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		if descending {
			return p.Fitness[idx[a]] > p.Fitness[idx[b]]
		}
		return p.Fitness[idx[a]] < p.Fitness[idx[b]]
	})
	return idx
}

// ComputeDiversity returns the mean pairwise Hamming distance divided by the
// genome length, in [0, 1]. It is computed exactly from per-locus counts of
// ones: a locus with c ones among n genomes contributes c*(n-c) differing pairs.
func (p *Population) ComputeDiversity() float64 {
	n := len(p.Genomes)
	if n < 2 {
		return 0.0
	}
	length := p.Genomes[0].Len()
	if length == 0 {
		return 0.0
	}

	ones := make([]int, length)
	for _, g := range p.Genomes {
		for i, b := range g.Bits() {
			ones[i] += int(b)
		}
	}

	var differing float64
	for _, c := range ones {
		differing += float64(c * (n - c))
	}
	pairs := float64(n*(n-1)) / 2
	return differing / pairs / float64(length)
}
