package evolution

import (
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// GenerationStats holds statistics for a single generation.
type GenerationStats struct {
	RunID         uuid.UUID `json:"run_id"`
	Generation    int       `json:"generation"`
	BestFitness   float64   `json:"best_fitness"`
	BestPhenotype float64   `json:"best_phenotype"`
	MeanFitness   float64   `json:"mean_fitness"`
	StdDevFitness float64   `json:"stddev_fitness"`
	WorstFitness  float64   `json:"worst_fitness"`
	Diversity     float64   `json:"diversity"`
	Timestamp     time.Time `json:"timestamp"`
}

// Summarize computes statistics for pop.
func Summarize(runID uuid.UUID, pop *Population) GenerationStats {
	stats := GenerationStats{
		RunID:      runID,
		Generation: pop.Generation,
		Timestamp:  time.Now(),
	}
	if pop.Size() == 0 {
		return stats
	}

	best := pop.BestIndex()
	stats.BestFitness = pop.Fitness[best]
	stats.BestPhenotype = pop.Genomes[best].Phenotype()
	stats.WorstFitness = floats.Min(pop.Fitness)
	if pop.Size() == 1 {
		stats.MeanFitness = pop.Fitness[0]
	} else {
		stats.MeanFitness, stats.StdDevFitness = stat.MeanStdDev(pop.Fitness, nil)
	}
	stats.Diversity = pop.ComputeDiversity()
	return stats
}
