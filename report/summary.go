package report

import (
	"fmt"
	"io"
	"time"

	"github.com/signalnine/bitevolve/evolution"
)

const rule = "════════════════════════════════════════════════════════════"

// Summary writes the end-of-run report for engine to w.
func Summary(w io.Writer, engine *evolution.EvolutionEngine, elapsed time.Duration, outputDir string) error {
	config := engine.Config()
	stats := engine.GetStats()

	// Stop at the first write error and report it once.
	var err error
	printf := func(format string, args ...any) {
		if err == nil {
			_, err = fmt.Fprintf(w, format, args...)
		}
	}

	printf("\n%s\n", rule)
	printf("                      EVOLUTION SUMMARY\n")
	printf("%s\n", rule)
	printf("  Run ID:          %s\n", engine.RunID())
	printf("  Total Time:      %s\n", FormatDuration(elapsed))
	printf("  Generations:     %d\n", engine.Generation())
	printf("  Population:      %d x %d bits\n", config.PopulationSize, config.GenomeLength)
	printf("  Operators:       %s selection, %s crossover\n", config.Selection, config.Crossover)

	if len(stats) > 0 {
		last := stats[len(stats)-1]
		printf("  Final Best:      %.6f\n", last.BestFitness)
		printf("  Final Mean:      %.6f (sd %.6f)\n", last.MeanFitness, last.StdDevFitness)
		printf("  Diversity:       %.4f\n", last.Diversity)
	}
	if best := engine.BestEver(); best != nil {
		printf("  Best Ever:       %s\n", best)
	}
	if outputDir != "" {
		printf("  Output:          %s\n", outputDir)
	}
	printf("%s\n\n", rule)
	return err
}

// FormatDuration renders d compactly for progress lines and summaries.
func FormatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	if d < time.Hour {
		m := int(d.Minutes())
		s := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm%ds", m, s)
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh%dm", h, m)
}
