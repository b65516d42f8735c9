// Package report renders evolution results: fitness-over-time charts, the
// final population against its objective and a text summary.
package report

import (
	"errors"
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/signalnine/bitevolve/evolution"
	"github.com/signalnine/bitevolve/genome"
)

// ErrNoData is returned when there is nothing to plot.
var ErrNoData = errors.New("report: no data to plot")

const (
	plotWidth  = 6 * vg.Inch
	plotHeight = 4 * vg.Inch

	objectiveSamples = 200
)

// PlotHistory draws best and mean fitness per generation and saves the chart
// to path. The image format follows the file extension.
func PlotHistory(stats []evolution.GenerationStats, title, path string) error {
	if len(stats) == 0 {
		return ErrNoData
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Generation"
	p.Y.Label.Text = "Fitness"

	bestPts := make(plotter.XYs, len(stats))
	meanPts := make(plotter.XYs, len(stats))
	for i, s := range stats {
		bestPts[i].X = float64(s.Generation)
		bestPts[i].Y = s.BestFitness
		meanPts[i].X = float64(s.Generation)
		meanPts[i].Y = s.MeanFitness
	}

	bestLine, err := plotter.NewLine(bestPts)
	if err != nil {
		return err
	}
	meanLine, err := plotter.NewLine(meanPts)
	if err != nil {
		return err
	}
	meanLine.Color = color.RGBA{R: 200, G: 60, B: 60, A: 255}
	meanLine.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}

	p.Add(plotter.NewGrid(), bestLine, meanLine)
	p.Legend.Add("best", bestLine)
	p.Legend.Add("mean", meanLine)
	p.Legend.Top = true
	p.Legend.Left = true

	if err := p.Save(plotWidth, plotHeight, path); err != nil {
		return fmt.Errorf("failed to save history plot: %w", err)
	}
	return nil
}

// PlotPopulation draws the objective of problem over [0, 1] with each
// genome's (phenotype, fitness) point on top of it.
func PlotPopulation(pop []*genome.Genome, problem genome.Problem, title, path string) error {
	if len(pop) == 0 {
		return ErrNoData
	}
	if problem == nil {
		return genome.ErrNilProblem
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Phenotype"
	p.Y.Label.Text = "Fitness"

	objective := plotter.NewFunction(problem.Fitness)
	objective.XMin = 0
	objective.XMax = 1
	objective.Samples = objectiveSamples
	objective.Color = color.Gray{Y: 120}

	pts := make(plotter.XYs, len(pop))
	for i, g := range pop {
		pts[i].X = g.Phenotype()
		pts[i].Y = g.Fitness()
	}
	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return err
	}
	scatter.GlyphStyle.Color = color.RGBA{R: 30, G: 90, B: 200, A: 255}
	scatter.GlyphStyle.Radius = vg.Points(2.5)

	p.Add(plotter.NewGrid(), objective, scatter)
	p.Legend.Add("objective", objective)
	p.Legend.Add("population", scatter)
	p.Legend.Top = true
	p.Legend.Left = true
	p.X.Min = 0
	p.X.Max = 1

	if err := p.Save(plotWidth, plotHeight, path); err != nil {
		return fmt.Errorf("failed to save population plot: %w", err)
	}
	return nil
}
