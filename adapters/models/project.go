package models

import (
	"math"

	"autostat/internal/errors"
)

// featureGrowth is the per-period growth applied to held-out feature values
// when a regression model is asked to project beyond the sample.
const featureGrowth = 0.01

// regressionProjector extrapolates a linear fit by compounding the final
// observed feature row by featureGrowth each period. The uncertainty band
// stays at the residual scale: a static regression carries no accumulating
// forecast variance.
type regressionProjector struct {
	intercept float64
	coeffs    []float64
	lastRow   []float64
	residStd  float64
}

func (p *regressionProjector) Project(steps int) ([]float64, []float64, error) {
	if steps <= 0 {
		return nil, nil, errors.InvalidInput("projection steps must be positive")
	}
	points := make([]float64, steps)
	stderrs := make([]float64, steps)
	for h := 1; h <= steps; h++ {
		scale := math.Pow(1+featureGrowth, float64(h))
		pred := p.intercept
		for j, c := range p.coeffs {
			pred += c * p.lastRow[j] * scale
		}
		points[h-1] = pred
		stderrs[h-1] = p.residStd
	}
	return points, stderrs, nil
}

// ensembleProjector does the same feature extrapolation but predicts through
// an arbitrary fitted function (tree ensembles).
type ensembleProjector struct {
	predict  func([]float64) float64
	lastRow  []float64
	residStd float64
}

func (p *ensembleProjector) Project(steps int) ([]float64, []float64, error) {
	if steps <= 0 {
		return nil, nil, errors.InvalidInput("projection steps must be positive")
	}
	points := make([]float64, steps)
	stderrs := make([]float64, steps)
	row := make([]float64, len(p.lastRow))
	for h := 1; h <= steps; h++ {
		scale := math.Pow(1+featureGrowth, float64(h))
		for j, v := range p.lastRow {
			row[j] = v * scale
		}
		points[h-1] = p.predict(row)
		stderrs[h-1] = p.residStd
	}
	return points, stderrs, nil
}

// trendProjector continues a linear time trend past the end of the sample.
type trendProjector struct {
	intercept float64
	slope     float64
	lastIndex float64
	residStd  float64
}

func (p *trendProjector) Project(steps int) ([]float64, []float64, error) {
	if steps <= 0 {
		return nil, nil, errors.InvalidInput("projection steps must be positive")
	}
	points := make([]float64, steps)
	stderrs := make([]float64, steps)
	for h := 1; h <= steps; h++ {
		points[h-1] = p.intercept + p.slope*(p.lastIndex+float64(h))
		stderrs[h-1] = p.residStd
	}
	return points, stderrs, nil
}

// integratedProjector replays precomputed difference forecasts on top of the
// last observed level, with forecast standard errors growing like a random
// walk in the residual scale.
type integratedProjector struct {
	lastLevel float64
	diffs     func(steps int) []float64
	residStd  float64
}

func (p *integratedProjector) Project(steps int) ([]float64, []float64, error) {
	if steps <= 0 {
		return nil, nil, errors.InvalidInput("projection steps must be positive")
	}
	deltas := p.diffs(steps)
	points := make([]float64, steps)
	stderrs := make([]float64, steps)
	level := p.lastLevel
	for h := 0; h < steps; h++ {
		level += deltas[h]
		points[h] = level
		stderrs[h] = p.residStd * math.Sqrt(float64(h+1))
	}
	return points, stderrs, nil
}
