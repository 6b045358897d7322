package models

import (
	"context"
	"math"

	"autostat/adapters/classify"
	"autostat/domain/dataset"
	"autostat/domain/model"
	"autostat/internal/errors"
	"autostat/internal/linreg"
)

// varimaFamily differences every value column once and fits a VAR(1) across
// them, one least-squares equation per column. Fitness is the AIC of the
// target equation, lower is better.
type varimaFamily struct{}

func (varimaFamily) Tag() model.FamilyTag { return model.VARIMA }

func (varimaFamily) Fit(_ context.Context, ds dataset.Dataset, target string) model.ModelResult {
	cols, names, targetIdx, err := valueMatrix(ds, target)
	if err != nil {
		return model.Failed(model.VARIMA, target, err)
	}
	if len(cols) < 2 {
		return model.Failed(model.VARIMA, target,
			errors.Fit("varima needs at least two value columns, have %d", len(cols)))
	}
	n := len(cols[0])
	if n < 15 {
		return model.Failed(model.VARIMA, target,
			errors.Fit("varima needs at least 15 complete rows, have %d", n))
	}

	k := len(cols)
	diffs := make([][]float64, k)
	for j, c := range cols {
		diffs[j] = diff(c)
	}
	m := len(diffs[0]) - 1 // usable VAR(1) observations
	if m <= k+2 {
		return model.Failed(model.VARIMA, target, errors.Fit("varima has too few rows for its lag structure"))
	}

	rows := make([][]float64, m)
	for i := 0; i < m; i++ {
		row := make([]float64, 1+k)
		row[0] = 1
		for j := 0; j < k; j++ {
			row[1+j] = diffs[j][i]
		}
		rows[i] = row
	}

	coeffs := make([][]float64, k)
	var targetFit *linreg.Fit
	for j := 0; j < k; j++ {
		y := make([]float64, m)
		for i := 0; i < m; i++ {
			y[i] = diffs[j][i+1]
		}
		fit, lsErr := linreg.LeastSquares(rows, y)
		if lsErr != nil {
			return model.Failed(model.VARIMA, target, lsErr)
		}
		coeffs[j] = fit.Coeffs
		if j == targetIdx {
			targetFit = fit
		}
	}

	sigma2 := targetFit.SSE / float64(m)
	if sigma2 <= 0 {
		return model.Failed(model.VARIMA, target, errors.Fit("varima target equation degenerated"))
	}
	aic := float64(m)*(math.Log(2*math.Pi*sigma2)+1) + 2*float64(k+2)

	params := map[string]float64{"const": targetFit.Coeffs[0]}
	for j, name := range names {
		params["phi_"+name] = targetFit.Coeffs[1+j]
	}

	lastDiffs := make([]float64, k)
	for j := 0; j < k; j++ {
		lastDiffs[j] = diffs[j][len(diffs[j])-1]
	}

	return model.ModelResult{
		Family:      model.VARIMA,
		Target:      target,
		Fitness:     aic,
		FitnessKind: model.FitnessLowerBetter,
		Params:      params,
		Diagnostics: map[string]float64{
			"sigma2": sigma2,
			"nobs":   float64(m),
		},
		Fitted: &integratedProjector{
			lastLevel: cols[targetIdx][n-1],
			residStd:  math.Sqrt(sigma2),
			diffs:     varDiffForecast(coeffs, lastDiffs, targetIdx),
		},
	}
}

// varDiffForecast iterates the fitted VAR(1) forward on the difference scale
// and emits the target column's path.
func varDiffForecast(coeffs [][]float64, lastDiffs []float64, targetIdx int) func(steps int) []float64 {
	return func(steps int) []float64 {
		k := len(lastDiffs)
		state := make([]float64, k)
		copy(state, lastDiffs)
		out := make([]float64, steps)
		next := make([]float64, k)
		for h := 0; h < steps; h++ {
			for j := 0; j < k; j++ {
				v := coeffs[j][0]
				for l := 0; l < k; l++ {
					v += coeffs[j][1+l] * state[l]
				}
				next[j] = v
			}
			copy(state, next)
			out[h] = state[targetIdx]
		}
		return out
	}
}

// valueMatrix extracts the value columns (target plus companions, excluding
// entity and time keys) as aligned series with incomplete rows dropped.
func valueMatrix(ds dataset.Dataset, target string) (cols [][]float64, names []string, targetIdx int, err error) {
	selected := make([]dataset.Column, 0)
	targetIdx = -1
	for _, c := range ds.NumericColumns() {
		if c.Name != target && (classify.IsEntityName(c.Name) || classify.IsTimeName(c.Name)) {
			continue
		}
		if c.Name == target {
			targetIdx = len(selected)
		}
		selected = append(selected, c)
	}
	if targetIdx == -1 {
		return nil, nil, 0, errors.InvalidInput("target column not found")
	}

	n := selected[0].Len()
	cols = make([][]float64, len(selected))
	for i := 0; i < n; i++ {
		clean := true
		for _, c := range selected {
			if math.IsNaN(c.Values[i]) {
				clean = false
				break
			}
		}
		if !clean {
			continue
		}
		for j, c := range selected {
			cols[j] = append(cols[j], c.Values[i])
		}
	}
	for _, c := range selected {
		names = append(names, c.Name)
	}
	return cols, names, targetIdx, nil
}
