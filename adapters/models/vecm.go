package models

import (
	"context"

	"autostat/adapters/assumptions"
	"autostat/domain/dataset"
	"autostat/domain/model"
	"autostat/internal/errors"
	"autostat/internal/linreg"
)

// vecmFamily fits a bivariate vector error-correction model with one lag:
// both differenced series load on the Engle-Granger cointegrating residual
// and on each other's lagged differences. Fitness is the target equation R².
type vecmFamily struct {
	alpha float64
}

func (vecmFamily) Tag() model.FamilyTag { return model.VECM }

func (f vecmFamily) Fit(_ context.Context, ds dataset.Dataset, target string) model.ModelResult {
	y, x, xName, err := pairFor(ds, target)
	if err != nil {
		return model.Failed(model.VECM, target, err)
	}
	if len(y) < 25 {
		return model.Failed(model.VECM, target,
			errors.Fit("vecm needs at least 25 paired observations, have %d", len(y)))
	}

	long, z, err := cointegratingResidual(y, x)
	if err != nil {
		return model.Failed(model.VECM, target, err)
	}
	if d, ok := assumptions.IntegrationOrder(z, 0, f.alpha); !ok || d != 0 {
		return model.Failed(model.VECM, target,
			errors.Fit("%s and %s are not cointegrated", target, xName))
	}

	dy := diff(y)
	dx := diff(x)
	m := len(dy) - 1
	if m <= 6 {
		return model.Failed(model.VECM, target, errors.Fit("vecm has too few rows for its lag structure"))
	}

	// Regressors at time t: [1, z_{t-1}, dy_{t-1}, dx_{t-1}].
	rows := make([][]float64, m)
	yEq := make([]float64, m)
	xEq := make([]float64, m)
	for i := 0; i < m; i++ {
		rows[i] = []float64{1, z[i+1], dy[i], dx[i]}
		yEq[i] = dy[i+1]
		xEq[i] = dx[i+1]
	}

	yFit, lsErr := linreg.LeastSquares(rows, yEq)
	if lsErr != nil {
		return model.Failed(model.VECM, target, lsErr)
	}
	xFit, lsErr := linreg.LeastSquares(rows, xEq)
	if lsErr != nil {
		return model.Failed(model.VECM, target, lsErr)
	}

	a, b := long.Coeffs[0], long.Coeffs[1]
	yc := yFit.Coeffs
	xc := xFit.Coeffs

	return model.ModelResult{
		Family:      model.VECM,
		Target:      target,
		Fitness:     yFit.RSq,
		FitnessKind: model.FitnessHigherBetter,
		Params: map[string]float64{
			"long_run_intercept": a,
			"long_run_slope":     b,
			"adjustment":         yc[1],
			"own_lag":            yc[2],
			"cross_lag":          yc[3],
		},
		Diagnostics: map[string]float64{
			"r_squared": yFit.RSq,
			"nobs":      float64(m),
		},
		Fitted: &integratedProjector{
			lastLevel: y[len(y)-1],
			residStd:  yFit.ResidStd(),
			diffs: func(steps int) []float64 {
				out := make([]float64, steps)
				yLev := y[len(y)-1]
				xLev := x[len(x)-1]
				prevDY := dy[len(dy)-1]
				prevDX := dx[len(dx)-1]
				for h := 0; h < steps; h++ {
					zt := yLev - a - b*xLev
					nextDY := yc[0] + yc[1]*zt + yc[2]*prevDY + yc[3]*prevDX
					nextDX := xc[0] + xc[1]*zt + xc[2]*prevDY + xc[3]*prevDX
					yLev += nextDY
					xLev += nextDX
					prevDY, prevDX = nextDY, nextDX
					out[h] = nextDY
				}
				return out
			},
		},
	}
}
