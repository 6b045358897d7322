package models

import (
	"context"

	"autostat/adapters/assumptions"
	"autostat/domain/dataset"
	"autostat/domain/model"
	"autostat/internal/errors"
	"autostat/internal/linreg"
)

// ecmFamily fits an Engle-Granger error-correction model on the target and
// its first companion series: a cointegrating level regression, a
// stationarity check on its residual, then the short-run equation
// dy_t = c + gamma*z_{t-1} + delta*dx_t. Fitness is the short-run R².
type ecmFamily struct {
	alpha float64
}

func (ecmFamily) Tag() model.FamilyTag { return model.ECM }

func (f ecmFamily) Fit(_ context.Context, ds dataset.Dataset, target string) model.ModelResult {
	y, x, xName, err := pairFor(ds, target)
	if err != nil {
		return model.Failed(model.ECM, target, err)
	}
	if len(y) < 20 {
		return model.Failed(model.ECM, target,
			errors.Fit("ecm needs at least 20 paired observations, have %d", len(y)))
	}

	long, z, err := cointegratingResidual(y, x)
	if err != nil {
		return model.Failed(model.ECM, target, err)
	}
	if d, ok := assumptions.IntegrationOrder(z, 0, f.alpha); !ok || d != 0 {
		return model.Failed(model.ECM, target,
			errors.Fit("%s and %s are not cointegrated", target, xName))
	}

	dy := diff(y)
	dx := diff(x)
	rows := make([][]float64, len(dy))
	for i := range dy {
		rows[i] = []float64{1, z[i], dx[i]}
	}
	fit, lsErr := linreg.LeastSquares(rows, dy)
	if lsErr != nil {
		return model.Failed(model.ECM, target, lsErr)
	}

	a, b := long.Coeffs[0], long.Coeffs[1]
	c, gamma, delta := fit.Coeffs[0], fit.Coeffs[1], fit.Coeffs[2]
	dxLast := dx[len(dx)-1]

	return model.ModelResult{
		Family:      model.ECM,
		Target:      target,
		Fitness:     fit.RSq,
		FitnessKind: model.FitnessHigherBetter,
		Params: map[string]float64{
			"long_run_intercept": a,
			"long_run_slope":     b,
			"const":              c,
			"adjustment":         gamma,
			"short_run":          delta,
		},
		Diagnostics: map[string]float64{
			"r_squared": fit.RSq,
			"nobs":      float64(len(dy)),
		},
		Fitted: &integratedProjector{
			lastLevel: y[len(y)-1],
			residStd:  fit.ResidStd(),
			diffs: func(steps int) []float64 {
				out := make([]float64, steps)
				yLev := y[len(y)-1]
				xLev := x[len(x)-1]
				for h := 0; h < steps; h++ {
					zt := yLev - a - b*xLev
					d := c + gamma*zt + delta*dxLast
					yLev += d
					xLev += dxLast
					out[h] = d
				}
				return out
			},
		},
	}
}

// cointegratingResidual runs the level regression y = a + b*x and returns
// the fit with its residual series.
func cointegratingResidual(y, x []float64) (*linreg.Fit, []float64, error) {
	rows := make([][]float64, len(y))
	for i := range y {
		rows[i] = []float64{1, x[i]}
	}
	fit, err := linreg.LeastSquares(rows, y)
	if err != nil {
		return nil, nil, err
	}
	return fit, fit.Resid, nil
}
