package models

import (
	"context"
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"autostat/domain/dataset"
	"autostat/domain/model"
	"autostat/internal/errors"
	"autostat/internal/linreg"
)

// olsFamily fits ordinary least squares of the target on every remaining
// value column. Fitness is R².
type olsFamily struct{}

func (olsFamily) Tag() model.FamilyTag { return model.OLS }

func (olsFamily) Fit(_ context.Context, ds dataset.Dataset, target string) model.ModelResult {
	d, err := buildDesign(ds, target)
	if err != nil {
		return model.Failed(model.OLS, target, err)
	}
	if len(d.y) <= len(d.names)+2 {
		return model.Failed(model.OLS, target,
			errors.Fit("ols needs more observations than regressors, have %d", len(d.y)))
	}

	fit, err := linreg.LeastSquares(withIntercept(d.rows), d.y)
	if err != nil {
		return model.Failed(model.OLS, target, err)
	}

	params := map[string]float64{"intercept": fit.Coeffs[0]}
	diags := map[string]float64{
		"r_squared": fit.RSq,
		"nobs":      float64(len(d.y)),
	}
	for j, name := range d.names {
		params["beta_"+name] = fit.Coeffs[1+j]
	}

	// Per-coefficient two-sided p-values when standard errors exist.
	if fit.SE != nil {
		df := float64(len(d.y) - len(fit.Coeffs))
		if df > 0 {
			dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
			for j, name := range d.names {
				if fit.SE[1+j] > 0 {
					t := fit.Coeffs[1+j] / fit.SE[1+j]
					diags["p_"+name] = 2 * (1 - dist.CDF(math.Abs(t)))
				}
			}
		}
	}

	return model.ModelResult{
		Family:      model.OLS,
		Target:      target,
		Fitness:     fit.RSq,
		FitnessKind: model.FitnessHigherBetter,
		Params:      params,
		Diagnostics: diags,
		Fitted: &regressionProjector{
			intercept: fit.Coeffs[0],
			coeffs:    fit.Coeffs[1:],
			lastRow:   d.lastRow,
			residStd:  fit.ResidStd(),
		},
	}
}
