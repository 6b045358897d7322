package models

import (
	"context"

	"gonum.org/v1/gonum/stat/distuv"

	"autostat/domain/dataset"
	"autostat/domain/model"
	"autostat/internal/errors"
	"autostat/internal/linreg"
)

// grangerFamily tests whether the companion series helps predict the target
// beyond its own lags: an F-test of the lag-augmented regression against the
// own-lags-only one. With a single value column it degrades to the own-lag
// autoregression and reports the joint significance of the target's own
// history. Fitness is the unrestricted equation's R².
type grangerFamily struct {
	maxLag int
}

func (grangerFamily) Tag() model.FamilyTag { return model.Granger }

func (f grangerFamily) Fit(_ context.Context, ds dataset.Dataset, target string) model.ModelResult {
	y, x, _, pairErr := pairFor(ds, target)
	if pairErr != nil {
		// Single value column: test the target's own lags instead.
		series, err := seriesFor(ds, target)
		if err != nil {
			return model.Failed(model.Granger, target, err)
		}
		y, x = series, nil
	}

	n := len(y)
	p := f.maxLag
	if p < 1 {
		p = 1
	}
	if cap := (n - 2) / 3; p > cap {
		p = cap
	}
	if p < 1 || n-p < 10 {
		return model.Failed(model.Granger, target,
			errors.Fit("granger needs more observations than lags, have %d", n))
	}

	m := n - p
	restricted := make([][]float64, m)
	unrestricted := make([][]float64, m)
	resp := make([]float64, m)
	for i := 0; i < m; i++ {
		t := i + p
		resp[i] = y[t]
		r := make([]float64, 1+p)
		r[0] = 1
		for j := 1; j <= p; j++ {
			r[j] = y[t-j]
		}
		restricted[i] = r
		if x != nil {
			u := make([]float64, 1+2*p)
			copy(u, r)
			for j := 1; j <= p; j++ {
				u[p+j] = x[t-j]
			}
			unrestricted[i] = u
		}
	}

	var fStat, pValue, fitness float64
	var residStd float64
	if x == nil {
		// Own-lag autoregression against the intercept-only model.
		fit, err := linreg.LeastSquares(restricted, resp)
		if err != nil {
			return model.Failed(model.Granger, target, err)
		}
		sseNull := nullSSE(resp)
		fStat, pValue = fTest(sseNull, fit.SSE, p, m-p-1)
		fitness = fit.RSq
		residStd = fit.ResidStd()
	} else {
		rFit, err := linreg.LeastSquares(restricted, resp)
		if err != nil {
			return model.Failed(model.Granger, target, err)
		}
		uFit, err := linreg.LeastSquares(unrestricted, resp)
		if err != nil {
			return model.Failed(model.Granger, target, err)
		}
		fStat, pValue = fTest(rFit.SSE, uFit.SSE, p, m-2*p-1)
		fitness = uFit.RSq
		residStd = uFit.ResidStd()
	}

	// Projection continues the target's linear time trend; the causality
	// statistic itself is not a forecasting equation.
	trendRows := make([][]float64, n)
	for i := 0; i < n; i++ {
		trendRows[i] = []float64{1, float64(i)}
	}
	trendFit, err := linreg.LeastSquares(trendRows, y)
	if err != nil {
		return model.Failed(model.Granger, target, err)
	}

	return model.ModelResult{
		Family:      model.Granger,
		Target:      target,
		Fitness:     fitness,
		FitnessKind: model.FitnessHigherBetter,
		Params: map[string]float64{
			"f_stat":  fStat,
			"p_value": pValue,
			"lags":    float64(p),
		},
		Diagnostics: map[string]float64{
			"r_squared": fitness,
			"nobs":      float64(m),
		},
		Fitted: &trendProjector{
			intercept: trendFit.Coeffs[0],
			slope:     trendFit.Coeffs[1],
			lastIndex: float64(n - 1),
			residStd:  residStd,
		},
	}
}

// fTest compares nested regressions with q restrictions and df denominator
// degrees of freedom.
func fTest(sseRestricted, sseUnrestricted float64, q, df int) (stat, p float64) {
	if df <= 0 || sseUnrestricted <= 0 {
		return 0, 1
	}
	stat = ((sseRestricted - sseUnrestricted) / float64(q)) / (sseUnrestricted / float64(df))
	if stat < 0 {
		stat = 0
	}
	dist := distuv.F{D1: float64(q), D2: float64(df)}
	return stat, 1 - dist.CDF(stat)
}

func nullSSE(y []float64) float64 {
	m := meanOf(y)
	s := 0.0
	for _, v := range y {
		d := v - m
		s += d * d
	}
	return s
}
