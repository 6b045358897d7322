package models

import (
	"context"
	"math"

	"autostat/domain/dataset"
	"autostat/domain/model"
	"autostat/internal/errors"
	"autostat/internal/linreg"
)

// arimaFamily fits ARIMA(1,1,1) by conditional sum of squares, with the
// ARMA coefficients initialized by the Hannan-Rissanen two-step regression.
// Fitness is AIC, lower is better.
type arimaFamily struct{}

func (arimaFamily) Tag() model.FamilyTag { return model.ARIMA }

func (arimaFamily) Fit(_ context.Context, ds dataset.Dataset, target string) model.ModelResult {
	series, err := seriesFor(ds, target)
	if err != nil {
		return model.Failed(model.ARIMA, target, err)
	}
	if len(series) < 15 {
		return model.Failed(model.ARIMA, target,
			errors.Fit("arima needs at least 15 observations, have %d", len(series)))
	}

	w := diff(series)
	c, phi, theta, fitErr := hannanRissanen(w)
	if fitErr != nil {
		return model.Failed(model.ARIMA, target, fitErr)
	}

	resid, sse := cssResiduals(w, c, phi, theta)
	m := len(resid)
	if m < 3 || sse <= 0 {
		return model.Failed(model.ARIMA, target, errors.Fit("arima residual recursion degenerated"))
	}
	sigma2 := sse / float64(m)
	// Full Gaussian AIC, on the same scale as the likelihood-fitted families.
	aic := float64(m)*(math.Log(2*math.Pi*sigma2)+1) + 2*4 // c, phi, theta, sigma

	return model.ModelResult{
		Family:      model.ARIMA,
		Target:      target,
		Fitness:     aic,
		FitnessKind: model.FitnessLowerBetter,
		Params: map[string]float64{
			"const": c,
			"ar1":   phi,
			"ma1":   theta,
		},
		Diagnostics: map[string]float64{
			"sigma2": sigma2,
			"nobs":   float64(m),
		},
		Fitted: &arimaProjector{
			lastLevel: series[len(series)-1],
			lastDiff:  w[len(w)-1],
			lastErr:   resid[len(resid)-1],
			c:         c,
			phi:       phi,
			theta:     theta,
			sigma:     math.Sqrt(sigma2),
		},
	}
}

// hannanRissanen estimates ARMA(1,1) coefficients on the differenced series:
// a long autoregression supplies innovation estimates, then one regression
// of w_t on w_{t-1} and the lagged innovation gives (c, phi, theta).
func hannanRissanen(w []float64) (c, phi, theta float64, err error) {
	n := len(w)
	p := int(math.Min(4, math.Floor(float64(n)/5)))
	if p < 1 {
		p = 1
	}
	if n-p < 8 {
		return 0, 0, 0, errors.Fit("too few differenced observations (%d)", n)
	}

	longRows := make([][]float64, n-p)
	longY := make([]float64, n-p)
	for i := 0; i < n-p; i++ {
		t := i + p
		row := make([]float64, 1+p)
		row[0] = 1
		for j := 1; j <= p; j++ {
			row[j] = w[t-j]
		}
		longRows[i] = row
		longY[i] = w[t]
	}
	longFit, lsErr := linreg.LeastSquares(longRows, longY)
	if lsErr != nil {
		return 0, 0, 0, lsErr
	}

	// Innovations indexed to match w from position p onward.
	innov := make([]float64, n)
	for i := 0; i < n-p; i++ {
		innov[i+p] = longFit.Resid[i]
	}

	rows := make([][]float64, 0, n-p-1)
	y := make([]float64, 0, n-p-1)
	for t := p + 1; t < n; t++ {
		rows = append(rows, []float64{1, w[t-1], innov[t-1]})
		y = append(y, w[t])
	}
	fit, lsErr := linreg.LeastSquares(rows, y)
	if lsErr != nil {
		return 0, 0, 0, lsErr
	}

	c, phi, theta = fit.Coeffs[0], fit.Coeffs[1], fit.Coeffs[2]
	phi = clamp(phi, -0.99, 0.99)
	theta = clamp(theta, -0.99, 0.99)
	return c, phi, theta, nil
}

// cssResiduals runs the ARMA(1,1) innovation recursion over the differenced
// series with e_0 = 0.
func cssResiduals(w []float64, c, phi, theta float64) ([]float64, float64) {
	resid := make([]float64, 0, len(w)-1)
	sse := 0.0
	prevErr := 0.0
	for t := 1; t < len(w); t++ {
		e := w[t] - c - phi*w[t-1] - theta*prevErr
		resid = append(resid, e)
		sse += e * e
		prevErr = e
	}
	return resid, sse
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// arimaProjector forecasts differences through the ARMA recursion and
// integrates back to the level scale. Forecast standard errors follow the
// psi-weight expansion of the integrated process, so bands widen with the
// horizon.
type arimaProjector struct {
	lastLevel float64
	lastDiff  float64
	lastErr   float64
	c         float64
	phi       float64
	theta     float64
	sigma     float64
}

func (p *arimaProjector) Project(steps int) ([]float64, []float64, error) {
	if steps <= 0 {
		return nil, nil, errors.InvalidInput("projection steps must be positive")
	}

	points := make([]float64, steps)
	stderrs := make([]float64, steps)

	level := p.lastLevel
	prevDiff := p.lastDiff
	prevErr := p.lastErr
	cumPsi := 1.0 // psi_0
	varSum := 0.0
	psi := 0.0

	for h := 1; h <= steps; h++ {
		d := p.c + p.phi*prevDiff + p.theta*prevErr
		level += d
		points[h-1] = level
		prevDiff = d
		prevErr = 0 // future innovations are unknown

		varSum += cumPsi * cumPsi
		stderrs[h-1] = p.sigma * math.Sqrt(varSum)

		if h == 1 {
			psi = p.phi + p.theta
		} else {
			psi *= p.phi
		}
		cumPsi += psi
	}
	return points, stderrs, nil
}
