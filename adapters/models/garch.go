package models

import (
	"context"
	"math"

	"autostat/domain/dataset"
	"autostat/domain/model"
	"autostat/internal/errors"
)

// garchFamily fits a GARCH(1,1) on the differenced target by maximizing the
// Gaussian likelihood over an (alpha, beta) grid with variance targeting:
// omega is pinned so the implied unconditional variance matches the sample.
// Fitness is AIC, lower is better.
type garchFamily struct{}

func (garchFamily) Tag() model.FamilyTag { return model.GARCH }

func (garchFamily) Fit(_ context.Context, ds dataset.Dataset, target string) model.ModelResult {
	series, err := seriesFor(ds, target)
	if err != nil {
		return model.Failed(model.GARCH, target, err)
	}
	if len(series) < 20 {
		return model.Failed(model.GARCH, target,
			errors.Fit("garch needs at least 20 observations, have %d", len(series)))
	}

	returns := diff(series)
	mu := meanOf(returns)
	eps := make([]float64, len(returns))
	for i, r := range returns {
		eps[i] = r - mu
	}
	sampleVar := varianceOf(returns)
	if sampleVar <= 0 {
		return model.Failed(model.GARCH, target, errors.Fit("garch target has zero variance"))
	}

	bestLL := math.Inf(-1)
	var bestAlpha, bestBeta, bestOmega, bestLastH float64
	for alpha := 0.02; alpha <= 0.30; alpha += 0.02 {
		for beta := 0.50; beta <= 0.96; beta += 0.02 {
			if alpha+beta >= 0.999 {
				continue
			}
			omega := sampleVar * (1 - alpha - beta)
			ll, lastH := garchLogLik(eps, omega, alpha, beta, sampleVar)
			if ll > bestLL {
				bestLL = ll
				bestAlpha, bestBeta, bestOmega = alpha, beta, omega
				bestLastH = lastH
			}
		}
	}
	if math.IsInf(bestLL, -1) {
		return model.Failed(model.GARCH, target, errors.Fit("garch likelihood search found no admissible point"))
	}

	n := len(eps)
	aic := -2*bestLL + 2*4 // mu, omega, alpha, beta

	return model.ModelResult{
		Family:      model.GARCH,
		Target:      target,
		Fitness:     aic,
		FitnessKind: model.FitnessLowerBetter,
		Params: map[string]float64{
			"mu":    mu,
			"omega": bestOmega,
			"alpha": bestAlpha,
			"beta":  bestBeta,
		},
		Diagnostics: map[string]float64{
			"log_likelihood": bestLL,
			"nobs":           float64(n),
		},
		Fitted: &garchProjector{
			lastLevel: series[len(series)-1],
			mu:        mu,
			omega:     bestOmega,
			alpha:     bestAlpha,
			beta:      bestBeta,
			lastEps:   eps[len(eps)-1],
			lastH:     bestLastH,
		},
	}
}

// garchLogLik evaluates the Gaussian log-likelihood of the variance
// recursion h_t = omega + alpha*e²_{t-1} + beta*h_{t-1}, seeded at the
// sample variance. It also returns the final conditional variance.
func garchLogLik(eps []float64, omega, alpha, beta, h0 float64) (ll, lastH float64) {
	h := h0
	for t := 0; t < len(eps); t++ {
		if t > 0 {
			h = omega + alpha*eps[t-1]*eps[t-1] + beta*h
		}
		if h <= 0 {
			return math.Inf(-1), 0
		}
		ll += -0.5 * (math.Log(2*math.Pi) + math.Log(h) + eps[t]*eps[t]/h)
	}
	return ll, h
}

// garchProjector forecasts the level as a constant drift from the last
// observation; the band width accumulates the forecast conditional
// variances, which decay toward the unconditional level.
type garchProjector struct {
	lastLevel float64
	mu        float64
	omega     float64
	alpha     float64
	beta      float64
	lastEps   float64
	lastH     float64
}

func (p *garchProjector) Project(steps int) ([]float64, []float64, error) {
	if steps <= 0 {
		return nil, nil, errors.InvalidInput("projection steps must be positive")
	}
	points := make([]float64, steps)
	stderrs := make([]float64, steps)

	h := p.omega + p.alpha*p.lastEps*p.lastEps + p.beta*p.lastH
	varSum := 0.0
	for k := 1; k <= steps; k++ {
		if k > 1 {
			h = p.omega + (p.alpha+p.beta)*h
		}
		varSum += h
		points[k-1] = p.lastLevel + float64(k)*p.mu
		stderrs[k-1] = math.Sqrt(varSum)
	}
	return points, stderrs, nil
}
