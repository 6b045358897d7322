package assumptions

import (
	"math"

	"autostat/internal/errors"
)

// adfOutcome carries the Augmented Dickey-Fuller test result.
// Null hypothesis: the series has a unit root (non-stationary).
type adfOutcome struct {
	stat   float64
	pValue float64
	lags   int
	nObs   int
}

// adfTest runs an ADF regression with constant:
// delta_y_t = alpha + beta*y_{t-1} + sum(gamma_i * delta_y_{t-i}) + eps,
// testing beta = 0. A maxLag <= 0 selects floor((n-1)^(1/3)).
func adfTest(series []float64, maxLag int) (adfOutcome, error) {
	n := len(series)
	if n < 10 {
		return adfOutcome{}, errors.Test("adf needs at least 10 observations, have %d", n)
	}

	if maxLag <= 0 {
		maxLag = int(math.Floor(math.Pow(float64(n-1), 1.0/3.0)))
	}
	if maxLag >= n-1 {
		maxLag = n - 2
	}

	diff := difference(series)

	nObs := n - maxLag - 1
	if nObs < 10 {
		return adfOutcome{}, errors.Test("adf has too few usable observations after lagging")
	}

	y := make([]float64, nObs)
	rows := make([][]float64, nObs)
	for i := 0; i < nObs; i++ {
		t := i + maxLag
		y[i] = diff[t]

		row := make([]float64, 2+maxLag)
		row[0] = 1
		row[1] = series[t] // lagged level
		for j := 1; j <= maxLag; j++ {
			row[1+j] = diff[t-j]
		}
		rows[i] = row
	}

	fit, err := leastSquares(rows, y)
	if err != nil {
		return adfOutcome{}, err
	}
	if fit.SE == nil || fit.SE[1] == 0 {
		return adfOutcome{}, errors.Test("adf regression produced no standard errors")
	}

	tStat := fit.Coeffs[1] / fit.SE[1]
	return adfOutcome{
		stat:   tStat,
		pValue: mackinnonPValue(tStat),
		lags:   maxLag,
		nObs:   nObs,
	}, nil
}

// kpssOutcome carries the KPSS test result.
// Null hypothesis: the series is (level) stationary.
type kpssOutcome struct {
	stat   float64
	pValue float64
	lags   int
}

// kpssTest runs the level-stationarity KPSS test with a Newey-West long-run
// variance estimate using Bartlett weights. nlags <= 0 selects the usual
// ceil(12*(n/100)^(1/4)).
func kpssTest(series []float64, nlags int) (kpssOutcome, error) {
	n := len(series)
	if n < 10 {
		return kpssOutcome{}, errors.Test("kpss needs at least 10 observations, have %d", n)
	}

	if nlags <= 0 {
		nlags = int(math.Ceil(12 * math.Pow(float64(n)/100, 0.25)))
	}

	m := 0.0
	for _, v := range series {
		m += v
	}
	m /= float64(n)

	residuals := make([]float64, n)
	for i, v := range series {
		residuals[i] = v - m
	}

	cumSum := make([]float64, n)
	cumSum[0] = residuals[0]
	for i := 1; i < n; i++ {
		cumSum[i] = cumSum[i-1] + residuals[i]
	}

	s2 := 0.0
	for _, r := range residuals {
		s2 += r * r
	}
	s2 /= float64(n)

	for l := 1; l <= nlags; l++ {
		cov := 0.0
		for i := l; i < n; i++ {
			cov += residuals[i] * residuals[i-l]
		}
		cov /= float64(n)
		weight := 1.0 - float64(l)/float64(nlags+1)
		s2 += 2 * weight * cov
	}
	if s2 <= 0 {
		s2 = 1e-10
	}

	etaSq := 0.0
	for _, cs := range cumSum {
		etaSq += cs * cs
	}
	stat := etaSq / (float64(n) * float64(n) * s2)

	return kpssOutcome{
		stat:   stat,
		pValue: kpssPValue(stat),
		lags:   nlags,
	}, nil
}

// IntegrationOrder differences the series until ADF rejects a unit root,
// returning the order d in I(d). The bool is false when the series is still
// non-stationary after maxDiff differences or the test could not run.
func IntegrationOrder(series []float64, maxDiff int, alpha float64) (int, bool) {
	current := series
	for d := 0; d <= maxDiff; d++ {
		out, err := adfTest(current, 0)
		if err != nil {
			return 0, false
		}
		if out.pValue < alpha {
			return d, true
		}
		if d < maxDiff {
			current = difference(current)
			if len(current) < 10 {
				return 0, false
			}
		}
	}
	return 0, false
}

// mackinnonPValue approximates the ADF p-value by interpolating MacKinnon
// critical values for the constant-only regression.
func mackinnonPValue(stat float64) float64 {
	switch {
	case stat < -3.96:
		return 0.001
	case stat < -3.43:
		return 0.01
	case stat < -2.86:
		return 0.05
	case stat < -2.57:
		return 0.10
	case stat < -1.94:
		return 0.25
	case stat < -1.62:
		return 0.50
	default:
		return math.Min(0.5+(stat+1.62)*0.25, 0.99)
	}
}

// kpssPValue approximates the level-stationarity KPSS p-value from its
// critical-value table.
func kpssPValue(stat float64) float64 {
	switch {
	case stat > 0.739:
		return 0.01
	case stat > 0.463:
		return 0.05
	case stat > 0.347:
		return 0.10
	default:
		return math.Min(0.10+(0.347-stat)*0.5, 0.99)
	}
}

func difference(series []float64) []float64 {
	if len(series) < 2 {
		return nil
	}
	out := make([]float64, len(series)-1)
	for i := 1; i < len(series); i++ {
		out[i-1] = series[i] - series[i-1]
	}
	return out
}
