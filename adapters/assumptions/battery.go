// Package assumptions runs the fixed diagnostic battery that gates model
// interpretation: sampling, independence, exogeneity, homoscedasticity,
// autocorrelation, residual normality, stationarity, and trend. Each test
// is individually fallible; a test that cannot run reports an error on its
// own result and the suite continues.
package assumptions

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"autostat/domain/dataset"
	"autostat/domain/diagnostics"
	"autostat/domain/metadata"
	"autostat/internal/config"
)

// Test names, in battery order. Stationarity and trend fan out per column.
const (
	TestSampling        = "sampling_adequacy"
	TestIndependence    = "independence"
	TestExogeneity      = "exogeneity"
	TestHomoscedastic   = "homoscedasticity"
	TestNoAutocorr      = "no_autocorrelation"
	TestNormality       = "residual_normality"
	TestADFPrefix       = "adf:"
	TestKPSSPrefix      = "kpss:"
	TestTrendPrefix     = "trend:"
	minResidualsForTest = 8
)

// Suite executes the battery in its fixed order so later tests can reuse
// the baseline-fit residuals computed up front.
type Suite struct {
	cfg config.Config
}

// NewSuite creates a battery with the given thresholds.
func NewSuite(cfg config.Config) *Suite {
	return &Suite{cfg: cfg}
}

// Run executes all tests against the (preprocessed) dataset. It never
// aborts on a failed assumption; only the per-test results record trouble.
func (s *Suite) Run(ctx context.Context, ds dataset.Dataset, meta metadata.Metadata, target string) []diagnostics.TestResult {
	results := make([]diagnostics.TestResult, 0, 8+2*len(ds.NumericColumns()))

	// Residuals from a baseline fit, shared by tests 3-6.
	resid, fitted, baseErr := s.baselineResiduals(ds, target)

	results = append(results, s.samplingAdequacy(ds))
	results = append(results, s.independence(ds, meta, resid, target))
	results = append(results, s.exogeneity(resid, baseErr))
	results = append(results, s.homoscedasticity(resid, fitted, baseErr))
	results = append(results, s.durbinWatson(resid, baseErr))
	results = append(results, s.jarqueBera(resid, baseErr))

	for _, col := range ds.NumericColumns() {
		if ctx.Err() != nil {
			break
		}
		results = append(results, s.adf(col))
		results = append(results, s.kpss(col))
	}
	for _, col := range ds.NumericColumns() {
		if ctx.Err() != nil {
			break
		}
		results = append(results, s.trend(col))
	}

	return results
}

// baselineResiduals fits target on the remaining numeric columns (or on the
// row index when the target is the only numeric column) so residual-based
// tests have something to inspect before any candidate model exists.
func (s *Suite) baselineResiduals(ds dataset.Dataset, target string) (resid, fitted []float64, err error) {
	targetCol, ok := ds.Column(target)
	if !ok || targetCol.Kind != dataset.Numeric {
		return nil, nil, fmt.Errorf("target column %q not found among numeric columns", target)
	}

	n := targetCol.Len()
	features := make([]dataset.Column, 0)
	for _, c := range ds.NumericColumns() {
		if c.Name != target {
			features = append(features, c)
		}
	}

	rows := make([][]float64, n)
	for i := 0; i < n; i++ {
		width := len(features)
		if width == 0 {
			width = 1
		}
		row := make([]float64, 1+width)
		row[0] = 1
		if len(features) == 0 {
			row[1] = float64(i) // fall back to a time-index regressor
		} else {
			for j, f := range features {
				row[1+j] = f.Values[i]
			}
		}
		rows[i] = row
	}

	rows, y := dropMissingRows(rows, targetCol.Values)
	fit, lsErr := leastSquares(rows, y)
	if lsErr != nil {
		return nil, nil, lsErr
	}
	return fit.Resid, fit.Fitted, nil
}

// samplingAdequacy flags datasets below the minimum usable sample.
func (s *Suite) samplingAdequacy(ds dataset.Dataset) diagnostics.TestResult {
	n := ds.Rows()
	passed := n >= s.cfg.MinSampleSize
	detail := fmt.Sprintf("%d rows against minimum of %d", n, s.cfg.MinSampleSize)
	r := diagnostics.Verdict(TestSampling, passed, detail)
	r.Statistic = float64(n)
	return r
}

// independence checks lag-1 autocorrelation of the residualized series for
// time-indexed data; cross-section data passes trivially.
func (s *Suite) independence(ds dataset.Dataset, meta metadata.Metadata, resid []float64, target string) diagnostics.TestResult {
	if meta.Structure == metadata.CrossSection {
		return diagnostics.Verdict(TestIndependence, true,
			"cross-section observations are treated as independently sampled")
	}

	series := resid
	if len(series) < minResidualsForTest {
		// No usable baseline fit: fall back to the demeaned target.
		col, ok := ds.Column(target)
		if !ok {
			return diagnostics.Unrunnable(TestIndependence, "no residuals and no target column %q", target)
		}
		series = demean(col.NonMissing())
	}
	if len(series) < minResidualsForTest {
		return diagnostics.Unrunnable(TestIndependence, "too few observations for lag-1 autocorrelation")
	}

	r1 := lag1Autocorr(series)
	if math.IsNaN(r1) {
		return diagnostics.Unrunnable(TestIndependence, "zero-variance series")
	}
	passed := math.Abs(r1) < s.cfg.MaxAutocorr
	detail := fmt.Sprintf("lag-1 autocorrelation %.3f against limit %.2f", r1, s.cfg.MaxAutocorr)
	r := diagnostics.Verdict(TestIndependence, passed, detail)
	r.Statistic = r1
	return r
}

// exogeneity tests whether the baseline residual mean is zero via a
// one-sample t-test. Without a prior fit the test is skipped with an error.
func (s *Suite) exogeneity(resid []float64, baseErr error) diagnostics.TestResult {
	if baseErr != nil {
		return diagnostics.Unrunnable(TestExogeneity, "no prior fit available: %v", baseErr)
	}
	n := len(resid)
	if n < minResidualsForTest {
		return diagnostics.Unrunnable(TestExogeneity, "too few residuals (%d)", n)
	}

	m := meanOf(resid)
	sd := sampleStd(resid, m)
	if sd == 0 {
		return diagnostics.Unrunnable(TestExogeneity, "degenerate residual variance")
	}

	t := m / (sd / math.Sqrt(float64(n)))
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(n - 1)}
	p := 2 * (1 - dist.CDF(math.Abs(t)))
	passed := p > s.cfg.Alpha
	detail := fmt.Sprintf("residual mean %.4g, t=%.3f", m, t)
	return diagnostics.Outcome(TestExogeneity, t, p, passed, detail)
}

// homoscedasticity runs a Breusch-Pagan style test: squared residuals
// regressed on fitted values, LM = n*R² against chi²(1).
func (s *Suite) homoscedasticity(resid, fitted []float64, baseErr error) diagnostics.TestResult {
	if baseErr != nil {
		return diagnostics.Unrunnable(TestHomoscedastic, "no prior fit available: %v", baseErr)
	}
	n := len(resid)
	if n < minResidualsForTest {
		return diagnostics.Unrunnable(TestHomoscedastic, "too few residuals (%d)", n)
	}

	rows := make([][]float64, n)
	sq := make([]float64, n)
	for i := 0; i < n; i++ {
		rows[i] = []float64{1, fitted[i]}
		sq[i] = resid[i] * resid[i]
	}
	aux, err := leastSquares(rows, sq)
	if err != nil {
		return diagnostics.Unrunnable(TestHomoscedastic, "auxiliary regression failed: %v", err)
	}

	lm := float64(n) * aux.RSq
	p := 1 - distuv.ChiSquared{K: 1}.CDF(lm)
	passed := p > s.cfg.Alpha
	detail := fmt.Sprintf("breusch-pagan LM=%.3f on %d residuals", lm, n)
	return diagnostics.Outcome(TestHomoscedastic, lm, p, passed, detail)
}

// durbinWatson checks the residual autocorrelation statistic against the
// configured acceptance band around 2.
func (s *Suite) durbinWatson(resid []float64, baseErr error) diagnostics.TestResult {
	if baseErr != nil {
		return diagnostics.Unrunnable(TestNoAutocorr, "no prior fit available: %v", baseErr)
	}
	if len(resid) < minResidualsForTest {
		return diagnostics.Unrunnable(TestNoAutocorr, "too few residuals (%d)", len(resid))
	}

	var num, den float64
	for i := 1; i < len(resid); i++ {
		d := resid[i] - resid[i-1]
		num += d * d
	}
	for _, e := range resid {
		den += e * e
	}
	if den == 0 {
		return diagnostics.Unrunnable(TestNoAutocorr, "degenerate residual variance")
	}

	dw := num / den
	passed := dw >= s.cfg.DWLower && dw <= s.cfg.DWUpper
	detail := fmt.Sprintf("durbin-watson %.3f against band [%.1f, %.1f]", dw, s.cfg.DWLower, s.cfg.DWUpper)
	r := diagnostics.Verdict(TestNoAutocorr, passed, detail)
	r.Statistic = dw
	return r
}

// jarqueBera tests residual normality from sample skewness and kurtosis.
func (s *Suite) jarqueBera(resid []float64, baseErr error) diagnostics.TestResult {
	if baseErr != nil {
		return diagnostics.Unrunnable(TestNormality, "no prior fit available: %v", baseErr)
	}
	n := len(resid)
	if n < minResidualsForTest {
		return diagnostics.Unrunnable(TestNormality, "too few residuals (%d)", n)
	}

	m := meanOf(resid)
	var m2, m3, m4 float64
	for _, e := range resid {
		d := e - m
		m2 += d * d
		m3 += d * d * d
		m4 += d * d * d * d
	}
	m2 /= float64(n)
	m3 /= float64(n)
	m4 /= float64(n)
	if m2 == 0 {
		return diagnostics.Unrunnable(TestNormality, "degenerate residual variance")
	}

	skew := m3 / math.Pow(m2, 1.5)
	kurt := m4 / (m2 * m2)
	jb := float64(n) / 6 * (skew*skew + (kurt-3)*(kurt-3)/4)
	p := 1 - distuv.ChiSquared{K: 2}.CDF(jb)
	passed := p > s.cfg.Alpha
	detail := fmt.Sprintf("jarque-bera %.3f (skew %.3f, kurtosis %.3f)", jb, skew, kurt)
	return diagnostics.Outcome(TestNormality, jb, p, passed, detail)
}

// adf reports the unit-root test for one column. Passing means the null of
// a unit root was rejected at alpha, i.e. the column looks stationary.
func (s *Suite) adf(col dataset.Column) diagnostics.TestResult {
	name := TestADFPrefix + col.Name
	out, err := adfTest(col.NonMissing(), 0)
	if err != nil {
		return diagnostics.Unrunnable(name, "%v", err)
	}
	passed := out.pValue < s.cfg.Alpha
	detail := fmt.Sprintf("adf t=%.3f with %d lags, %d obs", out.stat, out.lags, out.nObs)
	return diagnostics.Outcome(name, out.stat, out.pValue, passed, detail)
}

// kpss reports the stationarity test for one column. Passing means the null
// of stationarity was NOT rejected at alpha.
func (s *Suite) kpss(col dataset.Column) diagnostics.TestResult {
	name := TestKPSSPrefix + col.Name
	out, err := kpssTest(col.NonMissing(), 0)
	if err != nil {
		return diagnostics.Unrunnable(name, "%v", err)
	}
	passed := out.pValue > s.cfg.Alpha
	detail := fmt.Sprintf("kpss %.3f with %d lags", out.stat, out.lags)
	return diagnostics.Outcome(name, out.stat, out.pValue, passed, detail)
}

// trend reports slope direction and magnitude from a regression on the row
// index. It is informational, not a gate: Passed is true whenever the
// regression ran.
func (s *Suite) trend(col dataset.Column) diagnostics.TestResult {
	name := TestTrendPrefix + col.Name
	series := col.NonMissing()
	n := len(series)
	if n < minResidualsForTest {
		return diagnostics.Unrunnable(name, "too few observations (%d)", n)
	}

	rows := make([][]float64, n)
	for i := 0; i < n; i++ {
		rows[i] = []float64{1, float64(i)}
	}
	fit, err := leastSquares(rows, series)
	if err != nil {
		return diagnostics.Unrunnable(name, "%v", err)
	}

	slope := fit.Coeffs[1]
	p := math.NaN()
	if fit.SE != nil && fit.SE[1] > 0 {
		t := slope / fit.SE[1]
		dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(n - 2)}
		p = 2 * (1 - dist.CDF(math.Abs(t)))
	}

	direction := "increasing"
	if slope < 0 {
		direction = "decreasing"
	}
	sd := sampleStd(series, meanOf(series))
	normalized := 0.0
	if sd > 0 {
		normalized = slope / sd
	}
	detail := fmt.Sprintf("%s trend, slope %.4g (normalized %.4g)", direction, slope, normalized)
	return diagnostics.Outcome(name, slope, p, true, detail)
}

func lag1Autocorr(series []float64) float64 {
	n := len(series)
	if n < 2 {
		return math.NaN()
	}
	m := meanOf(series)
	var num, den float64
	for i := 1; i < n; i++ {
		num += (series[i] - m) * (series[i-1] - m)
	}
	for _, v := range series {
		d := v - m
		den += d * d
	}
	if den == 0 {
		return math.NaN()
	}
	return num / den
}

func meanOf(vals []float64) float64 {
	s := 0.0
	for _, v := range vals {
		s += v
	}
	return s / float64(len(vals))
}

func sampleStd(vals []float64, m float64) float64 {
	if len(vals) < 2 {
		return 0
	}
	s := 0.0
	for _, v := range vals {
		d := v - m
		s += d * d
	}
	return math.Sqrt(s / float64(len(vals)-1))
}

func demean(vals []float64) []float64 {
	m := meanOf(vals)
	out := make([]float64, len(vals))
	for i, v := range vals {
		out[i] = v - m
	}
	return out
}
