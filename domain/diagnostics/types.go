package diagnostics

import (
	"encoding/json"
	"fmt"
	"math"
)

// TestResult is the outcome of one assumption test. Exactly one of
// "Passed meaningfully set" or "Err set" holds: a test that could not run
// reports Err and its Passed value carries no meaning.
type TestResult struct {
	Name      string  `json:"name"`
	Statistic float64 `json:"statistic"` // NaN when the test has no statistic
	PValue    float64 `json:"p_value"`   // NaN when the test has no p-value
	Passed    bool    `json:"passed"`
	Detail    string  `json:"detail"`
	Err       string  `json:"error,omitempty"`
}

// Ran reports whether the test executed and its Passed value is meaningful.
func (r TestResult) Ran() bool {
	return r.Err == ""
}

// MarshalJSON renders an absent statistic or p-value as null; JSON has no NaN.
func (r TestResult) MarshalJSON() ([]byte, error) {
	type plain TestResult
	out := struct {
		Statistic *float64 `json:"statistic"`
		PValue    *float64 `json:"p_value"`
		plain
	}{plain: plain(r)}
	if !math.IsNaN(r.Statistic) {
		out.Statistic = &r.Statistic
	}
	if !math.IsNaN(r.PValue) {
		out.PValue = &r.PValue
	}
	return json.Marshal(out)
}

// Outcome creates a completed result with a statistic and p-value.
func Outcome(name string, statistic, pValue float64, passed bool, detail string) TestResult {
	return TestResult{
		Name:      name,
		Statistic: statistic,
		PValue:    pValue,
		Passed:    passed,
		Detail:    detail,
	}
}

// Verdict creates a completed result that has no test statistic,
// e.g. a structural check that passes or fails by inspection.
func Verdict(name string, passed bool, detail string) TestResult {
	return TestResult{
		Name:      name,
		Statistic: math.NaN(),
		PValue:    math.NaN(),
		Passed:    passed,
		Detail:    detail,
	}
}

// Unrunnable records a test that could not execute.
func Unrunnable(name, format string, args ...interface{}) TestResult {
	return TestResult{
		Name:      name,
		Statistic: math.NaN(),
		PValue:    math.NaN(),
		Err:       fmt.Sprintf(format, args...),
	}
}
