package model

import (
	"encoding/json"
	"math"
)

// FamilyTag names one candidate model family. The set is closed: the
// decision table maps (structure, scale) to an ordered list of tags and
// every tag has exactly one fitter behind it.
type FamilyTag string

const (
	ECM           FamilyTag = "ecm"
	VECM          FamilyTag = "vecm"
	Granger       FamilyTag = "granger"
	ARIMA         FamilyTag = "arima"
	GARCH         FamilyTag = "garch"
	VARIMA        FamilyTag = "varima"
	OLS           FamilyTag = "ols"
	RandomForest  FamilyTag = "random_forest"
	GradientBoost FamilyTag = "gradient_boost"
	FixedEffects  FamilyTag = "fixed_effects"
	RandomEffects FamilyTag = "random_effects"
)

// FitnessKind declares the comparison direction of a fitness value.
type FitnessKind string

const (
	FitnessHigherBetter FitnessKind = "higher_better" // R², pseudo-R²
	FitnessLowerBetter  FitnessKind = "lower_better"  // AIC
)

// Projector projects future periods from a fitted model. Stderrs are
// per-step forecast standard errors; for autoregressive models they are
// non-decreasing in the step index.
type Projector interface {
	Project(steps int) (points []float64, stderrs []float64, err error)
}

// ModelResult records one attempted fit. A result with Err set has no
// usable Fitted projector and a sentinel -Inf fitness.
type ModelResult struct {
	Family      FamilyTag          `json:"model_name"`
	Target      string             `json:"target"`
	Fitness     float64            `json:"fitness"`
	FitnessKind FitnessKind        `json:"fitness_kind"`
	Params      map[string]float64 `json:"params,omitempty"`
	Diagnostics map[string]float64 `json:"diagnostics,omitempty"` // test name -> p-value
	Fitted      Projector          `json:"-"`
	Err         string             `json:"error,omitempty"`
}

// Failed creates the error-sentinel result for a fit that did not converge
// or could not be attempted against the data.
func Failed(family FamilyTag, target string, err error) ModelResult {
	return ModelResult{
		Family:  family,
		Target:  target,
		Fitness: math.Inf(-1),
		Err:     err.Error(),
	}
}

// OK reports whether the fit produced a usable model.
func (r ModelResult) OK() bool {
	return r.Err == ""
}

// MarshalJSON renders the -Inf failure sentinel and any non-finite
// diagnostic p-value as null; JSON has no Inf or NaN.
func (r ModelResult) MarshalJSON() ([]byte, error) {
	type plain ModelResult
	out := struct {
		Fitness     *float64            `json:"fitness"`
		Diagnostics map[string]*float64 `json:"diagnostics,omitempty"`
		plain
	}{plain: plain(r)}
	if !math.IsNaN(r.Fitness) && !math.IsInf(r.Fitness, 0) {
		out.Fitness = &r.Fitness
	}
	if r.Diagnostics != nil {
		out.Diagnostics = make(map[string]*float64, len(r.Diagnostics))
		for name, p := range r.Diagnostics {
			if math.IsNaN(p) || math.IsInf(p, 0) {
				out.Diagnostics[name] = nil
				continue
			}
			v := p
			out.Diagnostics[name] = &v
		}
	}
	return json.Marshal(out)
}
