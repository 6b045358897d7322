// Package preprocess produces the cleaned dataset copy the analysis
// consumes: mean imputation for value columns and optional z-score
// standardization. Entity and time key columns pass through untouched.
package preprocess

import (
	"math"

	montstats "github.com/montanaflynn/stats"

	"autostat/adapters/classify"
	"autostat/domain/dataset"
)

// Preprocessor transforms datasets before classification and fitting.
// Standardization is off by default: it would rescale forecast levels,
// so only explicitly scale-free analyses should enable it.
type Preprocessor struct {
	standardize bool
}

// New creates a preprocessor with imputation only.
func New() *Preprocessor {
	return &Preprocessor{}
}

// WithStandardization enables z-scoring of value columns.
func (p *Preprocessor) WithStandardization() *Preprocessor {
	p.standardize = true
	return p
}

// Transform returns a cleaned deep copy; the input is never mutated.
func (p *Preprocessor) Transform(ds dataset.Dataset) dataset.Dataset {
	out := ds.Clone()
	for i := range out.Columns {
		col := &out.Columns[i]
		if col.Kind != dataset.Numeric {
			continue
		}
		if classify.IsEntityName(col.Name) || classify.IsTimeName(col.Name) {
			continue
		}
		imputeMean(col.Values)
		if p.standardize {
			standardize(col.Values)
		}
	}
	return out
}

// imputeMean replaces NaN entries with the mean of the observed values.
// A column with no observed values is left as-is.
func imputeMean(values []float64) {
	observed := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			observed = append(observed, v)
		}
	}
	if len(observed) == 0 || len(observed) == len(values) {
		return
	}
	m, err := montstats.Mean(observed)
	if err != nil {
		return
	}
	for i, v := range values {
		if math.IsNaN(v) {
			values[i] = m
		}
	}
}

func standardize(values []float64) {
	m, err := montstats.Mean(values)
	if err != nil {
		return
	}
	sd, err := montstats.StandardDeviationSample(values)
	if err != nil || sd == 0 {
		return
	}
	for i := range values {
		values[i] = (values[i] - m) / sd
	}
}
