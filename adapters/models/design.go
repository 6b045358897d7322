package models

import (
	"math"

	"autostat/adapters/classify"
	"autostat/domain/dataset"
	"autostat/internal/errors"
)

// design is the feature view for one target: rows aligned across columns
// with missing rows dropped, features excluding the target and any entity
// or time key columns. When a dataset has no usable features the row index
// stands in as the sole regressor.
type design struct {
	names   []string
	rows    [][]float64 // intercept-free feature rows
	y       []float64
	lastRow []float64 // feature values of the final retained row
}

func buildDesign(ds dataset.Dataset, target string) (*design, error) {
	targetCol, ok := ds.Column(target)
	if !ok || targetCol.Kind != dataset.Numeric {
		return nil, errors.InvalidInput("target column not found")
	}

	features := make([]dataset.Column, 0)
	for _, c := range ds.NumericColumns() {
		if c.Name == target || classify.IsEntityName(c.Name) || classify.IsTimeName(c.Name) {
			continue
		}
		features = append(features, c)
	}

	n := targetCol.Len()
	d := &design{}
	if len(features) == 0 {
		d.names = []string{"index"}
		for i := 0; i < n; i++ {
			if math.IsNaN(targetCol.Values[i]) {
				continue
			}
			d.rows = append(d.rows, []float64{float64(i)})
			d.y = append(d.y, targetCol.Values[i])
		}
	} else {
		for _, f := range features {
			d.names = append(d.names, f.Name)
		}
		for i := 0; i < n; i++ {
			if math.IsNaN(targetCol.Values[i]) {
				continue
			}
			row := make([]float64, len(features))
			clean := true
			for j, f := range features {
				row[j] = f.Values[i]
				if math.IsNaN(row[j]) {
					clean = false
					break
				}
			}
			if clean {
				d.rows = append(d.rows, row)
				d.y = append(d.y, targetCol.Values[i])
			}
		}
	}

	if len(d.rows) == 0 {
		return nil, errors.InvalidInput("no complete rows for target")
	}
	d.lastRow = d.rows[len(d.rows)-1]
	return d, nil
}

// withIntercept prepends the constant column the least-squares core expects.
func withIntercept(rows [][]float64) [][]float64 {
	out := make([][]float64, len(rows))
	for i, r := range rows {
		row := make([]float64, 1+len(r))
		row[0] = 1
		copy(row[1:], r)
		out[i] = row
	}
	return out
}

// seriesFor returns the target values with missing entries removed,
// preserving order.
func seriesFor(ds dataset.Dataset, target string) ([]float64, error) {
	col, ok := ds.Column(target)
	if !ok || col.Kind != dataset.Numeric {
		return nil, errors.InvalidInput("target column not found")
	}
	return col.NonMissing(), nil
}

// pairFor returns the target series aligned with the first companion value
// column, rows with a missing value on either side dropped.
func pairFor(ds dataset.Dataset, target string) (y, x []float64, xName string, err error) {
	targetCol, ok := ds.Column(target)
	if !ok || targetCol.Kind != dataset.Numeric {
		return nil, nil, "", errors.InvalidInput("target column not found")
	}

	var companion *dataset.Column
	for _, c := range ds.NumericColumns() {
		if c.Name == target || classify.IsEntityName(c.Name) || classify.IsTimeName(c.Name) {
			continue
		}
		cc := c
		companion = &cc
		break
	}
	if companion == nil {
		return nil, nil, "", errors.InvalidInput("no companion series available")
	}

	for i := range targetCol.Values {
		if i >= len(companion.Values) {
			break
		}
		if math.IsNaN(targetCol.Values[i]) || math.IsNaN(companion.Values[i]) {
			continue
		}
		y = append(y, targetCol.Values[i])
		x = append(x, companion.Values[i])
	}
	return y, x, companion.Name, nil
}

func diff(series []float64) []float64 {
	if len(series) < 2 {
		return nil
	}
	out := make([]float64, len(series)-1)
	for i := 1; i < len(series); i++ {
		out[i-1] = series[i] - series[i-1]
	}
	return out
}

func meanOf(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	s := 0.0
	for _, v := range vals {
		s += v
	}
	return s / float64(len(vals))
}

func varianceOf(vals []float64) float64 {
	if len(vals) < 2 {
		return 0
	}
	m := meanOf(vals)
	s := 0.0
	for _, v := range vals {
		d := v - m
		s += d * d
	}
	return s / float64(len(vals)-1)
}
