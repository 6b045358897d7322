// Package testkit builds the seeded synthetic datasets the test suites
// share. Everything is deterministic in the seed.
package testkit

import (
	"math"
	"math/rand"
	"time"

	"autostat/domain/dataset"
)

// WhiteNoise returns n standard normal draws.
func WhiteNoise(n int, seed int64) []float64 {
	rng := rand.New(rand.NewSource(seed))
	out := make([]float64, n)
	for i := range out {
		out[i] = rng.NormFloat64()
	}
	return out
}

// RandomWalk returns a unit-root series: cumulative sum of white noise.
func RandomWalk(n int, seed int64) []float64 {
	out := WhiteNoise(n, seed)
	for i := 1; i < n; i++ {
		out[i] += out[i-1]
	}
	return out
}

// LinearTrend returns slope*t plus noise-scaled normal draws.
func LinearTrend(n int, slope, noise float64, seed int64) []float64 {
	rng := rand.New(rand.NewSource(seed))
	out := make([]float64, n)
	for i := range out {
		out[i] = slope*float64(i) + noise*rng.NormFloat64()
	}
	return out
}

// TimeSeriesDataset wraps one value series with a daily date column so the
// classifier sees a time signal.
func TimeSeriesDataset(name string, values []float64) dataset.Dataset {
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	times := make([]time.Time, len(values))
	for i := range times {
		times[i] = start.AddDate(0, 0, i)
	}
	return dataset.Dataset{Columns: []dataset.Column{
		{Name: "date", Kind: dataset.Temporal, Times: times},
		{Name: name, Kind: dataset.Numeric, Values: values},
	}}
}

// BivariateTimeSeriesDataset wraps two value series with a date column.
func BivariateTimeSeriesDataset(nameA string, a []float64, nameB string, b []float64) dataset.Dataset {
	ds := TimeSeriesDataset(nameA, a)
	ds.Columns = append(ds.Columns, dataset.Column{Name: nameB, Kind: dataset.Numeric, Values: b})
	return ds
}

// CrossSectionDataset builds rows x cols numeric data where the last column
// is a noisy linear combination of the others.
func CrossSectionDataset(rows, cols int, seed int64) dataset.Dataset {
	rng := rand.New(rand.NewSource(seed))
	features := make([][]float64, cols-1)
	for j := range features {
		features[j] = make([]float64, rows)
		for i := range features[j] {
			features[j][i] = rng.NormFloat64()
		}
	}
	y := make([]float64, rows)
	for i := 0; i < rows; i++ {
		v := 1.0
		for j := range features {
			v += float64(j+1) * 0.5 * features[j][i]
		}
		y[i] = v + 0.3*rng.NormFloat64()
	}

	ds := dataset.Dataset{}
	for j := range features {
		ds.Columns = append(ds.Columns, dataset.Column{
			Name: "x" + string(rune('a'+j)), Kind: dataset.Numeric, Values: features[j],
		})
	}
	ds.Columns = append(ds.Columns, dataset.Column{Name: "outcome", Kind: dataset.Numeric, Values: y})
	return ds
}

// PanelDataset builds a balanced panel with per-entity level shifts, so
// between-entity variance dominates and group effects look fixed.
func PanelDataset(entities, periods int, seed int64) dataset.Dataset {
	rng := rand.New(rand.NewSource(seed))
	n := entities * periods
	id := make([]float64, 0, n)
	period := make([]float64, 0, n)
	x := make([]float64, 0, n)
	y := make([]float64, 0, n)
	for e := 0; e < entities; e++ {
		level := 10 * float64(e)
		for t := 0; t < periods; t++ {
			xv := rng.NormFloat64()
			id = append(id, float64(e+1))
			period = append(period, float64(t+1))
			x = append(x, xv)
			y = append(y, level+2*xv+0.5*rng.NormFloat64())
		}
	}
	return dataset.Dataset{Columns: []dataset.Column{
		{Name: "id", Kind: dataset.Numeric, Values: id},
		{Name: "period", Kind: dataset.Numeric, Values: period},
		{Name: "x", Kind: dataset.Numeric, Values: x},
		{Name: "outcome", Kind: dataset.Numeric, Values: y},
	}}
}

// WithMissing returns a copy of values with every k-th entry replaced by NaN.
func WithMissing(values []float64, k int) []float64 {
	out := make([]float64, len(values))
	copy(out, values)
	for i := k - 1; i < len(out); i += k {
		out[i] = math.NaN()
	}
	return out
}
