package classify

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autostat/domain/dataset"
	"autostat/domain/metadata"
	"autostat/internal/config"
)

func timeSeriesDS(n int) dataset.Dataset {
	start := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	times := make([]time.Time, n)
	values := make([]float64, n)
	for i := 0; i < n; i++ {
		times[i] = start.AddDate(0, 0, i)
		values[i] = float64(i)
	}
	return dataset.Dataset{Columns: []dataset.Column{
		{Name: "date", Kind: dataset.Temporal, Times: times},
		{Name: "sales", Kind: dataset.Numeric, Values: values},
	}}
}

func panelDS(separated bool) dataset.Dataset {
	// Two entities over five periods. When separated, the entities sit on
	// far-apart levels so between-entity variance dominates.
	id := []float64{1, 1, 1, 1, 1, 2, 2, 2, 2, 2}
	period := []float64{1, 2, 3, 4, 5, 1, 2, 3, 4, 5}
	var outcome []float64
	if separated {
		outcome = []float64{10, 11, 9, 10, 10, 100, 99, 101, 100, 100}
	} else {
		outcome = []float64{10, 14, 6, 12, 8, 11, 7, 13, 9, 12}
	}
	return dataset.Dataset{Columns: []dataset.Column{
		{Name: "id", Kind: dataset.Numeric, Values: id},
		{Name: "period", Kind: dataset.Numeric, Values: period},
		{Name: "outcome", Kind: dataset.Numeric, Values: outcome},
	}}
}

func TestTypeClassifier_Table(t *testing.T) {
	c := NewTypeClassifier(2.0)

	cases := []struct {
		name      string
		ds        dataset.Dataset
		structure metadata.Structure
		panelKind metadata.PanelKind
	}{
		{"temporal column means time series", timeSeriesDS(20), metadata.TimeSeries, metadata.PanelNone},
		{"entity plus time means panel, separated levels fixed", panelDS(true), metadata.Panel, metadata.PanelFixed},
		{"entity plus time means panel, mixed levels not fixed", panelDS(false), metadata.Panel, metadata.PanelNotFixed},
		{
			"plain numeric columns mean cross-section",
			dataset.Dataset{Columns: []dataset.Column{
				{Name: "income", Kind: dataset.Numeric, Values: []float64{1, 2, 3}},
				{Name: "spend", Kind: dataset.Numeric, Values: []float64{2, 4, 6}},
			}},
			metadata.CrossSection, metadata.PanelNone,
		},
	}
	for _, tc := range cases {
		structure, panelKind := c.Classify(tc.ds)
		assert.Equal(t, tc.structure, structure, tc.name)
		assert.Equal(t, tc.panelKind, panelKind, tc.name)
	}
}

func TestScaleClassifier_Cutoff(t *testing.T) {
	c := NewScaleClassifier(5000)
	assert.Equal(t, metadata.Small, c.Classify(4999))
	assert.Equal(t, metadata.Large, c.Classify(5000))
	assert.Equal(t, metadata.Large, c.Classify(6000))
}

func TestLinearityProbe_LinearData(t *testing.T) {
	n := 60
	x := make([]float64, n)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		x[i] = float64(i)
		y[i] = 3 + 2*float64(i)
	}
	ds := dataset.Dataset{Columns: []dataset.Column{
		{Name: "x", Kind: dataset.Numeric, Values: x},
		{Name: "y", Kind: dataset.Numeric, Values: y},
	}}
	if !NewLinearityProbe(0.85).IsLinear(ds) {
		t.Error("perfectly linear data should classify as linear")
	}
}

func TestLinearityProbe_ConvexData(t *testing.T) {
	// Exponential growth: rank correlation stays at 1 while Pearson drops
	// well below it, so the disagreement crosses the tolerance.
	n := 41
	x := make([]float64, n)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		x[i] = float64(i) * 0.5
		y[i] = math.Exp(x[i])
	}
	ds := dataset.Dataset{Columns: []dataset.Column{
		{Name: "x", Kind: dataset.Numeric, Values: x},
		{Name: "y", Kind: dataset.Numeric, Values: y},
	}}
	if NewLinearityProbe(0.85).IsLinear(ds) {
		t.Error("exponential data should classify as nonlinear")
	}
}

func TestLinearityProbe_SingleColumnDefaultsLinear(t *testing.T) {
	ds := dataset.Dataset{Columns: []dataset.Column{
		{Name: "y", Kind: dataset.Numeric, Values: []float64{1, 2, 3}},
	}}
	assert.True(t, NewLinearityProbe(0.85).IsLinear(ds))
}

func TestMetadataDetector_CompleteRecord(t *testing.T) {
	ds := timeSeriesDS(100)
	ds.Columns[1].Values[10] = math.NaN()

	meta := NewMetadataDetector(config.Default()).Detect(ds)
	require.True(t, meta.Consistent())
	assert.Equal(t, metadata.TimeSeries, meta.Structure)
	assert.Equal(t, metadata.Small, meta.Scale)
	assert.Equal(t, 100, meta.Rows)
	assert.Equal(t, 2, meta.Cols)
	assert.InDelta(t, 1.0/200.0, meta.MissingFraction, 1e-9)
}
