package preprocess

import (
	"math"
	"testing"

	"autostat/domain/dataset"
)

func TestTransform_MeanImputation(t *testing.T) {
	ds := dataset.Dataset{Columns: []dataset.Column{
		{Name: "sales", Kind: dataset.Numeric, Values: []float64{1, math.NaN(), 3}},
	}}

	out := New().Transform(ds)
	if got := out.Columns[0].Values[1]; got != 2 {
		t.Errorf("missing cell should impute to the column mean 2, got %.2f", got)
	}

	// Input is untouched.
	if !math.IsNaN(ds.Columns[0].Values[1]) {
		t.Error("Transform must not mutate its input")
	}
}

func TestTransform_SkipsEntityAndTimeKeys(t *testing.T) {
	ds := dataset.Dataset{Columns: []dataset.Column{
		{Name: "id", Kind: dataset.Numeric, Values: []float64{1, math.NaN(), 2}},
		{Name: "period", Kind: dataset.Numeric, Values: []float64{1, 2, math.NaN()}},
		{Name: "outcome", Kind: dataset.Numeric, Values: []float64{4, math.NaN(), 8}},
	}}

	out := New().Transform(ds)
	if !math.IsNaN(out.Columns[0].Values[1]) {
		t.Error("entity identifiers must not be imputed")
	}
	if !math.IsNaN(out.Columns[1].Values[2]) {
		t.Error("time keys must not be imputed")
	}
	if out.Columns[2].Values[1] != 6 {
		t.Errorf("value column should impute to 6, got %.2f", out.Columns[2].Values[1])
	}
}

func TestTransform_Standardization(t *testing.T) {
	ds := dataset.Dataset{Columns: []dataset.Column{
		{Name: "sales", Kind: dataset.Numeric, Values: []float64{1, 2, 3, 4, 5}},
	}}

	out := New().WithStandardization().Transform(ds)
	values := out.Columns[0].Values

	var sum float64
	for _, v := range values {
		sum += v
	}
	if math.Abs(sum) > 1e-9 {
		t.Errorf("standardized column should have zero mean, sum=%.6f", sum)
	}
	if values[0] >= values[4] {
		t.Error("standardization must preserve ordering")
	}
}

func TestTransform_AllMissingColumnLeftAlone(t *testing.T) {
	ds := dataset.Dataset{Columns: []dataset.Column{
		{Name: "sales", Kind: dataset.Numeric, Values: []float64{math.NaN(), math.NaN()}},
	}}
	out := New().Transform(ds)
	for _, v := range out.Columns[0].Values {
		if !math.IsNaN(v) {
			t.Fatal("a fully missing column has no mean to impute with")
		}
	}
}
