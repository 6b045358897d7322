package linreg

import (
	"math"
	"testing"
)

func TestLeastSquares_ExactLine(t *testing.T) {
	// y = 1 + 2x with no noise should be recovered exactly.
	rows := make([][]float64, 10)
	y := make([]float64, 10)
	for i := range rows {
		x := float64(i)
		rows[i] = []float64{1, x}
		y[i] = 1 + 2*x
	}

	fit, err := LeastSquares(rows, y)
	if err != nil {
		t.Fatalf("LeastSquares failed: %v", err)
	}
	if math.Abs(fit.Coeffs[0]-1) > 1e-9 || math.Abs(fit.Coeffs[1]-2) > 1e-9 {
		t.Errorf("expected coefficients (1, 2), got (%.6f, %.6f)", fit.Coeffs[0], fit.Coeffs[1])
	}
	if math.Abs(fit.RSq-1) > 1e-9 {
		t.Errorf("expected R² of 1, got %.6f", fit.RSq)
	}
	if fit.SE == nil {
		t.Error("expected standard errors on a full-rank design")
	}
}

func TestLeastSquares_TooFewObservations(t *testing.T) {
	rows := [][]float64{{1, 2, 3}, {1, 4, 5}}
	if _, err := LeastSquares(rows, []float64{1, 2}); err == nil {
		t.Fatal("expected an error when observations do not outnumber regressors")
	}
}

func TestLeastSquares_SingularDesign(t *testing.T) {
	// Second column duplicates the intercept.
	rows := make([][]float64, 8)
	y := make([]float64, 8)
	for i := range rows {
		rows[i] = []float64{1, 1}
		y[i] = float64(i)
	}
	if _, err := LeastSquares(rows, y); err == nil {
		t.Fatal("expected an error on a singular design matrix")
	}
}

func TestDropMissingRows(t *testing.T) {
	rows := [][]float64{{1, 1}, {1, math.NaN()}, {1, 3}}
	y := []float64{1, 2, math.NaN()}
	outRows, outY := DropMissingRows(rows, y)
	if len(outRows) != 1 || len(outY) != 1 {
		t.Fatalf("expected 1 clean row, got %d", len(outRows))
	}
	if outY[0] != 1 {
		t.Errorf("kept the wrong row: y=%.1f", outY[0])
	}
}

func TestResidStd(t *testing.T) {
	f := &Fit{Coeffs: []float64{0, 0}, Resid: make([]float64, 12), SSE: 40}
	want := math.Sqrt(40.0 / 10.0)
	if got := f.ResidStd(); math.Abs(got-want) > 1e-12 {
		t.Errorf("expected residual std %.6f, got %.6f", want, got)
	}
}
