// Package linreg is the shared ordinary-least-squares core used by the
// assumption battery and the regression-style model families.
package linreg

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"autostat/internal/errors"
)

// Fit is an OLS fit over a design matrix that already includes its
// intercept column.
type Fit struct {
	Coeffs []float64
	SE     []float64 // nil when (X'X) could not be inverted cleanly
	Fitted []float64
	Resid  []float64
	RSq    float64
	SSE    float64
}

// ResidStd returns the residual standard error with k fitted parameters.
func (f *Fit) ResidStd() float64 {
	n := len(f.Resid)
	k := len(f.Coeffs)
	if n <= k {
		return 0
	}
	return math.Sqrt(f.SSE / float64(n-k))
}

// LeastSquares solves y = Xb via QR. Fails on singular designs or when
// observations do not outnumber regressors.
func LeastSquares(rows [][]float64, y []float64) (*Fit, error) {
	n := len(y)
	if n == 0 || len(rows) != n {
		return nil, errors.InvalidInput("regression design is empty or misaligned")
	}
	k := len(rows[0])
	if n <= k {
		return nil, errors.New(errors.CodeInvalidInput,
			"too few observations for the number of regressors")
	}

	x := mat.NewDense(n, k, nil)
	for i, row := range rows {
		x.SetRow(i, row)
	}
	yv := mat.NewVecDense(n, y)

	var qr mat.QR
	qr.Factorize(x)
	var beta mat.Dense
	if err := qr.SolveTo(&beta, false, yv); err != nil {
		return nil, errors.New(errors.CodeInvalidInput, "singular design matrix")
	}

	fit := &Fit{
		Coeffs: make([]float64, k),
		Fitted: make([]float64, n),
		Resid:  make([]float64, n),
	}
	for j := 0; j < k; j++ {
		fit.Coeffs[j] = beta.At(j, 0)
	}

	var yMean float64
	for _, v := range y {
		yMean += v
	}
	yMean /= float64(n)

	var tss float64
	for i := 0; i < n; i++ {
		pred := 0.0
		for j := 0; j < k; j++ {
			pred += fit.Coeffs[j] * rows[i][j]
		}
		fit.Fitted[i] = pred
		fit.Resid[i] = y[i] - pred
		fit.SSE += fit.Resid[i] * fit.Resid[i]
		d := y[i] - yMean
		tss += d * d
	}
	if tss > 0 {
		fit.RSq = 1 - fit.SSE/tss
	}

	// Coefficient standard errors from sigma^2 (X'X)^-1.
	var xtx mat.Dense
	xtx.Mul(x.T(), x)
	var inv mat.Dense
	if err := inv.Inverse(&xtx); err == nil {
		sigma2 := fit.SSE / float64(n-k)
		fit.SE = make([]float64, k)
		for j := 0; j < k; j++ {
			fit.SE[j] = math.Sqrt(sigma2 * inv.At(j, j))
		}
	}

	return fit, nil
}

// DropMissingRows filters aligned rows where the response or any regressor
// is NaN.
func DropMissingRows(rows [][]float64, y []float64) ([][]float64, []float64) {
	outRows := make([][]float64, 0, len(y))
	outY := make([]float64, 0, len(y))
	for i, v := range y {
		if math.IsNaN(v) {
			continue
		}
		clean := true
		for _, c := range rows[i] {
			if math.IsNaN(c) {
				clean = false
				break
			}
		}
		if clean {
			outRows = append(outRows, rows[i])
			outY = append(outY, v)
		}
	}
	return outRows, outY
}
