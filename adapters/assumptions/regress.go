package assumptions

import (
	"autostat/internal/errors"
	"autostat/internal/linreg"
)

// lsFit aliases the shared OLS core so battery code reads in test terms.
type lsFit = linreg.Fit

func leastSquares(rows [][]float64, y []float64) (*lsFit, error) {
	fit, err := linreg.LeastSquares(rows, y)
	if err != nil {
		return nil, errors.Wrap(err, "diagnostic regression failed")
	}
	return fit, nil
}

func dropMissingRows(rows [][]float64, y []float64) ([][]float64, []float64) {
	return linreg.DropMissingRows(rows, y)
}
