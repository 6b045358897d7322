package models

import "math"

// splitHoldout reserves every fifth row for out-of-sample scoring. The split
// is positional so repeated runs on the same data score identically.
func splitHoldout(n int) (train, test []int) {
	for i := 0; i < n; i++ {
		if i%5 == 4 {
			test = append(test, i)
		} else {
			train = append(train, i)
		}
	}
	return train, test
}

// holdoutScore computes R² and the residual scale of a predictor over the
// held-out rows.
func holdoutScore(predict func([]float64) float64, rows [][]float64, y []float64, test []int) (r2, residStd float64) {
	var sse, tss, mean float64
	for _, i := range test {
		mean += y[i]
	}
	mean /= float64(len(test))
	for _, i := range test {
		e := y[i] - predict(rows[i])
		sse += e * e
		d := y[i] - mean
		tss += d * d
	}
	if tss > 0 {
		r2 = 1 - sse/tss
	}
	residStd = math.Sqrt(sse / float64(len(test)))
	return r2, residStd
}
