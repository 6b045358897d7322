package classify

import (
	"math"

	montstats "github.com/montanaflynn/stats"

	"autostat/domain/dataset"
)

// LinearityProbe estimates whether relationships among numeric columns are
// predominantly linear by comparing pairwise Pearson against Spearman rank
// correlation. When the two largely agree, a linear model is not obviously
// misspecified.
type LinearityProbe struct {
	tolerance float64
}

// NewLinearityProbe creates a probe with the given agreement tolerance
// (fraction in (0,1]; default configuration uses 0.85).
func NewLinearityProbe(tolerance float64) *LinearityProbe {
	return &LinearityProbe{tolerance: tolerance}
}

// IsLinear returns true when the mean absolute difference between pairwise
// Pearson and Spearman correlations stays below (1 - tolerance). With fewer
// than two numeric columns there is no evidence against linearity, so the
// probe returns true rather than failing.
func (p *LinearityProbe) IsLinear(ds dataset.Dataset) bool {
	numeric := ds.NumericColumns()
	if len(numeric) < 2 {
		return true
	}

	var sumDiff float64
	var pairs int

	for i := 0; i < len(numeric)-1; i++ {
		for j := i + 1; j < len(numeric); j++ {
			x, y := alignedPair(numeric[i].Values, numeric[j].Values)
			if len(x) < 3 {
				continue
			}

			pearson, err := montstats.Pearson(x, y)
			if err != nil || math.IsNaN(pearson) {
				continue
			}
			spearman, err := montstats.Pearson(computeRanks(x), computeRanks(y))
			if err != nil || math.IsNaN(spearman) {
				continue
			}

			sumDiff += math.Abs(pearson - spearman)
			pairs++
		}
	}

	if pairs == 0 {
		return true
	}

	return sumDiff/float64(pairs) < (1 - p.tolerance)
}

// alignedPair drops rows where either value is missing.
func alignedPair(a, b []float64) ([]float64, []float64) {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	x := make([]float64, 0, n)
	y := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		if math.IsNaN(a[i]) || math.IsNaN(b[i]) {
			continue
		}
		x = append(x, a[i])
		y = append(y, b[i])
	}
	return x, y
}
