package app

import (
	"math"

	"autostat/domain/model"
)

// PickBest selects the winning fit from a candidate bucket. Higher-better
// fitness (R², pseudo-R²) is compared as-is, lower-better (AIC) negated, so
// one scan handles both. Ties keep the earlier candidate, which makes the
// pick deterministic for a fixed bucket order. A bucket with no usable fit
// returns nil; that is a normal outcome, not an error.
func PickBest(results []model.ModelResult) *model.ModelResult {
	var best *model.ModelResult
	bestScore := math.Inf(-1)
	for i := range results {
		r := &results[i]
		if !r.OK() || math.IsNaN(r.Fitness) || math.IsInf(r.Fitness, 0) {
			continue
		}
		score := r.Fitness
		if r.FitnessKind == model.FitnessLowerBetter {
			score = -score
		}
		if score > bestScore {
			bestScore = score
			best = r
		}
	}
	return best
}
