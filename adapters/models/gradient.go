package models

import (
	"context"

	"autostat/domain/dataset"
	"autostat/domain/model"
	"autostat/internal/errors"
)

const (
	boostRounds   = 100
	boostRate     = 0.1
	boostMaxDepth = 2
	boostMinLeaf  = 5
)

// boostFamily fits gradient-boosted shallow regression trees on squared
// loss: each round fits the current residuals and contributes a damped
// correction. Growth is greedy and unseeded, so the ensemble is
// deterministic. Fitness is R² on a positional holdout.
type boostFamily struct{}

func (boostFamily) Tag() model.FamilyTag { return model.GradientBoost }

func (boostFamily) Fit(ctx context.Context, ds dataset.Dataset, target string) model.ModelResult {
	d, err := buildDesign(ds, target)
	if err != nil {
		return model.Failed(model.GradientBoost, target, err)
	}
	train, test := splitHoldout(len(d.y))
	if len(train) < 2*boostMinLeaf || len(test) < 3 {
		return model.Failed(model.GradientBoost, target,
			errors.Fit("gradient boost needs more rows, have %d", len(d.y)))
	}

	base := 0.0
	for _, i := range train {
		base += d.y[i]
	}
	base /= float64(len(train))

	resid := make([]float64, len(d.y))
	for _, i := range train {
		resid[i] = d.y[i] - base
	}

	trees := make([]*treeNode, 0, boostRounds)
	for round := 0; round < boostRounds; round++ {
		if ctx.Err() != nil {
			return model.Failed(model.GradientBoost, target, ctx.Err())
		}
		tree := growTree(d.rows, resid, train, 0, treeParams{
			maxDepth: boostMaxDepth,
			minLeaf:  boostMinLeaf,
		})
		trees = append(trees, tree)
		for _, i := range train {
			resid[i] -= boostRate * tree.predict(d.rows[i])
		}
	}

	predict := func(row []float64) float64 {
		pred := base
		for _, tree := range trees {
			pred += boostRate * tree.predict(row)
		}
		return pred
	}

	r2, residStd := holdoutScore(predict, d.rows, d.y, test)

	return model.ModelResult{
		Family:      model.GradientBoost,
		Target:      target,
		Fitness:     r2,
		FitnessKind: model.FitnessHigherBetter,
		Params: map[string]float64{
			"rounds":        boostRounds,
			"learning_rate": boostRate,
		},
		Diagnostics: map[string]float64{
			"holdout_r_squared": r2,
			"holdout_rows":      float64(len(test)),
		},
		Fitted: &ensembleProjector{
			predict:  predict,
			lastRow:  d.lastRow,
			residStd: residStd,
		},
	}
}
