package models

import (
	"context"
	"math/rand"
	"sync"

	"autostat/domain/dataset"
	"autostat/domain/model"
	"autostat/internal/errors"
)

const (
	forestTrees    = 100
	forestMaxDepth = 8
	forestMinLeaf  = 5
)

// forestFamily fits a bagged ensemble of regression trees. Each tree draws
// its own bootstrap sample and feature subsets from a seed derived from the
// tree index, so the ensemble is identical across runs even though trees
// grow in parallel. Fitness is R² on a positional holdout.
type forestFamily struct {
	seed int64
}

func (forestFamily) Tag() model.FamilyTag { return model.RandomForest }

func (f forestFamily) Fit(ctx context.Context, ds dataset.Dataset, target string) model.ModelResult {
	d, err := buildDesign(ds, target)
	if err != nil {
		return model.Failed(model.RandomForest, target, err)
	}
	train, test := splitHoldout(len(d.y))
	if len(train) < 2*forestMinLeaf || len(test) < 3 {
		return model.Failed(model.RandomForest, target,
			errors.Fit("random forest needs more rows, have %d", len(d.y)))
	}

	mtry := len(d.names) / 3
	if mtry < 1 {
		mtry = 1
	}

	// Checked once up front: returning mid-loop would abandon goroutines
	// still writing into trees.
	if err := ctx.Err(); err != nil {
		return model.Failed(model.RandomForest, target, err)
	}

	trees := make([]*treeNode, forestTrees)
	var wg sync.WaitGroup
	for t := 0; t < forestTrees; t++ {
		wg.Add(1)
		go func(t int) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(f.seed + int64(t)))
			sample := make([]int, len(train))
			for i := range sample {
				sample[i] = train[rng.Intn(len(train))]
			}
			trees[t] = growTree(d.rows, d.y, sample, 0, treeParams{
				maxDepth: forestMaxDepth,
				minLeaf:  forestMinLeaf,
				mtry:     mtry,
				rng:      rng,
			})
		}(t)
	}
	wg.Wait()

	predict := func(row []float64) float64 {
		s := 0.0
		for _, tree := range trees {
			s += tree.predict(row)
		}
		return s / float64(len(trees))
	}

	r2, residStd := holdoutScore(predict, d.rows, d.y, test)

	return model.ModelResult{
		Family:      model.RandomForest,
		Target:      target,
		Fitness:     r2,
		FitnessKind: model.FitnessHigherBetter,
		Params: map[string]float64{
			"trees":     forestTrees,
			"max_depth": forestMaxDepth,
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
