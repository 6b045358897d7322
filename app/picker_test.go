package app

import (
	"math"
	"testing"

	"autostat/domain/model"
	"autostat/internal/errors"
)

func TestPickBest_HigherBetter(t *testing.T) {
	results := []model.ModelResult{
		{Family: model.RandomForest, Fitness: 0.6, FitnessKind: model.FitnessHigherBetter},
		{Family: model.GradientBoost, Fitness: 0.8, FitnessKind: model.FitnessHigherBetter},
	}
	best := PickBest(results)
	if best == nil || best.Family != model.GradientBoost {
		t.Fatalf("expected gradient boost to win, got %+v", best)
	}
}

func TestPickBest_LowerBetter(t *testing.T) {
	results := []model.ModelResult{
		{Family: model.ARIMA, Fitness: 310.2, FitnessKind: model.FitnessLowerBetter},
		{Family: model.GARCH, Fitness: 295.7, FitnessKind: model.FitnessLowerBetter},
		{Family: model.VARIMA, Fitness: 330.0, FitnessKind: model.FitnessLowerBetter},
	}
	best := PickBest(results)
	if best == nil || best.Family != model.GARCH {
		t.Fatalf("expected the lowest AIC to win, got %+v", best)
	}
}

func TestPickBest_SkipsFailures(t *testing.T) {
	failed := model.Failed(model.ECM, "sales", errors.Fit("not cointegrated"))
	results := []model.ModelResult{
		failed,
		{Family: model.Granger, Fitness: 0.4, FitnessKind: model.FitnessHigherBetter},
	}
	best := PickBest(results)
	if best == nil || best.Family != model.Granger {
		t.Fatalf("expected the only successful fit to win, got %+v", best)
	}
}

func TestPickBest_AllFailedIsNormal(t *testing.T) {
	results := []model.ModelResult{
		model.Failed(model.ECM, "sales", errors.Fit("not cointegrated")),
		model.Failed(model.VECM, "sales", errors.Fit("not cointegrated")),
	}
	if best := PickBest(results); best != nil {
		t.Fatalf("expected no best model, got %+v", best)
	}
}

func TestPickBest_TieKeepsEarlierCandidate(t *testing.T) {
	results := []model.ModelResult{
		{Family: model.FixedEffects, Fitness: 0.5, FitnessKind: model.FitnessHigherBetter},
		{Family: model.RandomEffects, Fitness: 0.5, FitnessKind: model.FitnessHigherBetter},
	}
	best := PickBest(results)
	if best == nil || best.Family != model.FixedEffects {
		t.Fatalf("tie should keep the earlier candidate, got %+v", best)
	}
}

func TestPickBest_IgnoresNaNFitness(t *testing.T) {
	results := []model.ModelResult{
		{Family: model.OLS, Fitness: math.NaN(), FitnessKind: model.FitnessHigherBetter},
	}
	if best := PickBest(results); best != nil {
		t.Fatalf("NaN fitness should never win, got %+v", best)
	}
}
