package models

import (
	"context"
	"math"
	"testing"

	"autostat/domain/model"
	"autostat/internal/testkit"
)

func TestOLS_RecoverLinearSignal(t *testing.T) {
	ds := testkit.CrossSectionDataset(200, 4, 11)
	res := olsFamily{}.Fit(context.Background(), ds, "outcome")
	if !res.OK() {
		t.Fatalf("ols should fit clean linear data: %s", res.Err)
	}
	if res.FitnessKind != model.FitnessHigherBetter {
		t.Errorf("ols fitness should be higher-better, got %s", res.FitnessKind)
	}
	if res.Fitness < 0.7 {
		t.Errorf("ols should explain a strongly linear outcome, R²=%.3f", res.Fitness)
	}
	if _, ok := res.Params["intercept"]; !ok {
		t.Error("ols params should include the intercept")
	}
	if _, ok := res.Params["beta_xa"]; !ok {
		t.Error("ols params should include per-feature slopes")
	}
}

func TestOLS_ProjectorFlatBands(t *testing.T) {
	ds := testkit.CrossSectionDataset(200, 4, 11)
	res := olsFamily{}.Fit(context.Background(), ds, "outcome")
	if !res.OK() || res.Fitted == nil {
		t.Fatalf("ols fit did not produce a projector")
	}

	points, stderrs, err := res.Fitted.Project(30)
	if err != nil {
		t.Fatalf("projection failed: %v", err)
	}
	if len(points) != 30 || len(stderrs) != 30 {
		t.Fatalf("expected 30 projected periods, got %d/%d", len(points), len(stderrs))
	}
	for i := 1; i < len(stderrs); i++ {
		if stderrs[i] != stderrs[0] {
			t.Fatal("regression bands should stay at the residual scale")
		}
	}
	if stderrs[0] <= 0 {
		t.Error("residual scale should be positive on noisy data")
	}
}

func TestOLS_FailsOnTooFewRows(t *testing.T) {
	ds := testkit.CrossSectionDataset(5, 4, 2)
	res := olsFamily{}.Fit(context.Background(), ds, "outcome")
	if res.OK() {
		t.Fatal("ols should fail when regressors crowd out observations")
	}
	if !math.IsInf(res.Fitness, -1) {
		t.Error("failed fit should carry the -Inf fitness sentinel")
	}
}

func TestOLS_ProjectorRejectsNonPositiveSteps(t *testing.T) {
	ds := testkit.CrossSectionDataset(100, 3, 8)
	res := olsFamily{}.Fit(context.Background(), ds, "outcome")
	if !res.OK() {
		t.Fatalf("fit failed: %s", res.Err)
	}
	if _, _, err := res.Fitted.Project(0); err == nil {
		t.Fatal("zero-step projection should be rejected")
	}
}
