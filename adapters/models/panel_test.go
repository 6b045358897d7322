package models

import (
	"context"
	"math"
	"testing"

	"autostat/internal/testkit"
)

func TestFixedEffects_SweepsOutGroupLevels(t *testing.T) {
	ds := testkit.PanelDataset(8, 25, 61)
	res := fixedEffectsFamily{}.Fit(context.Background(), ds, "outcome")
	if !res.OK() {
		t.Fatalf("fixed effects should fit the panel: %s", res.Err)
	}
	if math.Abs(res.Params["beta_x"]-2) > 0.2 {
		t.Errorf("within estimator should recover the slope 2, got %.3f", res.Params["beta_x"])
	}
	if res.Fitness < 0.8 {
		t.Errorf("within R² should be high on clean data, got %.3f", res.Fitness)
	}
	if res.Diagnostics["entities"] != 8 {
		t.Errorf("expected 8 entities, got %.0f", res.Diagnostics["entities"])
	}
}

func TestRandomEffects_FindsEntityVariance(t *testing.T) {
	ds := testkit.PanelDataset(8, 25, 67)
	res := randomEffectsFamily{}.Fit(context.Background(), ds, "outcome")
	if !res.OK() {
		t.Fatalf("random effects should fit the panel: %s", res.Err)
	}
	if math.Abs(res.Params["beta_x"]-2) > 0.3 {
		t.Errorf("gls estimator should recover the slope 2, got %.3f", res.Params["beta_x"])
	}
	if res.Diagnostics["sigma_u2"] <= 0 {
		t.Error("entities on separated levels should show entity variance")
	}
}

func TestPanelFamilies_NeedEntityColumn(t *testing.T) {
	ds := testkit.CrossSectionDataset(100, 4, 3)
	if res := (fixedEffectsFamily{}).Fit(context.Background(), ds, "outcome"); res.OK() {
		t.Error("fixed effects should fail without an entity column")
	}
	if res := (randomEffectsFamily{}).Fit(context.Background(), ds, "outcome"); res.OK() {
		t.Error("random effects should fail without an entity column")
	}
}

func TestPanelFamilies_NeedTwoEntities(t *testing.T) {
	ds := testkit.PanelDataset(1, 30, 5)
	if res := (fixedEffectsFamily{}).Fit(context.Background(), ds, "outcome"); res.OK() {
		t.Error("fixed effects should fail with a single entity")
	}
}
