package forecasting

import (
	"math"
	"testing"

	"autostat/domain/model"
	"autostat/internal/errors"
)

// stubProjector emits a fixed slope with unit forecast error.
type stubProjector struct {
	failing bool
}

func (s stubProjector) Project(steps int) ([]float64, []float64, error) {
	if s.failing {
		return nil, nil, errors.Fit("projection blew up")
	}
	points := make([]float64, steps)
	stderrs := make([]float64, steps)
	for i := range points {
		points[i] = float64(i + 1)
		stderrs[i] = 1
	}
	return points, stderrs, nil
}

func TestForecast_NoModel(t *testing.T) {
	f := New(0.05, 30)

	table := f.Forecast(nil)
	if !table.Empty() || table.Reason == "" {
		t.Error("missing model should yield an empty, reasoned table")
	}

	failed := model.Failed(model.ARIMA, "sales", errors.Fit("did not converge"))
	table = f.Forecast(&failed)
	if !table.Empty() {
		t.Error("failed model should yield an empty table")
	}
}

func TestForecast_IntervalGeometry(t *testing.T) {
	f := New(0.05, 30)
	best := &model.ModelResult{Family: model.OLS, Target: "sales", Fitted: stubProjector{}}

	table := f.Forecast(best)
	if len(table.Rows) != 30 {
		t.Fatalf("expected 30 rows, got %d", len(table.Rows))
	}
	if !table.Valid() {
		t.Fatal("forecast table violated its bound invariants")
	}

	// 95% interval over a unit forecast error is ±1.96.
	half := table.Rows[0].UpperCI - table.Rows[0].Point
	if math.Abs(half-1.96) > 0.01 {
		t.Errorf("expected half-width near 1.96, got %.4f", half)
	}
	for _, r := range table.Rows {
		if math.Abs((r.UpperCI-r.Point)-(r.Point-r.LowerCI)) > 1e-9 {
			t.Fatal("intervals should be symmetric about the point forecast")
		}
	}
}

func TestForecast_ProjectionFailure(t *testing.T) {
	f := New(0.05, 30)
	best := &model.ModelResult{Family: model.GARCH, Target: "sales", Fitted: stubProjector{failing: true}}

	table := f.Forecast(best)
	if !table.Empty() || table.Reason == "" {
		t.Error("projection failure should yield an empty, reasoned table")
	}
}

func TestForecast_ModelWithoutProjector(t *testing.T) {
	f := New(0.05, 10)
	best := &model.ModelResult{Family: model.Granger, Target: "sales"}

	table := f.Forecast(best)
	if !table.Empty() || table.Reason == "" {
		t.Error("a model without a projector should yield an empty, reasoned table")
	}
}
