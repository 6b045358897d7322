// Package forecasting turns the winning model's projector into the final
// forecast table with symmetric normal-quantile intervals.
package forecasting

import (
	"fmt"

	"gonum.org/v1/gonum/stat/distuv"

	"autostat/domain/forecast"
	"autostat/domain/model"
)

// Forecaster renders H-period forecasts at the configured confidence level.
// A missing or non-projecting model is a normal outcome: the table comes
// back empty with the reason recorded, never as an error.
type Forecaster struct {
	alpha   float64
	horizon int
}

func New(alpha float64, horizon int) *Forecaster {
	return &Forecaster{alpha: alpha, horizon: horizon}
}

// Forecast projects the best model over the configured horizon.
func (f *Forecaster) Forecast(best *model.ModelResult) forecast.Table {
	if best == nil || !best.OK() {
		return forecast.Table{Reason: "no viable model to forecast from"}
	}
	if best.Fitted == nil {
		return forecast.Table{Reason: fmt.Sprintf("%s model does not support projection", best.Family)}
	}

	points, stderrs, err := best.Fitted.Project(f.horizon)
	if err != nil {
		return forecast.Table{Reason: fmt.Sprintf("%s projection failed: %v", best.Family, err)}
	}
	if len(points) != f.horizon || len(stderrs) != f.horizon {
		return forecast.Table{Reason: fmt.Sprintf("%s projection returned %d of %d periods", best.Family, len(points), f.horizon)}
	}

	z := distuv.UnitNormal.Quantile(1 - f.alpha/2)
	rows := make([]forecast.Row, f.horizon)
	for i := 0; i < f.horizon; i++ {
		half := z * stderrs[i]
		rows[i] = forecast.Row{
			Period:  i + 1,
			Point:   points[i],
			LowerCI: points[i] - half,
			UpperCI: points[i] + half,
		}
	}
	return forecast.Table{Rows: rows}
}
