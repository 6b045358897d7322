package models

import (
	"context"
	"math"

	"autostat/adapters/classify"
	"autostat/domain/dataset"
	"autostat/domain/model"
	"autostat/internal/errors"
	"autostat/internal/linreg"
)

// panelDesign is the feature view for grouped data: each retained row keeps
// its entity identifier alongside the regressors.
type panelDesign struct {
	entity  []float64
	rows    [][]float64
	y       []float64
	names   []string
	lastRow []float64
}

func buildPanelDesign(ds dataset.Dataset, target string) (*panelDesign, error) {
	var entityCol *dataset.Column
	for i, c := range ds.Columns {
		if c.Kind == dataset.Numeric && classify.IsEntityName(c.Name) {
			entityCol = &ds.Columns[i]
			break
		}
	}
	if entityCol == nil {
		return nil, errors.InvalidInput("no entity column found for panel estimation")
	}

	targetCol, ok := ds.Column(target)
	if !ok || targetCol.Kind != dataset.Numeric {
		return nil, errors.InvalidInput("target column not found")
	}

	features := make([]dataset.Column, 0)
	for _, c := range ds.NumericColumns() {
		if c.Name == target || classify.IsEntityName(c.Name) || classify.IsTimeName(c.Name) {
			continue
		}
		features = append(features, c)
	}
	if len(features) == 0 {
		return nil, errors.InvalidInput("panel estimation needs at least one regressor")
	}

	d := &panelDesign{}
	for _, f := range features {
		d.names = append(d.names, f.Name)
	}
	for i := 0; i < targetCol.Len(); i++ {
		if math.IsNaN(targetCol.Values[i]) || math.IsNaN(entityCol.Values[i]) {
			continue
		}
		row := make([]float64, len(features))
		clean := true
		for j, f := range features {
			row[j] = f.Values[i]
			if math.IsNaN(row[j]) {
				clean = false
				break
			}
		}
		if !clean {
			continue
		}
		d.entity = append(d.entity, entityCol.Values[i])
		d.rows = append(d.rows, row)
		d.y = append(d.y, targetCol.Values[i])
	}
	if len(d.y) == 0 {
		return nil, errors.InvalidInput("no complete panel rows for target")
	}
	d.lastRow = d.rows[len(d.rows)-1]
	return d, nil
}

// groups indexes rows by entity identifier, in first-appearance order.
func (d *panelDesign) groups() [][]int {
	order := make([]float64, 0)
	byID := map[float64][]int{}
	for i, id := range d.entity {
		if _, seen := byID[id]; !seen {
			order = append(order, id)
		}
		byID[id] = append(byID[id], i)
	}
	out := make([][]int, len(order))
	for g, id := range order {
		out[g] = byID[id]
	}
	return out
}

// fixedEffectsFamily runs the within estimator: every variable is demeaned
// inside its entity, sweeping out time-invariant group effects before a
// plain least-squares fit. Fitness is the within R².
type fixedEffectsFamily struct{}

func (fixedEffectsFamily) Tag() model.FamilyTag { return model.FixedEffects }

func (fixedEffectsFamily) Fit(_ context.Context, ds dataset.Dataset, target string) model.ModelResult {
	d, err := buildPanelDesign(ds, target)
	if err != nil {
		return model.Failed(model.FixedEffects, target, err)
	}
	groups := d.groups()
	if len(groups) < 2 {
		return model.Failed(model.FixedEffects, target,
			errors.Fit("fixed effects needs at least two entities, have %d", len(groups)))
	}
	k := len(d.names)
	if len(d.y)-len(groups) <= k {
		return model.Failed(model.FixedEffects, target, errors.Fit("fixed effects has too few rows per entity"))
	}

	// Within transformation.
	wy := make([]float64, len(d.y))
	wrows := make([][]float64, len(d.rows))
	for i := range wrows {
		wrows[i] = make([]float64, k)
	}
	for _, idx := range groups {
		ym := 0.0
		xm := make([]float64, k)
		for _, i := range idx {
			ym += d.y[i]
			for j := 0; j < k; j++ {
				xm[j] += d.rows[i][j]
			}
		}
		ym /= float64(len(idx))
		for j := range xm {
			xm[j] /= float64(len(idx))
		}
		for _, i := range idx {
			wy[i] = d.y[i] - ym
			for j := 0; j < k; j++ {
				wrows[i][j] = d.rows[i][j] - xm[j]
			}
		}
	}

	fit, lsErr := linreg.LeastSquares(wrows, wy)
	if lsErr != nil {
		return model.Failed(model.FixedEffects, target, lsErr)
	}

	// Level-scale intercept for projection: grand mean net of the slopes.
	alpha := meanOf(d.y)
	for j := 0; j < k; j++ {
		colMean := 0.0
		for i := range d.rows {
			colMean += d.rows[i][j]
		}
		colMean /= float64(len(d.rows))
		alpha -= fit.Coeffs[j] * colMean
	}

	params := map[string]float64{"intercept": alpha}
	for j, name := range d.names {
		params["beta_"+name] = fit.Coeffs[j]
	}

	return model.ModelResult{
		Family:      model.FixedEffects,
		Target:      target,
		Fitness:     fit.RSq,
		FitnessKind: model.FitnessHigherBetter,
		Params:      params,
		Diagnostics: map[string]float64{
			"within_r_squared": fit.RSq,
			"entities":         float64(len(groups)),
			"nobs":             float64(len(d.y)),
		},
		Fitted: &regressionProjector{
			intercept: alpha,
			coeffs:    fit.Coeffs,
			lastRow:   d.lastRow,
			residStd:  fit.ResidStd(),
		},
	}
}

// randomEffectsFamily runs the quasi-demeaned GLS estimator: variance
// components from the within and between regressions set a shrinkage factor
// per entity, pooled OLS being the sigma_u = 0 limit. Fitness is the R² of
// the transformed regression.
type randomEffectsFamily struct{}

func (randomEffectsFamily) Tag() model.FamilyTag { return model.RandomEffects }

func (randomEffectsFamily) Fit(_ context.Context, ds dataset.Dataset, target string) model.ModelResult {
	d, err := buildPanelDesign(ds, target)
	if err != nil {
		return model.Failed(model.RandomEffects, target, err)
	}
	groups := d.groups()
	if len(groups) < 2 {
		return model.Failed(model.RandomEffects, target,
			errors.Fit("random effects needs at least two entities, have %d", len(groups)))
	}
	k := len(d.names)
	n := len(d.y)
	if n-len(groups) <= k {
		return model.Failed(model.RandomEffects, target, errors.Fit("random effects has too few rows per entity"))
	}

	sigmaE2, sigmaU2, veErr := varianceComponents(d, groups, k)
	if veErr != nil {
		return model.Failed(model.RandomEffects, target, veErr)
	}

	// Quasi-demean each entity by its shrinkage factor theta_g.
	ty := make([]float64, n)
	trows := make([][]float64, n)
	for _, idx := range groups {
		tg := float64(len(idx))
		theta := 0.0
		if sigmaU2 > 0 {
			theta = 1 - math.Sqrt(sigmaE2/(sigmaE2+tg*sigmaU2))
		}
		ym := 0.0
		xm := make([]float64, k)
		for _, i := range idx {
			ym += d.y[i]
			for j := 0; j < k; j++ {
				xm[j] += d.rows[i][j]
			}
		}
		ym /= tg
		for j := range xm {
			xm[j] /= tg
		}
		for _, i := range idx {
			row := make([]float64, 1+k)
			row[0] = 1 - theta
			for j := 0; j < k; j++ {
				row[1+j] = d.rows[i][j] - theta*xm[j]
			}
			trows[i] = row
			ty[i] = d.y[i] - theta*ym
		}
	}

	fit, lsErr := linreg.LeastSquares(trows, ty)
	if lsErr != nil {
		return model.Failed(model.RandomEffects, target, lsErr)
	}

	params := map[string]float64{"intercept": fit.Coeffs[0]}
	for j, name := range d.names {
		params["beta_"+name] = fit.Coeffs[1+j]
	}

	return model.ModelResult{
		Family:      model.RandomEffects,
		Target:      target,
		Fitness:     fit.RSq,
		FitnessKind: model.FitnessHigherBetter,
		Params:      params,
		Diagnostics: map[string]float64{
			"sigma_e2": sigmaE2,
			"sigma_u2": sigmaU2,
			"entities": float64(len(groups)),
			"nobs":     float64(n),
		},
		Fitted: &regressionProjector{
			intercept: fit.Coeffs[0],
			coeffs:    fit.Coeffs[1:],
			lastRow:   d.lastRow,
			residStd:  fit.ResidStd(),
		},
	}
}

// varianceComponents estimates the idiosyncratic and entity variance from
// the within residuals and the between (group-mean) regression. A between
// regression with too few entities collapses sigma_u to zero, which reduces
// the estimator to pooled OLS.
func varianceComponents(d *panelDesign, groups [][]int, k int) (sigmaE2, sigmaU2 float64, err error) {
	wy := make([]float64, len(d.y))
	wrows := make([][]float64, len(d.rows))
	by := make([]float64, 0, len(groups))
	brows := make([][]float64, 0, len(groups))
	avgSize := 0.0

	for i := range wrows {
		wrows[i] = make([]float64, k)
	}
	for _, idx := range groups {
		ym := 0.0
		xm := make([]float64, k)
		for _, i := range idx {
			ym += d.y[i]
			for j := 0; j < k; j++ {
				xm[j] += d.rows[i][j]
			}
		}
		ym /= float64(len(idx))
		for j := range xm {
			xm[j] /= float64(len(idx))
		}
		for _, i := range idx {
			wy[i] = d.y[i] - ym
			for j := 0; j < k; j++ {
				wrows[i][j] = d.rows[i][j] - xm[j]
			}
		}
		by = append(by, ym)
		brow := make([]float64, 1+k)
		brow[0] = 1
		copy(brow[1:], xm)
		brows = append(brows, brow)
		avgSize += float64(len(idx))
	}
	avgSize /= float64(len(groups))

	within, err := linreg.LeastSquares(wrows, wy)
	if err != nil {
		return 0, 0, err
	}
	sigmaE2 = within.SSE / float64(len(d.y)-k)

	if len(groups) > k+2 {
		between, bErr := linreg.LeastSquares(brows, by)
		if bErr == nil {
			sigmaBetween := between.SSE / float64(len(groups)-k-1)
			sigmaU2 = sigmaBetween - sigmaE2/avgSize
			if sigmaU2 < 0 {
				sigmaU2 = 0
			}
		}
	}
	return sigmaE2, sigmaU2, nil
}
