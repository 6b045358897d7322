// Package app composes the analysis pipeline: preprocess, classify, run the
// assumption battery, fit the decision-table candidates, pick a winner, and
// forecast. Stages after preprocessing never abort a run; everything a
// stage learns lands in the result envelope.
package app

import (
	"context"

	"github.com/google/uuid"

	"autostat/adapters/assumptions"
	"autostat/adapters/classify"
	"autostat/adapters/forecasting"
	"autostat/adapters/preprocess"
	"autostat/domain/dataset"
	"autostat/domain/diagnostics"
	"autostat/domain/forecast"
	"autostat/domain/metadata"
	"autostat/domain/model"
	"autostat/internal"
	"autostat/internal/config"
	"autostat/internal/errors"
)

// Result is the complete analysis envelope for one run. Every field is
// populated even when no model fits and no forecast exists.
type Result struct {
	RunID    string                   `json:"run_id"`
	Target   string                   `json:"target"`
	Metadata metadata.Metadata        `json:"metadata"`
	Tests    []diagnostics.TestResult `json:"tests"`
	Models   []model.ModelResult      `json:"models"`
	Best     *model.ModelResult       `json:"best,omitempty"`
	Forecast forecast.Table           `json:"forecast"`
}

// Pipeline wires the stages together. It is safe for concurrent use; each
// Run works on its own cleaned dataset copy.
type Pipeline struct {
	cfg        config.Config
	pre        *preprocess.Preprocessor
	detector   *classify.MetadataDetector
	battery    *assumptions.Suite
	selector   *Selector
	forecaster *forecasting.Forecaster
	log        *internal.Logger
}

func NewPipeline(cfg config.Config) *Pipeline {
	return &Pipeline{
		cfg:        cfg,
		pre:        preprocess.New(),
		detector:   classify.NewMetadataDetector(cfg),
		battery:    assumptions.NewSuite(cfg),
		selector:   NewSelector(cfg),
		forecaster: forecasting.New(cfg.Alpha, cfg.Horizon),
		log:        internal.NewDefaultLogger().WithComponent("pipeline"),
	}
}

// Run executes the full analysis. The only aborting condition is structural:
// a dataset with zero rows or zero numeric columns. Failed assumptions and
// failed fits are recorded, never thrown; a run that finds no viable model
// still returns a complete envelope with an empty, reasoned forecast.
func (p *Pipeline) Run(ctx context.Context, ds dataset.Dataset, target string) (*Result, error) {
	if ds.Rows() == 0 {
		return nil, errors.Structural("dataset has no rows")
	}
	if len(ds.NumericColumns()) == 0 {
		return nil, errors.Structural("dataset has no numeric columns")
	}

	clean := p.pre.Transform(ds)

	resolved, err := ResolveTarget(clean, target)
	if err != nil {
		return nil, err
	}

	meta := p.detector.Detect(clean)
	p.log.Info("classified dataset: structure=%s scale=%s linear=%t rows=%d",
		meta.Structure, meta.Scale, meta.IsLinear, meta.Rows)

	tests := p.battery.Run(ctx, clean, meta, resolved)
	results := p.selector.SelectAndFit(ctx, clean, meta, resolved, tests)
	best := PickBest(results)
	if best == nil {
		p.log.Warn("no viable model among %d candidates", len(results))
	}

	return &Result{
		RunID:    uuid.NewString(),
		Target:   resolved,
		Metadata: meta,
		Tests:    tests,
		Models:   results,
		Best:     best,
		Forecast: p.forecaster.Forecast(best),
	}, nil
}
