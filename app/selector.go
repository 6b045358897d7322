package app

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"

	"autostat/adapters/classify"
	"autostat/adapters/models"
	"autostat/domain/dataset"
	"autostat/domain/diagnostics"
	"autostat/domain/metadata"
	"autostat/domain/model"
	"autostat/internal"
	"autostat/internal/config"
	"autostat/internal/errors"
	"autostat/ports"
)

// CandidateOrder is the decision table: (structure, scale) names an ordered
// candidate bucket. Every candidate is always attempted.
func CandidateOrder(meta metadata.Metadata) []model.FamilyTag {
	switch meta.Structure {
	case metadata.Panel:
		return []model.FamilyTag{model.FixedEffects, model.RandomEffects}
	case metadata.TimeSeries:
		if meta.Scale == metadata.Small {
			return []model.FamilyTag{model.ECM, model.VECM, model.Granger}
		}
		return []model.FamilyTag{model.ARIMA, model.GARCH, model.VARIMA}
	default:
		if meta.Scale == metadata.Small {
			return []model.FamilyTag{model.OLS}
		}
		return []model.FamilyTag{model.RandomForest, model.GradientBoost}
	}
}

// Selector fits every candidate from the decision table against the data.
type Selector struct {
	cfg      config.Config
	families map[model.FamilyTag]ports.ModelFamily
	log      *internal.Logger
}

func NewSelector(cfg config.Config) *Selector {
	return &Selector{
		cfg:      cfg,
		families: models.Registry(cfg),
		log:      internal.NewDefaultLogger().WithComponent("selector"),
	}
}

// SelectAndFit runs the full candidate bucket, concurrently up to the
// configured bound. Results land at their decision-table position, so the
// output order never depends on scheduling. Failed assumption names are
// attached to every result's diagnostics; they inform, never block.
func (s *Selector) SelectAndFit(ctx context.Context, ds dataset.Dataset, meta metadata.Metadata, target string, tests []diagnostics.TestResult) []model.ModelResult {
	order := CandidateOrder(meta)
	results := make([]model.ModelResult, len(order))
	failed := failedTests(tests)

	sem := semaphore.NewWeighted(s.cfg.FitConcurrency)
	var wg sync.WaitGroup
	for i, tag := range order {
		fam, ok := s.families[tag]
		if !ok {
			results[i] = model.Failed(tag, target, errors.Fit("no fitter registered for %s", tag))
			continue
		}
		wg.Add(1)
		go func(i int, fam ports.ModelFamily) {
			defer wg.Done()
			if err := sem.Acquire(ctx, 1); err != nil {
				results[i] = model.Failed(fam.Tag(), target, err)
				return
			}
			defer sem.Release(1)

			res := fam.Fit(ctx, ds, target)
			attachDiagnostics(&res, failed)
			results[i] = res
		}(i, fam)
	}
	wg.Wait()

	for _, r := range results {
		if r.OK() {
			s.log.Info("fitted %s on %s (fitness %.4f, %s)", r.Family, r.Target, r.Fitness, r.FitnessKind)
		} else {
			s.log.Warn("fit failed for %s on %s: %s", r.Family, r.Target, r.Err)
		}
	}
	return results
}

// ResolveTarget validates the requested target or, when none is given,
// picks the last value column the way an analyst reads a table: the
// right-most numeric column that is not an entity or time key.
func ResolveTarget(ds dataset.Dataset, requested string) (string, error) {
	if requested != "" {
		col, ok := ds.Column(requested)
		if !ok || col.Kind != dataset.Numeric {
			return "", errors.InvalidInput("target column not found: " + requested)
		}
		return requested, nil
	}

	candidates := ds.NumericColumns()
	for i := len(candidates) - 1; i >= 0; i-- {
		name := candidates[i].Name
		if classify.IsEntityName(name) || classify.IsTimeName(name) {
			continue
		}
		return name, nil
	}
	return "", errors.Structural("no value column available as target")
}

// failedTests maps each failed (but ran) assumption to its p-value.
func failedTests(tests []diagnostics.TestResult) map[string]float64 {
	out := make(map[string]float64)
	for _, t := range tests {
		if t.Ran() && !t.Passed {
			out["failed:"+t.Name] = t.PValue
		}
	}
	return out
}

func attachDiagnostics(res *model.ModelResult, failed map[string]float64) {
	if len(failed) == 0 {
		return
	}
	if res.Diagnostics == nil {
		res.Diagnostics = make(map[string]float64, len(failed))
	}
	for name, p := range failed {
		res.Diagnostics[name] = p
	}
}
