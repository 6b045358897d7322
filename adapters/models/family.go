// Package models implements one fitter per candidate model family behind
// the uniform ModelFamily contract. A fit never aborts the pipeline: every
// failure comes back as an error-sentinel result so selection can continue
// through the remaining candidates.
package models

import (
	"autostat/domain/model"
	"autostat/internal/config"
	"autostat/ports"
)

// Registry builds the full family table keyed by tag. The set is closed:
// the decision table only ever names tags present here.
func Registry(cfg config.Config) map[model.FamilyTag]ports.ModelFamily {
	families := []ports.ModelFamily{
		ecmFamily{alpha: cfg.Alpha},
		vecmFamily{alpha: cfg.Alpha},
		grangerFamily{maxLag: cfg.MaxLag},
		arimaFamily{},
		garchFamily{},
		varimaFamily{},
		olsFamily{},
		forestFamily{seed: cfg.Seed},
		boostFamily{},
		fixedEffectsFamily{},
		randomEffectsFamily{},
	}
	out := make(map[model.FamilyTag]ports.ModelFamily, len(families))
	for _, f := range families {
		out[f.Tag()] = f
	}
	return out
}
