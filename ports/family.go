package ports

import (
	"context"

	"autostat/domain/dataset"
	"autostat/domain/model"
)

// ModelFamily is the uniform fit contract every candidate family implements.
// Fit never returns an error: a failed fit is represented as a ModelResult
// with Err set, so selection can continue through the candidate list.
type ModelFamily interface {
	Tag() model.FamilyTag
	Fit(ctx context.Context, ds dataset.Dataset, target string) model.ModelResult
}
