package classify

import "autostat/domain/metadata"

// ScaleClassifier buckets dataset size. Pure threshold, no error states.
type ScaleClassifier struct {
	largeRowCutoff int
}

// NewScaleClassifier creates a classifier with the given row-count cutoff.
func NewScaleClassifier(largeRowCutoff int) *ScaleClassifier {
	return &ScaleClassifier{largeRowCutoff: largeRowCutoff}
}

// Classify returns Large when rows meet the cutoff, Small otherwise.
func (c *ScaleClassifier) Classify(rows int) metadata.Scale {
	if rows >= c.largeRowCutoff {
		return metadata.Large
	}
	return metadata.Small
}
