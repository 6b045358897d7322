package classify

import (
	"autostat/domain/dataset"
	"autostat/domain/metadata"
	"autostat/internal/config"
)

// MetadataDetector composes type, scale, and linearity classification plus
// the missing-data ratio into one immutable metadata record. There is no
// partial failure: defaulting rules inside the classifiers guarantee a
// complete record for any input.
type MetadataDetector struct {
	types     *TypeClassifier
	scale     *ScaleClassifier
	linearity *LinearityProbe
}

// NewMetadataDetector wires the three classifiers from configuration.
func NewMetadataDetector(cfg config.Config) *MetadataDetector {
	return &MetadataDetector{
		types:     NewTypeClassifier(cfg.PanelVarianceCutoff),
		scale:     NewScaleClassifier(cfg.LargeRowCutoff),
		linearity: NewLinearityProbe(cfg.LinearityTolerance),
	}
}

// Detect builds the metadata record that routes every downstream stage.
func (d *MetadataDetector) Detect(ds dataset.Dataset) metadata.Metadata {
	structure, panelKind := d.types.Classify(ds)
	rows := ds.Rows()
	cols := len(ds.Columns)

	missing := 0.0
	if rows > 0 && cols > 0 {
		missing = float64(ds.MissingCells()) / float64(rows*cols)
	}

	return metadata.Metadata{
		Structure:       structure,
		PanelKind:       panelKind,
		Scale:           d.scale.Classify(rows),
		IsLinear:        d.linearity.IsLinear(ds),
		MissingFraction: missing,
		Rows:            rows,
		Cols:            cols,
	}
}
