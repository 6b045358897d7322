package classify

import (
	"math"
	"strings"

	"autostat/domain/dataset"
	"autostat/domain/metadata"
)

// Column name signals for panel/time detection. Matching is case-insensitive
// on the full name, the same keyword sets the data typically ships with.
var (
	entityColumnNames = []string{"id", "entity", "firm", "company", "individual", "n"}
	timeColumnNames   = []string{"time", "period", "year", "month", "date", "t"}
)

// TypeClassifier infers whether a dataset is a time series, cross-section,
// or panel, and for panels whether group effects look fixed. Classification
// always succeeds with a best-effort guess; ambiguous input defaults to
// cross-section.
type TypeClassifier struct {
	panelVarianceCutoff float64
}

// NewTypeClassifier creates a classifier. The cutoff is the between/within
// variance ratio above which a panel's group effects count as fixed.
func NewTypeClassifier(panelVarianceCutoff float64) *TypeClassifier {
	return &TypeClassifier{panelVarianceCutoff: panelVarianceCutoff}
}

// Classify determines the dataset structure and panel kind.
func (c *TypeClassifier) Classify(ds dataset.Dataset) (metadata.Structure, metadata.PanelKind) {
	entityCol := c.findEntityColumn(ds)
	hasTimeSignal := c.hasTimeSignal(ds)

	switch {
	case entityCol != nil && hasTimeSignal:
		return metadata.Panel, c.panelKind(ds, *entityCol)
	case hasTimeSignal:
		return metadata.TimeSeries, metadata.PanelNone
	default:
		return metadata.CrossSection, metadata.PanelNone
	}
}

func (c *TypeClassifier) hasTimeSignal(ds dataset.Dataset) bool {
	for _, col := range ds.Columns {
		if col.Kind == dataset.Temporal {
			return true
		}
		if matchesName(col.Name, timeColumnNames) {
			return true
		}
	}
	return false
}

func (c *TypeClassifier) findEntityColumn(ds dataset.Dataset) *dataset.Column {
	for i, col := range ds.Columns {
		if col.Kind == dataset.Numeric && matchesName(col.Name, entityColumnNames) {
			return &ds.Columns[i]
		}
	}
	return nil
}

// panelKind compares between-entity variance of the first value column's
// group means against the mean within-entity variance. A dominant
// between-entity component marks the group effects as fixed.
func (c *TypeClassifier) panelKind(ds dataset.Dataset, entity dataset.Column) metadata.PanelKind {
	value := c.findValueColumn(ds, entity.Name)
	if value == nil {
		return metadata.PanelNotFixed
	}

	groups := map[float64][]float64{}
	for i, id := range entity.Values {
		if i >= len(value.Values) {
			break
		}
		v := value.Values[i]
		if math.IsNaN(id) || math.IsNaN(v) {
			continue
		}
		groups[id] = append(groups[id], v)
	}
	if len(groups) < 2 {
		return metadata.PanelNotFixed
	}

	means := make([]float64, 0, len(groups))
	var withinSum float64
	var withinCount int
	for _, vals := range groups {
		m := mean(vals)
		means = append(means, m)
		if len(vals) > 1 {
			withinSum += variance(vals, m)
			withinCount++
		}
	}

	between := variance(means, mean(means))
	if withinCount == 0 {
		return metadata.PanelNotFixed
	}
	within := withinSum / float64(withinCount)
	if within <= 0 {
		// Degenerate within-entity spread: group means fully explain the
		// column, which is the fixed-effects extreme.
		return metadata.PanelFixed
	}

	if between/within > c.panelVarianceCutoff {
		return metadata.PanelFixed
	}
	return metadata.PanelNotFixed
}

func (c *TypeClassifier) findValueColumn(ds dataset.Dataset, entityName string) *dataset.Column {
	for i, col := range ds.Columns {
		if col.Kind != dataset.Numeric || col.Name == entityName {
			continue
		}
		if matchesName(col.Name, timeColumnNames) {
			continue
		}
		return &ds.Columns[i]
	}
	return nil
}

// IsEntityName reports whether a column name signals an entity identifier.
func IsEntityName(name string) bool {
	return matchesName(name, entityColumnNames)
}

// IsTimeName reports whether a column name signals a time index.
func IsTimeName(name string) bool {
	return matchesName(name, timeColumnNames)
}

func matchesName(name string, candidates []string) bool {
	lower := strings.ToLower(strings.TrimSpace(name))
	for _, c := range candidates {
		if lower == c {
			return true
		}
	}
	return false
}

func mean(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	s := 0.0
	for _, v := range vals {
		s += v
	}
	return s / float64(len(vals))
}

func variance(vals []float64, m float64) float64 {
	if len(vals) < 2 {
		return 0
	}
	s := 0.0
	for _, v := range vals {
		d := v - m
		s += d * d
	}
	return s / float64(len(vals)-1)
}
