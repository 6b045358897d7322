package metadata

// Structure classifies the shape of a dataset.
type Structure string

const (
	TimeSeries   Structure = "time_series"
	CrossSection Structure = "cross_section"
	Panel        Structure = "panel"
)

// PanelKind distinguishes fixed from non-fixed group effects in panel data.
// It is PanelNone exactly when Structure != Panel.
type PanelKind string

const (
	PanelNone     PanelKind = "none"
	PanelFixed    PanelKind = "fixed"
	PanelNotFixed PanelKind = "not_fixed"
)

// Scale buckets dataset size, driving classical-vs-ML model choice.
type Scale string

const (
	Small Scale = "small"
	Large Scale = "large"
)

// Metadata is the routing key for everything downstream of detection.
// It is created once per run and never mutated afterward.
type Metadata struct {
	Structure       Structure `json:"structure"`
	PanelKind       PanelKind `json:"panel_kind"`
	Scale           Scale     `json:"scale"`
	IsLinear        bool      `json:"is_linear"`
	MissingFraction float64   `json:"missing_fraction"` // in [0,1]
	Rows            int       `json:"rows"`
	Cols            int       `json:"cols"`
}

// Consistent reports whether the panel-kind invariant holds.
func (m Metadata) Consistent() bool {
	if m.Structure == Panel {
		return m.PanelKind == PanelFixed || m.PanelKind == PanelNotFixed
	}
	return m.PanelKind == PanelNone
}
