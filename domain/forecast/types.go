package forecast

// Row is one projected period with its interval bounds.
// Invariant: LowerCI <= Point <= UpperCI.
type Row struct {
	Period  int     `json:"period"`
	Point   float64 `json:"point"`
	LowerCI float64 `json:"lower_ci"`
	UpperCI float64 `json:"upper_ci"`
}

// Table is the ordered forecast output. When empty, Reason explains why
// no forecast could be produced (no viable model, history too short).
type Table struct {
	Rows   []Row  `json:"rows"`
	Reason string `json:"reason,omitempty"`
}

// Empty reports whether the table carries no forecast rows.
func (t Table) Empty() bool {
	return len(t.Rows) == 0
}

// Valid checks the per-row bound invariant and strict period ordering.
func (t Table) Valid() bool {
	for i, r := range t.Rows {
		if r.Period != i+1 {
			return false
		}
		if r.LowerCI > r.Point || r.Point > r.UpperCI {
			return false
		}
	}
	return true
}
