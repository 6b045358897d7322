package dataset

import (
	"math"
	"time"
)

// ColumnKind distinguishes numeric value columns from temporal index columns.
type ColumnKind string

const (
	Numeric  ColumnKind = "numeric"
	Temporal ColumnKind = "temporal"
)

// Column is a single named column of equal-length values. Numeric columns
// use NaN as the missing marker; temporal columns carry parsed timestamps.
type Column struct {
	Name   string
	Kind   ColumnKind
	Values []float64   // populated when Kind == Numeric
	Times  []time.Time // populated when Kind == Temporal
}

// Len returns the number of rows in the column.
func (c Column) Len() int {
	if c.Kind == Temporal {
		return len(c.Times)
	}
	return len(c.Values)
}

// NonMissing returns the numeric values with NaN entries removed.
func (c Column) NonMissing() []float64 {
	out := make([]float64, 0, len(c.Values))
	for _, v := range c.Values {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// Dataset is an ordered, named collection of columns of equal length.
// The pipeline only reads it; preprocessing produces a transformed copy.
type Dataset struct {
	Columns []Column
}

// Rows returns the row count (0 for an empty dataset).
func (d Dataset) Rows() int {
	if len(d.Columns) == 0 {
		return 0
	}
	return d.Columns[0].Len()
}

// NumericColumns returns the numeric columns in dataset order.
func (d Dataset) NumericColumns() []Column {
	out := make([]Column, 0, len(d.Columns))
	for _, c := range d.Columns {
		if c.Kind == Numeric {
			out = append(out, c)
		}
	}
	return out
}

// Column looks a column up by name.
func (d Dataset) Column(name string) (Column, bool) {
	for _, c := range d.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// TemporalColumn returns the first temporal column, if any.
func (d Dataset) TemporalColumn() (Column, bool) {
	for _, c := range d.Columns {
		if c.Kind == Temporal {
			return c, true
		}
	}
	return Column{}, false
}

// MissingCells counts NaN entries across all numeric columns.
func (d Dataset) MissingCells() int {
	n := 0
	for _, c := range d.Columns {
		for _, v := range c.Values {
			if math.IsNaN(v) {
				n++
			}
		}
	}
	return n
}

// Clone returns a deep copy the caller may mutate freely.
func (d Dataset) Clone() Dataset {
	out := Dataset{Columns: make([]Column, len(d.Columns))}
	for i, c := range d.Columns {
		cc := Column{Name: c.Name, Kind: c.Kind}
		if c.Values != nil {
			cc.Values = make([]float64, len(c.Values))
			copy(cc.Values, c.Values)
		}
		if c.Times != nil {
			cc.Times = make([]time.Time, len(c.Times))
			copy(cc.Times, c.Times)
		}
		out.Columns[i] = cc
	}
	return out
}
