package dataset

import (
	"math"

	"gocausal/domain/core"

	"github.com/montanaflynn/stats"
)

// Series is a single numeric parameter sequence sharing the table's ordinal
// index. Missing observations are represented as NaN.
type Series []float64

// Missing reports whether the observation at index i is missing.
func (s Series) Missing(i int) bool {
	return math.IsNaN(s[i])
}

// MissingCount returns the number of missing observations.
func (s Series) MissingCount() int {
	count := 0
	for _, v := range s {
		if math.IsNaN(v) {
			count++
		}
	}
	return count
}

// Clean returns the non-missing values in order.
func (s Series) Clean() []float64 {
	out := make([]float64, 0, len(s))
	for _, v := range s {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// Clone returns an independent copy of the series.
func (s Series) Clone() Series {
	out := make(Series, len(s))
	copy(out, s)
	return out
}

// ParameterTable is a named, time-aligned collection of numeric parameter
// series over one shared ordinal index. Column order is preserved from the
// source so batch results stay reproducible.
type ParameterTable struct {
	names   []string
	columns map[string]Series
	rows    int
}

// NewParameterTable creates an empty table with a fixed row count.
func NewParameterTable(rows int) *ParameterTable {
	return &ParameterTable{
		columns: make(map[string]Series),
		rows:    rows,
	}
}

// AddColumn appends a named series. The series length must match the table's
// row count; a duplicate name overwrites the previous series in place and
// keeps its original position.
func (t *ParameterTable) AddColumn(name string, series Series) error {
	if len(series) != t.rows {
		return core.NewLengthMismatchError(name, len(series), t.rows)
	}
	if _, exists := t.columns[name]; !exists {
		t.names = append(t.names, name)
	}
	t.columns[name] = series
	return nil
}

// Column returns the named series and whether it exists.
func (t *ParameterTable) Column(name string) (Series, bool) {
	s, ok := t.columns[name]
	return s, ok
}

// HasColumn reports whether a named series exists.
func (t *ParameterTable) HasColumn(name string) bool {
	_, ok := t.columns[name]
	return ok
}

// ColumnNames returns the column names in source order.
func (t *ParameterTable) ColumnNames() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}

// Rows returns the shared index length.
func (t *ParameterTable) Rows() int {
	return t.rows
}

// ColumnCount returns the number of columns.
func (t *ParameterTable) ColumnCount() int {
	return len(t.names)
}

// Validate checks the table is structurally usable.
func (t *ParameterTable) Validate() error {
	if t == nil || len(t.names) == 0 {
		return core.ErrEmptyTable
	}
	return nil
}

// Fingerprint identifies this exact table (column order and row count).
func (t *ParameterTable) Fingerprint() core.TableFingerprint {
	return core.ComputeTableFingerprint(t.names, t.rows)
}

// AlignPair produces the cleaned observation pair for two series: rows where
// either value is missing are dropped, order preserved. When the series have
// different lengths the overhang of the longer one counts as missing.
func AlignPair(cause, effect Series) (x, y []float64) {
	n := len(cause)
	if len(effect) < n {
		n = len(effect)
	}
	x = make([]float64, 0, n)
	y = make([]float64, 0, n)
	for i := 0; i < n; i++ {
		if math.IsNaN(cause[i]) || math.IsNaN(effect[i]) {
			continue
		}
		x = append(x, cause[i])
		y = append(y, effect[i])
	}
	return x, y
}

// ColumnProfile summarizes one parameter series for reporting surfaces.
type ColumnProfile struct {
	Name    string  `json:"name"`
	Count   int     `json:"count"`
	Missing int     `json:"missing"`
	Mean    float64 `json:"mean"`
	StdDev  float64 `json:"std_dev"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
}

// Profile computes per-column summary statistics over non-missing values.
// A column with no usable values reports zeros, never NaN.
func (t *ParameterTable) Profile() []ColumnProfile {
	profiles := make([]ColumnProfile, 0, len(t.names))
	for _, name := range t.names {
		clean := t.columns[name].Clean()

		profile := ColumnProfile{
			Name:    name,
			Count:   len(clean),
			Missing: t.rows - len(clean),
		}
		if len(clean) > 0 {
			profile.Mean, _ = stats.Mean(clean)
			profile.StdDev, _ = stats.StandardDeviation(clean)
			profile.Min, _ = stats.Min(clean)
			profile.Max, _ = stats.Max(clean)
		}
		profiles = append(profiles, profile)
	}
	return profiles
}
