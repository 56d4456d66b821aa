package contracts

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// FeatureSeries is the output of exactly one feature plugin: a named
// numeric series on a strictly increasing date index. NaN marks missing
// values (leading gaps from rolling windows are expected, not errors).
type FeatureSeries struct {
	Name   string
	Dates  []time.Time
	Values []float64
}

// Validate rejects malformed plugin results at the engine boundary:
// empty name, length mismatch, non-monotonic index, or a series with no
// observed value at all.
func (f *FeatureSeries) Validate() error {
	if f.Name == "" {
		return fmt.Errorf("feature series has empty name")
	}
	if len(f.Dates) != len(f.Values) {
		return fmt.Errorf("feature %s: %d dates but %d values", f.Name, len(f.Dates), len(f.Values))
	}
	if len(f.Dates) == 0 {
		return fmt.Errorf("feature %s: empty series", f.Name)
	}
	for i := 1; i < len(f.Dates); i++ {
		if !f.Dates[i-1].Before(f.Dates[i]) {
			return fmt.Errorf("feature %s: dates not strictly increasing at index %d", f.Name, i)
		}
	}
	valid := 0
	for _, v := range f.Values {
		if !math.IsNaN(v) {
			valid++
		}
	}
	if valid == 0 {
		return fmt.Errorf("feature %s: all values missing", f.Name)
	}
	return nil
}

// ValidCount returns the number of non-missing values.
func (f *FeatureSeries) ValidCount() int {
	n := 0
	for _, v := range f.Values {
		if !math.IsNaN(v) {
			n++
		}
	}
	return n
}

// FeatureSet holds all successfully computed features aligned to the
// union of their native date indices. Columns are NaN-padded where a
// feature has no value; dates where every feature is missing are
// dropped from the shared index.
type FeatureSet struct {
	Dates   []time.Time
	Columns map[string][]float64
	names   []string
}

// NewFeatureSet aligns feature series onto a shared date index.
// Duplicate feature names are a hard error: silently keeping one of the
// two would corrupt the composite.
func NewFeatureSet(features []*FeatureSeries) (*FeatureSet, error) {
	seen := make(map[string]bool, len(features))
	union := make(map[time.Time]bool)
	for _, f := range features {
		if seen[f.Name] {
			return nil, fmt.Errorf("duplicate feature name %q", f.Name)
		}
		seen[f.Name] = true
		for i, d := range f.Dates {
			if !math.IsNaN(f.Values[i]) {
				union[d] = true
			}
		}
	}

	dates := make([]time.Time, 0, len(union))
	for d := range union {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	pos := make(map[time.Time]int, len(dates))
	for i, d := range dates {
		pos[d] = i
	}

	fs := &FeatureSet{
		Dates:   dates,
		Columns: make(map[string][]float64, len(features)),
	}
	for _, f := range features {
		col := make([]float64, len(dates))
		for i := range col {
			col[i] = math.NaN()
		}
		for i, d := range f.Dates {
			if idx, ok := pos[d]; ok {
				col[idx] = f.Values[i]
			}
		}
		fs.Columns[f.Name] = col
		fs.names = append(fs.names, f.Name)
	}
	sort.Strings(fs.names)
	return fs, nil
}

// Names returns the feature names in deterministic (sorted) order.
func (fs *FeatureSet) Names() []string {
	return fs.names
}

// Len returns the number of dates in the shared index.
func (fs *FeatureSet) Len() int {
	return len(fs.Dates)
}
