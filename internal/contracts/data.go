package contracts

import (
	"fmt"
	"math"
	"time"
)

// PricePoint is a single daily observation of an asset.
// Close is the only field every provider is required to fill.
type PricePoint struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open,omitempty"`
	High   float64   `json:"high,omitempty"`
	Low    float64   `json:"low,omitempty"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume,omitempty"`
}

// AssetSeries is one named, date-ordered input series.
// Dates are strictly increasing with no duplicates; the series is
// immutable once it enters a Dataset.
type AssetSeries struct {
	Name   string       `json:"name"`
	Points []PricePoint `json:"points"`
}

// Validate checks the series invariants: non-empty name, strictly
// increasing dates, no duplicate dates.
func (s *AssetSeries) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("asset series has empty name")
	}
	for i := 1; i < len(s.Points); i++ {
		if !s.Points[i-1].Date.Before(s.Points[i].Date) {
			return fmt.Errorf("asset %s: dates not strictly increasing at index %d (%s >= %s)",
				s.Name, i,
				s.Points[i-1].Date.Format("2006-01-02"),
				s.Points[i].Date.Format("2006-01-02"))
		}
	}
	return nil
}

// Len returns the number of observations.
func (s *AssetSeries) Len() int {
	return len(s.Points)
}

// Dates returns the date index of the series.
func (s *AssetSeries) Dates() []time.Time {
	dates := make([]time.Time, len(s.Points))
	for i, p := range s.Points {
		dates[i] = p.Date
	}
	return dates
}

// Closes returns the close values of the series.
func (s *AssetSeries) Closes() []float64 {
	closes := make([]float64, len(s.Points))
	for i, p := range s.Points {
		closes[i] = p.Close
	}
	return closes
}

// Returns computes simple day-over-day returns aligned to the series
// dates. The first value is NaN (no prior observation).
func (s *AssetSeries) Returns() []float64 {
	rets := make([]float64, len(s.Points))
	for i := range s.Points {
		if i == 0 || s.Points[i-1].Close == 0 {
			rets[i] = math.NaN()
			continue
		}
		rets[i] = s.Points[i].Close/s.Points[i-1].Close - 1
	}
	return rets
}

// Dataset maps asset name to its series for one pipeline run. It holds
// exactly the enabled sources that fetched successfully; a failed fetch
// leaves its asset absent.
type Dataset map[string]*AssetSeries

// Get returns the series for an asset, or nil and false when the asset
// is absent (fetch failed or source disabled).
func (d Dataset) Get(name string) (*AssetSeries, bool) {
	s, ok := d[name]
	if !ok || s == nil || len(s.Points) == 0 {
		return nil, false
	}
	return s, true
}

// Names returns the asset names present in the dataset.
func (d Dataset) Names() []string {
	names := make([]string, 0, len(d))
	for name := range d {
		names = append(names, name)
	}
	return names
}

// Day truncates a timestamp to its UTC calendar day. All date indices
// in the pipeline are normalized through this so that series from
// providers in different timezones align.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
