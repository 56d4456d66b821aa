package contracts

import (
	"fmt"
	"sort"
	"time"
)

// IndexPoint is one dated composite score. Value is always inside
// [0, 100]; dates where no feature had data simply have no point.
type IndexPoint struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// IndexSeries is the fear index produced by one pipeline run. Derived,
// stateless output: never mutated once computed.
type IndexSeries struct {
	Points []IndexPoint `json:"points"`
}

// Validate checks the range invariant and date ordering.
func (s *IndexSeries) Validate() error {
	for i, p := range s.Points {
		if p.Value < 0 || p.Value > 100 {
			return fmt.Errorf("index value %.4f on %s outside [0,100]",
				p.Value, p.Date.Format("2006-01-02"))
		}
		if i > 0 && !s.Points[i-1].Date.Before(p.Date) {
			return fmt.Errorf("index dates not strictly increasing at %s",
				p.Date.Format("2006-01-02"))
		}
	}
	return nil
}

// Len returns the number of scored dates.
func (s *IndexSeries) Len() int {
	return len(s.Points)
}

// Latest returns the most recent point, or false for an empty series.
func (s *IndexSeries) Latest() (IndexPoint, bool) {
	if len(s.Points) == 0 {
		return IndexPoint{}, false
	}
	return s.Points[len(s.Points)-1], true
}

// At returns the value on a given day, or false when the index has no
// value there. Points are strictly increasing by date, so the lookup
// is a binary search.
func (s *IndexSeries) At(date time.Time) (float64, bool) {
	day := Day(date)
	i := sort.Search(len(s.Points), func(i int) bool {
		return !s.Points[i].Date.Before(day)
	})
	if i < len(s.Points) && s.Points[i].Date.Equal(day) {
		return s.Points[i].Value, true
	}
	return 0, false
}
