package contracts

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// indexSeries builds a series from "YYYY-MM-DD" dates and values,
// given in ascending date order.
func indexSeries(t *testing.T, days []string, values []float64) *IndexSeries {
	t.Helper()
	require.Equal(t, len(days), len(values))
	s := &IndexSeries{}
	for i, d := range days {
		date, err := time.Parse("2006-01-02", d)
		require.NoError(t, err)
		s.Points = append(s.Points, IndexPoint{Date: date, Value: values[i]})
	}
	return s
}

func TestIndexSeries_Validate(t *testing.T) {
	s := indexSeries(t,
		[]string{"2024-01-02", "2024-01-03", "2024-01-05"},
		[]float64{41.5, 48.2, 55.0})
	require.NoError(t, s.Validate())

	s.Points[1].Value = 101
	assert.Error(t, s.Validate())

	s.Points[1].Value = 48.2
	s.Points[1].Date = s.Points[0].Date
	assert.Error(t, s.Validate())
}

func TestIndexSeries_At(t *testing.T) {
	s := indexSeries(t,
		[]string{"2024-01-02", "2024-01-03", "2024-01-05"},
		[]float64{41.5, 48.2, 55.0})

	v, ok := s.At(time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC))
	require.True(t, ok)
	assert.Equal(t, 48.2, v)

	// Time of day is ignored.
	v, ok = s.At(time.Date(2024, 1, 5, 18, 30, 0, 0, time.UTC))
	require.True(t, ok)
	assert.Equal(t, 55.0, v)

	// Before, between, and after the scored dates.
	_, ok = s.At(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	assert.False(t, ok)
	_, ok = s.At(time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC))
	assert.False(t, ok)
	_, ok = s.At(time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC))
	assert.False(t, ok)

	_, ok = (&IndexSeries{}).At(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))
	assert.False(t, ok)
}

func TestIndexSeries_Latest(t *testing.T) {
	s := indexSeries(t,
		[]string{"2024-01-02", "2024-01-03"},
		[]float64{41.5, 48.2})
	p, ok := s.Latest()
	require.True(t, ok)
	assert.Equal(t, 48.2, p.Value)

	_, ok = (&IndexSeries{}).Latest()
	assert.False(t, ok)
}
