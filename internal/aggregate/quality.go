package aggregate

import (
	"fmt"
	"time"

	"github.com/ozanyurt/bifx/internal/contracts"
	"github.com/ozanyurt/bifx/pkg/logger"
)

// Monitor flags series with too many missing observations relative to
// the weekday count of their own span. Warnings never block a run.
type Monitor struct {
	maxMissingRatio float64
	log             *logger.Logger
}

func NewMonitor(maxMissingRatio float64, log *logger.Logger) *Monitor {
	return &Monitor{maxMissingRatio: maxMissingRatio, log: log}
}

// Check returns one warning per asset whose missing ratio exceeds the
// configured threshold.
func (m *Monitor) Check(dataset contracts.Dataset) []string {
	var warnings []string
	for _, name := range dataset.Names() {
		series, ok := dataset.Get(name)
		if !ok {
			continue
		}
		ratio := missingRatio(series)
		if ratio > m.maxMissingRatio {
			warnings = append(warnings, fmt.Sprintf(
				"source %s: missing ratio %.2f exceeds %.2f", name, ratio, m.maxMissingRatio))
			m.log.WithFields(map[string]interface{}{
				"source":        name,
				"missing_ratio": ratio,
			}).Warn("Series has excessive gaps")
		}
	}
	return warnings
}

// missingRatio measures coverage against the weekdays of the series'
// own span, so an asset that simply starts late is not penalized for
// the window before its first observation.
func missingRatio(series *contracts.AssetSeries) float64 {
	n := series.Len()
	if n == 0 {
		return 1
	}
	expected := countWeekdays(series.Points[0].Date, series.Points[n-1].Date)
	if expected <= 0 {
		return 0
	}
	ratio := 1 - float64(n)/float64(expected)
	if ratio < 0 {
		return 0
	}
	return ratio
}

func countWeekdays(start, end time.Time) int {
	count := 0
	for d := contracts.Day(start); !d.After(contracts.Day(end)); d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd != time.Saturday && wd != time.Sunday {
			count++
		}
	}
	return count
}
