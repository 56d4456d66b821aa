// Package backtest evaluates a fear index against realized market
// outcomes: rank correlation with next-day absolute moves, crash-day
// discrimination, and a fear-gated exposure overlay.
package backtest

import (
	"errors"
	"math"
	"time"

	"github.com/ozanyurt/bifx/internal/contracts"
	"github.com/ozanyurt/bifx/internal/indexconfig"
	"github.com/ozanyurt/bifx/pkg/logger"
)

const tradingDaysPerYear = 252

// ErrNoOverlap is returned when the index and the market series share
// no usable dates.
var ErrNoOverlap = errors.New("backtest: no overlapping dates between index and market series")

// Engine runs the evaluation suite over a computed index series and
// the benchmark price series.
type Engine struct {
	cfg indexconfig.Backtest
	log *logger.Logger
}

func NewEngine(cfg indexconfig.Backtest, log *logger.Logger) *Engine {
	return &Engine{cfg: cfg, log: log}
}

// row pairs a fear reading with the market return of the following
// session.
type row struct {
	date       time.Time
	fear       float64
	nextReturn float64
}

// Evaluate aligns the index with the market series and computes the
// full report. Dates present in only one input are dropped.
func (e *Engine) Evaluate(index contracts.IndexSeries, market contracts.AssetSeries) (*contracts.BacktestReport, error) {
	rows, err := e.align(index, market)
	if err != nil {
		return nil, err
	}

	report := &contracts.BacktestReport{
		From:           rows[0].date,
		To:             rows[len(rows)-1].date,
		Observations:   len(rows),
		CrashThreshold: e.cfg.CrashThreshold,
	}

	fears := make([]float64, len(rows))
	absMoves := make([]float64, len(rows))
	for i, r := range rows {
		fears[i] = r.fear
		absMoves[i] = math.Abs(r.nextReturn)
	}
	report.Correlation = spearman(fears, absMoves)

	report.Discrimination = e.discriminate(rows)
	report.Overlay = e.overlay(rows)

	e.log.WithFields(map[string]interface{}{
		"observations": report.Observations,
		"correlation":  report.Correlation,
		"auc_defined":  report.Discrimination.Defined,
		"crash_days":   report.Discrimination.CrashDays,
	}).Info("Backtest evaluation complete")

	return report, nil
}

// align joins the two series on calendar day and attaches each fear
// reading to the market return realized on the next shared session.
func (e *Engine) align(index contracts.IndexSeries, market contracts.AssetSeries) ([]row, error) {
	fearAt := make(map[int64]float64, len(index.Points))
	for _, p := range index.Points {
		fearAt[contracts.Day(p.Date).Unix()] = p.Value
	}

	var rows []row
	for i := 0; i+1 < len(market.Points); i++ {
		day := contracts.Day(market.Points[i].Date)
		fear, ok := fearAt[day.Unix()]
		if !ok {
			continue
		}
		prev := market.Points[i].Close
		next := market.Points[i+1].Close
		if prev == 0 {
			continue
		}
		rows = append(rows, row{
			date:       day,
			fear:       fear,
			nextReturn: next/prev - 1,
		})
	}
	if len(rows) == 0 {
		return nil, ErrNoOverlap
	}
	return rows, nil
}

// discriminate scores the index as a classifier of crash days, where a
// crash day is a session whose next-day return falls below the
// configured threshold.
func (e *Engine) discriminate(rows []row) contracts.Discrimination {
	scores := make([]float64, len(rows))
	labels := make([]bool, len(rows))
	crashes := 0
	for i, r := range rows {
		scores[i] = r.fear
		labels[i] = r.nextReturn < e.cfg.CrashThreshold
		if labels[i] {
			crashes++
		}
	}

	value, defined := aucScore(scores, labels)
	if !defined {
		e.log.WithField("crash_days", crashes).
			Warn("Crash discrimination undefined: single-class label set")
	}
	return contracts.Discrimination{
		Value:     value,
		Defined:   defined,
		CrashDays: crashes,
		CalmDays:  len(rows) - crashes,
	}
}

// overlay simulates holding the market scaled by a fear-driven
// exposure, against a fully invested baseline over the same rows.
func (e *Engine) overlay(rows []row) contracts.OverlayResult {
	marketReturns := make([]float64, len(rows))
	strategyReturns := make([]float64, len(rows))
	var exposureSum float64

	cumMarket := 1.0
	cumStrategy := 1.0
	for i, r := range rows {
		exp := e.exposure(r.fear)
		exposureSum += exp

		marketReturns[i] = r.nextReturn
		strategyReturns[i] = exp * r.nextReturn

		cumMarket *= 1 + marketReturns[i]
		cumStrategy *= 1 + strategyReturns[i]
	}

	return contracts.OverlayResult{
		SharpeMarket:        sharpe(marketReturns, e.cfg.RiskFreeRate),
		SharpeStrategy:      sharpe(strategyReturns, e.cfg.RiskFreeRate),
		TotalReturnMarket:   cumMarket - 1,
		TotalReturnStrategy: cumStrategy - 1,
		MeanExposure:        exposureSum / float64(len(rows)),
	}
}

// exposure maps fear to a position size: fully invested below the low
// threshold, flat above the high threshold, linear in between.
func (e *Engine) exposure(fear float64) float64 {
	switch {
	case fear <= e.cfg.LowFear:
		return 1
	case fear >= e.cfg.HighFear:
		return 0
	default:
		return (e.cfg.HighFear - fear) / (e.cfg.HighFear - e.cfg.LowFear)
	}
}
