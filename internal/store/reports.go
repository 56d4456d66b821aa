package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/ozanyurt/bifx/internal/contracts"
	"github.com/ozanyurt/bifx/pkg/database"
	"github.com/ozanyurt/bifx/pkg/logger"
)

// ReportRepo persists backtest reports, one per run. An undefined
// discrimination metric is stored as NULL and round-trips as
// Defined=false.
type ReportRepo struct {
	db  *database.DB
	log *logger.Logger
}

var _ contracts.ReportRepository = (*ReportRepo)(nil)

func (r *ReportRepo) Save(ctx context.Context, runID int64, report *contracts.BacktestReport) error {
	const q = `
		INSERT INTO bifx.backtest_reports
			(run_id, period_from, period_to, observations, crash_threshold,
			 correlation, auc, crash_days, calm_days,
			 sharpe_market, sharpe_strategy, return_market, return_strategy,
			 mean_exposure)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	var auc *float64
	if report.Discrimination.Defined {
		auc = &report.Discrimination.Value
	}

	_, err := r.db.Pool.Exec(ctx, q,
		runID, report.From, report.To, report.Observations, report.CrashThreshold,
		report.Correlation, auc,
		report.Discrimination.CrashDays, report.Discrimination.CalmDays,
		report.Overlay.SharpeMarket, report.Overlay.SharpeStrategy,
		report.Overlay.TotalReturnMarket, report.Overlay.TotalReturnStrategy,
		report.Overlay.MeanExposure,
	)
	if err != nil {
		return fmt.Errorf("insert backtest report: %w", err)
	}

	r.log.WithField("run_id", runID).Debug("Backtest report persisted")
	return nil
}

func (r *ReportRepo) GetLatest(ctx context.Context) (*contracts.BacktestReport, error) {
	const q = `
		SELECT period_from, period_to, observations, crash_threshold,
		       correlation, auc, crash_days, calm_days,
		       sharpe_market, sharpe_strategy, return_market, return_strategy,
		       mean_exposure
		FROM bifx.backtest_reports
		ORDER BY run_id DESC
		LIMIT 1`

	var report contracts.BacktestReport
	var auc *float64
	err := r.db.Pool.QueryRow(ctx, q).Scan(
		&report.From, &report.To, &report.Observations, &report.CrashThreshold,
		&report.Correlation, &auc,
		&report.Discrimination.CrashDays, &report.Discrimination.CalmDays,
		&report.Overlay.SharpeMarket, &report.Overlay.SharpeStrategy,
		&report.Overlay.TotalReturnMarket, &report.Overlay.TotalReturnStrategy,
		&report.Overlay.MeanExposure,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select latest backtest report: %w", err)
	}

	if auc != nil {
		report.Discrimination.Value = *auc
		report.Discrimination.Defined = true
	}
	return &report, nil
}
