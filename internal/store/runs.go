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

// RunRepo persists pipeline run metadata.
type RunRepo struct {
	db  *database.DB
	log *logger.Logger
}

var _ contracts.RunRepository = (*RunRepo)(nil)

func (r *RunRepo) Create(ctx context.Context, run *contracts.RunRecord) (int64, error) {
	const q = `
		INSERT INTO bifx.runs
			(started_at, finished_at, config_hash, period_from, period_to,
			 asset_count, feature_count, warnings)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`

	warnings := run.Warnings
	if warnings == nil {
		warnings = []string{}
	}

	var id int64
	err := r.db.Pool.QueryRow(ctx, q,
		run.StartedAt, run.FinishedAt, run.ConfigHash, run.From, run.To,
		run.AssetCount, run.FeatureCount, warnings,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}

	r.log.WithFields(map[string]interface{}{
		"run_id":      id,
		"config_hash": run.ConfigHash,
	}).Debug("Run persisted")
	return id, nil
}

func (r *RunRepo) GetLatest(ctx context.Context) (*contracts.RunRecord, error) {
	const q = `
		SELECT id, started_at, finished_at, config_hash, period_from, period_to,
		       asset_count, feature_count, warnings
		FROM bifx.runs
		ORDER BY finished_at DESC
		LIMIT 1`

	var run contracts.RunRecord
	err := r.db.Pool.QueryRow(ctx, q).Scan(
		&run.ID, &run.StartedAt, &run.FinishedAt, &run.ConfigHash,
		&run.From, &run.To, &run.AssetCount, &run.FeatureCount, &run.Warnings,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select latest run: %w", err)
	}
	return &run, nil
}
