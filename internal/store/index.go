package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/ozanyurt/bifx/internal/contracts"
	"github.com/ozanyurt/bifx/pkg/database"
	"github.com/ozanyurt/bifx/pkg/logger"
)

// IndexRepo persists computed index series and serves lookups for the
// API.
type IndexRepo struct {
	db  *database.DB
	log *logger.Logger
}

var _ contracts.IndexRepository = (*IndexRepo)(nil)

// SaveSeries inserts all points of a run in one batch.
func (r *IndexRepo) SaveSeries(ctx context.Context, runID int64, series *contracts.IndexSeries) error {
	batch := &pgx.Batch{}
	const q = `INSERT INTO bifx.index_values (run_id, date, value) VALUES ($1, $2, $3)`
	for _, p := range series.Points {
		batch.Queue(q, runID, p.Date, p.Value)
	}

	results := r.db.Pool.SendBatch(ctx, batch)
	defer results.Close()

	for range series.Points {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("insert index values: %w", err)
		}
	}

	r.log.WithFields(map[string]interface{}{
		"run_id": runID,
		"points": series.Len(),
	}).Debug("Index series persisted")
	return nil
}

// GetLatest returns the most recent index value of the most recent run.
func (r *IndexRepo) GetLatest(ctx context.Context) (*contracts.IndexPoint, error) {
	const q = `
		SELECT date, value
		FROM bifx.index_values
		WHERE run_id = (SELECT id FROM bifx.runs ORDER BY finished_at DESC LIMIT 1)
		ORDER BY date DESC
		LIMIT 1`

	var p contracts.IndexPoint
	err := r.db.Pool.QueryRow(ctx, q).Scan(&p.Date, &p.Value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select latest index value: %w", err)
	}
	return &p, nil
}

// GetRange returns the latest run's values inside [from, to].
func (r *IndexRepo) GetRange(ctx context.Context, from, to time.Time) (*contracts.IndexSeries, error) {
	const q = `
		SELECT date, value
		FROM bifx.index_values
		WHERE run_id = (SELECT id FROM bifx.runs ORDER BY finished_at DESC LIMIT 1)
		  AND date BETWEEN $1 AND $2
		ORDER BY date`

	rows, err := r.db.Pool.Query(ctx, q, from, to)
	if err != nil {
		return nil, fmt.Errorf("select index range: %w", err)
	}
	defer rows.Close()

	series := &contracts.IndexSeries{}
	for rows.Next() {
		var p contracts.IndexPoint
		if err := rows.Scan(&p.Date, &p.Value); err != nil {
			return nil, fmt.Errorf("scan index value: %w", err)
		}
		series.Points = append(series.Points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate index values: %w", err)
	}
	return series, nil
}
