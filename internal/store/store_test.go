package store

import (
	"context"
	"io"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ozanyurt/bifx/internal/contracts"
	"github.com/ozanyurt/bifx/pkg/config"
	"github.com/ozanyurt/bifx/pkg/database"
	"github.com/ozanyurt/bifx/pkg/logger"
)

// integrationStore connects to the database named by TEST_DATABASE_URL.
// Without it (or under -short) the test is skipped.
func integrationStore(t *testing.T) *Store {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping store integration test in short mode")
	}
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := database.New(&config.Config{Database: config.DatabaseConfig{
		URL: url, MaxConns: 2, MinConns: 1,
		MaxConnLifetime: time.Hour, MaxConnIdleTime: time.Minute,
	}})
	require.NoError(t, err)
	t.Cleanup(db.Close)
	require.NoError(t, db.Migrate(context.Background()))

	return New(db, logger.NewWriter(io.Discard, "error"))
}

func TestStore_RunIndexReportRoundTrip(t *testing.T) {
	s := integrationStore(t)
	ctx := context.Background()

	day := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	runID, err := s.Runs.Create(ctx, &contracts.RunRecord{
		StartedAt:    time.Now().Add(-time.Minute).UTC(),
		FinishedAt:   time.Now().UTC(),
		ConfigHash:   "deadbeef",
		From:         day,
		To:           day.AddDate(0, 0, 5),
		AssetCount:   3,
		FeatureCount: 4,
		Warnings:     []string{"source CDS: fetch failed"},
	})
	require.NoError(t, err)
	require.Positive(t, runID)

	series := &contracts.IndexSeries{Points: []contracts.IndexPoint{
		{Date: day, Value: 42.5},
		{Date: day.AddDate(0, 0, 1), Value: 58.1},
	}}
	require.NoError(t, s.Index.SaveSeries(ctx, runID, series))

	latest, err := s.Index.GetLatest(ctx)
	require.NoError(t, err)
	assert.Equal(t, 58.1, latest.Value)

	ranged, err := s.Index.GetRange(ctx, day, day.AddDate(0, 0, 10))
	require.NoError(t, err)
	assert.Len(t, ranged.Points, 2)

	report := &contracts.BacktestReport{
		From: day, To: day.AddDate(0, 0, 5),
		Observations: 5, CrashThreshold: -0.02,
		Correlation: 0.31,
		Discrimination: contracts.Discrimination{
			Defined: false, CrashDays: 0, CalmDays: 5,
		},
		Overlay: contracts.OverlayResult{MeanExposure: 0.8},
	}
	require.NoError(t, s.Reports.Save(ctx, runID, report))

	got, err := s.Reports.GetLatest(ctx)
	require.NoError(t, err)
	assert.False(t, got.Discrimination.Defined)
	assert.Equal(t, 0.31, got.Correlation)

	run, err := s.Runs.GetLatest(ctx)
	require.NoError(t, err)
	assert.Equal(t, "deadbeef", run.ConfigHash)
	assert.Len(t, run.Warnings, 1)
}
