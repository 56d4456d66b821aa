package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ozanyurt/bifx/internal/api/handlers"
	"github.com/ozanyurt/bifx/internal/contracts"
	"github.com/ozanyurt/bifx/internal/store"
	"github.com/ozanyurt/bifx/pkg/logger"
)

type emptyIndexRepo struct{}

func (emptyIndexRepo) SaveSeries(context.Context, int64, *contracts.IndexSeries) error {
	return errors.New("read-only")
}
func (emptyIndexRepo) GetLatest(context.Context) (*contracts.IndexPoint, error) {
	return nil, store.ErrNotFound
}
func (emptyIndexRepo) GetRange(context.Context, time.Time, time.Time) (*contracts.IndexSeries, error) {
	return &contracts.IndexSeries{}, nil
}

type emptyRunRepo struct{}

func (emptyRunRepo) Create(context.Context, *contracts.RunRecord) (int64, error) {
	return 0, errors.New("read-only")
}
func (emptyRunRepo) GetLatest(context.Context) (*contracts.RunRecord, error) {
	return nil, store.ErrNotFound
}

type emptyReportRepo struct{}

func (emptyReportRepo) Save(context.Context, int64, *contracts.BacktestReport) error {
	return errors.New("read-only")
}
func (emptyReportRepo) GetLatest(context.Context) (*contracts.BacktestReport, error) {
	return nil, store.ErrNotFound
}

func testRouter() http.Handler {
	log := logger.NewWriter(io.Discard, "error")
	return NewRouter(
		handlers.NewIndexHandler(emptyIndexRepo{}, emptyRunRepo{}, log),
		handlers.NewBacktestHandler(emptyReportRepo{}, log),
		log,
	)
}

func TestRouter_Health(t *testing.T) {
	rec := httptest.NewRecorder()
	testRouter().ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "bifx-api")
}

func TestRouter_Routes(t *testing.T) {
	cases := map[string]int{
		"/api/index/latest":    http.StatusNotFound,
		"/api/index/series":    http.StatusOK,
		"/api/backtest/latest": http.StatusNotFound,
		"/api/runs/latest":     http.StatusNotFound,
		"/api/nope":            http.StatusNotFound,
	}
	router := testRouter()
	for path, want := range cases {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest("GET", path, nil))
		assert.Equal(t, want, rec.Code, path)
	}
}

func TestRouter_MethodNotAllowed(t *testing.T) {
	rec := httptest.NewRecorder()
	testRouter().ServeHTTP(rec, httptest.NewRequest("POST", "/api/index/latest", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
