package handlers

import (
	"errors"
	"net/http"

	"github.com/ozanyurt/bifx/internal/contracts"
	"github.com/ozanyurt/bifx/internal/store"
	"github.com/ozanyurt/bifx/pkg/logger"
)

// BacktestHandler serves persisted backtest reports.
type BacktestHandler struct {
	reports contracts.ReportRepository
	log     *logger.Logger
}

func NewBacktestHandler(reports contracts.ReportRepository, log *logger.Logger) *BacktestHandler {
	return &BacktestHandler{reports: reports, log: log}
}

// GetLatest returns the most recent backtest report.
// GET /api/backtest/latest
func (h *BacktestHandler) GetLatest(w http.ResponseWriter, r *http.Request) {
	report, err := h.reports.GetLatest(r.Context())
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, "No backtest reports yet")
		return
	}
	if err != nil {
		h.log.WithError(err).Error("Failed to get latest backtest report")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve backtest report")
		return
	}
	respondJSON(w, http.StatusOK, report)
}
