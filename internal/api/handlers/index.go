// Package handlers implements the HTTP endpoint handlers.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/ozanyurt/bifx/internal/contracts"
	"github.com/ozanyurt/bifx/internal/store"
	"github.com/ozanyurt/bifx/pkg/logger"
)

// IndexHandler serves index values and run metadata from the store.
type IndexHandler struct {
	index contracts.IndexRepository
	runs  contracts.RunRepository
	log   *logger.Logger
}

func NewIndexHandler(index contracts.IndexRepository, runs contracts.RunRepository, log *logger.Logger) *IndexHandler {
	return &IndexHandler{index: index, runs: runs, log: log}
}

// GetLatest returns the most recent index value.
// GET /api/index/latest
func (h *IndexHandler) GetLatest(w http.ResponseWriter, r *http.Request) {
	point, err := h.index.GetLatest(r.Context())
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, "No index values yet")
		return
	}
	if err != nil {
		h.log.WithError(err).Error("Failed to get latest index value")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve index value")
		return
	}
	respondJSON(w, http.StatusOK, point)
}

// GetSeries returns index values in a date range, defaulting to the
// last 90 days.
// GET /api/index/series?from=YYYY-MM-DD&to=YYYY-MM-DD
func (h *IndexHandler) GetSeries(w http.ResponseWriter, r *http.Request) {
	now := time.Now().UTC()
	from := now.AddDate(0, 0, -90)
	to := now

	var err error
	if raw := r.URL.Query().Get("from"); raw != "" {
		if from, err = time.Parse("2006-01-02", raw); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid 'from' date format (expected YYYY-MM-DD)")
			return
		}
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		if to, err = time.Parse("2006-01-02", raw); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid 'to' date format (expected YYYY-MM-DD)")
			return
		}
	}
	if to.Before(from) {
		respondError(w, http.StatusBadRequest, "'to' must not be before 'from'")
		return
	}

	series, err := h.index.GetRange(r.Context(), from, to)
	if err != nil {
		h.log.WithError(err).Error("Failed to get index series")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve index series")
		return
	}
	respondJSON(w, http.StatusOK, series)
}

// GetLatestRun returns metadata of the most recent pipeline run.
// GET /api/runs/latest
func (h *IndexHandler) GetLatestRun(w http.ResponseWriter, r *http.Request) {
	run, err := h.runs.GetLatest(r.Context())
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, "No runs yet")
		return
	}
	if err != nil {
		h.log.WithError(err).Error("Failed to get latest run")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve run")
		return
	}
	respondJSON(w, http.StatusOK, run)
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}
