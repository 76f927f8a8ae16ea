package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"karinderya/internal/logger"
)

// Handler handles HTTP requests for analytics
type Handler struct {
	service *Service
	logger  *logger.Logger
}

// NewHandler creates a new analytics handler
func NewHandler(service *Service, log *logger.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  log,
	}
}

// Report handles GET /api/analytics?range=day|week|month (default day).
func (h *Handler) Report(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	rng := r.URL.Query().Get("range")
	if rng == "" {
		rng = RangeDay
	}

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	report, err := h.service.Report(ctx, rng)
	if err != nil {
		if errors.Is(err, ErrUnknownRange) {
			h.writeError(w, http.StatusBadRequest, err.Error(), requestID)
			return
		}
		h.logger.Error("analytics_report_failed", "Failed to build analytics report", requestID, err, map[string]interface{}{
			"range": rng,
		})
		h.writeError(w, http.StatusInternalServerError, "Internal server error", requestID)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(report)
}

func (h *Handler) writeError(w http.ResponseWriter, statusCode int, message, requestID string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error":      message,
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
		"request_id": requestID,
	})
}
