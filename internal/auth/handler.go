package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"karinderya/internal/logger"
)

// Handler handles auth HTTP requests
type Handler struct {
	service *Service
	logger  *logger.Logger
}

// NewHandler creates a new auth handler
func NewHandler(service *Service, log *logger.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  log,
	}
}

// Login handles POST /api/auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid JSON format", requestID)
		return
	}
	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		h.writeError(w, http.StatusBadRequest, "Username and password are required", requestID)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	token, err := h.service.Login(ctx, req.Username, req.Password)
	if errors.Is(err, ErrInvalidCredentials) {
		h.logger.Warn("login_rejected", "Login attempt rejected", requestID, map[string]interface{}{
			"username": req.Username,
		})
		h.writeError(w, http.StatusUnauthorized, "Invalid credentials", requestID)
		return
	}
	if err != nil {
		h.logger.Error("login_failed", "Login failed", requestID, err, map[string]interface{}{
			"username": req.Username,
		})
		h.writeError(w, http.StatusInternalServerError, "Internal server error", requestID)
		return
	}

	h.logger.Info("login_succeeded", "Staff user logged in", requestID, map[string]interface{}{
		"username": req.Username,
	})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"token": token})
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
