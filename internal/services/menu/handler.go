package menu

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"karinderya/internal/logger"
	"karinderya/internal/models"
)

// Handler handles HTTP requests for menu items
type Handler struct {
	repo   *Repository
	logger *logger.Logger
}

// NewHandler creates a new menu handler
func NewHandler(repo *Repository, log *logger.Logger) *Handler {
	return &Handler{
		repo:   repo,
		logger: log,
	}
}

// List handles GET /api/menu-items
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	items, err := h.repo.List(ctx)
	if err != nil {
		h.logger.Error("menu_list_failed", "Failed to list menu items", requestID, err, nil)
		h.writeError(w, http.StatusInternalServerError, "Internal server error", requestID)
		return
	}

	h.writeJSON(w, http.StatusOK, items)
}

// Create handles POST /api/menu-items
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	var item models.MenuItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid JSON format", requestID)
		return
	}
	if err := validateMenuItem(&item); err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error(), requestID)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := h.repo.Create(ctx, &item); err != nil {
		h.logger.Error("menu_create_failed", "Failed to create menu item", requestID, err, map[string]interface{}{
			"name": item.Name,
		})
		h.writeError(w, http.StatusInternalServerError, "Internal server error", requestID)
		return
	}

	h.logger.Info("menu_item_created", "Menu item created", requestID, map[string]interface{}{
		"id":   item.ID,
		"name": item.Name,
	})
	h.writeJSON(w, http.StatusCreated, item)
}

// Update handles PUT /api/menu-items/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid menu item id", requestID)
		return
	}

	var item models.MenuItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid JSON format", requestID)
		return
	}
	item.ID = id
	if err := validateMenuItem(&item); err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error(), requestID)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	err = h.repo.Update(ctx, &item)
	if errors.Is(err, ErrMenuItemNotFound) {
		h.writeError(w, http.StatusNotFound, "Menu item not found", requestID)
		return
	}
	if err != nil {
		h.logger.Error("menu_update_failed", "Failed to update menu item", requestID, err, map[string]interface{}{
			"id": id,
		})
		h.writeError(w, http.StatusInternalServerError, "Internal server error", requestID)
		return
	}

	h.writeJSON(w, http.StatusOK, item)
}

// Delete handles DELETE /api/menu-items/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid menu item id", requestID)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	err = h.repo.Delete(ctx, id)
	if errors.Is(err, ErrMenuItemNotFound) {
		h.writeError(w, http.StatusNotFound, "Menu item not found", requestID)
		return
	}
	if err != nil {
		h.logger.Error("menu_delete_failed", "Failed to delete menu item", requestID, err, map[string]interface{}{
			"id": id,
		})
		h.writeError(w, http.StatusInternalServerError, "Internal server error", requestID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func validateMenuItem(item *models.MenuItem) error {
	if strings.TrimSpace(item.Name) == "" {
		return errors.New("name is required")
	}
	if item.Price <= 0 {
		return errors.New("price must be positive")
	}
	return nil
}

func (h *Handler) writeJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(v)
}

func (h *Handler) writeError(w http.ResponseWriter, statusCode int, message, requestID string) {
	h.writeJSON(w, statusCode, map[string]interface{}{
		"error":      message,
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
		"request_id": requestID,
	})
}
