package order

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"karinderya/internal/logger"
	"karinderya/internal/messenger"
	"karinderya/internal/models"
)

// Handler handles order HTTP requests and the messenger webhook
type Handler struct {
	service     *Service
	verifyToken string
	logger      *logger.Logger
}

// NewHandler creates a new order handler
func NewHandler(service *Service, verifyToken string, log *logger.Logger) *Handler {
	return &Handler{
		service:     service,
		verifyToken: verifyToken,
		logger:      log,
	}
}

// List handles GET /api/orders
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	filter, err := filterFromQuery(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error(), requestID)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	orders, err := h.service.GetOrders(ctx, filter)
	if err != nil {
		h.logger.Error("order_list_failed", "Failed to list orders", requestID, err, nil)
		h.writeError(w, http.StatusInternalServerError, "Internal server error", requestID)
		return
	}

	h.writeJSON(w, http.StatusOK, orders)
}

// Get handles GET /api/orders/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid order id", requestID)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	order, err := h.service.GetOrderByID(ctx, id)
	if errors.Is(err, ErrOrderNotFound) {
		h.writeError(w, http.StatusNotFound, "Order not found", requestID)
		return
	}
	if err != nil {
		h.logger.Error("order_get_failed", "Failed to get order", requestID, err, map[string]interface{}{
			"order_id": id,
		})
		h.writeError(w, http.StatusInternalServerError, "Internal server error", requestID)
		return
	}

	h.writeJSON(w, http.StatusOK, order)
}

// UpdateStatus handles PATCH /api/orders/{id}/status
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid order id", requestID)
		return
	}

	var req struct {
		Status models.OrderStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid JSON format", requestID)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	order, err := h.service.UpdateStatus(ctx, id, req.Status, requestID)
	switch {
	case errors.Is(err, ErrOrderNotFound):
		h.writeError(w, http.StatusNotFound, "Order not found", requestID)
	case errors.Is(err, ErrInvalidStatus):
		h.writeError(w, http.StatusBadRequest, err.Error(), requestID)
	case errors.Is(err, ErrInvalidTransition), errors.Is(err, ErrStatusConflict):
		h.writeError(w, http.StatusConflict, err.Error(), requestID)
	case err != nil:
		h.logger.Error("order_status_update_failed", "Failed to update order status", requestID, err, map[string]interface{}{
			"order_id": id,
			"status":   string(req.Status),
		})
		h.writeError(w, http.StatusInternalServerError, "Internal server error", requestID)
	default:
		h.writeJSON(w, http.StatusOK, order)
	}
}

// VerifyWebhook handles the GET /webhook subscription handshake.
func (h *Handler) VerifyWebhook(w http.ResponseWriter, r *http.Request) {
	mode := r.URL.Query().Get("hub.mode")
	token := r.URL.Query().Get("hub.verify_token")
	challenge := r.URL.Query().Get("hub.challenge")

	if mode == "subscribe" && token == h.verifyToken {
		h.logger.Info("webhook_verified", "Webhook subscription verified", "", nil)
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(challenge))
		return
	}

	h.logger.Warn("webhook_verification_failed", "Webhook verification failed", "", map[string]interface{}{
		"mode": mode,
	})
	w.WriteHeader(http.StatusForbidden)
}

// ReceiveWebhook handles POST /webhook event batches. Events are processed
// one by one; a bad event is logged and skipped so the platform never
// retries the whole batch. The 200 goes out regardless.
func (h *Handler) ReceiveWebhook(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "Failed to read request body", requestID)
		return
	}

	payload, err := messenger.ParseWebhook(body)
	if err != nil {
		h.logger.Warn("webhook_parse_failed", "Failed to parse webhook payload", requestID, map[string]interface{}{
			"error": err.Error(),
		})
		h.writeError(w, http.StatusBadRequest, "Invalid webhook payload", requestID)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	for _, entry := range payload.Entry {
		for _, event := range entry.Messaging {
			h.handleEvent(ctx, event.ToIncoming(), requestID)
		}
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("EVENT_RECEIVED"))
}

func (h *Handler) handleEvent(ctx context.Context, msg models.IncomingMessage, requestID string) {
	h.logger.Debug("webhook_event", "Processing messaging event", requestID, map[string]interface{}{
		"type":      msg.Type,
		"sender_id": msg.SenderID,
	})

	if msg.Type != messenger.EventText || msg.Text == "" {
		// Quick replies and postbacks drive menus, not orders; nothing to
		// parse yet.
		return
	}

	if _, _, err := h.service.CreateFromMessage(ctx, &msg, requestID); err != nil {
		h.logger.Error("webhook_order_failed", "Failed to create order from message", requestID, err, map[string]interface{}{
			"sender_id": msg.SenderID,
		})
	}
}

func filterFromQuery(r *http.Request) (Filter, error) {
	q := r.URL.Query()
	filter := Filter{
		Status:     models.OrderStatus(q.Get("status")),
		CustomerID: q.Get("customer_id"),
	}

	if filter.Status != "" {
		normalized, err := NormalizeStatus(filter.Status)
		if err != nil {
			return Filter{}, err
		}
		filter.Status = normalized
	}

	if v := q.Get("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return Filter{}, errors.New("from must be RFC3339")
		}
		filter.From = t
	}
	if v := q.Get("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return Filter{}, errors.New("to must be RFC3339")
		}
		filter.To = t
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return Filter{}, errors.New("limit must be a positive integer")
		}
		filter.Limit = n
	}

	return filter, nil
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
