package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pesanmeja/api/internal/domain"
	"github.com/pesanmeja/api/internal/service"
)

// Gate defines the payment gate methods needed by payment handlers.
// Satisfied by *service.PaymentGate.
type Gate interface {
	Initiate(ctx context.Context, id uuid.UUID) (string, error)
	Confirm(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	Fail(ctx context.Context, id uuid.UUID) (string, error)
}

// PaymentHandler exposes the online payment confirmation sub-flow.
type PaymentHandler struct {
	gate Gate
	log  *zap.Logger
}

func NewPaymentHandler(gate Gate, log *zap.Logger) *PaymentHandler {
	return &PaymentHandler{gate: gate, log: log}
}

// RegisterRoutes registers gate endpoints on the given Chi router.
// Expected to be mounted at /api/orders
func (h *PaymentHandler) RegisterRoutes(r chi.Router) {
	r.Post("/{id}/payment/initiate", h.Initiate)
	r.Post("/{id}/payment/confirm", h.Confirm)
	r.Post("/{id}/payment/fail", h.Fail)
}

// Initiate handles POST /api/orders/{id}/payment/initiate.
func (h *PaymentHandler) Initiate(w http.ResponseWriter, r *http.Request) {
	id, ok := orderID(w, r)
	if !ok {
		return
	}

	state, err := h.gate.Initiate(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotOnlineOrder) {
			writeErrorMsg(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"gateStatus": state})
}

// Confirm handles POST /api/orders/{id}/payment/confirm. On success the
// order snapshot is returned with paymentStatus already "paid".
func (h *PaymentHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	id, ok := orderID(w, r)
	if !ok {
		return
	}

	order, err := h.gate.Confirm(r.Context(), id)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

// Fail handles POST /api/orders/{id}/payment/fail.
func (h *PaymentHandler) Fail(w http.ResponseWriter, r *http.Request) {
	id, ok := orderID(w, r)
	if !ok {
		return
	}

	state, err := h.gate.Fail(r.Context(), id)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"gateStatus": state})
}

func orderID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeErrorMsg(w, http.StatusBadRequest, "invalid order ID")
		return uuid.Nil, false
	}
	return id, true
}
