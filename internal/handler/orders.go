package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/pesanmeja/api/internal/domain"
	"github.com/pesanmeja/api/internal/enum"
)

// OrderLifecycle defines the lifecycle manager methods needed by order
// handlers. Satisfied by *service.Lifecycle; narrow interface for
// testability.
type OrderLifecycle interface {
	Create(ctx context.Context, sub domain.OrderSubmission) (*domain.Order, error)
	Transition(ctx context.Context, id uuid.UUID, target string) (*domain.Order, error)
	MarkPaid(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	List(ctx context.Context) ([]*domain.Order, error)
}

// OrderHandler handles order submission, reads, and transition requests.
type OrderHandler struct {
	lifecycle OrderLifecycle
	catalog   domain.MenuCatalog
	log       *zap.Logger
}

func NewOrderHandler(lifecycle OrderLifecycle, catalog domain.MenuCatalog, log *zap.Logger) *OrderHandler {
	return &OrderHandler{lifecycle: lifecycle, catalog: catalog, log: log}
}

// RegisterRoutes registers order endpoints on the given Chi router.
func (h *OrderHandler) RegisterRoutes(r chi.Router) {
	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
	r.Patch("/{id}/status", h.UpdateStatus)
	r.Patch("/{id}/payment", h.UpdatePayment)
}

// --- Request types ---

type createOrderRequest struct {
	TableNumber   int                      `json:"tableNumber"`
	Items         []createOrderItemRequest `json:"items"`
	TotalAmount   decimal.Decimal          `json:"totalAmount"`
	PaymentMethod string                   `json:"paymentMethod"`
	CustomerName  string                   `json:"customerName"`
	CustomerPhone string                   `json:"customerPhone"`
}

type createOrderItemRequest struct {
	MenuItemID string           `json:"menuItemId"`
	Quantity   int              `json:"quantity"`
	Notes      string           `json:"notes"`
	Options    domain.OptionSet `json:"options"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

type updatePaymentRequest struct {
	PaymentStatus string `json:"paymentStatus"`
}

// --- Handlers ---

// Create handles POST /api/orders. Line items are resolved against the
// catalog here so the order snapshots names and prices as of submission.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorMsg(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if len(req.Items) == 0 {
		writeErrorMsg(w, http.StatusBadRequest, "items are required")
		return
	}

	items := make([]domain.OrderItem, len(req.Items))
	for i, item := range req.Items {
		resolved, err := h.resolveItem(r.Context(), i, item)
		if err != nil {
			writeError(w, h.log, err)
			return
		}
		items[i] = resolved
	}

	order, err := h.lifecycle.Create(r.Context(), domain.OrderSubmission{
		TableNumber:   req.TableNumber,
		Items:         items,
		TotalAmount:   req.TotalAmount,
		PaymentMethod: req.PaymentMethod,
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
	})
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, order)
}

func (h *OrderHandler) resolveItem(ctx context.Context, idx int, item createOrderItemRequest) (domain.OrderItem, error) {
	id, err := uuid.Parse(item.MenuItemID)
	if err != nil {
		return domain.OrderItem{}, domain.NewValidationError("items[%d]: invalid menu item id", idx)
	}
	if item.Quantity <= 0 {
		return domain.OrderItem{}, domain.NewValidationError("items[%d]: quantity must be positive", idx)
	}

	menuItem, err := h.catalog.GetMenuItem(ctx, id)
	if err != nil {
		return domain.OrderItem{}, err
	}
	if menuItem.HasOptions && len(item.Options) == 0 {
		return domain.OrderItem{}, domain.NewValidationError("items[%d]: %s requires options", idx, menuItem.Name)
	}

	return domain.OrderItem{
		MenuItemID: menuItem.ID,
		Name:       menuItem.Name,
		UnitPrice:  menuItem.Price,
		Quantity:   item.Quantity,
		Options:    item.Options,
		Notes:      item.Notes,
	}, nil
}

// List handles GET /api/orders.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	orders, err := h.lifecycle.List(r.Context())
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	if orders == nil {
		orders = []*domain.Order{}
	}
	writeJSON(w, http.StatusOK, orders)
}

// Get handles GET /api/orders/{id}.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeErrorMsg(w, http.StatusBadRequest, "invalid order ID")
		return
	}

	order, err := h.lifecycle.Get(r.Context(), id)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

// UpdateStatus handles PATCH /api/orders/{id}/status.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeErrorMsg(w, http.StatusBadRequest, "invalid order ID")
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorMsg(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Status == "" {
		writeErrorMsg(w, http.StatusBadRequest, "status is required")
		return
	}

	order, err := h.lifecycle.Transition(r.Context(), id, req.Status)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

// UpdatePayment handles PATCH /api/orders/{id}/payment. This is the
// unguarded staff path for out-of-band (cash) settlement; online orders go
// through the payment gate instead.
func (h *OrderHandler) UpdatePayment(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeErrorMsg(w, http.StatusBadRequest, "invalid order ID")
		return
	}

	var req updatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorMsg(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.PaymentStatus != enum.PaymentStatusPaid {
		writeErrorMsg(w, http.StatusBadRequest, "paymentStatus must be \"paid\"")
		return
	}

	order, err := h.lifecycle.MarkPaid(r.Context(), id)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}
