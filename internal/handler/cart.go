package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/pesanmeja/api/internal/cart"
	"github.com/pesanmeja/api/internal/domain"
)

// CartHandler exposes the server-held cart for one table session. Option
// gating happens here: items flagged HasOptions cannot be added without a
// chosen option set.
type CartHandler struct {
	carts     *cart.Registry
	catalog   domain.MenuCatalog
	lifecycle OrderLifecycle
	log       *zap.Logger
}

func NewCartHandler(carts *cart.Registry, catalog domain.MenuCatalog, lifecycle OrderLifecycle, log *zap.Logger) *CartHandler {
	return &CartHandler{carts: carts, catalog: catalog, lifecycle: lifecycle, log: log}
}

// RegisterRoutes registers cart endpoints on the given Chi router.
// Expected to be mounted at /api/tables/{tableNumber}/cart
func (h *CartHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Get)
	r.Post("/items", h.AddItem)
	r.Patch("/items/{lineID}", h.SetQuantity)
	r.Post("/checkout", h.Checkout)
}

// --- Request / Response types ---

type addCartItemRequest struct {
	MenuItemID string           `json:"menuItemId"`
	Quantity   int              `json:"quantity"`
	Options    domain.OptionSet `json:"options"`
	Notes      string           `json:"notes"`
}

type setQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type checkoutRequest struct {
	PaymentMethod string `json:"paymentMethod"`
	CustomerName  string `json:"customerName"`
	CustomerPhone string `json:"customerPhone"`
}

type cartResponse struct {
	Lines       []cart.Line     `json:"lines"`
	TotalItems  int             `json:"totalItems"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}

func cartView(c *cart.Cart) cartResponse {
	count, amount := c.Totals()
	lines := c.Lines()
	if lines == nil {
		lines = []cart.Line{}
	}
	return cartResponse{Lines: lines, TotalItems: count, TotalAmount: amount}
}

// --- Handlers ---

// Get handles GET /api/tables/{tableNumber}/cart.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	tableNumber, ok := tableNumberParam(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, cartView(h.carts.ForTable(tableNumber)))
}

// AddItem handles POST /api/tables/{tableNumber}/cart/items.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	tableNumber, ok := tableNumberParam(w, r)
	if !ok {
		return
	}

	var req addCartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorMsg(w, http.StatusBadRequest, "invalid request body")
		return
	}

	id, err := uuid.Parse(req.MenuItemID)
	if err != nil {
		writeErrorMsg(w, http.StatusBadRequest, "invalid menu item id")
		return
	}
	menuItem, err := h.catalog.GetMenuItem(r.Context(), id)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	if menuItem.HasOptions && len(req.Options) == 0 {
		writeErrorMsg(w, http.StatusBadRequest, menuItem.Name+" requires options")
		return
	}

	c := h.carts.ForTable(tableNumber)
	c.AddItem(menuItem, req.Quantity, req.Options, req.Notes)
	writeJSON(w, http.StatusOK, cartView(c))
}

// SetQuantity handles PATCH /api/tables/{tableNumber}/cart/items/{lineID}.
// A quantity of zero or below removes the line.
func (h *CartHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	tableNumber, ok := tableNumberParam(w, r)
	if !ok {
		return
	}

	var req setQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorMsg(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c := h.carts.ForTable(tableNumber)
	c.SetQuantity(chi.URLParam(r, "lineID"), req.Quantity)
	writeJSON(w, http.StatusOK, cartView(c))
}

// Checkout handles POST /api/tables/{tableNumber}/cart/checkout. On success
// the cart is cleared and the created order returned; on failure the cart is
// untouched.
func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	tableNumber, ok := tableNumberParam(w, r)
	if !ok {
		return
	}

	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorMsg(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c := h.carts.ForTable(tableNumber)
	order, err := c.Submit(r.Context(), tableNumber, req.PaymentMethod, cart.CustomerInfo{
		Name:  req.CustomerName,
		Phone: req.CustomerPhone,
	}, h.lifecycle)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, order)
}

func tableNumberParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	tableNumber, err := strconv.Atoi(chi.URLParam(r, "tableNumber"))
	if err != nil || tableNumber <= 0 {
		writeErrorMsg(w, http.StatusBadRequest, "invalid table number")
		return 0, false
	}
	return tableNumber, true
}
