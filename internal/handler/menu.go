package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/pesanmeja/api/internal/domain"
)

// MenuHandler serves the catalog to ordering clients.
type MenuHandler struct {
	catalog domain.MenuCatalog
	log     *zap.Logger
}

func NewMenuHandler(catalog domain.MenuCatalog, log *zap.Logger) *MenuHandler {
	return &MenuHandler{catalog: catalog, log: log}
}

// RegisterRoutes registers menu endpoints on the given Chi router.
func (h *MenuHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
}

// List handles GET /api/menu.
func (h *MenuHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.catalog.ListMenuItems(r.Context())
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	if items == nil {
		items = []domain.MenuItem{}
	}
	writeJSON(w, http.StatusOK, items)
}
