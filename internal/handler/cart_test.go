package handler_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pesanmeja/api/internal/cart"
	"github.com/pesanmeja/api/internal/domain"
	"github.com/pesanmeja/api/internal/handler"
)

func cartRouter(lc handler.OrderLifecycle) (http.Handler, *cart.Registry) {
	reg := cart.NewRegistry()
	h := handler.NewCartHandler(reg, testCatalog(), lc, zap.NewNop())
	r := chi.NewRouter()
	r.Route("/api/tables/{tableNumber}/cart", h.RegisterRoutes)
	return r, reg
}

func TestCartAddItem_AndGet(t *testing.T) {
	router, _ := cartRouter(&mockLifecycle{})

	body := map[string]interface{}{"menuItemId": nasiID.String(), "quantity": 2}
	rr := doRequest(t, router, http.MethodPost, "/api/tables/4/cart/items", body)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d, body %s", rr.Code, http.StatusOK, rr.Body.String())
	}

	rr = doRequest(t, router, http.MethodGet, "/api/tables/4/cart", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusOK)
	}
	resp := decodeJSON(t, rr)
	if resp["totalItems"] != float64(2) {
		t.Errorf("totalItems: got %v, want 2", resp["totalItems"])
	}

	// Another table's cart is untouched.
	rr = doRequest(t, router, http.MethodGet, "/api/tables/5/cart", nil)
	resp = decodeJSON(t, rr)
	if resp["totalItems"] != float64(0) {
		t.Errorf("other table totalItems: got %v, want 0", resp["totalItems"])
	}
}

func TestCartAddItem_OptionGating(t *testing.T) {
	router, _ := cartRouter(&mockLifecycle{})

	body := map[string]interface{}{"menuItemId": latteID.String(), "quantity": 1}
	rr := doRequest(t, router, http.MethodPost, "/api/tables/4/cart/items", body)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}

	body["options"] = map[string]string{"temperature": "ice", "sugar": "no"}
	rr = doRequest(t, router, http.MethodPost, "/api/tables/4/cart/items", body)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d, body %s", rr.Code, http.StatusOK, rr.Body.String())
	}
}

func TestCartAddItem_UnknownMenuItem(t *testing.T) {
	router, _ := cartRouter(&mockLifecycle{})

	body := map[string]interface{}{"menuItemId": uuid.New().String(), "quantity": 1}
	rr := doRequest(t, router, http.MethodPost, "/api/tables/4/cart/items", body)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusNotFound)
	}
}

func TestCartSetQuantity(t *testing.T) {
	router, reg := cartRouter(&mockLifecycle{})

	body := map[string]interface{}{"menuItemId": nasiID.String(), "quantity": 2}
	rr := doRequest(t, router, http.MethodPost, "/api/tables/4/cart/items", body)
	if rr.Code != http.StatusOK {
		t.Fatalf("add: got %d, body %s", rr.Code, rr.Body.String())
	}

	lines := reg.ForTable(4).Lines()
	if len(lines) != 1 {
		t.Fatalf("lines: got %d, want 1", len(lines))
	}

	rr = doRequest(t, router, http.MethodPatch, "/api/tables/4/cart/items/"+lines[0].ID, map[string]int{"quantity": 5})
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusOK)
	}
	if got := reg.ForTable(4).Lines()[0].Quantity; got != 5 {
		t.Errorf("quantity: got %d, want 5", got)
	}

	// Zero removes the line.
	rr = doRequest(t, router, http.MethodPatch, "/api/tables/4/cart/items/"+lines[0].ID, map[string]int{"quantity": 0})
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusOK)
	}
	if got := len(reg.ForTable(4).Lines()); got != 0 {
		t.Errorf("lines after removal: got %d, want 0", got)
	}
}

func TestCartCheckout(t *testing.T) {
	var gotSub domain.OrderSubmission
	lc := &mockLifecycle{
		createFn: func(ctx context.Context, sub domain.OrderSubmission) (*domain.Order, error) {
			gotSub = sub
			return testOrder(uuid.New()), nil
		},
	}
	router, reg := cartRouter(lc)

	body := map[string]interface{}{"menuItemId": nasiID.String(), "quantity": 2}
	rr := doRequest(t, router, http.MethodPost, "/api/tables/4/cart/items", body)
	if rr.Code != http.StatusOK {
		t.Fatalf("add: got %d", rr.Code)
	}

	checkout := map[string]string{"paymentMethod": "cash", "customerName": "Budi"}
	rr = doRequest(t, router, http.MethodPost, "/api/tables/4/cart/checkout", checkout)
	if rr.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want %d, body %s", rr.Code, http.StatusCreated, rr.Body.String())
	}

	if gotSub.TableNumber != 4 {
		t.Errorf("tableNumber: got %d, want 4", gotSub.TableNumber)
	}
	if gotSub.CustomerName != "Budi" {
		t.Errorf("customerName: got %q", gotSub.CustomerName)
	}
	if got := len(reg.ForTable(4).Lines()); got != 0 {
		t.Errorf("cart must be empty after checkout, got %d lines", got)
	}
}

func TestCartCheckout_EmptyCart(t *testing.T) {
	router, _ := cartRouter(&mockLifecycle{})

	checkout := map[string]string{"paymentMethod": "cash"}
	rr := doRequest(t, router, http.MethodPost, "/api/tables/4/cart/checkout", checkout)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestCart_InvalidTableNumber(t *testing.T) {
	router, _ := cartRouter(&mockLifecycle{})

	for _, path := range []string{"/api/tables/0/cart", "/api/tables/abc/cart"} {
		rr := doRequest(t, router, http.MethodGet, path, nil)
		if rr.Code != http.StatusBadRequest {
			t.Errorf("%s: got %d, want %d", path, rr.Code, http.StatusBadRequest)
		}
	}
}
