package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/pesanmeja/api/internal/cart"
	"github.com/pesanmeja/api/internal/config"
	"github.com/pesanmeja/api/internal/domain"
	"github.com/pesanmeja/api/internal/handler"
	mw "github.com/pesanmeja/api/internal/middleware"
	"github.com/pesanmeja/api/internal/pubsub"
	"github.com/pesanmeja/api/internal/service"
	"github.com/pesanmeja/api/internal/ws"
)

// New creates a Chi router with all application routes wired up.
func New(cfg *config.Config, catalog domain.MenuCatalog, lifecycle *service.Lifecycle, gate *service.PaymentGate, carts *cart.Registry, broker *pubsub.Broker, log *zap.Logger) chi.Router {
	r := chi.NewRouter()

	// Standard middleware
	r.Use(mw.RequestLogger(log))
	r.Use(chimw.Recoverer)

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300, // 5 minutes
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","version":"1.0.0"}`))
	})

	menuHandler := handler.NewMenuHandler(catalog, log)
	r.Route("/api/menu", menuHandler.RegisterRoutes)

	orderHandler := handler.NewOrderHandler(lifecycle, catalog, log)
	paymentHandler := handler.NewPaymentHandler(gate, log)
	r.Route("/api/orders", func(r chi.Router) {
		orderHandler.RegisterRoutes(r)
		paymentHandler.RegisterRoutes(r)
	})

	sessionHandler := handler.NewSessionHandler(cfg.JWTSecret, log)
	cartHandler := handler.NewCartHandler(carts, catalog, lifecycle, log)
	r.Route("/api/tables/{tableNumber}", func(r chi.Router) {
		r.Post("/session", sessionHandler.Create)
		r.Route("/cart", cartHandler.RegisterRoutes)
	})

	// WebSocket routes. The staff stream is open; the table stream checks a
	// session token internally via query param.
	r.Get("/ws/orders", func(w http.ResponseWriter, r *http.Request) {
		ws.ServeOrders(broker, log, w, r)
	})
	r.Get("/ws/tables/{tableNumber}/orders", func(w http.ResponseWriter, r *http.Request) {
		ws.ServeTable(broker, cfg.JWTSecret, log, w, r)
	})

	return r
}
