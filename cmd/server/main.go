package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/pesanmeja/api/internal/cart"
	"github.com/pesanmeja/api/internal/config"
	"github.com/pesanmeja/api/internal/domain"
	"github.com/pesanmeja/api/internal/logger"
	"github.com/pesanmeja/api/internal/pubsub"
	"github.com/pesanmeja/api/internal/repository"
	"github.com/pesanmeja/api/internal/router"
	"github.com/pesanmeja/api/internal/service"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	lg, err := logger.New(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer lg.Sync()

	var (
		orders  domain.OrderRepository
		catalog domain.MenuCatalog
	)
	if cfg.DatabaseURL == "" {
		lg.Info("No DATABASE_URL set, using in-memory store")
		orders = repository.NewMemoryOrderRepository()
		catalog = repository.NewMemoryMenuCatalog(repository.SeedMenu())
	} else {
		pool, err := repository.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		defer pool.Close()

		if err := repository.RunMigrations(ctx, pool); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
		orders = repository.NewPostgresOrderRepository(pool)
		catalog = repository.NewPostgresMenuCatalog(pool)
	}

	broker := pubsub.NewBroker(lg)
	lifecycle := service.NewLifecycle(orders, broker, lg)
	gate := service.NewPaymentGate(lifecycle, lg)
	carts := cart.NewRegistry()

	r := router.New(cfg, catalog, lifecycle, gate, carts, broker, lg)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
	}

	// Graceful shutdown: wait for signal, drain in-flight requests, then stop.
	shutdownDone := make(chan struct{})
	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		lg.Info("Shutting down server", zap.Duration("timeout", cfg.ShutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			lg.Error("Server shutdown error", zap.Error(err))
		}
		close(shutdownDone)
	}()

	lg.Info("Server listening", zap.String("addr", server.Addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server: %w", err)
	}
	<-shutdownDone
	return nil
}
