package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/jcmexdev/storefront/internal/pkg/config"
	"github.com/jcmexdev/storefront/internal/pkg/kvstore"
	"github.com/jcmexdev/storefront/internal/pkg/telemetry"
	"github.com/jcmexdev/storefront/internal/storefront/core/controller"
	"github.com/jcmexdev/storefront/internal/storefront/core/session"
	"github.com/jcmexdev/storefront/internal/storefront/infra/adapters/catalog"
	"github.com/jcmexdev/storefront/internal/storefront/infra/adapters/persistence"
	"github.com/jcmexdev/storefront/internal/storefront/infra/httpx"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	telemetry.InitLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdown, err := telemetry.SetupTracer(ctx, cfg.ServiceName, cfg.TracingEnabled)
	if err != nil {
		slog.Error("failed to initialise tracer", "error", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			slog.Error("tracer shutdown error", "error", err)
		}
	}()

	store, err := openCartStore(cfg)
	if err != nil {
		slog.Error("failed to open cart store", "backend", cfg.CartStore, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	api := catalog.NewHTTPClient(cfg.CatalogBaseURL, cfg.CatalogTimeout)
	sessions := session.NewManager(api, persistence.NewCartRepository(store), session.Options{
		SlotPrefix:     cfg.CartSlot,
		TrendingMaxAge: cfg.TrendingMaxAge,
		IdleTimeout:    cfg.SessionIdleTimeout,
	})
	go sessions.Run(ctx)

	handler := httpx.NewHandler(controller.New(), sessions, store)
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpx.NewRouter(handler),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("storefront running", "addr", cfg.HTTPAddr, "catalog", cfg.CatalogBaseURL, "cart_store", cfg.CartStore)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown error", "error", err)
	}
}

func openCartStore(cfg *config.Config) (kvstore.Store, error) {
	switch cfg.CartStore {
	case config.CartStoreRedis:
		store := kvstore.NewRedis(cfg.RedisAddr, "storefront")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.Ping(ctx); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("ping redis at %s: %w", cfg.RedisAddr, err)
		}
		return store, nil
	case config.CartStoreSQLite:
		if err := os.MkdirAll(filepath.Dir(cfg.SQLitePath), 0o755); err != nil {
			return nil, fmt.Errorf("create sqlite dir: %w", err)
		}
		store, err := kvstore.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return kvstore.NewMemory(), nil
	}
}
