package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/mmynk/tripledger/internal/auth"
	"github.com/mmynk/tripledger/internal/config"
	"github.com/mmynk/tripledger/internal/server"
	"github.com/mmynk/tripledger/internal/storage/sqlite"
	"github.com/mmynk/tripledger/pkg/logging"
)

// tokenTTL only matters for tokens minted locally; the auth service
// decides the lifetime of the tokens it issues.
const tokenTTL = 24 * time.Hour

func main() {
	cfg := config.Load()
	logging.Setup(cfg.LogLevel)

	if err := run(cfg); err != nil {
		slog.Error("Server exited", "error", err)
		os.Exit(1)
	}
	slog.Info("Server stopped gracefully")
}

// run owns every resource that needs releasing, so main only exits after
// its defers have run.
func run(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			slog.Error("Failed to close storage", "error", err)
		}
	}()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	opts := server.Options{
		Store:      store,
		JWTManager: auth.NewJWTManager(cfg.JWTSecret, tokenTTL),
	}
	if cfg.MetricsEnabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		opts.Registry = reg
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           server.NewHandler(opts),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 16,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("Connect server starting", "address", srv.Addr, "metrics", cfg.MetricsEnabled)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		if ctx.Err() != nil {
			slog.Info("Shutdown signal received")
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		return nil
	})
	return g.Wait()
}
