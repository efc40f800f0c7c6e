package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"ngx/internal/container"
	httpapi "ngx/internal/http"
	"ngx/internal/platform/config"
	"ngx/internal/platform/httpserver"
)

// main wires high-level dependencies through the container and keeps the
// server lifecycle small. Business logic lives in the internal packages.
func main() {
	cfg := config.FromEnv()
	c := container.New(cfg)
	log := c.Logger()

	ctx := context.Background()
	router, err := httpapi.NewRouter(ctx, c)
	if err != nil {
		log.Error("failed to build application", "error", err)
		os.Exit(1)
	}

	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting ngx client service",
		"addr", cfg.Addr,
		"env", cfg.Env,
		"database", cfg.DatabaseURL != "",
		"cache", cfg.Redis.URL != "",
		"kafka", len(cfg.Kafka.Brokers) > 0,
	)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		log.Error("server error", "error", err)
		os.Exit(1)
	case sig := <-quit:
		log.Info("shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}

	// Flush buffered events and close pools after the listener drains.
	c.Reset()
}
