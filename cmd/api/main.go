package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ewilliams-labs/songle/internal/adapters/rest"
	"github.com/ewilliams-labs/songle/internal/adapters/songle"
	"github.com/ewilliams-labs/songle/internal/adapters/sqlite"
	"github.com/ewilliams-labs/songle/internal/config"
	"github.com/ewilliams-labs/songle/internal/core/ports"
	"github.com/ewilliams-labs/songle/internal/core/services"
)

func main() {
	// 1. Configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, cfg)
	stop()
	if err != nil {
		log.Fatalf("FATAL: %v", err)
	}
}

// run serves until ctx is done or the listener fails. Deferred cleanup always
// runs here; main only exits after run has returned.
func run(ctx context.Context, cfg config.Config) error {
	// 2. Driven adapters
	var repo ports.SnapshotRepository
	switch cfg.Storage.Driver {
	case "sqlite":
		dbAdapter, err := sqlite.NewAdapter(cfg.Storage.Path)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		defer dbAdapter.Close()
		repo = dbAdapter
	case "none":
		log.Println("INFO archive disabled (storage.driver=none)")
	}

	httpClient := songle.NewHTTPClient(ctx, cfg.API.Key, cfg.Timeout())
	songleClient := songle.NewClient(httpClient, cfg.API.BaseURL)

	registry := prometheus.NewRegistry()
	songle.RegisterMetrics(registry)

	// 3. Core service and driving adapter
	svc := services.NewArchiver(songleClient, repo)
	handler := rest.NewHandler(svc, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	// 4. Start the server
	log.Println("------------------------------------------------")
	log.Printf("🎶 Songle archive API is running on %s (upstream %s)", cfg.Server.Addr, songleClient.BaseURL())
	log.Println("------------------------------------------------")

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 15 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
		log.Println("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}
	}
	return nil
}
