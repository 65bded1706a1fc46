package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/UnknownOlympus/meridian/internal/config"
	"github.com/UnknownOlympus/meridian/internal/geocoding"
	"github.com/UnknownOlympus/meridian/internal/metrics"
	"github.com/UnknownOlympus/meridian/internal/monitoring"
	"github.com/UnknownOlympus/meridian/internal/repository"
	"github.com/UnknownOlympus/meridian/internal/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// shutdownTimeout bounds how long the monitoring server may drain on exit.
const shutdownTimeout = 5 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	err := run(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run wires the photo database, the reverse geocoding provider and the geotag
// worker pool, then blocks until ctx is canceled.
func run(ctx context.Context) error {
	cfg := config.MustLoad()
	logger := setupLogger(cfg.Env)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.NewMetrics(reg)

	dtb, err := repository.NewDatabase(
		cfg.Database.Host, cfg.Database.Port, cfg.Database.User, cfg.Database.Password, cfg.Database.Name,
	)
	if err != nil {
		return fmt.Errorf("failed to connect to photo database: %w", err)
	}
	defer dtb.Close()

	// "none" yields a nil provider and photos are stored without a place name.
	placeProvider, err := geocoding.NewProvider(geocoding.ProviderConfig{
		Type:      geocoding.ProviderType(cfg.ProviderType),
		APIKey:    cfg.APIKey,
		RateLimit: cfg.RateLimit,
		Logger:    logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create reverse geocoding provider: %w", err)
	}
	logger.InfoContext(ctx, "Reverse geocoding provider initialized", "type", cfg.ProviderType)

	geotagService := service.NewGeotagService(
		logger,
		repository.NewRepository(dtb, logger),
		placeProvider,
		cfg.ProviderType,
		appMetrics,
		cfg.Workers,
		cfg.Interval,
	)

	server := monitoring.NewServer(logger, reg, dtb, geotagService, monitoring.Options{
		Port:         cfg.Port,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})
	go func() {
		logger.InfoContext(ctx, "Starting monitoring server", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.ErrorContext(ctx, "Monitoring server failed", "error", err)
		}
	}()

	stopped := make(chan struct{})
	go func() {
		geotagService.Run(ctx)
		close(stopped)
	}()

	logger.InfoContext(ctx, "Geotagging started. Press Ctrl+C to stop.", "workers", cfg.Workers, "interval", cfg.Interval)

	<-ctx.Done()
	logger.Info("Shutdown signal received, waiting for the current batch to finish...")
	<-stopped

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Monitoring server shutdown failed", "error", err)
	}

	logger.Info("Geotagging stopped.")
	return nil
}
