package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mrops-br/product-catalog-api/internal/app/service"
	"github.com/mrops-br/product-catalog-api/internal/domain"
	"github.com/mrops-br/product-catalog-api/internal/infrastructure/config"
	"github.com/mrops-br/product-catalog-api/internal/infrastructure/http"
	"github.com/mrops-br/product-catalog-api/internal/infrastructure/http/handler"
	"github.com/mrops-br/product-catalog-api/internal/infrastructure/repository/memory"
	"github.com/mrops-br/product-catalog-api/internal/infrastructure/storage/disk"
	"github.com/mrops-br/product-catalog-api/internal/infrastructure/storage/s3"
	"github.com/mrops-br/product-catalog-api/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/trace"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "product-catalog-api: %v\n", err)
		os.Exit(1)
	}
}

// run wires the service and blocks until it is signalled or the server
// fails. Deferred telemetry shutdown runs before main exits.
func run() error {
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	var telem *telemetry.Telemetry
	if cfg.OTLP.ExportEnabled {
		var err error
		telem, err = telemetry.NewTelemetry(&cfg.OTLP, cfg.LogLevel)
		if err != nil {
			return fmt.Errorf("failed to initialize telemetry: %w", err)
		}
	} else {
		telem = telemetry.NewNoOpTelemetry(&cfg.OTLP, cfg.LogLevel)
	}

	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := telem.Shutdown(shutdownCtx); err != nil {
			telem.Logger.Error("Error shutting down telemetry", slog.String("error", err.Error()))
		}
	}()

	tracer := telem.TracerProvider.Tracer("product-catalog-api")
	meter := telem.MeterProvider.Meter("product-catalog-api")
	logger := telem.Logger
	slog.SetDefault(logger)

	logger.Info("Starting Product Catalog API")

	repo := memory.NewSeededProductRepository(tracer, logger)

	imageStore, imageDir, err := newImageStore(cfg, tracer, logger)
	if err != nil {
		logger.Error("Failed to initialize image storage", slog.String("error", err.Error()))
		return fmt.Errorf("failed to initialize image storage: %w", err)
	}

	images := service.NewImageService(imageStore, cfg.Storage.MaxImageSize, tracer, meter, logger)
	catalog := service.NewCatalogService(repo, images, cfg.Storage.URLPrefix, tracer, meter, logger)
	productHandler := handler.NewProductHandler(catalog, cfg.Storage.MaxImageSize, logger)

	server := http.NewServer(cfg, productHandler, logger, telem, imageDir)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	var runErr error
	select {
	case <-quit:
		logger.Info("Shutting down server...")
	case err := <-serverErr:
		if err != nil {
			logger.Error("Server error", slog.String("error", err.Error()))
			runErr = fmt.Errorf("server error: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", slog.String("error", err.Error()))
		if runErr == nil {
			runErr = fmt.Errorf("server shutdown: %w", err)
		}
	}

	logger.Info("Server stopped")
	return runErr
}

// newImageStore builds the configured image backend. The returned directory
// is set only for disk storage, where the server serves images itself.
func newImageStore(cfg *config.Config, tracer trace.Tracer, logger *slog.Logger) (domain.ImageStore, string, error) {
	if cfg.Storage.Driver == "s3" {
		store, err := s3.NewImageStore(s3.Config{
			Region:   cfg.Storage.S3Region,
			Bucket:   cfg.Storage.S3Bucket,
			Prefix:   cfg.Storage.S3Prefix,
			Endpoint: cfg.Storage.S3Endpoint,
		}, tracer, logger)
		return store, "", err
	}

	store, err := disk.NewImageStore(cfg.Storage.ImageDir, tracer, logger)
	if err != nil {
		return nil, "", err
	}
	return store, store.Dir(), nil
}
