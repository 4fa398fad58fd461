package http

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/mrops-br/product-catalog-api/internal/app/service"
	"github.com/mrops-br/product-catalog-api/internal/infrastructure/config"
	"github.com/mrops-br/product-catalog-api/internal/infrastructure/http/handler"
	"github.com/mrops-br/product-catalog-api/internal/infrastructure/repository/memory"
	"github.com/mrops-br/product-catalog-api/internal/infrastructure/storage/disk"
	"github.com/mrops-br/product-catalog-api/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*Server, string) {
	t.Helper()
	t.Setenv("OTEL_EXPORT_ENABLED", "false")
	cfg := config.LoadConfig()
	cfg.LogLevel = "error"
	cfg.RateLimit.UploadsPerMinute = 60
	cfg.RateLimit.Burst = 1

	telem := telemetry.NewNoOpTelemetry(&cfg.OTLP, cfg.LogLevel)
	telem.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	tracer := telem.TracerProvider.Tracer("test")
	meter := telem.MeterProvider.Meter("test")

	dir := t.TempDir()
	store, err := disk.NewImageStore(dir, tracer, telem.Logger)
	require.NoError(t, err)

	repo := memory.NewSeededProductRepository(tracer, telem.Logger)
	images := service.NewImageService(store, cfg.Storage.MaxImageSize, tracer, meter, telem.Logger)
	catalog := service.NewCatalogService(repo, images, cfg.Storage.URLPrefix, tracer, meter, telem.Logger)
	h := handler.NewProductHandler(catalog, cfg.Storage.MaxImageSize, telem.Logger)

	return NewServer(cfg, h, telem.Logger, telem, dir), dir
}

func TestServer_Health(t *testing.T) {
	s, _ := newTestServer(t)

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "OK", w.Body.String())
}

func TestServer_ListAndMetrics(t *testing.T) {
	s, _ := newTestServer(t)
	h := s.Handler()

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/products", nil))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "catalog_operations")
}

func TestServer_ServesStoredImages(t *testing.T) {
	s, dir := newTestServer(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cover.png"), []byte("png"), 0o644))

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/img/cover.png", nil))

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "png", w.Body.String())
}

func TestServer_RateLimitsMutations(t *testing.T) {
	s, _ := newTestServer(t)
	h := s.Handler()

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/products/1", nil))
	require.Equal(t, http.StatusNoContent, w.Code)

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/products/2", nil))
	require.Equal(t, http.StatusTooManyRequests, w.Code)

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/products/2", nil))
	require.Equal(t, http.StatusOK, w.Code)
}
