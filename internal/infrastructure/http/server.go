package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/mrops-br/product-catalog-api/internal/infrastructure/config"
	"github.com/mrops-br/product-catalog-api/internal/infrastructure/http/handler"
	"github.com/mrops-br/product-catalog-api/internal/infrastructure/http/middleware"
	"github.com/mrops-br/product-catalog-api/internal/infrastructure/telemetry"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
)

// Server represents the HTTP server
type Server struct {
	router     *chi.Mux
	httpServer *http.Server
	config     *config.Config
	handler    *handler.ProductHandler
	logger     *slog.Logger
	telemetry  *telemetry.Telemetry
	imageDir   string
}

// NewServer creates a new HTTP server. When imageDir is not empty the
// stored images are served from it under the configured URL prefix.
func NewServer(
	cfg *config.Config,
	handler *handler.ProductHandler,
	logger *slog.Logger,
	telem *telemetry.Telemetry,
	imageDir string,
) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		config:    cfg,
		handler:   handler,
		logger:    logger,
		telemetry: telem,
		imageDir:  imageDir,
	}

	s.setupMiddleware()
	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      s.Handler(),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	return s
}

// setupMiddleware configures the middleware chain
func (s *Server) setupMiddleware() {
	meter := s.telemetry.MeterProvider.Meter("product-catalog-api")

	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.StructuredLogger(s.logger))
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.HTTPRouteContext())
	s.router.Use(middleware.ActiveRequestsMiddleware(meter))
	s.router.Use(middleware.DurationMillisecondsMiddleware(meter))

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.config.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
}

// setupRoutes configures the API routes
func (s *Server) setupRoutes() {
	uploads := middleware.NewRateLimiter(s.config.RateLimit.UploadsPerMinute, s.config.RateLimit.Burst)

	s.router.Route("/products", func(r chi.Router) {
		r.Get("/", s.handler.ListProducts)
		r.Get("/{id}", s.handler.GetProduct)

		r.Group(func(r chi.Router) {
			r.Use(uploads.Middleware)
			r.Post("/", s.handler.CreateProduct)
			r.Put("/{id}", s.handler.UpdateProduct)
			r.Delete("/{id}", s.handler.DeleteProduct)
		})
	})
	s.router.Get("/shop", s.handler.Shop)
	s.router.Get("/categories", s.handler.ListCategories)

	if s.imageDir != "" {
		prefix := "/" + strings.Trim(s.config.Storage.URLPrefix, "/")
		fs := http.StripPrefix(prefix+"/", http.FileServer(http.Dir(s.imageDir)))
		s.router.Get(prefix+"/*", fs.ServeHTTP)
	}

	s.router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	s.router.Get("/metrics", promhttp.HandlerFor(s.telemetry.Registry, promhttp.HandlerOpts{}).ServeHTTP)
}

// Handler returns the instrumented root handler
func (s *Server) Handler() http.Handler {
	return otelhttp.NewHandler(s.router, "http-server",
		otelhttp.WithSpanNameFormatter(func(operation string, r *http.Request) string {
			return fmt.Sprintf("%s %s", r.Method, r.URL.Path)
		}),
		otelhttp.WithTracerProvider(s.telemetry.TracerProvider),
		otelhttp.WithMeterProvider(s.telemetry.MeterProvider),
		otelhttp.WithMetricAttributesFn(func(r *http.Request) []attribute.KeyValue {
			routePattern := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if pattern := rctx.RoutePattern(); pattern != "" {
					routePattern = pattern
				}
			}
			return []attribute.KeyValue{
				attribute.String("http.route", routePattern),
			}
		}),
	)
}

// Start starts the HTTP server and blocks until it stops
func (s *Server) Start() error {
	s.logger.Info("Starting HTTP server",
		slog.String("address", s.httpServer.Addr),
	)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
