// Package app wires the catalog service: store, service and transports.
package app

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/abgdnv/catalog/internal/config"
	"github.com/abgdnv/catalog/internal/docs"
	"github.com/abgdnv/catalog/internal/service"
	"github.com/abgdnv/catalog/internal/store"
	grpcImpl "github.com/abgdnv/catalog/internal/transport/grpc"
	"github.com/abgdnv/catalog/internal/transport/rest"
	"github.com/abgdnv/catalog/pkg/server"
	"github.com/abgdnv/catalog/pkg/web"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
)

// ServiceName is used for the env prefix, tracing and metrics.
const ServiceName = "catalog"

type Dependencies struct {
	Store          *store.MemoryStore
	ProductService service.ProductService
	Registry       *prometheus.Registry
	Logger         *slog.Logger
}

// SetupDependencies builds the store and service. The store collectors are
// registered on a fresh registry; sample products are added when catalog.seed is set.
func SetupDependencies(cfg *config.Config, logger *slog.Logger) *Dependencies {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	productStore := store.NewMemoryStore(store.WithMetrics(reg))
	if cfg.Catalog.Seed {
		seeded := productStore.Seed(SampleProducts()...)
		logger.Info("Catalog seeded with sample products", "count", len(seeded))
	}

	return &Dependencies{
		Store:          productStore,
		ProductService: service.NewService(productStore),
		Registry:       reg,
		Logger:         logger,
	}
}

// SetupHttpHandler builds the router with every HTTP route.
// Used by E2E tests to get the full handler without starting a server.
func SetupHttpHandler(deps *Dependencies, cfg *config.Config) (http.Handler, error) {
	var extra []func(http.Handler) http.Handler
	if cfg.Metrics.Enabled {
		extra = append(extra, web.NewMetrics(deps.Registry).Middleware)
	}
	mux := server.NewChiRouter(deps.Logger, extra...)
	if err := wireRoutes(mux, deps, cfg); err != nil {
		return nil, err
	}
	return mux, nil
}

// wireRoutes sets up the HTTP routes for the catalog.
func wireRoutes(mux *chi.Mux, deps *Dependencies, cfg *config.Config) error {
	productHandler := rest.NewHandler(deps.ProductService, cfg.RateLimit, deps.Logger)
	productHandler.RegisterRoutes(mux)

	docsHandler, err := docs.NewHandler(deps.Logger)
	if err != nil {
		return fmt.Errorf("failed to load documentation assets: %w", err)
	}
	docsHandler.RegisterRoutes(mux)

	if cfg.Metrics.Enabled {
		mux.Handle(cfg.Metrics.Path, promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{Registry: deps.Registry}))
	}
	return nil
}

// SetupHttpServer creates and configures the public HTTP server.
func SetupHttpServer(deps *Dependencies, cfg *config.Config) (*http.Server, error) {
	mux, err := SetupHttpHandler(deps, cfg)
	if err != nil {
		return nil, err
	}

	httpCfg := server.HTTPConfig{
		Port:           cfg.HTTPServer.Port,
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		ReadTimeout:    cfg.HTTPServer.Timeout.Read,
		WriteTimeout:   cfg.HTTPServer.Timeout.Write,
		IdleTimeout:    cfg.HTTPServer.Timeout.Idle,
		ReadHeader:     cfg.HTTPServer.Timeout.ReadHeader,
	}

	return server.NewHTTPServer(httpCfg, ServiceName, mux), nil
}

// SetupGrpcServer initializes the gRPC server with the catalog and health services.
func SetupGrpcServer(deps *Dependencies, reflectionEnabled bool) (*grpc.Server, *health.Server) {
	catalogRegisterFunc := func(s *grpc.Server) {
		grpcImpl.RegisterCatalogServiceServer(s, grpcImpl.NewServer(deps.ProductService, deps.Logger))
	}
	return server.NewGRPCServer(reflectionEnabled, catalogRegisterFunc)
}
