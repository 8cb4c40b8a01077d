package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/abgdnv/catalog/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.HTTPServer.Port = 5000
	cfg.HTTPServer.Timeout.Read = time.Second
	cfg.HTTPServer.Timeout.Write = time.Second
	cfg.HTTPServer.Timeout.Idle = time.Second
	cfg.HTTPServer.Timeout.ReadHeader = time.Second
	cfg.GRPC.Port = "9090"
	cfg.Metrics.Enabled = true
	cfg.Metrics.Path = "/metrics"
	return cfg
}

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func Test_SetupDependencies_Seed(t *testing.T) {
	testCases := []struct {
		name     string
		seed     bool
		expected int
	}{
		{name: "empty by default", seed: false, expected: 0},
		{name: "seeded", seed: true, expected: len(SampleProducts())},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := testConfig()
			cfg.Catalog.Seed = tc.seed

			deps := SetupDependencies(cfg, discardLogger)

			assert.Equal(t, tc.expected, deps.Store.Len())
			assert.Len(t, deps.ProductService.FindAll(context.Background()), tc.expected)
		})
	}
}

func Test_SetupHttpHandler_Routes(t *testing.T) {
	// given
	cfg := testConfig()
	deps := SetupDependencies(cfg, discardLogger)
	handler, err := SetupHttpHandler(deps, cfg)
	require.NoError(t, err)

	testCases := []struct {
		path         string
		expectedCode int
	}{
		{path: "/api/products", expectedCode: http.StatusOK},
		{path: "/healthz", expectedCode: http.StatusOK},
		{path: "/", expectedCode: http.StatusOK},
		{path: "/apispec_1.json", expectedCode: http.StatusOK},
		{path: "/metrics", expectedCode: http.StatusOK},
		{path: "/nope", expectedCode: http.StatusNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.path, func(t *testing.T) {
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, tc.path, nil))
			assert.Equal(t, tc.expectedCode, rr.Code)
		})
	}
}

func Test_SetupHttpHandler_MetricsExposeStoreAndRequests(t *testing.T) {
	// given
	cfg := testConfig()
	deps := SetupDependencies(cfg, discardLogger)
	handler, err := SetupHttpHandler(deps, cfg)
	require.NoError(t, err)
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/products", nil))

	// when
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	// then
	body := rr.Body.String()
	assert.Contains(t, body, "catalog_products 0")
	assert.Contains(t, body, `catalog_store_operations_total{op="list"} 1`)
	assert.Contains(t, body, `http_requests_total{method="GET",path="/api/products`)
}

func Test_SetupHttpHandler_UnknownPathsDoNotGrowMetrics(t *testing.T) {
	// given
	cfg := testConfig()
	deps := SetupDependencies(cfg, discardLogger)
	handler, err := SetupHttpHandler(deps, cfg)
	require.NoError(t, err)

	// when
	for i := range 100 {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, fmt.Sprintf("/scan-%d", i), nil))
	}

	// then
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rr.Body.String()
	assert.NotContains(t, body, "/scan-")
	assert.Contains(t, body, `http_requests_total{method="GET",path="unmatched",status="404"} 100`)
}

func Test_SetupHttpHandler_MetricsDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.Metrics.Enabled = false
	deps := SetupDependencies(cfg, discardLogger)
	handler, err := SetupHttpHandler(deps, cfg)
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func Test_SetupGrpcServer(t *testing.T) {
	deps := SetupDependencies(testConfig(), discardLogger)

	srv, healthSrv := SetupGrpcServer(deps, false)
	defer srv.Stop()

	assert.Contains(t, srv.GetServiceInfo(), "catalog.v1.CatalogService")
	res, err := healthSrv.Check(context.Background(), &healthpb.HealthCheckRequest{Service: "catalog.v1.CatalogService"})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, res.GetStatus())
}
