package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/abgdnv/catalog/pkg/config/configloader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func load(t *testing.T, yaml string) (*Config, error) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))
	return configloader.Load[*Config]("catalog",
		configloader.WithConfigFile(path),
		configloader.WithEnvFile(filepath.Join(dir, ".env")),
		configloader.WithDefaults(Defaults()),
	)
}

func Test_Load_Defaults(t *testing.T) {
	// when
	cfg, err := load(t, "")

	// then
	require.NoError(t, err)
	assert.Equal(t, 5000, cfg.HTTPServer.Port)
	assert.Equal(t, "9090", cfg.GRPC.Port)
	assert.Equal(t, 10*time.Second, cfg.Shutdown.Timeout)
	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window)
	assert.Equal(t, 100, cfg.RateLimit.List)
	assert.Equal(t, 50, cfg.RateLimit.Get)
	assert.Equal(t, 30, cfg.RateLimit.Create)
	assert.Equal(t, 20, cfg.RateLimit.Update)
	assert.Equal(t, 10, cfg.RateLimit.Delete)
	assert.True(t, cfg.Metrics.Enabled)
	assert.False(t, cfg.Telemetry.Enabled)
	assert.False(t, cfg.Catalog.Seed)
}

func Test_Load_EnvOverridesFile(t *testing.T) {
	// given
	t.Setenv("CATALOG_RATELIMIT_DELETE", "3")
	t.Setenv("CATALOG_CATALOG_SEED", "true")

	// when
	cfg, err := load(t, "server:\n  port: 8080\nratelimit:\n  delete: 5\n")

	// then
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.HTTPServer.Port)
	assert.Equal(t, 3, cfg.RateLimit.Delete)
	assert.True(t, cfg.Catalog.Seed)
}

func Test_Validate(t *testing.T) {
	testCases := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{name: "invalid port", yaml: "server:\n  port: -1\n", wantErr: "invalid HTTP server port"},
		{name: "shared port", yaml: "server:\n  port: 9090\n", wantErr: "cannot share port"},
		{name: "zero rate limit", yaml: "ratelimit:\n  get: 0\n", wantErr: "rate limit get"},
		{name: "telemetry without endpoint", yaml: "telemetry:\n  enabled: true\n", wantErr: "OTel endpoint"},
		{name: "unknown log level", yaml: "log:\n  level: loud\n", wantErr: "unknown log level"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := load(t, tc.yaml)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func Test_String(t *testing.T) {
	cfg, err := load(t, "")
	require.NoError(t, err)

	out := cfg.String()

	assert.Contains(t, out, "server.port: 5000")
	assert.Contains(t, out, "grpc.port: 9090")
	assert.Contains(t, out, "delete: 10")
	assert.Contains(t, out, "catalog.seed: false")
}
