// Package config defines the catalog service configuration.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/abgdnv/catalog/pkg/config"
	"github.com/abgdnv/catalog/pkg/config/configloader"
)

var _ configloader.Validator = (*Config)(nil)

type Config struct {
	HTTPServer config.HTTPConfig       `koanf:"server"`
	GRPC       config.GrpcServerConfig `koanf:"grpc"`
	Log        config.LogConfig        `koanf:"log"`
	PProf      config.PProfConfig      `koanf:"pprof"`
	Shutdown   config.ShutdownConfig   `koanf:"shutdown"`
	RateLimit  config.RateLimitConfig  `koanf:"ratelimit"`
	Metrics    config.MetricsConfig    `koanf:"metrics"`
	Telemetry  config.TelemetryConfig  `koanf:"telemetry"`
	Catalog    CatalogConfig           `koanf:"catalog"`
}

// CatalogConfig holds settings of the product collection itself.
type CatalogConfig struct {
	// Seed loads a few sample products at startup.
	Seed bool `koanf:"seed"`
}

// Defaults are applied below config.yaml, .env and the environment.
func Defaults() map[string]any {
	return map[string]any{
		"server.port":               5000,
		"server.maxHeaderBytes":     1 << 20,
		"server.timeout.read":       "10s",
		"server.timeout.write":      "10s",
		"server.timeout.idle":       "60s",
		"server.timeout.readHeader": "5s",
		"grpc.port":                 "9090",
		"grpc.reflection":           false,
		"log.level":                 "info",
		"pprof.enabled":             false,
		"pprof.addr":                "localhost:6060",
		"shutdown.timeout":          "10s",
		"ratelimit.enabled":         true,
		"ratelimit.window":          time.Minute.String(),
		"ratelimit.list":            100,
		"ratelimit.get":             50,
		"ratelimit.create":          30,
		"ratelimit.update":          20,
		"ratelimit.delete":          10,
		"metrics.enabled":           true,
		"metrics.path":              "/metrics",
		"telemetry.enabled":         false,
		"catalog.seed":              false,
	}
}

func (c *Config) String() string {
	var b strings.Builder

	b.WriteString(c.HTTPServer.String())
	b.WriteString(c.GRPC.String())
	b.WriteString(c.RateLimit.String())

	b.WriteString("\n--- Observability & Logging ---\n")
	b.WriteString(fmt.Sprintf("  log.level: %s\n", c.Log.Level))
	b.WriteString(fmt.Sprintf("  pprof.enabled: %t\n", c.PProf.Enabled))
	b.WriteString(fmt.Sprintf("  pprof.addr: %s\n", c.PProf.Addr))
	b.WriteString(fmt.Sprintf("  metrics.enabled: %t\n", c.Metrics.Enabled))
	b.WriteString(fmt.Sprintf("  metrics.path: %s\n", c.Metrics.Path))
	b.WriteString(c.Telemetry.String())

	b.WriteString("\n--- Application Behavior ---\n")
	b.WriteString(fmt.Sprintf("  shutdown.timeout: %s\n", c.Shutdown.Timeout))
	b.WriteString(fmt.Sprintf("  catalog.seed: %t\n", c.Catalog.Seed))

	return b.String()
}

// Validate checks if the configuration values are valid
func (c *Config) Validate() error {
	validators := []configloader.Validator{
		&c.HTTPServer,
		&c.GRPC,
		&c.Log,
		&c.PProf,
		&c.Shutdown,
		&c.RateLimit,
		&c.Metrics,
		&c.Telemetry,
	}
	for _, v := range validators {
		if err := v.Validate(); err != nil {
			return err
		}
	}
	if fmt.Sprint(c.HTTPServer.Port) == c.GRPC.Port {
		return fmt.Errorf("HTTP and gRPC servers cannot share port %d", c.HTTPServer.Port)
	}
	return nil
}
