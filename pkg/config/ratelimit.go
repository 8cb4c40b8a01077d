package config

import (
	"fmt"
	"strings"
	"time"
)

// RateLimitConfig holds the per-route request ceilings. Each ceiling applies
// per client IP within one Window.
type RateLimitConfig struct {
	Enabled bool          `koanf:"enabled"`
	Window  time.Duration `koanf:"window"`
	List    int           `koanf:"list"`
	Get     int           `koanf:"get"`
	Create  int           `koanf:"create"`
	Update  int           `koanf:"update"`
	Delete  int           `koanf:"delete"`
}

// String returns a string representation of the rate limit configuration.
func (c *RateLimitConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- Rate Limit ---\n")
	b.WriteString(fmt.Sprintf("  enabled: %t\n", c.Enabled))
	b.WriteString(fmt.Sprintf("  window: %s\n", c.Window))
	b.WriteString(fmt.Sprintf("  list: %d\n", c.List))
	b.WriteString(fmt.Sprintf("  get: %d\n", c.Get))
	b.WriteString(fmt.Sprintf("  create: %d\n", c.Create))
	b.WriteString(fmt.Sprintf("  update: %d\n", c.Update))
	b.WriteString(fmt.Sprintf("  delete: %d\n", c.Delete))
	return b.String()
}

func (c *RateLimitConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Window <= 0 {
		return fmt.Errorf("rate limit window must be greater than zero")
	}
	limits := map[string]int{"list": c.List, "get": c.Get, "create": c.Create, "update": c.Update, "delete": c.Delete}
	for name, limit := range limits {
		if limit <= 0 {
			return fmt.Errorf("rate limit %s must be greater than zero, got %d", name, limit)
		}
	}
	return nil
}
