package rest

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/abgdnv/catalog/pkg/config"
	"github.com/abgdnv/catalog/pkg/web"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
)

const rateLimitMessage = "Rate limit exceeded"

// limiter returns a per-client-IP rate limiting middleware allowing limit
// requests per fixed window. Each call returns an independent counter set.
// When limiting is disabled it returns a pass-through middleware.
func limiter(cfg config.RateLimitConfig, limit int, logger *slog.Logger) func(http.Handler) http.Handler {
	if !cfg.Enabled {
		return func(next http.Handler) http.Handler { return next }
	}
	return httprate.Limit(limit, window(cfg),
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitCounter(newFixedWindowCounter()),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			logger.WarnContext(r.Context(), "Rate limit exceeded",
				"request_id", middleware.GetReqID(r.Context()),
				"method", r.Method,
				"path", r.URL.Path,
				"remote_addr", r.RemoteAddr)
			web.RespondError(w, logger, http.StatusTooManyRequests, rateLimitMessage)
		}),
	)
}

func window(cfg config.RateLimitConfig) time.Duration {
	if cfg.Window <= 0 {
		return time.Minute
	}
	return cfg.Window
}

var _ httprate.LimitCounter = (*fixedWindowCounter)(nil)

// fixedWindowCounter counts requests in the current window only.
// The previous window is always reported as empty, so a quota resets
// completely at each window boundary.
type fixedWindowCounter struct {
	mu       sync.Mutex
	window   time.Time
	counters map[string]int
}

func newFixedWindowCounter() *fixedWindowCounter {
	return &fixedWindowCounter{counters: make(map[string]int)}
}

func (c *fixedWindowCounter) Config(int, time.Duration) {}

func (c *fixedWindowCounter) Increment(key string, currentWindow time.Time) error {
	return c.IncrementBy(key, currentWindow, 1)
}

func (c *fixedWindowCounter) IncrementBy(key string, currentWindow time.Time, amount int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.roll(currentWindow)
	c.counters[key] += amount
	return nil
}

func (c *fixedWindowCounter) Get(key string, currentWindow, _ time.Time) (int, int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.roll(currentWindow)
	return c.counters[key], 0, nil
}

// roll drops all counts once a newer window starts.
func (c *fixedWindowCounter) roll(currentWindow time.Time) {
	if currentWindow.After(c.window) {
		c.window = currentWindow
		clear(c.counters)
	}
}
