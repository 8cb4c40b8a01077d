// Package docs serves the browser UI and the API documentation.
package docs

import (
	"embed"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

const (
	SpecPath = "/apispec_1.json"
	UIPath   = "/apidocs"
)

//go:embed static openapi.json
var content embed.FS

// Handler serves the embedded index page, its assets, the OpenAPI document and Swagger UI.
type Handler struct {
	static fs.FS
	spec   []byte
	logger *slog.Logger
}

// NewHandler loads the embedded assets.
func NewHandler(logger *slog.Logger) (*Handler, error) {
	static, err := fs.Sub(content, "static")
	if err != nil {
		return nil, err
	}
	spec, err := content.ReadFile("openapi.json")
	if err != nil {
		return nil, err
	}
	return &Handler{static: static, spec: spec, logger: logger.With("component", "docs")}, nil
}

// RegisterRoutes mounts the UI and documentation routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Index)
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServerFS(h.static)))
	r.Get(SpecPath, h.Spec)
	r.Get(UIPath, http.RedirectHandler(UIPath+"/index.html", http.StatusMovedPermanently).ServeHTTP)
	r.Get(UIPath+"/*", httpSwagger.Handler(
		httpSwagger.URL(SpecPath),
		httpSwagger.DocExpansion("list"),
	))
}

// Index serves the product management page.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	http.ServeFileFS(w, r, h.static, "index.html")
}

// Spec serves the OpenAPI document.
func (h *Handler) Spec(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(h.spec); err != nil {
		h.logger.Error("failed to write OpenAPI document", "error", err)
	}
}
