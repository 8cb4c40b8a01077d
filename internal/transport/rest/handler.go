// Package rest provides HTTP handlers for product-related operations.
package rest

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	perrors "github.com/abgdnv/catalog/internal/errors"
	"github.com/abgdnv/catalog/internal/service"
	"github.com/abgdnv/catalog/internal/validation"
	"github.com/abgdnv/catalog/pkg/config"
	"github.com/abgdnv/catalog/pkg/web"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const (
	maxBodyBytes = 1 << 20

	msgNotFound      = "Item not found"
	msgDeleted       = "Item deleted successfully"
	msgInvalidBody   = "Invalid request body"
	msgInternalError = "Internal server error"
)

type Handler struct {
	service service.ProductService
	limits  config.RateLimitConfig
	logger  *slog.Logger
}

// NewHandler creates a new Handler backed by the given service.
func NewHandler(service service.ProductService, limits config.RateLimitConfig, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		limits:  limits,
		logger:  logger.With("component", "rest"),
	}
}

// RegisterRoutes registers the product routes, each behind its own rate limiter.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/products", func(r chi.Router) {
		r.With(limiter(h.limits, h.limits.List, h.logger)).Get("/", h.FindAll)
		r.With(limiter(h.limits, h.limits.Create, h.logger)).Post("/", h.Create)

		r.Route("/{id}", func(r chi.Router) {
			r.With(limiter(h.limits, h.limits.Get, h.logger)).Get("/", h.FindByID)
			r.With(limiter(h.limits, h.limits.Update, h.logger)).Put("/", h.Update)
			r.With(limiter(h.limits, h.limits.Delete, h.logger)).Delete("/", h.DeleteByID)
		})
	})

	r.Get("/healthz", h.HealthCheck)
}

// FindAll retrieves a list of all products.
func (h *Handler) FindAll(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	mLogger.DebugContext(r.Context(), "Received request to find all products")

	list := h.service.FindAll(r.Context())

	mLogger.DebugContext(r.Context(), "Successfully retrieved product list", "count", len(list))
	web.RespondJSON(w, mLogger, http.StatusOK, list)
}

// FindByID retrieves a product by its ID.
func (h *Handler) FindByID(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := h.parseID(w, r, mLogger)
	if !ok {
		return
	}

	mLogger.DebugContext(r.Context(), "Received request to find product by ID", "ID", id)
	found, err := h.service.FindByID(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, mLogger, id, err)
		return
	}
	mLogger.DebugContext(r.Context(), "Successfully retrieved product", "ID", found.ID, "Name", found.Name)
	web.RespondJSON(w, mLogger, http.StatusOK, found)
}

// Create handles the creation of a new product.
// Every field of validation.CreateRequiredFields must be present; an "id" key is ignored.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	body, data, ok := h.decodeBody(w, r, mLogger)
	if !ok {
		return
	}

	if valid, message := validation.ValidateRequiredFields(data, validation.CreateRequiredFields); !valid {
		mLogger.WarnContext(r.Context(), "Validation errors occurred", "error", message)
		web.RespondError(w, mLogger, http.StatusBadRequest, message)
		return
	}

	var productDto service.ProductFieldsDto
	if err := json.Unmarshal(body, &productDto); err != nil {
		mLogger.WarnContext(r.Context(), "Error decoding product fields", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, msgInvalidBody)
		return
	}
	productDto.ClearNulls(data)

	newProduct := h.service.Create(r.Context(), productDto)
	mLogger.InfoContext(r.Context(), "Product created successfully", "ID", newProduct.ID, "Name", newProduct.Name)
	web.RespondJSON(w, mLogger, http.StatusCreated, newProduct)
}

// Update merges the supplied fields into an existing product.
// Any key outside validation.MutableFields rejects the whole request.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := h.parseID(w, r, mLogger)
	if !ok {
		return
	}
	mLogger.DebugContext(r.Context(), "Received request to update product", "ID", id)

	body, data, ok := h.decodeBody(w, r, mLogger)
	if !ok {
		return
	}

	if valid, message := validation.ValidateAllowedFields(data, validation.MutableFields); !valid {
		mLogger.WarnContext(r.Context(), "Validation errors occurred", "ID", id,
			"unknown_fields", validation.UnknownFields(data, validation.MutableFields))
		web.RespondError(w, mLogger, http.StatusBadRequest, message)
		return
	}

	var productDto service.ProductFieldsDto
	if err := json.Unmarshal(body, &productDto); err != nil {
		mLogger.WarnContext(r.Context(), "Error decoding product fields", "ID", id, "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, msgInvalidBody)
		return
	}
	productDto.ClearNulls(data)

	updated, err := h.service.Update(r.Context(), id, productDto)
	if err != nil {
		h.respondServiceError(w, r, mLogger, id, err)
		return
	}
	mLogger.InfoContext(r.Context(), "Product updated successfully", "ID", updated.ID, "Name", updated.Name)
	web.RespondJSON(w, mLogger, http.StatusOK, updated)
}

// DeleteByID deletes a product by its ID. Absent ids are reported as deleted too.
func (h *Handler) DeleteByID(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := h.parseID(w, r, mLogger)
	if !ok {
		return
	}
	mLogger.DebugContext(r.Context(), "Received request to delete product", "ID", id)

	h.service.DeleteByID(r.Context(), id)

	mLogger.InfoContext(r.Context(), "Product deleted successfully", "ID", id)
	web.RespondMessage(w, mLogger, http.StatusOK, msgDeleted)
}

// HealthCheck is a simple health check endpoint.
func (h *Handler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// parseID reads the product id from the path. Ids that are not unsigned
// integers never match a product, so they are answered with 404.
func (h *Handler) parseID(w http.ResponseWriter, r *http.Request, mLogger *slog.Logger) (int64, bool) {
	id, err := web.ParseID(r)
	if err != nil {
		mLogger.DebugContext(r.Context(), "Product ID did not parse", "error", err)
		web.RespondError(w, mLogger, http.StatusNotFound, msgNotFound)
		return 0, false
	}
	return id, true
}

// decodeBody reads the request body and decodes it as a JSON object.
// The raw bytes are returned as well so the caller can decode typed fields.
// A JSON null body decodes to an empty object.
func (h *Handler) decodeBody(w http.ResponseWriter, r *http.Request, mLogger *slog.Logger) ([]byte, map[string]json.RawMessage, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		mLogger.WarnContext(r.Context(), "Error reading request body", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, msgInvalidBody)
		return nil, nil, false
	}
	var data map[string]json.RawMessage
	if err := json.Unmarshal(body, &data); err != nil {
		mLogger.WarnContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, msgInvalidBody)
		return nil, nil, false
	}
	if data == nil {
		data = map[string]json.RawMessage{}
	}
	return body, data, true
}

func (h *Handler) respondServiceError(w http.ResponseWriter, r *http.Request, mLogger *slog.Logger, id int64, err error) {
	if errors.Is(err, perrors.ErrProductNotFound) {
		mLogger.WarnContext(r.Context(), "Product not found", "ID", id)
		web.RespondError(w, mLogger, http.StatusNotFound, msgNotFound)
		return
	}
	mLogger.ErrorContext(r.Context(), "Error processing product request", "ID", id, "error", err)
	web.RespondError(w, mLogger, http.StatusInternalServerError, msgInternalError)
}

// loggerWithReqID creates a logger with the request ID from the context.
func (h *Handler) loggerWithReqID(r *http.Request) *slog.Logger {
	reqID := middleware.GetReqID(r.Context())
	return h.logger.With("request_id", reqID)
}
