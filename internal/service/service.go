// Package service provides the implementation of catalog business logic.
package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	perrors "github.com/abgdnv/catalog/internal/errors"
	"github.com/abgdnv/catalog/internal/store"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/abgdnv/catalog/internal/service"

// ProductService defines the methods for managing products.
// It is the only surface the transports use to reach the store.
type ProductService interface {
	// FindAll returns every product in insertion order.
	// Returns an empty slice if no products exist.
	FindAll(ctx context.Context) []ProductDto

	// FindByID retrieves a single product by its identifier.
	// Returns ErrProductNotFound if no product exists with the given ID.
	FindByID(ctx context.Context, id int64) (*ProductDto, error)

	// Create adds a new product; the ID is assigned by the store.
	Create(ctx context.Context, product ProductFieldsDto) *ProductDto

	// Update overwrites the fields present in product and leaves the rest untouched.
	// Returns ErrProductNotFound if no product exists with the given ID.
	Update(ctx context.Context, id int64, product ProductFieldsDto) (*ProductDto, error)

	// DeleteByID removes a product by its ID. It reports true whether or not the product existed.
	DeleteByID(ctx context.Context, id int64) bool
}

// Service implements ProductService on top of a store.ProductStore.
type Service struct {
	repository store.ProductStore
	tracer     trace.Tracer
}

// NewService creates a new instance of ProductService with the provided repository.
func NewService(repo store.ProductStore) *Service {
	return &Service{
		repository: repo,
		tracer:     otel.Tracer(tracerName),
	}
}

// ProductDto represents the data transfer object for a product.
type ProductDto struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Quantity    int64   `json:"quantity"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	DateAdded   string  `json:"date_added"`
	ImageURL    string  `json:"image_url"`
}

// ProductFieldsDto carries the caller-supplied fields of a create or update request.
// A nil field was absent from the payload. A field sent as JSON null is
// cleared to its zero value, see ClearNulls.
type ProductFieldsDto struct {
	Name        *string  `json:"name,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Quantity    *int64   `json:"quantity,omitempty"`
	Description *string  `json:"description,omitempty"`
	Category    *string  `json:"category,omitempty"`
	DateAdded   *string  `json:"date_added,omitempty"`
	ImageURL    *string  `json:"image_url,omitempty"`
}

var jsonNull = []byte("null")

// ClearNulls points every field whose raw payload value is JSON null at the
// field's zero value, so the store overwrites it instead of skipping it.
func (p *ProductFieldsDto) ClearNulls(data map[string]json.RawMessage) {
	for key, raw := range data {
		if !bytes.Equal(bytes.TrimSpace(raw), jsonNull) {
			continue
		}
		switch key {
		case "name":
			p.Name = new(string)
		case "price":
			p.Price = new(float64)
		case "quantity":
			p.Quantity = new(int64)
		case "description":
			p.Description = new(string)
		case "category":
			p.Category = new(string)
		case "date_added":
			p.DateAdded = new(string)
		case "image_url":
			p.ImageURL = new(string)
		}
	}
}

// FindAll returns all products as ProductDtos.
func (s *Service) FindAll(ctx context.Context) []ProductDto {
	_, span := s.tracer.Start(ctx, "ProductService.FindAll")
	defer span.End()

	products := s.repository.ListAll()
	productDTOs := make([]ProductDto, len(products))
	for i, item := range products {
		productDTOs[i] = *toDto(&item)
	}
	span.SetAttributes(attribute.Int("catalog.count", len(productDTOs)))
	return productDTOs
}

// FindByID retrieves a product by its ID and returns it as a ProductDto.
// Returns ErrProductNotFound if no product exists with the given ID.
func (s *Service) FindByID(ctx context.Context, id int64) (*ProductDto, error) {
	_, span := s.tracer.Start(ctx, "ProductService.FindByID", trace.WithAttributes(attribute.Int64("catalog.product_id", id)))
	defer span.End()

	product, ok := s.repository.FindByID(id)
	if !ok {
		return nil, fmt.Errorf("failed to fetch product by ID %d: %w", id, perrors.ErrProductNotFound)
	}
	return toDto(&product), nil
}

// Create creates a new product and returns it as a ProductDto.
func (s *Service) Create(ctx context.Context, product ProductFieldsDto) *ProductDto {
	_, span := s.tracer.Start(ctx, "ProductService.Create")
	defer span.End()

	created := s.repository.Create(toFields(product))
	span.SetAttributes(attribute.Int64("catalog.product_id", created.ID))
	return toDto(&created)
}

// Update merges the present fields into an existing product and returns the result.
// Returns ErrProductNotFound if no product exists with the given ID.
func (s *Service) Update(ctx context.Context, id int64, product ProductFieldsDto) (*ProductDto, error) {
	_, span := s.tracer.Start(ctx, "ProductService.Update", trace.WithAttributes(attribute.Int64("catalog.product_id", id)))
	defer span.End()

	updated, ok := s.repository.Update(id, toFields(product))
	if !ok {
		return nil, fmt.Errorf("failed to update product with ID %d: %w", id, perrors.ErrProductNotFound)
	}
	return toDto(&updated), nil
}

// DeleteByID deletes a product by its ID.
func (s *Service) DeleteByID(ctx context.Context, id int64) bool {
	_, span := s.tracer.Start(ctx, "ProductService.DeleteByID", trace.WithAttributes(attribute.Int64("catalog.product_id", id)))
	defer span.End()

	return s.repository.Delete(id)
}

// toDto converts a store.Product to a ProductDto.
func toDto(product *store.Product) *ProductDto {
	return &ProductDto{
		ID:          product.ID,
		Name:        product.Name,
		Price:       product.Price,
		Quantity:    product.Quantity,
		Description: product.Description,
		Category:    product.Category,
		DateAdded:   product.DateAdded,
		ImageURL:    product.ImageURL,
	}
}

func toFields(dto ProductFieldsDto) store.ProductFields {
	return store.ProductFields{
		Name:        dto.Name,
		Price:       dto.Price,
		Quantity:    dto.Quantity,
		Description: dto.Description,
		Category:    dto.Category,
		DateAdded:   dto.DateAdded,
		ImageURL:    dto.ImageURL,
	}
}
