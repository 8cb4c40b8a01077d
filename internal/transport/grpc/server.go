// Package grpc provides a read-only gRPC server for the catalog.
package grpc

import (
	"context"
	"errors"
	"log/slog"

	perrors "github.com/abgdnv/catalog/internal/errors"
	"github.com/abgdnv/catalog/internal/service"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ProductService is the subset of service.ProductService the gRPC server reads from.
type ProductService interface {
	FindAll(ctx context.Context) []service.ProductDto
	FindByID(ctx context.Context, id int64) (*service.ProductDto, error)
}

var _ CatalogServiceServer = (*Server)(nil)

type Server struct {
	service ProductService
	logger  *slog.Logger
}

func NewServer(service ProductService, logger *slog.Logger) *Server {
	return &Server{service: service, logger: logger.With("component", "grpc")}
}

func (s *Server) GetProduct(ctx context.Context, req *wrapperspb.Int64Value) (*structpb.Struct, error) {
	logger := s.logger.With(slog.Int64("product_id", req.GetValue()))
	logger.DebugContext(ctx, "received grpc request GetProduct")

	found, err := s.service.FindByID(ctx, req.GetValue())
	if err != nil {
		if errors.Is(err, perrors.ErrProductNotFound) {
			return nil, status.Errorf(codes.NotFound, "product %d not found", req.GetValue())
		}
		logger.ErrorContext(ctx, "service.FindByID failed", slog.Any("error", err))
		return nil, status.Error(codes.Internal, "internal server error")
	}

	product, err := toStruct(found)
	if err != nil {
		logger.ErrorContext(ctx, "failed to convert product", slog.Any("error", err))
		return nil, status.Error(codes.Internal, "internal server error")
	}
	return product, nil
}

func (s *Server) ListProducts(ctx context.Context, _ *emptypb.Empty) (*structpb.ListValue, error) {
	s.logger.DebugContext(ctx, "received grpc request ListProducts")

	found := s.service.FindAll(ctx)
	values := make([]*structpb.Value, 0, len(found))
	for i := range found {
		product, err := toStruct(&found[i])
		if err != nil {
			s.logger.ErrorContext(ctx, "failed to convert product", slog.Int64("product_id", found[i].ID), slog.Any("error", err))
			return nil, status.Error(codes.Internal, "internal server error")
		}
		values = append(values, structpb.NewStructValue(product))
	}
	return &structpb.ListValue{Values: values}, nil
}

// toStruct uses the same field names as the JSON API.
func toStruct(p *service.ProductDto) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"id":          p.ID,
		"name":        p.Name,
		"price":       p.Price,
		"quantity":    p.Quantity,
		"description": p.Description,
		"category":    p.Category,
		"date_added":  p.DateAdded,
		"image_url":   p.ImageURL,
	})
}
