package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mrops-br/product-catalog-api/internal/app/dto"
	"github.com/mrops-br/product-catalog-api/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// CatalogService handles product catalog use cases
type CatalogService struct {
	repo                  domain.ProductRepository
	images                *ImageService
	imagePrefix           string
	tracer                trace.Tracer
	logger                *slog.Logger
	productCreatedCounter metric.Int64Counter
	catalogOperations     metric.Int64Counter
}

// NewCatalogService creates a new catalog service. imagePrefix is the URL
// prefix under which stored images are served.
func NewCatalogService(
	repo domain.ProductRepository,
	images *ImageService,
	imagePrefix string,
	tracer trace.Tracer,
	meter metric.Meter,
	logger *slog.Logger,
) *CatalogService {
	productCreatedCounter, _ := meter.Int64Counter(
		"catalog.products.created.total",
		metric.WithDescription("Total number of products created"),
	)

	catalogOperations, _ := meter.Int64Counter(
		"catalog.operations",
		metric.WithDescription("Total number of catalog operations"),
	)

	return &CatalogService{
		repo:                  repo,
		images:                images,
		imagePrefix:           imagePrefix,
		tracer:                tracer,
		logger:                logger,
		productCreatedCounter: productCreatedCounter,
		catalogOperations:     catalogOperations,
	}
}

// ListProducts runs a search and category filter over the selected view
func (s *CatalogService) ListProducts(ctx context.Context, view domain.View, search, category string) (*dto.CatalogResponse, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.ListProducts")
	defer span.End()

	span.SetAttributes(
		attribute.String("catalog.view", string(view)),
		attribute.String("catalog.search", search),
		attribute.String("catalog.category", category),
	)

	var (
		products []*domain.Product
		err      error
	)
	switch view {
	case domain.ViewAll:
		products, err = s.repo.ListAll(ctx)
	case domain.ViewActive:
		products, err = s.repo.ListActive(ctx)
	default:
		err = domain.ErrInvalidView
	}
	if err != nil {
		return nil, s.fail(ctx, span, "list", err)
	}

	filtered, err := FilterProducts(products, search, category)
	if err != nil {
		return nil, s.fail(ctx, span, "list", err)
	}

	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, s.fail(ctx, span, "list", err)
	}

	span.SetAttributes(attribute.Int("product.count", len(filtered)))
	s.record(ctx, "list", "success")
	s.logger.InfoContext(ctx, "Products listed successfully",
		slog.String("view", string(view)),
		slog.Int("count", len(filtered)),
	)
	span.SetStatus(codes.Ok, "Products listed successfully")

	return &dto.CatalogResponse{
		Products:         dto.ToProductResponseList(filtered, s.imagePrefix),
		Categories:       dto.ToCategoryResponseList(categories),
		SelectedCategory: category,
		Search:           search,
	}, nil
}

// ListCategories retrieves all categories
func (s *CatalogService) ListCategories(ctx context.Context) ([]*dto.CategoryResponse, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.ListCategories")
	defer span.End()

	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, s.fail(ctx, span, "list_categories", err)
	}
	s.record(ctx, "list_categories", "success")
	return dto.ToCategoryResponseList(categories), nil
}

// GetProduct retrieves a product by ID
func (s *CatalogService) GetProduct(ctx context.Context, id int) (*dto.ProductResponse, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.GetProduct")
	defer span.End()

	span.SetAttributes(attribute.Int("product.id", id))

	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.fail(ctx, span, "read", err)
	}

	s.record(ctx, "read", "success")
	span.SetStatus(codes.Ok, "Product retrieved successfully")
	return dto.ToProductResponse(product, s.imagePrefix), nil
}

// CreateProduct stores a new product. An image is mandatory.
func (s *CatalogService) CreateProduct(ctx context.Context, req *dto.ProductRequest, upload *ImageUpload) (*dto.ProductResponse, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.CreateProduct")
	defer span.End()

	span.SetAttributes(
		attribute.String("product.name", req.Name),
		attribute.Float64("product.price", req.Price),
	)
	s.logger.InfoContext(ctx, "Creating product",
		slog.String("name", req.Name),
		slog.Float64("price", req.Price),
	)

	product, err := s.buildProduct(req)
	if err != nil {
		return nil, s.fail(ctx, span, "create", err)
	}
	if upload == nil {
		return nil, s.fail(ctx, span, "create", domain.ErrImageRequired)
	}

	image, err := s.images.Ingest(ctx, upload)
	if err != nil {
		return nil, s.fail(ctx, span, "create", err)
	}
	product.Image = image

	if err := s.repo.Create(ctx, product); err != nil {
		_ = s.images.Discard(ctx, image)
		return nil, s.fail(ctx, span, "create", err)
	}

	span.SetAttributes(attribute.Int("product.id", product.ID))
	s.productCreatedCounter.Add(ctx, 1)
	s.record(ctx, "create", "success")
	s.logger.InfoContext(ctx, "Product created successfully",
		slog.Int("product_id", product.ID),
	)
	span.SetStatus(codes.Ok, "Product created successfully")
	return dto.ToProductResponse(product, s.imagePrefix), nil
}

// UpdateProduct replaces the product with the given ID. When upload is nil
// the product keeps its current image.
func (s *CatalogService) UpdateProduct(ctx context.Context, id int, req *dto.ProductRequest, upload *ImageUpload) (*dto.ProductResponse, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.UpdateProduct")
	defer span.End()

	span.SetAttributes(attribute.Int("product.id", id))
	s.logger.InfoContext(ctx, "Updating product", slog.Int("product_id", id))

	product, err := s.buildProduct(req)
	if err != nil {
		return nil, s.fail(ctx, span, "update", err)
	}
	product.ID = id

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.fail(ctx, span, "update", err)
	}

	var ingested string
	if upload != nil {
		ingested, err = s.images.Ingest(ctx, upload)
		if err != nil {
			return nil, s.fail(ctx, span, "update", err)
		}
	}
	applyImageUpdate(product, existing, ingested)

	if err := s.repo.Update(ctx, product); err != nil {
		if ingested != "" {
			_ = s.images.Discard(ctx, ingested)
		}
		return nil, s.fail(ctx, span, "update", err)
	}

	s.record(ctx, "update", "success")
	s.logger.InfoContext(ctx, "Product updated successfully",
		slog.Int("product_id", id),
		slog.Bool("image_replaced", ingested != ""),
	)
	span.SetStatus(codes.Ok, "Product updated successfully")
	return dto.ToProductResponse(product, s.imagePrefix), nil
}

// DeleteProduct removes the product with the given ID
func (s *CatalogService) DeleteProduct(ctx context.Context, id int) error {
	ctx, span := s.tracer.Start(ctx, "CatalogService.DeleteProduct")
	defer span.End()

	span.SetAttributes(attribute.Int("product.id", id))

	if err := s.repo.Delete(ctx, id); err != nil {
		return s.fail(ctx, span, "delete", err)
	}

	s.record(ctx, "delete", "success")
	s.logger.InfoContext(ctx, "Product deleted successfully",
		slog.Int("product_id", id),
	)
	span.SetStatus(codes.Ok, "Product deleted successfully")
	return nil
}

// applyImageUpdate sets the image an updated product ends up with: the
// newly ingested one if there is one, otherwise the one already stored.
func applyImageUpdate(updated, existing *domain.Product, ingested string) {
	if ingested != "" {
		updated.Image = ingested
		return
	}
	updated.Image = existing.Image
}

func (s *CatalogService) buildProduct(req *dto.ProductRequest) (*domain.Product, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}
	product := req.ToProduct()
	if err := product.Validate(); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *CatalogService) fail(ctx context.Context, span trace.Span, operation string, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	result := "failure"
	switch {
	case errors.Is(err, domain.ErrProductNotFound):
		result = "not_found"
		s.logger.WarnContext(ctx, "Product not found",
			slog.String("operation", operation),
		)
	case domain.IsValidation(err):
		result = "invalid"
		s.logger.WarnContext(ctx, "Catalog request rejected",
			slog.String("operation", operation),
			slog.String("error", err.Error()),
		)
	default:
		s.logger.ErrorContext(ctx, "Catalog operation failed",
			slog.String("operation", operation),
			slog.String("error", err.Error()),
		)
	}

	s.record(ctx, operation, result)
	return err
}

func (s *CatalogService) record(ctx context.Context, operation, result string) {
	s.catalogOperations.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("result", result),
		),
	)
}
