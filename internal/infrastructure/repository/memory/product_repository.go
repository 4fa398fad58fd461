package memory

import (
	"context"
	"log/slog"
	"sync"

	"github.com/mrops-br/product-catalog-api/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// ProductRepository is an in-memory implementation of domain.ProductRepository.
// Products are kept in insertion order. IDs come from a counter that only
// grows, so a deleted product's ID is never handed out again.
type ProductRepository struct {
	mu         sync.RWMutex
	products   []*domain.Product
	categories []*domain.Category
	lastID     int
	tracer     trace.Tracer
	logger     *slog.Logger
}

// NewProductRepository creates an empty repository with the given categories
func NewProductRepository(categories []*domain.Category, tracer trace.Tracer, logger *slog.Logger) *ProductRepository {
	cats := make([]*domain.Category, len(categories))
	for i, c := range categories {
		cc := *c
		cats[i] = &cc
	}
	return &ProductRepository{
		categories: cats,
		tracer:     tracer,
		logger:     logger,
	}
}

// NewSeededProductRepository creates a repository holding the demo catalog
func NewSeededProductRepository(tracer trace.Tracer, logger *slog.Logger) *ProductRepository {
	r := NewProductRepository(SeedCategories(), tracer, logger)
	for _, p := range SeedProducts() {
		r.lastID++
		p.ID = r.lastID
		r.products = append(r.products, p)
	}
	return r
}

// ListAll retrieves all products
func (r *ProductRepository) ListAll(ctx context.Context) ([]*domain.Product, error) {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.ListAll")
	defer span.End()

	r.mu.RLock()
	defer r.mu.RUnlock()

	products := make([]*domain.Product, 0, len(r.products))
	for _, p := range r.products {
		products = append(products, p.Clone())
	}

	span.SetAttributes(attribute.Int("product.count", len(products)))
	r.logger.DebugContext(ctx, "Products retrieved from repository",
		slog.Int("count", len(products)),
	)
	return products, nil
}

// ListActive retrieves the products flagged active
func (r *ProductRepository) ListActive(ctx context.Context) ([]*domain.Product, error) {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.ListActive")
	defer span.End()

	r.mu.RLock()
	defer r.mu.RUnlock()

	products := make([]*domain.Product, 0, len(r.products))
	for _, p := range r.products {
		if p.IsActive {
			products = append(products, p.Clone())
		}
	}

	span.SetAttributes(attribute.Int("product.count", len(products)))
	r.logger.DebugContext(ctx, "Active products retrieved from repository",
		slog.Int("count", len(products)),
	)
	return products, nil
}

// ListCategories retrieves all categories
func (r *ProductRepository) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	_, span := r.tracer.Start(ctx, "ProductRepository.ListCategories")
	defer span.End()

	r.mu.RLock()
	defer r.mu.RUnlock()

	categories := make([]*domain.Category, len(r.categories))
	for i, c := range r.categories {
		cc := *c
		categories[i] = &cc
	}
	span.SetAttributes(attribute.Int("category.count", len(categories)))
	return categories, nil
}

// FindByID retrieves a product by ID
func (r *ProductRepository) FindByID(ctx context.Context, id int) (*domain.Product, error) {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.FindByID")
	defer span.End()

	span.SetAttributes(attribute.Int("product.id", id))

	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexOf(id)
	if i < 0 {
		span.RecordError(domain.ErrProductNotFound)
		span.SetStatus(codes.Error, "Product not found")
		r.logger.WarnContext(ctx, "Product not found",
			slog.Int("product_id", id),
		)
		return nil, domain.ErrProductNotFound
	}

	span.SetStatus(codes.Ok, "Product found")
	return r.products[i].Clone(), nil
}

// Create assigns the next ID to product and stores a copy of it
func (r *ProductRepository) Create(ctx context.Context, product *domain.Product) error {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.Create")
	defer span.End()

	r.mu.Lock()
	defer r.mu.Unlock()

	r.lastID++
	product.ID = r.lastID
	r.products = append(r.products, product.Clone())

	span.SetAttributes(
		attribute.Int("product.id", product.ID),
		attribute.String("product.name", product.Name),
	)
	r.logger.InfoContext(ctx, "Product created in repository",
		slog.Int("product_id", product.ID),
		slog.String("product_name", product.Name),
	)

	span.SetStatus(codes.Ok, "Product created successfully")
	return nil
}

// Update replaces every field of the stored product with the same ID
func (r *ProductRepository) Update(ctx context.Context, product *domain.Product) error {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.Update")
	defer span.End()

	span.SetAttributes(attribute.Int("product.id", product.ID))

	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(product.ID)
	if i < 0 {
		span.RecordError(domain.ErrProductNotFound)
		span.SetStatus(codes.Error, "Product not found")
		r.logger.WarnContext(ctx, "Product not found for update",
			slog.Int("product_id", product.ID),
		)
		return domain.ErrProductNotFound
	}
	r.products[i] = product.Clone()

	r.logger.InfoContext(ctx, "Product updated in repository",
		slog.Int("product_id", product.ID),
	)
	span.SetStatus(codes.Ok, "Product updated successfully")
	return nil
}

// Delete removes the product with the given ID
func (r *ProductRepository) Delete(ctx context.Context, id int) error {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.Delete")
	defer span.End()

	span.SetAttributes(attribute.Int("product.id", id))

	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		span.RecordError(domain.ErrProductNotFound)
		span.SetStatus(codes.Error, "Product not found")
		r.logger.WarnContext(ctx, "Product not found for delete",
			slog.Int("product_id", id),
		)
		return domain.ErrProductNotFound
	}
	r.products = append(r.products[:i], r.products[i+1:]...)

	r.logger.InfoContext(ctx, "Product deleted from repository",
		slog.Int("product_id", id),
	)
	span.SetStatus(codes.Ok, "Product deleted successfully")
	return nil
}

// indexOf must be called with mu held
func (r *ProductRepository) indexOf(id int) int {
	for i, p := range r.products {
		if p.ID == id {
			return i
		}
	}
	return -1
}
