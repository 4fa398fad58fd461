package domain

import (
	"context"
	"errors"
	"io"
)

var (
	ErrProductNotFound = errors.New("product not found")
)

// ProductRepository defines the contract for product storage
type ProductRepository interface {
	ListAll(ctx context.Context) ([]*Product, error)
	ListActive(ctx context.Context) ([]*Product, error)
	ListCategories(ctx context.Context) ([]*Category, error)
	FindByID(ctx context.Context, id int) (*Product, error)
	// Create assigns the product's ID and appends it.
	Create(ctx context.Context, product *Product) error
	Update(ctx context.Context, product *Product) error
	Delete(ctx context.Context, id int) error
}

// ImageStore persists uploaded image bytes under a generated name
type ImageStore interface {
	Save(ctx context.Context, name string, content io.Reader) error
	Remove(ctx context.Context, name string) error
}
