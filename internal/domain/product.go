package domain

import (
	"errors"
	"math"
)

var (
	ErrInvalidProductName     = errors.New("product name is required")
	ErrInvalidProductPrice    = errors.New("product price must be a positive finite number")
	ErrInvalidProductCategory = errors.New("product category is required")
)

// Product represents a catalog item
type Product struct {
	ID         int
	Name       string
	Price      float64
	CategoryID int
	Image      string
	IsActive   bool
}

// Category groups products. Categories are read-only seed data.
type Category struct {
	ID   int
	Name string
}

// Validate performs business validation on the product
func (p *Product) Validate() error {
	if p.Name == "" {
		return ErrInvalidProductName
	}
	if !(p.Price > 0) || math.IsInf(p.Price, 0) {
		return ErrInvalidProductPrice
	}
	if p.CategoryID <= 0 {
		return ErrInvalidProductCategory
	}
	return nil
}

// Clone returns a copy that shares no state with p
func (p *Product) Clone() *Product {
	c := *p
	return &c
}

// View selects the base sequence a catalog query runs over
type View string

const (
	// ViewAll is every product, used by the back office listing
	ViewAll View = "all"
	// ViewActive is the shop front: active products only
	ViewActive View = "active"
)

// Valid reports whether v names a known view
func (v View) Valid() bool {
	return v == ViewAll || v == ViewActive
}
