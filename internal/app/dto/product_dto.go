package dto

import (
	"strings"

	"github.com/mrops-br/product-catalog-api/internal/domain"
)

// ProductRequest carries the editable fields of a product
type ProductRequest struct {
	Name       string  `json:"name" validate:"required,max=200"`
	Price      float64 `json:"price" validate:"gt=0"`
	CategoryID int     `json:"category_id" validate:"gt=0"`
	IsActive   bool    `json:"is_active"`
}

// ToProduct builds a domain product from the request. Image and ID are
// filled in by the service.
func (r *ProductRequest) ToProduct() *domain.Product {
	return &domain.Product{
		Name:       strings.TrimSpace(r.Name),
		Price:      r.Price,
		CategoryID: r.CategoryID,
		IsActive:   r.IsActive,
	}
}

// ProductResponse represents the product response
type ProductResponse struct {
	ID         int     `json:"id"`
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	CategoryID int     `json:"category_id"`
	Image      string  `json:"image,omitempty"`
	ImageURL   string  `json:"image_url,omitempty"`
	IsActive   bool    `json:"is_active"`
}

// CategoryResponse represents the category response
type CategoryResponse struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// CatalogResponse is a filtered listing together with what is needed to
// render its filter controls.
type CatalogResponse struct {
	Products         []*ProductResponse  `json:"products"`
	Categories       []*CategoryResponse `json:"categories"`
	SelectedCategory string              `json:"selected_category"`
	Search           string              `json:"search"`
}

// ToProductResponse converts a domain Product to ProductResponse.
// imagePrefix is prepended to the stored image name to form image_url.
func ToProductResponse(p *domain.Product, imagePrefix string) *ProductResponse {
	resp := &ProductResponse{
		ID:         p.ID,
		Name:       p.Name,
		Price:      p.Price,
		CategoryID: p.CategoryID,
		Image:      p.Image,
		IsActive:   p.IsActive,
	}
	if p.Image != "" {
		resp.ImageURL = strings.TrimSuffix(imagePrefix, "/") + "/" + p.Image
	}
	return resp
}

// ToProductResponseList converts a list of domain Products to ProductResponse list
func ToProductResponseList(products []*domain.Product, imagePrefix string) []*ProductResponse {
	responses := make([]*ProductResponse, len(products))
	for i, p := range products {
		responses[i] = ToProductResponse(p, imagePrefix)
	}
	return responses
}

// ToCategoryResponseList converts domain categories to responses
func ToCategoryResponseList(categories []*domain.Category) []*CategoryResponse {
	responses := make([]*CategoryResponse, len(categories))
	for i, c := range categories {
		responses[i] = &CategoryResponse{ID: c.ID, Name: c.Name}
	}
	return responses
}
