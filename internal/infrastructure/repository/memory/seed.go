package memory

import "github.com/mrops-br/product-catalog-api/internal/domain"

// SeedCategories returns the fixed category list
func SeedCategories() []*domain.Category {
	return []*domain.Category{
		{ID: 1, Name: "Fiction"},
		{ID: 2, Name: "Science Fiction"},
		{ID: 3, Name: "History"},
		{ID: 4, Name: "Children"},
	}
}

// SeedProducts returns the demo catalog. IDs are assigned on load.
func SeedProducts() []*domain.Product {
	return []*domain.Product{
		{Name: "Dune", Price: 18.50, CategoryID: 2, Image: "1.jpg", IsActive: true},
		{Name: "Foundation", Price: 14.90, CategoryID: 2, Image: "2.jpg", IsActive: true},
		{Name: "The Left Hand of Darkness", Price: 12.00, CategoryID: 2, Image: "3.jpg", IsActive: false},
		{Name: "Crime and Punishment", Price: 11.25, CategoryID: 1, Image: "4.jpg", IsActive: true},
		{Name: "The Silk Roads", Price: 21.00, CategoryID: 3, Image: "5.jpg", IsActive: true},
		{Name: "SPQR", Price: 19.75, CategoryID: 3, Image: "6.jpg", IsActive: false},
		{Name: "The Little Prince", Price: 8.40, CategoryID: 4, Image: "7.jpg", IsActive: true},
	}
}
