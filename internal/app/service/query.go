package service

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mrops-br/product-catalog-api/internal/domain"
	"golang.org/x/text/cases"
)

// AllCategories is the category selector that disables category filtering
const AllCategories = "0"

// FilterProducts keeps the products whose name contains search (ignoring
// case) and whose category matches the category selector. An empty search
// or a selector of "" or "0" does not filter. The input slice is not
// modified and order is preserved.
func FilterProducts(products []*domain.Product, search, category string) ([]*domain.Product, error) {
	result := products
	filtered := false

	if search != "" {
		fold := cases.Fold()
		needle := fold.String(search)
		matched := make([]*domain.Product, 0, len(result))
		for _, p := range result {
			if strings.Contains(fold.String(p.Name), needle) {
				matched = append(matched, p)
			}
		}
		result = matched
		filtered = true
	}

	category = strings.TrimSpace(category)
	if category != "" && category != AllCategories {
		id, err := strconv.Atoi(category)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", domain.ErrInvalidCategoryFilter, category)
		}
		matched := make([]*domain.Product, 0, len(result))
		for _, p := range result {
			if p.CategoryID == id {
				matched = append(matched, p)
			}
		}
		result = matched
		filtered = true
	}

	if !filtered {
		out := make([]*domain.Product, len(products))
		copy(out, products)
		return out, nil
	}
	return result, nil
}
