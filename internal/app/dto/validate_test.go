package dto

import (
	"testing"

	"github.com/mrops-br/product-catalog-api/internal/domain"
	"github.com/stretchr/testify/require"
)

func TestValidate_ProductRequest(t *testing.T) {
	require.NoError(t, Validate(&ProductRequest{Name: "Dune", Price: 1, CategoryID: 2}))

	err := Validate(&ProductRequest{})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)

	fields := map[string]string{}
	for _, f := range ve.Fields {
		fields[f.Field] = f.Message
	}
	require.Equal(t, map[string]string{
		"name":        "name is required",
		"price":       "price must be greater than 0",
		"category_id": "category_id must be greater than 0",
	}, fields)
}

func TestToProductResponse(t *testing.T) {
	p := &domain.Product{ID: 3, Name: "Emma", Price: 8, CategoryID: 1, Image: "abc.png"}

	resp := ToProductResponse(p, "/img/")
	require.Equal(t, "/img/abc.png", resp.ImageURL)

	p.Image = ""
	require.Empty(t, ToProductResponse(p, "/img").ImageURL)
}
