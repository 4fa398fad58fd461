package domain

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestProductValidate(t *testing.T) {
	tests := []struct {
		name    string
		product Product
		wantErr error
	}{
		{"valid", Product{Name: "Dune", Price: 10, CategoryID: 2}, nil},
		{"missing name", Product{Price: 10, CategoryID: 2}, ErrInvalidProductName},
		{"zero price", Product{Name: "Dune", CategoryID: 2}, ErrInvalidProductPrice},
		{"negative price", Product{Name: "Dune", Price: -1, CategoryID: 2}, ErrInvalidProductPrice},
		{"infinite price", Product{Name: "Dune", Price: math.Inf(1), CategoryID: 2}, ErrInvalidProductPrice},
		{"NaN price", Product{Name: "Dune", Price: math.NaN(), CategoryID: 2}, ErrInvalidProductPrice},
		{"missing category", Product{Name: "Dune", Price: 10}, ErrInvalidProductCategory},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.product.Validate()
			if tc.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestProductClone(t *testing.T) {
	p := &Product{ID: 1, Name: "Dune", Price: 10, CategoryID: 2, Image: "a.png"}
	c := p.Clone()
	c.Name = "changed"

	require.Equal(t, "Dune", p.Name)
	require.Equal(t, p.ID, c.ID)
}

func TestIsValidation(t *testing.T) {
	require.True(t, IsValidation(&ValidationError{Fields: []FieldError{{Field: "name", Message: "name is required"}}}))
	require.True(t, IsValidation(fmt.Errorf("wrapped: %w", ErrImageTooLarge)))
	require.True(t, IsValidation(ErrInvalidCategoryFilter))
	require.False(t, IsValidation(ErrProductNotFound))
	require.False(t, IsValidation(ErrImageWriteFailed))
}

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{Fields: []FieldError{
		{Field: "name", Message: "name is required"},
		{Field: "price", Message: "price must be greater than 0"},
	}}
	require.Equal(t, "validation failed: name: name is required; price: price must be greater than 0", err.Error())
}
