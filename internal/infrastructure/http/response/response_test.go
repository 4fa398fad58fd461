package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mrops-br/product-catalog-api/internal/domain"
	"github.com/stretchr/testify/require"
)

func TestErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
		wantFields bool
	}{
		{"not found", domain.ErrProductNotFound, http.StatusNotFound, "not_found", false},
		{"wrapped not found", fmt.Errorf("update: %w", domain.ErrProductNotFound), http.StatusNotFound, "not_found", false},
		{
			"validation fields",
			&domain.ValidationError{Fields: []domain.FieldError{{Field: "name", Message: "name is required"}}},
			http.StatusBadRequest, "bad_request", true,
		},
		{"image too large", fmt.Errorf("ingest: %w", domain.ErrImageTooLarge), http.StatusBadRequest, "bad_request", false},
		{"invalid category filter", fmt.Errorf("%w: %q", domain.ErrInvalidCategoryFilter, "books"), http.StatusBadRequest, "bad_request", false},
		{"write failed", fmt.Errorf("%w: %w", domain.ErrImageWriteFailed, io.ErrShortWrite), http.StatusInternalServerError, "internal_server_error", false},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "internal_server_error", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			Error(w, StatusFor(tc.err), tc.err)

			require.Equal(t, tc.wantStatus, w.Code)
			var resp ErrorResponse
			require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
			require.Equal(t, tc.wantType, resp.Error)
			require.Equal(t, tc.err.Error(), resp.Message)
			if tc.wantFields {
				require.NotEmpty(t, resp.Fields)
			} else {
				require.Empty(t, resp.Fields)
			}
		})
	}
}

func TestJSON_UnencodableDataIsServerError(t *testing.T) {
	w := httptest.NewRecorder()
	JSON(w, http.StatusOK, map[string]float64{"price": math.Inf(1)})

	require.Equal(t, http.StatusInternalServerError, w.Code)
	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.Equal(t, "internal_server_error", resp.Error)
}
