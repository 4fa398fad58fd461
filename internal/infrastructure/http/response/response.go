package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mrops-br/product-catalog-api/internal/domain"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string              `json:"error"`
	Message string              `json:"message"`
	Fields  []domain.FieldError `json:"fields,omitempty"`
}

// JSON sends a JSON response. Data that cannot be encoded becomes a 500.
func JSON(w http.ResponseWriter, status int, data interface{}) {
	body, err := json.Marshal(data)
	if err != nil {
		body = []byte(`{"error":"internal_server_error","message":"response encoding failed"}`)
		status = http.StatusInternalServerError
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}

// NoContent sends an empty response
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// Error sends an error response. Field level details of a
// *domain.ValidationError are included.
func Error(w http.ResponseWriter, status int, err error) {
	errorType := "error"
	switch status {
	case http.StatusNotFound:
		errorType = "not_found"
	case http.StatusBadRequest:
		errorType = "bad_request"
	case http.StatusTooManyRequests:
		errorType = "too_many_requests"
	case http.StatusInternalServerError:
		errorType = "internal_server_error"
	}

	resp := ErrorResponse{
		Error:   errorType,
		Message: err.Error(),
	}
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		resp.Fields = ve.Fields
	}

	JSON(w, status, resp)
}

// StatusFor maps a catalog error to its HTTP status code
func StatusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrProductNotFound):
		return http.StatusNotFound
	case domain.IsValidation(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
