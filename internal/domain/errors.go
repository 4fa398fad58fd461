package domain

import (
	"errors"
	"strings"
)

var (
	// Image ingestion failures. The first three are rejected before any I/O.
	ErrImageRequired    = errors.New("image required")
	ErrImageTooLarge    = errors.New("image too large")
	ErrInvalidImageType = errors.New("invalid image type")
	ErrImageWriteFailed = errors.New("write failed")

	ErrInvalidCategoryFilter = errors.New("invalid category filter")
	ErrInvalidView           = errors.New("invalid product view")
)

// FieldError describes one rejected request field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError collects field level failures for a request
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// IsValidation reports whether err should be surfaced to the caller as a
// validation failure of its input.
func IsValidation(err error) bool {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return true
	}
	switch {
	case errors.Is(err, ErrImageRequired),
		errors.Is(err, ErrImageTooLarge),
		errors.Is(err, ErrInvalidImageType),
		errors.Is(err, ErrInvalidCategoryFilter),
		errors.Is(err, ErrInvalidView),
		errors.Is(err, ErrInvalidProductName),
		errors.Is(err, ErrInvalidProductPrice),
		errors.Is(err, ErrInvalidProductCategory):
		return true
	}
	return false
}
