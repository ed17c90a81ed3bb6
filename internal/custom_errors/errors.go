package custom_errors

import (
	"errors"
	"strings"
)

var (
	ErrPostNotFound   = errors.New("could not find post")
	ErrPostValidation = errors.New("validation failed, entered data is incorrect")

	ErrDatabaseQuery       = errors.New("database query failed")
	ErrDatabaseScan        = errors.New("database scan failed")
	ErrDatabaseUnavailable = errors.New("database unavailable")

	ErrAssetWrite = errors.New("failed to store image")

	ErrCacheMiss = errors.New("cache miss")
)

// FieldError describes one violated constraint of an input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists every violated constraint of a request.
type ValidationError struct {
	Fields []FieldError
}

func NewValidationError(fields ...FieldError) *ValidationError {
	return &ValidationError{Fields: fields}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrPostValidation.Error()
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return ErrPostValidation.Error() + " (" + strings.Join(parts, "; ") + ")"
}

func (e *ValidationError) Unwrap() error {
	return ErrPostValidation
}

// AsValidationError returns the field list carried by err, if any.
func AsValidationError(err error) (*ValidationError, bool) {
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return vErr, true
	}
	return nil, false
}
