package custom_errors_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"feed-service/internal/custom_errors"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want custom_errors.Kind
	}{
		{"validation", custom_errors.NewValidationError(custom_errors.FieldError{Field: "title", Message: "title is required"}), custom_errors.KindValidation},
		{"validation sentinel", custom_errors.ErrPostValidation, custom_errors.KindValidation},
		{"not found", custom_errors.ErrPostNotFound, custom_errors.KindNotFound},
		{"wrapped not found", fmt.Errorf("get post: %w", custom_errors.ErrPostNotFound), custom_errors.KindNotFound},
		{"asset write", custom_errors.ErrAssetWrite, custom_errors.KindStorage},
		{"db query", custom_errors.ErrDatabaseQuery, custom_errors.KindPersistence},
		{"db scan", custom_errors.ErrDatabaseScan, custom_errors.KindPersistence},
		{"db unavailable", custom_errors.ErrDatabaseUnavailable, custom_errors.KindPersistence},
		{"unknown", errors.New("boom"), custom_errors.KindUnclassified},
		{"nil", nil, custom_errors.KindUnclassified},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, custom_errors.KindOf(tt.err))
		})
	}
}

func TestPublicMessage(t *testing.T) {
	t.Run("unclassified hides detail", func(t *testing.T) {
		msg := custom_errors.PublicMessage(errors.New("pq: connection refused at 10.0.0.3"))
		assert.Equal(t, "an internal error occurred", msg)
	})

	t.Run("persistence exposes sentinel only", func(t *testing.T) {
		err := fmt.Errorf("%w: dial tcp 10.0.0.3:5432", custom_errors.ErrDatabaseQuery)
		assert.Equal(t, custom_errors.ErrDatabaseQuery.Error(), custom_errors.PublicMessage(err))
	})

	t.Run("storage", func(t *testing.T) {
		assert.Equal(t, custom_errors.ErrAssetWrite.Error(), custom_errors.PublicMessage(custom_errors.ErrAssetWrite))
	})

	t.Run("not found", func(t *testing.T) {
		assert.Equal(t, "could not find post", custom_errors.PublicMessage(custom_errors.ErrPostNotFound))
	})
}

func TestValidationError(t *testing.T) {
	err := custom_errors.NewValidationError(
		custom_errors.FieldError{Field: "title", Message: "title is required"},
		custom_errors.FieldError{Field: "image", Message: "no image provided"},
	)

	assert.True(t, errors.Is(err, custom_errors.ErrPostValidation))
	assert.Contains(t, err.Error(), "title: title is required")
	assert.Contains(t, err.Error(), "image: no image provided")

	vErr, ok := custom_errors.AsValidationError(fmt.Errorf("create: %w", err))
	assert.True(t, ok)
	assert.Len(t, vErr.Fields, 2)

	_, ok = custom_errors.AsValidationError(custom_errors.ErrPostNotFound)
	assert.False(t, ok)
}
