package validation_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"feed-service/internal/application/validation"
	"feed-service/internal/custom_errors"
	model "feed-service/internal/domain/models"
)

func pngUpload() *model.ImageUpload {
	return &model.ImageUpload{Filename: "cat.png", ContentType: "image/png", Size: 4, Content: strings.NewReader("data")}
}

func fieldNames(t *testing.T, err error) []string {
	t.Helper()
	vErr, ok := custom_errors.AsValidationError(err)
	require.True(t, ok, "expected validation error, got %v", err)
	names := make([]string, 0, len(vErr.Fields))
	for _, f := range vErr.Fields {
		names = append(names, f.Field)
	}
	return names
}

func TestPostValidator_ValidateCreate(t *testing.T) {
	v := validation.NewPostValidator(validator.New())

	tests := []struct {
		name       string
		dto        *model.CreatePostDTO
		wantFields []string
	}{
		{
			name: "valid",
			dto:  &model.CreatePostDTO{Title: "First post", Content: "This is the first post", Image: pngUpload()},
		},
		{
			name:       "everything missing is reported at once",
			dto:        &model.CreatePostDTO{},
			wantFields: []string{"title", "content", "image"},
		},
		{
			name:       "title too short after trimming",
			dto:        &model.CreatePostDTO{Title: "  ab  ", Content: "This is the first post", Image: pngUpload()},
			wantFields: []string{"title"},
		},
		{
			name:       "content too long",
			dto:        &model.CreatePostDTO{Title: "First post", Content: strings.Repeat("x", 5001), Image: pngUpload()},
			wantFields: []string{"content"},
		},
		{
			name:       "missing image",
			dto:        &model.CreatePostDTO{Title: "First post", Content: "This is the first post"},
			wantFields: []string{"image"},
		},
		{
			name: "unsupported image type",
			dto: &model.CreatePostDTO{
				Title:   "First post",
				Content: "This is the first post",
				Image:   &model.ImageUpload{Filename: "doc.pdf", ContentType: "application/pdf"},
			},
			wantFields: []string{"image"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			title, content, err := v.ValidateCreate(tt.dto)
			if tt.wantFields == nil {
				require.NoError(t, err)
				assert.Equal(t, strings.TrimSpace(tt.dto.Title), title)
				assert.Equal(t, strings.TrimSpace(tt.dto.Content), content)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, custom_errors.ErrPostValidation))
			assert.ElementsMatch(t, tt.wantFields, fieldNames(t, err))
		})
	}
}

func TestPostValidator_ValidateUpdate(t *testing.T) {
	v := validation.NewPostValidator(validator.New())

	t.Run("existing reference is enough", func(t *testing.T) {
		title, _, err := v.ValidateUpdate(&model.UpdatePostDTO{
			Title:            " Edited title ",
			Content:          "Edited content",
			ExistingImageURL: "images/a.png",
		})
		require.NoError(t, err)
		assert.Equal(t, "Edited title", title)
	})

	t.Run("new upload is enough", func(t *testing.T) {
		_, _, err := v.ValidateUpdate(&model.UpdatePostDTO{Title: "Edited title", Content: "Edited content", Image: pngUpload()})
		require.NoError(t, err)
	})

	t.Run("neither upload nor reference", func(t *testing.T) {
		_, _, err := v.ValidateUpdate(&model.UpdatePostDTO{Title: "Edited title", Content: "Edited content"})
		require.Error(t, err)
		vErr, _ := custom_errors.AsValidationError(err)
		require.Len(t, vErr.Fields, 1)
		assert.Equal(t, custom_errors.FieldError{Field: "image", Message: "no file picked"}, vErr.Fields[0])
	})

	t.Run("title and image both invalid", func(t *testing.T) {
		_, _, err := v.ValidateUpdate(&model.UpdatePostDTO{Title: "", Content: "Edited content"})
		assert.ElementsMatch(t, []string{"title", "image"}, fieldNames(t, err))
	})
}
