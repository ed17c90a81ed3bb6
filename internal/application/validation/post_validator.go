package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"feed-service/internal/custom_errors"
	model "feed-service/internal/domain/models"
)

var allowedImageTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/jpg":  true,
}

type postFields struct {
	Title   string `json:"title" validate:"required,min=5,max=100"`
	Content string `json:"content" validate:"required,min=5,max=5000"`
	Image   bool   `json:"image" validate:"required"`
}

// PostValidator checks post input shape. It never touches storage.
type PostValidator struct {
	validate *validator.Validate
}

func NewPostValidator(validate *validator.Validate) *PostValidator {
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &PostValidator{validate: validate}
}

// ValidateCreate returns the trimmed title and content, or a
// *custom_errors.ValidationError listing every violated constraint.
func (v *PostValidator) ValidateCreate(dto *model.CreatePostDTO) (string, string, error) {
	fields := postFields{
		Title:   strings.TrimSpace(dto.Title),
		Content: strings.TrimSpace(dto.Content),
		Image:   dto.Image != nil,
	}
	violations := v.check(fields, "no image provided")
	violations = append(violations, checkImageType(dto.Image)...)
	if len(violations) > 0 {
		return "", "", custom_errors.NewValidationError(violations...)
	}
	return fields.Title, fields.Content, nil
}

func (v *PostValidator) ValidateUpdate(dto *model.UpdatePostDTO) (string, string, error) {
	fields := postFields{
		Title:   strings.TrimSpace(dto.Title),
		Content: strings.TrimSpace(dto.Content),
		Image:   dto.HasImage(),
	}
	violations := v.check(fields, "no file picked")
	violations = append(violations, checkImageType(dto.Image)...)
	if len(violations) > 0 {
		return "", "", custom_errors.NewValidationError(violations...)
	}
	return fields.Title, fields.Content, nil
}

func (v *PostValidator) check(fields postFields, missingImage string) []custom_errors.FieldError {
	err := v.validate.Struct(fields)
	if err == nil {
		return nil
	}

	var vErrs validator.ValidationErrors
	if !errors.As(err, &vErrs) {
		return []custom_errors.FieldError{{Field: "request", Message: err.Error()}}
	}

	violations := make([]custom_errors.FieldError, 0, len(vErrs))
	for _, fe := range vErrs {
		msg := message(fe)
		if fe.Field() == "image" {
			msg = missingImage
		}
		violations = append(violations, custom_errors.FieldError{Field: fe.Field(), Message: msg})
	}
	return violations
}

func checkImageType(img *model.ImageUpload) []custom_errors.FieldError {
	if img == nil || allowedImageTypes[img.ContentType] {
		return nil
	}
	return []custom_errors.FieldError{{
		Field:   "image",
		Message: fmt.Sprintf("unsupported image type %q, expected png or jpeg", img.ContentType),
	}}
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
