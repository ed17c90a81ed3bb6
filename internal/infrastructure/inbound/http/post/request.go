package post_http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"feed-service/internal/custom_errors"
	model "feed-service/internal/domain/models"
)

const imageField = "image"

// postForm is a decoded create or update request. Close releases the
// uploaded file and any temp files the multipart reader spilled to disk.
type postForm struct {
	Title            string
	Content          string
	Image            *model.ImageUpload
	ExistingImageURL string

	file multipart.File
	form *multipart.Form
}

func (f *postForm) Close() {
	if f.file != nil {
		_ = f.file.Close()
	}
	if f.form != nil {
		_ = f.form.RemoveAll()
	}
}

type jsonPostBody struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Image   string `json:"image"`
}

// readPostForm accepts multipart/form-data and, when allowJSON is set,
// application/json bodies that keep the current image.
func readPostForm(w http.ResponseWriter, r *http.Request, maxBytes int64, allowJSON bool) (*postForm, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	if allowJSON && strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var body jsonPostBody
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			return nil, bodyError(err, maxBytes)
		}
		return &postForm{Title: body.Title, Content: body.Content, ExistingImageURL: body.Image}, nil
	}

	if err := r.ParseMultipartForm(maxBytes); err != nil {
		return nil, bodyError(err, maxBytes)
	}

	form := &postForm{
		Title:            r.FormValue("title"),
		Content:          r.FormValue("content"),
		ExistingImageURL: r.FormValue(imageField),
		form:             r.MultipartForm,
	}

	file, header, err := r.FormFile(imageField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return form, nil
		}
		form.Close()
		return nil, bodyError(err, maxBytes)
	}
	form.file = file

	detected, err := mimetype.DetectReader(file)
	if err == nil {
		_, err = file.Seek(0, io.SeekStart)
	}
	if err != nil {
		form.Close()
		return nil, custom_errors.NewValidationError(custom_errors.FieldError{
			Field:   imageField,
			Message: "image could not be read",
		})
	}

	form.Image = &model.ImageUpload{
		Filename:    header.Filename,
		ContentType: detected.String(),
		Size:        header.Size,
		Content:     file,
	}
	return form, nil
}

func bodyError(err error, maxBytes int64) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return custom_errors.NewValidationError(custom_errors.FieldError{
			Field:   imageField,
			Message: fmt.Sprintf("request body exceeds %d bytes", maxBytes),
		})
	}
	return custom_errors.NewValidationError(custom_errors.FieldError{
		Field:   "request",
		Message: "malformed request body",
	})
}
