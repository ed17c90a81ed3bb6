package model

import "io"

// ImageUpload is a binary file attached to a create or update request.
type ImageUpload struct {
	Filename    string
	ContentType string
	// Size is the declared length; zero when unknown.
	Size        int64
	Content     io.Reader
}
