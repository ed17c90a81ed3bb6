package model

type UpdatePostDTO struct {
	Title   string
	Content string
	Image   *ImageUpload
	// ExistingImageURL is the reference the client keeps when no new file is sent.
	ExistingImageURL string
}

// HasImage reports whether the request carries a new file or an existing reference.
func (d *UpdatePostDTO) HasImage() bool {
	return d.Image != nil || d.ExistingImageURL != ""
}
