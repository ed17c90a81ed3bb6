package model

type CreatePostDTO struct {
	Title   string
	Content string
	Image   *ImageUpload
}
