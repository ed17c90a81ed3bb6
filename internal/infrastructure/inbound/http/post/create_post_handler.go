package post_http

import (
	"context"
	"log/slog"
	"net/http"

	model "feed-service/internal/domain/models"
	ports "feed-service/internal/domain/ports/output"
	"feed-service/internal/infrastructure/inbound/http/apierror"
)

type PostCreator interface {
	CreatePost(ctx context.Context, post *model.CreatePostDTO) (*model.Post, error)
}

type CreatePostHandler struct {
	postService    PostCreator
	maxUploadBytes int64
	log            ports.Logger
}

func NewCreatePostHandler(postService PostCreator, maxUploadBytes int64, log ports.Logger) *CreatePostHandler {
	return &CreatePostHandler{
		postService:    postService,
		maxUploadBytes: maxUploadBytes,
		log:            log,
	}
}

func (h *CreatePostHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	form, err := readPostForm(w, r, h.maxUploadBytes, false)
	if err != nil {
		apierror.WriteError(w, h.log, err)
		return
	}
	defer form.Close()

	h.log.Debug("Handling CreatePost request",
		slog.String("title", form.Title),
		slog.Bool("has_image", form.Image != nil))

	post, err := h.postService.CreatePost(r.Context(), &model.CreatePostDTO{
		Title:   form.Title,
		Content: form.Content,
		Image:   form.Image,
	})
	if err != nil {
		apierror.WriteError(w, h.log, err)
		return
	}

	apierror.WriteJSON(w, h.log, http.StatusCreated, postResponse{
		Message: "Post created successfully!",
		Post:    post,
	})
}
