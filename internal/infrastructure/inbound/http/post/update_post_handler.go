package post_http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	model "feed-service/internal/domain/models"
	ports "feed-service/internal/domain/ports/output"
	"feed-service/internal/infrastructure/inbound/http/apierror"
)

type PostUpdater interface {
	UpdatePost(ctx context.Context, id string, post *model.UpdatePostDTO) (*model.Post, error)
}

type UpdatePostHandler struct {
	postService    PostUpdater
	maxUploadBytes int64
	log            ports.Logger
}

func NewUpdatePostHandler(postService PostUpdater, maxUploadBytes int64, log ports.Logger) *UpdatePostHandler {
	return &UpdatePostHandler{
		postService:    postService,
		maxUploadBytes: maxUploadBytes,
		log:            log,
	}
}

func (h *UpdatePostHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, postIDParam)

	form, err := readPostForm(w, r, h.maxUploadBytes, true)
	if err != nil {
		apierror.WriteError(w, h.log, err)
		return
	}
	defer form.Close()

	h.log.Debug("Handling UpdatePost request",
		slog.String("post_id", postID),
		slog.Bool("has_new_image", form.Image != nil),
		slog.String("existing_image", form.ExistingImageURL))

	post, err := h.postService.UpdatePost(r.Context(), postID, &model.UpdatePostDTO{
		Title:            form.Title,
		Content:          form.Content,
		Image:            form.Image,
		ExistingImageURL: form.ExistingImageURL,
	})
	if err != nil {
		apierror.WriteError(w, h.log, err)
		return
	}

	apierror.WriteJSON(w, h.log, http.StatusOK, postResponse{
		Message: "Post updated",
		Post:    post,
	})
}
