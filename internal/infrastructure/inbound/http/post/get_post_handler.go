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

type PostGetter interface {
	GetPostByID(ctx context.Context, id string) (*model.Post, error)
}

type GetPostHandler struct {
	postService PostGetter
	log         ports.Logger
}

func NewGetPostHandler(postService PostGetter, log ports.Logger) *GetPostHandler {
	return &GetPostHandler{postService: postService, log: log}
}

func (h *GetPostHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, postIDParam)
	h.log.Debug("Handling GetPost request", slog.String("post_id", postID))

	post, err := h.postService.GetPostByID(r.Context(), postID)
	if err != nil {
		apierror.WriteError(w, h.log, err)
		return
	}

	apierror.WriteJSON(w, h.log, http.StatusOK, postResponse{
		Message: "Post fetched",
		Post:    post,
	})
}
