package post_http

import (
	"context"
	"net/http"

	model "feed-service/internal/domain/models"
	ports "feed-service/internal/domain/ports/output"
	"feed-service/internal/infrastructure/inbound/http/apierror"
)

type PostLister interface {
	ListPosts(ctx context.Context) ([]*model.Post, error)
}

type ListPostsHandler struct {
	postService PostLister
	log         ports.Logger
}

func NewListPostsHandler(postService PostLister, log ports.Logger) *ListPostsHandler {
	return &ListPostsHandler{postService: postService, log: log}
}

func (h *ListPostsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	posts, err := h.postService.ListPosts(r.Context())
	if err != nil {
		apierror.WriteError(w, h.log, err)
		return
	}
	if posts == nil {
		posts = []*model.Post{}
	}

	apierror.WriteJSON(w, h.log, http.StatusOK, postsResponse{
		Message: "Fetched posts successfully.",
		Posts:   posts,
	})
}
