package post_http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	model "feed-service/internal/domain/models"
	post_service "feed-service/internal/domain/ports/input/post"
	ports "feed-service/internal/domain/ports/output"
)

const postIDParam = "postId"

type postResponse struct {
	Message string      `json:"message"`
	Post    *model.Post `json:"post"`
}

type postsResponse struct {
	Message string        `json:"message"`
	Posts   []*model.Post `json:"posts"`
}

type PostHTTPAPI struct {
	createPostHandler *CreatePostHandler
	getPostHandler    *GetPostHandler
	listPostsHandler  *ListPostsHandler
	updatePostHandler *UpdatePostHandler
}

func NewPostHTTPAPI(postService post_service.Service, maxUploadBytes int64, log ports.Logger) *PostHTTPAPI {
	return &PostHTTPAPI{
		createPostHandler: NewCreatePostHandler(postService, maxUploadBytes, log),
		getPostHandler:    NewGetPostHandler(postService, log),
		listPostsHandler:  NewListPostsHandler(postService, log),
		updatePostHandler: NewUpdatePostHandler(postService, maxUploadBytes, log),
	}
}

// Register mounts the feed routes on r.
func (a *PostHTTPAPI) Register(r chi.Router) {
	r.Route("/feed", func(r chi.Router) {
		r.Method(http.MethodGet, "/posts", a.listPostsHandler)
		r.Method(http.MethodPost, "/post", a.createPostHandler)
		r.Method(http.MethodGet, "/post/{"+postIDParam+"}", a.getPostHandler)
		r.Method(http.MethodPut, "/post/{"+postIDParam+"}", a.updatePostHandler)
	})
}
