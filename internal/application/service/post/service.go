package post_service

import (
	"context"
	"errors"
	"log/slog"

	"feed-service/internal/application/validation"
	"feed-service/internal/custom_errors"
	model "feed-service/internal/domain/models"
	ports "feed-service/internal/domain/ports/output"
	"feed-service/internal/domain/ports/output/asset"
	post_repository "feed-service/internal/domain/ports/output/post"
)

type PostService struct {
	postRepo       post_repository.Repository
	assets         asset.Store
	validator      *validation.PostValidator
	log            ports.Logger
	metrics        ports.MetricsProvider
	defaultCreator string
}

func NewPostService(
	postRepo post_repository.Repository,
	assets asset.Store,
	validator *validation.PostValidator,
	log ports.Logger,
	metrics ports.MetricsProvider,
	defaultCreator string,
) *PostService {
	return &PostService{
		postRepo:       postRepo,
		assets:         assets,
		validator:      validator,
		log:            log,
		metrics:        metrics,
		defaultCreator: defaultCreator,
	}
}

func (s *PostService) CreatePost(ctx context.Context, post *model.CreatePostDTO) (*model.Post, error) {
	title, content, err := s.validator.ValidateCreate(post)
	if err != nil {
		s.log.Debug("Create post rejected", slog.String("error", err.Error()))
		s.metrics.IncrementPostOperations("create", false)
		return nil, err
	}

	// Past validation every step runs to completion even if the caller goes away.
	ctx = context.WithoutCancel(ctx)

	imageURL, err := s.assets.Store(ctx, post.Image)
	if err != nil {
		s.log.Error("Failed to store image for new post", slog.String("error", err.Error()))
		s.metrics.IncrementPostOperations("create", false)
		return nil, err
	}

	created, err := s.postRepo.Create(ctx, &model.Post{
		Title:    title,
		Content:  content,
		ImageURL: imageURL,
		Creator:  model.Creator{Name: s.defaultCreator},
	})
	if err != nil {
		s.log.Error("Failed to create post, stored image is orphaned",
			slog.String("image_url", imageURL),
			slog.String("error", err.Error()))
		s.metrics.IncrementPostOperations("create", false)
		return nil, err
	}

	s.metrics.IncrementPostOperations("create", true)
	s.log.Info("Post created", slog.String("post_id", created.ID), slog.String("image_url", created.ImageURL))
	return created, nil
}

func (s *PostService) GetPostByID(ctx context.Context, id string) (*model.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, custom_errors.ErrPostNotFound):
			s.log.Debug("Post not found", slog.String("post_id", id))
		default:
			s.log.Error("Failed to get post by id", slog.String("post_id", id), slog.String("error", err.Error()))
		}
		s.metrics.IncrementPostOperations("get", false)
		return nil, err
	}

	s.metrics.IncrementPostOperations("get", true)
	return post, nil
}

func (s *PostService) ListPosts(ctx context.Context) ([]*model.Post, error) {
	posts, err := s.postRepo.List(ctx)
	if err != nil {
		s.log.Error("Failed to list posts", slog.String("error", err.Error()))
		s.metrics.IncrementPostOperations("list", false)
		return nil, err
	}

	s.metrics.IncrementPostOperations("list", true)
	return posts, nil
}

// UpdatePost deletes a superseded image only after the new state is saved.
func (s *PostService) UpdatePost(ctx context.Context, id string, post *model.UpdatePostDTO) (*model.Post, error) {
	title, content, err := s.validator.ValidateUpdate(post)
	if err != nil {
		s.log.Debug("Update post rejected", slog.String("post_id", id), slog.String("error", err.Error()))
		s.metrics.IncrementPostOperations("update", false)
		return nil, err
	}

	current, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, custom_errors.ErrPostNotFound) {
			s.log.Debug("Post not found for update", slog.String("post_id", id))
		} else {
			s.log.Error("Failed to load post for update", slog.String("post_id", id), slog.String("error", err.Error()))
		}
		s.metrics.IncrementPostOperations("update", false)
		return nil, err
	}

	if post.Image == nil {
		if err := s.checkExistingImage(ctx, current, post.ExistingImageURL); err != nil {
			s.log.Debug("Update post rejected", slog.String("post_id", id), slog.String("error", err.Error()))
			s.metrics.IncrementPostOperations("update", false)
			return nil, err
		}
	}

	ctx = context.WithoutCancel(ctx)

	update := &model.PostUpdate{Title: &title, Content: &content}
	if post.Image != nil {
		imageURL, err := s.assets.Store(ctx, post.Image)
		if err != nil {
			s.log.Error("Failed to store replacement image", slog.String("post_id", id), slog.String("error", err.Error()))
			s.metrics.IncrementPostOperations("update", false)
			return nil, err
		}
		update.ImageURL = &imageURL
	}

	updated, err := s.postRepo.Update(ctx, id, update)
	if err != nil {
		if update.ImageURL != nil {
			s.log.Error("Failed to update post, replacement image is orphaned",
				slog.String("post_id", id),
				slog.String("image_url", *update.ImageURL),
				slog.String("error", err.Error()))
		} else {
			s.log.Error("Failed to update post", slog.String("post_id", id), slog.String("error", err.Error()))
		}
		s.metrics.IncrementPostOperations("update", false)
		return nil, err
	}

	if updated.ImageURL != current.ImageURL {
		s.assets.Delete(ctx, current.ImageURL)
	}

	s.metrics.IncrementPostOperations("update", true)
	s.log.Info("Post updated", slog.String("post_id", id), slog.String("image_url", updated.ImageURL))
	return updated, nil
}

// checkExistingImage accepts a kept reference only when it is the post's
// current image and still present in the store.
func (s *PostService) checkExistingImage(ctx context.Context, current *model.Post, ref string) error {
	if ref != current.ImageURL {
		return custom_errors.NewValidationError(custom_errors.FieldError{
			Field:   "image",
			Message: "image does not match the post's current image",
		})
	}
	if !s.assets.Exists(ctx, ref) {
		return custom_errors.NewValidationError(custom_errors.FieldError{
			Field:   "image",
			Message: "image could not be found",
		})
	}
	return nil
}
