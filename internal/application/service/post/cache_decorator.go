package post_service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"feed-service/internal/custom_errors"
	model "feed-service/internal/domain/models"
	post_service "feed-service/internal/domain/ports/input/post"
	output "feed-service/internal/domain/ports/output"
	"feed-service/internal/domain/ports/output/cache"
)

type PostServiceCacheDecorator struct {
	service   post_service.Service
	postCache cache.PostCache
	log       output.Logger
	metrics   output.MetricsProvider
}

func NewPostServiceCacheDecorator(
	service post_service.Service,
	postCache cache.PostCache,
	log output.Logger,
	metrics output.MetricsProvider,
) post_service.Service {
	return &PostServiceCacheDecorator{
		service:   service,
		postCache: postCache,
		log:       log,
		metrics:   metrics,
	}
}

func (d *PostServiceCacheDecorator) CreatePost(ctx context.Context, post *model.CreatePostDTO) (*model.Post, error) {
	result, err := d.service.CreatePost(ctx, post)
	if err != nil {
		return nil, err
	}

	// The post exists once the service returns, whether or not the caller is still there.
	d.setPost(context.WithoutCancel(ctx), result)
	return result, nil
}

func (d *PostServiceCacheDecorator) GetPostByID(ctx context.Context, id string) (*model.Post, error) {
	d.log.Debug("Getting post by ID with cache decorator", slog.String("post_id", id))

	cacheStart := time.Now()
	cachedPost, err := d.postCache.GetPost(ctx, id)
	d.metrics.RecordCacheOperationDuration("post_get", time.Since(cacheStart))
	if err == nil {
		d.log.Debug("Post found in cache", slog.String("post_id", id))
		d.metrics.IncrementCacheHits()
		return cachedPost, nil
	}

	if !errors.Is(err, custom_errors.ErrCacheMiss) {
		d.log.Warn("Failed to get post from cache",
			slog.String("post_id", id),
			slog.String("error", err.Error()))
	} else {
		d.metrics.IncrementCacheMisses()
	}

	d.log.Debug("Post cache miss, fetching from service", slog.String("post_id", id))
	post, err := d.service.GetPostByID(ctx, id)
	if err != nil {
		return nil, err
	}

	d.setPost(ctx, post)
	return post, nil
}

func (d *PostServiceCacheDecorator) ListPosts(ctx context.Context) ([]*model.Post, error) {
	return d.service.ListPosts(ctx)
}

func (d *PostServiceCacheDecorator) UpdatePost(ctx context.Context, id string, post *model.UpdatePostDTO) (*model.Post, error) {
	result, err := d.service.UpdatePost(ctx, id, post)
	if err != nil {
		return nil, err
	}

	// The superseded image is already deleted; the entry is dropped even when
	// the caller has gone away, and the next read loads the stored post.
	d.invalidate(context.WithoutCancel(ctx), result.ID)
	return result, nil
}

// setPost overwrites the cached entry. Failures are logged only.
func (d *PostServiceCacheDecorator) setPost(ctx context.Context, post *model.Post) {
	start := time.Now()
	err := d.postCache.SetPost(ctx, post)
	d.metrics.RecordCacheOperationDuration("post_set", time.Since(start))
	if err == nil {
		return
	}

	d.log.Warn("Failed to cache post",
		slog.String("post_id", post.ID),
		slog.String("error", err.Error()))

	// A stale entry must not survive a failed refresh.
	d.invalidate(ctx, post.ID)
}

func (d *PostServiceCacheDecorator) invalidate(ctx context.Context, postID string) {
	start := time.Now()
	err := d.postCache.DeletePost(ctx, postID)
	d.metrics.RecordCacheOperationDuration("post_delete", time.Since(start))
	if err != nil {
		d.log.Warn("Failed to invalidate post cache",
			slog.String("post_id", postID),
			slog.String("error", err.Error()))
	}
}
