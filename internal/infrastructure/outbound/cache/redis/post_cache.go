package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"feed-service/internal/custom_errors"
	model "feed-service/internal/domain/models"
	ports "feed-service/internal/domain/ports/output"
)

const postCacheKeyPrefix = "feed:post:"

type PostCache struct {
	client  *Client
	log     ports.Logger
	metrics ports.MetricsProvider
	ttl     time.Duration
}

func NewPostCache(client *Client, ttl time.Duration, log ports.Logger, metrics ports.MetricsProvider) *PostCache {
	return &PostCache{
		client:  client,
		log:     log,
		metrics: metrics,
		ttl:     ttl,
	}
}

func (p *PostCache) GetPost(ctx context.Context, postID string) (*model.Post, error) {
	start := time.Now()
	defer func() { p.metrics.RecordCacheOperationDuration("redis_get", time.Since(start)) }()

	var post model.Post
	if err := p.client.Get(ctx, postKey(postID), &post); err != nil {
		if errors.Is(err, custom_errors.ErrCacheMiss) {
			p.log.Debug("Post cache miss", slog.String("post_id", postID))
			return nil, custom_errors.ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to get post from cache: %w", err)
	}

	p.log.Debug("Post cache hit", slog.String("post_id", postID))
	return &post, nil
}

func (p *PostCache) SetPost(ctx context.Context, post *model.Post) error {
	if post == nil {
		return fmt.Errorf("post cannot be nil")
	}

	start := time.Now()
	defer func() { p.metrics.RecordCacheOperationDuration("redis_set", time.Since(start)) }()

	if err := p.client.Set(ctx, postKey(post.ID), post, p.ttl); err != nil {
		return fmt.Errorf("failed to set post cache: %w", err)
	}

	p.log.Debug("Post cached successfully",
		slog.String("post_id", post.ID),
		slog.Duration("ttl", p.ttl))
	return nil
}

func (p *PostCache) DeletePost(ctx context.Context, postID string) error {
	start := time.Now()
	defer func() { p.metrics.RecordCacheOperationDuration("redis_delete", time.Since(start)) }()

	if err := p.client.Delete(ctx, postKey(postID)); err != nil {
		return fmt.Errorf("failed to delete post from cache: %w", err)
	}

	p.log.Debug("Post deleted from cache", slog.String("post_id", postID))
	return nil
}

func postKey(postID string) string {
	return postCacheKeyPrefix + postID
}
