package memory

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"feed-service/internal/custom_errors"
	model "feed-service/internal/domain/models"
	ports "feed-service/internal/domain/ports/output"
)

type PostRepository struct {
	log   ports.Logger
	mu    sync.RWMutex
	posts map[string]*model.Post
	order []string
	now   func() time.Time
}

func NewPostRepository(log ports.Logger) *PostRepository {
	return &PostRepository{
		log:   log,
		posts: make(map[string]*model.Post),
		now:   time.Now,
	}
}

func (p *PostRepository) Create(ctx context.Context, post *model.Post) (*model.Post, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now().UTC()
	newPost := &model.Post{
		ID:        uuid.NewString(),
		Title:     post.Title,
		Content:   post.Content,
		ImageURL:  post.ImageURL,
		Creator:   post.Creator,
		CreatedAt: now,
		UpdatedAt: now,
	}

	p.posts[newPost.ID] = newPost
	p.order = append(p.order, newPost.ID)
	p.log.Debug("Post created in memory", slog.String("post_id", newPost.ID))

	result := *newPost
	return &result, nil
}

func (p *PostRepository) GetByID(ctx context.Context, id string) (*model.Post, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	post, exists := p.posts[id]
	if !exists {
		p.log.Debug("Post not found by id", slog.String("post_id", id))
		return nil, custom_errors.ErrPostNotFound
	}

	result := *post
	return &result, nil
}

func (p *PostRepository) List(ctx context.Context) ([]*model.Post, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	result := make([]*model.Post, 0, len(p.order))
	for _, id := range p.order {
		postCopy := *p.posts[id]
		result = append(result, &postCopy)
	}
	return result, nil
}

func (p *PostRepository) Update(ctx context.Context, id string, update *model.PostUpdate) (*model.Post, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	post, exists := p.posts[id]
	if !exists {
		p.log.Debug("Post not found by id during Update", slog.String("post_id", id))
		return nil, custom_errors.ErrPostNotFound
	}

	if update.Title != nil {
		post.Title = *update.Title
	}
	if update.Content != nil {
		post.Content = *update.Content
	}
	if update.ImageURL != nil {
		post.ImageURL = *update.ImageURL
	}

	updatedAt := p.now().UTC()
	if updatedAt.Before(post.CreatedAt) {
		updatedAt = post.CreatedAt
	}
	post.UpdatedAt = updatedAt

	result := *post
	return &result, nil
}
