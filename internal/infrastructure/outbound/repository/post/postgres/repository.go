package post_repository_postgres

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"feed-service/internal/custom_errors"
	model "feed-service/internal/domain/models"
	ports "feed-service/internal/domain/ports/output"
	"feed-service/internal/infrastructure/outbound/repository/postgres/db"
)

const postColumns = `id, title, content, image_url, creator_name, created_at, updated_at`

type PostRepository struct {
	log     ports.Logger
	db      db.PgDB
	metrics ports.MetricsProvider
}

func NewPostRepository(db db.PgDB, log ports.Logger, metrics ports.MetricsProvider) *PostRepository {
	return &PostRepository{db: db, log: log, metrics: metrics}
}

func scanPost(row pgx.Row) (*model.Post, error) {
	post := &model.Post{}
	err := row.Scan(
		&post.ID,
		&post.Title,
		&post.Content,
		&post.ImageURL,
		&post.Creator.Name,
		&post.CreatedAt,
		&post.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return post, nil
}

func (p *PostRepository) observe(queryType string, start time.Time, success bool) {
	p.metrics.IncrementDatabaseQueries(queryType, success)
	p.metrics.RecordDatabaseQueryDuration(queryType, time.Since(start))
}

func (p *PostRepository) Create(ctx context.Context, post *model.Post) (*model.Post, error) {
	start := time.Now()
	p.log.Debug("Creating new post", slog.String("title", post.Title), slog.String("creator", post.Creator.Name))

	now := time.Now().UTC()
	args := pgx.NamedArgs{
		"id":           uuid.NewString(),
		"title":        post.Title,
		"content":      post.Content,
		"image_url":    post.ImageURL,
		"creator_name": post.Creator.Name,
		"created_at":   now,
		"updated_at":   now,
	}

	query := `
		INSERT INTO posts (id, title, content, image_url, creator_name, created_at, updated_at)
		VALUES (@id, @title, @content, @image_url, @creator_name, @created_at, @updated_at)
		RETURNING ` + postColumns

	createdPost, err := scanPost(p.db.QueryRow(ctx, query, args))
	if err != nil {
		p.observe("post_create", start, false)
		p.log.Error("Error creating post", slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}

	p.observe("post_create", start, true)
	p.log.Debug("Successfully created post", slog.String("id", createdPost.ID))
	return createdPost, nil
}

func (p *PostRepository) GetByID(ctx context.Context, id string) (*model.Post, error) {
	start := time.Now()
	p.log.Debug("Getting post by ID", slog.String("id", id))

	query := `SELECT ` + postColumns + ` FROM posts WHERE id = @id`
	post, err := scanPost(p.db.QueryRow(ctx, query, pgx.NamedArgs{"id": id}))
	if err != nil {
		p.observe("post_get_by_id", start, false)
		if errors.Is(err, pgx.ErrNoRows) {
			p.log.Debug("Post not found by id", slog.String("id", id))
			return nil, custom_errors.ErrPostNotFound
		}
		p.log.Error("Error getting post by id", slog.String("id", id), slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}

	p.observe("post_get_by_id", start, true)
	return post, nil
}

func (p *PostRepository) List(ctx context.Context) ([]*model.Post, error) {
	start := time.Now()
	p.log.Debug("Listing posts")

	query := `SELECT ` + postColumns + ` FROM posts ORDER BY created_at ASC, id ASC`
	rows, err := p.db.Query(ctx, query)
	if err != nil {
		p.observe("post_list", start, false)
		p.log.Error("Error listing posts", slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}
	defer rows.Close()

	posts := make([]*model.Post, 0)
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			p.observe("post_list", start, false)
			p.log.Error("Error scanning post during List", slog.String("error", err.Error()))
			return nil, custom_errors.ErrDatabaseScan
		}
		posts = append(posts, post)
	}

	if err = rows.Err(); err != nil {
		p.observe("post_list", start, false)
		p.log.Error("Error iterating rows during List", slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}

	p.observe("post_list", start, true)
	p.log.Debug("Successfully listed posts", slog.Int("count", len(posts)))
	return posts, nil
}

// Update locks the row, applies the overrides and writes it back in one transaction.
func (p *PostRepository) Update(ctx context.Context, id string, update *model.PostUpdate) (*model.Post, error) {
	start := time.Now()
	p.log.Debug("Updating post", slog.String("id", id), slog.Any("update_fields", map[string]bool{
		"title":     update.Title != nil,
		"content":   update.Content != nil,
		"image_url": update.ImageURL != nil,
	}))

	tx, err := p.db.Begin(ctx)
	if err != nil {
		p.observe("post_update", start, false)
		p.log.Error("Error beginning transaction for post update", slog.String("id", id), slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseUnavailable
	}
	defer func() {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			p.log.Warn("Error rolling back post update", slog.String("id", id), slog.String("error", rbErr.Error()))
		}
	}()

	selectQuery := `SELECT ` + postColumns + ` FROM posts WHERE id = @id FOR UPDATE`
	current, err := scanPost(tx.QueryRow(ctx, selectQuery, pgx.NamedArgs{"id": id}))
	if err != nil {
		p.observe("post_update", start, false)
		if errors.Is(err, pgx.ErrNoRows) {
			p.log.Debug("Post not found by id during Update", slog.String("id", id))
			return nil, custom_errors.ErrPostNotFound
		}
		p.log.Error("Error locking post for update", slog.String("id", id), slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}

	if update.Title != nil {
		current.Title = *update.Title
	}
	if update.Content != nil {
		current.Content = *update.Content
	}
	if update.ImageURL != nil {
		current.ImageURL = *update.ImageURL
	}
	updatedAt := time.Now().UTC()
	if updatedAt.Before(current.CreatedAt) {
		updatedAt = current.CreatedAt
	}

	args := pgx.NamedArgs{
		"id":         id,
		"title":      current.Title,
		"content":    current.Content,
		"image_url":  current.ImageURL,
		"updated_at": updatedAt,
	}
	updateQuery := `
		UPDATE posts SET title = @title, content = @content, image_url = @image_url, updated_at = @updated_at
		WHERE id = @id
		RETURNING ` + postColumns

	updatedPost, err := scanPost(tx.QueryRow(ctx, updateQuery, args))
	if err != nil {
		p.observe("post_update", start, false)
		p.log.Error("Error updating post", slog.String("id", id), slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}

	if err := tx.Commit(ctx); err != nil {
		p.observe("post_update", start, false)
		p.log.Error("Error committing post update", slog.String("id", id), slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}

	p.observe("post_update", start, true)
	p.log.Debug("Successfully updated post", slog.String("id", id))
	return updatedPost, nil
}
