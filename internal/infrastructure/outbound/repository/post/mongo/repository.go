package post_repository_mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"feed-service/internal/custom_errors"
	model "feed-service/internal/domain/models"
	ports "feed-service/internal/domain/ports/output"
	"feed-service/internal/infrastructure/config"
)

type PostRepository struct {
	log        ports.Logger
	collection *mongo.Collection
	metrics    ports.MetricsProvider
}

func NewPostRepository(collection *mongo.Collection, log ports.Logger, metrics ports.MetricsProvider) *PostRepository {
	return &PostRepository{collection: collection, log: log, metrics: metrics}
}

// Connect dials the server, pings it and returns the client with the posts collection.
func Connect(ctx context.Context, cfg config.Mongo, log ports.Logger) (*mongo.Client, *mongo.Collection, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.WithoutCancel(ctx))
		return nil, nil, fmt.Errorf("ping mongo: %w", err)
	}

	collection := client.Database(cfg.Database).Collection(cfg.Collection)
	_, err = collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}},
	})
	if err != nil {
		_ = client.Disconnect(context.WithoutCancel(ctx))
		return nil, nil, fmt.Errorf("create created_at index: %w", err)
	}

	log.Info("Connected to MongoDB", slog.String("database", cfg.Database), slog.String("collection", cfg.Collection))
	return client, collection, nil
}

func (p *PostRepository) observe(queryType string, start time.Time, success bool) {
	p.metrics.IncrementDatabaseQueries(queryType, success)
	p.metrics.RecordDatabaseQueryDuration(queryType, time.Since(start))
}

// now is truncated to the millisecond precision BSON dates keep.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

func (p *PostRepository) Create(ctx context.Context, post *model.Post) (*model.Post, error) {
	start := time.Now()
	p.log.Debug("Creating new post", slog.String("title", post.Title), slog.String("creator", post.Creator.Name))

	doc := fromModel(post)
	doc.ID = primitive.NewObjectID()
	doc.CreatedAt = now()
	doc.UpdatedAt = doc.CreatedAt

	if _, err := p.collection.InsertOne(ctx, doc); err != nil {
		p.observe("post_create", start, false)
		p.log.Error("Error creating post", slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}

	p.observe("post_create", start, true)
	p.log.Debug("Successfully created post", slog.String("id", doc.ID.Hex()))
	return doc.toModel(), nil
}

func (p *PostRepository) GetByID(ctx context.Context, id string) (*model.Post, error) {
	start := time.Now()
	p.log.Debug("Getting post by ID", slog.String("id", id))

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		p.observe("post_get_by_id", start, false)
		p.log.Debug("Post id is not an ObjectID", slog.String("id", id))
		return nil, custom_errors.ErrPostNotFound
	}

	var doc postDocument
	err = p.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&doc)
	if err != nil {
		p.observe("post_get_by_id", start, false)
		if errors.Is(err, mongo.ErrNoDocuments) {
			p.log.Debug("Post not found by id", slog.String("id", id))
			return nil, custom_errors.ErrPostNotFound
		}
		p.log.Error("Error getting post by id", slog.String("id", id), slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}

	p.observe("post_get_by_id", start, true)
	return doc.toModel(), nil
}

func (p *PostRepository) List(ctx context.Context) ([]*model.Post, error) {
	start := time.Now()
	p.log.Debug("Listing posts")

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := p.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		p.observe("post_list", start, false)
		p.log.Error("Error listing posts", slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}
	defer func() {
		if err := cursor.Close(ctx); err != nil {
			p.log.Warn("Error closing cursor", slog.String("error", err.Error()))
		}
	}()

	var docs []postDocument
	if err := cursor.All(ctx, &docs); err != nil {
		p.observe("post_list", start, false)
		p.log.Error("Error decoding posts during List", slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseScan
	}

	posts := make([]*model.Post, 0, len(docs))
	for _, doc := range docs {
		posts = append(posts, doc.toModel())
	}

	p.observe("post_list", start, true)
	p.log.Debug("Successfully listed posts", slog.Int("count", len(posts)))
	return posts, nil
}

func updateDocument(update *model.PostUpdate, updatedAt time.Time) bson.M {
	set := bson.M{"updated_at": updatedAt}
	if update.Title != nil {
		set["title"] = *update.Title
	}
	if update.Content != nil {
		set["content"] = *update.Content
	}
	if update.ImageURL != nil {
		set["image_url"] = *update.ImageURL
	}
	return bson.M{"$set": set}
}

func (p *PostRepository) Update(ctx context.Context, id string, update *model.PostUpdate) (*model.Post, error) {
	start := time.Now()
	p.log.Debug("Updating post", slog.String("id", id), slog.Any("update_fields", map[string]bool{
		"title":     update.Title != nil,
		"content":   update.Content != nil,
		"image_url": update.ImageURL != nil,
	}))

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		p.observe("post_update", start, false)
		p.log.Debug("Post id is not an ObjectID", slog.String("id", id))
		return nil, custom_errors.ErrPostNotFound
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc postDocument
	err = p.collection.FindOneAndUpdate(ctx, bson.M{"_id": objectID}, updateDocument(update, now()), opts).Decode(&doc)
	if err != nil {
		p.observe("post_update", start, false)
		if errors.Is(err, mongo.ErrNoDocuments) {
			p.log.Debug("Post not found by id during Update", slog.String("id", id))
			return nil, custom_errors.ErrPostNotFound
		}
		p.log.Error("Error updating post", slog.String("id", id), slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}

	p.observe("post_update", start, true)
	p.log.Debug("Successfully updated post", slog.String("id", id))
	return doc.toModel(), nil
}
