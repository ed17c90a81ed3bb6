package post_repository_mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	model "feed-service/internal/domain/models"
)

type creatorDocument struct {
	Name string `bson:"name"`
}

type postDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Title     string             `bson:"title"`
	Content   string             `bson:"content"`
	ImageURL  string             `bson:"image_url"`
	Creator   creatorDocument    `bson:"creator"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

func fromModel(post *model.Post) postDocument {
	return postDocument{
		Title:     post.Title,
		Content:   post.Content,
		ImageURL:  post.ImageURL,
		Creator:   creatorDocument{Name: post.Creator.Name},
		CreatedAt: post.CreatedAt,
		UpdatedAt: post.UpdatedAt,
	}
}

func (d postDocument) toModel() *model.Post {
	return &model.Post{
		ID:        d.ID.Hex(),
		Title:     d.Title,
		Content:   d.Content,
		ImageURL:  d.ImageURL,
		Creator:   model.Creator{Name: d.Creator.Name},
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}
}
