package post_repository

import (
	"context"

	model "feed-service/internal/domain/models"
)

//go:generate mockery --name Repository --dir . --output ../../../../../mocks/post --outpkg mocks --filename Repository.go
// Repository persists posts. GetByID and Update report a missing post with
// custom_errors.ErrPostNotFound; store failures map to the ErrDatabase* sentinels.
type Repository interface {
	Create(ctx context.Context, post *model.Post) (*model.Post, error)
	GetByID(ctx context.Context, id string) (*model.Post, error)
	List(ctx context.Context) ([]*model.Post, error)
	Update(ctx context.Context, id string, update *model.PostUpdate) (*model.Post, error)
}
