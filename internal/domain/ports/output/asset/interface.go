package asset

import (
	"context"

	model "feed-service/internal/domain/models"
)

//go:generate mockery --name Store --dir . --output ../../../../../mocks/asset --outpkg mocks --filename Store.go
// Store keeps post images addressed by a stable reference string.
type Store interface {
	// Store persists the upload under a unique reference. Fails with ErrAssetWrite.
	Store(ctx context.Context, upload *model.ImageUpload) (string, error)
	// Delete removes the referenced file. A missing file is not an error and
	// other failures are logged, never returned.
	Delete(ctx context.Context, ref string)
	Exists(ctx context.Context, ref string) bool
}
