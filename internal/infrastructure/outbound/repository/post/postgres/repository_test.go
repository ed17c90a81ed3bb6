package post_repository_postgres_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"feed-service/internal/custom_errors"
	model "feed-service/internal/domain/models"
	"feed-service/internal/infrastructure/config"
	"feed-service/internal/infrastructure/logger"
	metrics "feed-service/internal/infrastructure/outbound/metrics/prometheus"
	post_repository_postgres "feed-service/internal/infrastructure/outbound/repository/post/postgres"
	"feed-service/internal/infrastructure/outbound/repository/postgres"
)

func setupPostgresTest(t *testing.T) *post_repository_postgres.PostRepository {
	t.Helper()

	if os.Getenv("TEST_INTEGRATION") == "" {
		t.Skip("skipping integration test: TEST_INTEGRATION is not set")
	}

	ctx := context.Background()
	container, err := tcpostgres.Run(ctx,
		"docker.io/postgres:17-alpine",
		tcpostgres.WithDatabase("feed_test"),
		tcpostgres.WithUsername("feed"),
		tcpostgres.WithPassword("test-password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	migrationsPath, err := filepath.Abs("../../../../../../migrations")
	require.NoError(t, err)

	cfg := config.Database{
		Username:       "feed",
		Password:       "test-password",
		Host:           host,
		Port:           port.Port(),
		DbName:         "feed_test",
		MigrationsPath: migrationsPath,
	}

	log := logger.New("test")
	require.NoError(t, postgres.Migrate(cfg, log))

	pool, err := postgres.Connect(ctx, cfg, log)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	return post_repository_postgres.NewPostRepository(pool, log, metrics.NewPrometheusMetricsProvider())
}

func strPtr(s string) *string { return &s }

func TestPostRepository_Lifecycle(t *testing.T) {
	repo := setupPostgresTest(t)
	ctx := context.Background()

	empty, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)

	first, err := repo.Create(ctx, &model.Post{
		Title:    "First post",
		Content:  "Body of the first post",
		ImageURL: "images/a.png",
		Creator:  model.Creator{Name: "max"},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)
	assert.Equal(t, first.CreatedAt, first.UpdatedAt)

	second, err := repo.Create(ctx, &model.Post{
		Title:    "Second post",
		Content:  "Body of the second post",
		ImageURL: "images/b.png",
		Creator:  model.Creator{Name: "max"},
	})
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, first.Title, got.Title)
	assert.Equal(t, "max", got.Creator.Name)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, first.ID, all[0].ID)
	assert.Equal(t, second.ID, all[1].ID)

	updated, err := repo.Update(ctx, first.ID, &model.PostUpdate{
		Title:    strPtr("Edited post"),
		ImageURL: strPtr("images/c.png"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Edited post", updated.Title)
	assert.Equal(t, "Body of the first post", updated.Content)
	assert.Equal(t, "images/c.png", updated.ImageURL)
	assert.False(t, updated.UpdatedAt.Before(updated.CreatedAt))

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, custom_errors.ErrPostNotFound)

	_, err = repo.Update(ctx, "missing", &model.PostUpdate{Title: strPtr("nope")})
	assert.ErrorIs(t, err, custom_errors.ErrPostNotFound)
}
