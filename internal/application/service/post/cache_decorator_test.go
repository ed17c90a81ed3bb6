package post_service

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"feed-service/internal/custom_errors"
	model "feed-service/internal/domain/models"
	"feed-service/internal/infrastructure/config"
	"feed-service/internal/infrastructure/logger"
	redis_cache "feed-service/internal/infrastructure/outbound/cache/redis"
	"feed-service/internal/infrastructure/outbound/metrics/prometheus"
	cache_mock "feed-service/mocks/cache"
	post_service_mock "feed-service/mocks/post"
)

func setupDecorator(t *testing.T) (*post_service_mock.Service, *cache_mock.PostCache, *PostServiceCacheDecorator) {
	t.Helper()
	service := post_service_mock.NewService(t)
	postCache := cache_mock.NewPostCache(t)
	decorator := NewPostServiceCacheDecorator(service, postCache, logger.New("test"), prometheus.NewPrometheusMetricsProvider())
	return service, postCache, decorator.(*PostServiceCacheDecorator)
}

func TestPostServiceCacheDecorator_GetPostByID(t *testing.T) {
	post := &model.Post{ID: "p1", Title: "Cached title"}

	tests := []struct {
		name    string
		mocks   func(service *post_service_mock.Service, postCache *cache_mock.PostCache)
		want    *model.Post
		wantErr error
	}{
		{
			name: "cache hit skips the service",
			mocks: func(service *post_service_mock.Service, postCache *cache_mock.PostCache) {
				postCache.On("GetPost", mock.Anything, "p1").Return(post, nil)
			},
			want: post,
		},
		{
			name: "cache miss reads through and fills the cache",
			mocks: func(service *post_service_mock.Service, postCache *cache_mock.PostCache) {
				postCache.On("GetPost", mock.Anything, "p1").Return(nil, custom_errors.ErrCacheMiss)
				service.On("GetPostByID", mock.Anything, "p1").Return(post, nil)
				postCache.On("SetPost", mock.Anything, post).Return(nil)
			},
			want: post,
		},
		{
			name: "cache failure falls back to the service",
			mocks: func(service *post_service_mock.Service, postCache *cache_mock.PostCache) {
				postCache.On("GetPost", mock.Anything, "p1").Return(nil, errors.New("connection refused"))
				service.On("GetPostByID", mock.Anything, "p1").Return(post, nil)
				postCache.On("SetPost", mock.Anything, post).Return(nil)
			},
			want: post,
		},
		{
			name: "not found is not cached",
			mocks: func(service *post_service_mock.Service, postCache *cache_mock.PostCache) {
				postCache.On("GetPost", mock.Anything, "p1").Return(nil, custom_errors.ErrCacheMiss)
				service.On("GetPostByID", mock.Anything, "p1").Return(nil, custom_errors.ErrPostNotFound)
			},
			wantErr: custom_errors.ErrPostNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, postCache, decorator := setupDecorator(t)
			tt.mocks(service, postCache)

			got, err := decorator.GetPostByID(context.Background(), "p1")

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				postCache.AssertNotCalled(t, "SetPost", mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func liveContext() interface{} {
	return mock.MatchedBy(func(ctx context.Context) bool { return ctx.Err() == nil })
}

func cancelledContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	return ctx
}

func TestPostServiceCacheDecorator_UpdatePost(t *testing.T) {
	dto := &model.UpdatePostDTO{Title: "Edited title", Content: "Edited content", ExistingImageURL: "images/a.png"}
	updated := &model.Post{ID: "p1", Title: "Edited title"}

	t.Run("drops the cached entry", func(t *testing.T) {
		service, postCache, decorator := setupDecorator(t)
		service.On("UpdatePost", mock.Anything, "p1", dto).Return(updated, nil)
		postCache.On("DeletePost", liveContext(), "p1").Return(nil)

		got, err := decorator.UpdatePost(context.Background(), "p1", dto)

		require.NoError(t, err)
		assert.Equal(t, updated, got)
		postCache.AssertNotCalled(t, "SetPost", mock.Anything, mock.Anything)
	})

	t.Run("drops the entry after the caller went away", func(t *testing.T) {
		service, postCache, decorator := setupDecorator(t)
		service.On("UpdatePost", mock.Anything, "p1", dto).Return(updated, nil)
		postCache.On("DeletePost", liveContext(), "p1").Return(nil)

		got, err := decorator.UpdatePost(cancelledContext(), "p1", dto)

		require.NoError(t, err)
		assert.Equal(t, updated, got)
	})

	t.Run("failed invalidation is logged only", func(t *testing.T) {
		service, postCache, decorator := setupDecorator(t)
		service.On("UpdatePost", mock.Anything, "p1", dto).Return(updated, nil)
		postCache.On("DeletePost", mock.Anything, "p1").Return(errors.New("timeout"))

		got, err := decorator.UpdatePost(context.Background(), "p1", dto)

		require.NoError(t, err)
		assert.Equal(t, updated, got)
	})

	t.Run("service error leaves the cache alone", func(t *testing.T) {
		service, postCache, decorator := setupDecorator(t)
		service.On("UpdatePost", mock.Anything, "p1", dto).Return(nil, custom_errors.ErrPostNotFound)

		got, err := decorator.UpdatePost(context.Background(), "p1", dto)

		assert.Nil(t, got)
		assert.ErrorIs(t, err, custom_errors.ErrPostNotFound)
		postCache.AssertNotCalled(t, "SetPost", mock.Anything, mock.Anything)
		postCache.AssertNotCalled(t, "DeletePost", mock.Anything, mock.Anything)
	})
}

func TestPostServiceCacheDecorator_CreatePost(t *testing.T) {
	dto := &model.CreatePostDTO{Title: "A title", Content: "Some content"}
	created := &model.Post{ID: "p1"}

	t.Run("caches the new post", func(t *testing.T) {
		service, postCache, decorator := setupDecorator(t)
		service.On("CreatePost", mock.Anything, dto).Return(created, nil)
		postCache.On("SetPost", liveContext(), created).Return(nil)

		got, err := decorator.CreatePost(cancelledContext(), dto)

		require.NoError(t, err)
		assert.Equal(t, created, got)
	})

	t.Run("failed set invalidates", func(t *testing.T) {
		service, postCache, decorator := setupDecorator(t)
		service.On("CreatePost", mock.Anything, dto).Return(created, nil)
		postCache.On("SetPost", mock.Anything, created).Return(errors.New("timeout"))
		postCache.On("DeletePost", liveContext(), "p1").Return(nil)

		got, err := decorator.CreatePost(context.Background(), dto)

		require.NoError(t, err)
		assert.Equal(t, created, got)
	})
}

func TestPostServiceCacheDecorator_ListPosts(t *testing.T) {
	service, postCache, decorator := setupDecorator(t)
	posts := []*model.Post{{ID: "p1"}}
	service.On("ListPosts", mock.Anything).Return(posts, nil)

	list, err := decorator.ListPosts(context.Background())

	require.NoError(t, err)
	assert.Equal(t, posts, list)
	postCache.AssertNotCalled(t, "GetPost", mock.Anything, mock.Anything)
}

func TestPostServiceCacheDecorator_CancelledUpdateNeverServesDeletedImage(t *testing.T) {
	f := setupFixture(t)

	server := miniredis.RunT(t)
	port, err := strconv.Atoi(server.Port())
	require.NoError(t, err)
	log := logger.New("test")
	metrics := prometheus.NewPrometheusMetricsProvider()
	client, err := redis_cache.NewClient(config.Redis{Address: server.Host(), Port: port, PoolSize: 2}, log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	decorator := NewPostServiceCacheDecorator(f.service, redis_cache.NewPostCache(client, time.Minute, log, metrics), log, metrics)
	ctx := context.Background()

	created, err := decorator.CreatePost(ctx, &model.CreatePostDTO{Title: "A first post", Content: "Some content", Image: png("a.png")})
	require.NoError(t, err)

	cached, err := decorator.GetPostByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ImageURL, cached.ImageURL)

	updated, err := decorator.UpdatePost(cancelledContext(), created.ID, &model.UpdatePostDTO{
		Title:   "Edited title",
		Content: "Edited content",
		Image:   png("b.png"),
	})
	require.NoError(t, err)
	assert.False(t, f.store.Exists(ctx, created.ImageURL))

	got, err := decorator.GetPostByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, updated.ImageURL, got.ImageURL)
	assert.Equal(t, "Edited title", got.Title)
	assert.True(t, f.store.Exists(ctx, got.ImageURL))
}
