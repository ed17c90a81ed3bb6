package delivery_http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	post_service "feed-service/internal/application/service/post"
	"feed-service/internal/application/validation"
	model "feed-service/internal/domain/models"
	delivery_http "feed-service/internal/infrastructure/inbound/http"
	post_http "feed-service/internal/infrastructure/inbound/http/post"
	"feed-service/internal/infrastructure/logger"
	"feed-service/internal/infrastructure/outbound/asset/disk"
	"feed-service/internal/infrastructure/outbound/metrics/prometheus"
	"feed-service/internal/infrastructure/outbound/repository/post/memory"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

func setupServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv, _ := setupServerWithStore(t)
	return srv
}

func setupServerWithStore(t *testing.T) (*httptest.Server, *disk.Store) {
	t.Helper()
	log := logger.New("test")
	metrics := prometheus.NewPrometheusMetricsProvider()

	store, err := disk.New(filepath.Join(t.TempDir(), "images"), "images", log, metrics)
	require.NoError(t, err)
	service := post_service.NewPostService(memory.NewPostRepository(log), store,
		validation.NewPostValidator(validator.New()), log, metrics, "max")

	api := post_http.NewPostHTTPAPI(service, 1<<20, log)
	srv := httptest.NewServer(delivery_http.NewRouter(api, store, log, metrics))
	t.Cleanup(srv.Close)
	return srv, store
}

func createPost(t *testing.T, srv *httptest.Server) *model.Post {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	require.NoError(t, mw.WriteField("title", "A first post"))
	require.NoError(t, mw.WriteField("content", "Some content"))
	part, err := mw.CreateFormFile("image", "cat.png")
	require.NoError(t, err)
	_, err = part.Write(pngBytes)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	resp, err := http.Post(srv.URL+"/feed/post", mw.FormDataContentType(), body)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var env struct {
		Post *model.Post `json:"post"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	require.NotNil(t, env.Post)
	return env.Post
}

func TestServer_CreateThenServeImage(t *testing.T) {
	srv := setupServer(t)

	post := createPost(t, srv)

	resp, err := http.Get(srv.URL + "/" + post.ImageURL)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	got, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, pngBytes, got)
}

func TestServer_UnknownPostIsNotFound(t *testing.T) {
	srv := setupServer(t)

	resp, err := http.Get(srv.URL + "/feed/post/does-not-exist")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_ListAfterCreate(t *testing.T) {
	srv := setupServer(t)

	resp, err := http.Get(srv.URL + "/feed/posts")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"message":"Fetched posts successfully.","posts":[]}`, string(body))

	created := createPost(t, srv)

	resp, err = http.Get(srv.URL + "/feed/posts")
	require.NoError(t, err)
	defer resp.Body.Close()
	var env struct {
		Posts []*model.Post `json:"posts"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	require.Len(t, env.Posts, 1)
	assert.Equal(t, created.ID, env.Posts[0].ID)
}

func TestServer_CORSPreflight(t *testing.T) {
	srv := setupServer(t)

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/feed/post", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestServer_StaticImagesHideListingAndTempFiles(t *testing.T) {
	srv, store := setupServerWithStore(t)
	createPost(t, srv)
	require.NoError(t, os.WriteFile(filepath.Join(store.Dir(), ".upload-123"), []byte("partial"), 0o600))

	for _, p := range []string{"/images/", "/images", "/images/.upload-123"} {
		t.Run(p, func(t *testing.T) {
			resp, err := http.Get(srv.URL + p)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		})
	}
}
