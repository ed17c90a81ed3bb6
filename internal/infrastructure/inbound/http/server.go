package delivery_http

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	ports "feed-service/internal/domain/ports/output"
	"feed-service/internal/infrastructure/config"
	"feed-service/internal/infrastructure/inbound/http/middleware"
	post_http "feed-service/internal/infrastructure/inbound/http/post"
)

type Server struct {
	server  *http.Server
	address string
	port    int
	log     ports.Logger
}

// StaticAssets is the directory that backs image references and the
// prefix those references carry.
type StaticAssets interface {
	Dir() string
	URLPrefix() string
}

// NewRouter wires middleware, the feed API and static image serving.
func NewRouter(api *post_http.PostHTTPAPI, assets StaticAssets, log ports.Logger, metrics ports.MetricsProvider) chi.Router {
	router := chi.NewRouter()
	router.Use(chimw.RequestID)
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.Metrics(metrics))
	router.Use(chimw.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	}))

	api.Register(router)

	prefix := "/"
	if p := strings.Trim(assets.URLPrefix(), "/"); p != "" {
		prefix = "/" + p + "/"
	}
	router.Handle(prefix+"*", http.StripPrefix(prefix, http.FileServer(imageFS{http.Dir(assets.Dir())})))

	return router
}

// imageFS serves stored images only: directory listings and dot files
// (including in-progress uploads) are reported as missing.
type imageFS struct {
	fs http.FileSystem
}

func (i imageFS) Open(name string) (http.File, error) {
	if strings.HasPrefix(path.Base(name), ".") {
		return nil, fs.ErrNotExist
	}
	f, err := i.fs.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil || info.IsDir() {
		_ = f.Close()
		return nil, fs.ErrNotExist
	}
	return f, nil
}

func NewServer(handler http.Handler, cfg config.HTTPServer, log ports.Logger) *Server {
	return &Server{
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.Address, cfg.Port),
			Handler:      handler,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		address: cfg.Address,
		port:    cfg.Port,
		log:     log,
	}
}

func (s *Server) Run() error {
	s.log.Info("Starting HTTP server", slog.String("address", s.address), slog.Int("port", s.port))
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
