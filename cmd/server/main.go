package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"

	post_service "feed-service/internal/application/service/post"
	"feed-service/internal/application/validation"
	input "feed-service/internal/domain/ports/input/post"
	post_repository "feed-service/internal/domain/ports/output/post"
	"feed-service/internal/infrastructure/config"
	delivery_http "feed-service/internal/infrastructure/inbound/http"
	post_http "feed-service/internal/infrastructure/inbound/http/post"
	metrics_server "feed-service/internal/infrastructure/inbound/metrics"
	"feed-service/internal/infrastructure/logger"
	"feed-service/internal/infrastructure/outbound/asset/disk"
	redis_cache "feed-service/internal/infrastructure/outbound/cache/redis"
	prometheus_metrics "feed-service/internal/infrastructure/outbound/metrics/prometheus"
	post_memory "feed-service/internal/infrastructure/outbound/repository/post/memory"
	post_mongo "feed-service/internal/infrastructure/outbound/repository/post/mongo"
	post_postgres "feed-service/internal/infrastructure/outbound/repository/post/postgres"
	"feed-service/internal/infrastructure/outbound/repository/postgres"
)

func main() {
	cfg := config.MustLoad()
	ctx := context.Background()
	log := logger.New(cfg.Env)

	metrics := prometheus_metrics.NewPrometheusMetricsProvider()

	repoLog := log.With(slog.String("storage", cfg.Storage.Driver))

	var postRepo post_repository.Repository
	switch cfg.Storage.Driver {
	case config.StoragePostgres:
		if err := postgres.Migrate(cfg.Database, log); err != nil {
			log.Error("Failed to apply migrations", slog.String("error", err.Error()))
			os.Exit(1)
		}
		pool, err := postgres.Connect(ctx, cfg.Database, log)
		if err != nil {
			log.Error("Failed to connect to postgres", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer pool.Close()
		postRepo = post_postgres.NewPostRepository(pool, repoLog, metrics)
	case config.StorageMongo:
		client, collection, err := post_mongo.Connect(ctx, cfg.Mongo, log)
		if err != nil {
			log.Error("Failed to connect to mongo", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer func() {
			if err := client.Disconnect(context.Background()); err != nil {
				log.Error("Failed to disconnect from mongo", slog.String("error", err.Error()))
			}
		}()
		postRepo = post_mongo.NewPostRepository(collection, repoLog, metrics)
	default:
		log.Warn("Using in-memory post storage, posts are lost on restart")
		postRepo = post_memory.NewPostRepository(repoLog)
	}

	assets, err := disk.New(cfg.Assets.Dir, cfg.Assets.URLPrefix, log, metrics)
	if err != nil {
		log.Error("Failed to prepare image directory", slog.String("dir", cfg.Assets.Dir), slog.String("error", err.Error()))
		os.Exit(1)
	}

	postValidator := validation.NewPostValidator(validator.New())
	var postService input.Service = post_service.NewPostService(postRepo, assets, postValidator, log, metrics, cfg.Posts.DefaultCreator)

	if cfg.Redis.Enabled {
		log.Info("Connecting to Redis",
			slog.String("address", cfg.Redis.Address),
			slog.Int("port", cfg.Redis.Port),
			slog.Int("db", cfg.Redis.DB))
		redisClient, err := redis_cache.NewClient(cfg.Redis, log)
		if err != nil {
			log.Error("Failed to create Redis client", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Error("Failed to close Redis connection", slog.String("error", err.Error()))
			}
		}()
		postCache := redis_cache.NewPostCache(redisClient, cfg.Redis.TTL, log, metrics)
		postService = post_service.NewPostServiceCacheDecorator(postService, postCache, log, metrics)
	}

	api := post_http.NewPostHTTPAPI(postService, cfg.HTTPServer.MaxUploadBytes, log)
	router := delivery_http.NewRouter(api, assets, log, metrics)
	httpServer := delivery_http.NewServer(router, cfg.HTTPServer, log)
	metricsServer := metrics_server.NewMetricsServer(cfg.Prometheus.Address, cfg.Prometheus.Port, log)

	metrics.SetServiceHealth(true)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	done := make(chan bool, 1)
	metricsDone := make(chan bool, 1)

	go func() {
		if err := httpServer.Run(); err != nil {
			log.Error("HTTP server error", slog.String("error", err.Error()))
			quit <- syscall.SIGTERM
		}
		done <- true
	}()

	go func() {
		if err := metricsServer.Run(); err != nil {
			log.Error("Metrics server error", slog.String("error", err.Error()))
		}
		metricsDone <- true
	}()

	<-quit
	log.Info("Shutting down servers...")

	metrics.SetServiceHealth(false)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", slog.String("error", err.Error()))
	}

	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		log.Error("Metrics server shutdown error", slog.String("error", err.Error()))
	}

	<-done
	<-metricsDone

	log.Info("Server exited")
}
