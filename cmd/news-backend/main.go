package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"news-backend/internal/cache"
	"news-backend/internal/comments"
	"news-backend/internal/config"
	newssvc "news-backend/internal/news"
	"news-backend/internal/service"
	"news-backend/internal/sessions"
	"news-backend/internal/storage/minio"
	"news-backend/internal/storage/mongo"
	"news-backend/internal/storage/postgres"
	transporthttp "news-backend/internal/transport/http"
	"news-backend/internal/transport/http/handlers"
	userssvc "news-backend/internal/users"
)

// Константы для определения окружения.
const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "path to config file (overrides CONFIG_PATH env)")
	flag.Parse()

	cfg := config.MustLoad(configPath)

	log := setupLogger(cfg.Env)
	slog.SetDefault(log)
	log.Info("starting news-backend", "env", cfg.Env)

	rootCtx, rootCancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer rootCancel()

	dbCtx, dbCancel := context.WithTimeout(rootCtx, 10*time.Second)
	pg, err := postgres.New(dbCtx, cfg.DB.DatabaseURL)
	dbCancel()
	if err != nil {
		log.Error("postgres_connect_failed", slog.String("err", err.Error()))
		os.Exit(1)
	}
	defer pg.Close()
	log.Info("postgres_connected")

	redisCtx, redisCancel := context.WithTimeout(rootCtx, 10*time.Second)
	rdb, err := cache.NewClient(redisCtx, cfg.Redis.RedisURL)
	redisCancel()
	if err != nil {
		log.Error("redis_connect_failed", slog.String("err", err.Error()))
		os.Exit(1)
	}
	defer func() { _ = rdb.Close() }()
	log.Info("redis_connected")

	mongoCtx, mongoCancel := context.WithTimeout(rootCtx, 10*time.Second)
	commentsStore, err := mongo.New(mongoCtx, cfg.Mongo.URL)
	mongoCancel()
	if err != nil {
		log.Error("mongo_connect_failed", slog.String("err", err.Error()))
		os.Exit(1)
	}
	defer func() { _ = commentsStore.Close(context.Background()) }()
	log.Info("mongo_connected")

	s3Ctx, s3Cancel := context.WithTimeout(rootCtx, 10*time.Second)
	avatarsStore, err := minio.New(s3Ctx, cfg.S3)
	s3Cancel()
	if err != nil {
		log.Error("minio_connect_failed", slog.String("err", err.Error()))
		os.Exit(1)
	}
	log.Info("minio_connected")

	sessionStore := sessions.New(rdb, cfg.Redis.Prefix, cfg.Auth.RefreshTokenTTL)
	usersCache := cache.NewUsers(rdb, pg, cfg.Redis.Prefix, cfg.Cache.UserTTL)
	newsCache := cache.NewNews(rdb, pg, cfg.Redis.Prefix, cfg.Cache.NewsTTL)

	authSvc := service.New(pg, sessionStore, cfg.Auth)
	newsService := newssvc.New(pg, newsCache)
	commentsService := comments.New(commentsStore, pg)
	usersService := userssvc.New(usersCache, pg, avatarsStore, cfg.S3)
	log.Info("services_initialized")

	h := handlers.New(authSvc, newsService, commentsService, usersService, cfg)
	router := transporthttp.NewRouter(h, authSvc, usersCache, transporthttp.Options{
		Logger:  log,
		Timeout: cfg.Timeouts.Service,
	})

	httpSrv := &http.Server{
		Addr:              cfg.HTTP.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serveErrCh := make(chan error, 1)
	go func() {
		log.Info("http_listen_start", "addr", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErrCh <- err
		}
		close(serveErrCh)
	}()

	select {
	case <-rootCtx.Done():
		log.Info("shutdown_requested")
	case err := <-serveErrCh:
		if err != nil {
			log.Error("http_serve_failed", slog.String("err", err.Error()))
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Warn("http_force_stop", slog.String("err", err.Error()))
	}

	log.Info("service_stopped")
}

// setupLogger настраивает slog по окружению.
func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	}

	return log
}
