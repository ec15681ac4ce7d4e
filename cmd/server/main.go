package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/djungler/filmkatalog/internal/config"
	"github.com/djungler/filmkatalog/internal/database"
	"github.com/djungler/filmkatalog/internal/handler"
	"github.com/djungler/filmkatalog/internal/middleware"
	"github.com/djungler/filmkatalog/internal/model"
	"github.com/djungler/filmkatalog/internal/queue"
	"github.com/djungler/filmkatalog/internal/repository"
	"github.com/djungler/filmkatalog/internal/repository/mongodb"
	"github.com/djungler/filmkatalog/internal/router"
	"github.com/djungler/filmkatalog/internal/service"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	logger := newLogger(cfg.Env)
	defer logger.Sync() //nolint:errcheck
	slog := logger.Sugar()

	client, err := database.Connect(cfg.MongoURI)
	if err != nil {
		slog.Fatalw("mongodb connect failed", "err", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(ctx)
	}()
	db := client.Database(cfg.MongoDB)

	if cfg.DBSeed {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := database.Seed(ctx, db, slog); err != nil {
			slog.Errorw("seed failed", "err", err)
		}
		cancel()
	}

	filme := mongodb.NewFilmRepo(db)
	files := mongodb.NewFileRepo(db)
	users := repository.NewUserStore(model.DefaultUsers(cfg.UserPasswordEncoded))

	publisher := queue.NewPublisher(slog)
	go queue.StartMailConsumer(slog)

	filmSvc := service.NewFilmService(filme, publisher, slog)

	filmHandler := handler.NewFilmHandler(filmSvc, slog)
	fileHandler := handler.NewFilmFileHandler(filmSvc, files, cfg.MaxFileBytes, slog)
	authHandler := handler.NewAuthHandler(cfg, users, slog)
	gqlHandler, err := handler.NewGraphQLHandler(filmSvc, slog)
	if err != nil {
		slog.Fatalw("graphql schema build failed", "err", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(echomw.CORS())
	e.Use(echomw.Secure())
	e.Use(echomw.Gzip())

	rdb := config.NewRedisClient()
	if rdb != nil {
		e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb, cfg.JWTSecret))
	}
	var cacheMW echo.MiddlewareFunc
	if rdb != nil {
		cacheMW = middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	}

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authHandler)
	router.RegisterFilme(e, filmHandler, fileHandler, cfg.JWTSecret, cacheMW)
	router.RegisterGraphQL(e, gqlHandler)

	addr := ":" + cfg.Port
	slog.Infow("listening", "addr", addr, "env", cfg.Env)
	if err := e.Start(addr); err != nil {
		slog.Fatalw("server stopped", "err", err)
	}
}

// newLogger builds the process logger: production encoding everywhere except
// in the dev environment, which gets the human-readable console output.
func newLogger(env string) *zap.Logger {
	var (
		logger *zap.Logger
		err    error
	)
	if env == "dev" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		log.Fatalf("logger init: %v", err)
	}
	return logger
}
