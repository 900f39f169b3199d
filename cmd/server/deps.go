package main

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/theatharvamuley10/backendPro/internal/api"
	"github.com/theatharvamuley10/backendPro/internal/api/handler"
	"github.com/theatharvamuley10/backendPro/internal/core/service"
	"github.com/theatharvamuley10/backendPro/internal/infrastructure/config"
	"github.com/theatharvamuley10/backendPro/internal/infrastructure/db/mongo"
	redisdb "github.com/theatharvamuley10/backendPro/internal/infrastructure/db/redis"
	"github.com/theatharvamuley10/backendPro/internal/infrastructure/media"
	"github.com/theatharvamuley10/backendPro/pkg/logger"
)

const serviceName = "backendpro"

// app holds the live connections of a running process.
type app struct {
	cfg   *config.Config
	log   zerolog.Logger
	mongo *mongodriver.Client
	db    *mongodriver.Database
	redis *redis.Client
}

// bootstrap loads configuration, initialises the logger and dials the stores.
func bootstrap(ctx context.Context) (*app, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: serviceName,
	})

	client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return nil, err
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		_ = mongo.Disconnect(ctx, client)
		return nil, err
	}

	return &app{cfg: cfg, log: log, mongo: client, db: db, redis: rdb}, nil
}

func (a *app) close(ctx context.Context) {
	if err := a.redis.Close(); err != nil {
		a.log.Warn().Err(err).Msg("redis close failed")
	}
	if err := mongo.Disconnect(ctx, a.mongo); err != nil {
		a.log.Warn().Err(err).Msg("mongo disconnect failed")
	}
}

// router wires repositories, adapters and the session service into the HTTP
// layer.
func (a *app) router(ctx context.Context) (*api.Deps, error) {
	cfg := a.cfg

	uploader, err := media.New(ctx, media.Config{
		Provider: cfg.Media.Provider,
		Cloudinary: media.CloudinaryConfig{
			CloudName: cfg.Media.CloudinaryCloudName,
			APIKey:    cfg.Media.CloudinaryAPIKey,
			APISecret: cfg.Media.CloudinaryAPISecret,
		},
		S3: media.S3Config{
			Bucket:        cfg.Media.S3Bucket,
			Region:        cfg.Media.S3Region,
			Endpoint:      cfg.Media.S3Endpoint,
			AccessKey:     cfg.Media.S3AccessKey,
			SecretKey:     cfg.Media.S3SecretKey,
			PublicBaseURL: cfg.Media.S3PublicBaseURL,
		},
	})
	if err != nil {
		return nil, err
	}

	tokens, err := service.NewTokenIssuer(service.TokenConfig{
		AccessSecret:  cfg.Auth.AccessSecret,
		AccessTTL:     cfg.Auth.AccessTTL,
		RefreshSecret: cfg.Auth.RefreshSecret,
		RefreshTTL:    cfg.Auth.RefreshTTL,
	})
	if err != nil {
		return nil, fmt.Errorf("token issuer: %w", err)
	}

	sessions := service.NewSessionService(
		mongo.NewUserRepository(a.db),
		uploader,
		service.NewPasswordHasher(cfg.Auth.BcryptCost),
		tokens,
		redisdb.NewLoginLimiter(a.redis, cfg.Login.MaxAttempts, cfg.Login.Window),
		a.log.With().Str("component", "sessions").Logger(),
	)

	return &api.Deps{
		Sessions: sessions,
		Cookies: handler.CookieConfig{
			Secure:     cfg.Auth.CookieSecure,
			AccessTTL:  tokens.AccessTTL(),
			RefreshTTL: tokens.RefreshTTL(),
		},
		Uploads: handler.UploadConfig{
			TempDir:  cfg.Upload.TempDir,
			MaxBytes: cfg.Upload.MaxBytes,
		},
		Health: map[string]handler.Check{
			"mongodb": func(ctx context.Context) error { return a.mongo.Ping(ctx, readpref.Primary()) },
			"redis":   func(ctx context.Context) error { return a.redis.Ping(ctx).Err() },
		},
		CORSOrigins: splitOrigins(cfg.CORSOrigin),
		Logger:      a.log,
	}, nil
}
