package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/api"
	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/logger"
	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/router"
	"github.com/pageza/foodgram/backend/internal/server"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/storage"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	sugar, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = sugar.Sync() }()

	if err := run(cfg, sugar); err != nil {
		sugar.Fatalw("server exited", "error", err)
	}
}

func run(cfg *config.Config, log *zap.SugaredLogger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.New(cfg, log)
	if err != nil {
		return err
	}
	if cfg.AutoMigrate {
		if err := database.RunMigrations(db, cfg.MigrationsDir, log); err != nil {
			return err
		}
	}

	// Redis backs token revocation and rate limiting. Without it both
	// features are switched off and the API keeps serving.
	redisClient, err := database.NewRedisClient(cfg, log)
	if err != nil {
		log.Warnw("redis unavailable, rate limiting and logout revocation disabled", "error", err)
		redisClient = nil
	} else {
		defer redisClient.Close()
	}

	images, mediaDir, err := imageStore(ctx, cfg, log)
	if err != nil {
		return err
	}

	services := buildServices(cfg, db, redisClient, images, log)
	handler := router.Setup(router.Options{
		CORSOrigins: cfg.CORSOrigins,
		MediaDir:    mediaDir,
		MediaPrefix: cfg.MediaPrefix,
		Logger:      log,
	}, services)

	return server.New(cfg.Addr(), handler, log).Run(ctx)
}

// imageStore picks S3 when a bucket is configured and the local media
// directory otherwise. The returned directory is non-empty only in the
// latter case so the router knows to serve it.
func imageStore(ctx context.Context, cfg *config.Config, log *zap.SugaredLogger) (storage.ImageStore, string, error) {
	if cfg.S3BucketName == "" {
		log.Infow("storing images on disk", "dir", cfg.MediaDir)
		return storage.NewDiskStore(cfg.MediaDir, cfg.MediaPrefix), cfg.MediaDir, nil
	}

	s3cfg, err := config.NewS3Config(ctx, cfg)
	if err != nil {
		return nil, "", err
	}
	log.Infow("storing images in s3", "bucket", s3cfg.BucketName)
	return storage.NewS3Store(s3cfg, log), "", nil
}

func buildServices(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, images storage.ImageStore, log *zap.SugaredLogger) api.Services {
	var denylist service.TokenDenylist
	var creation, modification *middleware.RateLimiter
	if redisClient != nil {
		denylist = service.NewRedisDenylist(redisClient)
		creation = middleware.NewRecipeCreationRateLimiter(redisClient, cfg.RateLimitWindow, cfg.RecipeCreationLimit, log)
		modification = middleware.NewRecipeModificationRateLimiter(redisClient, cfg.RateLimitWindow, cfg.RecipeModificationLimit, log)
	}

	return api.Services{
		DB:           db,
		Auth:         service.NewAuthService(db, cfg.JWTSecret, cfg.JWTTTL, denylist, log),
		Users:        service.NewUserService(db, log),
		Follows:      service.NewFollowService(db, log),
		Recipes:      service.NewRecipeService(db, images, log),
		Relations:    service.NewRelationService(db, log),
		ShoppingList: service.NewShoppingListService(db, log),
		Reference:    service.NewReferenceService(db, log),

		RecipeCreationLimiter:     creation,
		RecipeModificationLimiter: modification,
	}
}
