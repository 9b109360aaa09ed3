// Package app wires configuration, storage and services into one container shared by
// the HTTP server, the CLI and the scheduler.
package app

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"sareeadmin.GO/config"
	"sareeadmin.GO/core/cache"
	"sareeadmin.GO/core/log"
	"sareeadmin.GO/core/storage"
	"sareeadmin.GO/core/supabase"
	productRepo "sareeadmin.GO/model/repository/product"
	"sareeadmin.GO/service/media"
	productService "sareeadmin.GO/service/product"
)

type App struct {
	Config   *config.Config
	DB       *gorm.DB
	Cache    *cache.Cache
	Bucket   storage.Bucket
	Supabase *supabase.Client
	Media    *media.Service
	Sessions *media.SessionManager
	Products *productService.Service
	Notifier *media.RedisNotifier
}

// New wires services over an open database and bucket. client may be nil.
func New(cfg *config.Config, db *gorm.DB, bucket storage.Bucket, client *supabase.Client) *App {
	store := cache.NewCache()
	repo := productRepo.GetProductRepository(db)

	rc := media.NewReconciliationCache(media.NewAssetIndex(repo), store, cfg.Media.ReferenceTTL)
	resolver := media.NewResolver(bucket, media.ResolverOptions{
		BatchSize: cfg.Media.ListBatchSize,
		SortBy: storage.SortBy{
			Column: cfg.Media.ListSortColumn,
			Order:  cfg.Media.ListSortOrder,
		},
		Prefix: cfg.Media.ListPrefix,
	})

	a := &App{Config: cfg, DB: db, Cache: store, Bucket: bucket, Supabase: client}
	opts := media.Options{
		Bucket:         bucket,
		Cache:          rc,
		Resolver:       resolver,
		UploadMaxBytes: cfg.Media.UploadMaxBytes,
	}
	if cfg.Media.Optimize {
		opts.Optimizer = media.NewOptimizer(cfg.Media.MaxDimension, cfg.Media.WebPQuality)
	}
	if config.RedisClient != nil {
		a.Notifier = media.NewRedisNotifier(config.RedisClient, config.GetEnv("MEDIA_INVALIDATE_CHANNEL", ""))
		opts.Notifier = a.Notifier
	}
	a.Media = media.NewService(opts)
	a.Sessions = media.NewSessionManager(a.Media, cfg.Media.PageSize, cfg.Media.SessionTTL)
	a.Products = productService.NewService(repo, a.Media)
	return a
}

// Bootstrap opens the database, the storage bucket and Redis from the environment.
func Bootstrap() (*App, error) {
	cfg := config.LoadAppConfig()
	if cfg.Debug {
		log.SetDebugMode()
	}

	config.InitRedis()
	log.Info().Msg(config.PingRedis())

	db, err := config.NewDB()
	if err != nil {
		return nil, fmt.Errorf("connect to DB: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get DB instance: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}
	log.Info().Str("driver", db.Dialector.Name()).Msg("Database connection successful.")

	client, err := config.NewSupabaseClient(cfg)
	if err != nil && !errors.Is(err, supabase.ErrNotConfigured) {
		return nil, err
	}
	bucket, err := config.NewBucket(cfg)
	if err != nil {
		return nil, fmt.Errorf("open storage bucket: %w", err)
	}
	log.Info().Str("driver", cfg.Storage.Driver).Str("bucket", bucket.Name()).Msg("Storage bucket ready.")

	return New(cfg, db, bucket, client), nil
}

// ListenInvalidations keeps the local reference set in step with peers until ctx ends.
// It returns immediately when Redis is not configured.
func (a *App) ListenInvalidations(ctx context.Context) {
	if a.Notifier == nil {
		return
	}
	if err := a.Notifier.Listen(ctx, a.Media.Cache()); err != nil && ctx.Err() == nil {
		log.Error().Err(err).Msg("media: invalidation listener stopped")
	}
}
