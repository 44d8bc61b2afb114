package app

import (
	"context"
	"log/slog"

	"capella-backend/internal/cache"
	"capella-backend/internal/casestudies"
	"capella-backend/internal/config"
	"capella-backend/internal/db"
)

// OpenStore connects the record store named by cfg: MongoDB when a URI is
// configured, the in-memory store otherwise. The returned close func is
// never nil.
func OpenStore(ctx context.Context, cfg *config.Config, log *slog.Logger) (casestudies.RecordStore, func(context.Context) error, error) {
	if cfg.MongoURI == "" {
		log.Warn("mongo disabled: using in-memory record store")
		return casestudies.NewMemoryStore(), func(context.Context) error { return nil }, nil
	}

	client, cols, err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		return nil, nil, err
	}
	log.Info("mongo connected", slog.String("db", cfg.MongoDB))

	if err := db.EnsureIndexes(ctx, cols); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, err
	}
	return casestudies.NewMongoStore(cols.CaseStudies, cols.Counters), client.Disconnect, nil
}

// OpenCache returns a Redis cache when one is configured and a no-op cache
// otherwise.
func OpenCache(ctx context.Context, cfg *config.Config, log *slog.Logger) (cache.Cache, func(context.Context) error, error) {
	noop := func(context.Context) error { return nil }
	if cfg.RedisURL == "" && cfg.RedisAddr == "" {
		log.Info("redis disabled: response cache off")
		return cache.NewNoop(), noop, nil
	}

	var redisCache *cache.RedisCache
	if cfg.RedisURL != "" {
		var err error
		redisCache, err = cache.NewRedisFromURL(cfg.RedisURL, cfg.RedisPrefix)
		if err != nil {
			return nil, nil, err
		}
	} else {
		redisCache = cache.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.RedisPrefix)
	}
	if err := redisCache.Ping(ctx); err != nil {
		_ = redisCache.Close()
		return nil, nil, err
	}
	log.Info("redis connected", slog.String("prefix", cfg.RedisPrefix))
	return redisCache, func(context.Context) error { return redisCache.Close() }, nil
}
