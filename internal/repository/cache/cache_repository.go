package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/resource-store/internal/domain/repository"
)

// VersionKey holds the generation counter embedded in search cache keys.
// Bumping it orphans every cached result; TTL reclaims them.
const VersionKey = "resources:version"

type cacheRepository struct {
	client *redis.Client
	logger *zap.Logger
}

func NewCacheRepository(redis *Redis) repository.CacheRepository {
	return &cacheRepository{
		client: redis.Client(),
		logger: redis.logger,
	}
}

func (r *cacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil // Cache miss
	}
	if err != nil {
		r.logger.Error("Failed to get from cache", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("cache get error: %w", err)
	}

	r.logger.Debug("Cache hit", zap.String("key", key))
	return val, nil
}

func (r *cacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	err := r.client.Set(ctx, key, value, ttl).Err()
	if err != nil {
		r.logger.Error("Failed to set cache", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("cache set error: %w", err)
	}

	r.logger.Debug("Cache set", zap.String("key", key), zap.Duration("ttl", ttl))
	return nil
}

func (r *cacheRepository) Version(ctx context.Context) (int64, error) {
	v, err := r.client.Get(ctx, VersionKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		r.logger.Error("Failed to read cache version", zap.Error(err))
		return 0, fmt.Errorf("cache version error: %w", err)
	}
	return v, nil
}

func (r *cacheRepository) BumpVersion(ctx context.Context) (int64, error) {
	v, err := r.client.Incr(ctx, VersionKey).Result()
	if err != nil {
		r.logger.Error("Failed to bump cache version", zap.Error(err))
		return 0, fmt.Errorf("cache version bump error: %w", err)
	}

	r.logger.Debug("Cache version bumped", zap.Int64("version", v))
	return v, nil
}
