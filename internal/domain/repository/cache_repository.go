package repository

import (
	"context"
	"time"
)

// CacheRepository определяет методы для работы с кешем
type CacheRepository interface {
	// Get получает значение из кеша по ключу
	Get(ctx context.Context, key string) ([]byte, error)

	// Set сохраняет значение в кеше с TTL
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Version returns the current generation of cached search results.
	Version(ctx context.Context) (int64, error)

	// BumpVersion invalidates every cached search result at once.
	BumpVersion(ctx context.Context) (int64, error)
}
