package repositories

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss - ключа нет в кеше.
var ErrCacheMiss = errors.New("ключ не найден в кеше")

type CacheRepositoryInterface interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	// Get возвращает ErrCacheMiss, если ключа нет.
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	// IncrWithTTL увеличивает счетчик; TTL ставится только новому ключу,
	// так что окно отсчитывается от первой попытки.
	IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error)
}
