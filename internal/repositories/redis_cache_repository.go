package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
)

const cacheKeyPrefix = "hr:"

// INCR и PEXPIRE одним вызовом: счетчик без TTL после сбоя между командами не остается.
var incrWithTTLScript = redis.NewScript(`
local n = redis.call('INCR', KEYS[1])
if n == 1 then
	redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
return n
`)

// RedisCacheRepository - кеш прав и счетчики входа. Все ключи получают префикс сервиса.
type RedisCacheRepository struct {
	client *redis.Client
}

func NewRedisCacheRepository(client *redis.Client) CacheRepositoryInterface {
	return &RedisCacheRepository{client: client}
}

func (r *RedisCacheRepository) Get(ctx context.Context, key string) (string, error) {
	value, err := r.client.Get(ctx, cacheKeyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrCacheMiss
	}
	return value, err
}

func (r *RedisCacheRepository) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return r.client.Set(ctx, cacheKeyPrefix+key, value, expiration).Err()
}

func (r *RedisCacheRepository) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	prefixed := make([]string, len(keys))
	for i, key := range keys {
		prefixed[i] = cacheKeyPrefix + key
	}
	return r.client.Del(ctx, prefixed...).Err()
}

func (r *RedisCacheRepository) IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	return incrWithTTLScript.Run(ctx, r.client, []string{cacheKeyPrefix + key}, ttl.Milliseconds()).Int64()
}
