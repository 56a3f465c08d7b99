package database

import (
	"activityhub-backend/config"
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
)

var (
	RedisClient *redis.Client
	Ctx         = context.Background()
)

func ConnectRedis(cfg *config.Config) error {
	RedisClient = redis.NewClient(&redis.Options{
		Addr:     cfg.RedisFullAddr(),
		Password: cfg.RedisPassword,
		DB:       0, // use default DB
	})

	if _, err := RedisClient.Ping(Ctx).Result(); err != nil {
		RedisClient.Close()
		RedisClient = nil
		return err
	}
	return nil
}

// CacheGet returns the cached value, or ok=false on a miss or when redis is not configured.
func CacheGet(ctx context.Context, key string) (string, bool) {
	if RedisClient == nil {
		return "", false
	}
	val, err := RedisClient.Get(ctx, key).Result()
	if err != nil {
		return "", false
	}
	return val, true
}

// CacheSet is best effort; cache failures never fail the caller.
func CacheSet(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if RedisClient == nil {
		return
	}
	RedisClient.Set(ctx, key, value, ttl)
}

func CacheDel(ctx context.Context, keys ...string) {
	if RedisClient == nil || len(keys) == 0 {
		return
	}
	RedisClient.Del(ctx, keys...)
}

// IsNil reports a redis miss.
func IsNil(err error) bool {
	return errors.Is(err, redis.Nil)
}
