package services

import (
	"activityhub-backend/internal/database"
	"context"
	"errors"
	"time"
)

const denylistPrefix = "denylist:"

var errDenylistUnavailable = errors.New("token denylist requires redis")

func AddToDenylist(ctx context.Context, tokenString string, expiration time.Duration) error {
	if database.RedisClient == nil {
		return errDenylistUnavailable
	}
	key := denylistPrefix + tokenString
	return database.RedisClient.Set(ctx, key, 1, expiration).Err()
}

// IsDenylisted reports whether the token was revoked. Without redis nothing is revoked.
func IsDenylisted(ctx context.Context, tokenString string) (bool, error) {
	if database.RedisClient == nil {
		return false, nil
	}
	key := denylistPrefix + tokenString
	val, err := database.RedisClient.Get(ctx, key).Result()
	if err != nil {
		if database.IsNil(err) {
			return false, nil
		}
		return false, err
	}
	return val != "", nil
}
