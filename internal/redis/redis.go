package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

var Rdb *redis.Client

func InitRedis(redisAddress string, redisUsername string, redisPassword string) {
	Rdb = redis.NewClient(&redis.Options{
		Addr:     redisAddress,
		Username: redisUsername,
		Password: redisPassword,
		DB:       0,
	})
}

func Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if err := Rdb.Set(ctx, key, value, expiration).Err(); err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to set redis key")
		return err
	}
	return nil
}

// Get returns the value and whether the key existed.
func Get(ctx context.Context, key string) (string, bool, error) {
	val, err := Rdb.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to get redis key")
		return "", false, err
	}
	return val, true, nil
}

// GetDel returns the value, whether the key existed, and removes it
// in the same server-side step.
func GetDel(ctx context.Context, key string) (string, bool, error) {
	val, err := Rdb.GetDel(ctx, key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to consume redis key")
		return "", false, err
	}
	return val, true, nil
}

func Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := Rdb.Del(ctx, keys...).Err(); err != nil {
		log.Error().Err(err).Strs("keys", keys).Msg("failed to delete redis keys")
		return err
	}
	return nil
}

// ScanKeys collects keys matching pattern. Used by the maintenance
// sweep; not for hot paths.
func ScanKeys(ctx context.Context, pattern string) ([]string, error) {
	var out []string
	iter := Rdb.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		out = append(out, iter.Val())
	}
	if err := iter.Err(); err != nil {
		log.Error().Err(err).Str("pattern", pattern).Msg("failed to scan redis keys")
		return nil, err
	}
	return out, nil
}
