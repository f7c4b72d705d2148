// Package cache wraps a shared Redis client with JSON get/set helpers.
//
// A nil client (Redis unreachable at boot) degrades to a no-op: every Get
// is a miss and Set/Forget succeed silently, so the catalog keeps serving
// from MongoDB without Redis.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shashiranjanraj/chefhut/config"
	"github.com/shashiranjanraj/chefhut/pkg/metrics"
)

// RDB is the shared client. The queue's Redis driver reuses it so a
// deployment runs one connection pool, not two.
var RDB *redis.Client

var ctx = context.Background()

// keyPrefix namespaces Chefhut keys on shared Redis instances.
const keyPrefix = "chefhut:"

// Connect dials Redis using the configured address and verifies it with a
// ping. On failure RDB stays nil and the helpers no-op.
func Connect() error {
	client := redis.NewClient(&redis.Options{
		Addr:     config.RedisAddr(),
		Password: config.RedisPassword(),
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("cache: redis ping: %w", err)
	}
	RDB = client
	return nil
}

// Get unmarshals the cached value for key into dest. Reports whether it
// was a hit. Decode failures count as misses; the stale entry is left for
// the next Set to overwrite.
func Get(key string, dest interface{}) bool {
	if RDB == nil {
		return false
	}

	raw, err := RDB.Get(ctx, keyPrefix+key).Bytes()
	if err == nil {
		err = json.Unmarshal(raw, dest)
	}
	if err != nil {
		metrics.CacheMisses.WithLabelValues("redis").Inc()
		return false
	}

	metrics.CacheHits.WithLabelValues("redis").Inc()
	return true
}

// Set stores value under key for the given TTL.
func Set(key string, value interface{}, ttl time.Duration) error {
	if RDB == nil {
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache: marshal %s: %w", key, err)
	}
	return RDB.Set(ctx, keyPrefix+key, data, ttl).Err()
}

// Forget removes a key.
func Forget(key string) error {
	if RDB == nil {
		return nil
	}
	return RDB.Del(ctx, keyPrefix+key).Err()
}
