package queue

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shashiranjanraj/chefhut/pkg/logger"
)

const (
	redisJobsKey    = "chefhut:queue:jobs"
	redisDelayedKey = "chefhut:queue:delayed"
)

// RedisDriver stores jobs in a Redis list so multiple processes can share
// one queue. Delayed jobs live in a sorted set scored by their ready time.
type RedisDriver struct {
	client *redis.Client
}

// NewRedisDriver wraps an existing Redis client. It also starts the
// promoter goroutine that moves due delayed jobs onto the main list.
func NewRedisDriver(client *redis.Client) *RedisDriver {
	d := &RedisDriver{client: client}
	go d.promoteDelayedJobs()
	return d
}

func (d *RedisDriver) Push(payload []byte) error {
	return d.client.LPush(context.Background(), redisJobsKey, payload).Err()
}

// PushDelayed schedules payload to become available after delay.
func (d *RedisDriver) PushDelayed(payload []byte, delay time.Duration) error {
	score := float64(time.Now().Add(delay).Unix())
	return d.client.ZAdd(context.Background(), redisDelayedKey, redis.Z{
		Score:  score,
		Member: payload,
	}).Err()
}

func (d *RedisDriver) Pop(ctx context.Context) ([]byte, error) {
	res, err := d.client.BRPop(ctx, 5*time.Second, redisJobsKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // timeout, no job
		}
		return nil, err
	}
	// BRPop returns [key, value]
	if len(res) < 2 {
		return nil, nil
	}
	return []byte(res[1]), nil
}

// promoteDelayedJobs periodically moves jobs whose time has come from the
// delayed sorted set onto the main list.
func (d *RedisDriver) promoteDelayedJobs() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for range ticker.C {
		ctx := context.Background()
		now := strconv.FormatInt(time.Now().Unix(), 10)

		jobs, err := d.client.ZRangeByScore(ctx, redisDelayedKey, &redis.ZRangeBy{
			Min: "-inf",
			Max: now,
		}).Result()
		if err != nil || len(jobs) == 0 {
			continue
		}

		for _, raw := range jobs {
			if err := d.client.LPush(ctx, redisJobsKey, raw).Err(); err != nil {
				logger.Error("queue: promote delayed job", "error", err)
				continue
			}
			d.client.ZRem(ctx, redisDelayedKey, raw)
		}
	}
}
