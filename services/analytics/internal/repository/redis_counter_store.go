package repository

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

const statusCountsKey = "status-counts"

type redisCounterStore struct {
	client *redis.Client
}

// NewRedisCounterStore keeps the counts in a Redis hash so they survive
// restarts and can be read by several API replicas.
func NewRedisCounterStore(client *redis.Client) CounterStore {
	return &redisCounterStore{client: client}
}

func (s *redisCounterStore) Increment(ctx context.Context, status string) error {
	if err := s.client.HIncrBy(ctx, statusCountsKey, status, 1).Err(); err != nil {
		return fmt.Errorf("failed to increment status count for %s: %w", status, err)
	}

	return nil
}

func (s *redisCounterStore) Snapshot(ctx context.Context) (map[string]int64, error) {
	raw, err := s.client.HGetAll(ctx, statusCountsKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read status counts: %w", err)
	}

	snapshot := make(map[string]int64, len(raw))
	for status, value := range raw {
		count, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("corrupt status count for %s: %w", status, err)
		}
		snapshot[status] = count
	}

	return snapshot, nil
}
