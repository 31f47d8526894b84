// Package visitors keeps the site visit counter in Redis. A single INCR
// per hit keeps the counter atomic across instances.
package visitors

import (
	"context"

	"github.com/go-redis/redis/v8"
	goerrors "github.com/goliatone/go-errors"
)

const counterKey = "alumni:visitors"

// Counter tracks and reports total site visits.
type Counter interface {
	Increment(ctx context.Context) (int64, error)
	Current(ctx context.Context) (int64, error)
}

type redisCounter struct {
	client *redis.Client
}

var _ Counter = (*redisCounter)(nil)

func NewRedisCounter(client *redis.Client) Counter {
	return &redisCounter{client: client}
}

func (c *redisCounter) Increment(ctx context.Context) (int64, error) {
	count, err := c.client.Incr(ctx, counterKey).Result()
	if err != nil {
		return 0, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to increment visitor counter")
	}
	return count, nil
}

func (c *redisCounter) Current(ctx context.Context) (int64, error) {
	count, err := c.client.Get(ctx, counterKey).Int64()
	if err != nil {
		if goerrors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to read visitor counter")
	}
	return count, nil
}
