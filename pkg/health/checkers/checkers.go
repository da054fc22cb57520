package checkers

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

const pingTimeout = time.Second

// PingChecker reports a dependency as ready when its ping succeeds within a second.
type PingChecker struct {
	name string
	ping func(ctx context.Context) error
}

func (c *PingChecker) Name() string { return c.name }

func (c *PingChecker) Check(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return c.ping(ctx)
}

func NewPostgresChecker(pool *pgxpool.Pool) *PingChecker {
	return &PingChecker{name: "postgres", ping: pool.Ping}
}

func NewRedisChecker(rdb *redis.Client) *PingChecker {
	return &PingChecker{
		name: "redis",
		ping: func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
	}
}
