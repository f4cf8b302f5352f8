package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const connectTimeout = 5 * time.Second

// Connect opens the Redis client backing the login throttle and confirms
// it answers a ping. The throttle degrades gracefully at runtime when
// Redis drops out, but startup insists on a reachable instance so a
// misconfigured address surfaces immediately.
func Connect(ctx context.Context, addr string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("throttle store ping: %w", err)
	}

	return client, nil
}
