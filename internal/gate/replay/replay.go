// Package replay makes answer tokens single-use by remembering spent token
// IDs in Redis until the token would have expired anyway.
package replay

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultPrefix = "bb:spent"

var ErrBackend = errors.New("replay guard backend unavailable")

type Guard struct {
	redis  redis.UniversalClient
	prefix string
	now    func() time.Time
}

func New(client redis.UniversalClient, prefix string) *Guard {
	if prefix == "" {
		prefix = defaultPrefix
	}
	return &Guard{redis: client, prefix: prefix, now: time.Now}
}

// NewFromURL parses a redis:// URL and pings the server.
func NewFromURL(ctx context.Context, rawURL string) (*Guard, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%w: %w", ErrBackend, err)
	}
	return New(client, ""), nil
}

func (g *Guard) key(id string) string {
	return g.prefix + ":" + id
}

// Spend marks id as spent until the given time. It returns false when id
// was already spent. An id already past until is reported as spent.
func (g *Guard) Spend(ctx context.Context, id string, until time.Time) (bool, error) {
	if id == "" {
		return false, nil
	}
	ttl := until.Sub(g.now())
	if ttl <= 0 {
		return false, nil
	}
	ok, err := g.redis.SetNX(ctx, g.key(id), 1, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrBackend, err)
	}
	return ok, nil
}

func (g *Guard) Ping(ctx context.Context) error {
	if err := g.redis.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrBackend, err)
	}
	return nil
}

func (g *Guard) Close() error {
	return g.redis.Close()
}
