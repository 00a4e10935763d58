package cache

import (
	"context"
	"strings"

	"horizonfolio/internal/logger"

	"github.com/redis/go-redis/v9"
)

var Client *redis.Client

var (
	newRedisClient = func(opts *redis.Options) *redis.Client {
		return redis.NewClient(opts)
	}
	pingRedis = func(ctx context.Context, client *redis.Client) error {
		return client.Ping(ctx).Err()
	}
	parseRedisURL = redis.ParseURL
)

// InitRedis connects Client to addr, which may be host:port or a redis:// URL.
// An empty addr leaves Client nil.
func InitRedis(ctx context.Context, addr string) {
	log := logger.WithComponent("cache")
	if addr == "" {
		return
	}

	opts := &redis.Options{Addr: addr}
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		parsed, err := parseRedisURL(addr)
		if err != nil {
			log.WithError(err).Fatal("failed to parse REDIS_URL")
		}
		opts = parsed
	}

	Client = newRedisClient(opts)
	if err := pingRedis(ctx, Client); err != nil {
		log.WithError(err).Fatal("failed to connect to Redis")
	}
	log.WithField("addr", opts.Addr).Info("connected to Redis")
}
