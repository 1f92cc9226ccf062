package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/maher4real/support-ticket-system/internal/domain"
	"github.com/maher4real/support-ticket-system/internal/persistence"
)

const statsKey = "tickets:stats"

// StatsCache stores the aggregated ticket stats behind a short TTL.
type StatsCache interface {
	Get(ctx context.Context) (*domain.TicketStats, bool)
	Set(ctx context.Context, stats *domain.TicketStats)
	Invalidate(ctx context.Context)
}

type redisStatsCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisStatsCache builds a cache over the shared Redis connection. A nil
// connection or non-positive TTL disables caching; every Get then misses.
func NewRedisStatsCache(r *persistence.Redis, ttl time.Duration, logger *zap.Logger) StatsCache {
	var client *redis.Client
	if r != nil {
		client = r.Client
	}
	return &redisStatsCache{client: client, ttl: ttl, logger: logger}
}

func (c *redisStatsCache) enabled() bool {
	return c.client != nil && c.ttl > 0
}

// Get returns the cached stats when present. Any Redis error counts as a
// cache miss.
func (c *redisStatsCache) Get(ctx context.Context) (*domain.TicketStats, bool) {
	if !c.enabled() {
		return nil, false
	}
	payload, err := c.client.Get(ctx, statsKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("stats cache read failed", zap.Error(err))
		}
		return nil, false
	}
	var stats domain.TicketStats
	if err := json.Unmarshal(payload, &stats); err != nil {
		c.logger.Warn("stats cache payload corrupt", zap.Error(err))
		return nil, false
	}
	return &stats, true
}

// Set stores the stats for the configured TTL.
func (c *redisStatsCache) Set(ctx context.Context, stats *domain.TicketStats) {
	if !c.enabled() || stats == nil {
		return
	}
	payload, err := json.Marshal(stats)
	if err != nil {
		c.logger.Warn("stats cache encode failed", zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, statsKey, payload, c.ttl).Err(); err != nil {
		c.logger.Warn("stats cache write failed", zap.Error(err))
	}
}

// Invalidate drops the cached stats, called on every ticket write.
func (c *redisStatsCache) Invalidate(ctx context.Context) {
	if c.client == nil {
		return
	}
	if err := c.client.Del(ctx, statsKey).Err(); err != nil {
		c.logger.Warn("stats cache invalidation failed", zap.Error(err))
	}
}
