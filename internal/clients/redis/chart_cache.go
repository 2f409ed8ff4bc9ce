package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/sachinottawa/call-agent-backend/internal/logger"
	"github.com/sachinottawa/call-agent-backend/internal/types"
)

// ChartCache keeps aggregated hourly stats per email so repeated dashboard
// loads skip the database round trip. Entries are invalidated whenever the
// email's dataset is replaced. Cache failures are never fatal; callers fall
// through to the aggregator.
type ChartCache interface {
	Get(ctx context.Context, email string) ([]types.HourlyCallStat, bool)
	Set(ctx context.Context, email string, rows []types.HourlyCallStat)
	Invalidate(ctx context.Context, email string)
	Close() error
}

type chartCache struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

func NewChartCache(log *logger.Logger, addr string, ttl time.Duration) (ChartCache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if addr == "" {
		return nil, fmt.Errorf("missing redis address")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &chartCache{
		log: log.With("service", "ChartCache"),
		rdb: rdb,
		ttl: ttl,
	}, nil
}

func chartKey(email string) string {
	return "chartdata:" + email
}

func (c *chartCache) Get(ctx context.Context, email string) ([]types.HourlyCallStat, bool) {
	raw, err := c.rdb.Get(ctx, chartKey(email)).Bytes()
	if err != nil {
		if err != goredis.Nil {
			c.log.Warn("Chart cache read failed", "email", email, "error", err)
		}
		return nil, false
	}
	var rows []types.HourlyCallStat
	if err := json.Unmarshal(raw, &rows); err != nil {
		c.log.Warn("Chart cache entry corrupt, dropping", "email", email, "error", err)
		_ = c.rdb.Del(ctx, chartKey(email)).Err()
		return nil, false
	}
	return rows, true
}

func (c *chartCache) Set(ctx context.Context, email string, rows []types.HourlyCallStat) {
	raw, err := json.Marshal(rows)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, chartKey(email), raw, c.ttl).Err(); err != nil {
		c.log.Warn("Chart cache write failed", "email", email, "error", err)
	}
}

func (c *chartCache) Invalidate(ctx context.Context, email string) {
	if err := c.rdb.Del(ctx, chartKey(email)).Err(); err != nil {
		c.log.Warn("Chart cache invalidation failed", "email", email, "error", err)
	}
}

func (c *chartCache) Close() error {
	return c.rdb.Close()
}
