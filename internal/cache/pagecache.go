package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/openlearn/openlearn-backend/internal/logger"
	"github.com/openlearn/openlearn-backend/internal/types"
	"github.com/openlearn/openlearn-backend/internal/utils"
)

// PageCache is a read-through cache for assembled page trees, keyed by
// content scope. Misses and redis failures degrade to database reads; a nil
// *PageCache disables caching entirely.
type PageCache struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

func NewPageCache(log *logger.Logger) (*PageCache, error) {
	addr := utils.GetEnv("REDIS_ADDR", "", log)
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	ttlSeconds := utils.GetEnvAsInt("PAGE_CACHE_TTL_SECONDS", 300, log)

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

	return &PageCache{
		log: log.With("service", "PageCache"),
		rdb: rdb,
		ttl: time.Duration(ttlSeconds) * time.Second,
	}, nil
}

func (c *PageCache) key(scopeKey string) string {
	return "pages:" + scopeKey
}

func (c *PageCache) GetPages(ctx context.Context, scopeKey string) ([]*types.ContentPage, bool) {
	if c == nil {
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, c.key(scopeKey)).Bytes()
	if err != nil {
		if err != goredis.Nil {
			c.log.Warn("page cache read failed", "error", err, "scope", scopeKey)
		}
		return nil, false
	}
	var pages []*types.ContentPage
	if err := json.Unmarshal(raw, &pages); err != nil {
		c.log.Warn("page cache entry corrupt, dropping", "error", err, "scope", scopeKey)
		_ = c.rdb.Del(ctx, c.key(scopeKey)).Err()
		return nil, false
	}
	return pages, true
}

func (c *PageCache) SetPages(ctx context.Context, scopeKey string, pages []*types.ContentPage) {
	if c == nil {
		return
	}
	raw, err := json.Marshal(pages)
	if err != nil {
		c.log.Warn("page cache marshal failed", "error", err, "scope", scopeKey)
		return
	}
	if err := c.rdb.Set(ctx, c.key(scopeKey), raw, c.ttl).Err(); err != nil {
		c.log.Warn("page cache write failed", "error", err, "scope", scopeKey)
	}
}

func (c *PageCache) Invalidate(ctx context.Context, scopeKey string) {
	if c == nil {
		return
	}
	if err := c.rdb.Del(ctx, c.key(scopeKey)).Err(); err != nil {
		c.log.Warn("page cache invalidate failed", "error", err, "scope", scopeKey)
	}
}

func (c *PageCache) Close() error {
	if c == nil {
		return nil
	}
	return c.rdb.Close()
}
