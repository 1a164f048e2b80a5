package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/finsignal/riskgraph-backend/internal/domain"
	"github.com/finsignal/riskgraph-backend/internal/platform/logger"
)

// Cache keeps the most recent fetch results per company/ticker in Redis so
// the HTTP risk and condition endpoints reuse the watcher's fetches instead
// of hammering the external providers on every request.
type Cache struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

// NewCacheFromEnv returns (nil, nil) when REDIS_ADDR is unset; callers wire
// the raw sources directly in that case.
func NewCacheFromEnv(log *logger.Logger) (*Cache, error) {
	if log == nil {
		return nil, fmt.Errorf("fetch cache: logger required")
	}
	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, nil
	}

	ttl := 5 * time.Minute
	if v := strings.TrimSpace(os.Getenv("FETCH_CACHE_TTL")); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil && parsed > 0 {
			ttl = parsed
		}
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    os.Getenv("REDIS_PASSWORD"),
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("fetch cache: redis ping: %w", err)
	}

	return &Cache{
		log: log.With("service", "FetchCache"),
		rdb: rdb,
		ttl: ttl,
	}, nil
}

func (c *Cache) Close() error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}

func (c *Cache) get(ctx context.Context, key string, dest any) bool {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, dest) == nil
}

func (c *Cache) set(ctx context.Context, key string, val any) {
	raw, err := json.Marshal(val)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.log.Warn("cache write failed", "key", key, "error", err)
	}
}

// CachedNewsSource is a read-through decorator over a NewsSource.
type CachedNewsSource struct {
	inner NewsSource
	cache *Cache
}

func NewCachedNewsSource(inner NewsSource, cache *Cache) NewsSource {
	if cache == nil {
		return inner
	}
	return &CachedNewsSource{inner: inner, cache: cache}
}

func (s *CachedNewsSource) FetchNews(ctx context.Context, companyName string) ([]domain.NewsItem, error) {
	key := "news:" + strings.ToLower(companyName)
	var cached []domain.NewsItem
	if s.cache.get(ctx, key, &cached) {
		return cached, nil
	}
	items, err := s.inner.FetchNews(ctx, companyName)
	if err != nil {
		return nil, err
	}
	s.cache.set(ctx, key, items)
	return items, nil
}

// CachedMarketSource is a read-through decorator over a MarketSource. Absent
// snapshots are not cached; a nil result is cheap to recompute and caching
// it would mask a ticker coming back online.
type CachedMarketSource struct {
	inner MarketSource
	cache *Cache
}

func NewCachedMarketSource(inner MarketSource, cache *Cache) MarketSource {
	if cache == nil {
		return inner
	}
	return &CachedMarketSource{inner: inner, cache: cache}
}

func (s *CachedMarketSource) FetchMarket(ctx context.Context, ticker string) (*domain.MarketSnapshot, error) {
	key := "market:" + strings.ToUpper(ticker)
	var cached domain.MarketSnapshot
	if s.cache.get(ctx, key, &cached) {
		return &cached, nil
	}
	snap, err := s.inner.FetchMarket(ctx, ticker)
	if err != nil {
		return nil, err
	}
	if snap != nil {
		s.cache.set(ctx, key, snap)
	}
	return snap, nil
}
