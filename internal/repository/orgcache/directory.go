// Package orgcache caches organization display names in a key-value store,
// decorating the relational directory. Names change rarely; cached entries
// expire on a configured TTL rather than being invalidated.
package orgcache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/foliodocs/folio/internal/db"
)

const keyPrefix = "folio:org:name:"

// directory is the consumer interface for the inner name source (ISP).
type directory interface {
	OrganizationNames(ctx context.Context, ids []int64) (map[int64]string, error)
}

// store is the consumer interface for the cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// CachedDirectory resolves organization names through a per-id cache.
type CachedDirectory struct {
	inner      directory
	store      store
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(
	inner directory,
	s store,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedDirectory {
	return &CachedDirectory{
		inner:      inner,
		store:      s,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// OrganizationNames returns cached names where present and resolves only the
// missing ids through the inner directory, writing those back. Cache failures
// degrade to inner lookups, never to errors.
func (c *CachedDirectory) OrganizationNames(ctx context.Context, ids []int64) (map[int64]string, error) {
	names := make(map[int64]string, len(ids))
	var missing []int64
	for _, id := range dedupe(ids) {
		if name, ok := c.getFromCache(ctx, id); ok {
			c.incCache("hit")
			names[id] = name
			continue
		}
		c.incCache("miss")
		missing = append(missing, id)
	}

	if len(missing) == 0 {
		return names, nil
	}

	fetched, err := c.inner.OrganizationNames(ctx, missing)
	if err != nil {
		return nil, fmt.Errorf("resolve organization names: %w", err)
	}
	for id, name := range fetched {
		names[id] = name
		c.putToCache(ctx, id, name)
	}
	return names, nil
}

func (c *CachedDirectory) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

func (c *CachedDirectory) getFromCache(ctx context.Context, id int64) (string, bool) {
	key := cacheKey(id)
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached organization name", zap.String("key", key), zap.Error(err))
		}
		return "", false
	}
	if len(data) == 0 {
		return "", false
	}
	return string(data), true
}

func (c *CachedDirectory) putToCache(ctx context.Context, id int64, name string) {
	key := cacheKey(id)
	if err := c.store.SetWithTTL(ctx, key, []byte(name), c.ttl); err != nil {
		c.logger.Warn("Failed to cache organization name", zap.String("key", key), zap.Error(err))
	}
}

func cacheKey(id int64) string {
	return keyPrefix + strconv.FormatInt(id, 10)
}

func dedupe(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
