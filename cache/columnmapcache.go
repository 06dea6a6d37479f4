// Package cache resolves per-table column maps once and reuses them for the
// lifetime of a cache entry, so repeated tables (or repeated CLI invocations
// against the same schema file within the TTL) skip re-reading and
// re-parsing the schema file.
package cache

import (
	"context"
	"time"

	gocachelib "github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	gocachestore "github.com/eko/gocache/store/go_cache/v4"
	gocache "github.com/patrickmn/go-cache"

	"github.com/gjmurakami-10gen/mongomerge/loader"
)

// DefaultTTL bounds how long a resolved column map is trusted before the
// schema file is re-read. It is not a correctness requirement: a cache miss
// simply re-resolves from disk, so DefaultTTL only trades staleness for
// fewer schema-file reads in a long-lived process.
const DefaultTTL = 5 * time.Minute

// ColumnMapCache memoizes loader.ColumnMapFor by schema file path and table
// name. The zero value is not usable; construct with NewColumnMapCache.
type ColumnMapCache struct {
	cache *gocachelib.Cache[loader.ColumnMap]
	ttl   time.Duration
}

// NewColumnMapCache builds a ColumnMapCache backed by an in-memory
// patrickmn/go-cache store, with entries expiring after ttl. A ttl of zero
// uses DefaultTTL.
func NewColumnMapCache(ttl time.Duration) *ColumnMapCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	client := gocache.New(ttl, 2*ttl)
	backingStore := gocachestore.NewGoCache(client)
	return &ColumnMapCache{
		cache: gocachelib.New[loader.ColumnMap](backingStore),
		ttl:   ttl,
	}
}

// Get returns the ColumnMap for (schemaFile, table), resolving and caching it
// on a miss. A cache hit returns the previously resolved map without
// touching the filesystem.
func (c *ColumnMapCache) Get(ctx context.Context, schemaFile, table string) (loader.ColumnMap, error) {
	key := cacheKey(schemaFile, table)

	if cm, err := c.cache.Get(ctx, key); err == nil {
		return cm, nil
	}

	cm, err := loader.ColumnMapFor(schemaFile, table)
	if err != nil {
		return nil, err
	}

	_ = c.cache.Set(ctx, key, cm, store.WithExpiration(c.ttl))
	return cm, nil
}

func cacheKey(schemaFile, table string) string {
	return schemaFile + "#" + table
}
