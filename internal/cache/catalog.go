// catalog.go provides a Valkey-backed cache for serialized catalog
// responses. Product reads dominate traffic while writes are rare admin
// actions, so every write path invalidates the whole catalog namespace
// rather than tracking fine-grained dependencies. The database stays the
// sole source of truth; a cold cache only costs a query.
package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// catalogKeyPrefix namespaces catalog entries in Valkey.
	catalogKeyPrefix = "catalog:"

	// DefaultCatalogTTL is how long a catalog response stays cached.
	DefaultCatalogTTL = 5 * time.Minute
)

// ListKey is the cache key for the full product listing.
func ListKey() string { return "products" }

// SlugKey is the cache key for a single product by slug.
func SlugKey(slug string) string { return "product:" + slug }

// CatalogCache manages serialized catalog responses in Valkey.
type CatalogCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCatalogCache creates a catalog cache backed by the given Valkey client.
func NewCatalogCache(client *redis.Client, ttl time.Duration) *CatalogCache {
	if ttl == 0 {
		ttl = DefaultCatalogTTL
	}
	return &CatalogCache{client: client, ttl: ttl}
}

// Get retrieves a cached response body. Cache errors degrade to a miss.
func (cc *CatalogCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := cc.client.Get(ctx, catalogKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("catalog cache get error", "key", key, "error", err)
		return nil, false
	}
	return val, true
}

// Set stores a response body with the configured TTL.
func (cc *CatalogCache) Set(ctx context.Context, key string, body []byte) {
	if err := cc.client.Set(ctx, catalogKeyPrefix+key, body, cc.ttl).Err(); err != nil {
		slog.Warn("catalog cache set error", "key", key, "error", err)
	}
}

// InvalidateAll removes every cached catalog entry by scanning the prefix.
// Called on any catalog write.
func (cc *CatalogCache) InvalidateAll(ctx context.Context) {
	var cursor uint64
	var deleted int
	for {
		keys, next, err := cc.client.Scan(ctx, cursor, catalogKeyPrefix+"*", 100).Result()
		if err != nil {
			slog.Warn("catalog cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := cc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("catalog cache delete error", "error", err)
				return
			}
			deleted += len(keys)
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	slog.Debug("catalog cache invalidated", "deleted", deleted)
}
