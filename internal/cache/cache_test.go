// cache_test.go runs integration tests against a local Valkey on DB 15.
// Tests are skipped when Valkey is unreachable.
package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testClient returns a Valkey client on DB 15, skipping if unreachable.
func testClient(t *testing.T) *redis.Client {
	t.Helper()

	client := redis.NewClient(&redis.Options{
		Addr:     envOr("VALKEY_HOST", "localhost") + ":" + envOr("VALKEY_PORT", "6379"),
		Password: os.Getenv("VALKEY_PASSWORD"),
		DB:       15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		keys, _ := client.Keys(ctx, catalogKeyPrefix+"*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		client.Close()
	})

	return client
}

func TestCatalogCache_SetGet(t *testing.T) {
	cc := NewCatalogCache(testClient(t), time.Minute)
	ctx := context.Background()

	if _, ok := cc.Get(ctx, ListKey()); ok {
		t.Fatal("Get on empty cache: got hit, want miss")
	}

	body := []byte(`[{"slug":"asw-1200-1"}]`)
	cc.Set(ctx, ListKey(), body)

	got, ok := cc.Get(ctx, ListKey())
	if !ok {
		t.Fatal("Get after Set: got miss, want hit")
	}
	if string(got) != string(body) {
		t.Errorf("Get: got %q, want %q", got, body)
	}
}

func TestCatalogCache_InvalidateAll(t *testing.T) {
	cc := NewCatalogCache(testClient(t), time.Minute)
	ctx := context.Background()

	cc.Set(ctx, ListKey(), []byte(`[]`))
	cc.Set(ctx, SlugKey("asw-1200-1"), []byte(`{}`))

	cc.InvalidateAll(ctx)

	if _, ok := cc.Get(ctx, ListKey()); ok {
		t.Error("list entry survived InvalidateAll")
	}
	if _, ok := cc.Get(ctx, SlugKey("asw-1200-1")); ok {
		t.Error("slug entry survived InvalidateAll")
	}
}

func TestCatalogCache_TTLDefault(t *testing.T) {
	cc := NewCatalogCache(testClient(t), 0)
	if cc.ttl != DefaultCatalogTTL {
		t.Errorf("ttl: got %v, want %v", cc.ttl, DefaultCatalogTTL)
	}
}
