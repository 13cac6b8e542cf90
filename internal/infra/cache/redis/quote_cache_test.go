package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"campstation/internal/app/policies"
)

// Runs against a real server: REDIS_TEST_ADDR=localhost:6379 go test ./internal/infra/cache/redis
func TestQuoteCacheAgainstRedis(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}
	ctx := context.Background()
	cache, err := NewQuoteCache(ctx, addr, "", 15)
	if err != nil {
		t.Fatalf("NewQuoteCache: %v", err)
	}
	defer cache.Close()

	site := time.Now().UnixNano()
	other := site + 1
	gen, err := cache.Generation(ctx, site)
	if err != nil {
		t.Fatalf("Generation: %v", err)
	}
	for i, key := range []string{"a", "b", "c"} {
		if ok, err := cache.Set(ctx, site, gen, policies.QuoteKeyPrefix(site)+key, []byte{byte(i)}, time.Minute); err != nil || !ok {
			t.Fatalf("Set = %v, %v", ok, err)
		}
	}
	if ok, err := cache.Set(ctx, other, 0, policies.QuoteKeyPrefix(other)+"a", []byte("x"), time.Minute); err != nil || !ok {
		t.Fatalf("Set = %v, %v", ok, err)
	}
	if v, ok, err := cache.Get(ctx, policies.QuoteKeyPrefix(site)+"b"); err != nil || !ok || len(v) != 1 || v[0] != 1 {
		t.Fatalf("Get = %v, %v, %v", v, ok, err)
	}
	removed, err := cache.InvalidateSite(ctx, site)
	if err != nil || removed != 3 {
		t.Fatalf("InvalidateSite = %d, %v", removed, err)
	}
	if _, ok, _ := cache.Get(ctx, policies.QuoteKeyPrefix(site)+"a"); ok {
		t.Fatal("entry survived invalidation")
	}
	if _, ok, _ := cache.Get(ctx, policies.QuoteKeyPrefix(other)+"a"); !ok {
		t.Fatal("other site entry was removed")
	}
	if ok, err := cache.Set(ctx, site, gen, policies.QuoteKeyPrefix(site)+"a", []byte("stale"), time.Minute); err != nil || ok {
		t.Fatalf("Set at old generation = %v, %v; want dropped", ok, err)
	}
	_, _ = cache.InvalidateSite(ctx, other)
	_ = cache.client.Del(ctx, policies.QuoteGenerationKey(site), policies.QuoteGenerationKey(other)).Err()
}
