// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// testValkeyClient returns a Redis client for tests.
// Skips if Valkey is unavailable.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")
	password := os.Getenv("VALKEY_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15, // Use DB 15 for tests.
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping integration test: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		keys, _ := client.Keys(ctx, "pub:*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		client.Close()
	})

	return client
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func TestPublicationCacheRoundTrip(t *testing.T) {
	client := testValkeyClient(t)
	pc := NewPublicationCache(client, time.Minute)
	ctx := context.Background()

	if _, ok := pc.Get(ctx, "missing-slug"); ok {
		t.Error("expected miss for unknown slug")
	}

	body := []byte(`{"slug":"festival-recap"}`)
	pc.Set(ctx, "festival-recap", body)

	got, ok := pc.Get(ctx, "festival-recap")
	if !ok {
		t.Fatal("expected hit after Set")
	}
	if string(got) != string(body) {
		t.Errorf("got %q, want %q", got, body)
	}

	pc.Invalidate(ctx, "festival-recap")
	if _, ok := pc.Get(ctx, "festival-recap"); ok {
		t.Error("expected miss after Invalidate")
	}
}

func TestPublicationCacheInvalidateAll(t *testing.T) {
	client := testValkeyClient(t)
	pc := NewPublicationCache(client, time.Minute)
	ctx := context.Background()

	for _, slug := range []string{"one", "two", "three"} {
		pc.Set(ctx, slug, []byte(slug))
	}
	pc.InvalidateAll(ctx)

	for _, slug := range []string{"one", "two", "three"} {
		if _, ok := pc.Get(ctx, slug); ok {
			t.Errorf("slug %q still cached after InvalidateAll", slug)
		}
	}
}

func TestPublicationCacheTTLExpires(t *testing.T) {
	client := testValkeyClient(t)
	pc := NewPublicationCache(client, 50*time.Millisecond)
	ctx := context.Background()

	pc.Set(ctx, "short-lived", []byte("x"))
	time.Sleep(100 * time.Millisecond)

	if _, ok := pc.Get(ctx, "short-lived"); ok {
		t.Error("expected entry to expire")
	}
}
