// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// publication.go provides a Valkey-backed cache for serialized public
// publication responses. The public read path is read-heavy; caching the
// JSON body skips the DB query and the tag/attachment hydration. Any
// write through the lifecycle manager invalidates the affected slug.
package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// publicationKeyPrefix is the Valkey key prefix for cached responses.
	publicationKeyPrefix = "pub:"

	// DefaultPublicationTTL is how long a cached response stays valid.
	// Invalidation on write keeps this from being load-bearing.
	DefaultPublicationTTL = 5 * time.Minute
)

// PublicationCache stores serialized publication responses keyed by slug.
type PublicationCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPublicationCache creates a publication cache backed by the given
// Valkey client.
func NewPublicationCache(client *redis.Client, ttl time.Duration) *PublicationCache {
	if ttl == 0 {
		ttl = DefaultPublicationTTL
	}
	return &PublicationCache{client: client, ttl: ttl}
}

// Get retrieves a cached response body by slug. Returns false on miss.
// Cache errors are misses; the DB is the source of truth.
func (pc *PublicationCache) Get(ctx context.Context, slug string) ([]byte, bool) {
	val, err := pc.client.Get(ctx, publicationKeyPrefix+slug).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("publication cache get error", "slug", slug, "error", err)
		return nil, false
	}
	slog.Debug("publication cache hit", "slug", slug)
	return val, true
}

// Set stores a serialized response body for a slug with the configured TTL.
func (pc *PublicationCache) Set(ctx context.Context, slug string, body []byte) {
	if err := pc.client.Set(ctx, publicationKeyPrefix+slug, body, pc.ttl).Err(); err != nil {
		slog.Warn("publication cache set error", "slug", slug, "error", err)
	}
}

// Invalidate removes a single cached publication by slug.
func (pc *PublicationCache) Invalidate(ctx context.Context, slug string) {
	if err := pc.client.Del(ctx, publicationKeyPrefix+slug).Err(); err != nil {
		slog.Warn("publication cache invalidate error", "slug", slug, "error", err)
	}
	slog.Debug("publication cache invalidated", "slug", slug)
}

// InvalidateAll removes every cached publication by scanning the prefix.
// Used on category changes, which can affect many publications at once.
func (pc *PublicationCache) InvalidateAll(ctx context.Context) {
	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := pc.client.Scan(ctx, cursor, publicationKeyPrefix+"*", 100).Result()
		if err != nil {
			slog.Warn("publication cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := pc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("publication cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Info("publication cache fully cleared", "deleted", deleted)
	}
}
