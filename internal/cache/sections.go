// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// sectionKeyPrefix namespaces cached section responses in Valkey.
	sectionKeyPrefix = "sections:"

	// DefaultSectionTTL bounds staleness for anonymous section reads when
	// an invalidation is missed.
	DefaultSectionTTL = 5 * time.Minute
)

// SectionCache stores serialized public section responses per (page, lang).
// It is strictly best-effort: every failure is logged and treated as a miss.
type SectionCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSectionCache creates a section cache backed by the given Valkey client.
func NewSectionCache(client *redis.Client, ttl time.Duration) *SectionCache {
	if ttl == 0 {
		ttl = DefaultSectionTTL
	}
	return &SectionCache{client: client, ttl: ttl}
}

// Key builds the cache key for a page and language. The empty language
// (bilingual response) gets its own variant.
func Key(page, lang string) string {
	if lang == "" {
		lang = "all"
	}
	return page + ":" + lang
}

// Get retrieves a cached response body. Returns false on miss or error.
func (sc *SectionCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := sc.client.Get(ctx, sectionKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("section cache get error", "key", key, "error", err)
		return nil, false
	}
	slog.Debug("section cache hit", "key", key)
	return val, true
}

// Set stores a response body for a key with the configured TTL.
func (sc *SectionCache) Set(ctx context.Context, key string, body []byte) {
	if err := sc.client.Set(ctx, sectionKeyPrefix+key, body, sc.ttl).Err(); err != nil {
		slog.Warn("section cache set error", "key", key, "error", err)
	}
}

// InvalidatePage removes every language variant cached for a page. Called
// after any mutation touching the page.
func (sc *SectionCache) InvalidatePage(ctx context.Context, page string) {
	var cursor uint64
	var deleted int
	for {
		keys, next, err := sc.client.Scan(ctx, cursor, sectionKeyPrefix+page+":*", 100).Result()
		if err != nil {
			slog.Warn("section cache scan error", "page", page, "error", err)
			return
		}
		if len(keys) > 0 {
			if err := sc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("section cache delete error", "page", page, "error", err)
			}
			deleted += len(keys)
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Debug("section cache invalidated", "page", page, "deleted", deleted)
	}
}
