package provider

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/apex/log"
	"github.com/go-redis/redis/v8"
)

// CachedProvider is a Redis read-through in front of a Provider. Provider
// calls are slow (remote imagery reduction), repeat analyses of the same
// region and window are common, so responses are cached by request hash.
// Any cache failure falls through to the inner provider.
type CachedProvider struct {
	inner Provider
	rdb   *redis.Client
	ttl   time.Duration
}

// NewCachedProvider wraps inner with a Redis cache.
func NewCachedProvider(inner Provider, rdb *redis.Client, ttl time.Duration) *CachedProvider {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &CachedProvider{inner: inner, rdb: rdb, ttl: ttl}
}

func cacheKey(box BBox, window Window) string {
	raw, _ := json.Marshal(statisticsReq{BBox: box, Window: window})
	sum := sha256.Sum256(raw)
	return "gaiaeye:stats:" + hex.EncodeToString(sum[:])
}

// ZonalStatistics serves from cache when possible; only successful
// provider responses are written back, so ErrDataUnavailable is never
// cached.
func (p *CachedProvider) ZonalStatistics(ctx context.Context, box BBox, window Window) (*Statistics, error) {
	key := cacheKey(box, window)

	if raw, err := p.rdb.Get(ctx, key).Bytes(); err == nil {
		var cached Statistics
		if err := json.Unmarshal(raw, &cached); err == nil {
			log.WithField("key", key).Debug("statistics cache hit")
			return &cached, nil
		}
	} else if err != redis.Nil {
		log.WithError(err).Warn("statistics cache read failed")
	}

	out, err := p.inner.ZonalStatistics(ctx, box, window)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(out); err == nil {
		if err := p.rdb.Set(ctx, key, raw, p.ttl).Err(); err != nil {
			log.WithError(err).Warn("statistics cache write failed")
		}
	}
	return out, nil
}

// NewRedisClient connects to addr and verifies the connection.
func NewRedisClient(ctx context.Context, addr string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}
