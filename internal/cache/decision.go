package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/crmgate/crmgate/internal/model"
)

// decisionCachePrefix is the Redis key prefix for authorization decisions.
const decisionCachePrefix = "auth:decision:"

// DecisionKey derives the cache key for a (token, resource) pair. The raw
// token never appears in Redis; only a hash of it does.
func DecisionKey(token, resource string) string {
	h := sha256.New()
	h.Write([]byte(token))
	h.Write([]byte{0}) // null byte delimiter between token and resource
	h.Write([]byte(resource))

	return hex.EncodeToString(h.Sum(nil))
}

// GetDecision retrieves a cached authorization effect by cache key.
// The second return value is false on a miss. Backend errors and corrupted
// entries are treated as misses; a cache failure must never turn into an
// Allow.
func (c *Cache) GetDecision(ctx context.Context, cacheKey string) (model.Effect, bool) {
	value, err := c.client.Get(ctx, decisionCachePrefix+cacheKey).Result()
	if err != nil {
		return "", false
	}

	effect := model.Effect(value)
	if effect != model.EffectAllow && effect != model.EffectDeny {
		return "", false
	}

	return effect, true
}

// SetDecision caches an authorization effect for ttl. Failures are returned
// so the caller can log them, but callers should not treat them as fatal.
func (c *Cache) SetDecision(ctx context.Context, cacheKey string, effect model.Effect, ttl time.Duration) error {
	return c.client.Set(ctx, decisionCachePrefix+cacheKey, string(effect), ttl).Err()
}
