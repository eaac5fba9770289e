package registry

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"sensorgate/internal/platform/redis"
	"sensorgate/pkg/platform/sentinel"
)

const (
	decisionKeyPrefix = "sensorgate:authz:"

	cachedAllow = "allow"
	cachedDeny  = "deny"
)

// RedisDecisionCache keeps recent authorization decisions in Redis so hot
// devices skip the registry lookup. Both allows and denies are cached: a
// flood from a deactivated device should not hammer the registry either.
type RedisDecisionCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisDecisionCache constructs a decision cache with the given TTL.
// The TTL bounds how long a deactivation takes to propagate.
func NewRedisDecisionCache(client *redis.Client, ttl time.Duration) *RedisDecisionCache {
	return &RedisDecisionCache{client: client, ttl: ttl}
}

func (c *RedisDecisionCache) GetDecision(ctx context.Context, deviceID string) (bool, error) {
	val, err := c.client.Get(ctx, decisionKeyPrefix+deviceID).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return false, sentinel.ErrNotFound
		}
		return false, fmt.Errorf("get cached decision: %w", err)
	}
	return val == cachedAllow, nil
}

func (c *RedisDecisionCache) SetDecision(ctx context.Context, deviceID string, allowed bool) error {
	val := cachedDeny
	if allowed {
		val = cachedAllow
	}
	if err := c.client.Set(ctx, decisionKeyPrefix+deviceID, val, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache decision: %w", err)
	}
	return nil
}
