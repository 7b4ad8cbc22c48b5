package location

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RuleCache caches the rule list of a location between booking requests
type RuleCache interface {
	Get(ctx context.Context, locationID uuid.UUID) ([]Rule, bool, error)
	Set(ctx context.Context, locationID uuid.UUID, rules []Rule) error
	Invalidate(ctx context.Context, locationID uuid.UUID) error
}

// redisClient is the subset of *redis.Client the cache needs
type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

type redisRuleCache struct {
	client redisClient
	ttl    time.Duration
}

// NewRuleCache returns a Redis-backed cache, or a no-op cache when client is nil
func NewRuleCache(client *redis.Client, ttl time.Duration) RuleCache {
	if client == nil {
		return nopRuleCache{}
	}
	return &redisRuleCache{client: client, ttl: ttl}
}

func ruleCacheKey(locationID uuid.UUID) string {
	return fmt.Sprintf("rules:%s", locationID)
}

func (c *redisRuleCache) Get(ctx context.Context, locationID uuid.UUID) ([]Rule, bool, error) {
	val, err := c.client.Get(ctx, ruleCacheKey(locationID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var rules []Rule
	if err := json.Unmarshal(val, &rules); err != nil {
		return nil, false, err
	}
	return rules, true, nil
}

func (c *redisRuleCache) Set(ctx context.Context, locationID uuid.UUID, rules []Rule) error {
	if rules == nil {
		rules = []Rule{}
	}
	data, err := json.Marshal(rules)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, ruleCacheKey(locationID), data, c.ttl).Err()
}

func (c *redisRuleCache) Invalidate(ctx context.Context, locationID uuid.UUID) error {
	return c.client.Del(ctx, ruleCacheKey(locationID)).Err()
}

type nopRuleCache struct{}

func (nopRuleCache) Get(context.Context, uuid.UUID) ([]Rule, bool, error) { return nil, false, nil }
func (nopRuleCache) Set(context.Context, uuid.UUID, []Rule) error         { return nil }
func (nopRuleCache) Invalidate(context.Context, uuid.UUID) error          { return nil }
