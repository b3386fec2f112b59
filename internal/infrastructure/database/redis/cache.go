package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	appscene "github.com/turtacn/molscene/internal/application/scene"
	"github.com/turtacn/molscene/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/molscene/pkg/errors"
	"github.com/turtacn/molscene/pkg/types/common"
	scenetypes "github.com/turtacn/molscene/pkg/types/scene"
)

var (
	ErrCacheMiss = errors.New(errors.ErrCodeNotFound, "cache miss")
)

// DefaultKeyPrefix namespaces every scene key.
const DefaultKeyPrefix = "molscene:scene:"

// SceneCache stores assembled scenes as JSON.  Concurrent misses on the same
// key are collapsed into one build.
type SceneCache struct {
	client *Client
	logger logging.Logger
	prefix string
	jitter float64
	group  singleflight.Group
}

var _ appscene.Cache = (*SceneCache)(nil)

// CacheOption configures a SceneCache.
type CacheOption func(*SceneCache)

// WithPrefix replaces DefaultKeyPrefix.
func WithPrefix(prefix string) CacheOption {
	return func(c *SceneCache) { c.prefix = prefix }
}

// WithJitter sets the TTL jitter fraction; 0.1 spreads expiry over ±10%.
func WithJitter(fraction float64) CacheOption {
	return func(c *SceneCache) { c.jitter = fraction }
}

// NewSceneCache builds a cache over client.
func NewSceneCache(client *Client, log logging.Logger, opts ...CacheOption) *SceneCache {
	c := &SceneCache{
		client: client,
		logger: log.Named("scene_cache"),
		prefix: DefaultKeyPrefix,
		jitter: 0.1,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *SceneCache) fullKey(key string) string {
	return c.prefix + key
}

func (c *SceneCache) jitterTTL(ttl time.Duration) time.Duration {
	if ttl <= 0 || c.jitter <= 0 {
		return ttl
	}
	delta := float64(ttl) * c.jitter * (rand.Float64()*2 - 1)
	return ttl + time.Duration(delta)
}

// Get returns ErrCacheMiss when the key is absent or holds an undecodable
// value.
func (c *SceneCache) Get(ctx context.Context, key string) (*scenetypes.Scene, error) {
	data, err := c.client.Get(ctx, c.fullKey(key)).Bytes()
	if err == redis.Nil {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeCacheError, "failed to get from cache")
	}
	var s scenetypes.Scene
	if err := json.Unmarshal(data, &s); err != nil {
		c.logger.Warn("dropping undecodable cache entry", logging.String("key", key), logging.Err(err))
		return nil, ErrCacheMiss
	}
	return &s, nil
}

// Set stores s under key with a jittered ttl.  A zero ttl stores without
// expiry.
func (c *SceneCache) Set(ctx context.Context, key string, s *scenetypes.Scene, ttl time.Duration) error {
	data, err := json.Marshal(s)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode scene")
	}
	if err := c.client.Set(ctx, c.fullKey(key), data, c.jitterTTL(ttl)).Err(); err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "failed to set cache")
	}
	return nil
}

// GetOrBuild implements the application Cache port.  A failed write after a
// successful build is logged and the fresh scene is still returned.  Every
// caller gets its own copy with a fresh ID and CreatedAt, including callers
// that shared a single build.
func (c *SceneCache) GetOrBuild(ctx context.Context, key string, ttl time.Duration, build appscene.BuildFunc) (*scenetypes.Scene, bool, error) {
	s, err := c.Get(ctx, key)
	if err == nil {
		return restamp(s), true, nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		return nil, false, err
	}

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		built, buildErr := build(ctx)
		if buildErr != nil {
			return nil, buildErr
		}
		if setErr := c.Set(ctx, key, built, ttl); setErr != nil {
			c.logger.Warn("failed to store built scene", logging.String("key", key), logging.Err(setErr))
		}
		return built, nil
	})
	if err != nil {
		return nil, false, err
	}
	return restamp(v.(*scenetypes.Scene)), false, nil
}

func restamp(s *scenetypes.Scene) *scenetypes.Scene {
	out := s.Clone()
	out.ID = common.NewID()
	out.CreatedAt = common.NewTimestamp()
	return out
}

// DeleteByPrefix removes every scene whose key starts with prefix and
// returns how many were deleted.
func (c *SceneCache) DeleteByPrefix(ctx context.Context, prefix string) (int64, error) {
	var deleted int64
	var cursor uint64
	match := c.fullKey(prefix) + "*"
	for {
		keys, next, err := c.client.Scan(ctx, cursor, match, 100).Result()
		if err != nil {
			return deleted, errors.Wrap(err, errors.ErrCodeCacheError, "failed to scan cache")
		}
		if len(keys) > 0 {
			n, err := c.client.Del(ctx, keys...).Result()
			if err != nil {
				return deleted, errors.Wrap(err, errors.ErrCodeCacheError, "failed to delete cache keys")
			}
			deleted += n
		}
		cursor = next
		if cursor == 0 {
			return deleted, nil
		}
	}
}

// Ping checks the underlying connection.
func (c *SceneCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx)
}
