// Package app wires configuration, infrastructure and the HTTP surface into a
// runnable molscene server.
package app

import (
	"context"
	stderrors "errors"

	appscene "github.com/turtacn/molscene/internal/application/scene"
	"github.com/turtacn/molscene/internal/config"
	"github.com/turtacn/molscene/internal/infrastructure/database/redis"
	"github.com/turtacn/molscene/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/molscene/internal/infrastructure/storage/minio"
	"github.com/turtacn/molscene/internal/interfaces/http/handlers"
)

// Component names used by readiness probes.
const (
	ComponentRedis = "redis"
	ComponentMinIO = "minio"
)

// Backends holds the optional stores.  A nil field means the component is
// not configured.
type Backends struct {
	Redis *redis.Client
	Cache *redis.SceneCache
	Files *minio.Mol2Store
}

// ConnectBackends dials every configured store.  Unconfigured stores are
// skipped; a configured store that cannot be reached is an error.
func ConnectBackends(cfg *config.Config, logger logging.Logger) (*Backends, error) {
	b := &Backends{}

	if cfg.Redis.Enabled() {
		client, err := redis.NewClient(&cfg.Redis, logger)
		if err != nil {
			return nil, err
		}
		b.Redis = client
		b.Cache = redis.NewSceneCache(client, logger, redis.WithPrefix(cfg.Redis.KeyPrefix))
	} else {
		logger.Info("redis not configured, scene cache disabled")
	}

	if cfg.MinIO.Enabled() {
		store, err := minio.Connect(&cfg.MinIO, logger)
		if err != nil {
			_ = b.Close()
			return nil, err
		}
		b.Files = store
	} else {
		logger.Info("minio not configured, file store disabled")
	}
	return b, nil
}

// Close releases the connections held by b.
func (b *Backends) Close() error {
	var errs []error
	if b.Redis != nil {
		if err := b.Redis.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return stderrors.Join(errs...)
}

// HealthCheckers returns probes for the connected stores and the names of
// those left unconfigured.
func (b *Backends) HealthCheckers() ([]handlers.HealthChecker, []string) {
	var (
		checkers []handlers.HealthChecker
		disabled []string
	)
	if b.Redis != nil {
		checkers = append(checkers, redisHealth{b.Redis})
	} else {
		disabled = append(disabled, ComponentRedis)
	}
	if b.Files != nil {
		checkers = append(checkers, minioHealth{b.Files})
	} else {
		disabled = append(disabled, ComponentMinIO)
	}
	return checkers, disabled
}

type redisHealth struct{ client *redis.Client }

func (redisHealth) Name() string                      { return ComponentRedis }
func (h redisHealth) Check(ctx context.Context) error { return h.client.Ping(ctx) }

type minioHealth struct{ store *minio.Mol2Store }

func (minioHealth) Name() string                      { return ComponentMinIO }
func (h minioHealth) Check(ctx context.Context) error { return h.store.HealthCheck(ctx) }

// NewService builds the scene service on top of b.  metrics may be nil.
func NewService(cfg *config.Config, b *Backends, metrics appscene.Metrics, logger logging.Logger) (appscene.Service, error) {
	opts, err := cfg.Scene.Options()
	if err != nil {
		return nil, err
	}
	sc := appscene.Config{Options: opts, Metrics: metrics}
	if b != nil {
		if b.Cache != nil {
			sc.Cache = b.Cache
		}
		if b.Files != nil {
			sc.Files = b.Files
		}
	}
	return appscene.NewService(sc, logger)
}
