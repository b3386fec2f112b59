// Package integration holds tests that talk to real Redis and MinIO.  They
// are skipped unless MOLSCENE_INTEGRATION_TEST=true; the backends default to
// the docker-compose addresses and can be overridden per variable.
package integration

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/turtacn/molscene/internal/infrastructure/database/redis"
	"github.com/turtacn/molscene/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/molscene/internal/infrastructure/storage/minio"
)

const (
	// EnvIntegrationEnabled controls whether integration tests run.
	EnvIntegrationEnabled = "MOLSCENE_INTEGRATION_TEST"

	EnvRedisAddr      = "MOLSCENE_TEST_REDIS_ADDR"
	EnvMinIOEndpoint  = "MOLSCENE_TEST_MINIO_ENDPOINT"
	EnvMinIOAccessKey = "MOLSCENE_TEST_MINIO_ACCESS_KEY"
	EnvMinIOSecretKey = "MOLSCENE_TEST_MINIO_SECRET_KEY"

	DefaultRedisAddr      = "localhost:6379"
	DefaultMinIOEndpoint  = "localhost:9000"
	DefaultMinIOAccessKey = "minioadmin"
	DefaultMinIOSecretKey = "minioadmin"
)

// SkipIfNoIntegration skips t unless integration tests are enabled.
func SkipIfNoIntegration(t *testing.T) {
	t.Helper()
	if !strings.EqualFold(os.Getenv(EnvIntegrationEnabled), "true") {
		t.Skipf("integration tests disabled; set %s=true to enable", EnvIntegrationEnabled)
	}
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// TestContext returns a context that is cancelled when t ends.
func TestContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// UniquePrefix returns a key or object prefix no other run will use.
func UniquePrefix(kind string) string {
	return fmt.Sprintf("it-%s-%s-", kind, uuid.NewString()[:8])
}

// NewRedisCache connects to the test Redis and returns a cache namespaced
// under a fresh prefix.  Keys under the prefix are removed at cleanup.
func NewRedisCache(t *testing.T) (*redis.SceneCache, *redis.Client) {
	t.Helper()
	cfg := &redis.Config{Addr: envOrDefault(EnvRedisAddr, DefaultRedisAddr), DB: 1}
	client, err := redis.NewClient(cfg, logging.NewNopLogger())
	if err != nil {
		t.Fatalf("connect redis %s: %v", cfg.Addr, err)
	}
	cache := redis.NewSceneCache(client, logging.NewNopLogger(), redis.WithPrefix(UniquePrefix("cache")))
	t.Cleanup(func() {
		_, _ = cache.DeleteByPrefix(context.Background(), "")
		_ = client.Close()
	})
	return cache, client
}

// NewMinIOStore connects to the test MinIO with objects placed under a
// fresh prefix in the default bucket.
func NewMinIOStore(t *testing.T) *minio.Mol2Store {
	t.Helper()
	cfg := &minio.Config{
		Endpoint:        envOrDefault(EnvMinIOEndpoint, DefaultMinIOEndpoint),
		AccessKeyID:     envOrDefault(EnvMinIOAccessKey, DefaultMinIOAccessKey),
		SecretAccessKey: envOrDefault(EnvMinIOSecretKey, DefaultMinIOSecretKey),
		Bucket:          "molscene-it",
		Prefix:          UniquePrefix("files"),
	}
	store, err := minio.Connect(cfg, logging.NewNopLogger())
	if err != nil {
		t.Fatalf("connect minio %s: %v", cfg.Endpoint, err)
	}
	return store
}
