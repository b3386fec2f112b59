package config

import (
	"time"

	"github.com/spf13/viper"

	appscene "github.com/turtacn/molscene/internal/application/scene"
	"github.com/turtacn/molscene/internal/domain/alkane"
	"github.com/turtacn/molscene/internal/domain/geometry"
	"github.com/turtacn/molscene/internal/infrastructure/database/redis"
	"github.com/turtacn/molscene/internal/infrastructure/storage/minio"
)

const (
	DefaultServerHost      = "0.0.0.0"
	DefaultServerPort      = 8080
	DefaultServerMode      = "release"
	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultShutdownTimeout = 10 * time.Second

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultMetricsPath      = "/metrics"
	DefaultMetricsNamespace = "molscene"

	DefaultFraming = "direct"
	DefaultRender  = string(appscene.RenderBallStick)
)

// ApplyDefaults fills zero-value fields.  Explicit values always win.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	if cfg.Server.Host == "" {
		cfg.Server.Host = DefaultServerHost
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = DefaultServerMode
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}

	if cfg.Server.RateLimitRPS > 0 && cfg.Server.RateLimitBurst <= 0 {
		cfg.Server.RateLimitBurst = int(cfg.Server.RateLimitRPS) + 1
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}

	if cfg.Redis.Mode == "" {
		cfg.Redis.Mode = redis.ModeStandalone
	}
	if cfg.Redis.KeyPrefix == "" {
		cfg.Redis.KeyPrefix = redis.DefaultKeyPrefix
	}

	if cfg.MinIO.Bucket == "" {
		cfg.MinIO.Bucket = minio.DefaultBucket
	}

	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = DefaultMetricsPath
	}
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}

	if cfg.Scene.BondLength == 0 {
		cfg.Scene.BondLength = alkane.DefaultBondLength
	}
	if cfg.Scene.DoubleBondSeparation == 0 {
		cfg.Scene.DoubleBondSeparation = geometry.DefaultDoubleBondSeparation
	}
	if cfg.Scene.FOVDegrees == 0 {
		cfg.Scene.FOVDegrees = appscene.DefaultFOVDegrees
	}
	if cfg.Scene.Framing == "" {
		cfg.Scene.Framing = DefaultFraming
	}
	if cfg.Scene.Render == "" {
		cfg.Scene.Render = DefaultRender
	}
	if cfg.Scene.BondDiameter == 0 {
		cfg.Scene.BondDiameter = appscene.DefaultBondDiameter
	}
	if cfg.Scene.MaxCarbons == 0 {
		cfg.Scene.MaxCarbons = appscene.DefaultMaxCarbons
	}
	if cfg.Scene.MaxFileSize == 0 {
		cfg.Scene.MaxFileSize = appscene.DefaultMaxFileSize
	}
	if cfg.Scene.CacheTTL == 0 {
		cfg.Scene.CacheTTL = appscene.DefaultCacheTTL
	}
}

// registerKeys makes every key known to viper so that AutomaticEnv can
// override keys absent from the file.  Values are left to ApplyDefaults.
func registerKeys(v *viper.Viper) {
	for _, key := range []string{
		"server.host", "server.port", "server.mode", "server.read_timeout",
		"server.write_timeout", "server.shutdown_timeout", "server.cors_origins",
		"server.rate_limit_rps", "server.rate_limit_burst",
		"log.level", "log.format", "log.output_paths", "log.error_output_paths",
		"redis.mode", "redis.addr", "redis.master_name", "redis.sentinel_addrs",
		"redis.cluster_addrs", "redis.username", "redis.password", "redis.db",
		"redis.key_prefix", "redis.pool_size", "redis.dial_timeout",
		"redis.tls_enabled", "redis.tls_ca_file",
		"minio.endpoint", "minio.access_key_id", "minio.secret_access_key",
		"minio.use_ssl", "minio.region", "minio.bucket", "minio.prefix",
		"metrics.enabled", "metrics.path", "metrics.namespace",
		"metrics.enable_go_metrics", "metrics.enable_process_metrics",
		"scene.bond_length", "scene.double_bond_separation", "scene.fov_degrees",
		"scene.framing", "scene.render", "scene.bond_diameter", "scene.max_carbons",
		"scene.max_file_size", "scene.cache_ttl",
	} {
		v.SetDefault(key, nil)
	}
}
