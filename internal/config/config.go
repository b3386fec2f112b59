// Package config defines the molscene configuration tree.  No I/O happens
// here; loading lives in loader.go.
package config

import (
	"fmt"
	"strings"
	"time"

	appscene "github.com/turtacn/molscene/internal/application/scene"
	"github.com/turtacn/molscene/internal/domain/geometry"
	"github.com/turtacn/molscene/internal/infrastructure/database/redis"
	"github.com/turtacn/molscene/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/molscene/internal/infrastructure/storage/minio"
)

// ServerConfig holds HTTP server tunables.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"` // "debug" | "release" | "test"
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	CORSOrigins     []string      `mapstructure:"cors_origins"`
	// RateLimitRPS is the per-client request rate; 0 disables limiting.
	RateLimitRPS   float64 `mapstructure:"rate_limit_rps"`
	RateLimitBurst int     `mapstructure:"rate_limit_burst"`
}

// Addr is host:port.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// MetricsConfig controls the prometheus endpoint.
type MetricsConfig struct {
	Enabled              bool   `mapstructure:"enabled"`
	Path                 string `mapstructure:"path"`
	Namespace            string `mapstructure:"namespace"`
	EnableGoMetrics      bool   `mapstructure:"enable_go_metrics"`
	EnableProcessMetrics bool   `mapstructure:"enable_process_metrics"`
}

// SceneConfig holds scene assembly parameters.
type SceneConfig struct {
	BondLength           float64       `mapstructure:"bond_length"`
	DoubleBondSeparation float64       `mapstructure:"double_bond_separation"`
	FOVDegrees           float64       `mapstructure:"fov_degrees"`
	Framing              string        `mapstructure:"framing"` // "direct" | "fov"
	Render               string        `mapstructure:"render"`  // "ball_stick" | "ball" | "stick"
	BondDiameter         float64       `mapstructure:"bond_diameter"`
	MaxCarbons           uint          `mapstructure:"max_carbons"`
	MaxFileSize          int64         `mapstructure:"max_file_size"`
	CacheTTL             time.Duration `mapstructure:"cache_ttl"`
}

// Options converts the section into service options.
func (s SceneConfig) Options() (appscene.Options, error) {
	framing, err := geometry.ParseFraming(s.Framing)
	if err != nil {
		return appscene.Options{}, err
	}
	render, err := appscene.ParseRender(s.Render)
	if err != nil {
		return appscene.Options{}, err
	}
	return appscene.Options{
		BondLength:           s.BondLength,
		DoubleBondSeparation: s.DoubleBondSeparation,
		Framing:              framing,
		FOVDegrees:           s.FOVDegrees,
		Render:               render,
		BondDiameter:         s.BondDiameter,
		MaxCarbons:           s.MaxCarbons,
		MaxFileSize:          s.MaxFileSize,
		CacheTTL:             s.CacheTTL,
	}, nil
}

// Config is the root configuration.
type Config struct {
	Server  ServerConfig      `mapstructure:"server"`
	Log     logging.LogConfig `mapstructure:"log"`
	Redis   redis.Config      `mapstructure:"redis"`
	MinIO   minio.Config      `mapstructure:"minio"`
	Metrics MetricsConfig     `mapstructure:"metrics"`
	Scene   SceneConfig       `mapstructure:"scene"`
}

// Validate performs semantic validation of a defaulted Config and returns the
// first problem found.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d is out of range [1, 65535]", c.Server.Port)
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("server.mode %q is invalid; expected debug|release|test", c.Server.Mode)
	}

	if c.Server.RateLimitRPS < 0 {
		return fmt.Errorf("server.rate_limit_rps must be >= 0, got %g", c.Server.RateLimitRPS)
	}

	switch c.Log.Level {
	case logging.LevelDebug, logging.LevelInfo, logging.LevelWarn, logging.LevelError:
	default:
		return fmt.Errorf("log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("log.format %q is invalid; expected json|console", c.Log.Format)
	}

	switch c.Redis.Mode {
	case redis.ModeStandalone, redis.ModeSentinel, redis.ModeCluster:
	default:
		return fmt.Errorf("redis.mode %q is invalid; expected standalone|sentinel|cluster", c.Redis.Mode)
	}
	if c.Redis.DB < 0 {
		return fmt.Errorf("redis.db must be >= 0, got %d", c.Redis.DB)
	}

	if c.MinIO.Enabled() && (c.MinIO.AccessKeyID == "" || c.MinIO.SecretAccessKey == "") {
		return fmt.Errorf("minio.access_key_id and minio.secret_access_key are required when minio.endpoint is set")
	}

	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		return fmt.Errorf("metrics.path %q must start with /", c.Metrics.Path)
	}

	if c.Scene.BondLength <= 0 {
		return fmt.Errorf("scene.bond_length must be > 0, got %g", c.Scene.BondLength)
	}
	if c.Scene.FOVDegrees <= 0 || c.Scene.FOVDegrees >= 180 {
		return fmt.Errorf("scene.fov_degrees must be in (0, 180), got %g", c.Scene.FOVDegrees)
	}
	if _, err := c.Scene.Options(); err != nil {
		return fmt.Errorf("scene: %w", err)
	}
	return nil
}
