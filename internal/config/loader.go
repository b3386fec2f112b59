package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/turtacn/molscene/internal/infrastructure/monitoring/logging"
)

// DefaultEnvPrefix prefixes every environment override, e.g.
// MOLSCENE_SERVER_PORT or MOLSCENE_SCENE_FOV_DEGREES.
const DefaultEnvPrefix = "MOLSCENE"

var (
	ErrConfigFileNotFound = errors.New("config file not found")
	ErrConfigParseError   = errors.New("config parse error")
	ErrConfigInvalid      = errors.New("config validation failed")
)

type loadOptions struct {
	path      string
	envPrefix string
}

// LoadOption customises Load.
type LoadOption func(*loadOptions)

// WithConfigPath reads the given YAML file.  Without it only the environment
// and defaults are used.
func WithConfigPath(path string) LoadOption {
	return func(o *loadOptions) { o.path = path }
}

// WithEnvPrefix overrides DefaultEnvPrefix.
func WithEnvPrefix(prefix string) LoadOption {
	return func(o *loadOptions) { o.envPrefix = prefix }
}

func newViper(envPrefix string) *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	registerKeys(v)
	return v
}

// Load merges file, environment and defaults, then validates.
func Load(opts ...LoadOption) (*Config, error) {
	o := loadOptions{envPrefix: DefaultEnvPrefix}
	for _, opt := range opts {
		opt(&o)
	}

	v := newViper(o.envPrefix)
	if o.path != "" {
		if err := readFile(v, o.path); err != nil {
			return nil, err
		}
	}
	return unmarshalAndFinalize(v)
}

// MustLoad panics if Load fails.
func MustLoad(opts ...LoadOption) *Config {
	cfg, err := Load(opts...)
	if err != nil {
		panic(fmt.Sprintf("config: %v", err))
	}
	return cfg
}

func readFile(v *viper.Viper, path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("%w: %s", ErrConfigFileNotFound, path)
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrConfigParseError, path, err)
	}
	return nil
}

func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParseError, err)
	}
	ApplyDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigInvalid, err)
	}
	return cfg, nil
}

// Watch re-reads path whenever it changes on disk and hands the new Config to
// onChange.  Changes that fail to parse or validate are logged and dropped.
// Callers should only apply settings that are safe to change at runtime, such
// as the log level.
func Watch(path string, log logging.Logger, onChange func(*Config)) error {
	v := newViper(DefaultEnvPrefix)
	if err := readFile(v, path); err != nil {
		return err
	}
	log = log.Named("config")

	v.OnConfigChange(func(e fsnotify.Event) {
		cfg, err := unmarshalAndFinalize(v)
		if err != nil {
			log.Warn("ignoring invalid config change", logging.String("file", e.Name), logging.Err(err))
			return
		}
		log.Info("config reloaded", logging.String("file", e.Name), logging.String("op", e.Op.String()))
		onChange(cfg)
	})
	v.WatchConfig()
	return nil
}
