// Command apiserver serves molscene scenes over HTTP.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/turtacn/molscene/internal/app"
	"github.com/turtacn/molscene/internal/config"
	"github.com/turtacn/molscene/internal/infrastructure/monitoring/logging"
)

// Build-time variables injected via ldflags.
var (
	version = "dev"
	commit  = "unknown"
)

const defaultConfigPath = "configs/config.yaml"

func main() {
	configPath := flag.String("config", defaultConfigPath, "path to configuration file")
	httpPort := flag.Int("http-port", 0, "HTTP server port (overrides config)")
	flag.Parse()

	if err := run(*configPath, *httpPort); err != nil {
		fmt.Fprintf(os.Stderr, "apiserver: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, httpPort int) error {
	cfg, watchPath, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if httpPort > 0 {
		cfg.Server.Port = httpPort
	}

	logger, err := logging.NewLogger(cfg.Log)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer logger.Sync()
	logging.SetDefault(logger)

	if watchPath == "" {
		logger.Warn("config file not found, using defaults and environment", logging.String("path", configPath))
	} else if err := config.Watch(watchPath, logger, func(next *config.Config) {
		logger.SetLevel(next.Log.Level)
	}); err != nil {
		logger.Warn("config watch disabled", logging.Err(err))
	}

	a, err := app.New(cfg, logger, app.BuildInfo{Version: version, Commit: commit})
	if err != nil {
		logger.Error("failed to initialise server", logging.Err(err))
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("starting molscene API server",
		logging.String("version", version),
		logging.String("addr", cfg.Server.Addr()),
		logging.Bool("cache", cfg.Redis.Enabled()),
		logging.Bool("file_store", cfg.MinIO.Enabled()),
		logging.Bool("metrics", cfg.Metrics.Enabled))

	if err := a.Run(ctx); err != nil {
		logger.Error("server stopped with error", logging.Err(err))
		return err
	}
	logger.Info("server stopped")
	return nil
}

// loadConfig reads path when it exists and falls back to defaults plus
// environment otherwise.  The returned path is empty in the fallback case.
func loadConfig(path string) (*config.Config, string, error) {
	cfg, err := config.Load(config.WithConfigPath(path))
	if err == nil {
		return cfg, path, nil
	}
	if !errors.Is(err, config.ErrConfigFileNotFound) {
		return nil, "", err
	}
	cfg, err = config.Load()
	return cfg, "", err
}
