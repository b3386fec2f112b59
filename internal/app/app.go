package app

import (
	"context"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	appscene "github.com/turtacn/molscene/internal/application/scene"
	"github.com/turtacn/molscene/internal/config"
	"github.com/turtacn/molscene/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/molscene/internal/infrastructure/monitoring/prometheus"
	httpserver "github.com/turtacn/molscene/internal/interfaces/http"
	"github.com/turtacn/molscene/internal/interfaces/http/handlers"
	"github.com/turtacn/molscene/internal/interfaces/http/middleware"
)

// BuildInfo identifies the running binary.
type BuildInfo struct {
	Version string
	Commit  string
}

// App is a fully wired API server.
type App struct {
	cfg      *config.Config
	logger   logging.Logger
	backends *Backends
	service  appscene.Service
	metrics  *prometheus.SceneMetrics
	limiter  *middleware.TokenBucketLimiter
	server   *httpserver.Server
}

// Option customises New.
type Option func(*options)

type options struct {
	backends *Backends
}

// WithBackends supplies already connected stores instead of dialling them
// from the configuration.
func WithBackends(b *Backends) Option {
	return func(o *options) { o.backends = b }
}

// New wires every component described by cfg.
func New(cfg *config.Config, logger logging.Logger, build BuildInfo, opts ...Option) (*App, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if err := httpserver.SetMode(cfg.Server.Mode); err != nil {
		return nil, err
	}

	a := &App{cfg: cfg, logger: logger}

	backends := o.backends
	if backends == nil {
		var err error
		if backends, err = ConnectBackends(cfg, logger); err != nil {
			return nil, err
		}
	}
	a.backends = backends

	routerCfg := httpserver.RouterConfig{
		Logging:     middleware.DefaultLoggingConfig(),
		MaxBodySize: cfg.Scene.MaxFileSize,
		Logger:      logger,
	}

	var svcMetrics appscene.Metrics
	healthOpts := []handlers.HealthOption{}
	if cfg.Metrics.Enabled {
		collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{
			Namespace:            cfg.Metrics.Namespace,
			EnableGoMetrics:      cfg.Metrics.EnableGoMetrics,
			EnableProcessMetrics: cfg.Metrics.EnableProcessMetrics,
		}, logger)
		if err != nil {
			_ = a.backends.Close()
			return nil, err
		}
		a.metrics = prometheus.NewSceneMetrics(collector)
		a.metrics.BuildInfo.WithLabelValues(build.Version, build.Commit).Set(1)
		svcMetrics = a.metrics
		routerCfg.MetricsHandler = collector.Handler()
		routerCfg.MetricsPath = cfg.Metrics.Path
		routerCfg.HTTPMetrics = a.metrics
		healthOpts = append(healthOpts, handlers.WithHealthRecorder(a.metrics))
	}

	svc, err := NewService(cfg, a.backends, svcMetrics, logger)
	if err != nil {
		_ = a.backends.Close()
		return nil, err
	}
	a.service = svc

	checkers, disabled := a.backends.HealthCheckers()
	healthOpts = append(healthOpts, handlers.WithDisabled(disabled...))
	routerCfg.HealthHandler = handlers.NewHealthHandler(build.Version, checkers, healthOpts...)
	routerCfg.SceneHandler = handlers.NewSceneHandler(svc)
	routerCfg.FileHandler = handlers.NewFileHandler(svc)

	if len(cfg.Server.CORSOrigins) > 0 {
		cors := middleware.DefaultCORSConfig()
		cors.AllowedOrigins = cfg.Server.CORSOrigins
		routerCfg.CORS = &cors
	}
	if cfg.Server.RateLimitRPS > 0 {
		a.limiter = middleware.NewTokenBucketLimiter(cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst, time.Minute)
		routerCfg.RateLimiter = a.limiter
	}

	a.server = httpserver.NewServer(cfg.Server.Addr(), httpserver.NewRouter(routerCfg), logger,
		httpserver.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout))
	return a, nil
}

// Service exposes the scene service.
func (a *App) Service() appscene.Service { return a.service }

// Handler exposes the HTTP handler.
func (a *App) Handler() http.Handler { return a.server.Handler() }

// Run listens on the configured address until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.cfg.Server.Addr())
	if err != nil {
		return err
	}
	return a.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then drains
// in-flight requests within the shutdown timeout and releases resources.
func (a *App) Serve(ctx context.Context, ln net.Listener) error {
	defer a.Close()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return a.server.Serve(ln)
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
		defer cancel()
		return a.server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// Close releases the stores and background workers.
func (a *App) Close() error {
	if a.limiter != nil {
		a.limiter.Stop()
	}
	if err := a.backends.Close(); err != nil {
		a.logger.Warn("closing backends", logging.Err(err))
		return err
	}
	return nil
}
