// Package http assembles the gin engine that serves molscene scenes.
package http

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/molscene/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/molscene/internal/interfaces/http/handlers"
	"github.com/turtacn/molscene/internal/interfaces/http/middleware"
)

// RouterConfig aggregates the handlers and middleware of the route tree.  Nil
// handlers leave their routes unregistered.
type RouterConfig struct {
	SceneHandler  *handlers.SceneHandler
	FileHandler   *handlers.FileHandler
	HealthHandler *handlers.HealthHandler

	// MetricsHandler is mounted at MetricsPath when set.
	MetricsHandler http.Handler
	MetricsPath    string
	HTTPMetrics    middleware.HTTPRecorder

	CORS        *middleware.CORSConfig
	RateLimiter middleware.RateLimiter
	Logging     middleware.LoggingConfig

	// MaxBodySize caps request bodies; zero leaves them unbounded.
	MaxBodySize int64

	Logger logging.Logger
}

// NewRouter builds the engine.  Global middleware order: request id,
// recovery, metrics, CORS, logging, rate limit.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Logger == nil {
		cfg.Logger = logging.NewNopLogger()
	}

	r := gin.New()
	r.HandleMethodNotAllowed = true

	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery(cfg.Logger))
	if cfg.HTTPMetrics != nil {
		r.Use(middleware.Metrics(cfg.HTTPMetrics))
	}
	if cfg.CORS != nil {
		r.Use(middleware.CORS(*cfg.CORS))
	}
	r.Use(middleware.RequestLogging(cfg.Logger, cfg.Logging))
	if cfg.RateLimiter != nil {
		r.Use(middleware.RateLimit(cfg.RateLimiter, middleware.DefaultRateLimitConfig()))
	}
	if cfg.MaxBodySize > 0 {
		r.Use(maxBody(cfg.MaxBodySize))
	}

	if cfg.HealthHandler != nil {
		r.GET("/healthz", cfg.HealthHandler.Liveness)
		r.GET("/readyz", cfg.HealthHandler.Readiness)
	}
	if cfg.MetricsHandler != nil {
		path := cfg.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.GET(path, gin.WrapH(cfg.MetricsHandler))
	}

	api := r.Group("/api/v1")
	registerSceneRoutes(api, cfg.SceneHandler)
	registerFileRoutes(api, cfg.FileHandler)

	return r
}

func registerSceneRoutes(api *gin.RouterGroup, h *handlers.SceneHandler) {
	if h == nil {
		return
	}
	scenes := api.Group("/scenes")
	scenes.POST("/mol2", h.FromMol2)
	scenes.GET("/alkane/:carbons", h.Alkane)
	scenes.GET("/smiles", h.FromSMILES)

	api.GET("/framing", h.Framing)
}

func registerFileRoutes(api *gin.RouterGroup, h *handlers.FileHandler) {
	if h == nil {
		return
	}
	files := api.Group("/files")
	files.GET("", h.List)
	files.PUT("/:name", h.Put)
	files.GET("/:name/scene", h.Scene)
}

// SetMode switches gin into the named server mode: debug, release or test.
func SetMode(mode string) error {
	switch mode {
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
		gin.SetMode(mode)
		return nil
	}
	return fmt.Errorf("unknown server mode %q", mode)
}

func maxBody(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		}
		c.Next()
	}
}
