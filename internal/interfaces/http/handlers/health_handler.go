package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/molscene/pkg/types/common"
)

// HealthChecker is a dependency that can report its health.
type HealthChecker interface {
	Name() string
	Check(ctx context.Context) error
}

// HealthRecorder mirrors probe results into metrics.
type HealthRecorder interface {
	SetHealth(component string, up bool)
}

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	checkers []HealthChecker
	disabled []string
	recorder HealthRecorder
	version  string
	startAt  time.Time
	timeout  time.Duration
}

// HealthOption configures a HealthHandler.
type HealthOption func(*HealthHandler)

// WithDisabled lists optional components that are switched off.  They are
// reported but never fail readiness.
func WithDisabled(names ...string) HealthOption {
	return func(h *HealthHandler) { h.disabled = append(h.disabled, names...) }
}

// WithHealthRecorder publishes probe results.
func WithHealthRecorder(r HealthRecorder) HealthOption {
	return func(h *HealthHandler) { h.recorder = r }
}

// WithCheckTimeout bounds a readiness probe.
func WithCheckTimeout(d time.Duration) HealthOption {
	return func(h *HealthHandler) { h.timeout = d }
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(version string, checkers []HealthChecker, opts ...HealthOption) *HealthHandler {
	h := &HealthHandler{
		checkers: checkers,
		version:  version,
		startAt:  time.Now(),
		timeout:  5 * time.Second,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// LivenessResponse is the body of /healthz.
type LivenessResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
}

// ReadinessResponse is the body of /readyz.
type ReadinessResponse struct {
	Status     string                   `json:"status"`
	Components []common.ComponentHealth `json:"components,omitempty"`
}

// Liveness always answers 200 while the process runs.
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, LivenessResponse{
		Status:  "alive",
		Version: h.version,
		Uptime:  time.Since(h.startAt).Truncate(time.Second).String(),
	})
}

// Readiness answers 503 if any enabled dependency fails its check.
func (h *HealthHandler) Readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	components := h.checkAll(ctx)
	ready := true
	for _, comp := range components {
		if comp.Status == common.HealthDown {
			ready = false
		}
	}

	resp := ReadinessResponse{Status: "ready", Components: components}
	status := http.StatusOK
	if !ready {
		resp.Status = "not_ready"
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, resp)
}

// checkAll runs every checker concurrently.  Results keep checker order with
// disabled components appended.
func (h *HealthHandler) checkAll(ctx context.Context) []common.ComponentHealth {
	results := make([]common.ComponentHealth, len(h.checkers))
	var wg sync.WaitGroup
	for i, checker := range h.checkers {
		wg.Add(1)
		go func(i int, hc HealthChecker) {
			defer wg.Done()
			start := time.Now()
			err := hc.Check(ctx)

			ch := common.ComponentHealth{
				Name:    hc.Name(),
				Status:  common.HealthUp,
				Latency: time.Since(start).Truncate(time.Microsecond).String(),
			}
			if err != nil {
				ch.Status = common.HealthDown
				ch.Message = err.Error()
			}
			if h.recorder != nil {
				h.recorder.SetHealth(ch.Name, err == nil)
			}
			results[i] = ch
		}(i, checker)
	}
	wg.Wait()

	for _, name := range h.disabled {
		results = append(results, common.ComponentHealth{Name: name, Status: common.HealthDisabled})
	}
	return results
}
