package prometheus

import (
	"strconv"
	"time"

	appscene "github.com/turtacn/molscene/internal/application/scene"
)

// Buckets.
var (
	DefaultHTTPDurationBuckets  = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5}
	DefaultParseDurationBuckets = []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1}
	DefaultAtomCountBuckets     = []float64{1, 10, 50, 100, 500, 1000, 5000, 10000, 50000}
)

// SceneMetrics holds every metric molscene exports.  It implements the scene
// service's Metrics port.
type SceneMetrics struct {
	HTTPRequestsTotal   CounterVec
	HTTPRequestDuration HistogramVec
	HTTPActiveRequests  GaugeVec

	Mol2ParseTotal    CounterVec
	Mol2ParseDuration HistogramVec
	Mol2AtomsParsed   HistogramVec

	AlkaneBuildTotal CounterVec
	CacheHitsTotal   CounterVec
	CacheMissesTotal CounterVec

	HealthCheckStatus GaugeVec
	BuildInfo         GaugeVec
}

var _ appscene.Metrics = (*SceneMetrics)(nil)

// NewSceneMetrics registers the metric set on collector.
func NewSceneMetrics(collector MetricsCollector) *SceneMetrics {
	return &SceneMetrics{
		HTTPRequestsTotal:   collector.RegisterCounter("http_requests_total", "Total HTTP requests", "method", "path", "status_code"),
		HTTPRequestDuration: collector.RegisterHistogram("http_request_duration_seconds", "HTTP request duration", DefaultHTTPDurationBuckets, "method", "path"),
		HTTPActiveRequests:  collector.RegisterGauge("http_active_requests", "HTTP requests in flight"),

		Mol2ParseTotal:    collector.RegisterCounter("mol2_parse_total", "MOL2 parses by outcome", "status"),
		Mol2ParseDuration: collector.RegisterHistogram("mol2_parse_duration_seconds", "MOL2 parse duration", DefaultParseDurationBuckets, "status"),
		Mol2AtomsParsed:   collector.RegisterHistogram("mol2_atoms_parsed", "Atoms per successfully parsed MOL2 file", DefaultAtomCountBuckets),

		AlkaneBuildTotal: collector.RegisterCounter("alkane_build_total", "Alkane scenes built"),
		CacheHitsTotal:   collector.RegisterCounter("scene_cache_hits_total", "Scene cache hits"),
		CacheMissesTotal: collector.RegisterCounter("scene_cache_misses_total", "Scene cache misses"),

		HealthCheckStatus: collector.RegisterGauge("health_check_status", "Health check status (1=up, 0=down)", "component"),
		BuildInfo:         collector.RegisterGauge("build_info", "Build information", "version", "commit"),
	}
}

// ObserveParse records one MOL2 parse.  Atom counts are only observed for
// successful parses.
func (m *SceneMetrics) ObserveParse(status string, atoms int, elapsed time.Duration) {
	m.Mol2ParseTotal.WithLabelValues(status).Inc()
	m.Mol2ParseDuration.WithLabelValues(status).Observe(elapsed.Seconds())
	if status == appscene.ParseStatusOK {
		m.Mol2AtomsParsed.WithLabelValues().Observe(float64(atoms))
	}
}

func (m *SceneMetrics) IncAlkaneBuild() { m.AlkaneBuildTotal.WithLabelValues().Inc() }
func (m *SceneMetrics) IncCacheHit()    { m.CacheHitsTotal.WithLabelValues().Inc() }
func (m *SceneMetrics) IncCacheMiss()   { m.CacheMissesTotal.WithLabelValues().Inc() }

// RecordHTTPRequest records one served request.  path should be the route
// template, not the raw URL, to keep label cardinality bounded.
func (m *SceneMetrics) RecordHTTPRequest(method, path string, statusCode int, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(statusCode)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// SetHealth records a component's health.
func (m *SceneMetrics) SetHealth(component string, up bool) {
	v := 0.0
	if up {
		v = 1
	}
	m.HealthCheckStatus.WithLabelValues(component).Set(v)
}

func (m *SceneMetrics) IncInFlight() { m.HTTPActiveRequests.WithLabelValues().Inc() }
func (m *SceneMetrics) DecInFlight() { m.HTTPActiveRequests.WithLabelValues().Dec() }
