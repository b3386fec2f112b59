package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appscene "github.com/turtacn/molscene/internal/application/scene"
	"github.com/turtacn/molscene/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/molscene/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/molscene/internal/interfaces/http/handlers"
	"github.com/turtacn/molscene/internal/interfaces/http/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const ethaneMol2 = `@<TRIPOS>MOLECULE
ethane
 8 7 0 0 0
SMALL
NO_CHARGES

@<TRIPOS>ATOM
      1 C1          0.0000    0.0000    0.0000 C.3       1 ETH1        0.0000
      2 C2          1.5400    0.0000    0.0000 C.3       1 ETH1        0.0000
      3 H1         -0.3600    1.0300    0.0000 H         1 ETH1        0.0000
      4 H2         -0.3600   -0.5100    0.8900 H         1 ETH1        0.0000
      5 H3         -0.3600   -0.5100   -0.8900 H         1 ETH1        0.0000
      6 H4          1.9000   -1.0300    0.0000 H         1 ETH1        0.0000
      7 H5          1.9000    0.5100    0.8900 H         1 ETH1        0.0000
      8 H6          1.9000    0.5100   -0.8900 H         1 ETH1        0.0000
@<TRIPOS>BOND
     1     1     2    1
     2     1     3    1
     3     1     4    1
     4     1     5    1
     5     2     6    1
     6     2     7    1
     7     2     8    1
`

// newFullRouter wires the real scene service with no cache and no file store.
func newFullRouter(t *testing.T) (*gin.Engine, prometheus.MetricsCollector) {
	collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{Namespace: "molscene"}, logging.NewNopLogger())
	require.NoError(t, err)
	metrics := prometheus.NewSceneMetrics(collector)

	svc, err := appscene.NewService(appscene.Config{Metrics: metrics}, logging.NewNopLogger())
	require.NoError(t, err)

	cors := middleware.DefaultCORSConfig()
	cors.AllowedOrigins = []string{"*"}
	return NewRouter(RouterConfig{
		SceneHandler:   handlers.NewSceneHandler(svc),
		FileHandler:    handlers.NewFileHandler(svc),
		HealthHandler:  handlers.NewHealthHandler("test", nil, handlers.WithDisabled("redis", "minio")),
		MetricsHandler: collector.Handler(),
		HTTPMetrics:    metrics,
		CORS:           &cors,
		Logging:        middleware.DefaultLoggingConfig(),
		MaxBodySize:    1 << 20,
	}), collector
}

func get(t *testing.T, h http.Handler, url string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, url, nil))
	return w
}

func TestNewRouter_Probes(t *testing.T) {
	r, _ := newFullRouter(t)
	assert.Equal(t, http.StatusOK, get(t, r, "/healthz").Code)

	w := get(t, r, "/readyz")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"disabled"`)
}

func TestNewRouter_Mol2Scene(t *testing.T) {
	r, _ := newFullRouter(t)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/scenes/mol2", strings.NewReader(ethaneMol2)))

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := w.Body.String()
	assert.Contains(t, body, `"name":"ethane"`)
	assert.Contains(t, body, `"formula":"C2H6"`)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
}

func TestNewRouter_AlkaneAndMetrics(t *testing.T) {
	r, _ := newFullRouter(t)
	w := get(t, r, "/api/v1/scenes/alkane/5")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"pentane"`)

	w = get(t, r, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	out := w.Body.String()
	assert.Contains(t, out, "molscene_alkane_build_total 1")
	assert.Contains(t, out, `molscene_http_requests_total{method="GET",path="/api/v1/scenes/alkane/:carbons",status_code="200"} 1`)
}

func TestNewRouter_SMILESAndFraming(t *testing.T) {
	r, _ := newFullRouter(t)

	w := get(t, r, "/api/v1/scenes/smiles?q=CCC")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"source":"smiles"`)

	w = get(t, r, "/api/v1/framing?diagonal=4&fov=90")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"direct":2`)
}

func TestNewRouter_FilesDisabled(t *testing.T) {
	r, _ := newFullRouter(t)
	w := get(t, r, "/api/v1/files")
	assert.Equal(t, http.StatusNotImplemented, w.Code)
	assert.Contains(t, w.Body.String(), "COMMON_015")
}

func TestNewRouter_NotFoundAndMethodNotAllowed(t *testing.T) {
	r, _ := newFullRouter(t)
	assert.Equal(t, http.StatusNotFound, get(t, r, "/api/v1/unknown").Code)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/v1/scenes/alkane/3", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestNewRouter_BodyLimit(t *testing.T) {
	r, _ := newFullRouter(t)
	big := strings.Repeat("x", 2<<20)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/scenes/mol2", strings.NewReader(big)))
	assert.GreaterOrEqual(t, w.Code, 400)
	assert.Less(t, w.Code, 500)
}

func TestNewRouter_NilHandlers_NoPanic(t *testing.T) {
	var r *gin.Engine
	require.NotPanics(t, func() { r = NewRouter(RouterConfig{}) })
	assert.Equal(t, http.StatusNotFound, get(t, r, "/healthz").Code)
}

func TestNewRouter_RateLimited(t *testing.T) {
	svc, err := appscene.NewService(appscene.Config{}, nil)
	require.NoError(t, err)
	r := NewRouter(RouterConfig{
		HealthHandler: handlers.NewHealthHandler("test", nil),
		SceneHandler:  handlers.NewSceneHandler(svc),
		RateLimiter:   middleware.NewTokenBucketLimiter(0.001, 1, 0),
	})
	assert.Equal(t, http.StatusOK, get(t, r, "/api/v1/framing?diagonal=1").Code)
	assert.Equal(t, http.StatusTooManyRequests, get(t, r, "/api/v1/framing?diagonal=1").Code)
	assert.Equal(t, http.StatusOK, get(t, r, "/healthz").Code)
}

func TestSetMode(t *testing.T) {
	t.Cleanup(func() { gin.SetMode(gin.TestMode) })

	require.NoError(t, SetMode("release"))
	assert.Equal(t, gin.ReleaseMode, gin.Mode())
	require.NoError(t, SetMode("test"))
	assert.Equal(t, gin.TestMode, gin.Mode())
	assert.Error(t, SetMode("prod"))
}
