package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newEngine mounts mw in front of GET/OPTIONS /api/v1/scenes and /healthz.
func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	e := gin.New()
	e.Use(mw...)
	ok := func(c *gin.Context) { c.String(http.StatusOK, "ok") }
	e.GET("/api/v1/scenes", ok)
	e.OPTIONS("/api/v1/scenes", ok)
	e.GET("/api/v1/scenes/alkane/:carbons", ok)
	e.GET("/healthz", ok)
	e.GET("/fail", func(c *gin.Context) { c.String(http.StatusInternalServerError, "boom") })
	e.GET("/bad", func(c *gin.Context) { c.String(http.StatusBadRequest, "bad") })
	return e
}

func serve(t *testing.T, h http.Handler, r *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}
