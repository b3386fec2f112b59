package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/molscene/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/molscene/internal/testutil"
	"github.com/turtacn/molscene/pkg/types/common"
)

func TestRecovery_Panic(t *testing.T) {
	log := testutil.NewMockLogger()
	e := gin.New()
	e.Use(RequestID(), Recovery(log))
	e.GET("/panic", func(c *gin.Context) { panic("nil atom") })

	r := httptest.NewRequest(http.MethodGet, "/panic", nil)
	r.Header.Set(RequestIDHeader, "req-1")
	w := serve(t, e, r)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var body common.APIResponse[any]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
	require.NotNil(t, body.Error)
	assert.Equal(t, "COMMON_001", body.Error.Code)
	assert.Equal(t, "req-1", body.RequestID)

	msg, ok := log.Find(logging.LevelError, "panic recovered")
	require.True(t, ok)
	p, _ := msg.Field("panic")
	assert.Equal(t, "nil atom", p)
}

func TestRecovery_NoPanic(t *testing.T) {
	log := testutil.NewMockLogger()
	w := serve(t, newEngine(Recovery(log)), httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, log.GetMessages())
}
