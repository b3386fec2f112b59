package client

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(server.URL, opts...)
	require.NoError(t, err)
	return client
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

type testLogger struct {
	mu      sync.Mutex
	lastMsg string
	count   int32
}

func (l *testLogger) Debugf(format string, args ...interface{}) { l.log(format, args...) }
func (l *testLogger) Infof(format string, args ...interface{})  { l.log(format, args...) }
func (l *testLogger) Errorf(format string, args ...interface{}) { l.log(format, args...) }

func (l *testLogger) log(format string, args ...interface{}) {
	atomic.AddInt32(&l.count, 1)
	l.mu.Lock()
	l.lastMsg = fmt.Sprintf(format, args...)
	l.mu.Unlock()
}

func TestNewClient_Success(t *testing.T) {
	c, err := NewClient("http://scenes.example.com/")
	require.NoError(t, err)
	assert.Equal(t, "http://scenes.example.com", c.baseURL)
	assert.Equal(t, 3, c.retryMax)
	assert.Contains(t, c.userAgent, "molscene-go-sdk/")
}

func TestNewClient_InvalidBaseURL(t *testing.T) {
	for _, raw := range []string{"", "ftp://scenes", "no-scheme", "http://[::1"} {
		_, err := NewClient(raw)
		assert.ErrorIs(t, err, ErrInvalidConfig, raw)
	}
}

func TestNewClient_WithOptions(t *testing.T) {
	logger := &testLogger{}
	c, err := NewClient("https://scenes.example.com",
		WithLogger(logger),
		WithRetryMax(1),
		WithRetryWait(time.Millisecond, 10*time.Millisecond),
		WithUserAgent("viewer/2"),
	)
	require.NoError(t, err)
	assert.Same(t, logger, c.logger)
	assert.Equal(t, 1, c.retryMax)
	assert.Equal(t, "viewer/2", c.userAgent)
}

func TestClient_SubClients_ConcurrentAccess(t *testing.T) {
	c, err := NewClient("http://scenes.example.com")
	require.NoError(t, err)

	var wg sync.WaitGroup
	got := make([]*ScenesClient, 50)
	for i := range got {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			got[idx] = c.Scenes()
		}(i)
	}
	wg.Wait()
	for _, s := range got[1:] {
		assert.Same(t, got[0], s)
	}
	assert.Same(t, c.Files(), c.Files())
}

func TestClient_Do_UnwrapsEnvelope(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"success":true,"data":{"n":4},"timestamp":"2024-01-01T00:00:00Z"}`)
	})
	var out struct{ N int }
	require.NoError(t, c.get(context.Background(), "/x", nil, &out))
	assert.Equal(t, 4, out.N)
}

func TestClient_Do_RawResult(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("@<TRIPOS>MOLECULE\n"))
	})
	var raw []byte
	require.NoError(t, c.get(context.Background(), "/x", nil, &raw))
	assert.Equal(t, "@<TRIPOS>MOLECULE\n", string(raw))
}

func TestClient_Do_RequestHeaders(t *testing.T) {
	ids := make(chan string, 2)
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Empty(t, r.Header.Get("Content-Type"))
		assert.Contains(t, r.Header.Get("User-Agent"), "molscene-go-sdk/")
		ids <- r.Header.Get("X-Request-ID")
		w.WriteHeader(http.StatusOK)
	})
	require.NoError(t, c.get(context.Background(), "/x", nil, nil))
	require.NoError(t, c.get(context.Background(), "/x", nil, nil))
	close(ids)

	first, second := <-ids, <-ids
	assert.NotEmpty(t, first)
	assert.NotEqual(t, first, second)
}

func TestClient_Do_4xxError(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		writeJSON(w, http.StatusUnprocessableEntity,
			`{"success":false,"error":{"code":"MOL2_001","message":"malformed numeric field","detail":"line 4"},"request_id":"req-1"}`)
	})
	err := c.get(context.Background(), "/x", nil, nil)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
	assert.Equal(t, "MOL2_001", apiErr.Code)
	assert.Equal(t, "line 4", apiErr.Detail)
	assert.Equal(t, "req-1", apiErr.RequestID)
	assert.True(t, apiErr.IsParseError())
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestClient_Do_NonJSONError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gateway said no", http.StatusBadRequest)
	})
	err := c.get(context.Background(), "/x", nil, nil)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Contains(t, apiErr.Message, "gateway said no")
	assert.NotEmpty(t, apiErr.RequestID)
}

func TestClient_Do_5xxRetry(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}, WithRetryWait(time.Millisecond, 2*time.Millisecond))

	require.NoError(t, c.get(context.Background(), "/x", nil, nil))
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestClient_Do_5xxRetryExhausted(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}, WithRetryMax(2), WithRetryWait(time.Millisecond, 2*time.Millisecond))

	err := c.get(context.Background(), "/x", nil, nil)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.True(t, apiErr.IsServerError())
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestClient_Do_429RetryAfter(t *testing.T) {
	var calls int32
	logger := &testLogger{}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.Header().Set("Retry-After", "1")
			writeJSON(w, http.StatusTooManyRequests, `{"success":false,"error":{"code":"COMMON_007","message":"rate limit exceeded"}}`)
			return
		}
		w.WriteHeader(http.StatusOK)
	}, WithLogger(logger))

	start := time.Now()
	require.NoError(t, c.get(context.Background(), "/x", nil, nil))
	assert.GreaterOrEqual(t, time.Since(start), time.Second)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestClient_Do_429WithoutRetryAfter(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusTooManyRequests, `{"success":false,"error":{"code":"COMMON_007","message":"rate limit exceeded"}}`)
	})
	err := c.get(context.Background(), "/x", nil, nil)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.True(t, apiErr.IsRateLimited())
}

func TestClient_Do_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	logger := &testLogger{}
	c, err := NewClient(server.URL, WithLogger(logger), WithRetryMax(1), WithRetryWait(time.Millisecond, 2*time.Millisecond))
	require.NoError(t, err)
	assert.Error(t, c.get(context.Background(), "/x", nil, nil))
	assert.NotZero(t, atomic.LoadInt32(&logger.count))
}

func TestClient_Do_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	assert.ErrorIs(t, c.get(ctx, "/x", nil, nil), context.Canceled)
}

func TestClient_Do_ContextTimeout(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	})
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, c.get(ctx, "/x", nil, nil), context.DeadlineExceeded)
}

func TestAPIError_Methods(t *testing.T) {
	assert.True(t, (&APIError{StatusCode: 404}).IsNotFound())
	assert.True(t, (&APIError{StatusCode: 429}).IsRateLimited())
	assert.True(t, (&APIError{StatusCode: 502}).IsServerError())
	assert.False(t, (&APIError{StatusCode: 400}).IsServerError())
	assert.False(t, (&APIError{Code: "SCN_001"}).IsParseError())

	assert.Equal(t, "molscene: SCN_001 (HTTP 400): invalid carbon count [request_id=id]",
		(&APIError{Code: "SCN_001", StatusCode: 400, Message: "invalid carbon count", RequestID: "id"}).Error())
	assert.Equal(t, "molscene: MOL2_002 (HTTP 422): unknown element symbol: Xx [request_id=id]",
		(&APIError{Code: "MOL2_002", StatusCode: 422, Message: "unknown element symbol", Detail: "Xx", RequestID: "id"}).Error())
}

func TestCalculateBackoff(t *testing.T) {
	c := &Client{retryWaitMin: 100 * time.Millisecond, retryWaitMax: 300 * time.Millisecond}
	first := c.calculateBackoff(1)
	assert.GreaterOrEqual(t, first, 100*time.Millisecond)
	assert.Less(t, first, 125*time.Millisecond)

	capped := c.calculateBackoff(5)
	assert.GreaterOrEqual(t, capped, 300*time.Millisecond)
	assert.Less(t, capped, 375*time.Millisecond)
}
