package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/molscene/internal/interfaces/http/middleware"
	"github.com/turtacn/molscene/pkg/types/common"
	scenetypes "github.com/turtacn/molscene/pkg/types/scene"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type MockSceneService struct {
	mock.Mock
}

func (m *MockSceneService) FromMol2(ctx context.Context, r io.Reader) (*scenetypes.Scene, error) {
	data, _ := io.ReadAll(r)
	args := m.Called(ctx, string(data))
	if s := args.Get(0); s != nil {
		return s.(*scenetypes.Scene), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSceneService) FromStoredFile(ctx context.Context, name string) (*scenetypes.Scene, error) {
	args := m.Called(ctx, name)
	if s := args.Get(0); s != nil {
		return s.(*scenetypes.Scene), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSceneService) StoreFile(ctx context.Context, name string, r io.Reader) (*scenetypes.FileInfo, error) {
	data, _ := io.ReadAll(r)
	args := m.Called(ctx, name, string(data))
	if s := args.Get(0); s != nil {
		return s.(*scenetypes.FileInfo), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSceneService) ListFiles(ctx context.Context, prefix string) ([]scenetypes.FileInfo, error) {
	args := m.Called(ctx, prefix)
	if s := args.Get(0); s != nil {
		return s.([]scenetypes.FileInfo), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSceneService) Alkane(ctx context.Context, carbons uint) (*scenetypes.Scene, error) {
	args := m.Called(ctx, carbons)
	if s := args.Get(0); s != nil {
		return s.(*scenetypes.Scene), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSceneService) AlkaneMol2(ctx context.Context, carbons uint, w io.Writer) error {
	args := m.Called(ctx, carbons)
	if text, ok := args.Get(0).(string); ok {
		_, _ = io.WriteString(w, text)
	}
	return args.Error(1)
}

func (m *MockSceneService) FromSMILES(ctx context.Context, smiles string) (*scenetypes.Scene, error) {
	args := m.Called(ctx, smiles)
	if s := args.Get(0); s != nil {
		return s.(*scenetypes.Scene), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSceneService) Framing(diagonal, fovDegrees float64) (*scenetypes.FramingResult, error) {
	args := m.Called(diagonal, fovDegrees)
	if s := args.Get(0); s != nil {
		return s.(*scenetypes.FramingResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func newTestEngine(svc *MockSceneService) *gin.Engine {
	e := gin.New()
	e.Use(middleware.RequestID())
	sh := NewSceneHandler(svc)
	fh := NewFileHandler(svc)
	e.POST("/api/v1/scenes/mol2", sh.FromMol2)
	e.GET("/api/v1/scenes/alkane/:carbons", sh.Alkane)
	e.GET("/api/v1/scenes/smiles", sh.FromSMILES)
	e.GET("/api/v1/framing", sh.Framing)
	e.GET("/api/v1/files", fh.List)
	e.PUT("/api/v1/files/:name", fh.Put)
	e.GET("/api/v1/files/:name/scene", fh.Scene)
	return e
}

func do(t *testing.T, e http.Handler, r *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	e.ServeHTTP(w, r)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) common.APIResponse[T] {
	t.Helper()
	var resp common.APIResponse[T]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}
