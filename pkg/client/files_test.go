package client

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFiles_List(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/files", r.URL.Path)
		assert.Equal(t, "eth", r.URL.Query().Get("prefix"))
		writeJSON(w, http.StatusOK, `{"success":true,"data":[{"name":"ethane.mol2","size":512,"last_modified":"2024-03-01T10:00:00Z"}]}`)
	})
	files, err := c.Files().List(context.Background(), "eth")
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "ethane.mol2", files[0].Name)
	assert.Equal(t, int64(512), files[0].Size)
}

func TestFiles_Put(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/v1/files/ethane.mol2", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, "@<TRIPOS>MOLECULE\n", string(body))
		writeJSON(w, http.StatusCreated, `{"success":true,"data":{"name":"ethane.mol2","size":18,"last_modified":"2024-03-01T10:00:00Z"}}`)
	})
	info, err := c.Files().Put(context.Background(), "ethane.mol2", strings.NewReader("@<TRIPOS>MOLECULE\n"))
	require.NoError(t, err)
	assert.Equal(t, int64(18), info.Size)
}

func TestFiles_Scene_Disabled(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/files/ethane.mol2/scene", r.URL.Path)
		writeJSON(w, http.StatusNotImplemented, `{"success":false,"error":{"code":"COMMON_015","message":"feature disabled"}}`)
	}, WithRetryMax(0))
	_, err := c.Files().Scene(context.Background(), "ethane.mol2")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "COMMON_015", apiErr.Code)
}
