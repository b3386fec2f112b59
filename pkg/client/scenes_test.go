package client

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/molscene/pkg/types/scene"
)

const ethaneScene = `{"success":true,"data":{"name":"ethane","formula":"C2H6","source":"alkane",` +
	`"atoms":[{"id":1,"element":"C","position":[0,0,0]}],"bonds":[],` +
	`"bounding_box":{"min":[0,0,0],"max":[1.54,0,0],"diagonal":1.54},"camera_distance":0.77,"framing":"direct"}}`

func TestScenes_FromMol2(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/scenes/mol2", r.URL.Path)
		assert.Equal(t, Mol2ContentType, r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		assert.Contains(t, string(body), "@<TRIPOS>MOLECULE")
		writeJSON(w, http.StatusOK, ethaneScene)
	})

	sc, err := c.Scenes().FromMol2(context.Background(), strings.NewReader("@<TRIPOS>MOLECULE\nethane\n"))
	require.NoError(t, err)
	assert.Equal(t, "ethane", sc.Name)
	require.NotNil(t, sc.BoundingBox)
	assert.InDelta(t, 1.54, sc.BoundingBox.Diagonal, 1e-9)
	assert.Equal(t, scene.Vec3{0, 0, 0}, sc.Atoms[0].Position)
}

func TestScenes_FromMol2_ParseError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnprocessableEntity,
			`{"success":false,"error":{"code":"MOL2_002","message":"unknown element symbol","detail":"Xx"}}`)
	})
	_, err := c.Scenes().FromMol2(context.Background(), strings.NewReader("bad"))
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.True(t, apiErr.IsParseError())
}

func TestScenes_Alkane(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/scenes/alkane/2", r.URL.Path)
		assert.Empty(t, r.URL.RawQuery)
		writeJSON(w, http.StatusOK, ethaneScene)
	})
	sc, err := c.Scenes().Alkane(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, scene.SourceAlkane, sc.Source)
	assert.InDelta(t, 0.77, sc.CameraDistance, 1e-9)
}

func TestScenes_AlkaneMol2(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "mol2", r.URL.Query().Get("format"))
		assert.Equal(t, Mol2ContentType, r.Header.Get("Accept"))
		w.Header().Set("Content-Type", Mol2ContentType)
		_, _ = w.Write([]byte("@<TRIPOS>MOLECULE\nmethane\n"))
	})
	doc, err := c.Scenes().AlkaneMol2(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(doc), "@<TRIPOS>MOLECULE"))
}

func TestScenes_Alkane_InvalidCount(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, `{"success":false,"error":{"code":"SCN_001","message":"invalid carbon count"}}`)
	})
	_, err := c.Scenes().Alkane(context.Background(), 0)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "SCN_001", apiErr.Code)
}

func TestScenes_FromSMILES(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/scenes/smiles", r.URL.Path)
		assert.Equal(t, "CC", r.URL.Query().Get("q"))
		writeJSON(w, http.StatusOK, ethaneScene)
	})
	sc, err := c.Scenes().FromSMILES(context.Background(), "CC")
	require.NoError(t, err)
	assert.Equal(t, "C2H6", sc.Formula)
}

func TestScenes_Framing(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "10", q.Get("diagonal"))
		if q.Has("fov") {
			assert.Equal(t, "60", q.Get("fov"))
		}
		writeJSON(w, http.StatusOK, `{"success":true,"data":{"diagonal":10,"fov_degrees":60,"direct":5,"fov":8.660254}}`)
	})

	res, err := c.Scenes().Framing(context.Background(), 10, 60)
	require.NoError(t, err)
	assert.Equal(t, 5.0, res.Direct)
	assert.InDelta(t, 8.660254, res.FOV, 1e-6)

	_, err = c.Scenes().Framing(context.Background(), 10, 0)
	require.NoError(t, err)
}
