package handlers

import (
	"bytes"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	appscene "github.com/turtacn/molscene/internal/application/scene"
	"github.com/turtacn/molscene/pkg/errors"
)

// Mol2ContentType is served for MOL2 downloads.
const Mol2ContentType = "chemical/x-mol2"

// SceneHandler exposes scene construction over HTTP.
type SceneHandler struct {
	svc appscene.Service
}

// NewSceneHandler creates a SceneHandler.
func NewSceneHandler(svc appscene.Service) *SceneHandler {
	return &SceneHandler{svc: svc}
}

// FromMol2 handles POST /api/v1/scenes/mol2.  The MOL2 text is either the raw
// body or a multipart form field named "file".
func (h *SceneHandler) FromMol2(c *gin.Context) {
	body, closeFn, err := mol2Body(c)
	if err != nil {
		respondError(c, err)
		return
	}
	defer closeFn()

	sc, err := h.svc.FromMol2(c.Request.Context(), body)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, sc)
}

func mol2Body(c *gin.Context) (io.Reader, func(), error) {
	if !strings.HasPrefix(c.ContentType(), "multipart/") {
		return c.Request.Body, func() {}, nil
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return nil, nil, errors.Wrap(err, errors.ErrCodeBadRequest, "multipart upload needs a \"file\" field")
	}
	f, err := fh.Open()
	if err != nil {
		return nil, nil, errors.Wrap(err, errors.ErrCodeIOFailure, "open uploaded file")
	}
	return f, func() { _ = f.Close() }, nil
}

// Alkane handles GET /api/v1/scenes/alkane/:carbons.  With ?format=mol2 the
// generated molecule is returned as a MOL2 document instead of a scene.
func (h *SceneHandler) Alkane(c *gin.Context) {
	n, err := parseCarbons(c.Param("carbons"))
	if err != nil {
		respondError(c, err)
		return
	}

	switch c.DefaultQuery("format", "scene") {
	case "scene":
		sc, err := h.svc.Alkane(c.Request.Context(), n)
		if err != nil {
			respondError(c, err)
			return
		}
		respond(c, http.StatusOK, sc)
	case "mol2":
		var buf bytes.Buffer
		if err := h.svc.AlkaneMol2(c.Request.Context(), n, &buf); err != nil {
			respondError(c, err)
			return
		}
		c.Data(http.StatusOK, Mol2ContentType, buf.Bytes())
	default:
		respondError(c, errors.New(errors.ErrCodeBadRequest, "format must be scene or mol2").WithDetail(c.Query("format")))
	}
}

func parseCarbons(s string) (uint, error) {
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidCarbonCount, "carbon count must be a positive integer").WithDetail(s)
	}
	return uint(n), nil
}

// FromSMILES handles GET /api/v1/scenes/smiles?q=CCC.
func (h *SceneHandler) FromSMILES(c *gin.Context) {
	sc, err := h.svc.FromSMILES(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, sc)
}

// Framing handles GET /api/v1/framing?diagonal=..&fov=..  fov is in degrees
// and optional.
func (h *SceneHandler) Framing(c *gin.Context) {
	raw, ok := c.GetQuery("diagonal")
	if !ok {
		respondError(c, errors.New(errors.ErrCodeBadRequest, "diagonal is required"))
		return
	}
	diagonal, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		respondError(c, errors.New(errors.ErrCodeBadRequest, "diagonal must be a number").WithDetail(raw))
		return
	}
	var fov float64
	if raw := c.Query("fov"); raw != "" {
		if fov, err = strconv.ParseFloat(raw, 64); err != nil {
			respondError(c, errors.New(errors.ErrCodeInvalidFieldOfView, "fov must be a number").WithDetail(raw))
			return
		}
	}

	res, err := h.svc.Framing(diagonal, fov)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, res)
}
