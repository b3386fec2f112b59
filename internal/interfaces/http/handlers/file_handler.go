package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appscene "github.com/turtacn/molscene/internal/application/scene"
)

// FileHandler exposes the stored MOL2 library.
type FileHandler struct {
	svc appscene.Service
}

// NewFileHandler creates a FileHandler.
func NewFileHandler(svc appscene.Service) *FileHandler {
	return &FileHandler{svc: svc}
}

// List handles GET /api/v1/files?prefix=..
func (h *FileHandler) List(c *gin.Context) {
	files, err := h.svc.ListFiles(c.Request.Context(), c.Query("prefix"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, files)
}

// Put handles PUT /api/v1/files/:name with the MOL2 text as body.
func (h *FileHandler) Put(c *gin.Context) {
	info, err := h.svc.StoreFile(c.Request.Context(), c.Param("name"), c.Request.Body)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, info)
}

// Scene handles GET /api/v1/files/:name/scene.
func (h *FileHandler) Scene(c *gin.Context) {
	sc, err := h.svc.FromStoredFile(c.Request.Context(), c.Param("name"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, sc)
}
