package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GTDGit/kaira_store/internal/storage"
)

// UploadHandler streams uploaded images from the configured store.
type UploadHandler struct {
	uploads storage.Store
}

// NewUploadHandler constructs an UploadHandler.
func NewUploadHandler(uploads storage.Store) *UploadHandler {
	return &UploadHandler{uploads: uploads}
}

// Serve handles GET /static/uploads/:name
func (h *UploadHandler) Serve(c *gin.Context) {
	rc, contentType, err := h.uploads.Open(c.Request.Context(), c.Param("name"))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.Status(http.StatusNotFound)
			return
		}
		_ = c.Error(err)
		c.Status(http.StatusInternalServerError)
		return
	}
	defer rc.Close()

	c.Header("Cache-Control", "public, max-age=3600")
	c.DataFromReader(http.StatusOK, -1, contentType, rc, nil)
}
