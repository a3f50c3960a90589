package handlers

import (
	"net/http"
	"os"
	"path/filepath"

	"asrdesk/services"

	"github.com/gin-gonic/gin"
)

// FileHandler serves stored audio files for download and inline
// playback.
type FileHandler struct {
	library *services.Library
}

// NewFileHandler creates a new file handler.
func NewFileHandler(lib *services.Library) *FileHandler {
	return &FileHandler{library: lib}
}

// resolve re-derives the on-disk path from client input and enforces
// store containment. Returns an empty path after writing the response
// when the request is bad.
func (h *FileHandler) resolve(c *gin.Context) string {
	path, _, err := h.library.Resolve(c.Param("filename"))
	if err != nil {
		c.String(http.StatusBadRequest, "Invalid path")
		return ""
	}
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		c.String(http.StatusNotFound, "File not found")
		return ""
	}
	return path
}

// Download forces an attachment download with a generic binary content
// type.
func (h *FileHandler) Download(c *gin.Context) {
	path := h.resolve(c)
	if path == "" {
		return
	}
	c.Header("Content-Type", "application/octet-stream")
	c.FileAttachment(path, filepath.Base(path))
}

// Stream serves the file inline with a best-guess MIME type so the
// browser's audio element can play it. Range requests are handled by
// the underlying file server.
func (h *FileHandler) Stream(c *gin.Context) {
	path := h.resolve(c)
	if path == "" {
		return
	}
	c.Header("Content-Type", services.ContentType(path))
	c.File(path)
}
