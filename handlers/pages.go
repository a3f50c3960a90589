package handlers

import (
	"net/http"

	"asrdesk/services"

	"github.com/gin-gonic/gin"
)

// PageHandler renders the HTML pages.
type PageHandler struct {
	library *services.Library
	title   string
}

// NewPageHandler creates a new page handler.
func NewPageHandler(lib *services.Library, title string) *PageHandler {
	return &PageHandler{library: lib, title: title}
}

// Home renders the file listing page with aggregate stats and the
// speaker MRU list. Sorting, searching, pagination and playback are
// client-side.
func (h *PageHandler) Home(c *gin.Context) {
	files, err := h.library.List()
	if err != nil {
		c.String(http.StatusInternalServerError, "failed to list files")
		return
	}
	c.HTML(http.StatusOK, "index.tmpl", gin.H{
		"Title":    h.title,
		"Files":    files,
		"Stats":    h.library.Stats(files),
		"Speakers": h.library.Speakers(),
	})
}
