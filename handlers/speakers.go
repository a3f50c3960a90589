package handlers

import (
	"net/http"
	"strings"

	"asrdesk/services"
	"asrdesk/types"

	"github.com/gin-gonic/gin"
)

// SpeakerHandler manages the speaker registry endpoint.
type SpeakerHandler struct {
	library *services.Library
}

// NewSpeakerHandler creates a new speaker handler.
func NewSpeakerHandler(lib *services.Library) *SpeakerHandler {
	return &SpeakerHandler{library: lib}
}

// Add handles POST /speaker_add: registers or refreshes a registry
// entry at the front of the MRU list.
func (h *SpeakerHandler) Add(c *gin.Context) {
	var req types.SpeakerAddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid request body"})
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		c.JSON(http.StatusOK, gin.H{"ok": false, "error": "name is required"})
		return
	}
	if err := h.library.AddSpeaker(name, req.Gender, req.Lang); err != nil {
		c.JSON(http.StatusOK, gin.H{"ok": false, "error": "Failed to write speakers"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "name": name})
}
