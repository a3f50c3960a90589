package handlers

import (
	"errors"
	"net/http"

	"asrdesk/services"
	"asrdesk/types"

	"github.com/gin-gonic/gin"
)

// FieldHandler exposes the per-field metadata updaters. Each endpoint
// is a narrow read-modify-write over the whole metadata document and
// returns the new value so the client can patch its view without a
// reload.
type FieldHandler struct {
	library *services.Library
}

// NewFieldHandler creates a new field handler.
func NewFieldHandler(lib *services.Library) *FieldHandler {
	return &FieldHandler{library: lib}
}

// fieldError writes the soft-error JSON contract. Not-found and
// invalid-value results stay HTTP 200 so the page script can show the
// message; only a path escape is a real 400.
func fieldError(c *gin.Context, err error) {
	status := http.StatusOK
	if errors.Is(err, services.ErrPathEscape) {
		status = http.StatusBadRequest
	}
	c.JSON(status, gin.H{"ok": false, "error": err.Error()})
}

// displayValue maps an empty stored value to the "None" display
// sentinel.
func displayValue(s string) string {
	if s == "" {
		return "None"
	}
	return s
}

// Label handles POST /label.
func (h *FieldHandler) Label(c *gin.Context) {
	var req types.LabelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid request body"})
		return
	}
	label, err := h.library.SetLabel(req.Filename, req.Label)
	if err != nil {
		fieldError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "label": displayValue(label)})
}

// Speaker handles POST /speaker.
func (h *FieldHandler) Speaker(c *gin.Context) {
	var req types.SpeakerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid request body"})
		return
	}
	speaker, err := h.library.SetSpeaker(req.Filename, req.Speaker)
	if err != nil {
		fieldError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "speaker": displayValue(speaker)})
}

// Verify handles POST /verify. The flag simply toggles between the
// Verify/Verified states; there is no further workflow.
func (h *FieldHandler) Verify(c *gin.Context) {
	var req types.VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid request body"})
		return
	}
	verified, err := h.library.SetVerified(req.Filename, req.Verified)
	if err != nil {
		fieldError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "verified": verified})
}

// Lang handles POST /lang.
func (h *FieldHandler) Lang(c *gin.Context) {
	var req types.LangRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid request body"})
		return
	}
	lang, err := h.library.SetLang(req.Filename, req.Lang)
	if err != nil {
		fieldError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "lang": lang})
}

// Gender handles POST /gender.
func (h *FieldHandler) Gender(c *gin.Context) {
	var req types.GenderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid request body"})
		return
	}
	gender, err := h.library.SetGender(req.Filename, req.Gender)
	if err != nil {
		fieldError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "gender": gender})
}
