package handlers

import (
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"asrdesk/services"
	"asrdesk/types"

	"github.com/gin-gonic/gin"
)

// UploadHandler handles the interactive batch upload and the
// programmatic single-file upload.
type UploadHandler struct {
	library *services.Library
}

// NewUploadHandler creates a new upload handler.
func NewUploadHandler(lib *services.Library) *UploadHandler {
	return &UploadHandler{library: lib}
}

// Upload accepts a multipart batch under the "files" field. Each audio
// file is renamed to the next free 6-digit name; non-audio uploads are
// skipped. Redirects back to the listing either way.
func (h *UploadHandler) Upload(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	seq := h.library.NextSequence()
	for _, fh := range form.File["files"] {
		safe := services.SanitizeFilename(fh.Filename)
		ext := strings.ToLower(filepath.Ext(safe))
		if !services.AllowedExtension(ext) {
			continue
		}
		content, err := readUpload(fh)
		if err != nil {
			continue
		}
		name := h.library.Allocate(&seq, ext)
		if _, err := h.library.SaveUpload(name, content, services.DefaultEntry()); err != nil {
			continue
		}
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// UploadOutside accepts one file plus metadata form fields, for
// programmatic clients. Validation is deliberately lenient here:
// an unknown language falls back to Khmer and an unknown gender to the
// "None" sentinel, unlike the interactive field updaters which reject.
func (h *UploadHandler) UploadOutside(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "file is required"})
		return
	}

	lang := c.DefaultPostForm("language", types.LangKhmer)
	if !types.ValidLang(lang) {
		lang = types.LangKhmer
	}
	gender := c.PostForm("gender")
	if !types.ValidGender(gender) {
		gender = types.GenderNone
	}
	verified := parseFormBool(c.PostForm("verified"))
	speaker := strings.TrimSpace(c.PostForm("speaker"))
	label := services.CleanLabel(c.PostForm("label"))

	origName := fh.Filename
	safe := services.SanitizeFilename(origName)
	ext := strings.ToLower(filepath.Ext(safe))
	if !services.AllowedExtension(ext) {
		c.JSON(http.StatusOK, gin.H{"ok": false, "error": services.ErrUnsupportedType.Error()})
		return
	}

	content, err := readUpload(fh)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "failed to read upload"})
		return
	}

	seq := h.library.NextSequence()
	name := h.library.Allocate(&seq, ext)
	entry, err := h.library.SaveUpload(name, content, types.MetadataEntry{
		Label:        label,
		Verified:     verified,
		Lang:         lang,
		Gender:       gender,
		Speaker:      speaker,
		OriginalName: origName,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "failed to store file"})
		return
	}

	if speaker != "" {
		_ = h.library.AddSpeaker(speaker, gender, lang)
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":         true,
		"file":       name,
		"label":      entry.Label,
		"lang":       lang,
		"gender":     gender,
		"verified":   verified,
		"speaker":    speaker,
		"size_bytes": entry.SizeBytes,
		"mtime_iso":  entry.MtimeISO,
	})
}

// readUpload buffers the whole part in memory; the store writes each
// file in one pass, there is no streaming.
func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func parseFormBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "on", "yes":
		return true
	}
	return false
}
