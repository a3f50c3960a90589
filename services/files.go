package services

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"asrdesk/types"

	"github.com/dhowden/tag"
)

// allowedExtensions is the audio extension whitelist for the store.
var allowedExtensions = map[string]bool{
	".mp3":  true,
	".wav":  true,
	".m4a":  true,
	".aac":  true,
	".ogg":  true,
	".flac": true,
	".opus": true,
	".wma":  true,
	".aiff": true,
}

// AllowedExtension reports whether ext (with leading dot, any case) is
// an accepted audio extension.
func AllowedExtension(ext string) bool {
	return allowedExtensions[strings.ToLower(ext)]
}

// ContentType returns the MIME type used for inline playback of the
// named file. Unknown extensions fall back to audio/mpeg.
func ContentType(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".mp3":
		return "audio/mpeg"
	case ".wav":
		return "audio/wav"
	case ".m4a":
		return "audio/mp4"
	case ".aac":
		return "audio/aac"
	case ".ogg", ".opus":
		return "audio/ogg"
	case ".flac":
		return "audio/flac"
	case ".wma":
		return "audio/x-ms-wma"
	case ".aiff":
		return "audio/aiff"
	default:
		return "audio/mpeg"
	}
}

// HumanSize formats a byte count for display: whole bytes below 1 KB,
// then two decimals per 1024 step up to TB.
func HumanSize(n int64) string {
	const step = 1024.0
	v := float64(n)
	for _, unit := range []string{"B", "KB", "MB", "GB", "TB"} {
		if v < step || unit == "TB" {
			if unit == "B" {
				return fmt.Sprintf("%.0f B", v)
			}
			return fmt.Sprintf("%.2f %s", v, unit)
		}
		v /= step
	}
	return ""
}

// ProbeTags reads embedded tags (title, artist, album) from an audio
// file. Returns nil when the file cannot be opened or carries no
// parsable tags; callers treat the probe as best-effort.
func ProbeTags(path string) *types.AudioTags {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()
	m, err := tag.ReadFrom(f)
	if err != nil {
		return nil
	}
	return &types.AudioTags{
		Title:  m.Title(),
		Artist: m.Artist(),
		Album:  m.Album(),
	}
}
