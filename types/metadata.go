package types

// Language values accepted for a recording.
const (
	LangKhmer   = "Khmer"
	LangEnglish = "English"
	LangMix     = "Mix-Both"
)

// Gender values accepted for a recording. GenderNone is a display
// sentinel; the programmatic upload path stores it when no valid
// gender was supplied.
const (
	GenderMale   = "Male"
	GenderFemale = "Female"
	GenderNone   = "None"
)

// ValidLang reports whether s is an accepted language value.
func ValidLang(s string) bool {
	return s == LangKhmer || s == LangEnglish || s == LangMix
}

// ValidGender reports whether s is an accepted gender value.
func ValidGender(s string) bool {
	return s == GenderMale || s == GenderFemale
}

// MetadataEntry is one annotation record in the metadata document,
// keyed by the stored filename. SizeHuman, SizeBytes and MtimeISO are
// display caches recomputed from the live file on every listing pass.
type MetadataEntry struct {
	Label        string `json:"label"`
	Verified     bool   `json:"verified"`
	Lang         string `json:"lang"`
	Gender       string `json:"gender"`
	Speaker      string `json:"speaker"`
	SizeHuman    string `json:"size_h"`
	SizeBytes    int64  `json:"size_bytes"`
	MtimeISO     string `json:"mtime_iso"`
	OriginalName string `json:"original_name,omitempty"`
}

// AudioFile is a listing row: live file stats merged with the file's
// metadata entry.
type AudioFile struct {
	Name      string `json:"name"`
	Size      int64  `json:"size"`
	SizeHuman string `json:"size_h"`
	Mtime     int64  `json:"mtime"`
	MtimeISO  string `json:"mtime_iso"`
	Label     string `json:"label"`
	Speaker   string `json:"speaker"`
	Lang      string `json:"lang"`
	Gender    string `json:"gender"`
	Verified  bool   `json:"verified"`
}

// Speaker is one entry in the speaker registry. Gender and Lang are
// hints captured the last time the name was used.
type Speaker struct {
	Name   string `json:"name"`
	Gender string `json:"gender"`
	Lang   string `json:"lang"`
}

// LibraryStats aggregates the counters shown on the home page.
type LibraryStats struct {
	Count         int    `json:"count"`
	TotalBytes    int64  `json:"total_bytes"`
	TotalHuman    string `json:"total_h"`
	VerifiedCount int    `json:"verified_count"`
	SpeakerCount  int    `json:"speaker_count"`
}

// AudioTags is the embedded tag data probed from an uploaded file.
type AudioTags struct {
	Title  string `json:"title,omitempty"`
	Artist string `json:"artist,omitempty"`
	Album  string `json:"album,omitempty"`
}
