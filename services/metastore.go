package services

import (
	"encoding/json"
	"os"
	"path/filepath"

	"asrdesk/types"
)

// Sidecar documents living beside the audio files.
const (
	MetadataFilename = "metadata.json"
	SpeakersFilename = "speakers.json"
)

// Document maps stored filename to its normalized annotation record.
// Entries for files no longer on disk are kept as-is (tombstones are
// never pruned).
type Document map[string]*types.MetadataEntry

// MetadataStore is the whole-document read-modify-write contract every
// handler shares. There is no locking; concurrent writers race and the
// slower Save wins.
type MetadataStore interface {
	// Load returns the current document. A missing or unparsable file
	// yields an empty document, never an error. The bool reports
	// whether any entry needed shape normalization (legacy bare-string
	// record or missing fields) and should be written back.
	Load() (Document, bool)
	// Save rewrites the whole document.
	Save(Document) error
	// Filename is the document's basename within the store directory,
	// so directory scans can skip it.
	Filename() string
}

// DefaultEntry returns a fully-defaulted annotation record.
func DefaultEntry() types.MetadataEntry {
	return types.MetadataEntry{
		Lang:   types.LangKhmer,
		Gender: types.GenderMale,
	}
}

// rawEntry resolves the three shapes an entry can have on disk: a full
// record, a legacy bare string holding only the label, or an object
// with fields missing.
type rawEntry struct {
	entry      types.MetadataEntry
	normalized bool
}

func (r *rawEntry) UnmarshalJSON(data []byte) error {
	var label string
	if err := json.Unmarshal(data, &label); err == nil {
		r.entry = DefaultEntry()
		r.entry.Label = label
		r.normalized = true
		return nil
	}

	var obj struct {
		Label        *string `json:"label"`
		Verified     *bool   `json:"verified"`
		Lang         *string `json:"lang"`
		Gender       *string `json:"gender"`
		Speaker      *string `json:"speaker"`
		SizeHuman    *string `json:"size_h"`
		SizeBytes    *int64  `json:"size_bytes"`
		MtimeISO     *string `json:"mtime_iso"`
		OriginalName *string `json:"original_name"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}

	r.entry = DefaultEntry()
	if obj.Label != nil {
		r.entry.Label = *obj.Label
	} else {
		r.normalized = true
	}
	if obj.Verified != nil {
		r.entry.Verified = *obj.Verified
	} else {
		r.normalized = true
	}
	if obj.Lang != nil && *obj.Lang != "" {
		r.entry.Lang = *obj.Lang
	} else if obj.Lang == nil {
		r.normalized = true
	}
	if obj.Gender != nil && *obj.Gender != "" {
		r.entry.Gender = *obj.Gender
	} else if obj.Gender == nil {
		r.normalized = true
	}
	if obj.Speaker != nil {
		r.entry.Speaker = *obj.Speaker
	} else {
		r.normalized = true
	}
	if obj.SizeHuman != nil {
		r.entry.SizeHuman = *obj.SizeHuman
	}
	if obj.SizeBytes != nil {
		r.entry.SizeBytes = *obj.SizeBytes
	}
	if obj.MtimeISO != nil {
		r.entry.MtimeISO = *obj.MtimeISO
	}
	if obj.OriginalName != nil {
		r.entry.OriginalName = *obj.OriginalName
	}
	return nil
}

// jsonMetadataStore keeps the document as a pretty-printed JSON file
// beside the audio files it describes.
type jsonMetadataStore struct {
	path string
}

// NewMetadataStore returns a MetadataStore backed by the JSON document
// at path.
func NewMetadataStore(path string) MetadataStore {
	return &jsonMetadataStore{path: path}
}

func (s *jsonMetadataStore) Load() (Document, bool) {
	doc := Document{}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return doc, false
	}
	var raw map[string]*rawEntry
	if err := json.Unmarshal(data, &raw); err != nil {
		return doc, false
	}
	normalized := false
	for name, re := range raw {
		if re == nil {
			e := DefaultEntry()
			doc[name] = &e
			normalized = true
			continue
		}
		entry := re.entry
		doc[name] = &entry
		if re.normalized {
			normalized = true
		}
	}
	return doc, normalized
}

func (s *jsonMetadataStore) Save(doc Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0644)
}

func (s *jsonMetadataStore) Filename() string {
	return filepath.Base(s.path)
}
