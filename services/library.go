package services

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"asrdesk/types"

	"go.uber.org/zap"
)

const timeLayout = "2006-01-02 15:04:05"

var controlChars = regexp.MustCompile(`[\x00-\x1F\x7F]`)

// CleanLabel strips control characters from a label and caps it at 200
// characters (runes, the labels are mostly Khmer text).
func CleanLabel(s string) string {
	s = controlChars.ReplaceAllString(strings.TrimSpace(s), "")
	if r := []rune(s); len(r) > 200 {
		s = string(r[:200])
	}
	return s
}

// Library coordinates the file store directory and its sidecar
// documents. Every mutating method is a self-contained whole-document
// read-modify-write pass; there is no locking, so concurrent editors
// race and the slower write wins. Accepted for single-team usage.
type Library struct {
	dir      string
	meta     MetadataStore
	speakers *SpeakerRegistry
	log      *zap.SugaredLogger
}

// NewLibrary builds a Library over dir with an injected metadata
// store, which keeps the read-modify-write contract testable.
func NewLibrary(dir string, meta MetadataStore, speakers *SpeakerRegistry, log *zap.SugaredLogger) *Library {
	return &Library{dir: dir, meta: meta, speakers: speakers, log: log}
}

// OpenLibrary wires a Library over dir with the standard sidecar
// documents (metadata.json, speakers.json).
func OpenLibrary(dir string, log *zap.SugaredLogger) *Library {
	return NewLibrary(
		dir,
		NewMetadataStore(filepath.Join(dir, MetadataFilename)),
		NewSpeakerRegistry(filepath.Join(dir, SpeakersFilename)),
		log,
	)
}

// Dir is the store directory.
func (l *Library) Dir() string { return l.dir }

// Resolve sanitizes a client-supplied filename and resolves it inside
// the store directory.
func (l *Library) Resolve(filename string) (absPath, safeName string, err error) {
	return ResolveInStore(l.dir, filename)
}

// NextSequence returns the next free 6-digit sequence number.
func (l *Library) NextSequence() int { return NextSequence(l.dir) }

// Allocate claims the next free numbered filename for ext, advancing
// the batch counter.
func (l *Library) Allocate(seq *int, ext string) string {
	return AllocateName(l.dir, seq, ext)
}

// List reconciles the store directory with the metadata document and
// returns the enriched rows, most recently modified first. Missing or
// legacy-shaped entries are normalized and stat-derived display fields
// refreshed; if anything changed the document is rewritten
// best-effort (a failure is logged, not surfaced).
func (l *Library) List() ([]types.AudioFile, error) {
	doc, dirty := l.meta.Load()
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, err
	}

	var files []types.AudioFile
	for _, de := range entries {
		if de.IsDir() {
			continue
		}
		name := de.Name()
		if name == l.meta.Filename() || name == l.speakers.Filename() {
			continue
		}
		if !AllowedExtension(filepath.Ext(name)) {
			continue
		}
		info, err := de.Info()
		if err != nil {
			continue
		}
		entry, ok := doc[name]
		if !ok {
			e := DefaultEntry()
			entry = &e
			doc[name] = entry
			dirty = true
		}
		if refreshStatFields(entry, info.Size(), info.ModTime().Format(timeLayout)) {
			dirty = true
		}
		files = append(files, types.AudioFile{
			Name:      name,
			Size:      info.Size(),
			SizeHuman: entry.SizeHuman,
			Mtime:     info.ModTime().Unix(),
			MtimeISO:  entry.MtimeISO,
			Label:     entry.Label,
			Speaker:   entry.Speaker,
			Lang:      entry.Lang,
			Gender:    entry.Gender,
			Verified:  entry.Verified,
		})
	}

	// Most recent first; ties keep directory-scan order.
	sort.SliceStable(files, func(i, j int) bool { return files[i].Mtime > files[j].Mtime })

	if dirty {
		if err := l.meta.Save(doc); err != nil {
			l.log.Warnw("metadata refresh not persisted", "error", err)
		}
	}
	return files, nil
}

// Stats aggregates the home page counters over a listing.
func (l *Library) Stats(files []types.AudioFile) types.LibraryStats {
	st := types.LibraryStats{Count: len(files)}
	seen := make(map[string]bool)
	for _, f := range files {
		st.TotalBytes += f.Size
		if f.Verified {
			st.VerifiedCount++
		}
		if f.Speaker != "" && !seen[f.Speaker] {
			seen[f.Speaker] = true
			st.SpeakerCount++
		}
	}
	st.TotalHuman = HumanSize(st.TotalBytes)
	return st
}

// Speakers returns the registry list, most recently used first.
func (l *Library) Speakers() []types.Speaker { return l.speakers.Load() }

// AddSpeaker registers or refreshes a registry entry.
func (l *Library) AddSpeaker(name, gender, lang string) error {
	return l.speakers.Touch(strings.TrimSpace(name), gender, lang)
}

// SaveUpload writes content under the allocated name and records the
// given entry for it, with stat-derived fields refreshed from the file
// just written. The metadata write is best-effort, matching the upload
// contract: the file is the source of truth and the next listing pass
// heals the document.
func (l *Library) SaveUpload(name string, content []byte, entry types.MetadataEntry) (*types.MetadataEntry, error) {
	path := filepath.Join(l.dir, name)
	if err := os.WriteFile(path, content, 0644); err != nil {
		return nil, err
	}
	if info, err := os.Stat(path); err == nil {
		refreshStatFields(&entry, info.Size(), info.ModTime().Format(timeLayout))
	}

	doc, _ := l.meta.Load()
	doc[name] = &entry
	if err := l.meta.Save(doc); err != nil {
		l.log.Warnw("upload metadata not persisted", "file", name, "error", err)
	}

	if t := ProbeTags(path); t != nil {
		l.log.Debugw("embedded tags",
			"file", name, "title", t.Title, "artist", t.Artist, "album", t.Album)
	}
	return &entry, nil
}

// SetLabel stores a cleaned label for filename and returns it.
func (l *Library) SetLabel(filename, label string) (string, error) {
	label = CleanLabel(label)
	_, err := l.updateEntry(filename, func(e *types.MetadataEntry) { e.Label = label })
	if err != nil {
		return "", err
	}
	return label, nil
}

// SetSpeaker stores a speaker name for filename and, when non-empty,
// touches the speaker registry with the entry's current hints.
func (l *Library) SetSpeaker(filename, speaker string) (string, error) {
	speaker = strings.TrimSpace(speaker)
	entry, err := l.updateEntry(filename, func(e *types.MetadataEntry) { e.Speaker = speaker })
	if err != nil {
		return "", err
	}
	if speaker != "" {
		if terr := l.speakers.Touch(speaker, entry.Gender, entry.Lang); terr != nil {
			l.log.Warnw("speaker registry not updated", "speaker", speaker, "error", terr)
		}
	}
	return speaker, nil
}

// SetVerified stores the verification flag for filename.
func (l *Library) SetVerified(filename string, verified bool) (bool, error) {
	_, err := l.updateEntry(filename, func(e *types.MetadataEntry) { e.Verified = verified })
	if err != nil {
		return false, err
	}
	return verified, nil
}

// SetLang stores a language tag for filename. Unknown values are
// rejected and leave the stored value untouched.
func (l *Library) SetLang(filename, lang string) (string, error) {
	lang = strings.TrimSpace(lang)
	if !types.ValidLang(lang) {
		return "", ErrInvalidLang
	}
	_, err := l.updateEntry(filename, func(e *types.MetadataEntry) { e.Lang = lang })
	if err != nil {
		return "", err
	}
	return lang, nil
}

// SetGender stores a gender tag for filename. Unknown values are
// rejected and leave the stored value untouched.
func (l *Library) SetGender(filename, gender string) (string, error) {
	gender = strings.TrimSpace(gender)
	if !types.ValidGender(gender) {
		return "", ErrInvalidGender
	}
	_, err := l.updateEntry(filename, func(e *types.MetadataEntry) { e.Gender = gender })
	if err != nil {
		return "", err
	}
	return gender, nil
}

// updateEntry is the shared read-modify-write cycle behind the field
// updaters: resolve the target inside the store, load the document
// (parse failures degrade to an empty one), mutate only the target
// field, refresh stat-derived fields, and persist the whole document.
// All unrelated fields are preserved.
func (l *Library) updateEntry(filename string, mutate func(*types.MetadataEntry)) (*types.MetadataEntry, error) {
	path, safe, err := l.Resolve(filename)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return nil, ErrFileNotFound
	}

	doc, _ := l.meta.Load()
	entry, ok := doc[safe]
	if !ok {
		e := DefaultEntry()
		entry = &e
		doc[safe] = entry
	}
	mutate(entry)
	refreshStatFields(entry, info.Size(), info.ModTime().Format(timeLayout))

	if err := l.meta.Save(doc); err != nil {
		return nil, ErrPersist
	}
	return entry, nil
}

// refreshStatFields recomputes the display caches from a live stat and
// reports whether anything changed.
func refreshStatFields(e *types.MetadataEntry, size int64, mtimeISO string) bool {
	changed := false
	if h := HumanSize(size); e.SizeHuman != h {
		e.SizeHuman = h
		changed = true
	}
	if e.SizeBytes != size {
		e.SizeBytes = size
		changed = true
	}
	if e.MtimeISO != mtimeISO {
		e.MtimeISO = mtimeISO
		changed = true
	}
	return changed
}
