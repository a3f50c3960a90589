package services

import (
	"encoding/json"
	"os"
	"path/filepath"

	"asrdesk/types"
)

// maxSpeakers caps the registry; the least recently used entries fall
// off the end.
const maxSpeakers = 100

// SpeakerRegistry keeps the MRU-ordered list of known speaker names in
// a JSON sidecar beside the metadata document. Names are case
// sensitive; touching a name moves it to the front and overwrites its
// gender/lang hints.
type SpeakerRegistry struct {
	path string
}

// NewSpeakerRegistry returns a registry backed by the JSON list at
// path.
func NewSpeakerRegistry(path string) *SpeakerRegistry {
	return &SpeakerRegistry{path: path}
}

// Load returns the current list, most recently used first. A missing
// or unparsable file yields an empty list.
func (r *SpeakerRegistry) Load() []types.Speaker {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return nil
	}
	var list []types.Speaker
	if err := json.Unmarshal(data, &list); err != nil {
		return nil
	}
	return list
}

// Touch registers or refreshes name at the front of the list with the
// given hints. Empty names are ignored.
func (r *SpeakerRegistry) Touch(name, gender, lang string) error {
	if name == "" {
		return nil
	}
	list := r.Load()
	out := make([]types.Speaker, 0, len(list)+1)
	out = append(out, types.Speaker{Name: name, Gender: gender, Lang: lang})
	for _, sp := range list {
		if sp.Name == name {
			continue
		}
		out = append(out, sp)
	}
	if len(out) > maxSpeakers {
		out = out[:maxSpeakers]
	}
	return r.save(out)
}

func (r *SpeakerRegistry) save(list []types.Speaker) error {
	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(r.path, data, 0644)
}

// Filename is the registry's basename within the store directory.
func (r *SpeakerRegistry) Filename() string {
	return filepath.Base(r.path)
}
