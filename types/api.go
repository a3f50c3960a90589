package types

// LabelRequest is the body of POST /label.
type LabelRequest struct {
	Filename string `json:"filename"`
	Label    string `json:"label"`
}

// SpeakerRequest is the body of POST /speaker.
type SpeakerRequest struct {
	Filename string `json:"filename"`
	Speaker  string `json:"speaker"`
}

// VerifyRequest is the body of POST /verify.
type VerifyRequest struct {
	Filename string `json:"filename"`
	Verified bool   `json:"verified"`
}

// LangRequest is the body of POST /lang.
type LangRequest struct {
	Filename string `json:"filename"`
	Lang     string `json:"lang"`
}

// GenderRequest is the body of POST /gender.
type GenderRequest struct {
	Filename string `json:"filename"`
	Gender   string `json:"gender"`
}

// SpeakerAddRequest is the body of POST /speaker_add.
type SpeakerAddRequest struct {
	Name   string `json:"name"`
	Gender string `json:"gender"`
	Lang   string `json:"lang"`
}
