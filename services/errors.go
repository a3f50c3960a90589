package services

import "errors"

// Error messages double as the API error strings returned in
// {ok:false, error:...} payloads, hence the capitalization.
var (
	ErrFileNotFound    = errors.New("File not found")
	ErrUnsupportedType = errors.New("Unsupported file type")
	ErrInvalidLang     = errors.New("Invalid language")
	ErrInvalidGender   = errors.New("Invalid gender")
	ErrPathEscape      = errors.New("Invalid path")
	ErrPersist         = errors.New("Failed to write metadata")
)
