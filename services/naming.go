package services

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// SanitizeFilename maps an arbitrary client-supplied filename to a
// safe on-disk basename: directory components and NUL bytes are
// stripped, every character outside [A-Za-z0-9._-] becomes '_', and
// names longer than 200 characters keep the first 180 of the stem and
// the first 20 of the extension (dot included).
func SanitizeFilename(name string) string {
	base := strings.ReplaceAll(strings.TrimSpace(name), "\x00", "")
	base = filepath.Base(base)
	base = unsafeChars.ReplaceAllString(base, "_")
	if base == "" || base == "." || base == ".." {
		base = "file"
	}
	if len(base) > 200 {
		ext := filepath.Ext(base)
		stem := strings.TrimSuffix(base, ext)
		if len(stem) > 180 {
			stem = stem[:180]
		}
		if len(ext) > 20 {
			ext = ext[:20]
		}
		base = stem + ext
	}
	return base
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return len(s) > 0
}

// NextSequence scans dir for names whose stem is exactly six digits
// and returns max+1, or 1 when none exist.
func NextSequence(dir string) int {
	max := 0
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 1
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		stem := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		if len(stem) != 6 || !isDigits(stem) {
			continue
		}
		n, err := strconv.Atoi(stem)
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}
	return max + 1
}

// AllocateName probes numbered candidates starting at *seq until a
// free slot is found. The counter always advances past the claimed
// number, so two files in one batch never collide.
func AllocateName(dir string, seq *int, ext string) string {
	for {
		name := fmt.Sprintf("%06d%s", *seq, ext)
		*seq++
		if _, err := os.Stat(filepath.Join(dir, name)); os.IsNotExist(err) {
			return name
		}
	}
}

// ResolveInStore sanitizes a client-supplied filename and resolves it
// inside dir. Anything that would escape the store directory after
// resolution is rejected with ErrPathEscape.
func ResolveInStore(dir, name string) (absPath, safeName string, err error) {
	safeName = SanitizeFilename(name)
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", "", err
	}
	absPath, err = filepath.Abs(filepath.Join(absDir, safeName))
	if err != nil {
		return "", "", err
	}
	if !strings.HasPrefix(absPath, absDir+string(os.PathSeparator)) {
		return "", "", ErrPathEscape
	}
	return absPath, safeName, nil
}
