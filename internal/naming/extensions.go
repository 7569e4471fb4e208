package naming

import "strings"

// DefaultExtensions are the image formats processed when none are configured.
var DefaultExtensions = []string{"png", "jpg", "jpeg", "bmp"}

// Extensions is the set of file extensions eligible for augmentation.
type Extensions struct {
	suffixes []string
}

// NewExtensions accepts extensions with or without the leading dot.
// Matching is case-sensitive.
func NewExtensions(exts ...string) Extensions {
	suffixes := make([]string, 0, len(exts))
	for _, ext := range exts {
		ext = strings.TrimPrefix(strings.TrimSpace(ext), ".")
		if ext == "" {
			continue
		}
		suffixes = append(suffixes, "."+ext)
	}

	return Extensions{suffixes: suffixes}
}

// Supported reports whether name ends with one of the configured extensions.
func (e Extensions) Supported(name string) bool {
	for _, s := range e.suffixes {
		if strings.HasSuffix(name, s) {
			return true
		}
	}

	return false
}

// List returns the extensions without their leading dot.
func (e Extensions) List() []string {
	out := make([]string, len(e.suffixes))
	for i, s := range e.suffixes {
		out[i] = s[1:]
	}

	return out
}
