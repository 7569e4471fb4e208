// Package naming maps a source file and an operation chain to the name of the
// augmented output, and recognizes names that are already augmentations.
//
// An augmented name is the source stem followed by one "__<code>" group per
// operation, in application order, and the source extension:
//
//	photo.jpg + [fliph, blur_2.0] -> photo__fliph__blur_2.0.jpg
package naming

import (
	"path/filepath"
	"strings"
)

// Separator prefixes every operation code appended to a stem.
const Separator = "__"

// Build returns the output name for original after applying the given codes.
func Build(original string, codes ...string) string {
	ext := filepath.Ext(original)
	stem := strings.TrimSuffix(original, ext)

	var b strings.Builder
	b.Grow(len(original) + len(codes)*8)
	b.WriteString(stem)
	for _, code := range codes {
		b.WriteString(Separator)
		b.WriteString(code)
	}
	b.WriteString(ext)

	return b.String()
}

// IsAugmented reports whether name has the shape of a Build output: a stem
// containing "__" followed by at least one character, and a single non-empty
// extension. Everything before the first "__" is the source stem.
func IsAugmented(name string) bool {
	dot := strings.LastIndexByte(name, '.')
	if dot < 0 || dot == len(name)-1 {
		return false
	}

	stem := name[:dot]
	i := strings.Index(stem, Separator)

	return i >= 0 && i+len(Separator) < len(stem)
}

// Codes returns the "__" groups that follow the first separator of an
// augmented name, or nil if name is not augmented. Empty groups appear when
// the source stem itself ended in "_".
func Codes(name string) []string {
	if !IsAugmented(name) {
		return nil
	}

	stem := name[:strings.LastIndexByte(name, '.')]

	return strings.Split(stem, Separator)[1:]
}
