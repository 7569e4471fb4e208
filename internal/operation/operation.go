package operation

import (
	"image"
	"math"
	"strconv"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// ErrUnknownOperation is returned when no registered kind recognizes a code token.
var ErrUnknownOperation = errors.Base("unknown operation")

// Operation is a parsed, immutable image transform identified by its code.
// Process must not modify the image it receives.
type Operation interface {
	Code() string
	Process(img image.Image) (image.Image, error)
}

// Kind describes one family of operations and how to recognize its codes.
type Kind struct {
	Name  string
	Match func(token string) (Operation, bool)
}

// Registry resolves code tokens against an ordered list of kinds.
// Declaration order defines precedence: the first kind that matches wins.
type Registry struct {
	kinds []Kind
}

// NewRegistry creates a Registry trying the given kinds in order.
func NewRegistry(kinds ...Kind) *Registry {
	return &Registry{kinds: kinds}
}

// DefaultRegistry returns the registry of built-in operation kinds.
func DefaultRegistry() *Registry {
	return NewRegistry(
		FlipHKind(),
		FlipVKind(),
		RotateKind(),
		TranslateKind(),
		NoiseKind(),
		ZoomKind(),
		BlurKind(),
	)
}

// Kinds returns the names of the registered kinds in precedence order.
func (r *Registry) Kinds() []string {
	names := make([]string, 0, len(r.kinds))
	for _, k := range r.kinds {
		names = append(names, k.Name)
	}

	return names
}

// Resolve returns the operation for token from the first kind that recognizes it.
func (r *Registry) Resolve(token string) (Operation, error) {
	for _, k := range r.kinds {
		if op, ok := k.Match(token); ok {
			return op, nil
		}
	}

	return nil, errors.Errorf("%w: %q", ErrUnknownOperation, token)
}

// params splits a "<prefix>_<a>_<b>..." token into exactly n non-empty parameters.
func params(token, prefix string, n int) ([]string, bool) {
	rest, ok := strings.CutPrefix(token, prefix+"_")
	if !ok {
		return nil, false
	}

	parts := strings.Split(rest, "_")
	if len(parts) != n {
		return nil, false
	}
	for _, p := range parts {
		if p == "" {
			return nil, false
		}
	}

	return parts, true
}

// parseFloat parses a finite, non-negative float parameter.
func parseFloat(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, false
	}

	return v, true
}

// parseInts parses every element of ss as a base-10 integer.
func parseInts(ss []string) ([]int, bool) {
	out := make([]int, len(ss))
	for i, s := range ss {
		v, err := strconv.Atoi(s)
		if err != nil {
			return nil, false
		}
		out[i] = v
	}

	return out, true
}
