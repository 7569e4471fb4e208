package operation

import (
	"image"

	"github.com/disintegration/imaging"
)

var rotations = map[string]func(image.Image) *image.NRGBA{
	"rot90":  imaging.Rotate90,
	"rot180": imaging.Rotate180,
	"rot270": imaging.Rotate270,
}

// RotateKind recognizes "rot90", "rot180" and "rot270": counter-clockwise
// rotations by a right angle multiple.
func RotateKind() Kind {
	return Kind{
		Name: "rot",
		Match: func(token string) (Operation, bool) {
			fn, ok := rotations[token]
			if !ok {
				return nil, false
			}

			// Rotation shares the single-function shape of flips.
			return flip{code: token, fn: fn}, true
		},
	}
}
