package operation

import (
	"image"

	"github.com/disintegration/imaging"
)

// flip mirrors the image along one axis.
type flip struct {
	code string
	fn   func(image.Image) *image.NRGBA
}

func (f flip) Code() string { return f.code }

func (f flip) Process(img image.Image) (image.Image, error) {
	return f.fn(img), nil
}

// FlipHKind recognizes "fliph", a horizontal mirror.
func FlipHKind() Kind {
	return plainKind("fliph", imaging.FlipH)
}

// FlipVKind recognizes "flipv", a vertical mirror.
func FlipVKind() Kind {
	return plainKind("flipv", imaging.FlipV)
}

func plainKind(code string, fn func(image.Image) *image.NRGBA) Kind {
	return Kind{
		Name: code,
		Match: func(token string) (Operation, bool) {
			if token != code {
				return nil, false
			}

			return flip{code: code, fn: fn}, true
		},
	}
}
