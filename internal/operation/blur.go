package operation

import (
	"image"

	"github.com/disintegration/imaging"
)

// Blur applies a gaussian blur with the given sigma.
type Blur struct {
	code  string
	Sigma float64
}

func (b Blur) Code() string { return b.code }

func (b Blur) Process(img image.Image) (image.Image, error) {
	return imaging.Blur(img, b.Sigma), nil
}

// BlurKind recognizes "blur_<sigma>".
func BlurKind() Kind {
	return Kind{
		Name: "blur",
		Match: func(token string) (Operation, bool) {
			ps, ok := params(token, "blur", 1)
			if !ok {
				return nil, false
			}
			sigma, ok := parseFloat(ps[0])
			if !ok {
				return nil, false
			}

			return Blur{code: token, Sigma: sigma}, true
		},
	}
}
