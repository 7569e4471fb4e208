package operation

import (
	"image"

	"github.com/fogleman/gg"
)

// Translate shifts the image by (DX, DY) pixels keeping the original size.
// The uncovered area is left transparent, which encodes as black in formats
// without alpha.
type Translate struct {
	code   string
	DX, DY int
}

func (t Translate) Code() string { return t.code }

// Process draws the source onto a blank canvas of the same size at the offset.
func (t Translate) Process(img image.Image) (image.Image, error) {
	b := img.Bounds()

	dc := gg.NewContext(b.Dx(), b.Dy())
	dc.DrawImage(img, t.DX-b.Min.X, t.DY-b.Min.Y)

	return dc.Image(), nil
}

// TranslateKind recognizes "trans_<dx>_<dy>" with integer offsets.
func TranslateKind() Kind {
	return Kind{
		Name: "trans",
		Match: func(token string) (Operation, bool) {
			ps, ok := params(token, "trans", 2)
			if !ok {
				return nil, false
			}
			v, ok := parseInts(ps)
			if !ok {
				return nil, false
			}

			return Translate{code: token, DX: v[0], DY: v[1]}, true
		},
	}
}
