package operation

import (
	"image"

	"github.com/disintegration/imaging"
	"gitlab.com/tozd/go/errors"
)

// Zoom crops the box (X1,Y1)-(X2,Y2), relative to the image origin, and
// scales it back up to the full source size.
type Zoom struct {
	code           string
	X1, Y1, X2, Y2 int
}

func (z Zoom) Code() string { return z.code }

func (z Zoom) Process(img image.Image) (image.Image, error) {
	b := img.Bounds()

	box := image.Rect(z.X1, z.Y1, z.X2, z.Y2).Add(b.Min).Intersect(b)
	if box.Empty() {
		return nil, errors.Errorf("zoom box %v is outside of image bounds %v", image.Rect(z.X1, z.Y1, z.X2, z.Y2), b)
	}

	cropped := imaging.Crop(img, box)

	return imaging.Resize(cropped, b.Dx(), b.Dy(), imaging.Lanczos), nil
}

// ZoomKind recognizes "zoom_<x1>_<y1>_<x2>_<y2>" where the box is non-empty.
func ZoomKind() Kind {
	return Kind{
		Name: "zoom",
		Match: func(token string) (Operation, bool) {
			ps, ok := params(token, "zoom", 4)
			if !ok {
				return nil, false
			}
			v, ok := parseInts(ps)
			if !ok {
				return nil, false
			}
			if v[0] < 0 || v[1] < 0 || v[2] <= v[0] || v[3] <= v[1] {
				return nil, false
			}

			return Zoom{code: token, X1: v[0], Y1: v[1], X2: v[2], Y2: v[3]}, true
		},
	}
}
