package operation

import (
	"image"
	"image/color"
	"math"
	"math/rand"

	"github.com/disintegration/imaging"
)

// Noise adds zero-mean gaussian noise to every color channel. Variance is
// expressed on the 0..1 intensity scale, so noise_0.01 has a standard
// deviation of 0.1 (25.5 levels on an 8-bit channel).
type Noise struct {
	code     string
	Variance float64
}

func (n Noise) Code() string { return n.code }

func (n Noise) Process(img image.Image) (image.Image, error) {
	sigma := math.Sqrt(n.Variance) * 255

	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		return color.NRGBA{
			R: jitter(c.R, sigma),
			G: jitter(c.G, sigma),
			B: jitter(c.B, sigma),
			A: c.A,
		}
	}), nil
}

func jitter(v uint8, sigma float64) uint8 {
	return clampUint8(float64(v) + rand.NormFloat64()*sigma)
}

func clampUint8(f float64) uint8 {
	switch {
	case f <= 0:
		return 0
	case f >= 255:
		return 255
	default:
		return uint8(f + 0.5)
	}
}

// NoiseKind recognizes "noise_<variance>".
func NoiseKind() Kind {
	return Kind{
		Name: "noise",
		Match: func(token string) (Operation, bool) {
			ps, ok := params(token, "noise", 1)
			if !ok {
				return nil, false
			}
			v, ok := parseFloat(ps[0])
			if !ok {
				return nil, false
			}

			return Noise{code: token, Variance: v}, true
		},
	}
}
