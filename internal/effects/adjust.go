package effects

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
)

// AdjustmentSpec holds multiplicative tone factors. 1.0 leaves the
// corresponding property unchanged.
type AdjustmentSpec struct {
	Brightness float64 `json:"brightness"`
	Contrast   float64 `json:"contrast"`
	Saturation float64 `json:"saturation"`
}

// IdentityAdjustment changes nothing.
var IdentityAdjustment = AdjustmentSpec{Brightness: 1, Contrast: 1, Saturation: 1}

// Normalize returns a copy of s with negative factors replaced by zero and
// NaN or infinite factors replaced by 1.
func (s AdjustmentSpec) Normalize() AdjustmentSpec {
	s.Brightness = normalizeFactor(s.Brightness)
	s.Contrast = normalizeFactor(s.Contrast)
	s.Saturation = normalizeFactor(s.Saturation)
	return s
}

func normalizeFactor(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 1
	}
	return max(f, 0)
}

// IsIdentity reports whether every factor equals 1.0.
func (s AdjustmentSpec) IsIdentity() bool {
	return s == IdentityAdjustment
}

// contrastMidpoint is the neutral gray contrast scales away from.
const contrastMidpoint = 128

// ApplyAdjustments applies brightness, contrast and saturation, in that
// order, each step operating on the previous step's output. A step whose
// factor is 1.0 is skipped. Alpha is never changed.
//
//   - Brightness: c' = c * b
//   - Contrast:   c' = 128 + (c - 128) * k
//   - Saturation: c' = gray + (c - gray) * s, gray = (299R + 587G + 114B) / 1000
//
// Results are clamped to [0, 255]. When all factors are 1.0, img itself is
// returned.
func ApplyAdjustments(img image.Image, spec AdjustmentSpec) image.Image {
	spec = spec.Normalize()
	if spec.IsIdentity() {
		return img
	}

	out := img
	if spec.Brightness != 1 {
		out = Brightness(out, spec.Brightness)
	}
	if spec.Contrast != 1 {
		out = Contrast(out, spec.Contrast)
	}
	if spec.Saturation != 1 {
		out = Saturation(out, spec.Saturation)
	}
	return out
}

// Brightness scales every color channel by factor.
func Brightness(img image.Image, factor float64) *image.NRGBA {
	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		return color.NRGBA{
			R: clampChannel(float64(c.R) * factor),
			G: clampChannel(float64(c.G) * factor),
			B: clampChannel(float64(c.B) * factor),
			A: c.A,
		}
	})
}

// Contrast scales each channel's distance from mid-gray by factor.
func Contrast(img image.Image, factor float64) *image.NRGBA {
	scale := func(v uint8) uint8 {
		return clampChannel(contrastMidpoint + (float64(v)-contrastMidpoint)*factor)
	}
	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		return color.NRGBA{R: scale(c.R), G: scale(c.G), B: scale(c.B), A: c.A}
	})
}

// Saturation blends each pixel with its luma gray. 0 gives grayscale and
// values above 1 oversaturate.
func Saturation(img image.Image, factor float64) *image.NRGBA {
	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		gray := float64((299*int(c.R) + 587*int(c.G) + 114*int(c.B)) / 1000)
		blend := func(v uint8) uint8 {
			return clampChannel(gray + (float64(v)-gray)*factor)
		}
		return color.NRGBA{R: blend(c.R), G: blend(c.G), B: blend(c.B), A: c.A}
	})
}

func clampChannel(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	default:
		return uint8(v)
	}
}
