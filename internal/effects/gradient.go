package effects

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"regexp"
	"strconv"
	"strings"

	"github.com/anthonynsimon/bild/parallel"
	"github.com/disintegration/imaging"

	bgimaging "github.com/ironsheep/bgcompose-mcp/internal/imaging"
)

// ErrInvalidGradient is matched by every error returned from ParseGradient
// and SynthesizeGradient.
var ErrInvalidGradient = errors.New("invalid gradient")

// FallbackColor fills the image returned by SynthesizeGradient when the
// descriptor cannot be used.
var FallbackColor = color.NRGBA{R: 255, G: 0, B: 0, A: 255}

var gradientPattern = regexp.MustCompile(`^linear-gradient\((\d+)deg,\s*(.+?)\s*\d*%,\s*(.+?)\s*\d*%\)`)

// GradientSpec is a parsed two-stop linear gradient.
type GradientSpec struct {
	// Angle is the direction in degrees as written in the descriptor. It is
	// kept for reporting; rendering is always top to bottom.
	Angle int `json:"angle"`

	// Start is the color of the top row.
	Start bgimaging.Color `json:"start"`

	// End is the color the ramp approaches at the bottom row.
	End bgimaging.Color `json:"end"`
}

// ParseGradient parses a descriptor of the form
//
//	linear-gradient(<int>deg, <color> <pct>%, <color> <pct>%)
//
// Parameters:
//   - descriptor: The gradient text. Colors may use any form accepted by
//     imaging.ParseColor. The percentages must be present but are not used
//     as stop positions.
//
// Returns:
//   - GradientSpec: The angle and both stop colors.
//   - error: Non-nil, matching ErrInvalidGradient, if the text does not have
//     the expected shape or a color does not parse.
func ParseGradient(descriptor string) (GradientSpec, error) {
	m := gradientPattern.FindStringSubmatch(strings.TrimSpace(descriptor))
	if m == nil {
		return GradientSpec{}, fmt.Errorf("%w: %q does not match linear-gradient(<deg>, <color> <pct>%%, <color> <pct>%%)",
			ErrInvalidGradient, descriptor)
	}

	angle, err := strconv.Atoi(m[1])
	if err != nil {
		return GradientSpec{}, fmt.Errorf("%w: angle %q: %w", ErrInvalidGradient, m[1], err)
	}

	start, err := bgimaging.ParseColor(m[2])
	if err != nil {
		return GradientSpec{}, fmt.Errorf("%w: start color: %w", ErrInvalidGradient, err)
	}
	end, err := bgimaging.ParseColor(m[3])
	if err != nil {
		return GradientSpec{}, fmt.Errorf("%w: end color: %w", ErrInvalidGradient, err)
	}

	return GradientSpec{Angle: angle, Start: start, End: end}, nil
}

// RenderGradient rasterizes spec as an opaque vertical ramp.
//
// Row y gets start + (end - start) * y / height for each of R, G and B,
// truncated to an integer. Every pixel of a row has the same color, so each
// row is computed once and then replicated across the row buffer. Rows are
// filled in parallel.
//
// Non-positive dimensions yield an empty image.
func RenderGradient(width, height int, spec GradientSpec) *image.NRGBA {
	if width <= 0 || height <= 0 {
		return &image.NRGBA{}
	}

	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	rowBytes := width * 4

	parallel.Line(height, func(start, end int) {
		for y := start; y < end; y++ {
			row := dst.Pix[y*dst.Stride : y*dst.Stride+rowBytes]
			c := rampColor(spec.Start, spec.End, y, height)
			row[0], row[1], row[2], row[3] = c.R, c.G, c.B, 255
			for filled := 4; filled < rowBytes; filled *= 2 {
				copy(row[filled:], row[:filled])
			}
		}
	})

	return dst
}

func rampColor(from, to bgimaging.Color, y, height int) color.NRGBA {
	t := float64(y) / float64(height)
	lerp := func(a, b uint8) uint8 {
		return uint8(float64(a) + (float64(b)-float64(a))*t)
	}
	return color.NRGBA{R: lerp(from.R, to.R), G: lerp(from.G, to.G), B: lerp(from.B, to.B), A: 255}
}

// SynthesizeGradient parses descriptor and renders it at the given size.
//
// The returned image is always usable: when the descriptor is malformed or
// one of its colors does not parse, a solid FallbackColor image of the
// requested size is returned together with the parse error, which the
// caller should report as a diagnostic.
func SynthesizeGradient(width, height int, descriptor string) (*image.NRGBA, error) {
	spec, err := ParseGradient(descriptor)
	if err != nil {
		return imaging.New(width, height, FallbackColor), err
	}
	return RenderGradient(width, height, spec), nil
}
