package effects

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"

	bgimaging "github.com/ironsheep/bgcompose-mcp/internal/imaging"
)

// ShadowSpec describes a drop shadow.
type ShadowSpec struct {
	// Blur is the Gaussian sigma in pixels. Zero disables blurring.
	Blur int `json:"blur"`

	// OffsetX shifts the shadow right (positive) or left (negative).
	OffsetX int `json:"offset_x"`

	// OffsetY shifts the shadow down (positive) or up (negative).
	OffsetY int `json:"offset_y"`

	// Color tints the silhouette. Its alpha is ignored; the silhouette takes
	// its opacity from the cutout.
	Color bgimaging.Color `json:"color"`
}

// Normalize returns a copy of s with a negative blur replaced by zero.
func (s ShadowSpec) Normalize() ShadowSpec {
	if s.Blur < 0 {
		s.Blur = 0
	}
	return s
}

// IsNoop reports whether applying s would leave the image unchanged.
func (s ShadowSpec) IsNoop() bool {
	return s.Blur <= 0 && s.OffsetX == 0 && s.OffsetY == 0
}

// Margin is the border added on every side of the image to make room for
// the shadow: twice the largest of |OffsetX|, |OffsetY| and Blur.
func (s ShadowSpec) Margin() int {
	s = s.Normalize()
	return 2 * max(abs(s.OffsetX), abs(s.OffsetY), s.Blur)
}

// CanvasSize returns the dimensions of the canvas ApplyShadow produces for
// an image of width x height. A no-op spec returns the input dimensions.
func (s ShadowSpec) CanvasSize(width, height int) (int, int) {
	if s.IsNoop() {
		return width, height
	}
	m := s.Margin()
	return width + 2*m, height + 2*m
}

// ApplyShadow draws a colored, blurred and offset copy of img's silhouette
// beneath img on an enlarged transparent canvas.
//
// Parameters:
//   - img: The cutout. Its alpha channel defines the silhouette.
//   - spec: Shadow parameters. A negative blur is treated as zero.
//
// Returns:
//   - image.Image: img itself when spec has no blur and no offset,
//     otherwise a new *image.NRGBA of spec.CanvasSize(width, height) with
//     img centered on it.
//
// # Algorithm
//
//  1. The silhouette is a copy of img with every pixel's color replaced by
//     spec.Color, keeping the original alpha.
//  2. When Blur > 0 the silhouette is pasted onto a transparent NRGBA image
//     2*Blur pixels larger on each side and Gaussian-blurred with sigma
//     Blur. The blur is alpha-weighted, so the shadow color stays flat
//     while its edge softens.
//  3. The silhouette is drawn "over" the canvas at the center shifted by
//     (OffsetX, OffsetY), then img is drawn "over" it at the center.
func ApplyShadow(img image.Image, spec ShadowSpec) image.Image {
	spec = spec.Normalize()
	if spec.IsNoop() {
		return img
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	m := spec.Margin()

	r, g, b := spec.Color.R, spec.Color.G, spec.Color.B
	var shadow image.Image = imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		return color.NRGBA{R: r, G: g, B: b, A: c.A}
	})

	pad := 0
	if spec.Blur > 0 {
		// straight alpha throughout, or the faint tail loses its color
		pad = 2 * spec.Blur
		padded := imaging.Paste(imaging.New(w+2*pad, h+2*pad, color.NRGBA{}), shadow, image.Pt(pad, pad))
		shadow = imaging.Blur(padded, float64(spec.Blur))
	}

	canvasW, canvasH := spec.CanvasSize(w, h)
	canvas := imaging.New(canvasW, canvasH, color.NRGBA{})

	at := image.Pt(m+spec.OffsetX-pad, m+spec.OffsetY-pad)
	draw.Draw(canvas, shadow.Bounds().Sub(shadow.Bounds().Min).Add(at), shadow, shadow.Bounds().Min, draw.Over)
	draw.Draw(canvas, image.Rect(m, m, m+w, m+h), img, bounds.Min, draw.Over)

	return canvas
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
