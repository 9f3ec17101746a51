package imaging

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// TrimResult describes the region kept by Trim.
type TrimResult struct {
	*ImageResult

	// X and Y locate the kept region in the source image.
	X int `json:"x"`
	Y int `json:"y"`
}

// ContentBounds returns the smallest rectangle holding every pixel whose
// alpha is above threshold (0-255). ok is false when no pixel qualifies.
func ContentBounds(img image.Image, threshold uint8) (r image.Rectangle, ok bool) {
	b := img.Bounds()
	limit := uint32(threshold) * 0x101

	minX, minY := b.Max.X, b.Max.Y
	maxX, maxY := b.Min.X-1, b.Min.Y-1
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if _, _, _, a := img.At(x, y).RGBA(); a <= limit {
				continue
			}
			minX = min(minX, x)
			maxX = max(maxX, x)
			minY = min(minY, y)
			maxY = max(maxY, y)
		}
	}
	if maxX < minX {
		return image.Rectangle{}, false
	}
	return image.Rect(minX, minY, maxX+1, maxY+1), true
}

// Trim crops img to its visible content plus padding pixels on each side,
// clamped to the image bounds.
//
// Parameters:
//   - img: The cutout to trim.
//   - padding: Transparent margin to keep around the content. Negative
//     values are treated as 0.
//
// Returns:
//   - *image.NRGBA: The trimmed image, with its origin at (0,0).
//   - image.Point: Where the kept region started in img.
//   - error: Non-nil if img has no visible pixel.
func Trim(img image.Image, padding int) (*image.NRGBA, image.Point, error) {
	r, ok := ContentBounds(img, 0)
	if !ok {
		return nil, image.Point{}, fmt.Errorf("image has no visible pixels")
	}

	padding = max(padding, 0)
	r = image.Rect(r.Min.X-padding, r.Min.Y-padding, r.Max.X+padding, r.Max.Y+padding).Intersect(img.Bounds())

	return imaging.Crop(img, r), r.Min, nil
}
