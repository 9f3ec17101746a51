package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// PNGMimeType is the MIME type of every encoded result.
const PNGMimeType = "image/png"

// ImageResult contains an encoded image ready to hand back to a client
type ImageResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// EncodePNG encodes img as PNG, preserving its alpha channel
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}

// NewImageResult encodes img as base64 PNG
func NewImageResult(img image.Image) (*ImageResult, error) {
	data, err := EncodePNG(img)
	if err != nil {
		return nil, err
	}
	return NewImageResultFromPNG(data, img.Bounds().Dx(), img.Bounds().Dy()), nil
}

// NewImageResultFromPNG wraps already encoded PNG bytes
func NewImageResultFromPNG(data []byte, width, height int) *ImageResult {
	return &ImageResult{
		Width:       width,
		Height:      height,
		ImageBase64: base64.StdEncoding.EncodeToString(data),
		MimeType:    PNGMimeType,
	}
}
