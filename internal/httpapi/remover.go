package httpapi

import (
	"context"
	"image"
)

// Remover separates the foreground of img from its background and returns
// a cutout with a transparent background.
type Remover interface {
	Remove(ctx context.Context, img image.Image) (image.Image, error)
}

// Passthrough is a Remover that returns images unchanged.
type Passthrough struct{}

// NewPassthrough creates a Passthrough remover.
func NewPassthrough() *Passthrough {
	return &Passthrough{}
}

// Remove returns img as is. It never fails.
func (p *Passthrough) Remove(ctx context.Context, img image.Image) (image.Image, error) {
	return img, nil
}
