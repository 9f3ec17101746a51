package compose

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/ironsheep/bgcompose-mcp/internal/effects"
	bgimaging "github.com/ironsheep/bgcompose-mcp/internal/imaging"
)

var (
	// ErrNoCutout is returned when a Request carries no image.
	ErrNoCutout = errors.New("no cutout image")

	// ErrCanvasTooLarge is returned when the shadow canvas of a request would
	// exceed the configured pixel limit.
	ErrCanvasTooLarge = errors.New("canvas too large")
)

// DefaultShadowColor is used when ShadowParams.Color is empty or invalid.
const DefaultShadowColor = "#000000"

// ShadowParams are the drop-shadow parameters as clients send them.
type ShadowParams struct {
	Blur    int
	OffsetX int
	OffsetY int
	// Color is any text accepted by imaging.ParseColor. Empty means black.
	Color string
}

// Request is one compositing job.
type Request struct {
	// Cutout is the foreground image with its background already removed.
	Cutout image.Image

	// Name is the source file name, used to derive Result.Filename.
	Name string

	Background Background
	Shadow     ShadowParams

	// Adjust is applied after the shadow. Nil leaves tones unchanged.
	Adjust *effects.AdjustmentSpec
}

// Result is the outcome of Process.
type Result struct {
	PNG         []byte
	Filename    string
	Width       int
	Height      int
	Diagnostics []string
}

// Pipeline composes cutouts onto backgrounds.
type Pipeline struct {
	logger          *slog.Logger
	maxCanvasPixels int
}

// New creates a Pipeline.
func New(opts ...Option) *Pipeline {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Pipeline{
		logger:          o.logger,
		maxCanvasPixels: o.maxCanvasPixels,
	}
}

// Render runs shadow, adjustments and background over req.Cutout.
//
// Returns:
//   - image.Image: The composited image. It may be req.Cutout itself when
//     no step changes anything.
//   - []string: Diagnostics for every fallback taken, also logged at Warn.
//   - error: ErrNoCutout or ErrCanvasTooLarge. Bad colors, descriptors and
//     background images are never errors.
func (p *Pipeline) Render(req Request) (image.Image, []string, error) {
	if req.Cutout == nil {
		return nil, nil, ErrNoCutout
	}

	start := time.Now()
	var diags []string
	report := func(stage string, err error) {
		msg := fmt.Sprintf("%s: %v", stage, err)
		diags = append(diags, msg)
		p.logger.Warn("fallback applied", "stage", stage, "name", req.Name, "error", err)
	}

	shadow := effects.ShadowSpec{
		Blur:    req.Shadow.Blur,
		OffsetX: req.Shadow.OffsetX,
		OffsetY: req.Shadow.OffsetY,
		Color:   bgimaging.Color{A: 255},
	}.Normalize()
	if !shadow.IsNoop() && strings.TrimSpace(req.Shadow.Color) != "" {
		c, err := bgimaging.ParseColor(req.Shadow.Color)
		if err != nil {
			report("shadow color", err)
		} else {
			shadow.Color = c
		}
	}

	b := req.Cutout.Bounds()
	if err := p.CheckCanvas(shadow.CanvasSize(b.Dx(), b.Dy())); err != nil {
		return nil, nil, err
	}

	img := effects.ApplyShadow(req.Cutout, shadow)
	if req.Adjust != nil {
		img = effects.ApplyAdjustments(img, *req.Adjust)
	}

	img, err := Compose(img, req.Background)
	if err != nil {
		report(req.Background.Kind.String()+" background", err)
	}

	p.logger.Debug("rendered",
		"name", req.Name,
		"background", req.Background.Kind.String(),
		"width", img.Bounds().Dx(),
		"height", img.Bounds().Dy(),
		"diagnostics", len(diags),
		"elapsed", time.Since(start))

	return img, diags, nil
}

// CheckCanvas reports ErrCanvasTooLarge when an image of w x h pixels
// exceeds the configured limit.
func (p *Pipeline) CheckCanvas(w, h int) error {
	if p.maxCanvasPixels <= 0 {
		return nil
	}
	if int64(w)*int64(h) > int64(p.maxCanvasPixels) {
		return fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrCanvasTooLarge, w, h, p.maxCanvasPixels)
	}
	return nil
}

// Process renders req and encodes the result as PNG.
func (p *Pipeline) Process(req Request) (*Result, error) {
	img, diags, err := p.Render(req)
	if err != nil {
		return nil, err
	}

	data, err := bgimaging.EncodePNG(img)
	if err != nil {
		return nil, err
	}

	return &Result{
		PNG:         data,
		Filename:    OutputFilename(req.Name),
		Width:       img.Bounds().Dx(),
		Height:      img.Bounds().Dy(),
		Diagnostics: diags,
	}, nil
}

// OutputFilename derives the name of the processed file from the source
// name: directories and the extension are dropped and "_nobg.png" is
// appended. An empty name gives "image_nobg.png".
func OutputFilename(name string) string {
	base := path.Base(strings.ReplaceAll(strings.TrimSpace(name), `\`, "/"))
	base = strings.TrimSuffix(base, path.Ext(base))
	if base == "" || base == "." || base == "/" {
		base = "image"
	}
	return base + "_nobg.png"
}
