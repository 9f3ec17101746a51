package compose

import (
	"errors"
	"fmt"
	"image"
	"strings"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"

	"github.com/ironsheep/bgcompose-mcp/internal/effects"
	bgimaging "github.com/ironsheep/bgcompose-mcp/internal/imaging"
)

// BackgroundKind selects how the background behind a cutout is produced.
type BackgroundKind int

const (
	// Transparent leaves the cutout as is.
	Transparent BackgroundKind = iota
	// SolidColor fills the background with a single parsed color.
	SolidColor
	// Gradient renders a linear-gradient descriptor.
	Gradient
	// CustomImage uses a caller-supplied encoded image.
	CustomImage
)

func (k BackgroundKind) String() string {
	switch k {
	case Transparent:
		return "transparent"
	case SolidColor:
		return "color"
	case Gradient:
		return "gradient"
	case CustomImage:
		return "image"
	default:
		return fmt.Sprintf("BackgroundKind(%d)", int(k))
	}
}

// Background is a request for one kind of background. Only the field
// matching Kind is used.
type Background struct {
	Kind BackgroundKind

	// Value is the color text for SolidColor or the descriptor for Gradient.
	Value string

	// Image holds the encoded image for CustomImage.
	Image []byte

	// ReadErr records why the CustomImage bytes could not be obtained.
	// Compose then falls back to transparent and reports it.
	ReadErr error
}

// ColorBackground returns a SolidColor background.
func ColorBackground(color string) Background {
	return Background{Kind: SolidColor, Value: color}
}

// GradientBackground returns a Gradient background.
func GradientBackground(descriptor string) Background {
	return Background{Kind: Gradient, Value: descriptor}
}

// ImageBackground returns a CustomImage background.
func ImageBackground(data []byte) Background {
	return Background{Kind: CustomImage, Image: data}
}

// UnreadableImageBackground returns a CustomImage background whose image
// could not be read, e.g. a missing file or a broken upload.
func UnreadableImageBackground(err error) Background {
	return Background{Kind: CustomImage, ReadErr: err}
}

// KindOf reports the kind a client tag and value select, before any image
// data is considered. See NewBackground.
func KindOf(tag, value string) BackgroundKind {
	switch strings.ToLower(strings.TrimSpace(tag)) {
	case "color":
		v := strings.TrimSpace(value)
		if v == "" || strings.EqualFold(v, "transparent") {
			return Transparent
		}
		return SolidColor
	case "gradient":
		return Gradient
	case "image":
		return CustomImage
	default:
		return Transparent
	}
}

// NewBackground builds a Background from the loosely typed parameters
// clients send.
//
// Parameters:
//   - tag: "color", "gradient", "image" or "transparent". Matching is
//     case-insensitive. Unknown tags select Transparent.
//   - value: Color text for "color" ("transparent" or empty selects
//     Transparent), gradient descriptor for "gradient".
//   - imageData: Encoded image for "image". Without it "image" selects
//     Transparent.
func NewBackground(tag, value string, imageData []byte) Background {
	value = strings.TrimSpace(value)

	switch KindOf(tag, value) {
	case SolidColor:
		return ColorBackground(value)
	case Gradient:
		return GradientBackground(value)
	case CustomImage:
		if len(imageData) == 0 {
			return Background{Kind: Transparent}
		}
		return ImageBackground(imageData)
	default:
		return Background{Kind: Transparent}
	}
}

// ErrDecodeBackground is matched by every DecodeError.
var ErrDecodeBackground = errors.New("cannot decode background image")

// DecodeError reports a custom background image that could not be used.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: %v", ErrDecodeBackground, e.Err)
}

func (e *DecodeError) Unwrap() []error {
	return []error{ErrDecodeBackground, e.Err}
}

// Compose places cutout over the background bg.
//
// Parameters:
//   - cutout: The foreground with transparency.
//   - bg: The background to build at the cutout's size.
//
// Returns:
//   - image.Image: Always usable. For Transparent, and whenever bg cannot be
//     built (bad color, undecodable image), this is cutout itself.
//     Otherwise it is a new *image.RGBA of the cutout's size.
//   - error: A diagnostic describing the fallback taken, or nil. A
//     *imaging.ParseError for a bad color, an error matching
//     effects.ErrInvalidGradient for a bad descriptor (the image then has
//     a red background), or a *DecodeError for a custom image that could
//     not be read or decoded.
//
// # Compositing
//
// The cutout is drawn with the Porter-Duff "over" operator into a
// premultiplied destination: opaque cutout pixels replace the background,
// fully transparent ones leave it untouched and soft edges blend linearly.
func Compose(cutout image.Image, bg Background) (image.Image, error) {
	bounds := cutout.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= 0 || h <= 0 {
		return cutout, nil
	}

	switch bg.Kind {
	case SolidColor:
		c, err := bgimaging.ParseColor(bg.Value)
		if err != nil {
			return cutout, err
		}
		canvas := image.NewRGBA(image.Rect(0, 0, w, h))
		draw.Draw(canvas, canvas.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
		return over(canvas, cutout), nil

	case Gradient:
		g, err := effects.SynthesizeGradient(w, h, bg.Value)
		return over(promote(g), cutout), err

	case CustomImage:
		if bg.ReadErr != nil {
			return cutout, &DecodeError{Err: bg.ReadErr}
		}
		if len(bg.Image) == 0 {
			return cutout, &DecodeError{Err: bgimaging.ErrEmptyImageData}
		}
		src, _, err := bgimaging.Decode(bg.Image)
		if err != nil {
			return cutout, &DecodeError{Err: err}
		}
		resized := imaging.Resize(src, w, h, imaging.Lanczos)
		return over(promote(resized), cutout), nil

	default:
		return cutout, nil
	}
}

// promote converts a background to a premultiplied canvas at the origin.
func promote(src image.Image) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}

func over(dst *image.RGBA, fg image.Image) *image.RGBA {
	draw.Draw(dst, dst.Bounds(), fg, fg.Bounds().Min, draw.Over)
	return dst
}
