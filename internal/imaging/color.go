package imaging

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

// ErrInvalidColor is matched by every error returned from ParseColor.
var ErrInvalidColor = errors.New("invalid color")

// ParseError describes a color specification that could not be parsed.
//
// ParseError unwraps to ErrInvalidColor, so callers can test for it with
// errors.Is(err, imaging.ErrInvalidColor) or extract the offending input
// with errors.As.
type ParseError struct {
	// Input is the color text exactly as the caller supplied it.
	Input string

	// Reason is a short human-readable explanation of the failure.
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse color %q: %s", e.Input, e.Reason)
}

func (e *ParseError) Unwrap() error {
	return ErrInvalidColor
}

// Color is an 8-bit RGBA color with straight (non-premultiplied) alpha.
//
// Colors produced by ParseColor are always fully opaque (A = 255).
type Color struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
	A uint8 `json:"a"` // Alpha/opacity component (0-255)
}

// NRGBA returns the color as a standard library color.NRGBA.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

// RGBA implements color.Color, so a Color can be handed straight to the
// standard image and draw packages.
func (c Color) RGBA() (r, g, b, a uint32) {
	return c.NRGBA().RGBA()
}

// Hex returns the color as "#RRGGBB". Alpha is not included.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

var (
	rgbFuncPattern = regexp.MustCompile(`^rgb\(\s*(\d{1,3})\s*,\s*(\d{1,3})\s*,\s*(\d{1,3})\s*\)$`)
	hslFuncPattern = regexp.MustCompile(`^hsl\(\s*(\d+(?:\.\d+)?)\s*,\s*(\d+(?:\.\d+)?)%\s*,\s*(\d+(?:\.\d+)?)%\s*\)$`)
)

// ParseColor converts a textual color specification into a Color.
//
// Parameters:
//   - text: The color specification. Leading and trailing whitespace is
//     ignored and matching is case-insensitive.
//
// Returns:
//   - Color: The parsed color with A = 255.
//   - error: A *ParseError if the text is not a supported color.
//
// # Accepted Formats
//
//   - "#RGB": 3-digit hex shorthand, each digit doubled ("#abc" = "#aabbcc")
//   - "#RRGGBB": 6-digit hex
//   - CSS color names: "red", "cornflowerblue", "rebeccapurple", ...
//   - "rgb(r, g, b)": decimal components 0-255
//   - "hsl(h, s%, l%)": hue in degrees, saturation and lightness in percent
//   - "RGB" / "RRGGBB": hex without the leading '#', when the text is not a
//     color name
//
// Any other input, including hex strings of another length or with non-hex
// digits such as "#zzz", is rejected.
func ParseColor(text string) (Color, error) {
	s := strings.ToLower(strings.TrimSpace(text))
	if s == "" {
		return Color{}, &ParseError{Input: text, Reason: "empty color string"}
	}

	if strings.HasPrefix(s, "#") {
		return parseHex(text, s[1:])
	}

	if c, ok := colornames.Map[s]; ok {
		return Color{R: c.R, G: c.G, B: c.B, A: 255}, nil
	}

	switch {
	case strings.HasPrefix(s, "rgb("):
		return parseRGBFunc(text, s)
	case strings.HasPrefix(s, "hsl("):
		return parseHSLFunc(text, s)
	case isHexDigits(s) && (len(s) == 3 || len(s) == 6):
		return parseHex(text, s)
	}

	return Color{}, &ParseError{Input: text, Reason: "unknown color name"}
}

// parseHex decodes 3 or 6 hex digits (without '#').
func parseHex(input, digits string) (Color, error) {
	if len(digits) != 3 && len(digits) != 6 {
		return Color{}, &ParseError{Input: input, Reason: "hex color must have 3 or 6 digits"}
	}
	if !isHexDigits(digits) {
		return Color{}, &ParseError{Input: input, Reason: "invalid hex digit"}
	}

	c, err := colorful.Hex("#" + digits)
	if err != nil {
		return Color{}, &ParseError{Input: input, Reason: err.Error()}
	}
	r, g, b := c.RGB255()
	return Color{R: r, G: g, B: b, A: 255}, nil
}

func parseRGBFunc(input, s string) (Color, error) {
	m := rgbFuncPattern.FindStringSubmatch(s)
	if m == nil {
		return Color{}, &ParseError{Input: input, Reason: "malformed rgb() color"}
	}

	var ch [3]uint8
	for i := range ch {
		v, err := strconv.Atoi(m[i+1])
		if err != nil || v > 255 {
			return Color{}, &ParseError{Input: input, Reason: "rgb() component out of range"}
		}
		ch[i] = uint8(v)
	}
	return Color{R: ch[0], G: ch[1], B: ch[2], A: 255}, nil
}

func parseHSLFunc(input, s string) (Color, error) {
	m := hslFuncPattern.FindStringSubmatch(s)
	if m == nil {
		return Color{}, &ParseError{Input: input, Reason: "malformed hsl() color"}
	}

	h, _ := strconv.ParseFloat(m[1], 64)
	sat, _ := strconv.ParseFloat(m[2], 64)
	light, _ := strconv.ParseFloat(m[3], 64)
	if sat > 100 || light > 100 {
		return Color{}, &ParseError{Input: input, Reason: "hsl() percentage out of range"}
	}

	r, g, b := colorful.Hsl(math.Mod(h, 360), sat/100, light/100).Clamped().RGB255()
	return Color{R: r, G: g, B: b, A: 255}, nil
}

func isHexDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !('0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F') {
			return false
		}
	}
	return true
}

// RGBColor represents an RGB color with 8-bit components.
type RGBColor struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
}

// HSLColor represents a color in HSL (Hue, Saturation, Lightness) color space.
type HSLColor struct {
	H int `json:"h"` // Hue: 0-360 degrees (0=red, 120=green, 240=blue)
	S int `json:"s"` // Saturation: 0-100 percent (0=gray, 100=vivid)
	L int `json:"l"` // Lightness: 0-100 percent (0=black, 50=normal, 100=white)
}

// ColorResult contains a color value in multiple representations.
//
// This struct provides the same color in four formats to suit different use cases:
//   - Hex: Compact string format for CSS/web usage
//   - RGB: Standard 8-bit components without alpha
//   - RGBA: 8-bit components with alpha for transparency
//   - HSL: Perceptual color space for intuitive color operations
type ColorResult struct {
	Hex  string   `json:"hex"`  // Hex format "#RRGGBB" (no alpha)
	RGB  RGBColor `json:"rgb"`  // RGB components
	RGBA Color    `json:"rgba"` // RGBA components with alpha
	HSL  HSLColor `json:"hsl"`  // HSL representation
}

// DescribeColor reports c in hex, RGB, RGBA and HSL form.
//
// HSL values are truncated to whole degrees and percent.
func DescribeColor(c Color) *ColorResult {
	cf := colorful.Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}
	h, s, l := cf.Hsl()

	return &ColorResult{
		Hex:  c.Hex(),
		RGB:  RGBColor{R: c.R, G: c.G, B: c.B},
		RGBA: c,
		HSL:  HSLColor{H: int(h), S: int(s * 100), L: int(l * 100)},
	}
}

// SampleColor extracts the color value at a specific pixel coordinate.
//
// Parameters:
//   - img: The source image to sample from.
//   - x: X coordinate (0-based, 0 = leftmost pixel).
//   - y: Y coordinate (0-based, 0 = topmost pixel).
//
// Returns:
//   - *ColorResult: The color at (x, y) in multiple formats.
//   - error: Non-nil if coordinates are outside the image bounds.
//
// The returned RGBA components are straight (non-premultiplied), so a
// half-transparent red pixel reports R=255, A=128 whatever the concrete
// image type.
func SampleColor(img image.Image, x, y int) (*ColorResult, error) {
	bounds := img.Bounds()
	if x < bounds.Min.X || x >= bounds.Max.X || y < bounds.Min.Y || y >= bounds.Max.Y {
		return nil, fmt.Errorf("coordinates (%d,%d) outside image bounds", x, y)
	}

	c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
	return DescribeColor(Color{R: c.R, G: c.G, B: c.B, A: c.A}), nil
}
