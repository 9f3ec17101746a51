// Package imaging provides the image primitives shared by the compositing
// pipeline and its adapters.
//
// This package implements color parsing and description, pixel sampling,
// decoding of encoded images held in memory or on disk, and PNG encoding of
// results. All operations work with standard Go image.Image types and use a
// coordinate system where (0,0) is at the top-left corner, X increases
// rightward, and Y increases downward.
//
// # Color Specifications
//
// ParseColor accepts the color text users type into forms and tool calls:
//   - Hex: "#RGB" or "#RRGGBB", the '#' being optional
//   - CSS color names: "red", "cornflowerblue", ...
//   - Functional: "rgb(r, g, b)" and "hsl(h, s%, l%)"
//
// Malformed input yields a *ParseError that matches ErrInvalidColor.
//
// # Color Representation
//
// Colors are reported in multiple formats for flexibility:
//   - Hex: 6-character format "#RRGGBB" (alpha excluded)
//   - RGB: 8-bit components (0-255)
//   - RGBA: 8-bit straight-alpha components (0-255)
//   - HSL: Hue (0-360), Saturation (0-100), Lightness (0-100)
//
// # Decoding
//
// Decode and ImageCache accept PNG, JPEG, GIF, BMP, TIFF and WebP. EXIF
// orientation tags are applied while decoding, so photos taken on phones
// come out upright.
//
// # Trimming
//
// ContentBounds finds the visible part of a cutout and Trim crops to it,
// so wide transparent margins left by background removal can be dropped
// before compositing.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. Images it returns are
// shared and must not be modified. Every other function is stateless.
package imaging
