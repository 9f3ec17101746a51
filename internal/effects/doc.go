// Package effects implements the pixel effects applied to a cutout before it
// is placed on its background: vertical gradient synthesis, drop shadows and
// brightness/contrast/saturation adjustment.
//
// Every function allocates its own output and never modifies its input.
// When a spec describes an identity transform (no shadow, all adjustment
// factors 1.0) the input image value is returned unchanged.
//
// # Alpha Handling
//
// Tonal adjustments and the shadow silhouette work on straight-alpha
// *image.NRGBA pixels, so alpha is never altered by a color operation.
// Compositing of the shadow canvas uses the Porter-Duff "over" operator on
// premultiplied *image.RGBA, which blends soft cutout edges without dark
// fringes.
package effects
