package imaging

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

// createInMemoryImage creates an in-memory test image
func createInMemoryImage(width, height int, c color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestParseColor_Hex(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Color
	}{
		{"short white", "#fff", Color{255, 255, 255, 255}},
		{"short upper", "#ABC", Color{0xAA, 0xBB, 0xCC, 255}},
		{"long black", "#000000", Color{0, 0, 0, 255}},
		{"long mixed case", "#2196f3", Color{33, 150, 243, 255}},
		{"long upper", "#9C27B0", Color{156, 39, 176, 255}},
		{"padded", "  #ff8040  ", Color{255, 128, 64, 255}},
		{"no hash", "ff8040", Color{255, 128, 64, 255}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseColor(tt.input)
			if err != nil {
				t.Fatalf("ParseColor(%q) failed: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseColor(%q): got %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseColor_Named(t *testing.T) {
	tests := []struct {
		input string
		want  Color
	}{
		{"red", Color{255, 0, 0, 255}},
		{"Blue", Color{0, 0, 255, 255}},
		{"WHITE", Color{255, 255, 255, 255}},
		{"cornflowerblue", Color{100, 149, 237, 255}},
		{"green", Color{0, 128, 0, 255}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseColor(tt.input)
			if err != nil {
				t.Fatalf("ParseColor(%q) failed: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseColor(%q): got %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseColor_Functional(t *testing.T) {
	tests := []struct {
		input string
		want  Color
	}{
		{"rgb(255, 128, 0)", Color{255, 128, 0, 255}},
		{"RGB(0,0,0)", Color{0, 0, 0, 255}},
		{"hsl(0, 100%, 50%)", Color{255, 0, 0, 255}},
		{"hsl(120, 100%, 50%)", Color{0, 255, 0, 255}},
		{"hsl(240, 100%, 50%)", Color{0, 0, 255, 255}},
		{"hsl(0, 0%, 100%)", Color{255, 255, 255, 255}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseColor(tt.input)
			if err != nil {
				t.Fatalf("ParseColor(%q) failed: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseColor(%q): got %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseColor_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"bad hex digits", "#zzz"},
		{"bad long hex", "#12345g"},
		{"wrong length 5", "#fffff"},
		{"wrong length 7", "#fffffff"},
		{"hash only", "#"},
		{"empty", ""},
		{"whitespace", "   "},
		{"unknown name", "notacolor"},
		{"transparent keyword", "transparent"},
		{"rgb out of range", "rgb(256, 0, 0)"},
		{"rgb missing component", "rgb(1, 2)"},
		{"hsl over 100 percent", "hsl(0, 120%, 50%)"},
		{"hsl malformed", "hsl(red)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseColor(tt.input)
			if err == nil {
				t.Fatalf("ParseColor(%q) should fail", tt.input)
			}
			if !errors.Is(err, ErrInvalidColor) {
				t.Errorf("error should match ErrInvalidColor, got %v", err)
			}
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("error should be a *ParseError, got %T", err)
			}
			if pe.Input != tt.input {
				t.Errorf("ParseError.Input: got %q, want %q", pe.Input, tt.input)
			}
		})
	}
}

func TestColor_Hex(t *testing.T) {
	c := Color{R: 255, G: 128, B: 64, A: 10}
	if c.Hex() != "#FF8040" {
		t.Errorf("Hex: got %s, want #FF8040", c.Hex())
	}
	if c.NRGBA() != (color.NRGBA{255, 128, 64, 10}) {
		t.Errorf("NRGBA: got %+v", c.NRGBA())
	}
}

func TestDescribeColor(t *testing.T) {
	tests := []struct {
		name    string
		c       Color
		wantH   int
		wantS   int
		wantL   int
		wantHex string
	}{
		{"red", Color{255, 0, 0, 255}, 0, 100, 50, "#FF0000"},
		{"green", Color{0, 255, 0, 255}, 120, 100, 50, "#00FF00"},
		{"blue", Color{0, 0, 255, 255}, 240, 100, 50, "#0000FF"},
		{"white", Color{255, 255, 255, 255}, 0, 0, 100, "#FFFFFF"},
		{"black", Color{0, 0, 0, 255}, 0, 0, 0, "#000000"},
		{"gray", Color{128, 128, 128, 255}, 0, 0, 50, "#808080"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := DescribeColor(tt.c)
			if result.Hex != tt.wantHex {
				t.Errorf("Hex: got %s, want %s", result.Hex, tt.wantHex)
			}
			// Allow some tolerance for rounding
			if abs(result.HSL.H-tt.wantH) > 1 {
				t.Errorf("H: got %d, want %d", result.HSL.H, tt.wantH)
			}
			if abs(result.HSL.S-tt.wantS) > 1 {
				t.Errorf("S: got %d, want %d", result.HSL.S, tt.wantS)
			}
			if abs(result.HSL.L-tt.wantL) > 1 {
				t.Errorf("L: got %d, want %d", result.HSL.L, tt.wantL)
			}
		})
	}
}

func TestSampleColor(t *testing.T) {
	img := createInMemoryImage(100, 100, color.RGBA{255, 128, 64, 255})

	result, err := SampleColor(img, 50, 50)
	if err != nil {
		t.Fatalf("SampleColor failed: %v", err)
	}

	if result.Hex != "#FF8040" {
		t.Errorf("Hex: got %s, want #FF8040", result.Hex)
	}
	if result.RGBA != (Color{255, 128, 64, 255}) {
		t.Errorf("RGBA: got %+v, want (255,128,64,255)", result.RGBA)
	}
}

func TestSampleColor_StraightAlpha(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	img.SetNRGBA(1, 1, color.NRGBA{255, 0, 0, 128})

	result, err := SampleColor(img, 1, 1)
	if err != nil {
		t.Fatalf("SampleColor failed: %v", err)
	}
	if result.RGBA.R != 255 || result.RGBA.A != 128 {
		t.Errorf("RGBA: got %+v, want R=255 A=128", result.RGBA)
	}
}

func TestSampleColor_OutOfBounds(t *testing.T) {
	img := createInMemoryImage(100, 100, color.RGBA{255, 0, 0, 255})

	tests := []struct {
		name string
		x, y int
	}{
		{"negative x", -1, 50},
		{"negative y", 50, -1},
		{"x too large", 100, 50},
		{"y too large", 50, 100},
		{"both too large", 100, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := SampleColor(img, tt.x, tt.y)
			if err == nil {
				t.Error("SampleColor should fail for out-of-bounds coordinates")
			}
		})
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
