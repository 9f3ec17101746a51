package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/bgcompose-mcp/internal/compose"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// cutoutPNG is a size x size transparent image with an opaque square of c
// in the middle.
func cutoutPNG(t *testing.T, size int, c color.NRGBA) []byte {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	for y := size / 4; y < size-size/4; y++ {
		for x := size / 4; x < size-size/4; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

type upload struct {
	field, filename string
	data            []byte
}

func multipartRequest(t *testing.T, path string, fields map[string]string, files ...upload) *http.Request {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for _, f := range files {
		part, err := w.CreateFormFile(f.field, f.filename)
		require.NoError(t, err)
		_, err = part.Write(f.data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func serve(a *API, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	a.Router().ServeHTTP(rec, req)
	return rec
}

func decodeResponsePNG(t *testing.T, rec *httptest.ResponseRecorder) image.Image {
	t.Helper()

	require.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	img, err := png.Decode(rec.Body)
	require.NoError(t, err)
	return img
}

func nrgbaAt(img image.Image, x, y int) color.NRGBA {
	return color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["error"]
}

func TestRoot(t *testing.T) {
	t.Parallel()

	rec := serve(New(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Welcome to the Image Background Remover API"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
}

func TestCORS(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodOptions, "/api/compose", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := serve(New(), req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
}

func TestCORS_SimpleRequest(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := serve(New(), req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
}

func TestComposeForm_Binding(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		fields map[string]string
		want   composeForm
	}{
		{"defaults", nil, composeForm{
			BackgroundType: "color", BackgroundValue: "transparent",
			ShadowColor: "#000000",
			Brightness:  1, Contrast: 1, Saturation: 1,
		}},
		{"explicit", map[string]string{
			"background_type": "gradient", "background_value": "sunset",
			"shadow_blur": "4", "shadow_offset_x": "-2", "shadow_offset_y": "3", "shadow_color": "red",
			"brightness": "1.5", "contrast": "0.5", "saturation": "0",
		}, composeForm{
			BackgroundType: "gradient", BackgroundValue: "sunset",
			ShadowBlur: 4, ShadowOffsetX: -2, ShadowOffsetY: 3, ShadowColor: "red",
			Brightness: 1.5, Contrast: 0.5, Saturation: 0,
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = multipartRequest(t, "/api/compose", tt.fields)

			var form composeForm
			require.NoError(t, c.ShouldBind(&form))
			assert.Equal(t, tt.want, form)
		})
	}
}

func TestComposeForm_UnreadableBackgroundUpload(t *testing.T) {
	t.Parallel()

	form := composeForm{BackgroundType: "image", BackgroundValue: "custom"}
	// a zero header has nothing behind it, so Open fails
	bg := form.background(&multipart.FileHeader{Filename: "bg.png"})
	require.Equal(t, compose.CustomImage, bg.Kind)

	cutout := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	cutout.SetNRGBA(1, 1, color.NRGBA{255, 0, 0, 255})
	out, diags, err := New().pipeline.Render(compose.Request{Cutout: cutout, Background: bg})

	require.NoError(t, err)
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0], "bg.png")
	assert.Equal(t, color.NRGBA{}, nrgbaAt(out, 0, 0))
	assert.Equal(t, color.NRGBA{255, 0, 0, 255}, nrgbaAt(out, 1, 1))
}

func TestComposeForm_BackgroundUploadIgnored(t *testing.T) {
	t.Parallel()

	form := composeForm{BackgroundType: "color", BackgroundValue: "white"}
	bg := form.background(&multipart.FileHeader{Filename: "bg.png"})

	assert.Equal(t, compose.SolidColor, bg.Kind)
	assert.NoError(t, bg.ReadErr)
}

func TestCompose_Defaults(t *testing.T) {
	t.Parallel()

	req := multipartRequest(t, "/api/remove-background", nil,
		upload{"file", "photos/cat.jpg", cutoutPNG(t, 8, color.NRGBA{255, 0, 0, 255})})
	rec := serve(New(), req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	_, params, err := mime.ParseMediaType(rec.Header().Get("Content-Disposition"))
	require.NoError(t, err)
	assert.Equal(t, "cat_nobg.png", params["filename"])
	assert.Empty(t, rec.Header().Get(DiagnosticsHeader))

	img := decodeResponsePNG(t, rec)
	assert.Equal(t, 8, img.Bounds().Dx())
	assert.Equal(t, uint8(0), nrgbaAt(img, 0, 0).A, "default background is transparent")
	assert.Equal(t, color.NRGBA{255, 0, 0, 255}, nrgbaAt(img, 4, 4))
}

func TestCompose_ColorShadowAdjust(t *testing.T) {
	t.Parallel()

	req := multipartRequest(t, "/api/compose", map[string]string{
		"background_type":  "color",
		"background_value": "#0000ff",
		"shadow_offset_x":  "2",
		"shadow_offset_y":  "2",
		"shadow_color":     "black",
		"brightness":       "0.5",
	}, upload{"file", "cup.png", cutoutPNG(t, 8, color.NRGBA{200, 200, 200, 255})})
	rec := serve(New(), req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	img := decodeResponsePNG(t, rec)
	// margin = 2*max(2,2,0) = 4
	assert.Equal(t, 16, img.Bounds().Dx())
	assert.Equal(t, 16, img.Bounds().Dy())
	assert.Equal(t, color.NRGBA{0, 0, 255, 255}, nrgbaAt(img, 0, 0))
	assert.Equal(t, color.NRGBA{100, 100, 100, 255}, nrgbaAt(img, 7, 7))
	// shadow only: subject square ends at 4+6, shadow at 6+6
	assert.Equal(t, color.NRGBA{0, 0, 0, 255}, nrgbaAt(img, 11, 11))
}

func TestCompose_CustomBackground(t *testing.T) {
	t.Parallel()

	bg := image.NewNRGBA(image.Rect(0, 0, 40, 20))
	for i := 0; i < len(bg.Pix); i += 4 {
		copy(bg.Pix[i:i+4], []uint8{0, 255, 0, 255})
	}
	var bgBuf bytes.Buffer
	require.NoError(t, png.Encode(&bgBuf, bg))

	req := multipartRequest(t, "/api/compose", map[string]string{"background_type": "image"},
		upload{"file", "a.png", cutoutPNG(t, 12, color.NRGBA{255, 0, 0, 255})},
		upload{"custom_background_image", "bg.png", bgBuf.Bytes()})
	rec := serve(New(), req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	img := decodeResponsePNG(t, rec)
	assert.Equal(t, 12, img.Bounds().Dx())
	corner := nrgbaAt(img, 0, 0)
	assert.InDelta(t, 255, int(corner.G), 1)
	assert.Equal(t, uint8(255), corner.A)
}

func TestCompose_Fallbacks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		fields map[string]string
		files  []upload
		corner color.NRGBA
	}{
		{
			name:   "invalid gradient is red",
			fields: map[string]string{"background_type": "gradient", "background_value": "nope"},
			corner: color.NRGBA{255, 0, 0, 255},
		},
		{
			name:   "invalid color is transparent",
			fields: map[string]string{"background_type": "color", "background_value": "#zzz"},
		},
		{
			name:   "undecodable background is transparent",
			fields: map[string]string{"background_type": "image"},
			files:  []upload{{"custom_background_image", "bg.png", []byte("not an image")}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			files := append([]upload{{"file", "a.png", cutoutPNG(t, 8, color.NRGBA{0, 0, 255, 255})}}, tt.files...)
			rec := serve(New(), multipartRequest(t, "/api/compose", tt.fields, files...))

			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.NotEmpty(t, rec.Header().Get(DiagnosticsHeader))
			assert.Equal(t, tt.corner, nrgbaAt(decodeResponsePNG(t, rec), 0, 0))
		})
	}
}

func TestCompose_BadRequests(t *testing.T) {
	t.Parallel()

	valid := cutoutPNG(t, 4, color.NRGBA{255, 255, 255, 255})

	tests := []struct {
		name    string
		fields  map[string]string
		files   []upload
		wantErr string
	}{
		{"missing file", nil, nil, "missing file"},
		{"not an image", nil, []upload{{"file", "a.txt", []byte("hello")}}, "decode"},
		{"bad shadow blur", map[string]string{"shadow_blur": "soft"}, []upload{{"file", "a.png", valid}}, "invalid form"},
		{"bad contrast", map[string]string{"contrast": "high"}, []upload{{"file", "a.png", valid}}, "invalid form"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := serve(New(), multipartRequest(t, "/api/compose", tt.fields, tt.files...))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, errorMessage(t, rec), tt.wantErr)
		})
	}
}

func TestCompose_CanvasTooLarge(t *testing.T) {
	t.Parallel()

	a := New(WithPipeline(compose.New(compose.WithMaxCanvasPixels(100))))
	req := multipartRequest(t, "/api/compose", map[string]string{"shadow_blur": "10"},
		upload{"file", "a.png", cutoutPNG(t, 8, color.NRGBA{255, 255, 255, 255})})
	rec := serve(a, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, errorMessage(t, rec), "canvas too large")
}

type stubRemover struct {
	calls int
	err   error
}

func (s *stubRemover) Remove(ctx context.Context, img image.Image) (image.Image, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return img, nil
}

func TestCompose_Remover(t *testing.T) {
	t.Parallel()

	r := &stubRemover{}
	req := multipartRequest(t, "/api/compose", nil,
		upload{"file", "a.png", cutoutPNG(t, 4, color.NRGBA{255, 255, 255, 255})})
	rec := serve(New(WithRemover(r)), req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, r.calls)
}

func TestCompose_RemoverFailure(t *testing.T) {
	t.Parallel()

	r := &stubRemover{err: errors.New("model unavailable")}
	req := multipartRequest(t, "/api/compose", nil,
		upload{"file", "a.png", cutoutPNG(t, 4, color.NRGBA{255, 255, 255, 255})})
	rec := serve(New(WithRemover(r)), req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, errorMessage(t, rec), "model unavailable")
}

func TestRequestLogging(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	rec := serve(New(WithLogger(logger)), httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	out := logs.String()
	assert.Contains(t, out, "msg=request")
	assert.Contains(t, out, "id="+rec.Header().Get(RequestIDHeader))
	assert.True(t, strings.Contains(out, "status=200"))
}

func TestPassthrough(t *testing.T) {
	t.Parallel()

	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	out, err := NewPassthrough().Remove(context.Background(), img)

	require.NoError(t, err)
	assert.Same(t, img, out)
}
