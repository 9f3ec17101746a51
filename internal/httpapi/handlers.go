package httpapi

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ironsheep/bgcompose-mcp/internal/compose"
	"github.com/ironsheep/bgcompose-mcp/internal/effects"
	"github.com/ironsheep/bgcompose-mcp/internal/imaging"
)

// DiagnosticsHeader lists the fallbacks applied while rendering, separated
// by "; ".
const DiagnosticsHeader = "X-Compose-Diagnostics"

// composeForm holds the multipart fields of a compose request.
type composeForm struct {
	BackgroundType  string  `form:"background_type,default=color"`
	BackgroundValue string  `form:"background_value,default=transparent"`
	ShadowBlur      int     `form:"shadow_blur,default=0"`
	ShadowOffsetX   int     `form:"shadow_offset_x,default=0"`
	ShadowOffsetY   int     `form:"shadow_offset_y,default=0"`
	ShadowColor     string  `form:"shadow_color,default=#000000"`
	Brightness      float64 `form:"brightness,default=1.0"`
	Contrast        float64 `form:"contrast,default=1.0"`
	Saturation      float64 `form:"saturation,default=1.0"`
}

func (f *composeForm) shadow() compose.ShadowParams {
	return compose.ShadowParams{
		Blur:    f.ShadowBlur,
		OffsetX: f.ShadowOffsetX,
		OffsetY: f.ShadowOffsetY,
		Color:   f.ShadowColor,
	}
}

func (f *composeForm) adjustment() effects.AdjustmentSpec {
	return effects.AdjustmentSpec{
		Brightness: f.Brightness,
		Contrast:   f.Contrast,
		Saturation: f.Saturation,
	}
}

// background selects the requested background. An upload that cannot be
// read still yields an image background so rendering falls back with a
// diagnostic.
func (f *composeForm) background(upload *multipart.FileHeader) compose.Background {
	if upload == nil || compose.KindOf(f.BackgroundType, f.BackgroundValue) != compose.CustomImage {
		return compose.NewBackground(f.BackgroundType, f.BackgroundValue, nil)
	}
	data, err := readUpload(upload)
	if err != nil {
		return compose.UnreadableImageBackground(err)
	}
	return compose.ImageBackground(data)
}

func (a *API) handleCompose(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, a.maxUploadBytes)

	var form composeForm
	if err := c.ShouldBind(&form); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Errorf("invalid form: %w", err))
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Errorf("missing file: %w", err))
		return
	}
	data, err := readUpload(header)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err)
		return
	}
	img, _, err := imaging.Decode(data)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err)
		return
	}

	cutout, err := a.remover.Remove(c.Request.Context(), img)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, fmt.Errorf("background removal failed: %w", err))
		return
	}

	// optional; nil when absent
	bgHeader, _ := c.FormFile("custom_background_image")
	adjust := form.adjustment()

	res, err := a.pipeline.Process(compose.Request{
		Cutout:     cutout,
		Name:       header.Filename,
		Background: form.background(bgHeader),
		Shadow:     form.shadow(),
		Adjust:     &adjust,
	})
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, compose.ErrCanvasTooLarge) {
			status = http.StatusBadRequest
		}
		abortWithError(c, status, err)
		return
	}

	if len(res.Diagnostics) > 0 {
		c.Header(DiagnosticsHeader, strings.Join(res.Diagnostics, "; "))
	}
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": res.Filename}))
	c.Data(http.StatusOK, imaging.PNGMimeType, res.PNG)
}

func readUpload(h *multipart.FileHeader) ([]byte, error) {
	f, err := h.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload %q: %w", h.Filename, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload %q: %w", h.Filename, err)
	}
	return data, nil
}

func abortWithError(c *gin.Context, status int, err error) {
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}
