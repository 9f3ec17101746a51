package server

import (
	"encoding/json"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/ironsheep/bgcompose-mcp/internal/compose"
	"github.com/ironsheep/bgcompose-mcp/internal/effects"
	"github.com/ironsheep/bgcompose-mcp/internal/imaging"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "image_compose").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.logger.Warn("tool failed", "tool", params.Name, "error", err)
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Applies default values for optional parameters
//  3. Loads images from cache as needed
//  4. Calls the appropriate imaging/effects/compose function
//  5. Returns the result or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Basic Image Information
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)

	// Color Operations
	case "image_sample_color":
		return s.handleImageSampleColor(args)
	case "image_parse_color":
		return s.handleImageParseColor(args)

	// Effects
	case "image_gradient":
		return s.handleImageGradient(args)
	case "image_shadow":
		return s.handleImageShadow(args)
	case "image_adjust":
		return s.handleImageAdjust(args)
	case "image_trim":
		return s.handleImageTrim(args)

	// Compositing
	case "image_compose":
		return s.handleImageCompose(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

func unmarshalArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

// === Basic Image Information Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(s.cache, a.Path)
}

// === Color Operation Handlers ===

type imageSampleColorArgs struct {
	Path string `json:"path"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

func (s *Server) handleImageSampleColor(args json.RawMessage) (interface{}, error) {
	var a imageSampleColorArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.SampleColor(img, a.X, a.Y)
}

type imageParseColorArgs struct {
	Color string `json:"color"`
}

func (s *Server) handleImageParseColor(args json.RawMessage) (interface{}, error) {
	var a imageParseColorArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	c, err := imaging.ParseColor(a.Color)
	if err != nil {
		return nil, err
	}
	return imaging.DescribeColor(c), nil
}

// === Effect Handlers ===

type imageGradientArgs struct {
	Descriptor string `json:"descriptor"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
}

// GradientResult is the output of image_gradient.
type GradientResult struct {
	*imaging.ImageResult

	// Gradient is the parsed descriptor, absent when it did not parse.
	Gradient *effects.GradientSpec `json:"gradient,omitempty"`

	// Diagnostic explains why the red fallback was rendered.
	Diagnostic string `json:"diagnostic,omitempty"`
}

func (s *Server) handleImageGradient(args json.RawMessage) (interface{}, error) {
	var a imageGradientArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Width <= 0 || a.Height <= 0 {
		return nil, fmt.Errorf("width and height must be positive, got %dx%d", a.Width, a.Height)
	}
	if err := s.pipeline.CheckCanvas(a.Width, a.Height); err != nil {
		return nil, err
	}

	result := &GradientResult{}
	var img *image.NRGBA
	spec, err := effects.ParseGradient(a.Descriptor)
	if err != nil {
		result.Diagnostic = err.Error()
		img, _ = effects.SynthesizeGradient(a.Width, a.Height, a.Descriptor)
	} else {
		result.Gradient = &spec
		img = effects.RenderGradient(a.Width, a.Height, spec)
	}

	encoded, err := imaging.NewImageResult(img)
	if err != nil {
		return nil, err
	}
	result.ImageResult = encoded
	return result, nil
}

type imageShadowArgs struct {
	Path    string `json:"path"`
	Blur    int    `json:"blur"`
	OffsetX int    `json:"offset_x"`
	OffsetY int    `json:"offset_y"`
	Color   string `json:"color"`
}

// RenderResult is the output of tools that run part of the pipeline.
type RenderResult struct {
	*imaging.ImageResult
	Diagnostics []string `json:"diagnostics,omitempty"`
}

func (s *Server) handleImageShadow(args json.RawMessage) (interface{}, error) {
	var a imageShadowArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	return s.render(compose.Request{
		Cutout: img,
		Name:   a.Path,
		Shadow: compose.ShadowParams{Blur: a.Blur, OffsetX: a.OffsetX, OffsetY: a.OffsetY, Color: a.Color},
	})
}

type imageAdjustArgs struct {
	Path       string   `json:"path"`
	Brightness *float64 `json:"brightness"`
	Contrast   *float64 `json:"contrast"`
	Saturation *float64 `json:"saturation"`
}

func (s *Server) handleImageAdjust(args json.RawMessage) (interface{}, error) {
	var a imageAdjustArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	spec := adjustmentSpec(a.Brightness, a.Contrast, a.Saturation)
	return s.render(compose.Request{Cutout: img, Name: a.Path, Adjust: &spec})
}

type imageTrimArgs struct {
	Path    string `json:"path"`
	Padding int    `json:"padding"`
}

func (s *Server) handleImageTrim(args json.RawMessage) (interface{}, error) {
	var a imageTrimArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	trimmed, origin, err := imaging.Trim(img, a.Padding)
	if err != nil {
		return nil, err
	}
	encoded, err := imaging.NewImageResult(trimmed)
	if err != nil {
		return nil, err
	}
	return &imaging.TrimResult{ImageResult: encoded, X: origin.X, Y: origin.Y}, nil
}

func (s *Server) render(req compose.Request) (*RenderResult, error) {
	img, diags, err := s.pipeline.Render(req)
	if err != nil {
		return nil, err
	}
	encoded, err := imaging.NewImageResult(img)
	if err != nil {
		return nil, err
	}
	return &RenderResult{ImageResult: encoded, Diagnostics: diags}, nil
}

// adjustmentSpec fills in 1.0 for factors the caller left out.
func adjustmentSpec(brightness, contrast, saturation *float64) effects.AdjustmentSpec {
	spec := effects.IdentityAdjustment
	if brightness != nil {
		spec.Brightness = *brightness
	}
	if contrast != nil {
		spec.Contrast = *contrast
	}
	if saturation != nil {
		spec.Saturation = *saturation
	}
	return spec
}

// === Compositing Handler ===

type imageComposeArgs struct {
	Path                string   `json:"path"`
	BackgroundType      string   `json:"background_type"`
	BackgroundValue     string   `json:"background_value"`
	BackgroundImagePath string   `json:"background_image_path"`
	ShadowBlur          int      `json:"shadow_blur"`
	ShadowOffsetX       int      `json:"shadow_offset_x"`
	ShadowOffsetY       int      `json:"shadow_offset_y"`
	ShadowColor         string   `json:"shadow_color"`
	Brightness          *float64 `json:"brightness"`
	Contrast            *float64 `json:"contrast"`
	Saturation          *float64 `json:"saturation"`
	OutputDir           string   `json:"output_dir"`
}

// ComposeResult is the output of image_compose.
type ComposeResult struct {
	*imaging.ImageResult
	Filename    string   `json:"filename"`
	OutputPath  string   `json:"output_path,omitempty"`
	Diagnostics []string `json:"diagnostics,omitempty"`
}

func (s *Server) handleImageCompose(args json.RawMessage) (interface{}, error) {
	var a imageComposeArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	if a.BackgroundType == "" {
		a.BackgroundType = "color"
	}
	if a.BackgroundValue == "" {
		a.BackgroundValue = "transparent"
	}

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	bg := compose.NewBackground(a.BackgroundType, a.BackgroundValue, nil)
	if a.BackgroundImagePath != "" && compose.KindOf(a.BackgroundType, a.BackgroundValue) == compose.CustomImage {
		if data, err := os.ReadFile(a.BackgroundImagePath); err != nil {
			bg = compose.UnreadableImageBackground(err)
		} else {
			bg = compose.ImageBackground(data)
		}
	}

	spec := adjustmentSpec(a.Brightness, a.Contrast, a.Saturation)
	res, err := s.pipeline.Process(compose.Request{
		Cutout:     img,
		Name:       a.Path,
		Background: bg,
		Shadow: compose.ShadowParams{
			Blur:    a.ShadowBlur,
			OffsetX: a.ShadowOffsetX,
			OffsetY: a.ShadowOffsetY,
			Color:   a.ShadowColor,
		},
		Adjust: &spec,
	})
	if err != nil {
		return nil, err
	}

	result := &ComposeResult{
		ImageResult: imaging.NewImageResultFromPNG(res.PNG, res.Width, res.Height),
		Filename:    res.Filename,
		Diagnostics: res.Diagnostics,
	}

	if a.OutputDir != "" {
		if err := os.MkdirAll(a.OutputDir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
		out := filepath.Join(a.OutputDir, res.Filename)
		if err := os.WriteFile(out, res.PNG, 0o644); err != nil {
			return nil, fmt.Errorf("failed to write output: %w", err)
		}
		result.OutputPath = out
	}

	return result, nil
}
