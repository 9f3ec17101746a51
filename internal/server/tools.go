package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathProperty(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": description,
	}
}

func shadowProperties(prefix string) map[string]interface{} {
	return map[string]interface{}{
		prefix + "blur": map[string]interface{}{
			"type":        "integer",
			"description": "Gaussian blur sigma of the shadow in pixels. 0 gives a hard shadow. Default 0",
			"minimum":     0,
			"default":     0,
		},
		prefix + "offset_x": map[string]interface{}{
			"type":        "integer",
			"description": "Horizontal shadow offset in pixels, positive to the right. Default 0",
			"default":     0,
		},
		prefix + "offset_y": map[string]interface{}{
			"type":        "integer",
			"description": "Vertical shadow offset in pixels, positive downward. Default 0",
			"default":     0,
		},
		prefix + "color": map[string]interface{}{
			"type":        "string",
			"description": "Shadow color (hex, CSS name, rgb() or hsl()). Default #000000",
			"default":     "#000000",
		},
	}
}

func adjustmentProperties() map[string]interface{} {
	factor := func(what string) map[string]interface{} {
		return map[string]interface{}{
			"type":        "number",
			"description": what + " multiplier. 1.0 leaves it unchanged, 0 removes it entirely. Default 1.0",
			"minimum":     0,
			"default":     1.0,
		}
	}
	return map[string]interface{}{
		"brightness": factor("Brightness"),
		"contrast":   factor("Contrast"),
		"saturation": factor("Saturation"),
	}
}

func merge(maps ...map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{})
	for _, m := range maps {
		for k, v := range m {
			out[k] = v
		}
	}
	return out
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Basic Image Information
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions, format and whether it has transparency (i.e. is a cutout ready for compositing).",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty("Absolute path to the image file"),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of an image file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty("Absolute path to the image file"),
				},
				"required": []string{"path"},
			},
		},

		// Color Operations
		{
			Name:        "image_sample_color",
			Description: "Get the exact color value at a specific pixel coordinate, including its alpha.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty("Absolute path to the image file"),
					"x": map[string]interface{}{
						"type":        "integer",
						"description": "X coordinate (0-based, from left)",
					},
					"y": map[string]interface{}{
						"type":        "integer",
						"description": "Y coordinate (0-based, from top)",
					},
				},
				"required": []string{"path", "x", "y"},
			},
		},
		{
			Name:        "image_parse_color",
			Description: "Parse a color specification (#RGB, #RRGGBB, CSS name, rgb(r, g, b) or hsl(h, s%, l%)) and return it as hex, RGB, RGBA and HSL.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"color": map[string]interface{}{
						"type":        "string",
						"description": "Color text, e.g. \"#2196F3\" or \"cornflowerblue\"",
					},
				},
				"required": []string{"color"},
			},
		},

		// Effects
		{
			Name:        "image_gradient",
			Description: "Render a two-stop linear gradient as a base64-encoded PNG. The ramp always runs top to bottom. An invalid descriptor renders solid red and reports a diagnostic.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"descriptor": map[string]interface{}{
						"type":        "string",
						"description": "Gradient of the form linear-gradient(<deg>deg, <color> <pct>%, <color> <pct>%)",
					},
					"width": map[string]interface{}{
						"type":        "integer",
						"description": "Width in pixels",
						"minimum":     1,
					},
					"height": map[string]interface{}{
						"type":        "integer",
						"description": "Height in pixels",
						"minimum":     1,
					},
				},
				"required": []string{"descriptor", "width", "height"},
			},
		},
		{
			Name:        "image_shadow",
			Description: "Add a drop shadow beneath a cutout. The canvas grows on every side to make room for the shadow; the result is a base64-encoded PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": merge(
					map[string]interface{}{"path": pathProperty("Absolute path to the cutout image")},
					shadowProperties(""),
				),
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_adjust",
			Description: "Apply brightness, contrast and saturation multipliers (in that order) to an image, leaving alpha untouched. Returns a base64-encoded PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": merge(
					map[string]interface{}{"path": pathProperty("Absolute path to the image file")},
					adjustmentProperties(),
				),
				"required": []string{"path"},
			},
		},

		{
			Name:        "image_trim",
			Description: "Crop a cutout to its visible pixels, keeping an optional transparent margin. Returns a base64-encoded PNG and the offset of the kept region in the source.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty("Absolute path to the cutout image"),
					"padding": map[string]interface{}{
						"type":        "integer",
						"description": "Transparent margin in pixels to keep around the content. Default 0",
						"minimum":     0,
						"default":     0,
					},
				},
				"required": []string{"path"},
			},
		},

		// Compositing
		{
			Name:        "image_compose",
			Description: "Run the full pipeline on a cutout: drop shadow, tone adjustments, then placement over a transparent, solid color, gradient or custom image background. Returns a base64-encoded PNG, the output filename (<name>_nobg.png) and diagnostics for any fallback taken. Optionally writes the PNG to output_dir.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": merge(
					map[string]interface{}{
						"path": pathProperty("Absolute path to the cutout image (background already removed)"),
						"background_type": map[string]interface{}{
							"type":        "string",
							"enum":        []string{"color", "gradient", "image", "transparent"},
							"description": "Kind of background. Default color",
							"default":     "color",
						},
						"background_value": map[string]interface{}{
							"type":        "string",
							"description": "Color text for color (\"transparent\" keeps the cutout transparent) or descriptor for gradient. Default transparent",
							"default":     "transparent",
						},
						"background_image_path": pathProperty("Absolute path to the background image when background_type is image"),
						"output_dir":            pathProperty("Optional directory to write the resulting PNG into"),
					},
					shadowProperties("shadow_"),
					adjustmentProperties(),
				),
				"required": []string{"path"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
