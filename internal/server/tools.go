package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func intProperty(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "integer",
		"description": description,
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Drawing
		{
			Name:        "overlay_add_text",
			Description: "Add a text item to an overlay layer. The text baseline starts at (x, y).",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"layer": intProperty("Overlay layer (default 0). Higher layers draw on top."),
					"text": map[string]interface{}{
						"type":        "string",
						"description": "Text to draw",
					},
					"x": intProperty("Baseline X coordinate"),
					"y": intProperty("Baseline Y coordinate"),
					"color": map[string]interface{}{
						"type":        "string",
						"description": "Color as #RRGGBB, #AARRGGBB, or a color name. Default black",
					},
					"font_size": intProperty("Font size in pixels. Defaults to the configured size"),
				},
				"required": []string{"text", "x", "y"},
			},
		},
		{
			Name:        "overlay_add_rect",
			Description: "Add a filled or outlined rectangle to an overlay layer.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"layer":  intProperty("Overlay layer (default 0)"),
					"x":      intProperty("Left edge X coordinate"),
					"y":      intProperty("Top edge Y coordinate"),
					"width":  intProperty("Rectangle width in pixels"),
					"height": intProperty("Rectangle height in pixels"),
					"color": map[string]interface{}{
						"type":        "string",
						"description": "Color as #RRGGBB, #AARRGGBB, or a color name. Default black",
					},
					"filled": map[string]interface{}{
						"type":        "boolean",
						"description": "Fill the rectangle instead of drawing its outline. Default false",
					},
				},
				"required": []string{"x", "y", "width", "height"},
			},
		},
		{
			Name: "overlay_add_image",
			Description: "Add an image file to an overlay layer. Optionally extract a width x height region " +
				"starting at a row-major pixel offset, flip it, remap its color table, and make color index 0 transparent.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"layer": intProperty("Overlay layer (default 0)"),
					"x":     intProperty("Left edge X coordinate on the canvas"),
					"y":     intProperty("Top edge Y coordinate on the canvas"),
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"width":  intProperty("Region width; 0 or less uses the full image width"),
					"height": intProperty("Region height; 0 or less uses the full image height"),
					"offset": map[string]interface{}{
						"type":        "integer",
						"minimum":     0,
						"description": "Row-major pixel index of the region's top-left corner. Default 0",
					},
					"xflip": map[string]interface{}{
						"type":        "boolean",
						"description": "Mirror horizontally",
					},
					"yflip": map[string]interface{}{
						"type":        "boolean",
						"description": "Mirror vertically",
					},
					"palette": map[string]interface{}{
						"type":        "array",
						"items":       map[string]interface{}{"type": "string"},
						"description": "Colors that replace color table entries 0, 1, 2, ... of indexed images",
					},
					"set_transparency": map[string]interface{}{
						"type":        "boolean",
						"description": "Make color table entry 0 fully transparent (applied after palette)",
					},
				},
				"required": []string{"x", "y", "path"},
			},
		},
		{
			Name:        "overlay_add_image_data",
			Description: "Add an inline base64-encoded PNG, JPEG, or GIF image to an overlay layer without any processing.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"layer": intProperty("Overlay layer (default 0)"),
					"x":     intProperty("Left edge X coordinate on the canvas"),
					"y":     intProperty("Top edge Y coordinate on the canvas"),
					"image_base64": map[string]interface{}{
						"type":        "string",
						"description": "Base64 image data, optionally as a data: URL",
					},
				},
				"required": []string{"x", "y", "image_base64"},
			},
		},

		{
			Name: "overlay_add_grid",
			Description: "Add a coordinate grid to an overlay layer, optionally labeling every intersection " +
				"with its x,y position. Useful for locating pixels on a rendered image.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"layer":   intProperty("Overlay layer (default 0)"),
					"spacing": intProperty("Distance between grid lines in pixels"),
					"width":   intProperty("Grid area width. Defaults to the configured canvas width"),
					"height":  intProperty("Grid area height. Defaults to the configured canvas height"),
					"color": map[string]interface{}{
						"type":        "string",
						"description": "Line color. Default semi-transparent red (#80ff0000)",
					},
					"show_coordinates": map[string]interface{}{
						"type":        "boolean",
						"description": "Label intersections with coordinates. Default false",
					},
					"font_size": intProperty("Label font size in pixels. Default 10"),
				},
				"required": []string{"spacing"},
			},
		},

		// Layer management
		{
			Name:        "overlay_clear",
			Description: "Remove all items from one layer, or from every layer when layer is omitted.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"layer": intProperty("Layer to clear. Omit to clear all layers"),
				},
			},
		},
		{
			Name:        "overlay_set_hidden",
			Description: "Hide or show one layer, or every layer when layer is omitted. Hidden layers keep their items.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"layer": intProperty("Layer to change. Omit to change all layers"),
					"hidden": map[string]interface{}{
						"type":        "boolean",
						"description": "true to hide, false to show",
					},
				},
				"required": []string{"hidden"},
			},
		},
		{
			Name:        "overlay_list",
			Description: "List overlay items in paint order, for one layer or all layers.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"layer": intProperty("Layer to list. Omit to list all layers"),
				},
			},
		},

		// Output
		{
			Name:        "overlay_render",
			Description: "Render all visible layers and return the result as base64-encoded PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"base_path": map[string]interface{}{
						"type":        "string",
						"description": "Optional image to draw the overlay on. Its size becomes the canvas size",
					},
					"width":  intProperty("Canvas width when no base image is given. Defaults to the configured width"),
					"height": intProperty("Canvas height when no base image is given. Defaults to the configured height"),
					"background": map[string]interface{}{
						"type":        "string",
						"description": "Canvas color when no base image is given. Defaults to the configured background",
					},
				},
			},
		},

		// Source images
		{
			Name:        "overlay_image_info",
			Description: "Get dimensions, format, and color table size of an image file, for planning regions and palettes.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "overlay_cache_evict",
			Description: "Drop a cached source image so the next use re-reads it from disk. Omit path to drop all.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Image path exactly as it was used before",
					},
				},
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
