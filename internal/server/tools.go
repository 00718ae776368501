package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the image file",
	}
}

func paletteProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Bundled palette name (see palette_list) or path to a palette JSON file",
	}
}

func legacySearchProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "boolean",
		"description": "Use the legacy backtrack bound, which can miss the true nearest color. Default false",
		"default":     false,
	}
}

func rgbSchema() map[string]interface{} {
	channel := func(name string) map[string]interface{} {
		return map[string]interface{}{
			"type":        "integer",
			"minimum":     0,
			"maximum":     255,
			"description": name + " channel (0-255)",
		}
	}
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"r": channel("Red"),
			"g": channel("Green"),
			"b": channel("Blue"),
		},
		"required": []string{"r", "g", "b"},
	}
}

// layoutProperties describes the config fields that shape the tile grid.
func layoutProperties() map[string]interface{} {
	number := func(desc string) map[string]interface{} {
		return map[string]interface{}{"type": "number", "description": desc}
	}
	integer := func(desc string) map[string]interface{} {
		return map[string]interface{}{"type": "integer", "description": desc}
	}
	return map[string]interface{}{
		"output_width":          number("Mosaic width in output units"),
		"output_height":         number("Mosaic height in output units"),
		"tile_size_x":           number("Distance between tile origins across, in output units"),
		"tile_size_y":           number("Distance between tile origins down, in output units"),
		"tile_space_x":          number("Grout gap to the right of each tile, in output units. Default 0"),
		"tile_space_y":          number("Grout gap below each tile, in output units. Default 0"),
		"tiles_per_pane_width":  integer("Tiles across one window pane"),
		"tiles_per_pane_height": integer("Tiles down one window pane"),
		"smooth_radius":         number("Box blur radius in input pixels applied before averaging. Default 0 (off)"),
		"workers":               integer("Concurrent pane workers. Default GOMAXPROCS"),
	}
}

var layoutRequired = []string{
	"output_width", "output_height",
	"tile_size_x", "tile_size_y",
	"tiles_per_pane_width", "tiles_per_pane_height",
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	tilesProps := layoutProperties()
	tilesProps["path"] = pathProperty()
	tilesProps["tile_colors"] = map[string]interface{}{
		"type":        "string",
		"description": "Optional palette to match each tile against (bundled name or file path)",
	}
	tilesProps["legacy_search"] = legacySearchProperty()

	configProps := layoutProperties()
	configProps["tile_colors"] = paletteProperty()
	configProps["input"] = pathProperty()
	configProps["output"] = map[string]interface{}{
		"type":        "string",
		"description": "Path for the painted mosaic; the extension picks the format (png, jpg, gif, tif, bmp)",
	}
	configProps["export_json"] = map[string]interface{}{
		"type":        "string",
		"description": "Optional path for the JSON tile export",
	}
	configProps["legend"] = map[string]interface{}{
		"type":        "string",
		"description": "Optional path for a legend image listing every color used",
	}
	configProps["grout_color"] = map[string]interface{}{
		"type":        "string",
		"description": "Grout color as hex. Default #FFFFFF",
		"default":     "#FFFFFF",
	}
	configProps["pixels_per_unit"] = map[string]interface{}{
		"type":        "number",
		"description": "Output pixels per output unit. Default 1",
		"default":     1,
	}
	configProps["legacy_search"] = legacySearchProperty()

	return []Tool{
		// Input images
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions, format and file size. The image is cached for later mosaic calls.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
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
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_preview",
			Description: "Return an image scaled to fit the given box as base64-encoded PNG. Useful for viewing a finished mosaic.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"max_width": map[string]interface{}{
						"type":        "integer",
						"description": "Maximum preview width in pixels. Default 512",
						"default":     512,
					},
					"max_height": map[string]interface{}{
						"type":        "integer",
						"description": "Maximum preview height in pixels. Default 512",
						"default":     512,
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_evict",
			Description: "Drop an image from the server's cache so the next call reads it from disk again. Without a path every cached image is dropped.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path of the cached image. Omit to clear the whole cache",
					},
				},
			},
		},

		// Palettes
		{
			Name:        "palette_list",
			Description: "List the palettes bundled with the server.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
		{
			Name:        "palette_load",
			Description: "Load a tile palette and return its colors with hex, RGB and HSL values.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"palette": paletteProperty(),
				},
				"required": []string{"palette"},
			},
		},
		{
			Name:        "palette_nearest",
			Description: "Find the nearest palette color for each given RGB color. Reports squared RGB distance, CIEDE2000 difference and the number of distance evaluations performed.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"palette": paletteProperty(),
					"colors": map[string]interface{}{
						"type":        "array",
						"description": "Colors to match",
						"items":       rgbSchema(),
					},
					"legacy_search": legacySearchProperty(),
				},
				"required": []string{"palette", "colors"},
			},
		},
		{
			Name:        "palette_save",
			Description: "Write a palette to a JSON file with the rgb and hex value of every color filled in. Useful as a starting point for a custom palette.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"palette": paletteProperty(),
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Path of the palette JSON file to write",
					},
				},
				"required": []string{"palette", "path"},
			},
		},

		// Mosaics
		{
			Name:        "mosaic_tiles",
			Description: "Divide an image into window panes of tiles and return each tile's rectangle and average color, optionally matched against a palette. Writes nothing.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": tilesProps,
				"required":   append([]string{"path"}, layoutRequired...),
			},
		},
		{
			Name:        "mosaic_build",
			Description: "Build a tile mosaic: match every tile to the palette, paint the output image and optionally write the JSON export and legend. Returns the run report with color usage counts.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"config_path": map[string]interface{}{
						"type":        "string",
						"description": "Path to a mosaic config JSON file",
					},
					"config": map[string]interface{}{
						"type":        "object",
						"description": "Inline mosaic config, used instead of config_path",
						"properties":  configProps,
						"required":    append([]string{"tile_colors", "input", "output"}, layoutRequired...),
					},
					"preview": map[string]interface{}{
						"type":        "boolean",
						"description": "Include a base64 PNG preview of the painted mosaic. Default false",
						"default":     false,
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
