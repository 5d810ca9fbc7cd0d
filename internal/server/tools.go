package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Extraction
		{
			Name:        "blueprint_extract",
			Description: "Extract walls, wall segments and rooms from a floor plan image (PNG or JPEG). Returns the structured model wrapped as {\"data\": ...}. Optionally saves the model JSON and the intermediate debug images.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the floor plan image",
					},
					"output": map[string]interface{}{
						"type":        "string",
						"description": "Optional path to write the model JSON",
					},
					"debug": map[string]interface{}{
						"type":        "boolean",
						"description": "Write the intermediate masks and overlays. Without debug_dir a fresh directory under the system temp dir is used.",
						"default":     false,
					},
					"debug_dir": map[string]interface{}{
						"type":        "string",
						"description": "Optional directory for the debug images (implies debug)",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "blueprint_remove_text",
			Description: "Erase text labels and dimension annotations from a floor plan while keeping wall strokes. Returns the erased boxes and the cleaned image as base64 PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the floor plan image",
					},
					"output": map[string]interface{}{
						"type":        "string",
						"description": "Optional path to save the cleaned image",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "blueprint_detect_segments",
			Description: "Detect straight wall line segments in a floor plan after text removal.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the floor plan image",
					},
				},
				"required": []string{"path"},
			},
		},

		// Rendering
		{
			Name:        "blueprint_render",
			Description: "Render a blueprint model to an image. Walls are filled translucent red (horizontal) or blue (vertical) with id labels, segments are black, rooms are green outlines.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"model_path": map[string]interface{}{
						"type":        "string",
						"description": "Path to a model JSON file ({\"data\": ...})",
					},
					"model": map[string]interface{}{
						"type":        "object",
						"description": "Inline model envelope, used when model_path is not given",
					},
					"width": map[string]interface{}{
						"type":        "integer",
						"description": "Canvas width. Defaults to the model's image dimensions, then 1600.",
					},
					"height": map[string]interface{}{
						"type":        "integer",
						"description": "Canvas height. Defaults to the model's image dimensions, then 1200.",
					},
					"output": map[string]interface{}{
						"type":        "string",
						"description": "Optional path to save the rendering",
					},
					"format": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"png", "svg"},
						"description": "Output format. Defaults to svg when output ends in .svg, png otherwise.",
					},
				},
			},
		},
		{
			Name:        "blueprint_overlay",
			Description: "Draw an extracted model over its source image: rooms in red, horizontal walls in green, vertical walls in blue. Returns base64 PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the source image",
					},
					"model_path": map[string]interface{}{
						"type":        "string",
						"description": "Path to the model JSON file",
					},
					"output": map[string]interface{}{
						"type":        "string",
						"description": "Optional path to save the overlay",
					},
				},
				"required": []string{"path", "model_path"},
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
