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

func regionProperty(description string) map[string]interface{} {
	coord := func(d string) map[string]interface{} {
		return map[string]interface{}{"type": "integer", "description": d}
	}
	return map[string]interface{}{
		"type":        "object",
		"description": description,
		"properties": map[string]interface{}{
			"x1": coord("Left edge X coordinate (0-based, inclusive)"),
			"y1": coord("Top edge Y coordinate (0-based, inclusive)"),
			"x2": coord("Right edge X coordinate (exclusive)"),
			"y2": coord("Bottom edge Y coordinate (exclusive)"),
		},
		"required": []string{"x1", "y1", "x2", "y2"},
	}
}

// detectorProperties are the per-call overrides shared by every feature tool.
func detectorProperties(props map[string]interface{}) map[string]interface{} {
	props["threshold"] = map[string]interface{}{
		"type":        "integer",
		"description": "FAST intensity threshold (default from configuration, normally 45)",
	}
	props["context"] = map[string]interface{}{
		"type":        "string",
		"enum":        []string{"9_16", "7_12"},
		"description": "Corner context: at least 9 of 16 samples at radius 3 differ from the center, or at least 7 of 12 at radius 2",
	}
	props["count"] = map[string]interface{}{
		"type":        "integer",
		"description": "Maximum number of keypoints kept after adaptive suppression",
	}
	return props
}

func featureSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": detectorProperties(map[string]interface{}{
			"path":   pathProperty(),
			"region": regionProperty("Only search this rectangle; coordinates are still reported in the full image"),
		}),
		"required": []string{"path"},
	}
}

func matchSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": detectorProperties(map[string]interface{}{
			"path_a": map[string]interface{}{
				"type":        "string",
				"description": "Absolute path to the first image",
			},
			"path_b": map[string]interface{}{
				"type":        "string",
				"description": "Absolute path to the second image",
			},
			"cross_check": map[string]interface{}{
				"type":        "boolean",
				"description": "Keep only pairs that are mutual nearest neighbours (default: false)",
			},
			"strict": map[string]interface{}{
				"type":        "boolean",
				"description": "Fail unless both images yield the same number of keypoints (default: false)",
			},
			"region_a": regionProperty("Only search this rectangle of the first image"),
			"region_b": regionProperty("Only search this rectangle of the second image"),
		}),
		"required": []string{"path_a", "path_b"},
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Basic Image Information
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions, format and whether it is grayscale. The decoded image is cached for later feature calls.",
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

		// Features
		{
			Name:        "features_detect",
			Description: "Detect FAST corners, orient them by intensity centroid and keep the strongest well-spread keypoints using adaptive non-maximal suppression. Returns keypoint locations, scores, angles and suppression ranks.",
			InputSchema: featureSchema(),
		},
		{
			Name:        "features_describe",
			Description: "Detect keypoints and compute a rotation-steered binary descriptor for each one. Descriptors are returned as hex strings and are comparable across calls to this server.",
			InputSchema: featureSchema(),
		},
		{
			Name:        "features_match",
			Description: "Match keypoints between two images by Hamming distance of their descriptors. Each keypoint of the first image takes the closest unused keypoint of the second, in order. Returns pairs with distance and similarity (1 = identical).",
			InputSchema: matchSchema(),
		},

		// Overlays
		{
			Name:        "features_overlay",
			Description: "Draw detected keypoints and their orientations over the image and return it as base64-encoded PNG.",
			InputSchema: featureSchema(),
		},
		{
			Name:        "features_match_overlay",
			Description: "Place both images side by side, draw a line for every match and return the result as base64-encoded PNG.",
			InputSchema: matchSchema(),
		},
	}
}
