package server

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ironsheep/image-features-mcp/internal/imaging"
	"github.com/ironsheep/image-features-mcp/internal/pipeline"
)

// errMissingPath is returned when a tool is called without an image path.
var errMissingPath = errors.New("path is required")

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "features_match").
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
	if len(params.Arguments) == 0 {
		params.Arguments = json.RawMessage("{}")
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
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
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Basic Image Information
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)

	// Features
	case "features_detect":
		return s.handleFeaturesDetect(args)
	case "features_describe":
		return s.handleFeaturesDescribe(args)
	case "features_match":
		return s.handleFeaturesMatch(args)

	// Overlays
	case "features_overlay":
		return s.handleFeaturesOverlay(args)
	case "features_match_overlay":
		return s.handleFeaturesMatchOverlay(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Basic Image Information Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, errMissingPath
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, errMissingPath
	}
	return imaging.GetDimensions(s.cache, a.Path)
}

// === Feature Handlers ===

type featureArgs struct {
	Path string `json:"path"`
	pipeline.Overrides
}

func (s *Server) extract(args json.RawMessage) (*pipeline.Extraction, error) {
	var a featureArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, errMissingPath
	}
	return s.runner.Extract(a.Path, a.Overrides)
}

func (s *Server) handleFeaturesDetect(args json.RawMessage) (interface{}, error) {
	return s.extract(args)
}

// DescribeResult is the output of features_describe.
type DescribeResult struct {
	Path             string                       `json:"path"`
	Width            int                          `json:"width"`
	Height           int                          `json:"height"`
	Scale            float64                      `json:"scale"`
	Candidates       int                          `json:"candidates"`
	DescriptorLength int                          `json:"descriptor_length"`
	Features         []pipeline.DescribedKeypoint `json:"features"`
}

func (s *Server) handleFeaturesDescribe(args json.RawMessage) (interface{}, error) {
	ex, err := s.extract(args)
	if err != nil {
		return nil, err
	}

	result := &DescribeResult{
		Path:             ex.Path,
		Width:            ex.Width,
		Height:           ex.Height,
		Scale:            ex.Scale,
		Candidates:       ex.Candidates,
		DescriptorLength: ex.DescriptorLength,
		Features:         ex.Described(),
	}
	return result, nil
}

type matchArgs struct {
	PathA      string          `json:"path_a"`
	PathB      string          `json:"path_b"`
	CrossCheck bool            `json:"cross_check"`
	Strict     bool            `json:"strict"`
	Threshold  *int            `json:"threshold"`
	Context    string          `json:"context"`
	Count      *int            `json:"count"`
	RegionA    *imaging.Region `json:"region_a"`
	RegionB    *imaging.Region `json:"region_b"`
}

func (s *Server) match(args json.RawMessage) (*pipeline.Comparison, error) {
	var a matchArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.PathA == "" || a.PathB == "" {
		return nil, errors.New("path_a and path_b are required")
	}
	oa := pipeline.Overrides{Threshold: a.Threshold, Context: a.Context, Count: a.Count, Region: a.RegionA}
	ob := oa
	ob.Region = a.RegionB
	return s.runner.Match(a.PathA, oa, a.PathB, ob, pipeline.MatchOptions{CrossCheck: a.CrossCheck, Strict: a.Strict})
}

func (s *Server) handleFeaturesMatch(args json.RawMessage) (interface{}, error) {
	return s.match(args)
}

// === Overlay Handlers ===

// OverlayResult is a rendered overlay plus the number of items drawn.
type OverlayResult struct {
	*imaging.RenderResult
	Keypoints int `json:"keypoints,omitempty"`
	Matches   int `json:"matches,omitempty"`
}

func (s *Server) handleFeaturesOverlay(args json.RawMessage) (interface{}, error) {
	ex, err := s.extract(args)
	if err != nil {
		return nil, err
	}
	img, err := s.cache.Load(ex.Path)
	if err != nil {
		return nil, err
	}
	rendered, err := imaging.DrawKeypoints(img, ex.Keypoints)
	if err != nil {
		return nil, err
	}
	return &OverlayResult{RenderResult: rendered, Keypoints: len(ex.Keypoints)}, nil
}

func (s *Server) handleFeaturesMatchOverlay(args json.RawMessage) (interface{}, error) {
	cmp, err := s.match(args)
	if err != nil {
		return nil, err
	}
	imgA, err := s.cache.Load(cmp.A.Path)
	if err != nil {
		return nil, err
	}
	imgB, err := s.cache.Load(cmp.B.Path)
	if err != nil {
		return nil, err
	}
	rendered, err := imaging.DrawMatches(imgA, imgB, cmp.A.Keypoints, cmp.B.Keypoints, cmp.Pairs)
	if err != nil {
		return nil, err
	}
	return &OverlayResult{RenderResult: rendered, Matches: len(cmp.Pairs)}, nil
}
