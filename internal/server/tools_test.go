package server

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestGetToolDefinitions(t *testing.T) {
	tools := GetToolDefinitions()

	want := []string{
		"image_load",
		"image_dimensions",
		"features_detect",
		"features_describe",
		"features_match",
		"features_overlay",
		"features_match_overlay",
	}
	if len(tools) != len(want) {
		t.Fatalf("got %d tools, want %d", len(tools), len(want))
	}

	s := newTestServer(t)
	for i, tool := range tools {
		if tool.Name != want[i] {
			t.Errorf("tool %d: got %s, want %s", i, tool.Name, want[i])
		}
		if tool.Description == "" {
			t.Errorf("%s: empty description", tool.Name)
		}
		if tool.InputSchema["type"] != "object" {
			t.Errorf("%s: schema type %v", tool.Name, tool.InputSchema["type"])
		}
		if _, ok := tool.InputSchema["required"].([]string); !ok {
			t.Errorf("%s: missing required list", tool.Name)
		}

		// Every listed tool must be dispatched; unknown tools fail with a
		// distinct message.
		_, err := s.executeTool(tool.Name, json.RawMessage(`{}`))
		if err != nil && err.Error() == "unknown tool: "+tool.Name {
			t.Errorf("%s is listed but not dispatched", tool.Name)
		}
	}
}

func TestToolDefinitions_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(GetToolDefinitions())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded []map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, tool := range decoded {
		if _, ok := tool["inputSchema"]; !ok {
			t.Errorf("%v: inputSchema missing from JSON", tool["name"])
		}
	}
}

func TestFeatureSchema_Overrides(t *testing.T) {
	props := featureSchema()["properties"].(map[string]interface{})
	for _, key := range []string{"path", "threshold", "context", "count", "region"} {
		if _, ok := props[key]; !ok {
			t.Errorf("feature schema missing %q", key)
		}
	}

	ctx := props["context"].(map[string]interface{})["description"].(string)
	if !strings.Contains(ctx, "at least 9 of 16") || strings.Contains(ctx, "contiguous") {
		t.Errorf("context description %q should describe a count of differing samples", ctx)
	}

	props = matchSchema()["properties"].(map[string]interface{})
	for _, key := range []string{"path_a", "path_b", "cross_check", "strict", "region_a", "region_b", "threshold"} {
		if _, ok := props[key]; !ok {
			t.Errorf("match schema missing %q", key)
		}
	}
}
