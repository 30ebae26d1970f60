// Package config holds the tunable parameters of the feature pipeline.
//
// Values come from three layers, later layers overriding earlier ones:
//
//  1. Built-in defaults (Default)
//  2. A YAML file: the path given with --config, otherwise
//     $XDG_CONFIG_HOME/image-features-mcp/config.yaml when present
//  3. Per-call arguments (CLI flags or MCP tool arguments)
//
// Example file:
//
//	threshold: 40
//	corner_context: "9_16"
//	patch_radius: 5
//	descriptor_length: 256
//	keypoints: 500
//	blur_radius: 2
//	max_dimension: 1024
//	workers: 4
package config
