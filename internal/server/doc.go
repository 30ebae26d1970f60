// Package server implements the MCP (Model Context Protocol) server that
// exposes the feature pipeline as tools.
//
// # Protocol
//
// The server speaks JSON-RPC 2.0 over stdio, one request per line:
//   - initialize: protocol handshake
//   - tools/list: enumerate available tools
//   - tools/call: execute a tool with arguments
//   - ping: health check
//
// # Available Tools
//
// Image information:
//   - image_load: load an image and report its metadata
//   - image_dimensions: width and height only
//
// Features:
//   - features_detect: oriented keypoints after adaptive suppression
//   - features_describe: keypoints with their hex-encoded descriptors
//   - features_match: greedy descriptor matching between two images
//   - features_overlay: keypoints drawn over the image (base64 PNG)
//   - features_match_overlay: both images side by side with match lines
//
// Every feature tool accepts optional threshold, context, count and region
// arguments that override the server configuration for that call.
// Keypoint coordinates are always reported in the pixel frame of the source
// file, even when a region or downscaling was applied.
//
// # Error Handling
//
// Tool failures become JSON-RPC errors with code -32000; the data field
// carries the Go error text. Malformed tool arguments use -32602.
package server
