// Package pipeline ties image loading, configuration and feature extraction
// together for the MCP server and the command-line tools.
//
// A Runner owns one sampling pattern built from the configuration, so every
// descriptor it produces can be matched against every other. Per-call
// Overrides adjust the detector without rebuilding the pattern.
//
// Coordinates in an Extraction always refer to the source file: keypoints
// found inside a region or on a downscaled raster are mapped back before
// they are returned.
package pipeline
