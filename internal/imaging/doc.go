// Package imaging provides the image plumbing around the feature pipeline.
//
// The feature core only understands 8-bit grayscale rasters. This package
// supplies everything around it: decoding files (with a cache), grayscale
// conversion, Gaussian smoothing for descriptor sampling, region crops and
// downscaling, and PNG overlays that visualise keypoints and matches.
//
// # Coordinate System
//
// All pixel coordinates are 0-based with (0,0) at the top-left corner:
//   - X increases rightward, Y increases downward
//   - Regions use inclusive (x1,y1) and exclusive (x2,y2)
//   - Grayscale rasters returned by this package always start at (0,0)
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. Conversion, smoothing and render
// functions are stateless and never modify their inputs.
//
// # Error Handling
//
// Functions return errors for:
//   - File I/O and decode failures
//   - Regions outside the image or with x1 >= x2 / y1 >= y2
//   - PNG encoding failures when rendering overlays
package imaging
