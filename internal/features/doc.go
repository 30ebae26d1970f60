// Package features locates rotation-invariant point features in grayscale
// images and matches their binary descriptors across two images.
//
// The package implements the detector, descriptor and matcher chain:
//
//  1. Detect: accelerated circular intensity test (FAST) over every pixel
//     that has a full circle margin, producing scored corner candidates.
//  2. Orient: intensity centroid of a square patch around each candidate,
//     giving an orientation angle in radians.
//  3. Suppress: adaptive non-maximum suppression that keeps a fixed number
//     of strong, spatially well separated keypoints.
//  4. Describe: orientation-steered BRIEF tests on a smoothed copy of the
//     image, one bit per sampling pair.
//  5. Match: greedy, exclusive nearest-neighbour assignment by Hamming
//     distance.
//
// # Coordinate System
//
// Keypoint locations are 0-based and relative to the image bounds origin:
//   - X increases rightward, Y increases downward
//   - A *image.Gray with a non-zero Rect.Min (e.g. a SubImage) is addressed
//     as if its top-left pixel were (0, 0)
//
// # Error Handling
//
// Every stage either returns its complete result or an error wrapping one
// of the sentinel errors (ErrSize, ErrUnderflow, ErrLengthMismatch,
// ErrInvalidParameter). There are no partial results. A patch whose
// zero-order moment cannot be computed (boundary or all-black patch) is not
// an error: the keypoint receives angle 0 and its own location as centroid.
//
// # Thread Safety
//
// Images are treated as read-only and no stage keeps state between calls,
// so all functions are safe for concurrent use. A SamplingPattern is
// immutable after construction and may be shared freely.
package features
