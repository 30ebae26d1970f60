package features

import "errors"

var (
	// ErrSize is returned when an image is too small for the requested
	// corner context (smaller than twice the circle radius).
	ErrSize = errors.New("image too small for corner context")

	// ErrUnderflow is returned when more keypoints are requested than the
	// candidate set can provide.
	ErrUnderflow = errors.New("not enough candidates")

	// ErrLengthMismatch is returned when two descriptor sets, or two
	// descriptors, cannot be compared because their lengths differ.
	ErrLengthMismatch = errors.New("descriptor length mismatch")

	// ErrInvalidParameter is returned for out-of-range arguments such as a
	// non-positive threshold or descriptor length.
	ErrInvalidParameter = errors.New("invalid parameter")
)
