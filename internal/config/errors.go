package config

import "errors"

// Validation errors returned by Config.Validate. Callers can use errors.Is
// to tell them apart.
var (
	// ErrInvalidThreshold is returned when the FAST threshold is not positive.
	ErrInvalidThreshold = errors.New("invalid threshold: must be positive")

	// ErrInvalidContext is returned for an unknown corner context name.
	ErrInvalidContext = errors.New("invalid corner context: must be 9_16 or 7_12")

	// ErrInvalidPatchRadius is returned when the orientation patch radius is
	// not positive.
	ErrInvalidPatchRadius = errors.New("invalid patch radius: must be positive")

	// ErrInvalidDescriptorLength is returned when the descriptor length is
	// not positive.
	ErrInvalidDescriptorLength = errors.New("invalid descriptor length: must be positive")

	// ErrInvalidKeypoints is returned when the keypoint count is not positive.
	ErrInvalidKeypoints = errors.New("invalid keypoint count: must be positive")

	// ErrInvalidBlurRadius is returned for a negative blur radius.
	ErrInvalidBlurRadius = errors.New("invalid blur radius: must be non-negative")

	// ErrInvalidMaxDimension is returned for a negative max dimension. Use 0
	// to disable downscaling.
	ErrInvalidMaxDimension = errors.New("invalid max dimension: must be non-negative")

	// ErrInvalidWorkers is returned for a negative worker count. Use 0 for
	// one worker per CPU.
	ErrInvalidWorkers = errors.New("invalid workers: must be non-negative")

	// ErrConfigNotFound is returned by Load when the file does not exist.
	ErrConfigNotFound = errors.New("configuration file not found")
)
