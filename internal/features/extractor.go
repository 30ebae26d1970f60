package features

import (
	"fmt"
	"image"
)

// DefaultKeypointCount is the default number of keypoints kept per image.
const DefaultKeypointCount = 500

// Options configures an Extractor.
type Options struct {
	// Variant selects the corner context.
	Variant ContextVariant

	// Threshold is the FAST intensity difference.
	Threshold int

	// PatchRadius is the half-size of the orientation patch.
	PatchRadius int

	// Count is the maximum number of keypoints kept after suppression.
	Count int

	// Workers bounds the goroutines used by detection and description.
	// Values below 1 mean sequential.
	Workers int
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Variant:     Context9_16,
		Threshold:   DefaultThreshold,
		PatchRadius: DefaultPatchRadius,
		Count:       DefaultKeypointCount,
		Workers:     1,
	}
}

// Extractor runs detect, orient, suppress and describe for one image at a
// time. It is safe for concurrent use.
type Extractor struct {
	opts    Options
	context *CornerContext
	pattern *SamplingPattern
}

// Result is the output of Extractor.Extract.
type Result struct {
	// Candidates is the number of FAST candidates before suppression.
	Candidates int `json:"candidates"`

	// Keypoints are the retained keypoints, in suppression order.
	Keypoints []Keypoint `json:"keypoints"`

	// Descriptors holds one descriptor per retained keypoint.
	Descriptors []Descriptor `json:"-"`
}

// NewExtractor validates opts and binds them to pattern.
func NewExtractor(opts Options, pattern *SamplingPattern) (*Extractor, error) {
	cc, err := Context(opts.Variant)
	if err != nil {
		return nil, err
	}
	if pattern == nil {
		return nil, fmt.Errorf("extractor: nil sampling pattern: %w", ErrInvalidParameter)
	}
	if opts.Threshold <= 0 || opts.PatchRadius <= 0 || opts.Count < 0 {
		return nil, fmt.Errorf("extractor: threshold=%d patch_radius=%d count=%d: %w",
			opts.Threshold, opts.PatchRadius, opts.Count, ErrInvalidParameter)
	}
	return &Extractor{opts: opts, context: cc, pattern: pattern}, nil
}

// Pattern returns the sampling pattern used for descriptors.
func (e *Extractor) Pattern() *SamplingPattern {
	return e.pattern
}

// Context returns the corner context used for detection.
func (e *Extractor) Context() *CornerContext {
	return e.context
}

// Extract runs the full pipeline.
//
// gray is used for detection and orientation, smoothed for the descriptor
// tests; both must have the same dimensions. At most Options.Count
// keypoints are kept: when fewer than Count+2 candidates exist, every
// candidate that suppression can rank is kept instead of failing.
func (e *Extractor) Extract(gray, smoothed *image.Gray) (*Result, error) {
	gw, gh := dims(gray)
	sw, sh := dims(smoothed)
	if gw != sw || gh != sh {
		return nil, fmt.Errorf("extract: image %dx%d vs smoothed %dx%d: %w", gw, gh, sw, sh, ErrInvalidParameter)
	}

	candidates, err := DetectConcurrent(gray, e.context, e.opts.Threshold, e.opts.Workers)
	if err != nil {
		return nil, err
	}
	oriented, err := Orient(gray, candidates, e.opts.PatchRadius)
	if err != nil {
		return nil, err
	}

	n := min(e.opts.Count, len(oriented)-2)
	keypoints := []Keypoint{}
	if n > 0 {
		keypoints, err = Suppress(oriented, n)
		if err != nil {
			return nil, err
		}
	}

	descriptors, err := DescribeConcurrent(smoothed, keypoints, e.pattern, e.opts.Workers)
	if err != nil {
		return nil, err
	}
	return &Result{
		Candidates:  len(candidates),
		Keypoints:   keypoints,
		Descriptors: descriptors,
	}, nil
}
