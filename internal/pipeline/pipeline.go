package pipeline

import (
	"fmt"
	"image"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ironsheep/image-features-mcp/internal/config"
	"github.com/ironsheep/image-features-mcp/internal/features"
	"github.com/ironsheep/image-features-mcp/internal/imaging"
)

// Overrides adjusts the configured detector for a single call. Zero values
// keep the configuration.
type Overrides struct {
	// Threshold replaces the FAST threshold when non-nil.
	Threshold *int `json:"threshold,omitempty"`

	// Context names the corner context ("9_16" or "7_12") when non-empty.
	Context string `json:"context,omitempty"`

	// Count replaces the number of keypoints kept when non-nil.
	Count *int `json:"count,omitempty"`

	// Region limits detection to part of the image when non-nil.
	Region *imaging.Region `json:"region,omitempty"`
}

// Runner runs the feature pipeline against cached images.
type Runner struct {
	// Debug logs per-image timings to the standard logger.
	Debug bool

	cache   *imaging.ImageCache
	cfg     *config.Config
	pattern *features.SamplingPattern
}

// New creates a Runner for cfg. A nil cache gets a private one.
func New(cfg *config.Config, cache *imaging.ImageCache) (*Runner, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cache == nil {
		cache = imaging.NewImageCache()
	}
	pattern, err := features.NewSamplingPattern(cfg.DescriptorLength, cfg.PatternSeed)
	if err != nil {
		return nil, err
	}
	return &Runner{cache: cache, cfg: cfg, pattern: pattern}, nil
}

// Cache returns the image cache shared with the caller.
func (r *Runner) Cache() *imaging.ImageCache {
	return r.cache
}

// Config returns the configuration the Runner was built from.
func (r *Runner) Config() *config.Config {
	return r.cfg
}

// Extraction is the result of running the pipeline on one file.
type Extraction struct {
	Path string `json:"path"`

	// Width and Height are the source image dimensions.
	Width  int `json:"width"`
	Height int `json:"height"`

	// Scale is the downscale factor applied before detection (1 = none).
	Scale float64 `json:"scale"`

	// Region is the area searched, nil for the whole image.
	Region *imaging.Region `json:"region,omitempty"`

	Context          string `json:"context"`
	Threshold        int    `json:"threshold"`
	DescriptorLength int    `json:"descriptor_length"`

	// Candidates is the number of FAST corners before suppression.
	Candidates int `json:"candidates"`

	Keypoints   []features.Keypoint   `json:"keypoints"`
	Descriptors []features.Descriptor `json:"-"`
}

// DescribedKeypoint is a keypoint with its descriptor encoded as hex.
type DescribedKeypoint struct {
	features.Keypoint
	Descriptor string `json:"descriptor"`
}

// Described pairs every keypoint with its descriptor.
func (e *Extraction) Described() []DescribedKeypoint {
	out := make([]DescribedKeypoint, len(e.Keypoints))
	for i, kp := range e.Keypoints {
		out[i] = DescribedKeypoint{Keypoint: kp, Descriptor: e.Descriptors[i].String()}
	}
	return out
}

// options merges o into the configured extractor options.
func (r *Runner) options(o Overrides) (features.Options, error) {
	opts, err := r.cfg.Options()
	if err != nil {
		return opts, err
	}
	if o.Threshold != nil {
		if *o.Threshold <= 0 {
			return opts, fmt.Errorf("threshold %d: %w", *o.Threshold, config.ErrInvalidThreshold)
		}
		opts.Threshold = *o.Threshold
	}
	if o.Context != "" {
		v, err := features.ParseContextVariant(o.Context)
		if err != nil {
			return opts, fmt.Errorf("%w: %q", config.ErrInvalidContext, o.Context)
		}
		opts.Variant = v
	}
	if o.Count != nil {
		if *o.Count <= 0 {
			return opts, fmt.Errorf("count %d: %w", *o.Count, config.ErrInvalidKeypoints)
		}
		opts.Count = *o.Count
	}
	return opts, nil
}

// Extract loads path and returns its keypoints and descriptors.
func (r *Runner) Extract(path string, o Overrides) (*Extraction, error) {
	start := time.Now()

	opts, err := r.options(o)
	if err != nil {
		return nil, err
	}
	extractor, err := features.NewExtractor(opts, r.pattern)
	if err != nil {
		return nil, err
	}

	gray, err := r.cache.LoadGray(path)
	if err != nil {
		return nil, err
	}
	bounds := gray.Bounds()

	work := gray
	var origin image.Point
	if o.Region != nil {
		work, err = imaging.CropGray(gray, *o.Region)
		if err != nil {
			return nil, err
		}
		origin = image.Pt(o.Region.X1, o.Region.Y1)
	}
	work, scale := imaging.Fit(work, r.cfg.MaxDimension)
	smoothed := imaging.Smooth(work, r.cfg.BlurRadius)

	res, err := extractor.Extract(work, smoothed)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	for i := range res.Keypoints {
		toSource(&res.Keypoints[i], origin, scale)
		res.Descriptors[i].Location = res.Keypoints[i].Location
	}

	if r.Debug {
		log.Printf("extract %s: %d candidates, %d keypoints, scale %.3f, %s",
			path, res.Candidates, len(res.Keypoints), scale, time.Since(start))
	}

	return &Extraction{
		Path:             path,
		Width:            bounds.Dx(),
		Height:           bounds.Dy(),
		Scale:            scale,
		Region:           o.Region,
		Context:          extractor.Context().Variant.String(),
		DescriptorLength: extractor.Pattern().Len(),
		Threshold:        opts.Threshold,
		Candidates:       res.Candidates,
		Keypoints:        res.Keypoints,
		Descriptors:      res.Descriptors,
	}, nil
}

// toSource maps a keypoint found on a cropped and scaled raster back to the
// source image.
func toSource(kp *features.Keypoint, origin image.Point, scale float64) {
	if scale == 1 && origin == (image.Point{}) {
		return
	}
	back := func(v float64, o int) float64 { return float64(o) + v/scale }

	kp.Location = features.PointF{
		X: back(float64(kp.Location.X), origin.X),
		Y: back(float64(kp.Location.Y), origin.Y),
	}.Round()
	kp.Centroid = features.PointF{
		X: back(kp.Centroid.X, origin.X),
		Y: back(kp.Centroid.Y, origin.Y),
	}
	kp.MomentPoint = kp.Centroid.Round()
	kp.SuppressionRank /= scale
}

// MatchEntry is one matched keypoint pair.
type MatchEntry struct {
	A         int            `json:"a"`
	B         int            `json:"b"`
	LocationA features.Point `json:"location_a"`
	LocationB features.Point `json:"location_b"`
	Distance  int            `json:"distance"`

	// Similarity is 1 - Distance/DescriptorLength.
	Similarity float64 `json:"similarity"`
}

// Comparison is the result of matching two images.
type Comparison struct {
	KeypointsA       int          `json:"keypoints_a"`
	KeypointsB       int          `json:"keypoints_b"`
	DescriptorLength int          `json:"descriptor_length"`
	CrossChecked     bool         `json:"cross_checked"`
	Matches          []MatchEntry `json:"matches"`

	A     *Extraction          `json:"-"`
	B     *Extraction          `json:"-"`
	Pairs []features.MatchPair `json:"-"`
}

// MatchOptions selects the matching variant.
type MatchOptions struct {
	// CrossCheck keeps only reciprocal nearest neighbours.
	CrossCheck bool

	// Strict fails with features.ErrLengthMismatch unless both images yield
	// the same number of keypoints.
	Strict bool
}

// Match extracts features from both files and pairs them greedily.
func (r *Runner) Match(pathA string, oa Overrides, pathB string, ob Overrides, mo MatchOptions) (*Comparison, error) {
	var a, b *Extraction
	var g errgroup.Group
	g.Go(func() error {
		var err error
		a, err = r.Extract(pathA, oa)
		return err
	})
	g.Go(func() error {
		var err error
		b, err = r.Extract(pathB, ob)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	opts, err := r.cfg.Options()
	if err != nil {
		return nil, err
	}
	var pairs []features.MatchPair
	if mo.Strict {
		pairs, err = features.MatchEqual(a.Descriptors, b.Descriptors)
	} else {
		pairs, err = features.MatchConcurrent(a.Descriptors, b.Descriptors, opts.Workers)
	}
	if err != nil {
		return nil, err
	}
	if mo.CrossCheck {
		pairs, err = features.CrossCheck(a.Descriptors, b.Descriptors, pairs)
		if err != nil {
			return nil, err
		}
	}

	length := r.pattern.Len()
	entries := make([]MatchEntry, len(pairs))
	for i, p := range pairs {
		entries[i] = MatchEntry{
			A:          p.A,
			B:          p.B,
			LocationA:  a.Keypoints[p.A].Location,
			LocationB:  b.Keypoints[p.B].Location,
			Distance:   p.Distance,
			Similarity: 1 - float64(p.Distance)/float64(length),
		}
	}

	return &Comparison{
		KeypointsA:       len(a.Keypoints),
		KeypointsB:       len(b.Keypoints),
		DescriptorLength: length,
		CrossChecked:     mo.CrossCheck,
		Matches:          entries,
		A:                a,
		B:                b,
		Pairs:            pairs,
	}, nil
}
