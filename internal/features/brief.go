package features

import (
	"encoding/hex"
	"fmt"
	"image"
	"math"
	"math/rand"

	"golang.org/x/sync/errgroup"
)

const (
	// DefaultDescriptorLength is the number of bits in a descriptor.
	DefaultDescriptorLength = 256

	// DefaultPatternSeed seeds the default sampling pattern. Descriptors are
	// only comparable when produced with the same pattern.
	DefaultPatternSeed int64 = 0x0b5eed

	// PatternRadius bounds every sampling offset to [-PatternRadius, PatternRadius]
	// (a 31x31 patch).
	PatternRadius = 15

	// AngleStepDegrees is the orientation quantization step.
	AngleStepDegrees = 12

	angleSteps = 360 / AngleStepDegrees
)

// SamplingPair is one binary test: bit = I(P1) > I(P2).
type SamplingPair struct {
	P1 Point `json:"p1"`
	P2 Point `json:"p2"`
}

// SamplingPattern is an immutable, ordered list of sampling pairs together
// with its rotated copies for every quantized angle. One pattern is created
// per run and passed to every Describe call.
type SamplingPattern struct {
	pairs   []SamplingPair
	steered [angleSteps][]SamplingPair
}

// NewSamplingPattern draws length pairs from an isotropic Gaussian
// (sigma = patch/5) clipped to the 31x31 patch, using a deterministic
// source seeded with seed. Two patterns with the same length and seed are
// identical.
func NewSamplingPattern(length int, seed int64) (*SamplingPattern, error) {
	if length <= 0 {
		return nil, fmt.Errorf("sampling pattern: length %d: %w", length, ErrInvalidParameter)
	}
	rng := rand.New(rand.NewSource(seed))
	sigma := float64(2*PatternRadius+1) / 5

	sample := func() Point {
		return Point{X: gaussianOffset(rng, sigma), Y: gaussianOffset(rng, sigma)}
	}

	pairs := make([]SamplingPair, length)
	for i := range pairs {
		p1, p2 := sample(), sample()
		for p1 == p2 {
			p2 = sample()
		}
		pairs[i] = SamplingPair{P1: p1, P2: p2}
	}
	return NewSamplingPatternFromPairs(pairs)
}

// NewSamplingPatternFromPairs builds a pattern from explicit pairs. The
// pairs are copied.
func NewSamplingPatternFromPairs(pairs []SamplingPair) (*SamplingPattern, error) {
	if len(pairs) == 0 {
		return nil, fmt.Errorf("sampling pattern: no pairs: %w", ErrInvalidParameter)
	}
	p := &SamplingPattern{pairs: append([]SamplingPair(nil), pairs...)}
	for k := 0; k < angleSteps; k++ {
		p.steered[k] = rotatePairs(p.pairs, float64(k*AngleStepDegrees)*math.Pi/180)
	}
	return p, nil
}

// Len returns the descriptor length L produced by the pattern.
func (p *SamplingPattern) Len() int {
	return len(p.pairs)
}

func (p *SamplingPattern) basePairs() []SamplingPair {
	return p.pairs
}

// steer returns the pre-rotated table for the quantized angle. Callers must
// not modify it.
func (p *SamplingPattern) steer(angle float64) []SamplingPair {
	_, k := QuantizeAngle(angle)
	return p.steered[k]
}

func gaussianOffset(rng *rand.Rand, sigma float64) int {
	v := int(math.Round(rng.NormFloat64() * sigma))
	return min(max(v, -PatternRadius), PatternRadius)
}

func rotatePairs(pairs []SamplingPair, theta float64) []SamplingPair {
	sin, cos := math.Sincos(theta)
	rotate := func(p Point) Point {
		x, y := float64(p.X), float64(p.Y)
		return Point{
			X: int(math.Round(x*cos - y*sin)),
			Y: int(math.Round(x*sin + y*cos)),
		}
	}
	out := make([]SamplingPair, len(pairs))
	for i, pr := range pairs {
		out[i] = SamplingPair{P1: rotate(pr.P1), P2: rotate(pr.P2)}
	}
	return out
}

// QuantizeAngle rounds angle (radians) to the nearest multiple of 12°.
//
// Exact half steps (6°, 18°, ...) round up, toward positive infinity, so
// -6° becomes 0° and 6° becomes 12°. A tolerance of 1e-9 steps absorbs the
// error of degree/radian conversion at those boundaries.
//
// Returns the quantized angle in radians and its step index in [0, 30).
func QuantizeAngle(angle float64) (float64, int) {
	steps := angle * 180 / math.Pi / AngleStepDegrees
	k := int(math.Floor(steps + 0.5 + 1e-9))
	q := float64(k*AngleStepDegrees) * math.Pi / 180
	idx := ((k % angleSteps) + angleSteps) % angleSteps
	return q, idx
}

// Descriptor is a fixed-length bit string computed at a keypoint.
type Descriptor struct {
	// Location is the keypoint the descriptor was computed at.
	Location Point

	// Bits holds bit i in word i/64 at position i%64.
	Bits []uint64

	// Length is the number of valid bits.
	Length int
}

// bit reports whether bit i is set.
func (d Descriptor) bit(i int) bool {
	return d.Bits[i/64]&(1<<(uint(i)%64)) != 0
}

// String returns the bits as hex, word order little-endian.
func (d Descriptor) String() string {
	buf := make([]byte, 0, len(d.Bits)*8)
	for _, w := range d.Bits {
		for s := 0; s < 64; s += 8 {
			buf = append(buf, byte(w>>s))
		}
	}
	return hex.EncodeToString(buf[:(d.Length+7)/8])
}

func (d *Descriptor) set(i int) {
	d.Bits[i/64] |= 1 << (uint(i) % 64)
}

// Describe computes one steered BRIEF descriptor per keypoint.
//
// Parameters:
//   - smoothed: Gaussian-smoothed grayscale image (see imaging.Smooth).
//     Sampling the raw image is not supported: descriptors become noise
//     sensitive.
//   - keypoints: Oriented keypoints; Angle is used for steering.
//   - pattern: Shared sampling pattern; all descriptors that will be
//     compared must come from the same pattern.
//
// # Algorithm
//
// For each keypoint the angle is quantized to 12° steps, every pair of the
// pattern is rotated by that angle and translated to the keypoint, and each
// coordinate is clamped into the image. Bit i is 1 iff the intensity at the
// first point exceeds the intensity at the second.
func Describe(smoothed *image.Gray, keypoints []Keypoint, pattern *SamplingPattern) ([]Descriptor, error) {
	return DescribeConcurrent(smoothed, keypoints, pattern, 1)
}

// DescribeConcurrent is Describe with keypoints split across up to workers
// goroutines. Output order matches keypoint order.
func DescribeConcurrent(smoothed *image.Gray, keypoints []Keypoint, pattern *SamplingPattern, workers int) ([]Descriptor, error) {
	if pattern == nil {
		return nil, fmt.Errorf("describe: nil sampling pattern: %w", ErrInvalidParameter)
	}
	width, height := dims(smoothed)
	if len(keypoints) > 0 && (width == 0 || height == 0) {
		return nil, fmt.Errorf("describe: empty image: %w", ErrSize)
	}

	descriptors := make([]Descriptor, len(keypoints))
	var g errgroup.Group
	g.SetLimit(max(workers, 1))
	for i := range keypoints {
		g.Go(func() error {
			descriptors[i] = describeOne(smoothed, keypoints[i], pattern, width, height)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return descriptors, nil
}

func describeOne(img *image.Gray, kp Keypoint, pattern *SamplingPattern, width, height int) Descriptor {
	pairs := pattern.steer(kp.Angle)

	d := Descriptor{
		Location: kp.Location,
		Bits:     make([]uint64, (len(pairs)+63)/64),
		Length:   len(pairs),
	}
	for i, pr := range pairs {
		x1 := clamp(kp.Location.X+pr.P1.X, 0, width-1)
		y1 := clamp(kp.Location.Y+pr.P1.Y, 0, height-1)
		x2 := clamp(kp.Location.X+pr.P2.X, 0, width-1)
		y2 := clamp(kp.Location.Y+pr.P2.Y, 0, height-1)
		if grayAt(img, x1, y1) > grayAt(img, x2, y2) {
			d.set(i)
		}
	}
	return d
}

// clamp constrains val to [lo, hi].
func clamp(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}
