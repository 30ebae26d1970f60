package features

import (
	"fmt"
	"image"

	"golang.org/x/sync/errgroup"
)

// DefaultThreshold is the intensity difference used when callers have no
// better value. Values between 40 and 50 work well on natural images.
const DefaultThreshold = 45

// Detect finds FAST corner candidates in img.
//
// Parameters:
//   - img: Grayscale image. It is only read.
//   - cc: Corner context selecting the sampling circle (see Context).
//   - threshold: Minimum absolute intensity difference for a circle sample
//     to count as differing from the center. Must be positive.
//
// Returns:
//   - []Keypoint: One candidate per accepted pixel, in row-major scan order,
//     with Location and CornerScore set.
//   - error: ErrSize if the image is smaller than twice the circle radius in
//     either dimension, ErrInvalidParameter for a bad threshold or context.
//
// # Algorithm
//
// For every pixel with a full circle margin (radius <= x < width-radius,
// same for y):
//
//  1. Fast rejection: the four quarter-circle samples are compared with the
//     center. Two or more "similar" samples (|circle-center| < threshold)
//     reject the pixel.
//  2. Full test: the remaining samples are compared and the candidate is
//     rejected as soon as the total similar count exceeds
//     len(offsets) - N.
//  3. Score: the sum of |circle-center| over the dissimilar samples.
//
// Boundary pixels are never reported.
func Detect(img *image.Gray, cc *CornerContext, threshold int) ([]Keypoint, error) {
	return DetectConcurrent(img, cc, threshold, 1)
}

// DetectConcurrent is Detect with the row scan split into contiguous bands
// processed by up to workers goroutines. Bands are concatenated in row
// order, so the result is identical to Detect. workers <= 1 scans
// sequentially.
func DetectConcurrent(img *image.Gray, cc *CornerContext, threshold, workers int) ([]Keypoint, error) {
	if cc == nil {
		return nil, fmt.Errorf("detect: nil corner context: %w", ErrInvalidParameter)
	}
	if threshold <= 0 {
		return nil, fmt.Errorf("detect: threshold %d: %w", threshold, ErrInvalidParameter)
	}
	width, height := dims(img)
	if width < 2*cc.Radius || height < 2*cc.Radius {
		return nil, fmt.Errorf("detect: %dx%d image with radius %d: %w", width, height, cc.Radius, ErrSize)
	}

	y0, y1 := cc.Radius, height-cc.Radius
	rows := y1 - y0
	if rows <= 0 {
		return []Keypoint{}, nil
	}
	if workers < 1 {
		workers = 1
	}
	if workers > rows {
		workers = rows
	}

	bands := make([][]Keypoint, workers)
	var g errgroup.Group
	for w := 0; w < workers; w++ {
		start := y0 + rows*w/workers
		end := y0 + rows*(w+1)/workers
		g.Go(func() error {
			bands[w] = scanRows(img, cc, threshold, start, end)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for _, b := range bands {
		total += len(b)
	}
	keypoints := make([]Keypoint, 0, total)
	for _, b := range bands {
		keypoints = append(keypoints, b...)
	}
	return keypoints, nil
}

// scanRows runs the segment test over rows [start, end).
func scanRows(img *image.Gray, cc *CornerContext, threshold, start, end int) []Keypoint {
	width, _ := dims(img)
	maxMisses := cc.MaxMisses()
	circle := make([]int, len(cc.Offsets))

	var keypoints []Keypoint
	for y := start; y < end; y++ {
		for x := cc.Radius; x < width-cc.Radius; x++ {
			if score, ok := segmentTest(img, cc, x, y, threshold, maxMisses, circle); ok {
				keypoints = append(keypoints, Keypoint{
					Location:    Point{X: x, Y: y},
					CornerScore: score,
				})
			}
		}
	}
	return keypoints
}

// segmentTest classifies the pixel at (x, y). circle is scratch space of
// len(cc.Offsets) holding the absolute differences.
func segmentTest(img *image.Gray, cc *CornerContext, x, y, threshold, maxMisses int, circle []int) (int, bool) {
	center := grayAt(img, x, y)
	for i, o := range cc.Offsets {
		circle[i] = abs(grayAt(img, x+o.X, y+o.Y) - center)
	}

	similar := 0
	for _, i := range cc.FastIndices {
		if circle[i] < threshold {
			similar++
			if similar > 1 {
				return 0, false
			}
		}
	}
	for _, i := range cc.SlowIndices {
		if circle[i] < threshold {
			similar++
			if similar > maxMisses {
				return 0, false
			}
		}
	}

	score := 0
	for _, d := range circle {
		if d >= threshold {
			score += d
		}
	}
	return score, true
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
