package features

import (
	"image"
	"math"
)

// Point represents an integer pixel coordinate.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// PointF represents a sub-pixel coordinate such as a moment centroid.
type PointF struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Round returns the nearest integer pixel coordinate.
func (p PointF) Round() Point {
	return Point{X: int(math.Round(p.X)), Y: int(math.Round(p.Y))}
}

// Distance returns the Euclidean distance between two points.
func (p Point) Distance(q Point) float64 {
	return math.Hypot(float64(p.X-q.X), float64(p.Y-q.Y))
}

// Keypoint is a detected corner annotated by the later pipeline stages.
//
// Fields are filled in stage order and never reused for another meaning:
//   - Detect sets Location and CornerScore
//   - Orient sets Centroid, MomentPoint and Angle
//   - Suppress sets SuppressionRank on the keypoints it retains
type Keypoint struct {
	// Location is the corner pixel.
	Location Point `json:"location"`

	// CornerScore is the sum of absolute intensity differences between the
	// center and the circle samples that differ from it. Higher is stronger.
	CornerScore int `json:"corner_score"`

	// Centroid is the intensity centroid of the orientation patch.
	Centroid PointF `json:"centroid"`

	// MomentPoint is Centroid rounded to the nearest pixel.
	MomentPoint Point `json:"moment_point"`

	// Angle is the orientation in radians, in (-π, π].
	Angle float64 `json:"angle"`

	// SuppressionRank is the distance to the nearest stronger keypoint.
	SuppressionRank float64 `json:"suppression_rank"`
}

// MatchPair pairs a descriptor index in set A with one in set B.
type MatchPair struct {
	A int `json:"a"`
	B int `json:"b"`

	// Distance is the Hamming distance between the two descriptors.
	Distance int `json:"distance"`
}

// grayAt returns the intensity at (x, y) relative to the image origin.
func grayAt(img *image.Gray, x, y int) int {
	return int(img.Pix[y*img.Stride+x])
}

// dims returns the width and height of img.
func dims(img *image.Gray) (int, int) {
	b := img.Bounds()
	return b.Dx(), b.Dy()
}
