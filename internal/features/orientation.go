package features

import (
	"fmt"
	"image"
	"math"
)

// DefaultPatchRadius is the default half-size of the orientation patch.
const DefaultPatchRadius = 5

// Orient computes the intensity-centroid orientation of every keypoint.
//
// The keypoints slice is annotated in place (Centroid, MomentPoint, Angle)
// and returned for convenience. See OrientKeypoint for the per-keypoint
// computation.
func Orient(img *image.Gray, keypoints []Keypoint, radius int) ([]Keypoint, error) {
	if radius <= 0 {
		return nil, fmt.Errorf("orient: patch radius %d: %w", radius, ErrInvalidParameter)
	}
	for i := range keypoints {
		OrientKeypoint(img, &keypoints[i], radius)
	}
	return keypoints, nil
}

// OrientKeypoint sets the orientation fields of kp from the square patch of
// side 2*radius+1 centered at kp.Location.
//
// # Algorithm
//
//	m00 = Σ I(x, y)
//	m10 = Σ x·I(x, y)
//	m01 = Σ y·I(x, y)
//	centroid = (m10/m00, m01/m00)
//	angle = atan2(kp.Y - centroid.Y, kp.X - centroid.X)
//
// # Boundary Fallback
//
// When the patch would cross the image boundary, or its zero-order moment
// is zero (an all-black patch), the orientation is degenerate: the angle is
// 0 and the centroid is the keypoint location itself.
func OrientKeypoint(img *image.Gray, kp *Keypoint, radius int) {
	centroid, ok := intensityCentroid(img, kp.Location, radius)
	if !ok {
		kp.Centroid = PointF{X: float64(kp.Location.X), Y: float64(kp.Location.Y)}
		kp.MomentPoint = kp.Location
		kp.Angle = 0
		return
	}
	kp.Centroid = centroid
	kp.MomentPoint = centroid.Round()
	kp.Angle = math.Atan2(float64(kp.Location.Y)-centroid.Y, float64(kp.Location.X)-centroid.X)
}

// intensityCentroid returns the patch centroid in image coordinates, or
// false for a degenerate patch.
func intensityCentroid(img *image.Gray, p Point, radius int) (PointF, bool) {
	width, height := dims(img)
	if p.X-radius < 0 || p.Y-radius < 0 || p.X+radius >= width || p.Y+radius >= height {
		return PointF{}, false
	}

	var m00, m10, m01 int
	for y := p.Y - radius; y <= p.Y+radius; y++ {
		for x := p.X - radius; x <= p.X+radius; x++ {
			v := grayAt(img, x, y)
			m00 += v
			m10 += x * v
			m01 += y * v
		}
	}
	if m00 == 0 {
		return PointF{}, false
	}
	return PointF{
		X: float64(m10) / float64(m00),
		Y: float64(m01) / float64(m00),
	}, true
}
