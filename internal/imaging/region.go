package imaging

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// Region is a rectangular area of interest with inclusive (X1,Y1) and
// exclusive (X2,Y2).
type Region struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// Rect converts the region to an image.Rectangle.
func (r Region) Rect() image.Rectangle {
	return image.Rect(r.X1, r.Y1, r.X2, r.Y2)
}

// CropGray extracts region from img as a new raster starting at (0,0).
//
// Keypoints found in the crop are offset by (region.X1, region.Y1) relative
// to the full image.
func CropGray(img *image.Gray, region Region) (*image.Gray, error) {
	bounds := img.Bounds()
	if region.X1 < 0 || region.Y1 < 0 || region.X2 > bounds.Dx() || region.Y2 > bounds.Dy() {
		return nil, fmt.Errorf("crop region (%d,%d)-(%d,%d) outside image bounds (0,0)-(%d,%d)",
			region.X1, region.Y1, region.X2, region.Y2, bounds.Dx(), bounds.Dy())
	}
	if region.X1 >= region.X2 || region.Y1 >= region.Y2 {
		return nil, fmt.Errorf("invalid crop region: x1 must be < x2, y1 must be < y2")
	}

	rect := region.Rect().Add(bounds.Min)
	return ToGray(imaging.Crop(img, rect)), nil
}

// Fit downscales img so that neither side exceeds maxDimension, preserving
// the aspect ratio. It returns the raster and the applied scale factor
// (new/old). Images already small enough, or maxDimension <= 0, are
// returned unchanged with scale 1.
func Fit(img *image.Gray, maxDimension int) (*image.Gray, float64) {
	bounds := img.Bounds()
	if maxDimension <= 0 || (bounds.Dx() <= maxDimension && bounds.Dy() <= maxDimension) {
		return img, 1
	}
	fitted := imaging.Fit(img, maxDimension, maxDimension, imaging.Lanczos)
	return ToGray(fitted), float64(fitted.Bounds().Dx()) / float64(bounds.Dx())
}
