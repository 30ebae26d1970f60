package imaging

import (
	"image"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/effect"
)

// DefaultBlurRadius is the Gaussian radius applied before descriptor
// sampling.
const DefaultBlurRadius = 2.0

// BT.601 luminance weights.
const (
	lumaR = 0.299
	lumaG = 0.587
	lumaB = 0.114
)

// ToGray converts img to an 8-bit grayscale raster whose bounds start at
// (0,0). A *image.Gray that already starts at the origin is returned as is.
func ToGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok {
		if g.Rect.Min == (image.Point{}) {
			return g
		}
		return rebase(g)
	}
	return redChannel(effect.GrayscaleWithWeights(img, lumaR, lumaG, lumaB))
}

// Smooth returns a Gaussian-blurred copy of img.
//
// Descriptor tests compare single pixels, so they must run on a smoothed
// raster. radius is the blur radius in pixels; values <= 0 return an
// unmodified copy.
func Smooth(img *image.Gray, radius float64) *image.Gray {
	if radius <= 0 {
		return rebase(img)
	}
	return redChannel(blur.Gaussian(img, radius))
}

// redChannel copies the R channel of an RGBA raster whose channels are
// equal, as bild's grayscale and blur of a gray input produce.
func redChannel(src *image.RGBA) *image.Gray {
	b := src.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		row := src.Pix[src.PixOffset(b.Min.X, b.Min.Y+y):]
		dst := out.Pix[y*out.Stride : y*out.Stride+b.Dx()]
		for x := range dst {
			dst[x] = row[4*x]
		}
	}
	return out
}

// rebase copies img into a new raster starting at (0,0).
func rebase(img *image.Gray) *image.Gray {
	b := img.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		copy(out.Pix[y*out.Stride:y*out.Stride+b.Dx()], img.Pix[img.PixOffset(b.Min.X, b.Min.Y+y):])
	}
	return out
}
