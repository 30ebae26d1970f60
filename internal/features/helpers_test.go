package features

import (
	"image"
	"image/color"
	"math/rand"
)

// newGray creates a uniform grayscale image.
func newGray(width, height int, v uint8) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, width, height))
	for i := range img.Pix {
		img.Pix[i] = v
	}
	return img
}

// fillBlock paints a (2r+1)x(2r+1) square centered at (cx, cy).
func fillBlock(img *image.Gray, cx, cy, r int, v uint8) {
	for y := cy - r; y <= cy+r; y++ {
		for x := cx - r; x <= cx+r; x++ {
			img.SetGray(x, y, color.Gray{Y: v})
		}
	}
}

// randomGray creates a reproducible noise image.
func randomGray(width, height int, seed int64) *image.Gray {
	rng := rand.New(rand.NewSource(seed))
	img := image.NewGray(image.Rect(0, 0, width, height))
	for i := range img.Pix {
		img.Pix[i] = uint8(rng.Intn(256))
	}
	return img
}

// blocksImage creates a dark 64x64 image with four isolated bright 3x3 blocks.
func blocksImage() *image.Gray {
	img := newGray(64, 64, 20)
	fillBlock(img, 12, 12, 1, 220)
	fillBlock(img, 40, 15, 1, 220)
	fillBlock(img, 20, 45, 1, 220)
	fillBlock(img, 50, 50, 1, 220)
	return img
}
