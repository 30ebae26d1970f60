package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"

	"github.com/fogleman/gg"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/image-features-mcp/internal/features"
)

// RenderResult contains an overlay image encoded as base64 PNG.
type RenderResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// keypointRadius is the drawn circle radius; it matches the 9_16 sampling
// circle.
const keypointRadius = 3.0

// MatchPalette returns n well-separated, deterministic colors.
//
// Hues advance by the golden angle so neighbouring indices never share a
// color; saturation and value stay high for contrast on photos.
func MatchPalette(n int) []color.Color {
	palette := make([]color.Color, n)
	for i := range palette {
		hue := math.Mod(float64(i)*137.508, 360)
		palette[i] = colorful.Hsv(hue, 0.85, 0.95).Clamped()
	}
	return palette
}

// DrawKeypoints renders the keypoint overlay and encodes it as base64 PNG.
func DrawKeypoints(img image.Image, keypoints []features.Keypoint) (*RenderResult, error) {
	return encodeOverlay(RenderKeypoints(img, keypoints))
}

// RenderKeypoints draws a circle at every keypoint and a short line along
// its orientation.
//
// The source image is drawn unchanged underneath; colors cycle through
// MatchPalette so adjacent keypoints stay distinguishable.
func RenderKeypoints(img image.Image, keypoints []features.Keypoint) image.Image {
	bounds := img.Bounds()
	dc := gg.NewContext(bounds.Dx(), bounds.Dy())
	dc.DrawImage(img, -bounds.Min.X, -bounds.Min.Y)
	dc.SetLineWidth(1)

	palette := MatchPalette(len(keypoints))
	for i, kp := range keypoints {
		x, y := float64(kp.Location.X), float64(kp.Location.Y)
		dc.SetColor(palette[i])
		dc.DrawCircle(x, y, keypointRadius)
		dc.Stroke()
		dc.DrawLine(x, y, x+2*keypointRadius*math.Cos(kp.Angle), y+2*keypointRadius*math.Sin(kp.Angle))
		dc.Stroke()
	}

	return dc.Image()
}

// DrawMatches renders the match overlay and encodes it as base64 PNG.
func DrawMatches(a, b image.Image, keypointsA, keypointsB []features.Keypoint, pairs []features.MatchPair) (*RenderResult, error) {
	img, err := RenderMatches(a, b, keypointsA, keypointsB, pairs)
	if err != nil {
		return nil, err
	}
	return encodeOverlay(img)
}

// RenderMatches places a and b side by side and joins every matched pair
// with a line.
//
// pairs index into keypointsA and keypointsB; pairs referring to missing
// keypoints are reported as an error rather than skipped.
func RenderMatches(a, b image.Image, keypointsA, keypointsB []features.Keypoint, pairs []features.MatchPair) (image.Image, error) {
	ba, bb := a.Bounds(), b.Bounds()
	width := ba.Dx() + bb.Dx()
	height := max(ba.Dy(), bb.Dy())

	dc := gg.NewContext(width, height)
	dc.SetColor(color.Black)
	dc.Clear()
	dc.DrawImage(a, -ba.Min.X, -ba.Min.Y)
	dc.DrawImage(b, ba.Dx()-bb.Min.X, -bb.Min.Y)
	dc.SetLineWidth(1)

	offset := float64(ba.Dx())
	palette := MatchPalette(len(pairs))
	for i, p := range pairs {
		if p.A < 0 || p.A >= len(keypointsA) || p.B < 0 || p.B >= len(keypointsB) {
			return nil, fmt.Errorf("match %d: pair (%d,%d) has no keypoint", i, p.A, p.B)
		}
		pa, pb := keypointsA[p.A].Location, keypointsB[p.B].Location
		ax, ay := float64(pa.X), float64(pa.Y)
		bx, by := float64(pb.X)+offset, float64(pb.Y)

		dc.SetColor(palette[i])
		dc.DrawCircle(ax, ay, keypointRadius)
		dc.Stroke()
		dc.DrawCircle(bx, by, keypointRadius)
		dc.Stroke()
		dc.DrawLine(ax, ay, bx, by)
		dc.Stroke()
	}

	return dc.Image(), nil
}

// EncodePNG encodes img as PNG bytes.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode overlay: %w", err)
	}
	return buf.Bytes(), nil
}

func encodeOverlay(img image.Image) (*RenderResult, error) {
	data, err := EncodePNG(img)
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	return &RenderResult{
		Width:       bounds.Dx(),
		Height:      bounds.Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(data),
		MimeType:    "image/png",
	}, nil
}
