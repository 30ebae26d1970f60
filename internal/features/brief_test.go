package features

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func mustPattern(t *testing.T, length int, seed int64) *SamplingPattern {
	t.Helper()
	p, err := NewSamplingPattern(length, seed)
	if err != nil {
		t.Fatalf("NewSamplingPattern failed: %v", err)
	}
	return p
}

func TestNewSamplingPattern(t *testing.T) {
	p := mustPattern(t, 256, DefaultPatternSeed)
	if p.Len() != 256 {
		t.Fatalf("Len: got %d, want 256", p.Len())
	}
	for i, pr := range p.basePairs() {
		if pr.P1 == pr.P2 {
			t.Errorf("pair %d samples the same point %v", i, pr.P1)
		}
		for _, pt := range []Point{pr.P1, pr.P2} {
			if abs(pt.X) > PatternRadius || abs(pt.Y) > PatternRadius {
				t.Errorf("pair %d: %v outside the patch", i, pt)
			}
		}
	}
}

func TestNewSamplingPattern_Deterministic(t *testing.T) {
	a := mustPattern(t, 128, 99)
	b := mustPattern(t, 128, 99)
	if diff := cmp.Diff(a.basePairs(), b.basePairs()); diff != "" {
		t.Errorf("same seed produced different patterns:\n%s", diff)
	}

	c := mustPattern(t, 128, 100)
	if cmp.Equal(a.basePairs(), c.basePairs()) {
		t.Error("different seeds produced identical patterns")
	}
}

func TestNewSamplingPattern_Invalid(t *testing.T) {
	if _, err := NewSamplingPattern(0, 1); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("length 0: expected ErrInvalidParameter, got %v", err)
	}
	if _, err := NewSamplingPatternFromPairs(nil); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("no pairs: expected ErrInvalidParameter, got %v", err)
	}
}

func TestSamplingPattern_Steer(t *testing.T) {
	p := mustPattern(t, 64, 3)

	if diff := cmp.Diff(p.basePairs(), p.steer(0)); diff != "" {
		t.Errorf("0° steering should be the identity:\n%s", diff)
	}

	half := p.steer(math.Pi)
	for i, pr := range p.basePairs() {
		want := SamplingPair{
			P1: Point{-pr.P1.X, -pr.P1.Y},
			P2: Point{-pr.P2.X, -pr.P2.Y},
		}
		if half[i] != want {
			t.Errorf("pair %d rotated 180°: got %v, want %v", i, half[i], want)
		}
	}
}

func TestQuantizeAngle(t *testing.T) {
	deg := func(d float64) float64 { return d * math.Pi / 180 }

	tests := []struct {
		name    string
		angle   float64
		wantDeg float64
		wantIdx int
	}{
		{"zero", 0, 0, 0},
		{"below half step", deg(5.999), 0, 0},
		{"half step rounds up", deg(6), 12, 1},
		{"negative half step rounds up", deg(-6), 0, 0},
		{"just below negative half step", deg(-6.001), -12, 29},
		{"18 degrees", deg(18), 24, 2},
		{"pi", math.Pi, 180, 15},
		{"minus pi", -math.Pi, -180, 15},
		{"354 degrees wraps", deg(354), 360, 0},
		{"exact step", deg(-48), -48, 26},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, idx := QuantizeAngle(tt.angle)
			if math.Abs(q-deg(tt.wantDeg)) > 1e-12 {
				t.Errorf("angle: got %v°, want %v°", q*180/math.Pi, tt.wantDeg)
			}
			if idx != tt.wantIdx {
				t.Errorf("index: got %d, want %d", idx, tt.wantIdx)
			}
		})
	}
}

func TestQuantizeAngle_AllHalfSteps(t *testing.T) {
	for k := -30; k < 30; k++ {
		boundary := float64(k*AngleStepDegrees+AngleStepDegrees/2) * math.Pi / 180

		_, up := QuantizeAngle(boundary)
		_, below := QuantizeAngle(boundary - 1e-6)
		wantUp := ((k+1)%angleSteps + angleSteps) % angleSteps
		wantBelow := (k%angleSteps + angleSteps) % angleSteps

		if up != wantUp {
			t.Errorf("boundary %d°: got step %d, want %d", k*12+6, up, wantUp)
		}
		if below != wantBelow {
			t.Errorf("just below %d°: got step %d, want %d", k*12+6, below, wantBelow)
		}
	}
}

// unsteered computes plain BRIEF bits without any rotation.
func unsteered(t *testing.T, d Descriptor, pattern *SamplingPattern, kp Keypoint, w, h int, at func(x, y int) int) {
	t.Helper()
	for i, pr := range pattern.basePairs() {
		v1 := at(clamp(kp.Location.X+pr.P1.X, 0, w-1), clamp(kp.Location.Y+pr.P1.Y, 0, h-1))
		v2 := at(clamp(kp.Location.X+pr.P2.X, 0, w-1), clamp(kp.Location.Y+pr.P2.Y, 0, h-1))
		if d.bit(i) != (v1 > v2) {
			t.Errorf("bit %d: got %v, want %v", i, d.bit(i), v1 > v2)
		}
	}
}

func TestDescribe_ZeroAngleIsUnsteered(t *testing.T) {
	img := randomGray(64, 64, 21)
	pattern := mustPattern(t, 256, DefaultPatternSeed)
	at := func(x, y int) int { return int(img.GrayAt(x, y).Y) }

	kps := []Keypoint{
		{Location: Point{32, 32}, Angle: 0},
		{Location: Point{20, 40}, Angle: 0.05},
		{Location: Point{40, 20}, Angle: -0.1},
	}
	ds, err := Describe(img, kps, pattern)
	if err != nil {
		t.Fatalf("Describe failed: %v", err)
	}
	for i, d := range ds {
		unsteered(t, d, pattern, kps[i], 64, 64, at)
	}
}

func TestDescribe_LengthAtImageEdges(t *testing.T) {
	img := randomGray(40, 30, 8)
	pattern := mustPattern(t, 200, 4)

	kps := []Keypoint{
		{Location: Point{0, 0}, Angle: 1},
		{Location: Point{39, 29}, Angle: -2},
		{Location: Point{39, 0}, Angle: 3},
		{Location: Point{0, 29}},
		{Location: Point{20, 15}, Angle: 0.7},
	}
	ds, err := Describe(img, kps, pattern)
	if err != nil {
		t.Fatalf("Describe failed: %v", err)
	}
	if len(ds) != len(kps) {
		t.Fatalf("got %d descriptors, want %d", len(ds), len(kps))
	}
	for i, d := range ds {
		if d.Length != 200 || len(d.Bits) != 4 {
			t.Errorf("descriptor %d: length %d words %d, want 200/4", i, d.Length, len(d.Bits))
		}
		if d.Location != kps[i].Location {
			t.Errorf("descriptor %d: location %v, want %v", i, d.Location, kps[i].Location)
		}
		if got := len(d.String()); got != 50 {
			t.Errorf("descriptor %d: hex length %d, want 50", i, got)
		}
	}
}

func TestDescribe_SameQuantizedAngleSameBits(t *testing.T) {
	img := randomGray(64, 64, 2)
	pattern := mustPattern(t, 256, 5)

	ds, err := Describe(img, []Keypoint{
		{Location: Point{30, 30}, Angle: 0.21},
		{Location: Point{30, 30}, Angle: 0.15},
	}, pattern)
	if err != nil {
		t.Fatalf("Describe failed: %v", err)
	}
	if d, _ := Hamming(ds[0], ds[1]); d != 0 {
		t.Errorf("angles in one 12° bin should give identical descriptors, distance %d", d)
	}
}

func TestDescribeConcurrent_MatchesSequential(t *testing.T) {
	img := randomGray(50, 50, 12)
	pattern := mustPattern(t, 256, 6)

	var kps []Keypoint
	for i := 0; i < 40; i++ {
		kps = append(kps, Keypoint{Location: Point{i, 49 - i}, Angle: float64(i) * 0.3})
	}

	want, err := Describe(img, kps, pattern)
	if err != nil {
		t.Fatalf("Describe failed: %v", err)
	}
	got, err := DescribeConcurrent(img, kps, pattern, 4)
	if err != nil {
		t.Fatalf("DescribeConcurrent failed: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestDescribe_Errors(t *testing.T) {
	if _, err := Describe(newGray(10, 10, 0), nil, nil); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("nil pattern: expected ErrInvalidParameter, got %v", err)
	}
	pattern := mustPattern(t, 16, 1)
	if _, err := Describe(newGray(0, 0, 0), []Keypoint{{}}, pattern); !errors.Is(err, ErrSize) {
		t.Errorf("empty image: expected ErrSize, got %v", err)
	}
}
