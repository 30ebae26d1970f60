package features

import (
	"errors"
	"testing"
)

func newTestExtractor(t *testing.T, opts Options) *Extractor {
	t.Helper()
	e, err := NewExtractor(opts, mustPattern(t, DefaultDescriptorLength, DefaultPatternSeed))
	if err != nil {
		t.Fatalf("NewExtractor failed: %v", err)
	}
	return e
}

func TestExtractor_Extract(t *testing.T) {
	opts := DefaultOptions()
	opts.Threshold = 30
	opts.Count = 10
	e := newTestExtractor(t, opts)

	img := blocksImage()
	res, err := e.Extract(img, img)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	if res.Candidates != 36 {
		t.Errorf("candidates: got %d, want 36", res.Candidates)
	}
	if len(res.Keypoints) != 10 {
		t.Fatalf("keypoints: got %d, want 10", len(res.Keypoints))
	}
	if len(res.Descriptors) != len(res.Keypoints) {
		t.Fatalf("descriptors: got %d, want %d", len(res.Descriptors), len(res.Keypoints))
	}
	for i, d := range res.Descriptors {
		if d.Length != DefaultDescriptorLength {
			t.Errorf("descriptor %d length %d", i, d.Length)
		}
		if d.Location != res.Keypoints[i].Location {
			t.Errorf("descriptor %d at %v, keypoint at %v", i, d.Location, res.Keypoints[i].Location)
		}
	}
	for i := 1; i < len(res.Keypoints); i++ {
		if res.Keypoints[i-1].SuppressionRank < res.Keypoints[i].SuppressionRank {
			t.Errorf("keypoints not in suppression order at %d", i)
		}
	}
}

func TestExtractor_SelfMatch(t *testing.T) {
	e := newTestExtractor(t, Options{Variant: Context9_16, Threshold: 40, PatchRadius: 5, Count: 50, Workers: 3})

	img := randomGray(80, 60, 42)
	a, err := e.Extract(img, img)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	b, err := e.Extract(img, img)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	pairs, err := Match(a.Descriptors, b.Descriptors)
	if err != nil {
		t.Fatalf("Match failed: %v", err)
	}
	if len(pairs) != len(a.Descriptors) {
		t.Fatalf("got %d pairs, want %d", len(pairs), len(a.Descriptors))
	}
	for i, p := range pairs {
		if p.A != i || p.B != i || p.Distance != 0 {
			t.Errorf("pair %d: got %+v, want identity", i, p)
		}
	}
}

func TestExtractor_FewCandidates(t *testing.T) {
	opts := DefaultOptions()
	opts.Threshold = 30
	e := newTestExtractor(t, opts)

	img := newGray(20, 20, 10)
	fillBlock(img, 10, 10, 0, 250)

	res, err := e.Extract(img, img)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if res.Candidates != 1 || len(res.Keypoints) != 0 || len(res.Descriptors) != 0 {
		t.Errorf("got %d candidates, %d keypoints, %d descriptors; want 1/0/0",
			res.Candidates, len(res.Keypoints), len(res.Descriptors))
	}
}

func TestExtractor_Errors(t *testing.T) {
	e := newTestExtractor(t, DefaultOptions())

	if _, err := e.Extract(newGray(20, 20, 0), newGray(21, 20, 0)); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("size mismatch: expected ErrInvalidParameter, got %v", err)
	}
	if _, err := e.Extract(newGray(4, 4, 0), newGray(4, 4, 0)); !errors.Is(err, ErrSize) {
		t.Errorf("tiny image: expected ErrSize, got %v", err)
	}
}

func TestNewExtractor_Invalid(t *testing.T) {
	pattern := mustPattern(t, 32, 1)

	tests := []struct {
		name    string
		opts    Options
		pattern *SamplingPattern
	}{
		{"zero threshold", Options{Variant: Context9_16, PatchRadius: 5, Count: 1}, pattern},
		{"zero radius", Options{Variant: Context9_16, Threshold: 10, Count: 1}, pattern},
		{"negative count", Options{Variant: Context9_16, Threshold: 10, PatchRadius: 5, Count: -1}, pattern},
		{"unknown variant", Options{Variant: 9, Threshold: 10, PatchRadius: 5}, pattern},
		{"nil pattern", DefaultOptions(), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewExtractor(tt.opts, tt.pattern); !errors.Is(err, ErrInvalidParameter) {
				t.Errorf("expected ErrInvalidParameter, got %v", err)
			}
		})
	}
}
