package features

import (
	"fmt"
	"strings"
)

// ContextVariant selects one of the fixed circular sampling patterns.
type ContextVariant int

const (
	// Context9_16 samples a 16-pixel Bresenham circle of radius 3 and needs
	// 9 supporting samples.
	Context9_16 ContextVariant = iota

	// Context7_12 samples a 12-pixel circle of radius 2 and needs 7
	// supporting samples.
	Context7_12
)

// String returns the variant name as used in configuration ("9_16", "7_12").
func (v ContextVariant) String() string {
	switch v {
	case Context9_16:
		return "9_16"
	case Context7_12:
		return "7_12"
	default:
		return fmt.Sprintf("ContextVariant(%d)", int(v))
	}
}

// ParseContextVariant converts a variant name to a ContextVariant.
//
// Accepted names are "9_16" and "7_12" (case-insensitive, an optional
// "fast" prefix such as "FAST9_16" is ignored).
func ParseContextVariant(s string) (ContextVariant, error) {
	name := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "fast")
	switch strings.TrimPrefix(name, "_") {
	case "9_16":
		return Context9_16, nil
	case "7_12":
		return Context7_12, nil
	default:
		return 0, fmt.Errorf("unknown corner context %q: %w", s, ErrInvalidParameter)
	}
}

// CornerContext is the static parameterization of a circular sampling
// pattern. Values returned by Context are shared and must not be modified.
type CornerContext struct {
	// Variant identifies the table.
	Variant ContextVariant

	// Offsets lists the circle samples clockwise from the top.
	Offsets []Point

	// FastIndices are the four quarter-circle positions tested first.
	FastIndices []int

	// SlowIndices are the remaining positions.
	SlowIndices []int

	// N is the minimum number of samples that must differ from the center.
	N int

	// Radius is the largest absolute offset coordinate.
	Radius int
}

// MaxMisses is the number of similar samples a corner may contain.
func (c *CornerContext) MaxMisses() int {
	return len(c.Offsets) - c.N
}

var context9_16 = CornerContext{
	Variant: Context9_16,
	Offsets: []Point{
		{0, -3}, {1, -3}, {2, -2}, {3, -1},
		{3, 0}, {3, 1}, {2, 2}, {1, 3},
		{0, 3}, {-1, 3}, {-2, 2}, {-3, 1},
		{-3, 0}, {-3, -1}, {-2, -2}, {-1, -3},
	},
	FastIndices: []int{0, 4, 8, 12},
	SlowIndices: []int{1, 2, 3, 5, 6, 7, 9, 10, 11, 13, 14, 15},
	N:           9,
	Radius:      3,
}

var context7_12 = CornerContext{
	Variant: Context7_12,
	Offsets: []Point{
		{0, -2}, {1, -2}, {2, -1},
		{2, 0}, {2, 1}, {1, 2},
		{0, 2}, {-1, 2}, {-2, 1},
		{-2, 0}, {-2, -1}, {-1, -2},
	},
	FastIndices: []int{0, 3, 6, 9},
	SlowIndices: []int{1, 2, 4, 5, 7, 8, 10, 11},
	N:           7,
	Radius:      2,
}

// Context returns the constant table for a variant.
func Context(v ContextVariant) (*CornerContext, error) {
	switch v {
	case Context9_16:
		return &context9_16, nil
	case Context7_12:
		return &context7_12, nil
	default:
		return nil, fmt.Errorf("unknown corner context %d: %w", int(v), ErrInvalidParameter)
	}
}
