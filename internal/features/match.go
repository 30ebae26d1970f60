package features

import (
	"fmt"

	"github.com/steakknife/hamming"
	"golang.org/x/sync/errgroup"
)

// Hamming returns the number of differing bits between a and b.
func Hamming(a, b Descriptor) (int, error) {
	if a.Length != b.Length || len(a.Bits) != len(b.Bits) {
		return 0, fmt.Errorf("hamming: %d vs %d bits: %w", a.Length, b.Length, ErrLengthMismatch)
	}
	return hammingWords(a.Bits, b.Bits), nil
}

func hammingWords(a, b []uint64) int {
	d := 0
	for k := range a {
		d += hamming.CountBitsUint64(a[k] ^ b[k])
	}
	return d
}

// Match pairs descriptors of a with descriptors of b by greedy, exclusive
// nearest-neighbour search.
//
// Returns:
//   - []MatchPair: Exactly min(len(a), len(b)) pairs, one per index of a in
//     order. No index of b appears twice.
//   - error: ErrLengthMismatch if the descriptors do not all share one bit
//     length.
//
// # Algorithm
//
// All pairwise distances are computed first. Then, for i from 0 upward, the
// not-yet-taken j of b with the smallest distance is chosen (the lowest j
// wins ties) and marked as taken. The assignment is order sensitive and not
// globally optimal: earlier descriptors of a get first pick.
func Match(a, b []Descriptor) ([]MatchPair, error) {
	return MatchConcurrent(a, b, 1)
}

// MatchEqual is Match for callers that require both sets to have the same
// size; it fails with ErrLengthMismatch otherwise.
func MatchEqual(a, b []Descriptor) ([]MatchPair, error) {
	if len(a) != len(b) {
		return nil, fmt.Errorf("match: %d vs %d descriptors: %w", len(a), len(b), ErrLengthMismatch)
	}
	return Match(a, b)
}

// MatchConcurrent is Match with the distance table filled by up to workers
// goroutines. The greedy assignment itself stays sequential.
func MatchConcurrent(a, b []Descriptor, workers int) ([]MatchPair, error) {
	if err := checkLengths(a, b); err != nil {
		return nil, err
	}
	count := min(len(a), len(b))
	table, err := distanceTable(a[:count], b, workers)
	if err != nil {
		return nil, err
	}

	taken := make([]bool, len(b))
	pairs := make([]MatchPair, 0, count)
	for i := 0; i < count; i++ {
		best, bestDist := -1, 0
		for j, d := range table[i] {
			if taken[j] {
				continue
			}
			if best < 0 || d < bestDist {
				best, bestDist = j, d
			}
		}
		taken[best] = true
		pairs = append(pairs, MatchPair{A: i, B: best, Distance: bestDist})
	}
	return pairs, nil
}

// CrossCheck keeps the pairs whose B descriptor has A as its unconstrained
// nearest neighbour in a (lowest index wins ties). It removes matches that
// the greedy pass forced onto poor partners.
func CrossCheck(a, b []Descriptor, pairs []MatchPair) ([]MatchPair, error) {
	if err := checkLengths(a, b); err != nil {
		return nil, err
	}
	kept := make([]MatchPair, 0, len(pairs))
	for _, p := range pairs {
		if p.A < 0 || p.A >= len(a) || p.B < 0 || p.B >= len(b) {
			return nil, fmt.Errorf("cross check: pair (%d,%d) out of range: %w", p.A, p.B, ErrInvalidParameter)
		}
		best, bestDist := -1, 0
		for i := range a {
			d := hammingWords(a[i].Bits, b[p.B].Bits)
			if best < 0 || d < bestDist {
				best, bestDist = i, d
			}
		}
		if best == p.A {
			kept = append(kept, p)
		}
	}
	return kept, nil
}

func checkLengths(a, b []Descriptor) error {
	length := -1
	for _, set := range [][]Descriptor{a, b} {
		for _, d := range set {
			if length < 0 {
				length = d.Length
			}
			if d.Length != length || len(d.Bits) != (length+63)/64 {
				return fmt.Errorf("match: %d vs %d bits: %w", length, d.Length, ErrLengthMismatch)
			}
		}
	}
	return nil
}

func distanceTable(a, b []Descriptor, workers int) ([][]int, error) {
	table := make([][]int, len(a))
	var g errgroup.Group
	g.SetLimit(max(workers, 1))
	for i := range a {
		g.Go(func() error {
			row := make([]int, len(b))
			for j := range b {
				row[j] = hammingWords(a[i].Bits, b[j].Bits)
			}
			table[i] = row
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return table, nil
}
