package features

import (
	"fmt"
	"math"
	"sort"
)

// Suppress selects n well-distributed keypoints by adaptive non-maximum
// suppression.
//
// Parameters:
//   - keypoints: Oriented candidates in any order. The slice is not modified.
//   - n: Number of keypoints to keep. Must satisfy 0 <= n <= len-2.
//
// Returns:
//   - []Keypoint: Exactly n keypoints ordered by descending SuppressionRank.
//   - error: ErrUnderflow if n > len(keypoints)-2, ErrInvalidParameter if
//     n is negative.
//
// # Algorithm
//
//  1. Order a copy of the candidates by descending CornerScore (stable, so
//     equal scores keep their input order).
//  2. For each candidate i except the first and the last in that order,
//     SuppressionRank is the minimum Euclidean distance to any candidate
//     earlier in the order.
//  3. Sort the ranked candidates by descending SuppressionRank (stable) and
//     keep the first n.
//
// A keypoint that is far from every stronger keypoint is a well-isolated
// local maximum, so the selection favours spatial spread over raw score.
func Suppress(keypoints []Keypoint, n int) ([]Keypoint, error) {
	if n < 0 {
		return nil, fmt.Errorf("suppress: count %d: %w", n, ErrInvalidParameter)
	}
	if n > len(keypoints)-2 {
		return nil, fmt.Errorf("suppress: %d requested from %d candidates: %w", n, len(keypoints), ErrUnderflow)
	}

	ordered := make([]Keypoint, len(keypoints))
	copy(ordered, keypoints)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].CornerScore > ordered[j].CornerScore
	})

	ranked := make([]Keypoint, 0, len(ordered)-2)
	for i := 1; i < len(ordered)-1; i++ {
		kp := ordered[i]
		kp.SuppressionRank = math.Inf(1)
		for j := 0; j < i; j++ {
			if d := kp.Location.Distance(ordered[j].Location); d < kp.SuppressionRank {
				kp.SuppressionRank = d
			}
		}
		ranked = append(ranked, kp)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].SuppressionRank > ranked[j].SuppressionRank
	})
	return ranked[:n], nil
}
