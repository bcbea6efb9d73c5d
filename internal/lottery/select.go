package lottery

import (
	"slices"

	"github.com/u83213089-oss/cat-lottery/internal/rng"
)

// Select draws up to k distinct candidates uniformly at random. The whole
// candidate list is shuffled (on a copy) and the first min(k, len) are taken,
// so every ordered k-subset is equally likely. The result is never padded.
func Select(src rng.Source, candidates []string, k int) []string {
	if k <= 0 || len(candidates) == 0 {
		return nil
	}
	shuffled := slices.Clone(candidates)
	rng.Shuffle(src, shuffled)
	return shuffled[:min(k, len(shuffled))]
}
