package verify

import (
	"math"
	"math/rand"
	"sort"
)

// sampleIndices picks the spot-check indices for a chain of count events:
// always both boundaries (0 and count-1), plus up to extra additional
// distinct indices drawn from a seeded generator so a run is reproducible.
//
// The sample size and distribution are operational tuning, not correctness:
// any policy that always includes the boundaries preserves the status
// taxonomy.
func sampleIndices(count uint64, extra int, seed int64) []uint64 {
	if count == 0 {
		return nil
	}

	picked := map[uint64]struct{}{0: {}, count - 1: {}}
	if count > 2 && extra > 0 {
		rng := rand.New(rand.NewSource(seed))
		// Interior indices only; boundaries are already in. The interior
		// span is clamped so Int63n stays in range for counts past MaxInt64.
		interior := min64(count-2, math.MaxInt64)
		target := int(min64(count, uint64(extra)+2))
		for attempts := 0; attempts < extra*4 && len(picked) < target; attempts++ {
			idx := 1 + uint64(rng.Int63n(int64(interior)))
			picked[idx] = struct{}{}
		}
	}

	out := make([]uint64, 0, len(picked))
	for idx := range picked {
		out = append(out, idx)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func min64(a, b uint64) uint64 {
	if a < b {
		return a
	}
	return b
}
