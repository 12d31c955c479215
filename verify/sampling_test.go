package verify

import (
	"math"
	"testing"
)

func TestSampleIndices_Boundaries(t *testing.T) {
	cases := []struct {
		count uint64
		extra int
	}{
		{1, 3}, {2, 3}, {3, 3}, {10, 3}, {1000, 5}, {2, 0}, {10, 0},
	}
	for _, tc := range cases {
		got := sampleIndices(tc.count, tc.extra, 42)
		if len(got) == 0 {
			t.Fatalf("count=%d: empty sample", tc.count)
		}
		if got[0] != 0 {
			t.Fatalf("count=%d: first boundary missing: %v", tc.count, got)
		}
		if got[len(got)-1] != tc.count-1 {
			t.Fatalf("count=%d: last boundary missing: %v", tc.count, got)
		}
		seen := map[uint64]bool{}
		for _, idx := range got {
			if idx >= tc.count {
				t.Fatalf("count=%d: index %d out of range", tc.count, idx)
			}
			if seen[idx] {
				t.Fatalf("count=%d: duplicate index %d", tc.count, idx)
			}
			seen[idx] = true
		}
	}
}

func TestSampleIndices_EmptyChain(t *testing.T) {
	if got := sampleIndices(0, 3, 42); got != nil {
		t.Fatalf("empty chain sampled %v", got)
	}
}

func TestSampleIndices_DeterministicPerSeed(t *testing.T) {
	a := sampleIndices(1000, 5, 7)
	b := sampleIndices(1000, 5, 7)
	if len(a) != len(b) {
		t.Fatalf("same seed, different sample sizes")
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("same seed diverged at %d: %v vs %v", i, a, b)
		}
	}
}

func TestSampleIndices_CountPastMaxInt64(t *testing.T) {
	const count = uint64(math.MaxInt64) + 2
	got := sampleIndices(count, 3, 42)
	if got[0] != 0 || got[len(got)-1] != count-1 {
		t.Fatalf("boundaries missing: %v", got)
	}
	for _, idx := range got {
		if idx >= count {
			t.Fatalf("index %d out of range", idx)
		}
	}
}

func TestSampleIndices_ExtraSampled(t *testing.T) {
	got := sampleIndices(1000, 5, 99)
	if len(got) < 3 {
		t.Fatalf("interior sampling produced only %v", got)
	}
}
