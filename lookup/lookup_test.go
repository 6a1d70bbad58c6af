package lookup

import "testing"

// naiveStepper simulates backward search over a tiny fixed BWT, for test
// purposes only: a C table built from the BWT's symbol counts, and
// occurrence counts found by scanning the BWT prefix.
type naiveStepper struct {
	c     []int // C[sym] = cumulative count of symbols < sym
	block []byte
}

func (s *naiveStepper) occBefore(c byte, i int) int {
	n := 0
	for j := 0; j < i; j++ {
		if s.block[j] == c {
			n++
		}
	}
	return n
}

func (s *naiveStepper) Step(c byte, lo, hi int) (int, int) {
	return s.c[c] + s.occBefore(c, lo), s.c[c] + s.occBefore(c, hi)
}

func buildStepper(text []byte, sigma int) *naiveStepper {
	c := make([]int, sigma+1)
	counts := make([]int, sigma+1)
	for _, b := range text {
		counts[b]++
	}
	sum := 0
	for s := 0; s <= sigma; s++ {
		c[s] = sum
		sum += counts[s]
	}
	return &naiveStepper{c: c, block: text}
}

func TestBuildDepthZeroIsFullRange(t *testing.T) {
	bwt := []byte{0, 2, 1, 3, 1, 2, 0}
	stepper := buildStepper(bwt, 3)
	table := Build(2, 3, len(bwt), stepper)

	full := table.Lookup(nil)
	if full.Lo != 0 || full.Hi != len(bwt) {
		t.Fatalf("expected full range, got %+v", full)
	}
}

func TestLookupMatchesManualSteps(t *testing.T) {
	bwt := []byte{0, 2, 1, 3, 1, 2, 0, 3, 1}
	sigma := 3
	stepper := buildStepper(bwt, sigma)
	table := Build(3, sigma, len(bwt), stepper)

	// manually perform backward search for pattern symbols [2, 1, 3]
	// (dense), matched right to left: 3 first, then 1, then 2.
	lo, hi := 0, len(bwt)
	lo, hi = stepper.Step(3, lo, hi)
	lo, hi = stepper.Step(1, lo, hi)
	lo, hi = stepper.Step(2, lo, hi)

	got := table.Lookup([]byte{3, 1, 2})
	if got.Lo != lo || got.Hi != hi {
		t.Fatalf("expected (%d,%d), got %+v", lo, hi, got)
	}
}

func TestLookupSuffixTruncatesToMaxDepth(t *testing.T) {
	bwt := []byte{0, 2, 1, 3, 1, 2, 0, 3, 1}
	sigma := 3
	stepper := buildStepper(bwt, sigma)
	table := Build(2, sigma, len(bwt), stepper)

	pattern := []byte{1, 2, 3, 1} // dense-encoded, left-to-right
	interval, consumed := table.LookupSuffix(pattern)
	if consumed != 2 {
		t.Fatalf("expected consumed=2 (capped at maxDepth), got %d", consumed)
	}

	lo, hi := 0, len(bwt)
	lo, hi = stepper.Step(1, lo, hi) // rightmost symbol
	lo, hi = stepper.Step(3, lo, hi) // next symbol to the left
	if interval.Lo != lo || interval.Hi != hi {
		t.Fatalf("expected (%d,%d), got %+v", lo, hi, interval)
	}
}

func TestEmptyIntervalStaysEmptyAtDeeperLevels(t *testing.T) {
	bwt := []byte{0, 2, 1, 3, 1, 2, 0, 3, 1}
	sigma := 3
	stepper := buildStepper(bwt, sigma)
	table := Build(3, sigma, len(bwt), stepper)

	// A two-symbol combination that does not occur should produce an
	// empty interval, and every depth-3 extension of it must also be
	// empty.
	var missingKey []byte
	for s1 := byte(1); s1 <= byte(sigma); s1++ {
		for s2 := byte(1); s2 <= byte(sigma); s2++ {
			iv := table.Lookup([]byte{s1, s2})
			if iv.Lo == iv.Hi {
				missingKey = []byte{s1, s2}
			}
		}
	}
	if missingKey == nil {
		t.Skip("no empty 2-mer found for this fixture")
	}

	for s3 := byte(1); s3 <= byte(sigma); s3++ {
		key := append(append([]byte{}, missingKey...), s3)
		iv := table.Lookup(key)
		if iv.Lo != iv.Hi {
			t.Fatalf("expected empty interval extension, got %+v for key %v", iv, key)
		}
	}
}

func TestBatchLookupMatchesIndividualLookups(t *testing.T) {
	bwt := []byte{0, 2, 1, 3, 1, 2, 0, 3, 1, 2, 1}
	sigma := 3
	stepper := buildStepper(bwt, sigma)
	table := Build(3, sigma, len(bwt), stepper)

	patterns := [][]byte{
		{1, 2, 3},
		{2},
		{},
		{3, 1, 2, 1}, // longer than maxDepth
	}

	out, depths := table.BatchLookup(patterns, nil)
	for i, p := range patterns {
		want, wantDepth := table.LookupSuffix(p)
		if depths[i] != wantDepth {
			t.Fatalf("slot %d: depth mismatch: expected %d, got %d", i, wantDepth, depths[i])
		}
		if out[i] != want {
			t.Fatalf("slot %d: expected %+v, got %+v", i, want, out[i])
		}
	}
}
