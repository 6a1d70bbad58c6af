// Package lookup implements the k-mer lookup table (component C8): a
// precomputed map from every length-k searchable-symbol tuple, 0 <= k <=
// K, to the cursor interval that backward search would reach after
// matching that tuple. It lets cursor construction skip the first
// min(|P|, K) LF steps by a single array read.
package lookup

// Interval is a half-open BWT row range [Lo, Hi).
type Interval struct {
	Lo, Hi int
}

// Stepper performs one backward-search LF step: given the interval
// matching some suffix w of the pattern, Step returns the interval
// matching (c + w), i.e. c prepended to w. c is a dense searchable symbol
// in 1..=sigma.
type Stepper interface {
	Step(c byte, lo, hi int) (int, int)
}

// Table holds LT[0..maxDepth]. LT[k] has sigma^k entries; entry idx
// encodes a length-k symbol tuple in little-endian base-sigma digits,
// where digit 0 (the least significant, factor sigma^0) is the symbol
// closest to the end of the matched suffix (the rightmost pattern
// symbol), matching spec's "little-endian over the symbols of the
// suffix" layout.
type Table struct {
	maxDepth int
	sigma    int
	levels   [][]Interval
}

// Build constructs LT[0..maxDepth] for an alphabet with sigma searchable
// dense symbols (1..=sigma), over a BWT of n rows, using stepper to
// extend each level from the previous one.
func Build(maxDepth, sigma, n int, stepper Stepper) *Table {
	if maxDepth < 0 {
		maxDepth = 0
	}

	levels := make([][]Interval, maxDepth+1)
	levels[0] = []Interval{{Lo: 0, Hi: n}}

	prevSize := 1
	for k := 1; k <= maxDepth; k++ {
		size := prevSize * sigma
		level := make([]Interval, size)

		for pidx := 0; pidx < prevSize; pidx++ {
			prev := levels[k-1][pidx]
			if prev.Lo >= prev.Hi {
				// Empty interval: every extension stays empty. Skip the
				// stepper call since there is nothing left to match.
				for s := 0; s < sigma; s++ {
					level[pidx+s*prevSize] = Interval{Lo: prev.Lo, Hi: prev.Lo}
				}
				continue
			}
			for s := 0; s < sigma; s++ {
				c := byte(s + 1)
				lo, hi := stepper.Step(c, prev.Lo, prev.Hi)
				level[pidx+s*prevSize] = Interval{Lo: lo, Hi: hi}
			}
		}

		levels[k] = level
		prevSize = size
	}

	return &Table{maxDepth: maxDepth, sigma: sigma, levels: levels}
}

// MaxDepth returns the table's K.
func (t *Table) MaxDepth() int {
	return t.maxDepth
}

// Index computes the row-major index for a length-k key, key[0] being the
// rightmost (least significant) matched symbol, each a dense searchable
// symbol in 1..=sigma.
func Index(key []byte, sigma int) int {
	idx := 0
	factor := 1
	for _, c := range key {
		idx += int(c-1) * factor
		factor *= sigma
	}
	return idx
}

// Lookup returns the precomputed interval for key (len(key) <= maxDepth),
// key[0] being the rightmost matched symbol.
func (t *Table) Lookup(key []byte) Interval {
	k := len(key)
	if k > t.maxDepth {
		panic("lookup: key longer than table depth")
	}
	idx := Index(key, t.sigma)
	return t.levels[k][idx]
}

// LookupSuffix finds the interval for the last min(len(pattern), K)
// symbols of pattern (already dense-encoded, most-recent-first ordering
// is handled internally: pattern is given in left-to-right text order).
// It returns the interval and how many trailing pattern symbols it
// consumed.
func (t *Table) LookupSuffix(pattern []byte) (Interval, int) {
	k := len(pattern)
	if k > t.maxDepth {
		k = t.maxDepth
	}

	key := make([]byte, k)
	for i := 0; i < k; i++ {
		// key[0] must be the rightmost pattern symbol.
		key[i] = pattern[len(pattern)-1-i]
	}

	return t.Lookup(key), k
}

// BatchLookup resolves N independent suffix keys at once, writing results
// into out (grown/truncated as needed) and returning the per-slot consumed
// depth. Kept as a single pass over independent index computations,
// followed by a single pass of independent table reads, so both phases
// expose memory parallelism the way C9's batched rank queries do.
func (t *Table) BatchLookup(patterns [][]byte, out []Interval) ([]Interval, []int) {
	n := len(patterns)
	if cap(out) < n {
		out = make([]Interval, n)
	} else {
		out = out[:n]
	}

	depths := make([]int, n)
	indices := make([]int, n)

	for i, p := range patterns {
		k := len(p)
		if k > t.maxDepth {
			k = t.maxDepth
		}
		depths[i] = k

		idx := 0
		factor := 1
		for j := 0; j < k; j++ {
			c := p[len(p)-1-j]
			idx += int(c-1) * factor
			factor *= t.sigma
		}
		indices[i] = idx
	}

	for i := range patterns {
		out[i] = t.levels[depths[i]][indices[i]]
	}

	return out, depths
}
