// Package sarray implements the sampled suffix array (component C5): a
// sparse SA retaining every s-th entry plus a border map for sentinel rows,
// with walk-back recovery converting a BWT row to a text offset.
package sarray

// RankSource is the subset of the rank-supported text and LF-mapping
// machinery the walk-back recovery needs. It is expressed as an interface
// so this package does not depend on the concrete rank-structure package.
type RankSource interface {
	SymbolAt(i int) byte
	// LFStep performs one backward-search step: C[c] + rank(c, i).
	LFStep(c byte, i int) int
}

// Table is the sampled suffix array.
type Table struct {
	samplingRate int
	uncompressed []int64
	compressed32 []uint32
	narrow       bool
	border       map[int]int64
}

// ComputeBorderMap scans the BWT once and returns, for every row j with
// BWT[j] = 0 (a sentinel), the text offset SA[j]. The construction driver
// normally builds this incrementally while computing the BWT itself (see
// the root package's construct.go) to avoid a second full pass; this
// helper exists so the package is independently testable and so callers
// with a precomputed SA/BWT pair can build a Table standalone.
func ComputeBorderMap(sa []int64, bwt []byte) map[int]int64 {
	border := make(map[int]int64)
	for j, c := range bwt {
		if c == 0 {
			border[j] = sa[j]
		}
	}
	return border
}

// Sample builds a Table retaining SA[j] for every j divisible by rate, plus
// the given border map. If narrow is true, retained entries are narrowed
// to uint32 (the "u32-compressed" storage variant of spec.md 4.5), valid
// only when every retained SA value fits in 32 bits.
func Sample(sa []int64, rate int, border map[int]int64, narrow bool) *Table {
	if rate < 1 {
		panic("sarray: sampling rate must be >= 1")
	}

	t := &Table{samplingRate: rate, narrow: narrow, border: border}

	count := (len(sa) + rate - 1) / rate

	if narrow {
		compressed := make([]uint32, 0, count)
		for i := 0; i < len(sa); i += rate {
			compressed = append(compressed, uint32(sa[i]))
		}
		t.compressed32 = compressed
		return t
	}

	uncompressed := make([]int64, 0, count)
	for i := 0; i < len(sa); i += rate {
		uncompressed = append(uncompressed, sa[i])
	}
	t.uncompressed = uncompressed
	return t
}

func (t *Table) sampleAt(j int) int64 {
	idx := j / t.samplingRate
	if t.narrow {
		return int64(t.compressed32[idx])
	}
	return t.uncompressed[idx]
}

// Recover converts BWT row i to its text offset via walk-back, per
// spec.md 4.5's pseudocode: step backward through LF-mapping until either
// a sampled row or a sentinel border is reached.
func Recover(t *Table, rank RankSource, i int) int64 {
	steps := int64(0)

	for i%t.samplingRate != 0 {
		c := rank.SymbolAt(i)
		if c == 0 {
			return t.border[i] + steps
		}
		i = rank.LFStep(c, i)
		steps++
	}

	return t.sampleAt(i) + steps
}
