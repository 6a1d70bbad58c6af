// Package rankselect implements the constant-time rank primitive over the
// Burrows-Wheeler-transformed text: rank(c, i) counts occurrences of dense
// symbol c in positions [0, i). Two encodings are offered, condensed
// (log2(sigma) interleaved bit-planes, smaller) and flat (sigma bit-planes,
// one popcount per query, faster), each parametrized by a block width of
// 64 or 512 bits.
package rankselect

import (
	"math/bits"

	"github.com/genedex-go/fmindex/bitpack"
)

// superblockSize is the number of text positions covered by one superblock.
// It is fixed at 2^16 so that a block-local offset always fits in a uint16.
const superblockSize = 1 << 16

// Variant selects between the condensed (bit-plane AND-fan-in) and flat
// (one plane per symbol) encodings.
type Variant int

const (
	Condensed Variant = iota
	Flat
)

// BlockWidth is the rank structure's block granularity, in bits.
type BlockWidth int

const (
	Block64  BlockWidth = 64
	Block512 BlockWidth = 512
)

// Table is the rank-supported text (component C4). Exactly one of the
// condensed or flat storage below is populated, selected by variant.
type Table struct {
	textLen      int
	alphabetSize int // sigma+1; valid ranks are for c in [0, alphabetSize)
	variant      Variant
	blockBits    int
	wordsPerBlk  int

	// condensed encoding
	alphaBits         int
	blocks            []uint64 // interleaved planes, alphaBits*wordsPerBlk words per block window
	blockOffsets      []uint16 // alphabetSize entries per block window
	superblockOffsets []uint64 // alphabetSize entries per superblock window

	// flat encoding
	flatBlocks        []uint64 // wordsPerBlk words per (symbol, block window)
	flatBlockOffsets  []uint16
	flatSuperblockOff []uint64
}

// TextLen returns n, the length of the indexed BWT.
func (t *Table) TextLen() int { return t.textLen }

// AlphabetSize returns sigma+1 (the number of valid rank symbols).
func (t *Table) AlphabetSize() int { return t.alphabetSize }

// Variant reports whether this table uses the condensed or flat encoding.
func (t *Table) Variant() Variant { return t.variant }

func numBlockWindows(n, blockBits int) int {
	return (n + blockBits - 1) / blockBits
}

func popcount64(w uint64) int {
	return bits.OnesCount64(w)
}

func ilog2Ceil(n int) int {
	if n <= 1 {
		return 0
	}
	b := bits.Len(uint(n - 1))
	return b
}

// Rank returns the number of positions j < i in the indexed text with
// symbol c. It validates its arguments; internal callers needing the
// unchecked fast path should call rankUnchecked directly.
func (t *Table) Rank(c int, i int) int {
	if c < 0 || c >= t.alphabetSize {
		panic("rankselect: symbol out of range")
	}
	if i < 0 || i > t.textLen {
		panic("rankselect: index out of range")
	}
	return t.rankUnchecked(byte(c), i)
}

func (t *Table) rankUnchecked(symbol byte, idx int) int {
	if t.variant == Flat {
		return t.rankFlatUnchecked(symbol, idx)
	}
	return t.rankCondensedUnchecked(symbol, idx)
}

// SymbolAt returns the BWT symbol at position idx.
func (t *Table) SymbolAt(idx int) byte {
	if idx < 0 || idx >= t.textLen {
		panic("rankselect: index out of range")
	}
	if t.variant == Flat {
		return t.symbolAtFlat(idx)
	}
	return t.symbolAtCondensed(idx)
}
