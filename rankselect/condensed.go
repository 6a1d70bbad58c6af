package rankselect

import "github.com/genedex-go/fmindex/bitpack"

// BuildCondensed constructs the condensed rank encoding (sec. 4.4a):
// ceil(log2(alphabetSize)) interleaved bit-planes per block, plus two
// levels of offsets (u16 block-local, absolute superblock).
func BuildCondensed(text bitpack.Storage, alphabetSize int, blockWidth BlockWidth) *Table {
	if alphabetSize < 2 {
		panic("rankselect: alphabet size must be at least 2 (including sentinel)")
	}

	n := text.Len()
	blockBits := int(blockWidth)
	wordsPerBlk := blockBits / 64
	alphaBits := ilog2Ceil(alphabetSize)

	// n+1 positions must be rank-addressable (the universe includes i = n).
	addressable := n + 1
	numBlocks := numBlockWindows(addressable, blockBits)
	numSuperblocks := numBlockWindows(addressable, superblockSize)

	t := &Table{
		textLen:           n,
		alphabetSize:      alphabetSize,
		variant:           Condensed,
		blockBits:         blockBits,
		wordsPerBlk:       wordsPerBlk,
		alphaBits:         alphaBits,
		blocks:            make([]uint64, numBlocks*alphaBits*wordsPerBlk),
		blockOffsets:      make([]uint16, numBlocks*alphabetSize),
		superblockOffsets: make([]uint64, numSuperblocks*alphabetSize),
	}

	blocksPerSuperblock := superblockSize / blockBits

	superblockTotals := make([]uint64, alphabetSize)

	for sb := 0; sb < numSuperblocks; sb++ {
		blockOffAccum := make([]uint64, alphabetSize)
		blockStart := sb * blocksPerSuperblock

		for local := 0; local < blocksPerSuperblock; local++ {
			blk := blockStart + local
			blockBase := blk * blockBits

			if blockBase >= addressable {
				break
			}

			copy(t.blockOffsets[blk*alphabetSize:(blk+1)*alphabetSize], u64ToU16(blockOffAccum))

			limit := blockBits
			if blockBase+limit > addressable {
				limit = addressable - blockBase
			}

			planeBase := blk * alphaBits * wordsPerBlk

			for pos := 0; pos < limit; pos++ {
				idx := blockBase + pos
				var symbol byte
				if idx < n {
					symbol = text.Get(idx)
				} else {
					// the extra rank-addressable position past the end carries
					// no symbol; treat it as not contributing to any plane.
					continue
				}

				blockOffAccum[symbol]++

				for b := 0; b < alphaBits; b++ {
					if (symbol>>uint(b))&1 == 1 {
						setBit(t.blocks[planeBase+b*wordsPerBlk:planeBase+(b+1)*wordsPerBlk], pos)
					}
				}
			}
		}

		copy(t.superblockOffsets[sb*alphabetSize:(sb+1)*alphabetSize], superblockTotals)

		for c := 0; c < alphabetSize; c++ {
			superblockTotals[c] += blockOffAccum[c]
		}
	}

	return t
}

func u64ToU16(src []uint64) []uint16 {
	dst := make([]uint16, len(src))
	for i, v := range src {
		dst[i] = uint16(v)
	}
	return dst
}

func setBit(words []uint64, pos int) {
	words[pos/64] |= 1 << uint(pos%64)
}

func getBit(words []uint64, pos int) uint64 {
	return (words[pos/64] >> uint(pos%64)) & 1
}

func popcountBefore(words []uint64, pos int) int {
	count := 0
	full := pos / 64

	for i := 0; i < full; i++ {
		count += popcount64(words[i])
	}

	rem := pos % 64
	if rem > 0 {
		mask := (uint64(1) << uint(rem)) - 1
		count += popcount64(words[full] & mask)
	}

	return count
}

func (t *Table) rankCondensedUnchecked(symbol byte, idx int) int {
	blk := idx / t.blockBits
	sb := idx / superblockSize

	superOff := t.superblockOffsets[sb*t.alphabetSize+int(symbol)]
	blockOff := t.blockOffsets[blk*t.alphabetSize+int(symbol)]

	planeBase := blk * t.alphaBits * t.wordsPerBlk
	acc := make([]uint64, t.wordsPerBlk)

	for b := 0; b < t.alphaBits; b++ {
		plane := t.blocks[planeBase+b*t.wordsPerBlk : planeBase+(b+1)*t.wordsPerBlk]
		bit := (symbol >> uint(b)) & 1

		if b == 0 {
			copy(acc, plane)
			if bit == 0 {
				negate(acc)
			}
			continue
		}

		if bit == 1 {
			andInto(acc, plane)
		} else {
			andNotInto(acc, plane)
		}
	}

	withinBlock := idx % t.blockBits
	return int(superOff) + int(blockOff) + popcountBefore(acc, withinBlock)
}

func (t *Table) symbolAtCondensed(idx int) byte {
	blk := idx / t.blockBits
	withinBlock := idx % t.blockBits
	planeBase := blk * t.alphaBits * t.wordsPerBlk

	var symbol byte
	for b := 0; b < t.alphaBits; b++ {
		plane := t.blocks[planeBase+b*t.wordsPerBlk : planeBase+(b+1)*t.wordsPerBlk]
		symbol |= byte(getBit(plane, withinBlock)) << uint(b)
	}
	return symbol
}

func negate(words []uint64) {
	for i := range words {
		words[i] = ^words[i]
	}
}

func andInto(dst, src []uint64) {
	for i := range dst {
		dst[i] &= src[i]
	}
}

func andNotInto(dst, src []uint64) {
	for i := range dst {
		dst[i] &^= src[i]
	}
}
