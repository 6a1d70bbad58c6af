package rankselect

// Interval is a half-open BWT-row range [Lo, Hi).
type Interval struct {
	Lo, Hi int
}

// BatchRankBorders replaces, for each of the first n entries, both borders
// of intervals[i] with rank(symbols[i], border). It is written as a
// sequence of tight, dependency-lean passes over the slot arrays (load
// superblock offset indices; load their values; load block offset indices;
// load their values; load blocks; AND-reduce; popcount) so that the many
// independent cache misses across slots can overlap on an out-of-order
// core, rather than serializing one rank() call at a time.
func (t *Table) BatchRankBorders(intervals []Interval, symbols []byte, n int) {
	if t.variant == Flat {
		t.batchRankBordersFlat(intervals, symbols, n)
		return
	}
	t.batchRankBordersCondensed(intervals, symbols, n)
}

func (t *Table) batchRankBordersCondensed(intervals []Interval, symbols []byte, n int) {
	sbOffIdxLo := make([]int, n)
	sbOffIdxHi := make([]int, n)
	blkOffIdxLo := make([]int, n)
	blkOffIdxHi := make([]int, n)

	for i := 0; i < n; i++ {
		sbOffIdxLo[i] = (intervals[i].Lo/superblockSize)*t.alphabetSize + int(symbols[i])
		sbOffIdxHi[i] = (intervals[i].Hi/superblockSize)*t.alphabetSize + int(symbols[i])
	}

	sbOffLo := make([]uint64, n)
	sbOffHi := make([]uint64, n)

	for i := 0; i < n; i++ {
		sbOffLo[i] = t.superblockOffsets[sbOffIdxLo[i]]
		sbOffHi[i] = t.superblockOffsets[sbOffIdxHi[i]]
	}

	for i := 0; i < n; i++ {
		blkOffIdxLo[i] = (intervals[i].Lo/t.blockBits)*t.alphabetSize + int(symbols[i])
		blkOffIdxHi[i] = (intervals[i].Hi/t.blockBits)*t.alphabetSize + int(symbols[i])
	}

	blkOffLo := make([]uint16, n)
	blkOffHi := make([]uint16, n)

	for i := 0; i < n; i++ {
		blkOffLo[i] = t.blockOffsets[blkOffIdxLo[i]]
		blkOffHi[i] = t.blockOffsets[blkOffIdxHi[i]]
	}

	for i := 0; i < n; i++ {
		countLo := t.planeCountBefore(symbols[i], intervals[i].Lo)
		countHi := t.planeCountBefore(symbols[i], intervals[i].Hi)

		intervals[i].Lo = int(sbOffLo[i]) + int(blkOffLo[i]) + countLo
		intervals[i].Hi = int(sbOffHi[i]) + int(blkOffHi[i]) + countHi
	}
}

func (t *Table) planeCountBefore(symbol byte, idx int) int {
	blk := idx / t.blockBits
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

	return popcountBefore(acc, idx%t.blockBits)
}

func (t *Table) batchRankBordersFlat(intervals []Interval, symbols []byte, n int) {
	sbOffIdxLo := make([]int, n)
	sbOffIdxHi := make([]int, n)

	for i := 0; i < n; i++ {
		sbOffIdxLo[i] = (intervals[i].Lo/superblockSize)*t.alphabetSize + int(symbols[i])
		sbOffIdxHi[i] = (intervals[i].Hi/superblockSize)*t.alphabetSize + int(symbols[i])
	}

	sbOffLo := make([]uint64, n)
	sbOffHi := make([]uint64, n)

	for i := 0; i < n; i++ {
		sbOffLo[i] = t.flatSuperblockOff[sbOffIdxLo[i]]
		sbOffHi[i] = t.flatSuperblockOff[sbOffIdxHi[i]]
	}

	blkOffIdxLo := make([]int, n)
	blkOffIdxHi := make([]int, n)

	for i := 0; i < n; i++ {
		blkOffIdxLo[i] = (intervals[i].Lo/t.blockBits)*t.alphabetSize + int(symbols[i])
		blkOffIdxHi[i] = (intervals[i].Hi/t.blockBits)*t.alphabetSize + int(symbols[i])
	}

	blkOffLo := make([]uint16, n)
	blkOffHi := make([]uint16, n)

	for i := 0; i < n; i++ {
		blkOffLo[i] = t.flatBlockOffsets[blkOffIdxLo[i]]
		blkOffHi[i] = t.flatBlockOffsets[blkOffIdxHi[i]]
	}

	for i := 0; i < n; i++ {
		blk := intervals[i].Lo / t.blockBits
		planeBase := blk*t.alphabetSize*t.wordsPerBlk + int(symbols[i])*t.wordsPerBlk
		countLo := popcountBefore(t.flatBlocks[planeBase:planeBase+t.wordsPerBlk], intervals[i].Lo%t.blockBits)

		blkHi := intervals[i].Hi / t.blockBits
		planeBaseHi := blkHi*t.alphabetSize*t.wordsPerBlk + int(symbols[i])*t.wordsPerBlk
		countHi := popcountBefore(t.flatBlocks[planeBaseHi:planeBaseHi+t.wordsPerBlk], intervals[i].Hi%t.blockBits)

		intervals[i].Lo = int(sbOffLo[i]) + int(blkOffLo[i]) + countLo
		intervals[i].Hi = int(sbOffHi[i]) + int(blkOffHi[i]) + countHi
	}
}
