package fmindex

import (
	"github.com/genedex-go/fmindex/rankselect"

	"golang.org/x/sys/cpu"
)

// defaultBatchSize is the batch engine's N (spec.md §4.9: "≈ 32-64") used
// when computeBatchSize (cpuid.go) can't get a useful L2 cache-size
// reading from the host.
const defaultBatchSize = 48

// slot is one lane of the batched query engine. cpu.CacheLinePad keeps
// consecutive slots from false-sharing a cache line, so the independent
// memory stalls each lane generates during a batch step can genuinely
// overlap on the out-of-order core, per spec.md §4.9.
type slot struct {
	lo, hi    int
	pos       int // symbols left to read; the next one is remaining[pos-1]
	remaining []byte
	queryIdx  int // original position, for the final permutation undo
	_         cpu.CacheLinePad
}

// runBatch resolves one batch of already dense-encoded, already-LT-
// initialized slots down to their final [lo, hi) intervals, implementing
// spec.md §4.9 steps 3-4: active/done compaction, batched rank-border
// resolution, and C-table addition.
func (idx *Index) runBatch(slots []slot) {
	active := len(slots)
	for active > 0 {
		// Partition step: move slots that are done (no symbols left, or
		// the interval already collapsed to empty) to the tail.
		i := 0
		for i < active {
			s := &slots[i]
			if s.pos <= 0 || s.lo >= s.hi {
				active--
				slots[i], slots[active] = slots[active], slots[i]
				continue
			}
			i++
		}
		if active == 0 {
			break
		}

		intervals := make([]rankselect.Interval, active)
		symbols := make([]byte, active)
		for k := 0; k < active; k++ {
			s := &slots[k]
			s.pos--
			symbols[k] = s.remaining[s.pos]
			intervals[k] = rankselect.Interval{Lo: s.lo, Hi: s.hi}
		}

		idx.rank.BatchRankBorders(intervals, symbols, active)

		for k := 0; k < active; k++ {
			s := &slots[k]
			base := idx.cTable[symbols[k]]
			s.lo = int(base) + intervals[k].Lo
			s.hi = int(base) + intervals[k].Hi
		}
	}
}

// buildSlots dense-encodes and LT-initializes one batch of patterns,
// implementing spec.md §4.9 steps 1-2.
func (idx *Index) buildSlots(patterns [][]byte, queryAtIdx []int) ([]slot, error) {
	n := len(patterns)
	denseList := make([][]byte, n)
	for i, p := range patterns {
		dense := make([]byte, len(p))
		for j, b := range p {
			d := idx.alpha.Encode(b)
			if d == 0 {
				return nil, &BadSymbolError{Byte: b}
			}
			dense[j] = d
		}
		denseList[i] = dense
	}

	suffixes := make([][]byte, n)
	k := idx.lt.MaxDepth()
	for i, dense := range denseList {
		depth := len(dense)
		if depth > k {
			depth = k
		}
		suffixes[i] = dense[len(dense)-depth:]
	}

	out, depths := idx.lt.BatchLookup(suffixes, nil)

	slots := make([]slot, n)
	for i := range slots {
		slots[i] = slot{
			lo:        out[i].Lo,
			hi:        out[i].Hi,
			pos:       len(denseList[i]) - depths[i],
			remaining: denseList[i][:len(denseList[i])-depths[i]],
			queryIdx:  queryAtIdx[i],
		}
	}
	return slots, nil
}

// CountMany resolves patterns via the batched query engine and returns
// their counts in the same order the patterns were given, per spec.md
// §4.9/§4.10.
func (idx *Index) CountMany(patterns [][]byte) ([]int, error) {
	results := make([]int, len(patterns))

	for start := 0; start < len(patterns); start += batchSize {
		end := start + batchSize
		if end > len(patterns) {
			end = len(patterns)
		}
		batch := patterns[start:end]
		queryAtIdx := make([]int, len(batch))
		for i := range batch {
			queryAtIdx[i] = start + i
		}

		slots, err := idx.buildSlots(batch, queryAtIdx)
		if err != nil {
			return nil, err
		}
		idx.runBatch(slots)

		// Step 5: undo the permutation by writing straight to the
		// original query's slot in results.
		for _, s := range slots {
			count := 0
			if s.hi > s.lo {
				count = s.hi - s.lo
			}
			results[s.queryIdx] = count
		}
	}
	return results, nil
}

// LocateMany resolves patterns via the batched query engine and returns
// their hit sets in the same order the patterns were given.
func (idx *Index) LocateMany(patterns [][]byte) ([][]Hit, error) {
	results := make([][]Hit, len(patterns))
	lf := &lfEngine{rank: idx.rank, c: idx.cTable}

	for start := 0; start < len(patterns); start += batchSize {
		end := start + batchSize
		if end > len(patterns) {
			end = len(patterns)
		}
		batch := patterns[start:end]
		queryAtIdx := make([]int, len(batch))
		for i := range batch {
			queryAtIdx[i] = start + i
		}

		slots, err := idx.buildSlots(batch, queryAtIdx)
		if err != nil {
			return nil, err
		}
		idx.runBatch(slots)

		for _, s := range slots {
			if s.hi <= s.lo {
				results[s.queryIdx] = nil
				continue
			}
			hits := make([]Hit, 0, s.hi-s.lo)
			for row := s.lo; row < s.hi; row++ {
				offset := sarrayRecover(idx.sa, lf, row)
				textID, local := idx.tree.Backtransform(uint64(offset))
				hits = append(hits, Hit{TextID: textID, Position: local})
			}
			results[s.queryIdx] = hits
		}
	}
	return results, nil
}
