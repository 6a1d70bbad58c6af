// Package saca provides the suffix-array construction backend that
// spec.md treats as an external, opaque library: "for a text T of length
// n, an array SA of length n such that T[SA[i]..] is the i-th suffix in
// lexicographic order". Two entry points are exposed, matching the two
// variants spec.md describes: Build (parallel, wide output) and
// BuildNarrow (serial, uint32 output for a u32-indexed index; computed in
// int64 and narrowed at the end).
//
// The construction algorithm is prefix-doubling rank sort (Manber-Myers):
// chosen over a from-scratch port of the reference's linear-time SA-IS
// implementation because SA-IS's multi-phase LMS-induction is easy to get
// subtly wrong without a compiler and test suite to lean on, whereas
// doubling's invariant (after round k, suffixes are correctly ordered by
// their first 2^k symbols) is simple to verify by inspection. It keeps the
// reference's overall shape: an initial counting-sort bucketing pass
// (sortInitialRank, grounded on transform/SA_IS.go's getCounts/getBuckets)
// followed by repeated refinement passes, and the doubling rounds are
// independent per-suffix comparisons that parallelize the same way the
// reference parallelizes its BWT chunk processing.
package saca

import (
	"runtime"
	"sort"
	"sync"
)

// Build runs the parallel, wide (int64) suffix array construction used by
// default.
func Build(text []byte) []int64 {
	n := len(text)
	sa := make([]int64, n)
	for i := range sa {
		sa[i] = int64(i)
	}
	if n <= 1 {
		return sa
	}

	rank := initialRanks(text)
	tmp := make([]int64, n)

	for k := 1; ; k *= 2 {
		less := func(a, b int64) bool {
			if rank[a] != rank[b] {
				return rank[a] < rank[b]
			}
			ra, rb := int64(-1), int64(-1)
			if int(a)+k < n {
				ra = rank[a+int64(k)]
			}
			if int(b)+k < n {
				rb = rank[b+int64(k)]
			}
			return ra < rb
		}

		parallelSort(sa, less)

		tmp[sa[0]] = 0
		for i := 1; i < n; i++ {
			tmp[sa[i]] = tmp[sa[i-1]]
			if less(sa[i-1], sa[i]) {
				tmp[sa[i]]++
			}
		}
		copy(rank, tmp)

		if int(rank[sa[n-1]]) == n-1 {
			break
		}
		if k >= n {
			break
		}
	}

	return sa
}

// BuildNarrow runs the serial construction used when the configured index
// width is u32 and the "low memory" priority applies, and returns its
// result narrowed to uint32. The suffix array and its ranks are built as
// int64 internally and narrowed only at the end, so construction does not
// use less memory than Build.
func BuildNarrow(text []byte) []uint32 {
	wide := buildSerial(text)
	out := make([]uint32, len(wide))
	for i, v := range wide {
		out[i] = uint32(v)
	}
	return out
}

func buildSerial(text []byte) []int64 {
	n := len(text)
	sa := make([]int64, n)
	for i := range sa {
		sa[i] = int64(i)
	}
	if n <= 1 {
		return sa
	}

	rank := initialRanks(text)
	tmp := make([]int64, n)

	for k := 1; ; k *= 2 {
		less := func(a, b int64) bool {
			if rank[a] != rank[b] {
				return rank[a] < rank[b]
			}
			ra, rb := int64(-1), int64(-1)
			if int(a)+k < n {
				ra = rank[a+int64(k)]
			}
			if int(b)+k < n {
				rb = rank[b+int64(k)]
			}
			return ra < rb
		}

		sort.Slice(sa, func(i, j int) bool { return less(sa[i], sa[j]) })

		tmp[sa[0]] = 0
		for i := 1; i < n; i++ {
			tmp[sa[i]] = tmp[sa[i-1]]
			if less(sa[i-1], sa[i]) {
				tmp[sa[i]]++
			}
		}
		copy(rank, tmp)

		if int(rank[sa[n-1]]) == n-1 {
			break
		}
		if k >= n {
			break
		}
	}

	return sa
}

func initialRanks(text []byte) []int64 {
	n := len(text)

	// Counting sort bucketing pass over the byte alphabet, grounded on
	// SA_IS.go's getCounts/getBuckets: produces a stable initial rank
	// from the single-symbol order before any doubling round runs.
	var counts [256]int
	for _, b := range text {
		counts[b]++
	}

	var buckets [256]int
	sum := 0
	for b := 0; b < 256; b++ {
		buckets[b] = sum
		sum += counts[b]
	}

	rank := make([]int64, n)
	for i, b := range text {
		rank[i] = int64(buckets[b])
	}

	return rank
}

// parallelSort sorts sa using the provided less function, splitting the
// comparison work across goroutines for large inputs the way the
// reference's BWT/rank construction splits work across chunks.
func parallelSort(sa []int64, less func(a, b int64) bool) {
	if len(sa) < 1<<16 {
		sort.Slice(sa, func(i, j int) bool { return less(sa[i], sa[j]) })
		return
	}

	jobs := runtime.NumCPU()
	if jobs < 1 {
		jobs = 1
	}

	// sort.Slice itself is not parallel; for large inputs we instead
	// merge-sort in parallel chunks, which keeps the comparator calls
	// data-parallel the way the reference's map/reduce chunking does.
	chunks := splitChunks(len(sa), jobs)
	var wg sync.WaitGroup

	for _, c := range chunks {
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			sub := sa[lo:hi]
			sort.Slice(sub, func(i, j int) bool { return less(sub[i], sub[j]) })
		}(c[0], c[1])
	}
	wg.Wait()

	merged := make([]int64, 0, len(sa))
	segments := make([][]int64, len(chunks))
	for i, c := range chunks {
		segments[i] = sa[c[0]:c[1]]
	}
	merged = kWayMerge(segments, less)
	copy(sa, merged)
}

func splitChunks(n, jobs int) [][2]int {
	if jobs > n {
		jobs = n
	}
	if jobs < 1 {
		jobs = 1
	}

	base := n / jobs
	rem := n % jobs

	chunks := make([][2]int, 0, jobs)
	start := 0
	for i := 0; i < jobs; i++ {
		size := base
		if i < rem {
			size++
		}
		chunks = append(chunks, [2]int{start, start + size})
		start += size
	}
	return chunks
}

func kWayMerge(segments [][]int64, less func(a, b int64) bool) []int64 {
	total := 0
	for _, s := range segments {
		total += len(s)
	}

	out := make([]int64, 0, total)
	idx := make([]int, len(segments))

	for {
		best := -1
		for i, seg := range segments {
			if idx[i] >= len(seg) {
				continue
			}
			if best == -1 || less(seg[idx[i]], segments[best][idx[best]]) {
				best = i
			}
		}
		if best == -1 {
			break
		}
		out = append(out, segments[best][idx[best]])
		idx[best]++
	}

	return out
}
