package fmindex

import "github.com/klauspost/cpuid"

// batchSize is the batch engine's N, refined once at package init from
// the detected L2 cache size (spec.md §4.9 suggests "≈ 32-64"; a larger
// L2 can comfortably carry a larger batch's worth of in-flight slot
// state). Falls back to defaultBatchSize when the probe reports nothing
// useful, grounded on the same cpuid.CPU singleton the reference NCBI
// tooling uses to scale its own worker counts from detected hardware.
var batchSize = computeBatchSize()

func computeBatchSize() int {
	l2 := cpuid.CPU.Cache.L2
	if l2 <= 0 {
		return defaultBatchSize
	}

	switch {
	case l2 >= 1<<20:
		return 64
	case l2 >= 1<<18:
		return 48
	default:
		return 32
	}
}
