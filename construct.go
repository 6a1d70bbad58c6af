package fmindex

import (
	"math"

	"github.com/genedex-go/fmindex/alphabet"
	"github.com/genedex-go/fmindex/bitpack"
	"github.com/genedex-go/fmindex/idtree"
	"github.com/genedex-go/fmindex/internal/parallel"
	"github.com/genedex-go/fmindex/internal/saca"
	"github.com/genedex-go/fmindex/lookup"
	"github.com/genedex-go/fmindex/rankselect"
	"github.com/genedex-go/fmindex/sarray"

	"github.com/pbnjay/memory"
)

// Index is the immutable, built FM-index: owns the alphabet, the
// frequency/LF-count table, the rank structure, the sampled suffix array,
// the text-id tree and the k-mer lookup table. Every query path takes it
// by shared pointer; nothing mutates it after Build returns.
type Index struct {
	alpha *alphabet.Alphabet
	cfg   Config

	textLen int64
	cTable  []int64 // C[c], length sigma+2

	rank *rankselect.Table
	sa   *sarray.Table
	tree *idtree.Tree
	lt   *lookup.Table

	numTexts int

	// texts retains the original input texts solely so Save can perform
	// a value-semantic round trip by re-running Build on Load, rather
	// than serializing every internal packed structure bit-for-bit (see
	// persistence.go).
	texts [][]byte

	// Notices carries non-fatal build-time advisories (e.g. peak memory
	// estimate exceeding detected system RAM), mirroring the teacher's
	// app.InfoPrinter events without coupling the library to a logging
	// backend.
	Notices []string
}

// lfEngine adapts the index's C table and rank structure into the two
// small interfaces the sarray and lookup packages depend on, so those
// leaf packages never need to import rankselect directly.
type lfEngine struct {
	rank *rankselect.Table
	c    []int64
}

func (e *lfEngine) SymbolAt(i int) byte { return e.rank.SymbolAt(i) }

// LFStep performs C[c] + rank(c, i).
func (e *lfEngine) LFStep(c byte, i int) int {
	return int(e.c[c]) + e.rank.Rank(int(c), i)
}

// Step implements lookup.Stepper: the interval reached after prepending
// symbol c to the suffix currently matched by [lo, hi).
func (e *lfEngine) Step(c byte, lo, hi int) (int, int) {
	base := int(e.c[c])
	return base + e.rank.Rank(int(c), lo), base + e.rank.Rank(int(c), hi)
}

func maxIndexValue(w IndexWidth) int64 {
	switch w {
	case IndexWidthI32:
		return math.MaxInt32
	case IndexWidthU32:
		return math.MaxUint32
	default:
		return math.MaxInt64
	}
}

// Build runs the nine-step construction pipeline of spec.md §4.6:
// concatenation with sentinels, frequency counting, external SACA,
// C-table prefix sum, BWT + border map, SA sampling, rank structure,
// text-id tree, and iterative lookup-table construction.
func Build(texts [][]byte, alpha *alphabet.Alphabet, cfg Config) (*Index, error) {
	if alpha == nil {
		return nil, &InvalidAlphabetError{Reason: "alphabet must not be nil"}
	}
	if cfg.SASamplingRate < 1 {
		return nil, &BadConfigError{Reason: "sa_sampling_rate must be >= 1"}
	}
	if len(texts) == 0 {
		return nil, &InvalidAlphabetError{Reason: "at least one text must be indexed"}
	}

	totalLen := 0
	for _, t := range texts {
		totalLen += len(t)
	}
	n := totalLen + len(texts)

	maxVal := maxIndexValue(cfg.IndexWidth)
	if int64(n) > maxVal {
		return nil, &TextTooLargeError{Length: int64(n), MaxValue: maxVal}
	}

	// Step 1: concatenate dense-encoded texts with sentinels, recording
	// sentinel offsets.
	dense := make([]byte, 0, n)
	sentinels := make([]uint64, 0, len(texts))
	for _, text := range texts {
		for _, b := range text {
			d := alpha.Encode(b)
			if d == 0 {
				return nil, &BadSymbolError{Byte: b}
			}
			dense = append(dense, d)
		}
		dense = append(dense, 0)
		sentinels = append(sentinels, uint64(len(dense)-1))
	}

	freq := computeFrequency(dense, alpha.Size())
	// Step 2: one sentinel per text.
	freq[0] = int64(len(texts))

	notices := memoryAdvisory(n, alpha.Size(), cfg)
	if caps := rankselect.DetectCapabilities(); !caps.HasPOPCNT {
		notices = append(notices,
			"host CPU lacks hardware POPCNT; rank queries will fall back to a software popcount")
	}

	// Step 3: external SACA.
	saInt64 := runSACA(dense, cfg)

	// Step 4: C table, exclusive prefix sum over [0..=sigma+1].
	sigma := alpha.Sigma()
	cTable := make([]int64, sigma+2)
	sum := int64(0)
	for s := 0; s <= sigma; s++ {
		cTable[s] = sum
		sum += freq[s]
	}
	cTable[sigma+1] = sum

	// Step 5: BWT + per-chunk border map, merged.
	bwt, border := computeBWTAndBorder(dense, saInt64)

	// Step 6: sample SA with the chosen compression.
	narrow := cfg.IndexWidth == IndexWidthU32
	saTable := sarray.Sample(saInt64, cfg.SASamplingRate, border, narrow)

	// Step 7: rank structure from the BWT, slice-compressed where chosen.
	storage := bitpack.New(alpha.Size(), n, cfg.Priority == PriorityHighSpeed)
	for i, c := range bwt {
		storage.Set(i, c)
	}
	blockWidth := rankselect.Block64
	if cfg.BlockWidth == BlockWidth512 {
		blockWidth = rankselect.Block512
	}
	var rank *rankselect.Table
	if cfg.RankVariant == RankFlat {
		rank = rankselect.BuildFlat(storage, alpha.Size(), blockWidth)
	} else {
		rank = rankselect.BuildCondensed(storage, alpha.Size(), blockWidth)
	}

	// Step 8: text-id tree from sentinel offsets.
	tree := idtree.Build(sentinels)

	// Step 9: lookup table depths 0..=K, built iteratively.
	lf := &lfEngine{rank: rank, c: cTable}
	lt := lookup.Build(cfg.LookupTableDepth, alpha.NumSearchableSymbols(), n, lf)

	return &Index{
		alpha:    alpha,
		cfg:      cfg,
		textLen:  int64(n),
		cTable:   cTable,
		rank:     rank,
		sa:       saTable,
		tree:     tree,
		lt:       lt,
		numTexts: len(texts),
		texts:    texts,
		Notices:  notices,
	}, nil
}

func runSACA(dense []byte, cfg Config) []int64 {
	if cfg.IndexWidth == IndexWidthU32 && cfg.Priority == PriorityLowMemory {
		narrow := saca.BuildNarrow(dense)
		wide := make([]int64, len(narrow))
		for i, v := range narrow {
			wide[i] = int64(v)
		}
		return wide
	}
	return saca.Build(dense)
}

// computeFrequency counts occurrences of every dense symbol across dense
// in parallel, summing per-chunk counts into one bin per dense symbol
// (alphabetSize bins). The sentinels already present in dense are counted
// in bin 0.
func computeFrequency(dense []byte, alphabetSize int) []int64 {
	n := len(dense)
	workers := parallel.Workers(n)
	if workers <= 1 {
		freq := make([]int64, alphabetSize)
		for _, b := range dense {
			freq[b]++
		}
		return freq
	}

	chunks := parallel.Chunks(n, workers)
	partials := make([][]int64, len(chunks))

	parallel.Do(len(chunks), func(lo, hi int) {
		for ci := lo; ci < hi; ci++ {
			c := chunks[ci]
			local := make([]int64, alphabetSize)
			for i := c[0]; i < c[1]; i++ {
				local[dense[i]]++
			}
			partials[ci] = local
		}
	})

	freq := make([]int64, alphabetSize)
	for _, local := range partials {
		for s, v := range local {
			freq[s] += v
		}
	}
	return freq
}

// computeBWTAndBorder computes L[i] = T[SA[i]-1] (or T[n-1] = 0 when
// SA[i] = 0) in parallel over chunks of SA, merging each chunk's local
// sentinel-row map into the shared border map after all chunks finish, per
// spec.md §4.6 step 5.
func computeBWTAndBorder(dense []byte, sa []int64) ([]byte, map[int]int64) {
	n := len(sa)
	bwt := make([]byte, n)

	workers := parallel.Workers(n)
	chunks := parallel.Chunks(n, workers)
	partials := make([]map[int]int64, len(chunks))

	parallel.Do(len(chunks), func(lo, hi int) {
		for ci := lo; ci < hi; ci++ {
			c := chunks[ci]
			local := make(map[int]int64)
			for i := c[0]; i < c[1]; i++ {
				p := sa[i]
				var sym byte
				if p > 0 {
					sym = dense[p-1]
				} else {
					sym = dense[n-1]
				}
				bwt[i] = sym
				if sym == 0 {
					local[i] = p
				}
			}
			partials[ci] = local
		}
	})

	border := make(map[int]int64)
	for _, local := range partials {
		for k, v := range local {
			border[k] = v
		}
	}
	return bwt, border
}

// memoryAdvisory estimates peak build memory per spec.md §5's "Resource
// policy during build" and compares it against detected system RAM,
// returning a human-readable advisory if the estimate exceeds it. It
// never fails the build.
func memoryAdvisory(n, alphabetSize int, cfg Config) []string {
	saWidth := int64(8)
	if cfg.IndexWidth == IndexWidthU32 && cfg.Priority == PriorityLowMemory {
		saWidth = 4
	}

	alphaBits := 1
	for (1 << alphaBits) < alphabetSize {
		alphaBits++
	}
	rankBytesPerPosition := int64(alphaBits) / 8
	if rankBytesPerPosition < 1 {
		rankBytesPerPosition = 1
	}

	sampleWidth := int64(8)
	if cfg.IndexWidth == IndexWidthU32 {
		sampleWidth = 4
	}

	peak := int64(n)*saWidth + int64(n) + int64(n)*rankBytesPerPosition +
		int64(n)/int64(cfg.SASamplingRate)*sampleWidth

	total := int64(memory.TotalMemory())
	if total > 0 && peak > total {
		return []string{
			"estimated peak build memory exceeds detected system RAM; consider a lower IndexWidth or PriorityLowMemory",
		}
	}
	return nil
}
