package fmindex

import (
	"fmt"
	"io"

	"github.com/genedex-go/fmindex/alphabet"
	"github.com/genedex-go/fmindex/internal/bitio"
	"github.com/genedex-go/fmindex/internal/xxh"
)

// formatVersion is the persisted format's version tag, mirroring the
// teacher's single-u32 format version field (bitstream's
// _BITSTREAM_FORMAT_VERSION).
const formatVersion = uint32(1)

const checksumSeed = uint64(0x67656e6564_6578)

// Save writes a versioned, checksummed serialization of idx to w. The
// serialized form is the original texts, alphabet, and Config: since
// construction is deterministic for a given input and configuration
// (spec.md §5, "Ordering guarantees"), Load reproduces a behaviorally
// identical index by re-running Build rather than walking every packed
// internal structure field-by-field.
func (idx *Index) Save(w io.Writer) error {
	bw := bitio.NewWriter()

	bw.WriteBits(uint64(formatVersion), 32)

	groups := idx.alpha.Groups()
	bw.WriteBits(uint64(len(groups)), 32)
	for _, g := range groups {
		bw.WriteBits(uint64(len(g)), 32)
		bw.WriteBytes(g)
	}
	bw.WriteBits(uint64(idx.alpha.NumNonSearchable()), 32)

	bw.WriteBits(uint64(idx.cfg.SASamplingRate), 32)
	bw.WriteBits(uint64(idx.cfg.LookupTableDepth), 32)
	bw.WriteBits(uint64(idx.cfg.IndexWidth), 8)
	bw.WriteBits(uint64(idx.cfg.RankVariant), 8)
	bw.WriteBits(uint64(idx.cfg.BlockWidth), 16)
	bw.WriteBits(uint64(idx.cfg.Priority), 8)

	bw.WriteBits(uint64(len(idx.texts)), 32)
	for _, t := range idx.texts {
		bw.WriteBits(uint64(len(t)), 32)
		bw.WriteBytes(t)
	}

	payload := bw.Bytes()
	checksum := xxh.Sum64(checksumSeed, payload)

	if _, err := w.Write(payload); err != nil {
		return fmt.Errorf("fmindex: writing serialized index: %w", err)
	}

	var tail [8]byte
	for i := 0; i < 8; i++ {
		tail[i] = byte(checksum >> (56 - 8*i))
	}
	if _, err := w.Write(tail[:]); err != nil {
		return fmt.Errorf("fmindex: writing checksum: %w", err)
	}
	return nil
}

// Load reads a stream written by Save, validates its checksum and format
// version, and rebuilds an equivalent Index.
func Load(r io.Reader) (*Index, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("fmindex: reading serialized index: %w", err)
	}
	if len(raw) < 8 {
		return nil, fmt.Errorf("fmindex: truncated serialized index")
	}

	payload, tail := raw[:len(raw)-8], raw[len(raw)-8:]
	var wantChecksum uint64
	for i := 0; i < 8; i++ {
		wantChecksum = (wantChecksum << 8) | uint64(tail[i])
	}
	if got := xxh.Sum64(checksumSeed, payload); got != wantChecksum {
		return nil, fmt.Errorf("fmindex: checksum mismatch: serialized index is corrupt")
	}

	br := bitio.NewReader(payload)

	version := uint32(br.ReadBits(32))
	if version != formatVersion {
		return nil, fmt.Errorf("fmindex: unsupported format version %d", version)
	}

	numGroups := int(br.ReadBits(32))
	groups := make([][]byte, numGroups)
	for i := range groups {
		glen := int(br.ReadBits(32))
		groups[i] = br.ReadBytes(glen)
	}
	numNonSearchable := int(br.ReadBits(32))

	alpha, err := alphabet.FromAmbiguousGroups(groups, numNonSearchable)
	if err != nil {
		return nil, fmt.Errorf("fmindex: rebuilding alphabet: %w", err)
	}

	var cfg Config
	cfg.SASamplingRate = int(br.ReadBits(32))
	cfg.LookupTableDepth = int(br.ReadBits(32))
	cfg.IndexWidth = IndexWidth(br.ReadBits(8))
	cfg.RankVariant = RankVariant(br.ReadBits(8))
	cfg.BlockWidth = BlockWidth(br.ReadBits(16))
	cfg.Priority = Priority(br.ReadBits(8))

	numTexts := int(br.ReadBits(32))
	texts := make([][]byte, numTexts)
	for i := range texts {
		tlen := int(br.ReadBits(32))
		texts[i] = br.ReadBytes(tlen)
	}

	return Build(texts, alpha, cfg)
}
