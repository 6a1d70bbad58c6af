package fmindex

// Cursor is a half-open BWT row interval [Lo, Hi) bound to an index,
// refined by repeated LF steps. Extension only ever happens at the front
// of the matched pattern (backward search); once Lo == Hi the cursor is
// empty and further extensions are no-ops.
type Cursor struct {
	lo, hi int
	idx    *Index
}

// CursorEmpty returns a cursor over the whole index (the depth-0 lookup
// table entry, matching every suffix).
func (idx *Index) CursorEmpty() *Cursor {
	return &Cursor{lo: 0, hi: int(idx.textLen), idx: idx}
}

// CursorForQuery builds a cursor for pattern P: the last min(|P|, K)
// symbols are resolved via a single lookup-table read, then the
// remaining prefix is walked right to left with LF steps, stopping early
// once the interval is empty. Returns BadSymbolError if P contains a byte
// outside the alphabet.
func (idx *Index) CursorForQuery(pattern []byte) (*Cursor, error) {
	dense := make([]byte, len(pattern))
	for i, b := range pattern {
		d := idx.alpha.Encode(b)
		if d == 0 {
			return nil, &BadSymbolError{Byte: b}
		}
		dense[i] = d
	}

	c := &Cursor{idx: idx}

	k := len(dense)
	if k > idx.lt.MaxDepth() {
		k = idx.lt.MaxDepth()
	}
	suffix := dense[len(dense)-k:]
	iv := idx.lt.Lookup(reverseBytes(suffix))
	c.lo, c.hi = iv.Lo, iv.Hi

	lf := &lfEngine{rank: idx.rank, c: idx.cTable}
	remaining := dense[:len(dense)-k]
	for i := len(remaining) - 1; i >= 0; i-- {
		if c.lo >= c.hi {
			break
		}
		sym := remaining[i]
		c.lo, c.hi = lf.Step(sym, c.lo, c.hi)
	}

	return c, nil
}

func reverseBytes(b []byte) []byte {
	out := make([]byte, len(b))
	for i, v := range b {
		out[len(b)-1-i] = v
	}
	return out
}

// ExtendQueryFront prepends one more dense-encoded symbol to the front of
// the pattern this cursor matches. A no-op once the cursor is empty.
func (c *Cursor) ExtendQueryFront(denseSymbol byte) {
	if c.lo >= c.hi {
		return
	}
	lf := &lfEngine{rank: c.idx.rank, c: c.idx.cTable}
	c.lo, c.hi = lf.Step(denseSymbol, c.lo, c.hi)
}

// Count returns the number of BWT rows currently matched.
func (c *Cursor) Count() int {
	if c.hi <= c.lo {
		return 0
	}
	return c.hi - c.lo
}

// Locate converts every matched BWT row to a (text_id, position) hit via
// sampled-SA walk-back and text-id tree lookup.
func (c *Cursor) Locate() []Hit {
	if c.hi <= c.lo {
		return nil
	}

	lf := &lfEngine{rank: c.idx.rank, c: c.idx.cTable}
	hits := make([]Hit, 0, c.hi-c.lo)
	for row := c.lo; row < c.hi; row++ {
		offset := sarrayRecover(c.idx.sa, lf, row)
		textID, local := c.idx.tree.Backtransform(uint64(offset))
		hits = append(hits, Hit{TextID: textID, Position: local})
	}
	return hits
}
