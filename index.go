// Package fmindex implements a compressed, multi-text FM-Index: build
// once from a set of byte strings over a small alphabet, then answer
// count/locate queries for arbitrary patterns in time independent of text
// length after an O(|P|) backward search.
package fmindex

import "github.com/genedex-go/fmindex/sarray"

func sarrayRecover(sa *sarray.Table, lf *lfEngine, row int) int64 {
	return sarray.Recover(sa, lf, row)
}

// Count returns the number of occurrences of pattern across every indexed
// text.
func (idx *Index) Count(pattern []byte) (int, error) {
	c, err := idx.CursorForQuery(pattern)
	if err != nil {
		return 0, err
	}
	return c.Count(), nil
}

// Locate returns every (text_id, position) occurrence of pattern.
func (idx *Index) Locate(pattern []byte) ([]Hit, error) {
	c, err := idx.CursorForQuery(pattern)
	if err != nil {
		return nil, err
	}
	return c.Locate(), nil
}

// NumTexts returns how many texts this index was built from.
func (idx *Index) NumTexts() int {
	return idx.numTexts
}

// TextLen returns |T|, the total length of the concatenated, sentinel-
// delimited dense text.
func (idx *Index) TextLen() int64 {
	return idx.textLen
}
