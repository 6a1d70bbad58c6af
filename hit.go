package fmindex

// Hit is one occurrence of a pattern: text TextID at offset Position,
// 0 <= Position < len(that text) for a non-empty pattern. The empty
// pattern also matches Position == len(that text).
type Hit struct {
	TextID   int
	Position uint64
}
