// Package idtree implements a static binary search tree over the sorted
// sentinel offsets of a concatenated multi-text index, mapping a global
// concatenated offset back to (text_id, local_offset).
package idtree

// node packs either an inner-node threshold or a leaf text id into a
// single machine word: non-negative values are thresholds, the bitwise
// complement of a non-negative value is a leaf's text id. This keeps the
// tree one cache-friendly flat array, mirroring the reference layout.
type node int64

func newInner(threshold int64) node { return node(threshold) }
func newLeaf(textID int64) node     { return node(^textID) }

func (n node) isInner() bool    { return n >= 0 }
func (n node) threshold() int64 { return int64(n) }
func (n node) textID() int64    { return int64(^n) }

func leftChild(i int) int  { return i*2 + 1 }
func rightChild(i int) int { return (i + 1) * 2 }

// Tree is a static, heap-laid-out binary search tree over sorted sentinel
// offsets.
type Tree struct {
	nodes     []node
	sentinels []uint64
}

// Build constructs a Tree from the strictly increasing sentinel offsets of
// each indexed text, in text-id order. sentinels must be non-empty.
func Build(sentinels []uint64) *Tree {
	if len(sentinels) == 0 {
		panic("idtree: at least one sentinel offset is required")
	}

	maxNeeded := nextPowerOfTwo(len(sentinels))*2 - 1
	nodes := make([]node, maxNeeded)
	maxUsed := 0

	addNodes(nodes, 0, sentinels, 0, &maxUsed)

	return &Tree{
		nodes:     nodes[:maxUsed+1],
		sentinels: sentinels,
	}
}

func addNodes(nodes []node, curr int, indices []uint64, offset int64, maxUsed *int) {
	if curr > *maxUsed {
		*maxUsed = curr
	}

	n := len(indices)

	if n == 1 {
		nodes[curr] = newLeaf(offset)
		return
	}

	half := n / 2
	if !isPowerOfTwo(n) {
		half = nextPowerOfTwo(n) / 2
	}

	left, right := indices[:half], indices[half:]
	threshold := left[len(left)-1]

	nodes[curr] = newInner(int64(threshold))

	addNodes(nodes, leftChild(curr), left, offset, maxUsed)
	addNodes(nodes, rightChild(curr), right, offset+int64(half), maxUsed)
}

func isPowerOfTwo(n int) bool { return n&(n-1) == 0 }

func nextPowerOfTwo(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// LookupTextID returns the smallest text_id whose sentinel offset is >=
// offset.
func (t *Tree) LookupTextID(offset uint64) int {
	curr := 0
	for t.nodes[curr].isInner() {
		if int64(offset) <= t.nodes[curr].threshold() {
			curr = leftChild(curr)
		} else {
			curr = rightChild(curr)
		}
	}
	return int(t.nodes[curr].textID())
}

// Backtransform maps a global concatenated offset to (text_id,
// local_offset) within that text.
func (t *Tree) Backtransform(offset uint64) (textID int, localOffset uint64) {
	textID = t.LookupTextID(offset)

	if textID == 0 {
		return 0, offset
	}

	return textID, offset - t.sentinels[textID-1] - 1
}
