package fmindex

import (
	"bytes"
	"sort"
	"testing"

	"github.com/genedex-go/fmindex/alphabet"
)

// naiveSearch implements the reference naive_search(texts, P) used
// throughout spec.md §8 to state soundness: every (text_id, position)
// where texts[text_id][position:position+len(P)] == P.
func naiveSearch(texts [][]byte, pattern []byte) []Hit {
	var hits []Hit
	for id, text := range texts {
		if len(pattern) == 0 {
			for pos := 0; pos <= len(text); pos++ {
				hits = append(hits, Hit{TextID: id, Position: uint64(pos)})
			}
			continue
		}
		for pos := 0; pos+len(pattern) <= len(text); pos++ {
			if bytes.Equal(text[pos:pos+len(pattern)], pattern) {
				hits = append(hits, Hit{TextID: id, Position: uint64(pos)})
			}
		}
	}
	return hits
}

func sortHits(hits []Hit) {
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].TextID != hits[j].TextID {
			return hits[i].TextID < hits[j].TextID
		}
		return hits[i].Position < hits[j].Position
	})
}

func assertHitsEqual(t *testing.T, got, want []Hit) {
	t.Helper()
	gotSorted := append([]Hit(nil), got...)
	wantSorted := append([]Hit(nil), want...)
	sortHits(gotSorted)
	sortHits(wantSorted)
	if len(gotSorted) != len(wantSorted) {
		t.Fatalf("hit count mismatch: got %v, want %v", gotSorted, wantSorted)
	}
	for i := range gotSorted {
		if gotSorted[i] != wantSorted[i] {
			t.Fatalf("hit %d mismatch: got %v, want %v", i, gotSorted[i], wantSorted[i])
		}
	}
}

// printableConfig is DefaultConfig with a shallower lookup table: level k
// of the table holds 95^k entries for the printable-ASCII alphabet, so the
// default depth of 8 cannot be allocated.
func printableConfig() Config {
	cfg := DefaultConfig()
	cfg.LookupTableDepth = 3
	return cfg
}

// Scenario 1 of spec.md §8.
func TestScenarioSingleTextDNA(t *testing.T) {
	texts := [][]byte{[]byte("cccaaagggttt")}
	idx, err := Build(texts, alphabet.ASCIIDNA(), Config{
		SASamplingRate: 3, LookupTableDepth: 4, IndexWidth: IndexWidthI64,
		RankVariant: RankCondensed, BlockWidth: BlockWidth64, Priority: PriorityBalanced,
	})
	if err != nil {
		t.Fatal(err)
	}

	got, err := idx.Locate([]byte("gg"))
	if err != nil {
		t.Fatal(err)
	}
	assertHitsEqual(t, got, []Hit{{0, 6}, {0, 7}})

	got, err = idx.Locate([]byte("c"))
	if err != nil {
		t.Fatal(err)
	}
	assertHitsEqual(t, got, []Hit{{0, 0}, {0, 1}, {0, 2}})

	got, err = idx.Locate([]byte("ta"))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no hits for \"ta\", got %v", got)
	}
}

// Scenario 2 of spec.md §8: multi-text, u32 index width.
func TestScenarioMultiTextU32(t *testing.T) {
	texts := [][]byte{[]byte("cccaaagggttt"), []byte("acgtacgtacgt")}
	cfg := DefaultConfig()
	cfg.IndexWidth = IndexWidthU32
	idx, err := Build(texts, alphabet.ASCIIDNA(), cfg)
	if err != nil {
		t.Fatal(err)
	}

	got, err := idx.Locate([]byte("gt"))
	if err != nil {
		t.Fatal(err)
	}
	assertHitsEqual(t, got, []Hit{{0, 8}, {1, 2}, {1, 6}, {1, 10}})
}

// Scenario 3 of spec.md §8: case-folded DNA-with-N.
func TestScenarioCaseFoldedCount(t *testing.T) {
	texts := [][]byte{[]byte("aACGT"), []byte("acGtn")}
	idx, err := Build(texts, alphabet.ASCIIDNAWithN(), DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}

	count, err := idx.Count([]byte("GT"))
	if err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Fatalf("expected count 2, got %d", count)
	}
}

// Scenario 4 of spec.md §8: raw-byte alphabet via u8-until, including an
// empty text.
func TestScenarioU8UntilAlphabet(t *testing.T) {
	texts := [][]byte{
		{0, 4, 3, 2, 1, 5, 8, 6, 7, 8},
		{5, 7, 3, 4, 2, 1, 5, 8},
		{},
	}
	idx, err := Build(texts, alphabet.U8Until(8), DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}

	got, err := idx.Locate([]byte{1, 5, 8})
	if err != nil {
		t.Fatal(err)
	}
	assertHitsEqual(t, got, []Hit{{0, 4}, {1, 5}})
}

// Scenario 5 of spec.md §8: empty pattern is inclusive of every text's
// trailing position (the Open Question resolution recorded in
// SPEC_FULL.md).
func TestScenarioEmptyPatternInclusive(t *testing.T) {
	texts := [][]byte{[]byte("cccaaagggttt"), []byte("acgtacgtacgt")}
	idx, err := Build(texts, alphabet.ASCIIDNA(), DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}

	count, err := idx.Count(nil)
	if err != nil {
		t.Fatal(err)
	}
	want := 0
	for _, tx := range texts {
		want += len(tx) + 1
	}
	if count != want {
		t.Fatalf("expected count %d, got %d", want, count)
	}

	got, err := idx.Locate(nil)
	if err != nil {
		t.Fatal(err)
	}
	assertHitsEqual(t, got, naiveSearch(texts, nil))
}

// Scenario 6 of spec.md §8: a query byte outside the alphabet.
func TestScenarioBadSymbol(t *testing.T) {
	texts := [][]byte{[]byte("acgt")}
	idx, err := Build(texts, alphabet.ASCIIDNA(), DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}

	_, err = idx.Count([]byte("acgtz"))
	if err == nil {
		t.Fatal("expected BadSymbolError")
	}
	if _, ok := err.(*BadSymbolError); !ok {
		t.Fatalf("expected *BadSymbolError, got %T: %v", err, err)
	}
}

// Soundness against naive_search over a variety of patterns.
func TestSoundnessAgainstNaiveSearch(t *testing.T) {
	texts := [][]byte{
		[]byte("the quick brown fox jumps over the lazy dog"),
		[]byte("pack my box with five dozen liquor jugs"),
		[]byte("the dog barks at the fox"),
	}
	idx, err := Build(texts, alphabet.ASCIIPrintable(), printableConfig())
	if err != nil {
		t.Fatal(err)
	}

	patterns := []string{"the", "fox", "dog", "o", "z", "xyz", "quick brown", " "}
	for _, p := range patterns {
		pattern := []byte(p)
		got, err := idx.Locate(pattern)
		if err != nil {
			t.Fatal(err)
		}
		want := naiveSearch(texts, pattern)
		assertHitsEqual(t, got, want)

		count, err := idx.Count(pattern)
		if err != nil {
			t.Fatal(err)
		}
		if count != len(want) {
			t.Fatalf("pattern %q: count=%d, expected %d", p, count, len(want))
		}
	}
}

// Order preservation: count_many/locate_many pair each query with its
// own result, in input order.
func TestCountManyLocateManyPreserveOrder(t *testing.T) {
	texts := [][]byte{
		[]byte("banana banana banana"),
		[]byte("anagram anagram"),
	}
	idx, err := Build(texts, alphabet.ASCIIPrintable(), printableConfig())
	if err != nil {
		t.Fatal(err)
	}

	patterns := [][]byte{
		[]byte("ana"), []byte("an"), []byte("gram"), []byte("zzz"),
		[]byte("banana"), []byte("a"), []byte("na"),
	}

	counts, err := idx.CountMany(patterns)
	if err != nil {
		t.Fatal(err)
	}
	hitSets, err := idx.LocateMany(patterns)
	if err != nil {
		t.Fatal(err)
	}

	for i, p := range patterns {
		want := naiveSearch(texts, p)
		if counts[i] != len(want) {
			t.Fatalf("pattern %d (%q): count=%d, expected %d", i, p, counts[i], len(want))
		}
		assertHitsEqual(t, hitSets[i], want)
	}
}

// Cursor = search: extending a cursor one byte at a time, right to left,
// matches building a cursor directly from the same suffix.
func TestCursorEqualsDirectSearch(t *testing.T) {
	texts := [][]byte{[]byte("mississippimississippi")}
	idx, err := Build(texts, alphabet.ASCIIPrintable(), printableConfig())
	if err != nil {
		t.Fatal(err)
	}

	pattern := []byte("ississ")
	direct, err := idx.CursorForQuery(pattern)
	if err != nil {
		t.Fatal(err)
	}

	stepwise := idx.CursorEmpty()
	for i := len(pattern) - 1; i >= 0; i-- {
		d := idx.alpha.Encode(pattern[i])
		stepwise.ExtendQueryFront(d)
	}

	if direct.Count() != stepwise.Count() {
		t.Fatalf("direct count=%d, stepwise count=%d", direct.Count(), stepwise.Count())
	}
	assertHitsEqual(t, direct.Locate(), stepwise.Locate())
}

// Batched engine equivalence: the batched CountMany/LocateMany results
// equal running one query at a time through the non-batched facade.
func TestBatchedEngineMatchesOneAtATime(t *testing.T) {
	texts := [][]byte{
		[]byte("to be or not to be that is the question"),
		[]byte("whether tis nobler in the mind to suffer"),
	}
	idx, err := Build(texts, alphabet.ASCIIPrintable(), printableConfig())
	if err != nil {
		t.Fatal(err)
	}

	patterns := [][]byte{
		[]byte("to"), []byte("be"), []byte("the"), []byte(" "), []byte("not"),
		[]byte("question"), []byte("zzzz"), []byte("o"), []byte("i"), []byte("n"),
	}

	counts, err := idx.CountMany(patterns)
	if err != nil {
		t.Fatal(err)
	}
	hitSets, err := idx.LocateMany(patterns)
	if err != nil {
		t.Fatal(err)
	}

	for i, p := range patterns {
		wantCount, err := idx.Count(p)
		if err != nil {
			t.Fatal(err)
		}
		if counts[i] != wantCount {
			t.Fatalf("pattern %d (%q): batched count=%d, one-at-a-time=%d", i, p, counts[i], wantCount)
		}

		wantHits, err := idx.Locate(p)
		if err != nil {
			t.Fatal(err)
		}
		assertHitsEqual(t, hitSets[i], wantHits)
	}
}

// Round-trip on serialisation: Save then Load reproduces identical
// query-observable behavior.
func TestSaveLoadRoundTrip(t *testing.T) {
	texts := [][]byte{
		[]byte("cccaaagggttt"),
		[]byte("acgtacgtacgt"),
	}
	idx, err := Build(texts, alphabet.ASCIIDNA(), DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := idx.Save(&buf); err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(&buf)
	if err != nil {
		t.Fatal(err)
	}

	for _, p := range []string{"gt", "c", "a", "tt", ""} {
		pattern := []byte(p)
		wantCount, err := idx.Count(pattern)
		if err != nil {
			t.Fatal(err)
		}
		gotCount, err := loaded.Count(pattern)
		if err != nil {
			t.Fatal(err)
		}
		if wantCount != gotCount {
			t.Fatalf("pattern %q: original count=%d, reloaded count=%d", p, wantCount, gotCount)
		}

		wantHits, err := idx.Locate(pattern)
		if err != nil {
			t.Fatal(err)
		}
		gotHits, err := loaded.Locate(pattern)
		if err != nil {
			t.Fatal(err)
		}
		assertHitsEqual(t, gotHits, wantHits)
	}
}

// BadSymbol must also surface from Build when an input text contains a
// byte outside the alphabet (an extension of spec.md §7's
// construction-time error set).
func TestBuildRejectsOutOfAlphabetText(t *testing.T) {
	texts := [][]byte{[]byte("acgtX")}
	_, err := Build(texts, alphabet.ASCIIDNA(), DefaultConfig())
	if err == nil {
		t.Fatal("expected an error for a text byte outside the alphabet")
	}
	if _, ok := err.(*BadSymbolError); !ok {
		t.Fatalf("expected *BadSymbolError, got %T: %v", err, err)
	}
}

func TestBuildRejectsBadConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SASamplingRate = 0
	_, err := Build([][]byte{[]byte("acgt")}, alphabet.ASCIIDNA(), cfg)
	if err == nil {
		t.Fatal("expected BadConfigError")
	}
	if _, ok := err.(*BadConfigError); !ok {
		t.Fatalf("expected *BadConfigError, got %T: %v", err, err)
	}
}
