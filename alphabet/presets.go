package alphabet

// Prebuilt alphabets for common finite-alphabet sequence data, grounded on
// the reference implementation's preset constructors. The fixed presets
// panic only if the hardcoded symbol tables below are internally
// inconsistent, which would be a programming error in this file; U8Until
// also panics for max = 255 (see its doc).

func mustBuild(groups [][]byte, numNonSearchable int) *Alphabet {
	a, err := FromAmbiguousGroups(groups, numNonSearchable)
	if err != nil {
		panic(err)
	}
	return a
}

func pairs(strs ...string) [][]byte {
	groups := make([][]byte, len(strs))
	for i, s := range strs {
		groups[i] = []byte(s)
	}
	return groups
}

// ASCIIDNA includes only the four bases A, C, G and T (case-insensitive).
func ASCIIDNA() *Alphabet {
	return mustBuild(pairs("Aa", "Cc", "Gg", "Tt"), 0)
}

// ASCIIDNAWithN includes the four DNA bases plus N (case-insensitive); N is
// not searchable.
func ASCIIDNAWithN() *Alphabet {
	return mustBuild(pairs("Aa", "Cc", "Gg", "Tt", "Nn"), 1)
}

// ASCIIDNAIUPAC includes every IUPAC DNA ambiguity code except gaps
// (case-insensitive); all of them are searchable.
func ASCIIDNAIUPAC() *Alphabet {
	return mustBuild(pairs(
		"Aa", "Cc", "Gg", "Tt", "Nn", "Rr", "Yy", "Kk", "Mm", "Ss", "Ww", "Bb", "Dd", "Hh", "Vv",
	), 0)
}

// ASCIIDNAIUPACAsDNAWithN is functionally equivalent to ASCIIDNAWithN, but
// additionally accepts (and folds to N) every other IUPAC DNA ambiguity
// code on input; N remains non-searchable.
func ASCIIDNAIUPACAsDNAWithN() *Alphabet {
	return mustBuild(pairs("Aa", "Cc", "Gg", "Tt", "NnRrYyKkMmSsWwBbDdHhVv"), 1)
}

// AminoAcid includes the 20 standard amino acid one-letter codes plus O and
// U (case-insensitive).
func AminoAcid() *Alphabet {
	return mustBuild(pairs(
		"Aa", "Cc", "Dd", "Ee", "Ff", "Gg", "Hh", "Ii", "Kk", "Ll", "Mm", "Nn",
		"Oo", "Pp", "Qq", "Rr", "Ss", "Tt", "Uu", "Vv", "Ww", "Yy",
	), 0)
}

// AminoAcidIUPAC includes every IUPAC amino acid code except gaps
// (case-insensitive), plus the stop codon '*'.
func AminoAcidIUPAC() *Alphabet {
	return mustBuild(pairs(
		"Aa", "Bb", "Cc", "Dd", "Ee", "Ff", "Gg", "Hh", "Ii", "Jj", "Kk", "Ll", "Mm",
		"Nn", "Oo", "Pp", "Qq", "Rr", "Ss", "Tt", "Uu", "Vv", "Ww", "Xx", "Yy", "Zz", "*",
	), 0)
}

// ASCIIPrintable includes the printable ASCII range 0x20..=0x7e.
func ASCIIPrintable() *Alphabet {
	groups := make([][]byte, 0, 0x7f-0x20)
	for b := 0x20; b <= 0x7e; b++ {
		groups = append(groups, []byte{byte(b)})
	}
	return mustBuild(groups, 0)
}

// U8Until includes every byte value 0..=max as its own dense symbol.
// U8Until(255) panics, since 256 symbols exceed the 255-symbol limit.
func U8Until(max byte) *Alphabet {
	groups := make([][]byte, int(max)+1)
	for b := 0; b <= int(max); b++ {
		groups[b] = []byte{byte(b)}
	}
	return mustBuild(groups, 0)
}
