// core/classify/classify_test.go
package classify

import (
	"testing"

	"bcseq-core/barcode"
)

func catalog(t *testing.T, specs ...barcode.Barcode) *barcode.Catalog {
	t.Helper()
	c, _, err := barcode.NewCatalog(specs)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func bc(seq string, loc barcode.Location, name string) barcode.Barcode {
	return barcode.Barcode{Sequence: seq, Location: loc, Name: name}
}

func TestExactForwardAndReverse(t *testing.T) {
	cls := New(catalog(t, bc("TCGCGAGGC", barcode.Unknown, "")), 0, FirstMatch)

	got := cls.Classify([]byte("AAAATCGCGAGGCAAA"))
	if !got.Matched() || got.Best.Position != 4 || got.Best.Orientation != barcode.Forward {
		t.Fatalf("forward: %+v", got)
	}
	if got.Category != "barcode_orientFR" {
		t.Fatalf("category = %s", got.Category)
	}

	got = cls.Classify([]byte("AAGCCTCGCGAAA"))
	if !got.Matched() || got.Best.Orientation != barcode.ReverseComplement || got.Best.Position != 2 {
		t.Fatalf("reverse: %+v", got)
	}
	if got.Category != "barcode_orientRC" {
		t.Fatalf("category = %s", got.Category)
	}
}

func TestSingleBarcodeNoMatch(t *testing.T) {
	cls := New(catalog(t, bc("TCGCGAGGC", barcode.Unknown, "")), 0, FirstMatch)
	got := cls.Classify([]byte("AAAAAAAAAAAAAAAAAAAA"))
	if got.Matched() || got.Category != NoBarcode {
		t.Fatalf("want noBarcode, got %+v", got)
	}
	if best := cls.ClassifyBest([]byte("AAAAAAAAAAAAAAAAAAAA")); best.Matched() {
		t.Fatalf("best: %+v", best)
	}
}

func TestTwoBarcodeLocated(t *testing.T) {
	cat := catalog(t,
		bc("TCGCGAGGC", barcode.FivePrime, "5"),
		bc("GGCCGGCCGG", barcode.ThreePrime, "3"),
	)
	seq := []byte("AAAAAATCGCGAGGCAAAAAAAGGCCGGCCGGAAAAAA")
	cls := New(cat, 0, FirstMatch)

	cands := cls.Candidates(seq)
	if len(cands) != 2 {
		t.Fatalf("want 2 candidates, got %+v", cands)
	}
	if cands[0].Position != 6 || cands[0].Barcode.Name != "5" || cands[0].Orientation != barcode.Forward {
		t.Fatalf("candidate 0: %+v", cands[0])
	}
	if cands[1].Position != 22 || cands[1].Barcode.Name != "3" || cands[1].Orientation != barcode.Forward {
		t.Fatalf("candidate 1: %+v", cands[1])
	}

	got := cls.Classify(seq)
	if got.Category != "barcode5_orientFR" || got.Best.Position != 6 {
		t.Fatalf("first-match: %+v", got)
	}
}

func TestFuzzyBudget(t *testing.T) {
	cls := New(catalog(t, bc("TCGCGAGGC", barcode.Unknown, "")), 1, FirstMatch)

	got := cls.Classify([]byte("AAAAAATCGCTAGGCAAAAAA"))
	if !got.Matched() {
		t.Fatal("one substitution should match with k=1")
	}
	if got.Best.Ops.Substitutions != 1 || got.Best.Mismatches() != 1 {
		t.Fatalf("ops = %+v", got.Best.Ops)
	}
	if got.Best.Text != "TCGCTAGGC" {
		t.Fatalf("text = %s", got.Best.Text)
	}

	if got := cls.Classify([]byte("AAAAAATCGCTATGCAAAAAA")); got.Matched() {
		t.Fatalf("two substitutions must not match: %+v", got)
	}
}

func TestFirstVersusBestDivergence(t *testing.T) {
	cat := catalog(t,
		bc("TCGCGAGGC", barcode.FivePrime, "A"),
		bc("GGGAAA", barcode.ThreePrime, "B"),
	)
	// A with one substitution at 10, B exact at 2
	seq := []byte("TTGGGAAATTTCGCTAGGCTTTT")

	first := New(cat, 1, FirstMatch).Classify(seq)
	if first.Best == nil || first.Best.Barcode.Name != "A" || first.Best.Position != 10 || first.Best.Mismatches() != 1 {
		t.Fatalf("first-match: %+v", first.Best)
	}
	if first.Category != "barcode5_orientFR" {
		t.Fatalf("first-match category = %s", first.Category)
	}

	best := New(cat, 1, BestMatch).Classify(seq)
	if best.Best == nil || best.Best.Barcode.Name != "B" || best.Best.Position != 2 || best.Best.Mismatches() != 0 {
		t.Fatalf("best-match: %+v", best.Best)
	}
	if best.Category != "barcode3_orientFR" {
		t.Fatalf("best-match category = %s", best.Category)
	}
}

func TestBestTieBreaks(t *testing.T) {
	// Same sequence twice: the earlier catalog entry wins.
	cat := catalog(t, bc("TCGCGAGGC", barcode.FivePrime, "first"), bc("TCGCGAGGC", barcode.ThreePrime, "second"))
	got := New(cat, 0, BestMatch).Classify([]byte("AATCGCGAGGCAA"))
	if got.Best.Barcode.Name != "first" {
		t.Fatalf("catalog order tie: %+v", got.Best)
	}

	// A palindrome matches both orientations at the same place: Forward wins.
	pal := catalog(t, bc("ACGT", barcode.Unknown, "pal"))
	got = New(pal, 0, BestMatch).Classify([]byte("TTACGTTT"))
	if got.Best.Orientation != barcode.Forward || got.Category != "barcode_orientFR" {
		t.Fatalf("orientation tie: %+v", got)
	}

	// Two exact copies: earliest position wins.
	got = New(pal, 0, BestMatch).Classify([]byte("TTTTTTACGTTTACGT"))
	if got.Best.Position != 6 {
		t.Fatalf("position tie: %+v", got.Best)
	}
}

func TestLowerCaseAndEmptyInput(t *testing.T) {
	cls := New(catalog(t, bc("TCGCGAGGC", barcode.Unknown, "")), 0, FirstMatch)
	in := []byte("aaaatcgcgaggcaaa")
	got := cls.Classify(in)
	if !got.Matched() || got.Best.Position != 4 {
		t.Fatalf("lower case: %+v", got)
	}
	if string(in) != "aaaatcgcgaggcaaa" {
		t.Fatal("input was modified")
	}
	if got := cls.Classify(nil); got.Category != NoBarcode {
		t.Fatalf("empty: %+v", got)
	}
}

func TestUnknownLocationInLocatedCatalog(t *testing.T) {
	cat := catalog(t, bc("TCGCGAGGC", barcode.FivePrime, "5"), bc("GGCCGGCCGG", barcode.Unknown, "u"))
	got := New(cat, 0, FirstMatch).Classify([]byte("AAGGCCGGCCGGAA"))
	if got.Category != "barcode_orientFR" {
		t.Fatalf("category = %s", got.Category)
	}
}

func TestCategoryAndCombined(t *testing.T) {
	if Category(nil, false) != NoBarcode {
		t.Fatal("nil candidate")
	}
	cases := map[string]string{
		"barcode5_orientFR": "combined_barcode5",
		"barcode3_orientRC": "combined_barcode3",
		"barcode_orientRC":  "combined_barcode",
		NoBarcode:           NoBarcode,
		"other":             "other",
	}
	for in, want := range cases {
		if got := CombinedCategory(in); got != want {
			t.Errorf("CombinedCategory(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParsePolicy(t *testing.T) {
	for in, want := range map[string]Policy{"": FirstMatch, "first": FirstMatch, "BEST": BestMatch, "exhaustive": BestMatch} {
		got, err := ParsePolicy(in)
		if err != nil || got != want {
			t.Errorf("ParsePolicy(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParsePolicy("fastest"); err == nil {
		t.Error("expected error")
	}
}
