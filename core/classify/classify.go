// core/classify/classify.go
package classify

import (
	"fmt"
	"strings"

	"bcseq-core/barcode"
	"bcseq-core/match"
	"bcseq-core/seqops"
)

// NoBarcode is the category of reads without a qualifying match.
const NoBarcode = barcode.NoBarcode

// Policy selects how candidates across the catalog become one decision.
type Policy int

const (
	// FirstMatch stops at the first barcode (catalog order, FR before RC)
	// that matches at all, regardless of how many edits a later barcode
	// would need.
	FirstMatch Policy = iota
	// BestMatch scans every barcode and orientation and keeps the global
	// minimum cost.
	BestMatch
)

func (p Policy) String() string {
	if p == BestMatch {
		return "best"
	}
	return "first"
}

// ParsePolicy accepts "first" and "best".
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "first", "first-match":
		return FirstMatch, nil
	case "best", "best-match", "exhaustive":
		return BestMatch, nil
	}
	return FirstMatch, fmt.Errorf("invalid policy %q (want first or best)", s)
}

// Candidate is one occurrence of a catalog barcode in a read.
type Candidate struct {
	Barcode     *barcode.Barcode
	Index       int // position of Barcode in the catalog
	Orientation barcode.Orientation
	Position    int
	Text        string
	Ops         match.EditOps
}

// Mismatches is the total edit cost of the candidate.
func (c Candidate) Mismatches() int { return c.Ops.Total() }

// Classification is the decision for one read. Best is nil iff Category
// is NoBarcode.
type Classification struct {
	Best     *Candidate
	Category string
}

// Matched reports whether a barcode was found.
func (c Classification) Matched() bool { return c.Best != nil }

// Classifier classifies reads against a fixed catalog. It holds no
// mutable state and is safe for concurrent use.
type Classifier struct {
	cat    *barcode.Catalog
	maxMM  int
	policy Policy
}

// New returns a classifier. A negative budget is treated as 0.
func New(cat *barcode.Catalog, maxMismatches int, policy Policy) *Classifier {
	if maxMismatches < 0 {
		maxMismatches = 0
	}
	return &Classifier{cat: cat, maxMM: maxMismatches, policy: policy}
}

// Catalog returns the catalog the classifier was built with.
func (c *Classifier) Catalog() *barcode.Catalog { return c.cat }

// MaxMismatches returns the edit budget.
func (c *Classifier) MaxMismatches() int { return c.maxMM }

// Policy returns the configured policy.
func (c *Classifier) Policy() Policy { return c.policy }

// Classify applies the configured policy.
func (c *Classifier) Classify(seq []byte) Classification {
	if c.policy == BestMatch {
		return c.ClassifyBest(seq)
	}
	return c.ClassifyFirst(seq)
}

// ClassifyFirst tries barcodes in catalog order, Forward then
// ReverseComplement, and returns the first hit.
func (c *Classifier) ClassifyFirst(seq []byte) Classification {
	text := upper(seq)
	for i := 0; i < c.cat.Len(); i++ {
		b := c.cat.At(i)
		for _, o := range barcode.Orientations {
			m, ok, err := match.FindFirst(text, b.Pattern(o), c.maxMM)
			if err != nil || !ok {
				continue
			}
			return c.decide(candidate(b, i, o, m))
		}
	}
	return Classification{Category: NoBarcode}
}

// ClassifyBest returns the globally cheapest candidate. Ties go to the
// earlier barcode, then the earlier position, then Forward.
func (c *Classifier) ClassifyBest(seq []byte) Classification {
	text := upper(seq)
	var best *Candidate
	for i := 0; i < c.cat.Len(); i++ {
		b := c.cat.At(i)
		for _, o := range barcode.Orientations {
			m, ok, err := match.FindBest(text, b.Pattern(o), c.maxMM)
			if err != nil || !ok {
				continue
			}
			cand := candidate(b, i, o, m)
			if best == nil || less(&cand, best) {
				best = &cand
			}
		}
	}
	if best == nil {
		return Classification{Category: NoBarcode}
	}
	return c.decide(*best)
}

// Candidates enumerates every non-dominated occurrence of every barcode in
// both orientations, ordered by barcode, then orientation, then position.
func (c *Classifier) Candidates(seq []byte) []Candidate {
	text := upper(seq)
	var out []Candidate
	for i := 0; i < c.cat.Len(); i++ {
		b := c.cat.At(i)
		for _, o := range barcode.Orientations {
			ms, err := match.FindAll(text, b.Pattern(o), c.maxMM)
			if err != nil {
				continue
			}
			for _, m := range ms {
				out = append(out, candidate(b, i, o, m))
			}
		}
	}
	return out
}

// Category names the bucket of a candidate. A nil candidate is NoBarcode.
func Category(c *Candidate, single bool) string {
	if c == nil {
		return NoBarcode
	}
	if single || !c.Barcode.Location.Located() {
		return "barcode_orient" + c.Orientation.Code()
	}
	return "barcode" + c.Barcode.Location.Code() + "_orient" + c.Orientation.Code()
}

// CombinedCategory folds the orientation out of a category, so
// "barcode5_orientFR" and "barcode5_orientRC" both become
// "combined_barcode5". NoBarcode and unknown names are returned unchanged.
func CombinedCategory(category string) string {
	if !strings.HasPrefix(category, "barcode") {
		return category
	}
	i := strings.Index(category, "_orient")
	if i < 0 {
		return category
	}
	return "combined_" + category[:i]
}

func (c *Classifier) decide(cand Candidate) Classification {
	return Classification{Best: &cand, Category: Category(&cand, c.cat.SingleBarcodeMode())}
}

func candidate(b *barcode.Barcode, idx int, o barcode.Orientation, m match.Match) Candidate {
	return Candidate{Barcode: b, Index: idx, Orientation: o, Position: m.Start, Text: m.Text, Ops: m.Ops}
}

func less(a, b *Candidate) bool {
	if a.Mismatches() != b.Mismatches() {
		return a.Mismatches() < b.Mismatches()
	}
	if a.Index != b.Index {
		return a.Index < b.Index
	}
	if a.Position != b.Position {
		return a.Position < b.Position
	}
	return a.Orientation < b.Orientation
}

// upper returns seq in upper case, copying only when needed.
func upper(seq []byte) []byte {
	for _, ch := range seq {
		if ch >= 'a' && ch <= 'z' {
			return seqops.ToUpper(append([]byte(nil), seq...))
		}
	}
	return seq
}
