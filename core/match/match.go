// core/match/match.go
package match

import (
	"bytes"
	"errors"
	"sort"

	"github.com/willf/bitset"
)

// ErrInvalidPattern is returned for an empty pattern.
var ErrInvalidPattern = errors.New("empty pattern")

// EditOps breaks an occurrence's cost down by operation.
type EditOps struct {
	Substitutions int `json:"substitutions"`
	Insertions    int `json:"insertions"`
	Deletions     int `json:"deletions"`
}

// Total is the edit distance of the occurrence.
func (e EditOps) Total() int { return e.Substitutions + e.Insertions + e.Deletions }

// Match is one occurrence of the pattern. Text is text[Start:End], whose
// length differs from the pattern's when indels were used.
type Match struct {
	Start int
	End   int
	Text  string
	Ops   EditOps
}

// Mismatches is the total number of edit operations.
func (m Match) Mismatches() int { return m.Ops.Total() }

/* ---------------------------- exact (k = 0) ---------------------------- */

// exactAll reports every start i with text[i:i+len(pat)] == pat,
// overlapping starts included.
func exactAll(text, pat []byte) []Match {
	pl := len(pat)
	var out []Match
	for i := 0; i+pl <= len(text); {
		j := bytes.Index(text[i:], pat)
		if j < 0 {
			break
		}
		pos := i + j
		out = append(out, Match{Start: pos, End: pos + pl, Text: string(text[pos : pos+pl])})
		i = pos + 1
	}
	return out
}

func exactFirst(text, pat []byte) (Match, bool) {
	j := bytes.Index(text, pat)
	if j < 0 {
		return Match{}, false
	}
	return Match{Start: j, End: j + len(pat), Text: string(text[j : j+len(pat)])}, true
}

/* --------------------------- FindAll / First / Best --------------------------- */

// FindAll returns every occurrence of pat in text with cost <= k that is
// not overlapped by a strictly cheaper occurrence. One occurrence is kept
// per start: the cheapest, then the shortest.
func FindAll(text, pat []byte, k int) ([]Match, error) {
	if len(pat) == 0 {
		return nil, ErrInvalidPattern
	}
	if k <= 0 {
		return exactAll(text, pat), nil
	}

	type span struct{ start, end int }
	sc := newScanner(text, pat, k)
	// reach[c] holds, per start, the union of all spans of cost c.
	reach := make([][]span, k+1)
	far := make([]int, k+1)
	var cand []Match
	for s := range text {
		for c := range far {
			far[c] = s
		}
		sc.anchor(s, func(end int, c cell) { far[c.cost] = end })
		for c, e := range far {
			if e > s {
				reach[c] = append(reach[c], span{s, e})
			}
		}
		if m, ok := sc.bestAt(s); ok {
			cand = append(cand, m)
		}
	}

	// Positions covered by any occurrence cheaper than the level being
	// filtered; equal-cost overlaps are all kept.
	covered := bitset.New(uint(len(text)))
	var out []Match
	for c := 0; c <= k; c++ {
		for _, m := range cand {
			if m.Ops.Total() == c && !overlaps(covered, m) {
				out = append(out, m)
			}
		}
		for _, sp := range reach[c] {
			for p := sp.start; p < sp.end; p++ {
				covered.Set(uint(p))
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out, nil
}

// FindFirst returns the leftmost occurrence with cost <= k. Among
// occurrences sharing that start the cheapest, then shortest, wins. The
// free-start sweep stops at the first qualifying end; only starts within
// reach of that end are then checked one by one.
func FindFirst(text, pat []byte, k int) (Match, bool, error) {
	if len(pat) == 0 {
		return Match{}, false, ErrInvalidPattern
	}
	if k <= 0 {
		m, ok := exactFirst(text, pat)
		return m, ok, nil
	}

	var (
		first Match
		found bool
	)
	sc := newScanner(text, pat, k)
	sc.run(func(m Match) bool {
		first, found = m, true
		return false
	})
	if !found {
		return Match{}, false, nil
	}
	// No occurrence ends before first.End, so none starts before lo.
	lo := first.End - len(pat) - k
	if lo < 0 {
		lo = 0
	}
	for s := lo; s <= first.Start; s++ {
		if m, ok := sc.bestAt(s); ok {
			return m, true, nil
		}
	}
	return first, true, nil
}

// FindBest returns the occurrence with the fewest edits. Ties keep the
// earliest start; among equal starts the shortest stays.
func FindBest(text, pat []byte, k int) (Match, bool, error) {
	if len(pat) == 0 {
		return Match{}, false, ErrInvalidPattern
	}
	if k <= 0 {
		m, ok := exactFirst(text, pat)
		return m, ok, nil
	}

	var (
		best  Match
		found bool
	)
	newScanner(text, pat, k).run(func(m Match) bool {
		if !found || m.Ops.Total() < best.Ops.Total() ||
			(m.Ops.Total() == best.Ops.Total() && m.Start < best.Start) {
			best, found = m, true
		}
		// Later exact hits cannot start earlier.
		return best.Ops.Total() > 0
	})
	return best, found, nil
}

func overlaps(covered *bitset.BitSet, m Match) bool {
	for p := m.Start; p < m.End; p++ {
		if covered.Test(uint(p)) {
			return true
		}
	}
	return false
}
