// core/match/scan.go
package match

// cell is one entry of an edit-distance column: the cheapest alignment of
// a pattern prefix ending at the current text position.
type cell struct {
	cost  int
	start int
	ops   EditOps
}

// before orders cells by cost, then by start.
func before(a, b cell) bool {
	return a.cost < b.cost || (a.cost == b.cost && a.start < b.start)
}

// step extends the three neighbouring alignments by one operation. Equal
// (cost, start) pairs prefer a diagonal step, then a deletion, then an
// insertion.
func step(diag, del, ins cell, same bool) cell {
	best := diag
	if !same {
		best.cost++
		best.ops.Substitutions++
	}
	del.cost++
	del.ops.Deletions++
	if before(del, best) {
		best = del
	}
	ins.cost++
	ins.ops.Insertions++
	if before(ins, best) {
		best = ins
	}
	return best
}

// scanner runs edit-distance sweeps of pat over text, either with a free
// start anywhere in text (run) or anchored at one start (anchor).
type scanner struct {
	text, pat []byte
	k         int
	stopAt    int // last end position examined by run; callers may lower it
	prev, cur []cell
}

func newScanner(text, pat []byte, k int) *scanner {
	return &scanner{
		text: text, pat: pat, k: k, stopAt: len(text),
		prev: make([]cell, len(pat)+1),
		cur:  make([]cell, len(pat)+1),
	}
}

// run calls emit for every end position whose cheapest alignment costs at
// most k; among the cheapest, the earliest start is reported. emit
// returns false to stop.
func (s *scanner) run(emit func(Match) bool) {
	m := len(s.pat)
	prev, cur := s.prev, s.cur
	for i := 0; i <= m; i++ {
		prev[i] = cell{cost: i, ops: EditOps{Deletions: i}}
	}
	if prev[m].cost <= s.k {
		if !emit(Match{Start: 0, End: 0, Ops: prev[m].ops}) {
			return
		}
	}

	for j := 1; j <= len(s.text) && j <= s.stopAt; j++ {
		tc := s.text[j-1]
		cur[0] = cell{start: j}
		for i := 1; i <= m; i++ {
			cur[i] = step(prev[i-1], cur[i-1], prev[i], s.pat[i-1] == tc)
		}
		if c := cur[m]; c.cost <= s.k {
			if !emit(Match{Start: c.start, End: j, Text: string(s.text[c.start:j]), Ops: c.ops}) {
				return
			}
		}
		prev, cur = cur, prev
	}
}

// anchor aligns the whole pattern against text[start:end] for each end in
// (start, start+len(pat)+k] and calls fn, in increasing end order, for
// every end costing at most k. It stops once no pattern prefix is within
// k, since costs only grow from there.
func (s *scanner) anchor(start int, fn func(end int, c cell)) {
	m := len(s.pat)
	prev, cur := s.prev, s.cur
	for i := 0; i <= m; i++ {
		prev[i] = cell{cost: i, start: start, ops: EditOps{Deletions: i}}
	}
	limit := start + m + s.k
	if limit > len(s.text) {
		limit = len(s.text)
	}
	for j := start + 1; j <= limit; j++ {
		tc := s.text[j-1]
		cur[0] = cell{cost: j - start, start: start, ops: EditOps{Insertions: j - start}}
		low := cur[0].cost
		for i := 1; i <= m; i++ {
			cur[i] = step(prev[i-1], cur[i-1], prev[i], s.pat[i-1] == tc)
			if cur[i].cost < low {
				low = cur[i].cost
			}
		}
		if cur[m].cost <= s.k {
			fn(j, cur[m])
		}
		if low > s.k {
			return
		}
		prev, cur = cur, prev
	}
}

// bestAt returns the cheapest occurrence starting at start, the shortest
// one among equals.
func (s *scanner) bestAt(start int) (Match, bool) {
	var (
		best  Match
		found bool
	)
	s.anchor(start, func(end int, c cell) {
		if !found || c.cost < best.Ops.Total() {
			best = Match{Start: start, End: end, Text: string(s.text[start:end]), Ops: c.ops}
			found = true
		}
	})
	return best, found
}
