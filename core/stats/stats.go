// core/stats/stats.go
package stats

import (
	"sync"

	"bcseq-core/classify"
)

// Statistics aggregates classification outcomes. It is safe for
// concurrent use; each read must be recorded exactly once.
type Statistics struct {
	mu         sync.Mutex
	totalReads int
	matches    int
	noBarcode  int
	byBarcode  Counts
	byOrient   Counts
	byCategory Counts
}

// New returns empty statistics.
func New() *Statistics { return &Statistics{} }

// Record counts one read's classification.
func (s *Statistics) Record(c classify.Classification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.totalReads++
	if c.Best == nil {
		s.noBarcode++
		s.byCategory.Add(classify.NoBarcode, 1)
		return
	}
	s.matches++
	s.byBarcode.Add(c.Best.Barcode.Name, 1)
	s.byOrient.Add(c.Best.Orientation.Code(), 1)
	s.byCategory.Add(c.Category, 1)
}

// Merge adds other's counts to s. Keys new to s are appended in other's
// order. other must not be s.
func (s *Statistics) Merge(other *Statistics) {
	other.mu.Lock()
	o := Statistics{
		totalReads: other.totalReads,
		matches:    other.matches,
		noBarcode:  other.noBarcode,
		byBarcode:  other.byBarcode.clone(),
		byOrient:   other.byOrient.clone(),
		byCategory: other.byCategory.clone(),
	}
	other.mu.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.totalReads += o.totalReads
	s.matches += o.matches
	s.noBarcode += o.noBarcode
	o.byBarcode.Each(s.byBarcode.Add)
	o.byOrient.Each(s.byOrient.Add)
	o.byCategory.Each(s.byCategory.Add)
}

// Snapshot is a point-in-time copy of the statistics, shaped for
// serialization.
type Snapshot struct {
	RunID                string  `json:"run_id,omitempty"`
	TotalReads           int     `json:"total_reads"`
	TotalBarcodeMatches  int     `json:"total_barcode_matches"`
	MatchesByBarcode     Counts  `json:"matches_by_barcode"`
	MatchesByOrientation Counts  `json:"matches_by_orientation"`
	MatchesByCategory    Counts  `json:"matches_by_category"`
	NoBarcodeCount       int     `json:"no_barcode_count"`
	MatchRate            float64 `json:"match_rate"`
}

// Snapshot returns the current state. It may be called mid-run.
func (s *Statistics) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	rate := 0.0
	if s.totalReads > 0 {
		rate = float64(s.matches) / float64(s.totalReads)
	}
	return Snapshot{
		TotalReads:           s.totalReads,
		TotalBarcodeMatches:  s.matches,
		MatchesByBarcode:     s.byBarcode.clone(),
		MatchesByOrientation: s.byOrient.clone(),
		MatchesByCategory:    s.byCategory.clone(),
		NoBarcodeCount:       s.noBarcode,
		MatchRate:            rate,
	}
}

// TotalReads returns the number of reads recorded so far.
func (s *Statistics) TotalReads() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalReads
}
