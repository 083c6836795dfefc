// internal/pipeline/pipeline.go
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"sort"

	"github.com/exascience/pargo/pipeline"

	"bcseq-core/classify"
	"bcseq-core/stats"
	"bcseq/internal/reads"
)

const (
	minBatchSize = 512
	maxBatchSize = 16384
)

// Config controls both passes.
type Config struct {
	Threads int              // classification workers (0 = all CPUs)
	Mates   reads.MatePolicy // which reads of a pair are searched

	// Emit only
	Categories        []string // sinks opened before the first record
	MergeOrientations bool     // FR and RC of a location share one sink
	KeepUnmatched     bool     // route noBarcode records

	// Progress, when set, is called from one goroutine with the number
	// of records just handled.
	Progress func(n int)
}

// Result is the outcome of the classification pass.
type Result struct {
	Stats      *stats.Statistics
	Table      *Table
	Duplicates int // records skipped because their identity was seen
}

// classifyRecord applies the mate policy.
func classifyRecord(cls Classifier, rec *reads.Record, mates reads.MatePolicy) classify.Classification {
	c := cls.Classify(rec.Seq)
	if c.Best == nil && mates == reads.BothReads && len(rec.Mate) > 0 {
		if c2 := cls.Classify(rec.Mate); c2.Best != nil {
			return c2
		}
	}
	return c
}

// recordSource feeds a pargo pipeline from a reads.Reader. Records whose
// identity was already fetched are dropped here, so each identity is
// classified and counted once.
type recordSource struct {
	ctx  context.Context
	rd   reads.Reader
	seen map[string]struct{}
	data []*reads.Record
	err  error
	dups int
}

func (s *recordSource) Err() error { return s.err }

func (s *recordSource) Prepare(_ context.Context) int { return -1 }

func (s *recordSource) Fetch(size int) (fetched int) {
	batch := make([]*reads.Record, 0, size)
	for len(batch) < size {
		if err := s.ctx.Err(); err != nil {
			s.err = err
			break
		}
		rec, err := s.rd.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			s.err = err
			break
		}
		if _, dup := s.seen[rec.ID]; dup {
			s.dups++
			continue
		}
		s.seen[rec.ID] = struct{}{}
		batch = append(batch, rec)
	}
	s.data = batch
	return len(batch)
}

func (s *recordSource) Data() interface{} { return s.data }

type batchResult struct {
	stats *stats.Statistics
	ids   []string
	cats  []string
}

// Classify is the first pass. Records are classified in parallel and
// merged in source order, so the statistics keep first-seen key order.
func Classify(ctx context.Context, cfg Config, src reads.Source, cls Classifier) (*Result, error) {
	rd, err := src.Open()
	if err != nil {
		return nil, err
	}
	defer rd.Close()

	threads := cfg.Threads
	if threads <= 0 {
		threads = runtime.GOMAXPROCS(0)
	}
	res := &Result{Stats: stats.New(), Table: NewTable()}
	in := &recordSource{ctx: ctx, rd: rd, seen: make(map[string]struct{}, 1<<12)}

	var p pipeline.Pipeline
	p.Source(in)
	p.SetVariableBatchSize(minBatchSize, maxBatchSize)
	p.Add(
		pipeline.LimitedPar(threads, pipeline.Receive(func(_ int, data interface{}) interface{} {
			recs := data.([]*reads.Record)
			out := &batchResult{stats: stats.New(), ids: make([]string, len(recs)), cats: make([]string, len(recs))}
			for i, rec := range recs {
				c := classifyRecord(cls, rec, cfg.Mates)
				out.stats.Record(c)
				out.ids[i] = rec.ID
				out.cats[i] = c.Category
			}
			return out
		})),
		pipeline.StrictOrd(pipeline.Receive(func(_ int, data interface{}) interface{} {
			part := data.(*batchResult)
			res.Stats.Merge(part.stats)
			for i, id := range part.ids {
				res.Table.Put(id, part.cats[i])
			}
			if cfg.Progress != nil {
				cfg.Progress(len(part.ids))
			}
			return nil
		})),
	)
	p.Run()
	res.Duplicates = in.dups

	if err := ctx.Err(); err != nil {
		return res, err
	}
	if in.err != nil {
		return res, fmt.Errorf("classify %s: %w", src.Name(), in.err)
	}
	if err := p.Err(); err != nil {
		return res, fmt.Errorf("classify %s: %w", src.Name(), err)
	}
	return res, nil
}

// SinkName maps a category to the output it is written to.
func SinkName(category string, mergeOrientations bool) string {
	if mergeOrientations && category != classify.NoBarcode {
		return classify.CombinedCategory(category)
	}
	return category
}

// Emit is the second pass. It returns the number of records written per
// sink name. Declared categories get a sink even when nothing is written
// to them.
func Emit(ctx context.Context, cfg Config, src reads.Source, table *Table, factory reads.SinkFactory) (counts map[string]int, err error) {
	sinks := make(map[string]reads.Sink)
	counts = make(map[string]int)
	defer func() {
		names := make([]string, 0, len(sinks))
		for n := range sinks {
			names = append(names, n)
		}
		sort.Strings(names)
		for _, n := range names {
			if cerr := sinks[n].Close(); cerr != nil && err == nil {
				err = fmt.Errorf("close %s: %w", n, cerr)
			}
		}
	}()

	sinkFor := func(category string) (reads.Sink, string, error) {
		if category == classify.NoBarcode && !cfg.KeepUnmatched {
			return nil, "", nil
		}
		name := SinkName(category, cfg.MergeOrientations)
		if s, ok := sinks[name]; ok {
			return s, name, nil
		}
		s, err := factory.Create(name)
		if err != nil {
			return nil, name, fmt.Errorf("create output %s: %w", name, err)
		}
		sinks[name] = s
		counts[name] += 0
		return s, name, nil
	}

	for _, c := range cfg.Categories {
		if _, _, err := sinkFor(c); err != nil {
			return counts, err
		}
	}

	rd, err := src.Open()
	if err != nil {
		return counts, err
	}
	defer rd.Close()

	pending := 0
	flush := func() {
		if cfg.Progress != nil && pending > 0 {
			cfg.Progress(pending)
		}
		pending = 0
	}
	defer flush()

	for {
		if err := ctx.Err(); err != nil {
			return counts, err
		}
		rec, err := rd.Read()
		if errors.Is(err, io.EOF) {
			return counts, nil
		}
		if err != nil {
			return counts, err
		}
		s, name, err := sinkFor(table.Lookup(rec.ID))
		if err != nil {
			return counts, err
		}
		if s != nil {
			if err := s.Write(rec); err != nil {
				return counts, fmt.Errorf("write %s: %w", name, err)
			}
			counts[name]++
		}
		if pending++; pending == 1024 {
			flush()
		}
	}
}

// Run performs both passes. A nil factory runs the first pass only.
func Run(ctx context.Context, cfg Config, src reads.Source, cls Classifier, factory reads.SinkFactory) (*Result, map[string]int, error) {
	res, err := Classify(ctx, cfg, src, cls)
	if err != nil || factory == nil {
		return res, nil, err
	}
	counts, err := Emit(ctx, cfg, src, res.Table, factory)
	return res, counts, err
}
