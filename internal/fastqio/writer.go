package fastqio

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/shenwei356/bio/seqio/fastx"
	"github.com/shenwei356/xopen"

	"bcseq/internal/reads"
)

const defaultCache = 128

// RecordWriter writes records from a background goroutine. Records are
// batched in a cache and handed over when it fills. Call Close when done.
type RecordWriter struct {
	writer  *xopen.Writer
	cache   []*fastx.Record
	records chan []*fastx.Record
	errors  chan error
}

// NewRecordWriter opens filename (gzipped when it ends in .gz) with a
// cache of cachesize records.
func NewRecordWriter(filename string, cachesize int) (*RecordWriter, error) {
	if cachesize <= 0 {
		cachesize = defaultCache
	}
	writer, err := xopen.Wopen(filename)
	if err != nil {
		return nil, err
	}
	w := &RecordWriter{
		cache:   make([]*fastx.Record, 0, cachesize),
		records: make(chan []*fastx.Record),
		errors:  make(chan error, 1),
		writer:  writer,
	}
	go func() {
		for batch := range w.records {
			for _, rec := range batch {
				rec.FormatToWriter(w.writer, 0)
			}
		}
		w.errors <- w.writer.Close()
	}()
	return w, nil
}

// Write queues one record.
func (w *RecordWriter) Write(rec *fastx.Record) {
	w.cache = append(w.cache, rec)
	if len(w.cache) == cap(w.cache) {
		w.Flush()
	}
}

// Flush hands the cached records to the writer goroutine.
func (w *RecordWriter) Flush() {
	if len(w.cache) == 0 {
		return
	}
	batch := make([]*fastx.Record, len(w.cache))
	copy(batch, w.cache)
	w.records <- batch
	w.cache = w.cache[:0]
}

// Close flushes, closes the file, and returns the close error.
func (w *RecordWriter) Close() error {
	w.Flush()
	close(w.records)
	return <-w.errors
}

// sink writes single-end records.
type sink struct{ w *RecordWriter }

func (s sink) Write(rec *reads.Record) error {
	fr, ok := rec.Raw.(*fastx.Record)
	if !ok {
		return fmt.Errorf("fastq sink: unexpected record payload %T", rec.Raw)
	}
	s.w.Write(fr)
	return nil
}

func (s sink) Close() error { return s.w.Close() }

// pairSink writes R1 and R2 to separate files.
type pairSink struct{ r1, r2 *RecordWriter }

func (s pairSink) Write(rec *reads.Record) error {
	p, ok := rec.Raw.(Pair)
	if !ok {
		return fmt.Errorf("paired fastq sink: unexpected record payload %T", rec.Raw)
	}
	s.r1.Write(p.R1)
	s.r2.Write(p.R2)
	return nil
}

func (s pairSink) Close() error {
	err1 := s.r1.Close()
	err2 := s.r2.Close()
	if err1 != nil {
		return err1
	}
	return err2
}

// SinkFactory creates gzipped FASTQ outputs named
// {Dir}/{Prefix}_{name}.fastq.gz, or _R1/_R2 pairs when Paired is set.
type SinkFactory struct {
	Dir       string
	Prefix    string
	Paired    bool
	CacheSize int
}

// Path returns the output path of name; suffix is "" or "_R1"/"_R2".
func (f SinkFactory) Path(name, suffix string) string {
	return filepath.Join(f.Dir, f.Prefix+"_"+name+suffix+".fastq.gz")
}

// Create opens the output(s) for name.
func (f SinkFactory) Create(name string) (reads.Sink, error) {
	if err := os.MkdirAll(f.Dir, 0o755); err != nil {
		return nil, err
	}
	if !f.Paired {
		w, err := NewRecordWriter(f.Path(name, ""), f.CacheSize)
		if err != nil {
			return nil, err
		}
		return sink{w}, nil
	}
	r1, err := NewRecordWriter(f.Path(name, "_R1"), f.CacheSize)
	if err != nil {
		return nil, err
	}
	r2, err := NewRecordWriter(f.Path(name, "_R2"), f.CacheSize)
	if err != nil {
		_ = r1.Close()
		return nil, err
	}
	return pairSink{r1, r2}, nil
}
