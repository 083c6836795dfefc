// Package fastqio adapts FASTQ files (plain or gzipped) to the reads
// contract.
package fastqio

import (
	"fmt"
	"io"

	"github.com/shenwei356/bio/seqio/fastx"

	"bcseq/internal/reads"
)

// Source is a single-end FASTQ file.
type Source struct {
	Path string
}

func (s Source) Format() reads.Format { return reads.FASTQ }
func (s Source) Name() string         { return s.Path }

// Open starts a new traversal of the file.
func (s Source) Open() (reads.Reader, error) {
	fq, err := fastx.NewDefaultReader(s.Path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", s.Path, err)
	}
	return &reader{fq: fq, path: s.Path}, nil
}

type reader struct {
	fq   *fastx.Reader
	path string
}

func (r *reader) Read() (*reads.Record, error) {
	rec, err := next(r.fq, r.path)
	if err != nil {
		return nil, err
	}
	return &reads.Record{ID: string(rec.ID), Seq: rec.Seq.Seq, Raw: rec}, nil
}

func (r *reader) Close() error {
	r.fq.Close()
	return nil
}

// next reads one record and detaches it from the reader's buffers.
func next(fq *fastx.Reader, path string) (*fastx.Record, error) {
	rec, err := fq.Read()
	if err == io.EOF {
		return nil, io.EOF
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return rec.Clone(), nil
}

// Pair is the payload of a paired record.
type Pair struct {
	R1, R2 *fastx.Record
}

// PairedSource reads R1/R2 files in lockstep. The identity of a pair is
// the R1 identifier.
type PairedSource struct {
	R1, R2 string
}

func (s PairedSource) Format() reads.Format { return reads.PairedFASTQ }
func (s PairedSource) Name() string         { return s.R1 + "+" + s.R2 }

// Open starts a new traversal of both files.
func (s PairedSource) Open() (reads.Reader, error) {
	r1, err := fastx.NewDefaultReader(s.R1)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", s.R1, err)
	}
	r2, err := fastx.NewDefaultReader(s.R2)
	if err != nil {
		r1.Close()
		return nil, fmt.Errorf("open %s: %w", s.R2, err)
	}
	return &pairedReader{r1: r1, r2: r2, src: s}, nil
}

type pairedReader struct {
	r1, r2 *fastx.Reader
	src    PairedSource
	n      int
}

func (r *pairedReader) Read() (*reads.Record, error) {
	a, err1 := next(r.r1, r.src.R1)
	b, err2 := next(r.r2, r.src.R2)
	switch {
	case err1 == io.EOF && err2 == io.EOF:
		return nil, io.EOF
	case err1 == io.EOF || err2 == io.EOF:
		return nil, fmt.Errorf("%w: %s and %s differ in length after %d records", reads.ErrMateMismatch, r.src.R1, r.src.R2, r.n)
	case err1 != nil:
		return nil, err1
	case err2 != nil:
		return nil, err2
	}
	r.n++
	return &reads.Record{ID: string(a.ID), Seq: a.Seq.Seq, Mate: b.Seq.Seq, Raw: Pair{R1: a, R2: b}}, nil
}

func (r *pairedReader) Close() error {
	r.r1.Close()
	r.r2.Close()
	return nil
}
