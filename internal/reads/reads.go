// Package reads defines the record source and sink contract shared by the
// BAM and FASTQ adapters. Classification never sees format details: a
// Record carries an identity, the bytes to search, and an opaque payload
// that only the matching Sink understands.
package reads

import (
	"errors"
	"io"
)

// Record is one read (or read pair) handed to the pipeline.
type Record struct {
	ID   string // stable identity; mates share it
	Seq  []byte // bytes searched for barcodes (may be empty)
	Mate []byte // second read of a pair, nil for single-end input
	Raw  any    // format payload, passed back to Sink.Write untouched
}

// Reader iterates records in file order. Read returns io.EOF at the end.
type Reader interface {
	Read() (*Record, error)
	Close() error
}

// Source can be traversed more than once, each Open yielding the same
// records in the same order.
type Source interface {
	Open() (Reader, error)
	Format() Format
	Name() string
}

// Sink receives the records of one category.
type Sink interface {
	Write(*Record) error
	Close() error
}

// SinkFactory creates the sink for a named output. It is called once per
// name.
type SinkFactory interface {
	Create(name string) (Sink, error)
}

// MatePolicy decides which reads of a pair are searched.
type MatePolicy int

const (
	// Read1Only searches the first read only.
	Read1Only MatePolicy = iota
	// BothReads searches read 2 when read 1 has no barcode.
	BothReads
)

// ErrMateMismatch is returned when paired files go out of step.
var ErrMateMismatch = errors.New("paired reads out of sync")

// Concat chains sources of the same format into one.
func Concat(srcs ...Source) Source {
	if len(srcs) == 1 {
		return srcs[0]
	}
	return concat(srcs)
}

type concat []Source

func (c concat) Format() Format {
	if len(c) == 0 {
		return Unknown
	}
	return c[0].Format()
}

func (c concat) Name() string {
	name := ""
	for i, s := range c {
		if i > 0 {
			name += ","
		}
		name += s.Name()
	}
	return name
}

func (c concat) Open() (Reader, error) { return &concatReader{srcs: c}, nil }

type concatReader struct {
	srcs []Source
	cur  Reader
}

func (r *concatReader) Read() (*Record, error) {
	for {
		if r.cur == nil {
			if len(r.srcs) == 0 {
				return nil, io.EOF
			}
			rd, err := r.srcs[0].Open()
			if err != nil {
				return nil, err
			}
			r.cur, r.srcs = rd, r.srcs[1:]
		}
		rec, err := r.cur.Read()
		if err == io.EOF {
			if cerr := r.cur.Close(); cerr != nil {
				return nil, cerr
			}
			r.cur = nil
			continue
		}
		return rec, err
	}
}

func (r *concatReader) Close() error {
	if r.cur == nil {
		return nil
	}
	err := r.cur.Close()
	r.cur = nil
	r.srcs = nil
	return err
}
