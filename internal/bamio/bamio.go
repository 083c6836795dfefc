// Package bamio adapts BAM files to the reads contract.
package bamio

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/biogo/hts/bam"
	"github.com/biogo/hts/sam"

	"bcseq/internal/reads"
)

// Source is a BAM file. With SoftClipped set, the searched sequence is
// the soft-clipped end of each alignment (see SoftClip) instead of the
// whole read.
type Source struct {
	Path        string
	SoftClipped bool
	Threads     int // bgzf decompression goroutines, 0 for the default

	once   sync.Once
	header *sam.Header
}

func (s *Source) Format() reads.Format { return reads.BAM }
func (s *Source) Name() string         { return s.Path }

// Header returns the header seen on the first Open, or nil.
func (s *Source) Header() *sam.Header { return s.header }

// Open starts a new traversal of the file.
func (s *Source) Open() (reads.Reader, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, err
	}
	br, err := bam.NewReader(f, s.Threads)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("open %s: %w", s.Path, err)
	}
	s.once.Do(func() { s.header = br.Header() })
	return &reader{f: f, br: br, path: s.Path, softClipped: s.SoftClipped}, nil
}

// ReadHeader returns the header of the BAM file at path.
func ReadHeader(path string) (*sam.Header, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	br, err := bam.NewReader(f, 1)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	h := br.Header()
	_ = br.Close()
	return h, f.Close()
}

// CheckReferences returns an error unless every file in paths lists the
// reference sequences of the first one, in the same order. Outputs carry
// a single header, so inputs with other dictionaries cannot be mixed.
func CheckReferences(paths []string) error {
	var first *sam.Header
	for i, p := range paths {
		h, err := ReadHeader(p)
		if err != nil {
			return err
		}
		if i == 0 {
			first = h
			continue
		}
		if !SameReferences(first, h) {
			return fmt.Errorf("%s: reference sequences differ from %s", p, paths[0])
		}
	}
	return nil
}

// SameReferences reports whether a and b hold the same reference names
// and lengths in the same order.
func SameReferences(a, b *sam.Header) bool {
	ra, rb := a.Refs(), b.Refs()
	if len(ra) != len(rb) {
		return false
	}
	for i := range ra {
		if ra[i].Name() != rb[i].Name() || ra[i].Len() != rb[i].Len() {
			return false
		}
	}
	return true
}

type reader struct {
	f           *os.File
	br          *bam.Reader
	path        string
	softClipped bool
}

func (r *reader) Read() (*reads.Record, error) {
	rec, err := r.br.Read()
	if err == io.EOF {
		return nil, io.EOF
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", r.path, err)
	}
	var seq []byte
	if r.softClipped {
		seq = SoftClip(rec)
	} else {
		seq = rec.Seq.Expand()
	}
	return &reads.Record{ID: rec.Name, Seq: seq, Raw: rec}, nil
}

func (r *reader) Close() error {
	err := r.br.Close()
	if cerr := r.f.Close(); err == nil {
		err = cerr
	}
	return err
}

// SoftClip returns the soft-clipped 5' end of a read as sequenced: the
// leading S operation for forward-strand alignments, the trailing one for
// reverse-strand alignments. Unmapped reads and reads without that clip
// give nil.
func SoftClip(rec *sam.Record) []byte {
	if rec.Flags&sam.Unmapped != 0 || len(rec.Cigar) == 0 {
		return nil
	}
	seq := rec.Seq.Expand()
	if rec.Flags&sam.Reverse != 0 {
		op := rec.Cigar[len(rec.Cigar)-1]
		if op.Type() != sam.CigarSoftClipped || op.Len() > len(seq) {
			return nil
		}
		return seq[len(seq)-op.Len():]
	}
	op := rec.Cigar[0]
	if op.Type() != sam.CigarSoftClipped || op.Len() > len(seq) {
		return nil
	}
	return seq[:op.Len()]
}

// sink writes alignments to one BAM file.
type sink struct {
	f    *os.File
	bw   *bam.Writer
	refs []*sam.Reference
}

func (s *sink) Write(rec *reads.Record) error {
	sr, ok := rec.Raw.(*sam.Record)
	if !ok {
		return fmt.Errorf("bam sink: unexpected record payload %T", rec.Raw)
	}
	for _, ref := range []*sam.Reference{sr.Ref, sr.MateRef} {
		if !s.known(ref) {
			return fmt.Errorf("bam sink: %s: reference %s is not in the output header", sr.Name, ref.Name())
		}
	}
	return s.bw.Write(sr)
}

// known reports whether ref maps to the same reference of the output
// header. Records keep the ID of the header they were read with.
func (s *sink) known(ref *sam.Reference) bool {
	if ref == nil {
		return true
	}
	id := ref.ID()
	return id >= 0 && id < len(s.refs) && s.refs[id].Name() == ref.Name() && s.refs[id].Len() == ref.Len()
}

func (s *sink) Close() error {
	err := s.bw.Close()
	if cerr := s.f.Close(); err == nil {
		err = cerr
	}
	return err
}

// SinkFactory creates BAM outputs named {Dir}/{Prefix}_{name}.bam that
// carry the input header.
type SinkFactory struct {
	Dir    string
	Prefix string
	Header *sam.Header
	Level  int // gzip level; 0 means default compression
}

// Path returns the output path of name.
func (f SinkFactory) Path(name string) string {
	return filepath.Join(f.Dir, f.Prefix+"_"+name+".bam")
}

// Create opens the output for name.
func (f SinkFactory) Create(name string) (reads.Sink, error) {
	if f.Header == nil {
		return nil, fmt.Errorf("bam sink %s: no header", name)
	}
	if err := os.MkdirAll(f.Dir, 0o755); err != nil {
		return nil, err
	}
	out, err := os.Create(f.Path(name))
	if err != nil {
		return nil, err
	}
	level := f.Level
	if level == 0 {
		level = -1
	}
	bw, err := bam.NewWriterLevel(out, f.Header, level, 1)
	if err != nil {
		_ = out.Close()
		return nil, err
	}
	return &sink{f: out, bw: bw, refs: f.Header.Refs()}, nil
}
