package fastqio

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"bcseq/internal/reads"
)

func writeFile(t *testing.T, dir, name, data string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

const r1 = "@read1 extra\nAAAATCGCGAGGCAAA\n+\nIIIIIIIIIIIIIIII\n@read2\nTTTTTTTT\n+\nIIIIIIII\n"
const r2 = "@read1 extra\nGGGGGGGG\n+\nIIIIIIII\n@read2\nCCCCCCCC\n+\nIIIIIIII\n"

func collect(t *testing.T, src reads.Source) []*reads.Record {
	t.Helper()
	rd, err := src.Open()
	if err != nil {
		t.Fatal(err)
	}
	defer rd.Close()
	var out []*reads.Record
	for {
		rec, err := rd.Read()
		if errors.Is(err, io.EOF) {
			return out
		}
		if err != nil {
			t.Fatal(err)
		}
		out = append(out, rec)
	}
}

func TestSourceTwoTraversals(t *testing.T) {
	p := writeFile(t, t.TempDir(), "in.fastq", r1)
	src := Source{Path: p}
	for pass := 0; pass < 2; pass++ {
		recs := collect(t, src)
		if len(recs) != 2 {
			t.Fatalf("pass %d: %d records", pass, len(recs))
		}
		if recs[0].ID != "read1" || string(recs[0].Seq) != "AAAATCGCGAGGCAAA" || recs[0].Mate != nil {
			t.Fatalf("record 0: %+v", recs[0])
		}
		if recs[1].ID != "read2" {
			t.Fatalf("record 1: %+v", recs[1])
		}
	}
}

func TestPairedSource(t *testing.T) {
	dir := t.TempDir()
	src := PairedSource{R1: writeFile(t, dir, "x_R1.fastq", r1), R2: writeFile(t, dir, "x_R2.fastq", r2)}
	recs := collect(t, src)
	if len(recs) != 2 || string(recs[0].Mate) != "GGGGGGGG" || recs[1].ID != "read2" {
		t.Fatalf("%+v", recs)
	}
	if _, ok := recs[0].Raw.(Pair); !ok {
		t.Fatalf("payload %T", recs[0].Raw)
	}
}

func TestPairedSourceLengthMismatch(t *testing.T) {
	dir := t.TempDir()
	src := PairedSource{
		R1: writeFile(t, dir, "y_R1.fastq", r1),
		R2: writeFile(t, dir, "y_R2.fastq", "@read1\nGGGG\n+\nIIII\n"),
	}
	rd, err := src.Open()
	if err != nil {
		t.Fatal(err)
	}
	defer rd.Close()
	if _, err := rd.Read(); err != nil {
		t.Fatal(err)
	}
	if _, err := rd.Read(); !errors.Is(err, reads.ErrMateMismatch) {
		t.Fatalf("want ErrMateMismatch, got %v", err)
	}
}

func TestSinkRoundTrip(t *testing.T) {
	dir := t.TempDir()
	in := collect(t, Source{Path: writeFile(t, dir, "in.fq", r1)})

	f := SinkFactory{Dir: filepath.Join(dir, "out"), Prefix: "run", CacheSize: 1}
	s, err := f.Create("barcode_orientFR")
	if err != nil {
		t.Fatal(err)
	}
	for _, rec := range in {
		if err := s.Write(rec); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	path := f.Path("barcode_orientFR", "")
	if filepath.Base(path) != "run_barcode_orientFR.fastq.gz" {
		t.Fatalf("path %s", path)
	}
	back := collect(t, Source{Path: path})
	if len(back) != 2 || back[0].ID != "read1" || string(back[1].Seq) != "TTTTTTTT" {
		t.Fatalf("round trip: %+v", back)
	}

	if err := s.Write(&reads.Record{ID: "x", Raw: "nope"}); err == nil {
		t.Fatal("expected payload type error")
	}
}

func TestPairedSinkFiles(t *testing.T) {
	dir := t.TempDir()
	in := collect(t, PairedSource{R1: writeFile(t, dir, "a_R1.fq", r1), R2: writeFile(t, dir, "a_R2.fq", r2)})
	f := SinkFactory{Dir: dir, Prefix: "p", Paired: true}
	s, err := f.Create("noBarcode")
	if err != nil {
		t.Fatal(err)
	}
	for _, rec := range in {
		if err := s.Write(rec); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	back := collect(t, PairedSource{R1: f.Path("noBarcode", "_R1"), R2: f.Path("noBarcode", "_R2")})
	if len(back) != 2 || string(back[1].Mate) != "CCCCCCCC" {
		t.Fatalf("%+v", back)
	}
}

func TestFindPairs(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "s2_R1.fastq.gz", "")
	writeFile(t, dir, "s2_R2.fastq.gz", "")
	writeFile(t, dir, "s1_R1.fq", "")
	writeFile(t, dir, "s1_R2.fq", "")
	writeFile(t, dir, "readme.txt", "")
	pairs, err := FindPairs(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(pairs) != 2 || filepath.Base(pairs[0].R1) != "s1_R1.fq" || filepath.Base(pairs[1].R2) != "s2_R2.fastq.gz" {
		t.Fatalf("%+v", pairs)
	}

	writeFile(t, dir, "lonely_R1.fq", "")
	if _, err := FindPairs(dir); err == nil {
		t.Fatal("missing mate must fail")
	}
	if _, err := FindPairs(t.TempDir()); err == nil {
		t.Fatal("empty dir must fail")
	}
}
