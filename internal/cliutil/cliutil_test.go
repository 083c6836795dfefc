package cliutil

import (
	"flag"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestSplitFlagsAndPositionals(t *testing.T) {
	fs := flag.NewFlagSet("x", flag.ContinueOnError)
	var b bool
	var s string
	fs.BoolVar(&b, "stats-only", false, "")
	fs.StringVar(&s, "barcode", "", "")
	flagArgs, posArgs := SplitFlagsAndPositionals(fs, []string{
		"a.bam", "--barcode", "ACGT", "--stats-only", "b.bam", "--output-prefix=x", "--", "--odd.bam",
	})
	wantFlags := []string{"--barcode", "ACGT", "--stats-only", "--output-prefix=x"}
	wantPos := []string{"a.bam", "b.bam", "--odd.bam"}
	if !reflect.DeepEqual(flagArgs, wantFlags) || !reflect.DeepEqual(posArgs, wantPos) {
		t.Fatalf("unexpected split: %v / %v", flagArgs, posArgs)
	}
}

func TestExpandPositionals(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.fastq")
	b := filepath.Join(dir, "b.fastq")
	_ = os.WriteFile(a, []byte("@a\nA\n+\nI\n"), 0o644)
	_ = os.WriteFile(b, []byte("@b\nA\n+\nI\n"), 0o644)
	got, err := ExpandPositionals([]string{b, filepath.Join(dir, "*.fastq")})
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{b, a}; !reflect.DeepEqual(got, want) {
		t.Fatalf("expand = %v, want %v", got, want)
	}
	if _, err := ExpandPositionals([]string{filepath.Join(dir, "*.bam")}); err == nil {
		t.Fatal("expected error for a glob without matches")
	}
}
