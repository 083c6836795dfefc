package fastqio

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FindPairs lists R1/R2 FASTQ pairs in dir, matched by replacing the
// first "_R1" in the file name with "_R2". Pairs are sorted by R1 path.
func FindPairs(dir string) ([]PairedSource, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make(map[string]bool, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names[e.Name()] = true
		}
	}
	var out []PairedSource
	for name := range names {
		if !isFastq(name) || !strings.Contains(name, "_R1") {
			continue
		}
		mate := strings.Replace(name, "_R1", "_R2", 1)
		if !names[mate] {
			return nil, fmt.Errorf("no R2 file for %s in %s", name, dir)
		}
		out = append(out, PairedSource{R1: filepath.Join(dir, name), R2: filepath.Join(dir, mate)})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no _R1/_R2 FASTQ pairs in %s", dir)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].R1 < out[j].R1 })
	return out, nil
}

func isFastq(name string) bool {
	n := strings.ToLower(name)
	for _, ext := range []string{".fastq", ".fq", ".fastq.gz", ".fq.gz"} {
		if strings.HasSuffix(n, ext) {
			return true
		}
	}
	return false
}
