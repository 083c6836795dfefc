package writers

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"bcseq-core/stats"
)

// WriteStatsJSON writes the snapshot as JSON indented by two spaces.
func WriteStatsJSON(w io.Writer, snap stats.Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(snap)
}

// WriteStatsTSV writes the metric block followed by the per-barcode,
// per-orientation and per-category blocks, each under its own header and
// separated by a blank line.
func WriteStatsTSV(w io.Writer, snap stats.Snapshot) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "Metric\tValue\n")
	fmt.Fprintf(bw, "TotalReads\t%d\n", snap.TotalReads)
	fmt.Fprintf(bw, "TotalBarcodeMatches\t%d\n", snap.TotalBarcodeMatches)
	fmt.Fprintf(bw, "NoBarcodeCount\t%d\n", snap.NoBarcodeCount)
	fmt.Fprintf(bw, "MatchRate\t%.4f\n", snap.MatchRate)
	block := func(title string, c stats.Counts) {
		fmt.Fprintf(bw, "\n%s\tCount\n", title)
		c.Each(func(k string, n int) { fmt.Fprintf(bw, "%s\t%d\n", k, n) })
	}
	block("Barcode", snap.MatchesByBarcode)
	block("Orientation", snap.MatchesByOrientation)
	block("Category", snap.MatchesByCategory)
	return bw.Flush()
}

// StatsPaths returns the JSON and TSV paths for prefix in dir.
func StatsPaths(dir, prefix string) (jsonPath, tsvPath string) {
	base := filepath.Join(dir, prefix+"_extraction_stats")
	return base + ".json", base + ".tsv"
}

// SaveStatistics writes {prefix}_extraction_stats.json and .tsv into dir,
// creating dir if needed.
func SaveStatistics(dir, prefix string, snap stats.Snapshot) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	jp, tp := StatsPaths(dir, prefix)
	if err := writeFile(jp, func(w io.Writer) error { return WriteStats("json", w, snap) }); err != nil {
		return err
	}
	return writeFile(tp, func(w io.Writer) error { return WriteStats("tsv", w, snap) })
}

func writeFile(path string, fn func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
