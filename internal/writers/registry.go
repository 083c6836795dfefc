// internal/writers/registry.go
package writers

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"bcseq-core/stats"
)

// StatsWriters maps a format name to its writer.
var StatsWriters = map[string]func(w io.Writer, snap stats.Snapshot) error{
	"json": WriteStatsJSON,
	"tsv":  WriteStatsTSV,
}

// Formats lists the registered format names.
func Formats() []string {
	out := make([]string, 0, len(StatsWriters))
	for k := range StatsWriters {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// WriteStats dispatches to the writer registered for format.
func WriteStats(format string, w io.Writer, snap stats.Snapshot) error {
	fn, ok := StatsWriters[format]
	if !ok {
		return fmt.Errorf("unknown statistics format %q (have %s)", format, strings.Join(Formats(), ", "))
	}
	return fn(w, snap)
}
