package reads

import (
	"fmt"
	"os"
	"strings"
)

// Format is an input container format.
type Format int

const (
	Unknown Format = iota
	BAM
	FASTQ
	PairedFASTQ
)

func (f Format) String() string {
	switch f {
	case BAM:
		return "BAM"
	case FASTQ:
		return "FASTQ"
	case PairedFASTQ:
		return "paired FASTQ"
	default:
		return "UNKNOWN"
	}
}

var fastqExts = []string{".fastq", ".fq", ".fastq.gz", ".fq.gz"}

// DetectFormat guesses the format of path from its extension. A directory
// is taken to hold paired FASTQ files.
func DetectFormat(path string) Format {
	if fi, err := os.Stat(path); err == nil && fi.IsDir() {
		return PairedFASTQ
	}
	lower := strings.ToLower(path)
	if strings.HasSuffix(lower, ".bam") {
		return BAM
	}
	for _, ext := range fastqExts {
		if strings.HasSuffix(lower, ext) {
			return FASTQ
		}
	}
	return Unknown
}

// DetectFormats checks that all paths share one known format.
func DetectFormats(paths []string) (Format, error) {
	if len(paths) == 0 {
		return Unknown, fmt.Errorf("no input files")
	}
	first := DetectFormat(paths[0])
	if first == Unknown {
		return Unknown, fmt.Errorf("unsupported input format: %s", paths[0])
	}
	for _, p := range paths[1:] {
		if f := DetectFormat(p); f != first {
			return Unknown, fmt.Errorf("mixed input formats: %s is %s, %s is %s", paths[0], first, p, f)
		}
	}
	return first, nil
}
