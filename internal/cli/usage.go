package cli

import (
	"flag"
	"fmt"

	"bcseq/internal/version"
)

func installUsage(fs *flag.FlagSet, name string) {
	fs.Usage = func() {
		out := fs.Output()
		def := func(flagName string) string {
			if f := fs.Lookup(flagName); f != nil {
				return f.DefValue
			}
			return ""
		}

		fmt.Fprintf(out, "%s – barcode read classification\n\n", name)
		fmt.Fprintf(out, "Version: %s\n\n", version.Version)
		fmt.Fprintln(out, "Usage:")
		fmt.Fprintf(out, "  %s --bam reads.bam --barcode5 SEQ --barcode3 SEQ --output-prefix run1\n", name)
		fmt.Fprintf(out, "  %s --fastq1 R1.fq.gz --fastq2 R2.fq.gz --barcode SEQ --output-prefix run1\n", name)
		fmt.Fprintf(out, "  %s --config barcodes.yaml reads.bam\n", name)

		fmt.Fprintln(out, "\nInput:")
		fmt.Fprintln(out, "      --bam file                BAM file")
		fmt.Fprintln(out, "      --fastq1 file             Read 1 FASTQ (plain or .gz)")
		fmt.Fprintln(out, "      --fastq2 file             Read 2 FASTQ, paired with --fastq1")
		fmt.Fprintln(out, "      --fastq-dir dir           Directory of *_R1/*_R2 FASTQ pairs")
		fmt.Fprintln(out, "      file ...                  Positional inputs (globs allowed; one format)")

		fmt.Fprintln(out, "\nBarcodes:")
		fmt.Fprintln(out, "      --barcode seq             Barcode without location (repeatable)")
		fmt.Fprintln(out, "      --barcode5 seq            5' barcode")
		fmt.Fprintln(out, "      --barcode3 seq            3' barcode")
		fmt.Fprintln(out, "      --config file             YAML/JSON configuration (flags override)")

		fmt.Fprintln(out, "\nMatching:")
		fmt.Fprintf(out, "  -m, --max-mismatches int      Max substitutions+indels per barcode [%s]\n", def("max-mismatches"))
		fmt.Fprintf(out, "      --policy string           first | best [%s]\n", def("policy"))
		fmt.Fprintf(out, "      --search-softclipped      Search the soft-clipped end of BAM reads [%s]\n", def("search-softclipped"))
		fmt.Fprintf(out, "      --search-both-reads       Search read 2 when read 1 has no barcode [%s]\n", def("search-both-reads"))

		fmt.Fprintln(out, "\nOutput:")
		fmt.Fprintln(out, "      --output-prefix string    Prefix of every output file [*]")
		fmt.Fprintf(out, "      --output-dir dir          Output directory [%s]\n", def("output-dir"))
		fmt.Fprintf(out, "      --stats-only              Statistics only, no read files [%s]\n", def("stats-only"))
		fmt.Fprintf(out, "      --merge-orientations      Combine FR and RC reads per barcode [%s]\n", def("merge-orientations"))
		fmt.Fprintf(out, "      --drop-unmatched          Do not write reads without a barcode [%s]\n", def("drop-unmatched"))
		fmt.Fprintln(out, "      --save-config file        Write the effective configuration")
		fmt.Fprintf(out, "      --print-stats             Print statistics JSON to stdout [%s]\n", def("print-stats"))
		fmt.Fprintf(out, "      --no-match-exit-code int  Exit code when no read matched [%s]\n", def("no-match-exit-code"))

		fmt.Fprintln(out, "\nPerformance:")
		fmt.Fprintf(out, "  -t, --threads int             Worker threads (0=all CPUs) [%s]\n", def("threads"))

		fmt.Fprintln(out, "\nMiscellaneous:")
		fmt.Fprintf(out, "      --no-progress             Disable progress bars [%s]\n", def("no-progress"))
		fmt.Fprintf(out, "      --verbose                 Debug messages [%s]\n", def("verbose"))
		fmt.Fprintln(out, "      --log-file file           Also log to file")
		fmt.Fprintf(out, "  -q, --quiet                   Suppress non-essential messages [%s]\n", def("quiet"))
		fmt.Fprintln(out, "  -v, --version                 Print version and exit")
		fmt.Fprintln(out, "  -h, --help                    Show this help and exit")
	}
}
