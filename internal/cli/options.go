// internal/cli/options.go
package cli

import (
	"errors"
	"flag"
	"fmt"
	"strings"

	"bcseq/internal/cliutil"
	"bcseq/internal/config"
)

// Options holds all CLI flags and arguments.
type Options struct {
	// Input
	BAM      string
	FASTQ1   string
	FASTQ2   string
	FASTQDir string
	Inputs   []string // positionals, globs expanded

	// Barcodes
	Barcodes   []string
	Barcode5   string
	Barcode3   string
	ConfigFile string

	// Matching
	MaxMismatches     int
	Policy            string
	SearchSoftclipped bool
	SearchBothReads   bool

	// Output
	OutputPrefix      string
	OutputDir         string
	StatsOnly         bool
	MergeOrientations bool
	DropUnmatched     bool
	SaveConfig        string
	PrintStats        bool
	NoMatchExitCode   int

	// Performance
	Threads int

	// Misc
	NoProgress bool
	Verbose    bool
	LogFile    string
	Quiet      bool
	Version    bool

	set map[string]bool
}

// NewFlagSet returns a configured FlagSet with custom usage/help.
func NewFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	installUsage(fs, name)
	return fs
}

// ParseArgs registers and parses all flags, returns an Options struct.
// Positional arguments may appear anywhere on the command line.
func ParseArgs(fs *flag.FlagSet, argv []string) (Options, error) {
	var opt Options
	var help bool

	// Input
	fs.StringVar(&opt.BAM, "bam", "", "input BAM file")
	fs.StringVar(&opt.FASTQ1, "fastq1", "", "read 1 FASTQ file")
	fs.StringVar(&opt.FASTQ2, "fastq2", "", "read 2 FASTQ file (paired with --fastq1)")
	fs.StringVar(&opt.FASTQDir, "fastq-dir", "", "directory of *_R1/*_R2 FASTQ pairs")

	// Barcodes
	fs.Var((*stringSlice)(&opt.Barcodes), "barcode", "barcode sequence without location (repeatable)")
	fs.StringVar(&opt.Barcode5, "barcode5", "", "5' barcode sequence")
	fs.StringVar(&opt.Barcode3, "barcode3", "", "3' barcode sequence")
	fs.StringVar(&opt.ConfigFile, "config", "", "YAML or JSON configuration file")

	// Matching
	fs.IntVar(&opt.MaxMismatches, "max-mismatches", 0, "max edit operations per barcode [0]")
	fs.IntVar(&opt.MaxMismatches, "m", 0, "alias of --max-mismatches")
	fs.StringVar(&opt.Policy, "policy", "first", "classification policy: first | best [first]")
	fs.BoolVar(&opt.SearchSoftclipped, "search-softclipped", false, "search only the soft-clipped end of BAM reads [false]")
	fs.BoolVar(&opt.SearchBothReads, "search-both-reads", false, "also search read 2 of pairs [false]")

	// Output
	fs.StringVar(&opt.OutputPrefix, "output-prefix", "", "prefix of every output file")
	fs.StringVar(&opt.OutputDir, "output-dir", ".", "output directory [.]")
	fs.BoolVar(&opt.StatsOnly, "stats-only", false, "write statistics only, no read files [false]")
	fs.BoolVar(&opt.MergeOrientations, "merge-orientations", false, "one output per barcode for both orientations [false]")
	fs.BoolVar(&opt.DropUnmatched, "drop-unmatched", false, "do not write reads without a barcode [false]")
	fs.StringVar(&opt.SaveConfig, "save-config", "", "write the effective configuration to this file")
	fs.BoolVar(&opt.PrintStats, "print-stats", false, "print statistics JSON to stdout [false]")
	fs.IntVar(&opt.NoMatchExitCode, "no-match-exit-code", 0, "exit code when no read matched [0]")

	// Performance
	fs.IntVar(&opt.Threads, "threads", 0, "worker threads (0 = all CPUs) [0]")
	fs.IntVar(&opt.Threads, "t", 0, "alias of --threads")

	// Misc
	fs.BoolVar(&opt.NoProgress, "no-progress", false, "disable progress bars [false]")
	fs.BoolVar(&opt.Verbose, "verbose", false, "debug logging [false]")
	fs.StringVar(&opt.LogFile, "log-file", "", "also write log messages to this file")
	fs.BoolVar(&opt.Quiet, "quiet", false, "suppress non-essential messages [false]")
	fs.BoolVar(&opt.Quiet, "q", false, "alias of --quiet")
	fs.BoolVar(&opt.Version, "v", false, "print version and exit (shorthand) [false]")
	fs.BoolVar(&opt.Version, "version", false, "print version and exit [false]")
	fs.BoolVar(&help, "h", false, "show this help message (shorthand) [false]")

	flagArgs, posArgs := cliutil.SplitFlagsAndPositionals(fs, argv)
	if err := fs.Parse(flagArgs); err != nil {
		return opt, err
	}
	if help {
		return opt, flag.ErrHelp
	}
	if opt.Version {
		return opt, nil
	}
	posArgs = append(posArgs, fs.Args()...)
	if len(posArgs) > 0 {
		exp, err := cliutil.ExpandPositionals(posArgs)
		if err != nil {
			return opt, err
		}
		opt.Inputs = exp
	}

	opt.set = map[string]bool{}
	fs.Visit(func(f *flag.Flag) { opt.set[canonical(f.Name)] = true })

	return opt, validate(&opt)
}

func canonical(name string) string {
	switch name {
	case "m":
		return "max-mismatches"
	case "t":
		return "threads"
	case "q":
		return "quiet"
	}
	return name
}

// IsSet reports whether the flag (long name) was given on the command line.
func (o Options) IsSet(name string) bool { return o.set[name] }

func validate(o *Options) error {
	sources := 0
	for _, given := range []bool{o.BAM != "", o.FASTQ1 != "", o.FASTQDir != "", len(o.Inputs) > 0} {
		if given {
			sources++
		}
	}
	switch {
	case sources == 0:
		return errors.New("provide --bam, --fastq1, --fastq-dir or input files")
	case sources > 1:
		return errors.New("--bam, --fastq1, --fastq-dir and positional inputs are mutually exclusive")
	case o.FASTQ2 != "" && o.FASTQ1 == "":
		return errors.New("--fastq2 requires --fastq1")
	}
	if o.ConfigFile == "" && len(o.Barcodes) == 0 && o.Barcode5 == "" && o.Barcode3 == "" {
		return errors.New("provide --barcode, --barcode5/--barcode3 or --config")
	}
	if o.ConfigFile == "" && o.OutputPrefix == "" {
		return errors.New("--output-prefix is required")
	}
	if o.MaxMismatches < 0 {
		return errors.New("--max-mismatches must be ≥ 0")
	}
	if o.Threads < 0 {
		return errors.New("--threads must be ≥ 0")
	}
	switch strings.ToLower(o.Policy) {
	case "first", "best":
	default:
		return fmt.Errorf("invalid --policy %q", o.Policy)
	}
	if o.NoMatchExitCode < 0 || o.NoMatchExitCode > 255 {
		return errors.New("--no-match-exit-code must be between 0 and 255")
	}
	return nil
}

// Apply overlays the options onto cfg. Settings from a configuration file
// survive unless the matching flag was given explicitly; barcodes given
// as flags replace the file's list.
func (o Options) Apply(cfg *config.ExtractorConfig) {
	var bcs []config.Barcode
	if o.Barcode5 != "" {
		bcs = append(bcs, config.Barcode{Sequence: o.Barcode5, Location: "5", Name: "5"})
	}
	if o.Barcode3 != "" {
		bcs = append(bcs, config.Barcode{Sequence: o.Barcode3, Location: "3", Name: "3"})
	}
	for _, s := range o.Barcodes {
		bcs = append(bcs, config.Barcode{Sequence: s})
	}
	if len(bcs) > 0 {
		cfg.Barcodes = bcs
	}

	fromFile := o.ConfigFile != ""
	use := func(name string) bool { return !fromFile || o.IsSet(name) }

	if use("output-prefix") {
		cfg.OutputPrefix = o.OutputPrefix
	}
	if use("output-dir") {
		cfg.OutputDir = o.OutputDir
	}
	if use("max-mismatches") {
		cfg.MaxMismatches = o.MaxMismatches
	}
	if use("policy") {
		cfg.Policy = strings.ToLower(o.Policy)
	}
	if use("search-softclipped") {
		cfg.SearchSoftclipped = o.SearchSoftclipped
	}
	if use("search-both-reads") {
		cfg.SearchBothReads = o.SearchBothReads
	}
	if use("stats-only") {
		cfg.WriteOutputFiles = !o.StatsOnly
	}
	if use("merge-orientations") {
		cfg.MergeOrientations = o.MergeOrientations
	}
	if use("drop-unmatched") {
		cfg.KeepUnmatched = !o.DropUnmatched
	}
	if use("threads") {
		cfg.Threads = o.Threads
	}
	if use("verbose") {
		cfg.Verbose = o.Verbose
	}
	if use("log-file") {
		cfg.LogFile = o.LogFile
	}
}

// stringSlice allows repeatable string flags.
type stringSlice []string

func (s *stringSlice) String() string     { return strings.Join(*s, ",") }
func (s *stringSlice) Set(v string) error { *s = append(*s, v); return nil }
