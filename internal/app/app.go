// internal/app/app.go
package app

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/google/uuid"

	"bcseq-core/classify"
	"bcseq-core/stats"
	"bcseq/internal/cli"
	"bcseq/internal/cmdutil"
	"bcseq/internal/config"
	"bcseq/internal/pipeline"
	"bcseq/internal/reads"
	"bcseq/internal/version"
	"bcseq/internal/writers"
)

// flushOut flushes buffered stdout and maps the outcome to an exit code.
func flushOut(outw *bufio.Writer, stderr io.Writer, code int) int {
	if e := outw.Flush(); writers.IsBrokenPipe(e) {
		return 0
	} else if e != nil {
		_, _ = fmt.Fprintln(stderr, e)
		return 3
	}
	return code
}

func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	outw := bufio.NewWriter(stdout)
	defer func() { _ = outw.Flush() }()

	fs := cli.NewFlagSet("bcseq")
	fs.SetOutput(io.Discard)

	if len(argv) == 0 {
		argv = []string{"-h"}
	}
	opts, err := cli.ParseArgs(fs, argv)
	if err != nil {
		fs.SetOutput(outw)
		if errors.Is(err, flag.ErrHelp) {
			fs.Usage()
			return flushOut(outw, stderr, 0)
		}
		_, _ = fmt.Fprintln(stderr, err)
		fs.Usage()
		return flushOut(outw, stderr, 2)
	}
	if opts.Version {
		_, _ = fmt.Fprintf(outw, "bcseq version %s\n", version.Version)
		return flushOut(outw, stderr, 0)
	}

	cfg := config.Default()
	if opts.ConfigFile != "" {
		if cfg, err = config.Load(opts.ConfigFile); err != nil {
			_, _ = fmt.Fprintln(stderr, err)
			return 2
		}
	}
	opts.Apply(&cfg)
	if err := cfg.Validate(); err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return 2
	}

	log := cmdutil.NewLogger(stderr, opts.Quiet, cfg.Verbose)
	defer func() { _ = log.Close() }()
	if cfg.LogFile != "" {
		if err := log.TeeFile(cfg.LogFile); err != nil {
			log.Errorf("log file: %v", err)
			return 3
		}
	}

	cat, warns, err := cfg.Catalog()
	if err != nil {
		log.Errorf("%v", err)
		return 2
	}
	for _, w := range warns {
		log.Warnf("%s", w)
	}
	if cfg.MaxMismatches > 0 {
		for _, b := range cat.Barcodes() {
			if cfg.MaxMismatches >= len(b.Sequence) {
				log.Warnf("max_mismatches %d is not smaller than barcode %s (%d nt); every read will match", cfg.MaxMismatches, b.Name, len(b.Sequence))
			}
		}
	}
	if opts.SaveConfig != "" {
		saved := cfg
		saved.Barcodes = config.FromCatalog(cat)
		if err := config.Save(opts.SaveConfig, saved); err != nil {
			log.Errorf("save config: %v", err)
			return 3
		}
		log.Infof("Configuration saved to %s", opts.SaveConfig)
	}

	in, err := openInputs(opts, cfg)
	if err != nil {
		log.Errorf("%v", err)
		return 2
	}
	if cfg.SearchSoftclipped && in.src.Format() != reads.BAM {
		log.Warnf("--search-softclipped only applies to BAM input; searching whole reads")
	}

	policy, _ := classify.ParsePolicy(cfg.Policy)
	cls := classify.New(cat, cfg.MaxMismatches, policy)

	mates := reads.Read1Only
	if cfg.SearchBothReads {
		mates = reads.BothReads
	}
	pcfg := pipeline.Config{
		Threads:           cfg.Threads,
		Mates:             mates,
		Categories:        cat.Categories(),
		MergeOrientations: cfg.MergeOrientations,
		KeepUnmatched:     cfg.KeepUnmatched,
	}

	runID := uuid.New().String()
	log.Infof("Run %s: %s input %s, %d barcode(s), max mismatches %d, policy %s",
		runID, in.src.Format(), in.src.Name(), cat.Len(), cfg.MaxMismatches, policy)
	for _, b := range cat.Barcodes() {
		log.Debugf("barcode %s: %s (location %s, rc %s)", b.Name, b.Sequence, b.Location.Code(), b.RevComp())
	}

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	showProgress := !opts.Quiet && !opts.NoProgress && isTerminalFile(stderr)

	bar := startProgress(showProgress, stderr, "Classifying", 0)
	pcfg.Progress = bar.Add
	res, err := pipeline.Classify(ctx, pcfg, in.src, cls)
	bar.Finish()
	if code, stop := runError(log, err); stop {
		return code
	}
	if res.Duplicates > 0 {
		log.Debugf("%d records shared an identity with an earlier record", res.Duplicates)
	}

	if cfg.WriteOutputFiles {
		total := int64(res.Stats.TotalReads() + res.Duplicates)
		bar = startProgress(showProgress, stderr, "Writing", total)
		pcfg.Progress = bar.Add
		counts, err := pipeline.Emit(ctx, pcfg, in.src, res.Table, sinkFactory(in, cfg))
		bar.Finish()
		if code, stop := runError(log, err); stop {
			return code
		}
		names := make([]string, 0, len(counts))
		for n := range counts {
			names = append(names, n)
		}
		sort.Strings(names)
		for _, n := range names {
			log.Debugf("output %s: %d records", n, counts[n])
		}
	}

	snap := res.Stats.Snapshot()
	snap.RunID = runID
	if err := writers.SaveStatistics(cfg.OutputDir, cfg.OutputPrefix, snap); err != nil {
		log.Errorf("save statistics: %v", err)
		return 3
	}
	jsonPath, tsvPath := writers.StatsPaths(cfg.OutputDir, cfg.OutputPrefix)
	log.Debugf("statistics written to %s and %s", jsonPath, tsvPath)
	logSummary(log, snap)

	if opts.PrintStats {
		if err := writers.WriteStatsJSON(outw, snap); writers.IsBrokenPipe(err) {
			return 0
		} else if err != nil {
			log.Errorf("%v", err)
			return 3
		}
		if code := flushOut(outw, stderr, 0); code != 0 {
			return code
		}
	}

	if snap.TotalBarcodeMatches == 0 {
		return opts.NoMatchExitCode
	}
	return 0
}

func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}

// runError reports a pipeline error and whether the run must stop.
func runError(log *cmdutil.Logger, err error) (int, bool) {
	switch {
	case err == nil:
		return 0, false
	case errors.Is(err, context.Canceled):
		return 130, true
	default:
		log.Errorf("%v", err)
		return 3, true
	}
}

func logSummary(log *cmdutil.Logger, snap stats.Snapshot) {
	log.Infof("Total reads: %d", snap.TotalReads)
	log.Infof("Reads with barcode: %d (%.2f%%)", snap.TotalBarcodeMatches, snap.MatchRate*100)
	log.Infof("Reads without barcode: %d", snap.NoBarcodeCount)
	snap.MatchesByCategory.Each(func(cat string, n int) {
		log.Infof("  %s: %d", cat, n)
	})
}

func isTerminalFile(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fi, err := f.Stat()
	return err == nil && fi.Mode()&os.ModeCharDevice != 0
}

func startProgress(enabled bool, w io.Writer, label string, total int64) *cmdutil.Progress {
	if !enabled {
		return nil
	}
	return cmdutil.StartProgress(w, label, total)
}
