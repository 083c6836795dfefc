package app

import (
	"fmt"
	"os"

	"github.com/biogo/hts/sam"

	"bcseq/internal/bamio"
	"bcseq/internal/cli"
	"bcseq/internal/config"
	"bcseq/internal/fastqio"
	"bcseq/internal/reads"
)

// inputs is the record source of a run plus what the outputs need to
// know about it.
type inputs struct {
	src  reads.Source
	bams []*bamio.Source
}

// header returns the header of the first BAM input once it was opened.
// openInputs has checked that every BAM input shares its references.
func (in inputs) header() *sam.Header {
	if len(in.bams) == 0 {
		return nil
	}
	return in.bams[0].Header()
}

func openInputs(opts cli.Options, cfg config.ExtractorConfig) (inputs, error) {
	var in inputs
	addBAM := func(path string) reads.Source {
		s := &bamio.Source{Path: path, SoftClipped: cfg.SearchSoftclipped}
		in.bams = append(in.bams, s)
		return s
	}

	switch {
	case opts.BAM != "":
		if err := mustExist(opts.BAM); err != nil {
			return in, err
		}
		in.src = addBAM(opts.BAM)
	case opts.FASTQ1 != "" && opts.FASTQ2 != "":
		if err := mustExist(opts.FASTQ1, opts.FASTQ2); err != nil {
			return in, err
		}
		in.src = fastqio.PairedSource{R1: opts.FASTQ1, R2: opts.FASTQ2}
	case opts.FASTQ1 != "":
		if err := mustExist(opts.FASTQ1); err != nil {
			return in, err
		}
		in.src = fastqio.Source{Path: opts.FASTQ1}
	case opts.FASTQDir != "":
		src, err := pairedDir(opts.FASTQDir)
		if err != nil {
			return in, err
		}
		in.src = src
	default:
		if err := mustExist(opts.Inputs...); err != nil {
			return in, err
		}
		format, err := reads.DetectFormats(opts.Inputs)
		if err != nil {
			return in, err
		}
		srcs := make([]reads.Source, 0, len(opts.Inputs))
		for _, p := range opts.Inputs {
			switch format {
			case reads.BAM:
				srcs = append(srcs, addBAM(p))
			case reads.FASTQ:
				srcs = append(srcs, fastqio.Source{Path: p})
			case reads.PairedFASTQ:
				src, err := pairedDir(p)
				if err != nil {
					return in, err
				}
				srcs = append(srcs, src)
			}
		}
		if len(in.bams) > 1 {
			if err := bamio.CheckReferences(opts.Inputs); err != nil {
				return in, err
			}
		}
		in.src = reads.Concat(srcs...)
	}
	return in, nil
}

func pairedDir(dir string) (reads.Source, error) {
	pairs, err := fastqio.FindPairs(dir)
	if err != nil {
		return nil, err
	}
	srcs := make([]reads.Source, len(pairs))
	for i, p := range pairs {
		srcs[i] = p
	}
	return reads.Concat(srcs...), nil
}

func mustExist(paths ...string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			return fmt.Errorf("input %s: %w", p, err)
		}
	}
	return nil
}

// sinkFactory returns the outputs matching the input format. It must be
// called after the first pass so BAM headers are known.
func sinkFactory(in inputs, cfg config.ExtractorConfig) reads.SinkFactory {
	switch in.src.Format() {
	case reads.BAM:
		return bamio.SinkFactory{Dir: cfg.OutputDir, Prefix: cfg.OutputPrefix, Header: in.header()}
	case reads.PairedFASTQ:
		return fastqio.SinkFactory{Dir: cfg.OutputDir, Prefix: cfg.OutputPrefix, Paired: true}
	default:
		return fastqio.SinkFactory{Dir: cfg.OutputDir, Prefix: cfg.OutputPrefix}
	}
}
