// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package mask overwrites the BED-covered positions of FASTA sequences with
// a fill character, optionally preserving the case of the original bases.
package mask

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"runtime"

	"github.com/grailbio/base/compress"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/traverse"
	"github.com/grailbio/coverbed/encoding/fasta"
	"github.com/grailbio/coverbed/interval"
)

// Opts configures Apply.
type Opts struct {
	// Fill is the character written over covered positions.
	Fill byte
	// MatchCase makes the fill track the case of the character it replaces:
	// uppercase originals get the uppercase form of Fill, lowercase
	// originals the lowercase form.  When false, Fill is written as given.
	MatchCase bool
	// LineWidth is the body line width of the FASTA output.
	LineWidth int
	// Parallelism bounds the number of concurrent masking jobs.  0 means
	// one per CPU.
	Parallelism int
	// Invert masks the complement of the BED intervals instead.  Only
	// consulted by ApplyFile, which loads the BED itself.
	Invert bool
	// OneBasedInput interprets the BED intervals as one-based [start, end]
	// instead of the usual zero-based [start, end).  Only consulted by
	// ApplyFile.
	OneBasedInput bool
}

// DefaultOpts masks with 'N' at the standard FASTA line width.
var DefaultOpts = Opts{
	Fill:      'N',
	LineWidth: fasta.DefaultLineWidth,
}

// Apply writes a copy of fa to w with every position covered by bed
// replaced by the fill character.  Sequences keep their original order and
// names; BED references with no matching sequence are logged and skipped.
func Apply(fa fasta.Fasta, bed *interval.BEDUnion, w io.Writer, opts Opts) error {
	if opts.Fill == 0 {
		opts.Fill = DefaultOpts.Fill
	}
	seqNames := fa.SeqNames()
	parallelism := opts.Parallelism
	if parallelism <= 0 {
		parallelism = runtime.NumCPU()
	}
	if parallelism > len(seqNames) {
		parallelism = len(seqNames)
	}
	masked := make([][]byte, len(seqNames))
	nMasked := make([]int64, len(seqNames))
	err := traverse.Each(parallelism, func(jobIdx int) error {
		startIdx := (jobIdx * len(seqNames)) / parallelism
		endIdx := ((jobIdx + 1) * len(seqNames)) / parallelism
		for i := startIdx; i < endIdx; i++ {
			seq, n, e := maskSeq(fa, seqNames[i], bed.EndpointsByName(seqNames[i]), &opts)
			if e != nil {
				return e
			}
			masked[i] = seq
			nMasked[i] = n
		}
		return nil
	})
	if err != nil {
		return err
	}
	logMissing(seqNames, bed)
	out := fasta.NewWriter(w, opts.LineWidth)
	for i, name := range seqNames {
		out.Append(name, masked[i])
	}
	if err = out.Flush(); err != nil {
		return err
	}
	var total int64
	for _, n := range nMasked {
		total += n
	}
	log.Printf("mask: done, %d base(s) masked across %d sequence(s)", total, len(seqNames))
	return nil
}

func maskSeq(fa fasta.Fasta, name string, endpoints []interval.PosType, opts *Opts) ([]byte, int64, error) {
	n, err := fa.Len(name)
	if err != nil {
		return nil, 0, err
	}
	if n == 0 {
		return nil, 0, nil
	}
	if n > math.MaxInt32 {
		return nil, 0, fmt.Errorf("mask: sequence %s length %d out of range", name, n)
	}
	s, err := fa.Get(name, 0, n)
	if err != nil {
		return nil, 0, err
	}
	seq := []byte(s)
	if len(endpoints) == 0 {
		return seq, 0, nil
	}
	upper, lower := fillCases(opts.Fill)
	scanner := interval.NewUnionScanner(endpoints)
	var nMasked int64
	var start, end interval.PosType
	for scanner.Scan(&start, &end, interval.PosType(n)) {
		if start < 0 {
			// Inverted unions open with a -1 sentinel.
			start = 0
		}
		nMasked += int64(end - start)
		for pos := start; pos < end; pos++ {
			switch {
			case !opts.MatchCase:
				seq[pos] = opts.Fill
			case seq[pos] >= 'A' && seq[pos] <= 'Z':
				seq[pos] = upper
			default:
				seq[pos] = lower
			}
		}
	}
	return seq, nMasked, nil
}

// fillCases returns the uppercase and lowercase forms of fill.  A
// non-letter fill is returned unchanged in both positions.
func fillCases(fill byte) (upper, lower byte) {
	upper, lower = fill, fill
	if fill >= 'a' && fill <= 'z' {
		upper = fill - 'a' + 'A'
	}
	if fill >= 'A' && fill <= 'Z' {
		lower = fill + 'a' - 'A'
	}
	return
}

func logMissing(seqNames []string, bed *interval.BEDUnion) {
	has := make(map[string]bool, len(seqNames))
	for _, name := range seqNames {
		has[name] = true
	}
	for _, refName := range bed.RefNames() {
		if !has[refName] {
			log.Printf("mask: BED reference %s has no FASTA sequence; skipped\n", refName)
		}
	}
}

// ApplyFile masks the FASTA file at faPath with the BED at bedPath,
// writing FASTA text to outPath ("-" for stdout).  Compressed FASTA and
// BED inputs are decompressed transparently.
func ApplyFile(ctx context.Context, faPath, bedPath, outPath string, opts Opts) (err error) {
	var infile file.File
	if infile, err = file.Open(ctx, faPath); err != nil {
		return
	}
	defer file.CloseAndReport(ctx, infile, &err)
	reader, _ := compress.NewReader(infile.Reader(ctx))
	defer func() {
		if e := reader.Close(); e != nil && err == nil {
			err = e
		}
	}()
	var fa fasta.Fasta
	if fa, err = fasta.New(reader); err != nil {
		return
	}
	var bed interval.BEDUnion
	bedOpts := interval.NewBEDOpts{Invert: opts.Invert, OneBasedInput: opts.OneBasedInput}
	if bed, err = interval.NewBEDUnionFromPath(bedPath, bedOpts); err != nil {
		return
	}
	var out io.Writer = os.Stdout
	if outPath != "-" {
		var f file.File
		if f, err = file.Create(ctx, outPath); err != nil {
			return
		}
		defer file.CloseAndReport(ctx, f, &err)
		out = f.Writer(ctx)
	}
	return Apply(fa, &bed, out, opts)
}
