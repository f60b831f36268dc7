package cmd

import (
	"io"
	"os"

	"github.com/grailbio/base/compress"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/coverbed/biosimd"
	"github.com/grailbio/coverbed/encoding/fasta"
)

type cleanOpts struct {
	// keepCase preserves the case of retained bases instead of capitalizing.
	keepCase bool
	// lineWidth is the body line width of the FASTA output.
	lineWidth int
}

func cleanSeq(seq []byte, keepCase bool) {
	if keepCase {
		biosimd.CleanASCIISeqNoCapitalizeInplace(seq)
		return
	}
	if !biosimd.IsNonACGTNPresent(seq) {
		return
	}
	biosimd.CleanASCIISeqInplace(seq)
}

func cleanFasta(faPath, outPath string, opts cleanOpts) (err error) {
	ctx := vcontext.Background()
	var in file.File
	if in, err = file.Open(ctx, faPath); err != nil {
		return
	}
	defer file.CloseAndReport(ctx, in, &err)
	reader, _ := compress.NewReader(in.Reader(ctx))
	defer func() {
		if e := reader.Close(); e != nil && err == nil {
			err = e
		}
	}()
	var fa fasta.Fasta
	if fa, err = fasta.New(reader); err != nil {
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
	w := fasta.NewWriter(out, opts.lineWidth)
	for _, name := range fa.SeqNames() {
		var n uint64
		if n, err = fa.Len(name); err != nil {
			return
		}
		if n == 0 {
			w.Append(name, nil)
			continue
		}
		var seq string
		if seq, err = fa.Get(name, 0, n); err != nil {
			return
		}
		b := []byte(seq)
		cleanSeq(b, opts.keepCase)
		w.Append(name, b)
	}
	return w.Flush()
}
