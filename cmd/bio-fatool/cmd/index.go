package cmd

import (
	"io"
	"os"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/coverbed/encoding/fasta"
)

func indexFasta(faPath, outPath string) (err error) {
	ctx := vcontext.Background()
	if outPath == "" {
		outPath = faPath + ".fai"
	}
	var in file.File
	if in, err = file.Open(ctx, faPath); err != nil {
		return
	}
	defer file.CloseAndReport(ctx, in, &err)
	var out io.Writer = os.Stdout
	if outPath != "-" {
		var f file.File
		if f, err = file.Create(ctx, outPath); err != nil {
			return
		}
		defer file.CloseAndReport(ctx, f, &err)
		out = f.Writer(ctx)
	}
	return fasta.GenerateIndex(out, in.Reader(ctx))
}
