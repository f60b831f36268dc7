package cmd

import (
	"fmt"

	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/coverbed/mask"
)

func maskFasta(faPath, bedPath, outPath, fill string, opts mask.Opts) error {
	if len(fill) != 1 {
		return fmt.Errorf("-fill must be a single character, but found %q", fill)
	}
	opts.Fill = fill[0]
	return mask.ApplyFile(vcontext.Background(), faPath, bedPath, outPath, opts)
}
