package cmd

import (
	"fmt"
	"log"

	"github.com/grailbio/base/cmdutil"
	"github.com/grailbio/coverbed/encoding/fasta"
	"github.com/grailbio/coverbed/mask"
	"v.io/x/lib/cmdline"
)

func newCmdMask() *cmdline.Command {
	cmd := &cmdline.Command{
		Name: "mask",
		Short: `Overwrite the BED-covered positions of a FASTA file.
Every base falling in an interval of the BED file is replaced by the fill character`,
		ArgsName: "fasta-path bed-path",
	}
	opts := mask.DefaultOpts
	fill := cmd.Flags.String("fill", "N", "Character written over masked positions")
	cmd.Flags.BoolVar(&opts.MatchCase, "match-case", false, "Match the case of each masked base: write the uppercase fill over uppercase bases and the lowercase fill over lowercase ones")
	cmd.Flags.IntVar(&opts.LineWidth, "line-width", fasta.DefaultLineWidth, "Sequence line width of the FASTA output")
	cmd.Flags.IntVar(&opts.Parallelism, "parallelism", 0, "Number of sequences masked concurrently. 0 means one per CPU")
	cmd.Flags.BoolVar(&opts.Invert, "invert", false, "Mask the positions NOT covered by the BED file")
	cmd.Flags.BoolVar(&opts.OneBasedInput, "one-based", false, "Treat the BED intervals as one-based [start, end] instead of zero-based [start, end)")
	out := cmd.Flags.String("out", "-", "Output FASTA filename. '-' writes to stdout")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 2 {
			return fmt.Errorf("mask takes a FASTA path and a BED path, but found %v", argv)
		}
		return maskFasta(argv[0], argv[1], *out, *fill, opts)
	})
	return cmd
}

func newCmdIndex() *cmdline.Command {
	cmd := &cmdline.Command{
		Name: "index",
		Short: `Create an index (.fai) for a FASTA file.
The FASTA must be uncompressed, since the index records byte offsets into it`,
		ArgsName: "fasta-path",
	}
	out := cmd.Flags.String("out", "", "Output index filename. By default, set to input FASTA filename + .fai. '-' writes to stdout")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 1 {
			return fmt.Errorf("index takes a path, but found %v", argv)
		}
		return indexFasta(argv[0], *out)
	})
	return cmd
}

func newCmdClean() *cmdline.Command {
	cmd := &cmdline.Command{
		Name: "clean",
		Short: `Normalize the bases of a FASTA file.
Lowercase bases are capitalized and everything outside ACGT becomes 'N'`,
		ArgsName: "fasta-path",
	}
	opts := cleanOpts{}
	cmd.Flags.BoolVar(&opts.keepCase, "keep-case", false, "Keep base case; only replace characters outside ACGTacgt with 'N'")
	cmd.Flags.IntVar(&opts.lineWidth, "line-width", fasta.DefaultLineWidth, "Sequence line width of the FASTA output")
	out := cmd.Flags.String("out", "-", "Output FASTA filename. '-' writes to stdout")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 1 {
			return fmt.Errorf("clean takes a path, but found %v", argv)
		}
		return cleanFasta(argv[0], *out, opts)
	})
	return cmd
}

func newCmdChecksum() *cmdline.Command {
	cmd := &cmdline.Command{
		Name: "checksum",
		Short: `Compute a checksum of a FASTA file.
The checksum is a JSON array with the name, length, GC fraction, and sequence hash of every sequence`,
		ArgsName: "fasta-path",
	}
	opts := checksumOpts{}
	cmd.Flags.BoolVar(&opts.foldCase, "fold-case", false, "Uppercase bases before hashing")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 1 {
			return fmt.Errorf("checksum takes a path, but found %v", argv)
		}
		return checksum(argv[0], opts)
	})
	return cmd
}

func Run() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds | log.Lshortfile)
	cmdline.HideGlobalFlagsExcept()
	cmdline.Main(
		&cmdline.Command{
			Name:     "bio-fatool",
			Short:    "Tools for working with FASTA files",
			LookPath: false,
			Children: []*cmdline.Command{
				newCmdMask(),
				newCmdIndex(),
				newCmdClean(),
				newCmdChecksum(),
			},
		})
}
