package cmd

import (
	"encoding/json"
	"fmt"
	"hash"
	"runtime"
	"strings"
	"sync"

	"blainsmith.com/go/seahash"
	"github.com/grailbio/base/compress"
	"github.com/grailbio/base/errorreporter"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	gunsafe "github.com/grailbio/base/unsafe"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/coverbed/encoding/fasta"
)

type checksumOpts struct {
	// foldCase uppercases every base before hashing, so that soft-masked and
	// unmasked copies of a sequence checksum identically.
	foldCase bool
}

// seqChecksum is the checksum of one FASTA sequence.
type seqChecksum struct {
	// Name is the name of the sequence.
	Name string
	// Length is the number of bases in the sequence.
	Length uint64
	// GC is the fraction of G and C bases, counting both cases.  Every
	// other character, 'N' included, counts toward the denominator only.
	GC float64
	// SumSeq is the hash of the sequence bases.
	SumSeq uint64
}

func hashSeq(h hash.Hash64, seq string) uint64 {
	h.Reset()
	h.Write(gunsafe.StringToBytes(seq))
	return h.Sum64()
}

func gcFraction(seq string) float64 {
	if len(seq) == 0 {
		return 0
	}
	var n int
	for i := 0; i < len(seq); i++ {
		switch seq[i] {
		case 'G', 'C', 'g', 'c':
			n++
		}
	}
	return float64(n) / float64(len(seq))
}

func checksumSeq(fa fasta.Fasta, name string, h hash.Hash64, opts checksumOpts) (seqChecksum, error) {
	csum := seqChecksum{Name: name}
	n, err := fa.Len(name)
	if err != nil {
		return csum, err
	}
	csum.Length = n
	if n == 0 {
		return csum, nil
	}
	seq, err := fa.Get(name, 0, n)
	if err != nil {
		return csum, err
	}
	csum.GC = gcFraction(seq)
	if opts.foldCase {
		seq = strings.ToUpper(seq)
	}
	csum.SumSeq = hashSeq(h, seq)
	return csum, nil
}

// checksumFasta computes one seqChecksum per sequence, in file order.
// Sequences are hashed concurrently.
func checksumFasta(fa fasta.Fasta, opts checksumOpts) ([]seqChecksum, error) {
	names := fa.SeqNames()
	csums := make([]seqChecksum, len(names))
	errReporter := errorreporter.T{}
	idxCh := make(chan int, len(names))
	for i := range names {
		idxCh <- i
	}
	close(idxCh)
	parallelism := runtime.NumCPU()
	if parallelism > len(names) {
		parallelism = len(names)
	}
	wg := sync.WaitGroup{}
	for i := 0; i < parallelism; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h := seahash.New()
			for idx := range idxCh {
				csum, err := checksumSeq(fa, names[idx], h, opts)
				if err != nil {
					errReporter.Set(err)
					continue
				}
				csums[idx] = csum
			}
		}()
	}
	wg.Wait()
	return csums, errReporter.Err()
}

func checksum(path string, opts checksumOpts) (err error) {
	ctx := vcontext.Background()
	var in file.File
	if in, err = file.Open(ctx, path); err != nil {
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
	var csums []seqChecksum
	if csums, err = checksumFasta(fa, opts); err != nil {
		return
	}
	var js []byte
	if js, err = json.MarshalIndent(csums, "", "  "); err != nil {
		log.Panic(err)
	}
	fmt.Println(string(js))
	return nil
}
