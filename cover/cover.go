// Copyright 2020 Grail Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package cover

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/grailbio/base/compress"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/grailbio/hts/bgzf"
)

// Output formats for interval rendering.
const (
	// FormatBED is plain three-column BED text.
	FormatBED = "bed"
	// FormatBEDBGZ is BED text wrapped in BGZF blocks.
	FormatBEDBGZ = "bed-bgz"
	// FormatRio is the recordio representation written by RioWriter.
	FormatRio = "rio"
)

// IntervalWriter is the rendering side of Cover.  BEDWriter and RioWriter
// implement it.
type IntervalWriter interface {
	// Write renders or buffers one interval.  Errors are deferred to
	// Finish.
	Write(Interval)
	// Finish flushes pending output and returns the first deferred error.
	Finish() error
}

// NewIntervalWriter returns a writer rendering intervals to w in the given
// format, one of FormatBED, FormatBEDBGZ, or FormatRio.
func NewIntervalWriter(w io.Writer, format string, opts Opts) (IntervalWriter, error) {
	switch format {
	case FormatBED:
		return NewBEDWriter(w, opts), nil
	case FormatBEDBGZ:
		bgz := bgzf.NewWriter(w, runtime.NumCPU())
		return &bgzfBEDWriter{BEDWriter: NewBEDWriter(bgz, opts), bgz: bgz}, nil
	case FormatRio:
		return NewRioWriter(w, opts), nil
	}
	return nil, fmt.Errorf("cover: unknown output format %q", format)
}

// bgzfBEDWriter closes the BGZF stream after the BED text is flushed into
// it.
type bgzfBEDWriter struct {
	*BEDWriter
	bgz *bgzf.Writer
}

func (w *bgzfBEDWriter) Finish() error {
	if err := w.BEDWriter.Finish(); err != nil {
		return err
	}
	return w.bgz.Close()
}

// Cover reads signal records from r and writes coalesced intervals to w in
// the given format.  opts is normalized internally.
func Cover(r io.Reader, w io.Writer, format string, opts Opts) error {
	opts, err := opts.Normalize()
	if err != nil {
		return err
	}
	out, err := NewIntervalWriter(w, format, opts)
	if err != nil {
		return err
	}
	var nRecord, nInterval int64
	reader := NewReader(r, opts)
	acc := NewAccumulator(opts)
	for reader.Scan() {
		nRecord++
		if iv, ok := acc.Add(reader.Record()); ok {
			out.Write(iv)
			nInterval++
		}
	}
	if err = reader.Err(); err != nil {
		return err
	}
	if iv, ok := acc.Flush(); ok {
		out.Write(iv)
		nInterval++
	}
	if err = out.Finish(); err != nil {
		return err
	}
	log.Printf("cover: %d record(s), %d interval(s) emitted, %d dropped as too narrow", nRecord, nInterval, acc.Dropped())
	return nil
}

// CoverFile runs Cover from inPath to outPath, either of which may be "-"
// to denote stdin and stdout respectively.  Compressed inputs are
// decompressed transparently.
func CoverFile(ctx context.Context, inPath, outPath, format string, opts Opts) (err error) {
	var in io.Reader = os.Stdin
	if inPath != "-" {
		var f file.File
		if f, err = file.Open(ctx, inPath); err != nil {
			return
		}
		defer file.CloseAndReport(ctx, f, &err)
		in = f.Reader(ctx)
	}
	reader, _ := compress.NewReader(in)
	defer func() {
		if e := reader.Close(); e != nil && err == nil {
			err = e
		}
	}()
	var out io.Writer = os.Stdout
	if outPath != "-" {
		var f file.File
		if f, err = file.Create(ctx, outPath); err != nil {
			return
		}
		defer file.CloseAndReport(ctx, f, &err)
		out = f.Writer(ctx)
	}
	return Cover(reader, out, format, opts)
}
