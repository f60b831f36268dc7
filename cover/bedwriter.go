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
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/grailbio/base/errors"
)

// BEDWriter renders intervals as three-column BED text.  Opts.Offset is
// added to both bounds of every interval as it is written; with the default
// offset of -1, intervals built from 1-based positions come out in 0-based
// BED coordinates.
//
// In the manner of bufio.Writer, write errors are sticky and are reported
// by Finish.
type BEDWriter struct {
	w       *bufio.Writer
	opts    Opts
	err     errors.Once
	started bool
}

// NewBEDWriter returns a BEDWriter rendering to w with the given
// (normalized) options.
func NewBEDWriter(w io.Writer, opts Opts) *BEDWriter {
	return &BEDWriter{w: bufio.NewWriter(w), opts: opts}
}

// Write renders one interval.  The track line, if configured, precedes the
// first interval; empty output stays fully empty.
func (w *BEDWriter) Write(iv Interval) {
	if !w.started {
		w.started = true
		if w.opts.EmitTrackLine {
			_, err := fmt.Fprintln(w.w, trackLine(w.opts))
			w.err.Set(err)
		}
	}
	sep := w.opts.OutputSep
	_, err := fmt.Fprintf(w.w, "%s%s%d%s%d\n",
		iv.RefName, sep, int64(iv.Start)+int64(w.opts.Offset), sep, int64(iv.End)+int64(w.opts.Offset))
	w.err.Set(err)
}

// Finish flushes buffered output and returns the first error encountered.
func (w *BEDWriter) Finish() error {
	w.err.Set(w.w.Flush())
	return w.err.Err()
}

// trackLine renders the track line describing the matching criterion.
func trackLine(o Opts) string {
	name := o.TrackName
	if name == "" {
		name = "cover"
	}
	var desc []string
	if o.TrackDescription != "" {
		desc = append(desc, o.TrackDescription)
	}
	switch {
	case o.MatchAll:
		desc = append(desc, "all positions")
	case o.Strict:
		desc = append(desc, fmt.Sprintf("value == %v", o.Criterion))
	default:
		desc = append(desc, fmt.Sprintf("value >= %v", o.Criterion))
	}
	if o.MaxGap > 0 {
		desc = append(desc, fmt.Sprintf("gap <= %d", o.MaxGap))
	}
	if o.MinWidth > 1 {
		desc = append(desc, fmt.Sprintf("width >= %d", o.MinWidth))
	}
	return fmt.Sprintf("track name=\"%s\" description=\"%s\"", name, strings.Join(desc, ", "))
}
