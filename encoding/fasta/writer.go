package fasta

import (
	"bufio"
	"io"
)

// DefaultLineWidth is the wrap width used by NewWriter when the caller
// passes a nonpositive one.  It matches the width emitted by common
// reference-preparation tools.
const DefaultLineWidth = 60

// Writer streams FASTA-formatted sequences, wrapping base lines at a fixed
// width.  In the manner of bufio.Writer, write errors are sticky and are
// reported by Flush.
type Writer struct {
	w         *bufio.Writer
	lineWidth int
}

// NewWriter returns a Writer that wraps base lines at lineWidth characters.
// Nonpositive lineWidth selects DefaultLineWidth.
func NewWriter(w io.Writer, lineWidth int) *Writer {
	if lineWidth <= 0 {
		lineWidth = DefaultLineWidth
	}
	return &Writer{w: bufio.NewWriter(w), lineWidth: lineWidth}
}

// Append writes one named sequence.  An empty seq yields a bare header line.
func (w *Writer) Append(name string, seq []byte) {
	w.w.WriteByte('>')    // nolint: errcheck
	w.w.WriteString(name) // nolint: errcheck
	w.w.WriteByte('\n')   // nolint: errcheck
	for off := 0; off < len(seq); off += w.lineWidth {
		end := off + w.lineWidth
		if end > len(seq) {
			end = len(seq)
		}
		w.w.Write(seq[off:end]) // nolint: errcheck
		w.w.WriteByte('\n')     // nolint: errcheck
	}
}

// Flush flushes buffered output and returns the first error encountered by
// any preceding Append, if one occurred.
func (w *Writer) Flush() error {
	return w.w.Flush()
}
