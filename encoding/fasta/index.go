package fasta

import (
	"bufio"
	"bytes"
	"io"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/tsv"
)

// faiEntry collects the index fields of the sequence currently being
// scanned.
type faiEntry struct {
	name      string
	length    int64
	offset    int64
	lineBases int
	lineWidth int
}

func (e *faiEntry) write(w *tsv.Writer) error {
	w.WriteString(e.name)
	w.WriteInt64(e.length)
	w.WriteInt64(e.offset)
	w.WriteInt64(int64(e.lineBases))
	w.WriteInt64(int64(e.lineWidth))
	return w.EndLine()
}

// GenerateIndex writes a "samtools faidx" style index (*.fai) for the FASTA
// text read from in: one tab-separated line per sequence, of the form
//
//	<sequence name>\t<length>\t<byte offset>\t<bases per line>\t<bytes per line>
//
// (http://www.htslib.org/doc/faidx.html).  Offsets count the bytes of in, so
// in must be the stored file, not a decompressed view of it.  A header with
// no base lines yields a length-zero entry.
func GenerateIndex(out io.Writer, in io.Reader) error {
	var (
		w       = tsv.NewWriter(out)
		r       = bufio.NewReader(in)
		cur     faiEntry
		started bool
		offset  int64
	)
	for {
		fullLine, err := r.ReadBytes('\n')
		atEOF := err == io.EOF
		if err != nil && !atEOF {
			return err
		}
		offset += int64(len(fullLine))
		line := bytes.TrimRight(fullLine, "\r\n")
		switch {
		case len(line) == 0:
			// Blank lines separate nothing and index nothing.
		case line[0] == '>':
			if started {
				if err := cur.write(w); err != nil {
					return err
				}
			}
			// Bases start right after the header line.
			cur = faiEntry{
				name:   strings.Split(string(line[1:]), " ")[0],
				offset: offset,
			}
			started = true
		default:
			if !started {
				return errors.E("malformed FASTA file")
			}
			if cur.lineWidth == 0 {
				cur.lineWidth = len(fullLine)
				cur.lineBases = len(line)
			}
			cur.length += int64(len(line))
		}
		if atEOF {
			break
		}
	}
	if !started {
		return errors.E("empty FASTA file")
	}
	if err := cur.write(w); err != nil {
		return err
	}
	return w.Flush()
}
