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
	"bytes"
	"fmt"
	"io"
	"strconv"

	gunsafe "github.com/grailbio/base/unsafe"
)

// Record is a single parsed input line: the signal value observed at one
// position of a reference sequence.
type Record struct {
	RefName string
	Pos     PosType
	Value   float64
}

// MalformedRecordError describes an input line that could not be parsed.
type MalformedRecordError struct {
	// Line is the 1-based line number in the input, counting header and
	// comment lines.
	Line int
	// Msg says what was wrong with the line.
	Msg string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("cover: malformed record on line %d: %s", e.Line, e.Msg)
}

// Input lines are expected to be short; this just guards against binary
// garbage blowing up memory.
const maxLineBytes = 4 * 1024 * 1024

// Reader parses signal records from delimited text.  It discards the
// configured number of header lines unparsed, then skips blank lines and
// (optionally) #-prefixed comments.  Records must arrive sorted by
// (reference, position) with strictly increasing positions within a
// reference and no reference visited twice; violations fail the scan
// instead of silently corrupting downstream interval state.
type Reader struct {
	scanner *bufio.Scanner
	opts    Opts
	fields  [][]byte
	sep     []byte

	rec     Record
	lastPos PosType
	seen    map[string]bool
	line    int
	err     error
}

// NewReader returns a Reader scanning r.  opts must be normalized.
func NewReader(r io.Reader, opts Opts) *Reader {
	nField := opts.Column
	if nField < 2 {
		// Match-all mode still needs the reference and position columns.
		nField = 2
	}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	return &Reader{
		scanner: scanner,
		opts:    opts,
		fields:  make([][]byte, nField),
		sep:     []byte(opts.InputSep),
		seen:    make(map[string]bool),
	}
}

// Scan advances to the next record.  It returns false at end of input or on
// the first error; Err() distinguishes the two.
func (r *Reader) Scan() bool {
	if r.err != nil {
		return false
	}
	for r.scanner.Scan() {
		r.line++
		if r.line <= r.opts.HeaderLines {
			continue
		}
		line := r.scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		if r.opts.SkipComments && line[0] == '#' {
			continue
		}
		if r.err = r.parse(line); r.err != nil {
			return false
		}
		return true
	}
	r.err = r.scanner.Err()
	return false
}

// Record returns the record parsed by the last successful Scan.  Its
// RefName is shared across records of the same reference.
func (r *Reader) Record() Record { return r.rec }

// Err returns the first error encountered, or nil at clean end of input.
func (r *Reader) Err() error { return r.err }

func (r *Reader) parse(line []byte) error {
	n := splitFields(r.fields, line, r.sep)
	if n < len(r.fields) {
		return &MalformedRecordError{
			Line: r.line,
			Msg:  fmt.Sprintf("%d column(s), want at least %d", n, len(r.fields)),
		}
	}
	if len(r.fields[0]) == 0 {
		return &MalformedRecordError{Line: r.line, Msg: "empty reference name"}
	}
	pos64, err := strconv.ParseInt(gunsafe.BytesToString(r.fields[1]), 10, 64)
	if err != nil {
		return &MalformedRecordError{
			Line: r.line,
			Msg:  fmt.Sprintf("invalid position %q", r.fields[1]),
		}
	}
	// The accumulator extends intervals to pos+1, so the last representable
	// position is excluded too.
	if pos64 < 0 || pos64 >= PosTypeMax {
		return &MalformedRecordError{
			Line: r.line,
			Msg:  fmt.Sprintf("position %d out of range", pos64),
		}
	}
	value := r.opts.Criterion
	if !r.opts.MatchAll {
		value, err = strconv.ParseFloat(gunsafe.BytesToString(r.fields[r.opts.Column-1]), 64)
		if err != nil {
			return &MalformedRecordError{
				Line: r.line,
				Msg:  fmt.Sprintf("invalid value %q", r.fields[r.opts.Column-1]),
			}
		}
	}
	pos := PosType(pos64)
	if r.rec.RefName == "" || gunsafe.BytesToString(r.fields[0]) != r.rec.RefName {
		// Copy the name once per reference change; subsequent records of the
		// same reference share it.
		refName := string(r.fields[0])
		if r.seen[refName] {
			return fmt.Errorf("cover: unsorted input (split reference %s at line %d)", refName, r.line)
		}
		r.seen[refName] = true
		r.rec.RefName = refName
	} else if pos <= r.lastPos {
		return fmt.Errorf("cover: unsorted input (position %d after %d on %s at line %d)", pos, r.lastPos, r.rec.RefName, r.line)
	}
	r.lastPos = pos
	r.rec.Pos = pos
	r.rec.Value = value
	return nil
}

// splitFields fills fields with the first len(fields) sep-delimited columns
// of line, returning the number found.  Unlike bytes.Split it stops early
// and allocates nothing; columns past len(fields) are left unsplit and
// dropped.
func splitFields(fields [][]byte, line, sep []byte) int {
	n := 0
	for n < len(fields) {
		idx := bytes.Index(line, sep)
		if idx < 0 {
			fields[n] = line
			n++
			break
		}
		fields[n] = line[:idx]
		n++
		line = line[idx+len(sep):]
	}
	return n
}
