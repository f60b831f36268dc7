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
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/recordio"
	"github.com/grailbio/base/recordio/recordiozstd"
)

const trailerVersion = 1

// RioInterval is the wire form of one interval: a fixed 12-byte triple of
// little-endian uint32s.  RefID indexes the reference-name list returned by
// ReadRioIntervals.
type RioInterval struct {
	RefID uint32
	Start uint32
	End   uint32
}

// RioWriter writes intervals as a recordio file.  Opts.Offset is applied to
// both bounds at write time, exactly as in BED output.  Reference names, in
// order of first appearance, are stored in the file trailer together with
// the interval count, so a file is produced in a single streaming pass.
//
// Errors are sticky and are reported by Finish.
type RioWriter struct {
	rw       recordio.Writer
	opts     Opts
	refIDs   map[string]uint32
	refNames []string
	n        int64
	err      errors.Once
}

// NewRioWriter returns a RioWriter rendering to w with the given
// (normalized) options.
func NewRioWriter(w io.Writer, opts Opts) *RioWriter {
	// recordiozstd.Init() is called in singleton.go's init().
	rw := recordio.NewWriter(w, recordio.WriterOpts{
		Marshal:      marshalRioInterval,
		Transformers: []string{recordiozstd.Name},
	})
	rw.AddHeader(recordio.KeyTrailer, true)
	return &RioWriter{rw: rw, opts: opts, refIDs: make(map[string]uint32)}
}

// Write appends one interval.
func (w *RioWriter) Write(iv Interval) {
	start := int64(iv.Start) + int64(w.opts.Offset)
	end := int64(iv.End) + int64(w.opts.Offset)
	if start < 0 || end > math.MaxUint32 {
		w.err.Set(fmt.Errorf("cover: interval %s:[%d, %d) out of uint32 range after offset %d",
			iv.RefName, iv.Start, iv.End, w.opts.Offset))
		return
	}
	id, found := w.refIDs[iv.RefName]
	if !found {
		id = uint32(len(w.refNames))
		w.refIDs[iv.RefName] = id
		w.refNames = append(w.refNames, iv.RefName)
	}
	w.rw.Append(&RioInterval{RefID: id, Start: uint32(start), End: uint32(end)})
	w.n++
}

// Finish writes the trailer and flushes the file.  No intervals may be
// written afterwards.
func (w *RioWriter) Finish() error {
	w.rw.SetTrailer(rioTrailer(w.n, w.refNames))
	w.err.Set(w.rw.Finish())
	return w.err.Err()
}

func rioTrailer(numIntervals int64, refNames []string) []byte {
	var buffer bytes.Buffer
	if err := binary.Write(&buffer, binary.LittleEndian, int64(trailerVersion)); err != nil {
		panic("couldn't write trailer version")
	}
	if err := binary.Write(&buffer, binary.LittleEndian, numIntervals); err != nil {
		panic("couldn't write interval count to trailer")
	}
	buffer.WriteString(strings.Join(refNames, "\000"))
	return buffer.Bytes()
}

func parseRioTrailer(trailer []byte) (numIntervals int64, refNames []string, err error) {
	r := bytes.NewReader(trailer)
	var version int64
	if err = binary.Read(r, binary.LittleEndian, &version); err != nil {
		return
	}
	if version != trailerVersion {
		err = fmt.Errorf("unrecognized trailer version: got %d, want %d", version, trailerVersion)
		return
	}
	if err = binary.Read(r, binary.LittleEndian, &numIntervals); err != nil {
		return
	}
	if r.Len() > 0 {
		packed := make([]byte, r.Len())
		if _, err = io.ReadFull(r, packed); err != nil {
			return
		}
		refNames = strings.Split(string(packed), "\000")
	}
	return
}

func marshalRioInterval(scratch []byte, v interface{}) ([]byte, error) {
	t := scratch
	if len(t) < 12 {
		t = make([]byte, 12)
	}
	t = t[:12]
	iv := v.(*RioInterval)
	binary.LittleEndian.PutUint32(t[:4], iv.RefID)
	binary.LittleEndian.PutUint32(t[4:8], iv.Start)
	binary.LittleEndian.PutUint32(t[8:12], iv.End)
	return t, nil
}

// rioUnmarshaller allocates result memory in one block sized from the
// trailer's interval count, to avoid repeated growth during scanning.
type rioUnmarshaller struct {
	ivs    []RioInterval
	offset int
}

func (u *rioUnmarshaller) init(size int64) {
	if u.ivs != nil {
		panic("tried to initialize when already initialized")
	}
	u.ivs = make([]RioInterval, size)
}

func (u *rioUnmarshaller) unmarshal(in []byte) (out interface{}, err error) {
	if len(in) < 12 {
		return nil, fmt.Errorf("truncated interval record: %d byte(s)", len(in))
	}
	in = in[:12]
	if u.offset == len(u.ivs) {
		u.ivs = append(u.ivs, RioInterval{})
	}
	iv := &u.ivs[u.offset]
	u.offset++
	iv.RefID = binary.LittleEndian.Uint32(in[:4])
	iv.Start = binary.LittleEndian.Uint32(in[4:8])
	iv.End = binary.LittleEndian.Uint32(in[8:12])
	return iv, nil
}

// ReadRioIntervals reads back a recordio file written by RioWriter.
func ReadRioIntervals(rs io.ReadSeeker) (ivs []RioInterval, refNames []string, err error) {
	var unmarshaller rioUnmarshaller
	scanner := recordio.NewScanner(rs, recordio.ScannerOpts{
		Unmarshal: unmarshaller.unmarshal,
	})
	if len(scanner.Trailer()) != 0 {
		var numIntervals int64
		if numIntervals, refNames, err = parseRioTrailer(scanner.Trailer()); err != nil {
			return
		}
		unmarshaller.init(numIntervals)
	}
	for scanner.Scan() {
		ivs = append(ivs, *scanner.Get().(*RioInterval))
	}
	err = scanner.Err()
	return
}

// WriteRioAsBED converts the recordio interval file at path to BED text on
// w.  Offsets were already applied when the recordio was written, so the
// conversion renders coordinates as stored.
func WriteRioAsBED(ctx context.Context, path string, w io.Writer, opts Opts) (err error) {
	var in file.File
	if in, err = file.Open(ctx, path); err != nil {
		return
	}
	defer file.CloseAndReport(ctx, in, &err)
	var (
		ivs      []RioInterval
		refNames []string
	)
	if ivs, refNames, err = ReadRioIntervals(in.Reader(ctx)); err != nil {
		return
	}
	opts.Offset = 0
	bw := NewBEDWriter(w, opts)
	for _, iv := range ivs {
		if int(iv.RefID) >= len(refNames) {
			return fmt.Errorf("cover: record references name %d but the trailer has %d name(s)", iv.RefID, len(refNames))
		}
		if iv.End > math.MaxInt32 {
			return fmt.Errorf("cover: interval end %d out of range", iv.End)
		}
		bw.Write(Interval{RefName: refNames[iv.RefID], Start: PosType(iv.Start), End: PosType(iv.End)})
	}
	return bw.Finish()
}
