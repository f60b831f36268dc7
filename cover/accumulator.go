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

import "github.com/grailbio/base/log"

// Interval is a half-open [Start, End) run of positions on one reference.
type Interval struct {
	RefName string
	Start   PosType
	End     PosType
}

// Accumulator coalesces a sorted record stream into maximal intervals of
// criterion-satisfying positions.  At most one candidate interval is open
// at any time, so memory use is constant regardless of input size.
//
// Add returns at most one finished interval per call, and Flush returns the
// final one at end of input.  The boolean result reports whether an
// interval was in fact produced: intervals spanning fewer than
// Opts.MinWidth positions are counted and dropped instead.
type Accumulator struct {
	opts Opts

	refName string
	start   PosType
	end     PosType
	pending int // consecutive non-matching records since the last match
	active  bool

	nDropped int64
}

// NewAccumulator returns an Accumulator with the given (normalized)
// options.
func NewAccumulator(opts Opts) *Accumulator {
	return &Accumulator{opts: opts}
}

// Add feeds one record to the accumulator.  The returned interval is only
// valid when the boolean is true.
func (a *Accumulator) Add(rec Record) (Interval, bool) {
	match := a.opts.matches(rec.Value)
	if rec.RefName != a.refName {
		iv, ok := a.finish()
		a.refName = rec.RefName
		if match {
			a.open(rec.Pos)
		}
		return iv, ok
	}
	if !match {
		if !a.active {
			return Interval{}, false
		}
		if a.pending < a.opts.MaxGap {
			a.pending++
			return Interval{}, false
		}
		return a.finish()
	}
	if !a.active {
		a.open(rec.Pos)
		return Interval{}, false
	}
	if rec.Pos == a.end {
		// Pending grace, if any, is spent bridging to this match.
		a.end += PosType(a.pending) + 1
		a.pending = 0
		return Interval{}, false
	}
	if rec.Pos > a.end && a.opts.MaxGap > 0 &&
		int64(rec.Pos)-int64(a.end) <= int64(a.opts.MaxGap) {
		// The skipped positions between end and rec.Pos count against the
		// gap limit even though no records were seen for them.
		a.end = rec.Pos + 1
		a.pending = 0
		return Interval{}, false
	}
	iv, ok := a.finish()
	a.open(rec.Pos)
	return iv, ok
}

// Flush finishes the open interval, if any.  The accumulator may be reused
// for a new stream afterwards.
func (a *Accumulator) Flush() (Interval, bool) {
	iv, ok := a.finish()
	a.refName = ""
	return iv, ok
}

// Dropped returns the number of intervals discarded for spanning fewer than
// Opts.MinWidth positions.
func (a *Accumulator) Dropped() int64 { return a.nDropped }

func (a *Accumulator) open(pos PosType) {
	a.start = pos
	a.end = pos + 1
	a.pending = 0
	a.active = true
}

func (a *Accumulator) finish() (Interval, bool) {
	if !a.active {
		a.pending = 0
		return Interval{}, false
	}
	a.active = false
	a.pending = 0
	if a.end <= a.start {
		log.Panicf("cover: interval [%d, %d) on %s is empty", a.start, a.end, a.refName)
	}
	if int64(a.end)-int64(a.start) < int64(a.opts.MinWidth) {
		a.nDropped++
		return Interval{}, false
	}
	return Interval{RefName: a.refName, Start: a.start, End: a.end}, true
}
