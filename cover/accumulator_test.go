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
	"testing"

	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
)

func mustNormalize(t *testing.T, opts Opts) Opts {
	opts, err := opts.Normalize()
	assert.NoError(t, err)
	return opts
}

// runAccumulator pushes recs through a fresh accumulator and collects the
// finished intervals and the dropped-interval count.
func runAccumulator(t *testing.T, opts Opts, recs []Record) ([]Interval, int64) {
	acc := NewAccumulator(mustNormalize(t, opts))
	var got []Interval
	for _, rec := range recs {
		if iv, ok := acc.Add(rec); ok {
			got = append(got, iv)
		}
	}
	if iv, ok := acc.Flush(); ok {
		got = append(got, iv)
	}
	return got, acc.Dropped()
}

func TestAccumulatorContiguous(t *testing.T) {
	got, dropped := runAccumulator(t, DefaultOpts, []Record{
		{"chr1", 1, 2},
		{"chr1", 2, 1},
		{"chr1", 3, 7},
	})
	expect.EQ(t, got, []Interval{{"chr1", 1, 4}})
	expect.EQ(t, dropped, int64(0))
}

func TestAccumulatorBelowCriterionSplits(t *testing.T) {
	got, _ := runAccumulator(t, DefaultOpts, []Record{
		{"chr1", 1, 1},
		{"chr1", 2, 0},
		{"chr1", 3, 1},
	})
	expect.EQ(t, got, []Interval{{"chr1", 1, 2}, {"chr1", 3, 4}})
}

func TestAccumulatorSparseSplits(t *testing.T) {
	// Without a gap allowance, a jump in position closes the interval even
	// though no non-matching record was seen.
	got, _ := runAccumulator(t, DefaultOpts, []Record{
		{"chr1", 1, 1},
		{"chr1", 5, 1},
	})
	expect.EQ(t, got, []Interval{{"chr1", 1, 2}, {"chr1", 5, 6}})
}

func TestAccumulatorGraceBridgesRecordedGap(t *testing.T) {
	opts := DefaultOpts
	opts.MaxGap = 1
	got, _ := runAccumulator(t, opts, []Record{
		{"chr1", 1, 1},
		{"chr1", 2, 0},
		{"chr1", 3, 1},
	})
	expect.EQ(t, got, []Interval{{"chr1", 1, 4}})
}

func TestAccumulatorGraceBridgesSparseGap(t *testing.T) {
	opts := DefaultOpts
	opts.MaxGap = 3
	got, _ := runAccumulator(t, opts, []Record{
		{"chr1", 1, 1},
		{"chr1", 5, 1},
	})
	expect.EQ(t, got, []Interval{{"chr1", 1, 6}})

	got, _ = runAccumulator(t, opts, []Record{
		{"chr1", 1, 1},
		{"chr1", 9, 1},
	})
	expect.EQ(t, got, []Interval{{"chr1", 1, 2}, {"chr1", 9, 10}})
}

func TestAccumulatorGraceExhausted(t *testing.T) {
	opts := DefaultOpts
	opts.MaxGap = 1
	got, _ := runAccumulator(t, opts, []Record{
		{"chr1", 1, 1},
		{"chr1", 2, 0},
		{"chr1", 3, 0},
		{"chr1", 4, 1},
	})
	expect.EQ(t, got, []Interval{{"chr1", 1, 2}, {"chr1", 4, 5}})
}

func TestAccumulatorTrailingGraceDiscarded(t *testing.T) {
	opts := DefaultOpts
	opts.MaxGap = 5
	got, _ := runAccumulator(t, opts, []Record{
		{"chr1", 1, 1},
		{"chr1", 2, 0},
		{"chr1", 3, 0},
	})
	expect.EQ(t, got, []Interval{{"chr1", 1, 2}})
}

func TestAccumulatorGraceBoundary(t *testing.T) {
	// Matching positions 1-8 and 11-13, with the two-position gap at 9-10
	// either recorded as non-matching values or absent entirely.  A gap
	// allowance of 2 bridges it; 1 does not.
	var recorded, absent []Record
	for pos := PosType(1); pos <= 13; pos++ {
		value := float64(1)
		if pos == 9 || pos == 10 {
			value = 0
		}
		if value != 0 {
			absent = append(absent, Record{"chr1", pos, value})
		}
		recorded = append(recorded, Record{"chr1", pos, value})
	}
	for _, recs := range [][]Record{recorded, absent} {
		opts := DefaultOpts
		opts.MaxGap = 2
		got, _ := runAccumulator(t, opts, recs)
		expect.EQ(t, got, []Interval{{"chr1", 1, 14}})

		opts.MaxGap = 1
		got, _ = runAccumulator(t, opts, recs)
		expect.EQ(t, got, []Interval{{"chr1", 1, 9}, {"chr1", 11, 14}})
	}
}

func TestAccumulatorReferenceChange(t *testing.T) {
	// No gap allowance ever bridges a reference boundary.
	opts := DefaultOpts
	opts.MaxGap = 10
	got, _ := runAccumulator(t, opts, []Record{
		{"chr1", 1, 1},
		{"chr1", 2, 1},
		{"chr2", 1, 1},
	})
	expect.EQ(t, got, []Interval{{"chr1", 1, 3}, {"chr2", 1, 2}})

	// A non-matching record leading the new reference leaves it idle.
	got, _ = runAccumulator(t, opts, []Record{
		{"chr1", 5, 1},
		{"chr2", 1, 0},
		{"chr2", 2, 1},
	})
	expect.EQ(t, got, []Interval{{"chr1", 5, 6}, {"chr2", 2, 3}})
}

func TestAccumulatorMinWidth(t *testing.T) {
	opts := DefaultOpts
	opts.MinWidth = 3
	got, dropped := runAccumulator(t, opts, []Record{
		{"chr1", 1, 1},
		{"chr1", 2, 1},
		{"chr1", 5, 1},
		{"chr1", 6, 1},
		{"chr1", 7, 1},
		{"chr1", 9, 1},
	})
	expect.EQ(t, got, []Interval{{"chr1", 5, 8}})
	expect.EQ(t, dropped, int64(2))
}

func TestAccumulatorStrict(t *testing.T) {
	recs := []Record{
		{"chr1", 1, 1},
		{"chr1", 2, 2},
		{"chr1", 3, 1},
	}
	opts := DefaultOpts
	opts.Strict = true
	got, _ := runAccumulator(t, opts, recs)
	expect.EQ(t, got, []Interval{{"chr1", 1, 2}, {"chr1", 3, 4}})

	got, _ = runAccumulator(t, DefaultOpts, recs)
	expect.EQ(t, got, []Interval{{"chr1", 1, 4}})
}

func TestAccumulatorMatchAll(t *testing.T) {
	opts := DefaultOpts
	opts.Column = 0
	got, _ := runAccumulator(t, opts, []Record{
		{"chr1", 1, 0},
		{"chr1", 2, 0},
		{"chr1", 4, 0},
	})
	expect.EQ(t, got, []Interval{{"chr1", 1, 3}, {"chr1", 4, 5}})
}

func TestAccumulatorEmpty(t *testing.T) {
	got, dropped := runAccumulator(t, DefaultOpts, nil)
	expect.EQ(t, got, []Interval(nil))
	expect.EQ(t, dropped, int64(0))
}

func TestAccumulatorReuseAfterFlush(t *testing.T) {
	acc := NewAccumulator(mustNormalize(t, DefaultOpts))
	_, ok := acc.Add(Record{"chr1", 1, 1})
	expect.EQ(t, ok, false)
	iv, ok := acc.Flush()
	expect.EQ(t, ok, true)
	expect.EQ(t, iv, Interval{"chr1", 1, 2})

	// The same reference may recur in a fresh stream.
	_, ok = acc.Add(Record{"chr1", 1, 1})
	expect.EQ(t, ok, false)
	iv, ok = acc.Flush()
	expect.EQ(t, ok, true)
	expect.EQ(t, iv, Interval{"chr1", 1, 2})
}
