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
	"testing"

	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
)

func TestBEDWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewBEDWriter(&buf, mustNormalize(t, DefaultOpts))
	w.Write(Interval{"chr1", 1, 14})
	w.Write(Interval{"chr2", 5, 6})
	assert.NoError(t, w.Finish())
	expect.EQ(t, buf.String(),
		"track name=\"cover\" description=\"value >= 1\"\n"+
			"chr1\t0\t13\n"+
			"chr2\t4\t5\n")
}

func TestBEDWriterEmpty(t *testing.T) {
	// No intervals means no track line either.
	var buf bytes.Buffer
	w := NewBEDWriter(&buf, mustNormalize(t, DefaultOpts))
	assert.NoError(t, w.Finish())
	expect.EQ(t, buf.String(), "")
}

func TestBEDWriterNoTrackLine(t *testing.T) {
	opts := DefaultOpts
	opts.EmitTrackLine = false
	var buf bytes.Buffer
	w := NewBEDWriter(&buf, mustNormalize(t, opts))
	w.Write(Interval{"chr1", 1, 2})
	assert.NoError(t, w.Finish())
	expect.EQ(t, buf.String(), "chr1\t0\t1\n")
}

func TestBEDWriterOffsetAndSeparator(t *testing.T) {
	opts := DefaultOpts
	opts.Offset = 0
	opts.OutputSep = " "
	opts.EmitTrackLine = false
	var buf bytes.Buffer
	w := NewBEDWriter(&buf, mustNormalize(t, opts))
	w.Write(Interval{"chr1", 1, 14})
	assert.NoError(t, w.Finish())
	expect.EQ(t, buf.String(), "chr1 1 14\n")
}

func TestTrackLine(t *testing.T) {
	tests := []struct {
		mutate func(*Opts)
		want   string
	}{
		{
			nil,
			`track name="cover" description="value >= 1"`,
		},
		{
			func(o *Opts) { o.Strict = true; o.Criterion = 2.5 },
			`track name="cover" description="value == 2.5"`,
		},
		{
			func(o *Opts) { o.Column = 0 },
			`track name="cover" description="all positions"`,
		},
		{
			func(o *Opts) {
				o.MaxGap = 3
				o.MinWidth = 2
				o.TrackName = "lowcov"
				o.TrackDescription = "sample7"
			},
			`track name="lowcov" description="sample7, value >= 1, gap <= 3, width >= 2"`,
		},
	}
	for _, test := range tests {
		opts := DefaultOpts
		if test.mutate != nil {
			test.mutate(&opts)
		}
		expect.EQ(t, trackLine(mustNormalize(t, opts)), test.want)
	}
}
