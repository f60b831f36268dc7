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

import "fmt"

// Opts controls record parsing, interval construction, and output
// rendering.
type Opts struct {
	// Column is the 1-based index of the value column in the input.  Column
	// 0 selects match-all mode.
	Column int
	// MatchAll, if true, accepts every record regardless of its value.  It
	// is implied by Column == 0.
	MatchAll bool
	// Criterion is the value threshold a record must reach to be part of an
	// interval.
	Criterion float64
	// Strict requires values to equal Criterion exactly instead of matching
	// everything >= Criterion.
	Strict bool
	// InputSep separates columns in the input.
	InputSep string
	// OutputSep separates columns in BED output.
	OutputSep string
	// HeaderLines is the number of leading input lines to discard unparsed.
	HeaderLines int
	// SkipComments drops input lines starting with '#' after the header.
	SkipComments bool
	// MaxGap bridges runs of at most this many consecutive non-matching
	// positions between two matching ones.
	MaxGap int
	// MinWidth drops finished intervals spanning fewer than this many
	// positions.
	MinWidth int
	// Offset is added to both bounds of every interval as it is written.
	// The default of -1 converts 1-based input positions to 0-based BED
	// coordinates.
	Offset int
	// EmitTrackLine writes a track line before the first interval.  No
	// track line is written when the output is empty.
	EmitTrackLine bool
	// TrackName is the name attribute of the track line.
	TrackName string
	// TrackDescription is prepended to the generated description attribute
	// of the track line.
	TrackDescription string
}

// DefaultOpts is the standard depth-track thresholding configuration:
// tab-separated input with one header line, value in column 3, match on
// value >= 1, and 1-based positions shifted to 0-based BED coordinates.
var DefaultOpts = Opts{
	Column:        3,
	Criterion:     1,
	InputSep:      "\t",
	OutputSep:     "\t",
	HeaderLines:   1,
	SkipComments:  true,
	MinWidth:      1,
	Offset:        -1,
	EmitTrackLine: true,
}

// Normalize validates o and resolves implied settings, returning the
// effective options.  Column == 0 implies MatchAll; MatchAll in turn forces
// Criterion to 1 and disables Strict so that synthesized record values and
// generated track lines are deterministic.
func (o Opts) Normalize() (Opts, error) {
	if o.Column < 0 {
		return o, fmt.Errorf("cover: invalid value column %d", o.Column)
	}
	if o.Column == 0 {
		o.MatchAll = true
	}
	if o.MatchAll {
		o.Column = 0
		o.Criterion = 1
		o.Strict = false
	}
	if o.InputSep == "" {
		return o, fmt.Errorf("cover: input separator must be nonempty")
	}
	if o.OutputSep == "" {
		return o, fmt.Errorf("cover: output separator must be nonempty")
	}
	if o.HeaderLines < 0 {
		return o, fmt.Errorf("cover: invalid header line count %d", o.HeaderLines)
	}
	if o.MaxGap < 0 {
		return o, fmt.Errorf("cover: invalid gap limit %d", o.MaxGap)
	}
	if o.MinWidth < 1 {
		return o, fmt.Errorf("cover: invalid minimum interval width %d", o.MinWidth)
	}
	return o, nil
}

// matches reports whether a record with value v satisfies the criterion.
func (o *Opts) matches(v float64) bool {
	if o.MatchAll {
		return true
	}
	if o.Strict {
		return v == o.Criterion
	}
	return v >= o.Criterion
}
