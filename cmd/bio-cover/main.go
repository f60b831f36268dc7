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
package main

/*
bio-cover condenses a per-position signal track (e.g. sequencing depth) into
the BED intervals whose values satisfy a matching criterion.
*/

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/coverbed/cover"
)

var (
	column       = flag.Int("column", cover.DefaultOpts.Column, "1-based value column index; 0 treats every present position as matching")
	criterion    = flag.Float64("criterion", cover.DefaultOpts.Criterion, "Value threshold a position must reach")
	strict       = flag.Bool("strict", cover.DefaultOpts.Strict, "Match values equal to -criterion only, instead of >=")
	inputSep     = flag.String("input-sep", cover.DefaultOpts.InputSep, "Input column separator")
	outputSep    = flag.String("output-sep", cover.DefaultOpts.OutputSep, "Output column separator")
	headerLines  = flag.Int("header-lines", cover.DefaultOpts.HeaderLines, "Number of leading input lines to drop unparsed")
	skipComments = flag.Bool("skip-comments", cover.DefaultOpts.SkipComments, "Drop input lines starting with '#'")
	maxGap       = flag.Int("max-gap", cover.DefaultOpts.MaxGap, "Bridge runs of up to this many consecutive non-matching positions")
	minWidth     = flag.Int("min-width", cover.DefaultOpts.MinWidth, "Drop intervals spanning fewer than this many positions")
	offset       = flag.Int("offset", cover.DefaultOpts.Offset, "Amount added to both interval bounds on output; -1 converts 1-based input positions to 0-based BED")
	track        = flag.Bool("track", cover.DefaultOpts.EmitTrackLine, "Write a BED track line before the first interval")
	trackName    = flag.String("track-name", cover.DefaultOpts.TrackName, "Track line name attribute")
	trackDesc    = flag.String("track-desc", cover.DefaultOpts.TrackDescription, "Track line free-text description")
	format       = flag.String("format", cover.FormatBED, "Output format; 'bed', 'bed-bgz', and 'rio' supported")
	out          = flag.String("out", "-", "Output path; '-' writes to stdout")
)

func bioCoverUsage() {
	fmt.Printf("Usage: %s [OPTIONS] trackpath\n", os.Args[0])
	fmt.Printf("A trackpath of '-' reads from stdin.\n")
	fmt.Printf("Other options:\n")
	flag.PrintDefaults()
}

func main() {
	flag.Usage = bioCoverUsage
	shutdown := grail.Init()
	defer shutdown()

	allArgs := flag.Args()
	nPositionalArgs := flag.NArg()
	positionalArgs := allArgs[len(allArgs)-nPositionalArgs:]
	if nPositionalArgs != 1 {
		if nPositionalArgs < 1 {
			log.Fatalf("Missing positional argument (trackpath required); please check flag syntax: '%s'", strings.Join(positionalArgs, " "))
		} else {
			log.Fatalf("Too many positional arguments (only trackpath expected); please check flag syntax: '%s'", strings.Join(positionalArgs, " "))
		}
	}
	ctx := vcontext.Background()
	opts := cover.Opts{
		Column:           *column,
		Criterion:        *criterion,
		Strict:           *strict,
		InputSep:         *inputSep,
		OutputSep:        *outputSep,
		HeaderLines:      *headerLines,
		SkipComments:     *skipComments,
		MaxGap:           *maxGap,
		MinWidth:         *minWidth,
		Offset:           *offset,
		EmitTrackLine:    *track,
		TrackName:        *trackName,
		TrackDescription: *trackDesc,
	}
	if err := cover.CoverFile(ctx, positionalArgs[0], *out, *format, opts); err != nil {
		log.Panicf("%v", err)
	}
	log.Debug.Printf("exiting")
}
