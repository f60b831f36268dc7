package interval

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/fileio"
	"github.com/grailbio/base/log"
	gunsafe "github.com/grailbio/base/unsafe"
	"github.com/grailbio/base/vcontext"
	"github.com/klauspost/compress/gzip"
)

// getTokens identifies up to the first len(tokens) tokens from curLine,
// returning the number of tokens saved.  Any (group of) characters <= ' ' is
// treated as a delimiter.
func getTokens(tokens [][]byte, curLine []byte) int {
	posEnd := 0
	lineLen := len(curLine)
	for tokenIdx := range tokens {
		// These simple loops beat the standard library string-split functions
		// when only the first few columns are wanted.  The compiler currently
		// does not inline any function with a loop, so they stay spelled out.
		pos := posEnd
		for ; pos != lineLen; pos++ {
			if curLine[pos] > ' ' {
				break
			}
		}
		if pos == lineLen {
			return tokenIdx
		}
		posEnd = pos
		for ; posEnd != lineLen; posEnd++ {
			if curLine[posEnd] <= ' ' {
				break
			}
		}
		tokens[tokenIdx] = curLine[pos:posEnd]
	}
	return len(tokens)
}

// NewBEDOpts defines behavior of this package's BED-loading function(s).
type NewBEDOpts struct {
	// Invert causes the complement of the interval-union to be returned.  The
	// complement extends down to position -1 at the beginning of each
	// reference, and up to 2^31 - 2 inclusive at the end.  Only references
	// mentioned in the BED file are included; a single empty interval
	// qualifies as a "mention".
	Invert bool
	// OneBasedInput interprets the BED interval boundaries as one-based
	// [start, end] instead of the usual zero-based [start, end).
	OneBasedInput bool
}

// BEDUnion is implemented as a collection of length-2N sequences, where N is
// the number of intervals, the (0-based) start position of interval #k
// (numbering from zero) is in element [2k] and the end position is in element
// [2k+1], and the intervals are stored in increasing order.  Advantages of
// this representation over a length-N sequence of {start, end} structs
// include simpler inversion code, and reuse of standard []int32 binary and
// similar search algorithms.
type BEDUnion struct {
	// nameMap is a reference-name-keyed map with disjoint-interval-set values.
	// Always initialized.
	nameMap map[string]([]PosType)
	// lastRefIntervals points to the disjoint-interval-set for the most
	// recently queried reference.  This is a minor performance optimization.
	lastRefIntervals []PosType
	// lastRefName is the name of the last queried reference.  If it's
	// nonempty, it must be in sync with lastRefIntervals.
	lastRefName string
	// lastPosPlus1 is 1 plus the last spot-queried position.
	lastPosPlus1 PosType
	// lastIdx is NewEndpointIndex(last queried position, lastRefIntervals).
	// Cached to accelerate sequential queries.
	lastIdx EndpointIndex
	// isSequential is true if all queries since the last reference change have
	// been in order of nondecreasing position.
	isSequential bool
}

// ContainsByName checks whether the (0-based) interval [pos, pos+1) is
// contained within the BEDUnion, where the reference is specified by name.
func (u *BEDUnion) ContainsByName(refName string, pos PosType) bool {
	if refName != u.lastRefName {
		u.lastRefName = refName
		u.lastRefIntervals = u.nameMap[refName]
		// Force use of SearchPosTypes() on the first query for a reference.
		if u.lastRefIntervals == nil {
			return false
		}
		u.lastIdx = NewEndpointIndex(pos, u.lastRefIntervals)
		u.lastPosPlus1 = pos + 1
		u.isSequential = true
		return u.lastIdx.Contained()
	}
	if u.lastRefIntervals == nil {
		return false
	}
	if u.isSequential {
		if pos+1 >= u.lastPosPlus1 {
			u.lastIdx.Update(pos, u.lastRefIntervals)
			u.lastPosPlus1 = pos + 1
			return u.lastIdx.Contained()
		}
		u.isSequential = false
	}
	return NewEndpointIndex(pos, u.lastRefIntervals).Contained()
}

// RefNames returns the names of all references mentioned by the BED, in
// lexicographic order.
func (u *BEDUnion) RefNames() []string {
	names := make([]string, 0, len(u.nameMap))
	for name := range u.nameMap {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// EndpointsByName returns the packed endpoint sequence for the given
// reference, or nil if the BED never mentions it.  Elements [2k] and [2k+1]
// are the 0-based start and end of interval #k.  Under Invert, the first and
// last elements are the -1 and 2^31 - 1 boundary sentinels; callers iterating
// over the pairs are expected to clamp.  The slice is shared, not copied.
func (u *BEDUnion) EndpointsByName(refName string) []PosType {
	return u.nameMap[refName]
}

func initBEDUnion() (bedUnion BEDUnion) {
	bedUnion.nameMap = make(map[string]([]PosType))
	bedUnion.lastRefName = ""
	return
}

func scanBEDUnion(scanner *bufio.Scanner, opts NewBEDOpts) (bedUnion BEDUnion, err error) {
	bedUnion = initBEDUnion()

	var startSubtract int
	if opts.OneBasedInput {
		startSubtract++
	}

	// This could also be inside the for loop; minor tradeoff between extra
	// zero-reinitialization and positive side effects of better locality.
	var tokens [3][]byte

	lineIdx := 0
	prevRef := ""
	totBases := 0
	var prevStart, prevEnd PosType
	var refIntervals []PosType
	for scanner.Scan() {
		lineIdx++
		// scanner.Bytes() does not allocate, scanner.Text() does.  The
		// gunsafe.BytesToString views below must stay scoped to single strconv
		// calls: the underlying bytes are overwritten on the next Scan.
		curLine := scanner.Bytes()
		nToken := getTokens(tokens[:], curLine)
		if nToken != 3 {
			if nToken == 0 {
				continue
			}
			err = fmt.Errorf("interval.scanBEDUnion: line %d has fewer tokens than expected", lineIdx)
			return
		}

		curRef := tokens[0]
		var parsedStart int
		if parsedStart, err = strconv.Atoi(gunsafe.BytesToString(tokens[1])); err != nil {
			return
		}
		parsedStart -= startSubtract
		if parsedStart < 0 {
			err = fmt.Errorf("interval.scanBEDUnion: negative start coordinate %s on line %d", tokens[1], lineIdx)
			return
		}
		start := PosType(parsedStart)

		var parsedEnd int
		if parsedEnd, err = strconv.Atoi(gunsafe.BytesToString(tokens[2])); err != nil {
			return
		}
		if (parsedEnd < parsedStart) || (parsedEnd >= PosTypeMax) {
			err = fmt.Errorf("interval.scanBEDUnion: invalid coordinate pair on line %d", lineIdx)
			return
		}
		end := PosType(parsedEnd)
		if prevRef != gunsafe.BytesToString(curRef) {
			if prevRef != "" {
				// Save last interval, add to map.
				if prevEnd != -1 {
					refIntervals = append(refIntervals, prevStart, prevEnd)
				}
				if opts.Invert {
					refIntervals = append(refIntervals, PosTypeMax)
				}
				bedUnion.nameMap[prevRef] = refIntervals
			}
			// Must make a full copy of curRef contents, since it refers to bytes
			// on curLine that will be overwritten soon, and it needs to persist
			// as a map key.
			prevRef = string(curRef)
			if _, found := bedUnion.nameMap[prevRef]; found {
				err = fmt.Errorf("interval.scanBEDUnion: unsorted input (split reference %v)", prevRef)
				return
			}
			refIntervals = []PosType{}
			if opts.Invert {
				refIntervals = append(refIntervals, -1)
			}
			if end == start {
				// Distinguish between 'mentioned' references without any
				// overlapping bases and unmentioned references.
				prevStart = -1
				prevEnd = -1
			} else {
				prevStart = start
				prevEnd = end
			}
			totBases += int(end - start)
			continue
		}
		if end == start {
			continue
		}
		if start > prevEnd {
			// New interval doesn't overlap the previous one, so the previous one
			// can be saved.
			if prevEnd != -1 {
				refIntervals = append(refIntervals, prevStart, prevEnd)
			}
			prevStart = start
			prevEnd = end
			totBases += int(end - start)
		} else {
			if start < prevStart {
				err = fmt.Errorf("interval.scanBEDUnion: unsorted input (line %d)", lineIdx)
				return
			}
			// Intervals overlap, merge them.
			if end > prevEnd {
				totBases += int(end - prevEnd)
				prevEnd = end
			}
		}
	}
	if err = scanner.Err(); err != nil {
		return
	}
	log.Printf("BED loaded, %d base(s) covered.\n", totBases)
	if prevRef != "" {
		if prevEnd != -1 {
			refIntervals = append(refIntervals, prevStart, prevEnd)
		}
		if opts.Invert {
			refIntervals = append(refIntervals, PosTypeMax)
		}
		bedUnion.nameMap[prevRef] = refIntervals
	}
	return
}

// NewBEDUnion loads just the intervals from a sorted (by first coordinate)
// interval-BED, merging touching/overlapping intervals and eliminating empty
// ones in the process.  A BEDUnion is returned.
func NewBEDUnion(reader io.Reader, opts NewBEDOpts) (bedUnion BEDUnion, err error) {
	// Note that Scanner does not handle very long lines unless we specify an
	// adequate buffer size in advance; it does not auto-resize.
	// Shouldn't matter for BED files, though.
	scanner := bufio.NewScanner(reader)
	return scanBEDUnion(scanner, opts)
}

// NewBEDUnionFromPath is a wrapper for NewBEDUnion that takes a path instead
// of an io.Reader.  Gzipped BEDs are transparently decompressed.
func NewBEDUnionFromPath(path string, opts NewBEDOpts) (bedUnion BEDUnion, err error) {
	ctx := vcontext.Background()
	var infile file.File
	if infile, err = file.Open(ctx, path); err != nil {
		return
	}
	defer func() {
		if cerr := infile.Close(ctx); cerr != nil && err == nil {
			err = cerr
		}
	}()
	reader := io.Reader(infile.Reader(ctx))
	switch fileio.DetermineType(path) {
	case fileio.Gzip:
		if reader, err = gzip.NewReader(reader); err != nil {
			return
		}
	}
	return NewBEDUnion(reader, opts)
}

// Entry represents a single interval, with 0-based coordinates.
type Entry struct {
	RefName string
	Start0  PosType
	End     PosType
}

// NewBEDUnionFromEntries initializes a BEDUnion from a sorted []Entry.
// This ignores opts.OneBasedInput, since Start0 is defined to be zero-based.
func NewBEDUnionFromEntries(entries []Entry, opts NewBEDOpts) (bedUnion BEDUnion, err error) {
	bedUnion = initBEDUnion()
	prevRef := ""
	var prevStart, prevEnd PosType
	var refIntervals []PosType
	for _, entry := range entries {
		curRef := entry.RefName
		if entry.Start0 < 0 {
			err = fmt.Errorf("interval.NewBEDUnionFromEntries: negative start coordinate")
			return
		}
		if (entry.End < entry.Start0) || (entry.End >= PosTypeMax) {
			err = fmt.Errorf("interval.NewBEDUnionFromEntries: invalid coordinate pair [%d, %d)", entry.Start0, entry.End)
			return
		}
		if prevRef != curRef {
			if prevRef != "" {
				if prevEnd != -1 {
					refIntervals = append(refIntervals, prevStart, prevEnd)
				}
				if opts.Invert {
					refIntervals = append(refIntervals, PosTypeMax)
				}
				bedUnion.nameMap[prevRef] = refIntervals
			}
			prevRef = curRef
			if _, found := bedUnion.nameMap[prevRef]; found {
				err = fmt.Errorf("interval.NewBEDUnionFromEntries: unsorted input (split reference %v)", curRef)
				return
			}
			refIntervals = []PosType{}
			if opts.Invert {
				refIntervals = append(refIntervals, -1)
			}
			if entry.End == entry.Start0 {
				prevStart = -1
				prevEnd = -1
				continue
			}
			prevStart = entry.Start0
			prevEnd = entry.End
			continue
		}
		if entry.End == entry.Start0 {
			continue
		}
		if entry.Start0 > prevEnd {
			if prevEnd != -1 {
				refIntervals = append(refIntervals, prevStart, prevEnd)
			}
			prevStart = entry.Start0
			prevEnd = entry.End
		} else {
			if entry.Start0 < prevStart {
				err = fmt.Errorf("interval.NewBEDUnionFromEntries: unsorted input")
				return
			}
			if entry.End > prevEnd {
				prevEnd = entry.End
			}
		}
	}
	if prevRef != "" {
		if prevEnd != -1 {
			refIntervals = append(refIntervals, prevStart, prevEnd)
		}
		if opts.Invert {
			refIntervals = append(refIntervals, PosTypeMax)
		}
		bedUnion.nameMap[prevRef] = refIntervals
	}
	return
}

// Clone returns a new BEDUnion which shares the interval set, but has its own
// search state.  Use it to query one union from multiple goroutines.
func (u *BEDUnion) Clone() (bedUnion BEDUnion) {
	bedUnion.nameMap = u.nameMap
	bedUnion.lastRefIntervals = nil
	bedUnion.lastRefName = ""
	return
}
