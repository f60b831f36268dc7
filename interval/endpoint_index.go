package interval

import (
	"math"
	"sort"
)

// An interval-union over one reference is stored as a sorted []PosType of
// alternating start/end endpoints.  For example, the intervals
//   [5, 15)
//   [7, 17)
//   [20, 25)
// merge into [5, 17) U [20, 25), stored as {5, 17, 20, 25}.  A position p is
// inside the union iff an odd number of endpoints are <= p; EndpointIndex
// tracks that count for membership queries, and UnionScanner walks the
// intervals themselves:
//   us := NewUnionScanner([]PosType{5, 17, 20, 25})
//   var start, end PosType
//   for us.Scan(&start, &end, 22) {
//     for pos := start; pos < end; pos++ {
//       fmt.Printf("%d ", pos)
//     }
//   }
// This prints "5 6 7 8 9 10 11 12 13 14 15 16 20 21 ".  A later
// us.Scan(&start, &end, 30) loop picks up where this one left off.

// PosType is the type used to represent interval coordinates.  int32 should
// be wide enough for some time to come, since that's what BAM is limited to.
type PosType int32

// PosTypeMax is the maximum value that can be represented by a PosType.
const PosTypeMax = math.MaxInt32

// SearchPosTypes returns the index of x in a[], or the position where x
// would be inserted if x isn't in a (this could be len(a)).  It's exactly the
// same as sort.SearchInts(), except for PosType.
func SearchPosTypes(a []PosType, x PosType) EndpointIndex {
	return EndpointIndex(sort.Search(len(a), func(i int) bool { return a[i] >= x }))
}

// EndpointIndex is the number of endpoints in a sorted endpoint slice that
// are <= some position, i.e. SearchPosTypes(endpoints, pos+1).  NOTE THE
// "+1"!  It is what lines the count up with our usual left-closed right-open
// intervals.
type EndpointIndex uint32

// NewEndpointIndex returns the EndpointIndex of pos in endpoints.
func NewEndpointIndex(pos PosType, endpoints []PosType) EndpointIndex {
	return SearchPosTypes(endpoints, pos+1)
}

// Contained returns whether the indexed position is inside an interval.
func (ei EndpointIndex) Contained() bool {
	return ei&1 != 0
}

// Finished returns whether the indexed position is past all the intervals.
func (ei EndpointIndex) Finished(endpoints []PosType) bool {
	return ei >= EndpointIndex(len(endpoints))
}

// Update advances the EndpointIndex to newPos, which cannot be smaller than
// the position the index was built for.  It gallops forward from the current
// index (https://en.wikipedia.org/wiki/Exponential_search ) instead of
// re-searching the whole slice, so it is substantially cheaper than
// NewEndpointIndex when the position increases slowly.
func (ei *EndpointIndex) Update(newPos PosType, endpoints []PosType) {
	x := newPos + 1
	idx := *ei
	lo := idx
	hi := EndpointIndex(len(endpoints))
	for step := EndpointIndex(1); idx < hi; step *= 2 {
		if endpoints[idx] >= x {
			hi = idx
			break
		}
		lo = idx + 1
		idx += step
	}
	// Binary-search the remaining gap.  Spelled out rather than delegated to
	// sort.Search since lo is usually already equal to hi, and the compiler
	// doesn't inline anything with a loop for now.
	for lo < hi {
		mid := EndpointIndex((uint(lo) + uint(hi)) >> 1)
		if endpoints[mid] >= x {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	*ei = lo
}

// UnionScanner supports iteration over the intervals of an endpoint slice.
type UnionScanner struct {
	endpoints []PosType
	// startIdx is the (even) index of the current interval's start endpoint.
	startIdx int
	// resumePos is where the next Scan result begins: the current interval's
	// start, or a mid-interval position if the last Scan was clamped by its
	// limit, or PosTypeMax once the union is exhausted.
	resumePos PosType
}

// NewUnionScanner returns a UnionScanner positioned before the first
// interval.
func NewUnionScanner(endpoints []PosType) UnionScanner {
	us := UnionScanner{endpoints: endpoints, resumePos: PosTypeMax}
	if len(endpoints) > 0 {
		us.resumePos = endpoints[0]
	}
	return us
}

// Pos returns the next position to be iterated over, or PosTypeMax if there
// aren't any.
func (us *UnionScanner) Pos() PosType {
	return us.resumePos
}

// Scan is written so that the following loop iterates over all
// within-interval positions up to (and not including) limit:
//   for us.Scan(&start, &end, limit) {
//     for pos := start; pos < end; pos++ {
//       // ...do stuff with pos...
//     }
//   }
func (us *UnionScanner) Scan(start *PosType, end *PosType, limit PosType) bool {
	if us.resumePos >= limit {
		return false
	}
	*start = us.resumePos
	intervalEnd := us.endpoints[us.startIdx+1]
	if intervalEnd > limit {
		us.resumePos = limit
		*end = limit
		return true
	}
	*end = intervalEnd
	us.startIdx += 2
	if us.startIdx >= len(us.endpoints) {
		us.resumePos = PosTypeMax
	} else {
		us.resumePos = us.endpoints[us.startIdx]
	}
	return true
}
