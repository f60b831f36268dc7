package interval

import (
	"testing"

	"github.com/grailbio/testutil/expect"
)

func TestUnionScanner(t *testing.T) {
	endpoints := []PosType{5, 17, 20, 25}
	us := NewUnionScanner(endpoints)
	var start, end PosType
	var got []PosType
	for us.Scan(&start, &end, 22) {
		for pos := start; pos < end; pos++ {
			got = append(got, pos)
		}
	}
	expect.EQ(t, got, []PosType{
		5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16,
		20, 21})

	// Resume where the previous limit stopped.
	got = got[:0]
	for us.Scan(&start, &end, 30) {
		for pos := start; pos < end; pos++ {
			got = append(got, pos)
		}
	}
	expect.EQ(t, got, []PosType{22, 23, 24})

	// Past the final interval.
	expect.EQ(t, us.Pos(), PosType(PosTypeMax))
	if us.Scan(&start, &end, PosTypeMax) {
		t.Errorf("Scan should return false once the union is exhausted")
	}
}

func TestUnionScannerEmpty(t *testing.T) {
	us := NewUnionScanner(nil)
	var start, end PosType
	if us.Scan(&start, &end, 100) {
		t.Errorf("Scan should return false for an empty union")
	}
}

func TestEndpointIndex(t *testing.T) {
	endpoints := []PosType{5, 17, 20, 25}
	tests := []struct {
		pos       PosType
		contained bool
	}{
		{0, false},
		{4, false},
		{5, true},
		{16, true},
		{17, false},
		{19, false},
		{20, true},
		{24, true},
		{25, false},
	}
	for _, tt := range tests {
		idx := NewEndpointIndex(tt.pos, endpoints)
		if idx.Contained() != tt.contained {
			t.Errorf("pos=%d: got %v, want %v", tt.pos, idx.Contained(), tt.contained)
		}
	}

	// Update must agree with NewEndpointIndex on nondecreasing queries.
	idx := NewEndpointIndex(0, endpoints)
	for pos := PosType(0); pos < 30; pos++ {
		idx.Update(pos, endpoints)
		if got := NewEndpointIndex(pos, endpoints); idx != got {
			t.Errorf("pos=%d: Update gave %d, NewEndpointIndex gave %d", pos, idx, got)
		}
	}
	expect.EQ(t, idx.Finished(endpoints), true)
}
