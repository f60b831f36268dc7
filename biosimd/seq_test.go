// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package biosimd_test

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/grailbio/base/simd"
	"github.com/grailbio/coverbed/biosimd"
)

func cleanASCIISeqSlow(ascii8 []byte, capitalize bool) {
	for pos, b := range ascii8 {
		switch b {
		case 'A', 'C', 'G', 'T':
		case 'a', 'c', 'g', 't':
			if capitalize {
				ascii8[pos] = b - 'a' + 'A'
			}
		default:
			ascii8[pos] = 'N'
		}
	}
}

func TestCleanASCIISeq(t *testing.T) {
	maxSize := 500
	nIter := 200
	main1Arr := simd.MakeUnsafe(maxSize)
	main2Arr := simd.MakeUnsafe(maxSize)
	for iter := 0; iter < nIter; iter++ {
		sliceStart := rand.Intn(maxSize)
		sliceEnd := sliceStart + rand.Intn(maxSize-sliceStart)
		main1Slice := main1Arr[sliceStart:sliceEnd]
		main2Slice := main2Arr[sliceStart:sliceEnd]
		for ii := range main1Slice {
			main1Slice[ii] = byte(rand.Intn(256))
		}
		copy(main2Slice, main1Slice)
		sentinel := byte(rand.Intn(256))
		main2Arr[sliceEnd] = sentinel
		capitalize := iter&1 == 0
		if capitalize {
			biosimd.CleanASCIISeqInplace(main2Slice)
		} else {
			biosimd.CleanASCIISeqNoCapitalizeInplace(main2Slice)
		}
		cleanASCIISeqSlow(main1Slice, capitalize)
		if !bytes.Equal(main1Slice, main2Slice) {
			t.Fatal("Mismatched CleanASCIISeqInplace result.")
		}
		if main2Arr[sliceEnd] != sentinel {
			t.Fatal("CleanASCIISeqInplace clobbered an extra byte.")
		}
	}
}

func TestIsNonACGTPresent(t *testing.T) {
	tests := []struct {
		seq      string
		nonACGT  bool
		nonACGTN bool
	}{
		{"", false, false},
		{"ACGT", false, false},
		{"ACGTN", true, false},
		{"acgt", true, true},
		{"ACGU", true, true},
		{"ACG T", true, true},
	}
	for _, tt := range tests {
		if got := biosimd.IsNonACGTPresent([]byte(tt.seq)); got != tt.nonACGT {
			t.Errorf("IsNonACGTPresent(%q) = %v, want %v", tt.seq, got, tt.nonACGT)
		}
		if got := biosimd.IsNonACGTNPresent([]byte(tt.seq)); got != tt.nonACGTN {
			t.Errorf("IsNonACGTNPresent(%q) = %v, want %v", tt.seq, got, tt.nonACGTN)
		}
	}
	// A sequence with no non-ACGTN character is by definition a fixed point
	// of CleanASCIISeqInplace.
	for iter := 0; iter < 100; iter++ {
		seq := make([]byte, rand.Intn(100))
		for i := range seq {
			seq[i] = "ACGTN"[rand.Intn(5)]
		}
		cleaned := append([]byte{}, seq...)
		biosimd.CleanASCIISeqInplace(cleaned)
		if biosimd.IsNonACGTNPresent(seq) || !bytes.Equal(seq, cleaned) {
			t.Fatal("ACGTN-only sequence changed by CleanASCIISeqInplace.")
		}
	}
}
