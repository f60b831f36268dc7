// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package biosimd

func makeCleanASCIISeqTable(capitalize bool) (table [256]byte) {
	for i := range table {
		table[i] = 'N'
	}
	table['A'], table['C'], table['G'], table['T'] = 'A', 'C', 'G', 'T'
	if capitalize {
		table['a'], table['c'], table['g'], table['t'] = 'A', 'C', 'G', 'T'
	} else {
		table['a'], table['c'], table['g'], table['t'] = 'a', 'c', 'g', 't'
	}
	return
}

func makeNotBaseTable(bases string) (table [256]bool) {
	for i := range table {
		table[i] = true
	}
	for i := 0; i < len(bases); i++ {
		table[bases[i]] = false
	}
	return
}

var (
	cleanASCIISeqTable             = makeCleanASCIISeqTable(true)
	cleanASCIISeqNoCapitalizeTable = makeCleanASCIISeqTable(false)
	isNotCapitalACGTTable          = makeNotBaseTable("ACGT")
	isNotCapitalACGTNTable         = makeNotBaseTable("ACGTN")
)

// CleanASCIISeqInplace capitalizes 'a'/'c'/'g'/'t', and replaces everything
// non-ACGT with 'N'.
func CleanASCIISeqInplace(ascii8 []byte) {
	for pos, ascii8Byte := range ascii8 {
		ascii8[pos] = cleanASCIISeqTable[ascii8Byte]
	}
}

// CleanASCIISeqNoCapitalizeInplace replaces everything non-ACGTacgt with
// 'N'.
func CleanASCIISeqNoCapitalizeInplace(ascii8 []byte) {
	for pos, ascii8Byte := range ascii8 {
		ascii8[pos] = cleanASCIISeqNoCapitalizeTable[ascii8Byte]
	}
}

// IsNonACGTPresent returns true iff there is a non-capital-ACGT character in
// the slice.
func IsNonACGTPresent(ascii8 []byte) bool {
	for _, ascii8Byte := range ascii8 {
		if isNotCapitalACGTTable[ascii8Byte] {
			return true
		}
	}
	return false
}

// IsNonACGTNPresent returns true iff there is a non-capital-ACGTN character
// in the slice.
func IsNonACGTNPresent(ascii8 []byte) bool {
	for _, ascii8Byte := range ascii8 {
		if isNotCapitalACGTNTable[ascii8Byte] {
			return true
		}
	}
	return false
}
